// Command seed fills a database with demo data: one known login plus
// fake accounts, transactions and budgets, so the API has something to
// serve out of the box.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"

	"ezanafinance/internal/store"
)

var expenseCategories = []string{"groceries", "dining", "transportation", "utilities", "entertainment", "shopping"}

func main() {
	_ = godotenv.Load()

	email := flag.String("email", "demo@ezana.dev", "demo user email")
	password := flag.String("password", "demo-password", "demo user password")
	months := flag.Int("months", 3, "months of transaction history")
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	st, err := store.Open(ctx, databaseURL)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()

	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("store: %v", err)
	}

	user, err := st.Register(ctx, *email, *password, gofakeit.FirstName(), gofakeit.LastName())
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			log.Fatalf("user %s already exists; drop the database or pick another email", *email)
		}
		log.Fatalf("register: %v", err)
	}
	log.Printf("created user %s (id %d)", user.Email, user.ID)

	checking, err := st.CreateAccount(ctx, user.ID, store.AccountCreate{
		Name: "Primary Checking", AccountType: "checking",
	})
	if err != nil {
		log.Fatalf("account: %v", err)
	}
	savings, err := st.CreateAccount(ctx, user.ID, store.AccountCreate{
		Name: "High Yield Savings", AccountType: "savings",
	})
	if err != nil {
		log.Fatalf("account: %v", err)
	}

	seedTransactions(ctx, st, user.ID, checking.ID, savings.ID, *months)
	seedBudgets(ctx, st, user.ID)

	log.Printf("done; log in as %s / %s", *email, *password)
}

func seedTransactions(ctx context.Context, st *store.Store, userID, checkingID, savingsID int64, months int) {
	now := time.Now()
	for m := 0; m < months; m++ {
		monthStart := now.AddDate(0, -m, 0)

		_, err := st.CreateTransaction(ctx, userID, store.TransactionCreate{
			AccountID:       checkingID,
			Amount:          float64(gofakeit.Number(3500, 5500)),
			Description:     "Salary Deposit",
			Category:        "income",
			TransactionType: "income",
			Date:            monthStart,
		})
		if err != nil {
			log.Fatalf("transaction: %v", err)
		}

		_, err = st.CreateTransaction(ctx, userID, store.TransactionCreate{
			AccountID:       savingsID,
			Amount:          float64(gofakeit.Number(300, 900)),
			Description:     "Monthly savings transfer",
			Category:        "income",
			TransactionType: "income",
			Date:            monthStart,
		})
		if err != nil {
			log.Fatalf("transaction: %v", err)
		}

		for i := 0; i < gofakeit.Number(20, 40); i++ {
			category := expenseCategories[gofakeit.Number(0, len(expenseCategories)-1)]
			_, err := st.CreateTransaction(ctx, userID, store.TransactionCreate{
				AccountID:       checkingID,
				Amount:          gofakeit.Price(10, 300),
				Description:     gofakeit.ProductName(),
				Category:        category,
				TransactionType: "expense",
				Date:            monthStart.AddDate(0, 0, -gofakeit.Number(0, 27)),
			})
			if err != nil {
				log.Fatalf("transaction: %v", err)
			}
		}
	}
	log.Printf("seeded %d months of transactions", months)
}

func seedBudgets(ctx context.Context, st *store.Store, userID int64) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)

	for _, category := range expenseCategories[:4] {
		_, err := st.CreateBudget(ctx, userID, store.BudgetCreate{
			Name:      gofakeit.BuzzWord() + " budget",
			Category:  category,
			Amount:    float64(gofakeit.Number(200, 800)),
			Period:    "monthly",
			StartDate: monthStart,
			EndDate:   monthEnd,
		})
		if err != nil {
			log.Fatalf("budget: %v", err)
		}
	}
	log.Println("seeded budgets")
}
