// Package bank links external bank accounts and imports their
// transaction feeds. The feed itself is served by an in-process mock;
// the import pipeline does not care.
package bank

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// FeedAccount is one account as the bank reports it.
type FeedAccount struct {
	AccountID       string  `json:"account_id"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Balance         float64 `json:"balance"`
	Currency        string  `json:"currency"`
	InstitutionName string  `json:"institution_name"`
}

// FeedTransaction is one transaction as the bank reports it: signed
// amount, positive for money in.
type FeedTransaction struct {
	TransactionID string    `json:"transaction_id"`
	AccountID     string    `json:"account_id"`
	Amount        float64   `json:"amount"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Date          time.Time `json:"date"`
	MerchantName  string    `json:"merchant_name"`
}

// FeedAPI is what the import pipeline needs from a bank.
type FeedAPI interface {
	Accounts(token string) ([]FeedAccount, error)
	Transactions(token, accountID string, days int) ([]FeedTransaction, error)
}

// MockFeed fabricates deterministic bank data: the same token always
// yields the same accounts and transactions, so demos and tests are
// reproducible.
type MockFeed struct {
	now func() time.Time
}

func NewMockFeed() *MockFeed {
	return &MockFeed{now: time.Now}
}

// NewMockFeedWithClock pins the date window for tests.
func NewMockFeedWithClock(now func() time.Time) *MockFeed {
	return &MockFeed{now: now}
}

func seedFor(parts ...string) int64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return int64(h.Sum64() & math.MaxInt64)
}

// Accounts returns a checking, a savings and a credit card account for
// any token.
func (m *MockFeed) Accounts(token string) ([]FeedAccount, error) {
	faker := gofakeit.New(seedFor("accounts", token))
	institution := faker.Company() + " Bank"

	return []FeedAccount{
		{
			AccountID:       fmt.Sprintf("checking_%s", faker.DigitN(6)),
			Name:            "Primary Checking",
			Type:            "checking",
			Balance:         faker.Float64Range(500, 25000),
			Currency:        "USD",
			InstitutionName: institution,
		},
		{
			AccountID:       fmt.Sprintf("savings_%s", faker.DigitN(6)),
			Name:            "High Yield Savings",
			Type:            "savings",
			Balance:         faker.Float64Range(1000, 60000),
			Currency:        "USD",
			InstitutionName: institution,
		},
		{
			AccountID:       fmt.Sprintf("credit_%s", faker.DigitN(6)),
			Name:            faker.CreditCardType() + " Card",
			Type:            "credit_card",
			Balance:         -faker.Float64Range(100, 4000),
			Currency:        "USD",
			InstitutionName: institution,
		},
	}, nil
}

var feedCategories = []string{"groceries", "dining", "transportation", "utilities", "entertainment", "shopping", "income"}

// Transactions returns 50 transactions over the trailing window, newest
// first. Ids are stable per token and account so re-imports dedupe.
func (m *MockFeed) Transactions(token, accountID string, days int) ([]FeedTransaction, error) {
	faker := gofakeit.New(seedFor("transactions", token, accountID))
	now := m.now()

	out := make([]FeedTransaction, 0, 50)
	for i := 0; i < 50; i++ {
		category := feedCategories[faker.Number(0, len(feedCategories)-1)]
		age := time.Duration(faker.Number(0, days*24*3600)) * time.Second

		t := FeedTransaction{
			TransactionID: fmt.Sprintf("%s_txn_%03d", accountID, i),
			AccountID:     accountID,
			Date:          now.Add(-age),
			Category:      category,
		}
		if category == "income" {
			t.Amount = float64(faker.Number(2000, 5000))
			t.Description = "Salary Deposit"
			t.MerchantName = "Employer"
		} else {
			t.Amount = -float64(faker.Number(20, 500))
			t.Description = faker.ProductName()
			t.MerchantName = faker.Company()
		}
		out = append(out, t)
	}

	// Newest first, like a real feed.
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}
