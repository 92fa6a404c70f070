package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// TransactionCreate carries the client-settable fields of a new
// transaction.
type TransactionCreate struct {
	AccountID       int64     `json:"account_id" validate:"required"`
	Amount          float64   `json:"amount" validate:"required,gt=0"`
	Description     string    `json:"description" validate:"required"`
	Category        string    `json:"category" validate:"required"`
	TransactionType string    `json:"transaction_type" validate:"required,oneof=income expense transfer"`
	Date            time.Time `json:"date" validate:"required"`
}

// TransactionUpdate is a partial update; nil fields stay untouched. The
// account cannot be moved.
type TransactionUpdate struct {
	Amount          *float64   `json:"amount" validate:"omitempty,gt=0"`
	Description     *string    `json:"description"`
	Category        *string    `json:"category"`
	TransactionType *string    `json:"transaction_type" validate:"omitempty,oneof=income expense transfer"`
	Date            *time.Time `json:"date"`
}

// TransactionFilter narrows ListTransactions.
type TransactionFilter struct {
	Category        string
	TransactionType string
	AccountID       int64
	StartDate       *time.Time
	EndDate         *time.Time
	Limit           int
	Offset          int
}

// signedEffect is the contribution of a transaction to its account
// balance: income adds, expense subtracts, anything else is neutral.
func signedEffect(transactionType string, amount float64) float64 {
	switch transactionType {
	case "income":
		return amount
	case "expense":
		return -amount
	default:
		return 0
	}
}

// applyUpdate merges a partial update into a transaction row.
func applyUpdate(t Transaction, in TransactionUpdate) Transaction {
	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Category != nil {
		t.Category = *in.Category
	}
	if in.TransactionType != nil {
		t.TransactionType = *in.TransactionType
	}
	if in.Date != nil {
		t.Date = *in.Date
	}
	return t
}

const transactionColumns = `id, user_id, account_id, amount, description, category,
	transaction_type, date, external_transaction_id, merchant_name, created_at`

func scanTransaction(row pgx.Row) (*Transaction, error) {
	t := &Transaction{}
	err := row.Scan(&t.ID, &t.UserID, &t.AccountID, &t.Amount, &t.Description, &t.Category,
		&t.TransactionType, &t.Date, &t.ExternalTransactionID, &t.MerchantName, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: scan transaction: %w", err)
	}
	return t, nil
}

// CreateTransaction inserts the row and applies its effect to the account
// balance in one database transaction. The account must belong to the
// user.
func (s *Store) CreateTransaction(ctx context.Context, userID int64, in TransactionCreate) (*Transaction, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var accountOwner int64
	err = tx.QueryRow(ctx, `SELECT user_id FROM accounts WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		in.AccountID, userID).Scan(&accountOwner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: lock account: %w", err)
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, account_id, amount, description, category, transaction_type, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+transactionColumns,
		userID, in.AccountID, in.Amount, in.Description, in.Category, in.TransactionType, in.Date,
	)
	t, err := scanTransaction(row)
	if err != nil {
		return nil, err
	}

	if err := adjustBalance(ctx, tx, in.AccountID, signedEffect(in.TransactionType, in.Amount)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}
	return t, nil
}

// UpdateTransaction reverses the old balance effect, applies the patch
// and applies the new effect, all in one database transaction.
func (s *Store) UpdateTransaction(ctx context.Context, userID, transactionID int64, in TransactionUpdate) (*Transaction, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	old, err := scanTransaction(tx.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`,
		transactionID, userID,
	))
	if err != nil {
		return nil, err
	}

	updated := applyUpdate(*old, in)
	row := tx.QueryRow(ctx, `
		UPDATE transactions
		SET amount = $3, description = $4, category = $5, transaction_type = $6, date = $7
		WHERE id = $1 AND user_id = $2
		RETURNING `+transactionColumns,
		transactionID, userID, updated.Amount, updated.Description, updated.Category,
		updated.TransactionType, updated.Date,
	)
	t, err := scanTransaction(row)
	if err != nil {
		return nil, err
	}

	delta := signedEffect(updated.TransactionType, updated.Amount) - signedEffect(old.TransactionType, old.Amount)
	if err := adjustBalance(ctx, tx, old.AccountID, delta); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}
	return t, nil
}

// DeleteTransaction removes the row and reverses its balance effect.
func (s *Store) DeleteTransaction(ctx context.Context, userID, transactionID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	old, err := scanTransaction(tx.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`,
		transactionID, userID,
	))
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, transactionID); err != nil {
		return fmt.Errorf("store: delete transaction: %w", err)
	}
	if err := adjustBalance(ctx, tx, old.AccountID, -signedEffect(old.TransactionType, old.Amount)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

func adjustBalance(ctx context.Context, tx pgx.Tx, accountID int64, delta float64) error {
	if delta == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		UPDATE accounts SET balance = balance + $1, updated_at = now()
		WHERE id = $2`,
		delta, accountID,
	)
	if err != nil {
		return fmt.Errorf("store: adjust balance: %w", err)
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, transactionID int64) (*Transaction, error) {
	return scanTransaction(s.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1 AND user_id = $2`,
		transactionID, userID,
	))
}

// ListTransactions returns the user's transactions newest first,
// narrowed by the filter.
func (s *Store) ListTransactions(ctx context.Context, userID int64, f TransactionFilter) ([]Transaction, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`)
	args := []any{userID}

	add := func(clause string, v any) {
		args = append(args, v)
		b.WriteString(" AND " + clause + "$" + strconv.Itoa(len(args)))
	}
	if f.Category != "" {
		add("category = ", f.Category)
	}
	if f.TransactionType != "" {
		add("transaction_type = ", f.TransactionType)
	}
	if f.AccountID != 0 {
		add("account_id = ", f.AccountID)
	}
	if f.StartDate != nil {
		add("date >= ", *f.StartDate)
	}
	if f.EndDate != nil {
		add("date <= ", *f.EndDate)
	}

	b.WriteString(" ORDER BY date DESC")
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	b.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	if f.Offset > 0 {
		args = append(args, f.Offset)
		b.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}

	rows, err := s.pool.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("store: list transactions: %w", err)
	}
	defer rows.Close()

	out := []Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list transactions: %w", err)
	}
	return out, nil
}

// MonthlySummary aggregates one calendar month of transactions.
type MonthlySummary struct {
	TotalIncome       float64                       `json:"total_income"`
	TotalExpenses     float64                       `json:"total_expenses"`
	NetIncome         float64                       `json:"net_income"`
	CategoryBreakdown map[string]map[string]float64 `json:"category_breakdown"`
	TransactionCount  int                           `json:"transaction_count"`
}

// monthRange returns [first of month, first of next month).
func monthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func (s *Store) GetMonthlySummary(ctx context.Context, userID int64, year, month int) (*MonthlySummary, error) {
	start, end := monthRange(year, month)
	rows, err := s.pool.Query(ctx, `
		SELECT amount, category, transaction_type
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3`,
		userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("store: monthly summary: %w", err)
	}
	defer rows.Close()

	sum := &MonthlySummary{CategoryBreakdown: map[string]map[string]float64{}}
	for rows.Next() {
		var amount float64
		var category, txnType string
		if err := rows.Scan(&amount, &category, &txnType); err != nil {
			return nil, fmt.Errorf("store: monthly summary: %w", err)
		}

		switch txnType {
		case "income":
			sum.TotalIncome += amount
		case "expense":
			sum.TotalExpenses += amount
		}
		if _, ok := sum.CategoryBreakdown[category]; !ok {
			sum.CategoryBreakdown[category] = map[string]float64{"income": 0, "expense": 0}
		}
		sum.CategoryBreakdown[category][txnType] += amount
		sum.TransactionCount++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: monthly summary: %w", err)
	}
	sum.NetIncome = sum.TotalIncome - sum.TotalExpenses
	return sum, nil
}

// IncomeExpenseTotals sums income and expenses since a cutoff, used by
// the health scorer.
func (s *Store) IncomeExpenseTotals(ctx context.Context, userID int64, since time.Time) (income, expenses float64, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'income'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1 AND date >= $2`,
		userID, since,
	).Scan(&income, &expenses)
	if err != nil {
		return 0, 0, fmt.Errorf("store: income/expense totals: %w", err)
	}
	return income, expenses, nil
}

// ExpensesSince returns the expense rows the spending analyzer needs.
func (s *Store) ExpensesSince(ctx context.Context, userID int64, since time.Time) ([]Transaction, error) {
	return s.ListTransactions(ctx, userID, TransactionFilter{
		TransactionType: "expense",
		StartDate:       &since,
		Limit:           10000,
	})
}
