package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// BudgetCreate carries the client-settable fields of a new budget.
type BudgetCreate struct {
	Name      string    `json:"name" validate:"required"`
	Category  string    `json:"category" validate:"required"`
	Amount    float64   `json:"amount" validate:"required,gte=0"`
	Period    string    `json:"period" validate:"required,oneof=weekly monthly quarterly yearly"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

// BudgetUpdate is a partial update; nil fields stay untouched.
type BudgetUpdate struct {
	Name      *string    `json:"name"`
	Category  *string    `json:"category"`
	Amount    *float64   `json:"amount" validate:"omitempty,gte=0"`
	Period    *string    `json:"period" validate:"omitempty,oneof=weekly monthly quarterly yearly"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

const budgetColumns = `id, user_id, name, category, amount, spent, period, start_date, end_date, is_active, created_at`

func scanBudget(row pgx.Row) (*Budget, error) {
	b := &Budget{}
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Category, &b.Amount, &b.Spent,
		&b.Period, &b.StartDate, &b.EndDate, &b.IsActive, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: scan budget: %w", err)
	}
	return b, nil
}

// SpentInPeriod sums expense amounts in the category between start and
// end, inclusive. The transaction log is the source of truth for spent.
func (s *Store) SpentInPeriod(ctx context.Context, userID int64, category string, start, end time.Time) (float64, error) {
	var spent float64
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category = $2 AND transaction_type = 'expense'
		  AND date >= $3 AND date <= $4`,
		userID, category, start, end,
	).Scan(&spent)
	if err != nil {
		return 0, fmt.Errorf("store: spent in period: %w", err)
	}
	return spent, nil
}

// refreshSpent recomputes a budget's spent from the transaction log and
// writes it back to the row.
func (s *Store) refreshSpent(ctx context.Context, b *Budget) error {
	spent, err := s.SpentInPeriod(ctx, b.UserID, b.Category, b.StartDate, b.EndDate)
	if err != nil {
		return err
	}
	if spent != b.Spent {
		if _, err := s.pool.Exec(ctx, `UPDATE budgets SET spent = $1 WHERE id = $2`, spent, b.ID); err != nil {
			return fmt.Errorf("store: write back spent: %w", err)
		}
		b.Spent = spent
	}
	return nil
}

func (s *Store) CreateBudget(ctx context.Context, userID int64, in BudgetCreate) (*Budget, error) {
	b, err := scanBudget(s.pool.QueryRow(ctx, `
		INSERT INTO budgets (user_id, name, category, amount, period, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+budgetColumns,
		userID, in.Name, in.Category, in.Amount, in.Period, in.StartDate, in.EndDate,
	))
	if err != nil {
		return nil, err
	}
	if err := s.refreshSpent(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBudgets returns the user's budgets with spent refreshed on read.
func (s *Store) ListBudgets(ctx context.Context, userID int64, activeOnly bool) ([]Budget, error) {
	q := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1`
	if activeOnly {
		q += ` AND is_active`
	}
	q += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list budgets: %w", err)
	}
	defer rows.Close()

	out := []Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list budgets: %w", err)
	}

	for i := range out {
		if err := s.refreshSpent(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) GetBudget(ctx context.Context, userID, budgetID int64) (*Budget, error) {
	b, err := scanBudget(s.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+` FROM budgets WHERE id = $1 AND user_id = $2`,
		budgetID, userID,
	))
	if err != nil {
		return nil, err
	}
	if err := s.refreshSpent(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) UpdateBudget(ctx context.Context, userID, budgetID int64, in BudgetUpdate) (*Budget, error) {
	b, err := scanBudget(s.pool.QueryRow(ctx, `
		UPDATE budgets
		SET name       = COALESCE($3, name),
		    category   = COALESCE($4, category),
		    amount     = COALESCE($5, amount),
		    period     = COALESCE($6, period),
		    start_date = COALESCE($7, start_date),
		    end_date   = COALESCE($8, end_date)
		WHERE id = $1 AND user_id = $2
		RETURNING `+budgetColumns,
		budgetID, userID, in.Name, in.Category, in.Amount, in.Period, in.StartDate, in.EndDate,
	))
	if err != nil {
		return nil, err
	}
	// Category or period may have changed; recompute against the log.
	if err := s.refreshSpent(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBudget soft-deletes.
func (s *Store) DeleteBudget(ctx context.Context, userID, budgetID int64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE budgets SET is_active = FALSE WHERE id = $1 AND user_id = $2`,
		budgetID, userID,
	)
	if err != nil {
		return fmt.Errorf("store: delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveBudgets returns active budgets whose period has not ended, with
// spent refreshed. Used by the overview.
func (s *Store) ActiveBudgets(ctx context.Context, userID int64, now time.Time) ([]Budget, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1 AND is_active AND end_date >= $2
		ORDER BY id`,
		userID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("store: active budgets: %w", err)
	}
	defer rows.Close()

	out := []Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: active budgets: %w", err)
	}

	for i := range out {
		if err := s.refreshSpent(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
