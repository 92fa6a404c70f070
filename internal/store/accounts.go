package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, user_id, name, account_type, currency, description, balance,
	external_account_id, bank_connection_id, is_active, created_at, updated_at`

func scanAccount(row pgx.Row) (*Account, error) {
	a := &Account{}
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.AccountType, &a.Currency, &a.Description,
		&a.Balance, &a.ExternalAccountID, &a.BankConnectionID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: scan account: %w", err)
	}
	return a, nil
}

// AccountCreate carries the client-settable fields of a new account.
type AccountCreate struct {
	Name        string  `json:"name" validate:"required"`
	AccountType string  `json:"account_type" validate:"required,oneof=checking savings credit_card investment cash"`
	Currency    string  `json:"currency" validate:"omitempty,len=3"`
	Description *string `json:"description"`
}

// AccountUpdate carries a partial update; nil fields stay untouched.
type AccountUpdate struct {
	Name        *string `json:"name"`
	AccountType *string `json:"account_type" validate:"omitempty,oneof=checking savings credit_card investment cash"`
	Description *string `json:"description"`
}

func (s *Store) CreateAccount(ctx context.Context, userID int64, in AccountCreate) (*Account, error) {
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO accounts (user_id, name, account_type, currency, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+accountColumns,
		userID, in.Name, in.AccountType, currency, in.Description,
	)
	return scanAccount(row)
}

// ListAccounts returns the user's active accounts.
func (s *Store) ListAccounts(ctx context.Context, userID int64) ([]Account, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1 AND is_active
		ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list accounts: %w", err)
	}
	defer rows.Close()

	out := []Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list accounts: %w", err)
	}
	return out, nil
}

func (s *Store) GetAccount(ctx context.Context, userID, accountID int64) (*Account, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1 AND user_id = $2`,
		accountID, userID,
	)
	return scanAccount(row)
}

func (s *Store) UpdateAccount(ctx context.Context, userID, accountID int64, in AccountUpdate) (*Account, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE accounts
		SET name         = COALESCE($3, name),
		    account_type = COALESCE($4, account_type),
		    description  = COALESCE($5, description),
		    updated_at   = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+accountColumns,
		accountID, userID, in.Name, in.AccountType, in.Description,
	)
	return scanAccount(row)
}

// DeleteAccount soft-deletes: the row stays for transaction history.
func (s *Store) DeleteAccount(ctx context.Context, userID, accountID int64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE accounts SET is_active = FALSE, updated_at = now()
		WHERE id = $1 AND user_id = $2`,
		accountID, userID,
	)
	if err != nil {
		return fmt.Errorf("store: delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
