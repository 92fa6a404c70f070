package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreateBankConnection records a new institution link.
func (s *Store) CreateBankConnection(ctx context.Context, userID int64, institutionName, bankToken string) (*BankConnection, error) {
	c := &BankConnection{UserID: userID, InstitutionName: institutionName, BankToken: bankToken, IsActive: true}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO bank_connections (user_id, institution_name, bank_token)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		userID, institutionName, bankToken,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: create bank connection: %w", err)
	}
	return c, nil
}

// BankConnection loads one active connection owned by the user.
func (s *Store) BankConnection(ctx context.Context, userID, connectionID int64) (*BankConnection, error) {
	c := &BankConnection{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, institution_name, bank_token, is_active, created_at
		FROM bank_connections
		WHERE id = $1 AND user_id = $2 AND is_active`,
		connectionID, userID,
	).Scan(&c.ID, &c.UserID, &c.InstitutionName, &c.BankToken, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: load bank connection: %w", err)
	}
	return c, nil
}

// ListBankConnections returns the user's active connections.
func (s *Store) ListBankConnections(ctx context.Context, userID int64) ([]BankConnection, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, institution_name, bank_token, is_active, created_at
		FROM bank_connections
		WHERE user_id = $1 AND is_active
		ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list bank connections: %w", err)
	}
	defer rows.Close()

	out := []BankConnection{}
	for rows.Next() {
		var c BankConnection
		if err := rows.Scan(&c.ID, &c.UserID, &c.InstitutionName, &c.BankToken, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan bank connection: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list bank connections: %w", err)
	}
	return out, nil
}

// CountConnectionAccounts reports how many accounts hang off a
// connection.
func (s *Store) CountConnectionAccounts(ctx context.Context, connectionID int64) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM accounts WHERE bank_connection_id = $1`,
		connectionID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count connection accounts: %w", err)
	}
	return n, nil
}

// DisconnectBank deactivates a connection and every account linked to
// it.
func (s *Store) DisconnectBank(ctx context.Context, userID, connectionID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE bank_connections SET is_active = FALSE
		WHERE id = $1 AND user_id = $2 AND is_active`,
		connectionID, userID,
	)
	if err != nil {
		return fmt.Errorf("store: disconnect bank: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
		UPDATE accounts SET is_active = FALSE, updated_at = now()
		WHERE bank_connection_id = $1`,
		connectionID,
	); err != nil {
		return fmt.Errorf("store: deactivate linked accounts: %w", err)
	}
	return tx.Commit(ctx)
}

// LinkExternalAccount inserts an imported account unless the external id
// is already present; either way the linked row is returned.
func (s *Store) LinkExternalAccount(ctx context.Context, userID, connectionID int64, externalID, name, accountType, currency string, balance float64) (*Account, bool, error) {
	existing, err := scanAccount(s.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1 AND external_account_id = $2`,
		userID, externalID,
	))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	a, err := scanAccount(s.pool.QueryRow(ctx, `
		INSERT INTO accounts (user_id, name, account_type, currency, balance, external_account_id, bank_connection_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+accountColumns,
		userID, name, accountType, currency, balance, externalID, connectionID,
	))
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

// ConnectionAccounts lists accounts linked to one connection.
func (s *Store) ConnectionAccounts(ctx context.Context, userID, connectionID int64) ([]Account, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1 AND bank_connection_id = $2
		ORDER BY id`,
		userID, connectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: connection accounts: %w", err)
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
		return nil, fmt.Errorf("store: connection accounts: %w", err)
	}
	return out, nil
}

// InsertImportedTransaction stores a feed transaction unless its
// external id was imported before. Reports whether a row was written.
func (s *Store) InsertImportedTransaction(ctx context.Context, t Transaction) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO transactions (user_id, account_id, amount, description, category, transaction_type, date, external_transaction_id, merchant_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (external_transaction_id) DO NOTHING`,
		t.UserID, t.AccountID, t.Amount, t.Description, t.Category, t.TransactionType,
		t.Date, t.ExternalTransactionID, t.MerchantName,
	)
	if err != nil {
		return false, fmt.Errorf("store: insert imported transaction: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetAccountBalance overwrites the balance, used when reconciling an
// imported account against its feed.
func (s *Store) SetAccountBalance(ctx context.Context, accountID int64, balance float64) error {
	if _, err := s.pool.Exec(ctx, `
		UPDATE accounts SET balance = $1, updated_at = now() WHERE id = $2`,
		balance, accountID,
	); err != nil {
		return fmt.Errorf("store: set balance: %w", err)
	}
	return nil
}

// BalanceTotals returns the active-account balance sum and the savings
// subset, the balance inputs of the health scorer.
func (s *Store) BalanceTotals(ctx context.Context, userID int64) (total, savings float64, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(balance), 0),
		       COALESCE(SUM(balance) FILTER (WHERE account_type = 'savings'), 0)
		FROM accounts
		WHERE user_id = $1 AND is_active`,
		userID,
	).Scan(&total, &savings)
	if err != nil {
		return 0, 0, fmt.Errorf("store: balance totals: %w", err)
	}
	return total, savings, nil
}
