// Package store is the persistence layer: one Store over a pgx pool, raw
// SQL per operation, no ORM. Ownership checks live in the queries
// themselves (every user-scoped statement filters on user_id) so a
// foreign row is indistinguishable from a missing one.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a row does not exist or belongs to
// another user.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned on unique-constraint violations, e.g.
// registering an email twice.
var ErrDuplicate = errors.New("already exists")

type Store struct {
	pool *pgxpool.Pool
}

// Open connects to postgres and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates all tables when they are missing. Idempotent, run
// at startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	is_verified   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_login    TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS user_profiles (
	user_id            BIGINT PRIMARY KEY REFERENCES users(id),
	phone              TEXT,
	address            TEXT,
	city               TEXT,
	state              TEXT,
	zip_code           TEXT,
	country            TEXT NOT NULL DEFAULT 'US',
	risk_tolerance     TEXT NOT NULL DEFAULT 'moderate',
	investment_goals   JSONB,
	investment_horizon TEXT NOT NULL DEFAULT 'long_term',
	annual_income      DOUBLE PRECISION,
	net_worth          DOUBLE PRECISION,
	bio                TEXT
);

CREATE TABLE IF NOT EXISTS user_sessions (
	token      TEXT PRIMARY KEY,
	user_id    BIGINT NOT NULL REFERENCES users(id),
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS bank_connections (
	id               BIGSERIAL PRIMARY KEY,
	user_id          BIGINT NOT NULL REFERENCES users(id),
	institution_name TEXT NOT NULL,
	bank_token       TEXT NOT NULL,
	is_active        BOOLEAN NOT NULL DEFAULT TRUE,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS accounts (
	id                  BIGSERIAL PRIMARY KEY,
	user_id             BIGINT NOT NULL REFERENCES users(id),
	name                TEXT NOT NULL,
	account_type        TEXT NOT NULL,
	currency            TEXT NOT NULL DEFAULT 'USD',
	description         TEXT,
	balance             DOUBLE PRECISION NOT NULL DEFAULT 0,
	external_account_id TEXT,
	bank_connection_id  BIGINT REFERENCES bank_connections(id),
	is_active           BOOLEAN NOT NULL DEFAULT TRUE,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (user_id, external_account_id)
);

CREATE TABLE IF NOT EXISTS transactions (
	id                      BIGSERIAL PRIMARY KEY,
	user_id                 BIGINT NOT NULL REFERENCES users(id),
	account_id              BIGINT NOT NULL REFERENCES accounts(id),
	amount                  DOUBLE PRECISION NOT NULL,
	description             TEXT NOT NULL,
	category                TEXT NOT NULL,
	transaction_type        TEXT NOT NULL,
	date                    TIMESTAMPTZ NOT NULL,
	external_transaction_id TEXT UNIQUE,
	merchant_name           TEXT,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS transactions_user_date_idx ON transactions (user_id, date);

CREATE TABLE IF NOT EXISTS budgets (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT NOT NULL REFERENCES users(id),
	name       TEXT NOT NULL,
	category   TEXT NOT NULL,
	amount     DOUBLE PRECISION NOT NULL,
	spent      DOUBLE PRECISION NOT NULL DEFAULT 0,
	period     TEXT NOT NULL,
	start_date TIMESTAMPTZ NOT NULL,
	end_date   TIMESTAMPTZ NOT NULL,
	is_active  BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS portfolios (
	id                      BIGSERIAL PRIMARY KEY,
	user_id                 BIGINT NOT NULL REFERENCES users(id),
	name                    TEXT NOT NULL,
	description             TEXT,
	is_default              BOOLEAN NOT NULL DEFAULT FALSE,
	total_value             DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_cost_basis        DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_gain_loss         DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_gain_loss_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
	daily_change            DOUBLE PRECISION NOT NULL DEFAULT 0,
	daily_change_percent    DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS watchlists (
	id          BIGSERIAL PRIMARY KEY,
	user_id     BIGINT NOT NULL REFERENCES users(id),
	name        TEXT NOT NULL,
	description TEXT,
	is_public   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS watchlist_items (
	id               BIGSERIAL PRIMARY KEY,
	watchlist_id     BIGINT NOT NULL REFERENCES watchlists(id),
	symbol           TEXT NOT NULL,
	name             TEXT NOT NULL,
	price_alert_high DOUBLE PRECISION,
	price_alert_low  DOUBLE PRECISION,
	added_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
`
