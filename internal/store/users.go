package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown email and wrong password so
// login failures do not leak which one it was.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Register creates a user with a bcrypt password hash and an empty
// profile row. A duplicate email returns ErrDuplicate.
func (s *Store) Register(ctx context.Context, email, password, firstName, lastName string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("store: hash password: %w", err)
	}

	u := &User{Email: email, FirstName: firstName, LastName: lastName, IsActive: true}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		email, string(hash), firstName, lastName,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("store: create user: %w", err)
	}

	if _, err := s.pool.Exec(ctx, `INSERT INTO user_profiles (user_id) VALUES ($1)`, u.ID); err != nil {
		return nil, fmt.Errorf("store: create profile: %w", err)
	}
	return u, nil
}

// Authenticate checks email and password and records the login time.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u := &User{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, first_name, last_name, is_active, is_verified, created_at, last_login
		FROM users
		WHERE email = $1 AND is_active`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.IsActive, &u.IsVerified, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("store: load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if _, err := s.pool.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, now, u.ID); err != nil {
		return nil, fmt.Errorf("store: record login: %w", err)
	}
	u.LastLogin = &now
	return u, nil
}

// CreateSession issues a bearer token valid for ttl.
func (s *Store) CreateSession(ctx context.Context, userID int64, ttl time.Duration) (*Session, error) {
	sess := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)`,
		sess.Token, sess.UserID, sess.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("store: create session: %w", err)
	}
	return sess, nil
}

// UserBySession resolves a bearer token to its user. Expired or unknown
// tokens return ErrNotFound.
func (s *Store) UserBySession(ctx context.Context, token string) (*User, error) {
	u := &User{}
	err := s.pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.first_name, u.last_name, u.is_active, u.is_verified, u.created_at, u.last_login
		FROM user_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > now() AND u.is_active`,
		token,
	).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.IsActive, &u.IsVerified, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: resolve session: %w", err)
	}
	return u, nil
}

// DeleteSession invalidates a bearer token (logout). Unknown tokens are
// not an error.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM user_sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("store: delete session: %w", err)
	}
	return nil
}

// GetUserProfile assembles the full profile document for one user.
func (s *Store) GetUserProfile(ctx context.Context, userID int64) (*ProfileDocument, error) {
	doc := &ProfileDocument{
		Portfolios: []Portfolio{},
		Watchlists: []Watchlist{},
		Accounts:   []Account{},
	}

	err := s.pool.QueryRow(ctx, `
		SELECT id, email, first_name, last_name, is_active, is_verified, created_at, last_login
		FROM users WHERE id = $1`,
		userID,
	).Scan(&doc.User.ID, &doc.User.Email, &doc.User.FirstName, &doc.User.LastName,
		&doc.User.IsActive, &doc.User.IsVerified, &doc.User.CreatedAt, &doc.User.LastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: load user: %w", err)
	}

	p := &UserProfile{UserID: userID}
	err = s.pool.QueryRow(ctx, `
		SELECT phone, address, city, state, zip_code, country, risk_tolerance,
		       investment_goals, investment_horizon, annual_income, net_worth, bio
		FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.Phone, &p.Address, &p.City, &p.State, &p.ZipCode, &p.Country, &p.RiskTolerance,
		&p.InvestmentGoals, &p.InvestmentHorizon, &p.AnnualIncome, &p.NetWorth, &p.Bio)
	switch {
	case err == nil:
		doc.Profile = p
	case errors.Is(err, pgx.ErrNoRows):
		// Profile row is optional.
	default:
		return nil, fmt.Errorf("store: load profile: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description, is_default, total_value, total_cost_basis,
		       total_gain_loss, total_gain_loss_percent, daily_change, daily_change_percent
		FROM portfolios WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: load portfolios: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pf Portfolio
		if err := rows.Scan(&pf.ID, &pf.Name, &pf.Description, &pf.IsDefault, &pf.TotalValue,
			&pf.TotalCostBasis, &pf.TotalGainLoss, &pf.TotalGainLossPercent,
			&pf.DailyChange, &pf.DailyChangePercent); err != nil {
			return nil, fmt.Errorf("store: scan portfolio: %w", err)
		}
		doc.Portfolios = append(doc.Portfolios, pf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: load portfolios: %w", err)
	}

	watchlists, err := s.watchlistsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	doc.Watchlists = watchlists

	accounts, err := s.ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	doc.Accounts = accounts

	return doc, nil
}

func (s *Store) watchlistsForUser(ctx context.Context, userID int64) ([]Watchlist, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description, is_public
		FROM watchlists WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: load watchlists: %w", err)
	}
	defer rows.Close()

	out := []Watchlist{}
	for rows.Next() {
		var w Watchlist
		if err := rows.Scan(&w.ID, &w.Name, &w.Description, &w.IsPublic); err != nil {
			return nil, fmt.Errorf("store: scan watchlist: %w", err)
		}
		w.Items = []WatchlistItem{}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: load watchlists: %w", err)
	}

	for i := range out {
		itemRows, err := s.pool.Query(ctx, `
			SELECT symbol, name, price_alert_high, price_alert_low, added_at
			FROM watchlist_items WHERE watchlist_id = $1 ORDER BY id`,
			out[i].ID,
		)
		if err != nil {
			return nil, fmt.Errorf("store: load watchlist items: %w", err)
		}
		for itemRows.Next() {
			var it WatchlistItem
			if err := itemRows.Scan(&it.Symbol, &it.Name, &it.PriceAlertHigh, &it.PriceAlertLow, &it.AddedAt); err != nil {
				itemRows.Close()
				return nil, fmt.Errorf("store: scan watchlist item: %w", err)
			}
			out[i].Items = append(out[i].Items, it)
		}
		itemRows.Close()
		if err := itemRows.Err(); err != nil {
			return nil, fmt.Errorf("store: load watchlist items: %w", err)
		}
	}
	return out, nil
}
