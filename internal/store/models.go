package store

import "time"

type User struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	IsActive   bool       `json:"is_active"`
	IsVerified bool       `json:"is_verified"`
	CreatedAt  time.Time  `json:"created_at"`
	LastLogin  *time.Time `json:"last_login"`

	PasswordHash string `json:"-"`
}

type UserProfile struct {
	UserID            int64    `json:"-"`
	Phone             *string  `json:"phone"`
	Address           *string  `json:"address"`
	City              *string  `json:"city"`
	State             *string  `json:"state"`
	ZipCode           *string  `json:"zip_code"`
	Country           string   `json:"country"`
	RiskTolerance     string   `json:"risk_tolerance"`
	InvestmentGoals   []string `json:"investment_goals"`
	InvestmentHorizon string   `json:"investment_horizon"`
	AnnualIncome      *float64 `json:"annual_income"`
	NetWorth          *float64 `json:"net_worth"`
	Bio               *string  `json:"bio"`
}

type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Account struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	Name              string    `json:"name"`
	AccountType       string    `json:"account_type"`
	Currency          string    `json:"currency"`
	Description       *string   `json:"description"`
	Balance           float64   `json:"balance"`
	ExternalAccountID *string   `json:"external_account_id,omitempty"`
	BankConnectionID  *int64    `json:"bank_connection_id,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Transaction struct {
	ID                    int64     `json:"id"`
	UserID                int64     `json:"user_id"`
	AccountID             int64     `json:"account_id"`
	Amount                float64   `json:"amount"`
	Description           string    `json:"description"`
	Category              string    `json:"category"`
	TransactionType       string    `json:"transaction_type"`
	Date                  time.Time `json:"date"`
	ExternalTransactionID *string   `json:"external_transaction_id,omitempty"`
	MerchantName          *string   `json:"merchant_name,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

type Budget struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Spent     float64   `json:"spent"`
	Period    string    `json:"period"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type BankConnection struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"-"`
	InstitutionName string    `json:"institution_name"`
	BankToken       string    `json:"-"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

type Portfolio struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"`
	Description          *string `json:"description"`
	IsDefault            bool    `json:"is_default"`
	TotalValue           float64 `json:"total_value"`
	TotalCostBasis       float64 `json:"total_cost_basis"`
	TotalGainLoss        float64 `json:"total_gain_loss"`
	TotalGainLossPercent float64 `json:"total_gain_loss_percent"`
	DailyChange          float64 `json:"daily_change"`
	DailyChangePercent   float64 `json:"daily_change_percent"`
}

type WatchlistItem struct {
	Symbol         string    `json:"symbol"`
	Name           string    `json:"name"`
	PriceAlertHigh *float64  `json:"price_alert_high"`
	PriceAlertLow  *float64  `json:"price_alert_low"`
	AddedAt        time.Time `json:"added_at"`
}

type Watchlist struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	IsPublic    bool            `json:"is_public"`
	Items       []WatchlistItem `json:"items"`
}

// ProfileDocument is the assembled /api/auth/me response: the user row
// joined with profile, portfolios, watchlists and accounts.
type ProfileDocument struct {
	User       User         `json:"user"`
	Profile    *UserProfile `json:"profile"`
	Portfolios []Portfolio  `json:"portfolios"`
	Watchlists []Watchlist  `json:"watchlists"`
	Accounts   []Account    `json:"accounts"`
}
