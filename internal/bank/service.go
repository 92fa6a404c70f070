package bank

import (
	"context"
	"fmt"
	"time"

	"ezanafinance/internal/store"
)

// Storage is the slice of the store the bank service needs.
type Storage interface {
	CreateBankConnection(ctx context.Context, userID int64, institutionName, bankToken string) (*store.BankConnection, error)
	BankConnection(ctx context.Context, userID, connectionID int64) (*store.BankConnection, error)
	ListBankConnections(ctx context.Context, userID int64) ([]store.BankConnection, error)
	CountConnectionAccounts(ctx context.Context, connectionID int64) (int, error)
	DisconnectBank(ctx context.Context, userID, connectionID int64) error
	LinkExternalAccount(ctx context.Context, userID, connectionID int64, externalID, name, accountType, currency string, balance float64) (*store.Account, bool, error)
	ConnectionAccounts(ctx context.Context, userID, connectionID int64) ([]store.Account, error)
	InsertImportedTransaction(ctx context.Context, t store.Transaction) (bool, error)
	SetAccountBalance(ctx context.Context, accountID int64, balance float64) error
}

// ConnectionSummary is the API view of one bank connection.
type ConnectionSummary struct {
	ID                int64     `json:"id"`
	InstitutionName   string    `json:"institution_name"`
	ConnectedAccounts int       `json:"connected_accounts"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

// ImportResult reports one import run.
type ImportResult struct {
	ImportedCount int   `json:"imported_count"`
	ConnectionID  int64 `json:"connection_id"`
}

// Service drives the connect/import/disconnect lifecycle against a feed.
type Service struct {
	store Storage
	feed  FeedAPI
}

func NewService(storage Storage, feed FeedAPI) *Service {
	return &Service{store: storage, feed: feed}
}

// Connect validates the token against the feed, records the connection
// and links every account the bank reports.
func (s *Service) Connect(ctx context.Context, userID int64, institutionName, bankToken string) (*ConnectionSummary, error) {
	accounts, err := s.feed.Accounts(bankToken)
	if err != nil {
		return nil, fmt.Errorf("bank: fetch accounts: %w", err)
	}

	conn, err := s.store.CreateBankConnection(ctx, userID, institutionName, bankToken)
	if err != nil {
		return nil, err
	}

	for _, a := range accounts {
		if _, _, err := s.store.LinkExternalAccount(ctx, userID, conn.ID, a.AccountID, a.Name, a.Type, a.Currency, a.Balance); err != nil {
			return nil, err
		}
	}

	return &ConnectionSummary{
		ID:                conn.ID,
		InstitutionName:   conn.InstitutionName,
		ConnectedAccounts: len(accounts),
		IsActive:          true,
		CreatedAt:         conn.CreatedAt,
	}, nil
}

// Connections lists the user's active connections with account counts.
func (s *Service) Connections(ctx context.Context, userID int64) ([]ConnectionSummary, error) {
	conns, err := s.store.ListBankConnections(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := []ConnectionSummary{}
	for _, c := range conns {
		n, err := s.store.CountConnectionAccounts(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ConnectionSummary{
			ID:                c.ID,
			InstitutionName:   c.InstitutionName,
			ConnectedAccounts: n,
			IsActive:          c.IsActive,
			CreatedAt:         c.CreatedAt,
		})
	}
	return out, nil
}

// ImportTransactions pulls the trailing feed window for every linked
// account, skipping transactions imported before, then reconciles each
// account balance to the feed's signed sum. The feed sign convention
// maps onto the ledger as income (positive) or expense (negative, stored
// as a positive amount).
func (s *Service) ImportTransactions(ctx context.Context, userID, connectionID int64, days int) (*ImportResult, error) {
	conn, err := s.store.BankConnection(ctx, userID, connectionID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.store.ConnectionAccounts(ctx, userID, connectionID)
	if err != nil {
		return nil, err
	}

	imported := 0
	for _, acct := range accounts {
		if acct.ExternalAccountID == nil {
			continue
		}
		feedTxns, err := s.feed.Transactions(conn.BankToken, *acct.ExternalAccountID, days)
		if err != nil {
			return nil, fmt.Errorf("bank: fetch transactions: %w", err)
		}

		balance := 0.0
		for _, ft := range feedTxns {
			balance += ft.Amount

			row := importedTransaction(userID, acct.ID, ft)
			written, err := s.store.InsertImportedTransaction(ctx, row)
			if err != nil {
				return nil, err
			}
			if written {
				imported++
			}
		}

		if err := s.store.SetAccountBalance(ctx, acct.ID, balance); err != nil {
			return nil, err
		}
	}

	return &ImportResult{ImportedCount: imported, ConnectionID: connectionID}, nil
}

// Disconnect deactivates the connection and its linked accounts.
func (s *Service) Disconnect(ctx context.Context, userID, connectionID int64) error {
	return s.store.DisconnectBank(ctx, userID, connectionID)
}

// importedTransaction converts a feed transaction into a ledger row.
func importedTransaction(userID, accountID int64, ft FeedTransaction) store.Transaction {
	txnType := "expense"
	amount := -ft.Amount
	if ft.Amount > 0 {
		txnType = "income"
		amount = ft.Amount
	}

	externalID := ft.TransactionID
	var merchant *string
	if ft.MerchantName != "" {
		m := ft.MerchantName
		merchant = &m
	}
	return store.Transaction{
		UserID:                userID,
		AccountID:             accountID,
		Amount:                amount,
		Description:           ft.Description,
		Category:              ft.Category,
		TransactionType:       txnType,
		Date:                  ft.Date,
		ExternalTransactionID: &externalID,
		MerchantName:          merchant,
	}
}
