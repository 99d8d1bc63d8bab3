package services

import (
	"context"

	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	"github.com/bizbooks-app/bizbooks_backend/internal/dto"
)

// AccountReaderSvc defines read operations over the chart of accounts
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, businessID string, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts scoped to a business.
	GetAccountsByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves all accounts of a business.
	ListAccounts(ctx context.Context, businessID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations over the chart of accounts
type AccountWriterSvc interface {
	// CreateAccount registers a new account in the chart of accounts.
	CreateAccount(ctx context.Context, businessID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// DeleteAccount removes an account with no ledger lines; otherwise ErrConflict.
	DeleteAccount(ctx context.Context, businessID string, accountID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
