package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizbooks-app/bizbooks_backend/internal/apperrors"
	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	portsrepo "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/services"
	"github.com/bizbooks-app/bizbooks_backend/internal/dto"
	"github.com/bizbooks-app/bizbooks_backend/internal/middleware"
)

// accountService manages the chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount registers a new account in the chart of accounts.
func (s *accountService) CreateAccount(ctx context.Context, businessID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type %s", apperrors.ErrValidation, req.AccountType)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		BusinessID:  businessID,
		Code:        req.Code,
		Name:        req.Name,
		AccountType: req.AccountType,
		Description: req.Description,
		IsActive:    true,
		Balance:     decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Duplicate account code", slog.String("code", req.Code), slog.String("business_id", businessID))
			return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrConflict, req.Code)
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves a specific account scoped to a business.
func (s *accountService) GetAccountByID(ctx context.Context, businessID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.BusinessID != businessID {
		// Obscure existence across business boundaries
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountsByIDs retrieves multiple accounts, dropping any that belong to a
// different business.
func (s *accountService) GetAccountsByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for id, acc := range accounts {
		if acc.BusinessID != businessID {
			delete(accounts, id)
		}
	}
	return accounts, nil
}

// ListAccounts retrieves all accounts of a business.
func (s *accountService) ListAccounts(ctx context.Context, businessID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, businessID)
}

// DeleteAccount removes an account with no ledger lines. Accounts that are
// referenced by ledger lines surface apperrors.ErrConflict from the repository.
func (s *accountService) DeleteAccount(ctx context.Context, businessID string, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.GetAccountByID(ctx, businessID, accountID); err != nil {
		return err
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Attempt to delete account with ledger lines", slog.String("account_id", accountID))
		} else {
			logger.Error("Failed to delete account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}

	logger.Info("Account deleted", slog.String("account_id", accountID), slog.String("deleted_by", userID))
	return nil
}
