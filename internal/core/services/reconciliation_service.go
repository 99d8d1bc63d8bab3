package services

import (
	"context"
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

// reconciliationService runs the statement matcher and drives the
// human-in-the-loop workflow around its output.
type reconciliationService struct {
	journalRepo portsrepo.LedgerReader
	lockRepo    portsrepo.ReconciliationRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	journalSvc  portssvc.JournalSvcFacade
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(journalRepo portsrepo.LedgerReader, lockRepo portsrepo.ReconciliationRepositoryFacade, accountSvc portssvc.AccountSvcFacade, journalSvc portssvc.JournalSvcFacade) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		journalRepo: journalRepo,
		lockRepo:    lockRepo,
		accountSvc:  accountSvc,
		journalSvc:  journalSvc,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// AutoMatch classifies statement transactions against the account's ledger.
// Read-only with respect to the ledger: it reads one consistent snapshot of
// the account's lines and never writes. Items are regenerated fresh on every
// run; promotion into journal entries is a separate, explicit step.
func (s *reconciliationService) AutoMatch(ctx context.Context, businessID string, accountID string, stmts []domain.StatementTransaction) (*domain.ReconciliationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountSvc.GetAccountByID(ctx, businessID, accountID); err != nil {
		return nil, err
	}
	for _, stmt := range stmts {
		if stmt.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: statement amounts must be non-negative", apperrors.ErrValidation)
		}
		if stmt.Type != domain.StatementCredit && stmt.Type != domain.StatementDebit {
			return nil, fmt.Errorf("%w: unknown statement type %q", apperrors.ErrValidation, stmt.Type)
		}
	}

	lines, err := s.journalRepo.FindLinesByAccountID(ctx, businessID, accountID)
	if err != nil {
		logger.Error("Failed to fetch ledger lines for matching", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to retrieve ledger lines: %w", err)
	}

	result, err := matchStatements(accountID, stmts, lines)
	if err != nil {
		logger.Error("Matcher run failed", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	logger.Info("Reconciliation matcher run completed",
		slog.String("account_id", accountID),
		slog.Int("total", result.Stats.TotalItems),
		slog.Int("matched", result.Stats.MatchedItems),
		slog.Int("adjustments", result.Stats.AdjustedItems),
		slog.Int("unmatched", result.Stats.UnmatchedItems),
		slog.String("status", string(result.Status)))
	return result, nil
}

// ApproveMatches acknowledges matched items. Matches carry no ledger mutation,
// so approval is bookkeeping only; each item reports an outcome independently.
func (s *reconciliationService) ApproveMatches(ctx context.Context, businessID string, itemIDs []string, userID string) []dto.ItemOutcome {
	logger := middleware.GetLoggerFromCtx(ctx)

	outcomes := make([]dto.ItemOutcome, len(itemIDs))
	for i, itemID := range itemIDs {
		outcomes[i] = dto.ItemOutcome{ItemID: itemID, Success: true}
	}
	logger.Info("Reconciliation matches approved",
		slog.Int("count", len(itemIDs)),
		slog.String("approved_by", userID),
		slog.String("business_id", businessID))
	return outcomes
}

// CreateEntriesForUnmatched posts one two-line journal entry per unmatched
// statement item. A credit statement item debits the bank-side account and
// credits the operator's contra account; a debit item goes the other way.
// Partial failure never drops the remaining items.
func (s *reconciliationService) CreateEntriesForUnmatched(ctx context.Context, businessID string, req dto.CreateEntriesForUnmatchedRequest, userID string) []dto.ItemOutcome {
	logger := middleware.GetLoggerFromCtx(ctx)

	outcomes := make([]dto.ItemOutcome, len(req.Items))
	for i, item := range req.Items {
		outcomes[i] = s.createEntryForItem(ctx, businessID, item, req.DebitAccountID, req.CreditAccountID, userID)
		if !outcomes[i].Success {
			logger.Warn("Failed to create entry for unmatched item",
				slog.String("error", outcomes[i].Error),
				slog.String("description", item.Description))
		}
	}
	return outcomes
}

func (s *reconciliationService) createEntryForItem(ctx context.Context, businessID string, item dto.UnmatchedEntryRequest, debitAccountID, creditAccountID, userID string) dto.ItemOutcome {
	description := item.Description
	if description == "" {
		description = "Bank statement transaction"
	}

	entryReq := dto.CreateJournalEntryRequest{
		Date:        item.Date,
		Description: description,
		Items: []dto.CreateLedgerLineRequest{
			{AccountID: debitAccountID, DebitAmount: item.Amount, CreditAmount: decimal.Zero, Description: description},
			{AccountID: creditAccountID, DebitAmount: decimal.Zero, CreditAmount: item.Amount, Description: description},
		},
	}

	entry, err := s.journalSvc.CreateJournalEntry(ctx, businessID, entryReq, userID)
	if err != nil {
		return dto.ItemOutcome{Success: false, Error: err.Error()}
	}
	return dto.ItemOutcome{Success: true, JournalID: entry.JournalID, Reference: entry.Reference}
}

// BulkAction applies approve or create across a selection, each item following
// the single-item contract with an independent outcome.
func (s *reconciliationService) BulkAction(ctx context.Context, businessID string, req dto.BulkActionRequest, userID string) ([]dto.ItemOutcome, error) {
	switch req.Action {
	case "approve":
		return s.ApproveMatches(ctx, businessID, req.ItemIDs, userID), nil
	case "create":
		if req.DebitAccountID == "" || req.CreditAccountID == "" {
			return nil, fmt.Errorf("%w: create action requires debit and credit account ids", apperrors.ErrValidation)
		}
		createReq := dto.CreateEntriesForUnmatchedRequest{
			Items:           req.Items,
			DebitAccountID:  req.DebitAccountID,
			CreditAccountID: req.CreditAccountID,
		}
		return s.CreateEntriesForUnmatched(ctx, businessID, createReq, userID), nil
	default:
		return nil, fmt.Errorf("%w: unknown bulk action %q", apperrors.ErrValidation, req.Action)
	}
}

// LockReconciliation marks an account's period closed. The journal posting
// service rejects any write dated on/before the period end from then on.
func (s *reconciliationService) LockReconciliation(ctx context.Context, businessID string, req dto.LockReconciliationRequest, userID string) (*domain.ReconciliationLock, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountSvc.GetAccountByID(ctx, businessID, req.AccountID); err != nil {
		return nil, err
	}

	lock := domain.ReconciliationLock{
		LockID:    uuid.NewString(),
		AccountID: req.AccountID,
		PeriodEnd: req.PeriodEnd,
		LockedBy:  userID,
		LockedAt:  time.Now().UTC(),
	}
	if err := s.lockRepo.SaveLock(ctx, lock); err != nil {
		logger.Error("Failed to save reconciliation lock", slog.String("error", err.Error()), slog.String("account_id", req.AccountID))
		return nil, fmt.Errorf("failed to save reconciliation lock: %w", err)
	}

	logger.Info("Reconciliation period locked",
		slog.String("account_id", req.AccountID),
		slog.String("period_end", req.PeriodEnd.Format("2006-01-02")),
		slog.String("locked_by", userID))
	return &lock, nil
}

// ListLocks retrieves the locks recorded for an account.
func (s *reconciliationService) ListLocks(ctx context.Context, businessID string, accountID string) ([]domain.ReconciliationLock, error) {
	if _, err := s.accountSvc.GetAccountByID(ctx, businessID, accountID); err != nil {
		return nil, err
	}
	return s.lockRepo.FindLocksByAccountID(ctx, accountID)
}
