package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bizbooks-app/bizbooks_backend/internal/apperrors"
	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	portsrepo "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/services"
	"github.com/bizbooks-app/bizbooks_backend/internal/dto"
	"github.com/bizbooks-app/bizbooks_backend/internal/middleware"
	"github.com/bizbooks-app/bizbooks_backend/internal/utils/accounting"
	"github.com/bizbooks-app/bizbooks_backend/internal/utils/refgen"
	"github.com/shopspring/decimal"
)

var (
	ErrEntryMinLines    = errors.New("journal entry must have at least two ledger lines")
	ErrEntryMinAccounts = errors.New("journal entry must affect at least two different accounts")
	ErrAccountNotFound  = errors.New("account not found")
	ErrNotDraft         = errors.New("only draft journal entries may be edited or deleted")
	ErrNotPosted        = errors.New("journal entry must be posted to be reversed")
)

// journalService provides journal posting, editing and balance operations.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	lockRepo    portsrepo.ReconciliationLockReader
	refs        *refgen.Generator
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountSvcFacade, lockRepo portsrepo.ReconciliationLockReader) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		lockRepo:    lockRepo,
		refs:        refgen.New(),
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines converts line requests into domain lines owned by journalID.
func buildLines(items []dto.CreateLedgerLineRequest, journalID string, date time.Time, actor string, now time.Time) []domain.LedgerLine {
	lines := make([]domain.LedgerLine, len(items))
	for i, item := range items {
		lines[i] = domain.LedgerLine{
			LineID:       uuid.NewString(),
			JournalID:    journalID,
			AccountID:    item.AccountID,
			LineDate:     date,
			Description:  item.Description,
			DebitAmount:  item.DebitAmount,
			CreditAmount: item.CreditAmount,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor,
				LastUpdatedAt: now,
				LastUpdatedBy: actor,
			},
		}
	}
	return lines
}

// validateAccounts checks each referenced account exists, is active and
// belongs to the business.
func (s *journalService) validateAccounts(ctx context.Context, businessID string, lines []domain.LedgerLine) (map[string]domain.Account, error) {
	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	uniqueIDs := uniqueStrings(accountIDs)
	if len(uniqueIDs) < 2 {
		return nil, ErrEntryMinAccounts
	}

	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, businessID, uniqueIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range uniqueIDs {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}
	return accountsMap, nil
}

// checkLockedPeriods rejects lines dated inside a reconciled, locked period
// before any durable write happens.
func (s *journalService) checkLockedPeriods(ctx context.Context, lines []domain.LedgerLine) error {
	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	locks, err := s.lockRepo.FindLatestLockForAccounts(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return fmt.Errorf("failed to fetch reconciliation locks: %w", err)
	}
	for _, line := range lines {
		lock, locked := locks[line.AccountID]
		if locked && !line.LineDate.After(lock.PeriodEnd) {
			return fmt.Errorf("%w: account %s is locked through %s",
				apperrors.ErrLockedPeriod, line.AccountID, lock.PeriodEnd.Format("2006-01-02"))
		}
	}
	return nil
}

// CreateJournalEntry validates and atomically posts a balanced journal entry.
// Implements portssvc.JournalWriterSvc.
func (s *journalService) CreateJournalEntry(ctx context.Context, businessID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Items) < 2 {
		return nil, ErrEntryMinLines
	}
	if req.Description == "" {
		return nil, fmt.Errorf("%w: journal description is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()
	lines := buildLines(req.Items, journalID, req.Date, creatorUserID, now)

	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if _, err := s.validateAccounts(ctx, businessID, lines); err != nil {
		return nil, err
	}
	if err := s.checkLockedPeriods(ctx, lines); err != nil {
		return nil, err
	}

	status := domain.Posted
	if req.Draft {
		status = domain.Draft
	}

	entry := domain.JournalEntry{
		JournalID:   journalID,
		BusinessID:  businessID,
		JournalDate: req.Date,
		Description: req.Description,
		Reference:   s.refs.Next(req.Date),
		Status:      status,
		Amount:      accounting.EntryAmount(lines),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.journalRepo.SaveJournalEntry(ctx, entry, lines); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("business_id", businessID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry created",
		slog.String("journal_id", entry.JournalID),
		slog.String("reference", entry.Reference),
		slog.String("business_id", businessID))
	entry.Lines = lines
	return &entry, nil
}

// GetJournalEntryByID retrieves a specific entry with its ledger lines.
// Implements portssvc.JournalReaderSvc.
func (s *journalService) GetJournalEntryByID(ctx context.Context, businessID string, journalID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindJournalEntryByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal entry", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", journalID, err)
	}
	if entry.BusinessID != businessID {
		// Obscure existence across business boundaries
		return nil, apperrors.ErrNotFound
	}

	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		logger.Error("Failed to fetch ledger lines for entry", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to retrieve ledger lines for entry %s: %w", journalID, apperrors.ErrInternal)
	}
	entry.Lines = lines

	return entry, nil
}

// ListJournalEntries retrieves a paginated list of entries for a business.
func (s *journalService) ListJournalEntries(ctx context.Context, businessID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entries, nextToken, err := s.journalRepo.ListJournalEntries(ctx, businessID, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve journal entries: %w", err)
	}

	responses := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	return &dto.ListJournalEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// fetchDraftEntry loads an entry and checks business scope and draft status.
func (s *journalService) fetchDraftEntry(ctx context.Context, businessID, journalID string) (*domain.JournalEntry, []domain.LedgerLine, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, journalID)
	if err != nil {
		return nil, nil, err
	}
	if entry.BusinessID != businessID {
		return nil, nil, apperrors.ErrNotFound
	}
	if entry.Status != domain.Draft {
		return nil, nil, fmt.Errorf("%w: status is %s", ErrNotDraft, entry.Status)
	}
	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve ledger lines for entry %s: %w", journalID, err)
	}
	return entry, lines, nil
}

// UpdateJournalEntry edits a draft entry. The old lines' balance effect is
// reversed and the new lines applied; balances are recomputed for the union
// of old and new affected accounts inside the repository transaction.
func (s *journalService) UpdateJournalEntry(ctx context.Context, businessID string, journalID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, oldLines, err := s.fetchDraftEntry(ctx, businessID, journalID)
	if err != nil {
		return nil, err
	}
	// Locked periods guard both the lines being removed and the ones replacing them.
	if err := s.checkLockedPeriods(ctx, oldLines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if req.Date != nil {
		entry.JournalDate = *req.Date
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	newLines := oldLines
	if len(req.Items) > 0 {
		newLines = buildLines(req.Items, journalID, entry.JournalDate, userID, now)
		if err := accounting.ValidateEntryBalance(newLines); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if _, err := s.validateAccounts(ctx, businessID, newLines); err != nil {
			return nil, err
		}
		if err := s.checkLockedPeriods(ctx, newLines); err != nil {
			return nil, err
		}
	} else if req.Date != nil {
		// Carried-over lines move with the header date.
		newLines = make([]domain.LedgerLine, len(oldLines))
		copy(newLines, oldLines)
		for i := range newLines {
			newLines[i].LineDate = entry.JournalDate
			newLines[i].LastUpdatedAt = now
			newLines[i].LastUpdatedBy = userID
		}
		if err := s.checkLockedPeriods(ctx, newLines); err != nil {
			return nil, err
		}
	}
	entry.Amount = accounting.EntryAmount(newLines)

	if err := s.journalRepo.ReplaceJournalLines(ctx, *entry, newLines); err != nil {
		logger.Error("Failed to update journal entry", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}

	logger.Info("Journal entry updated", slog.String("journal_id", journalID))
	entry.Lines = newLines
	return entry, nil
}

// DeleteJournalEntry removes a draft entry, reversing its balance effect.
func (s *journalService) DeleteJournalEntry(ctx context.Context, businessID string, journalID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	_, lines, err := s.fetchDraftEntry(ctx, businessID, journalID)
	if err != nil {
		return err
	}
	if err := s.checkLockedPeriods(ctx, lines); err != nil {
		return err
	}

	if err := s.journalRepo.DeleteJournalEntry(ctx, journalID); err != nil {
		logger.Error("Failed to delete journal entry", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}

	logger.Info("Journal entry deleted", slog.String("journal_id", journalID), slog.String("deleted_by", userID))
	return nil
}

// ReverseJournalEntry posts a compensating entry for a posted one and marks
// the original reversed.
func (s *journalService) ReverseJournalEntry(ctx context.Context, businessID string, journalID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindJournalEntryByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if original.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: status is %s", ErrNotPosted, original.Status)
	}
	if original.OriginalJournalID != nil {
		return nil, fmt.Errorf("%w: cannot reverse an entry that is already a reversal", apperrors.ErrConflict)
	}

	originalLines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve ledger lines for entry %s: %w", journalID, err)
	}
	if err := s.checkLockedPeriods(ctx, originalLines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reversingID := uuid.NewString()
	reversingLines := make([]domain.LedgerLine, len(originalLines))
	for i, orig := range originalLines {
		reversingLines[i] = domain.LedgerLine{
			LineID:       uuid.NewString(),
			JournalID:    reversingID,
			AccountID:    orig.AccountID,
			LineDate:     orig.LineDate,
			Description:  orig.Description,
			DebitAmount:  orig.CreditAmount,
			CreditAmount: orig.DebitAmount,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	reversing := domain.JournalEntry{
		JournalID:         reversingID,
		BusinessID:        businessID,
		JournalDate:       original.JournalDate,
		Description:       fmt.Sprintf("Reversal of %s: %s", original.Reference, original.Description),
		Reference:         s.refs.Next(original.JournalDate),
		Status:            domain.Posted,
		Amount:            original.Amount,
		OriginalJournalID: &original.JournalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// One repository transaction posts the reversal and flips the original,
	// so a concurrent second reversal fails on the status guard.
	if err := s.journalRepo.SaveReversal(ctx, reversing, reversingLines, original.JournalID); err != nil {
		logger.Error("Failed to save reversing entry", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to save reversing entry: %w", err)
	}

	logger.Info("Journal entry reversed", slog.String("original_id", journalID), slog.String("reversing_id", reversingID))
	reversing.Lines = reversingLines
	return &reversing, nil
}

// ListLedgerLines retrieves a paginated view of an account's ledger.
func (s *journalService) ListLedgerLines(ctx context.Context, businessID string, accountID string, params dto.ListLedgerLinesParams) (*dto.ListLedgerLinesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	lines, nextToken, err := s.journalRepo.ListLinesByAccountID(ctx, businessID, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list ledger lines", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to retrieve ledger lines: %w", err)
	}

	return &dto.ListLedgerLinesResponse{
		Lines:     dto.ToLedgerLineResponses(lines),
		NextToken: nextToken,
	}, nil
}

// RecomputeBalance rebuilds the account's running balance snapshots from its
// ledger lines. Balances are a derived cache and this operation is idempotent;
// it is also the retry path when a post-commit recomputation failed.
func (s *journalService) RecomputeBalance(ctx context.Context, businessID string, accountID string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountSvc.GetAccountByID(ctx, businessID, accountID); err != nil {
		return decimal.Zero, err
	}

	account, err := s.journalRepo.RecomputeAccountBalance(ctx, accountID)
	if err != nil {
		logger.Error("Failed to recompute account balance", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return decimal.Zero, fmt.Errorf("failed to recompute balance for account %s: %w", accountID, err)
	}

	logger.Info("Account balance recomputed", slog.String("account_id", accountID), slog.String("balance", account.Balance.String()))
	return account.Balance, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
