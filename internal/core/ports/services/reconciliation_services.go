package services

import (
	"context"

	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	"github.com/bizbooks-app/bizbooks_backend/internal/dto"
)

// ReconciliationMatcherSvc runs the read-only statement matcher.
type ReconciliationMatcherSvc interface {
	// AutoMatch classifies each statement transaction against the account's
	// ledger lines into matched/adjustment/unmatched buckets with stats. It
	// never writes; promotion happens through the workflow operations.
	AutoMatch(ctx context.Context, businessID string, accountID string, stmts []domain.StatementTransaction) (*domain.ReconciliationResult, error)
}

// ReconciliationWorkflowSvc drives the human-in-the-loop approval workflow.
type ReconciliationWorkflowSvc interface {
	// ApproveMatches acknowledges matched items; no ledger mutation.
	ApproveMatches(ctx context.Context, businessID string, itemIDs []string, userID string) []dto.ItemOutcome

	// CreateEntriesForUnmatched posts a two-line journal entry per unmatched
	// item between the operator-selected accounts. Each item's outcome is
	// reported independently.
	CreateEntriesForUnmatched(ctx context.Context, businessID string, req dto.CreateEntriesForUnmatchedRequest, userID string) []dto.ItemOutcome

	// BulkAction applies approve or create across a selection, following the
	// single-item contract per item.
	BulkAction(ctx context.Context, businessID string, req dto.BulkActionRequest, userID string) ([]dto.ItemOutcome, error)

	// LockReconciliation marks an account's period closed; subsequent writes
	// dated on/before periodEnd fail with ErrLockedPeriod.
	LockReconciliation(ctx context.Context, businessID string, req dto.LockReconciliationRequest, userID string) (*domain.ReconciliationLock, error)

	// ListLocks retrieves the locks recorded for an account.
	ListLocks(ctx context.Context, businessID string, accountID string) ([]domain.ReconciliationLock, error)
}

// ReconciliationSvcFacade combines the matcher and workflow interfaces.
type ReconciliationSvcFacade interface {
	ReconciliationMatcherSvc
	ReconciliationWorkflowSvc
}
