package services

import (
	"context"

	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	"github.com/bizbooks-app/bizbooks_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	// GetJournalEntryByID retrieves an entry with its ledger lines.
	GetJournalEntryByID(ctx context.Context, businessID string, journalID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a paginated list of entries for a business.
	ListJournalEntries(ctx context.Context, businessID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal entries
type JournalWriterSvc interface {
	// CreateJournalEntry validates and atomically posts a balanced entry,
	// recomputing balances for every affected account.
	CreateJournalEntry(ctx context.Context, businessID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// UpdateJournalEntry edits a draft entry, reversing the old lines' balance
	// effect and applying the new ones.
	UpdateJournalEntry(ctx context.Context, businessID string, journalID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// DeleteJournalEntry removes a draft entry, reversing its balance effect.
	DeleteJournalEntry(ctx context.Context, businessID string, journalID string, userID string) error

	// ReverseJournalEntry posts a compensating entry for a posted one and marks
	// the original reversed.
	ReverseJournalEntry(ctx context.Context, businessID string, journalID string, userID string) (*domain.JournalEntry, error)
}

// LedgerReaderSvc defines read operations over ledger lines
type LedgerReaderSvc interface {
	// ListLedgerLines retrieves a paginated view of an account's ledger.
	ListLedgerLines(ctx context.Context, businessID string, accountID string, params dto.ListLedgerLinesParams) (*dto.ListLedgerLinesResponse, error)
}

// BalanceSvc exposes derived balance recomputation.
type BalanceSvc interface {
	// RecomputeBalance rebuilds an account's running balance snapshots from its
	// ledger lines and returns the resulting current balance.
	RecomputeBalance(ctx context.Context, businessID string, accountID string) (decimal.Decimal, error)
}

// JournalSvcFacade combines all journal-related service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	LedgerReaderSvc
	BalanceSvc
}
