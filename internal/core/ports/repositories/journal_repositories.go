package repositories

import (
	"context"

	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindJournalEntryByID retrieves a specific journal entry by its unique identifier.
	FindJournalEntryByID(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a paginated list of entries for a business using
	// token-based pagination. It returns the entries, a token for the next page, and an error.
	ListJournalEntries(ctx context.Context, businessID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// SaveJournalEntry persists an entry and its ledger lines atomically, serializing
	// on the affected accounts and recomputing their running balances in the same
	// transaction.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.LedgerLine) error

	// ReplaceJournalLines swaps a draft entry's lines for a new set atomically,
	// recomputing balances for the union of old and new affected accounts.
	ReplaceJournalLines(ctx context.Context, entry domain.JournalEntry, lines []domain.LedgerLine) error

	// DeleteJournalEntry removes a draft entry and its lines, reversing their balance
	// contribution via recomputation.
	DeleteJournalEntry(ctx context.Context, journalID string) error

	// SaveReversal persists a reversing entry with its lines and marks the
	// original entry reversed in the same transaction. Fails with a conflict
	// when the original is no longer posted, so an entry reverses at most once
	// even under concurrent requests.
	SaveReversal(ctx context.Context, reversing domain.JournalEntry, lines []domain.LedgerLine, originalJournalID string) error
}

// LedgerReader defines read operations over ledger lines
type LedgerReader interface {
	// FindLinesByJournalID retrieves all lines belonging to an entry in posting order.
	FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.LedgerLine, error)

	// FindLinesByAccountID retrieves every ledger line of an account ordered by
	// (line_date ASC, created_at ASC, line_id ASC), the single tie-break rule used
	// by balance recomputation and the reconciliation matcher.
	FindLinesByAccountID(ctx context.Context, businessID, accountID string) ([]domain.LedgerLine, error)

	// ListLinesByAccountID retrieves a paginated list of an account's lines, newest
	// first, using token-based pagination.
	ListLinesByAccountID(ctx context.Context, businessID, accountID string, limit int, nextToken *string) ([]domain.LedgerLine, *string, error)
}

// BalanceRecomputer rebuilds derived balance snapshots from ledger lines.
type BalanceRecomputer interface {
	// RecomputeAccountBalance replays the account's lines in chronological order,
	// rewriting each line's running balance snapshot and the account's cached
	// balance. Idempotent.
	RecomputeAccountBalance(ctx context.Context, accountID string) (domain.Account, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LedgerReader
	BalanceRecomputer
}
