package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus mirrors domain.JournalStatus for database storage.
type JournalStatus string

// JournalEntry is the database representation of a journal entry header.
type JournalEntry struct {
	JournalID         string          `db:"journal_id"`
	BusinessID        string          `db:"business_id"`
	JournalDate       time.Time       `db:"journal_date"`
	Description       string          `db:"description"`
	Reference         string          `db:"reference"`
	Status            JournalStatus   `db:"status"`
	Amount            decimal.Decimal `db:"amount"`
	OriginalJournalID *string         `db:"original_journal_id"`
	AuditFields
}

// LedgerLine is the database representation of one debit/credit row.
type LedgerLine struct {
	LineID         string          `db:"line_id"`
	JournalID      string          `db:"journal_id"`
	AccountID      string          `db:"account_id"`
	LineDate       time.Time       `db:"line_date"`
	Description    string          `db:"description"`
	DebitAmount    decimal.Decimal `db:"debit_amount"`
	CreditAmount   decimal.Decimal `db:"credit_amount"`
	RunningBalance decimal.Decimal `db:"running_balance"`
	AuditFields
}

// ReconciliationLock is the database representation of a period lock.
type ReconciliationLock struct {
	LockID    string    `db:"lock_id"`
	AccountID string    `db:"account_id"`
	PeriodEnd time.Time `db:"period_end"`
	LockedBy  string    `db:"locked_by"`
	LockedAt  time.Time `db:"locked_at"`
}
