package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// JournalEntry represents a single, balanced financial event composed of one
// or more ledger lines. Draft entries may be edited or deleted; posted entries
// are immutable except through explicit reversal.
type JournalEntry struct {
	JournalID         string          `json:"journalID"`
	BusinessID        string          `json:"businessID"`
	JournalDate       time.Time       `json:"journalDate"`
	Description       string          `json:"description"`
	Reference         string          `json:"reference"` // e.g. JE-20250115-0007
	Status            JournalStatus   `json:"status"`
	Amount            decimal.Decimal `json:"amount"` // total of the debit side
	OriginalJournalID *string         `json:"originalJournalID,omitempty"`
	AuditFields
	Lines []LedgerLine `json:"lines,omitempty"`
}

// LedgerLine is one account-level debit or credit row belonging to a journal
// entry. Exactly one of DebitAmount/CreditAmount is normally non-zero, though
// degenerate lines carrying both are tolerated; balance is enforced at the
// entry level. RunningBalance is a recomputed snapshot, not authoritative
// input.
type LedgerLine struct {
	LineID         string          `json:"lineID"`
	JournalID      string          `json:"journalID"`
	AccountID      string          `json:"accountID"`
	LineDate       time.Time       `json:"lineDate"`
	Description    string          `json:"description"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
	AuditFields
}

// Net returns the line's raw debit-minus-credit contribution.
func (l LedgerLine) Net() decimal.Decimal {
	return l.DebitAmount.Sub(l.CreditAmount)
}

// BalanceEpsilon is the tolerance within which a journal entry's debit and
// credit totals are considered equal, absorbing rounding in upstream inputs.
var BalanceEpsilon = decimal.NewFromFloat(0.01)
