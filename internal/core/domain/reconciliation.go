package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementType indicates the direction of a bank-statement transaction.
type StatementType string

const (
	StatementCredit StatementType = "credit"
	StatementDebit  StatementType = "debit"
)

// StatementTransaction is one normalized row from an external statement
// parser. Amount is always non-negative; direction is carried by Type.
type StatementTransaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        StatementType   `json:"type"`
	Reference   string          `json:"reference,omitempty"`
}

// SignedAmount returns the statement amount signed by direction, credit
// positive.
func (s StatementTransaction) SignedAmount() decimal.Decimal {
	if s.Type == StatementDebit {
		return s.Amount.Neg()
	}
	return s.Amount
}

// MatchType classifies how a statement transaction paired with a ledger line.
type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchFuzzy MatchType = "fuzzy"
	MatchNone  MatchType = "none"
)

// MatchConfidence grades the reliability of a reconciliation pairing.
type MatchConfidence string

const (
	ConfidenceHigh   MatchConfidence = "high"
	ConfidenceMedium MatchConfidence = "medium"
	ConfidenceLow    MatchConfidence = "low"
)

// ReconciliationItem pairs one statement transaction with its classification.
// Items are generated fresh on every matcher run and never mutated in place;
// a new run supersedes the previous result set.
type ReconciliationItem struct {
	ItemID        string               `json:"itemID"`
	Statement     StatementTransaction `json:"statement"`
	Ledger        *LedgerLine          `json:"ledger,omitempty"`
	MatchType     MatchType            `json:"matchType"`
	Confidence    MatchConfidence      `json:"confidence"`
	AmountDelta   decimal.Decimal      `json:"amountDelta"`
	DateDeltaDays int                  `json:"dateDeltaDays"`
	NeedsReview   bool                 `json:"needsReview"`
	NeedsCreation bool                 `json:"needsCreation"`
}

// ReconciliationStats summarizes one matcher run.
type ReconciliationStats struct {
	TotalItems     int             `json:"totalItems"`
	MatchedItems   int             `json:"matchedItems"`
	UnmatchedItems int             `json:"unmatchedItems"`
	AdjustedItems  int             `json:"adjustedItems"`
	BankBalance    decimal.Decimal `json:"bankBalance"`
	LedgerBalance  decimal.Decimal `json:"ledgerBalance"`
	Difference     decimal.Decimal `json:"difference"`
}

// ReconciliationStatus is the per-run state machine. There is no automatic
// transition from UnderReview to Reconciled; it requires every unmatched item
// to be resolved or an explicit override.
type ReconciliationStatus string

const (
	ReconciliationUploaded    ReconciliationStatus = "UPLOADED"
	ReconciliationMatched     ReconciliationStatus = "MATCHED"
	ReconciliationUnderReview ReconciliationStatus = "UNDER_REVIEW"
	ReconciliationReconciled  ReconciliationStatus = "RECONCILED"
)

// ReconciliationResult is the full output of one matcher run.
type ReconciliationResult struct {
	AccountID  string               `json:"accountID"`
	Matched    []ReconciliationItem `json:"matchedItems"`
	Unmatched  []ReconciliationItem `json:"unmatchedItems"`
	Adjustment []ReconciliationItem `json:"adjustments"`
	Stats      ReconciliationStats  `json:"summary"`
	Status     ReconciliationStatus `json:"status"`
}

// ReconciliationLock marks an account's ledger closed on or before PeriodEnd.
// Writes touching lines dated inside a locked period are rejected.
type ReconciliationLock struct {
	LockID    string    `json:"lockID"`
	AccountID string    `json:"accountID"`
	PeriodEnd time.Time `json:"periodEnd"`
	LockedBy  string    `json:"lockedBy"`
	LockedAt  time.Time `json:"lockedAt"`
}
