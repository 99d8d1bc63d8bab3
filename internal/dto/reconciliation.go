package dto

import (
	"time"

	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatementTransactionRequest is one normalized row from the external
// statement parser. Amount is non-negative; direction travels in Type.
type StatementTransactionRequest struct {
	Date        time.Time       `json:"date" binding:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=credit debit"`
	Reference   string          `json:"reference"`
}

// AutoMatchRequest defines the payload for a reconciliation matcher run.
type AutoMatchRequest struct {
	AccountID             string                        `json:"accountId" binding:"required"`
	StatementTransactions []StatementTransactionRequest `json:"statementTransactions" binding:"required,dive"`
}

// AutoMatchResponse mirrors the matcher result with the statement and ledger
// snapshots the run was computed over.
type AutoMatchResponse struct {
	BankStatement  []StatementTransactionRequest `json:"bankStatement"`
	LedgerEntries  []LedgerLineResponse          `json:"ledgerEntries"`
	MatchedItems   []ReconciliationItemResponse  `json:"matchedItems"`
	UnmatchedItems []ReconciliationItemResponse  `json:"unmatchedItems"`
	Adjustments    []ReconciliationItemResponse  `json:"adjustments"`
	Summary        domain.ReconciliationStats    `json:"summary"`
	Status         domain.ReconciliationStatus   `json:"status"`
}

// ReconciliationItemResponse is one classified statement transaction.
type ReconciliationItemResponse struct {
	ItemID        string                      `json:"itemID"`
	Statement     StatementTransactionRequest `json:"statementItem"`
	Ledger        *LedgerLineResponse         `json:"ledgerItem,omitempty"`
	MatchType     domain.MatchType            `json:"matchType"`
	Confidence    domain.MatchConfidence      `json:"confidence"`
	AmountDelta   decimal.Decimal             `json:"amountDelta"`
	DateDeltaDays int                         `json:"dateDeltaDays"`
	NeedsReview   bool                        `json:"needsReview"`
	NeedsCreation bool                        `json:"needsCreation"`
}

// UnmatchedEntryRequest is one unmatched statement item being promoted into a
// journal entry.
type UnmatchedEntryRequest struct {
	Date        time.Time       `json:"date" binding:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=credit debit"`
	Reference   string          `json:"reference"`
}

// CreateEntriesForUnmatchedRequest promotes unmatched items into two-line
// journal entries between the operator-selected accounts.
type CreateEntriesForUnmatchedRequest struct {
	Items           []UnmatchedEntryRequest `json:"items" binding:"required,min=1,dive"`
	DebitAccountID  string                  `json:"debitAccountId" binding:"required"`
	CreditAccountID string                  `json:"creditAccountId" binding:"required"`
}

// BulkActionRequest applies approve/create across a selection. Each item's
// outcome is reported independently.
type BulkActionRequest struct {
	Action          string                  `json:"action" binding:"required,oneof=approve create"`
	ItemIDs         []string                `json:"itemIds"`
	Items           []UnmatchedEntryRequest `json:"items" binding:"omitempty,dive"`
	DebitAccountID  string                  `json:"debitAccountId"`
	CreditAccountID string                  `json:"creditAccountId"`
}

// ItemOutcome reports the result of one item in a workflow action.
type ItemOutcome struct {
	ItemID    string `json:"itemID,omitempty"`
	Reference string `json:"reference,omitempty"`
	JournalID string `json:"journalID,omitempty"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// LockReconciliationRequest closes an account's period on/before PeriodEnd.
type LockReconciliationRequest struct {
	AccountID string    `json:"accountId" binding:"required"`
	PeriodEnd time.Time `json:"periodEnd" binding:"required"`
}

// ReconciliationLockResponse describes a persisted period lock.
type ReconciliationLockResponse struct {
	LockID    string    `json:"lockID"`
	AccountID string    `json:"accountID"`
	PeriodEnd time.Time `json:"periodEnd"`
	LockedBy  string    `json:"lockedBy"`
	LockedAt  time.Time `json:"lockedAt"`
}

// ToStatementTransaction converts the request row into its domain shape.
func (r StatementTransactionRequest) ToStatementTransaction() domain.StatementTransaction {
	return domain.StatementTransaction{
		Date:        r.Date,
		Description: r.Description,
		Amount:      r.Amount,
		Type:        domain.StatementType(r.Type),
		Reference:   r.Reference,
	}
}

// FromStatementTransaction converts a domain statement row back to a DTO.
func FromStatementTransaction(s domain.StatementTransaction) StatementTransactionRequest {
	return StatementTransactionRequest{
		Date:        s.Date,
		Description: s.Description,
		Amount:      s.Amount,
		Type:        string(s.Type),
		Reference:   s.Reference,
	}
}

// ToReconciliationItemResponse converts a matcher item to its DTO.
func ToReconciliationItemResponse(item domain.ReconciliationItem) ReconciliationItemResponse {
	resp := ReconciliationItemResponse{
		ItemID:        item.ItemID,
		Statement:     FromStatementTransaction(item.Statement),
		MatchType:     item.MatchType,
		Confidence:    item.Confidence,
		AmountDelta:   item.AmountDelta,
		DateDeltaDays: item.DateDeltaDays,
		NeedsReview:   item.NeedsReview,
		NeedsCreation: item.NeedsCreation,
	}
	if item.Ledger != nil {
		lr := ToLedgerLineResponse(item.Ledger)
		resp.Ledger = &lr
	}
	return resp
}

// ToReconciliationItemResponses converts a slice of matcher items.
func ToReconciliationItemResponses(items []domain.ReconciliationItem) []ReconciliationItemResponse {
	responses := make([]ReconciliationItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToReconciliationItemResponse(item)
	}
	return responses
}

// ToLockResponse converts a domain lock to its DTO.
func ToLockResponse(l domain.ReconciliationLock) ReconciliationLockResponse {
	return ReconciliationLockResponse{
		LockID:    l.LockID,
		AccountID: l.AccountID,
		PeriodEnd: l.PeriodEnd,
		LockedBy:  l.LockedBy,
		LockedAt:  l.LockedAt,
	}
}
