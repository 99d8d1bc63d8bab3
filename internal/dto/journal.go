package dto

import (
	"time"

	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLedgerLineRequest is one debit/credit row of a new journal entry.
// Amounts are non-negative; balance is enforced at the entry level.
type CreateLedgerLineRequest struct {
	AccountID    string          `json:"accountId" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}

// CreateJournalEntryRequest defines the payload for posting a journal entry.
type CreateJournalEntryRequest struct {
	Date        time.Time                 `json:"date" binding:"required"`
	Description string                    `json:"description" binding:"required"`
	Items       []CreateLedgerLineRequest `json:"items" binding:"required,min=2,dive"`
	Draft       bool                      `json:"draft"` // draft entries stay editable and deletable
}

// UpdateJournalEntryRequest defines the payload for editing a draft entry.
// Replaces the entry's lines wholesale.
type UpdateJournalEntryRequest struct {
	Date        *time.Time                `json:"date"`
	Description *string                   `json:"description"`
	Items       []CreateLedgerLineRequest `json:"items" binding:"omitempty,min=2,dive"`
}

// LedgerLineResponse defines the data returned for a ledger line.
type LedgerLineResponse struct {
	LineID         string          `json:"lineID"`
	JournalID      string          `json:"journalID"`
	AccountID      string          `json:"accountID"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	RunningBalance decimal.Decimal `json:"balance"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	JournalID   string               `json:"journalID"`
	Date        time.Time            `json:"date"`
	Description string               `json:"description"`
	Reference   string               `json:"reference"`
	Status      domain.JournalStatus `json:"status"`
	Amount      decimal.Decimal      `json:"amount"`
	CreatedAt   time.Time            `json:"createdAt"`
	CreatedBy   string               `json:"createdBy"`
	Lines       []LedgerLineResponse `json:"lines,omitempty"`
}

// ListJournalEntriesParams holds pagination parameters for listing entries.
type ListJournalEntriesParams struct {
	Limit     int
	NextToken *string
}

// ListJournalEntriesResponse is a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ListLedgerLinesParams holds pagination parameters for an account's ledger.
type ListLedgerLinesParams struct {
	Limit     int
	NextToken *string
}

// ListLedgerLinesResponse is a page of an account's ledger lines.
type ListLedgerLinesResponse struct {
	Lines     []LedgerLineResponse `json:"lines"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// ToLedgerLineResponse converts a domain.LedgerLine to its DTO.
func ToLedgerLineResponse(l *domain.LedgerLine) LedgerLineResponse {
	return LedgerLineResponse{
		LineID:         l.LineID,
		JournalID:      l.JournalID,
		AccountID:      l.AccountID,
		Date:           l.LineDate,
		Description:    l.Description,
		DebitAmount:    l.DebitAmount,
		CreditAmount:   l.CreditAmount,
		RunningBalance: l.RunningBalance,
	}
}

// ToLedgerLineResponses converts a slice of domain lines.
func ToLedgerLineResponses(lines []domain.LedgerLine) []LedgerLineResponse {
	responses := make([]LedgerLineResponse, len(lines))
	for i := range lines {
		responses[i] = ToLedgerLineResponse(&lines[i])
	}
	return responses
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		JournalID:   e.JournalID,
		Date:        e.JournalDate,
		Description: e.Description,
		Reference:   e.Reference,
		Status:      e.Status,
		Amount:      e.Amount,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
		Lines:       ToLedgerLineResponses(e.Lines),
	}
}
