package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether the account type is one of the closed set.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether the account type carries a debit-positive
// balance. Asset and expense accounts grow with debits; liability, equity and
// revenue accounts grow with credits.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents an entry in the chart of accounts.
// Balance is a derived cache of the raw debit-minus-credit total; it is always
// rebuildable from ledger lines and never authoritative input.
type Account struct {
	AccountID   string          `json:"accountID"`
	BusinessID  string          `json:"businessID"`
	Code        string          `json:"code"` // unique within the owning business
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Description string          `json:"description"`
	IsActive    bool            `json:"isActive"`
	Balance     decimal.Decimal `json:"balance"`
	AuditFields
}
