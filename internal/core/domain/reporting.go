package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account in a trial balance report.
// Exactly one of Debit/Credit is non-zero, per the account's normal side.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debitBalance"`
	Credit      decimal.Decimal `json:"creditBalance"`
}

// TrialBalanceReport lists every account's balance with column totals. For a
// fully posted ledger Difference is always zero.
type TrialBalanceReport struct {
	Rows        []TrialBalanceRow `json:"rows"`
	DebitTotal  decimal.Decimal   `json:"debitTotal"`
	CreditTotal decimal.Decimal   `json:"creditTotal"`
	Difference  decimal.Decimal   `json:"difference"`
}
