package dto

import (
	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse is one account row of the trial balance report.
type TrialBalanceRowResponse struct {
	AccountCode string             `json:"accountCode"`
	AccountName string             `json:"accountName"`
	AccountType domain.AccountType `json:"accountType"`
	DebitBal    decimal.Decimal    `json:"debitBalance"`
	CreditBal   decimal.Decimal    `json:"creditBalance"`
}

// TrialBalanceResponse is the full trial balance with column totals.
type TrialBalanceResponse struct {
	Rows        []TrialBalanceRowResponse `json:"rows"`
	DebitTotal  decimal.Decimal           `json:"debitTotal"`
	CreditTotal decimal.Decimal           `json:"creditTotal"`
	Difference  decimal.Decimal           `json:"difference"`
}

// ToTrialBalanceResponse converts the domain report to its DTO.
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(report.Rows))
	for i, row := range report.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: row.AccountType,
			DebitBal:    row.Debit,
			CreditBal:   row.Credit,
		}
	}
	return TrialBalanceResponse{
		Rows:        rows,
		DebitTotal:  report.DebitTotal,
		CreditTotal: report.CreditTotal,
		Difference:  report.Difference,
	}
}
