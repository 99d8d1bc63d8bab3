package repositories

import (
	"context"
	"time"

	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountBalanceRow pairs an account with its raw debit-minus-credit total as
// of a date, re-derived from ledger lines rather than the cached balance.
type AccountBalanceRow struct {
	Account    domain.Account
	RawBalance decimal.Decimal
}

// ReportingRepository defines read operations for financial reports
type ReportingRepository interface {
	// GetTrialBalanceData returns every account of the business with its raw
	// balance derived from ledger lines dated on or before asOf.
	GetTrialBalanceData(ctx context.Context, businessID string, asOf time.Time) ([]AccountBalanceRow, error)
}
