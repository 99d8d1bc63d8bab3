package services

import (
	"context"
	"time"

	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
)

// ReportingService defines read operations for financial reports.
type ReportingService interface {
	// TrialBalance lists every account's balance as of a date, with debit and
	// credit columns per the account's normal side and report totals.
	TrialBalance(ctx context.Context, businessID string, asOf time.Time) (*domain.TrialBalanceReport, error)
}
