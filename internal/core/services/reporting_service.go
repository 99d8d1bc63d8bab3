package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	portsrepo "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/services"
	"github.com/bizbooks-app/bizbooks_backend/internal/middleware"
	"github.com/bizbooks-app/bizbooks_backend/internal/utils/accounting"
)

// reportingService produces financial reports from ledger data.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(repo portsrepo.ReportingRepository) portssvc.ReportingService {
	return &reportingService{reportingRepo: repo}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance generates a trial balance as of a specific date. Balances are
// re-derived from ledger lines, never read from the cached account balance,
// so a stale cache cannot skew the report.
func (s *reportingService) TrialBalance(ctx context.Context, businessID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, businessID, asOf)
	if err != nil {
		logger.Error("Failed to retrieve trial balance data",
			slog.String("business_id", businessID),
			slog.String("as_of", asOf.Format(time.RFC3339)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	report := &domain.TrialBalanceReport{
		Rows:        make([]domain.TrialBalanceRow, 0, len(rows)),
		DebitTotal:  decimal.Zero,
		CreditTotal: decimal.Zero,
	}
	for _, row := range rows {
		debit, credit := accounting.TrialBalanceSides(row.RawBalance)
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:   row.Account.AccountID,
			AccountCode: row.Account.Code,
			AccountName: row.Account.Name,
			AccountType: row.Account.AccountType,
			Debit:       debit,
			Credit:      credit,
		})
		report.DebitTotal = report.DebitTotal.Add(debit)
		report.CreditTotal = report.CreditTotal.Add(credit)
	}
	report.Difference = report.DebitTotal.Sub(report.CreditTotal)

	logger.Info("Trial balance generated",
		slog.String("business_id", businessID),
		slog.String("as_of", asOf.Format(time.RFC3339)),
		slog.Int("row_count", len(report.Rows)),
		slog.String("difference", report.Difference.String()))
	return report, nil
}
