package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	portsrepo "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/repositories"
	"github.com/bizbooks-app/bizbooks_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, businessID string, asOf time.Time) ([]portsrepo.AccountBalanceRow, error) {
	args := m.Called(ctx, businessID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.AccountBalanceRow), args.Error(1)
}

func balanceRow(code, name string, accountType domain.AccountType, raw int64) portsrepo.AccountBalanceRow {
	return portsrepo.AccountBalanceRow{
		Account: domain.Account{
			AccountID:   uuid.NewString(),
			Code:        code,
			Name:        name,
			AccountType: accountType,
		},
		RawBalance: decimal.NewFromInt(raw),
	}
}

func TestTrialBalance_BalancedBooks(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.NewString()
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	repo := new(MockReportingRepository)
	repo.On("GetTrialBalanceData", ctx, businessID, asOf).Return([]portsrepo.AccountBalanceRow{
		balanceRow("1000", "Business Checking", domain.Asset, 700),
		balanceRow("4000", "Sales Revenue", domain.Revenue, -1000),
		balanceRow("5000", "Office Supplies", domain.Expense, 300),
	}, nil).Once()

	svc := services.NewReportingService(repo)
	report, err := svc.TrialBalance(ctx, businessID, asOf)

	require.NoError(t, err)
	require.Len(t, report.Rows, 3)

	// Positive raw balances land in the debit column, negative in credit.
	assert.True(t, report.Rows[0].Debit.Equal(decimal.NewFromInt(700)))
	assert.True(t, report.Rows[0].Credit.IsZero())
	assert.True(t, report.Rows[1].Debit.IsZero())
	assert.True(t, report.Rows[1].Credit.Equal(decimal.NewFromInt(1000)))
	assert.True(t, report.Rows[2].Debit.Equal(decimal.NewFromInt(300)))

	assert.True(t, report.DebitTotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, report.CreditTotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, report.Difference.IsZero())
	repo.AssertExpectations(t)
}

func TestTrialBalance_ZeroBalanceAccountIncluded(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.NewString()
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	repo := new(MockReportingRepository)
	repo.On("GetTrialBalanceData", ctx, businessID, asOf).Return([]portsrepo.AccountBalanceRow{
		balanceRow("3000", "Owner Equity", domain.Equity, 0),
	}, nil).Once()

	svc := services.NewReportingService(repo)
	report, err := svc.TrialBalance(ctx, businessID, asOf)

	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.True(t, report.Rows[0].Debit.IsZero())
	assert.True(t, report.Rows[0].Credit.IsZero())
	assert.True(t, report.Difference.IsZero())
}

func TestTrialBalance_SurfacesDifference(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.NewString()
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	// A corrupted ledger where debits and credits do not cancel out.
	repo := new(MockReportingRepository)
	repo.On("GetTrialBalanceData", ctx, businessID, asOf).Return([]portsrepo.AccountBalanceRow{
		balanceRow("1000", "Business Checking", domain.Asset, 500),
		balanceRow("4000", "Sales Revenue", domain.Revenue, -450),
	}, nil).Once()

	svc := services.NewReportingService(repo)
	report, err := svc.TrialBalance(ctx, businessID, asOf)

	require.NoError(t, err)
	assert.True(t, report.Difference.Equal(decimal.NewFromInt(50)))
}

func TestTrialBalance_RepositoryError(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.NewString()
	asOf := time.Now().UTC()

	repo := new(MockReportingRepository)
	repo.On("GetTrialBalanceData", ctx, businessID, asOf).
		Return(nil, errors.New("connection reset")).Once()

	svc := services.NewReportingService(repo)
	_, err := svc.TrialBalance(ctx, businessID, asOf)

	require.Error(t, err)
}
