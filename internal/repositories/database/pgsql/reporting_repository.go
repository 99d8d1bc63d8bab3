package pgsql

import (
	"context"
	"fmt"
	"time"

	portsrepo "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/repositories"
	"github.com/bizbooks-app/bizbooks_backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxReportingRepository struct {
	pool *pgxpool.Pool
}

// newPgxReportingRepository creates a new repository for report queries.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{pool: pool}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetTrialBalanceData returns every account of the business with its raw
// debit-minus-credit total derived from lines dated on or before asOf. Draft
// lines count, matching the cached account balances. Balances are re-derived
// from lines rather than read from the cached column so the report stays
// correct even when a cache refresh is pending.
func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, businessID string, asOf time.Time) ([]portsrepo.AccountBalanceRow, error) {
	query := `
		SELECT a.account_id, a.business_id, a.code, a.name, a.account_type, a.description, a.is_active, a.balance,
		       a.created_at, a.created_by, a.last_updated_at, a.last_updated_by,
		       COALESCE(SUM(l.debit_amount - l.credit_amount) FILTER (
		           WHERE l.line_date <= $2
		       ), 0) AS raw_balance
		FROM accounts a
		LEFT JOIN ledger_lines l ON l.account_id = a.account_id
		WHERE a.business_id = $1
		GROUP BY a.account_id
		ORDER BY a.code;
	`

	rows, err := r.pool.Query(ctx, query, businessID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance data for business %s: %w", businessID, err)
	}
	defer rows.Close()

	result := []portsrepo.AccountBalanceRow{}
	for rows.Next() {
		var m models.Account
		var rawBalance decimal.Decimal
		err := rows.Scan(
			&m.AccountID,
			&m.BusinessID,
			&m.Code,
			&m.Name,
			&m.AccountType,
			&m.Description,
			&m.IsActive,
			&m.Balance,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&rawBalance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row for business %s: %w", businessID, err)
		}
		result = append(result, portsrepo.AccountBalanceRow{
			Account:    toDomainAccount(m),
			RawBalance: rawBalance,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows for business %s: %w", businessID, err)
	}
	return result, nil
}
