package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/bizbooks-app/bizbooks_backend/internal/apperrors"
	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	portsrepo "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/repositories"
	"github.com/bizbooks-app/bizbooks_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReconciliationRepository struct {
	pool *pgxpool.Pool
}

// newPgxReconciliationRepository creates a new repository for reconciliation locks.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{pool: pool}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

func toDomainLock(m models.ReconciliationLock) domain.ReconciliationLock {
	return domain.ReconciliationLock{
		LockID:    m.LockID,
		AccountID: m.AccountID,
		PeriodEnd: m.PeriodEnd,
		LockedBy:  m.LockedBy,
		LockedAt:  m.LockedAt,
	}
}

const lockColumns = `lock_id, account_id, period_end, locked_by, locked_at`

func scanLock(row pgx.Row) (models.ReconciliationLock, error) {
	var m models.ReconciliationLock
	err := row.Scan(&m.LockID, &m.AccountID, &m.PeriodEnd, &m.LockedBy, &m.LockedAt)
	return m, err
}

// SaveLock persists a reconciliation lock for an account period.
func (r *PgxReconciliationRepository) SaveLock(ctx context.Context, lock domain.ReconciliationLock) error {
	query := `
		INSERT INTO reconciliation_locks (` + lockColumns + `)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.pool.Exec(ctx, query, lock.LockID, lock.AccountID, lock.PeriodEnd, lock.LockedBy, lock.LockedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation on (account_id, period_end)
				return fmt.Errorf("%w: account %s is already locked for this period", apperrors.ErrConflict, lock.AccountID)
			}
			if pgErr.Code == "23503" { // FK violation
				return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, lock.AccountID)
			}
		}
		return fmt.Errorf("failed to save reconciliation lock for account %s: %w", lock.AccountID, err)
	}
	return nil
}

// FindLocksByAccountID retrieves all locks for an account, newest period first.
func (r *PgxReconciliationRepository) FindLocksByAccountID(ctx context.Context, accountID string) ([]domain.ReconciliationLock, error) {
	query := `
		SELECT ` + lockColumns + `
		FROM reconciliation_locks
		WHERE account_id = $1
		ORDER BY period_end DESC;
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query locks for account %s: %w", accountID, err)
	}
	defer rows.Close()

	locks := []domain.ReconciliationLock{}
	for rows.Next() {
		m, err := scanLock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lock row for account %s: %w", accountID, err)
		}
		locks = append(locks, toDomainLock(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lock rows for account %s: %w", accountID, err)
	}
	return locks, nil
}

// FindLatestLockForAccounts returns, per account, the lock with the latest
// period end. Accounts without locks are absent from the map.
func (r *PgxReconciliationRepository) FindLatestLockForAccounts(ctx context.Context, accountIDs []string) (map[string]domain.ReconciliationLock, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.ReconciliationLock{}, nil
	}

	query := `
		SELECT DISTINCT ON (account_id) ` + lockColumns + `
		FROM reconciliation_locks
		WHERE account_id = ANY($1)
		ORDER BY account_id, period_end DESC;
	`
	rows, err := r.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest locks: %w", err)
	}
	defer rows.Close()

	locksMap := make(map[string]domain.ReconciliationLock)
	for rows.Next() {
		m, err := scanLock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lock row during batch fetch: %w", err)
		}
		locksMap[m.AccountID] = toDomainLock(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lock rows during batch fetch: %w", err)
	}
	return locksMap, nil
}
