package repositories

import (
	"context"

	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
)

// ReconciliationLockReader defines read operations for period locks
type ReconciliationLockReader interface {
	// FindLocksByAccountID retrieves all locks for an account, newest period first.
	FindLocksByAccountID(ctx context.Context, accountID string) ([]domain.ReconciliationLock, error)

	// FindLatestLockForAccounts returns, per account, the lock with the latest
	// period end. Accounts without locks are absent from the map.
	FindLatestLockForAccounts(ctx context.Context, accountIDs []string) (map[string]domain.ReconciliationLock, error)
}

// ReconciliationLockWriter defines write operations for period locks
type ReconciliationLockWriter interface {
	// SaveLock persists a reconciliation lock for an account period.
	SaveLock(ctx context.Context, lock domain.ReconciliationLock) error
}

// ReconciliationRepositoryFacade combines the lock repository interfaces.
type ReconciliationRepositoryFacade interface {
	ReconciliationLockReader
	ReconciliationLockWriter
}
