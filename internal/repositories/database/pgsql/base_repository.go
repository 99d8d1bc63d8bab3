package pgsql

import (
	"context"
	"errors"

	"github.com/bizbooks-app/bizbooks_backend/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository holds the shared connection pool and transaction plumbing
// for the pgsql repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// inTx runs fn inside a database transaction. The transaction commits when fn
// returns nil and rolls back otherwise; the deferred rollback after a
// successful commit is a no-op.
func (r *BaseRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, beginErr := r.Pool.Begin(ctx)
	if beginErr != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", beginErr)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) && err == nil {
			err = apperrors.NewAppError(500, "failed to rollback transaction", rbErr)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}
