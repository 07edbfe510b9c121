package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxTxAttempts bounds the retries of a seat transaction that lost a
// serialization or deadlock race before the conflict is surfaced to the
// caller as a seat-unavailable error.
const maxTxAttempts = 3

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}

// runInTxWithRetry re-runs the whole check-and-set transaction when the
// database reports a transient lock conflict. Retries are bounded; genuine
// conflicts (booked or held seats) are not retried here, they come back as
// domain errors from fn.
func runInTxWithRetry(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var err error

	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = runInTx(ctx, db, fn)
		if err == nil || !isRetryableTxError(err) {
			return err
		}
	}

	return fmt.Errorf("%w: transaction contention persisted after %d attempts: %v",
		domain.ErrSeatUnavailable, maxTxAttempts, err)
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
}
