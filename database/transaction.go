package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// maxAttempts bounds transparent retries of a contended transaction
const maxAttempts = 3

// ErrConflict is returned once retries of a contended transaction are
// exhausted. Callers may safely retry the whole operation.
var ErrConflict = errors.New("transaction conflict, please retry")

// IsRetryable reports whether the error is a transient concurrency failure:
// a serialization failure (40001) or a deadlock (40P01).
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// WithRetry runs fn, retrying when the database reports a transient
// serialization or deadlock failure. fn must begin and finish its own
// transaction on every attempt. After the attempts are exhausted the
// failure surfaces as ErrConflict.
func WithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
			}
		}

		err = fn(ctx)
		if err == nil || !IsRetryable(err) {
			return err
		}
	}
	return ErrConflict
}
