package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/bankledger/internal/domain"
)

// PostgreSQL error codes surfaced as retryable conflicts.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
)

// mapError tags serialization failures and deadlocks with
// domain.ErrTxConflict so callers can match them without importing pgconn.
// All other errors pass through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock, pgErrSerializationFailure:
			return fmt.Errorf("%w: %s", domain.ErrTxConflict, pgErr.Message)
		}
	}

	return err
}
