package postgres

import (
	"errors"
	"fmt"
	"yourplaces/pkg/storage"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// mapError converts postgres errors that signal a lost race between concurrent
// transactions into storage.ErrWriteConflict while keeping the original error
// in the chain. Other errors are returned unchanged.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return fmt.Errorf("%w: %w", storage.ErrWriteConflict, err)
	default:
		return err
	}
}
