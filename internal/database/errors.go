package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"wcdb-go/internal/wc"
)

// mapError translates driver and context errors into the store taxonomy.
// This is the only place that inspects sqlite3 result codes.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w", wc.ErrNotFound)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", wc.ErrInterrupted, err)
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return fmt.Errorf("%w: %v", wc.ErrBusy, err)
		case sqlite3.ErrConstraint:
			return fmt.Errorf("%w: %v", wc.ErrConstraintViolation, err)
		case sqlite3.ErrCorrupt, sqlite3.ErrNotADB:
			return fmt.Errorf("%w: %v", wc.ErrCorrupt, err)
		case sqlite3.ErrFull:
			return fmt.Errorf("%w: %v", wc.ErrNoSpace, err)
		case sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrCantOpen:
			return fmt.Errorf("%w: %v", wc.ErrPermissionDenied, err)
		case sqlite3.ErrIoErr:
			return fmt.Errorf("%w: %v", wc.ErrIO, err)
		}
	}
	return err
}

// isBusy reports whether err is a retryable contention error.
func isBusy(err error) bool {
	return errors.Is(err, wc.ErrBusy)
}
