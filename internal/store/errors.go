package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/matheus3301/slackvault/internal/timestamp"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Read-path error kinds. Backends wrap driver errors with one of these so
// callers can use errors.Is regardless of the backend.
var (
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrQueryFailed      = errors.New("query failed")
)

// Kind names the error class of err, for metrics labels and logs.
func Kind(err error) string {
	var tsErr *timestamp.Error
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrStoreUnavailable):
		return "unavailable"
	case errors.As(err, &tsErr) && tsErr.Source == timestamp.SourceStored:
		return "corrupt_timestamp"
	case errors.As(err, &tsErr):
		return "bad_cursor"
	case errors.Is(err, ErrQueryFailed):
		return "query_failed"
	default:
		return "other"
	}
}

// classify wraps a database/sql or SQLite error into a read-path error kind.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrNotFound) || errors.Is(err, timestamp.ErrMalformed) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN,
			sqlite3.SQLITE_IOERR, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_FULL:
			return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrQueryFailed, op, err)
}
