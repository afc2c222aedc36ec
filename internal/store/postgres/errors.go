package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/matheus3301/slackvault/internal/store"
)

// classify wraps a pgx error into a read-path error kind.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrStoreUnavailable) || errors.Is(err, store.ErrNotFound) {
		return err
	}
	if unavailable(err) {
		return fmt.Errorf("%w: %s: %w", store.ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %w", store.ErrQueryFailed, op, err)
}

func unavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 08: connection exception, 57P: operator intervention (shutdown, cannot connect now).
		// 53: insufficient resources (too many connections).
		return strings.HasPrefix(pgErr.Code, "08") ||
			strings.HasPrefix(pgErr.Code, "57P") ||
			strings.HasPrefix(pgErr.Code, "53")
	}
	return false
}
