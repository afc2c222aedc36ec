package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Options configures the connection bound and timeouts of a DB.
type Options struct {
	MaxConns       int
	AcquireTimeout time.Duration
	QueryTimeout   time.Duration
	// LengthWeight divides the bm25 score by 1 + LengthWeight*words, ranking
	// long messages below short ones with the same terms. Zero is plain bm25.
	LengthWeight float64
}

// DefaultOptions returns five connections with a 3s acquire timeout.
func DefaultOptions() Options {
	return Options{
		MaxConns:       5,
		AcquireTimeout: 3 * time.Second,
		QueryTimeout:   30 * time.Second,
	}
}

// DB wraps the SQLite archive database.
type DB struct {
	*sql.DB
	pool       *Pool
	lengthWeight float64
}

// Open connects to the archive at path with WAL mode and recommended pragmas.
func Open(path string, opts Options) (*DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if opts.MaxConns <= 0 {
		opts.MaxConns = DefaultOptions().MaxConns
	}
	db.SetMaxOpenConns(opts.MaxConns)
	db.SetMaxIdleConns(opts.MaxConns)
	if opts.LengthWeight < 0 {
		opts.LengthWeight = 0
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping db: %w", ErrStoreUnavailable, err)
	}
	return &DB{
		DB:         db,
		pool:       NewPool(opts.MaxConns, opts.AcquireTimeout, opts.QueryTimeout),
		lengthWeight: opts.LengthWeight,
	}, nil
}

// Backend names the storage engine.
func (db *DB) Backend() string { return "sqlite" }

// Ping checks the database is reachable through the pool.
func (db *DB) Ping(ctx context.Context) error {
	ctx, release, err := db.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return classify("ping", db.PingContext(ctx))
}
