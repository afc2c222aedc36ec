package daemon

import (
	"context"
	"fmt"

	"github.com/matheus3301/slackvault/internal/archive"
	"github.com/matheus3301/slackvault/internal/config"
	"github.com/matheus3301/slackvault/internal/lock"
	"github.com/matheus3301/slackvault/internal/profile"
	"github.com/matheus3301/slackvault/internal/store"
	"github.com/matheus3301/slackvault/internal/store/postgres"
	"go.uber.org/zap"
)

// migrator is implemented by both backends.
type migrator interface {
	archive.Reader
	Migrate() (*store.MigrateResult, error)
}

// openStore opens the backend named by p.Config without migrating it.
func openStore(p Params) (migrator, zap.Field, error) {
	cfg := p.Config.Store
	switch cfg.Backend {
	case config.BackendPostgres:
		s, err := postgres.Open(context.Background(), cfg.DSN, postgres.Options{
			MaxConns:       cfg.MaxConns,
			AcquireTimeout: cfg.AcquireTimeout.Duration,
			QueryTimeout:   cfg.QueryTimeout.Duration,
			Normalization:  p.Config.Search.Normalization,
		})
		if err != nil {
			return nil, zap.Skip(), err
		}
		return s, zap.Skip(), nil
	default:
		path := cfg.Path
		if path == "" {
			path = profile.ArchiveDBPath(p.Profile)
		}
		db, err := store.Open(path, store.Options{
			MaxConns:       cfg.MaxConns,
			AcquireTimeout: cfg.AcquireTimeout.Duration,
			QueryTimeout:   cfg.QueryTimeout.Duration,
			LengthWeight:   p.Config.Search.LengthWeight,
		})
		if err != nil {
			return nil, zap.Skip(), err
		}
		return db, zap.String("path", path), nil
	}
}

// openMigrated opens the store and applies pending migrations.
func openMigrated(p Params, logger *zap.Logger) (archive.Reader, error) {
	m, where, err := openStore(p)
	if err != nil {
		return nil, err
	}
	if _, err := migrate(m, logger); err != nil {
		_ = m.Close()
		return nil, err
	}
	logger.Info("store initialized", zap.String("backend", m.Backend()), where)
	return m, nil
}

func migrate(m migrator, logger *zap.Logger) (*store.MigrateResult, error) {
	result, err := m.Migrate()
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	return result, nil
}

// Migrate applies pending migrations to a profile's store outside the daemon.
// It takes the profile lock, so it fails while a daemon is serving.
func Migrate(name string, cfg *config.Config, logger *zap.Logger) (*store.MigrateResult, error) {
	if err := profile.EnsureDir(name); err != nil {
		return nil, err
	}
	lk, err := lock.Acquire(profile.Dir(name))
	if err != nil {
		return nil, err
	}
	defer func() { _ = lk.Release() }()

	m, _, err := openStore(Params{Profile: name, Config: cfg})
	if err != nil {
		return nil, err
	}
	defer func() { _ = m.Close() }()
	return migrate(m, logger)
}
