// Package config loads ~/.slackvault/config.toml and applies environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/matheus3301/slackvault/internal/timestamp"
	"go.uber.org/zap/zapcore"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config represents the global ~/.slackvault/config.toml.
type Config struct {
	DefaultProfile string        `toml:"default_profile"`
	Store          StoreConfig   `toml:"store"`
	Paging         PagingConfig  `toml:"paging"`
	Search         SearchConfig  `toml:"search"`
	Log            LogConfig     `toml:"log"`
	Metrics        MetricsConfig `toml:"metrics"`
	Health         HealthConfig  `toml:"health"`
}

type StoreConfig struct {
	Backend string `toml:"backend"`
	// Path overrides the profile's archive.db for the sqlite backend.
	Path           string   `toml:"path,omitempty"`
	DSN            string   `toml:"dsn,omitempty"`
	MaxConns       int      `toml:"max_conns"`
	AcquireTimeout Duration `toml:"acquire_timeout"`
	QueryTimeout   Duration `toml:"query_timeout"`
}

type PagingConfig struct {
	PageSize     int    `toml:"page_size"`
	MaxPageSize  int    `toml:"max_page_size"`
	DefaultSince string `toml:"default_since"`
	// Watermarks maps channel names to the ts below which history is hidden.
	Watermarks map[string]string `toml:"watermarks,omitempty"`
}

type SearchConfig struct {
	Limit    int `toml:"limit"`
	MaxLimit int `toml:"max_limit"`
	// Normalization holds the PostgreSQL ts_rank_cd flags, ORed together.
	Normalization []int `toml:"normalization"`
	// LengthWeight penalizes long messages in SQLite ranking, the counterpart
	// of ts_rank_cd's length normalization. Zero ranks by plain bm25.
	LengthWeight float64 `toml:"length_weight"`
	// Rate and Burst bound search requests per second; zero disables.
	Rate  float64 `toml:"rate"`
	Burst int     `toml:"burst"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type MetricsConfig struct {
	// Addr is the /metrics listen address; empty disables the listener.
	Addr string `toml:"addr,omitempty"`
}

type HealthConfig struct {
	Interval Duration `toml:"interval"`
}

// Duration is a time.Duration written as a string such as "3s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Defaults returns the configuration used when no file exists.
func Defaults() *Config {
	return &Config{
		DefaultProfile: "main",
		Store: StoreConfig{
			Backend:        BackendSQLite,
			MaxConns:       5,
			AcquireTimeout: Duration{3 * time.Second},
			QueryTimeout:   Duration{30 * time.Second},
		},
		Paging: PagingConfig{
			PageSize:     50,
			MaxPageSize:  500,
			DefaultSince: timestamp.Canonical(timestamp.Epoch),
		},
		Search: SearchConfig{
			Limit:         50,
			MaxLimit:      500,
			Normalization: []int{2, 4},
			LengthWeight:  0,
			Rate:          20,
			Burst:         40,
		},
		Log:    LogConfig{Level: "info"},
		Health: HealthConfig{Interval: Duration{15 * time.Second}},
	}
}

// Load reads config from path on top of Defaults. Returns an error if the
// file is missing.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load that falls back to Defaults when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	return cfg, err
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// LoadEnvFiles loads .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg from environment variables read through getenv.
//
// VAULT_STORE_BACKEND, VAULT_STORE_DSN, VAULT_METRICS_ADDR and VAULT_LOG_LEVEL
// map to their config keys. TUMMY_HOST, TUMMY_PORT, TUMMY_USERNAME,
// TUMMY_PASSWORD and TUMMY_DB compose a PostgreSQL DSN and select that
// backend unless VAULT_STORE_DSN is also set.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if host := getenv("TUMMY_HOST"); host != "" {
		port := getenv("TUMMY_PORT")
		if port == "" {
			port = "5432"
		}
		u := url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(host, port),
			Path:   "/" + getenv("TUMMY_DB"),
		}
		if user := getenv("TUMMY_USERNAME"); user != "" {
			u.User = url.UserPassword(user, getenv("TUMMY_PASSWORD"))
		}
		cfg.Store.Backend = BackendPostgres
		cfg.Store.DSN = u.String()
	}
	if v := getenv("VAULT_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := getenv("VAULT_STORE_DSN"); v != "" {
		cfg.Store.DSN = v
	}
	if v := getenv("VAULT_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := getenv("VAULT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite:
	case BackendPostgres:
		if c.Store.DSN == "" {
			return errors.New("store.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("store.backend %q: want %q or %q", c.Store.Backend, BackendSQLite, BackendPostgres)
	}
	if c.Store.MaxConns <= 0 {
		return fmt.Errorf("store.max_conns must be positive, got %d", c.Store.MaxConns)
	}
	if c.Store.AcquireTimeout.Duration <= 0 {
		return errors.New("store.acquire_timeout must be positive")
	}
	if c.Paging.PageSize <= 0 || c.Paging.MaxPageSize < c.Paging.PageSize {
		return fmt.Errorf("paging: need 0 < page_size (%d) <= max_page_size (%d)", c.Paging.PageSize, c.Paging.MaxPageSize)
	}
	if _, _, err := c.Paging.Parse(); err != nil {
		return err
	}
	if c.Search.Limit <= 0 || c.Search.MaxLimit < c.Search.Limit {
		return fmt.Errorf("search: need 0 < limit (%d) <= max_limit (%d)", c.Search.Limit, c.Search.MaxLimit)
	}
	for _, f := range c.Search.Normalization {
		switch f {
		case 0, 1, 2, 4, 8, 16, 32:
		default:
			return fmt.Errorf("search.normalization: %d is not a ts_rank_cd flag", f)
		}
	}
	if c.Search.LengthWeight < 0 {
		return errors.New("search.length_weight must not be negative")
	}
	if c.Search.Rate < 0 || c.Search.Burst < 0 {
		return errors.New("search.rate and search.burst must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Health.Interval.Duration <= 0 {
		return errors.New("health.interval must be positive")
	}
	return nil
}

// Parse returns the default watermark and the per-channel watermarks.
func (p PagingConfig) Parse() (time.Time, map[string]time.Time, error) {
	since := timestamp.Epoch
	if p.DefaultSince != "" {
		t, err := timestamp.Parse(p.DefaultSince)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("paging.default_since: %w", err)
		}
		since = t
	}
	marks := make(map[string]time.Time, len(p.Watermarks))
	for name, raw := range p.Watermarks {
		t, err := timestamp.Parse(raw)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("paging.watermarks.%s: %w", name, err)
		}
		marks[name] = t
	}
	return since, marks, nil
}
