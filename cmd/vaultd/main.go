package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/matheus3301/slackvault/internal/config"
	"github.com/matheus3301/slackvault/internal/daemon"
	"github.com/matheus3301/slackvault/internal/lock"
	"github.com/matheus3301/slackvault/internal/logging"
	"github.com/matheus3301/slackvault/internal/profile"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	profile     string
	configPath  string
	backend     string
	dsn         string
	dbPath      string
	metricsAddr string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "vaultd",
		Short:         "Serve a Slack archive profile over a local socket",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, cfg, err := resolve(cmd, &f)
			if err != nil {
				return err
			}
			if held, err := lock.Holder(profile.Dir(name)); err == nil && held != nil {
				return fmt.Errorf("profile %q is already served: %w", name, held)
			}

			app := fx.New(
				fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
					return &fxevent.ZapLogger{Logger: log.Named("fx")}
				}),
				daemon.Module(daemon.Params{Profile: name, Config: cfg}),
			)
			app.Run()
			return app.Err()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.profile, "profile", "", "profile name (overrides config default)")
	pf.StringVar(&f.configPath, "config", "", "config file (default $SLACKVAULT_HOME/config.toml)")
	pf.StringVar(&f.backend, "backend", "", "store backend: sqlite or postgres")
	pf.StringVar(&f.dsn, "dsn", "", "PostgreSQL connection string")
	pf.StringVar(&f.dbPath, "db", "", "SQLite archive path (default <profile>/archive.db)")
	pf.StringVar(&f.metricsAddr, "metrics-addr", "", "serve /metrics on this address")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newInitCmd(&f), newMigrateCmd(&f))
	return cmd
}

// resolve builds the effective configuration: file, then .env and process
// environment, then flags.
func resolve(cmd *cobra.Command, f *flags) (string, *config.Config, error) {
	name := profile.Resolve(f.profile)
	if err := profile.ValidateName(name); err != nil {
		return "", nil, err
	}

	if err := config.LoadEnvFiles(profile.EnvPath(), ".env"); err != nil {
		return "", nil, err
	}
	path := f.configPath
	if path == "" {
		path = profile.ConfigPath()
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return "", nil, fmt.Errorf("load config %s: %w", path, err)
	}
	config.ApplyEnv(cfg, os.Getenv)

	fl := cmd.Flags()
	if fl.Changed("backend") {
		cfg.Store.Backend = f.backend
	}
	if fl.Changed("dsn") {
		cfg.Store.DSN = f.dsn
	}
	if fl.Changed("db") {
		cfg.Store.Path = f.dbPath
	}
	if fl.Changed("metrics-addr") {
		cfg.Metrics.Addr = f.metricsAddr
	}
	if fl.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return "", nil, fmt.Errorf("invalid config: %w", err)
	}
	return name, cfg, nil
}

func newInitCmd(f *flags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file and create the profile directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name := profile.Resolve(f.profile)
			if err := profile.ValidateName(name); err != nil {
				return err
			}
			path := f.configPath
			if path == "" {
				path = profile.ConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			cfg := config.Defaults()
			cfg.DefaultProfile = name
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			if err := profile.EnsureDir(name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\nprofile %q at %s\n", path, name, profile.Dir(name))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

// newMigrateCmd applies migrations and exits, without serving.
func newMigrateCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations to the profile's store and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, cfg, err := resolve(cmd, f)
			if err != nil {
				return err
			}
			log, err := logging.NewConsole(cfg.Log.Level)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			result, err := daemon.Migrate(name, cfg, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (changed: %v)\n", result.Version, result.Changed)
			return nil
		},
	}
}
