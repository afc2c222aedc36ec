package daemon

import (
	"context"

	"github.com/matheus3301/slackvault/internal/api"
	"github.com/matheus3301/slackvault/internal/archive"
	"github.com/matheus3301/slackvault/internal/bus"
	"github.com/matheus3301/slackvault/internal/config"
	"github.com/matheus3301/slackvault/internal/health"
	"github.com/matheus3301/slackvault/internal/lock"
	"github.com/matheus3301/slackvault/internal/logging"
	"github.com/matheus3301/slackvault/internal/metrics"
	"github.com/matheus3301/slackvault/internal/profile"
	"github.com/matheus3301/slackvault/internal/status"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	Profile    string
	SocketPath string // optional override for testing; empty = use default
	Config     *config.Config
}

// Module returns the fx module for the daemon, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideStateMachine,
			provideMetrics,
			provideLock,
			provideReader,
			provideArchiveService,
			api.NewArchiveService,
			provideStatusService,
			provideMonitor,
			NewServer,
			NewMetricsServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	if err := profile.EnsureDir(p.Profile); err != nil {
		return nil, err
	}
	return logging.New(profile.LogPath(p.Profile), p.Profile, p.Config.Log.Level)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideMetrics() *metrics.Metrics {
	return metrics.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	logger.Info("acquiring profile lock", zap.String("profile", p.Profile))
	l, err := lock.Acquire(profile.Dir(p.Profile))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

// provideReader opens the configured backend and brings its schema up to
// date. It depends on the lock so no two daemons migrate the same store.
func provideReader(p Params, _ *lock.Lock, machine *status.Machine, logger *zap.Logger) (archive.Reader, error) {
	if err := machine.Transition(status.Migrating, "applying schema migrations"); err != nil {
		return nil, err
	}
	r, err := openMigrated(p, logger)
	if err != nil {
		return nil, fail(machine, err)
	}
	return r, nil
}

func fail(machine *status.Machine, err error) error {
	_ = machine.Transition(status.Error, err.Error())
	return err
}

func provideArchiveService(p Params, r archive.Reader, logger *zap.Logger, m *metrics.Metrics) (*archive.Service, error) {
	since, marks, err := p.Config.Paging.Parse()
	if err != nil {
		return nil, err
	}
	return archive.NewService(r, archive.Config{
		DefaultPageSize:    p.Config.Paging.PageSize,
		MaxPageSize:        p.Config.Paging.MaxPageSize,
		DefaultSince:       since,
		Watermarks:         marks,
		DefaultSearchLimit: p.Config.Search.Limit,
		MaxSearchLimit:     p.Config.Search.MaxLimit,
	}, logger.Named("archive"), m), nil
}

func provideStatusService(p Params, m *status.Machine, svc *archive.Service, b *bus.Bus, logger *zap.Logger) *api.StatusService {
	return api.NewStatusService(p.Profile, m, svc, b, logger)
}

func provideMonitor(p Params, svc *archive.Service, machine *status.Machine, logger *zap.Logger) *health.Monitor {
	return health.NewMonitor(svc, machine, p.Config.Health.Interval.Duration, logger.Named("health"))
}

// feedStateGauge mirrors status changes into the daemon_state gauge until
// the bus subscription is cancelled.
func feedStateGauge(b *bus.Bus, m *metrics.Metrics, machine *status.Machine) func() {
	ch, unsub := b.Subscribe(status.EventKind, 16)
	m.SetState("", string(machine.Current()))
	go func() {
		for evt := range ch {
			if sc, ok := evt.Payload.(status.StatusChange); ok {
				m.SetState(string(sc.From), string(sc.To))
			}
		}
	}()
	return unsub
}

func registerLifecycle(
	lc fx.Lifecycle,
	srv *Server,
	msrv *MetricsServer,
	lk *lock.Lock,
	r archive.Reader,
	monitor *health.Monitor,
	machine *status.Machine,
	m *metrics.Metrics,
	b *bus.Bus,
	logger *zap.Logger,
) {
	var unsub func()
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			unsub = feedStateGauge(b, m, machine)

			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("gRPC server error", zap.Error(err))
				}
			}()
			msrv.Start()

			if err := machine.Transition(status.Ready, "store migrated"); err != nil {
				return err
			}
			monitor.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			_ = machine.Transition(status.Stopping, "shutdown requested")
			monitor.Stop()
			srv.Stop(ctx)
			msrv.Stop(ctx)
			if unsub != nil {
				unsub()
			}
			if err := r.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			return nil
		},
	})
}
