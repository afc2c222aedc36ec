// Package health probes the archive store and moves the daemon between
// READY and DEGRADED.
package health

import (
	"context"
	"time"

	"github.com/matheus3301/slackvault/internal/status"
	"go.uber.org/zap"
)

// Pinger is anything that can check store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor pings the store on an interval.
type Monitor struct {
	target   Pinger
	machine  *status.Machine
	interval time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewMonitor creates a monitor; Start begins probing.
func NewMonitor(target Pinger, machine *status.Machine, interval time.Duration, logger *zap.Logger) *Monitor {
	return &Monitor{
		target:   target,
		machine:  machine,
		interval: interval,
		logger:   logger,
	}
}

// Start begins probing in the background.
func (m *Monitor) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	go m.loop(ctx)
}

// Stop stops probing and waits for the loop to exit.
func (m *Monitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
}

func (m *Monitor) loop(ctx context.Context) {
	defer close(m.done)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = m.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Check runs one probe. A failure while READY degrades the daemon and a
// success while DEGRADED restores it; other states are left alone.
func (m *Monitor) Check(ctx context.Context) error {
	timeout := m.interval
	if timeout <= 0 || timeout > 5*time.Second {
		timeout = 5 * time.Second
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := m.target.Ping(pctx)
	cur := m.machine.Current()
	switch {
	case err != nil && cur.Serving():
		if cur == status.Ready {
			m.logger.Warn("store probe failed, degrading", zap.Error(err))
		}
		if terr := m.machine.Transition(status.Degraded, err.Error()); terr != nil {
			m.logger.Error("status transition failed", zap.Error(terr))
		}
	case err == nil && cur == status.Degraded:
		m.logger.Info("store probe recovered")
		if terr := m.machine.Transition(status.Ready, ""); terr != nil {
			m.logger.Error("status transition failed", zap.Error(terr))
		}
	}
	return err
}
