package health

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matheus3301/slackvault/internal/status"
	"go.uber.org/zap/zaptest"
)

type fakePinger struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakePinger) set(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakePinger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func readyMachine(t *testing.T) *status.Machine {
	t.Helper()
	m := status.NewMachine(nil)
	for _, s := range []status.State{status.Migrating, status.Ready} {
		if err := m.Transition(s, ""); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

func TestCheckDegradesAndRecovers(t *testing.T) {
	p := &fakePinger{}
	m := readyMachine(t)
	mon := NewMonitor(p, m, time.Second, zaptest.NewLogger(t))
	ctx := context.Background()

	if err := mon.Check(ctx); err != nil || m.Current() != status.Ready {
		t.Fatalf("healthy probe: err=%v state=%s", err, m.Current())
	}

	p.set(errors.New("database is locked"))
	if err := mon.Check(ctx); err == nil {
		t.Fatal("expected probe error")
	}
	snap := m.Snapshot()
	if snap.State != status.Degraded || snap.Reason != "database is locked" {
		t.Errorf("after failure: %+v", snap)
	}

	// Still failing: stays degraded.
	_ = mon.Check(ctx)
	if m.Current() != status.Degraded {
		t.Errorf("state = %s, want DEGRADED", m.Current())
	}

	p.set(nil)
	if err := mon.Check(ctx); err != nil {
		t.Fatal(err)
	}
	if m.Current() != status.Ready {
		t.Errorf("after recovery: %s, want READY", m.Current())
	}
}

func TestCheckIgnoresNonServingStates(t *testing.T) {
	p := &fakePinger{err: errors.New("down")}
	m := status.NewMachine(nil)
	mon := NewMonitor(p, m, time.Second, zaptest.NewLogger(t))

	_ = mon.Check(context.Background())
	if m.Current() != status.Booting {
		t.Errorf("state = %s, want BOOTING", m.Current())
	}
}

func TestStartStop(t *testing.T) {
	p := &fakePinger{}
	m := readyMachine(t)
	mon := NewMonitor(p, m, 10*time.Millisecond, zaptest.NewLogger(t))

	mon.Start(context.Background())
	deadline := time.Now().Add(2 * time.Second)
	for p.count() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("monitor did not probe")
		}
		time.Sleep(5 * time.Millisecond)
	}
	mon.Stop()

	n := p.count()
	time.Sleep(50 * time.Millisecond)
	if p.count() != n {
		t.Error("monitor kept probing after Stop")
	}
}
