package status

import (
	"testing"

	"github.com/matheus3301/slackvault/internal/bus"
)

func TestInitialState(t *testing.T) {
	m := NewMachine(nil)
	if m.Current() != Booting {
		t.Errorf("initial state = %s, want BOOTING", m.Current())
	}
	if m.Snapshot().Since.IsZero() {
		t.Error("initial snapshot has no entry time")
	}
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{Booting, Migrating},
		{Booting, Error},
		{Migrating, Ready},
		{Migrating, Error},
		{Ready, Degraded},
		{Degraded, Ready},
		{Ready, Stopping},
		{Degraded, Stopping},
		{Error, Booting},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := NewMachine(nil)
			walkTo(t, m, tt.from)
			if err := m.Transition(tt.to, ""); err != nil {
				t.Errorf("Transition(%s -> %s) error = %v", tt.from, tt.to, err)
			}
			if m.Current() != tt.to {
				t.Errorf("state = %s, want %s", m.Current(), tt.to)
			}
		})
	}
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{Booting, Degraded},
		{Migrating, Degraded},
		{Error, Ready},
		{Stopping, Ready},
		{Stopping, Booting},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := NewMachine(nil)
			walkTo(t, m, tt.from)
			if err := m.Transition(tt.to, ""); err == nil {
				t.Errorf("Transition(%s -> %s) should fail", tt.from, tt.to)
			}
			if m.Current() != tt.from {
				t.Errorf("state changed to %s on invalid transition", m.Current())
			}
		})
	}
}

func TestTransitionEmitsEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("daemon.", 10)
	defer unsub()

	m := NewMachine(b)
	if err := m.Transition(Migrating, "schema v2"); err != nil {
		t.Fatal(err)
	}

	evt := <-ch
	if evt.Kind != EventKind {
		t.Errorf("event kind = %q, want %s", evt.Kind, EventKind)
	}
	change, ok := evt.Payload.(StatusChange)
	if !ok {
		t.Fatalf("payload type = %T, want StatusChange", evt.Payload)
	}
	if change.From != Booting || change.To != Migrating || change.Reason != "schema v2" {
		t.Errorf("change = %+v", change)
	}
}

func TestSameStateUpdatesReasonSilently(t *testing.T) {
	b := bus.New()
	m := NewMachine(b)
	walkTo(t, m, Degraded)

	ch, unsub := b.Subscribe("daemon.", 10)
	defer unsub()

	if err := m.Transition(Degraded, "ping: still down"); err != nil {
		t.Fatal(err)
	}
	if got := m.Snapshot().Reason; got != "ping: still down" {
		t.Errorf("reason = %q", got)
	}
	select {
	case evt := <-ch:
		t.Errorf("unexpected event %+v", evt)
	default:
	}
}

func TestServing(t *testing.T) {
	for s, want := range map[State]bool{
		Booting: false, Migrating: false, Ready: true, Degraded: true, Stopping: false, Error: false,
	} {
		if got := s.Serving(); got != want {
			t.Errorf("%s.Serving() = %v, want %v", s, got, want)
		}
	}
}

// TestBootLifecycle walks BOOTING → MIGRATING → READY → DEGRADED → READY → STOPPING.
func TestBootLifecycle(t *testing.T) {
	m := NewMachine(nil)
	for _, s := range []State{Migrating, Ready, Degraded, Ready, Stopping} {
		if err := m.Transition(s, ""); err != nil {
			t.Fatalf("Transition to %s: %v (current: %s)", s, err, m.Current())
		}
	}
	if m.Current() != Stopping {
		t.Errorf("final state = %s, want STOPPING", m.Current())
	}
}

func walkTo(t *testing.T, m *Machine, target State) {
	t.Helper()
	paths := map[State][]State{
		Booting:   {},
		Migrating: {Migrating},
		Ready:     {Migrating, Ready},
		Degraded:  {Migrating, Ready, Degraded},
		Stopping:  {Stopping},
		Error:     {Error},
	}
	for _, s := range paths[target] {
		if err := m.Transition(s, ""); err != nil {
			t.Fatalf("walkTo(%s): %v", target, err)
		}
	}
}
