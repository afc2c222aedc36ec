// Package status tracks the daemon's runtime state.
package status

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/matheus3301/slackvault/internal/bus"
)

// EventKind is published on every state change.
const EventKind = "daemon.status_changed"

// State represents a daemon runtime state.
type State string

const (
	Booting   State = "BOOTING"
	Migrating State = "MIGRATING"
	Ready     State = "READY"
	Degraded  State = "DEGRADED"
	Stopping  State = "STOPPING"
	Error     State = "ERROR"
)

var validTransitions = map[State][]State{
	Booting:   {Migrating, Ready, Stopping, Error},
	Migrating: {Ready, Stopping, Error},
	Ready:     {Degraded, Stopping, Error},
	Degraded:  {Ready, Stopping, Error},
	Error:     {Booting, Stopping},
	Stopping:  {},
}

// Serving reports whether queries are expected to succeed in s.
func (s State) Serving() bool {
	return s == Ready || s == Degraded
}

// Snapshot is a consistent view of the machine.
type Snapshot struct {
	State  State
	Reason string
	Since  time.Time
}

// StatusChange is the payload of EventKind events.
type StatusChange struct {
	From   State
	To     State
	Reason string
}

// Machine tracks and enforces daemon runtime state transitions.
type Machine struct {
	mu     sync.RWMutex
	cur    Snapshot
	bus    *bus.Bus
	booted time.Time
}

// NewMachine creates a machine in Booting. b may be nil.
func NewMachine(b *bus.Bus) *Machine {
	now := time.Now()
	return &Machine{
		cur:    Snapshot{State: Booting, Since: now},
		bus:    b,
		booted: now,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.State
}

// Snapshot returns the current state with its reason and entry time.
func (m *Machine) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

// Uptime returns the time since the machine was created.
func (m *Machine) Uptime() time.Duration {
	return time.Since(m.booted)
}

// Transition moves to state to. Moving to the current state only updates
// the reason and publishes nothing.
func (m *Machine) Transition(to State, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.cur.State
	if from == to {
		m.cur.Reason = reason
		return nil
	}
	if !slices.Contains(validTransitions[from], to) {
		return fmt.Errorf("invalid transition from %s to %s", from, to)
	}
	m.cur = Snapshot{State: to, Reason: reason, Since: time.Now()}
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:      EventKind,
			Timestamp: m.cur.Since,
			Payload:   StatusChange{From: from, To: to, Reason: reason},
		})
	}
	return nil
}
