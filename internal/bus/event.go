package bus

import "time"

// Event is a daemon event. Kind is dot-namespaced, e.g. "daemon.status_changed".
type Event struct {
	ID        string
	Kind      string
	Timestamp time.Time
	Payload   any
}
