package core

import (
	"time"

	"github.com/google/uuid"
)

// Event authors. Every appended event records which side of the system
// produced it.
const (
	AuthorSystem = "system"
	AuthorAgent  = "agent"
	AuthorAPI    = "api"
)

// StateDelta maps scoped state keys to their new values. A nil value is a
// logical tombstone for the key.
type StateDelta map[string]any

// Clone returns an independent shallow copy of the delta.
func (d StateDelta) Clone() StateDelta {
	if d == nil {
		return nil
	}
	cp := make(StateDelta, len(d))
	for k, v := range d {
		cp[k] = v
	}
	return cp
}

// Event is one immutable entry in a session's append-only log. The current
// state of a session is never stored directly; it is derived by folding the
// ordered event deltas (see StateStore.Snapshot). After emission an Event must
// be treated as read-only.
type Event struct {
	ID           string     `json:"id"`
	InvocationID string     `json:"invocation_id"`
	Author       string     `json:"author"`
	Delta        StateDelta `json:"state_delta,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}

// NewEvent creates an event bound to an invocation. The delta is cloned so
// later caller mutation cannot leak into the log.
func NewEvent(invocationID, author string, delta StateDelta) Event {
	return Event{
		ID:           NewID(),
		InvocationID: invocationID,
		Author:       author,
		Delta:        delta.Clone(),
		Timestamp:    time.Now().UTC(),
	}
}

// NewID generates a unique identifier for events, sessions and invocations.
func NewID() string { return uuid.NewString() }
