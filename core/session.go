package core

import "strings"

// Snapshot is the folded view of a session: the latest value per scoped key.
// It is a derived, read-only structure; mutating it has no effect on the log.
type Snapshot map[string]any

// GetString returns the value for key coerced to string ("" when absent or
// not a string).
func (s Snapshot) GetString(key string) string {
	v, ok := s[key]
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// GetStrings returns the value for key as a string slice, accepting both
// []string and []any values folded out of JSON deltas.
func (s Snapshot) GetStrings(key string) []string {
	switch v := s[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// ContextKeys returns the snapshot without temp:-scoped keys, the view
// eligible for context consolidation.
func (s Snapshot) ContextKeys() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		if strings.HasPrefix(k, TempKeyPrefix) {
			continue
		}
		out[k] = v
	}
	return out
}

// StateStore persists sessions as append-only event logs and folds them into
// scope-aware snapshots.
//
// Contract:
//   - CreateSession allocates a fresh session id and appends a genesis event
//     carrying the initial delta.
//   - AppendEvent fails with ErrSessionNotFound for unknown sessions and is
//     atomic with respect to concurrent appends to the same session.
//   - Snapshot folds events in order, last write wins per key. Bare and
//     temp:-prefixed keys fold over the session's own log only; user:-prefixed
//     keys fold over every session of the same owner; app:-prefixed keys fold
//     over the whole store.
type StateStore interface {
	CreateSession(ownerID string, initial StateDelta) (string, error)
	AppendEvent(sessionID string, delta StateDelta, author string) error
	Snapshot(sessionID string) (Snapshot, error)
	Owner(sessionID string) (string, error)
}
