// Package state provides the event-sourced, scope-aware state store backing
// EduPilot sessions. Sessions are append-only event logs; snapshots are folded
// on read, which keeps replay deterministic and auditable.
package state

import (
	"sort"
	"sync"
	"time"

	"github.com/edupilot-ai/edupilot/core"
)

// entry pairs an event with its position in the store-wide append order. The
// global sequence is what makes cross-session folds (user: and app: keys)
// well defined.
type entry struct {
	seq uint64
	ev  core.Event
}

// sessionLog is the append-only record of a single session. The mutex
// serializes appends to this session only; appends to different sessions
// never contend on it.
type sessionLog struct {
	id      string
	ownerID string
	created time.Time

	mu      sync.Mutex
	entries []entry
}

func (l *sessionLog) snapshotEntries() []entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]entry, len(l.entries))
	copy(cp, l.entries)
	return cp
}

// InMemoryStore is a volatile core.StateStore keeping all event logs in
// process-local maps. Safe for concurrent use; appends to the same session
// are mutually exclusive, appends to different sessions are independent.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionLog
	byOwner  map[string][]string

	seqMu sync.Mutex
	seq   uint64
}

// NewInMemoryStore constructs an empty in-memory state store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*sessionLog),
		byOwner:  make(map[string][]string),
	}
}

// CreateSession allocates a new session id for the owner and appends the
// genesis event carrying the initial delta. The in-memory implementation
// never fails.
func (s *InMemoryStore) CreateSession(ownerID string, initial core.StateDelta) (string, error) {
	id := core.NewID()
	log := &sessionLog{id: id, ownerID: ownerID, created: time.Now().UTC()}

	s.mu.Lock()
	s.sessions[id] = log
	s.byOwner[ownerID] = append(s.byOwner[ownerID], id)
	s.mu.Unlock()

	log.mu.Lock()
	log.entries = append(log.entries, entry{seq: s.nextSeq(), ev: core.NewEvent(core.NewID(), core.AuthorSystem, initial)})
	log.mu.Unlock()

	return id, nil
}

// AppendEvent validates the session exists and appends an event with the
// given delta and author. Atomic per session.
func (s *InMemoryStore) AppendEvent(sessionID string, delta core.StateDelta, author string) error {
	s.mu.RLock()
	log, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return core.SessionNotFoundError(sessionID)
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	log.entries = append(log.entries, entry{seq: s.nextSeq(), ev: core.NewEvent(core.NewID(), author, delta)})
	return nil
}

// Snapshot folds the relevant event logs into the latest value per key.
// Bare and temp: keys fold over the session's own log; user: keys fold over
// every session of the same owner; app: keys fold over the whole store.
// Last write wins in store-wide append order.
func (s *InMemoryStore) Snapshot(sessionID string) (core.Snapshot, error) {
	s.mu.RLock()
	log, ok := s.sessions[sessionID]
	if !ok {
		s.mu.RUnlock()
		return nil, core.SessionNotFoundError(sessionID)
	}

	ownerLogs := make([]*sessionLog, 0, len(s.byOwner[log.ownerID]))
	for _, id := range s.byOwner[log.ownerID] {
		ownerLogs = append(ownerLogs, s.sessions[id])
	}
	allLogs := make([]*sessionLog, 0, len(s.sessions))
	for _, l := range s.sessions {
		allLogs = append(allLogs, l)
	}
	s.mu.RUnlock()

	var merged []entry
	merged = append(merged, filterEntries(log.snapshotEntries(), core.ScopeSession, core.ScopeTemp)...)
	for _, l := range ownerLogs {
		merged = append(merged, filterEntries(l.snapshotEntries(), core.ScopeUser)...)
	}
	for _, l := range allLogs {
		merged = append(merged, filterEntries(l.snapshotEntries(), core.ScopeApp)...)
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].seq < merged[j].seq })

	snap := make(core.Snapshot)
	for _, e := range merged {
		for k, v := range e.ev.Delta {
			if v == nil {
				delete(snap, k)
				continue
			}
			snap[k] = v
		}
	}
	return snap, nil
}

// Owner returns the owner id of a session.
func (s *InMemoryStore) Owner(sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log, ok := s.sessions[sessionID]
	if !ok {
		return "", core.SessionNotFoundError(sessionID)
	}
	return log.ownerID, nil
}

// Events returns a copy of the session's raw event log, oldest first. Used by
// debug endpoints and replay tests.
func (s *InMemoryStore) Events(sessionID string) ([]core.Event, error) {
	s.mu.RLock()
	log, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, core.SessionNotFoundError(sessionID)
	}
	entries := log.snapshotEntries()
	events := make([]core.Event, len(entries))
	for i, e := range entries {
		events[i] = e.ev
	}
	return events, nil
}

// EndSession appends a logical tombstone event. The log itself is never
// physically deleted.
func (s *InMemoryStore) EndSession(sessionID string, author string) error {
	return s.AppendEvent(sessionID, core.StateDelta{"temp:session_ended": true}, author)
}

// SessionIDs returns the ids of all known sessions in unspecified order.
func (s *InMemoryStore) SessionIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (s *InMemoryStore) nextSeq() uint64 {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	s.seq++
	return s.seq
}

func filterEntries(entries []entry, scopes ...core.Scope) []entry {
	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		filtered := make(core.StateDelta)
		for k, v := range e.ev.Delta {
			ks := core.KeyScope(k)
			for _, want := range scopes {
				if ks == want {
					filtered[k] = v
					break
				}
			}
		}
		if len(filtered) == 0 {
			continue
		}
		ev := e.ev
		ev.Delta = filtered
		out = append(out, entry{seq: e.seq, ev: ev})
	}
	return out
}
