// Package artifact stores generated artifacts (serialized assessments,
// exports) keyed by session and name.
package artifact

import (
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned when no artifact exists under the requested
// session and name.
var ErrNotFound = errors.New("artifact: not found")

// InMemoryStore is a process-local core.ArtifactStore. Bytes are copied on
// save and load so callers cannot mutate internal buffers. It enforces no
// retention limits or quotas; use a durable backend for anything that must
// survive a restart.
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]map[string][]byte // sessionID -> name -> data
}

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{artifacts: make(map[string]map[string][]byte)}
}

// Save stores (or overwrites) the artifact bytes under the session and name.
func (a *InMemoryStore) Save(sessionID, name string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.artifacts[sessionID]; !exists {
		a.artifacts[sessionID] = make(map[string][]byte)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	a.artifacts[sessionID][name] = cp
	return nil
}

// Load returns a copy of the stored artifact bytes or ErrNotFound.
func (a *InMemoryStore) Load(sessionID, name string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.artifacts[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	data, ok := m[name]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// List returns the artifact names stored for the session, sorted for
// deterministic output.
func (a *InMemoryStore) List(sessionID string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.artifacts[sessionID]
	if !ok {
		return []string{}, nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
