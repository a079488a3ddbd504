// Package memory provides the long-term memory index used for cross-session
// recall of a user's prior courses and profile facts. Records are keyed by
// owner identity; a search never returns another owner's records.
package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/edupilot-ai/edupilot/core"
)

// InMemoryIndex is a naive process-local core.MemoryIndex. Search is a
// case-insensitive substring scan over stored content, which is enough for
// tests and single-process deployments; swap in a semantic index for real
// retrieval quality.
type InMemoryIndex struct {
	mu      sync.RWMutex
	records map[string][]core.MemoryRecord // ownerID -> records, append order
}

// NewInMemoryIndex creates an empty in-memory index.
func NewInMemoryIndex() *InMemoryIndex {
	return &InMemoryIndex{records: make(map[string][]core.MemoryRecord)}
}

// Add appends a record for the owner generating a simple incremental id.
func (m *InMemoryIndex) Add(ownerID, content string, metadata map[string]any) error {
	if ownerID == "" {
		return fmt.Errorf("memory: owner id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := core.MemoryRecord{
		ID:       fmt.Sprintf("mem_%d", len(m.records[ownerID])),
		OwnerID:  ownerID,
		Content:  content,
		Metadata: cloneMetadata(metadata),
	}
	m.records[ownerID] = append(m.records[ownerID], rec)
	return nil
}

// Search returns the owner's records whose content contains the query,
// case-insensitively. An empty query matches everything the owner has.
func (m *InMemoryIndex) Search(query, ownerID string) ([]core.MemoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	owned := m.records[ownerID]
	needle := strings.ToLower(query)
	results := make([]core.MemoryRecord, 0, len(owned))
	for _, rec := range owned {
		if needle == "" || strings.Contains(strings.ToLower(rec.Content), needle) {
			cp := rec
			cp.Metadata = cloneMetadata(rec.Metadata)
			results = append(results, cp)
		}
	}
	return results, nil
}

func cloneMetadata(md map[string]any) map[string]any {
	if md == nil {
		return nil
	}
	cp := make(map[string]any, len(md))
	for k, v := range md {
		cp[k] = v
	}
	return cp
}
