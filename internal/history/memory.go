// Package history persists canonical deduplication keys across scan runs.
package history

import (
	"context"
	"sync"
)

// MemoryStore implements opportunity.HistoryStore in process memory.
// Keys do not survive a restart; it backs tests and single-shot runs.
type MemoryStore struct {
	mu   sync.RWMutex
	keys []string
	seen map[string]struct{}
}

// NewMemoryStore creates an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{})}
}

// LoadKeys returns all canonical keys recorded so far.
func (s *MemoryStore) LoadKeys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.keys...), nil
}

// AppendKeys records newly admitted canonical keys for a run.
func (s *MemoryStore) AppendKeys(_ context.Context, _ string, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		if _, dup := s.seen[k]; dup {
			continue
		}
		s.seen[k] = struct{}{}
		s.keys = append(s.keys, k)
	}
	return nil
}
