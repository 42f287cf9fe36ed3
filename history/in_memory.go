package history

import (
	"fmt"
	"sync"

	"github.com/acpkit/netmesh/core"
)

// Record is one orchestrator tick: the committed plan and the transition it
// produced.
type Record struct {
	Step       int             `json:"step"`
	Plan       core.Plan       `json:"plan"`
	Transition core.Transition `json:"transition"`
}

// Store persists run histories. Append must keep records in step order.
type Store interface {
	Append(runID string, rec Record) error
	Get(runID string) ([]Record, error)
}

// InMemoryStore is a volatile Store keeping histories in a process-local
// map. Safe for concurrent access; returned slices are copies.
type InMemoryStore struct {
	mu   sync.RWMutex
	runs map[string][]Record
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{runs: make(map[string][]Record)}
}

// Append adds a record to the run's history.
func (s *InMemoryStore) Append(runID string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = append(s.runs[runID], rec)
	return nil
}

// Get returns a copy of the run's records in step order.
func (s *InMemoryStore) Get(runID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	out := make([]Record, len(recs))
	copy(out, recs)
	return out, nil
}
