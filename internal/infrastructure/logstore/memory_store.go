// Package logstore holds the session log and writes it out as JSON.
package logstore

import (
	"sync"

	"github.com/doeshing/raix/internal/domain"
	"github.com/doeshing/raix/internal/ports"
)

// MemoryStore keeps the session's records in insertion order.
// Records are never removed or reordered.
type MemoryStore struct {
	mu      sync.RWMutex
	records []domain.AttemptRecord
}

// NewMemoryStore returns an empty session log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append implements ports.LogStore.
func (s *MemoryStore) Append(record domain.AttemptRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
}

// Records returns a copy of the log.
func (s *MemoryStore) Records() []domain.AttemptRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AttemptRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var _ ports.LogStore = (*MemoryStore)(nil)
