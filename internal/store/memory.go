package store

import (
	"sync"

	"gradebook/internal/model"
)

// MemoryStore keeps records in a slice for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// MemoryFactory returns a Factory producing independent MemoryStores.
func MemoryFactory() Factory {
	return func(string) Store { return NewMemoryStore() }
}

func (s *MemoryStore) Add(rec model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore) Records() ([]model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Record(nil), s.records...), nil
}

func (s *MemoryStore) Len() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}
