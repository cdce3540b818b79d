package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/matzehuels/narrative/pkg/graph"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*graph.Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*graph.Record)}
}

func (s *MemoryStore) Get(ctx context.Context, name string) (*graph.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[name].Clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, rec *graph.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Name] = rec.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, name)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.records)), nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
