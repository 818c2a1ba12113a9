package store

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/floorplan/pkg/placement"
)

// MemoryStore keeps placements in process memory. Useful for tests or when
// nothing should be persisted.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[placement.Key]placement.Document
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[placement.Key]placement.Document)}
}

func (s *MemoryStore) Load(ctx context.Context, key placement.Key) (*placement.Document, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	doc.Records = slices.Clone(doc.Records)
	return &doc, nil
}

func (s *MemoryStore) Save(ctx context.Context, doc *placement.Document) error {
	if err := validateKey(doc.Key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *doc
	cp.Records = slices.Clone(doc.Records)
	s.docs[doc.Key] = cp
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key placement.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
