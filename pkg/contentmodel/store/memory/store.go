package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tendant/content-model/pkg/contentmodel"
)

// Store implements contentmodel.Store using in-memory storage
type Store struct {
	mu    sync.RWMutex
	types map[string]*contentmodel.ContentType
}

// New creates a new in-memory descriptor store
func New() *Store {
	return &Store{
		types: make(map[string]*contentmodel.ContentType),
	}
}

func (s *Store) GetByID(ctx context.Context, id string) (*contentmodel.ContentType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.types[id]
	if !exists {
		return nil, contentmodel.ErrContentTypeNotFound
	}
	// Return a copy to prevent external modifications
	return t.Clone(), nil
}

func (s *Store) GetAll(ctx context.Context) ([]*contentmodel.ContentType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*contentmodel.ContentType, 0, len(s.types))
	for _, t := range s.types {
		result = append(result, t.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (s *Store) Save(ctx context.Context, t *contentmodel.ContentType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to avoid external modifications
	s.types[t.ID] = t.Clone()
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.types[id]; !exists {
		return contentmodel.ErrContentTypeNotFound
	}
	delete(s.types, id)
	return nil
}
