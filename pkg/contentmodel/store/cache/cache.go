// Package cache wraps a contentmodel.Store with a read-through descriptor
// cache. Writes go to the underlying store first and then update the cache,
// so the cache never holds a descriptor the store rejected.
package cache

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/tendant/content-model/pkg/contentmodel"
)

// Store is a caching contentmodel.Store decorator.
type Store struct {
	next contentmodel.Store

	mu       sync.RWMutex
	entries  map[string]*contentmodel.ContentType
	complete bool
}

// New wraps next.
func New(next contentmodel.Store) *Store {
	return &Store{
		next:    next,
		entries: make(map[string]*contentmodel.ContentType),
	}
}

func (s *Store) GetByID(ctx context.Context, id string) (*contentmodel.ContentType, error) {
	s.mu.RLock()
	t, ok := s.entries[id]
	complete := s.complete
	s.mu.RUnlock()
	if ok {
		return t.Clone(), nil
	}
	if complete {
		return nil, contentmodel.ErrContentTypeNotFound
	}

	t, err := s.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries[id] = t.Clone()
	s.mu.Unlock()
	return t, nil
}

func (s *Store) GetAll(ctx context.Context) ([]*contentmodel.ContentType, error) {
	s.mu.RLock()
	if s.complete {
		result := s.snapshot()
		s.mu.RUnlock()
		return result, nil
	}
	s.mu.RUnlock()

	types, err := s.next.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*contentmodel.ContentType, len(types))
	for _, t := range types {
		s.entries[t.ID] = t.Clone()
	}
	s.complete = true
	return s.snapshot(), nil
}

// snapshot must be called with mu held.
func (s *Store) snapshot() []*contentmodel.ContentType {
	result := make([]*contentmodel.ContentType, 0, len(s.entries))
	for _, t := range s.entries {
		result = append(result, t.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

func (s *Store) Save(ctx context.Context, t *contentmodel.ContentType) error {
	if err := s.next.Save(ctx, t); err != nil {
		s.Invalidate()
		return err
	}
	s.mu.Lock()
	s.entries[t.ID] = t.Clone()
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.next.Delete(ctx, id)
	if err != nil && !errors.Is(err, contentmodel.ErrContentTypeNotFound) {
		s.Invalidate()
		return err
	}
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return err
}

// Invalidate drops every cached entry.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*contentmodel.ContentType)
	s.complete = false
}
