package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tendant/content-model/pkg/contentmodel/storage"
)

// Backend is an in-memory implementation of the storage.BlobStore interface
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects: make(map[string][]byte),
	}
}

// Put stores a copy of data under key
func (b *Backend) Put(ctx context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[key] = append([]byte(nil), data...)
	return nil
}

// Get returns a copy of the object under key
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[key]
	if !exists {
		return nil, storage.ErrObjectNotFound
	}
	return append([]byte(nil), data...), nil
}

// Delete deletes content
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[key]; !exists {
		return storage.ErrObjectNotFound
	}
	delete(b.objects, key)
	return nil
}

// List returns the sorted keys under prefix
func (b *Backend) List(ctx context.Context, prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var keys []string
	for key := range b.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
