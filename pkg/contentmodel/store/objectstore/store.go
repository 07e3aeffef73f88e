// Package objectstore implements contentmodel.Store as one JSON document per
// content type in a storage.BlobStore.
package objectstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/tendant/content-model/pkg/contentmodel"
	"github.com/tendant/content-model/pkg/contentmodel/storage"
)

// DefaultPrefix is the key prefix descriptors are written under.
const DefaultPrefix = "content-types/"

// Store keeps descriptors as objects named <prefix><id>.json.
type Store struct {
	blobs  storage.BlobStore
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New returns a store writing into blobs.
func New(blobs storage.BlobStore, opts ...Option) *Store {
	s := &Store{blobs: blobs, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(id string) string {
	return s.prefix + url.PathEscape(id) + ".json"
}

func (s *Store) GetByID(ctx context.Context, id string) (*contentmodel.ContentType, error) {
	data, err := s.blobs.Get(ctx, s.key(id))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, contentmodel.ErrContentTypeNotFound
		}
		return nil, fmt.Errorf("getting content type %s: %w", id, err)
	}
	return decode(data)
}

func (s *Store) GetAll(ctx context.Context) ([]*contentmodel.ContentType, error) {
	keys, err := s.blobs.List(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("listing content types: %w", err)
	}

	types := make([]*contentmodel.ContentType, 0, len(keys))
	for _, key := range keys {
		if !strings.HasSuffix(key, ".json") {
			continue
		}
		data, err := s.blobs.Get(ctx, key)
		if errors.Is(err, storage.ErrObjectNotFound) {
			// Removed between List and Get.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", key, err)
		}
		t, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", key, err)
		}
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool {
		return types[i].ID < types[j].ID
	})
	return types, nil
}

func (s *Store) Save(ctx context.Context, t *contentmodel.ContentType) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding content type %s: %w", t.ID, err)
	}
	if err := s.blobs.Put(ctx, s.key(t.ID), data); err != nil {
		return fmt.Errorf("persisting content type %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.blobs.Delete(ctx, s.key(id))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return contentmodel.ErrContentTypeNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting content type %s: %w", id, err)
	}
	return nil
}

func decode(data []byte) (*contentmodel.ContentType, error) {
	var t contentmodel.ContentType
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decoding content type: %w", err)
	}
	return &t, nil
}
