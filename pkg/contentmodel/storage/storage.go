// Package storage defines the object storage contract used by the
// object-backed descriptor store, with memory, filesystem and S3 backends in
// its subpackages.
package storage

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned when a key has no object.
var ErrObjectNotFound = errors.New("object not found")

// BlobStore is a flat key/value object store.
type BlobStore interface {
	// Put writes data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the object stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object under key, or returns ErrObjectNotFound.
	Delete(ctx context.Context, key string) error

	// List returns every key starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}
