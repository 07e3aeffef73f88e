package contentmodel

import "context"

// Store defines the interface for content type descriptor persistence
type Store interface {
	// GetByID returns the descriptor with the given id, or
	// ErrContentTypeNotFound when none is stored.
	GetByID(ctx context.Context, id string) (*ContentType, error)

	// GetAll returns every stored descriptor ordered by id.
	GetAll(ctx context.Context) ([]*ContentType, error)

	// Save inserts or replaces a descriptor as a whole.
	Save(ctx context.Context, t *ContentType) error

	// Delete removes a descriptor. Deleting an absent id returns
	// ErrContentTypeNotFound.
	Delete(ctx context.Context, id string) error
}

// EventSink defines the interface for schema change notifications
type EventSink interface {
	// ContentTypeCreated is fired when a descriptor is inserted
	ContentTypeCreated(ctx context.Context, t *ContentType) error

	// ContentTypeUpdated is fired when a stored descriptor is replaced
	ContentTypeUpdated(ctx context.Context, t *ContentType) error

	// ContentTypeDeleted is fired when an orphan descriptor is removed
	ContentTypeDeleted(ctx context.Context, id string) error
}

// RegionSetter is implemented by instances that receive region values from
// the factory, whether open (Instance) or statically typed.
type RegionSetter interface {
	SetRegion(id string, value any) error
}

// FieldSetter is implemented by composite region models that receive field
// values from the factory.
type FieldSetter interface {
	SetField(id string, value any) error
}
