package contentmodel

import "context"

// Service defines the main interface for the content model engine
type Service interface {
	// Field type registration (bootstrap phase)
	RegisterFieldType(identifier string, constructor FieldConstructor, shorthand ...string) error
	Registry() *Registry

	// Schema extraction and synchronization
	Extract(decls ...Declarer) ([]*ContentType, error)
	Build(ctx context.Context, decls ...Declarer) (*BuildResult, error)
	BuildTypes(ctx context.Context, types ...*ContentType) (*BuildResult, error)
	DeleteOrphans(ctx context.Context) ([]string, error)

	// Descriptor lookup
	GetContentType(ctx context.Context, id string) (*ContentType, error)
	ListContentTypes(ctx context.Context) ([]*ContentType, error)

	// Instance creation
	Create(ctx context.Context, typeID string) (*Instance, error)
	CreateInto(ctx context.Context, typeID string, target RegionSetter) error
}
