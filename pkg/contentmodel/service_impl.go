package contentmodel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// service implements the Service interface
type service struct {
	store        Store
	registry     *Registry
	eventSink    EventSink
	logger       *slog.Logger
	dryRun       bool
	factoryOpts  []FactoryOption
	extractor    *Extractor
	synchronizer *Synchronizer
	factory      *Factory
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithStore sets the descriptor store for the service
func WithStore(store Store) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithRegistry sets the field type registry (default: DefaultRegistry)
func WithRegistry(registry *Registry) Option {
	return func(s *service) {
		s.registry = registry
	}
}

// WithEventSink sets the event sink notified of schema changes
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the structured logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithStrictFactory makes instance creation fail on unregistered field types
func WithStrictFactory(strict bool) Option {
	return func(s *service) {
		s.factoryOpts = append(s.factoryOpts, WithStrictFields(strict))
	}
}

// WithTypedRegion registers a typed composite model for a region
func WithTypedRegion(typeID, regionID string, ctor RegionModelConstructor) Option {
	return func(s *service) {
		s.factoryOpts = append(s.factoryOpts, WithRegionModel(typeID, regionID, ctor))
	}
}

// WithBuildDryRun makes Build and DeleteOrphans report without writing
func WithBuildDryRun(dryRun bool) Option {
	return func(s *service) {
		s.dryRun = dryRun
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		registry:  DefaultRegistry,
		eventSink: NewNoopEventSink(),
		logger:    slog.Default(),
	}

	for _, option := range options {
		option(s)
	}

	if s.store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if s.registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.extractor = NewExtractor(s.registry)
	s.synchronizer = NewSynchronizer(s.store,
		WithSyncEventSink(s.eventSink),
		WithSyncLogger(s.logger),
		WithDryRun(s.dryRun),
	)
	s.factory = NewFactory(s.store, s.registry,
		append([]FactoryOption{WithFactoryLogger(s.logger)}, s.factoryOpts...)...)

	return s, nil
}

func (s *service) RegisterFieldType(identifier string, constructor FieldConstructor, shorthand ...string) error {
	return s.registry.Register(identifier, constructor, shorthand...)
}

func (s *service) Registry() *Registry {
	return s.registry
}

// Extract freezes the registry: field types must all be registered before
// the first declaration is read.
func (s *service) Extract(decls ...Declarer) ([]*ContentType, error) {
	s.registry.Freeze()
	return s.extractor.ExtractAll(decls...)
}

// Build extracts every declaration and synchronizes the result. Any
// extraction failure aborts the build before the store is touched, so a
// later DeleteOrphans cannot remove the stored version of a broken type.
func (s *service) Build(ctx context.Context, decls ...Declarer) (*BuildResult, error) {
	types, err := s.Extract(decls...)
	if err != nil {
		s.logger.ErrorContext(ctx, "Content type extraction failed", "error", err)
		return nil, err
	}
	return s.synchronizer.Build(ctx, types...)
}

func (s *service) BuildTypes(ctx context.Context, types ...*ContentType) (*BuildResult, error) {
	s.registry.Freeze()
	return s.synchronizer.Build(ctx, types...)
}

func (s *service) DeleteOrphans(ctx context.Context) ([]string, error) {
	return s.synchronizer.DeleteOrphans(ctx)
}

func (s *service) GetContentType(ctx context.Context, id string) (*ContentType, error) {
	t, err := s.store.GetByID(ctx, id)
	if errors.Is(err, ErrContentTypeNotFound) {
		return nil, &ContentTypeError{TypeID: id, Op: "get", Err: ErrUnknownContentType}
	}
	return t, err
}

func (s *service) ListContentTypes(ctx context.Context) ([]*ContentType, error) {
	return s.store.GetAll(ctx)
}

func (s *service) Create(ctx context.Context, typeID string) (*Instance, error) {
	s.registry.Freeze()
	return s.factory.Create(ctx, typeID)
}

func (s *service) CreateInto(ctx context.Context, typeID string, target RegionSetter) error {
	s.registry.Freeze()
	return s.factory.CreateInto(ctx, typeID, target)
}
