package contentmodel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// RegionModelConstructor returns a fresh typed composite for a region.
type RegionModelConstructor func() FieldSetter

// Factory builds empty runtime instances shaped by stored descriptors. It
// never writes to the store and never mutates a descriptor.
//
// By default a field whose type cannot be resolved is left out of its
// composite (or its single-field region is left unset) and a warning is
// logged. WithStrictFields turns that into an error.
type Factory struct {
	store    Store
	registry *Registry
	strict   bool
	logger   *slog.Logger
	models   map[string]RegionModelConstructor
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithStrictFields makes unresolvable field types fail instance creation.
func WithStrictFields(strict bool) FactoryOption {
	return func(f *Factory) {
		f.strict = strict
	}
}

// WithFactoryLogger sets the logger used for lenient-mode warnings.
func WithFactoryLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithRegionModel registers a typed composite for one region of one content
// type. The factory fills it through SetField instead of using an OrderedMap.
func WithRegionModel(typeID, regionID string, ctor RegionModelConstructor) FactoryOption {
	return func(f *Factory) {
		f.models[modelKey(typeID, regionID)] = ctor
	}
}

// NewFactory creates a factory reading descriptors from store and resolving
// field types through registry (DefaultRegistry when nil).
func NewFactory(store Store, registry *Registry, opts ...FactoryOption) *Factory {
	if registry == nil {
		registry = DefaultRegistry
	}
	f := &Factory{
		store:    store,
		registry: registry,
		logger:   slog.Default(),
		models:   make(map[string]RegionModelConstructor),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Create builds an empty instance of the content type typeID.
func (f *Factory) Create(ctx context.Context, typeID string) (*Instance, error) {
	t, err := f.lookup(ctx, typeID, "create")
	if err != nil {
		return nil, err
	}
	return f.CreateFromType(t)
}

// CreateInto fills target with the empty region values of typeID.
func (f *Factory) CreateInto(ctx context.Context, typeID string, target RegionSetter) error {
	t, err := f.lookup(ctx, typeID, "create_into")
	if err != nil {
		return err
	}
	return f.populate(t, target)
}

// CreateFromType builds an instance straight from a descriptor, for callers
// holding extractor output that has not been stored.
func (f *Factory) CreateFromType(t *ContentType) (*Instance, error) {
	inst := NewInstance(t.ID)
	if err := f.populate(t, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func (f *Factory) lookup(ctx context.Context, typeID, op string) (*ContentType, error) {
	t, err := f.store.GetByID(ctx, typeID)
	if errors.Is(err, ErrContentTypeNotFound) {
		return nil, &ContentTypeError{TypeID: typeID, Op: op, Err: ErrUnknownContentType}
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (f *Factory) populate(t *ContentType, target RegionSetter) error {
	for _, region := range t.Regions {
		value, err := f.regionValue(t.ID, region)
		if err != nil {
			var fte *FieldTypeError
			if !f.strict && errors.As(err, &fte) {
				f.logger.Warn("Region omitted, field type not registered",
					"type_id", t.ID, "region_id", region.ID, "field_type", fte.Identifier)
				continue
			}
			return err
		}
		if err := target.SetRegion(region.ID, value); err != nil {
			return fmt.Errorf("set region %s.%s: %w", t.ID, region.ID, err)
		}
	}
	return nil
}

func (f *Factory) regionValue(typeID string, region Region) (any, error) {
	if !region.Collection {
		return f.CreateRegionValue(typeID, region)
	}
	item := region
	item.Collection = false
	// Resolve the item shape now so unknown field types surface at Create,
	// not on the first CreateItem.
	if _, err := f.CreateRegionValue(typeID, item); err != nil {
		return nil, err
	}
	return NewCollection(func() (any, error) {
		return f.CreateRegionValue(typeID, item)
	}), nil
}

// CreateRegionValue builds the value of one item of region: the default
// field value for a single-field region, or a composite holding the default
// value of every field for a multi-field region. Collection is ignored.
func (f *Factory) CreateRegionValue(typeID string, region Region) (any, error) {
	if region.SingleField() {
		field := region.Fields[0]
		value, err := f.registry.New(field.Type)
		if err != nil {
			return nil, &FieldTypeError{TypeID: typeID, RegionID: region.ID, FieldID: field.ID, Identifier: field.Type}
		}
		return value, nil
	}

	var composite FieldSetter
	if ctor, ok := f.models[modelKey(typeID, region.ID)]; ok {
		composite = ctor()
	} else {
		composite = NewOrderedMap()
	}

	for _, field := range region.Fields {
		value, err := f.registry.New(field.Type)
		if err != nil {
			fte := &FieldTypeError{TypeID: typeID, RegionID: region.ID, FieldID: field.ID, Identifier: field.Type}
			if f.strict {
				return nil, fte
			}
			f.logger.Warn("Field omitted, field type not registered",
				"type_id", typeID, "region_id", region.ID, "field_id", field.ID, "field_type", field.Type)
			continue
		}
		if err := composite.SetField(field.ID, value); err != nil {
			return nil, fmt.Errorf("set field %s.%s.%s: %w", typeID, region.ID, field.ID, err)
		}
	}
	return composite, nil
}

func modelKey(typeID, regionID string) string {
	return typeID + "/" + regionID
}
