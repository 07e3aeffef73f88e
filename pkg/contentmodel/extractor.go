package contentmodel

import (
	"errors"
	"math"
	"strings"

	"golang.org/x/exp/slices"
)

const collectionPrefix = "[]"

// Extractor turns declarations into normalized ContentType descriptors,
// validating every field type against a Registry.
type Extractor struct {
	registry *Registry
}

// NewExtractor creates an extractor bound to registry. A nil registry means
// DefaultRegistry.
func NewExtractor(registry *Registry) *Extractor {
	if registry == nil {
		registry = DefaultRegistry
	}
	return &Extractor{registry: registry}
}

// ExtractAll extracts every declaration. Valid descriptors are returned in
// input order; failures are joined into the returned error and their types
// are left out.
func (e *Extractor) ExtractAll(decls ...Declarer) ([]*ContentType, error) {
	var (
		types []*ContentType
		errs  []error
		seen  = make(map[string]struct{}, len(decls))
	)
	for _, decl := range decls {
		t, err := e.Extract(decl)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := seen[t.ID]; dup {
			errs = append(errs, &SchemaValidationError{TypeID: t.ID, ID: t.ID, Reason: "duplicate content type id"})
			continue
		}
		seen[t.ID] = struct{}{}
		types = append(types, t)
	}
	return types, errors.Join(errs...)
}

// Extract builds the descriptor for a single declaration.
func (e *Extractor) Extract(decl Declarer) (*ContentType, error) {
	if decl == nil {
		return nil, &SchemaValidationError{Reason: "nil declaration"}
	}
	def := decl.Declare()

	id := strings.TrimSpace(def.ID)
	if id == "" {
		return nil, &SchemaValidationError{Reason: "missing content type id"}
	}

	t := &ContentType{
		ID:               id,
		Title:            defaultString(def.Title, id),
		Group:            def.Group,
		Routes:           cloneStrings(def.Routes),
		UseBlocks:        def.UseBlocks,
		UseExcerpt:       def.UseExcerpt,
		UsePrimaryImage:  def.UsePrimaryImage,
		IsArchive:        def.IsArchive,
		ArchiveItemTypes: cloneStrings(def.ArchiveItemTypes),
	}

	if err := applyCapabilities(t, decl, def); err != nil {
		return nil, err
	}

	for _, rd := range sortRegions(def.Regions) {
		region, err := e.extractRegion(id, rd)
		if err != nil {
			return nil, err
		}
		t.Regions = append(t.Regions, region)
	}

	t.CustomEditors = mergeEditors(def.Editors)

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (e *Extractor) extractRegion(typeID string, rd RegionDefinition) (Region, error) {
	id := strings.TrimSpace(rd.ID)
	if id == "" {
		return Region{}, &SchemaValidationError{TypeID: typeID, Reason: "missing region id"}
	}

	region := Region{
		ID:                   id,
		Title:                defaultString(rd.Title, id),
		Collection:           rd.Collection,
		ListTitleField:       rd.ListTitle,
		ListTitlePlaceholder: rd.ListPlaceholder,
		ListExpand:           rd.ListExpand == nil || *rd.ListExpand,
		Icon:                 rd.Icon,
		Description:          rd.Description,
		Display:              defaultString(rd.Display, RegionDisplayContent),
	}
	switch region.Display {
	case RegionDisplayContent, RegionDisplayFull, RegionDisplaySetting:
	default:
		return Region{}, &SchemaValidationError{TypeID: typeID, ID: id, Reason: "unknown display mode " + region.Display + " for region"}
	}

	valueType := strings.TrimSpace(rd.Type)
	if strings.HasPrefix(valueType, collectionPrefix) {
		region.Collection = true
		valueType = strings.TrimSpace(strings.TrimPrefix(valueType, collectionPrefix))
	}

	switch {
	case valueType != "" && len(rd.Fields) > 0:
		return Region{}, &SchemaValidationError{TypeID: typeID, ID: id, Reason: "region declares both a value type and fields"}

	case valueType != "":
		identifier, err := e.resolve(typeID, id, DefaultFieldID, valueType)
		if err != nil {
			return Region{}, err
		}
		region.Fields = []Field{{
			ID:    DefaultFieldID,
			Title: region.Title,
			Type:  identifier,
		}}

	case len(rd.Fields) > 0:
		for _, fd := range rd.Fields {
			fieldID := strings.TrimSpace(fd.ID)
			if fieldID == "" {
				return Region{}, &SchemaValidationError{TypeID: typeID, ID: id, Reason: "missing field id in region"}
			}
			identifier, err := e.resolve(typeID, id, fieldID, fd.Type)
			if err != nil {
				return Region{}, err
			}
			region.Fields = append(region.Fields, Field{
				ID:          fieldID,
				Title:       defaultString(fd.Title, fieldID),
				Type:        identifier,
				Description: fd.Description,
				Placeholder: fd.Placeholder,
			})
		}

	default:
		return Region{}, &SchemaValidationError{TypeID: typeID, ID: id, Reason: "region has no fields"}
	}

	return region, nil
}

// resolve returns the canonical identifier for a declared field type so the
// stored schema does not depend on which alias the author used.
func (e *Extractor) resolve(typeID, regionID, fieldID, declared string) (string, error) {
	reg, err := e.registry.Resolve(declared)
	if err != nil {
		return "", &SchemaValidationError{
			TypeID: typeID,
			ID:     regionID + "." + fieldID,
			Reason: "unresolvable field type for field",
			Err:    &FieldTypeError{TypeID: typeID, RegionID: regionID, FieldID: fieldID, Identifier: declared},
		}
	}
	return reg.Identifier, nil
}

func applyCapabilities(t *ContentType, decl Declarer, def TypeDefinition) error {
	for _, c := range def.Capabilities {
		switch c {
		case CapabilityCategorized, CapabilityTagged:
		default:
			return &SchemaValidationError{TypeID: t.ID, ID: c, Reason: "unknown capability"}
		}
	}
	_, categorized := decl.(Categorized)
	_, tagged := decl.(Tagged)
	t.UseCategory = categorized || def.hasCapability(CapabilityCategorized)
	t.UseTags = tagged || def.hasCapability(CapabilityTagged)
	return nil
}

// sortRegions orders regions by explicit SortOrder. Regions without one keep
// declaration order after all explicitly ordered regions.
func sortRegions(regions []RegionDefinition) []RegionDefinition {
	sorted := slices.Clone(regions)
	key := func(r RegionDefinition) int {
		if r.SortOrder == nil {
			return math.MaxInt
		}
		return *r.SortOrder
	}
	slices.SortStableFunc(sorted, func(a, b RegionDefinition) int {
		ka, kb := key(a), key(b)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return 0
	})
	return sorted
}

// mergeEditors keeps declaration order. A later editor with the same title
// replaces the component and icon of the earlier one at its original index.
func mergeEditors(defs []EditorDefinition) []Editor {
	var editors []Editor
	for _, d := range defs {
		idx := slices.IndexFunc(editors, func(e Editor) bool { return e.Title == d.Title })
		if idx >= 0 {
			editors[idx].Component = d.Component
			editors[idx].Icon = d.Icon
			continue
		}
		editors = append(editors, Editor{Title: d.Title, Component: d.Component, Icon: d.Icon})
	}
	return editors
}

func defaultString(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return slices.Clone(in)
}
