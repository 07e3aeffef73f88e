package contentmodel

import (
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// DefaultFieldID is the id given to the single field of a flattened region.
const DefaultFieldID = "Default"

// Region display modes
const (
	RegionDisplayContent = "content"
	RegionDisplayFull    = "full"
	RegionDisplaySetting = "setting"
)

// Field describes one editable value slot inside a region. Type is a field
// type identifier (or shorthand) resolved through the Registry.
type Field struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Region describes a named slot of a content type. A region with one field is
// flattened at runtime; a region with more is a composite keyed by field id.
type Region struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title"`
	Collection           bool    `json:"collection"`
	Fields               []Field `json:"fields"`
	ListTitleField       string  `json:"listTitleField,omitempty"`
	ListTitlePlaceholder string  `json:"listTitlePlaceholder,omitempty"`
	ListExpand           bool    `json:"listExpand"`
	Icon                 string  `json:"icon,omitempty"`
	Description          string  `json:"description,omitempty"`
	Display              string  `json:"display,omitempty"`
}

// SingleField reports whether the region is flattened to its only field.
func (r Region) SingleField() bool {
	return len(r.Fields) == 1
}

// Editor is a custom UI editor registration. Order matters for display.
type Editor struct {
	Title     string `json:"title"`
	Component string `json:"component"`
	Icon      string `json:"icon,omitempty"`
}

// ContentType is the normalized, persisted description of a content shape.
//
// UseCategory and UseTags are derived from capability markers during
// extraction. Created and LastModified are store bookkeeping and are ignored
// by Equal and Diff.
type ContentType struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Group            string    `json:"group,omitempty"`
	Regions          []Region  `json:"regions"`
	Routes           []string  `json:"routes,omitempty"`
	CustomEditors    []Editor  `json:"customEditors,omitempty"`
	UseBlocks        bool      `json:"useBlocks"`
	UseExcerpt       bool      `json:"useExcerpt"`
	UsePrimaryImage  bool      `json:"usePrimaryImage"`
	UseCategory      bool      `json:"useCategory"`
	UseTags          bool      `json:"useTags"`
	IsArchive        bool      `json:"isArchive"`
	ArchiveItemTypes []string  `json:"archiveItemTypes,omitempty"`
	Created          time.Time `json:"created"`
	LastModified     time.Time `json:"lastModified"`
}

// Region returns the region with the given id.
func (t *ContentType) Region(id string) (Region, bool) {
	for _, r := range t.Regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// Validate checks the uniqueness invariants of the descriptor.
func (t *ContentType) Validate() error {
	if t.ID == "" {
		return &SchemaValidationError{Reason: "missing content type id"}
	}
	regions := make(map[string]struct{}, len(t.Regions))
	for _, r := range t.Regions {
		if r.ID == "" {
			return &SchemaValidationError{TypeID: t.ID, Reason: "missing region id"}
		}
		if _, dup := regions[r.ID]; dup {
			return &SchemaValidationError{TypeID: t.ID, ID: r.ID, Reason: "duplicate region id"}
		}
		regions[r.ID] = struct{}{}

		if len(r.Fields) == 0 {
			return &SchemaValidationError{TypeID: t.ID, ID: r.ID, Reason: "region has no fields"}
		}
		fields := make(map[string]struct{}, len(r.Fields))
		for _, f := range r.Fields {
			if f.ID == "" {
				return &SchemaValidationError{TypeID: t.ID, ID: r.ID, Reason: "missing field id in region"}
			}
			if _, dup := fields[f.ID]; dup {
				return &SchemaValidationError{TypeID: t.ID, ID: r.ID + "." + f.ID, Reason: "duplicate field id"}
			}
			fields[f.ID] = struct{}{}
		}
	}
	return nil
}

// Clone returns a deep copy so stores and callers never share slices.
func (t *ContentType) Clone() *ContentType {
	if t == nil {
		return nil
	}
	c := *t
	if t.Regions != nil {
		c.Regions = make([]Region, len(t.Regions))
		for i, r := range t.Regions {
			rc := r
			if r.Fields != nil {
				rc.Fields = append([]Field(nil), r.Fields...)
			}
			c.Regions[i] = rc
		}
	}
	if t.Routes != nil {
		c.Routes = append([]string(nil), t.Routes...)
	}
	if t.CustomEditors != nil {
		c.CustomEditors = append([]Editor(nil), t.CustomEditors...)
	}
	if t.ArchiveItemTypes != nil {
		c.ArchiveItemTypes = append([]string(nil), t.ArchiveItemTypes...)
	}
	return &c
}

var structuralOptions = cmp.Options{
	cmpopts.IgnoreFields(ContentType{}, "Created", "LastModified"),
	cmpopts.EquateEmpty(),
}

// Equal reports whether two descriptors are structurally identical, ignoring
// store bookkeeping. Nil and empty slices compare equal.
func Equal(a, b *ContentType) bool {
	if a == nil || b == nil {
		return a == b
	}
	return cmp.Equal(*a, *b, structuralOptions)
}

// Diff renders the structural difference between two descriptors. An empty
// string means they are equal.
func Diff(stored, declared *ContentType) string {
	if stored == nil || declared == nil {
		return cmp.Diff(stored, declared)
	}
	return cmp.Diff(*stored, *declared, structuralOptions)
}
