// Package fields provides the built-in field types of the content model and
// registers them with a contentmodel.Registry.
package fields

import (
	"time"

	"github.com/google/uuid"
)

// TextField is a plain multi-line text value.
type TextField struct {
	Value string `json:"value"`
}

// StringField is a single-line text value.
type StringField struct {
	Value string `json:"value"`
}

// HTMLField holds rich text markup.
type HTMLField struct {
	Value string `json:"value"`
}

// MarkdownField holds markdown source.
type MarkdownField struct {
	Value string `json:"value"`
}

// NumberField is an optional integer.
type NumberField struct {
	Value *int `json:"value"`
}

// CheckboxField is a boolean flag.
type CheckboxField struct {
	Value bool `json:"value"`
}

// DateField is an optional point in time.
type DateField struct {
	Value *time.Time `json:"value"`
}

// ColorField is a CSS color string.
type ColorField struct {
	Value string `json:"value"`
}

// ReferenceField points at an entity owned by another subsystem (media,
// pages, posts). A nil ID means nothing is selected.
type ReferenceField struct {
	ID *uuid.UUID `json:"id"`
}

// HasValue reports whether a reference is selected.
func (f ReferenceField) HasValue() bool {
	return f.ID != nil && *f.ID != uuid.Nil
}

// Set selects id.
func (f *ReferenceField) Set(id uuid.UUID) {
	f.ID = &id
}

// ImageField references an image in the media library.
type ImageField struct {
	ReferenceField
}

// DocumentField references a document in the media library.
type DocumentField struct {
	ReferenceField
}

// MediaField references any media item.
type MediaField struct {
	ReferenceField
}

// PageField references a page.
type PageField struct {
	ReferenceField
}

// PostField references a post.
type PostField struct {
	ReferenceField
}
