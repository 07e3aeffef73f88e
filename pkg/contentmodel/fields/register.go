package fields

import (
	"fmt"

	"github.com/tendant/content-model/pkg/contentmodel"
)

// Field type identifiers
const (
	Text     = "fields.TextField"
	String   = "fields.StringField"
	HTML     = "fields.HTMLField"
	Markdown = "fields.MarkdownField"
	Number   = "fields.NumberField"
	Checkbox = "fields.CheckboxField"
	Date     = "fields.DateField"
	Color    = "fields.ColorField"
	Image    = "fields.ImageField"
	Document = "fields.DocumentField"
	Media    = "fields.MediaField"
	Page     = "fields.PageField"
	Post     = "fields.PostField"
)

// builtIn describes a field type registered by RegisterBuiltins.
type builtIn struct {
	identifier string
	shorthand  string
	ctor       contentmodel.FieldConstructor
}

var builtIns = []builtIn{
	{Text, "Text", func() any { return &TextField{} }},
	{String, "String", func() any { return &StringField{} }},
	{HTML, "Html", func() any { return &HTMLField{} }},
	{Markdown, "Markdown", func() any { return &MarkdownField{} }},
	{Number, "Number", func() any { return &NumberField{} }},
	{Checkbox, "Checkbox", func() any { return &CheckboxField{} }},
	{Date, "Date", func() any { return &DateField{} }},
	{Color, "Color", func() any { return &ColorField{} }},
	{Image, "Image", func() any { return &ImageField{} }},
	{Document, "Document", func() any { return &DocumentField{} }},
	{Media, "Media", func() any { return &MediaField{} }},
	{Page, "Page", func() any { return &PageField{} }},
	{Post, "Post", func() any { return &PostField{} }},
}

// RegisterBuiltins registers every built-in field type with reg, or with
// contentmodel.DefaultRegistry when reg is nil.
func RegisterBuiltins(reg *contentmodel.Registry) error {
	if reg == nil {
		reg = contentmodel.DefaultRegistry
	}
	for _, b := range builtIns {
		if err := reg.Register(b.identifier, b.ctor, b.shorthand); err != nil {
			return fmt.Errorf("register %s: %w", b.identifier, err)
		}
	}
	return nil
}

// NewRegistry returns a fresh registry holding the built-in field types.
func NewRegistry() *contentmodel.Registry {
	reg := contentmodel.NewRegistry()
	// Registering into a new, unfrozen registry cannot fail.
	_ = RegisterBuiltins(reg)
	return reg
}
