package contentmodel

// Capability names recognized on a TypeDefinition.
const (
	CapabilityCategorized = "categorized"
	CapabilityTagged      = "tagged"
)

// Declarer is implemented by anything that declares a content type: a
// TypeDefinition loaded from a file, or an application type whose Declare
// method builds one in code.
type Declarer interface {
	Declare() TypeDefinition
}

// Categorized marks a declared type whose content can be put in a category.
type Categorized interface {
	Categorized()
}

// Tagged marks a declared type whose content can be tagged.
type Tagged interface {
	Tagged()
}

// FieldDefinition declares one field of a composite region.
type FieldDefinition struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// RegionDefinition declares a region. Setting Type declares a single-field
// region whose value is that field type; "[]Type" declares a collection of
// them. Otherwise Fields declares a composite region.
type RegionDefinition struct {
	ID              string            `json:"id" yaml:"id"`
	Title           string            `json:"title,omitempty" yaml:"title,omitempty"`
	Type            string            `json:"type,omitempty" yaml:"type,omitempty"`
	Fields          []FieldDefinition `json:"fields,omitempty" yaml:"fields,omitempty"`
	Collection      bool              `json:"collection,omitempty" yaml:"collection,omitempty"`
	SortOrder       *int              `json:"sortOrder,omitempty" yaml:"sortOrder,omitempty"`
	ListTitle       string            `json:"listTitle,omitempty" yaml:"listTitle,omitempty"`
	ListPlaceholder string            `json:"listPlaceholder,omitempty" yaml:"listPlaceholder,omitempty"`
	ListExpand      *bool             `json:"listExpand,omitempty" yaml:"listExpand,omitempty"`
	Icon            string            `json:"icon,omitempty" yaml:"icon,omitempty"`
	Description     string            `json:"description,omitempty" yaml:"description,omitempty"`
	Display         string            `json:"display,omitempty" yaml:"display,omitempty"`
}

// EditorDefinition declares a custom editor.
type EditorDefinition struct {
	Title     string `json:"title" yaml:"title"`
	Component string `json:"component" yaml:"component"`
	Icon      string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// TypeDefinition is the declarative form of a content type.
type TypeDefinition struct {
	ID               string             `json:"id" yaml:"id"`
	Title            string             `json:"title,omitempty" yaml:"title,omitempty"`
	Group            string             `json:"group,omitempty" yaml:"group,omitempty"`
	Regions          []RegionDefinition `json:"regions" yaml:"regions"`
	Routes           []string           `json:"routes,omitempty" yaml:"routes,omitempty"`
	Editors          []EditorDefinition `json:"editors,omitempty" yaml:"editors,omitempty"`
	Capabilities     []string           `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	UseBlocks        bool               `json:"useBlocks,omitempty" yaml:"useBlocks,omitempty"`
	UseExcerpt       bool               `json:"useExcerpt,omitempty" yaml:"useExcerpt,omitempty"`
	UsePrimaryImage  bool               `json:"usePrimaryImage,omitempty" yaml:"usePrimaryImage,omitempty"`
	IsArchive        bool               `json:"isArchive,omitempty" yaml:"isArchive,omitempty"`
	ArchiveItemTypes []string           `json:"archiveItemTypes,omitempty" yaml:"archiveItemTypes,omitempty"`
}

// Declare returns the definition itself.
func (d TypeDefinition) Declare() TypeDefinition {
	return d
}

func (d TypeDefinition) hasCapability(name string) bool {
	for _, c := range d.Capabilities {
		if c == name {
			return true
		}
	}
	return false
}
