package contentmodel

import (
	"fmt"
	"strings"
	"sync"
)

// FieldConstructor returns a fresh default value for a field type.
type FieldConstructor func() any

// FieldTypeRegistration is one registered field type.
type FieldTypeRegistration struct {
	Identifier string
	Shorthand  string
	New        FieldConstructor
}

// Registry maps field type identifiers and shorthand aliases to
// constructors. It is written during bootstrap and read afterwards; Freeze
// marks the end of the write phase. The latest registration of an identifier
// wins.
type Registry struct {
	mu         sync.RWMutex
	types      map[string]*FieldTypeRegistration
	shorthands map[string]string
	order      []string
	frozen     bool
}

// DefaultRegistry is the process-wide field type registry.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:      make(map[string]*FieldTypeRegistration),
		shorthands: make(map[string]string),
	}
}

// Register adds or replaces the constructor for identifier. An optional
// shorthand alias is resolved when no full identifier matches.
func (r *Registry) Register(identifier string, constructor FieldConstructor, shorthand ...string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || constructor == nil {
		return fmt.Errorf("%w: identifier %q", ErrInvalidFieldType, identifier)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot register %q", ErrRegistryFrozen, identifier)
	}

	reg := &FieldTypeRegistration{Identifier: identifier, New: constructor}
	if len(shorthand) > 0 {
		reg.Shorthand = strings.TrimSpace(shorthand[0])
	}

	if prev, exists := r.types[identifier]; exists {
		if prev.Shorthand != "" && r.shorthands[prev.Shorthand] == identifier {
			delete(r.shorthands, prev.Shorthand)
		}
	} else {
		r.order = append(r.order, identifier)
	}
	r.types[identifier] = reg
	if reg.Shorthand != "" {
		r.shorthands[reg.Shorthand] = identifier
	}
	return nil
}

// Resolve finds the registration for identifier, trying the full identifier
// first and then the shorthand table.
func (r *Registry) Resolve(identifier string) (*FieldTypeRegistration, error) {
	identifier = strings.TrimSpace(identifier)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if reg, ok := r.types[identifier]; ok {
		return reg, nil
	}
	if full, ok := r.shorthands[identifier]; ok {
		if reg, ok := r.types[full]; ok {
			return reg, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFieldType, identifier)
}

// New resolves identifier and returns a fresh default value.
func (r *Registry) New(identifier string) (any, error) {
	reg, err := r.Resolve(identifier)
	if err != nil {
		return nil, err
	}
	return reg.New(), nil
}

// Freeze ends the registration phase. Later Register calls fail.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Registrations lists registered field types in first-registration order.
func (r *Registry) Registrations() []FieldTypeRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]FieldTypeRegistration, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.types[id])
	}
	return out
}

// RegisterFieldType registers a field type with DefaultRegistry.
func RegisterFieldType(identifier string, constructor FieldConstructor, shorthand ...string) error {
	return DefaultRegistry.Register(identifier, constructor, shorthand...)
}

// ResolveFieldType resolves a field type through DefaultRegistry.
func ResolveFieldType(identifier string) (*FieldTypeRegistration, error) {
	return DefaultRegistry.Resolve(identifier)
}
