package contentmodel

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrSchemaValidation indicates a declared content type is malformed
	ErrSchemaValidation = errors.New("schema validation failed")

	// ErrUnknownContentType indicates no descriptor exists for a type id
	ErrUnknownContentType = errors.New("unknown content type")

	// ErrUnknownFieldType indicates a field type identifier is not registered
	ErrUnknownFieldType = errors.New("unknown field type")

	// ErrContentTypeNotFound is returned by stores when an id is absent
	ErrContentTypeNotFound = errors.New("content type not found")

	// ErrRegistryFrozen indicates a registration after the bootstrap phase ended
	ErrRegistryFrozen = errors.New("field type registry is frozen")

	// ErrNoBuild indicates DeleteOrphans was called before any Build
	ErrNoBuild = errors.New("delete orphans requires a preceding build")

	// ErrInvalidFieldType indicates an empty identifier or nil constructor
	ErrInvalidFieldType = errors.New("invalid field type registration")
)

// SchemaValidationError reports the offending id of a rejected content type.
type SchemaValidationError struct {
	TypeID string
	ID     string
	Reason string
	Err    error
}

func (e *SchemaValidationError) Error() string {
	msg := fmt.Sprintf("content type %q: %s", e.TypeID, e.Reason)
	if e.ID != "" {
		msg = fmt.Sprintf("content type %q: %s %q", e.TypeID, e.Reason, e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is lets errors.Is(err, ErrSchemaValidation) match every validation error.
func (e *SchemaValidationError) Is(target error) bool {
	return target == ErrSchemaValidation
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}

// ContentTypeError represents an error related to a content type operation
type ContentTypeError struct {
	TypeID string
	Op     string
	Err    error
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("content type operation %s failed for %s: %v", e.Op, e.TypeID, e.Err)
}

func (e *ContentTypeError) Unwrap() error {
	return e.Err
}

// FieldTypeError represents a field whose type identifier could not be resolved
type FieldTypeError struct {
	TypeID     string
	RegionID   string
	FieldID    string
	Identifier string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %s.%s.%s: %v %q", e.TypeID, e.RegionID, e.FieldID, ErrUnknownFieldType, e.Identifier)
}

func (e *FieldTypeError) Unwrap() error {
	return ErrUnknownFieldType
}
