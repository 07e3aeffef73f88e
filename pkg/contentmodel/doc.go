// Package contentmodel provides the content-type schema engine: a registry of
// field types, an extractor that turns declared content shapes into
// ContentType descriptors, a synchronizer that reconciles those descriptors
// against a persisted Store, and a factory that manufactures empty runtime
// instances shaped by a descriptor.
//
// Startup is two-phase. Register every field type (see the fields subpackage)
// and Freeze the registry, then extract, synchronize and serve. Stores
// (memory, Postgres, SQLite, object storage) and a read-through cache are
// provided under store/.
//
// Region Shapes
//
// A region with exactly one field is single-field: its runtime value is the
// field value itself. A region with several fields is composite: its runtime
// value is an OrderedMap keyed by field id, or a typed model registered with
// the factory. A collection region wraps either shape in a Collection that can
// create new items on demand.
package contentmodel
