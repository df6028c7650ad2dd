// Package exported is the portable, serializable form of a type-checked unit.
//
// Values here never refer to host identifiers or host memory: definitions are
// paths, identifiers are strings, types are trees, constants are evaluated
// expressions and spans are file/line/column triples attributed to code the
// user wrote.
//
// Sum types are "oneof" structs: exactly one pointer field is non-nil. They
// are marked with a blank `export:"oneof"` field and serialise externally
// tagged, e.g. {"binary": {...}}. Field tags used by the converter:
//
//	from:"Name"  the source field or variant this field is built from
//	from:"-"     filled by the exporter, not derived from the source
//	drop:"A,B"   (on a blank field) source fields intentionally not exported
package exported
