// Package exporter turns one type-checked host unit into an exported.Unit.
//
// The conversion itself is the reflection-driven derivation of package
// convert; this package supplies the catalog: sum declarations, rejected
// variants and the overrides for the few types whose conversion is not a
// field-by-field copy (symbols, mutability, constants, definitions, types,
// spans, item lists and macro-expanded expressions).
//
// Engine.Export runs a unit under a fresh convert.Context. Diagnostics
// accumulate in the sink; a unit with errors still yields its partial tree.
package exporter
