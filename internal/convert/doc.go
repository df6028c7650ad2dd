// Package convert implements the conversion relation "S converts, given a
// Context, into D" used to turn host nodes into exported nodes.
//
// Dispatch has two tiers. A conversion registered with Override always wins
// for its exact (S, D) pair; at most one may exist per pair. Every other pair
// is derived structurally from the shapes of S and D:
//
//   - scalars of the same class copy (integers are range checked);
//   - integer enums with a String method convert into string fields;
//   - pointers, slices and maps convert element-wise into fresh storage;
//   - structs convert field by field, matched by name or by a `from` tag;
//     every exported source field must be mapped or listed in a blank
//     field's `drop` tag, so nothing is lost silently;
//   - a sum-type interface converts into a oneof struct by variant type name.
//
// Derivation plans are cached per type pair, never per value. Verify checks a
// whole type graph ahead of time; at run time a missing path becomes an
// unsupported-node diagnostic and a zero value, and the walk goes on.
package convert
