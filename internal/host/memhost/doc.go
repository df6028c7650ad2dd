// Package memhost is a reference host kept entirely in memory.
//
// A Session owns files, interned symbols and types, definitions, expansion
// data and a list of units. It answers host.QueryEngine queries, evaluates
// constants with a small interpreter, and drives callbacks over its units
// like a compiler driver would. Sessions are assembled with a Builder or
// loaded from a msgpack snapshot.
package memhost
