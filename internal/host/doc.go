// Package host describes the compiler the exporter runs inside of.
//
// Nothing here computes anything: the package fixes the shapes of the typed
// program representation (items, expressions, patterns, interned types,
// constants, expansion-tagged spans) and the QueryEngine the exporter calls
// back into. A concrete compiler, or the in-memory reference in
// internal/host/memhost, supplies the implementation.
//
// Sum types follow one layout: a node struct carries a Kind tag and a Data
// payload whose dynamic type is a pointer to the variant struct. Every sum
// type has a kind-indexed constructor (NewExprData, NewTyData, …) and a
// variant catalog (ExprVariants, …); the codec and the exporter's totality
// check are both driven by them.
package host
