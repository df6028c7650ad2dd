// Package consteval bridges host constants to exported expressions.
//
// A Pending constant is tied to the parameter environment it was met in.
// Force moves it from unevaluated to evaluated (or failed) exactly once;
// later calls return the recorded outcome. Nothing is cached beyond the
// Pending value itself, so the same syntactic constant met under another
// environment is evaluated again.
//
// ToExpr rebuilds an expression-shaped host node from an evaluated result.
// The rebuilt node never contains a ConstRef.
package consteval
