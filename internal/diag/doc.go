// Package diag defines the diagnostic model shared by the exporter, the
// reference host and the driver.
//
// # Purpose
//
//   - Provide deterministic data structures for translation-time findings.
//   - Offer light-weight utilities (Reporter, Bag, Tally) so producers emit
//     diagnostics without coupling to storage or formatting.
//
// Package diag does no formatting beyond the single-line short form; rendering
// lives in internal/diagfmt.
//
// # Taxonomy
//
// Every Code belongs to one Category. Translation problems fall into four:
//
//   - unsupported-node (CNV1xxx) – a source variant without a conversion path;
//     always a coverage defect in the exporter.
//   - unresolved-context (CTX2xxx) – a conversion needed a parameter
//     environment or generic instantiation that is not concretely known.
//   - evaluation-failure (EVL3xxx) – the host constant engine rejected a
//     constant (overflow, cycle, unresolved trait method, …).
//   - macro-ancestry-overflow (MAC4xxx) – the expansion ancestry walk hit its
//     depth limit.
//
// None of them abort the unit: they accumulate, and a unit with at least one
// error-severity diagnostic is marked failed while its partial output is kept.
//
// # Emitting diagnostics
//
// Producers take a Reporter. ReportBuilder (ReportError/ReportWarning/
// ReportInfo) chains WithNote before Emit; simple cases call Report directly.
// Tally wraps another Reporter and counts severities, which is how a unit's
// success is decided.
package diag
