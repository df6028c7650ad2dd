package exported

// SchemaVersion is stamped on every exported unit.
const SchemaVersion uint16 = 1

// MutabilityCollapse documents how host mutability states map to Mutability:
// only the mutable state is true; immutable, inferred and unique-immutable
// states are all false.
const MutabilityCollapse = "mut-only"

type Schema struct {
	Version            uint16 `json:"version"`
	MutabilityCollapse string `json:"mutability_collapse"`
}

// CurrentSchema returns the header written by this exporter.
func CurrentSchema() Schema {
	return Schema{Version: SchemaVersion, MutabilityCollapse: MutabilityCollapse}
}

// Expansion records one macro or desugaring expansion met while exporting,
// in first-encounter order.
type Expansion struct {
	Macro    string `json:"macro"`
	Kind     string `json:"kind"`
	CallSite Span   `json:"call_site"`
}

// Unit is one exported compilation unit.
type Unit struct {
	Name       string      `json:"name"`
	Schema     Schema      `json:"schema"`
	Items      []Item      `json:"items"`
	Expansions []Expansion `json:"expansions,omitempty"`
}
