package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irx/internal/exported"
)

func span(lo, hi exported.Loc) exported.Span {
	return exported.Span{File: "a.rs", Lo: lo, Hi: hi}
}

func TestCheckUnitAcceptsWellFormedTree(t *testing.T) {
	u := &exported.Unit{
		Name:   "u",
		Schema: exported.CurrentSchema(),
		Items: []exported.Item{{
			Name: "S",
			Span: span(exported.Loc{Line: 1, Col: 1}, exported.Loc{Line: 1, Col: 9}),
			Contents: exported.ItemContents{Static: &exported.StaticItem{
				Ty: exported.Ty{Bool: &exported.BoolTy{}},
			}},
		}},
	}
	require.NoError(t, CheckUnit(u))
}

func TestCheckUnitFindsViolations(t *testing.T) {
	u := &exported.Unit{
		Name: "u",
		Items: []exported.Item{{
			Name:     "S",
			Span:     span(exported.Loc{Line: 2, Col: 5}, exported.Loc{Line: 2, Col: 1}),
			Contents: exported.ItemContents{Static: &exported.StaticItem{}},
		}},
		Expansions: []exported.Expansion{{Macro: "m"}},
	}
	err := CheckUnit(u)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "schema header")
	assert.Contains(t, msg, "Ty: 0 variants set")
	assert.Contains(t, msg, "runs backwards")
	assert.Contains(t, msg, "expansion 0")
}

func TestCheckSpansNeedsFile(t *testing.T) {
	err := CheckSpans(exported.MacroInvocation{Span: exported.Span{Lo: exported.Loc{Line: 1, Col: 1}, Hi: exported.Loc{Line: 1, Col: 1}}})
	assert.ErrorContains(t, err, "span without file")
}
