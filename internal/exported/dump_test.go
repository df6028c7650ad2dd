package exported

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantNamesThePopulatedField(t *testing.T) {
	assert.Equal(t, "int", Variant(Ty{Int: &IntTy{Width: 32}}))
	assert.Equal(t, "param_const", Variant(&ExprContents{ParamConst: &ParamConstRef{}}))
	assert.Empty(t, Variant(Ty{}))
	assert.Empty(t, Variant(IntTy{}), "not a oneof")
	assert.Empty(t, Variant(nil))

	assert.True(t, IsOneof(reflect.TypeFor[Ty]()))
	assert.False(t, IsOneof(reflect.TypeFor[Expr]()))
	assert.False(t, IsOneof(reflect.TypeFor[*Ty]()))
}

func TestDumpPrintsOnlyTheVariant(t *testing.T) {
	e := &Expr{
		Ty:       Ty{Bool: &BoolTy{}},
		Span:     Span{File: "lib.rs", Lo: Loc{Line: 1, Col: 2}, Hi: Loc{Line: 1, Col: 6}, FromMacro: "m"},
		Contents: ExprContents{Lit: &LitExpr{Lit: Lit{Kind: "bool", Bool: true}}},
	}
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, e))
	out := buf.String()
	assert.Contains(t, out, "ty: bool BoolTy")
	assert.Contains(t, out, "span: lib.rs:1:2-1:6 (from m!)")
	assert.Contains(t, out, "contents: lit LitExpr")
	assert.NotContains(t, out, "param_const")

	buf.Reset()
	require.NoError(t, Dump(&buf, ExprContents{}))
	assert.Equal(t, "<empty>\n", buf.String())
}
