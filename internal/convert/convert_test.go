package convert

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irx/internal/diag"
	"irx/internal/host"
	"irx/internal/source"
)

type color uint8

const (
	red color = iota
	green
)

func (c color) String() string { return [...]string{"red", "green"}[c] }

type shape interface{ isShape() }

type Circle struct{ R int32 }
type Square struct {
	Side  uint16
	Label string
}
type Blob struct{}

func (*Circle) isShape() {}
func (*Square) isShape() {}
func (*Blob) isShape()   {}

type srcNode struct {
	Name   string
	Color  color
	Shape  shape
	Tags   []string
	Kids   []*srcNode
	Span   host.Span
	Secret int
}

type outCircle struct{ R int64 }
type outSquare struct {
	Side  uint32
	Label string
}

type outShape struct {
	_      struct{}   `export:"oneof"`
	Circle *outCircle `from:"Circle"`
	Square *outSquare `from:"Square"`
	Extra  *outCircle `from:"-"`
}

type outNode struct {
	_     struct{} `drop:"Secret"`
	Label string   `from:"Name"`
	Color string
	Shape outShape
	Tags  []string
	Kids  []*outNode
	Span  string
}

func newTestRegistry() *Registry {
	r := NewRegistry()
	DeclareSum[shape](r, &Circle{}, &Square{}, &Blob{})
	Override(r, func(_ *Context, s host.Span) string { return s.Range.String() })
	return r
}

func newTestContext(r *Registry) (*Context, *diag.Bag) {
	bag := diag.NewBag(100)
	return NewContext(nil, r, diag.BagReporter{Bag: bag}, Options{}), bag
}

func span(start, end uint32) host.Span {
	return host.Span{Range: source.Span{File: 0, Start: start, End: end}}
}

func TestStructuralDerivation(t *testing.T) {
	r := newTestRegistry()
	cx, bag := newTestContext(r)

	src := &srcNode{
		Name:  "root",
		Color: green,
		Shape: &Square{Side: 4, Label: "sq"},
		Tags:  []string{"a", "b"},
		Kids: []*srcNode{
			{Name: "kid", Shape: &Circle{R: -2}, Span: span(3, 5)},
		},
		Span:   span(0, 10),
		Secret: 42,
	}
	got := Into[*outNode](cx, src)

	want := &outNode{
		Label: "root",
		Color: "green",
		Shape: outShape{Square: &outSquare{Side: 4, Label: "sq"}},
		Tags:  []string{"a", "b"},
		Kids: []*outNode{
			{Label: "kid", Color: "red", Shape: outShape{Circle: &outCircle{R: -2}}, Span: "0:3-5"},
		},
		Span: "0:0-10",
	}
	assert.Equal(t, want, got)
	assert.Zero(t, bag.Len(), "unexpected diagnostics: %v", bag.Items())

	// результат не делит память с источником
	src.Tags[0] = "changed"
	assert.Equal(t, "a", got.Tags[0])
}

func TestDuplicateOverridePanics(t *testing.T) {
	r := newTestRegistry()
	assert.PanicsWithValue(t,
		fmt.Sprintf("convert: duplicate conversion %s -> string", "host.Span"),
		func() { Override(r, func(_ *Context, s host.Span) string { return "" }) })
}

func TestVerifyFindsUncoveredVariant(t *testing.T) {
	r := newTestRegistry()
	errs := Verify[*srcNode, *outNode](r)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "*convert.Blob has no counterpart")

	Reject[*Blob](r, diag.ConvErrorNode, "blobs are not exported")
	assert.Empty(t, Verify[*srcNode, *outNode](r))
}

type notOneof struct {
	_      struct{}   `export:"sum"`
	Circle *outCircle `from:"Circle"`
}

func TestInterfaceNeedsOneofDestination(t *testing.T) {
	r := newTestRegistry()
	errs := Verify[shape, notOneof](r)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "needs a oneof destination")
	assert.Equal(t, []string{"host.Span -> string"}, r.Overrides())
}

func TestVerifyFindsUnmappedField(t *testing.T) {
	type leaky struct {
		Name   string
		Secret int
	}
	type sealed struct {
		Name string
	}
	r := NewRegistry()
	errs := Verify[leaky, sealed](r)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "leaky.Secret is not exported")

	cx, bag := newTestContext(r)
	out := Into[sealed](cx, leaky{Name: "x", Secret: 1})
	assert.Equal(t, sealed{}, out, "failed derivation yields the zero value")
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.ConvSchemaMismatch, bag.Items()[0].Code)
}

func TestRuntimeVariantDiagnosticsCarryEnclosingSpan(t *testing.T) {
	r := newTestRegistry()
	Reject[*Blob](r, diag.ConvErrorNode, "blobs are not exported")
	cx, bag := newTestContext(r)

	src := &srcNode{Shape: &Circle{}, Kids: []*srcNode{
		{Shape: &Blob{}, Span: span(7, 9)},
		{Shape: nil, Span: span(11, 12)},
	}, Span: span(0, 20)}
	out := Into[*outNode](cx, src)

	require.Len(t, out.Kids, 2)
	assert.Equal(t, outShape{}, out.Kids[0].Shape)
	require.Equal(t, 2, bag.Len())
	assert.Equal(t, diag.ConvErrorNode, bag.Items()[0].Code)
	assert.Equal(t, span(7, 9).Range, bag.Items()[0].Primary)
	assert.Equal(t, diag.ConvMissingPayload, bag.Items()[1].Code)
	assert.Equal(t, span(11, 12).Range, bag.Items()[1].Primary)
	assert.Equal(t, 2, cx.Errors())
}

func TestNarrowingOverflowIsReported(t *testing.T) {
	type wide struct{ N int64 }
	type narrow struct{ N int8 }
	cx, bag := newTestContext(NewRegistry())

	assert.Equal(t, narrow{N: -5}, Into[narrow](cx, wide{N: -5}))
	assert.Equal(t, narrow{}, Into[narrow](cx, wide{N: 300}))
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.ConvSchemaMismatch, bag.Items()[0].Code)
}

func TestOverrideWinsAndStructuralBypasses(t *testing.T) {
	r := newTestRegistry()
	Override(r, func(cx *Context, c *Circle) *outCircle {
		out := Structural[*outCircle](cx, c)
		out.R *= 10
		return out
	})
	cx, _ := newTestContext(r)

	got := Into[outShape](cx, shape(&Circle{R: 3}))
	require.NotNil(t, got.Circle)
	assert.Equal(t, int64(30), got.Circle.R)
	assert.Nil(t, got.Extra)
}

func TestWithParamEnvSharesBookkeeping(t *testing.T) {
	cx, bag := newTestContext(newTestRegistry())
	child := cx.WithParamEnv(host.ParamEnv{Owner: 7})

	child.Errorf(diag.EvalFailure, "boom")
	assert.Equal(t, host.DefID(7), child.ParamEnv().Owner)
	assert.Equal(t, host.NoDefID, cx.ParamEnv().Owner)
	assert.Equal(t, 1, cx.Errors())
	assert.Equal(t, 1, bag.Len())
}
