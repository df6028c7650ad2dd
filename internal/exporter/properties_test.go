package exporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"pgregory.net/rapid"

	"irx/internal/diag"
	"irx/internal/exported"
	"irx/internal/host"
	"irx/internal/host/memhost"
	"irx/internal/spans"
)

func TestMutabilityCollapseTable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := host.Mutability(rapid.Uint8().Draw(t, "m"))
		mut, ok := CollapseMutability(m)
		if m > host.MutUniqueImm {
			assert.False(t, ok)
			return
		}
		assert.True(t, ok)
		assert.Equal(t, m == host.MutMut, mut)
	})

	for _, m := range host.AllMutabilities() {
		_, ok := CollapseMutability(m)
		assert.True(t, ok, "state %s is not in the table", m)
	}
}

func TestMutabilityThroughExport(t *testing.T) {
	f := newFixture("static S: u32 = 0;", "")
	s := f.b.Def(host.DefStatic, "t::S")
	rapid.Check(t, func(rt *rapid.T) {
		m := rapid.SampledFrom(host.AllMutabilities()).Draw(rt, "m")
		it := host.NewItem(s, f.b.Sym("S"), f.at("static S: u32 = 0;"), host.VisPrivate,
			&host.StaticItem{Mut: m, Ty: f.b.Ref(m, f.u32)})
		res, bag := f.export(Options{}, it)
		require.Empty(rt, bag.Items())
		st := res.Unit.Items[0].Contents.Static
		assert.Equal(rt, m == host.MutMut, st.Mut)
		assert.Equal(rt, m == host.MutMut, st.Ty.Ref.Mut)
	})
}

func TestAncestryWalkTerminates(t *testing.T) {
	const limit = 6
	rapid.Check(t, func(rt *rapid.T) {
		depth := rapid.IntRange(1, 2*limit).Draw(rt, "depth")
		f := newFixture("#[m] fn f() -> u32 { 1 }", "expanded")
		deep, user := attrChain(f, depth)
		fn := f.b.Def(host.DefFn, "t::f")
		it := host.NewItem(fn, f.b.Sym("f"), f.at("fn f() -> u32 { 1 }"), host.VisPrivate,
			&host.FnItem{Output: f.u32, Body: memhost.UintLit(f.u32, deep, 1)})

		res, bag := f.export(Options{MaxExpansionDepth: limit}, it)
		if depth > limit {
			assert.Contains(rt, codes(bag), diag.MacroAncestryOverflow)
			return
		}
		require.Empty(rt, bag.Items())
		want, err := spans.Portable(f.b.Session().Files(), user.Range, "t::m")
		require.NoError(rt, err)
		assert.Equal(rt, want, res.Unit.Items[0].Contents.Fn.Body.Span)
		assert.Len(rt, res.Unit.Expansions, depth)
	})
}

func TestConstEvaluationIsTotalUnderInstantiation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.Uint64Range(0, 1<<16).Draw(rt, "a")
		b := rapid.Uint64Range(1, 1<<16).Draw(rt, "b")
		op := rapid.SampledFrom([]host.BinOp{host.BinAdd, host.BinMul, host.BinDiv, host.BinRem}).Draw(rt, "op")

		f := newFixture("const X: u64 = a OP b;", "")
		u64 := f.b.Int(64, false)
		x := f.b.Def(host.DefConst, "t::X")
		body := memhost.Binary(u64, f.at("a OP b"), op, memhost.UintLit(u64, f.at("a"), a), memhost.UintLit(u64, f.at("b"), b))
		f.b.Body(x, body)
		it := host.NewItem(x, f.b.Sym("X"), f.at("const X: u64 = a OP b;"), host.VisPrivate,
			&host.ConstItem{Ty: u64, Body: body})

		res, bag := f.export(Options{}, it)
		require.Empty(rt, bag.Items())
		ci := res.Unit.Items[0].Contents.Const
		require.NotNil(rt, ci.Value)
		assert.Equal(rt, ci.Ty, ci.Value.Ty)
		require.NotNil(rt, ci.Value.Contents.Lit)

		want := map[host.BinOp]uint64{host.BinAdd: a + b, host.BinMul: a * b, host.BinDiv: a / b, host.BinRem: a % b}[op]
		assert.Equal(rt, want, ci.Value.Contents.Lit.Lit.Uint)
		exported.Walk(ci.Value, func(n any) bool {
			_, unevaluated := n.(exported.ConstRef)
			assert.False(rt, unevaluated)
			return true
		})
	})
}

func encodeMsgpack(t *testing.T, u *exported.Unit) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.SetSortMapKeys(true)
	require.NoError(t, enc.Encode(u))
	return buf.Bytes()
}

func TestExportIsDeterministic(t *testing.T) {
	for _, opaque := range [][]string{nil, {memhost.SampleOpaqueMacro}} {
		first := exportSample(t, opaque...)
		second := exportSample(t, opaque...)
		assert.Equal(t, first.Unit, second.Unit)

		a, err := json.Marshal(first.Unit)
		require.NoError(t, err)
		b, err := json.Marshal(second.Unit)
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Equal(t, encodeMsgpack(t, first.Unit), encodeMsgpack(t, second.Unit))
	}
}

func TestRoundTripIsByteStable(t *testing.T) {
	unit := exportSample(t).Unit

	t.Run("json", func(t *testing.T) {
		first, err := json.Marshal(unit)
		require.NoError(t, err)
		var back exported.Unit
		require.NoError(t, json.Unmarshal(first, &back))
		second, err := json.Marshal(&back)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second))
	})

	t.Run("msgpack", func(t *testing.T) {
		first := encodeMsgpack(t, unit)
		dec := msgpack.NewDecoder(bytes.NewReader(first))
		dec.SetCustomStructTag("json")
		var back exported.Unit
		require.NoError(t, dec.Decode(&back))
		assert.Equal(t, first, encodeMsgpack(t, &back))
	})
}
