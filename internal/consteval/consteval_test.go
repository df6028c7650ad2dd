package consteval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irx/internal/diag"
	"irx/internal/host"
	"irx/internal/source"
)

// fakeQuery answers the few queries the bridge needs. Unused methods panic
// through the nil embedded interface.
type fakeQuery struct {
	host.QueryEngine
	types  map[host.TyID]host.Ty
	adts   map[host.DefID]*host.AdtDef
	subst  map[host.TyID]host.TyID
	evals  int
	result host.Value
	err    error
}

func (f *fakeQuery) Ty(id host.TyID) (host.Ty, bool) {
	t, ok := f.types[id]
	return t, ok
}

func (f *fakeQuery) Adt(def host.DefID) (*host.AdtDef, bool) {
	a, ok := f.adts[def]
	return a, ok
}

func (f *fakeQuery) Subst(ty host.TyID, _ []host.GenericArg) (host.TyID, bool) {
	if to, ok := f.subst[ty]; ok {
		return to, true
	}
	return ty, true
}

func (f *fakeQuery) EvalConst(host.ParamEnv, host.Const) (host.Value, error) {
	f.evals++
	return f.result, f.err
}

const (
	tyBool host.TyID = iota + 1
	tyI8
	tyU32
	tyI64
	tyChar
	tyPair
	tyArr
	tyRefStr
	tyStr
	tyWrap
	tyParamT
	tyArr3
	tyRefU32
	tyRefMutStr
	tyArrN
)

func newFake() *fakeQuery {
	return &fakeQuery{
		types: map[host.TyID]host.Ty{
			tyBool:   host.MakeTy(&host.BoolTy{}),
			tyI8:     host.MakeTy(&host.IntTy{Width: 8, Signed: true}),
			tyU32:    host.MakeTy(&host.IntTy{Width: 32}),
			tyI64:    host.MakeTy(&host.IntTy{Width: 64, Signed: true}),
			tyChar:   host.MakeTy(&host.CharTy{}),
			tyPair:   host.MakeTy(&host.TupleTy{Elems: []host.TyID{tyBool, tyU32}}),
			tyArr:    host.MakeTy(&host.ArrayTy{Elem: tyI8, Len: usize(2)}),
			tyStr:    host.MakeTy(&host.StrTy{}),
			tyRefStr: host.MakeTy(&host.RefTy{Mut: host.MutNot, Elem: tyStr}),
			tyWrap:   host.MakeTy(&host.AdtTy{Def: 40, Args: []host.GenericArg{host.TypeArg(tyU32)}}),
			tyParamT: host.MakeTy(&host.ParamTy{Index: 0}),
			tyArr3:   host.MakeTy(&host.ArrayTy{Elem: tyI8, Len: usize(3)}),
			tyArrN:   host.MakeTy(&host.ArrayTy{Elem: tyI8, Len: host.MakeConst(tyU32, &host.ParamConst{Index: 0})}),
			tyRefU32: host.MakeTy(&host.RefTy{Mut: host.MutNot, Elem: tyU32}),

			tyRefMutStr: host.MakeTy(&host.RefTy{Mut: host.MutMut, Elem: tyStr}),
		},
		adts: map[host.DefID]*host.AdtDef{
			40: {Def: 40, Variants: []host.VariantDef{{
				Fields: []host.FieldDef{{Name: 7, Ty: tyParamT}},
			}}},
		},
		subst: map[host.TyID]host.TyID{tyParamT: tyU32},
	}
}

func usize(n uint64) host.Const {
	return host.MakeConst(tyU32, &host.ValueConst{Value: host.UintValue(n)})
}

var useSite = host.Span{Range: source.Span{File: 1, Start: 10, End: 14}}

func unevaluated(ty host.TyID) host.Const {
	return host.MakeConst(ty, &host.UnevaluatedConst{Def: 9})
}

func TestForceEvaluatesExactlyOnce(t *testing.T) {
	q := newFake()
	q.result = host.UintValue(3)
	p := New(host.ParamEnv{Args: []host.GenericArg{}}, unevaluated(tyU32), useSite)
	assert.Equal(t, Unevaluated, p.State())

	for range 3 {
		res, err := p.Force(q)
		require.NoError(t, err)
		assert.Equal(t, host.UintValue(3), res.Value)
	}
	assert.Equal(t, Evaluated, p.State())
	assert.Equal(t, 1, q.evals)

	// новый Pending вычисляется заново
	q.result = host.UintValue(4)
	res, err := New(host.ParamEnv{}, unevaluated(tyU32), useSite).Force(q)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), res.Value.Uint)
	assert.Equal(t, 2, q.evals)
}

func TestForceRecordsFailure(t *testing.T) {
	q := newFake()
	q.err = &host.EvalError{Kind: host.EvalUnresolvedTrait, Msg: "no impl of Size for T"}
	p := New(host.ParamEnv{}, unevaluated(tyU32), useSite)

	_, err := p.Force(q)
	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, diag.EvalUnresolvedTrait, f.Code)
	assert.Equal(t, useSite, f.Span)
	assert.Equal(t, Failed, p.State())

	_, again := p.Force(q)
	assert.Same(t, f, again)
	assert.Equal(t, 1, q.evals)
}

func TestEvalErrorKindsMapToCodes(t *testing.T) {
	cases := map[host.EvalErrorKind]diag.Code{
		host.EvalTooGeneric:      diag.CtxUnresolvedParam,
		host.EvalNotConst:        diag.EvalNotConst,
		host.EvalUnresolvedTrait: diag.EvalUnresolvedTrait,
		host.EvalOverflow:        diag.EvalOverflow,
		host.EvalDivByZero:       diag.EvalDivByZero,
		host.EvalCycle:           diag.EvalCycle,
		host.EvalMismatch:        diag.EvalTypeMismatch,
		host.EvalErrored:         diag.ConvErrorNode,
	}
	for kind, code := range cases {
		q := newFake()
		q.err = &host.EvalError{Kind: kind, Msg: "x"}
		_, err := New(host.ParamEnv{}, unevaluated(tyU32), useSite).Force(q)
		var f *Failure
		require.True(t, errors.As(err, &f))
		assert.Equal(t, code, f.Code, "kind %d", kind)
	}

	q := newFake()
	q.err = errors.New("host exploded")
	_, err := New(host.ParamEnv{}, unevaluated(tyU32), useSite).Force(q)
	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, diag.EvalFailure, f.Code)
	assert.Contains(t, f.Error(), "host exploded")
}

func TestParamConstInPolymorphicEnv(t *testing.T) {
	q := newFake()
	env := host.ParamEnv{Owner: 3, Params: []host.GenericParamDef{
		{Name: 5, Index: 0, Kind: host.ParamConstKind, ConstTy: tyU32},
	}}
	c := host.MakeConst(tyU32, &host.ParamConst{Index: 0, Name: 5})

	res, err := New(env, c, useSite).Force(q)
	require.NoError(t, err)
	require.NotNil(t, res.Param)
	assert.Equal(t, 0, q.evals)

	e, err := ToExpr(q, res, tyU32, useSite)
	require.NoError(t, err)
	assert.Equal(t, &host.ParamConstRef{Index: 0, Name: 5}, e.Data)

	_, err = New(env, host.MakeConst(tyU32, &host.ParamConst{Index: 2}), useSite).Force(q)
	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, diag.CtxUnresolvedParam, f.Code)
}

func TestParamConstInInstantiatedEnvGoesToHost(t *testing.T) {
	q := newFake()
	q.result = host.UintValue(8)
	env := host.ParamEnv{
		Params: []host.GenericParamDef{{Index: 0, Kind: host.ParamConstKind, ConstTy: tyU32}},
		Args:   []host.GenericArg{host.ConstArg(host.MakeConst(tyU32, &host.ValueConst{Value: host.UintValue(8)}))},
	}
	res, err := New(env, host.MakeConst(tyU32, &host.ParamConst{Index: 0}), useSite).Force(q)
	require.NoError(t, err)
	assert.Nil(t, res.Param)
	assert.Equal(t, uint64(8), res.Value.Uint)
	assert.Equal(t, 1, q.evals)
}

func TestNonEvaluableKinds(t *testing.T) {
	q := newFake()
	cases := []struct {
		c    host.Const
		code diag.Code
	}{
		{host.MakeConst(tyU32, &host.InferConst{Var: 1}), diag.CtxUnresolvedInference},
		{host.MakeConst(tyU32, &host.ErrorConst{}), diag.ConvErrorNode},
		{host.Const{Ty: tyU32, Kind: host.ConstValue}, diag.ConvMissingPayload},
	}
	for _, tc := range cases {
		_, err := New(host.ParamEnv{}, tc.c, useSite).Force(q)
		var f *Failure
		require.True(t, errors.As(err, &f))
		assert.Equal(t, tc.code, f.Code)
	}
	assert.Zero(t, q.evals)
}

func TestToExprShapes(t *testing.T) {
	q := newFake()

	e, err := ToExpr(q, Result{Value: host.TupleValue(host.BoolValue(true), host.UintValue(7))}, tyPair, useSite)
	require.NoError(t, err)
	tup := e.Data.(*host.TupleExpr)
	require.Len(t, tup.Elems, 2)
	assert.Equal(t, host.Lit{Kind: host.LitBool, Bool: true}, tup.Elems[0].Data.(*host.LitExpr).Lit)
	assert.Equal(t, tyU32, tup.Elems[1].Ty)
	assert.Equal(t, useSite, tup.Elems[1].Span)

	e, err = ToExpr(q, Result{Value: host.ArrayValue(host.IntValue(-1), host.IntValue(2))}, tyArr, useSite)
	require.NoError(t, err)
	assert.Len(t, e.Data.(*host.ArrayExpr).Elems, 2)

	e, err = ToExpr(q, Result{Value: host.Value{Kind: host.ValRef, Fields: []host.Value{host.StrValue("hi")}}}, tyRefStr, useSite)
	require.NoError(t, err)
	borrow := e.Data.(*host.BorrowExpr)
	assert.Equal(t, host.MutNot, borrow.Mut)
	assert.Equal(t, "hi", borrow.Arg.Data.(*host.LitExpr).Lit.Str)

	e, err = ToExpr(q, Result{Value: host.Value{Kind: host.ValRef, Fields: []host.Value{host.StrValue("hi")}}}, tyRefMutStr, useSite)
	require.NoError(t, err)
	assert.Equal(t, host.MutMut, e.Data.(*host.BorrowExpr).Mut, "borrow keeps the reference's mutability")

	e, err = ToExpr(q, Result{Value: host.StrValue("hi")}, tyRefStr, useSite)
	require.NoError(t, err)
	assert.Equal(t, "hi", e.Data.(*host.LitExpr).Lit.Str)

	// длина зависит от параметра: проверять нечего
	e, err = ToExpr(q, Result{Value: host.ArrayValue(host.IntValue(1))}, tyArrN, useSite)
	require.NoError(t, err)
	assert.Len(t, e.Data.(*host.ArrayExpr).Elems, 1)

	e, err = ToExpr(q, Result{Value: host.Value{Kind: host.ValAdt, Def: 40, Fields: []host.Value{host.UintValue(5)}}}, tyWrap, useSite)
	require.NoError(t, err)
	adt := e.Data.(*host.AdtExpr)
	require.Len(t, adt.Fields, 1)
	assert.Equal(t, host.Symbol(7), adt.Fields[0].Name)
	assert.Equal(t, tyU32, adt.Fields[0].Value.Ty, "field type is instantiated")

	e, err = ToExpr(q, Result{Value: host.CharValue('λ')}, tyChar, useSite)
	require.NoError(t, err)
	assert.Equal(t, uint64('λ'), e.Data.(*host.LitExpr).Lit.Uint)
}

func TestToExprRejectsBadValues(t *testing.T) {
	q := newFake()
	cases := []struct {
		name string
		v    host.Value
		ty   host.TyID
		code diag.Code
	}{
		{"i8 overflow", host.IntValue(200), tyI8, diag.EvalOverflow},
		{"negative into unsigned", host.IntValue(-1), tyU32, diag.EvalOverflow},
		{"u32 overflow", host.UintValue(1 << 40), tyU32, diag.EvalOverflow},
		{"bool into int", host.BoolValue(true), tyI64, diag.EvalTypeMismatch},
		{"tuple arity", host.TupleValue(host.BoolValue(true)), tyPair, diag.EvalTypeMismatch},
		{"unknown type", host.BoolValue(true), 999, diag.CtxUnknownType},
		{"wrong adt", host.Value{Kind: host.ValAdt, Def: 41}, tyWrap, diag.EvalTypeMismatch},
		{"array too short", host.ArrayValue(host.IntValue(1), host.IntValue(2)), tyArr3, diag.EvalTypeMismatch},
		{"array too long", host.ArrayValue(host.IntValue(1), host.IntValue(2), host.IntValue(3)), tyArr, diag.EvalTypeMismatch},
		{"str behind &u32", host.StrValue("hi"), tyRefU32, diag.EvalTypeMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ToExpr(q, Result{Value: tc.v}, tc.ty, useSite)
			var f *Failure
			require.True(t, errors.As(err, &f))
			assert.Equal(t, tc.code, f.Code)
		})
	}
}

func TestToExprKeepsIntegersInRange(t *testing.T) {
	q := newFake()
	e, err := ToExpr(q, Result{Value: host.IntValue(-128)}, tyI8, useSite)
	require.NoError(t, err)
	assert.Equal(t, host.Lit{Kind: host.LitInt, Int: -128}, e.Data.(*host.LitExpr).Lit)

	e, err = ToExpr(q, Result{Value: host.IntValue(42)}, tyU32, useSite)
	require.NoError(t, err)
	assert.Equal(t, host.Lit{Kind: host.LitUint, Uint: 42}, e.Data.(*host.LitExpr).Lit)
}
