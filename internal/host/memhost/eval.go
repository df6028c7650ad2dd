package memhost

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"irx/internal/host"
)

// visit tracks definitions during one evaluation, for cycle detection.
type visit uint8

const (
	unvisited visit = iota
	visiting
	done
)

// maxRepeat bounds [x; N] expressions built during evaluation.
const maxRepeat = 1 << 16

type evaluator struct {
	s     *Session
	state map[host.DefID]visit
	memo  map[host.DefID]host.Value
}

type frame struct {
	env    host.ParamEnv
	locals map[host.LocalID]host.Value
}

func (f *frame) child() *frame {
	locals := make(map[host.LocalID]host.Value, len(f.locals))
	for k, v := range f.locals {
		locals[k] = v
	}
	return &frame{env: f.env, locals: locals}
}

func evalErr(kind host.EvalErrorKind, format string, args ...any) error {
	return &host.EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// EvalConst evaluates c under env. Each call starts from a clean state;
// nothing is remembered between calls.
func (s *Session) EvalConst(env host.ParamEnv, c host.Const) (host.Value, error) {
	ev := &evaluator{
		s:     s,
		state: make(map[host.DefID]visit),
		memo:  make(map[host.DefID]host.Value),
	}
	return ev.constant(env, c)
}

func (ev *evaluator) defName(def host.DefID) string {
	path, ok := ev.s.DefPath(def)
	if !ok {
		return fmt.Sprintf("#%d", def)
	}
	name := ""
	for i, sym := range path {
		if i > 0 {
			name += "::"
		}
		part, _ := ev.s.SymbolName(sym)
		name += part
	}
	return name
}

func (ev *evaluator) constant(env host.ParamEnv, c host.Const) (host.Value, error) {
	switch d := c.Data.(type) {
	case *host.ValueConst:
		return d.Value, nil
	case *host.ParamConst:
		if !env.Instantiated() || int(d.Index) >= len(env.Args) {
			name, _ := ev.s.SymbolName(d.Name)
			return host.Value{}, evalErr(host.EvalTooGeneric, "constant depends on generic parameter %s", name)
		}
		arg := env.Args[d.Index]
		if arg.Kind != host.ArgConst {
			return host.Value{}, evalErr(host.EvalMismatch, "generic argument #%d is a type, not a constant", d.Index)
		}
		return ev.constant(host.ParamEnv{}, arg.Const)
	case *host.UnevaluatedConst:
		return ev.item(env, d)
	case *host.InferConst, *host.ErrorConst:
		return host.Value{}, evalErr(host.EvalErrored, "constant was not fully type checked")
	}
	return host.Value{}, evalErr(host.EvalErrored, "constant of kind %d has no payload", c.Kind)
}

func (ev *evaluator) item(env host.ParamEnv, u *host.UnevaluatedConst) (host.Value, error) {
	d, ok := ev.s.def(u.Def)
	if !ok {
		return host.Value{}, evalErr(host.EvalErrored, "unknown definition #%d", u.Def)
	}
	switch d.Kind {
	case host.DefConst, host.DefAnonConst:
	case host.DefTraitMethod:
		return host.Value{}, evalErr(host.EvalUnresolvedTrait, "%s is a trait item; no impl is selected here", ev.defName(u.Def))
	default:
		return host.Value{}, evalErr(host.EvalNotConst, "%s %s is not a constant", d.Kind, ev.defName(u.Def))
	}
	if d.Body == nil {
		return host.Value{}, evalErr(host.EvalNotConst, "%s has no body", ev.defName(u.Def))
	}

	params := ev.s.ParamEnv(u.Def).Params
	var args []host.GenericArg
	if len(params) > 0 {
		switch {
		case len(u.Args) > 0:
			resolved, err := ev.resolveArgs(env, u.Args)
			if err != nil {
				return host.Value{}, err
			}
			args = resolved
		case env.Instantiated() && len(env.Args) == len(params):
			args = env.Args
		default:
			return host.Value{}, evalErr(host.EvalTooGeneric, "%s is generic and not instantiated here", ev.defName(u.Def))
		}
	} else if v, ok := ev.memo[u.Def]; ok {
		return v, nil
	}

	if ev.state[u.Def] == visiting {
		return host.Value{}, evalErr(host.EvalCycle, "cycle detected when evaluating %s", ev.defName(u.Def))
	}
	ev.state[u.Def] = visiting
	f := &frame{
		env:    host.ParamEnv{Owner: u.Def, Params: params, Args: args},
		locals: make(map[host.LocalID]host.Value),
	}
	v, err := ev.expr(f, d.Body)
	ev.state[u.Def] = done
	if err != nil {
		return host.Value{}, err
	}
	if len(params) == 0 {
		ev.memo[u.Def] = v
	}
	return v, nil
}

// resolveArgs evaluates const arguments so the callee sees concrete values.
func (ev *evaluator) resolveArgs(env host.ParamEnv, in []host.GenericArg) ([]host.GenericArg, error) {
	out := make([]host.GenericArg, len(in))
	for i, a := range in {
		if a.Kind != host.ArgConst {
			out[i] = a
			continue
		}
		v, err := ev.constant(env, a.Const)
		if err != nil {
			return nil, err
		}
		out[i] = host.ConstArg(Value(a.Const.Ty, v))
	}
	return out, nil
}

// expr evaluates e and attaches e's span to errors that have none yet.
func (ev *evaluator) expr(f *frame, e *host.Expr) (host.Value, error) {
	if e == nil {
		return host.TupleValue(), nil
	}
	v, err := ev.exprData(f, e)
	if err != nil {
		var ee *host.EvalError
		if errors.As(err, &ee) && ee.Span == (host.Span{}) {
			ee.Span = e.Span
		}
		return host.Value{}, err
	}
	return v, nil
}

func (ev *evaluator) exprData(f *frame, e *host.Expr) (host.Value, error) {
	switch d := e.Data.(type) {
	case *host.LitExpr:
		return litValue(d.Lit), nil

	case *host.LocalRef:
		if v, ok := f.locals[d.Local]; ok {
			return v, nil
		}
		name, _ := ev.s.SymbolName(d.Name)
		return host.Value{}, evalErr(host.EvalNotConst, "local %s is not available in a constant context", name)

	case *host.DefRef:
		kind, _ := ev.s.DefKind(d.Def)
		switch kind {
		case host.DefConst, host.DefAnonConst:
			return ev.item(f.env, &host.UnevaluatedConst{Def: d.Def, Args: d.Args})
		case host.DefStatic:
			return host.Value{}, evalErr(host.EvalNotConst, "constants cannot refer to static %s", ev.defName(d.Def))
		case host.DefTraitMethod:
			return host.Value{}, evalErr(host.EvalUnresolvedTrait, "%s is a trait item; no impl is selected here", ev.defName(d.Def))
		case host.DefStruct:
			return host.Value{Kind: host.ValAdt, Def: d.Def}, nil
		}
		return host.Value{}, evalErr(host.EvalNotConst, "%s is not a constant", ev.defName(d.Def))

	case *host.ConstRef:
		return ev.constant(f.env, d.Const)

	case *host.ParamConstRef:
		return ev.constant(f.env, host.MakeConst(e.Ty, &host.ParamConst{Index: d.Index, Name: d.Name}))

	case *host.UnaryExpr:
		v, err := ev.expr(f, d.Arg)
		if err != nil {
			return host.Value{}, err
		}
		return ev.unary(d.Op, v, e.Ty)

	case *host.BinaryExpr:
		return ev.binaryExpr(f, d, e.Ty)

	case *host.CallExpr:
		if callee, ok := d.Callee.Data.(*host.DefRef); ok {
			if kind, _ := ev.s.DefKind(callee.Def); kind == host.DefTraitMethod {
				return host.Value{}, evalErr(host.EvalUnresolvedTrait, "call to trait method %s cannot be resolved in a constant", ev.defName(callee.Def))
			}
			return host.Value{}, evalErr(host.EvalNotConst, "call to %s is not evaluated in a constant", ev.defName(callee.Def))
		}
		return host.Value{}, evalErr(host.EvalNotConst, "indirect calls are not evaluated in a constant")

	case *host.FieldExpr:
		base, err := ev.expr(f, d.Base)
		if err != nil {
			return host.Value{}, err
		}
		if (base.Kind != host.ValTuple && base.Kind != host.ValAdt) || int(d.Index) >= len(base.Fields) {
			return host.Value{}, evalErr(host.EvalMismatch, "%s value has no field #%d", base.Kind, d.Index)
		}
		return base.Fields[d.Index], nil

	case *host.IndexExpr:
		return ev.index(f, d)

	case *host.TupleExpr:
		fields, err := ev.exprs(f, d.Elems)
		if err != nil {
			return host.Value{}, err
		}
		return host.TupleValue(fields...), nil

	case *host.ArrayExpr:
		fields, err := ev.exprs(f, d.Elems)
		if err != nil {
			return host.Value{}, err
		}
		return host.ArrayValue(fields...), nil

	case *host.RepeatExpr:
		return ev.repeat(f, d)

	case *host.AdtExpr:
		return ev.adt(f, d)

	case *host.BorrowExpr:
		v, err := ev.expr(f, d.Arg)
		if err != nil {
			return host.Value{}, err
		}
		return host.Value{Kind: host.ValRef, Fields: []host.Value{v}}, nil

	case *host.DerefExpr:
		v, err := ev.expr(f, d.Arg)
		if err != nil {
			return host.Value{}, err
		}
		if v.Kind != host.ValRef || len(v.Fields) != 1 {
			return host.Value{}, evalErr(host.EvalMismatch, "cannot dereference a %s value", v.Kind)
		}
		return v.Fields[0], nil

	case *host.CastExpr:
		v, err := ev.expr(f, d.Arg)
		if err != nil {
			return host.Value{}, err
		}
		return ev.cast(v, d.Target)

	case *host.IfExpr:
		cond, err := ev.expr(f, d.Cond)
		if err != nil {
			return host.Value{}, err
		}
		if cond.Kind != host.ValBool {
			return host.Value{}, evalErr(host.EvalMismatch, "if condition is %s, not bool", cond.Kind)
		}
		if cond.Bool {
			return ev.expr(f, d.Then)
		}
		return ev.expr(f, d.Else)

	case *host.MatchExpr:
		return ev.match(f, d)

	case *host.BlockExpr:
		return ev.block(f, d)

	case *host.LoopExpr:
		return host.Value{}, evalErr(host.EvalNotConst, "loops are not evaluated in a constant")
	case *host.BreakExpr, *host.ReturnExpr:
		return host.Value{}, evalErr(host.EvalNotConst, "control flow is not evaluated in a constant")
	case *host.AssignExpr:
		return host.Value{}, evalErr(host.EvalNotConst, "assignment is not evaluated in a constant")
	}
	return host.Value{}, evalErr(host.EvalErrored, "expression of kind %d cannot be evaluated", e.Kind)
}

func (ev *evaluator) exprs(f *frame, in []*host.Expr) ([]host.Value, error) {
	out := make([]host.Value, len(in))
	for i, e := range in {
		v, err := ev.expr(f, e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func litValue(l host.Lit) host.Value {
	switch l.Kind {
	case host.LitBool:
		return host.BoolValue(l.Bool)
	case host.LitInt:
		return host.IntValue(l.Int)
	case host.LitUint:
		return host.UintValue(l.Uint)
	case host.LitFloat:
		return host.Value{Kind: host.ValFloat, Float: l.Float}
	case host.LitChar:
		return host.Value{Kind: host.ValChar, Uint: l.Uint}
	case host.LitStr:
		return host.StrValue(l.Str)
	}
	return host.Value{}
}

func (ev *evaluator) index(f *frame, d *host.IndexExpr) (host.Value, error) {
	base, err := ev.expr(f, d.Base)
	if err != nil {
		return host.Value{}, err
	}
	idx, err := ev.expr(f, d.Index)
	if err != nil {
		return host.Value{}, err
	}
	if base.Kind == host.ValRef && len(base.Fields) == 1 {
		base = base.Fields[0]
	}
	if base.Kind != host.ValArray {
		return host.Value{}, evalErr(host.EvalMismatch, "cannot index a %s value", base.Kind)
	}
	n, ok := toIndex(idx)
	if !ok || n >= len(base.Fields) {
		return host.Value{}, evalErr(host.EvalOverflow, "index %s out of bounds for length %d", idx, len(base.Fields))
	}
	return base.Fields[n], nil
}

func toIndex(v host.Value) (int, bool) {
	switch v.Kind {
	case host.ValUint:
		if v.Uint > math.MaxInt32 {
			return 0, false
		}
		return int(v.Uint), true
	case host.ValInt:
		if v.Int < 0 || v.Int > math.MaxInt32 {
			return 0, false
		}
		return int(v.Int), true
	}
	return 0, false
}

func (ev *evaluator) repeat(f *frame, d *host.RepeatExpr) (host.Value, error) {
	elem, err := ev.expr(f, d.Elem)
	if err != nil {
		return host.Value{}, err
	}
	count, err := ev.constant(f.env, d.Count)
	if err != nil {
		return host.Value{}, err
	}
	n, ok := toIndex(count)
	if !ok || n > maxRepeat {
		return host.Value{}, evalErr(host.EvalOverflow, "repeat count %s is too large", count)
	}
	fields := make([]host.Value, n)
	for i := range fields {
		fields[i] = elem
	}
	return host.Value{Kind: host.ValArray, Fields: fields}, nil
}

func (ev *evaluator) adt(f *frame, d *host.AdtExpr) (host.Value, error) {
	def, ok := ev.s.Adt(d.Def)
	if !ok || int(d.Variant) >= len(def.Variants) {
		return host.Value{}, evalErr(host.EvalMismatch, "%s has no variant #%d", ev.defName(d.Def), d.Variant)
	}
	decl := def.Variants[d.Variant].Fields
	fields := make([]host.Value, len(decl))
	set := make([]bool, len(decl))
	for _, init := range d.Fields {
		i := fieldIndex(decl, init.Name)
		if i < 0 {
			name, _ := ev.s.SymbolName(init.Name)
			return host.Value{}, evalErr(host.EvalMismatch, "%s has no field %s", ev.defName(d.Def), name)
		}
		v, err := ev.expr(f, init.Value)
		if err != nil {
			return host.Value{}, err
		}
		fields[i], set[i] = v, true
	}
	for i, ok := range set {
		if !ok {
			name, _ := ev.s.SymbolName(decl[i].Name)
			return host.Value{}, evalErr(host.EvalMismatch, "field %s of %s is not initialised", name, ev.defName(d.Def))
		}
	}
	return host.Value{Kind: host.ValAdt, Def: d.Def, Variant: d.Variant, Fields: fields}, nil
}

func fieldIndex(decl []host.FieldDef, name host.Symbol) int {
	for i, f := range decl {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (ev *evaluator) block(f *frame, d *host.BlockExpr) (host.Value, error) {
	inner := f.child()
	for _, st := range d.Stmts {
		switch s := st.Data.(type) {
		case *host.LetStmt:
			if s.Init == nil {
				return host.Value{}, evalErr(host.EvalNotConst, "uninitialised let is not evaluated in a constant")
			}
			v, err := ev.expr(inner, s.Init)
			if err != nil {
				return host.Value{}, err
			}
			ok, err := ev.bind(inner, s.Pat, v, inner.locals)
			if err != nil {
				return host.Value{}, err
			}
			if !ok {
				if s.Else != nil {
					return ev.expr(inner, s.Else)
				}
				return host.Value{}, evalErr(host.EvalErrored, "refutable pattern in let did not match")
			}
		case *host.ExprStmt:
			if _, err := ev.expr(inner, s.Expr); err != nil {
				return host.Value{}, err
			}
		}
	}
	return ev.expr(inner, d.Tail)
}

func (ev *evaluator) match(f *frame, d *host.MatchExpr) (host.Value, error) {
	v, err := ev.expr(f, d.Scrutinee)
	if err != nil {
		return host.Value{}, err
	}
	for _, arm := range d.Arms {
		inner := f.child()
		ok, err := ev.bind(inner, arm.Pat, v, inner.locals)
		if err != nil {
			return host.Value{}, err
		}
		if !ok {
			continue
		}
		if arm.Guard != nil {
			g, err := ev.expr(inner, arm.Guard)
			if err != nil {
				return host.Value{}, err
			}
			if g.Kind != host.ValBool || !g.Bool {
				continue
			}
		}
		return ev.expr(inner, arm.Body)
	}
	return host.Value{}, evalErr(host.EvalErrored, "no match arm accepts %s", v)
}

// bind matches v against p, recording bindings in locals.
func (ev *evaluator) bind(f *frame, p *host.Pat, v host.Value, locals map[host.LocalID]host.Value) (bool, error) {
	if p == nil {
		return true, nil
	}
	switch d := p.Data.(type) {
	case *host.WildPat:
		return true, nil
	case *host.BindingPat:
		if d.Sub != nil {
			if ok, err := ev.bind(f, d.Sub, v, locals); !ok || err != nil {
				return ok, err
			}
		}
		if d.ByRef {
			v = host.Value{Kind: host.ValRef, Fields: []host.Value{v}}
		}
		locals[d.Local] = v
		return true, nil
	case *host.TuplePat:
		if v.Kind != host.ValTuple || len(v.Fields) != len(d.Elems) {
			return false, nil
		}
		for i, sub := range d.Elems {
			if ok, err := ev.bind(f, sub, v.Fields[i], locals); !ok || err != nil {
				return ok, err
			}
		}
		return true, nil
	case *host.ConstPat:
		c, err := ev.constant(f.env, d.Value)
		if err != nil {
			return false, err
		}
		return valueEqual(c, v), nil
	case *host.RangePat:
		lo, err := ev.constant(f.env, d.Lo)
		if err != nil {
			return false, err
		}
		hi, err := ev.constant(f.env, d.Hi)
		if err != nil {
			return false, err
		}
		a, b := compare(lo, v), compare(v, hi)
		return a <= 0 && (b < 0 || d.Inclusive && b == 0), nil
	case *host.VariantPat:
		if v.Kind != host.ValAdt || v.Def != d.Def || v.Variant != d.Variant {
			return false, nil
		}
		def, ok := ev.s.Adt(d.Def)
		if !ok || int(d.Variant) >= len(def.Variants) {
			return false, evalErr(host.EvalMismatch, "%s has no variant #%d", ev.defName(d.Def), d.Variant)
		}
		for _, fp := range d.Fields {
			i := fieldIndex(def.Variants[d.Variant].Fields, fp.Name)
			if i < 0 || i >= len(v.Fields) {
				return false, evalErr(host.EvalMismatch, "pattern names a field %s does not have", ev.defName(d.Def))
			}
			if ok, err := ev.bind(f, fp.Pat, v.Fields[i], locals); !ok || err != nil {
				return ok, err
			}
		}
		return true, nil
	case *host.OrPat:
		for _, alt := range d.Alts {
			ok, err := ev.bind(f, alt, v, locals)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	case *host.RefPat:
		if v.Kind != host.ValRef || len(v.Fields) != 1 {
			return false, nil
		}
		return ev.bind(f, d.Inner, v.Fields[0], locals)
	}
	return false, evalErr(host.EvalErrored, "pattern of kind %d cannot be matched", p.Kind)
}

func valueEqual(a, b host.Value) bool {
	if a.Kind != b.Kind || len(a.Fields) != len(b.Fields) {
		return false
	}
	switch a.Kind {
	case host.ValBool:
		return a.Bool == b.Bool
	case host.ValInt:
		return a.Int == b.Int
	case host.ValUint, host.ValChar:
		return a.Uint == b.Uint
	case host.ValFloat:
		return a.Float == b.Float
	case host.ValStr:
		return a.Str == b.Str
	case host.ValAdt:
		if a.Def != b.Def || a.Variant != b.Variant {
			return false
		}
	}
	for i := range a.Fields {
		if !valueEqual(a.Fields[i], b.Fields[i]) {
			return false
		}
	}
	return true
}

// compare orders scalar values; values of different shapes compare by kind.
func compare(a, b host.Value) int {
	if a.Kind == host.ValFloat || b.Kind == host.ValFloat {
		switch {
		case a.Float < b.Float:
			return -1
		case a.Float > b.Float:
			return 1
		}
		return 0
	}
	if a.Kind == host.ValStr && b.Kind == host.ValStr {
		switch {
		case a.Str < b.Str:
			return -1
		case a.Str > b.Str:
			return 1
		}
		return 0
	}
	return toBig(a).Cmp(toBig(b))
}

func toBig(v host.Value) *big.Int {
	switch v.Kind {
	case host.ValInt:
		return big.NewInt(v.Int)
	case host.ValUint, host.ValChar:
		return new(big.Int).SetUint64(v.Uint)
	case host.ValBool:
		if v.Bool {
			return big.NewInt(1)
		}
	}
	return new(big.Int)
}
