package exporter

import (
	"errors"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"irx/internal/consteval"
	"irx/internal/convert"
	"irx/internal/diag"
	"irx/internal/exported"
	"irx/internal/host"
	"irx/internal/spans"
	"irx/internal/trace"
)

// CollapseMutability maps a host mutability state onto the exported boolean.
// Only MutMut is mutable. ok is false for a state missing from the table.
func CollapseMutability(m host.Mutability) (mut, ok bool) {
	switch m {
	case host.MutMut:
		return true, true
	case host.MutNot, host.MutInferred, host.MutUniqueImm:
		return false, true
	}
	return false, false
}

func mutability(cx *convert.Context, m host.Mutability) exported.Mutability {
	mut, ok := CollapseMutability(m)
	if !ok {
		cx.Errorf(diag.ConvUnknownMutability, "mutability state %d is not triaged", m)
	}
	return mut
}

func symbol(cx *convert.Context, sym host.Symbol) exported.Symbol {
	name, ok := cx.Query().SymbolName(sym)
	if !ok {
		cx.Errorf(diag.CtxUnknownSymbol, "unknown symbol #%d", sym)
		return ""
	}
	return norm.NFC.String(name)
}

// defPath renders a definition as its path. NoDefID is the absent path.
func defPath(cx *convert.Context, def host.DefID) exported.Path {
	if !def.IsValid() {
		return nil
	}
	syms, ok := cx.Query().DefPath(def)
	if !ok {
		cx.Errorf(diag.CtxUnknownDef, "unknown definition #%d", def)
		return nil
	}
	out := make(exported.Path, len(syms))
	for i, s := range syms {
		out[i] = symbol(cx, s)
	}
	return out
}

func tyTree(cx *convert.Context, id host.TyID) exported.Ty {
	t, ok := cx.Query().Ty(id)
	if !ok {
		cx.Errorf(diag.CtxUnknownType, "unknown type #%d", id)
		return exported.Ty{}
	}
	return convert.Into[exported.Ty](cx, t.Data)
}

func optTy(cx *convert.Context, id host.TyID) *exported.Ty {
	if !id.IsValid() {
		return nil
	}
	t := tyTree(cx, id)
	return &t
}

func genericArg(cx *convert.Context, a host.GenericArg) exported.GenericArg {
	switch a.Kind {
	case host.ArgType:
		return exported.GenericArg{Type: optTy(cx, a.Ty)}
	case host.ArgConst:
		return exported.GenericArg{Const: constant(cx, a.Const)}
	}
	cx.Errorf(diag.ConvUnsupportedNode, "generic argument kind %d has no counterpart", a.Kind)
	return exported.GenericArg{}
}

// constant evaluates c in the current parameter environment. The result is
// attributed to the enclosing node's span; a failure is reported there, with
// a note where the host says evaluation stopped, and yields nil.
func constant(cx *convert.Context, c host.Const) exported.Const {
	q, at := cx.Query(), cx.Span()
	res, err := consteval.New(cx.ParamEnv(), c, at).Force(q)
	if err == nil {
		var e *host.Expr
		if e, err = consteval.ToExpr(q, res, c.Ty, at); err == nil {
			return convert.Into[exported.Const](cx, e)
		}
	}
	var f *consteval.Failure
	if errors.As(err, &f) {
		b := diag.ReportError(cx.Reporter(), f.Code, cx.Locate(at), f.Msg)
		if f.Span != at {
			b.WithNote(cx.Locate(f.Span), "evaluation failed here")
		}
		b.Emit()
	} else {
		cx.ErrorAt(diag.EvalFailure, at, "%v", err)
	}
	return nil
}

func optConstant(cx *convert.Context, c *host.Const) exported.Const {
	if c == nil {
		return nil
	}
	return constant(cx, *c)
}

func span(cx *convert.Context, s host.Span) exported.Span {
	out, res, err := cx.Normalizer().Translate(s)
	cx.RecordExpansions(res.Frames)
	if err != nil {
		reportSpan(cx, res.Pos, err)
	}
	return out
}

func reportSpan(cx *convert.Context, at host.Span, err error) {
	var (
		overflow *spans.OverflowError
		unknown  *spans.UnknownExpansionError
	)
	switch {
	case errors.As(err, &overflow):
		cx.ErrorAt(diag.MacroAncestryOverflow, at, "%v", err)
	case errors.As(err, &unknown):
		cx.ErrorAt(diag.MacroUnknownExpansion, at, "%v", err)
	default:
		cx.ErrorAt(diag.ConvSchemaMismatch, at, "%v", err)
	}
}

// item converts it under its own parameter environment.
func item(cx *convert.Context, it *host.Item) exported.Item {
	if it == nil {
		cx.Errorf(diag.ConvMissingPayload, "item list holds a nil item")
		return exported.Item{}
	}
	o := cx.Options()
	sp := trace.Begin(o.Trace, trace.ScopeItem, "item", o.TraceParent)
	if it.Def.IsValid() {
		cx = cx.WithParamEnv(cx.Query().ParamEnv(it.Def))
	}
	out := convert.Into[exported.Item](cx, *it)
	sp.WithExtra("def", strconv.FormatUint(uint64(it.Def), 10)).
		WithExtra("name", out.Name).
		End("")
	return out
}

func expr(cx *convert.Context, e *host.Expr) *exported.Expr {
	if e == nil {
		return nil
	}
	if f, ok := opaqueFrame(cx, e.Span); ok {
		inv := invocation(cx, f)
		return &exported.Expr{
			Ty:       convert.Into[exported.Ty](cx, e.Ty),
			Span:     inv.Span,
			Contents: exported.ExprContents{MacroInvocation: inv},
		}
	}
	out := convert.Into[exported.Expr](cx, *e)
	return &out
}

// constItem adds the evaluated value of a constant item. A generic item
// has no single value and keeps Value nil.
func constItem(cx *convert.Context, ci *host.ConstItem) *exported.ConstItem {
	if ci == nil {
		return nil
	}
	out := convert.Into[exported.ConstItem](cx, *ci)
	if env := cx.ParamEnv(); len(env.Params) == 0 && env.Owner.IsValid() {
		out.Value = constant(cx, host.MakeConst(ci.Ty, &host.UnevaluatedConst{Def: env.Owner}))
	}
	return &out
}
