package consteval

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"irx/internal/diag"
	"irx/internal/host"
)

// ToExpr rebuilds an expression of type ty from res. Every node of the
// result carries span. The error, if any, is a *Failure.
func ToExpr(q host.QueryEngine, res Result, ty host.TyID, span host.Span) (*host.Expr, error) {
	b := builder{q: q, span: span}
	if res.Param != nil {
		return host.NewExpr(ty, span, &host.ParamConstRef{Index: res.Param.Index, Name: res.Param.Name}), nil
	}
	e, err := b.value(res.Value, ty)
	if err != nil {
		return nil, err
	}
	return e, nil
}

type builder struct {
	q    host.QueryEngine
	span host.Span
}

func (b builder) fail(code diag.Code, format string, args ...any) *Failure {
	return &Failure{Code: code, Msg: fmt.Sprintf(format, args...), Span: b.span}
}

func (b builder) lit(ty host.TyID, l host.Lit) *host.Expr {
	return host.NewExpr(ty, b.span, &host.LitExpr{Lit: l})
}

func (b builder) value(v host.Value, ty host.TyID) (*host.Expr, *Failure) {
	t, ok := b.q.Ty(ty)
	if !ok {
		return nil, b.fail(diag.CtxUnknownType, "unknown type #%d", ty)
	}
	mismatch := func() (*host.Expr, *Failure) {
		return nil, b.fail(diag.EvalTypeMismatch, "%s value %s does not fit a %s type", v.Kind, v, kindName(t))
	}

	switch v.Kind {
	case host.ValBool:
		if _, ok := t.Data.(*host.BoolTy); !ok {
			return mismatch()
		}
		return b.lit(ty, host.Lit{Kind: host.LitBool, Bool: v.Bool}), nil

	case host.ValInt, host.ValUint:
		it, ok := t.Data.(*host.IntTy)
		if !ok {
			return mismatch()
		}
		return b.integer(v, it, ty)

	case host.ValFloat:
		if _, ok := t.Data.(*host.FloatTy); !ok {
			return mismatch()
		}
		return b.lit(ty, host.Lit{Kind: host.LitFloat, Float: v.Float}), nil

	case host.ValChar:
		if _, ok := t.Data.(*host.CharTy); !ok {
			return mismatch()
		}
		if v.Uint > 0x10FFFF {
			return nil, b.fail(diag.EvalOverflow, "char value %#x is not a scalar value", v.Uint)
		}
		return b.lit(ty, host.Lit{Kind: host.LitChar, Uint: v.Uint}), nil

	case host.ValStr:
		switch d := t.Data.(type) {
		case *host.StrTy:
		case *host.RefTy:
			// &str: литерал уже ссылка, но только на str
			if et, ok := b.q.Ty(d.Elem); !ok {
				return nil, b.fail(diag.CtxUnknownType, "unknown type #%d", d.Elem)
			} else if _, ok := et.Data.(*host.StrTy); !ok {
				return nil, b.fail(diag.EvalTypeMismatch, "str value does not fit a reference to %s", kindName(et))
			}
		default:
			return mismatch()
		}
		return b.lit(ty, host.Lit{Kind: host.LitStr, Str: v.Str}), nil

	case host.ValTuple:
		tt, ok := t.Data.(*host.TupleTy)
		if !ok || len(tt.Elems) != len(v.Fields) {
			return mismatch()
		}
		elems := make([]*host.Expr, len(v.Fields))
		for i, f := range v.Fields {
			e, err := b.value(f, tt.Elems[i])
			if err != nil {
				return nil, err
			}
			elems[i] = e
		}
		return host.NewExpr(ty, b.span, &host.TupleExpr{Elems: elems}), nil

	case host.ValArray:
		at, ok := t.Data.(*host.ArrayTy)
		if !ok {
			return mismatch()
		}
		n, known, ferr := b.arrayLen(at.Len)
		if ferr != nil {
			return nil, ferr
		}
		if known && n != uint64(len(v.Fields)) {
			return nil, b.fail(diag.EvalTypeMismatch, "array of length %d got %d elements", n, len(v.Fields))
		}
		elems := make([]*host.Expr, len(v.Fields))
		for i, f := range v.Fields {
			e, err := b.value(f, at.Elem)
			if err != nil {
				return nil, err
			}
			elems[i] = e
		}
		return host.NewExpr(ty, b.span, &host.ArrayExpr{Elems: elems}), nil

	case host.ValAdt:
		return b.adt(v, t, ty)

	case host.ValRef:
		rt, ok := t.Data.(*host.RefTy)
		if !ok || len(v.Fields) != 1 {
			return mismatch()
		}
		inner, err := b.value(v.Fields[0], rt.Elem)
		if err != nil {
			return nil, err
		}
		return host.NewExpr(ty, b.span, &host.BorrowExpr{Mut: rt.Mut, Arg: inner}), nil
	}
	return nil, b.fail(diag.EvalTypeMismatch, "value of kind %d cannot be exported", v.Kind)
}

// arrayLen resolves the length of an array type. known is false when the
// length depends on a generic parameter.
func (b builder) arrayLen(c host.Const) (n uint64, known bool, f *Failure) {
	var v host.Value
	switch d := c.Data.(type) {
	case *host.ValueConst:
		v = d.Value
	case *host.UnevaluatedConst:
		var err error
		if v, err = b.q.EvalConst(host.ParamEnv{}, c); err != nil {
			var ee *host.EvalError
			if errors.As(err, &ee) && ee.Kind == host.EvalTooGeneric {
				return 0, false, nil
			}
			return 0, false, New(host.ParamEnv{}, c, b.span).classify(err)
		}
	default:
		return 0, false, nil
	}
	switch v.Kind {
	case host.ValUint:
		return v.Uint, true, nil
	case host.ValInt:
		if u, err := safecast.Conv[uint64](v.Int); err == nil {
			return u, true, nil
		}
	}
	return 0, false, b.fail(diag.EvalTypeMismatch, "array length %s is not a usize", v)
}

func (b builder) integer(v host.Value, it *host.IntTy, ty host.TyID) (*host.Expr, *Failure) {
	bits := it.IntBits()
	if it.Signed {
		n := v.Int
		if v.Kind == host.ValUint {
			var err error
			if n, err = safecast.Conv[int64](v.Uint); err != nil {
				return nil, b.fail(diag.EvalOverflow, "%d does not fit i%d", v.Uint, bits)
			}
		}
		if err := fitsSigned(n, bits); err != nil {
			return nil, b.fail(diag.EvalOverflow, "%d does not fit i%d: %v", n, bits, err)
		}
		return b.lit(ty, host.Lit{Kind: host.LitInt, Int: n}), nil
	}
	n := v.Uint
	if v.Kind == host.ValInt {
		var err error
		if n, err = safecast.Conv[uint64](v.Int); err != nil {
			return nil, b.fail(diag.EvalOverflow, "%d does not fit u%d", v.Int, bits)
		}
	}
	if err := fitsUnsigned(n, bits); err != nil {
		return nil, b.fail(diag.EvalOverflow, "%d does not fit u%d: %v", n, bits, err)
	}
	return b.lit(ty, host.Lit{Kind: host.LitUint, Uint: n}), nil
}

func fitsSigned(n int64, bits int) error {
	var err error
	switch bits {
	case 8:
		_, err = safecast.Conv[int8](n)
	case 16:
		_, err = safecast.Conv[int16](n)
	case 32:
		_, err = safecast.Conv[int32](n)
	}
	return err
}

func fitsUnsigned(n uint64, bits int) error {
	var err error
	switch bits {
	case 8:
		_, err = safecast.Conv[uint8](n)
	case 16:
		_, err = safecast.Conv[uint16](n)
	case 32:
		_, err = safecast.Conv[uint32](n)
	}
	return err
}

func (b builder) adt(v host.Value, t host.Ty, ty host.TyID) (*host.Expr, *Failure) {
	at, ok := t.Data.(*host.AdtTy)
	if !ok {
		return nil, b.fail(diag.EvalTypeMismatch, "adt value does not fit a %s type", kindName(t))
	}
	if at.Def != v.Def {
		return nil, b.fail(diag.EvalTypeMismatch, "value of adt #%d does not fit adt #%d", v.Def, at.Def)
	}
	def, ok := b.q.Adt(at.Def)
	if !ok {
		return nil, b.fail(diag.CtxUnknownDef, "unknown adt #%d", at.Def)
	}
	if int(v.Variant) >= len(def.Variants) {
		return nil, b.fail(diag.EvalTypeMismatch, "adt #%d has no variant %d", at.Def, v.Variant)
	}
	variant := def.Variants[v.Variant]
	if len(variant.Fields) != len(v.Fields) {
		return nil, b.fail(diag.EvalTypeMismatch, "variant has %d fields, value has %d", len(variant.Fields), len(v.Fields))
	}
	fields := make([]host.FieldInit, len(v.Fields))
	for i, fv := range v.Fields {
		fd := variant.Fields[i]
		fty := fd.Ty
		if len(at.Args) > 0 {
			if fty, ok = b.q.Subst(fd.Ty, at.Args); !ok {
				return nil, b.fail(diag.CtxUnknownType, "cannot instantiate field type #%d", fd.Ty)
			}
		}
		e, err := b.value(fv, fty)
		if err != nil {
			return nil, err
		}
		fields[i] = host.FieldInit{Name: fd.Name, Value: e}
	}
	return host.NewExpr(ty, b.span, &host.AdtExpr{Def: at.Def, Variant: v.Variant, Fields: fields}), nil
}

func kindName(t host.Ty) string {
	switch t.Data.(type) {
	case *host.BoolTy:
		return "bool"
	case *host.CharTy:
		return "char"
	case *host.IntTy:
		return "integer"
	case *host.FloatTy:
		return "float"
	case *host.StrTy:
		return "str"
	case *host.TupleTy:
		return "tuple"
	case *host.ArrayTy:
		return "array"
	case *host.RefTy:
		return "reference"
	case *host.AdtTy:
		return "adt"
	case *host.ParamTy:
		return "parameter"
	}
	return "non-constant"
}
