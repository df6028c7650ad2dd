package memhost

import (
	"math"
	"math/big"
	"strconv"

	"fortio.org/safecast"

	"irx/internal/host"
)

// intInfo returns the width and signedness of an integer type. Types that
// are not integers (parameters, mostly) are treated as 64-bit, with
// signedness taken from the value.
func (ev *evaluator) intInfo(ty host.TyID, v host.Value) (bits uint, signed bool) {
	if t, ok := ev.s.Ty(ty); ok {
		if it, ok := t.Data.(*host.IntTy); ok {
			return uint(it.IntBits()), it.Signed // #nosec G115 -- widths are at most 128
		}
	}
	return 64, v.Kind == host.ValInt
}

func bounds(bits uint, signed bool) (lo, hi *big.Int) {
	if signed {
		hi = new(big.Int).Lsh(big.NewInt(1), bits-1)
		lo = new(big.Int).Neg(hi)
		hi.Sub(hi, big.NewInt(1))
		return lo, hi
	}
	hi = new(big.Int).Lsh(big.NewInt(1), bits)
	hi.Sub(hi, big.NewInt(1))
	return new(big.Int), hi
}

// fromBig converts n back into a value of the given integer type, failing on overflow.
func fromBig(n *big.Int, bits uint, signed bool) (host.Value, error) {
	lo, hi := bounds(bits, signed)
	if n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
		return host.Value{}, evalErr(host.EvalOverflow, "attempt to compute %s, which overflows %s", n, intName(bits, signed))
	}
	if signed {
		return host.IntValue(n.Int64()), nil
	}
	return host.UintValue(n.Uint64()), nil
}

// wrap reduces n modulo 2^bits into the range of the integer type.
func wrap(n *big.Int, bits uint, signed bool) host.Value {
	mod := new(big.Int).Lsh(big.NewInt(1), bits)
	r := new(big.Int).Mod(n, mod)
	if signed {
		half := new(big.Int).Rsh(mod, 1)
		if r.Cmp(half) >= 0 {
			r.Sub(r, mod)
		}
		return host.IntValue(r.Int64())
	}
	return host.UintValue(r.Uint64())
}

func intName(bits uint, signed bool) string {
	prefix := "u"
	if signed {
		prefix = "i"
	}
	return prefix + strconv.FormatUint(uint64(bits), 10)
}

func isInt(v host.Value) bool {
	return v.Kind == host.ValInt || v.Kind == host.ValUint
}

func (ev *evaluator) unary(op host.UnOp, v host.Value, ty host.TyID) (host.Value, error) {
	switch {
	case op == host.UnNot && v.Kind == host.ValBool:
		return host.BoolValue(!v.Bool), nil
	case op == host.UnNot && isInt(v):
		bits, signed := ev.intInfo(ty, v)
		return wrap(new(big.Int).Not(toBig(v)), bits, signed), nil
	case op == host.UnNeg && v.Kind == host.ValFloat:
		return host.Value{Kind: host.ValFloat, Float: -v.Float}, nil
	case op == host.UnNeg && isInt(v):
		bits, signed := ev.intInfo(ty, v)
		if !signed {
			return host.Value{}, evalErr(host.EvalMismatch, "cannot negate an unsigned integer")
		}
		return fromBig(new(big.Int).Neg(toBig(v)), bits, signed)
	}
	return host.Value{}, evalErr(host.EvalMismatch, "cannot apply %s to a %s value", op, v.Kind)
}

func (ev *evaluator) binaryExpr(f *frame, d *host.BinaryExpr, ty host.TyID) (host.Value, error) {
	lhs, err := ev.expr(f, d.Lhs)
	if err != nil {
		return host.Value{}, err
	}
	if d.Op == host.BinAnd || d.Op == host.BinOr {
		if lhs.Kind != host.ValBool {
			return host.Value{}, evalErr(host.EvalMismatch, "%s needs bool operands", d.Op)
		}
		if lhs.Bool == (d.Op == host.BinOr) {
			return lhs, nil
		}
		rhs, err := ev.expr(f, d.Rhs)
		if err != nil {
			return host.Value{}, err
		}
		if rhs.Kind != host.ValBool {
			return host.Value{}, evalErr(host.EvalMismatch, "%s needs bool operands", d.Op)
		}
		return rhs, nil
	}
	rhs, err := ev.expr(f, d.Rhs)
	if err != nil {
		return host.Value{}, err
	}
	// тип операнда, а не результата: для сравнений результат bool
	operandTy := ty
	if d.Op.IsComparison() && d.Lhs != nil {
		operandTy = d.Lhs.Ty
	}
	return ev.binary(d.Op, lhs, rhs, operandTy)
}

func (ev *evaluator) binary(op host.BinOp, lhs, rhs host.Value, ty host.TyID) (host.Value, error) {
	if op.IsComparison() {
		if op != host.BinEq && op != host.BinNe && !ordered(lhs) {
			return host.Value{}, evalErr(host.EvalMismatch, "%s values cannot be ordered", lhs.Kind)
		}
		var c int
		switch op {
		case host.BinEq, host.BinNe:
			eq := valueEqualLoose(lhs, rhs)
			return host.BoolValue(eq == (op == host.BinEq)), nil
		default:
			c = compare(lhs, rhs)
		}
		switch op {
		case host.BinLt:
			return host.BoolValue(c < 0), nil
		case host.BinLe:
			return host.BoolValue(c <= 0), nil
		case host.BinGt:
			return host.BoolValue(c > 0), nil
		}
		return host.BoolValue(c >= 0), nil
	}

	switch {
	case lhs.Kind == host.ValBool && rhs.Kind == host.ValBool:
		switch op {
		case host.BinBitAnd:
			return host.BoolValue(lhs.Bool && rhs.Bool), nil
		case host.BinBitOr:
			return host.BoolValue(lhs.Bool || rhs.Bool), nil
		case host.BinBitXor:
			return host.BoolValue(lhs.Bool != rhs.Bool), nil
		}
	case lhs.Kind == host.ValFloat && rhs.Kind == host.ValFloat:
		return floatOp(op, lhs.Float, rhs.Float)
	case isInt(lhs) && isInt(rhs):
		return ev.intOp(op, lhs, rhs, ty)
	}
	return host.Value{}, evalErr(host.EvalMismatch, "cannot apply %s to %s and %s", op, lhs.Kind, rhs.Kind)
}

func ordered(v host.Value) bool {
	switch v.Kind {
	case host.ValInt, host.ValUint, host.ValChar, host.ValFloat, host.ValBool, host.ValStr:
		return true
	}
	return false
}

// valueEqualLoose compares integers by value regardless of how literals
// recorded their signedness.
func valueEqualLoose(a, b host.Value) bool {
	if isInt(a) && isInt(b) {
		return toBig(a).Cmp(toBig(b)) == 0
	}
	return valueEqual(a, b)
}

func floatOp(op host.BinOp, a, b float64) (host.Value, error) {
	var r float64
	switch op {
	case host.BinAdd:
		r = a + b
	case host.BinSub:
		r = a - b
	case host.BinMul:
		r = a * b
	case host.BinDiv:
		r = a / b
	case host.BinRem:
		r = math.Mod(a, b)
	default:
		return host.Value{}, evalErr(host.EvalMismatch, "cannot apply %s to floats", op)
	}
	return host.Value{Kind: host.ValFloat, Float: r}, nil
}

func (ev *evaluator) intOp(op host.BinOp, lhs, rhs host.Value, ty host.TyID) (host.Value, error) {
	bits, signed := ev.intInfo(ty, lhs)
	a, b := toBig(lhs), toBig(rhs)
	r := new(big.Int)
	switch op {
	case host.BinAdd:
		r.Add(a, b)
	case host.BinSub:
		r.Sub(a, b)
	case host.BinMul:
		r.Mul(a, b)
	case host.BinDiv, host.BinRem:
		if b.Sign() == 0 {
			if op == host.BinDiv {
				return host.Value{}, evalErr(host.EvalDivByZero, "attempt to divide %s by zero", a)
			}
			return host.Value{}, evalErr(host.EvalDivByZero, "attempt to calculate the remainder of %s with a divisor of zero", a)
		}
		if op == host.BinDiv {
			r.Quo(a, b)
		} else {
			r.Rem(a, b)
		}
	case host.BinBitAnd:
		r.And(a, b)
	case host.BinBitOr:
		r.Or(a, b)
	case host.BinBitXor:
		r.Xor(a, b)
	case host.BinShl, host.BinShr:
		n, err := safecast.Conv[uint](b.Int64())
		if err != nil || !b.IsInt64() || n >= bits {
			return host.Value{}, evalErr(host.EvalOverflow, "attempt to shift by %s, which overflows %s", b, intName(bits, signed))
		}
		if op == host.BinShl {
			return wrap(r.Lsh(a, n), bits, signed), nil
		}
		r.Rsh(a, n)
	default:
		return host.Value{}, evalErr(host.EvalMismatch, "cannot apply %s to integers", op)
	}
	return fromBig(r, bits, signed)
}

func (ev *evaluator) cast(v host.Value, target host.TyID) (host.Value, error) {
	t, ok := ev.s.Ty(target)
	if !ok {
		return host.Value{}, evalErr(host.EvalErrored, "cast to unknown type #%d", target)
	}
	switch d := t.Data.(type) {
	case *host.IntTy:
		bits := uint(d.IntBits()) // #nosec G115 -- widths are small
		switch v.Kind {
		case host.ValInt, host.ValUint, host.ValBool, host.ValChar:
			return wrap(toBig(v), bits, d.Signed), nil
		case host.ValFloat:
			return saturate(v.Float, bits, d.Signed), nil
		}
	case *host.FloatTy:
		switch v.Kind {
		case host.ValFloat:
			if d.Width == 32 {
				return host.Value{Kind: host.ValFloat, Float: float64(float32(v.Float))}, nil
			}
			return v, nil
		case host.ValInt, host.ValUint:
			f, _ := new(big.Float).SetInt(toBig(v)).Float64()
			return host.Value{Kind: host.ValFloat, Float: f}, nil
		}
	case *host.CharTy:
		if v.Kind == host.ValChar {
			return v, nil
		}
		if v.Kind == host.ValUint && v.Uint <= math.MaxUint8 {
			return host.Value{Kind: host.ValChar, Uint: v.Uint}, nil
		}
	case *host.BoolTy:
		if v.Kind == host.ValBool {
			return v, nil
		}
	}
	return host.Value{}, evalErr(host.EvalMismatch, "cannot cast a %s value to %s", v.Kind, kindOf(t))
}

// saturate converts a float to an integer type the way `as` does: truncation
// toward zero, clamped to the type's range, NaN to zero.
func saturate(f float64, bits uint, signed bool) host.Value {
	lo, hi := bounds(bits, signed)
	var n *big.Int
	switch {
	case math.IsNaN(f):
		n = new(big.Int)
	case math.IsInf(f, 1):
		n = hi
	case math.IsInf(f, -1):
		n = lo
	default:
		n, _ = big.NewFloat(math.Trunc(f)).Int(nil)
		if n.Cmp(lo) < 0 {
			n = lo
		} else if n.Cmp(hi) > 0 {
			n = hi
		}
	}
	if signed {
		return host.IntValue(n.Int64())
	}
	return host.UintValue(n.Uint64())
}

func kindOf(t host.Ty) string {
	switch t.Data.(type) {
	case *host.IntTy:
		return "an integer"
	case *host.FloatTy:
		return "a float"
	case *host.CharTy:
		return "char"
	case *host.BoolTy:
		return "bool"
	}
	return "a non-primitive type"
}
