package host

import "fmt"

// ConstKind enumerates the states a type-level or expression-level constant can be in.
type ConstKind uint8

const (
	ConstParam ConstKind = iota + 1
	ConstUnevaluated
	ConstValue
	ConstInfer
	ConstError
	constKindEnd
)

// Const is a possibly not yet evaluated constant of type Ty.
type Const struct {
	Ty   TyID
	Kind ConstKind
	Data ConstData
}

type ConstData interface {
	constKind() ConstKind
}

// ParamConst refers to the Index-th generic parameter of the enclosing environment.
type ParamConst struct {
	Index uint32
	Name  Symbol
}

// UnevaluatedConst names a constant item or anonymous constant together with
// the generic arguments it is used with.
type UnevaluatedConst struct {
	Def  DefID
	Args []GenericArg
}

type ValueConst struct {
	Value Value
}

type InferConst struct {
	Var uint32
}

type ErrorConst struct{}

func (*ParamConst) constKind() ConstKind       { return ConstParam }
func (*UnevaluatedConst) constKind() ConstKind { return ConstUnevaluated }
func (*ValueConst) constKind() ConstKind       { return ConstValue }
func (*InferConst) constKind() ConstKind       { return ConstInfer }
func (*ErrorConst) constKind() ConstKind       { return ConstError }

// MakeConst wraps a payload, filling in the kind.
func MakeConst(ty TyID, data ConstData) Const {
	return Const{Ty: ty, Kind: data.constKind(), Data: data}
}

func NewConstData(kind ConstKind) ConstData {
	switch kind {
	case ConstParam:
		return &ParamConst{}
	case ConstUnevaluated:
		return &UnevaluatedConst{}
	case ConstValue:
		return &ValueConst{}
	case ConstInfer:
		return &InferConst{}
	case ConstError:
		return &ErrorConst{}
	}
	return nil
}

func ConstVariants() []ConstData {
	out := make([]ConstData, 0, int(constKindEnd)-1)
	for k := ConstParam; k < constKindEnd; k++ {
		out = append(out, NewConstData(k))
	}
	return out
}

// ValueKind enumerates evaluated constant shapes.
type ValueKind uint8

const (
	ValBool ValueKind = iota + 1
	ValInt
	ValUint
	ValFloat
	ValChar
	ValStr
	ValTuple
	ValArray
	ValAdt
	ValRef
)

func (k ValueKind) String() string {
	switch k {
	case ValBool:
		return "bool"
	case ValInt:
		return "int"
	case ValUint:
		return "uint"
	case ValFloat:
		return "float"
	case ValChar:
		return "char"
	case ValStr:
		return "str"
	case ValTuple:
		return "tuple"
	case ValArray:
		return "array"
	case ValAdt:
		return "adt"
	case ValRef:
		return "ref"
	}
	return "unknown"
}

// Value is a fully evaluated constant as produced by the host evaluator.
// Only the fields relevant to Kind are set; chars are stored in Uint.
type Value struct {
	Kind    ValueKind
	Bool    bool
	Int     int64
	Uint    uint64
	Float   float64
	Str     string
	Fields  []Value
	Def     DefID  // ADT definition for ValAdt
	Variant uint32 // variant index for enums
}

func BoolValue(b bool) Value      { return Value{Kind: ValBool, Bool: b} }
func IntValue(v int64) Value      { return Value{Kind: ValInt, Int: v} }
func UintValue(v uint64) Value    { return Value{Kind: ValUint, Uint: v} }
func CharValue(r rune) Value      { return Value{Kind: ValChar, Uint: uint64(r)} } // #nosec G115 -- runes are non-negative
func StrValue(s string) Value     { return Value{Kind: ValStr, Str: s} }
func TupleValue(f ...Value) Value { return Value{Kind: ValTuple, Fields: f} }
func ArrayValue(f ...Value) Value { return Value{Kind: ValArray, Fields: f} }

func (v Value) String() string {
	switch v.Kind {
	case ValBool:
		return fmt.Sprint(v.Bool)
	case ValInt:
		return fmt.Sprint(v.Int)
	case ValUint:
		return fmt.Sprint(v.Uint)
	case ValFloat:
		return fmt.Sprint(v.Float)
	case ValChar:
		return fmt.Sprintf("%q", rune(v.Uint)) // #nosec G115 -- chars fit in rune
	case ValStr:
		return fmt.Sprintf("%q", v.Str)
	}
	return fmt.Sprintf("%s%v", v.Kind, v.Fields)
}

// GenericArgKind distinguishes type and const arguments. Lifetimes are erased.
type GenericArgKind uint8

const (
	ArgType GenericArgKind = iota + 1
	ArgConst
)

// GenericArg is one argument of a generic instantiation.
type GenericArg struct {
	Kind  GenericArgKind
	Ty    TyID
	Const Const
}

func TypeArg(ty TyID) GenericArg  { return GenericArg{Kind: ArgType, Ty: ty} }
func ConstArg(c Const) GenericArg { return GenericArg{Kind: ArgConst, Const: c} }

// GenericParamKind distinguishes type and const parameters.
type GenericParamKind uint8

const (
	ParamType GenericParamKind = iota + 1
	ParamConstKind
)

func (k GenericParamKind) String() string {
	switch k {
	case ParamType:
		return "type"
	case ParamConstKind:
		return "const"
	}
	return "unknown"
}

// GenericParamDef declares one generic parameter. ConstTy is set for const parameters.
type GenericParamDef struct {
	Name    Symbol
	Index   uint32
	Kind    GenericParamKind
	ConstTy TyID
	Span    Span
}

type Generics struct {
	Params []GenericParamDef
}

// ParamEnv is the generic environment a node is converted under.
// Args == nil means the environment is polymorphic: parameters are in scope
// but not instantiated. Otherwise Args[i] instantiates Params[i].
type ParamEnv struct {
	Owner  DefID
	Params []GenericParamDef
	Args   []GenericArg
}

// Instantiated reports whether every parameter has a concrete argument.
func (e ParamEnv) Instantiated() bool {
	return e.Args != nil
}

// Param returns the declaration of the parameter at index.
func (e ParamEnv) Param(index uint32) (GenericParamDef, bool) {
	for _, p := range e.Params {
		if p.Index == index {
			return p, true
		}
	}
	return GenericParamDef{}, false
}

// EvalErrorKind classifies why the host could not evaluate a constant.
type EvalErrorKind uint8

const (
	EvalTooGeneric EvalErrorKind = iota + 1
	EvalNotConst
	EvalUnresolvedTrait
	EvalOverflow
	EvalDivByZero
	EvalCycle
	EvalMismatch
	EvalErrored
)

// EvalError is returned by QueryEngine.EvalConst.
type EvalError struct {
	Kind EvalErrorKind
	Msg  string
	Span Span
}

func (e *EvalError) Error() string {
	return e.Msg
}
