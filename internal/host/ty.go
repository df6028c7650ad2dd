package host

// TyKind enumerates interned type shapes.
type TyKind uint8

const (
	TyBool TyKind = iota + 1
	TyChar
	TyInt
	TyFloat
	TyStr
	TyNever
	TyTuple
	TyArray
	TySlice
	TyRef
	TyPtr
	TyAdt
	TyParam
	TyFnPtr
	TyFnDef
	TyInfer
	TyError
	tyKindEnd
)

// Ty is an interned type. Data is a pointer to the variant struct.
type Ty struct {
	Kind TyKind
	Data TyData
}

// TyData is implemented by every type variant.
type TyData interface {
	tyKind() TyKind
}

type BoolTy struct{}
type CharTy struct{}

// IntTy is a fixed-width integer; Width 0 is the pointer-sized integer.
type IntTy struct {
	Width  uint8
	Signed bool
}

type FloatTy struct {
	Width uint8
}

type StrTy struct{}
type NeverTy struct{}

type TupleTy struct {
	Elems []TyID
}

type ArrayTy struct {
	Elem TyID
	Len  Const
}

type SliceTy struct {
	Elem TyID
}

type RefTy struct {
	Mut  Mutability
	Elem TyID
}

type PtrTy struct {
	Mut  Mutability
	Elem TyID
}

type AdtTy struct {
	Def  DefID
	Args []GenericArg
}

type ParamTy struct {
	Index uint32
	Name  Symbol
}

type FnPtrTy struct {
	Inputs []TyID
	Output TyID
}

type FnDefTy struct {
	Def  DefID
	Args []GenericArg
}

// InferTy is an inference variable; it must not survive type checking.
type InferTy struct {
	Var uint32
}

// ErrorTy stands in for a type the host already reported an error about.
type ErrorTy struct{}

func (*BoolTy) tyKind() TyKind  { return TyBool }
func (*CharTy) tyKind() TyKind  { return TyChar }
func (*IntTy) tyKind() TyKind   { return TyInt }
func (*FloatTy) tyKind() TyKind { return TyFloat }
func (*StrTy) tyKind() TyKind   { return TyStr }
func (*NeverTy) tyKind() TyKind { return TyNever }
func (*TupleTy) tyKind() TyKind { return TyTuple }
func (*ArrayTy) tyKind() TyKind { return TyArray }
func (*SliceTy) tyKind() TyKind { return TySlice }
func (*RefTy) tyKind() TyKind   { return TyRef }
func (*PtrTy) tyKind() TyKind   { return TyPtr }
func (*AdtTy) tyKind() TyKind   { return TyAdt }
func (*ParamTy) tyKind() TyKind { return TyParam }
func (*FnPtrTy) tyKind() TyKind { return TyFnPtr }
func (*FnDefTy) tyKind() TyKind { return TyFnDef }
func (*InferTy) tyKind() TyKind { return TyInfer }
func (*ErrorTy) tyKind() TyKind { return TyError }

// MakeTy wraps a payload, filling in the kind.
func MakeTy(data TyData) Ty {
	return Ty{Kind: data.tyKind(), Data: data}
}

// NewTyData allocates an empty payload for kind, or nil for an unknown kind.
func NewTyData(kind TyKind) TyData {
	switch kind {
	case TyBool:
		return &BoolTy{}
	case TyChar:
		return &CharTy{}
	case TyInt:
		return &IntTy{}
	case TyFloat:
		return &FloatTy{}
	case TyStr:
		return &StrTy{}
	case TyNever:
		return &NeverTy{}
	case TyTuple:
		return &TupleTy{}
	case TyArray:
		return &ArrayTy{}
	case TySlice:
		return &SliceTy{}
	case TyRef:
		return &RefTy{}
	case TyPtr:
		return &PtrTy{}
	case TyAdt:
		return &AdtTy{}
	case TyParam:
		return &ParamTy{}
	case TyFnPtr:
		return &FnPtrTy{}
	case TyFnDef:
		return &FnDefTy{}
	case TyInfer:
		return &InferTy{}
	case TyError:
		return &ErrorTy{}
	}
	return nil
}

// TyVariants returns one empty payload per type kind.
func TyVariants() []TyData {
	out := make([]TyData, 0, int(tyKindEnd)-1)
	for k := TyBool; k < tyKindEnd; k++ {
		out = append(out, NewTyData(k))
	}
	return out
}

// IntBits returns the bit width of an integer type, treating Width 0 as 64.
func (t *IntTy) IntBits() int {
	if t.Width == 0 {
		return 64
	}
	return int(t.Width)
}
