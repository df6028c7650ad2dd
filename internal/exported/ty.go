package exported

// Ty is a type tree.
type Ty struct {
	_      struct{} `export:"oneof"`
	Bool   *BoolTy  `json:"bool,omitempty" from:"BoolTy"`
	Char   *CharTy  `json:"char,omitempty" from:"CharTy"`
	Int    *IntTy   `json:"int,omitempty" from:"IntTy"`
	Float  *FloatTy `json:"float,omitempty" from:"FloatTy"`
	Str    *StrTy   `json:"str,omitempty" from:"StrTy"`
	Never  *NeverTy `json:"never,omitempty" from:"NeverTy"`
	Tuple  *TupleTy `json:"tuple,omitempty" from:"TupleTy"`
	Array  *ArrayTy `json:"array,omitempty" from:"ArrayTy"`
	Slice  *SliceTy `json:"slice,omitempty" from:"SliceTy"`
	Ref    *RefTy   `json:"ref,omitempty" from:"RefTy"`
	Ptr    *PtrTy   `json:"ptr,omitempty" from:"PtrTy"`
	Adt    *AdtTy   `json:"adt,omitempty" from:"AdtTy"`
	Param  *ParamTy `json:"param,omitempty" from:"ParamTy"`
	FnPtr  *FnPtrTy `json:"fn_ptr,omitempty" from:"FnPtrTy"`
	FnDef  *FnDefTy `json:"fn_def,omitempty" from:"FnDefTy"`
}

type BoolTy struct{}
type CharTy struct{}

// IntTy has Width 0 for the pointer-sized integer.
type IntTy struct {
	Width  uint8 `json:"width"`
	Signed bool  `json:"signed"`
}

type FloatTy struct {
	Width uint8 `json:"width"`
}

type StrTy struct{}
type NeverTy struct{}

type TupleTy struct {
	Elems []Ty `json:"elems"`
}

type ArrayTy struct {
	Elem Ty    `json:"elem"`
	Len  Const `json:"len"`
}

type SliceTy struct {
	Elem Ty `json:"elem"`
}

type RefTy struct {
	Mut  Mutability `json:"mut"`
	Elem Ty         `json:"elem"`
}

type PtrTy struct {
	Mut  Mutability `json:"mut"`
	Elem Ty         `json:"elem"`
}

type AdtTy struct {
	Def  Path         `json:"def"`
	Args []GenericArg `json:"args,omitempty"`
}

type ParamTy struct {
	Index uint32 `json:"index"`
	Name  Symbol `json:"name"`
}

type FnPtrTy struct {
	Inputs []Ty `json:"inputs"`
	Output Ty   `json:"output"`
}

type FnDefTy struct {
	Def  Path         `json:"def"`
	Args []GenericArg `json:"args,omitempty"`
}

// GenericArg is a type or const argument of an instantiation.
type GenericArg struct {
	_     struct{} `export:"oneof"`
	Type  *Ty      `json:"type,omitempty"`
	Const Const    `json:"const,omitempty"`
}

type GenericParam struct {
	Name    Symbol `json:"name"`
	Index   uint32 `json:"index"`
	Kind    string `json:"kind"`
	ConstTy *Ty    `json:"const_ty,omitempty"`
	Span    Span   `json:"span"`
}

type Generics struct {
	Params []GenericParam `json:"params,omitempty"`
}
