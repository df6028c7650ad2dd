package host

// ExprKind enumerates typed expression forms.
type ExprKind uint8

const (
	ExprLit ExprKind = iota + 1
	ExprLocal
	ExprDef
	ExprConst
	ExprParamConst
	ExprUnary
	ExprBinary
	ExprCall
	ExprField
	ExprIndex
	ExprTuple
	ExprArray
	ExprRepeat
	ExprAdt
	ExprBorrow
	ExprDeref
	ExprCast
	ExprIf
	ExprMatch
	ExprBlock
	ExprLoop
	ExprBreak
	ExprReturn
	ExprAssign
	exprKindEnd
)

// Expr is a typed expression.
type Expr struct {
	Kind ExprKind
	Ty   TyID
	Span Span
	Data ExprData
}

type ExprData interface {
	exprKind() ExprKind
}

// LitKind enumerates literal forms.
type LitKind uint8

const (
	LitBool LitKind = iota + 1
	LitInt
	LitUint
	LitFloat
	LitChar
	LitStr
)

func (k LitKind) String() string {
	switch k {
	case LitBool:
		return "bool"
	case LitInt:
		return "int"
	case LitUint:
		return "uint"
	case LitFloat:
		return "float"
	case LitChar:
		return "char"
	case LitStr:
		return "str"
	}
	return "unknown"
}

// Lit is a literal value; only the field matching Kind is meaningful.
// Chars are stored in Uint.
type Lit struct {
	Kind  LitKind
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	Str   string
}

type UnOp uint8

const (
	UnNeg UnOp = iota + 1
	UnNot
)

func (op UnOp) String() string {
	switch op {
	case UnNeg:
		return "-"
	case UnNot:
		return "!"
	}
	return "?"
}

type BinOp uint8

const (
	BinAdd BinOp = iota + 1
	BinSub
	BinMul
	BinDiv
	BinRem
	BinBitAnd
	BinBitOr
	BinBitXor
	BinShl
	BinShr
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
)

var binOpText = [...]string{
	BinAdd: "+", BinSub: "-", BinMul: "*", BinDiv: "/", BinRem: "%",
	BinBitAnd: "&", BinBitOr: "|", BinBitXor: "^", BinShl: "<<", BinShr: ">>",
	BinEq: "==", BinNe: "!=", BinLt: "<", BinLe: "<=", BinGt: ">", BinGe: ">=",
	BinAnd: "&&", BinOr: "||",
}

func (op BinOp) String() string {
	if int(op) < len(binOpText) && binOpText[op] != "" {
		return binOpText[op]
	}
	return "?"
}

// IsComparison reports whether op yields a bool from two operands of the same type.
func (op BinOp) IsComparison() bool {
	return op >= BinEq && op <= BinGe
}

type LitExpr struct {
	Lit Lit
}

type LocalRef struct {
	Local LocalID
	Name  Symbol
}

// DefRef refers to a function, static or unit variant by definition.
type DefRef struct {
	Def  DefID
	Args []GenericArg
}

// ConstRef is a use of a constant that may still need evaluation.
type ConstRef struct {
	Const Const
}

// ParamConstRef is a symbolic use of a const generic parameter.
type ParamConstRef struct {
	Index uint32
	Name  Symbol
}

type UnaryExpr struct {
	Op  UnOp
	Arg *Expr
}

type BinaryExpr struct {
	Op  BinOp
	Lhs *Expr
	Rhs *Expr
}

type CallExpr struct {
	Callee *Expr
	Args   []*Expr
}

type FieldExpr struct {
	Base  *Expr
	Name  Symbol
	Index uint32
}

type IndexExpr struct {
	Base  *Expr
	Index *Expr
}

type TupleExpr struct {
	Elems []*Expr
}

type ArrayExpr struct {
	Elems []*Expr
}

type RepeatExpr struct {
	Elem  *Expr
	Count Const
}

type FieldInit struct {
	Name  Symbol
	Value *Expr
}

// AdtExpr constructs a struct (Variant 0) or an enum variant.
type AdtExpr struct {
	Def     DefID
	Variant uint32
	Fields  []FieldInit
}

type BorrowExpr struct {
	Mut Mutability
	Arg *Expr
}

type DerefExpr struct {
	Arg *Expr
}

type CastExpr struct {
	Arg    *Expr
	Target TyID
}

type IfExpr struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

type Arm struct {
	Pat   *Pat
	Guard *Expr
	Body  *Expr
	Span  Span
}

type MatchExpr struct {
	Scrutinee *Expr
	Arms      []Arm
}

type BlockExpr struct {
	Stmts []Stmt
	Tail  *Expr
}

type LoopExpr struct {
	Body *Expr
}

type BreakExpr struct {
	Value *Expr
}

type ReturnExpr struct {
	Value *Expr
}

type AssignExpr struct {
	Lhs *Expr
	Rhs *Expr
}

func (*LitExpr) exprKind() ExprKind       { return ExprLit }
func (*LocalRef) exprKind() ExprKind      { return ExprLocal }
func (*DefRef) exprKind() ExprKind        { return ExprDef }
func (*ConstRef) exprKind() ExprKind      { return ExprConst }
func (*ParamConstRef) exprKind() ExprKind { return ExprParamConst }
func (*UnaryExpr) exprKind() ExprKind     { return ExprUnary }
func (*BinaryExpr) exprKind() ExprKind    { return ExprBinary }
func (*CallExpr) exprKind() ExprKind      { return ExprCall }
func (*FieldExpr) exprKind() ExprKind     { return ExprField }
func (*IndexExpr) exprKind() ExprKind     { return ExprIndex }
func (*TupleExpr) exprKind() ExprKind     { return ExprTuple }
func (*ArrayExpr) exprKind() ExprKind     { return ExprArray }
func (*RepeatExpr) exprKind() ExprKind    { return ExprRepeat }
func (*AdtExpr) exprKind() ExprKind       { return ExprAdt }
func (*BorrowExpr) exprKind() ExprKind    { return ExprBorrow }
func (*DerefExpr) exprKind() ExprKind     { return ExprDeref }
func (*CastExpr) exprKind() ExprKind      { return ExprCast }
func (*IfExpr) exprKind() ExprKind        { return ExprIf }
func (*MatchExpr) exprKind() ExprKind     { return ExprMatch }
func (*BlockExpr) exprKind() ExprKind     { return ExprBlock }
func (*LoopExpr) exprKind() ExprKind      { return ExprLoop }
func (*BreakExpr) exprKind() ExprKind     { return ExprBreak }
func (*ReturnExpr) exprKind() ExprKind    { return ExprReturn }
func (*AssignExpr) exprKind() ExprKind    { return ExprAssign }

// NewExpr builds an expression node, filling in the kind from data.
func NewExpr(ty TyID, span Span, data ExprData) *Expr {
	return &Expr{Kind: data.exprKind(), Ty: ty, Span: span, Data: data}
}

func NewExprData(kind ExprKind) ExprData {
	switch kind {
	case ExprLit:
		return &LitExpr{}
	case ExprLocal:
		return &LocalRef{}
	case ExprDef:
		return &DefRef{}
	case ExprConst:
		return &ConstRef{}
	case ExprParamConst:
		return &ParamConstRef{}
	case ExprUnary:
		return &UnaryExpr{}
	case ExprBinary:
		return &BinaryExpr{}
	case ExprCall:
		return &CallExpr{}
	case ExprField:
		return &FieldExpr{}
	case ExprIndex:
		return &IndexExpr{}
	case ExprTuple:
		return &TupleExpr{}
	case ExprArray:
		return &ArrayExpr{}
	case ExprRepeat:
		return &RepeatExpr{}
	case ExprAdt:
		return &AdtExpr{}
	case ExprBorrow:
		return &BorrowExpr{}
	case ExprDeref:
		return &DerefExpr{}
	case ExprCast:
		return &CastExpr{}
	case ExprIf:
		return &IfExpr{}
	case ExprMatch:
		return &MatchExpr{}
	case ExprBlock:
		return &BlockExpr{}
	case ExprLoop:
		return &LoopExpr{}
	case ExprBreak:
		return &BreakExpr{}
	case ExprReturn:
		return &ReturnExpr{}
	case ExprAssign:
		return &AssignExpr{}
	}
	return nil
}

func ExprVariants() []ExprData {
	out := make([]ExprData, 0, int(exprKindEnd)-1)
	for k := ExprLit; k < exprKindEnd; k++ {
		out = append(out, NewExprData(k))
	}
	return out
}
