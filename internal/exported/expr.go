package exported

// Expr is a typed expression.
type Expr struct {
	_        struct{}     `drop:"Kind"`
	Ty       Ty           `json:"ty"`
	Span     Span         `json:"span"`
	Contents ExprContents `json:"contents" from:"Data"`
}

type ExprContents struct {
	_               struct{}         `export:"oneof"`
	Lit             *LitExpr         `json:"lit,omitempty" from:"LitExpr"`
	Local           *LocalRef        `json:"local,omitempty" from:"LocalRef"`
	Def             *DefRef          `json:"def,omitempty" from:"DefRef"`
	Const           *ConstRef        `json:"const,omitempty" from:"ConstRef"`
	ParamConst      *ParamConstRef   `json:"param_const,omitempty" from:"ParamConstRef"`
	Unary           *UnaryExpr       `json:"unary,omitempty" from:"UnaryExpr"`
	Binary          *BinaryExpr      `json:"binary,omitempty" from:"BinaryExpr"`
	Call            *CallExpr        `json:"call,omitempty" from:"CallExpr"`
	Field           *FieldExpr       `json:"field,omitempty" from:"FieldExpr"`
	Index           *IndexExpr       `json:"index,omitempty" from:"IndexExpr"`
	Tuple           *TupleExpr       `json:"tuple,omitempty" from:"TupleExpr"`
	Array           *ArrayExpr       `json:"array,omitempty" from:"ArrayExpr"`
	Repeat          *RepeatExpr      `json:"repeat,omitempty" from:"RepeatExpr"`
	Adt             *AdtExpr         `json:"adt,omitempty" from:"AdtExpr"`
	Borrow          *BorrowExpr      `json:"borrow,omitempty" from:"BorrowExpr"`
	Deref           *DerefExpr       `json:"deref,omitempty" from:"DerefExpr"`
	Cast            *CastExpr        `json:"cast,omitempty" from:"CastExpr"`
	If              *IfExpr          `json:"if,omitempty" from:"IfExpr"`
	Match           *MatchExpr       `json:"match,omitempty" from:"MatchExpr"`
	Block           *BlockExpr       `json:"block,omitempty" from:"BlockExpr"`
	Loop            *LoopExpr        `json:"loop,omitempty" from:"LoopExpr"`
	Break           *BreakExpr       `json:"break,omitempty" from:"BreakExpr"`
	Return          *ReturnExpr      `json:"return,omitempty" from:"ReturnExpr"`
	Assign          *AssignExpr      `json:"assign,omitempty" from:"AssignExpr"`
	MacroInvocation *MacroInvocation `json:"macro_invocation,omitempty" from:"-"`
}

// Lit is a literal; Kind selects the meaningful field. Chars are in Uint.
type Lit struct {
	Kind  string  `json:"kind"`
	Bool  bool    `json:"bool,omitempty"`
	Int   int64   `json:"int,omitempty"`
	Uint  uint64  `json:"uint,omitempty"`
	Float float64 `json:"float,omitempty"`
	Str   string  `json:"str,omitempty"`
}

type LitExpr struct {
	Lit Lit `json:"lit"`
}

type LocalRef struct {
	Local uint32 `json:"local"`
	Name  Symbol `json:"name"`
}

type DefRef struct {
	Def  Path         `json:"def"`
	Args []GenericArg `json:"args,omitempty"`
}

// ConstRef is a use of a named constant, already evaluated.
type ConstRef struct {
	Value Const `json:"value" from:"Const"`
}

// ParamConstRef is a const generic parameter at its definition site.
type ParamConstRef struct {
	Index uint32 `json:"index"`
	Name  Symbol `json:"name"`
}

type UnaryExpr struct {
	Op  string `json:"op"`
	Arg *Expr  `json:"arg"`
}

type BinaryExpr struct {
	Op  string `json:"op"`
	Lhs *Expr  `json:"lhs"`
	Rhs *Expr  `json:"rhs"`
}

type CallExpr struct {
	Callee *Expr   `json:"callee"`
	Args   []*Expr `json:"args"`
}

type FieldExpr struct {
	Base  *Expr  `json:"base"`
	Name  Symbol `json:"name"`
	Index uint32 `json:"index"`
}

type IndexExpr struct {
	Base  *Expr `json:"base"`
	Index *Expr `json:"index"`
}

type TupleExpr struct {
	Elems []*Expr `json:"elems"`
}

type ArrayExpr struct {
	Elems []*Expr `json:"elems"`
}

type RepeatExpr struct {
	Elem  *Expr `json:"elem"`
	Count Const `json:"count"`
}

type FieldInit struct {
	Name  Symbol `json:"name"`
	Value *Expr  `json:"value"`
}

type AdtExpr struct {
	Def     Path        `json:"def"`
	Variant uint32      `json:"variant"`
	Fields  []FieldInit `json:"fields"`
}

type BorrowExpr struct {
	Mut Mutability `json:"mut"`
	Arg *Expr      `json:"arg"`
}

type DerefExpr struct {
	Arg *Expr `json:"arg"`
}

type CastExpr struct {
	Arg    *Expr `json:"arg"`
	Target Ty    `json:"target"`
}

type IfExpr struct {
	Cond *Expr `json:"cond"`
	Then *Expr `json:"then"`
	Else *Expr `json:"else,omitempty"`
}

type Arm struct {
	Pat   *Pat  `json:"pat"`
	Guard *Expr `json:"guard,omitempty"`
	Body  *Expr `json:"body"`
	Span  Span  `json:"span"`
}

type MatchExpr struct {
	Scrutinee *Expr `json:"scrutinee"`
	Arms      []Arm `json:"arms"`
}

type BlockExpr struct {
	Stmts []Stmt `json:"stmts"`
	Tail  *Expr  `json:"tail,omitempty"`
}

type LoopExpr struct {
	Body *Expr `json:"body"`
}

type BreakExpr struct {
	Value *Expr `json:"value,omitempty"`
}

type ReturnExpr struct {
	Value *Expr `json:"value,omitempty"`
}

type AssignExpr struct {
	Lhs *Expr `json:"lhs"`
	Rhs *Expr `json:"rhs"`
}

type Stmt struct {
	_        struct{}     `drop:"Kind"`
	Span     Span         `json:"span"`
	Contents StmtContents `json:"contents" from:"Data"`
}

type StmtContents struct {
	_    struct{}  `export:"oneof"`
	Let  *LetStmt  `json:"let,omitempty" from:"LetStmt"`
	Expr *ExprStmt `json:"expr,omitempty" from:"ExprStmt"`
}

type LetStmt struct {
	Pat  *Pat  `json:"pat"`
	Init *Expr `json:"init,omitempty"`
	Else *Expr `json:"else,omitempty"`
}

type ExprStmt struct {
	Expr *Expr `json:"expr"`
	Semi bool  `json:"semi"`
}
