package host

type StmtKind uint8

const (
	StmtLet StmtKind = iota + 1
	StmtExpr
	stmtKindEnd
)

type Stmt struct {
	Kind StmtKind
	Span Span
	Data StmtData
}

type StmtData interface {
	stmtKind() StmtKind
}

// LetStmt binds Pat; Else is the diverging block of a let-else.
type LetStmt struct {
	Pat  *Pat
	Init *Expr
	Else *Expr
}

type ExprStmt struct {
	Expr *Expr
	Semi bool
}

func (*LetStmt) stmtKind() StmtKind  { return StmtLet }
func (*ExprStmt) stmtKind() StmtKind { return StmtExpr }

func NewStmt(span Span, data StmtData) Stmt {
	return Stmt{Kind: data.stmtKind(), Span: span, Data: data}
}

func NewStmtData(kind StmtKind) StmtData {
	switch kind {
	case StmtLet:
		return &LetStmt{}
	case StmtExpr:
		return &ExprStmt{}
	}
	return nil
}

func StmtVariants() []StmtData {
	return []StmtData{NewStmtData(StmtLet), NewStmtData(StmtExpr)}
}
