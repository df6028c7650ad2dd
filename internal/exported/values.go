package exported

// Path is a fully qualified definition path, outermost segment first.
type Path = []string

// Symbol is an identifier in canonical (NFC) form.
type Symbol = string

// Mutability is true only for mutable places and borrows.
type Mutability = bool

// Const is a fully evaluated constant, expressed as an expression tree.
// A nil Const means evaluation failed and a diagnostic was recorded.
type Const = *Expr

// Loc is a 1-based line and column.
type Loc struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// Span is a source range in code the user wrote. FromMacro names the
// outermost macro whose invocation the range was attributed to.
type Span struct {
	File      string `json:"file"`
	Lo        Loc    `json:"lo"`
	Hi        Loc    `json:"hi"`
	FromMacro string `json:"from_macro,omitempty"`
}

// MacroInvocation stands for a macro call that was not expanded.
type MacroInvocation struct {
	Macro    Path   `json:"macro"`
	Argument string `json:"argument"`
	Span     Span   `json:"span"`
}
