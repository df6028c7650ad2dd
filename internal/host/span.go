package host

import "irx/internal/source"

// Span is a byte range tagged with the expansion that produced it.
// Ctxt == RootExpn means the range was written by the user.
type Span struct {
	Range source.Span
	Ctxt  ExpnID
}

// FromExpansion reports whether the span was produced by a macro or desugaring.
func (s Span) FromExpansion() bool { return s.Ctxt != RootExpn }

// ExpnKind classifies an expansion.
type ExpnKind uint8

const (
	ExpnMacroBang   ExpnKind = iota + 1 // m!(…)
	ExpnMacroAttr                       // #[m]
	ExpnMacroDerive                     // #[derive(M)]
	ExpnDesugaring                      // compiler-generated (for loops, ?, async)
)

func (k ExpnKind) String() string {
	switch k {
	case ExpnMacroBang:
		return "macro-bang"
	case ExpnMacroAttr:
		return "macro-attr"
	case ExpnMacroDerive:
		return "macro-derive"
	case ExpnDesugaring:
		return "desugaring"
	}
	return "unknown"
}

// IsMacro reports whether the expansion was produced by a user-visible macro.
func (k ExpnKind) IsMacro() bool {
	return k == ExpnMacroBang || k == ExpnMacroAttr || k == ExpnMacroDerive
}

// ExpnData describes one expansion. The parent expansion is CallSite.Ctxt.
type ExpnData struct {
	Kind ExpnKind
	// Macro is the macro definition; NoDefID for desugarings.
	Macro DefID
	// Desugaring names the compiler construct for ExpnDesugaring.
	Desugaring string
	// CallSite is the span of the whole invocation, m!(…) included.
	CallSite Span
	// Args is the argument region between the delimiters of a bang macro.
	// It is empty for attribute and derive macros.
	Args Span
}
