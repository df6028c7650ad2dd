package host

import (
	"context"

	"irx/internal/diag"
	"irx/internal/source"
)

// DefKind classifies a definition.
type DefKind uint8

const (
	DefFn DefKind = iota + 1
	DefConst
	DefAnonConst
	DefStatic
	DefStruct
	DefEnum
	DefTyAlias
	DefMod
	DefImpl
	DefTrait
	DefTraitMethod
	DefMacro
	DefUse
)

func (k DefKind) String() string {
	switch k {
	case DefFn:
		return "fn"
	case DefConst:
		return "const"
	case DefAnonConst:
		return "anon-const"
	case DefStatic:
		return "static"
	case DefStruct:
		return "struct"
	case DefEnum:
		return "enum"
	case DefTyAlias:
		return "type"
	case DefMod:
		return "mod"
	case DefImpl:
		return "impl"
	case DefTrait:
		return "trait"
	case DefTraitMethod:
		return "trait-method"
	case DefMacro:
		return "macro"
	case DefUse:
		return "use"
	}
	return "unknown"
}

// AdtDef lists the variants of a struct (exactly one variant) or enum.
type AdtDef struct {
	Def      DefID
	Variants []VariantDef
}

// QueryEngine is the host's read-only query interface. Implementations may
// cache internally; the exporter never caches their answers across units.
type QueryEngine interface {
	// SymbolName resolves an interned identifier.
	SymbolName(sym Symbol) (string, bool)
	// DefPath returns the fully qualified path of a definition.
	DefPath(def DefID) ([]Symbol, bool)
	DefKind(def DefID) (DefKind, bool)
	// Ty looks up an interned type.
	Ty(id TyID) (Ty, bool)
	// Subst instantiates the type parameters of ty with args.
	Subst(ty TyID, args []GenericArg) (TyID, bool)
	Adt(def DefID) (*AdtDef, bool)
	// ParamEnv returns the polymorphic environment of a definition,
	// parameters of enclosing definitions included.
	ParamEnv(owner DefID) ParamEnv
	// EvalConst evaluates c under env. Failures are *EvalError.
	EvalConst(env ParamEnv, c Const) (Value, error)
	// ExpnData describes a macro or desugaring expansion.
	ExpnData(id ExpnID) (ExpnData, bool)
	// Files resolves span ranges to files and positions.
	Files() *source.FileSet
}

// Compilation tells the host whether to keep going after a callback.
type Compilation uint8

const (
	Continue Compilation = iota
	Stop
)

// Callbacks is registered with a Driver. AfterAnalysis runs once per unit,
// after type checking, with the unit's item list, the query engine and the
// host's diagnostic sink.
type Callbacks interface {
	AfterAnalysis(ctx context.Context, unit *Unit, q QueryEngine, sink diag.Reporter) Compilation
}

// Driver runs a compilation and invokes the callbacks for each unit in turn.
type Driver interface {
	Name() string
	Run(ctx context.Context, cb Callbacks) error
}
