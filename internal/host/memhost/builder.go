package memhost

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"irx/internal/host"
	"irx/internal/source"
)

// Builder assembles a Session. Builder methods panic on malformed input:
// they are meant for tests, samples and loaders that control their input.
type Builder struct {
	s *Session
}

func NewBuilder(name string) *Builder {
	return &Builder{s: newSession(name)}
}

// Session returns the session built so far. The builder stays usable.
func (b *Builder) Session() *Session { return b.s }

// File adds a virtual source file.
func (b *Builder) File(path, content string) source.FileID {
	return b.s.files.AddVirtual(path, []byte(content))
}

// Sym interns an identifier.
func (b *Builder) Sym(name string) host.Symbol {
	return host.Symbol(b.s.syms.Intern(name))
}

// Find returns the user-written span of the nth (0-based) occurrence of
// needle in file.
func (b *Builder) Find(file source.FileID, needle string, nth ...int) host.Span {
	content := string(b.s.files.Get(file).Content)
	skip := 0
	if len(nth) > 0 {
		skip = nth[0]
	}
	from := 0
	for {
		i := strings.Index(content[from:], needle)
		if i < 0 {
			panic(fmt.Sprintf("memhost: %q not found in %s", needle, b.s.files.Get(file).Path))
		}
		if skip == 0 {
			return b.At(file, from+i, from+i+len(needle))
		}
		skip--
		from += i + 1
	}
}

// At returns the user-written span [start, end) of file.
func (b *Builder) At(file source.FileID, start, end int) host.Span {
	lo, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(err)
	}
	hi, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(err)
	}
	return host.Span{Range: source.Span{File: file, Start: lo, End: hi}}
}

// In retags span as produced by expansion id.
func In(id host.ExpnID, span host.Span) host.Span {
	span.Ctxt = id
	return span
}

// Head returns the first n bytes of span.
func Head(span host.Span, n uint32) host.Span {
	span.Range.End = min(span.Range.Start+n, span.Range.End)
	return span
}

// Type interns a type. Structurally equal types share one TyID.
func (b *Builder) Type(data host.TyData) host.TyID {
	id, err := b.s.intern(data)
	if err != nil {
		panic(err)
	}
	return id
}

func (s *Session) intern(data host.TyData) (host.TyID, error) {
	t := host.MakeTy(data)
	key, err := msgpack.Marshal(t)
	if err != nil {
		return host.NoTyID, fmt.Errorf("intern type: %w", err)
	}
	if id, ok := s.tyIndex[string(key)]; ok {
		return id, nil
	}
	n, err := safecast.Conv[uint32](len(s.types))
	if err != nil {
		return host.NoTyID, err
	}
	id := host.TyID(n)
	s.types = append(s.types, t)
	s.tyIndex[string(key)] = id
	return id, nil
}

func (b *Builder) Bool() host.TyID { return b.Type(&host.BoolTy{}) }
func (b *Builder) Char() host.TyID { return b.Type(&host.CharTy{}) }
func (b *Builder) Str() host.TyID  { return b.Type(&host.StrTy{}) }

// Int interns an integer type; width 0 is the pointer-sized integer.
func (b *Builder) Int(width uint8, signed bool) host.TyID {
	return b.Type(&host.IntTy{Width: width, Signed: signed})
}

func (b *Builder) Tuple(elems ...host.TyID) host.TyID {
	return b.Type(&host.TupleTy{Elems: elems})
}

func (b *Builder) Ref(mut host.Mutability, elem host.TyID) host.TyID {
	return b.Type(&host.RefTy{Mut: mut, Elem: elem})
}

func (b *Builder) Array(elem host.TyID, n host.Const) host.TyID {
	return b.Type(&host.ArrayTy{Elem: elem, Len: n})
}

// Def declares a definition with a "::"-separated path.
func (b *Builder) Def(kind host.DefKind, path string) host.DefID {
	return b.def(kind, host.NoDefID, strings.Split(path, "::"))
}

// Child declares a definition nested in parent; it inherits parent's
// generic parameters.
func (b *Builder) Child(parent host.DefID, kind host.DefKind, name string) host.DefID {
	p, ok := b.s.def(parent)
	if !ok {
		panic(fmt.Sprintf("memhost: unknown parent def %d", parent))
	}
	names := make([]string, 0, len(p.Path)+1)
	for _, sym := range p.Path {
		names = append(names, b.s.syms.MustLookup(source.StringID(sym)))
	}
	return b.def(kind, parent, append(names, name))
}

func (b *Builder) def(kind host.DefKind, parent host.DefID, names []string) host.DefID {
	path := make([]host.Symbol, len(names))
	for i, n := range names {
		path[i] = b.Sym(n)
	}
	n, err := safecast.Conv[uint32](len(b.s.defs))
	if err != nil {
		panic(err)
	}
	b.s.defs = append(b.s.defs, Definition{Kind: kind, Path: path, Parent: parent})
	return host.DefID(n)
}

func (b *Builder) info(def host.DefID) *Definition {
	d, ok := b.s.def(def)
	if !ok {
		panic(fmt.Sprintf("memhost: unknown def %d", def))
	}
	return d
}

// TypeParam adds a type parameter to def and returns its declaration.
func (b *Builder) TypeParam(def host.DefID, name string, span host.Span) host.GenericParamDef {
	return b.param(def, host.GenericParamDef{Name: b.Sym(name), Kind: host.ParamType, Span: span})
}

// ConstParam adds a const parameter of type ty to def.
func (b *Builder) ConstParam(def host.DefID, name string, ty host.TyID, span host.Span) host.GenericParamDef {
	return b.param(def, host.GenericParamDef{Name: b.Sym(name), Kind: host.ParamConstKind, ConstTy: ty, Span: span})
}

func (b *Builder) param(def host.DefID, p host.GenericParamDef) host.GenericParamDef {
	idx, err := safecast.Conv[uint32](len(b.s.ParamEnv(def).Params))
	if err != nil {
		panic(err)
	}
	p.Index = idx
	d := b.info(def)
	d.Generics = append(d.Generics, p)
	return p
}

// Generics returns the parameters declared by def itself.
func (b *Builder) Generics(def host.DefID) host.Generics {
	return host.Generics{Params: b.info(def).Generics}
}

// Body sets the expression evaluated for a const, anon-const or const fn.
func (b *Builder) Body(def host.DefID, body *host.Expr) {
	b.info(def).Body = body
}

// Adt declares the variants of a struct or enum definition.
func (b *Builder) Adt(def host.DefID, variants ...host.VariantDef) {
	b.info(def).Adt = &host.AdtDef{Def: def, Variants: variants}
}

// Expansion registers expansion data and returns its id.
func (b *Builder) Expansion(data host.ExpnData) host.ExpnID {
	n, err := safecast.Conv[uint32](len(b.s.expns))
	if err != nil {
		panic(err)
	}
	b.s.expns = append(b.s.expns, data)
	return host.ExpnID(n)
}

// BangMacro registers a m!(...) expansion. call is the whole invocation,
// args the region between the delimiters.
func (b *Builder) BangMacro(macro host.DefID, call, args host.Span) host.ExpnID {
	return b.Expansion(host.ExpnData{Kind: host.ExpnMacroBang, Macro: macro, CallSite: call, Args: args})
}

// Unit appends a compilation unit.
func (b *Builder) Unit(name string, items ...*host.Item) *host.Unit {
	u := &host.Unit{Name: name, Items: items}
	b.s.units = append(b.s.units, u)
	return u
}

// Expression helpers.

func Lit(ty host.TyID, span host.Span, l host.Lit) *host.Expr {
	return host.NewExpr(ty, span, &host.LitExpr{Lit: l})
}

func IntLit(ty host.TyID, span host.Span, v int64) *host.Expr {
	return Lit(ty, span, host.Lit{Kind: host.LitInt, Int: v})
}

func UintLit(ty host.TyID, span host.Span, v uint64) *host.Expr {
	return Lit(ty, span, host.Lit{Kind: host.LitUint, Uint: v})
}

func BoolLit(ty host.TyID, span host.Span, v bool) *host.Expr {
	return Lit(ty, span, host.Lit{Kind: host.LitBool, Bool: v})
}

func Binary(ty host.TyID, span host.Span, op host.BinOp, lhs, rhs *host.Expr) *host.Expr {
	return host.NewExpr(ty, span, &host.BinaryExpr{Op: op, Lhs: lhs, Rhs: rhs})
}

// UseConst is a use of the constant item def.
func UseConst(ty host.TyID, span host.Span, def host.DefID, args ...host.GenericArg) *host.Expr {
	return host.NewExpr(ty, span, &host.ConstRef{Const: host.MakeConst(ty, &host.UnevaluatedConst{Def: def, Args: args})})
}

// Value wraps an evaluated value as a constant of type ty.
func Value(ty host.TyID, v host.Value) host.Const {
	return host.MakeConst(ty, &host.ValueConst{Value: v})
}
