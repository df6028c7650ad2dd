package memhost

import (
	"context"
	"fmt"

	"irx/internal/diag"
	"irx/internal/host"
	"irx/internal/source"
)

const maxHostDiagnostics = 1000

// Definition is everything the session knows about one definition.
// Parent links nested definitions; their generic parameters are inherited.
type Definition struct {
	Kind     host.DefKind           `msgpack:"kind"`
	Path     []host.Symbol          `msgpack:"path"`
	Parent   host.DefID             `msgpack:"parent"`
	Generics []host.GenericParamDef `msgpack:"generics"`
	Body     *host.Expr             `msgpack:"body"`
	Adt      *host.AdtDef           `msgpack:"adt"`
}

// Session is an in-memory compilation session.
type Session struct {
	name    string
	files   *source.FileSet
	syms    *source.Interner
	types   []host.Ty // types[0] is the NoTyID slot
	tyIndex map[string]host.TyID
	defs    []Definition // defs[0] is the NoDefID slot
	expns   []host.ExpnData
	units   []*host.Unit
	sink    *diag.Bag
}

func newSession(name string) *Session {
	return &Session{
		name:    name,
		files:   source.NewFileSet(),
		syms:    source.NewInterner(),
		types:   make([]host.Ty, 1),
		tyIndex: make(map[string]host.TyID),
		defs:    make([]Definition, 1),
		expns:   make([]host.ExpnData, 1),
		sink:    diag.NewBag(maxHostDiagnostics),
	}
}

// Name returns the session (crate) name.
func (s *Session) Name() string { return s.name }

// Units lists the compilation units in driver order.
func (s *Session) Units() []*host.Unit { return s.units }

// Diagnostics is the host's diagnostic sink.
func (s *Session) Diagnostics() *diag.Bag { return s.sink }

// Symbols exposes the interner, so callers can intern names for lookups.
func (s *Session) Symbols() *source.Interner { return s.syms }

// Run invokes cb once per unit, in order, until the callbacks ask to stop or
// ctx is cancelled.
func (s *Session) Run(ctx context.Context, cb host.Callbacks) error {
	reporter := diag.BagReporter{Bag: s.sink}
	for _, unit := range s.units {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cb.AfterAnalysis(ctx, unit, s, reporter) == host.Stop {
			break
		}
	}
	return nil
}

func (s *Session) def(id host.DefID) (*Definition, bool) {
	if !id.IsValid() || int(id) >= len(s.defs) {
		return nil, false
	}
	return &s.defs[id], true
}

func (s *Session) SymbolName(sym host.Symbol) (string, bool) {
	return s.syms.Lookup(source.StringID(sym))
}

func (s *Session) DefPath(def host.DefID) ([]host.Symbol, bool) {
	d, ok := s.def(def)
	if !ok {
		return nil, false
	}
	return d.Path, true
}

func (s *Session) DefKind(def host.DefID) (host.DefKind, bool) {
	d, ok := s.def(def)
	if !ok {
		return 0, false
	}
	return d.Kind, true
}

func (s *Session) Ty(id host.TyID) (host.Ty, bool) {
	if !id.IsValid() || int(id) >= len(s.types) {
		return host.Ty{}, false
	}
	return s.types[id], true
}

func (s *Session) Adt(def host.DefID) (*host.AdtDef, bool) {
	d, ok := s.def(def)
	if !ok || d.Adt == nil {
		return nil, false
	}
	return d.Adt, true
}

// ParamEnv collects the generic parameters of def and of its parents,
// outermost first. The environment is polymorphic.
func (s *Session) ParamEnv(owner host.DefID) host.ParamEnv {
	env := host.ParamEnv{Owner: owner}
	var chain []*Definition
	for id := owner; id.IsValid(); {
		d, ok := s.def(id)
		if !ok {
			break
		}
		chain = append(chain, d)
		id = d.Parent
	}
	for i := len(chain) - 1; i >= 0; i-- {
		env.Params = append(env.Params, chain[i].Generics...)
	}
	return env
}

func (s *Session) ExpnData(id host.ExpnID) (host.ExpnData, bool) {
	if id == host.RootExpn || int(id) >= len(s.expns) {
		return host.ExpnData{}, false
	}
	return s.expns[id], true
}

func (s *Session) Files() *source.FileSet { return s.files }

// Subst replaces type and const parameters of ty with args, interning the
// resulting types.
func (s *Session) Subst(ty host.TyID, args []host.GenericArg) (host.TyID, bool) {
	t, ok := s.Ty(ty)
	if !ok {
		return host.NoTyID, false
	}
	var data host.TyData
	switch d := t.Data.(type) {
	case *host.ParamTy:
		if int(d.Index) < len(args) && args[d.Index].Kind == host.ArgType {
			return args[d.Index].Ty, true
		}
		return ty, true
	case *host.TupleTy:
		elems, ok := s.substAll(d.Elems, args)
		if !ok {
			return host.NoTyID, false
		}
		data = &host.TupleTy{Elems: elems}
	case *host.ArrayTy:
		elem, ok := s.Subst(d.Elem, args)
		if !ok {
			return host.NoTyID, false
		}
		data = &host.ArrayTy{Elem: elem, Len: substConst(d.Len, args)}
	case *host.SliceTy:
		elem, ok := s.Subst(d.Elem, args)
		if !ok {
			return host.NoTyID, false
		}
		data = &host.SliceTy{Elem: elem}
	case *host.RefTy:
		elem, ok := s.Subst(d.Elem, args)
		if !ok {
			return host.NoTyID, false
		}
		data = &host.RefTy{Mut: d.Mut, Elem: elem}
	case *host.PtrTy:
		elem, ok := s.Subst(d.Elem, args)
		if !ok {
			return host.NoTyID, false
		}
		data = &host.PtrTy{Mut: d.Mut, Elem: elem}
	case *host.AdtTy:
		inner, ok := s.substArgs(d.Args, args)
		if !ok {
			return host.NoTyID, false
		}
		data = &host.AdtTy{Def: d.Def, Args: inner}
	case *host.FnDefTy:
		inner, ok := s.substArgs(d.Args, args)
		if !ok {
			return host.NoTyID, false
		}
		data = &host.FnDefTy{Def: d.Def, Args: inner}
	case *host.FnPtrTy:
		inputs, ok := s.substAll(d.Inputs, args)
		if !ok {
			return host.NoTyID, false
		}
		output, ok := s.Subst(d.Output, args)
		if !ok {
			return host.NoTyID, false
		}
		data = &host.FnPtrTy{Inputs: inputs, Output: output}
	default:
		return ty, true
	}
	id, err := s.intern(data)
	if err != nil {
		return host.NoTyID, false
	}
	return id, true
}

func (s *Session) substAll(ids []host.TyID, args []host.GenericArg) ([]host.TyID, bool) {
	out := make([]host.TyID, len(ids))
	for i, id := range ids {
		sub, ok := s.Subst(id, args)
		if !ok {
			return nil, false
		}
		out[i] = sub
	}
	return out, true
}

func (s *Session) substArgs(in, args []host.GenericArg) ([]host.GenericArg, bool) {
	if in == nil {
		return nil, true
	}
	out := make([]host.GenericArg, len(in))
	for i, a := range in {
		switch a.Kind {
		case host.ArgType:
			ty, ok := s.Subst(a.Ty, args)
			if !ok {
				return nil, false
			}
			out[i] = host.TypeArg(ty)
		default:
			out[i] = host.ConstArg(substConst(a.Const, args))
		}
	}
	return out, true
}

func substConst(c host.Const, args []host.GenericArg) host.Const {
	p, ok := c.Data.(*host.ParamConst)
	if !ok || int(p.Index) >= len(args) || args[p.Index].Kind != host.ArgConst {
		return c
	}
	return args[p.Index].Const
}

func (s *Session) String() string {
	return fmt.Sprintf("session %s (%d units, %d defs, %d types)", s.name, len(s.units), len(s.defs)-1, len(s.types)-1)
}
