package spans

import (
	"fmt"
	"strings"

	"irx/internal/exported"
	"irx/internal/host"
	"irx/internal/source"
)

// UnknownExpansionError reports a span tagged with an expansion the host does not know.
type UnknownExpansionError struct {
	ID host.ExpnID
}

func (e *UnknownExpansionError) Error() string {
	return fmt.Sprintf("unknown expansion #%d", e.ID)
}

// InvalidRangeError reports a span outside its file.
type InvalidRangeError struct {
	Range source.Span
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("span %s is outside its file", e.Range)
}

// HostAncestry reads expansion data from a host query engine.
type HostAncestry struct {
	Q host.QueryEngine
}

func (a HostAncestry) Expansion(s host.Span) (Frame[host.Span], bool, error) {
	if !s.FromExpansion() {
		return Frame[host.Span]{}, false, nil
	}
	data, ok := a.Q.ExpnData(s.Ctxt)
	if !ok {
		return Frame[host.Span]{}, false, &UnknownExpansionError{ID: s.Ctxt}
	}
	f := Frame[host.Span]{
		ID:       uint64(s.Ctxt),
		CallSite: data.CallSite,
		Args:     data.Args,
	}
	if data.Kind.IsMacro() {
		f.Kind = FrameMacro
		f.Macro = MacroName(a.Q, data.Macro)
		f.HasArgs = data.Kind == host.ExpnMacroBang && !data.Args.Range.Empty()
	} else {
		f.Kind = FrameDesugaring
		f.Macro = data.Desugaring
	}
	return f, true, nil
}

// MacroName renders a macro definition path as "a::b::m".
func MacroName(q host.QueryEngine, def host.DefID) string {
	path, ok := q.DefPath(def)
	if !ok {
		return fmt.Sprintf("<macro#%d>", def)
	}
	parts := make([]string, 0, len(path))
	for _, sym := range path {
		name, _ := q.SymbolName(sym)
		parts = append(parts, name)
	}
	return strings.Join(parts, "::")
}

// ArgumentSpan returns the argument region of a bang-macro call.
func ArgumentSpan(q host.QueryEngine, id host.ExpnID) (host.Span, bool) {
	data, ok := q.ExpnData(id)
	if !ok || data.Kind != host.ExpnMacroBang {
		return host.Span{}, false
	}
	return data.Args, true
}

// ArgumentText returns the source text of a bang-macro call's arguments.
func ArgumentText(q host.QueryEngine, id host.ExpnID) string {
	args, ok := ArgumentSpan(q, id)
	if !ok {
		return ""
	}
	return q.Files().Text(args.Range)
}

// Normalizer turns host spans into portable spans attributed to user code.
type Normalizer struct {
	Q     host.QueryEngine
	Limit int
}

// Resolve walks the ancestry of s.
func (n Normalizer) Resolve(s host.Span) (Resolution[host.Span], error) {
	return Walk[host.Span](HostAncestry{Q: n.Q}, s, n.Limit)
}

// Translate resolves s and renders the result. On error the span of the
// position reached so far is still returned.
func (n Normalizer) Translate(s host.Span) (exported.Span, Resolution[host.Span], error) {
	res, err := n.Resolve(s)
	out, perr := Portable(n.Q.Files(), res.Pos.Range, res.Macro)
	if err == nil {
		err = perr
	}
	return out, res, err
}

// Portable renders a user-written range. An invalid range yields a span with
// no file and an *InvalidRangeError.
func Portable(fs *source.FileSet, r source.Span, macro string) (exported.Span, error) {
	if fs == nil || !fs.Valid(r) {
		return exported.Span{FromMacro: macro}, &InvalidRangeError{Range: r}
	}
	lo, hi := fs.Resolve(r)
	return exported.Span{
		File:      fs.Get(r.File).Path,
		Lo:        exported.Loc{Line: lo.Line, Col: lo.Col},
		Hi:        exported.Loc{Line: hi.Line, Col: hi.Col},
		FromMacro: macro,
	}, nil
}
