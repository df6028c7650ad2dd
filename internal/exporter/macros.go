package exporter

import (
	"irx/internal/convert"
	"irx/internal/exported"
	"irx/internal/host"
	"irx/internal/spans"
)

// opaqueFrame finds the outermost expansion above s whose macro is kept
// opaque. Spans that cannot be resolved are left to the span override,
// which reports them.
func opaqueFrame(cx *convert.Context, s host.Span) (spans.Frame[host.Span], bool) {
	patterns := cx.Options().OpaqueMacros
	if len(patterns) == 0 || !s.FromExpansion() {
		return spans.Frame[host.Span]{}, false
	}
	res, err := cx.Normalizer().Resolve(s)
	if err != nil {
		return spans.Frame[host.Span]{}, false
	}
	return res.Outermost(func(f spans.Frame[host.Span]) bool {
		if f.Kind != spans.FrameMacro {
			return false
		}
		for _, p := range patterns {
			if spans.MatchMacro(p, f.Macro) {
				return true
			}
		}
		return false
	})
}

// invocation builds the leaf standing for the unexpanded call of f.
func invocation(cx *convert.Context, f spans.Frame[host.Span]) *exported.MacroInvocation {
	id := host.ExpnID(f.ID) // #nosec G115 -- frame IDs come from host.ExpnID
	cx.RecordExpansions([]spans.Frame[host.Span]{f})
	data, _ := cx.Query().ExpnData(id)
	return &exported.MacroInvocation{
		Macro:    convert.Into[exported.Path](cx, data.Macro),
		Argument: spans.ArgumentText(cx.Query(), id),
		Span:     convert.Into[exported.Span](cx, f.CallSite),
	}
}

// items converts an item list. Consecutive items produced by one opaque
// invocation collapse into a single MacroInvocation item.
func items(cx *convert.Context, list []*host.Item) []exported.Item {
	if list == nil {
		return nil
	}
	out := make([]exported.Item, 0, len(list))
	var (
		group   uint64
		inGroup bool
	)
	for _, it := range list {
		if it != nil {
			if f, ok := opaqueFrame(cx, it.Span); ok {
				if inGroup && f.ID == group {
					continue
				}
				group, inGroup = f.ID, true
				inv := invocation(cx, f)
				out = append(out, exported.Item{
					Span:     inv.Span,
					Vis:      it.Vis.String(),
					Contents: exported.ItemContents{MacroInvocation: inv},
				})
				continue
			}
		}
		inGroup = false
		out = append(out, convert.Into[exported.Item](cx, it))
	}
	return out
}
