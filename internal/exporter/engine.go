package exporter

import (
	"context"
	"strconv"

	"irx/internal/convert"
	"irx/internal/diag"
	"irx/internal/exported"
	"irx/internal/host"
	"irx/internal/trace"
)

// Options configure an Engine.
type Options struct {
	// MaxExpansionDepth bounds macro ancestry walks; 0 uses spans.DefaultLimit.
	MaxExpansionDepth int
	// OpaqueMacros lists macro path patterns kept as MacroInvocation nodes.
	OpaqueMacros []string
}

// Engine exports units. It holds no per-unit state and may be shared.
type Engine struct {
	reg  *convert.Registry
	opts Options
}

// New creates an Engine over the shared catalog.
func New(opts Options) *Engine {
	return NewWithRegistry(Catalog(), opts)
}

func NewWithRegistry(reg *convert.Registry, opts Options) *Engine {
	return &Engine{reg: reg, opts: opts}
}

func (e *Engine) Options() Options { return e.opts }

// Result is the outcome of exporting one unit. Unit is set even when the
// export failed; nodes that could not be converted are absent from it.
type Result struct {
	Unit     *exported.Unit
	Errors   int
	Warnings int
}

// OK reports whether the unit was exported without error diagnostics.
func (r *Result) OK() bool {
	return r != nil && r.Errors == 0
}

// Export converts unit under a fresh Context. Diagnostics go to sink,
// duplicates removed.
func (e *Engine) Export(ctx context.Context, unit *host.Unit, q host.QueryEngine, sink diag.Reporter) *Result {
	sp := trace.Begin(trace.FromContext(ctx), trace.ScopeUnit, "export:"+unit.Name, trace.CurrentSpan(ctx).SpanID)

	tally := &diag.Tally{Next: sink}
	dedup := diag.NewDedupReporter(tally)
	cx := convert.NewContext(q, e.reg, dedup, convert.Options{
		MaxExpansionDepth: e.opts.MaxExpansionDepth,
		OpaqueMacros:      e.opts.OpaqueMacros,
		Trace:             trace.FromContext(ctx),
		TraceParent:       sp.ID(),
	})
	out := &exported.Unit{
		Name:   unit.Name,
		Schema: exported.CurrentSchema(),
		Items:  convert.Into[[]exported.Item](cx, unit.Items),
	}
	if out.Items == nil {
		out.Items = []exported.Item{}
	}
	out.Expansions = expansions(cx)

	res := &Result{Unit: out, Errors: tally.Errors, Warnings: tally.Warnings}
	sp.WithExtra("items", strconv.Itoa(len(out.Items))).
		WithExtra("errors", strconv.Itoa(res.Errors)).
		WithExtra("duplicates", strconv.Itoa(dedup.Suppressed())).
		End("")
	return res
}

// expansions renders the expansion record. Translating a call site may
// record further (outer) expansions, which are rendered too.
func expansions(cx *convert.Context) []exported.Expansion {
	var out []exported.Expansion
	for i := 0; i < len(cx.Expansions()); i++ {
		rec := cx.Expansions()[i]
		data, ok := cx.Query().ExpnData(rec.ID)
		if !ok {
			continue
		}
		out = append(out, exported.Expansion{
			Macro:    rec.Macro,
			Kind:     data.Kind.String(),
			CallSite: convert.Into[exported.Span](cx, data.CallSite),
		})
	}
	return out
}
