package convert

import (
	"fmt"

	"irx/internal/diag"
	"irx/internal/host"
	"irx/internal/source"
	"irx/internal/spans"
	"irx/internal/trace"
)

// Options configure a Context.
type Options struct {
	// MaxExpansionDepth bounds the macro ancestry walk.
	MaxExpansionDepth int
	// OpaqueMacros are macro path patterns (see spans.MatchMacro) whose
	// invocations are kept as single MacroInvocation nodes.
	OpaqueMacros []string
	// Trace records item spans under TraceParent. Nil disables it.
	Trace       trace.Tracer
	TraceParent uint64
}

// ExpansionRecord is an expansion met during conversion.
type ExpansionRecord struct {
	ID    host.ExpnID
	Macro string
	Kind  spans.FrameKind
}

// state is shared by a Context and every Context derived from it.
type state struct {
	tally      diag.Tally
	spans      []host.Span
	expansions []ExpansionRecord
	seen       map[host.ExpnID]bool
}

// Context is the read-only environment of one unit's conversion: the host
// query engine, the current parameter environment and the registry, plus
// transient bookkeeping (enclosing spans, expansions met, diagnostic counts).
// A Context is confined to one goroutine.
type Context struct {
	q    host.QueryEngine
	env  host.ParamEnv
	reg  *Registry
	opts Options
	st   *state
}

// NewContext creates the root Context of a unit. Diagnostics go to sink.
func NewContext(q host.QueryEngine, reg *Registry, sink diag.Reporter, opts Options) *Context {
	if opts.MaxExpansionDepth <= 0 {
		opts.MaxExpansionDepth = spans.DefaultLimit
	}
	return &Context{
		q:    q,
		reg:  reg,
		opts: opts,
		st: &state{
			tally: diag.Tally{Next: sink},
			seen:  make(map[host.ExpnID]bool),
		},
	}
}

// WithParamEnv derives a Context converting under env. Bookkeeping is shared.
func (cx *Context) WithParamEnv(env host.ParamEnv) *Context {
	child := *cx
	child.env = env
	return &child
}

func (cx *Context) Query() host.QueryEngine  { return cx.q }
func (cx *Context) ParamEnv() host.ParamEnv  { return cx.env }
func (cx *Context) Registry() *Registry      { return cx.reg }
func (cx *Context) Options() Options         { return cx.opts }
func (cx *Context) Files() *source.FileSet   { return cx.q.Files() }
func (cx *Context) Errors() int              { return cx.st.tally.Errors }
func (cx *Context) Warnings() int            { return cx.st.tally.Warnings }
func (cx *Context) Reporter() diag.Reporter  { return &cx.st.tally }

// Normalizer returns the span normalizer configured for this Context.
func (cx *Context) Normalizer() spans.Normalizer {
	return spans.Normalizer{Q: cx.q, Limit: cx.opts.MaxExpansionDepth}
}

// Span returns the innermost enclosing source span, or the zero span at the root.
func (cx *Context) Span() host.Span {
	if n := len(cx.st.spans); n > 0 {
		return cx.st.spans[n-1]
	}
	return host.Span{}
}

func (cx *Context) pushSpan(s host.Span) { cx.st.spans = append(cx.st.spans, s) }
func (cx *Context) popSpan()             { cx.st.spans = cx.st.spans[:len(cx.st.spans)-1] }

// RecordExpansions notes the frames of a resolution, first encounter wins.
func (cx *Context) RecordExpansions(frames []spans.Frame[host.Span]) {
	for _, f := range frames {
		id := host.ExpnID(f.ID) // #nosec G115 -- IDs come from host.ExpnID
		if cx.st.seen[id] {
			continue
		}
		cx.st.seen[id] = true
		cx.st.expansions = append(cx.st.expansions, ExpansionRecord{ID: id, Macro: f.Macro, Kind: f.Kind})
	}
}

// Expansions lists recorded expansions in first-encounter order.
func (cx *Context) Expansions() []ExpansionRecord {
	return cx.st.expansions
}

// Report records a diagnostic at span, attributed to the user-written code
// the span was expanded from.
func (cx *Context) Report(code diag.Code, sev diag.Severity, span host.Span, msg string) {
	cx.st.tally.Report(code, sev, cx.Locate(span), msg, nil)
}

// Locate resolves span to the source range diagnostics point at.
func (cx *Context) Locate(span host.Span) source.Span {
	res, _ := cx.Normalizer().Resolve(span)
	return res.Pos.Range
}

// Errorf reports an error at the innermost enclosing span.
func (cx *Context) Errorf(code diag.Code, format string, args ...any) {
	cx.Report(code, diag.SevError, cx.Span(), fmt.Sprintf(format, args...))
}

// ErrorAt reports an error at span.
func (cx *Context) ErrorAt(code diag.Code, span host.Span, format string, args ...any) {
	cx.Report(code, diag.SevError, span, fmt.Sprintf(format, args...))
}
