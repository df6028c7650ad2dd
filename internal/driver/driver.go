// Package driver runs the exporter inside host compilations: one export per
// unit, in the order the host hands units over, with output files, progress
// events, traces and timings around it.
package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"irx/internal/diag"
	"irx/internal/exporter"
	"irx/internal/host"
	"irx/internal/observ"
	"irx/internal/source"
	"irx/internal/trace"
)

// Options control a Driver.
type Options struct {
	Export exporter.Options
	Format Format
	// OutDir receives one file per unit; empty disables writing.
	OutDir         string
	MaxDiagnostics int
	// Timings appends an ObsTimings info diagnostic to every unit's bag.
	Timings  bool
	Progress ProgressSink
	OnPhase  PhaseObserver
}

// UnitReport is the outcome for one unit. Result.Unit holds the partial tree
// even when the unit failed.
type UnitReport struct {
	Session string
	Result  *exporter.Result
	Bag     *diag.Bag
	Files   *source.FileSet
	// Output is the written file, empty when nothing was written.
	Output      string
	WriteFailed bool
	Timing      observ.Report
}

// Name is "<session>/<unit>".
func (u *UnitReport) Name() string {
	if u.Result == nil || u.Result.Unit == nil {
		return u.Session
	}
	return UnitName(u.Session, u.Result.Unit.Name)
}

// Failed reports whether the unit recorded any error.
func (u *UnitReport) Failed() bool {
	return !u.Result.OK() || u.WriteFailed
}

type Report struct {
	Units   []*UnitReport
	Elapsed time.Duration
}

// Failed is true iff any unit failed.
func (r *Report) Failed() bool {
	for _, u := range r.Units {
		if u.Failed() {
			return true
		}
	}
	return false
}

// Counts sums error and warning diagnostics across units.
func (r *Report) Counts() (errs, warns int) {
	for _, u := range r.Units {
		errs += u.Result.Errors
		warns += u.Result.Warnings
		if u.WriteFailed {
			errs++
		}
	}
	return errs, warns
}

// Driver exports every unit of the hosts it is run on.
type Driver struct {
	engine *exporter.Engine
	opts   Options
}

func New(opts Options) *Driver {
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	return &Driver{engine: exporter.New(opts.Export), opts: opts}
}

// unitLister is implemented by hosts that know their units before running,
// such as memhost.Session.
type unitLister interface {
	Units() []*host.Unit
}

// Plan lists the unit names Run will report, as far as the hosts expose
// them up front.
func Plan(hosts ...host.Driver) []string {
	var names []string
	for _, h := range hosts {
		l, ok := h.(unitLister)
		if !ok {
			continue
		}
		for _, u := range l.Units() {
			names = append(names, UnitName(h.Name(), u.Name))
		}
	}
	return names
}

// Run drives each host in turn. Units never run concurrently: the host's
// query engine is not required to be safe for concurrent use.
func (d *Driver) Run(ctx context.Context, hosts ...host.Driver) (*Report, error) {
	start := time.Now()
	sp := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "irx.export", trace.CurrentSpan(ctx).SpanID)
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: sp.ID()})

	for _, name := range Plan(hosts...) {
		emit(d.opts.Progress, Event{Unit: name, Stage: StageExport, Status: StatusQueued})
	}
	report := &Report{}
	for _, h := range hosts {
		if err := d.runHost(ctx, h, report); err != nil {
			sp.End(err.Error())
			return report, err
		}
	}
	report.Elapsed = time.Since(start)
	errs, _ := report.Counts()
	sp.WithExtra("units", strconv.Itoa(len(report.Units))).
		WithExtra("errors", strconv.Itoa(errs)).
		End("")
	return report, nil
}

func (d *Driver) runHost(ctx context.Context, h host.Driver, report *Report) error {
	sp := trace.Begin(trace.FromContext(ctx), trace.ScopeSession, "session:"+h.Name(), trace.CurrentSpan(ctx).SpanID)
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: sp.ID()})
	cb := &callbacks{d: d, session: h.Name(), report: report}
	err := h.Run(ctx, cb)
	if err != nil {
		err = fmt.Errorf("session %s: %w", h.Name(), err)
		sp.End(err.Error())
		return err
	}
	sp.End("")
	return nil
}

type callbacks struct {
	d       *Driver
	session string
	report  *Report
}

func (c *callbacks) AfterAnalysis(ctx context.Context, unit *host.Unit, q host.QueryEngine, sink diag.Reporter) host.Compilation {
	if ctx.Err() != nil {
		return host.Stop
	}
	opts := c.d.opts
	name := UnitName(c.session, unit.Name)
	timer := observ.NewTimer()
	started := time.Now()

	bag := diag.NewBag(opts.MaxDiagnostics)
	out := diag.MultiReporter{sink, diag.BagReporter{Bag: bag}}

	emit(opts.Progress, Event{Unit: name, Stage: StageExport, Status: StatusWorking})
	phase := c.begin(timer, "export")
	res := c.d.engine.Export(ctx, unit, q, out)
	c.end(timer, phase, fmt.Sprintf("%d items", len(res.Unit.Items)))

	ur := &UnitReport{Session: c.session, Result: res, Bag: bag, Files: q.Files()}
	if opts.OutDir != "" {
		emit(opts.Progress, Event{Unit: name, Stage: StageWrite, Status: StatusWorking})
		phase = c.begin(timer, "write")
		path, err := WriteUnit(opts.OutDir, c.session, res.Unit, opts.Format)
		c.end(timer, phase, path)
		if err != nil {
			ur.WriteFailed = true
			trace.Point(trace.FromContext(ctx), trace.ScopeUnit, "write failed:"+name, trace.CurrentSpan(ctx).SpanID, err.Error())
			out.Report(diag.IOWriteError, diag.SevError, source.Span{}, fmt.Sprintf("cannot write %s: %v", name, err), nil)
		} else {
			ur.Output = path
		}
	}

	ur.Timing = timer.Report()
	if opts.Timings {
		appendTimingDiagnostic(bag, timingPayload{Kind: "unit", Unit: name, TotalMS: ur.Timing.TotalMS, Phases: ur.Timing.Phases})
	}
	bag.Sort()
	c.report.Units = append(c.report.Units, ur)

	status := StatusDone
	var err error
	if ur.Failed() {
		status = StatusError
		err = fmt.Errorf("%s: %d error(s)", name, max(res.Errors, 1))
	}
	emit(opts.Progress, Event{Unit: name, Stage: StageExport, Status: status, Err: err, Elapsed: time.Since(started)})
	return host.Continue
}

func (c *callbacks) begin(t *observ.Timer, name string) int {
	if c.d.opts.OnPhase != nil {
		c.d.opts.OnPhase(PhaseEvent{Name: name, Status: PhaseStart})
	}
	return t.Begin(name)
}

func (c *callbacks) end(t *observ.Timer, idx int, note string) {
	t.End(idx, note)
	if c.d.opts.OnPhase == nil {
		return
	}
	if p, ok := t.Phase(idx); ok {
		c.d.opts.OnPhase(PhaseEvent{Name: p.Name, Status: PhaseEnd, Elapsed: p.Dur})
	}
}
