package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"irx/internal/diag"
	"irx/internal/source"
)

type palette struct {
	err, warn, info, note, code, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgGreen),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		sevText := p.severity(d.Severity).Sprint(d.Severity.String())
		header := fmt.Sprintf("%s %s: %s", sevText, p.code.Sprint(d.Code.ID()), d.Message)
		if !located(fs, d.Primary) {
			fmt.Fprintln(w, header)
			if opts.ShowNotes || d.Code == diag.ObsTimings {
				for _, n := range d.Notes {
					fmt.Fprintf(w, "  %s: %s\n", p.note.Sprint("note"), n.Msg)
				}
			}
			continue
		}
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s\n", displayPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col, header)
		snippet(w, fs, d.Primary, opts, p, '^')
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if !located(fs, n.Span) {
				fmt.Fprintf(w, "  %s: %s\n", p.note.Sprint("note"), n.Msg)
				continue
			}
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s: %s:%d:%d: %s\n", p.note.Sprint("note"),
				displayPath(fs, n.Span.File, opts.PathMode), ns.Line, ns.Col, n.Msg)
			snippet(w, fs, n.Span, opts, p, '-')
		}
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "... %d more diagnostic(s) not shown\n", n)
	}
}

// snippet печатает строки контекста и подчёркивание под первой строкой span.
func snippet(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, p palette, mark rune) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	first := start.Line
	if opts.Context > 0 && uint32(opts.Context) < first {
		first -= uint32(opts.Context)
	} else if opts.Context > 0 {
		first = 1
	}
	gw := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		line := clip(expandTabs(f.GetLine(ln)), opts.Width)
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gw, ln), line)
	}

	raw := f.GetLine(start.Line)
	from := min(int(start.Col-1), len(raw))
	to := len(raw)
	if end.Line == start.Line {
		to = min(int(end.Col-1), len(raw))
	}
	pad := runewidth.StringWidth(expandTabs(raw[:from]))
	width := max(runewidth.StringWidth(expandTabs(raw[from:to])), 1)
	underline := string(mark) + strings.Repeat("~", width-1)
	if mark != '^' {
		underline = strings.Repeat(string(mark), width)
	}
	fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", gw, ""), strings.Repeat(" ", pad), p.caret.Sprint(underline))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
