package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"irx/internal/source"
)

// shortLine is one rendered line: a diagnostic or one of its notes.
type shortLine struct {
	label string // severity label or "note"
	code  string
	path  string
	pos   source.LineCol
	msg   string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.label, l.code, l.path, l.pos.Line, l.pos.Col, l.msg)
}

// FormatShortDiagnostics renders one line per located diagnostic
// ("error CTX2001 path:line:col message"), ordered by position. Golden
// tests and the short CLI format share it. Unlocated entries are skipped.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []shortLine
	for _, d := range diags {
		code := d.Code.ID()
		if l, ok := shortAt(fs, d.Primary); ok {
			l.label, l.code, l.msg = d.Severity.Label(), code, oneLine(d.Message)
			lines = append(lines, l)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := shortAt(fs, n.Span); ok {
				l.label, l.code, l.msg = "note", code, oneLine(n.Msg)
				lines = append(lines, l)
			}
		}
	}
	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.pos.Line, b.pos.Line),
			cmp.Compare(a.pos.Col, b.pos.Col),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

// shortAt fills path and position. Virtual files keep their given name;
// disk files are shown relative to the set's base directory.
func shortAt(fs *source.FileSet, sp source.Span) (shortLine, bool) {
	if !fs.Valid(sp) {
		return shortLine{}, false
	}
	f := fs.Get(sp.File)
	path := f.Path
	if f.Flags&source.FileVirtual == 0 {
		path = f.FormatPath("relative", fs.BaseDir())
	}
	path = filepath.ToSlash(path)
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	start, _ := fs.Resolve(sp)
	return shortLine{path: path, pos: start}, true
}

func oneLine(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
