package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"irx/internal/diag"
	"irx/internal/source"
)

// Short prints one line per diagnostic: located ones as
// "error CTX2001 path:line:col message", the rest as "error IO5003 - message".
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) {
	var placed, loose []diag.Diagnostic
	for _, d := range bag.Items() {
		if located(fs, d.Primary) {
			placed = append(placed, d)
		} else {
			loose = append(loose, d)
		}
	}
	if s := diag.FormatShortDiagnostics(placed, fs, includeNotes); s != "" {
		fmt.Fprintln(w, s)
	}
	for _, d := range loose {
		msg := strings.Join(strings.Fields(d.Message), " ")
		fmt.Fprintf(w, "%s %s - %s\n", d.Severity.Label(), d.Code.ID(), msg)
	}
}

// Write renders bag in format f.
func Write(w io.Writer, f Format, bag *diag.Bag, fs *source.FileSet, color bool) error {
	switch f {
	case FormatJSON:
		return JSON(w, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeAuto, IncludeNotes: true})
	case FormatShort:
		Short(w, bag, fs, false)
		return nil
	}
	Pretty(w, bag, fs, PrettyOpts{Color: color, Context: 0, PathMode: PathModeAuto, ShowNotes: true})
	return nil
}
