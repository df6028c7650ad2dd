package diagfmt

import "irx/internal/source"

// located reports whether sp points into fs. The zero span means "no
// location": root-level, I/O and timing diagnostics carry it, and it would
// otherwise resolve to the start of the first file.
func located(fs *source.FileSet, sp source.Span) bool {
	if sp == (source.Span{}) {
		return false
	}
	return fs != nil && fs.Valid(sp)
}

func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	if mode == PathModeRelative {
		return f.FormatPath("relative", fs.BaseDir())
	}
	return f.FormatPath(mode.mode(), "")
}
