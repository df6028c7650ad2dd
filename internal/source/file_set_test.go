package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("demo.rs", []byte("fn a() {}"), 0)
	id2 := fs.Add("demo.rs", []byte("fn b() {}"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("demo.rs")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id2)
	}
	// старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "fn a() {}" {
		t.Errorf("old content = %q", got)
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("m.rs", []byte("const A: u8 = 1;\nconst B: u8 = A + 1;\n"))

	tests := []struct {
		name       string
		span       Span
		start, end LineCol
	}{
		{"first line", Span{File: id, Start: 6, End: 7}, LineCol{1, 7}, LineCol{1, 8}},
		{"second line", Span{File: id, Start: 17 + 14, End: 17 + 19}, LineCol{2, 15}, LineCol{2, 20}},
		{"newline belongs to its line", Span{File: id, Start: 16, End: 17}, LineCol{1, 17}, LineCol{2, 1}},
		{"empty at start", Span{File: id}, LineCol{1, 1}, LineCol{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := fs.Resolve(tt.span)
			if start != tt.start || end != tt.end {
				t.Errorf("Resolve(%v) = %v,%v; want %v,%v", tt.span, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestTextAndValid(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("m.rs", []byte("vec![1, 2]"))

	if got := fs.Text(Span{File: id, Start: 5, End: 9}); got != "1, 2" {
		t.Errorf("Text = %q", got)
	}
	if fs.Valid(Span{File: id, Start: 3, End: 40}) {
		t.Error("span past end of file must be invalid")
	}
	if fs.Valid(Span{File: id + 1}) {
		t.Error("unknown file must be invalid")
	}
	if got := fs.Text(Span{File: id, Start: 9, End: 2}); got != "" {
		t.Errorf("inverted span text = %q", got)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("m.rs", []byte("one\ntwo\nthree")))

	for n, want := range map[uint32]string{0: "", 1: "one", 2: "two", 3: "three", 4: ""} {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "win.rs")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b", f.Flags)
	}
	if got := f.FormatPath("basename", ""); got != "win.rs" {
		t.Errorf("basename = %q", got)
	}
}
