package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"irx/internal/diag"
	"irx/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	file := fs.AddVirtual("/home/user/project/src/lib.rs", []byte("const A: u8 = 1 / 0;\nconst B: u8 = A;\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.EvalDivByZero, source.Span{File: file, Start: 14, End: 19}, "division by zero").
		WithNote(source.Span{File: file, Start: 35, End: 36}, "used here"))
	return bag, fs
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	bag, fs := sampleBag(t)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/lib.rs:1:15"},
		{"Relative path", PathModeRelative, "src/lib.rs:1:15"},
		{"Basename only", PathModeBasename, "lib.rs:1:15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Color: false, Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR EVL3004: division by zero") {
				t.Errorf("Expected header in output, got:\n%s", output)
			}
			if strings.Contains(output, "used here") {
				t.Error("Notes must be hidden unless ShowNotes is set")
			}
		})
	}
}

func TestPrettyUnderlinesSpan(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})

	want := "lib.rs:1:15: ERROR EVL3004: division by zero\n" +
		" 1 | const A: u8 = 1 / 0;\n" +
		"   |               ^~~~~\n" +
		"  note: lib.rs:2:15: used here\n" +
		" 2 | const B: u8 = A;\n" +
		"   |               -\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestPrettyAlignsWideCharacters(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("w.rs", []byte("let 名前 = x;\n"))
	bag := diag.NewBag(1)
	// "x" starts after "let 名前 = " (4 + 6 + 3 bytes).
	bag.Add(diag.NewError(diag.CtxUnknownSymbol, source.Span{File: file, Start: 13, End: 14}, "unknown"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("short output:\n%s", buf.String())
	}
	// "let " is 4 cells, the two ideographs 4 more, " = " 3 more.
	if want := "   | " + strings.Repeat(" ", 11) + "^"; lines[2] != want {
		t.Fatalf("caret misaligned:\nwant %q\ngot  %q", want, lines[2])
	}
}

func TestPrettyWithoutLocation(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("a.rs", []byte("x"))
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.IOWriteError, source.Span{}, "cannot write demo/lib"))
	bag.Add(diag.NewError(diag.IOWriteError, source.Span{}, "dropped"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	want := "ERROR IO5003: cannot write demo/lib\n... 1 more diagnostic(s) not shown\n"
	if buf.String() != want {
		t.Fatalf("want %q, got %q", want, buf.String())
	}
}

func TestRootLevelErrorIsNotPlacedInFirstFile(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("a.rs", []byte("fn main() {}\n"))
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.ConvMissingPayload, source.Span{}, "item list holds a nil item").
		WithNote(source.Span{}, "at the unit root"))

	var pretty, short bytes.Buffer
	Pretty(&pretty, bag, fs, PrettyOpts{ShowNotes: true})
	if got, want := pretty.String(), "ERROR CNV1005: item list holds a nil item\n  note: at the unit root\n"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	Short(&short, bag, fs, false)
	if strings.Contains(short.String(), "a.rs") {
		t.Fatalf("root error placed in a file: %q", short.String())
	}
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeNotes: true})
	if out.Diagnostics[0].Location != nil || out.Diagnostics[0].Notes[0].Location != nil {
		t.Fatalf("root error has a location: %+v", out.Diagnostics[0])
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := sampleBag(t)
	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("plain output contains escape sequences")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("colored output has no escape sequences")
	}
}

func TestShort(t *testing.T) {
	bag, fs := sampleBag(t)
	bag.Add(diag.NewError(diag.IOWriteError, source.Span{}, "cannot\nwrite"))
	var buf bytes.Buffer
	Short(&buf, bag, fs, true)
	want := "error EVL3004 /home/user/project/src/lib.rs:1:15 division by zero\n" +
		"note EVL3004 /home/user/project/src/lib.rs:2:15 used here\n" +
		"error IO5003 - cannot write\n"
	if buf.String() != want {
		t.Fatalf("unexpected short output:\nwant:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"pretty", "json", "short", ""} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("sarif"); err == nil {
		t.Error("expected error for sarif")
	}
}
