package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"annocheck/internal/diag"
	"annocheck/internal/source"
)

const sample = "package p;\n\n@interface A extends B {}\n"

func sampleBag(fs *source.FileSet, id source.FileID) *diag.Bag {
	bag := diag.NewBag(10)
	// "B" in "extends B"
	bag.Add(diag.New(diag.SevError, diag.AnnotationTypeDeclarationCannotHaveSuperclass,
		source.Span{File: id, Start: 33, End: 34}))
	return bag
}

func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/src/p/A.java", []byte(sample))
	fs.SetBaseDir("/home/user/project")
	bag := sampleBag(fs, fileID)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/p/A.java:3:22"},
		{"Relative path", PathModeRelative, "src/p/A.java:3:22"},
		{"Basename only", PathModeBasename, "A.java:3:22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			for _, want := range []string{"ERROR", "SYN1001", "Annotation type declaration cannot have an explicit superclass"} {
				if !strings.Contains(output, want) {
					t.Errorf("output lacks %q:\n%s", want, output)
				}
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("A.java", []byte(sample))
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(fs, fileID), fs, PrettyOpts{Context: 1})

	want := strings.Join([]string{
		"A.java:3:22: ERROR SYN1001: Annotation type declaration cannot have an explicit superclass",
		" 2 | ",
		" 3 | @interface A extends B {}",
		"   | " + strings.Repeat(" ", 21) + "^",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyExpandsTabsAndWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	content := "class X {\n\tString s = \"日本\"; // x\n}\n"
	fileID := fs.AddVirtual("X.java", []byte(content))
	start := uint32(strings.Index(content, "//"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.UnusedPrivateField, source.Span{File: fileID, Start: start, End: start + 2}, "X", "s"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("output:\n%s", buf.String())
	}
	src, marks := lines[1], lines[2]
	if strings.Contains(src, "\t") {
		t.Errorf("tabs not expanded: %q", src)
	}
	// "日本" is two runes of width 2 each; the caret must still sit under "//".
	col := strings.Index(marks, "^")
	if col < 0 || !strings.HasPrefix(string([]rune(src)[col-2:]), "//") {
		t.Errorf("caret misplaced:\n%s\n%s", src, marks)
	}
	if !strings.Contains(marks, "^~") {
		t.Errorf("underline should cover the span: %q", marks)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("@interface Foo { Bar value(); }\n@interface Bar { Foo value(); }\n")
	fileID := fs.AddVirtual("Foo.java", content)

	d := diag.New(diag.SevError, diag.AnnotationCircularity, source.Span{File: fileID, Start: 17, End: 20}, "Foo", "Bar")
	d = d.WithNote(source.Span{File: fileID, Start: 43, End: 46}, "Bar is declared here")
	d = d.WithFix("remove attribute", diag.FixEdit{Span: source.Span{File: fileID, Start: 17, End: 29}})
	bag := diag.NewBag(4)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true})
	output := buf.String()
	for _, want := range []string{
		"note: Foo.java:2:12: Bar is declared here",
		"fix: remove attribute",
		`Foo.java:1:18: replace with ""`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output lacks %q:\n%s", want, output)
		}
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{})
	if strings.Contains(buf.String(), "note:") || strings.Contains(buf.String(), "fix:") {
		t.Errorf("notes and fixes should be hidden:\n%s", buf.String())
	}
}

func TestPrettyBuiltinSpan(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.UndefinedType, source.Span{File: source.NoFileID}, "Missing"))
	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{})
	if got := buf.String(); got != "<builtin>: ERROR "+diag.UndefinedType.ID()+": Missing cannot be resolved to a type\n" {
		t.Errorf("got %q", got)
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("A.java", []byte(sample))
	var plain, colored bytes.Buffer
	Pretty(&plain, sampleBag(fs, fileID), fs, PrettyOpts{})
	Pretty(&colored, sampleBag(fs, fileID), fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("plain output carries escapes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("colored output carries no escapes")
	}
}

func TestParsePathMode(t *testing.T) {
	if m, err := ParsePathMode("Relative"); err != nil || m != PathModeRelative {
		t.Errorf("ParsePathMode(Relative) = %v, %v", m, err)
	}
	if _, err := ParsePathMode("short"); err == nil {
		t.Error("ParsePathMode(short) should fail")
	}
}
