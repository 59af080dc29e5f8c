package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"annocheck/internal/diag"
	"annocheck/internal/trace"
)

const annoSource = `package p;

import java.lang.annotation.Retention;
import java.lang.annotation.RetentionPolicy;

@Retention(RetentionPolicy.RUNTIME)
public @interface Anno {
    int value();
}
`

const userSource = `package p;

@Anno(1)
public class User {
}
`

func checkSources(t *testing.T, opts Options, sources ...string) *Result {
	t.Helper()
	in := make([]Source, 0, len(sources)/2)
	for i := 0; i+1 < len(sources); i += 2 {
		in = append(in, Source{Name: sources[i], Content: []byte(sources[i+1])})
	}
	res, err := CheckSources(context.Background(), in, opts)
	if err != nil {
		t.Fatalf("CheckSources: %v", err)
	}
	return res
}

func codesOf(res *Result) []diag.Code {
	out := []diag.Code{}
	for _, d := range res.Bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestCheckAcrossUnits(t *testing.T) {
	res := checkSources(t, Options{}, "p/Anno.java", annoSource, "p/User.java", userSource)
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShortDiagnostics(res.Bag.Items(), res.FileSet, false))
	}
	if got := len(res.Units); got != 2 {
		t.Fatalf("units = %d, want 2", got)
	}
	if res.Registry.Lookup("p.Anno") == nil {
		t.Fatal("p.Anno not registered")
	}

	var sites []string
	for _, p := range res.Payloads {
		if p.Type != "p.Anno" {
			continue
		}
		sites = append(sites, p.Site)
		if !p.Visible {
			t.Errorf("@Anno on %s should be runtime visible", p.Site)
		}
		if len(p.Members) != 1 || p.Members[0].Name != "value" || p.Members[0].Value.Int != 1 {
			t.Errorf("@Anno members = %+v", p.Members)
		}
	}
	if diff := cmp.Diff([]string{"p.User"}, sites); diff != "" {
		t.Errorf("@Anno sites (-want +got):\n%s", diff)
	}
}

func TestCheckSuppression(t *testing.T) {
	src := `package p;

public class Quiet {
    @SuppressWarnings("unused")
    private int hidden;

    @SuppressWarnings("zork")
    void m() {}
}
`
	res := checkSources(t, Options{}, "p/Quiet.java", src)
	if diff := cmp.Diff([]diag.Code{diag.UnhandledWarningToken}, codesOf(res)); diff != "" {
		t.Errorf("codes (-want +got):\n%s", diff)
	}
}

func TestSyntaxErrorsWithholdUnusedTokens(t *testing.T) {
	src := `package p;

@SuppressWarnings("rawtypes")
public class Broken {
    int f = 1
}
`
	res := checkSources(t, Options{}, "p/Broken.java", src)
	if !res.Units[0].Sema.MandatoryErrors {
		t.Error("syntax errors should make the unit's errors mandatory")
	}
	syntax := false
	for _, d := range res.Bag.Items() {
		switch d.Code {
		case diag.UnusedWarningToken:
			t.Errorf("unused token reported despite syntax errors: %s", d.Message)
		case diag.ParsingErrorDeleteToken, diag.ParsingErrorInsertToken:
			syntax = true
		}
	}
	if !syntax {
		t.Errorf("no syntax error in %v", codesOf(res))
	}
}

func TestIllegalAnnotationTypeShapes(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "superclass",
			src:  "public @interface Foo extends Object {\n}\n",
			want: []string{"p/Foo.java:1:19: error: Annotation type declaration cannot have an explicit superclass [AnnotationTypeDeclarationCannotHaveSuperclass]"},
		},
		{
			name: "superinterfaces",
			src:  "public @interface Foo implements Cloneable {\n}\n",
			want: []string{"p/Foo.java:1:19: error: Annotation type declaration cannot have explicit superinterfaces [AnnotationTypeDeclarationCannotHaveSuperinterfaces]"},
		},
		{
			name: "constructor",
			src:  "public @interface Foo {\n\tFoo() {}\n}",
			want: []string{"p/Foo.java:2:2: error: Annotation type declaration cannot have a constructor [AnnotationTypeDeclarationCannotHaveConstructor]"},
		},
		{
			name: "parameters and generics",
			src:  "@interface Foo {\n\tint foo(int a);\n\t<T> T bar();\n}\n",
			want: []string{
				"p/Foo.java:2:6: error: Annotation attributes cannot have parameters [AnnotationMembersCannotHaveParameters]",
				"p/Foo.java:3:3: error: Annotation attributes cannot be generic [AnnotationMembersCannotHaveTypeParameters]",
				"p/Foo.java:3:6: error: Invalid type T for the annotation attribute Foo.bar; only primitive type, String, Class, annotation, enumeration are permitted or 1-dimensional arrays thereof [InvalidAnnotationMemberType]",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := checkSources(t, Options{}, "p/Foo.java", tc.src)
			got := strings.Split(diag.FormatShortDiagnostics(res.Bag.Items(), res.FileSet, false), "\n")
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("diagnostics (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMaxDiagnosticsAndFilters(t *testing.T) {
	src := `package p;

public class W {
    private int a;
    private int b;
    private int c;
}
`
	res := checkSources(t, Options{MaxDiagnostics: 2}, "p/W.java", src)
	if res.Bag.Len() != 2 || res.Dropped != 1 {
		t.Errorf("kept %d, dropped %d; want 2 and 1", res.Bag.Len(), res.Dropped)
	}
	for _, d := range res.Bag.Items() {
		if d.Code != diag.UnusedPrivateField {
			t.Errorf("unexpected %s: %s", d.Code, d.Message)
		}
	}
	if !strings.Contains(res.Bag.Items()[0].Message, "W.a") {
		t.Errorf("first diagnostic should be the first field: %q", res.Bag.Items()[0].Message)
	}

	res = checkSources(t, Options{IgnoreWarnings: true}, "p/W.java", src)
	if res.Bag.Len() != 0 {
		t.Errorf("IgnoreWarnings kept %v", codesOf(res))
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func TestPhasesAndProgress(t *testing.T) {
	var phases []string
	sink := &recordingSink{}
	opts := Options{
		EnableTimings: true,
		Jobs:          2,
		Progress:      sink,
		Observer: func(ev PhaseEvent) {
			if ev.Status == PhaseEnd {
				phases = append(phases, ev.Name)
			}
		},
	}
	res := checkSources(t, opts, "p/Anno.java", annoSource, "p/User.java", userSource)

	if diff := cmp.Diff([]string{"parse", "register", "check", "emit"}, phases); diff != "" {
		t.Errorf("phases (-want +got):\n%s", diff)
	}
	if res.Timing == nil || len(res.Timing.Phases) != 4 {
		t.Fatalf("timing = %+v", res.Timing)
	}

	done := map[string]bool{}
	for _, ev := range sink.events {
		if ev.Stage == StageEmit && ev.File != "" {
			done[ev.File] = ev.Status == StatusDone
		}
	}
	if diff := cmp.Diff(map[string]bool{"p/Anno.java": true, "p/User.java": true}, done); diff != "" {
		t.Errorf("done files (-want +got):\n%s", diff)
	}
}

func TestCheckTracesPasses(t *testing.T) {
	var buf strings.Builder
	tracer, err := trace.New(trace.Config{Level: trace.LevelPhase, Format: trace.FormatText, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	ctx := trace.WithTracer(context.Background(), tracer)
	if _, err := CheckSources(ctx, []Source{{Name: "p/User.java", Content: []byte(userSource)}}, Options{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"check", "parse", "register", "emit"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "p/User.java") {
		t.Errorf("phase level should not trace units:\n%s", out)
	}
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	write("p/Anno.java", annoSource)
	write("p/User.java", userSource)
	write(".git/Ignored.java", "class {")
	write("notes.txt", "not java")

	files, err := ListJavaFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "p/Anno.java"), filepath.Join(dir, "p/User.java")}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("ListJavaFiles (-want +got):\n%s", diff)
	}

	res, err := Check(context.Background(), []string{dir, filepath.Join(dir, "p/User.java")}, Options{BaseDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Units) != 2 || res.Bag.Len() != 0 {
		t.Errorf("units = %d, diagnostics = %d", len(res.Units), res.Bag.Len())
	}
}

func TestCheckAggregatesLoadErrors(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"A.java", "B.java"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("class X {}"), 0o000); err != nil {
			t.Fatal(err)
		}
	}
	if os.Geteuid() == 0 {
		t.Skip("root can read unreadable files")
	}
	_, err := Check(context.Background(), []string{dir}, Options{})
	if err == nil {
		t.Fatal("expected load error")
	}
	for _, name := range []string{"A.java", "B.java"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error does not mention %s: %v", name, err)
		}
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("error should wrap os.ErrPermission: %v", err)
	}
}
