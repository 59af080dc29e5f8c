package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"annocheck/internal/diag"
	"annocheck/internal/driver"
	"annocheck/internal/options"
	"annocheck/internal/suppress"
)

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "auto": uiModeAuto, " ON ": uiModeOn, "off": uiModeOff}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("expected error for invalid mode")
	}
}

func TestApplyOverrides(t *testing.T) {
	o := options.Default()
	err := applyOverrides(&o, overrides{
		assignments:            []string{"unusedWarningToken=error", "org.eclipse.jdt.core.compiler.problem.rawTypeReference = ignore"},
		compliance:             "1.6",
		noSuppress:             true,
		suppressOptionalErrors: true,
		warningsAsErrors:       true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := o.Severity(suppress.UnusedWarningToken); got != diag.SevError {
		t.Errorf("unusedWarningToken = %s, want ERROR", got)
	}
	if got := o.Severity(suppress.RawTypeReference); got != diag.SevIgnore {
		t.Errorf("rawTypeReference = %s, want IGNORE", got)
	}
	if o.Compliance != 6 || o.SuppressWarnings || !o.SuppressOptionalErrors || !o.FatalOptionalError {
		t.Errorf("flags not applied: %+v", o)
	}

	o = options.Default()
	err = applyOverrides(&o, overrides{assignments: []string{"noSuchProblem=warning"}})
	if !errors.Is(err, options.ErrUnknownOption) {
		t.Errorf("err = %v, want ErrUnknownOption", err)
	}
	err = applyOverrides(&o, overrides{compliance: "one"})
	if !errors.Is(err, options.ErrBadCompliance) {
		t.Errorf("err = %v, want ErrBadCompliance", err)
	}
}

func TestBuildCatalog(t *testing.T) {
	byID := map[string]catalogEntry{}
	for _, e := range buildCatalog("") {
		byID[e.ID] = e
	}
	if len(byID) != len(diag.Codes()) {
		t.Errorf("catalog has %d entries, want %d", len(byID), len(diag.Codes()))
	}

	field := byID[diag.UnusedPrivateField.ID()]
	want := catalogEntry{
		ID:       diag.UnusedPrivateField.ID(),
		Title:    "UnusedPrivateField",
		Category: diag.CategoryOf(diag.UnusedPrivateField).String(),
		Option:   "unusedPrivateMember",
		Severity: "WARNING",
		Token:    "unused",
		Message:  "The value of the field %s.%s is not used",
	}
	if diff := cmp.Diff(want, field); diff != "" {
		t.Errorf("UnusedPrivateField entry (-want +got):\n%s", diff)
	}

	superclass := byID[diag.AnnotationTypeDeclarationCannotHaveSuperclass.ID()]
	if superclass.Option != "" || superclass.Token != "" || superclass.Severity != "ERROR" {
		t.Errorf("mandatory problem listed as configurable: %+v", superclass)
	}

	cat := diag.CategoryOf(diag.UnusedWarningToken).String()
	for _, e := range buildCatalog(strings.ToLower(cat)) {
		if e.Category != cat {
			t.Errorf("category filter kept %s (%s)", e.ID, e.Category)
		}
	}
}

func TestBuildTokens(t *testing.T) {
	entries := buildTokens()
	if len(entries) == 0 || entries[0].Token != suppress.TokenAll {
		t.Fatalf("tokens should start with %q: %+v", suppress.TokenAll, entries)
	}
	for _, e := range entries {
		if e.Token != "serial" {
			continue
		}
		if diff := cmp.Diff([]string{"missingSerialVersion"}, e.Options); diff != "" {
			t.Errorf("serial options (-want +got):\n%s", diff)
		}
		return
	}
	t.Error("serial token not listed")
}

func TestWriteDiagnostics(t *testing.T) {
	src := `package p;

public class W {
    private int unused;
}
`
	res, err := driver.CheckSources(context.Background(), []driver.Source{{Name: "p/W.java", Content: []byte(src)}}, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writeDiagnostics(&buf, res, checkFlags{format: "short"}, false, nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); !strings.Contains(got, "p/W.java:4:17") || !strings.Contains(got, "UnusedPrivateField") {
		t.Errorf("short output = %q", got)
	}

	buf.Reset()
	if err := writeDiagnostics(&buf, res, checkFlags{format: "json"}, false, nil); err != nil {
		t.Fatal(err)
	}
	var out struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Code  string `json:"code"`
			Token string `json:"token"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || out.Diagnostics[0].Code != diag.UnusedPrivateField.ID() || out.Diagnostics[0].Token != "unused" {
		t.Errorf("json output = %+v", out)
	}

	buf.Reset()
	printSummary(&buf, res)
	if got := strings.TrimSpace(buf.String()); got != "0 errors, 1 warning in 1 file" {
		t.Errorf("summary = %q", got)
	}

	if err := writeDiagnostics(&buf, res, checkFlags{format: "xml"}, false, nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestShouldUseTUI(t *testing.T) {
	cases := []struct {
		mode  uiMode
		quiet bool
		files int
		want  bool
	}{
		{uiModeOn, false, 1, true},
		{uiModeOn, true, 5, false},
		{uiModeOff, false, 5, false},
		{uiModeAuto, false, 1, false},
	}
	for _, tc := range cases {
		if got := shouldUseTUI(tc.mode, tc.quiet, tc.files); got != tc.want {
			t.Errorf("shouldUseTUI(%s, %v, %d) = %v, want %v", tc.mode, tc.quiet, tc.files, got, tc.want)
		}
	}
}
