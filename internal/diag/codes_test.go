package diag

import (
	"strings"
	"testing"

	"annocheck/internal/suppress"
)

func TestEveryCodeHasCategory(t *testing.T) {
	for _, c := range Codes() {
		if CategoryOf(c) == CatUnspecified {
			t.Errorf("%s resolves to %s", c, CatUnspecified)
		}
		if c.ID() == "E0000" {
			t.Errorf("code %d outside a known range", c)
		}
	}
}

func TestIDPrefixMatchesCategory(t *testing.T) {
	prefix := map[Category]string{
		CatSyntax:                      "SYN",
		CatType:                        "TYP",
		CatMember:                      "MEM",
		CatInternal:                    "INT",
		CatCodeStyle:                   "STY",
		CatUnnecessaryCode:             "UNN",
		CatPotentialProgrammingProblem: "PRB",
		CatNLS:                         "NLS",
		CatUncheckedRaw:                "RAW",
	}
	for _, c := range Codes() {
		want := prefix[CategoryOf(c)]
		if !strings.HasPrefix(c.ID(), want) {
			t.Errorf("%s: id %s does not match category %s", c.Title(), c.ID(), CategoryOf(c))
		}
	}
}

func TestConfigurableCodesHaveExactlyOneOption(t *testing.T) {
	for _, c := range Codes() {
		key, ok := OptionKeyOf(c)
		if c.Mandatory() {
			if ok {
				t.Errorf("mandatory %s must not be configurable", c.Title())
			}
			continue
		}
		if !ok || key == "" {
			t.Errorf("%s has no option key", c.Title())
			continue
		}
		if irr, _ := suppress.IrritantForOption(key); irr != c.Irritant() {
			t.Errorf("%s: option %s governs %s, want %s", c.Title(), key, irr, c.Irritant())
		}
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		code Code
		args []any
		want string
	}{
		{AnnotationCircularity, []any{"Foo", "Bar"}, "Cycle detected: a cycle exists between annotation attributes of Foo and Bar"},
		{MissingValueForAnnotationMember, []any{"T", "x"}, "The annotation @T must define the attribute x"},
		{UnhandledWarningToken, []any{"zork"}, "Unsupported @SuppressWarnings(\"zork\")"},
		{ReferenceToForwardField, nil, "Cannot reference a field before it is defined"},
		{AnnotationCannotOverrideMethod, []any{"X", "Object", "wait", ""}, "The annotation type X cannot override the method Object.wait()"},
		{NumericValueOutOfRange, []any{"2147483648", "int"}, "The literal 2147483648 of type int is out of range "},
	}
	for _, tt := range tests {
		if got := tt.code.Message(tt.args...); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.code.Title(), got, tt.want)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{"ignore": SevIgnore, "Warning": SevWarning, " error ": SevError, "info": SevInfo} {
		got, ok := ParseSeverity(in)
		if !ok || got != want {
			t.Errorf("ParseSeverity(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParseSeverity("fatal"); ok {
		t.Error("fatal is not a severity")
	}
}
