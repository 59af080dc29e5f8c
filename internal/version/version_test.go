package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

// override swaps the build variables for the duration of a test.
func override(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = version, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		version, commit, date string
		want                  string
	}{
		{"0.1.0-dev", "", "", "annocheck 0.1.0-dev"},
		{"1.2.3", "1234567890abcdef1234", "", "annocheck 1.2.3 (1234567890ab)"},
		{"1.2.3", "abc123", "2024-01-15T10:30:00Z", "annocheck 1.2.3 (abc123) built 2024-01-15T10:30:00Z"},
	}
	for _, tc := range cases {
		override(t, tc.version, tc.commit, tc.date)
		if got := String(false); got != tc.want {
			t.Errorf("String(false) = %q, want %q", got, tc.want)
		}
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	override(t, "1.2.3-rc.1+build.123", "", "")
	got := Colored()
	if !strings.HasSuffix(got, "-rc.1+build.123") {
		t.Errorf("suffix lost: %q", got)
	}
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI colors: %q", got)
	}

	override(t, "nightly", "", "")
	if got := Colored(); got != "nightly" {
		t.Errorf("Colored() = %q, want plain version", got)
	}
}
