package observ

import (
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	timer.now = fakeClock(2 * time.Millisecond)

	parse := timer.Begin("parse")
	timer.End(parse, "units=3")
	check := timer.Begin("check")
	timer.End(check, "")
	timer.End(7, "ignored")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(report.Phases))
	}
	if report.Phases[0].Name != "parse" || report.Phases[0].Note != "units=3" {
		t.Errorf("phase 0 = %+v", report.Phases[0])
	}
	if report.Phases[0].DurationMS != 2 || report.TotalMS != 4 {
		t.Errorf("durations = %v / total %v, want 2 / 4", report.Phases[0].DurationMS, report.TotalMS)
	}

	summary := timer.Summary()
	for _, want := range []string{"parse", "// units=3", "check", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary lacks %q:\n%s", want, summary)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Errorf("empty report = %+v", r)
	}
}
