package trace

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelGatesScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, true},
		{LevelError, ScopePass, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeUnit, false},
		{LevelDetail, ScopeUnit, true},
		{LevelDetail, ScopeDecl, false},
		{LevelDebug, ScopeDecl, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Errorf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatNDJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if _, err := ParseFormat("chrome"); err == nil {
		t.Error("ParseFormat(chrome) should fail")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Error("off tracer should be disabled")
	}
	span := Begin(tr, ScopeDriver, "run", 0)
	if span.ID() != 0 || span.End("") != 0 {
		t.Error("nop span should carry no id or duration")
	}
}

func TestStreamText(t *testing.T) {
	var buf strings.Builder
	tr, err := New(Config{Level: LevelPhase, Format: FormatText, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	root := Begin(tr, ScopeDriver, "check", 0)
	pass := Begin(tr, ScopePass, "parse", root.ID())
	Begin(tr, ScopeUnit, "unit", pass.ID()).End("")
	pass.WithExtra("units", "2").End("")
	Point(tr, ScopePass, "registered", "3 types", root.ID())
	root.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"[driver] → check",
		"[pass  ]   → parse",
		"[pass  ]   ← parse {units=2}",
		"[pass  ]   • registered (3 types)",
		"[driver] ← check",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf strings.Builder
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	span := Begin(FromContext(ctx), ScopeUnit, "check", 0)
	span.End("ok")

	sc := bufio.NewScanner(strings.NewReader(buf.String()))
	var kinds []string
	var lastSeq uint64
	for sc.Scan() {
		var ev struct {
			Seq    uint64 `json:"seq"`
			Kind   string `json:"kind"`
			Scope  string `json:"scope"`
			SpanID uint64 `json:"span_id"`
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		if ev.Seq <= lastSeq || ev.Scope != "unit" || ev.SpanID != span.ID() {
			t.Errorf("event = %+v", ev)
		}
		lastSeq = ev.Seq
		kinds = append(kinds, ev.Kind)
	}
	if strings.Join(kinds, ",") != "begin,end" {
		t.Errorf("kinds = %v", kinds)
	}
}

func TestFromContextDefaultsToNop(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Error("missing tracer should be Nop")
	}
	if FromContext(WithTracer(context.Background(), nil)) != Nop {
		t.Error("nil tracer should be stored as Nop")
	}
}
