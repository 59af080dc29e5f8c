package cycle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTwoCycleReportedOnBothSides(t *testing.T) {
	g := New()
	foo := g.AddNode("Foo", []Edge{{Attr: 0, To: "Bar"}})
	if got := g.Cycles(foo); len(got) != 0 {
		t.Fatalf("pending edge reported early: %v", got)
	}
	bar := g.AddNode("Bar", []Edge{{Attr: 0, To: "Foo"}})

	if diff := cmp.Diff([]Cycle{{Attr: 0, To: bar}}, g.Cycles(foo)); diff != "" {
		t.Errorf("Foo (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Cycle{{Attr: 0, To: foo}}, g.Cycles(bar)); diff != "" {
		t.Errorf("Bar (-want +got):\n%s", diff)
	}
}

func TestSelfCycle(t *testing.T) {
	g := New()
	foo := g.AddNode("Foo", []Edge{{Attr: 0, To: "Foo"}, {Attr: 1, To: "Other"}, {Attr: 2, To: "Foo"}})
	g.AddNode("Other", nil)
	want := []Cycle{{Attr: 0, To: foo, Self: true}, {Attr: 2, To: foo, Self: true}}
	if diff := cmp.Diff(want, g.Cycles(foo)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLongCycleMarksEveryEdge(t *testing.T) {
	g := New()
	a := g.AddNode("A", []Edge{{Attr: 0, To: "B"}, {Attr: 1, To: "D"}})
	b := g.AddNode("B", []Edge{{Attr: 0, To: "C"}})
	d := g.AddNode("D", nil)
	c := g.AddNode("C", []Edge{{Attr: 0, To: "A"}})

	cases := []struct {
		id   NodeID
		want []Cycle
	}{
		{a, []Cycle{{Attr: 0, To: b}}},
		{b, []Cycle{{Attr: 0, To: c}}},
		{c, []Cycle{{Attr: 0, To: a}}},
		{d, nil},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, g.Cycles(tc.id)); diff != "" {
			t.Errorf("%s (-want +got):\n%s", g.Name(tc.id), diff)
		}
	}
}

func TestAcyclicAndIdempotent(t *testing.T) {
	g := New()
	a := g.AddNode("A", []Edge{{Attr: 0, To: "B"}})
	g.AddNode("B", []Edge{{Attr: 0, To: "C"}})
	if again := g.AddNode("A", []Edge{{Attr: 0, To: "A"}}); again != a {
		t.Fatalf("re-adding returned %d, want %d", again, a)
	}
	if g.Len() != 2 {
		t.Fatalf("Len = %d", g.Len())
	}
	if got := g.Cycles(a); got != nil {
		t.Errorf("acyclic graph reported %v", got)
	}
	if g.Lookup("C") != NoNode {
		t.Error("pending target should not be a node")
	}
	first := g.Cycles(a)
	second := g.Cycles(a)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Cycles is not stable:\n%s", diff)
	}
}
