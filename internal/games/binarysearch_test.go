package games

import (
	"testing"

	"github.com/cs-practicals/algosim/internal/sim"
)

func searchConfig(target int) Config {
	return Config{Kind: KindBinarySearch, Values: []int{13, 1, 9, 3, 11, 5, 7, 7}, Target: &target}
}

func TestBinarySearchNormalizesValues(t *testing.T) {
	g, _, _ := mount(t, searchConfig(7))
	s := stateOf[SearchState](t, g)
	want := []int{1, 3, 5, 7, 9, 11, 13}
	if len(s.Values) != len(want) {
		t.Fatalf("expected %v, got %v", want, s.Values)
	}
	for i := range want {
		if s.Values[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, s.Values)
		}
	}
	if s.Left != 0 || s.Right != 6 || s.Mid != -1 {
		t.Errorf("unexpected initial window %+v", s)
	}
}

func TestBinarySearchFirstProbeHit(t *testing.T) {
	g, _, rec := mount(t, searchConfig(7))
	mustAct(t, g, SearchAction{Index: 3})

	v := g.View()
	if v.Phase != sim.PhaseComplete || !stateOf[SearchState](t, g).Found {
		t.Fatalf("expected found on the first probe, phase %s", v.Phase)
	}
	if v.Ledger.Score != 110 {
		t.Errorf("expected 110, got %d", v.Ledger.Score)
	}
	if len(rec.scores) != 1 || rec.scores[0] != 110 {
		t.Errorf("unexpected completion reports %v", rec.scores)
	}
}

func TestBinarySearchNarrowsWindow(t *testing.T) {
	g, _, _ := mount(t, searchConfig(11))

	mustAct(t, g, SearchAction{Index: 0})
	if l := g.View().Ledger; l.Score != -5 || l.Moves != 1 {
		t.Fatalf("wrong probe: got %+v", l)
	}

	mustAct(t, g, SearchAction{Index: 3})
	s := stateOf[SearchState](t, g)
	if s.Left != 4 || s.Right != 6 || s.Mid != 3 {
		t.Fatalf("expected window [4, 6] after probing 3, got %+v", s)
	}
	if err := act(g, SearchAction{Index: 1}); !sim.IsInputError(err) {
		t.Fatalf("expected input error outside the window, got %v", err)
	}

	mustAct(t, g, SearchAction{Index: 5})
	v := g.View()
	if v.Phase != sim.PhaseComplete {
		t.Fatalf("expected complete, got %s", v.Phase)
	}
	// -5 + 20 + bonus 90.
	if v.Ledger.Score != 105 {
		t.Errorf("expected 105, got %d", v.Ledger.Score)
	}
	if got := countSteps(v.Log, "probe"); got != 2 {
		t.Errorf("expected 2 logged probes, got %d", got)
	}
}

func TestBinarySearchAbsentTarget(t *testing.T) {
	g, _, rec := mount(t, searchConfig(8))
	for _, i := range []int{3, 5, 4} {
		mustAct(t, g, SearchAction{Index: i})
	}

	v := g.View()
	s := stateOf[SearchState](t, g)
	if v.Phase != sim.PhaseComplete || !s.Exhausted || s.Found {
		t.Fatalf("expected exhausted search, got phase %s state %+v", v.Phase, s)
	}
	if v.Ledger.Score != 130 {
		t.Errorf("expected 130, got %d", v.Ledger.Score)
	}
	if rec.count(sim.KindInfo) != 1 {
		t.Errorf("expected a not-found notice, got %+v", rec.notices)
	}
}
