package games

import (
	"testing"

	"github.com/cs-practicals/algosim/internal/oracle"
	"github.com/cs-practicals/algosim/internal/sim"
)

func schedulingConfig() Config {
	return Config{
		Kind: KindScheduling,
		Processes: []oracle.Process{
			{ID: "P1", Arrival: 0, Burst: 5},
			{ID: "P2", Arrival: 1, Burst: 3},
			{ID: "P3", Arrival: 2, Burst: 8},
			{ID: "P4", Arrival: 3, Burst: 6},
		},
	}
}

func TestSchedulingRun(t *testing.T) {
	tests := []struct {
		name       string
		algorithm  oracle.Algorithm
		wantScore  int
		wantSlices int
		wantAvgTAT string
	}{
		// 40 for four processes plus 100 - floor(11.25).
		{name: "fcfs default", wantScore: 129, wantSlices: 4, wantAvgTAT: "11.25"},
		{name: "sjf", algorithm: oracle.SJF, wantScore: 130, wantSlices: 4, wantAvgTAT: "10.75"},
		{name: "srtf", algorithm: oracle.SRTF, wantScore: 130, wantSlices: 5, wantAvgTAT: "10.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, rec := mount(t, schedulingConfig())
			mustAct(t, g, SchedulingAction{Type: "schedule", Algorithm: tt.algorithm})

			v := g.View()
			if v.Phase != sim.PhaseComplete || v.Ledger.Moves != 1 {
				t.Fatalf("expected one scheduling move to complete, got %s %+v", v.Phase, v.Ledger)
			}
			if v.Ledger.Score != tt.wantScore {
				t.Errorf("expected %d, got %d", tt.wantScore, v.Ledger.Score)
			}
			s := stateOf[SchedulingState](t, g)
			if got := s.Schedule.AverageTurnaround.String(); got != tt.wantAvgTAT {
				t.Errorf("expected average turnaround %s, got %s", tt.wantAvgTAT, got)
			}
			if got := countSteps(v.Log, "dispatch"); got != tt.wantSlices {
				t.Errorf("expected %d dispatch steps, got %d", tt.wantSlices, got)
			}
			view := v.Projection.(SchedulingView)
			if len(view.Gantt) != tt.wantSlices || len(view.Processes) != 4 {
				t.Errorf("unexpected projection %+v", view)
			}
			if len(rec.scores) != 1 || rec.scores[0] != tt.wantScore {
				t.Errorf("unexpected completion reports %v", rec.scores)
			}
		})
	}
}

func TestSchedulingEditTable(t *testing.T) {
	g, _, rec := mount(t, schedulingConfig())

	mustAct(t, g, SchedulingAction{Type: "add", Arrival: 2, Burst: 3})
	s := stateOf[SchedulingState](t, g)
	if len(s.Processes) != 5 || s.Processes[4].ID != "P5" {
		t.Fatalf("expected P5 to be added, got %+v", s.Processes)
	}

	mustAct(t, g, SchedulingAction{Type: "remove", ID: "P5"})
	mustAct(t, g, SchedulingAction{Type: "remove", ID: "P9"})
	if got := len(stateOf[SchedulingState](t, g).Processes); got != 4 {
		t.Errorf("expected 4 processes, got %d", got)
	}
	if v := g.View(); v.Ledger.Moves != 0 || v.Ledger.Score != 0 {
		t.Errorf("editing the table must not score: %+v", v.Ledger)
	}
	if rec.count(sim.KindInfo) != 3 {
		t.Errorf("expected 3 info notices, got %+v", rec.notices)
	}

	invalid := []SchedulingAction{
		{Type: "add", Burst: 0},
		{Type: "add", Arrival: -1, Burst: 2},
		{Type: "add", ID: "P1", Burst: 2},
		{Type: "remove"},
		{Type: "schedule", Algorithm: "round_robin"},
		{Type: "pause"},
	}
	for _, a := range invalid {
		if err := act(g, a); !sim.IsInputError(err) {
			t.Errorf("%+v: expected input error, got %v", a, err)
		}
	}
}

func TestSchedulingNeedsProcesses(t *testing.T) {
	g, _, _ := mount(t, schedulingConfig())
	for _, id := range []string{"P1", "P2", "P3", "P4"} {
		mustAct(t, g, SchedulingAction{Type: "remove", ID: id})
	}
	if err := act(g, SchedulingAction{Type: "schedule"}); !sim.IsInputError(err) {
		t.Fatalf("expected input error for an empty table, got %v", err)
	}
	if hint, ok := g.View().Hint.(SchedulingAction); !ok || hint.Type != "add" {
		t.Errorf("expected the hint to suggest adding a process, got %+v", g.View().Hint)
	}
}
