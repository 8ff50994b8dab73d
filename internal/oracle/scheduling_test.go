package oracle

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cs-practicals/algosim/internal/sim"
)

func textbookProcesses() []Process {
	return []Process{
		{ID: "P1", Arrival: 0, Burst: 5},
		{ID: "P2", Arrival: 1, Burst: 3},
		{ID: "P3", Arrival: 2, Burst: 8},
		{ID: "P4", Arrival: 3, Burst: 6},
	}
}

func TestScheduleTextbook(t *testing.T) {
	tests := []struct {
		alg        Algorithm
		completion []int
		avgWaiting string
		slices     int
	}{
		{alg: FCFS, completion: []int{5, 8, 16, 22}, avgWaiting: "5.75", slices: 4},
		{alg: SJF, completion: []int{5, 8, 22, 14}, avgWaiting: "5.25", slices: 4},
		{alg: SRTF, completion: []int{8, 4, 22, 14}, avgWaiting: "5", slices: 5},
	}
	for _, tt := range tests {
		t.Run(string(tt.alg), func(t *testing.T) {
			s, err := Run(tt.alg, textbookProcesses())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for i, want := range tt.completion {
				if got := s.Results[i].Completion; got != want {
					t.Errorf("%s: expected completion %d, got %d", s.Results[i].ID, want, got)
				}
			}
			if want := decimal.RequireFromString(tt.avgWaiting); !s.AverageWaiting.Equal(want) {
				t.Errorf("expected average waiting %s, got %s", want, s.AverageWaiting)
			}
			if len(s.Slices) != tt.slices {
				t.Errorf("expected %d slices, got %d: %+v", tt.slices, len(s.Slices), s.Slices)
			}
			if s.Makespan != 22 {
				t.Errorf("expected makespan 22, got %d", s.Makespan)
			}
		})
	}
}

func TestScheduleFCFSStartsAtCompletionOfPrevious(t *testing.T) {
	s := ScheduleFCFS(textbookProcesses())
	wantStart := []int{0, 5, 8, 16}
	for i, r := range s.Results {
		if r.Start != wantStart[i] {
			t.Errorf("%s: expected start %d, got %d", r.ID, wantStart[i], r.Start)
		}
		if r.Completion != r.Start+r.Burst {
			t.Errorf("%s: completion %d != start+burst", r.ID, r.Completion)
		}
	}
}

func TestScheduleIdleGap(t *testing.T) {
	ps := []Process{{ID: "A", Arrival: 4, Burst: 2}, {ID: "B", Arrival: 0, Burst: 1}}
	for _, alg := range []Algorithm{FCFS, SJF, SRTF} {
		s, err := Run(alg, ps)
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		if s.Results[0].Start != 4 || s.Results[0].Completion != 6 {
			t.Errorf("%s: A should run [4,6), got %+v", alg, s.Results[0])
		}
		if !s.AverageWaiting.IsZero() {
			t.Errorf("%s: expected no waiting, got %s", alg, s.AverageWaiting)
		}
	}
}

func TestValidateProcesses(t *testing.T) {
	tests := []struct {
		name    string
		ps      []Process
		wantErr bool
	}{
		{name: "empty", ps: nil, wantErr: true},
		{name: "duplicate id", ps: []Process{{ID: "P1", Burst: 1}, {ID: "P1", Burst: 2}}, wantErr: true},
		{name: "zero burst", ps: []Process{{ID: "P1", Burst: 0}}, wantErr: true},
		{name: "negative arrival", ps: []Process{{ID: "P1", Arrival: -1, Burst: 1}}, wantErr: true},
		{name: "missing id", ps: []Process{{Burst: 1}}, wantErr: true},
		{name: "valid", ps: textbookProcesses(), wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateProcesses(tt.ps); (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := Run("round-robin", textbookProcesses()); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func randomProcesses(rng *sim.Rand) []Process {
	n := rng.Between(1, 5)
	ps := make([]Process, n)
	for i := range ps {
		ps[i] = Process{
			ID:      fmt.Sprintf("P%d", i+1),
			Arrival: rng.Between(0, 8),
			Burst:   rng.Between(1, 8),
		}
	}
	return ps
}

func TestScheduleInvariants(t *testing.T) {
	rng := sim.NewRand(7)
	for round := 0; round < 500; round++ {
		ps := randomProcesses(rng)
		fcfs := ScheduleFCFS(ps)
		sjf := ScheduleSJF(ps)
		srtf := ScheduleSRTF(ps)

		for _, s := range []Schedule{fcfs, sjf, srtf} {
			checkSchedule(t, round, ps, s)
		}

		if sjf.AverageWaiting.GreaterThan(fcfs.AverageWaiting) {
			t.Errorf("round %d: SJF waiting %s exceeds FCFS %s for %+v",
				round, sjf.AverageWaiting, fcfs.AverageWaiting, ps)
		}
		if srtf.AverageWaiting.GreaterThan(sjf.AverageWaiting) {
			t.Errorf("round %d: SRTF waiting %s exceeds SJF %s for %+v",
				round, srtf.AverageWaiting, sjf.AverageWaiting, ps)
		}
	}
}

func checkSchedule(t *testing.T, round int, ps []Process, s Schedule) {
	t.Helper()
	served := make(map[string]int)
	for i, sl := range s.Slices {
		if sl.End <= sl.Start {
			t.Fatalf("round %d %s: empty slice %+v", round, s.Algorithm, sl)
		}
		if i > 0 && sl.Start < s.Slices[i-1].End {
			t.Fatalf("round %d %s: overlapping slices %+v", round, s.Algorithm, s.Slices)
		}
		served[sl.PID] += sl.End - sl.Start
	}
	for i, r := range s.Results {
		if r.ID != ps[i].ID {
			t.Fatalf("round %d %s: results out of input order", round, s.Algorithm)
		}
		if served[r.ID] != r.Burst {
			t.Errorf("round %d %s: %s served %d of %d", round, s.Algorithm, r.ID, served[r.ID], r.Burst)
		}
		if r.Start < r.Arrival || r.Waiting < 0 || r.Turnaround != r.Completion-r.Arrival {
			t.Errorf("round %d %s: inconsistent result %+v", round, s.Algorithm, r)
		}
		if s.Algorithm != SRTF && r.Completion != r.Start+r.Burst {
			t.Errorf("round %d %s: non-preemptive result %+v was split", round, s.Algorithm, r)
		}
	}
}
