package oracle

import (
	"math"
	"testing"

	"github.com/cs-practicals/algosim/internal/sim"
)

func TestBinaryPathTextbook(t *testing.T) {
	values := []int{1, 3, 5, 7, 9, 11, 13}
	path := BinaryPath(values, 7)

	if len(path) != 1 {
		t.Fatalf("expected 1 probe, got %d: %+v", len(path), path)
	}
	if path[0].Mid != 3 || path[0].Value != 7 || path[0].Outcome != Found {
		t.Errorf("unexpected probe: %+v", path[0])
	}
}

func TestBinaryStepBranches(t *testing.T) {
	values := []int{1, 3, 5, 7, 9, 11, 13}
	tests := []struct {
		name      string
		target    int
		left      int
		right     int
		outcome   SearchOutcome
		nextLeft  int
		nextRight int
	}{
		{name: "go right", target: 11, left: 0, right: 6, outcome: SearchRight, nextLeft: 4, nextRight: 6},
		{name: "go left", target: 3, left: 0, right: 6, outcome: SearchLeft, nextLeft: 0, nextRight: 2},
		{name: "empty window", target: 4, left: 3, right: 2, outcome: Exhausted, nextLeft: 3, nextRight: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BinaryStep(values, tt.target, tt.left, tt.right)
			if p.Outcome != tt.outcome || p.NextLeft != tt.nextLeft || p.NextRight != tt.nextRight {
				t.Errorf("unexpected probe %+v", p)
			}
		})
	}
}

func TestBinarySearchProperty(t *testing.T) {
	rng := sim.NewRand(2024)
	for round := 0; round < 200; round++ {
		n := rng.Between(1, 40)
		values := make([]int, n)
		v := rng.Between(-50, 0)
		for i := range values {
			v += rng.Between(1, 5)
			values[i] = v
		}
		if !StrictlySorted(values) {
			t.Fatalf("generator produced unsorted input %v", values)
		}
		bound := int(math.Ceil(math.Log2(float64(n)))) + 1

		target := values[rng.Intn(n)]
		path := BinaryPath(values, target)
		last := path[len(path)-1]
		if last.Outcome != Found || values[last.Mid] != target {
			t.Fatalf("round %d: target %d not found in %v", round, target, values)
		}
		if len(path) > bound {
			t.Errorf("round %d: %d steps exceeds bound %d", round, len(path), bound)
		}

		absent := values[n-1] + 1
		if rng.Intn(2) == 0 {
			absent = values[0] - 1
		}
		path = BinaryPath(values, absent)
		last = path[len(path)-1]
		if last.Outcome == Found || last.NextLeft <= last.NextRight {
			t.Errorf("round %d: absent target %d did not exhaust: %+v", round, absent, last)
		}
	}
}
