package games

import (
	"fmt"
	"sort"

	"github.com/cs-practicals/algosim/internal/oracle"
	"github.com/cs-practicals/algosim/internal/projection"
	"github.com/cs-practicals/algosim/internal/reward"
	"github.com/cs-practicals/algosim/internal/sim"
)

// PuzzleState is the scrambled array and the order it must reach.
type PuzzleState struct {
	Current  []int `json:"current"`
	Target   []int `json:"target"`
	MinSwaps int   `json:"min_swaps"`
}

// PuzzleAction exchanges two positions.
type PuzzleAction struct {
	I int `json:"i"`
	J int `json:"j"`
}

const puzzlePenalty = 2

type arrayPuzzleRules struct{}

func (arrayPuzzleRules) Validate(s PuzzleState, a PuzzleAction) error {
	n := len(s.Current)
	if a.I < 0 || a.I >= n || a.J < 0 || a.J >= n {
		return sim.Invalid(fmt.Sprintf("positions must be between 0 and %d", n-1))
	}
	if a.I == a.J {
		return sim.Invalid("pick two different positions")
	}
	return nil
}

// Apply always performs the swap. It scores when an element that was out
// of place lands on its target position.
func (arrayPuzzleRules) Apply(s PuzzleState, a PuzzleAction) sim.Outcome[PuzzleState] {
	next := s
	next.Current = oracle.SwapAt(s.Current, a.I, a.J)
	steps := []sim.Step{sim.Swap{I: a.I, J: a.J}}

	if placed(s, next, a.I) || placed(s, next, a.J) {
		return sim.Outcome[PuzzleState]{Next: next, Delta: correctPoints, Move: true, Steps: steps}
	}
	return wrong(next, puzzlePenalty, "that swap placed nothing correctly", steps...)
}

func placed(before, after PuzzleState, i int) bool {
	return before.Current[i] != before.Target[i] && after.Current[i] == after.Target[i]
}

func (arrayPuzzleRules) Done(s PuzzleState) bool { return oracle.Equal(s.Current, s.Target) }

func (arrayPuzzleRules) Bonus(s PuzzleState, ledger sim.State) int {
	return reward.Puzzle(ledger.Moves, s.MinSwaps)
}

// NewArrayPuzzle builds the array puzzle. The target is the sorted
// configuration; the score never drops below zero.
func NewArrayPuzzle(cfg Config, opts sim.Options) Game {
	opts.FloorAtZero = true
	e := newEngine[PuzzleState, PuzzleAction](KindArrayPuzzle, cfg, arrayPuzzleRules{}, opts)
	e.initial = func(rng *sim.Rand) PuzzleState {
		vs := values(cfg, rng, cfg.level()+4, 1, 50)
		target := append([]int(nil), vs...)
		sort.Ints(target)

		current := vs
		if len(cfg.Values) == 0 {
			current = rng.Perm(target)
		}
		if oracle.Equal(current, target) && len(current) > 1 {
			current = oracle.SwapAt(current, 0, len(current)-1)
		}
		return PuzzleState{Current: current, Target: target, MinSwaps: oracle.MinSwaps(current, target)}
	}
	e.project = func(s PuzzleState) any {
		var wrongPlace []int
		for i := range s.Current {
			if s.Current[i] != s.Target[i] {
				wrongPlace = append(wrongPlace, i)
			}
		}
		return projection.Bars(s.Current, wrongPlace...)
	}
	e.hint = func(s PuzzleState) any {
		i, j, ok := oracle.PuzzleHint(s.Current, s.Target)
		if !ok {
			return nil
		}
		return PuzzleAction{I: i, J: j}
	}
	return e
}
