package games

import (
	"fmt"
	"sort"

	"github.com/cs-practicals/algosim/internal/oracle"
	"github.com/cs-practicals/algosim/internal/projection"
	"github.com/cs-practicals/algosim/internal/reward"
	"github.com/cs-practicals/algosim/internal/sim"
)

// SearchState is the fixed sorted array, the target and the live window.
// Mid is -1 until the first correct probe.
type SearchState struct {
	Values    []int          `json:"values"`
	Target    int            `json:"target"`
	Left      int            `json:"left"`
	Right     int            `json:"right"`
	Mid       int            `json:"mid"`
	Found     bool           `json:"found"`
	Exhausted bool           `json:"exhausted"`
	Path      []oracle.Probe `json:"path"`
	Wrong     int            `json:"wrong"`
}

// SearchAction probes one index of the window.
type SearchAction struct {
	Index int `json:"index"`
}

type binarySearchRules struct{}

func (binarySearchRules) Validate(s SearchState, a SearchAction) error {
	if a.Index < s.Left || a.Index > s.Right {
		return sim.Invalid(fmt.Sprintf("index %d is outside the window [%d, %d]", a.Index, s.Left, s.Right))
	}
	return nil
}

func (binarySearchRules) Apply(s SearchState, a SearchAction) sim.Outcome[SearchState] {
	p := oracle.BinaryStep(s.Values, s.Target, s.Left, s.Right)
	if a.Index != p.Mid {
		next := s
		next.Wrong++
		return wrong(next, wrongPenalty,
			fmt.Sprintf("mid is floor((%d + %d) / 2) = %d", s.Left, s.Right, p.Mid))
	}

	next := s
	next.Mid = p.Mid
	next.Left, next.Right = p.NextLeft, p.NextRight
	next.Path = append(append([]oracle.Probe(nil), s.Path...), p)
	next.Found = p.Outcome == oracle.Found
	next.Exhausted = !next.Found && next.Left > next.Right

	out := sim.Outcome[SearchState]{
		Next:  next,
		Delta: correctPoints,
		Move:  true,
		Steps: []sim.Step{sim.Probe{Left: p.Left, Right: p.Right, Mid: p.Mid, Value: p.Value, Outcome: string(p.Outcome)}},
	}
	if next.Exhausted {
		out.Notices = []sim.Notice{{Kind: sim.KindInfo, Message: fmt.Sprintf("%d is not in the array", s.Target)}}
	}
	return out
}

func (binarySearchRules) Done(s SearchState) bool { return s.Found || s.Exhausted }

func (binarySearchRules) Bonus(s SearchState, _ sim.State) int { return reward.Attempts(s.Wrong) }

// NewBinarySearch builds the binary search stepper. Configured values are
// sorted and deduplicated so the array is strictly increasing.
func NewBinarySearch(cfg Config, opts sim.Options) Game {
	e := newEngine[SearchState, SearchAction](KindBinarySearch, cfg, binarySearchRules{}, opts)
	e.initial = func(rng *sim.Rand) SearchState {
		vs := strictlySorted(values(cfg, rng, 4+3*cfg.level(), 1, 99))
		target := 0
		switch {
		case cfg.Target != nil:
			target = *cfg.Target
		case len(vs) > 0:
			target = vs[rng.Intn(len(vs))]
		}
		return SearchState{Values: vs, Target: target, Left: 0, Right: len(vs) - 1, Mid: -1, Exhausted: len(vs) == 0}
	}
	e.project = func(s SearchState) any {
		return projection.SearchWindow(s.Values, s.Left, s.Right, s.Mid)
	}
	e.hint = func(s SearchState) any {
		return SearchAction{Index: oracle.BinaryStep(s.Values, s.Target, s.Left, s.Right).Mid}
	}
	return e
}

func strictlySorted(vs []int) []int {
	out := append([]int(nil), vs...)
	sort.Ints(out)
	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}
	return out[:n]
}
