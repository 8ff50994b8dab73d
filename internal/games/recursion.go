package games

import (
	"fmt"

	"github.com/cs-practicals/algosim/internal/oracle"
	"github.com/cs-practicals/algosim/internal/projection"
	"github.com/cs-practicals/algosim/internal/reward"
	"github.com/cs-practicals/algosim/internal/sim"
)

// RecursionState is the explicit call stack of multiply(A, B).
type RecursionState struct {
	A     int            `json:"a"`
	B     int            `json:"b"`
	Stack []oracle.Frame `json:"stack"`
	Wrong int            `json:"wrong"`
}

// RecursionAction either pushes the next call or returns Value from the
// top frame.
type RecursionAction struct {
	Type  string `json:"type"`
	Value *int   `json:"value,omitempty"`
}

type recursionRules struct{}

func (recursionRules) Validate(_ RecursionState, a RecursionAction) error {
	switch oracle.FrameActionKind(a.Type) {
	case oracle.FrameCall:
		return nil
	case oracle.FrameReturn:
		if a.Value == nil {
			return sim.Invalid("a return needs a value")
		}
		return nil
	default:
		return sim.Invalid(`choose "call" or "return"`)
	}
}

func (recursionRules) Apply(s RecursionState, a RecursionAction) sim.Outcome[RecursionState] {
	want := oracle.NextFrameAction(s.Stack)
	kind := oracle.FrameActionKind(a.Type)
	top := s.Stack[len(s.Stack)-1]

	if kind != want.Kind || (kind == oracle.FrameReturn && *a.Value != want.Value) {
		next := s
		next.Wrong++
		return wrong(next, wrongPenalty, recursionMistake(top, want))
	}

	stack, err := oracle.ApplyFrameAction(s.Stack, kind)
	if err != nil {
		return notice(s, sim.KindError, err.Error())
	}
	next := s
	next.Stack = stack

	var step sim.Step = sim.Return{Level: top.Level, Result: want.Value}
	if kind == oracle.FrameCall {
		step = sim.Call{Level: top.Level + 1, A: top.A, B: top.B - 1}
	}
	return sim.Outcome[RecursionState]{Next: next, Delta: correctPoints, Move: true, Steps: []sim.Step{step}}
}

func recursionMistake(top oracle.Frame, want oracle.FrameAction) string {
	switch {
	case want.Kind == oracle.FrameCall:
		return fmt.Sprintf("multiply(%d, %d) needs multiply(%d, %d) first", top.A, top.B, top.A, top.B-1)
	case top.B <= 1:
		return fmt.Sprintf("multiply(%d, %d) is a base case", top.A, top.B)
	default:
		return fmt.Sprintf("multiply(%d, %d) returns %d + %d", top.A, top.B, top.A, top.Child)
	}
}

func (recursionRules) Done(s RecursionState) bool { return oracle.RootResolved(s.Stack) }

func (recursionRules) Bonus(s RecursionState, _ sim.State) int { return reward.Attempts(s.Wrong) }

// NewRecursion builds the call stack visualizer for multiply(a, b) by
// repeated addition. Unset operands are drawn from the seed.
func NewRecursion(cfg Config, opts sim.Options) Game {
	e := newEngine[RecursionState, RecursionAction](KindRecursion, cfg, recursionRules{}, opts)
	e.initial = func(rng *sim.Rand) RecursionState {
		a, b := cfg.A, cfg.B
		if a == 0 && b == 0 {
			a = rng.Between(2, 9)
			b = rng.Between(2, 2+cfg.level())
		}
		if b < 0 {
			b = 0
		}
		return RecursionState{A: a, B: b, Stack: oracle.RootFrame(a, b)}
	}
	e.project = func(s RecursionState) any { return projection.Frames(s.Stack) }
	e.hint = func(s RecursionState) any {
		want := oracle.NextFrameAction(s.Stack)
		if want.Kind == oracle.FrameCall {
			return RecursionAction{Type: string(want.Kind)}
		}
		v := want.Value
		return RecursionAction{Type: string(want.Kind), Value: &v}
	}
	return e
}
