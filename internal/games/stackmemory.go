package games

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cs-practicals/algosim/internal/projection"
	"github.com/cs-practicals/algosim/internal/reward"
	"github.com/cs-practicals/algosim/internal/sim"
)

// Stack memory phases.
const (
	PhaseMemorize = "memorize"
	PhaseHidden   = "hidden"
	PhaseGuess    = "guess"
)

// StackState is the stack shown, then hidden, then popped by guesses.
// Stack is bottom first. Values reach clients only through the projection.
type StackState struct {
	Phase  string `json:"phase"`
	Stack  []int  `json:"-"`
	Pushed []int  `json:"-"`
	Popped []int  `json:"popped"`
	Wrong  int    `json:"wrong"`
}

// StackAction guesses the value on top of the stack.
type StackAction struct {
	Value string `json:"value"`
}

type stackMemoryRules struct {
	memorize time.Duration
	hide     time.Duration
}

func (stackMemoryRules) Validate(s StackState, a StackAction) error {
	if s.Phase != PhaseGuess {
		return sim.Invalid("wait until the stack is hidden before guessing")
	}
	if _, err := strconv.Atoi(strings.TrimSpace(a.Value)); err != nil {
		return sim.Invalid(fmt.Sprintf("%q is not a whole number", a.Value))
	}
	return nil
}

func (stackMemoryRules) Apply(s StackState, a StackAction) sim.Outcome[StackState] {
	guess, _ := strconv.Atoi(strings.TrimSpace(a.Value))
	top := s.Stack[len(s.Stack)-1]
	if guess != top {
		next := s
		next.Wrong++
		return wrong(next, wrongPenalty, fmt.Sprintf("%d is not on top of the stack", guess))
	}

	next := s
	next.Stack = append([]int(nil), s.Stack[:len(s.Stack)-1]...)
	next.Popped = append(append([]int(nil), s.Popped...), top)
	return sim.Outcome[StackState]{
		Next:  next,
		Delta: correctPoints,
		Move:  true,
		Steps: []sim.Step{sim.Pop{Value: top}},
	}
}

func (stackMemoryRules) Done(s StackState) bool {
	return s.Phase == PhaseGuess && len(s.Stack) == 0
}

func (stackMemoryRules) Bonus(s StackState, _ sim.State) int { return reward.Attempts(s.Wrong) }

func (r stackMemoryRules) Interval(s StackState) time.Duration {
	switch s.Phase {
	case PhaseMemorize:
		return r.memorize
	case PhaseHidden:
		return r.hide
	default:
		return 0
	}
}

func (stackMemoryRules) Tick(s StackState) sim.Outcome[StackState] {
	next := s
	var message string
	switch s.Phase {
	case PhaseMemorize:
		next.Phase = PhaseHidden
		message = "The stack is hidden"
	case PhaseHidden:
		next.Phase = PhaseGuess
		message = "What is on top of the stack?"
	default:
		return sim.Outcome[StackState]{Next: s}
	}
	return sim.Outcome[StackState]{
		Next:    next,
		Steps:   []sim.Step{sim.PhaseChange{From: s.Phase, To: next.Phase}},
		Notices: []sim.Notice{{Kind: sim.KindInfo, Message: message}},
	}
}

// NewStackMemory builds the stack memory game: the pushed values are shown
// for Memorize, hidden for Hide, then popped one guess at a time in LIFO
// order. The score never drops below zero.
func NewStackMemory(cfg Config, opts sim.Options) Game {
	rules := stackMemoryRules{memorize: cfg.Memorize, hide: cfg.Hide}
	if rules.memorize <= 0 {
		rules.memorize = DefaultMemorize
	}
	if rules.hide <= 0 {
		rules.hide = DefaultHide
	}
	opts.FloorAtZero = true

	e := newEngine[StackState, StackAction](KindStackMemory, cfg, rules, opts)
	e.initial = func(rng *sim.Rand) StackState {
		pushed := values(cfg, rng, cfg.level()+3, 1, 99)
		return StackState{
			Phase:  PhaseMemorize,
			Stack:  append([]int(nil), pushed...),
			Pushed: pushed,
		}
	}
	e.project = func(s StackState) any {
		return projection.StackCells(s.Stack, s.Phase != PhaseMemorize)
	}
	return e
}
