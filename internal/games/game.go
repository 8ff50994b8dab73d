// Package games binds each algorithm simulator to the generic sim.Runner.
// A game file supplies its state, its actions, the rules checked against
// the oracle and the projection; everything else is shared.
package games

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cs-practicals/algosim/internal/oracle"
	"github.com/cs-practicals/algosim/internal/sim"
)

// Kind identifies a simulator.
type Kind string

const (
	KindBubbleSort   Kind = "bubble_sort"
	KindArrayPuzzle  Kind = "array_puzzle"
	KindBinarySearch Kind = "binary_search"
	KindStackMemory  Kind = "stack_memory"
	KindQueueBus     Kind = "queue_bus"
	KindHanoi        Kind = "hanoi"
	KindRecursion    Kind = "recursion"
	KindInsertion    Kind = "insertion_cards"
	KindScheduling   Kind = "cpu_scheduling"
	KindFirstFit     Kind = "first_fit"
)

// ErrUnknownKind is returned by New for an unregistered kind.
var ErrUnknownKind = errors.New("unknown game kind")

// Config is the pre-resolved configuration a practical hands to its game.
// Zero fields fall back to seeded generation or package defaults.
type Config struct {
	Kind  Kind  `json:"kind"`
	Level int   `json:"level"`
	Seed  int64 `json:"seed"`

	// Values seeds the sorting, puzzle and search arrays.
	Values []int `json:"values,omitempty"`
	// Target is the binary search target.
	Target *int `json:"target,omitempty"`

	// A and B are the multiply(a, b) operands of the recursion game.
	A int `json:"a,omitempty"`
	B int `json:"b,omitempty"`

	Processes []oracle.Process `json:"processes,omitempty"`
	Algorithm oracle.Algorithm `json:"algorithm,omitempty"`

	Partitions  []int     `json:"partitions,omitempty"`
	Requests    []Request `json:"requests,omitempty"`
	TargetScore int       `json:"target_score,omitempty"`

	Capacity int `json:"capacity,omitempty"`

	// A negative SwapDelay commits swaps without animating them.
	SwapDelay    time.Duration `json:"swap_delay,omitempty"`
	Memorize     time.Duration `json:"memorize,omitempty"`
	Hide         time.Duration `json:"hide,omitempty"`
	Countdown    time.Duration `json:"countdown,omitempty"`
	ArrivalEvery time.Duration `json:"arrival_every,omitempty"`
}

// Default timings.
const (
	DefaultSwapDelay    = 400 * time.Millisecond
	DefaultMemorize     = 5 * time.Second
	DefaultHide         = 1 * time.Second
	DefaultCountdown    = 30 * time.Second
	DefaultArrivalEvery = 3 * time.Second
)

// Level bounds. Hanoi doubles its work with every disk, so it stops earlier.
const (
	MaxLevel      = 20
	MaxHanoiLevel = 10
)

// LevelLimit returns the highest level a kind is generated at.
func LevelLimit(kind Kind) int {
	if kind == KindHanoi {
		return MaxHanoiLevel
	}
	return MaxLevel
}

// level clamps the configured level into 1..LevelLimit(c.Kind).
func (c Config) level() int {
	if c.Level < 1 {
		return 1
	}
	return min(c.Level, LevelLimit(c.Kind))
}

// Game is a mounted simulator. Implementations are safe for concurrent use.
type Game interface {
	Kind() Kind
	// Start begins a round. Calling it again is a reset: a new puzzle is
	// drawn and timers of the old round are dropped.
	Start()
	// Stop discards the current round.
	Stop()
	// Act decodes and applies one action.
	Act(raw json.RawMessage) error
	// View returns a consistent snapshot with its projection and hint.
	View() View
}

// View is what a client renders.
type View struct {
	Kind       Kind      `json:"kind"`
	Phase      sim.Phase `json:"phase"`
	Round      uint64    `json:"round"`
	Busy       bool      `json:"busy"`
	Ledger     sim.State `json:"ledger"`
	State      any       `json:"state"`
	Projection any       `json:"projection"`
	Hint       any       `json:"hint,omitempty"`
	Log        sim.Log   `json:"log"`
}

// engine adapts a typed runner to the Game interface.
type engine[S any, A any] struct {
	kind    Kind
	runner  *sim.Runner[S, A]
	level   int
	rng     *sim.Rand
	initial func(rng *sim.Rand) S
	project func(S) any
	hint    func(S) any

	mu sync.Mutex
}

func newEngine[S any, A any](kind Kind, cfg Config, rules sim.Rules[S, A], opts sim.Options) *engine[S, A] {
	return &engine[S, A]{
		kind:   kind,
		runner: sim.NewRunner[S, A](rules, opts),
		level:  cfg.level(),
		rng:    sim.NewRand(cfg.Seed),
	}
}

func (e *engine[S, A]) Kind() Kind { return e.kind }

func (e *engine[S, A]) Start() {
	e.mu.Lock()
	initial := e.initial(e.rng)
	e.mu.Unlock()
	e.runner.Start(initial, e.level)
}

func (e *engine[S, A]) Stop() { e.runner.Stop() }

func (e *engine[S, A]) Act(raw json.RawMessage) error {
	var action A
	if err := json.Unmarshal(raw, &action); err != nil {
		return e.runner.Reject(sim.Invalid(fmt.Sprintf("malformed action: %v", err)))
	}
	return e.runner.Act(action)
}

func (e *engine[S, A]) View() View {
	snap := e.runner.Snapshot()
	v := View{
		Kind:       e.kind,
		Phase:      snap.Phase,
		Round:      snap.Round,
		Busy:       snap.Busy,
		Ledger:     snap.Ledger,
		State:      snap.State,
		Projection: e.project(snap.State),
		Log:        snap.Log,
	}
	if e.hint != nil && snap.Phase == sim.PhaseActive {
		v.Hint = e.hint(snap.State)
	}
	return v
}

// Constructor builds a game from its configuration.
type Constructor func(cfg Config, opts sim.Options) Game

var registry = map[Kind]Constructor{
	KindBubbleSort:   NewBubbleSort,
	KindArrayPuzzle:  NewArrayPuzzle,
	KindBinarySearch: NewBinarySearch,
	KindStackMemory:  NewStackMemory,
	KindQueueBus:     NewQueueBus,
	KindHanoi:        NewHanoi,
	KindRecursion:    NewRecursion,
	KindInsertion:    NewInsertion,
	KindScheduling:   NewScheduling,
	KindFirstFit:     NewFirstFit,
}

// New builds the game named by cfg.Kind.
func New(cfg Config, opts sim.Options) (Game, error) {
	build, ok := registry[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
	return build(cfg, opts), nil
}

// Kinds lists every registered kind in name order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// wrong builds a counted, penalized attempt that leaves state unchanged.
func wrong[S any](state S, penalty int, message string, steps ...sim.Step) sim.Outcome[S] {
	return sim.Outcome[S]{
		Next:    state,
		Delta:   -penalty,
		Move:    true,
		Steps:   steps,
		Notices: []sim.Notice{{Kind: sim.KindError, Message: message}},
	}
}

// notice builds an outcome that only informs the player.
func notice[S any](state S, kind sim.Kind, message string) sim.Outcome[S] {
	return sim.Outcome[S]{
		Next:    state,
		Notices: []sim.Notice{{Kind: kind, Message: message}},
	}
}

// Score deltas shared by most games.
const (
	correctPoints = 10
	wrongPenalty  = 5
)

// values returns the configured array or n distinct seeded values.
func values(cfg Config, rng *sim.Rand, n, lo, hi int) []int {
	if len(cfg.Values) > 0 {
		return append([]int(nil), cfg.Values...)
	}
	return rng.Distinct(n, lo, hi)
}
