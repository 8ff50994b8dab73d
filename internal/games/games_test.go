package games

import (
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/cs-practicals/algosim/internal/sim"
)

// recorder collects notifications and completion scores.
type recorder struct {
	mu      sync.Mutex
	notices []sim.Notice
	scores  []int
}

func (r *recorder) Notify(kind sim.Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, sim.Notice{Kind: kind, Message: message})
}

func (r *recorder) complete(score int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores = append(r.scores, score)
}

func (r *recorder) count(kind sim.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, nt := range r.notices {
		if nt.Kind == kind {
			n++
		}
	}
	return n
}

func mount(t *testing.T, cfg Config) (Game, *sim.EventLoop, *recorder) {
	t.Helper()
	loop := sim.NewEventLoop()
	rec := &recorder{}
	g, err := New(cfg, sim.Options{Scheduler: loop, Notifier: rec, OnComplete: rec.complete})
	if err != nil {
		t.Fatalf("failed to build %s: %v", cfg.Kind, err)
	}
	g.Start()
	return g, loop, rec
}

func act(g Game, action any) error {
	raw, err := json.Marshal(action)
	if err != nil {
		return err
	}
	return g.Act(raw)
}

func mustAct(t *testing.T, g Game, action any) {
	t.Helper()
	if err := act(g, action); err != nil {
		t.Fatalf("action %+v failed: %v", action, err)
	}
}

func stateOf[S any](t *testing.T, g Game) S {
	t.Helper()
	s, ok := g.View().State.(S)
	if !ok {
		t.Fatalf("unexpected state type %T", g.View().State)
	}
	return s
}

func countSteps(log sim.Log, kind string) int {
	n := 0
	for _, e := range log {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestNewUnknownKind(t *testing.T) {
	if _, err := New(Config{Kind: "tetris"}, sim.Options{}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestEveryKindStarts(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 10 {
		t.Fatalf("expected 10 kinds, got %d", len(kinds))
	}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			g, _, _ := mount(t, Config{Kind: kind, Level: 2, Seed: 42})
			v := g.View()
			if v.Kind != kind || v.Phase != sim.PhaseActive {
				t.Errorf("unexpected view: kind=%s phase=%s", v.Kind, v.Phase)
			}
			if v.Projection == nil {
				t.Error("missing projection")
			}
			if v.Ledger.Level != 2 || v.Ledger.Moves != 0 || v.Ledger.Score != 0 {
				t.Errorf("unexpected fresh ledger %+v", v.Ledger)
			}
			if _, err := json.Marshal(v); err != nil {
				t.Errorf("view does not encode: %v", err)
			}
		})
	}
}

func TestSeededGenerationIsReproducible(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			a, _, _ := mount(t, Config{Kind: kind, Level: 3, Seed: 7})
			b, _, _ := mount(t, Config{Kind: kind, Level: 3, Seed: 7})
			if !reflect.DeepEqual(a.View().Projection, b.View().Projection) {
				t.Error("same seed produced different puzzles")
			}
		})
	}
}

// Following the oracle's hint must always complete the round with a
// single completion report.
func TestHintsSolveEveryGame(t *testing.T) {
	kinds := []Kind{
		KindBubbleSort, KindArrayPuzzle, KindBinarySearch, KindHanoi,
		KindRecursion, KindInsertion, KindScheduling, KindFirstFit,
	}
	for _, kind := range kinds {
		for seed := int64(1); seed <= 5; seed++ {
			g, loop, rec := mount(t, Config{Kind: kind, Level: 3, Seed: seed})
			for i := 0; i < 1000 && g.View().Phase == sim.PhaseActive; i++ {
				if err := act(g, g.View().Hint); err != nil {
					t.Fatalf("%s seed %d: hint rejected: %v", kind, seed, err)
				}
				loop.Advance(time.Second)
			}

			v := g.View()
			if v.Phase != sim.PhaseComplete || !v.Ledger.Complete {
				t.Fatalf("%s seed %d: not complete after following hints", kind, seed)
			}
			if len(rec.scores) != 1 || rec.scores[0] != v.Ledger.Score {
				t.Errorf("%s seed %d: completion reports %v, ledger score %d", kind, seed, rec.scores, v.Ledger.Score)
			}
			if rec.count(sim.KindError) != 0 {
				t.Errorf("%s seed %d: hints produced error notices: %+v", kind, seed, rec.notices)
			}
			if err := act(g, v.Hint); !errors.Is(err, sim.ErrNotActive) {
				t.Errorf("%s seed %d: expected ErrNotActive after completion, got %v", kind, seed, err)
			}
		}
	}
}

func TestMalformedActionIsInputError(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		raw  string
	}{
		{name: "truncated json", cfg: Config{Kind: KindHanoi, Level: 3}, raw: `{"from": "left"`},
		{name: "number for string field", cfg: Config{Kind: KindStackMemory, Level: 1}, raw: `{"value": 7}`},
		{name: "not an object", cfg: Config{Kind: KindBubbleSort}, raw: `[1, 2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, rec := mount(t, tt.cfg)
			before := rec.count(sim.KindError)

			err := g.Act(json.RawMessage(tt.raw))
			if !sim.IsInputError(err) {
				t.Fatalf("expected input error, got %v", err)
			}
			if g.View().Ledger.Moves != 0 {
				t.Error("malformed action counted a move")
			}
			if got := rec.count(sim.KindError) - before; got != 1 {
				t.Errorf("expected one error notice, got %d", got)
			}
		})
	}
}

func TestLevelIsClamped(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		level int
	}{
		{name: "hanoi above limit", cfg: Config{Kind: KindHanoi, Level: 64}, level: MaxHanoiLevel},
		{name: "hanoi at limit", cfg: Config{Kind: KindHanoi, Level: MaxHanoiLevel}, level: MaxHanoiLevel},
		{name: "scheduling above limit", cfg: Config{Kind: KindScheduling, Level: 2000000000}, level: MaxLevel},
		{name: "zero is one", cfg: Config{Kind: KindBubbleSort}, level: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, _ := mount(t, tt.cfg)
			if got := g.View().Ledger.Level; got != tt.level {
				t.Errorf("expected level %d, got %d", tt.level, got)
			}
		})
	}

	g, _, _ := mount(t, Config{Kind: KindHanoi, Level: 64})
	state := g.View().State.(HanoiState)
	if state.Min != 1023 {
		t.Errorf("expected 1023 minimum moves for %d disks, got %d", MaxHanoiLevel, state.Min)
	}
}

func TestStopDiscardsRound(t *testing.T) {
	g, _, _ := mount(t, Config{Kind: KindHanoi, Level: 3})
	g.Stop()
	if g.View().Phase != sim.PhaseIdle {
		t.Fatalf("expected idle after stop, got %s", g.View().Phase)
	}
	if err := act(g, HanoiAction{From: 0, To: 2}); !errors.Is(err, sim.ErrNotActive) {
		t.Errorf("expected ErrNotActive, got %v", err)
	}
}
