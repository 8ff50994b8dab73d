package games

import (
	"fmt"

	"github.com/cs-practicals/algosim/internal/oracle"
	"github.com/cs-practicals/algosim/internal/projection"
	"github.com/cs-practicals/algosim/internal/reward"
	"github.com/cs-practicals/algosim/internal/sim"
)

// HanoiState is the three towers and the tower that must end up full.
type HanoiState struct {
	Towers oracle.Towers `json:"towers"`
	Level  int           `json:"level"`
	Target int           `json:"target"`
	Min    int           `json:"min_moves"`
}

// HanoiAction moves the top disk of From onto To. Towers are 0, 1, 2.
type HanoiAction struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type hanoiRules struct{}

func (hanoiRules) Validate(_ HanoiState, a HanoiAction) error {
	if a.From < 0 || a.From > 2 || a.To < 0 || a.To > 2 {
		return sim.Invalid("towers are numbered 0 to 2")
	}
	return nil
}

// Apply performs legal moves only. An illegal move is reported and
// neither performed nor counted.
func (hanoiRules) Apply(s HanoiState, a HanoiAction) sim.Outcome[HanoiState] {
	towers, move, err := oracle.HanoiApply(s.Towers, a.From, a.To)
	if err != nil {
		return notice(s, sim.KindError, fmt.Sprintf("illegal move: %v", err))
	}
	next := s
	next.Towers = towers
	return sim.Outcome[HanoiState]{
		Next:  next,
		Move:  true,
		Steps: []sim.Step{sim.Move{Disk: move.Disk, From: move.From, To: move.To}},
	}
}

func (hanoiRules) Done(s HanoiState) bool { return len(s.Towers[s.Target]) == s.Level }

func (hanoiRules) Bonus(s HanoiState, ledger sim.State) int {
	return reward.Hanoi(s.Level, ledger.Moves, ledger.Elapsed)
}

// NewHanoi builds the Tower of Hanoi with level disks starting on tower A
// and targeting tower C.
func NewHanoi(cfg Config, opts sim.Options) Game {
	e := newEngine[HanoiState, HanoiAction](KindHanoi, cfg, hanoiRules{}, opts)
	e.initial = func(*sim.Rand) HanoiState {
		level := cfg.level()
		return HanoiState{
			Towers: oracle.NewTowers(level),
			Level:  level,
			Target: 2,
			Min:    oracle.HanoiMinMoves(level),
		}
	}
	e.project = func(s HanoiState) any { return projection.Towers(s.Towers, s.Target) }
	e.hint = func(s HanoiState) any {
		m, ok := oracle.HanoiNextMove(s.Towers, s.Target)
		if !ok {
			return nil
		}
		return HanoiAction{From: m.From, To: m.To}
	}
	return e
}
