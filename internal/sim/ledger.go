package sim

import "time"

// State is the score and move ledger of one running simulator.
// It is a value type: every transition returns a new State.
type State struct {
	Score    int           `json:"score"`
	Moves    int           `json:"moves"`
	Elapsed  time.Duration `json:"elapsed"`
	Complete bool          `json:"is_complete"`
	Level    int           `json:"level"`
}

// NewState returns a fresh ledger for the given level (minimum 1).
func NewState(level int) State {
	if level < 1 {
		level = 1
	}
	return State{Level: level}
}

// ApplyDelta adds points (possibly negative) and counts one move.
func ApplyDelta(s State, points int) State {
	s.Score += points
	s.Moves++
	return s
}

// AddBonus adds points without counting a move.
func AddBonus(s State, points int) State {
	s.Score += points
	return s
}

// FloorAtZero clamps a negative score to zero. Only games that
// explicitly floor their score call it.
func FloorAtZero(s State) State {
	if s.Score < 0 {
		s.Score = 0
	}
	return s
}

// Entry is one recorded step with its position in the log.
type Entry struct {
	Seq  int    `json:"seq"`
	Kind string `json:"kind"`
	Text string `json:"text"`
	Step Step   `json:"step"`
}

// Log is an append-only step history in insertion order.
type Log []Entry

// Record returns a new log with step appended. The input is left untouched
// so earlier snapshots stay replayable.
func Record(log Log, step Step) Log {
	out := make(Log, len(log), len(log)+1)
	copy(out, log)
	return append(out, Entry{
		Seq:  len(log) + 1,
		Kind: step.Kind(),
		Text: step.Describe(),
		Step: step,
	})
}

// Steps returns the raw steps in order.
func (l Log) Steps() []Step {
	steps := make([]Step, len(l))
	for i, e := range l {
		steps[i] = e.Step
	}
	return steps
}
