package oracle

import "errors"

// Towers holds three stacks of disk sizes, bottom first.
type Towers [3][]int

// HanoiMove moves the top disk of From onto To.
type HanoiMove struct {
	Disk int `json:"disk"`
	From int `json:"from"`
	To   int `json:"to"`
}

// Illegal Hanoi moves.
var (
	ErrNoSuchTower     = errors.New("no such tower")
	ErrSameTower       = errors.New("source and destination are the same tower")
	ErrEmptyTower      = errors.New("source tower is empty")
	ErrLargerOnSmaller = errors.New("cannot place a larger disk on a smaller one")
)

// NewTowers stacks level disks on tower 0, largest at the bottom.
func NewTowers(level int) Towers {
	var t Towers
	t[0] = make([]int, 0, level)
	for d := level; d >= 1; d-- {
		t[0] = append(t[0], d)
	}
	t[1] = []int{}
	t[2] = []int{}
	return t
}

// HanoiMinMoves is 2^level - 1.
func HanoiMinMoves(level int) int {
	if level <= 0 {
		return 0
	}
	return 1<<uint(level) - 1
}

// HanoiSolution is the classical recursive solution moving level disks
// from tower from to tower to.
func HanoiSolution(level, from, via, to int) []HanoiMove {
	moves := make([]HanoiMove, 0, HanoiMinMoves(level))
	var solve func(n, from, via, to int)
	solve = func(n, from, via, to int) {
		if n == 0 {
			return
		}
		solve(n-1, from, to, via)
		moves = append(moves, HanoiMove{Disk: n, From: from, To: to})
		solve(n-1, via, from, to)
	}
	solve(level, from, via, to)
	return moves
}

// HanoiLegal checks a move against the towers.
func HanoiLegal(t Towers, from, to int) error {
	if from < 0 || from > 2 || to < 0 || to > 2 {
		return ErrNoSuchTower
	}
	if from == to {
		return ErrSameTower
	}
	if len(t[from]) == 0 {
		return ErrEmptyTower
	}
	disk := t[from][len(t[from])-1]
	if n := len(t[to]); n > 0 && t[to][n-1] < disk {
		return ErrLargerOnSmaller
	}
	return nil
}

// HanoiApply returns new towers with the move performed.
func HanoiApply(t Towers, from, to int) (Towers, HanoiMove, error) {
	if err := HanoiLegal(t, from, to); err != nil {
		return t, HanoiMove{}, err
	}
	out := t.Clone()
	disk := out[from][len(out[from])-1]
	out[from] = out[from][:len(out[from])-1]
	out[to] = append(out[to], disk)
	return out, HanoiMove{Disk: disk, From: from, To: to}, nil
}

// HanoiNextMove returns the optimal next move towards stacking every disk
// on target, from any legal position. ok is false when already solved.
func HanoiNextMove(t Towers, target int) (HanoiMove, bool) {
	n := t.Count()
	peg := make([]int, n+1)
	for i, tower := range t {
		for _, d := range tower {
			if d >= 1 && d <= n {
				peg[d] = i
			}
		}
	}

	var next func(k, dest int) (HanoiMove, bool)
	next = func(k, dest int) (HanoiMove, bool) {
		if k == 0 {
			return HanoiMove{}, false
		}
		if peg[k] == dest {
			return next(k-1, dest)
		}
		spare := 3 - peg[k] - dest
		if m, ok := next(k-1, spare); ok {
			return m, true
		}
		return HanoiMove{Disk: k, From: peg[k], To: dest}, true
	}
	return next(n, target)
}

// Clone deep-copies the towers.
func (t Towers) Clone() Towers {
	var out Towers
	for i := range t {
		out[i] = append([]int{}, t[i]...)
	}
	return out
}

// Count is the total number of disks.
func (t Towers) Count() int {
	return len(t[0]) + len(t[1]) + len(t[2])
}

// Valid reports whether every tower strictly decreases bottom to top.
func (t Towers) Valid() bool {
	for _, tower := range t {
		for i := 1; i < len(tower); i++ {
			if tower[i] >= tower[i-1] {
				return false
			}
		}
	}
	return true
}
