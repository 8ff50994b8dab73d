package oracle

import (
	"errors"
	"testing"
)

func TestHanoiMinMoves(t *testing.T) {
	for level, want := range map[int]int{0: 0, 1: 1, 3: 7, 4: 15, 5: 31, 6: 63} {
		if got := HanoiMinMoves(level); got != want {
			t.Errorf("level %d: expected %d, got %d", level, want, got)
		}
	}
}

func TestHanoiSolutionLevelThree(t *testing.T) {
	want := []HanoiMove{
		{Disk: 1, From: 0, To: 2},
		{Disk: 2, From: 0, To: 1},
		{Disk: 1, From: 2, To: 1},
		{Disk: 3, From: 0, To: 2},
		{Disk: 1, From: 1, To: 0},
		{Disk: 2, From: 1, To: 2},
		{Disk: 1, From: 0, To: 2},
	}
	got := HanoiSolution(3, 0, 1, 2)
	if len(got) != len(want) {
		t.Fatalf("expected %d moves, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("move %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestHanoiSolutionIsLegal(t *testing.T) {
	for level := 3; level <= 6; level++ {
		towers := NewTowers(level)
		moves := HanoiSolution(level, 0, 1, 2)
		if len(moves) != HanoiMinMoves(level) {
			t.Errorf("level %d: %d moves, expected %d", level, len(moves), HanoiMinMoves(level))
		}
		for i, m := range moves {
			var err error
			towers, _, err = HanoiApply(towers, m.From, m.To)
			if err != nil {
				t.Fatalf("level %d move %d: %v", level, i, err)
			}
			if !towers.Valid() || towers.Count() != level {
				t.Fatalf("level %d move %d: invalid towers %v", level, i, towers)
			}
		}
		if len(towers[2]) != level {
			t.Errorf("level %d: tower C holds %d disks", level, len(towers[2]))
		}
	}
}

func TestHanoiLegal(t *testing.T) {
	towers := Towers{{3, 1}, {2}, {}}
	tests := []struct {
		name     string
		from, to int
		want     error
	}{
		{name: "onto empty", from: 0, to: 2, want: nil},
		{name: "small onto large", from: 0, to: 1, want: nil},
		{name: "large onto small", from: 1, to: 0, want: ErrLargerOnSmaller},
		{name: "empty source", from: 2, to: 0, want: ErrEmptyTower},
		{name: "same tower", from: 1, to: 1, want: ErrSameTower},
		{name: "out of range", from: 0, to: 3, want: ErrNoSuchTower},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := HanoiLegal(towers, tt.from, tt.to); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestHanoiApplyLeavesInputUntouched(t *testing.T) {
	towers := NewTowers(3)
	out, move, err := HanoiApply(towers, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if move.Disk != 1 || len(out[2]) != 1 || len(towers[0]) != 3 {
		t.Errorf("unexpected result: move=%+v towers=%v original=%v", move, out, towers)
	}
}

func TestHanoiNextMoveFromAnyPosition(t *testing.T) {
	towers := NewTowers(4)
	// Wander off the optimal path first.
	towers, _, _ = HanoiApply(towers, 0, 1)
	towers, _, _ = HanoiApply(towers, 0, 2)

	for i := 0; i < 100; i++ {
		m, ok := HanoiNextMove(towers, 2)
		if !ok {
			break
		}
		var err error
		towers, _, err = HanoiApply(towers, m.From, m.To)
		if err != nil {
			t.Fatalf("hint %d was illegal: %+v: %v", i, m, err)
		}
	}
	if len(towers[2]) != 4 {
		t.Errorf("hints did not solve the puzzle: %v", towers)
	}

	if _, ok := HanoiNextMove(towers, 2); ok {
		t.Error("expected no move once solved")
	}
}

func TestHanoiNextMoveFollowsOptimalPath(t *testing.T) {
	towers := NewTowers(5)
	for i, want := range HanoiSolution(5, 0, 1, 2) {
		got, ok := HanoiNextMove(towers, 2)
		if !ok || got != want {
			t.Fatalf("move %d: expected %+v, got %+v", i, want, got)
		}
		towers, _, _ = HanoiApply(towers, got.From, got.To)
	}
}
