package oracle

import (
	"testing"

	"github.com/cs-practicals/algosim/internal/sim"
)

func TestBubbleTraceTextbookInput(t *testing.T) {
	input := []int{64, 34, 25, 12, 22, 11, 90}
	sorted, comparisons, swaps := BubbleTrace(input)

	want := []int{11, 12, 22, 25, 34, 64, 90}
	if !Equal(sorted, want) {
		t.Errorf("expected %v, got %v", want, sorted)
	}
	if comparisons != 21 {
		t.Errorf("expected 21 comparisons, got %d", comparisons)
	}
	if inv := Inversions(input); swaps != inv {
		t.Errorf("expected swaps (%d) to equal inversions (%d)", swaps, inv)
	}
	if swaps != 14 {
		t.Errorf("expected 14 swaps, got %d", swaps)
	}
	if input[0] != 64 {
		t.Error("input was modified")
	}
}

func TestBubbleCursor(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		sorted bool
	}{
		{name: "empty", n: 0, sorted: true},
		{name: "single", n: 1, sorted: true},
		{name: "pair", n: 2, sorted: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewBubbleCursor(tt.n).Sorted; got != tt.sorted {
				t.Errorf("expected sorted=%v, got %v", tt.sorted, got)
			}
		})
	}

	// Already sorted input stops after one pass.
	_, comparisons, swaps := BubbleTrace([]int{1, 2, 3, 4})
	if comparisons != 3 || swaps != 0 {
		t.Errorf("expected 3 comparisons and 0 swaps, got %d and %d", comparisons, swaps)
	}
}

func TestBubblePermutationInvariant(t *testing.T) {
	rng := sim.NewRand(99)
	for round := 0; round < 50; round++ {
		n := rng.Between(2, 10)
		values := make([]int, n)
		for i := range values {
			values[i] = rng.Between(-20, 20)
		}

		work := append([]int(nil), values...)
		c := NewBubbleCursor(n)
		for !c.Sorted {
			swap := BubbleSwap(work, c.J)
			if swap {
				work = SwapAt(work, c.J, c.J+1)
			}
			if !SameMultiset(values, work) {
				t.Fatalf("round %d: %v is not a permutation of %v", round, work, values)
			}
			c = c.Advance(swap)
		}
		if !SortedUpTo(work, n) {
			t.Errorf("round %d: not sorted: %v", round, work)
		}
	}
}

func TestInsertionPosition(t *testing.T) {
	tests := []struct {
		name  string
		hand  []int
		value int
		want  int
	}{
		{name: "empty hand", hand: nil, value: 5, want: 0},
		{name: "largest goes last", hand: []int{1, 3, 5}, value: 9, want: 3},
		{name: "smallest goes first", hand: []int{1, 3, 5}, value: 0, want: 0},
		{name: "middle", hand: []int{1, 3, 5}, value: 4, want: 2},
		{name: "equal stays after", hand: []int{1, 3, 5}, value: 3, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InsertionPosition(tt.hand, tt.value); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestInsertionSortedPrefix(t *testing.T) {
	deck := []int{7, 2, 9, 2, 5, 1}
	var hand []int
	for i, v := range deck {
		hand = InsertAt(hand, InsertionPosition(hand, v), v)
		if !SortedUpTo(hand, len(hand)) {
			t.Fatalf("after %d cards hand is unsorted: %v", i+1, hand)
		}
		if !SameMultiset(append(append([]int(nil), hand...), deck[i+1:]...), deck) {
			t.Fatalf("cards lost after %d insertions", i+1)
		}
	}
}

func TestPuzzleHintAndMinSwaps(t *testing.T) {
	target := []int{1, 2, 3, 4, 5}
	tests := []struct {
		name    string
		current []int
		want    int
	}{
		{name: "solved", current: []int{1, 2, 3, 4, 5}, want: 0},
		{name: "one transposition", current: []int{2, 1, 3, 4, 5}, want: 1},
		{name: "three cycle", current: []int{2, 3, 1, 4, 5}, want: 2},
		{name: "two transpositions", current: []int{2, 1, 4, 3, 5}, want: 2},
		{name: "reversed", current: []int{5, 4, 3, 2, 1}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MinSwaps(tt.current, target); got != tt.want {
				t.Errorf("expected %d swaps, got %d", tt.want, got)
			}
		})
	}

	if _, _, ok := PuzzleHint(target, target); ok {
		t.Error("expected no hint for solved puzzle")
	}
	i, j, ok := PuzzleHint([]int{3, 2, 1}, []int{1, 2, 3})
	if !ok || i != 0 || j != 2 {
		t.Errorf("expected hint (0,2), got (%d,%d,%v)", i, j, ok)
	}
	if got := MinSwaps([]int{1, 2}, []int{1, 3}); got != -1 {
		t.Errorf("expected -1 for different multisets, got %d", got)
	}
}
