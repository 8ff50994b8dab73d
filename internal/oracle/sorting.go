// Package oracle holds the textbook algorithms the simulators are scored
// against. Every function is pure: inputs are never modified and the
// same inputs always give the same answer.
package oracle

// BubbleSwap reports whether the adjacent pair (j, j+1) is out of order.
// Out-of-range indices never need a swap.
func BubbleSwap(values []int, j int) bool {
	if j < 0 || j+1 >= len(values) {
		return false
	}
	return values[j] > values[j+1]
}

// BubbleCursor tracks where a bubble sort is within its passes.
// Comparisons in the current pass cover j in [0, Limit).
type BubbleCursor struct {
	Pass    int  `json:"pass"`
	J       int  `json:"j"`
	Limit   int  `json:"limit"`
	Swapped bool `json:"swapped"`
	Sorted  bool `json:"sorted"`
}

// NewBubbleCursor starts the first pass over n values.
func NewBubbleCursor(n int) BubbleCursor {
	c := BubbleCursor{Limit: n - 1}
	if n < 2 {
		c.Sorted = true
	}
	return c
}

// Advance moves past the current comparison. A pass that ends without a
// swap, or a pass range that shrinks to nothing, marks the array sorted.
func (c BubbleCursor) Advance(swapped bool) BubbleCursor {
	if c.Sorted {
		return c
	}
	c.Swapped = c.Swapped || swapped
	c.J++
	if c.J < c.Limit {
		return c
	}
	if !c.Swapped || c.Limit <= 1 {
		c.Sorted = true
		return c
	}
	c.Pass++
	c.J = 0
	c.Limit--
	c.Swapped = false
	return c
}

// BubbleTrace runs a complete bubble sort and reports the comparisons and
// swaps it took.
func BubbleTrace(values []int) (sorted []int, comparisons, swaps int) {
	sorted = append([]int(nil), values...)
	c := NewBubbleCursor(len(sorted))
	for !c.Sorted {
		comparisons++
		swap := BubbleSwap(sorted, c.J)
		if swap {
			sorted = SwapAt(sorted, c.J, c.J+1)
			swaps++
		}
		c = c.Advance(swap)
	}
	return sorted, comparisons, swaps
}

// Inversions counts pairs i < j with values[i] > values[j].
func Inversions(values []int) int {
	n := 0
	for i := 0; i < len(values); i++ {
		for j := i + 1; j < len(values); j++ {
			if values[i] > values[j] {
				n++
			}
		}
	}
	return n
}

// InsertionPosition is where value goes in a sorted hand: scan backward
// from the end while the predecessor is greater than value.
func InsertionPosition(hand []int, value int) int {
	pos := len(hand)
	for pos > 0 && hand[pos-1] > value {
		pos--
	}
	return pos
}

// InsertAt returns a copy of values with v placed at pos.
func InsertAt(values []int, pos, v int) []int {
	if pos < 0 {
		pos = 0
	}
	if pos > len(values) {
		pos = len(values)
	}
	out := make([]int, 0, len(values)+1)
	out = append(out, values[:pos]...)
	out = append(out, v)
	return append(out, values[pos:]...)
}

// SwapAt returns a copy of values with positions i and j exchanged.
func SwapAt(values []int, i, j int) []int {
	out := append([]int(nil), values...)
	if i >= 0 && j >= 0 && i < len(out) && j < len(out) {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// PuzzleHint suggests the swap that fixes the first misplaced position,
// preferring one that fixes both positions at once. ok is false when
// current already equals target.
func PuzzleHint(current, target []int) (i, j int, ok bool) {
	i = -1
	for k := range current {
		if k < len(target) && current[k] != target[k] {
			i = k
			break
		}
	}
	if i < 0 {
		return 0, 0, false
	}

	j = -1
	for k := i + 1; k < len(current); k++ {
		if current[k] != target[i] || current[k] == target[k] {
			continue
		}
		if current[i] == target[k] {
			return i, k, true
		}
		if j < 0 {
			j = k
		}
	}
	if j < 0 {
		return 0, 0, false
	}
	return i, j, true
}

// MinSwaps counts the swaps PuzzleHint needs to turn current into target.
// For distinct values this is the minimum (n minus the number of cycles).
func MinSwaps(current, target []int) int {
	if !SameMultiset(current, target) {
		return -1
	}
	work := append([]int(nil), current...)
	swaps := 0
	for {
		i, j, ok := PuzzleHint(work, target)
		if !ok {
			return swaps
		}
		work[i], work[j] = work[j], work[i]
		swaps++
	}
}

// Equal reports element-wise equality.
func Equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SameMultiset reports whether b is a permutation of a.
func SameMultiset(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[int]int, len(a))
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
		if counts[v] < 0 {
			return false
		}
	}
	return true
}

// SortedUpTo reports whether values[0:n] is non-decreasing.
func SortedUpTo(values []int, n int) bool {
	if n > len(values) {
		n = len(values)
	}
	for i := 1; i < n; i++ {
		if values[i-1] > values[i] {
			return false
		}
	}
	return true
}
