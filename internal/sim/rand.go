package sim

// Rand is a seeded xorshift64 generator. Same seed, same puzzle.
type Rand struct {
	state uint64
}

// zeroSeed replaces a zero seed, which would keep xorshift at zero forever.
const zeroSeed = 0x9E3779B97F4A7C15

// NewRand creates a generator for the given seed.
func NewRand(seed int64) *Rand {
	s := uint64(seed)
	if s == 0 {
		s = zeroSeed
	}
	return &Rand{state: s}
}

// Uint64 returns the next raw value.
func (r *Rand) Uint64() uint64 {
	r.state = xorshift64(r.state)
	return r.state
}

// Intn returns a value in [0, n). It returns 0 when n <= 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Uint64() % uint64(n))
}

// Between returns a value in [lo, hi].
func (r *Rand) Between(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Shuffle permutes n elements with a Fisher-Yates pass.
func (r *Rand) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, r.Intn(i+1))
	}
}

// Perm returns a shuffled copy of values.
func (r *Rand) Perm(values []int) []int {
	out := append([]int(nil), values...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Distinct returns n distinct values drawn from [lo, hi] in draw order.
// It returns fewer than n when the range is too small.
func (r *Rand) Distinct(n, lo, hi int) []int {
	span := hi - lo + 1
	if n > span {
		n = span
	}
	if n <= 0 {
		return nil
	}
	seen := make(map[int]bool, n)
	out := make([]int, 0, n)
	for len(out) < n {
		v := r.Between(lo, hi)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func xorshift64(state uint64) uint64 {
	state ^= state << 13
	state ^= state >> 7
	state ^= state << 17
	return state
}
