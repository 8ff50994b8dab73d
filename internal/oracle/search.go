package oracle

// SearchOutcome is the branch a binary search probe takes.
type SearchOutcome string

const (
	Found       SearchOutcome = "found"
	SearchRight SearchOutcome = "search_right"
	SearchLeft  SearchOutcome = "search_left"
	Exhausted   SearchOutcome = "exhausted"
)

// Probe is one binary search step over the window [Left, Right].
type Probe struct {
	Left      int           `json:"left"`
	Right     int           `json:"right"`
	Mid       int           `json:"mid"`
	Value     int           `json:"value"`
	Outcome   SearchOutcome `json:"outcome"`
	NextLeft  int           `json:"next_left"`
	NextRight int           `json:"next_right"`
}

// BinaryStep probes mid = floor((left+right)/2). An empty window
// (left > right) reports Exhausted with Mid -1.
func BinaryStep(values []int, target, left, right int) Probe {
	if left < 0 {
		left = 0
	}
	if right >= len(values) {
		right = len(values) - 1
	}
	if left > right {
		return Probe{Left: left, Right: right, Mid: -1, Outcome: Exhausted, NextLeft: left, NextRight: right}
	}

	mid := (left + right) / 2
	p := Probe{Left: left, Right: right, Mid: mid, Value: values[mid], NextLeft: left, NextRight: right}
	switch {
	case values[mid] == target:
		p.Outcome = Found
	case values[mid] < target:
		p.Outcome = SearchRight
		p.NextLeft = mid + 1
	default:
		p.Outcome = SearchLeft
		p.NextRight = mid - 1
	}
	return p
}

// BinaryPath runs the search to termination. The last probe is either
// Found or leaves an empty window behind it.
func BinaryPath(values []int, target int) []Probe {
	var path []Probe
	left, right := 0, len(values)-1
	for left <= right {
		p := BinaryStep(values, target, left, right)
		path = append(path, p)
		if p.Outcome == Found {
			break
		}
		left, right = p.NextLeft, p.NextRight
	}
	return path
}

// StrictlySorted reports whether values is strictly increasing.
func StrictlySorted(values []int) bool {
	for i := 1; i < len(values); i++ {
		if values[i-1] >= values[i] {
			return false
		}
	}
	return true
}
