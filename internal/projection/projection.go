// Package projection maps simulator state to render models. Projections
// never reorder or modify the data they are given; element i of the
// input is element i of the output.
package projection

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cs-practicals/algosim/internal/oracle"
)

// MaxBarHeight is the height of the tallest bar.
const MaxBarHeight = 100

// Band is a colour band assigned by value range.
type Band string

const (
	BandLow  Band = "low"
	BandMid  Band = "mid"
	BandHigh Band = "high"
)

// Bar is one value of a sorting visualizer.
type Bar struct {
	Index     int  `json:"index"`
	Value     int  `json:"value"`
	Height    int  `json:"height"`
	Band      Band `json:"band"`
	Highlight bool `json:"highlight"`
}

// Bars renders values as bars whose height is proportional to the value,
// relative to the largest magnitude.
func Bars(values []int, highlight ...int) []Bar {
	lo, hi := bounds(values)
	peak := hi
	if -lo > peak {
		peak = -lo
	}
	marked := make(map[int]bool, len(highlight))
	for _, i := range highlight {
		marked[i] = true
	}

	bars := make([]Bar, len(values))
	for i, v := range values {
		height := 0
		if peak > 0 {
			height = abs(v) * MaxBarHeight / peak
		}
		bars[i] = Bar{
			Index:     i,
			Value:     v,
			Height:    height,
			Band:      band(v, lo, hi),
			Highlight: marked[i],
		}
	}
	return bars
}

// band splits [lo, hi] into thirds.
func band(v, lo, hi int) Band {
	span := hi - lo + 1
	switch {
	case span <= 0 || (v-lo)*3 < span:
		return BandLow
	case (v-lo)*3 < 2*span:
		return BandMid
	default:
		return BandHigh
	}
}

// SearchCell is one array slot of the binary search stepper.
type SearchCell struct {
	Index      int  `json:"index"`
	Value      int  `json:"value"`
	InWindow   bool `json:"in_window"`
	Mid        bool `json:"mid"`
	Eliminated bool `json:"eliminated"`
}

// SearchWindow marks the live [left, right] window and the probed mid.
func SearchWindow(values []int, left, right, mid int) []SearchCell {
	cells := make([]SearchCell, len(values))
	for i, v := range values {
		in := i >= left && i <= right
		cells[i] = SearchCell{
			Index:      i,
			Value:      v,
			InWindow:   in,
			Mid:        i == mid,
			Eliminated: !in,
		}
	}
	return cells
}

// StackCell is one slot of the stack, bottom first. Value is nil while
// the stack is hidden.
type StackCell struct {
	Position int  `json:"position"`
	Value    *int `json:"value"`
	Top      bool `json:"top"`
}

// StackCells renders a stack bottom first. Hidden suppresses the values
// in the output only.
func StackCells(stack []int, hidden bool) []StackCell {
	cells := make([]StackCell, len(stack))
	for i := range stack {
		cells[i] = StackCell{Position: i, Top: i == len(stack)-1}
		if !hidden {
			v := stack[i]
			cells[i].Value = &v
		}
	}
	return cells
}

// QueueSlot is one position of a FIFO queue, front first.
type QueueSlot struct {
	Position int    `json:"position"`
	ID       string `json:"id,omitempty"`
	Value    int    `json:"value,omitempty"`
	Empty    bool   `json:"empty"`
	Front    bool   `json:"front"`
}

// QueueItem is anything with an identity and a value that can stand in a
// queue.
type QueueItem struct {
	ID    string
	Value int
}

// QueueSlots renders items front first, padded with empty slots up to
// capacity.
func QueueSlots(items []QueueItem, capacity int) []QueueSlot {
	n := len(items)
	if capacity > n {
		n = capacity
	}
	slots := make([]QueueSlot, n)
	for i := range slots {
		slots[i] = QueueSlot{Position: i, Empty: true}
		if i < len(items) {
			slots[i].ID = items[i].ID
			slots[i].Value = items[i].Value
			slots[i].Empty = false
			slots[i].Front = i == 0
		}
	}
	return slots
}

// Disk is one Hanoi disk with a width proportional to its size.
type Disk struct {
	Size  int `json:"size"`
	Width int `json:"width"`
}

// Tower is one Hanoi peg, bottom disk first.
type Tower struct {
	Name   string `json:"name"`
	Disks  []Disk `json:"disks"`
	Target bool   `json:"target"`
}

// Towers renders the three pegs as A, B and C.
func Towers(t oracle.Towers, target int) []Tower {
	largest := t.Count()
	out := make([]Tower, len(t))
	for i, peg := range t {
		disks := make([]Disk, len(peg))
		for j, size := range peg {
			width := 0
			if largest > 0 {
				width = size * MaxBarHeight / largest
			}
			disks[j] = Disk{Size: size, Width: width}
		}
		out[i] = Tower{Name: string(rune('A' + i)), Disks: disks, Target: i == target}
	}
	return out
}

// FrameView is one call frame of the recursion visualizer, outermost first.
type FrameView struct {
	Level  int    `json:"level"`
	Label  string `json:"label"`
	Result *int   `json:"result"`
	Active bool   `json:"active"`
}

// Frames renders the call stack.
func Frames(stack []oracle.Frame) []FrameView {
	out := make([]FrameView, len(stack))
	for i, f := range stack {
		out[i] = FrameView{
			Level:  f.Level,
			Label:  fmt.Sprintf("multiply(%d, %d)", f.A, f.B),
			Active: i == len(stack)-1,
		}
		if f.Resolved {
			r := f.Result
			out[i].Result = &r
		}
	}
	return out
}

// GanttBar is one interval of a Gantt chart. Idle bars fill CPU gaps.
type GanttBar struct {
	PID   string          `json:"pid,omitempty"`
	Start int             `json:"start"`
	End   int             `json:"end"`
	Idle  bool            `json:"idle"`
	Width decimal.Decimal `json:"width"`
}

// Gantt renders slices in time order with idle gaps made explicit.
// Width is the share of the makespan as a percentage.
func Gantt(slices []oracle.Slice) []GanttBar {
	if len(slices) == 0 {
		return nil
	}
	makespan := slices[len(slices)-1].End
	bars := make([]GanttBar, 0, len(slices))
	clock := 0
	for _, s := range slices {
		if s.Start > clock {
			bars = append(bars, GanttBar{Start: clock, End: s.Start, Idle: true, Width: share(s.Start-clock, makespan)})
		}
		bars = append(bars, GanttBar{PID: s.PID, Start: s.Start, End: s.End, Width: share(s.End-s.Start, makespan)})
		clock = s.End
	}
	return bars
}

// Segment is one block of the memory map.
type Segment struct {
	ID        int             `json:"id"`
	Start     int             `json:"start"`
	End       int             `json:"end"`
	Size      int             `json:"size"`
	Allocated bool            `json:"allocated"`
	PID       string          `json:"pid,omitempty"`
	Width     decimal.Decimal `json:"width"`
}

// MemoryMap renders blocks in address order.
func MemoryMap(m oracle.Memory) []Segment {
	total := m.Total()
	out := make([]Segment, len(m.Blocks))
	for i, b := range m.Blocks {
		out[i] = Segment{
			ID:        b.ID,
			Start:     b.Start,
			End:       b.End(),
			Size:      b.Size,
			Allocated: b.Allocated,
			PID:       b.PID,
			Width:     share(b.Size, total),
		}
	}
	return out
}

func share(part, whole int) decimal.Decimal {
	if whole <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).
		Round(2)
}

func bounds(values []int) (lo, hi int) {
	for i, v := range values {
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
