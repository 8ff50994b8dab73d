package oracle

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Algorithm names a CPU scheduling policy.
type Algorithm string

const (
	FCFS Algorithm = "fcfs"
	SJF  Algorithm = "sjf"
	SRTF Algorithm = "srtf"
)

// Process is a job submitted to the simulated CPU.
type Process struct {
	ID      string `json:"id"`
	Arrival int    `json:"arrival"`
	Burst   int    `json:"burst"`
}

// ProcessResult is a process with its derived timings.
// For non-preemptive policies Completion = Start + Burst.
type ProcessResult struct {
	Process
	Start      int `json:"start"`
	Completion int `json:"completion"`
	Waiting    int `json:"waiting"`
	Turnaround int `json:"turnaround"`
}

// Slice is a contiguous CPU interval [Start, End) given to one process.
type Slice struct {
	PID   string `json:"pid"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Schedule is the complete outcome of one policy over a process set.
// Results keep the input order; Slices are in time order.
type Schedule struct {
	Algorithm         Algorithm       `json:"algorithm"`
	Results           []ProcessResult `json:"results"`
	Slices            []Slice         `json:"slices"`
	AverageWaiting    decimal.Decimal `json:"average_waiting"`
	AverageTurnaround decimal.Decimal `json:"average_turnaround"`
	Makespan          int             `json:"makespan"`
}

// Process set errors.
var (
	ErrNoProcesses      = errors.New("no processes to schedule")
	ErrUnknownAlgorithm = errors.New("unknown scheduling algorithm")
)

// ValidateProcesses rejects empty sets, duplicate ids, negative arrivals
// and non-positive bursts.
func ValidateProcesses(ps []Process) error {
	if len(ps) == 0 {
		return ErrNoProcesses
	}
	seen := make(map[string]bool, len(ps))
	for _, p := range ps {
		if p.ID == "" {
			return fmt.Errorf("process id is required")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate process id %s", p.ID)
		}
		seen[p.ID] = true
		if p.Arrival < 0 {
			return fmt.Errorf("process %s: arrival time must not be negative", p.ID)
		}
		if p.Burst <= 0 {
			return fmt.Errorf("process %s: burst time must be positive", p.ID)
		}
	}
	return nil
}

// Run schedules ps with the named policy.
func Run(alg Algorithm, ps []Process) (Schedule, error) {
	if err := ValidateProcesses(ps); err != nil {
		return Schedule{}, err
	}
	switch alg {
	case FCFS:
		return ScheduleFCFS(ps), nil
	case SJF:
		return ScheduleSJF(ps), nil
	case SRTF:
		return ScheduleSRTF(ps), nil
	default:
		return Schedule{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
}

// ScheduleFCFS runs processes by arrival time, ties in input order.
func ScheduleFCFS(ps []Process) Schedule {
	order := make([]int, len(ps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ps[order[a]].Arrival < ps[order[b]].Arrival
	})

	s := newSchedule(FCFS, ps)
	clock := 0
	for _, i := range order {
		clock = s.run(i, clock)
	}
	return s.finish()
}

// ScheduleSJF is non-preemptive shortest job first. At each decision
// point it picks the shortest arrived job, ties by earlier arrival then
// input order. An idle CPU jumps to the next arrival.
func ScheduleSJF(ps []Process) Schedule {
	s := newSchedule(SJF, ps)
	done := make([]bool, len(ps))
	clock := 0
	for left := len(ps); left > 0; {
		pick := -1
		for i, p := range ps {
			if done[i] || p.Arrival > clock {
				continue
			}
			if pick < 0 || shorter(p.Burst, p.Arrival, ps[pick].Burst, ps[pick].Arrival) {
				pick = i
			}
		}
		if pick < 0 {
			clock = nextArrival(ps, done, clock)
			continue
		}
		clock = s.run(pick, clock)
		done[pick] = true
		left--
	}
	return s.finish()
}

// ScheduleSRTF is preemptive shortest remaining time first. A newly
// arrived job preempts the running one only if its remaining time is
// strictly shorter; ties go to the earlier arrival.
func ScheduleSRTF(ps []Process) Schedule {
	s := newSchedule(SRTF, ps)
	remaining := make([]int, len(ps))
	started := make([]bool, len(ps))
	done := make([]bool, len(ps))
	for i, p := range ps {
		remaining[i] = p.Burst
	}

	clock := 0
	for left := len(ps); left > 0; {
		pick := -1
		for i, p := range ps {
			if done[i] || p.Arrival > clock {
				continue
			}
			if pick < 0 || shorter(remaining[i], p.Arrival, remaining[pick], ps[pick].Arrival) {
				pick = i
			}
		}
		if pick < 0 {
			clock = nextArrival(ps, done, clock)
			continue
		}

		run := remaining[pick]
		if next := nextArrival(ps, done, clock); next > clock && next-clock < run {
			run = next - clock
		}

		if !started[pick] {
			started[pick] = true
			s.results[pick].Start = clock
		}
		s.slice(ps[pick].ID, clock, clock+run)
		clock += run
		remaining[pick] -= run
		if remaining[pick] == 0 {
			done[pick] = true
			left--
			s.complete(pick, clock)
		}
	}
	return s.finish()
}

func shorter(burst, arrival, bestBurst, bestArrival int) bool {
	if burst != bestBurst {
		return burst < bestBurst
	}
	return arrival < bestArrival
}

// nextArrival is the earliest arrival after clock among unfinished
// processes, or clock when there is none.
func nextArrival(ps []Process, done []bool, clock int) int {
	next := -1
	for i, p := range ps {
		if done[i] || p.Arrival <= clock {
			continue
		}
		if next < 0 || p.Arrival < next {
			next = p.Arrival
		}
	}
	if next < 0 {
		return clock
	}
	return next
}

type builder struct {
	alg     Algorithm
	ps      []Process
	results []ProcessResult
	slices  []Slice
}

func newSchedule(alg Algorithm, ps []Process) *builder {
	b := &builder{alg: alg, ps: ps, results: make([]ProcessResult, len(ps))}
	for i, p := range ps {
		b.results[i] = ProcessResult{Process: p}
	}
	return b
}

// run gives process i the CPU without preemption and returns the new clock.
func (b *builder) run(i, clock int) int {
	p := b.ps[i]
	start := clock
	if p.Arrival > start {
		start = p.Arrival
	}
	b.results[i].Start = start
	b.slice(p.ID, start, start+p.Burst)
	b.complete(i, start+p.Burst)
	return start + p.Burst
}

func (b *builder) complete(i, at int) {
	r := &b.results[i]
	r.Completion = at
	r.Turnaround = at - r.Arrival
	r.Waiting = r.Turnaround - r.Burst
}

// slice appends an interval, merging with the previous one when the same
// process keeps the CPU.
func (b *builder) slice(pid string, start, end int) {
	if n := len(b.slices); n > 0 && b.slices[n-1].PID == pid && b.slices[n-1].End == start {
		b.slices[n-1].End = end
		return
	}
	b.slices = append(b.slices, Slice{PID: pid, Start: start, End: end})
}

func (b *builder) finish() Schedule {
	s := Schedule{Algorithm: b.alg, Results: b.results, Slices: b.slices}
	if len(b.results) == 0 {
		return s
	}
	var waiting, turnaround int64
	for _, r := range b.results {
		waiting += int64(r.Waiting)
		turnaround += int64(r.Turnaround)
		if r.Completion > s.Makespan {
			s.Makespan = r.Completion
		}
	}
	n := decimal.NewFromInt(int64(len(b.results)))
	s.AverageWaiting = decimal.NewFromInt(waiting).Div(n)
	s.AverageTurnaround = decimal.NewFromInt(turnaround).Div(n)
	return s
}
