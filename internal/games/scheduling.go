package games

import (
	"fmt"
	"strings"

	"github.com/cs-practicals/algosim/internal/oracle"
	"github.com/cs-practicals/algosim/internal/projection"
	"github.com/cs-practicals/algosim/internal/reward"
	"github.com/cs-practicals/algosim/internal/sim"
)

// SchedulingState is the process table being edited and, once the player
// schedules it, the computed schedule.
type SchedulingState struct {
	Algorithm oracle.Algorithm `json:"algorithm"`
	Processes []oracle.Process `json:"processes"`
	Schedule  *oracle.Schedule `json:"schedule,omitempty"`
	NextID    int              `json:"next_id"`
}

// SchedulingAction edits the process table or runs the scheduler.
// Type is "add", "remove" or "schedule". An empty ID on add is numbered
// automatically; Algorithm on schedule overrides the configured one.
type SchedulingAction struct {
	Type      string           `json:"type"`
	ID        string           `json:"id,omitempty"`
	Arrival   int              `json:"arrival,omitempty"`
	Burst     int              `json:"burst,omitempty"`
	Algorithm oracle.Algorithm `json:"algorithm,omitempty"`
}

// SchedulingView is the process table with the Gantt chart once scheduled.
type SchedulingView struct {
	Processes []oracle.ProcessResult `json:"processes"`
	Gantt     []projection.GanttBar  `json:"gantt,omitempty"`
}

type schedulingRules struct{}

func (schedulingRules) Validate(s SchedulingState, a SchedulingAction) error {
	switch a.Type {
	case "add":
		if a.Arrival < 0 {
			return sim.Invalid("arrival time must not be negative")
		}
		if a.Burst <= 0 {
			return sim.Invalid("burst time must be positive")
		}
		if id := strings.TrimSpace(a.ID); id != "" && indexOfProcess(s.Processes, id) >= 0 {
			return sim.Invalid(fmt.Sprintf("process %s already exists", id))
		}
	case "remove":
		if strings.TrimSpace(a.ID) == "" {
			return sim.Invalid("which process should be removed?")
		}
	case "schedule":
		alg := a.Algorithm
		if alg == "" {
			alg = s.Algorithm
		}
		if alg != oracle.FCFS && alg != oracle.SJF && alg != oracle.SRTF {
			return sim.Invalid(fmt.Sprintf("unknown algorithm %q", alg))
		}
		if err := oracle.ValidateProcesses(s.Processes); err != nil {
			return sim.Invalid(err.Error())
		}
	default:
		return sim.Invalid(`choose "add", "remove" or "schedule"`)
	}
	return nil
}

func (schedulingRules) Apply(s SchedulingState, a SchedulingAction) sim.Outcome[SchedulingState] {
	next := s
	switch a.Type {
	case "add":
		next.NextID++
		id := strings.TrimSpace(a.ID)
		if id == "" {
			id = fmt.Sprintf("P%d", next.NextID)
			for indexOfProcess(s.Processes, id) >= 0 {
				next.NextID++
				id = fmt.Sprintf("P%d", next.NextID)
			}
		}
		p := oracle.Process{ID: id, Arrival: a.Arrival, Burst: a.Burst}
		next.Processes = append(append([]oracle.Process(nil), s.Processes...), p)
		return notice(next, sim.KindInfo, fmt.Sprintf("added %s (arrival %d, burst %d)", id, p.Arrival, p.Burst))

	case "remove":
		i := indexOfProcess(s.Processes, strings.TrimSpace(a.ID))
		if i < 0 {
			return notice(s, sim.KindInfo, fmt.Sprintf("no process %s to remove", a.ID))
		}
		ps := append([]oracle.Process(nil), s.Processes[:i]...)
		next.Processes = append(ps, s.Processes[i+1:]...)
		return notice(next, sim.KindInfo, fmt.Sprintf("removed %s", a.ID))
	}

	alg := a.Algorithm
	if alg == "" {
		alg = s.Algorithm
	}
	sched, err := oracle.Run(alg, s.Processes)
	if err != nil {
		return notice(s, sim.KindError, err.Error())
	}
	next.Algorithm = alg
	next.Schedule = &sched

	steps := make([]sim.Step, len(sched.Slices))
	for i, sl := range sched.Slices {
		steps[i] = sim.Dispatch{PID: sl.PID, Start: sl.Start, End: sl.End}
	}
	summary := fmt.Sprintf("%s: average waiting %s, average turnaround %s",
		strings.ToUpper(string(alg)), sched.AverageWaiting.StringFixed(2), sched.AverageTurnaround.StringFixed(2))
	return sim.Outcome[SchedulingState]{
		Next:    next,
		Delta:   correctPoints * len(s.Processes),
		Move:    true,
		Steps:   steps,
		Notices: []sim.Notice{{Kind: sim.KindInfo, Message: summary}},
	}
}

func (schedulingRules) Done(s SchedulingState) bool { return s.Schedule != nil }

func (schedulingRules) Bonus(s SchedulingState, _ sim.State) int {
	if s.Schedule == nil {
		return 0
	}
	return reward.Scheduling(s.Schedule.AverageTurnaround)
}

func indexOfProcess(ps []oracle.Process, id string) int {
	for i, p := range ps {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// NewScheduling builds the CPU scheduling simulator. The schedule is
// computed in one shot when the player asks for it.
func NewScheduling(cfg Config, opts sim.Options) Game {
	alg := cfg.Algorithm
	if alg == "" {
		alg = oracle.FCFS
	}
	e := newEngine[SchedulingState, SchedulingAction](KindScheduling, cfg, schedulingRules{}, opts)
	e.initial = func(rng *sim.Rand) SchedulingState {
		ps := append([]oracle.Process(nil), cfg.Processes...)
		if len(ps) == 0 {
			for i := 0; i < cfg.level()+2; i++ {
				ps = append(ps, oracle.Process{
					ID:      fmt.Sprintf("P%d", i+1),
					Arrival: rng.Between(0, 6),
					Burst:   rng.Between(1, 9),
				})
			}
		}
		return SchedulingState{Algorithm: alg, Processes: ps, NextID: len(ps)}
	}
	e.project = func(s SchedulingState) any {
		if s.Schedule == nil {
			rows := make([]oracle.ProcessResult, len(s.Processes))
			for i, p := range s.Processes {
				rows[i] = oracle.ProcessResult{Process: p}
			}
			return SchedulingView{Processes: rows}
		}
		return SchedulingView{Processes: s.Schedule.Results, Gantt: projection.Gantt(s.Schedule.Slices)}
	}
	e.hint = func(s SchedulingState) any {
		if oracle.ValidateProcesses(s.Processes) != nil {
			return SchedulingAction{Type: "add", Burst: 1}
		}
		return SchedulingAction{Type: "schedule", Algorithm: s.Algorithm}
	}
	return e
}
