package games

import (
	"fmt"
	"strings"

	"github.com/cs-practicals/algosim/internal/oracle"
	"github.com/cs-practicals/algosim/internal/projection"
	"github.com/cs-practicals/algosim/internal/reward"
	"github.com/cs-practicals/algosim/internal/sim"
)

// Request is a process waiting for memory.
type Request struct {
	PID  string `json:"pid"`
	Size int    `json:"size"`
}

// FirstFitState is the memory map, the queued requests and the points
// earned towards the target score.
type FirstFitState struct {
	Memory      oracle.Memory `json:"memory"`
	Requests    []Request     `json:"requests"`
	Earned      int           `json:"earned"`
	TargetScore int           `json:"target_score"`
	Wrong       int           `json:"wrong"`
}

// FirstFitAction allocates or frees memory. For "allocate" Block is the
// id of the block the player picks, or 0 to claim that nothing fits.
// PID and Size default to the first queued request.
type FirstFitAction struct {
	Type  string `json:"type"`
	PID   string `json:"pid,omitempty"`
	Size  int    `json:"size,omitempty"`
	Block int    `json:"block"`
}

const defaultTargetScore = 40

type firstFitRules struct{}

func (firstFitRules) Validate(s FirstFitState, a FirstFitAction) error {
	switch a.Type {
	case "allocate":
		req := resolveRequest(s, a)
		if req.PID == "" {
			return sim.Invalid("which process needs memory?")
		}
		if req.Size <= 0 {
			return sim.Invalid("requested size must be positive")
		}
		if a.Block != 0 && blockIndex(s.Memory, a.Block) < 0 {
			return sim.Invalid(fmt.Sprintf("there is no block %d", a.Block))
		}
		if _, held := s.Memory.Find(req.PID); held {
			return sim.Invalid(fmt.Sprintf("%s already holds a block", req.PID))
		}
	case "free":
		if strings.TrimSpace(a.PID) == "" {
			return sim.Invalid("which process should release its block?")
		}
	default:
		return sim.Invalid(`choose "allocate" or "free"`)
	}
	return nil
}

func (r firstFitRules) Apply(s FirstFitState, a FirstFitAction) sim.Outcome[FirstFitState] {
	if a.Type == "free" {
		return r.free(s, strings.TrimSpace(a.PID))
	}

	req := resolveRequest(s, a)
	fit, ok := oracle.FirstFit(s.Memory.Blocks, req.Size)
	if !ok {
		if a.Block != 0 {
			return r.miss(s, fmt.Sprintf("no free block can hold %d units", req.Size))
		}
		next := r.score(s, req.PID)
		return sim.Outcome[FirstFitState]{
			Next:    next,
			Delta:   correctPoints,
			Move:    true,
			Steps:   []sim.Step{sim.Note{Text: fmt.Sprintf("no suitable block for %s (%d)", req.PID, req.Size)}},
			Notices: []sim.Notice{{Kind: sim.KindWarning, Message: fmt.Sprintf("%s has to wait: %v", req.PID, oracle.ErrNoSuitableBlock)}},
		}
	}

	want := s.Memory.Blocks[fit]
	if a.Block != want.ID {
		return r.miss(s, fmt.Sprintf("first fit for %d units is block %d at address %d", req.Size, want.ID, want.Start))
	}
	mem, block, err := oracle.Allocate(s.Memory, req.PID, req.Size)
	if err != nil {
		return notice(s, sim.KindError, err.Error())
	}
	next := r.score(s, req.PID)
	next.Memory = mem
	return sim.Outcome[FirstFitState]{
		Next:  next,
		Delta: correctPoints,
		Move:  true,
		Steps: []sim.Step{sim.Allocate{PID: block.PID, Start: block.Start, Size: block.Size}},
	}
}

func (r firstFitRules) free(s FirstFitState, pid string) sim.Outcome[FirstFitState] {
	mem, block, err := oracle.Deallocate(s.Memory, pid)
	if err != nil {
		return notice(s, sim.KindInfo, fmt.Sprintf("%s holds no memory", pid))
	}
	next := s
	next.Memory = mem
	next.Earned += correctPoints
	return sim.Outcome[FirstFitState]{
		Next:  next,
		Delta: correctPoints,
		Move:  true,
		Steps: []sim.Step{sim.Free{PID: pid, Start: block.Start, Size: block.Size}},
	}
}

func (firstFitRules) miss(s FirstFitState, message string) sim.Outcome[FirstFitState] {
	next := s
	next.Wrong++
	next.Earned -= wrongPenalty
	return wrong(next, wrongPenalty, message)
}

// score credits a correct allocation decision and retires the request.
func (firstFitRules) score(s FirstFitState, pid string) FirstFitState {
	next := s
	next.Earned += correctPoints
	next.Requests = nil
	for _, req := range s.Requests {
		if req.PID != pid {
			next.Requests = append(next.Requests, req)
		}
	}
	return next
}

func (firstFitRules) Done(s FirstFitState) bool { return s.Earned >= s.TargetScore }

func (firstFitRules) Bonus(s FirstFitState, _ sim.State) int { return reward.Attempts(s.Wrong) }

func resolveRequest(s FirstFitState, a FirstFitAction) Request {
	req := Request{PID: strings.TrimSpace(a.PID), Size: a.Size}
	if req.PID == "" && len(s.Requests) > 0 {
		req.PID = s.Requests[0].PID
	}
	if req.Size == 0 {
		for _, q := range s.Requests {
			if q.PID == req.PID {
				req.Size = q.Size
				break
			}
		}
	}
	return req
}

func blockIndex(m oracle.Memory, id int) int {
	for i, b := range m.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// NewFirstFit builds the first-fit allocator. The round ends once the
// earned points reach the target score.
func NewFirstFit(cfg Config, opts sim.Options) Game {
	target := cfg.TargetScore
	if target <= 0 {
		target = defaultTargetScore
	}
	e := newEngine[FirstFitState, FirstFitAction](KindFirstFit, cfg, firstFitRules{}, opts)
	e.initial = func(rng *sim.Rand) FirstFitState {
		partitions := append([]int(nil), cfg.Partitions...)
		if len(partitions) == 0 {
			for i := 0; i < 5; i++ {
				partitions = append(partitions, 100*rng.Between(1, 6))
			}
		}
		requests := append([]Request(nil), cfg.Requests...)
		if len(requests) == 0 {
			for i := 0; i < cfg.level()+3; i++ {
				requests = append(requests, Request{PID: fmt.Sprintf("P%d", i+1), Size: rng.Between(50, 500)})
			}
		}
		return FirstFitState{Memory: oracle.NewMemory(partitions), Requests: requests, TargetScore: target}
	}
	e.project = func(s FirstFitState) any { return projection.MemoryMap(s.Memory) }
	e.hint = func(s FirstFitState) any {
		if len(s.Requests) == 0 {
			return nil
		}
		req := s.Requests[0]
		act := FirstFitAction{Type: "allocate", PID: req.PID, Size: req.Size}
		if i, ok := oracle.FirstFit(s.Memory.Blocks, req.Size); ok {
			act.Block = s.Memory.Blocks[i].ID
		}
		return act
	}
	return e
}
