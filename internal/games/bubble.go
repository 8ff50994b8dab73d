package games

import (
	"fmt"
	"time"

	"github.com/cs-practicals/algosim/internal/oracle"
	"github.com/cs-practicals/algosim/internal/projection"
	"github.com/cs-practicals/algosim/internal/reward"
	"github.com/cs-practicals/algosim/internal/sim"
)

// BubbleState is the array under sort and the comparison cursor.
type BubbleState struct {
	Values    []int               `json:"values"`
	Initial   []int               `json:"initial"`
	Cursor    oracle.BubbleCursor `json:"cursor"`
	Highlight []int               `json:"highlight,omitempty"`
	Swaps     int                 `json:"swaps"`
}

// BubbleAction answers the current comparison with "swap" or "keep".
type BubbleAction struct {
	Type string `json:"type"`
}

type bubbleSortRules struct {
	swapDelay time.Duration
}

func (bubbleSortRules) Validate(_ BubbleState, a BubbleAction) error {
	if a.Type != "swap" && a.Type != "keep" {
		return sim.Invalid(`choose "swap" or "keep"`)
	}
	return nil
}

func (r bubbleSortRules) Apply(s BubbleState, a BubbleAction) sim.Outcome[BubbleState] {
	j := s.Cursor.J
	needSwap := oracle.BubbleSwap(s.Values, j)
	cmp := sim.Compare{I: j, J: j + 1, Left: s.Values[j], Right: s.Values[j+1], Swapped: needSwap}

	if needSwap != (a.Type == "swap") {
		msg := fmt.Sprintf("%d and %d are already in order", s.Values[j], s.Values[j+1])
		if needSwap {
			msg = fmt.Sprintf("%d > %d, they must be swapped", s.Values[j], s.Values[j+1])
		}
		return wrong(s, wrongPenalty, msg, cmp)
	}

	next := s
	next.Highlight = nil
	next.Cursor = s.Cursor.Advance(needSwap)
	out := sim.Outcome[BubbleState]{Delta: correctPoints, Move: true, Steps: []sim.Step{cmp}}
	if !needSwap {
		out.Next = next
		return out
	}

	next.Values = oracle.SwapAt(s.Values, j, j+1)
	next.Swaps++
	out.Next = next
	out.Steps = append(out.Steps, sim.Swap{I: j, J: j + 1})
	if r.swapDelay > 0 {
		interim := s
		interim.Highlight = []int{j, j + 1}
		out.Interim = &interim
		out.Delay = r.swapDelay
	}
	return out
}

func (bubbleSortRules) Done(s BubbleState) bool { return s.Cursor.Sorted }

func (bubbleSortRules) Bonus(_ BubbleState, ledger sim.State) int {
	return reward.Bubble(ledger.Moves)
}

// NewBubbleSort builds the bubble sort visualizer. Each answer covers the
// pair (j, j+1) under the cursor; a correct swap animates for SwapDelay.
func NewBubbleSort(cfg Config, opts sim.Options) Game {
	delay := cfg.SwapDelay
	if delay == 0 {
		delay = DefaultSwapDelay
	}
	e := newEngine[BubbleState, BubbleAction](KindBubbleSort, cfg, bubbleSortRules{swapDelay: delay}, opts)
	e.initial = func(rng *sim.Rand) BubbleState {
		vs := values(cfg, rng, cfg.level()+4, 5, 99)
		return BubbleState{
			Values:  vs,
			Initial: append([]int(nil), vs...),
			Cursor:  oracle.NewBubbleCursor(len(vs)),
		}
	}
	e.project = func(s BubbleState) any {
		return projection.Bars(s.Values, s.Highlight...)
	}
	e.hint = func(s BubbleState) any {
		if oracle.BubbleSwap(s.Values, s.Cursor.J) {
			return BubbleAction{Type: "swap"}
		}
		return BubbleAction{Type: "keep"}
	}
	return e
}
