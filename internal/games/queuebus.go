package games

import (
	"fmt"
	"strings"
	"time"

	"github.com/cs-practicals/algosim/internal/projection"
	"github.com/cs-practicals/algosim/internal/reward"
	"github.com/cs-practicals/algosim/internal/sim"
)

// Passenger waits in the bus queue.
type Passenger struct {
	ID     string `json:"id"`
	Ticket int    `json:"ticket"`
}

// QueueState is the bus stop queue, front first, with the countdown to
// departure. Pending passengers arrive on later ticks.
type QueueState struct {
	Queue     []Passenger   `json:"queue"`
	Pending   []Passenger   `json:"-"`
	Boarded   []Passenger   `json:"boarded"`
	Remaining time.Duration `json:"remaining"`
	Ticks     int           `json:"ticks"`
	Capacity  int           `json:"capacity"`
	Wrong     int           `json:"wrong"`
}

// QueueAction boards one passenger.
type QueueAction struct {
	Passenger string `json:"passenger"`
}

const (
	queueTick            = time.Second
	defaultQueueCapacity = 6
)

type queueBusRules struct {
	arrivalTicks int
}

func (queueBusRules) Validate(s QueueState, a QueueAction) error {
	id := strings.TrimSpace(a.Passenger)
	if id == "" {
		return sim.Invalid("choose a passenger to board")
	}
	if len(s.Queue) > 0 && indexOfPassenger(s.Queue, id) < 0 {
		return sim.Invalid(fmt.Sprintf("%s is not waiting in the queue", id))
	}
	return nil
}

func (queueBusRules) Apply(s QueueState, a QueueAction) sim.Outcome[QueueState] {
	if len(s.Queue) == 0 {
		return notice(s, sim.KindInfo, "nobody is waiting")
	}
	front := s.Queue[0]
	id := strings.TrimSpace(a.Passenger)
	if id != front.ID {
		next := s
		next.Wrong++
		return wrong(next, wrongPenalty, fmt.Sprintf("%s must wait, %s is first in line", id, front.ID))
	}

	next := s
	next.Queue = append([]Passenger(nil), s.Queue[1:]...)
	next.Boarded = append(append([]Passenger(nil), s.Boarded...), front)
	return sim.Outcome[QueueState]{
		Next:  next,
		Delta: correctPoints,
		Move:  true,
		Steps: []sim.Step{sim.Dequeue{ID: front.ID, Value: front.Ticket}},
	}
}

func (queueBusRules) Done(s QueueState) bool { return s.Remaining <= 0 }

func (queueBusRules) Bonus(s QueueState, _ sim.State) int { return reward.Queue(len(s.Boarded)) }

func (queueBusRules) Interval(s QueueState) time.Duration {
	if s.Remaining <= 0 {
		return 0
	}
	return queueTick
}

// Tick counts down one second and lets the next passenger arrive every
// arrivalTicks ticks. A passenger who finds the queue full walks away.
func (r queueBusRules) Tick(s QueueState) sim.Outcome[QueueState] {
	next := s
	next.Remaining -= queueTick
	next.Ticks++
	out := sim.Outcome[QueueState]{}

	if next.Ticks%r.arrivalTicks == 0 && len(s.Pending) > 0 && next.Remaining > 0 {
		p := s.Pending[0]
		next.Pending = s.Pending[1:]
		if len(s.Queue) < s.Capacity {
			next.Queue = append(append([]Passenger(nil), s.Queue...), p)
			out.Steps = append(out.Steps, sim.Enqueue{ID: p.ID, Value: p.Ticket})
		} else {
			out.Notices = append(out.Notices, sim.Notice{
				Kind:    sim.KindWarning,
				Message: fmt.Sprintf("queue is full, %s walked away", p.ID),
			})
		}
	}
	if next.Remaining == 5*queueTick {
		out.Notices = append(out.Notices, sim.Notice{Kind: sim.KindWarning, Message: "the bus leaves in 5 seconds"})
	}
	out.Next = next
	return out
}

func indexOfPassenger(q []Passenger, id string) int {
	for i, p := range q {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// NewQueueBus builds the bus queue game. Passengers board strictly in
// arrival order until the countdown reaches zero.
func NewQueueBus(cfg Config, opts sim.Options) Game {
	countdown := cfg.Countdown
	if countdown <= 0 {
		countdown = DefaultCountdown
	}
	every := cfg.ArrivalEvery
	if every <= 0 {
		every = DefaultArrivalEvery
	}
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	rules := queueBusRules{arrivalTicks: int(every / queueTick)}
	if rules.arrivalTicks < 1 {
		rules.arrivalTicks = 1
	}

	e := newEngine[QueueState, QueueAction](KindQueueBus, cfg, rules, opts)
	e.initial = func(rng *sim.Rand) QueueState {
		waiting := cfg.level() + 1
		if waiting > capacity {
			waiting = capacity
		}
		arrivals := int(countdown / every)
		passengers := make([]Passenger, waiting+arrivals)
		for i := range passengers {
			passengers[i] = Passenger{ID: fmt.Sprintf("P%d", i+1), Ticket: rng.Between(100, 999)}
		}
		return QueueState{
			Queue:     passengers[:waiting],
			Pending:   passengers[waiting:],
			Remaining: countdown,
			Capacity:  capacity,
		}
	}
	e.project = func(s QueueState) any {
		items := make([]projection.QueueItem, len(s.Queue))
		for i, p := range s.Queue {
			items[i] = projection.QueueItem{ID: p.ID, Value: p.Ticket}
		}
		return projection.QueueSlots(items, s.Capacity)
	}
	e.hint = func(s QueueState) any {
		if len(s.Queue) == 0 {
			return nil
		}
		return QueueAction{Passenger: s.Queue[0].ID}
	}
	return e
}
