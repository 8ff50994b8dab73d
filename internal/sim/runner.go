package sim

import (
	"fmt"
	"sync"
	"time"
)

// Phase is the coarse lifecycle of a runner.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseActive   Phase = "active"
	PhaseComplete Phase = "complete"
)

// Outcome is what a game's rules decide for one action or tick.
type Outcome[S any] struct {
	// Next is the committed successor state.
	Next S
	// Interim, when set together with Delay, is shown until Next commits.
	Interim *S
	// Delay postpones the commit of Next. The runner rejects actions
	// with ErrBusy until the commit fires.
	Delay time.Duration
	// Delta is added to the score. Move counts the action as a move.
	Delta int
	Move  bool

	Steps   []Step
	Notices []Notice
}

// Rules is the per-game part of a simulator: input validation, the
// oracle-checked transition, the terminal predicate and the bonus.
type Rules[S any, A any] interface {
	// Validate rejects malformed actions. Returned errors are reported as
	// error notifications and nothing else happens.
	Validate(state S, action A) error
	// Apply resolves a valid action against the oracle.
	Apply(state S, action A) Outcome[S]
	// Done reports whether state is terminal.
	Done(state S) bool
	// Bonus is the completion bonus for the terminal state.
	Bonus(state S, ledger State) int
}

// Ticker is implemented by rules that advance on timers. Interval is
// asked again after every commit; zero means no timer is armed.
type Ticker[S any] interface {
	Interval(state S) time.Duration
	Tick(state S) Outcome[S]
}

// Options wires a runner to its surroundings.
type Options struct {
	Scheduler  Scheduler
	Notifier   Notifier
	OnComplete func(score int)
	// FloorAtZero keeps the displayed score non-negative.
	FloorAtZero bool
}

// Snapshot is a consistent copy of a runner's visible state.
type Snapshot[S any] struct {
	Phase  Phase  `json:"phase"`
	State  S      `json:"state"`
	Ledger State  `json:"ledger"`
	Log    Log    `json:"log"`
	Busy   bool   `json:"busy"`
	Round  uint64 `json:"round"`
}

// Runner is the generic Idle -> Active -> Complete state machine shared
// by every game. It owns the game state exclusively.
type Runner[S any, A any] struct {
	rules  Rules[S, A]
	ticker Ticker[S]
	opts   Options

	mu        sync.Mutex
	phase     Phase
	state     S
	ledger    State
	log       Log
	busy      bool
	tickArmed bool
	round     uint64
	startedAt time.Duration
	reported  bool
	issued    uint64

	// Deliveries leave in the order their changes were committed.
	turn      sync.Mutex
	turnDone  *sync.Cond
	delivered uint64
}

type delivery struct {
	seq       uint64
	notices   []Notice
	completed bool
	score     int
}

// NewRunner creates an idle runner. Missing scheduler or notifier
// default to a private EventLoop and a discarding sink.
func NewRunner[S any, A any](rules Rules[S, A], opts Options) *Runner[S, A] {
	if opts.Scheduler == nil {
		opts.Scheduler = NewEventLoop()
	}
	if opts.Notifier == nil {
		opts.Notifier = discard{}
	}
	r := &Runner[S, A]{
		rules: rules,
		opts:  opts,
		phase: PhaseIdle,
	}
	r.turnDone = sync.NewCond(&r.turn)
	if t, ok := rules.(Ticker[S]); ok {
		r.ticker = t
	}
	return r
}

// Start begins a new round from initial. Any timer left over from a
// previous round is invalidated.
func (r *Runner[S, A]) Start(initial S, level int) {
	r.mu.Lock()
	r.round++
	r.phase = PhaseActive
	r.state = initial
	r.ledger = NewState(level)
	r.log = nil
	r.busy = false
	r.tickArmed = false
	r.reported = false
	r.startedAt = r.opts.Scheduler.Now()

	d := r.ticket()
	if r.rules.Done(initial) {
		r.complete(&d)
	} else {
		r.armTicker()
	}
	r.mu.Unlock()
	r.deliver(d)
}

// Stop discards the round. Pending timers become no-ops.
func (r *Runner[S, A]) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.round++
	r.phase = PhaseIdle
	r.busy = false
	r.tickArmed = false
}

// Act feeds one user action through validation, the rules and the
// completion policy.
func (r *Runner[S, A]) Act(action A) error {
	r.mu.Lock()
	if r.phase != PhaseActive {
		r.mu.Unlock()
		return ErrNotActive
	}
	if r.busy {
		r.mu.Unlock()
		return ErrBusy
	}
	if err := r.rules.Validate(r.state, action); err != nil {
		d := r.ticket()
		d.notices = []Notice{{Kind: KindError, Message: err.Error()}}
		r.mu.Unlock()
		r.deliver(d)
		return err
	}

	out := r.rules.Apply(r.state, action)
	d := r.apply(out)
	r.mu.Unlock()

	r.deliver(d)
	return nil
}

// Reject reports an action that could not be decoded. It notifies the
// error in order with other deliveries and returns err unchanged.
func (r *Runner[S, A]) Reject(err error) error {
	r.mu.Lock()
	d := r.ticket()
	d.notices = []Notice{{Kind: KindError, Message: err.Error()}}
	r.mu.Unlock()
	r.deliver(d)
	return err
}

// Snapshot returns the current visible state.
func (r *Runner[S, A]) Snapshot() Snapshot[S] {
	r.mu.Lock()
	defer r.mu.Unlock()

	ledger := r.ledger
	if r.phase == PhaseActive {
		ledger.Elapsed = r.opts.Scheduler.Now() - r.startedAt
	}
	return Snapshot[S]{
		Phase:  r.phase,
		State:  r.state,
		Ledger: ledger,
		Log:    r.log,
		Busy:   r.busy,
		Round:  r.round,
	}
}

// apply commits an outcome. Caller holds mu.
func (r *Runner[S, A]) apply(out Outcome[S]) delivery {
	d := r.ticket()
	d.notices = append(d.notices, out.Notices...)

	switch {
	case out.Move:
		r.ledger = ApplyDelta(r.ledger, out.Delta)
	case out.Delta != 0:
		r.ledger = AddBonus(r.ledger, out.Delta)
	}
	if r.opts.FloorAtZero {
		r.ledger = FloorAtZero(r.ledger)
	}
	for _, step := range out.Steps {
		r.log = Record(r.log, step)
	}

	if out.Delay > 0 {
		if out.Interim != nil {
			r.state = *out.Interim
		}
		r.busy = true
		round := r.round
		next := out.Next
		r.opts.Scheduler.Schedule(out.Delay, func() { r.commit(round, next) })
		return d
	}

	r.state = out.Next
	r.settle(&d)
	return d
}

// commit lands a delayed outcome unless its round has been replaced.
func (r *Runner[S, A]) commit(round uint64, next S) {
	r.mu.Lock()
	if round != r.round || r.phase != PhaseActive {
		r.mu.Unlock()
		return
	}
	r.state = next
	r.busy = false
	d := r.ticket()
	r.settle(&d)
	r.mu.Unlock()

	r.deliver(d)
}

// settle runs after every commit. Caller holds mu.
func (r *Runner[S, A]) settle(d *delivery) {
	r.ledger.Elapsed = r.opts.Scheduler.Now() - r.startedAt
	if r.rules.Done(r.state) {
		r.complete(d)
		return
	}
	r.armTicker()
}

func (r *Runner[S, A]) complete(d *delivery) {
	r.phase = PhaseComplete
	r.busy = false
	r.ledger.Complete = true
	r.ledger.Elapsed = r.opts.Scheduler.Now() - r.startedAt

	bonus := r.rules.Bonus(r.state, r.ledger)
	r.ledger = AddBonus(r.ledger, bonus)
	if r.opts.FloorAtZero {
		r.ledger = FloorAtZero(r.ledger)
	}
	d.notices = append(d.notices, Notice{
		Kind:    KindSuccess,
		Message: fmt.Sprintf("Complete! Final score %d (bonus %d)", r.ledger.Score, bonus),
	})
	if !r.reported {
		r.reported = true
		d.completed = true
		d.score = r.ledger.Score
	}
}

// armTicker schedules the next tick if the rules want one. Caller holds mu.
func (r *Runner[S, A]) armTicker() {
	if r.ticker == nil || r.tickArmed || r.phase != PhaseActive {
		return
	}
	interval := r.ticker.Interval(r.state)
	if interval <= 0 {
		return
	}
	r.tickArmed = true
	round := r.round
	r.opts.Scheduler.Schedule(interval, func() { r.tick(round) })
}

func (r *Runner[S, A]) tick(round uint64) {
	r.mu.Lock()
	if round != r.round {
		r.mu.Unlock()
		return
	}
	r.tickArmed = false
	if r.phase != PhaseActive {
		r.mu.Unlock()
		return
	}
	if r.busy {
		r.armTicker()
		r.mu.Unlock()
		return
	}
	d := r.apply(r.ticker.Tick(r.state))
	r.mu.Unlock()

	r.deliver(d)
}

// ticket numbers a delivery in commit order. Caller holds mu.
func (r *Runner[S, A]) ticket() delivery {
	r.issued++
	return delivery{seq: r.issued}
}

// deliver waits for every earlier delivery to finish, then runs the
// callbacks. Notifier and OnComplete must not call back into Act.
func (r *Runner[S, A]) deliver(d delivery) {
	r.turn.Lock()
	for r.delivered+1 != d.seq {
		r.turnDone.Wait()
	}
	r.turn.Unlock()

	for _, n := range d.notices {
		r.opts.Notifier.Notify(n.Kind, n.Message)
	}
	if d.completed && r.opts.OnComplete != nil {
		r.opts.OnComplete(d.score)
	}

	r.turn.Lock()
	r.delivered = d.seq
	r.turnDone.Broadcast()
	r.turn.Unlock()
}
