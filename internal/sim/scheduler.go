package sim

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Scheduler runs fire-once callbacks after a delay. Callbacks for one
// scheduler never run concurrently and fire in the order they were due,
// ties broken by scheduling order.
type Scheduler interface {
	Schedule(delay time.Duration, fn func())
	Now() time.Duration
}

type timer struct {
	due time.Duration
	seq uint64
	fn  func()
}

// timerHeap is a min-heap ordered by (due, seq).
type timerHeap []*timer

func (h timerHeap) Len() int      { return len(h) }
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h timerHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h *timerHeap) Push(x interface{}) {
	*h = append(*h, x.(*timer))
}

func (h *timerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// EventLoop is a virtual-time scheduler. Time only moves when Advance
// is called, which makes timer-driven games reproducible in tests.
type EventLoop struct {
	mu    sync.Mutex
	queue timerHeap
	seq   uint64
	now   time.Duration
	wake  func()
}

// NewEventLoop creates an empty loop at time zero.
func NewEventLoop() *EventLoop {
	l := &EventLoop{}
	heap.Init(&l.queue)
	return l
}

// Schedule enqueues fn to run delay after the loop's current time.
func (l *EventLoop) Schedule(delay time.Duration, fn func()) {
	l.mu.Lock()
	if delay < 0 {
		delay = 0
	}
	l.push(l.now+delay, fn)
	wake := l.wake
	l.mu.Unlock()
	if wake != nil {
		wake()
	}
}

func (l *EventLoop) push(due time.Duration, fn func()) {
	l.seq++
	heap.Push(&l.queue, &timer{due: due, seq: l.seq, fn: fn})
}

// Now returns the loop's virtual time.
func (l *EventLoop) Now() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now
}

// Advance moves time forward by d, running every callback that becomes
// due on the way. Callbacks scheduled by callbacks run in the same call
// if they fall inside the window. It returns the number of callbacks run.
func (l *EventLoop) Advance(d time.Duration) int {
	l.mu.Lock()
	target := l.now + d
	l.mu.Unlock()
	return l.AdvanceTo(target)
}

// AdvanceTo runs callbacks due at or before t and leaves the clock at t.
func (l *EventLoop) AdvanceTo(t time.Duration) int {
	ran := 0
	for {
		l.mu.Lock()
		if l.queue.Len() == 0 || l.queue[0].due > t {
			if t > l.now {
				l.now = t
			}
			l.mu.Unlock()
			return ran
		}
		next := heap.Pop(&l.queue).(*timer)
		if next.due > l.now {
			l.now = next.due
		}
		l.mu.Unlock()

		next.fn()
		ran++
	}
}

// NextDue reports when the earliest pending callback is due.
func (l *EventLoop) NextDue() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.queue.Len() == 0 {
		return 0, false
	}
	return l.queue[0].due, true
}

// Pending returns the number of callbacks still queued.
func (l *EventLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queue.Len()
}

// Clock drives an EventLoop in wall-clock time on a single goroutine.
type Clock struct {
	loop  *EventLoop
	start time.Time
	wake  chan struct{}
}

// NewClock creates a real-time scheduler. Call Run to start firing timers.
func NewClock() *Clock {
	c := &Clock{
		loop:  NewEventLoop(),
		start: time.Now(),
		wake:  make(chan struct{}, 1),
	}
	c.loop.wake = c.signal
	return c
}

func (c *Clock) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Now returns wall time elapsed since the clock was created.
func (c *Clock) Now() time.Duration {
	return time.Since(c.start)
}

// Schedule runs fn delay from now on the clock goroutine.
func (c *Clock) Schedule(delay time.Duration, fn func()) {
	c.loop.mu.Lock()
	if delay < 0 {
		delay = 0
	}
	c.loop.push(c.Now()+delay, fn)
	c.loop.mu.Unlock()
	c.signal()
}

// Run fires timers until ctx is cancelled. Pending timers are dropped
// on cancellation.
func (c *Clock) Run(ctx context.Context) {
	idle := time.NewTimer(time.Hour)
	defer idle.Stop()

	for {
		c.loop.AdvanceTo(c.Now())

		wait := time.Hour
		if due, ok := c.loop.NextDue(); ok {
			wait = due - c.Now()
			if wait < 0 {
				wait = 0
			}
		}
		if !idle.Stop() {
			select {
			case <-idle.C:
			default:
			}
		}
		idle.Reset(wait)

		select {
		case <-ctx.Done():
			return
		case <-c.wake:
		case <-idle.C:
		}
	}
}
