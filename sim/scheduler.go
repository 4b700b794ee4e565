package sim

import (
	"container/heap"
	"fmt"

	"github.com/panyam/qsim/core"
)

// Scheduler owns the virtual clock and the timeline of pending events.
// It is the single authority that resumes suspended processes: events are
// dispatched in (timestamp, schedule-order) order, and the clock never
// moves backward. A Scheduler drives exactly one run and must only be
// used from a single goroutine.
type Scheduler struct {
	now     core.Duration
	queue   eventQueue
	nextSeq uint64
	failure error
	running bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() core.Duration {
	return s.now
}

// Pending returns the number of events still queued.
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

// Schedule inserts a resume event at now+delay. A negative delay is a
// defect in the calling process: the error (wrapping ErrInvalidDelay) is
// returned and also latched so that Run aborts, since continuations have
// no error channel of their own.
func (s *Scheduler) Schedule(delay core.Duration, fn func()) error {
	if delay < 0 {
		err := fmt.Errorf("schedule at t=%g with delay %g: %w", s.now, delay, ErrInvalidDelay)
		s.fail(err)
		return err
	}
	ev := &event{at: s.now + delay, seq: s.nextSeq, fn: fn}
	s.nextSeq++
	heap.Push(&s.queue, ev)
	return nil
}

// Run drains the event queue, advancing the clock to each event's
// timestamp before resuming its continuation. It returns when the queue
// is empty, or returns the first latched failure with all remaining
// events discarded. Run must not be re-entered.
func (s *Scheduler) Run() error {
	if s.running {
		return fmt.Errorf("scheduler is already running")
	}
	s.running = true
	defer func() { s.running = false }()

	for s.failure == nil && s.queue.Len() > 0 {
		ev := heap.Pop(&s.queue).(*event)
		s.now = ev.at
		ev.fn()
	}
	if s.failure != nil {
		s.queue = nil
		return s.failure
	}
	return nil
}

// Err returns the latched run failure, if any.
func (s *Scheduler) Err() error {
	return s.failure
}

func (s *Scheduler) fail(err error) {
	if s.failure == nil {
		s.failure = err
		Error("scheduler: %v", err)
	}
}
