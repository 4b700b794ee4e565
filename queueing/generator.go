package queueing

import "github.com/panyam/qsim/core"

// generator feeds customers into the system with exponential
// interarrival gaps.
type generator struct {
	sys          *system
	interarrival core.Duration
	service      core.Duration
	count        int
	next         int
}

// Start spawns the first customer at the current virtual time.  With a
// zero count it does nothing, leaving the event queue untouched.
func (g *generator) Start() {
	g.emit()
}

// emit spawns the next customer and reschedules itself after the drawn
// gap.  Both variates are drawn here, gap first, so a fixed seed always
// produces the identical run.  No gap follows the final customer.
func (g *generator) emit() {
	if g.next >= g.count {
		return
	}
	gap := g.sys.source.ExpDuration(g.interarrival)
	svc := g.sys.source.ExpDuration(g.service)
	c := &Customer{
		Index:     g.next,
		ArrivalAt: g.sys.sched.Now(),
		Service:   svc,
	}
	g.next++
	g.sys.arrive(c)
	if g.next < g.count {
		if g.sys.sched.Schedule(gap, g.emit) != nil {
			return
		}
	}
}
