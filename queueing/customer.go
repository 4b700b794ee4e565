package queueing

import (
	"fmt"

	"github.com/panyam/qsim/core"
	"github.com/panyam/qsim/sim"
)

// State of a customer within its lifecycle.  Transitions are
// Arrived -> Dropped, or Arrived -> Queued -> InService -> Departed.
type State int

const (
	StateArrived State = iota
	StateDropped
	StateQueued
	StateInService
	StateDeparted
)

func (s State) String() string {
	switch s {
	case StateArrived:
		return "Arrived"
	case StateDropped:
		return "Dropped"
	case StateQueued:
		return "Queued"
	case StateInService:
		return "InService"
	case StateDeparted:
		return "Departed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Trace vocabulary emitted over a run.  Every customer produces an
// arrive event, then either a drop, or a grant followed by a depart.
const (
	TraceArrive sim.TraceEventKind = "arrive"
	TraceDrop   sim.TraceEventKind = "drop"
	TraceGrant  sim.TraceEventKind = "grant"
	TraceDepart sim.TraceEventKind = "depart"
)

// Customer is a single arrival flowing through the station.
type Customer struct {
	Index     int
	ArrivalAt core.Duration
	Service   core.Duration
	WaitTime  core.Duration
	State     State
}

func (c *Customer) Name() string {
	return fmt.Sprintf("Customer-%d", c.Index)
}

// system is the shared state of one run: the kernel pieces plus the
// occupancy counter guarding admission.
type system struct {
	sched     *sim.Scheduler
	server    *sim.Resource
	stats     *Stats
	source    core.VariateSource
	capacity  int
	occupancy int
	tracer    *sim.Tracer
	logger    sim.Logger
}

func (sys *system) trace(kind sim.TraceEventKind, c *Customer, dur core.Duration, note string) {
	sys.tracer.Emit(sim.TraceEvent{
		Kind:      kind,
		ID:        c.Name(),
		Timestamp: sys.sched.Now(),
		Duration:  dur,
		Note:      note,
	})
}

// arrive admits or refuses c.  Occupancy counts everyone between
// admission and departure, so the station is full once it reaches the
// capacity.
func (sys *system) arrive(c *Customer) {
	c.State = StateArrived
	sys.trace(TraceArrive, c, 0, "")
	sys.occupancy++
	if sys.occupancy > sys.capacity {
		sys.trace(TraceDrop, c, 0, fmt.Sprintf("occupancy %d", sys.occupancy))
		sys.occupancy--
		c.State = StateDropped
		sys.stats.RecordLoss()
		sys.logger.Debug("%s refused at t=%.4Es", c.Name(), sys.sched.Now())
		return
	}
	c.State = StateQueued
	sys.server.Request(func() { sys.beginService(c) })
}

// beginService runs when the server is granted to c.  The queueing
// delay is measured here, before the service interval is scheduled.
func (sys *system) beginService(c *Customer) {
	c.WaitTime = sys.sched.Now() - c.ArrivalAt
	c.State = StateInService
	sys.stats.RecordWait(c.WaitTime)
	sys.trace(TraceGrant, c, c.WaitTime, "")
	// A negative service draw latches a failure in the scheduler and
	// the whole run aborts; nothing more to do here.
	if sys.sched.Schedule(c.Service, func() { sys.depart(c) }) != nil {
		return
	}
}

// depart releases the server and frees c's slot in the station.
func (sys *system) depart(c *Customer) {
	sys.server.Release()
	sys.occupancy--
	c.State = StateDeparted
	sys.stats.RecordDeparture()
	sys.trace(TraceDepart, c, c.Service, "")
}
