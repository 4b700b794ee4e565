package queueing

import "github.com/panyam/qsim/core"

// Stats accumulates the measurements of a single run.
type Stats struct {
	waits      []core.Duration
	losses     int
	departures int
}

func NewStats() *Stats {
	return &Stats{}
}

// RecordWait notes the queueing delay of a customer entering service.
func (s *Stats) RecordWait(w core.Duration) {
	s.waits = append(s.waits, w)
}

// RecordLoss notes an arrival refused at the door.
func (s *Stats) RecordLoss() {
	s.losses++
}

// RecordDeparture notes a completed service.
func (s *Stats) RecordDeparture() {
	s.departures++
}

// MeanWait returns the average queueing delay over all admitted
// customers, NaN when none were admitted.
func (s *Stats) MeanWait() core.Duration {
	return core.Mean(s.waits)
}

func (s *Stats) Losses() int {
	return s.losses
}

func (s *Stats) Departures() int {
	return s.departures
}

// Waits returns the recorded delays, in order of service.
func (s *Stats) Waits() []core.Duration {
	return s.waits
}
