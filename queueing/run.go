package queueing

import (
	"fmt"
	"math"

	"github.com/panyam/qsim/core"
	"github.com/panyam/qsim/sim"
)

// Config describes one simulation run of an M/M/1/K station.
type Config struct {
	MeanInterarrival core.Duration // mean gap between arrivals, seconds
	MeanService      core.Duration // mean service requirement, seconds
	Capacity         int           // station slots, the server's included
	Customers        int           // arrivals to generate
	Seed             int64         // seed for the default variate source

	// Source overrides the seeded exponential source, mostly in tests.
	Source core.VariateSource
	// Tracer, when set, receives one event per lifecycle transition.
	Tracer *sim.Tracer
	// Logger defaults to the package-level logger.
	Logger sim.Logger
}

// ParamError reports a Config field that failed validation.
type ParamError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Param, e.Value, e.Reason)
}

func positiveFinite(d core.Duration) bool {
	return d > 0 && !math.IsInf(d, 1)
}

func (cfg *Config) validate() error {
	if !positiveFinite(cfg.MeanInterarrival) {
		return &ParamError{Param: "MeanInterarrival", Value: cfg.MeanInterarrival, Reason: "must be a positive finite duration"}
	}
	if !positiveFinite(cfg.MeanService) {
		return &ParamError{Param: "MeanService", Value: cfg.MeanService, Reason: "must be a positive finite duration"}
	}
	if cfg.Capacity < 0 {
		return &ParamError{Param: "Capacity", Value: cfg.Capacity, Reason: "must be non-negative"}
	}
	if cfg.Customers < 0 {
		return &ParamError{Param: "Customers", Value: cfg.Customers, Reason: "must be non-negative"}
	}
	return nil
}

// Result summarizes a completed run.
type Result struct {
	MeanWait core.Duration // average queueing delay of admitted customers, NaN when none
	Losses   int           // arrivals refused at the door
	Served   int           // customers that completed service
	EndTime  core.Duration // virtual time of the last event
}

// Run executes one M/M/1/K run to completion.  Validation failures
// surface as *ParamError before any event fires.  A failure inside the
// run aborts it and returns a zero Result, so a Result is only ever
// reported for a run that finished whole.
func Run(cfg Config) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}
	source := cfg.Source
	if source == nil {
		source = core.NewRand(cfg.Seed)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = sim.Global()
	}

	sched := sim.NewScheduler()
	sys := &system{
		sched:    sched,
		server:   sim.NewResource(sched),
		stats:    NewStats(),
		source:   source,
		capacity: cfg.Capacity,
		tracer:   cfg.Tracer,
		logger:   logger,
	}
	gen := &generator{
		sys:          sys,
		interarrival: cfg.MeanInterarrival,
		service:      cfg.MeanService,
		count:        cfg.Customers,
	}

	logger.Debug("run: A=%g S=%g K=%d N=%d seed=%d",
		cfg.MeanInterarrival, cfg.MeanService, cfg.Capacity, cfg.Customers, cfg.Seed)
	gen.Start()
	if err := sched.Run(); err != nil {
		return Result{}, fmt.Errorf("simulation aborted: %w", err)
	}

	res := Result{
		MeanWait: sys.stats.MeanWait(),
		Losses:   sys.stats.Losses(),
		Served:   sys.stats.Departures(),
		EndTime:  sched.Now(),
	}
	logger.Debug("run: served=%d dropped=%d end=%.4Es", res.Served, res.Losses, res.EndTime)
	return res, nil
}
