package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/panyam/qsim/core"
	"github.com/panyam/qsim/experiment"
	"github.com/panyam/qsim/queueing"
	"github.com/panyam/qsim/sim"
)

// Session provides a stateful, interactive environment for exploring
// M/M/1/K behavior. It holds one run configuration that commands
// mutate, the sweep scenario, and the latest results. It acts as the
// engine for both scripted tests and the interactive REPL.
type Session struct {
	cfg      queueing.Config
	scenario experiment.Scenario
	trace    bool
	last     *queueing.Result
	sweep    *experiment.Results
	out      io.Writer
}

// NewSession starts with the classic single-run parameters: a nearly
// saturated station, ten slots, a thousand customers.
func NewSession(out io.Writer) *Session {
	return &Session{
		cfg: queueing.Config{
			MeanInterarrival: 0.0105,
			MeanService:      0.01,
			Capacity:         10,
			Customers:        1000,
			Seed:             1234,
		},
		scenario: experiment.DefaultScenario(),
		trace:    true,
		out:      out,
	}
}

// Set changes one run parameter. Parameter names follow the classic
// flags: ia, service, capacity, customers, seed and trace, with the
// single-letter spellings accepted as well.
func (s *Session) Set(name, value string) error {
	switch strings.ToLower(name) {
	case "ia", "interarrival", "a":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", value, name, err)
		}
		s.cfg.MeanInterarrival = core.Duration(v)
	case "service", "svc", "s":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", value, name, err)
		}
		s.cfg.MeanService = core.Duration(v)
	case "capacity", "k":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", value, name, err)
		}
		s.cfg.Capacity = v
	case "customers", "n":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", value, name, err)
		}
		s.cfg.Customers = v
	case "seed", "r":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", value, name, err)
		}
		s.cfg.Seed = v
	case "trace":
		switch strings.ToLower(value) {
		case "on":
			s.trace = true
		case "off":
			s.trace = false
		default:
			v, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid value %q for trace: %w", value, err)
			}
			s.trace = v
		}
	default:
		return fmt.Errorf("unknown parameter '%s'. Try one of ia, service, capacity, customers, seed, trace", name)
	}
	return nil
}

// Run executes one simulation with the current parameters, echoing the
// customer trace when tracing is on, and prints the run summary.
func (s *Session) Run() error {
	cfg := s.cfg
	tracer := sim.NewTracer()
	if s.trace {
		tracer.Echo(s.out)
	}
	cfg.Tracer = tracer

	res, err := queueing.Run(cfg)
	if err != nil {
		return err
	}
	s.last = &res

	fmt.Fprintf(s.out, "Served %d customers, dropped %d of %d\n", res.Served, res.Losses, cfg.Customers)
	if cfg.Customers > 0 {
		simPB := float64(res.Losses) / float64(cfg.Customers)
		theory := queueing.BlockingProbability(1.0/float64(cfg.MeanInterarrival), 1.0/float64(cfg.MeanService), cfg.Capacity)
		fmt.Fprintf(s.out, "Simulation block probability = %f, theoretical %f\n", simPB, theory)
	}
	fmt.Fprintf(s.out, "Average waiting time = %.4Es\n", res.MeanWait)
	return nil
}

// Load replaces the sweep scenario with one read from a YAML file.
func (s *Session) Load(path string) error {
	sc, err := experiment.LoadScenario(path)
	if err != nil {
		return fmt.Errorf("error loading scenario '%s': %w", path, err)
	}
	s.scenario = sc
	fmt.Fprintf(s.out, "Loaded scenario %q: %d rates x %d capacities, %d customers per cell\n",
		sc.Name, len(sc.Rates()), len(sc.Capacities), sc.Customers)
	return nil
}

// Sweep runs the session's scenario grid, streaming one progress line
// per cell.
func (s *Session) Sweep() error {
	runner := &experiment.Runner{Scenario: s.scenario, Progress: s.out}
	res, err := runner.Run()
	if err != nil {
		return err
	}
	s.sweep = res
	fmt.Fprintf(s.out, "Sweep complete: %d capacities x %d rates\n",
		len(res.Capacities), len(s.scenario.Rates()))
	return nil
}

// TheorySummary is the closed-form picture of one configuration.
type TheorySummary struct {
	Lambda      float64
	Mu          float64
	Capacity    int
	Utilization float64
	Blocking    float64
	MeanLength  float64
	QueueLength float64
	MeanWait    float64
}

func (ts TheorySummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lambda=%g, mu=%g, K=%d, rho=%g\n", ts.Lambda, ts.Mu, ts.Capacity, ts.Utilization)
	fmt.Fprintf(&b, "Theoretical block probability = %f\n", ts.Blocking)
	fmt.Fprintf(&b, "L=%.4f, Lq=%.4f, Wq=%.4Es\n", ts.MeanLength, ts.QueueLength, ts.MeanWait)
	return b.String()
}

// Theory reports the closed forms for the current parameters.
func (s *Session) Theory() TheorySummary {
	lambda := 1.0 / float64(s.cfg.MeanInterarrival)
	mu := 1.0 / float64(s.cfg.MeanService)
	k := s.cfg.Capacity
	return TheorySummary{
		Lambda:      lambda,
		Mu:          mu,
		Capacity:    k,
		Utilization: queueing.Utilization(lambda, mu),
		Blocking:    queueing.BlockingProbability(lambda, mu, k),
		MeanLength:  queueing.MeanSystemLength(lambda, mu, k),
		QueueLength: queueing.MeanQueueLength(lambda, mu, k),
		MeanWait:    queueing.MeanWaitTime(lambda, mu, k),
	}
}

// State describes the current parameters and what the session has run
// so far.
func (s *Session) State() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ia        = %g s (mean interarrival)\n", s.cfg.MeanInterarrival)
	fmt.Fprintf(&b, "service   = %g s (mean service)\n", s.cfg.MeanService)
	fmt.Fprintf(&b, "capacity  = %d\n", s.cfg.Capacity)
	fmt.Fprintf(&b, "customers = %d\n", s.cfg.Customers)
	fmt.Fprintf(&b, "seed      = %d\n", s.cfg.Seed)
	if s.trace {
		fmt.Fprintf(&b, "trace     = on\n")
	} else {
		fmt.Fprintf(&b, "trace     = off\n")
	}
	if s.last != nil {
		fmt.Fprintf(&b, "last run  : served %d, dropped %d\n", s.last.Served, s.last.Losses)
	}
	if s.sweep != nil {
		fmt.Fprintf(&b, "last sweep: %s (%d capacities)\n", s.sweep.ID, len(s.sweep.Capacities))
	}
	return b.String()
}

// Reset puts the session back to its starting parameters and forgets
// any results.
func (s *Session) Reset() {
	fresh := NewSession(s.out)
	*s = *fresh
}

// Config returns a copy of the current run parameters.
func (s *Session) Config() queueing.Config {
	return s.cfg
}

// LastRun returns the most recent run result, nil before the first run.
func (s *Session) LastRun() *queueing.Result {
	return s.last
}

// LastSweep returns the most recent sweep, nil before the first one.
func (s *Session) LastSweep() *experiment.Results {
	return s.sweep
}
