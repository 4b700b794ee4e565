package experiment

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/panyam/qsim/core"
	"github.com/panyam/qsim/queueing"
)

// Row is one cell of the sweep: a single run at one arrival rate and
// capacity, paired with its closed-form counterpart.
type Row struct {
	ArrivalRate   float64 `json:"arrivalRate"`
	MeanWait      float64 `json:"meanWait"`
	Losses        int     `json:"losses"`
	SimulatedPB   float64 `json:"simulatedPB"`
	TheoreticalPB float64 `json:"theoreticalPB"`
}

// CapacityResult collects the rows of one capacity across the rate
// grid, the unit a comparison plot is drawn from.
type CapacityResult struct {
	Capacity int   `json:"capacity"`
	Rows     []Row `json:"rows"`
}

// Results is a completed sweep.
type Results struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Scenario    Scenario         `json:"scenario"`
	Capacities  []CapacityResult `json:"capacities"`
}

// Runner executes a Scenario cell by cell.  Progress lines, one per
// run, go to Progress when set.
type Runner struct {
	Scenario Scenario
	Progress io.Writer
}

func (r *Runner) progressf(format string, args ...any) {
	if r.Progress != nil {
		fmt.Fprintf(r.Progress, format, args...)
	}
}

// Run sweeps the whole grid.  Every cell reseeds with the scenario
// seed, so cells are independent of each other and of their order.
func (r *Runner) Run() (*Results, error) {
	if err := r.Scenario.Validate(); err != nil {
		return nil, err
	}
	res := &Results{
		ID:          uuid.NewString(),
		Name:        r.Scenario.Name,
		GeneratedAt: time.Now().UTC(),
		Scenario:    r.Scenario,
		Capacities:  make([]CapacityResult, 0, len(r.Scenario.Capacities)),
	}
	for _, k := range r.Scenario.Capacities {
		cr := CapacityResult{Capacity: k}
		for _, rate := range r.Scenario.Rates() {
			row, err := r.runCell(rate, k)
			if err != nil {
				return nil, fmt.Errorf("sweep cell lambda=%g K=%d: %w", rate, k, err)
			}
			cr.Rows = append(cr.Rows, row)
		}
		res.Capacities = append(res.Capacities, cr)
	}
	return res, nil
}

func (r *Runner) runCell(rate float64, k int) (Row, error) {
	out, err := queueing.Run(queueing.Config{
		MeanInterarrival: core.Duration(1.0 / rate),
		MeanService:      core.Duration(1.0 / r.Scenario.ServiceRate),
		Capacity:         k,
		Customers:        r.Scenario.Customers,
		Seed:             r.Scenario.Seed,
	})
	if err != nil {
		return Row{}, err
	}
	simPB := 0.0
	if r.Scenario.Customers > 0 {
		simPB = float64(out.Losses) / float64(r.Scenario.Customers)
	}
	meanWait := float64(out.MeanWait)
	if out.Served == 0 {
		meanWait = 0 // JSON has no NaN
	}
	r.progressf("Arrival rate=%g, K=%d, Simulation block probability = %f, Average waiting time = %.4Es\n",
		rate, k, simPB, out.MeanWait)
	return Row{
		ArrivalRate:   rate,
		MeanWait:      meanWait,
		Losses:        out.Losses,
		SimulatedPB:   simPB,
		TheoreticalPB: queueing.BlockingProbability(rate, r.Scenario.ServiceRate, k),
	}, nil
}
