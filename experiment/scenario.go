package experiment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes a sweep: a grid of arrival rates crossed with a
// set of station capacities, one simulation run per cell.
type Scenario struct {
	Name        string  `json:"name" yaml:"name"`
	ServiceRate float64 `json:"serviceRate" yaml:"serviceRate"` // mu, departures per second at a busy server

	// Either an explicit list of arrival rates, or a start/stop/step
	// grid when the list is empty.
	ArrivalRates []float64 `json:"arrivalRates,omitempty" yaml:"arrivalRates,omitempty"`
	RateStart    float64   `json:"rateStart" yaml:"rateStart"`
	RateStop     float64   `json:"rateStop" yaml:"rateStop"`
	RateStep     float64   `json:"rateStep" yaml:"rateStep"`

	Capacities []int `json:"capacities" yaml:"capacities"`
	Customers  int   `json:"customers" yaml:"customers"` // arrivals per cell
	Seed       int64 `json:"seed" yaml:"seed"`
}

// DefaultScenario is the classic sweep: lambda from 5 to 95 in steps of
// 5 against mu=100, for capacities 10, 20 and 50, a thousand customers
// per cell.
func DefaultScenario() Scenario {
	return Scenario{
		Name:        "classic",
		ServiceRate: 100,
		RateStart:   5,
		RateStop:    95,
		RateStep:    5,
		Capacities:  []int{10, 20, 50},
		Customers:   1000,
		Seed:        1234,
	}
}

// Rates returns the arrival rates of the sweep, expanding the
// start/stop/step grid unless explicit rates were given.
func (s *Scenario) Rates() []float64 {
	if len(s.ArrivalRates) > 0 {
		return s.ArrivalRates
	}
	if s.RateStep <= 0 {
		return nil
	}
	var rates []float64
	// The epsilon keeps fractional steps from losing the last point.
	for r := s.RateStart; r <= s.RateStop+1e-9; r += s.RateStep {
		rates = append(rates, r)
	}
	return rates
}

func (s *Scenario) Validate() error {
	if s.ServiceRate <= 0 {
		return fmt.Errorf("scenario %q: serviceRate must be positive", s.Name)
	}
	rates := s.Rates()
	if len(rates) == 0 {
		return fmt.Errorf("scenario %q: no arrival rates", s.Name)
	}
	for _, r := range rates {
		if r <= 0 {
			return fmt.Errorf("scenario %q: arrival rate %v must be positive", s.Name, r)
		}
	}
	if len(s.Capacities) == 0 {
		return fmt.Errorf("scenario %q: no capacities", s.Name)
	}
	for _, k := range s.Capacities {
		if k < 0 {
			return fmt.Errorf("scenario %q: capacity %d must be non-negative", s.Name, k)
		}
	}
	if s.Customers < 0 {
		return fmt.Errorf("scenario %q: customers must be non-negative", s.Name)
	}
	return nil
}

// LoadScenario reads a YAML scenario on top of the defaults, so a file
// only needs to name what it changes.
func LoadScenario(path string) (Scenario, error) {
	sc := DefaultScenario()
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario: %w", err)
	}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}
