package queueing

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/panyam/qsim/core"
	"github.com/panyam/qsim/sim"
)

// fakeSource replays a scripted list of draws, falling back to the
// requested mean once the script runs out.
type fakeSource struct {
	draws []core.Duration
	next  int
}

func (f *fakeSource) ExpDuration(mean core.Duration) core.Duration {
	if f.next >= len(f.draws) {
		return mean
	}
	d := f.draws[f.next]
	f.next++
	return d
}

func TestZeroCapacityDropsEveryone(t *testing.T) {
	res, err := Run(Config{
		MeanInterarrival: 0.2,
		MeanService:      0.01,
		Capacity:         0,
		Customers:        50,
		Seed:             1,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Losses != 50 || res.Served != 0 {
		t.Errorf("got losses=%d served=%d, want 50/0", res.Losses, res.Served)
	}
	if !math.IsNaN(res.MeanWait) {
		t.Errorf("mean wait over zero admissions = %v, want NaN", res.MeanWait)
	}
	if res.EndTime <= 0 {
		t.Errorf("end time = %v, want > 0", res.EndTime)
	}
}

func TestNoCustomersIsANoOp(t *testing.T) {
	res, err := Run(Config{
		MeanInterarrival: 0.2,
		MeanService:      0.01,
		Capacity:         10,
		Customers:        0,
		Seed:             1,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Losses != 0 || res.Served != 0 || res.EndTime != 0 {
		t.Errorf("got %+v, want an untouched run", res)
	}
	if !math.IsNaN(res.MeanWait) {
		t.Errorf("mean wait = %v, want NaN", res.MeanWait)
	}
}

func TestCapacityCoveringEveryArrivalNeverDrops(t *testing.T) {
	// With as many slots as customers the occupancy cannot overflow,
	// whatever the load.
	res, err := Run(Config{
		MeanInterarrival: 0.01,
		MeanService:      0.05,
		Capacity:         100,
		Customers:        100,
		Seed:             7,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Losses != 0 {
		t.Errorf("losses = %d, want 0", res.Losses)
	}
	if res.Served != 100 {
		t.Errorf("served = %d, want 100", res.Served)
	}
	if res.MeanWait < 0 {
		t.Errorf("mean wait = %v, want >= 0", res.MeanWait)
	}
}

func TestLightLoadSeesNoLoss(t *testing.T) {
	// rho = 0.05 against K=10: the theoretical loss fraction is below
	// 1e-13, so a 1000-customer run losing anyone would be a defect.
	res, err := Run(Config{
		MeanInterarrival: 0.2,
		MeanService:      0.01,
		Capacity:         10,
		Customers:        1000,
		Seed:             1234,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Losses != 0 {
		t.Errorf("losses = %d, want 0", res.Losses)
	}
	if res.Served != 1000 {
		t.Errorf("served = %d, want 1000", res.Served)
	}
	if res.MeanWait < 0 || res.MeanWait > 0.005 {
		t.Errorf("mean wait = %v, want a few hundred microseconds", res.MeanWait)
	}
}

func TestHeavyLoadBlockingNearTheory(t *testing.T) {
	res, err := Run(Config{
		MeanInterarrival: 1.0 / 95.0,
		MeanService:      0.01,
		Capacity:         10,
		Customers:        1000,
		Seed:             1234,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Losses == 0 {
		t.Fatal("rho=0.95 against K=10 lost nobody over 1000 arrivals")
	}
	simPB := float64(res.Losses) / 1000.0
	want := BlockingProbability(95, 100, 10)
	// The loss fraction of a 1000-customer run carries a sampling error
	// around +/-0.02, so the bound leaves a wide margin.
	if math.Abs(simPB-want) > 0.05 {
		t.Errorf("simulated blocking %v too far from theoretical %v", simPB, want)
	}
	if res.MeanWait <= 0 {
		t.Errorf("mean wait = %v, want > 0", res.MeanWait)
	}
}

func TestLongRunMatchesClosedForms(t *testing.T) {
	res, err := Run(Config{
		MeanInterarrival: 1.0 / 95.0,
		MeanService:      0.01,
		Capacity:         10,
		Customers:        20000,
		Seed:             1234,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	simPB := float64(res.Losses) / 20000.0
	if wantPB := BlockingProbability(95, 100, 10); math.Abs(simPB-wantPB) > 0.015 {
		t.Errorf("simulated blocking %v too far from theoretical %v", simPB, wantPB)
	}
	if wantWq := MeanWaitTime(95, 100, 10); math.Abs(res.MeanWait-wantWq) > 0.005 {
		t.Errorf("simulated mean wait %v too far from theoretical %v", res.MeanWait, wantWq)
	}
}

func TestRunsAreDeterministicForSeed(t *testing.T) {
	cfg := Config{
		MeanInterarrival: 1.0 / 95.0,
		MeanService:      0.01,
		Capacity:         10,
		Customers:        500,
		Seed:             42,
	}
	first, err := Run(cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Run(cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first != second {
		t.Errorf("replay diverged: %+v vs %+v", first, second)
	}
	cfg.Seed = 43
	other, err := Run(cfg)
	if err != nil {
		t.Fatalf("reseeded run: %v", err)
	}
	if other == first {
		t.Errorf("different seeds produced the identical result %+v", first)
	}
}

func TestMoreCapacityNeverLosesMore(t *testing.T) {
	losses := func(k int) int {
		res, err := Run(Config{
			MeanInterarrival: 0.005, // rho = 2, plenty of pressure
			MeanService:      0.01,
			Capacity:         k,
			Customers:        500,
			Seed:             9,
		})
		if err != nil {
			t.Fatalf("K=%d: %v", k, err)
		}
		return res.Losses
	}
	l0, l5, l500 := losses(0), losses(5), losses(500)
	if l0 != 500 {
		t.Errorf("K=0 lost %d of 500", l0)
	}
	if l500 != 0 {
		t.Errorf("K=N lost %d", l500)
	}
	if l5 <= 0 || l5 >= 500 {
		t.Errorf("K=5 lost %d, want something strictly between 0 and 500", l5)
	}
	if !(l0 >= l5 && l5 >= l500) {
		t.Errorf("losses not monotone in capacity: %d, %d, %d", l0, l5, l500)
	}
}

func TestEveryCustomerIsAccountedFor(t *testing.T) {
	cases := []Config{
		{MeanInterarrival: 0.2, MeanService: 0.01, Capacity: 10, Customers: 1000, Seed: 1},
		{MeanInterarrival: 1.0 / 95.0, MeanService: 0.01, Capacity: 10, Customers: 1000, Seed: 7},
		{MeanInterarrival: 0.005, MeanService: 0.01, Capacity: 2, Customers: 500, Seed: 42},
		{MeanInterarrival: 0.01, MeanService: 0.01, Capacity: 1, Customers: 300, Seed: 3},
	}
	for _, cfg := range cases {
		res, err := Run(cfg)
		if err != nil {
			t.Fatalf("%+v: %v", cfg, err)
		}
		if res.Losses+res.Served != cfg.Customers {
			t.Errorf("K=%d N=%d: losses %d + served %d != %d",
				cfg.Capacity, cfg.Customers, res.Losses, res.Served, cfg.Customers)
		}
	}
}

func TestInvalidParameters(t *testing.T) {
	valid := Config{MeanInterarrival: 0.2, MeanService: 0.01, Capacity: 10, Customers: 100}
	cases := []struct {
		name     string
		mutate   func(*Config)
		wantName string
	}{
		{"ZeroInterarrival", func(c *Config) { c.MeanInterarrival = 0 }, "MeanInterarrival"},
		{"NegativeInterarrival", func(c *Config) { c.MeanInterarrival = -0.2 }, "MeanInterarrival"},
		{"NaNInterarrival", func(c *Config) { c.MeanInterarrival = math.NaN() }, "MeanInterarrival"},
		{"InfiniteInterarrival", func(c *Config) { c.MeanInterarrival = math.Inf(1) }, "MeanInterarrival"},
		{"ZeroService", func(c *Config) { c.MeanService = 0 }, "MeanService"},
		{"NegativeService", func(c *Config) { c.MeanService = -0.01 }, "MeanService"},
		{"NegativeCapacity", func(c *Config) { c.Capacity = -1 }, "Capacity"},
		{"NegativeCustomers", func(c *Config) { c.Customers = -5 }, "Customers"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			res, err := Run(cfg)
			if err == nil {
				t.Fatal("Run accepted an invalid Config")
			}
			var pe *ParamError
			if !errors.As(err, &pe) {
				t.Fatalf("error %v is not a ParamError", err)
			}
			if pe.Param != tc.wantName {
				t.Errorf("flagged %s, want %s", pe.Param, tc.wantName)
			}
			if res != (Result{}) {
				t.Errorf("rejected run still produced %+v", res)
			}
		})
	}
}

func TestNegativeDrawAbortsRun(t *testing.T) {
	t.Run("ServiceDraw", func(t *testing.T) {
		res, err := Run(Config{
			MeanInterarrival: 1,
			MeanService:      1,
			Capacity:         4,
			Customers:        2,
			Source:           &fakeSource{draws: []core.Duration{0.1, -0.5}},
		})
		if !errors.Is(err, sim.ErrInvalidDelay) {
			t.Fatalf("err = %v, want ErrInvalidDelay", err)
		}
		if res != (Result{}) {
			t.Errorf("aborted run still produced %+v", res)
		}
	})
	t.Run("GapDraw", func(t *testing.T) {
		res, err := Run(Config{
			MeanInterarrival: 1,
			MeanService:      1,
			Capacity:         4,
			Customers:        2,
			Source:           &fakeSource{draws: []core.Duration{-0.3}},
		})
		if !errors.Is(err, sim.ErrInvalidDelay) {
			t.Fatalf("err = %v, want ErrInvalidDelay", err)
		}
		if res != (Result{}) {
			t.Errorf("aborted run still produced %+v", res)
		}
	})
}

func customerIndex(t *testing.T, id string) int {
	t.Helper()
	n, err := strconv.Atoi(strings.TrimPrefix(id, "Customer-"))
	if err != nil {
		t.Fatalf("unexpected trace id %q", id)
	}
	return n
}

func TestTraceAccountsForEveryTransition(t *testing.T) {
	tracer := sim.NewTracer()
	res, err := Run(Config{
		MeanInterarrival: 0.01,
		MeanService:      0.02, // rho = 2 against K=2 forces drops
		Capacity:         2,
		Customers:        200,
		Seed:             99,
		Tracer:           tracer,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := tracer.Count(TraceArrive); got != 200 {
		t.Errorf("arrive events = %d, want 200", got)
	}
	if got := tracer.Count(TraceDrop); got != res.Losses {
		t.Errorf("drop events = %d, want %d", got, res.Losses)
	}
	if got := tracer.Count(TraceGrant); got != res.Served {
		t.Errorf("grant events = %d, want %d", got, res.Served)
	}
	if got := tracer.Count(TraceDepart); got != res.Served {
		t.Errorf("depart events = %d, want %d", got, res.Served)
	}

	events := tracer.Events()
	if len(events) == 0 {
		t.Fatal("no trace events recorded")
	}
	first := events[0]
	if first.Kind != TraceArrive || first.ID != "Customer-0" || first.Timestamp != 0 {
		t.Errorf("first event = %+v, want Customer-0 arriving at t=0", first)
	}

	// The single server grants strictly in arrival order.
	lastGranted := -1
	for _, ev := range events {
		switch ev.Kind {
		case TraceGrant:
			idx := customerIndex(t, ev.ID)
			if idx <= lastGranted {
				t.Fatalf("grant for %s after grant for Customer-%d", ev.ID, lastGranted)
			}
			lastGranted = idx
		case TraceDrop:
			if ev.Note != "occupancy 3" {
				t.Errorf("drop note = %q, want the overflowed occupancy", ev.Note)
			}
		}
	}
}
