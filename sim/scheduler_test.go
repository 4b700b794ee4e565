package sim

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/panyam/qsim/core"
)

type dispatch struct {
	Label string
	At    core.Duration
}

func TestSchedulerOrdersByTimestamp(t *testing.T) {
	s := NewScheduler()
	var got []dispatch
	record := func(label string) func() {
		return func() { got = append(got, dispatch{label, s.Now()}) }
	}

	assert.NilError(t, s.Schedule(3, record("c")))
	assert.NilError(t, s.Schedule(1, record("a")))
	assert.NilError(t, s.Schedule(2, record("b")))
	assert.NilError(t, s.Run())

	want := []dispatch{{"a", 1}, {"b", 2}, {"c", 3}}
	assert.DeepEqual(t, got, want)
	assert.Equal(t, s.Now(), core.Duration(3))
	assert.Equal(t, s.Pending(), 0)
}

func TestSchedulerFIFOAtSameTimestamp(t *testing.T) {
	s := NewScheduler()
	var got []string
	record := func(label string) func() {
		return func() { got = append(got, label) }
	}

	// All at t=5; dispatch must follow schedule order, including an
	// event scheduled for t=5 from within a t=5 continuation.
	s.Schedule(5, func() {
		got = append(got, "first")
		s.Schedule(0, record("nested"))
	})
	s.Schedule(5, record("second"))
	s.Schedule(5, record("third"))
	assert.NilError(t, s.Run())

	assert.DeepEqual(t, got, []string{"first", "second", "third", "nested"})
}

func TestSchedulerClockNeverMovesBackward(t *testing.T) {
	s := NewScheduler()
	var times []core.Duration
	var spawn func()
	spawn = func() {
		times = append(times, s.Now())
		if len(times) < 10 {
			s.Schedule(0.5, spawn)
		}
	}
	s.Schedule(0, spawn)
	assert.NilError(t, s.Run())

	assert.Equal(t, len(times), 10)
	for i := 1; i < len(times); i++ {
		assert.Assert(t, times[i] >= times[i-1], "clock went backward at dispatch %d", i)
	}
}

func TestScheduleNegativeDelayLatchesFailure(t *testing.T) {
	s := NewScheduler()
	ran := false
	assert.NilError(t, s.Schedule(1, func() { ran = true }))

	err := s.Schedule(-0.25, func() {})
	assert.ErrorIs(t, err, ErrInvalidDelay)

	// The run is poisoned: nothing else dispatches and the queue drains.
	assert.ErrorIs(t, s.Run(), ErrInvalidDelay)
	assert.Equal(t, ran, false)
	assert.Equal(t, s.Pending(), 0)
}

func TestNegativeDelayFromContinuationAbortsRun(t *testing.T) {
	s := NewScheduler()
	var got []string
	s.Schedule(1, func() {
		got = append(got, "first")
		s.Schedule(-1, func() { got = append(got, "never") })
	})
	s.Schedule(2, func() { got = append(got, "second") })

	assert.ErrorIs(t, s.Run(), ErrInvalidDelay)
	assert.DeepEqual(t, got, []string{"first"})
}

func TestSchedulerRejectsReentrantRun(t *testing.T) {
	s := NewScheduler()
	var inner error
	s.Schedule(0, func() { inner = s.Run() })
	assert.NilError(t, s.Run())
	assert.ErrorContains(t, inner, "already running")
}

func TestSchedulerCanRunAgainAfterDraining(t *testing.T) {
	s := NewScheduler()
	count := 0
	s.Schedule(1, func() { count++ })
	assert.NilError(t, s.Run())
	assert.Equal(t, count, 1)

	// The clock carries over; new delays are relative to it.
	s.Schedule(2, func() { count++ })
	assert.NilError(t, s.Run())
	assert.Equal(t, count, 2)
	assert.Equal(t, s.Now(), core.Duration(3))
}

func TestSchedulerDispatchIsDeterministic(t *testing.T) {
	script := func() []dispatch {
		s := NewScheduler()
		var seq []dispatch
		var tick func(i int) func()
		tick = func(i int) func() {
			return func() {
				seq = append(seq, dispatch{Label: "tick", At: s.Now()})
				if i > 0 {
					s.Schedule(0.75, tick(i-1))
					s.Schedule(0.75, tick(0))
				}
			}
		}
		s.Schedule(0, tick(4))
		s.Schedule(1.5, func() { seq = append(seq, dispatch{Label: "probe", At: s.Now()}) })
		if err := s.Run(); err != nil {
			t.Fatal(err)
		}
		return seq
	}

	first := script()
	second := script()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("replay diverged (-first +second):\n%s", diff)
	}
}
