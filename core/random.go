package core

import (
	"math"
	"math/rand"
)

// VariateSource produces the random durations a simulation consumes.
// Implementations must be deterministic for a fixed seed so a run can be
// replayed bit for bit; tests substitute scripted sources.
type VariateSource interface {
	// ExpDuration draws an exponentially distributed duration with the
	// given mean (rate = 1/mean).
	ExpDuration(mean Duration) Duration
}

// Rand is the default VariateSource, backed by a privately seeded
// math/rand generator so concurrent runs never share state.
type Rand struct {
	src *rand.Rand
}

// NewRand returns a variate source seeded with seed.
func NewRand(seed int64) *Rand {
	return &Rand{src: rand.New(rand.NewSource(seed))}
}

// ExpDuration draws by inversion: -mean * ln(1-U) with U uniform on [0,1).
func (r *Rand) ExpDuration(mean Duration) Duration {
	return -mean * math.Log(1.0-r.src.Float64())
}
