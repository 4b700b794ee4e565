package core

import "math"

// Duration is a span of virtual time, in seconds.
type Duration = float64

func Millis(val float64) Duration {
	return val / 1000.0
}

func Micros(val float64) Duration {
	return val / 1000000.0
}

func Nanos(val float64) Duration {
	return val / 1000000000.0
}

// Returns the larger of two durations
func MaxDuration(d1 Duration, d2 Duration) Duration {
	if d1 >= d2 {
		return d1
	}
	return d2
}

// Returns the smaller of two durations
func MinDuration(d1 Duration, d2 Duration) Duration {
	if d1 <= d2 {
		return d1
	}
	return d2
}

// Mean returns the arithmetic mean of ds, or NaN when ds is empty.
// Callers that cannot tolerate NaN must check for emptiness themselves.
func Mean(ds []Duration) Duration {
	if len(ds) == 0 {
		return math.NaN()
	}
	total := 0.0
	for _, d := range ds {
		total += d
	}
	return total / float64(len(ds))
}

// Helper for float comparison (shared with package tests)
func approxEqual(a, b, tolerance float64) bool {
	if a == b {
		return true
	} // Handle exact equality
	return math.Abs(a-b) < tolerance
}
