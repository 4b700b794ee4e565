package queueing

import "math"

// Closed-form M/M/1/K quantities, used by the experiment driver and the
// console to pair every measurement with its theoretical counterpart.
// rho == 1 is handled through the limiting forms, where the K+1 system
// states become equally likely.

// Utilization returns rho = lambda / mu.
func Utilization(lambda, mu float64) float64 {
	return lambda / mu
}

// emptyProbability returns P0, the long-run probability of an empty
// system.
func emptyProbability(rho float64, k int) float64 {
	if math.Abs(1.0-rho) < 1e-9 {
		return 1.0 / float64(k+1)
	}
	return (1.0 - rho) / (1.0 - math.Pow(rho, float64(k+1)))
}

// BlockingProbability returns PK, the long-run fraction of arrivals
// refused entry to an M/M/1/K system:
//
//	PK = rho^K (1-rho) / (1 - rho^(K+1)),  with PK -> 1/(K+1) as rho -> 1
func BlockingProbability(lambda, mu float64, k int) float64 {
	if k <= 0 {
		return 1.0 // zero capacity blocks every arrival
	}
	if lambda <= 0 {
		return 0.0
	}
	if mu <= 0 {
		return 1.0
	}
	rho := lambda / mu
	pk := math.Pow(rho, float64(k)) * emptyProbability(rho, k)

	// Clamp against floating point drift for extreme rho/K combinations.
	if pk < 0 {
		return 0.0
	}
	if pk > 1.0 {
		return 1.0
	}
	return pk
}

// EffectiveArrivalRate returns lambda (1 - PK), the rate of admitted
// arrivals.
func EffectiveArrivalRate(lambda, mu float64, k int) float64 {
	return lambda * (1.0 - BlockingProbability(lambda, mu, k))
}

// MeanSystemLength returns L, the expected number of customers in the
// system (waiting plus in service).
func MeanSystemLength(lambda, mu float64, k int) float64 {
	if k <= 0 || lambda <= 0 || mu <= 0 {
		return 0.0
	}
	rho := lambda / mu
	if math.Abs(1.0-rho) < 1e-9 {
		return float64(k) / 2.0
	}
	kf := float64(k)
	l := rho/(1.0-rho) - (kf+1.0)*math.Pow(rho, kf+1.0)/(1.0-math.Pow(rho, kf+1.0))
	if l < 0 {
		return 0.0
	}
	return l
}

// MeanQueueLength returns Lq, the expected number waiting for service
// (excluding the one being served).
func MeanQueueLength(lambda, mu float64, k int) float64 {
	if k <= 0 || lambda <= 0 || mu <= 0 {
		return 0.0
	}
	rho := lambda / mu
	lq := MeanSystemLength(lambda, mu, k) - (1.0 - emptyProbability(rho, k))
	if lq < 0 {
		return 0.0
	}
	return lq
}

// MeanWaitTime returns Wq, the expected time an admitted customer spends
// waiting before service, by Little's law over the effective arrival
// rate.
func MeanWaitTime(lambda, mu float64, k int) float64 {
	leff := EffectiveArrivalRate(lambda, mu, k)
	if leff <= 0 {
		return 0.0
	}
	return MeanQueueLength(lambda, mu, k) / leff
}
