// Package stats holds small descriptive statistics over numeric slices.
package stats

import (
	"math"

	"github.com/cyclopcam/pawscan/pkg/gen"
)

// Returns (mean, variance) of the given samples.
func MeanVar[T gen.Float | gen.Integer](samples []T) (float64, float64) {
	mean := Mean(samples)
	variance := Variance(samples, mean)
	return mean, variance
}

// Returns the mean of the given samples, or zero for an empty slice.
func Mean[T gen.Float | gen.Integer](samples []T) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range samples {
		sum += float64(v)
	}
	return sum / float64(len(samples))
}

// Returns the population variance of the given samples.
func Variance[T gen.Float | gen.Integer](samples []T, mean float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range samples {
		diff := float64(v) - mean
		sum += diff * diff
	}
	return sum / float64(len(samples))
}

// Returns the population standard deviation of the given samples.
func StdDev[T gen.Float | gen.Integer](samples []T) float64 {
	_, v := MeanVar(samples)
	return math.Sqrt(v)
}

// EMA blends a new sample into a running exponential moving average.
func EMA(prev, sample, alpha float64) float64 {
	return alpha*sample + (1-alpha)*prev
}
