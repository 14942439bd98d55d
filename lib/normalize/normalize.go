// Package normalize centers and rescales timeseries before they are compared.
package normalize

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultEpsilon is the smallest standard deviation ZNormalize divides by.
const DefaultEpsilon = 1e-6

var ErrEmptySequence = errors.New("normalize: input sequence must be non-empty")

// MeanCenter returns a copy of x with its mean subtracted.
func MeanCenter(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptySequence
	}
	mean := stat.Mean(x, nil)
	ret := make([]float64, len(x))
	for i, v := range x {
		ret[i] = v - mean
	}
	return ret, nil
}

// ZNormalize returns (x - mean(x)) / max(std(x), epsilon), using the
// population standard deviation. A constant x is not an error: the divisor
// is clamped to epsilon, so the result is all zeroes.
// A non-positive epsilon is replaced by DefaultEpsilon.
func ZNormalize(x []float64, epsilon float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptySequence
	}
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	mean, variance := stat.PopMeanVariance(x, nil)
	divisor := math.Max(math.Sqrt(variance), epsilon)

	ret := make([]float64, len(x))
	for i, v := range x {
		ret[i] = (v - mean) / divisor
	}
	return ret, nil
}
