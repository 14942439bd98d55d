// Package correlation measures how well an aligned window fits its query.
package correlation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Fit struct {
	// Pearson correlation of query and window. 0 when either is constant.
	Pearson float64
	// Euclidean distance between query and window.
	Euclidean float64
}

func EuclideanDistance(x []float64, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0.0, fmt.Errorf("euclidean distance needs arguments of the same length")
	}
	return floats.Distance(x, y, 2), nil
}

func PearsonCorrelation(x []float64, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0.0, fmt.Errorf("correlation needs arguments of the same length")
	}
	if len(x) < 2 {
		return 0.0, nil
	}
	pearson := stat.Correlation(x, y, nil)
	if math.IsNaN(pearson) {
		// Constant inputs have no defined correlation. Inputs carrying
		// NaN end up here as well.
		return 0.0, nil
	}
	return pearson, nil
}

func Measure(query []float64, window []float64) (Fit, error) {
	pearson, err := PearsonCorrelation(query, window)
	if err != nil {
		return Fit{}, err
	}
	euclidean, err := EuclideanDistance(query, window)
	if err != nil {
		return Fit{}, err
	}
	return Fit{Pearson: pearson, Euclidean: euclidean}, nil
}
