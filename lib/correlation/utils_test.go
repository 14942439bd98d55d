package correlation

import (
	"math"
	"testing"
)

func TestEuclideanDistance(t *testing.T) {
	_, err := EuclideanDistance([]float64{0.0, 0.1, 0.2}, []float64{0.0, 0.1})
	if err == nil {
		t.Fatalf("expected error computing euclidean distance of vectors of unequal length")
	}
	dist, err := EuclideanDistance([]float64{0.0, 0.1, 0.2}, []float64{0.0, 0.1, 0.2})
	if err != nil {
		t.Errorf("unexpected error in euclidean distance: %v", err)
	}
	if math.Abs(dist-0.0) > 0.0001 {
		t.Errorf("expected euclidean distance close to 0 but got %f", dist)
	}
	dist, err = EuclideanDistance([]float64{3.0, 0.1, 4.2}, []float64{0.0, 0.1, 0.2})
	if err != nil {
		t.Errorf("unexpected error in euclidean distance: %v", err)
	}
	if math.Abs(dist-5.0) > 0.0001 {
		t.Errorf("expected euclidean distance close to 5 but got %f", dist)
	}
}

type corrPair struct {
	x                   []float64
	y                   []float64
	expectedCorrelation float64
	expectError         bool
}

func TestPearsonCorrelation(t *testing.T) {
	pairs := []corrPair{
		{
			x:                   []float64{0.1, 0.2, 0.3},
			y:                   []float64{0.1, 0.2, 0.3},
			expectedCorrelation: 1.0,
		},
		{
			x:                   []float64{0.1, 0.2, 0.3},
			y:                   []float64{3.0, 2.0, 1.0},
			expectedCorrelation: -1.0,
		},
		{
			x:                   []float64{1.0, 2.0, 3.0, 4.0},
			y:                   []float64{1.0, 3.0, 2.0, 4.0},
			expectedCorrelation: 0.8,
		},
		{
			x:                   []float64{2.0, 2.0, 2.0},
			y:                   []float64{1.0, 2.0, 3.0},
			expectedCorrelation: 0.0,
		},
		{
			x:                   []float64{4.0},
			y:                   []float64{1.0},
			expectedCorrelation: 0.0,
		},
		{
			x:           []float64{1.0, 2.0},
			y:           []float64{1.0},
			expectError: true,
		},
	}
	for _, p := range pairs {
		pearson, err := PearsonCorrelation(p.x, p.y)
		if p.expectError {
			if err == nil {
				t.Errorf("expected an error for %v and %v", p.x, p.y)
			}
			continue
		}
		if err != nil {
			t.Errorf("unexpected error for %v and %v: %v", p.x, p.y, err)
			continue
		}
		if math.Abs(pearson-p.expectedCorrelation) > 1e-9 {
			t.Errorf("expected correlation %f for %v and %v but got %f", p.expectedCorrelation, p.x, p.y, pearson)
		}
	}
}

func TestMeasure(t *testing.T) {
	fit, err := Measure([]float64{1, 2, 3}, []float64{2, 3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(fit.Pearson-1.0) > 1e-9 {
		t.Errorf("expected correlation 1 for a shifted copy but got %f", fit.Pearson)
	}
	if math.Abs(fit.Euclidean-math.Sqrt(3)) > 1e-9 {
		t.Errorf("expected euclidean distance sqrt(3) but got %f", fit.Euclidean)
	}
	if _, err = Measure([]float64{1}, nil); err == nil {
		t.Errorf("expected an error for mismatched lengths")
	}
}
