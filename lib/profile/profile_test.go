package profile

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func bruteForceSquaredDistances(query []float64, subject []float64) []float64 {
	ret := make([]float64, len(subject)-len(query)+1)
	for i := range ret {
		sum := 0.0
		for j, q := range query {
			diff := q - subject[i+j]
			sum += diff * diff
		}
		ret[i] = sum
	}
	return ret
}

func randomSlice(r *rand.Rand, n int) []float64 {
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = r.NormFloat64() * 3.0
	}
	return ret
}

func slicesClose(a []float64, b []float64, epsilon float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > epsilon*math.Max(1.0, math.Abs(b[i])) {
			return false
		}
	}
	return true
}

func TestConvolveValidFFTMatchesDirect(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	sizes := [][2]int{{8, 8}, {8, 9}, {16, 100}, {33, 1000}, {250, 1001}}
	for _, size := range sizes {
		kernel := randomSlice(r, size[0])
		signal := randomSlice(r, size[1])
		direct := convolveValidDirect(signal, kernel)
		fft := convolveValidFFT(signal, kernel)
		if len(direct) != size[1]-size[0]+1 {
			t.Errorf("expected %d values from direct convolution but got %d", size[1]-size[0]+1, len(direct))
		}
		if !slicesClose(direct, fft, 1e-9) {
			t.Errorf("fft convolution differs from direct convolution for sizes %v", size)
		}
	}
}

func TestConvolveValid(t *testing.T) {
	// Convolving with the reversed query gives sliding dot products.
	ret := ConvolveValid([]float64{0, 0, 1, 2, 3, 0, 0}, []float64{3, 2, 1})
	expected := []float64{3, 8, 14, 8, 3}
	if !slicesClose(ret, expected, 1e-12) {
		t.Errorf("expected %v but got %v", expected, ret)
	}
}

func TestWindowedSums(t *testing.T) {
	cumsum := []float64{1, 3, 6, 10}

	sums := WindowedSums(cumsum, 2, 3)
	if !slicesClose(sums, []float64{3, 5, 7}, 1e-12) {
		t.Errorf("expected window sums [3 5 7] but got %v", sums)
	}

	truncated := WindowedSums(cumsum, 2, 2)
	if !slicesClose(truncated, []float64{3, 5}, 1e-12) {
		t.Errorf("expected truncated window sums [3 5] but got %v", truncated)
	}

	// The tail is padded with zero before the prefix is subtracted.
	padded := WindowedSums(cumsum, 2, 4)
	if !slicesClose(padded, []float64{3, 5, 7, -6}, 1e-12) {
		t.Errorf("expected padded window sums [3 5 7 -6] but got %v", padded)
	}

	single := WindowedSums(cumsum, 1, 4)
	if !slicesClose(single, []float64{1, 2, 3, 4}, 1e-12) {
		t.Errorf("expected window sums of length one to give back the input, got %v", single)
	}
}

func TestSquaredDistancesScenario(t *testing.T) {
	query := []float64{1, 2, 3}
	subject := []float64{0, 0, 1, 2, 3, 0, 0}
	distances, err := SquaredDistances(query, subject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []float64{9, 3, 0, 11, 17}
	if !slicesClose(distances, expected, 1e-9) {
		t.Errorf("expected %v but got %v", expected, distances)
	}
}

func TestSquaredDistancesMatchBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	sizes := [][2]int{{1, 1}, {1, 10}, {5, 5}, {7, 50}, {8, 50}, {64, 500}, {300, 2049}}
	for _, size := range sizes {
		query := randomSlice(r, size[0])
		subject := randomSlice(r, size[1])
		distances, err := SquaredDistances(query, subject)
		if err != nil {
			t.Errorf("unexpected error for sizes %v: %v", size, err)
			continue
		}
		if len(distances) != Length(size[0], size[1]) {
			t.Errorf("expected %d distances but got %d", Length(size[0], size[1]), len(distances))
		}
		if !slicesClose(distances, bruteForceSquaredDistances(query, subject), 1e-7) {
			t.Errorf("distance profile differs from brute force for sizes %v", size)
		}
		for i, d := range distances {
			if d < -1e-9 {
				t.Errorf("negative distance %g at offset %d for sizes %v", d, i, size)
			}
		}
	}
}

func TestSquaredDistancesExactCopy(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	query := randomSlice(r, 40)
	subject := randomSlice(r, 400)
	offset := 123
	copy(subject[offset:], query)

	distances, err := SquaredDistances(query, subject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(distances[offset]) > 1e-8 {
		t.Errorf("expected distance close to 0 at offset %d but got %g", offset, distances[offset])
	}
	best := 0
	for i, d := range distances {
		if d < distances[best] {
			best = i
		}
	}
	if best != offset {
		t.Errorf("expected minimum at offset %d but found it at %d", offset, best)
	}
}

func TestSquaredDistancesLeavesInputsAlone(t *testing.T) {
	query := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	subject := []float64{9, 8, 7, 6, 5, 4, 3, 2, 1, 0, -1}
	if _, err := SquaredDistances(query, subject); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query[0] != 1 || query[8] != 9 || subject[0] != 9 || subject[10] != -1 {
		t.Errorf("inputs were modified: %v %v", query, subject)
	}
}

func TestSquaredDistancesErrors(t *testing.T) {
	_, err := SquaredDistances([]float64{1, 2, 3}, []float64{1, 2})
	if !errors.Is(err, ErrSubjectTooShort) {
		t.Errorf("expected ErrSubjectTooShort but got %v", err)
	}
	_, err = SquaredDistances(nil, []float64{1, 2})
	if !errors.Is(err, ErrEmptySequence) {
		t.Errorf("expected ErrEmptySequence for empty query but got %v", err)
	}
	_, err = SquaredDistances([]float64{1}, []float64{})
	if !errors.Is(err, ErrEmptySequence) {
		t.Errorf("expected ErrEmptySequence for empty subject but got %v", err)
	}
}
