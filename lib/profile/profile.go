// Package profile computes distance profiles: the distance between a query
// and every equally long window of a subject, in one FFT convolution.
package profile

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrEmptySequence = errors.New("profile: query and subject must be non-empty")

	ErrSubjectTooShort = errors.New("profile: subject is shorter than query")
)

// Length returns the number of alignment offsets of a query of length m
// over a subject of length n.
func Length(m int, n int) int {
	return n - m + 1
}

// Validate checks that query can be slid over subject.
func Validate(query []float64, subject []float64) error {
	if len(query) == 0 || len(subject) == 0 {
		return ErrEmptySequence
	}
	if len(subject) < len(query) {
		return fmt.Errorf("%w (%d < %d)", ErrSubjectTooShort, len(subject), len(query))
	}
	return nil
}

// SquaredDistances returns, for every offset i, the squared euclidean
// distance between query and subject[i:i+len(query)].
//
// It uses sum(q²) - 2·(q·w) + sum(w²), where the dot products come from one
// valid-mode convolution of subject with the reversed query and the window
// sums come from a cumulative sum of the squared subject.
// Neither argument is modified. NaN and Inf values are propagated.
func SquaredDistances(query []float64, subject []float64) ([]float64, error) {
	if err := Validate(query, subject); err != nil {
		return nil, err
	}
	m := len(query)

	reversed := make([]float64, m)
	for i, q := range query {
		reversed[m-1-i] = q
	}
	conv := ConvolveValid(subject, reversed)

	squares := make([]float64, len(subject))
	floats.MulTo(squares, subject, subject)
	floats.CumSum(squares, squares)
	windowed := WindowedSums(squares, m, len(conv))

	querySquares := floats.Dot(query, query)

	ret := make([]float64, len(conv))
	for i, c := range conv {
		ret[i] = querySquares - 2*c + windowed[i]
	}
	return ret, nil
}
