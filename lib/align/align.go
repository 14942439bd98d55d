// Package align finds the offset in a subject timeseries that best matches
// a shorter query timeseries.
//
// Inputs are expected to be finite. NaN and Inf values are not checked for
// here and propagate into the results; use series.CheckFinite at the
// boundary where data enters.
package align

import (
	"errors"
	"fmt"

	"github.com/kpaschen/tsalign/lib/normalize"
	"github.com/kpaschen/tsalign/lib/profile"
	"github.com/kpaschen/tsalign/lib/settings"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrInvalidDistance = errors.New("align: invalid distance")

	ErrSubjectTooShort = profile.ErrSubjectTooShort
	ErrEmptySequence   = profile.ErrEmptySequence
)

type Result struct {
	// Offset of the aligned window in the subject.
	Offset int
	// Value of the distance profile at Offset.
	Score    float64
	Distance Distance

	// Aligned is a copy of subject[Offset:Offset+len(query)].
	Aligned []float64
	// Difference is query - Aligned.
	Difference []float64
}

// An Aligner aligns queries against subjects with a fixed distance.
type Aligner struct {
	Distance Distance
	// Standard deviation floor for ZNormalized. Values <= 0 mean
	// normalize.DefaultEpsilon.
	Epsilon float64
}

func NewAligner(config settings.AlignSettings) (*Aligner, error) {
	config = config.ComputeSettingsFields()
	d, err := ParseDistance(config.Distance)
	if err != nil {
		return nil, err
	}
	return &Aligner{Distance: d, Epsilon: config.Epsilon}, nil
}

// Align finds the best match for query in subject using d.
func Align(query []float64, subject []float64, d Distance) (*Result, error) {
	a := Aligner{Distance: d, Epsilon: normalize.DefaultEpsilon}
	return a.Align(query, subject)
}

func (a *Aligner) Align(query []float64, subject []float64) (*Result, error) {
	if !a.Distance.Valid() {
		return nil, fmt.Errorf("%w %v", ErrInvalidDistance, a.Distance)
	}
	if err := profile.Validate(query, subject); err != nil {
		return nil, err
	}
	distances, err := a.Distance.Profile(query, subject, a.Epsilon)
	if err != nil {
		return nil, err
	}

	// MinIdx returns the first index on ties.
	offset := floats.MinIdx(distances)

	m := len(query)
	aligned := make([]float64, m)
	copy(aligned, subject[offset:offset+m])
	difference := make([]float64, m)
	floats.SubTo(difference, query, aligned)

	return &Result{
		Offset:     offset,
		Score:      distances[offset],
		Distance:   a.Distance,
		Aligned:    aligned,
		Difference: difference,
	}, nil
}
