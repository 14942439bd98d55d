package align

import (
	"fmt"

	"github.com/kpaschen/tsalign/lib/normalize"
	"github.com/kpaschen/tsalign/lib/profile"
	"github.com/kpaschen/tsalign/lib/settings"
)

// A Distance selects how the query is prepared before its distance profile
// against the subject is computed. Only the query is normalized; subject
// windows are always used as they are.
type Distance int

const (
	// Squared is the raw squared euclidean distance (sdist).
	Squared Distance = iota
	// MeanCentered mean-centers the query first (mdist).
	MeanCentered
	// ZNormalized z-normalizes the query first (zdist).
	ZNormalized
)

const DefaultDistance = ZNormalized

func (d Distance) String() string {
	switch d {
	case Squared:
		return settings.DISTANCE_SDIST
	case MeanCentered:
		return settings.DISTANCE_MDIST
	case ZNormalized:
		return settings.DISTANCE_ZDIST
	}
	return fmt.Sprintf("Distance(%d)", int(d))
}

func (d Distance) Valid() bool {
	return d == Squared || d == MeanCentered || d == ZNormalized
}

// ParseDistance maps a distance name to its Distance.
func ParseDistance(name string) (Distance, error) {
	switch name {
	case settings.DISTANCE_SDIST:
		return Squared, nil
	case settings.DISTANCE_MDIST:
		return MeanCentered, nil
	case settings.DISTANCE_ZDIST:
		return ZNormalized, nil
	}
	return 0, fmt.Errorf("%w %q, options are %q, %q and %q", ErrInvalidDistance, name,
		settings.DISTANCE_SDIST, settings.DISTANCE_MDIST, settings.DISTANCE_ZDIST)
}

// Profile computes the distance profile of query over subject.
// epsilon is only used by ZDist, with the same non-positive fallback.
func (d Distance) Profile(query []float64, subject []float64, epsilon float64) ([]float64, error) {
	switch d {
	case Squared:
		return SDist(query, subject)
	case MeanCentered:
		return MDist(query, subject)
	case ZNormalized:
		return ZDist(query, subject, epsilon)
	}
	return nil, fmt.Errorf("%w %v", ErrInvalidDistance, d)
}

// SDist returns the squared euclidean distance of query to every window
// of subject.
func SDist(query []float64, subject []float64) ([]float64, error) {
	return profile.SquaredDistances(query, subject)
}

// MDist is SDist with a mean-centered query.
func MDist(query []float64, subject []float64) ([]float64, error) {
	if err := profile.Validate(query, subject); err != nil {
		return nil, err
	}
	centered, err := normalize.MeanCenter(query)
	if err != nil {
		return nil, err
	}
	return profile.SquaredDistances(centered, subject)
}

// ZDist is SDist with a z-normalized query. The query is divided by
// max(std, epsilon). A non-positive epsilon is replaced by
// normalize.DefaultEpsilon, so ZDist(q, s, 0) behaves like
// ZDist(q, s, 1e-6) and never divides by zero.
func ZDist(query []float64, subject []float64, epsilon float64) ([]float64, error) {
	if err := profile.Validate(query, subject); err != nil {
		return nil, err
	}
	z, err := normalize.ZNormalize(query, epsilon)
	if err != nil {
		return nil, err
	}
	return profile.SquaredDistances(z, subject)
}
