// Package bench times alignments of generated signals of growing size.
package bench

import (
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/kpaschen/tsalign/lib/align"
	"github.com/kpaschen/tsalign/lib/reporter"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SineAndCosine samples a 5Hz sine and a 5Hz cosine at n points over
// [0, 3]. The query is the first half of the sine. The cosine gets
// gaussian noise with the given standard deviation.
func SineAndCosine(n int, noise float64, r *rand.Rand) (query []float64, subject []float64) {
	t := floats.Span(make([]float64, n), 0, 3)
	sine := make([]float64, n)
	subject = make([]float64, n)
	for i, ti := range t {
		sine[i] = math.Sin(2 * math.Pi * 5 * ti)
		subject[i] = math.Cos(2*math.Pi*5*ti) + r.NormFloat64()*noise
	}
	return sine[:n/2], subject
}

// Summarize turns the timings for one size into a row. It returns false
// when there are no timings or some of them are NaN.
func Summarize(size int, seconds []float64) (reporter.BenchmarkRow, bool) {
	if len(seconds) == 0 {
		return reporter.BenchmarkRow{}, false
	}
	for _, s := range seconds {
		if math.IsNaN(s) {
			return reporter.BenchmarkRow{}, false
		}
	}
	mean, variance := stat.PopMeanVariance(seconds, nil)
	return reporter.BenchmarkRow{
		ArraySize: size,
		MeanTime:  mean,
		StdDev:    math.Sqrt(variance),
	}, true
}

type Config struct {
	// Sizes are 10^1 .. 10^MaxPow.
	MaxPow      int
	Repetitions int
	Distance    align.Distance
	Noise       float64
	Seed        int64
}

// Run aligns generated signals for every size and returns one row per
// size with valid timings.
func Run(config Config) ([]reporter.BenchmarkRow, error) {
	r := rand.New(rand.NewSource(config.Seed))
	rows := make([]reporter.BenchmarkRow, 0, config.MaxPow)
	size := 1
	for i := 1; i <= config.MaxPow; i++ {
		size *= 10
		seconds := make([]float64, 0, config.Repetitions)
		for rep := 0; rep < config.Repetitions; rep++ {
			query, subject := SineAndCosine(size, config.Noise, r)
			start := time.Now()
			if _, err := align.Align(query, subject, config.Distance); err != nil {
				return nil, err
			}
			elapsed := time.Since(start).Seconds()
			log.Printf("alignment of %d elements took %f seconds\n", size, elapsed)
			seconds = append(seconds, elapsed)
		}
		row, ok := Summarize(size, seconds)
		if !ok {
			log.Printf("skipping data for 10^%d elements due to empty or invalid timings\n", i)
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
