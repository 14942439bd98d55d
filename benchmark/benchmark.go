package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/kpaschen/tsalign/lib/align"
	"github.com/kpaschen/tsalign/lib/bench"
	"github.com/kpaschen/tsalign/lib/reporter"
)

func main() {
	var maxPow int
	var repetitions int
	var distanceName string
	var noise float64
	var output string

	flag.IntVar(&maxPow, "maxPow", 7, "benchmark sizes 10^1 up to 10^maxPow")
	flag.IntVar(&repetitions, "repetitions", 25, "how many times to align each size")
	flag.StringVar(&distanceName, "distance", "zdist", "Distance to align with. Possible values: sdist, mdist, zdist")
	flag.Float64Var(&noise, "noise", 0.1, "standard deviation of the noise added to the subject")
	flag.StringVar(&output, "output", "benchmark_data.csv", "where to write the timings")
	flag.Parse()

	distance, err := align.ParseDistance(distanceName)
	if err != nil {
		log.Fatal(err)
	}
	rows, err := bench.Run(bench.Config{
		MaxPow:      maxPow,
		Repetitions: repetitions,
		Distance:    distance,
		Noise:       noise,
		Seed:        time.Now().UnixNano(),
	})
	if err != nil {
		log.Fatal(err)
	}

	file, err := os.OpenFile(output, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0640)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()
	if err := reporter.WriteBenchmarkCsv(file, rows); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d benchmark rows to %s\n", len(rows), output)
}
