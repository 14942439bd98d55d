package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/kpaschen/tsalign/lib/align"
	"github.com/kpaschen/tsalign/lib/bench"
	"github.com/kpaschen/tsalign/lib/correlation"
	"github.com/kpaschen/tsalign/lib/reporter"
	"github.com/kpaschen/tsalign/lib/series"
	"github.com/kpaschen/tsalign/lib/settings"
)

type options struct {
	queryFile   string
	subjectFile string
	example     bool
	cpuprofile  string
	config      settings.AlignSettings
}

func loadSeries(name string, filename string) ([]float64, error) {
	values, err := series.Load(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from %s: %v", name, filename, err)
	}
	if err = series.CheckFinite(name, values); err != nil {
		return nil, err
	}
	return values, nil
}

// run returns instead of exiting so the cpu profile is always stopped.
func run(opts options) error {
	if opts.cpuprofile != "" {
		f, err := os.Create(opts.cpuprofile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err = pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	var query, subject []float64
	var err error
	name := "example"
	if opts.example {
		query, subject = bench.SineAndCosine(1000, 0.1, rand.New(rand.NewSource(time.Now().UnixNano())))
	} else {
		if opts.queryFile == "" || opts.subjectFile == "" {
			return fmt.Errorf("need -query and -subject, or -example")
		}
		if query, err = loadSeries("query", opts.queryFile); err != nil {
			return err
		}
		if subject, err = loadSeries("subject", opts.subjectFile); err != nil {
			return err
		}
		name = strings.TrimSuffix(filepath.Base(opts.queryFile), filepath.Ext(opts.queryFile))
	}

	alignConfig := opts.config.ComputeSettingsFields()
	aligner, err := align.NewAligner(alignConfig)
	if err != nil {
		return err
	}
	rep, err := reporter.NewReporter(alignConfig, "alignment_"+name+".parquet")
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := aligner.Align(query, subject)
	if err != nil {
		return err
	}
	log.Printf("aligned %d values against %d using %s in %v: offset %d, score %g\n",
		len(query), len(subject), result.Distance, time.Since(start), result.Offset, result.Score)
	fit, err := correlation.Measure(query, result.Aligned)
	if err != nil {
		return err
	}
	log.Printf("aligned window has pearson correlation %.4f and euclidean distance %g to the query\n",
		fit.Pearson, fit.Euclidean)

	if rep == nil {
		return nil
	}
	if err = rep.AddAlignment(name, query, result); err != nil {
		return err
	}
	return rep.Flush()
}

func main() {
	var opts options
	flag.StringVar(&opts.queryFile, "query", "", "File with the query series")
	flag.StringVar(&opts.subjectFile, "subject", "", "File with the subject series")
	flag.StringVar(&opts.config.Distance, "distance", settings.DISTANCE_ZDIST, "Distance to align with. Possible values: sdist, mdist, zdist")
	flag.Float64Var(&opts.config.Epsilon, "epsilon", 1e-6, "Smallest standard deviation used when z-normalizing the query")
	flag.StringVar(&opts.config.ResultsDirectory, "output", "", "Directory for the alignment report. Empty means no report.")
	flag.StringVar(&opts.config.ResultsFormat, "format", settings.FORMAT_CSV, "Report format. Possible values: csv, parquet")
	flag.BoolVar(&opts.example, "example", false, "Align half a sine wave against a noisy cosine instead of reading files")
	flag.StringVar(&opts.cpuprofile, "cpuprofile", "", "write cpu profile here")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}
