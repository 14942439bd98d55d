package reporter

import (
	"fmt"

	"github.com/kpaschen/tsalign/lib/align"
	"github.com/kpaschen/tsalign/lib/settings"
)

// A Reporter records alignment results. name identifies the alignment,
// typically the query file name or a request id.
type Reporter interface {
	AddAlignment(name string, query []float64, result *align.Result) error

	Flush() error
}

// NewReporter picks a reporter from the results settings. It returns nil
// when no results directory is configured. parquetFile names the single
// output file used by the parquet reporter.
func NewReporter(config settings.AlignSettings, parquetFile string) (Reporter, error) {
	if config.ResultsDirectory == "" {
		return nil, nil
	}
	switch config.ResultsFormat {
	case settings.FORMAT_CSV, "":
		return NewCsvReporter(config.ResultsDirectory), nil
	case settings.FORMAT_PARQUET:
		return NewParquetReporter(config.ResultsDirectory, parquetFile, config.MaxRowsPerRowGroup, config.AlignmentsPerReport), nil
	}
	return nil, fmt.Errorf("unsupported results format %q", config.ResultsFormat)
}
