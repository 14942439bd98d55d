package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kpaschen/tsalign/lib/align"
)

type CsvReporter struct {
	filenameBase string
	files        []string
}

func NewCsvReporter(filenameBase string) *CsvReporter {
	return &CsvReporter{
		filenameBase: filenameBase,
		files:        make([]string, 0),
	}
}

// checkName rejects alignment names that would place a report outside
// the results directory.
func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid alignment name %q", name)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// AddAlignment writes one csv file per alignment, with a row per query
// index holding the query value, the aligned subject value and their
// difference.
func (c *CsvReporter) AddAlignment(name string, query []float64, result *align.Result) error {
	if len(query) != len(result.Aligned) || len(query) != len(result.Difference) {
		return fmt.Errorf("query has %d values but the alignment has %d", len(query), len(result.Aligned))
	}
	if err := checkName(name); err != nil {
		return err
	}
	filename := fmt.Sprintf("alignment_%s_%s.csv", name, result.Distance)
	resultsPath := filepath.Join(c.filenameBase, filename)
	if rel, err := filepath.Rel(c.filenameBase, resultsPath); err != nil || rel != filename {
		return fmt.Errorf("report %s is outside %s", resultsPath, c.filenameBase)
	}
	file, err := os.OpenFile(resultsPath, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0640)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	err = writer.Write([]string{"index", "subjectIndex", "query", "aligned", "difference"})
	if err != nil {
		return err
	}
	for i, q := range query {
		record := []string{
			strconv.Itoa(i),
			strconv.Itoa(result.Offset + i),
			formatFloat(q),
			formatFloat(result.Aligned[i]),
			formatFloat(result.Difference[i]),
		}
		if err = writer.Write(record); err != nil {
			return err
		}
		if i%1000 == 999 {
			writer.Flush()
			if err = writer.Error(); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	if err = writer.Error(); err != nil {
		return err
	}
	log.Printf("wrote alignment of %d values at offset %d to %s\n", len(query), result.Offset, resultsPath)
	c.files = append(c.files, resultsPath)
	return nil
}

// Files returns the paths written so far.
func (c *CsvReporter) Files() []string {
	return c.files
}

func (c *CsvReporter) Flush() error {
	// This reporter does no internal buffering, so Flush is a noop.
	return nil
}

// BenchmarkRow holds the timings for one input size.
type BenchmarkRow struct {
	ArraySize int
	MeanTime  float64 // seconds
	StdDev    float64 // seconds
}

// WriteBenchmarkCsv writes benchmark rows with a header line.
func WriteBenchmarkCsv(w io.Writer, rows []BenchmarkRow) error {
	writer := csv.NewWriter(w)
	err := writer.Write([]string{"Array Size", "Mean Time (s)", "Standard Deviation (s)"})
	if err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			fmt.Sprintf("%.1e", float64(row.ArraySize)),
			fmt.Sprintf("%.6f", row.MeanTime),
			fmt.Sprintf("%.6f", row.StdDev),
		}
		if err = writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
