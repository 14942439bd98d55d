package reporter

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kpaschen/tsalign/lib/align"
	"github.com/parquet-go/parquet-go"
)

// AlignedPoint is one row of a parquet alignment report.
type AlignedPoint struct {
	Name         string  `parquet:"name,dict,zstd"`
	Distance     string  `parquet:"distance,dict"`
	Offset       int     `parquet:"offset"`
	Score        float64 `parquet:"score"`
	Index        int     `parquet:"index"`
	SubjectIndex int     `parquet:"subjectIndex"`
	Query        float64 `parquet:"query"`
	Aligned      float64 `parquet:"aligned"`
	Difference   float64 `parquet:"difference"`
}

// ParquetReporter collects alignments into parquet files. With
// alignmentsPerFile set, a file is closed after that many alignments and
// the next one gets a numbered name, so finished files can be read while
// the reporter keeps running.
type ParquetReporter struct {
	filenameBase       string
	filename           string
	path               string
	file               *os.File
	writer             *parquet.GenericWriter[AlignedPoint]
	maxRowsPerRowGroup int64

	alignmentsPerFile int
	alignmentsInFile  int
	fileCounter       int
}

// NewParquetReporter writes to filename in filenameBase. alignmentsPerFile
// of 0 keeps everything in that one file until Flush.
func NewParquetReporter(filenameBase string, filename string, maxRows int64, alignmentsPerFile int) *ParquetReporter {
	r := &ParquetReporter{
		filenameBase:       filenameBase,
		filename:           filename,
		maxRowsPerRowGroup: maxRows,
		alignmentsPerFile:  alignmentsPerFile,
	}
	if alignmentsPerFile <= 0 {
		r.path = filepath.Join(filenameBase, filename)
	}
	return r
}

func (r *ParquetReporter) nextPath() string {
	if r.alignmentsPerFile <= 0 {
		return filepath.Join(r.filenameBase, r.filename)
	}
	ext := filepath.Ext(r.filename)
	stem := strings.TrimSuffix(r.filename, ext)
	r.fileCounter++
	return filepath.Join(r.filenameBase, fmt.Sprintf("%s_%04d%s", stem, r.fileCounter, ext))
}

func (r *ParquetReporter) open() error {
	if r.writer != nil {
		return nil
	}
	r.path = r.nextPath()
	file, err := os.OpenFile(r.path, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0640)
	if err != nil {
		return err
	}
	r.file = file
	r.writer = parquet.NewGenericWriter[AlignedPoint](file, parquet.MaxRowsPerRowGroup(r.maxRowsPerRowGroup))
	log.Printf("writing parquet alignment report to %s\n", r.path)
	return nil
}

func extractRowsFromResult(name string, query []float64, result *align.Result) []AlignedPoint {
	ret := make([]AlignedPoint, len(query))
	distance := result.Distance.String()
	for i, q := range query {
		ret[i] = AlignedPoint{
			Name:         name,
			Distance:     distance,
			Offset:       result.Offset,
			Score:        result.Score,
			Index:        i,
			SubjectIndex: result.Offset + i,
			Query:        q,
			Aligned:      result.Aligned[i],
			Difference:   result.Difference[i],
		}
	}
	return ret
}

func (r *ParquetReporter) AddAlignment(name string, query []float64, result *align.Result) error {
	if len(query) != len(result.Aligned) || len(query) != len(result.Difference) {
		return fmt.Errorf("query has %d values but the alignment has %d", len(query), len(result.Aligned))
	}
	if err := r.open(); err != nil {
		return err
	}
	n, err := r.writer.Write(extractRowsFromResult(name, query, result))
	log.Printf("recorded %d aligned points for %s\n", n, name)
	if err != nil {
		return err
	}
	r.alignmentsInFile++
	if r.alignmentsPerFile > 0 && r.alignmentsInFile >= r.alignmentsPerFile {
		return r.Flush()
	}
	return nil
}

// Path returns the file currently or most recently written.
func (r *ParquetReporter) Path() string {
	return r.path
}

// Flush closes the current file. A later AddAlignment starts a new one.
func (r *ParquetReporter) Flush() error {
	if r.writer == nil {
		return nil
	}
	defer func() {
		r.writer = nil
		r.file = nil
		r.alignmentsInFile = 0
	}()
	if err := r.writer.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}
