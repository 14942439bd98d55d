package explorer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kpaschen/tsalign/lib/reporter"
	"github.com/parquet-go/parquet-go"
)

var ErrNotFound = errors.New("alignment not found")

// A ParquetExplorer reads alignments back out of a parquet report.
type ParquetExplorer struct {
	filenameBase string
	file         *os.File
	numRows      int64
}

func NewParquetExplorer(filenameBase string) *ParquetExplorer {
	return &ParquetExplorer{
		filenameBase: filenameBase,
	}
}

// Initialize opens a report and checks that it has the columns of an
// alignment report.
func (p *ParquetExplorer) Initialize(filename string) error {
	file, err := os.Open(filepath.Join(p.filenameBase, filename))
	if err != nil {
		return err
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}
	pqfile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to open parquet report %s: %v", filename, err)
	}
	for _, column := range []string{"name", "index", "query", "aligned", "difference"} {
		if _, ok := pqfile.Schema().Lookup(column); !ok {
			file.Close()
			return fmt.Errorf("bad schema in %s: missing column %s", filename, column)
		}
	}
	p.file = file
	p.numRows = pqfile.NumRows()
	return nil
}

func (p *ParquetExplorer) Close() error {
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

// scan calls f for every row in the report.
func (p *ParquetExplorer) scan(f func(row *reporter.AlignedPoint)) error {
	if p.file == nil {
		return fmt.Errorf("parquet explorer has no parquet file")
	}
	reader := parquet.NewGenericReader[reporter.AlignedPoint](p.file)
	defer reader.Close()
	rows := make([]reporter.AlignedPoint, 100)
	for {
		n, err := reader.Read(rows)
		for i := 0; i < n; i++ {
			f(&rows[i])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// Alignments lists the alignments in the report in the order they were
// written.
func (p *ParquetExplorer) Alignments() ([]AlignmentSummary, error) {
	ret := make([]AlignmentSummary, 0)
	positions := make(map[string]int)
	err := p.scan(func(row *reporter.AlignedPoint) {
		pos, exists := positions[row.Name]
		if !exists {
			pos = len(ret)
			positions[row.Name] = pos
			ret = append(ret, AlignmentSummary{
				Name:     row.Name,
				Distance: row.Distance,
				Offset:   row.Offset,
				Score:    row.Score,
			})
		}
		ret[pos].Length++
	})
	return ret, err
}

// LookupAlignment returns the rows of the named alignment ordered by
// query index.
func (p *ParquetExplorer) LookupAlignment(name string) ([]reporter.AlignedPoint, error) {
	ret := make([]reporter.AlignedPoint, 0)
	err := p.scan(func(row *reporter.AlignedPoint) {
		if row.Name == name {
			ret = append(ret, *row)
		}
	})
	if err != nil {
		return nil, err
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return ret, nil
}
