package explorer

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	explorerlib "github.com/kpaschen/tsalign/lib/explorer"
)

// Report is a parquet alignment report in the results directory.
type Report struct {
	Filename   string    `json:"filename"`
	ModTime    time.Time `json:"modTime"`
	Alignments int       `json:"alignments"`
}

// An AlignmentExplorer serves the parquet reports found in FilenameBase.
type AlignmentExplorer struct {
	FilenameBase string

	lock    sync.Mutex
	reports map[string]*Report
	ticker  *time.Ticker
	done    chan struct{}
}

// Initialize scans the results directory now and then every scanInterval.
func (c *AlignmentExplorer) Initialize(scanInterval time.Duration) error {
	c.reports = make(map[string]*Report)
	if err := c.scanResultFiles(); err != nil {
		return err
	}
	c.ticker = time.NewTicker(scanInterval)
	c.done = make(chan struct{})

	go func() {
		for {
			select {
			case <-c.ticker.C:
				if err := c.scanResultFiles(); err != nil {
					log.Printf("failed to scan %s: %v\n", c.FilenameBase, err)
				}
			case <-c.done:
				return
			}
		}
	}()
	return nil
}

func (c *AlignmentExplorer) Stop() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	close(c.done)
	c.ticker = nil
}

func (c *AlignmentExplorer) scanResultFiles() error {
	entries, err := os.ReadDir(c.FilenameBase)
	if err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".parquet" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		seen[e.Name()] = true
		c.lock.Lock()
		cached, exists := c.reports[e.Name()]
		c.lock.Unlock()
		if exists && cached.ModTime.Equal(info.ModTime()) {
			continue
		}
		count, err := c.countAlignments(e.Name())
		if err != nil {
			// Reports that are still being written have no footer yet.
			log.Printf("skipping report %s: %v\n", e.Name(), err)
			continue
		}
		c.lock.Lock()
		c.reports[e.Name()] = &Report{
			Filename:   e.Name(),
			ModTime:    info.ModTime(),
			Alignments: count,
		}
		c.lock.Unlock()
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	for name := range c.reports {
		if !seen[name] {
			delete(c.reports, name)
		}
	}
	return nil
}

func (c *AlignmentExplorer) countAlignments(filename string) (int, error) {
	pe, err := c.open(filename)
	if err != nil {
		return 0, err
	}
	defer pe.Close()
	summaries, err := pe.Alignments()
	return len(summaries), err
}

func (c *AlignmentExplorer) open(filename string) (*explorerlib.ParquetExplorer, error) {
	pe := explorerlib.NewParquetExplorer(c.FilenameBase)
	if err := pe.Initialize(filename); err != nil {
		return nil, err
	}
	return pe, nil
}

// Reports returns the known reports, newest first.
func (c *AlignmentExplorer) Reports() []Report {
	c.lock.Lock()
	defer c.lock.Unlock()
	ret := make([]Report, 0, len(c.reports))
	for _, r := range c.reports {
		ret = append(ret, *r)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].ModTime.After(ret[j].ModTime)
	})
	return ret
}

func (c *AlignmentExplorer) hasReport(filename string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	_, exists := c.reports[filename]
	return exists
}
