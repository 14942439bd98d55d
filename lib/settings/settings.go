// Package settings contains all the parameters for timeseries alignment
// and the services around it.
package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DISTANCE_SDIST = "sdist"
	DISTANCE_MDIST = "mdist"
	DISTANCE_ZDIST = "zdist"

	FORMAT_CSV     = "csv"
	FORMAT_PARQUET = "parquet"
)

type AlignSettings struct {
	// The distance used to pick the best offset: sdist, mdist or zdist.
	Distance string `yaml:"distance"`

	// Floor for the standard deviation when z-normalizing the query.
	Epsilon float64 `yaml:"epsilon"`

	// Upper bound on subject length accepted by the receiver.
	// 0 means no limit.
	MaxSubjectLength int `yaml:"maxSubjectLength"`

	// Where alignment reports are written.
	ResultsDirectory string `yaml:"resultsDirectory"`

	// Report format, csv or parquet.
	ResultsFormat string `yaml:"resultsFormat"`

	// Number of rows per row group in Parquet reports.
	// This is an int64 because the parquet library takes that type.
	MaxRowsPerRowGroup int64 `yaml:"maxRowsPerRowGroup"`

	// Close a parquet report after this many alignments and start the
	// next file. 0 keeps one file until shutdown.
	AlignmentsPerReport int `yaml:"alignmentsPerReport"`

	// Label values identifying the two series in a remote-write request.
	QueryRole   string `yaml:"queryRole"`
	SubjectRole string `yaml:"subjectRole"`
}

func (s AlignSettings) ComputeSettingsFields() AlignSettings {
	if s.Distance == "" {
		s.Distance = DISTANCE_ZDIST
	}
	if s.Epsilon <= 0 {
		s.Epsilon = 1e-6
	}
	if s.ResultsFormat == "" {
		s.ResultsFormat = FORMAT_CSV
	}
	if s.MaxRowsPerRowGroup == 0 {
		s.MaxRowsPerRowGroup = 100000
	}
	if s.QueryRole == "" {
		s.QueryRole = "query"
	}
	if s.SubjectRole == "" {
		s.SubjectRole = "subject"
	}
	return s
}

// LoadSettings reads settings from a yaml file. Fields missing from the
// file keep the values they have in base.
func LoadSettings(filename string, base AlignSettings) (AlignSettings, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return base, err
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return base, fmt.Errorf("failed to parse settings file %s: %v", filename, err)
	}
	return base, nil
}
