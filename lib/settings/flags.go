package settings

import (
	"flag"
)

// RegisterFlags binds the alignment settings to flags on fs.
func RegisterFlags(fs *flag.FlagSet, s *AlignSettings) {
	fs.StringVar(&s.Distance, "distance", DISTANCE_ZDIST, "Distance to align with. Possible values: sdist, mdist, zdist")
	fs.Float64Var(&s.Epsilon, "epsilon", 1e-6, "Smallest standard deviation used when z-normalizing the query")
	fs.IntVar(&s.MaxSubjectLength, "maxSubjectLength", 0, "Reject subjects longer than this. 0 means no limit.")
	fs.StringVar(&s.ResultsDirectory, "resultsDirectory", "", "Directory for alignment reports. Empty means no reports.")
	fs.StringVar(&s.ResultsFormat, "resultsFormat", FORMAT_CSV, "Report format. Possible values: csv, parquet")
	fs.Int64Var(&s.MaxRowsPerRowGroup, "parquetMaxRowsPerRowGroup", 100000, "Number of rows per row group in Parquet reports.")
	fs.IntVar(&s.AlignmentsPerReport, "alignmentsPerReport", 100, "Close the parquet report after this many alignments so the explorer can read it. 0 means one file until shutdown.")
	fs.StringVar(&s.QueryRole, "queryRole", "query", "Value of the tsalign_role label on the query series in remote-write requests")
	fs.StringVar(&s.SubjectRole, "subjectRole", "subject", "Value of the tsalign_role label on the subject series in remote-write requests")
}

// ApplyConfigFile loads a yaml settings file into s after the flags on fs
// have been parsed. Flags that were set explicitly on the command line win
// over the file.
func ApplyConfigFile(fs *flag.FlagSet, filename string, s *AlignSettings) error {
	explicit := make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})
	loaded, err := LoadSettings(filename, *s)
	if err != nil {
		return err
	}
	*s = loaded
	for name, value := range explicit {
		if err := fs.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}
