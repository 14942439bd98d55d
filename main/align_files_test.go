package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kpaschen/tsalign/lib/settings"
)

func writeFile(t *testing.T, dir string, name string, content string) string {
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, []byte(content), 0640); err != nil {
		t.Fatalf("failed to write %s: %v", filename, err)
	}
	return filename
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	if err := os.Mkdir(out, 0750); err != nil {
		t.Fatal(err)
	}
	opts := options{
		queryFile:   writeFile(t, dir, "query.txt", "1 2 3\n"),
		subjectFile: writeFile(t, dir, "subject.txt", "0 0 1\n2 3 0 0\n"),
		cpuprofile:  filepath.Join(dir, "cpu.prof"),
		config:      settings.AlignSettings{Distance: "sdist", ResultsDirectory: out},
	}
	if err := run(opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "alignment_query_sdist.csv")); err != nil {
		t.Errorf("expected an alignment report: %v", err)
	}
	info, err := os.Stat(opts.cpuprofile)
	if err != nil || info.Size() == 0 {
		t.Errorf("expected a finished cpu profile, got %v, %v", info, err)
	}
}

func TestRunErrorsStopProfile(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		queryFile:   writeFile(t, dir, "query.txt", "1 2 3 4\n"),
		subjectFile: writeFile(t, dir, "subject.txt", "1 2\n"),
		cpuprofile:  filepath.Join(dir, "cpu.prof"),
	}
	if err := run(opts); err == nil {
		t.Fatalf("expected an error for a subject shorter than the query")
	}
	// A second profile can only start if the first one was stopped.
	opts.subjectFile = writeFile(t, dir, "nan.txt", "1 NaN 3 4 5\n")
	if err := run(opts); err == nil {
		t.Fatalf("expected an error for a non-finite subject")
	}
	opts.subjectFile = writeFile(t, dir, "long.txt", "1 2 3 4 5\n")
	if err := run(opts); err != nil {
		t.Errorf("unexpected error after earlier failures: %v", err)
	}

	if err := run(options{}); err == nil {
		t.Errorf("expected an error without input files")
	}
}
