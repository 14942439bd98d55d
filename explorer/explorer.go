package explorer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	explorerlib "github.com/kpaschen/tsalign/lib/explorer"
	"github.com/kpaschen/tsalign/lib/reporter"
)

// Types for the REST API
type reportListResponse struct {
	Reports []Report `json:"reports"`
}

type alignmentListResponse struct {
	Report     string                         `json:"report"`
	Alignments []explorerlib.AlignmentSummary `json:"alignments"`
}

type alignmentResponse struct {
	Report string                  `json:"report"`
	Name   string                  `json:"name"`
	Points []reporter.AlignedPoint `json:"points"`
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v\n", err)
	}
}

func (c *AlignmentExplorer) GetReports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, reportListResponse{Reports: c.Reports()})
}

// openReport resolves the report parameter. Only reports found by the
// directory scan can be opened.
func (c *AlignmentExplorer) openReport(w http.ResponseWriter, r *http.Request) (*explorerlib.ParquetExplorer, string) {
	filename := r.URL.Query().Get("report")
	if filename == "" {
		http.Error(w, "missing report parameter", http.StatusBadRequest)
		return nil, ""
	}
	if !c.hasReport(filename) {
		http.Error(w, fmt.Sprintf("no report %s", filename), http.StatusNotFound)
		return nil, ""
	}
	pe, err := c.open(filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, ""
	}
	return pe, filename
}

func (c *AlignmentExplorer) GetAlignments(w http.ResponseWriter, r *http.Request) {
	pe, filename := c.openReport(w, r)
	if pe == nil {
		return
	}
	defer pe.Close()
	summaries, err := pe.Alignments()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, alignmentListResponse{Report: filename, Alignments: summaries})
}

func (c *AlignmentExplorer) GetAlignment(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name parameter", http.StatusBadRequest)
		return
	}
	pe, filename := c.openReport(w, r)
	if pe == nil {
		return
	}
	defer pe.Close()
	points, err := pe.LookupAlignment(name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, explorerlib.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, alignmentResponse{Report: filename, Name: name, Points: points})
}
