package datatypes

import (
	"github.com/kpaschen/tsalign/lib/align"
)

// AlignRequest asks for one query to be aligned against one subject.
// Distance and Epsilon are optional; empty means the configured default.
type AlignRequest struct {
	Id       string    `json:"id,omitempty"`
	Query    []float64 `json:"query"`
	Subject  []float64 `json:"subject"`
	Distance string    `json:"distance,omitempty"`
	Epsilon  float64   `json:"epsilon,omitempty"`
}

type AlignResponse struct {
	Id         string    `json:"id"`
	Distance   string    `json:"distance"`
	Offset     int       `json:"offset"`
	Score      float64   `json:"score"`
	Aligned    []float64 `json:"aligned"`
	Difference []float64 `json:"difference"`

	// How well the aligned window fits the query.
	Pearson   float64 `json:"pearson"`
	Euclidean float64 `json:"euclidean"`
}

type ProfileResponse struct {
	Id       string    `json:"id"`
	Distance string    `json:"distance"`
	Profile  []float64 `json:"profile"`
}

// ErrorResponse is what the kafka worker publishes when a request fails.
type ErrorResponse struct {
	Id    string `json:"id"`
	Error string `json:"error"`
}

func NewAlignResponse(id string, res *align.Result) *AlignResponse {
	return &AlignResponse{
		Id:         id,
		Distance:   res.Distance.String(),
		Offset:     res.Offset,
		Score:      res.Score,
		Aligned:    res.Aligned,
		Difference: res.Difference,
	}
}
