package explorer

// AlignmentSummary describes one alignment stored in a report.
type AlignmentSummary struct {
	Name     string  `json:"name"`
	Distance string  `json:"distance"`
	Offset   int     `json:"offset"`
	Score    float64 `json:"score"`
	Length   int     `json:"length"`
}
