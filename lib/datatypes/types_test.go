package datatypes

import (
	"encoding/json"
	"testing"

	"github.com/kpaschen/tsalign/lib/align"
)

func TestNewAlignResponse(t *testing.T) {
	res, err := align.Align([]float64{1, 2, 3}, []float64{0, 0, 1, 2, 3, 0, 0}, align.Squared)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp := NewAlignResponse("abc", res)
	if resp.Id != "abc" || resp.Distance != "sdist" || resp.Offset != 2 {
		t.Errorf("unexpected response %+v", resp)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("failed to marshal response: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	for _, key := range []string{"id", "distance", "offset", "score", "aligned", "difference"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %s in %s", key, string(data))
		}
	}
}

func TestAlignRequestOptionalFields(t *testing.T) {
	var req AlignRequest
	if err := json.Unmarshal([]byte(`{"query": [1, 2], "subject": [1, 2, 3]}`), &req); err != nil {
		t.Fatalf("failed to unmarshal request: %v", err)
	}
	if req.Distance != "" || req.Epsilon != 0 || req.Id != "" {
		t.Errorf("expected optional fields to be empty, got %+v", req)
	}
	if len(req.Query) != 2 || len(req.Subject) != 3 {
		t.Errorf("unexpected request %+v", req)
	}
}
