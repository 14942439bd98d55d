// Package series reads timeseries from the formats the tools accept and
// checks them before they are aligned.
package series

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/prometheus/common/model"
)

// Load reads a single timeseries from a file. Files starting with '{' or
// '[' are parsed as Prometheus query results, anything else as whitespace
// separated numbers.
func Load(filename string) ([]float64, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		ret, err := ParsePrometheusJSON(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", filename, err)
		}
		return ret, nil
	}
	ret, err := ParseText(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %v", filename, err)
	}
	return ret, nil
}

// ParseText reads whitespace separated floats. Line breaks carry no meaning.
func ParseText(r io.Reader) ([]float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	scanner.Split(bufio.ScanWords)
	ret := make([]float64, 0)
	for scanner.Scan() {
		word := scanner.Text()
		v, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: failed to parse %s into a float: %v", len(ret)+1, word, err)
		}
		ret = append(ret, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

type queryResponse struct {
	Status string `json:"status"`
	Data   struct {
		ResultType string          `json:"resultType"`
		Result     json.RawMessage `json:"result"`
	} `json:"data"`
}

// ParsePrometheusJSON accepts a range query response from the Prometheus
// HTTP API, a bare matrix, or a single stream with "metric" and "values".
// The result must contain exactly one series.
func ParsePrometheusJSON(data []byte) ([]float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty input")
	}
	var matrix model.Matrix
	if data[0] == '[' {
		if err := json.Unmarshal(data, &matrix); err != nil {
			return nil, err
		}
		return fromMatrix(matrix)
	}

	var resp queryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.Data.ResultType == "" {
		var stream model.SampleStream
		if err := json.Unmarshal(data, &stream); err != nil {
			return nil, err
		}
		return FromSampleStream(&stream), nil
	}
	if resp.Status != "" && resp.Status != "success" {
		return nil, fmt.Errorf("query response has status %s", resp.Status)
	}
	if resp.Data.ResultType != model.ValMatrix.String() {
		return nil, fmt.Errorf("unsupported result type %s, need %s", resp.Data.ResultType, model.ValMatrix)
	}
	if err := json.Unmarshal(resp.Data.Result, &matrix); err != nil {
		return nil, err
	}
	return fromMatrix(matrix)
}

func fromMatrix(matrix model.Matrix) ([]float64, error) {
	if len(matrix) != 1 {
		return nil, fmt.Errorf("expected exactly one series but got %d", len(matrix))
	}
	return FromSampleStream(matrix[0]), nil
}

// FromSampleStream returns the values of a stream in the order they appear.
func FromSampleStream(stream *model.SampleStream) []float64 {
	ret := make([]float64, len(stream.Values))
	for i, pair := range stream.Values {
		ret[i] = float64(pair.Value)
	}
	return ret
}

// CheckFinite returns an error naming the first NaN or Inf in x.
// Prometheus stale markers are NaN, so remote-write data needs this check.
func CheckFinite(name string, x []float64) error {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s has non-finite value %v at index %d", name, v, i)
		}
	}
	return nil
}
