package receiver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/kpaschen/tsalign/lib/align"
	"github.com/kpaschen/tsalign/lib/correlation"
	"github.com/kpaschen/tsalign/lib/datatypes"
	"github.com/kpaschen/tsalign/lib/reporter"
	"github.com/kpaschen/tsalign/lib/series"
	"github.com/kpaschen/tsalign/lib/settings"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/model"
	"github.com/prometheus/prometheus/prompb"
	"github.com/prometheus/prometheus/storage/remote"
	"github.com/rs/xid"
)

const (
	// Label marking a remote-write series as query or subject.
	RoleLabel = "tsalign_role"
	// Optional label on the query series selecting the distance.
	DistanceLabel = "tsalign_distance"
)

var ErrBadRequest = errors.New("bad request")

// Request ids end up in report file names.
var validId = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

var (
	receivedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsalign_requests_total",
			Help: "Total number of alignment requests.",
		},
		[]string{"endpoint"},
	)
	failedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsalign_failed_requests_total",
			Help: "Total number of alignment requests that failed.",
		},
		[]string{"endpoint"},
	)
	receivedSamples = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tsalign_received_samples_total",
			Help: "Total number of query and subject values received.",
		},
	)
	subjectLength = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tsalign_last_subject_length",
			Help: "Length of the most recent subject.",
		},
	)
	alignmentDurationHist = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:                            "tsalign_alignment_duration_seconds",
			Help:                            "Duration of alignment computations.",
			Buckets:                         prometheus.DefBuckets,
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
	)
)

func init() {
	prometheus.MustRegister(receivedRequests)
	prometheus.MustRegister(failedRequests)
	prometheus.MustRegister(receivedSamples)
	prometheus.MustRegister(subjectLength)
	prometheus.MustRegister(alignmentDurationHist)
}

// An AlignProcessor runs alignment requests. It is safe for concurrent use.
type AlignProcessor struct {
	settings settings.AlignSettings
	aligner  *align.Aligner

	// Optional. All writes to the reporter hold reporterLock.
	reporter     reporter.Reporter
	reporterLock sync.Mutex
}

func NewAlignProcessor(config settings.AlignSettings, rep reporter.Reporter) (*AlignProcessor, error) {
	config = config.ComputeSettingsFields()
	aligner, err := align.NewAligner(config)
	if err != nil {
		return nil, err
	}
	return &AlignProcessor{
		settings: config,
		aligner:  aligner,
		reporter: rep,
	}, nil
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", ErrBadRequest, err)
}

// prepare validates req and picks the aligner for it. It also fills in
// the request id.
func (p *AlignProcessor) prepare(req *datatypes.AlignRequest) (*align.Aligner, error) {
	if req.Id == "" {
		req.Id = xid.New().String()
	} else if !validId.MatchString(req.Id) || strings.Contains(req.Id, "..") {
		return nil, badRequest(fmt.Errorf("invalid request id %q, ids may use letters, digits, '_', '.' and '-'", req.Id))
	}
	receivedSamples.Add(float64(len(req.Query) + len(req.Subject)))
	subjectLength.Set(float64(len(req.Subject)))

	if p.settings.MaxSubjectLength > 0 && len(req.Subject) > p.settings.MaxSubjectLength {
		return nil, badRequest(fmt.Errorf("subject has %d values, limit is %d",
			len(req.Subject), p.settings.MaxSubjectLength))
	}
	if err := series.CheckFinite("query", req.Query); err != nil {
		return nil, badRequest(err)
	}
	if err := series.CheckFinite("subject", req.Subject); err != nil {
		return nil, badRequest(err)
	}

	aligner := *p.aligner
	if req.Distance != "" {
		d, err := align.ParseDistance(req.Distance)
		if err != nil {
			return nil, err
		}
		aligner.Distance = d
	}
	if req.Epsilon > 0 {
		aligner.Epsilon = req.Epsilon
	}
	return &aligner, nil
}

func (p *AlignProcessor) Align(req *datatypes.AlignRequest) (*datatypes.AlignResponse, error) {
	aligner, err := p.prepare(req)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := aligner.Align(req.Query, req.Subject)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	alignmentDurationHist.Observe(elapsed.Seconds())
	log.Printf("request %s: aligned %d values against %d using %s in %v, offset %d\n",
		req.Id, len(req.Query), len(req.Subject), aligner.Distance, elapsed, res.Offset)

	if p.reporter != nil {
		p.reporterLock.Lock()
		err = p.reporter.AddAlignment(req.Id, req.Query, res)
		p.reporterLock.Unlock()
		if err != nil {
			log.Printf("request %s: failed to record alignment: %v\n", req.Id, err)
		}
	}
	resp := datatypes.NewAlignResponse(req.Id, res)
	fit, err := correlation.Measure(req.Query, res.Aligned)
	if err != nil {
		return nil, err
	}
	resp.Pearson = fit.Pearson
	resp.Euclidean = fit.Euclidean
	return resp, nil
}

func (p *AlignProcessor) Profile(req *datatypes.AlignRequest) (*datatypes.ProfileResponse, error) {
	aligner, err := p.prepare(req)
	if err != nil {
		return nil, err
	}
	distances, err := aligner.Distance.Profile(req.Query, req.Subject, aligner.Epsilon)
	if err != nil {
		return nil, err
	}
	return &datatypes.ProfileResponse{
		Id:       req.Id,
		Distance: aligner.Distance.String(),
		Profile:  distances,
	}, nil
}

// Shutdown flushes the reporter.
func (p *AlignProcessor) Shutdown() error {
	if p.reporter == nil {
		return nil
	}
	p.reporterLock.Lock()
	defer p.reporterLock.Unlock()
	return p.reporter.Flush()
}

func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, align.ErrInvalidDistance),
		errors.Is(err, align.ErrSubjectTooShort),
		errors.Is(err, align.ErrEmptySequence):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v\n", err)
	}
}

func (p *AlignProcessor) fail(w http.ResponseWriter, endpoint string, err error) {
	failedRequests.WithLabelValues(endpoint).Inc()
	log.Printf("%s: %v\n", endpoint, err)
	http.Error(w, err.Error(), StatusForError(err))
}

func decodeRequest(r *http.Request) (*datatypes.AlignRequest, error) {
	req := &datatypes.AlignRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return nil, badRequest(err)
	}
	return req, nil
}

func (p *AlignProcessor) HandleAlign(w http.ResponseWriter, r *http.Request) {
	receivedRequests.WithLabelValues("align").Inc()
	req, err := decodeRequest(r)
	if err != nil {
		p.fail(w, "align", err)
		return
	}
	resp, err := p.Align(req)
	if err != nil {
		p.fail(w, "align", err)
		return
	}
	writeJSON(w, resp)
}

func (p *AlignProcessor) HandleProfile(w http.ResponseWriter, r *http.Request) {
	receivedRequests.WithLabelValues("profile").Inc()
	req, err := decodeRequest(r)
	if err != nil {
		p.fail(w, "profile", err)
		return
	}
	resp, err := p.Profile(req)
	if err != nil {
		p.fail(w, "profile", err)
		return
	}
	writeJSON(w, resp)
}

// requestFromWriteRequest picks the query and subject series out of a
// remote-write request by their role label.
func (p *AlignProcessor) requestFromWriteRequest(wr *prompb.WriteRequest) (*datatypes.AlignRequest, error) {
	req := &datatypes.AlignRequest{}
	var haveQuery, haveSubject bool
	for _, ts := range wr.Timeseries {
		metric := make(model.Metric, len(ts.Labels))
		for _, l := range ts.Labels {
			metric[model.LabelName(l.Name)] = model.LabelValue(l.Value)
		}
		values := make([]float64, len(ts.Samples))
		for i, s := range ts.Samples {
			values[i] = s.Value
		}
		switch string(metric[RoleLabel]) {
		case p.settings.QueryRole:
			if haveQuery {
				return nil, badRequest(fmt.Errorf("more than one query series"))
			}
			haveQuery = true
			req.Query = values
			req.Distance = string(metric[DistanceLabel])
		case p.settings.SubjectRole:
			if haveSubject {
				return nil, badRequest(fmt.Errorf("more than one subject series"))
			}
			haveSubject = true
			req.Subject = values
		default:
			log.Printf("ignoring series %s with %s=%q\n", metric.String(), RoleLabel, metric[RoleLabel])
		}
	}
	if !haveQuery || !haveSubject {
		return nil, badRequest(fmt.Errorf("need one series with %s=%q and one with %s=%q",
			RoleLabel, p.settings.QueryRole, RoleLabel, p.settings.SubjectRole))
	}
	return req, nil
}

// ReceivePrometheusData aligns the query and subject series of a
// Prometheus remote-write request.
func (p *AlignProcessor) ReceivePrometheusData(w http.ResponseWriter, r *http.Request) {
	receivedRequests.WithLabelValues("write").Inc()
	wr, err := remote.DecodeWriteRequest(r.Body)
	if err != nil {
		p.fail(w, "write", badRequest(fmt.Errorf("failed to decode write request: %v", err)))
		return
	}
	req, err := p.requestFromWriteRequest(wr)
	if err != nil {
		p.fail(w, "write", err)
		return
	}
	resp, err := p.Align(req)
	if err != nil {
		p.fail(w, "write", err)
		return
	}
	writeJSON(w, resp)
}
