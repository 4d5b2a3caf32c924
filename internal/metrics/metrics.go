// Package metrics holds the Prometheus collectors of the storefront backend.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "metalshop_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	BOMUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metalshop_bom_uploads_total",
			Help: "Total number of parsed BOM uploads",
		},
		[]string{"format", "status"},
	)

	BOMRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metalshop_bom_rows_total",
			Help: "BOM rows emitted by the parser, by match confidence",
		},
		[]string{"confidence"},
	)

	BOMParseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "metalshop_bom_parse_duration_seconds",
			Help:    "Time spent parsing and matching one BOM upload",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	AnafLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metalshop_anaf_lookups_total",
			Help: "ANAF CUI lookups by outcome",
		},
		[]string{"outcome"},
	)

	AnafUpstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "metalshop_anaf_upstream_duration_seconds",
			Help:    "Duration of calls to the ANAF API",
			Buckets: prometheus.DefBuckets,
		},
	)

	RFQSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metalshop_rfq_submissions_total",
			Help: "RFQ submissions by result",
		},
		[]string{"result"},
	)
)

// RecordHTTP records one served request.
func RecordHTTP(method, route, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// RecordBOMUpload records an upload and the confidence tier of every emitted row.
func RecordBOMUpload(format string, ok bool, confidences []string, d time.Duration) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	BOMUploadsTotal.WithLabelValues(format, status).Inc()
	for _, c := range confidences {
		BOMRowsTotal.WithLabelValues(c).Inc()
	}
	BOMParseDuration.Observe(d.Seconds())
}

// RecordAnafLookup records a lookup outcome: cache_hit, upstream, not_found, invalid or error.
func RecordAnafLookup(outcome string) {
	AnafLookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordAnafUpstream records the latency of one upstream call.
func RecordAnafUpstream(d time.Duration) {
	AnafUpstreamDuration.Observe(d.Seconds())
}

// RecordRFQ records an RFQ submission result: accepted, invalid or error.
func RecordRFQ(result string) {
	RFQSubmissionsTotal.WithLabelValues(result).Inc()
}

// Timer measures elapsed time.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer { return &Timer{start: time.Now()} }

func (t *Timer) Duration() time.Duration { return time.Since(t.start) }
