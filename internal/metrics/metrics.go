package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess       = "success"
	OutcomeInvalid       = "invalid"
	OutcomeUpstreamError = "upstream_error"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_assistant_requests_total",
			Help: "Total number of generation requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	ModelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resume_assistant_model_call_duration_seconds",
			Help:    "Duration of upstream model calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"operation"},
	)

	ATSParseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_assistant_ats_parse_total",
			Help: "ATS responses by the strategy that produced the result",
		},
		[]string{"source"},
	)
)
