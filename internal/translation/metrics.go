package translation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for translation requests.
const (
	outcomeSuccess  = "success"
	outcomeSkipped  = "skipped"
	outcomeFallback = "fallback"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_translation_requests_total",
			Help: "Translation requests by engine and outcome",
		},
		[]string{"engine", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_translation_duration_seconds",
			Help:    "Latency of calls to the translation backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"},
	)
)
