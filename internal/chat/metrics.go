package chat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_chat_requests_total",
			Help: "Chat endpoint requests by outcome",
		},
		[]string{"outcome"},
	)

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_chat_request_duration_seconds",
		Help:    "Latency of chat endpoint requests",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
	})

	healthUp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "assistant_chat_backend_up",
		Help: "1 when the last health probe of the chat backend succeeded",
	})
)
