// Package metrics exposes prometheus instruments for outbound RAG traffic.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ragRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ragbridge",
			Name:      "rag_request_duration_seconds",
			Help:      "Outbound RAG request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation", "outcome"},
	)

	ragRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragbridge",
			Name:      "rag_requests_total",
			Help:      "Total number of outbound RAG requests",
		},
		[]string{"operation", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(ragRequestDuration)
	prometheus.MustRegister(ragRequestsTotal)
}

// Outcome labels for ObserveRAGRequest.
const (
	OutcomeOK      = "ok"
	OutcomeStatus  = "upstream_error"
	OutcomeTimeout = "timeout"
	OutcomeNetwork = "network_error"
	OutcomeDecode  = "decode_error"
)

// ObserveRAGRequest records one outbound call against the RAG service.
func ObserveRAGRequest(operation, outcome string, elapsed time.Duration) {
	ragRequestDuration.WithLabelValues(operation, outcome).Observe(elapsed.Seconds())
	ragRequestsTotal.WithLabelValues(operation, outcome).Inc()
}
