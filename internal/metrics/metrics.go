package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Agent Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "faqagent",
			Name:      "queries_total",
			Help:      "Total number of answered questions by outcome",
		},
		[]string{"outcome"}, // "confident" / "unconfident" / "empty"
	)

	MatchScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "faqagent",
			Name:      "match_score",
			Help:      "Cosine similarity of the best FAQ match",
			Buckets:   []float64{0, 0.05, 0.1, 0.15, 0.2, 0.22, 0.25, 0.3, 0.4, 0.5, 0.75, 1},
		},
	)

	RepliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "faqagent",
			Name:      "replies_total",
			Help:      "Total number of replies by source",
		},
		[]string{"source"},
	)

	FallbackRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "faqagent",
			Name:      "fallback_requests_total",
			Help:      "Total number of fallback generator calls",
		},
		[]string{"generator", "model", "status"},
	)

	FallbackRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "faqagent",
			Name:      "fallback_request_duration_seconds",
			Help:      "Fallback generator call duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"generator", "model"},
	)
)

var registerOnce sync.Once

// Register registers all agent metrics with the default registry. Safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(QueriesTotal)
		prometheus.MustRegister(MatchScore)
		prometheus.MustRegister(RepliesTotal)
		prometheus.MustRegister(FallbackRequestsTotal)
		prometheus.MustRegister(FallbackRequestDuration)
		prometheus.MustRegister(httpRequestDuration)
		prometheus.MustRegister(httpRequestsTotal)
	})
}
