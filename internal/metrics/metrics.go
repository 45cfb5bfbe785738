// Package metrics holds the Prometheus collectors of the voting service.
// Collectors are registered on the default registry and served at /api/v1/metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Session lifecycle
	SessionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wannawatch_session_transitions_total",
			Help: "Total number of sessions entering a status",
		},
		[]string{"status"},
	)

	// Vote ledger
	VotesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wannawatch_votes_recorded_total",
			Help: "Total number of accepted votes",
		},
		[]string{"decision"},
	)

	VotesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wannawatch_votes_rejected_total",
			Help: "Total number of rejected votes",
		},
		[]string{"reason"},
	)

	// Aggregation
	ResultsDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wannawatch_results_duration_seconds",
			Help:    "Duration of match result computation in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
		},
	)

	// Queue cache
	QueueCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wannawatch_queue_cache_hits_total",
			Help: "Total number of voted-set cache hits",
		},
	)

	QueueCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wannawatch_queue_cache_misses_total",
			Help: "Total number of voted-set cache misses and fallbacks",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wannawatch_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)

	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wannawatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wannawatch_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "endpoint"},
	)
)

// Decision is the label value for a vote decision.
func Decision(liked bool) string {
	if liked {
		return "like"
	}
	return "dislike"
}
