// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ranking pipeline
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakesensei_recommend_requests_total",
			Help: "Total ranking requests by mode and outcome",
		},
		[]string{"mode", "outcome"}, // outcome: ok, no_results, rejected, upstream_error, canceled
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sakesensei_recommend_duration_seconds",
			Help:    "Ranking latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	RecommendCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sakesensei_recommend_candidates",
			Help:    "Eligible candidates per ranking request after exclusion filters",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	SignalFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakesensei_signal_failures_total",
			Help: "Scoring signals that errored and were dropped from the blend",
		},
		[]string{"signal"},
	)

	SignalUnavailable = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakesensei_signal_unavailable_total",
			Help: "Scoring signals with no usable data whose weight was redistributed",
		},
		[]string{"signal"},
	)

	InvalidRecordsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sakesensei_invalid_tasting_records_dropped_total",
			Help: "Population tasting records dropped for out-of-range ratings",
		},
	)

	// Similarity cache
	SimilarityCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakesensei_similarity_cache_hits_total",
			Help: "User similarity cache hits by backend",
		},
		[]string{"backend"},
	)

	SimilarityCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakesensei_similarity_cache_misses_total",
			Help: "User similarity cache misses by backend",
		},
		[]string{"backend"},
	)

	SimilarityCacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakesensei_similarity_cache_errors_total",
			Help: "User similarity cache backend errors (treated as misses)",
		},
		[]string{"backend", "operation"},
	)

	// Upstream collaborators
	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakesensei_upstream_errors_total",
			Help: "Data source failures that aborted a ranking request",
		},
		[]string{"operation"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sakesensei_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakesensei_duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sakesensei_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakesensei_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakesensei_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakesensei_api_requests_total",
			Help: "Total API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sakesensei_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordRecommendation records one finished ranking request.
func RecordRecommendation(mode, outcome string, duration time.Duration) {
	RecommendRequests.WithLabelValues(mode, outcome).Inc()
	RecommendDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordDBQuery records a DuckDB query.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records an HTTP request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
