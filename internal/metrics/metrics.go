// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

// Package metrics holds the Prometheus collectors for the service.
//
// Collectors are registered with the default registry through promauto and
// exposed at /metrics. Call sites use the Record* helpers so label values
// stay consistent.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of persistence operations in seconds, including retries",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_errors_total",
			Help: "Total number of failed persistence operations by error kind",
		},
		[]string{"operation", "kind"},
	)

	StoreRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_retry_attempts_total",
			Help: "Total number of retried persistence attempts",
		},
		[]string{"operation", "attempt", "outcome"}, // outcome: "retrying", "recovered", "exhausted"
	)

	StoreThrottled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_throttled_total",
			Help: "Total number of persistence requests rejected by the throughput limiter",
		},
		[]string{"operation"},
	)

	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_value_log_gc_runs_total",
			Help: "Total number of value log garbage collection runs",
		},
		[]string{"result"}, // "rewritten", "noop", "error"
	)

	// Rating Metrics
	RatingsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratings_submitted_total",
			Help: "Total number of rating submissions by outcome",
		},
		[]string{"outcome"}, // "created", "validation_error", "not_found", "already_rated", "error"
	)

	RatingValues = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rating_values",
			Help:    "Distribution of accepted rating scores",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)

	// Approval Metrics
	RecipeAutoApprovals = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_auto_approvals_total",
			Help: "Total number of recipes approved by community rating",
		},
	)

	ApprovalRaceLost = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_approval_race_lost_total",
			Help: "Total number of approval attempts that found the recipe already approved",
		},
	)

	ApprovalSideEffects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_approval_side_effects_total",
			Help: "Total number of post-approval side effects by kind and result",
		},
		[]string{"effect", "result"}, // effect: "enrichment", "notification"
	)

	// Enrichment Metrics
	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_request_duration_seconds",
			Help:    "Duration of ingredient enrichment requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	EnrichmentIngredientsAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "enrichment_ingredients_added_total",
			Help: "Total number of new catalog ingredients reported by the enrichment collaborator",
		},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of domain events published",
		},
		[]string{"topic", "result"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Total number of domain events handled",
		},
		[]string{"topic", "result"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordStoreOperation records the duration of a persistence operation and,
// when it failed, the error kind it was translated to.
func RecordStoreOperation(operation string, duration time.Duration, errKind string) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if errKind != "" {
		StoreOperationErrors.WithLabelValues(operation, errKind).Inc()
	}
}

// RecordStoreRetry records one retried (or finally resolved) attempt.
func RecordStoreRetry(operation string, attempt int, outcome string) {
	StoreRetryAttempts.WithLabelValues(operation, strconv.Itoa(attempt), outcome).Inc()
}

// RecordStoreThrottled records a limiter rejection.
func RecordStoreThrottled(operation string) {
	StoreThrottled.WithLabelValues(operation).Inc()
}

// RecordStoreGC records the result of a value log GC pass.
func RecordStoreGC(result string) {
	StoreGCRuns.WithLabelValues(result).Inc()
}

// RecordRatingSubmission records a submission outcome and, for accepted
// ratings, the score.
func RecordRatingSubmission(outcome string, score int) {
	RatingsSubmitted.WithLabelValues(outcome).Inc()
	if outcome == "created" {
		RatingValues.Observe(float64(score))
	}
}

// RecordAutoApproval records that a recipe crossed the approval threshold.
func RecordAutoApproval(won bool) {
	if won {
		RecipeAutoApprovals.Inc()
		return
	}
	ApprovalRaceLost.Inc()
}

// RecordApprovalSideEffect records the result of enrichment or notification
// after an approval.
func RecordApprovalSideEffect(effect string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	ApprovalSideEffects.WithLabelValues(effect, result).Inc()
}

// RecordEnrichment records an enrichment round trip.
func RecordEnrichment(duration time.Duration, newIngredients int) {
	EnrichmentDuration.Observe(duration.Seconds())
	if newIngredients > 0 {
		EnrichmentIngredientsAdded.Add(float64(newIngredients))
	}
}

// RecordEventPublished records a publish attempt for topic.
func RecordEventPublished(topic string, err error) {
	EventsPublished.WithLabelValues(topic, resultLabel(err)).Inc()
}

// RecordEventConsumed records a handler invocation for topic.
func RecordEventConsumed(topic string, err error) {
	EventsConsumed.WithLabelValues(topic, resultLabel(err)).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
