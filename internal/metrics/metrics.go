// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides comprehensive instrumentation for:
// - Prediction pipeline latency, scores, and fallbacks
// - Feature extraction performance
// - Model Runtime client calls and circuit breaker state
// - Training data lifecycle (outcomes, datasets, retraining)
// - Prediction cache efficiency
// - API endpoint latency and throughput

var (
	// Prediction Pipeline Metrics
	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prediction_duration_seconds",
			Help:    "Duration of viral predictions in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"platform", "outcome"}, // outcome: "success", "fallback", "cached"
	)

	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of viral predictions served",
		},
		[]string{"platform", "outcome"},
	)

	PredictionScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prediction_viral_score",
			Help:    "Distribution of viral scores by platform",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"platform"},
	)

	PredictionFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_fallbacks_total",
			Help: "Total number of fallback predictions by pipeline stage",
		},
		[]string{"platform", "stage"}, // stage: "extracting", "scoring", "explaining"
	)

	BatchPredictionSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "batch_prediction_size",
			Help:    "Number of items in batch prediction requests",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		},
	)

	// Feature Extraction Metrics
	ExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feature_extraction_duration_seconds",
			Help:    "Duration of full feature extraction in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	ExtractionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feature_extraction_errors_total",
			Help: "Total number of feature extraction failures",
		},
		[]string{"group"}, // sub-extraction group name
	)

	TrendRefreshes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trending_refreshes_total",
			Help: "Total number of trending-topic table refreshes",
		},
	)

	TrendTopics = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trending_topics",
			Help: "Current number of trending topics per platform",
		},
		[]string{"platform"},
	)

	// Model Runtime Client Metrics
	RuntimeCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_runtime_call_duration_seconds",
			Help:    "Duration of Model Runtime API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "predict", "train", "job_status", "metrics", "register", "ping"
	)

	RuntimeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_runtime_errors_total",
			Help: "Total number of Model Runtime call failures",
		},
		[]string{"operation", "error_type"}, // "timeout", "unavailable", "remote", "breaker_open"
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

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Training Data Lifecycle Metrics
	OutcomesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_outcomes_recorded_total",
			Help: "Total number of outcome records ingested for labeling",
		},
		[]string{"platform"},
	)

	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_runs_total",
			Help: "Total number of retraining runs",
		},
		[]string{"platform", "result"}, // result: "success", "failure", "skipped"
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "training_run_duration_seconds",
			Help:    "Duration of retraining runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)

	DatasetPoints = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "training_dataset_points",
			Help: "Current number of labeled data points per platform",
		},
		[]string{"platform"},
	)

	DatasetQuality = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "training_dataset_quality_score",
			Help: "Most recent dataset quality score per platform (0 to 1)",
		},
		[]string{"platform"},
	)

	ModelAccuracy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "platform_model_accuracy",
			Help: "Most recent evaluated accuracy per platform model (0 to 1)",
		},
		[]string{"platform"},
	)

	// Cache Metrics (General)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "prediction"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published to the bus",
		},
		[]string{"topic"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Total number of events consumed from the bus",
		},
		[]string{"topic", "result"}, // result: "success", "failure"
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
)

// RecordPrediction records one served prediction with its score and latency.
// Outcome should be one of "success", "fallback", or "cached".
func RecordPrediction(platform, outcome string, score float64, duration time.Duration) {
	PredictionDuration.WithLabelValues(platform, outcome).Observe(duration.Seconds())
	PredictionsTotal.WithLabelValues(platform, outcome).Inc()
	PredictionScores.WithLabelValues(platform).Observe(score)
}

// RecordFallback records a fallback prediction with the stage that failed.
func RecordFallback(platform, stage string) {
	PredictionFallbacks.WithLabelValues(platform, stage).Inc()
}

// RecordExtraction records one feature extraction pass.
func RecordExtraction(duration time.Duration) {
	ExtractionDuration.Observe(duration.Seconds())
}

// RecordExtractionError records a failed sub-extraction group.
func RecordExtractionError(group string) {
	ExtractionErrors.WithLabelValues(group).Inc()
}

// RecordRuntimeCall records a Model Runtime API call. A non-empty errType
// marks the call failed; use "timeout", "unavailable", "remote", or
// "breaker_open".
func RecordRuntimeCall(operation string, duration time.Duration, errType string) {
	RuntimeCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if errType != "" {
		RuntimeErrors.WithLabelValues(operation, errType).Inc()
	}
}

// RecordTrainingRun records the result of one retraining cycle.
func RecordTrainingRun(platform, result string, duration time.Duration) {
	TrainingRuns.WithLabelValues(platform, result).Inc()
	if result != "skipped" {
		TrainingDuration.Observe(duration.Seconds())
	}
}

// RecordAPIRequest records an HTTP request with its latency.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheHit records a cache hit for the given cache type.
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss for the given cache type.
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordEventPublished records an event published to the bus.
func RecordEventPublished(topic string) {
	EventsPublished.WithLabelValues(topic).Inc()
}

// RecordEventConsumed records an event handled by a subscriber.
func RecordEventConsumed(topic string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	EventsConsumed.WithLabelValues(topic, result).Inc()
}

// QualityUnchanged tells UpdateDatasetGauges to leave the quality gauge
// as it is. Ingestion paths update the point count on every write but
// only reassess quality periodically.
const QualityUnchanged = -1

// UpdateDatasetGauges refreshes the per-platform dataset gauges after
// ingestion or quality assessment. Pass QualityUnchanged to leave the
// quality gauge untouched.
func UpdateDatasetGauges(platform string, points int, quality float64) {
	DatasetPoints.WithLabelValues(platform).Set(float64(points))
	if quality >= 0 {
		DatasetQuality.WithLabelValues(platform).Set(quality)
	}
}
