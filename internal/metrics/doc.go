// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

// Package metrics provides Prometheus instrumentation for the prediction
// pipeline and its supporting infrastructure.
//
// All collectors are registered with the default registry via promauto at
// package initialization and exposed through the /metrics endpoint.
//
// # Metric Groups
//
//   - prediction_*: served predictions, score distribution, fallbacks
//   - feature_extraction_*: extraction latency and sub-extraction failures
//   - trending_*: trending-topic table refreshes and sizes
//   - model_runtime_*: Model Runtime client calls and failures
//   - circuit_breaker_*: breaker state for the runtime client
//   - training_*: outcome ingestion, dataset sizes/quality, retraining runs
//   - cache_*: prediction cache hits, misses, evictions
//   - events_*: event bus publish/consume counts
//   - api_*: HTTP request counts, latency, rate limiting
//
// # Usage
//
// Prefer the Record* helpers over direct collector access so label values
// stay consistent across call sites:
//
//	start := time.Now()
//	pred := engine.Predict(ctx, req)
//	metrics.RecordPrediction(req.Platform.String(), "success", pred.ViralScore, time.Since(start))
//
// Helpers never return errors and are safe for concurrent use.
package metrics
