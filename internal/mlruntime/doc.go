// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

/*
Package mlruntime provides the client for the external Model Runtime, the
service that hosts trained virality models and executes inference and
training on Auspex's behalf.

Key Components:

  - Client: the interface consumed by the prediction engine (RegisterModel,
    Predict, TrainModel, GetTrainingJob, GetModelMetrics, Ping)
  - HTTPClient: the production implementation over the runtime's JSON API
  - Typed errors: ErrRuntimeTimeout, ErrRuntimeUnavailable, ErrRuntimeError

Resilience:

Every call passes through three layers before reaching the wire:

 1. A token-bucket rate limiter (golang.org/x/time/rate) smooths bursts so
    the runtime is never flooded during batch scoring or retraining.
 2. A circuit breaker (sony/gobreaker) opens after consecutive failures and
    rejects calls for a cooldown period, reported through the shared
    circuit breaker metrics.
 3. A per-call context deadline bounds each exchange: inference calls use
    the configured request timeout, training submissions and job polls use
    the longer training timeout.

Error Taxonomy:

All failures map onto one of three sentinels so callers can branch with
errors.Is instead of string matching. Timeouts (context expiry, net
timeouts) become ErrRuntimeTimeout. Connection failures, HTTP 429/5xx, and
breaker rejections become ErrRuntimeUnavailable. Request encoding problems
and HTTP 4xx envelopes become ErrRuntimeError. All three are recoverable
from the engine's perspective: a failed runtime call downgrades a
prediction to the heuristic path, it never fails the request.
*/
package mlruntime
