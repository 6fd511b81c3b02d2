// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

// Package api provides the HTTP surface for the prediction engine,
// built on the Chi router with the go-chi middleware ecosystem.
//
// Every endpoint responds with the models.APIResponse envelope: a
// status discriminator, the payload, response metadata, and a
// structured error when the request failed. Handlers translate the
// engine's sentinel errors into stable error codes so clients can
// branch on code rather than message text.
//
// Route groups:
//
//	/api/v1/predictions  scoring: single, batch, compare, strategy
//	/api/v1/outcomes     observed-metric ingestion for the learning loop
//	/api/v1/models       per-platform performance, hashtag and schedule analysis
//	/api/v1/datasets     training-data quality reports
//	/api/v1/trending     per-platform trending hashtag snapshots
//	/health, /ready      liveness and readiness probes
//	/metrics             Prometheus exposition
package api
