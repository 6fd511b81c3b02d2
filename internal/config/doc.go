// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

// Package config provides layered configuration loading for Auspex using
// Koanf v2.
//
// Configuration is assembled from three layers, later layers overriding
// earlier ones:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML config file (config.yaml, /etc/auspex/config.yaml,
//     or the path named by CONFIG_PATH)
//  3. Environment variables (explicit allowlist, see envTransformFunc)
//
// # Quick Start
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	server := api.NewServer(cfg, engine)
//
// # Sections
//
//   - Server: HTTP listener (port, host, timeouts, environment)
//   - API: batch limits, per-request deadlines, rate limiting, CORS
//   - Engine: prediction orchestration (runtime blend, chunking, pending cap)
//   - Extractor: text bounds and trending-table refresh cadence
//   - Cache: prediction cache backend (memory or redis) and TTL
//   - Training: dataset store, quality gates, balancing, seed
//   - Runtime: Model Runtime client (URL, timeouts, rate limit, breaker)
//   - Jobs: background retrain/evaluate scheduling
//   - Events: in-process bus sizing
//   - Logging: level, format, caller info
//
// # Validation
//
// Load validates the assembled configuration and fails fast with an error
// naming the offending environment variable, for example:
//
//	configuration validation failed: RUNTIME_URL is required when RUNTIME_ENABLED=true
//
// Config values are immutable after Load and safe for concurrent reads.
package config
