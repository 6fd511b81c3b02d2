// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateEngine(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateTraining(); err != nil {
		return err
	}

	if err := c.validateRuntime(); err != nil {
		return err
	}

	if err := c.validateJobs(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.MaxBatchSize < 1 {
		return fmt.Errorf("API_MAX_BATCH_SIZE must be at least 1, got %d", c.API.MaxBatchSize)
	}
	if c.API.RequestTimeout <= 0 {
		return fmt.Errorf("API_REQUEST_TIMEOUT must be positive, got %v", c.API.RequestTimeout)
	}
	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.API.RateLimitReqs)
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.API.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.RuntimeBlendWeight < 0 || c.Engine.RuntimeBlendWeight > 1 {
		return fmt.Errorf("ENGINE_RUNTIME_BLEND must be between 0 and 1, got %v", c.Engine.RuntimeBlendWeight)
	}
	if c.Engine.BatchChunkSize < 1 {
		return fmt.Errorf("ENGINE_BATCH_CHUNK must be at least 1, got %d", c.Engine.BatchChunkSize)
	}
	if c.Engine.PredictTimeout <= 0 {
		return fmt.Errorf("ENGINE_PREDICT_TIMEOUT must be positive, got %v", c.Engine.PredictTimeout)
	}
	if c.Engine.PendingLimit < 1 {
		return fmt.Errorf("ENGINE_PENDING_LIMIT must be at least 1, got %d", c.Engine.PendingLimit)
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "memory", "lfu", "redis":
	default:
		return fmt.Errorf("CACHE_BACKEND must be memory, lfu or redis, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %v", c.Cache.TTL)
	}
	if c.Cache.MaxEntries < 1 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be at least 1, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
	}
	return nil
}

func (c *Config) validateTraining() error {
	switch c.Training.Store {
	case "badger", "memory":
	default:
		return fmt.Errorf("TRAINING_STORE must be badger or memory, got %q", c.Training.Store)
	}
	if c.Training.Store == "badger" && c.Training.Path == "" {
		return fmt.Errorf("TRAINING_PATH is required when TRAINING_STORE=badger")
	}
	if c.Training.MinSamples < 1 {
		return fmt.Errorf("TRAINING_MIN_SAMPLES must be at least 1, got %d", c.Training.MinSamples)
	}
	if c.Training.MinQualityScore < 0 || c.Training.MinQualityScore > 1 {
		return fmt.Errorf("TRAINING_MIN_QUALITY must be between 0 and 1, got %v", c.Training.MinQualityScore)
	}
	return nil
}

func (c *Config) validateRuntime() error {
	if !c.Runtime.Enabled {
		return nil
	}
	if c.Runtime.URL == "" {
		return fmt.Errorf("RUNTIME_URL is required when RUNTIME_ENABLED=true")
	}
	if err := validateHTTPURL(c.Runtime.URL, "RUNTIME_URL"); err != nil {
		return err
	}
	if c.Runtime.Timeout <= 0 {
		return fmt.Errorf("RUNTIME_TIMEOUT must be positive, got %v", c.Runtime.Timeout)
	}
	if c.Runtime.RequestsPerSecond <= 0 {
		return fmt.Errorf("RUNTIME_RPS must be positive, got %v", c.Runtime.RequestsPerSecond)
	}
	return nil
}

func (c *Config) validateJobs() error {
	if c.Jobs.RetrainInterval <= 0 {
		return fmt.Errorf("JOBS_RETRAIN_INTERVAL must be positive, got %v", c.Jobs.RetrainInterval)
	}
	if c.Jobs.EvaluateInterval <= 0 {
		return fmt.Errorf("JOBS_EVALUATE_INTERVAL must be positive, got %v", c.Jobs.EvaluateInterval)
	}
	if c.Jobs.MinNewPoints < 1 {
		return fmt.Errorf("JOBS_MIN_NEW_POINTS must be at least 1, got %d", c.Jobs.MinNewPoints)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL checks that a value parses as an absolute http(s) URL.
func validateHTTPURL(raw, name string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme, got %q", name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}
	return nil
}
