// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/auspex/config.yaml",
	"/etc/auspex/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          8475,
			Host:          "0.0.0.0",
			Timeout:       30 * time.Second,
			ShutdownGrace: 15 * time.Second,
			Environment:   "development",
		},
		API: APIConfig{
			MaxBatchSize:      50,
			RequestTimeout:    30 * time.Second,
			RateLimitReqs:     120,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Engine: EngineConfig{
			RuntimeBlendWeight: 0.3,
			BatchChunkSize:     10,
			PredictTimeout:     10 * time.Second,
			PendingLimit:       10000,
		},
		Extractor: ExtractorConfig{
			MaxTextLength:        10000,
			TrendRefreshInterval: 30 * time.Minute,
			TrendDecayHalfLife:   72 * time.Hour,
		},
		Cache: CacheConfig{
			Backend:         "memory",
			TTL:             time.Hour,
			MaxEntries:      10000,
			CleanupInterval: 5 * time.Minute,
			Redis: RedisConfig{
				Addr:        "127.0.0.1:6379",
				Password:    "",
				DB:          0,
				DialTimeout: 5 * time.Second,
			},
		},
		Training: TrainingConfig{
			Store:           "badger",
			Path:            "/data/auspex/training",
			MinSamples:      100,
			MinQualityScore: 0.7,
			Balance:         true,
			Seed:            1,
		},
		Runtime: RuntimeConfig{
			Enabled:           false,
			URL:               "",
			APIKey:            "",
			Timeout:           5 * time.Second,
			TrainTimeout:      60 * time.Second,
			RequestsPerSecond: 20,
			Burst:             10,
			BreakerFailures:   5,
			BreakerCooldown:   30 * time.Second,
		},
		Jobs: JobsConfig{
			RetrainInterval:  24 * time.Hour,
			EvaluateInterval: 168 * time.Hour,
			MinNewPoints:     100,
			Timeout:          30 * time.Minute,
			RetrainOnStartup: false,
		},
		Events: EventsConfig{
			BufferSize: 256,
			Persistent: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// This function is the preferred way to load configuration and provides:
//   - Type-safe configuration unmarshaling
//   - Clear precedence: ENV > File > Defaults
//   - Support for nested configuration via koanf struct tags
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// HTTP_PORT -> server.port
	// RUNTIME_URL -> runtime.url
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		// If it's a string, split by comma
		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Only explicitly mapped variables are accepted; everything else is skipped so
// unrelated environment variables cannot pollute the configuration.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - CACHE_BACKEND -> cache.backend
//   - RUNTIME_URL -> runtime.url
//   - TRAINING_MIN_SAMPLES -> training.min_samples
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_port":      "server.port",
		"http_host":      "server.host",
		"http_timeout":   "server.timeout",
		"shutdown_grace": "server.shutdown_grace",
		"environment":    "server.environment",

		// API mappings
		"api_max_batch_size":  "api.max_batch_size",
		"api_request_timeout": "api.request_timeout",
		"rate_limit_requests": "api.rate_limit_reqs",
		"rate_limit_window":   "api.rate_limit_window",
		"disable_rate_limit":  "api.rate_limit_disabled",
		"cors_origins":        "api.cors_origins",

		// Engine mappings
		"engine_runtime_blend":   "engine.runtime_blend_weight",
		"engine_batch_chunk":     "engine.batch_chunk_size",
		"engine_predict_timeout": "engine.predict_timeout",
		"engine_pending_limit":   "engine.pending_limit",

		// Extractor mappings
		"extractor_max_text_length": "extractor.max_text_length",
		"extractor_trend_refresh":   "extractor.trend_refresh_interval",
		"extractor_trend_decay":     "extractor.trend_decay_half_life",

		// Cache mappings
		"cache_backend":          "cache.backend",
		"cache_ttl":              "cache.ttl",
		"cache_max_entries":      "cache.max_entries",
		"cache_cleanup_interval": "cache.cleanup_interval",
		"redis_addr":             "cache.redis.addr",
		"redis_password":         "cache.redis.password",
		"redis_db":               "cache.redis.db",
		"redis_dial_timeout":     "cache.redis.dial_timeout",

		// Training mappings
		"training_store":       "training.store",
		"training_path":        "training.path",
		"training_min_samples": "training.min_samples",
		"training_min_quality": "training.min_quality_score",
		"training_balance":     "training.balance",
		"training_seed":        "training.seed",

		// Model Runtime mappings
		"runtime_enabled":          "runtime.enabled",
		"runtime_url":              "runtime.url",
		"runtime_api_key":          "runtime.api_key",
		"runtime_timeout":          "runtime.timeout",
		"runtime_train_timeout":    "runtime.train_timeout",
		"runtime_rps":              "runtime.requests_per_second",
		"runtime_burst":            "runtime.burst",
		"runtime_breaker_failures": "runtime.breaker_failures",
		"runtime_breaker_cooldown": "runtime.breaker_cooldown",

		// Jobs mappings
		"jobs_retrain_interval":  "jobs.retrain_interval",
		"jobs_evaluate_interval": "jobs.evaluate_interval",
		"jobs_min_new_points":    "jobs.min_new_points",
		"jobs_timeout":           "jobs.timeout",
		"jobs_retrain_startup":   "jobs.retrain_on_startup",

		// Events mappings
		"events_buffer_size": "events.buffer_size",
		"events_persistent":  "events.persistent",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
