// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML config file, and environment variables (highest priority).
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Serving:
//     - Server: HTTP server configuration (port, host, timeouts)
//     - API: Request limits, rate limiting, CORS
//
//  2. Prediction Pipeline:
//     - Engine: Orchestration knobs (runtime blend weight, batch sizing)
//     - Extractor: Feature extraction and trending-topic refresh
//     - Cache: Prediction cache backend and TTL
//
//  3. Learning:
//     - Training: Dataset store, quality gates, split ratios
//     - Runtime: Model Runtime client (URL, timeouts, breaker, rate limit)
//     - Jobs: Background retrain/evaluate/refresh scheduling
//
//  4. Infrastructure:
//     - Events: In-process event bus sizing
//     - Logging: Log levels and output formats
//
// Example - Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Server.Port, cfg.Training.Path, etc. are now populated
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Engine    EngineConfig    `koanf:"engine"`
	Extractor ExtractorConfig `koanf:"extractor"`
	Cache     CacheConfig     `koanf:"cache"`
	Training  TrainingConfig  `koanf:"training"`
	Runtime   RuntimeConfig   `koanf:"runtime"`
	Jobs      JobsConfig      `koanf:"jobs"`
	Events    EventsConfig    `koanf:"events"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT: Listen port (default: 8475)
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
//   - ENVIRONMENT: "development" or "production" (default: development)
type ServerConfig struct {
	// Port is the HTTP listen port. Default: 8475.
	Port int `koanf:"port"`
	// Host is the bind address. Default: 0.0.0.0.
	Host string `koanf:"host"`
	// Timeout applies to request reads and response writes. Default: 30s.
	Timeout time.Duration `koanf:"timeout"`
	// ShutdownGrace is how long in-flight requests may drain on shutdown. Default: 15s.
	ShutdownGrace time.Duration `koanf:"shutdown_grace"`
	// Environment selects development or production behavior. Default: development.
	Environment string `koanf:"environment"`
}

// APIConfig holds request-handling limits for the HTTP surface.
//
// Environment Variables:
//   - API_MAX_BATCH_SIZE: Maximum items per batch prediction request (default: 50)
//   - API_REQUEST_TIMEOUT: Per-request processing deadline (default: 30s)
//   - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: Rate limiting (default: 120 per 1m)
//   - DISABLE_RATE_LIMIT: Turn off rate limiting entirely (default: false)
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
type APIConfig struct {
	// MaxBatchSize caps the number of items in one batch prediction call. Default: 50.
	MaxBatchSize int `koanf:"max_batch_size"`
	// RequestTimeout is the per-request processing deadline. Default: 30s.
	RequestTimeout time.Duration `koanf:"request_timeout"`
	// RateLimitReqs is the allowed request count per window. Default: 120.
	RateLimitReqs int `koanf:"rate_limit_reqs"`
	// RateLimitWindow is the rate limiting window. Default: 1m.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	// RateLimitDisabled turns rate limiting off. Default: false.
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`
	// CORSOrigins lists allowed CORS origins. Default: ["*"].
	CORSOrigins []string `koanf:"cors_origins"`
}

// EngineConfig holds prediction orchestration settings.
//
// Environment Variables:
//   - ENGINE_RUNTIME_BLEND: Weight of the Model Runtime score in the final
//     blend, 0 to 1 (default: 0.3). The platform heuristic carries the rest.
//   - ENGINE_BATCH_CHUNK: Concurrent items per batch chunk (default: 10)
//   - ENGINE_PREDICT_TIMEOUT: Deadline for a single prediction (default: 10s)
type EngineConfig struct {
	// RuntimeBlendWeight is the share of the final score taken from the
	// Model Runtime prediction when the runtime is enabled. Default: 0.3.
	RuntimeBlendWeight float64 `koanf:"runtime_blend_weight"`
	// BatchChunkSize bounds fan-out concurrency for batch predictions. Default: 10.
	BatchChunkSize int `koanf:"batch_chunk_size"`
	// PredictTimeout is the per-prediction deadline covering extraction,
	// scoring, and explanation. Default: 10s.
	PredictTimeout time.Duration `koanf:"predict_timeout"`
	// PendingLimit caps how many unresolved predictions are retained for
	// outcome joining. Default: 10000.
	PendingLimit int `koanf:"pending_limit"`
}

// ExtractorConfig holds feature extraction settings.
//
// Environment Variables:
//   - EXTRACTOR_MAX_TEXT_LENGTH: Texts longer than this are truncated before
//     analysis (default: 10000)
//   - EXTRACTOR_TREND_REFRESH: Trending-topic table refresh interval (default: 30m)
//   - EXTRACTOR_TREND_DECAY: Half-life for observed hashtag weights (default: 72h)
type ExtractorConfig struct {
	// MaxTextLength truncates pathological inputs before analysis. Default: 10000.
	MaxTextLength int `koanf:"max_text_length"`
	// TrendRefreshInterval is how often the trending table recomputes. Default: 30m.
	TrendRefreshInterval time.Duration `koanf:"trend_refresh_interval"`
	// TrendDecayHalfLife controls how fast observed hashtag weight fades. Default: 72h.
	TrendDecayHalfLife time.Duration `koanf:"trend_decay_half_life"`
}

// CacheConfig holds prediction cache settings.
//
// Environment Variables:
//   - CACHE_BACKEND: "memory", "lfu" or "redis" (default: memory)
//   - CACHE_TTL: Prediction lifetime (default: 1h)
//   - CACHE_MAX_ENTRIES: Bound for the in-process backends (default: 10000)
//   - REDIS_ADDR / REDIS_PASSWORD / REDIS_DB: Redis backend connection
type CacheConfig struct {
	// Backend selects the cache implementation: memory (bounded TTL),
	// lfu (frequency eviction) or redis. Default: memory.
	Backend string `koanf:"backend"`
	// TTL is how long a cached prediction stays valid. Default: 1h.
	TTL time.Duration `koanf:"ttl"`
	// MaxEntries bounds the in-process backends. Default: 10000.
	MaxEntries int `koanf:"max_entries"`
	// CleanupInterval is how often expired entries are evicted. Default: 5m.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	// Redis holds connection settings for the redis backend.
	Redis RedisConfig `koanf:"redis"`
}

// RedisConfig holds Redis connection settings for the optional cache backend.
type RedisConfig struct {
	// Addr is the host:port of the Redis server. Default: 127.0.0.1:6379.
	Addr string `koanf:"addr"`
	// Password authenticates the connection if set. Default: empty.
	Password string `koanf:"password"`
	// DB selects the logical database. Default: 0.
	DB int `koanf:"db"`
	// DialTimeout bounds connection establishment. Default: 5s.
	DialTimeout time.Duration `koanf:"dial_timeout"`
}

// TrainingConfig holds training-data lifecycle settings.
//
// Environment Variables:
//   - TRAINING_STORE: "badger" or "memory" (default: badger)
//   - TRAINING_PATH: Badger data directory (default: /data/auspex/training)
//   - TRAINING_MIN_SAMPLES: Minimum labeled points for dataset preparation (default: 100)
//   - TRAINING_MIN_QUALITY: Minimum quality score for dataset preparation (default: 0.7)
type TrainingConfig struct {
	// Store selects the dataset store implementation: badger or memory. Default: badger.
	Store string `koanf:"store"`
	// Path is the Badger data directory. Default: /data/auspex/training.
	Path string `koanf:"path"`
	// MinSamples is the minimum labeled point count for PrepareDataset. Default: 100.
	MinSamples int `koanf:"min_samples"`
	// MinQualityScore is the minimum quality gate for PrepareDataset. Default: 0.7.
	MinQualityScore float64 `koanf:"min_quality_score"`
	// Balance down-samples the majority class before splitting. Default: true.
	Balance bool `koanf:"balance"`
	// Seed drives the split shuffle and augmentation jitter. Default: 1.
	Seed int64 `koanf:"seed"`
}

// RuntimeConfig holds Model Runtime client settings. The Model Runtime is the
// external service that executes registered-model inference and training.
//
// Environment Variables:
//   - RUNTIME_ENABLED: Call the Model Runtime during predictions (default: false)
//   - RUNTIME_URL: Base URL of the Model Runtime API
//   - RUNTIME_API_KEY: Bearer token, if the runtime requires one
//   - RUNTIME_TIMEOUT: Per-call deadline for inference (default: 5s)
//   - RUNTIME_TRAIN_TIMEOUT: Deadline for training submissions (default: 60s)
type RuntimeConfig struct {
	// Enabled turns on Model Runtime calls. When false the engine scores with
	// platform heuristics only. Default: false.
	Enabled bool `koanf:"enabled"`
	// URL is the Model Runtime base URL. Required when enabled.
	URL string `koanf:"url"`
	// APIKey is sent as a bearer token when non-empty.
	APIKey string `koanf:"api_key"`
	// Timeout bounds each inference call. Default: 5s.
	Timeout time.Duration `koanf:"timeout"`
	// TrainTimeout bounds training submissions and job polls. Default: 60s.
	TrainTimeout time.Duration `koanf:"train_timeout"`
	// RequestsPerSecond rate-limits outbound calls. Default: 20.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	// Burst is the rate limiter burst allowance. Default: 10.
	Burst int `koanf:"burst"`
	// BreakerFailures is the consecutive-failure count that opens the
	// circuit breaker. Default: 5.
	BreakerFailures uint32 `koanf:"breaker_failures"`
	// BreakerCooldown is how long the breaker stays open. Default: 30s.
	BreakerCooldown time.Duration `koanf:"breaker_cooldown"`
}

// JobsConfig holds background job scheduling settings.
//
// Environment Variables:
//   - JOBS_RETRAIN_INTERVAL: Retrain cadence (default: 24h)
//   - JOBS_EVALUATE_INTERVAL: Model evaluation cadence (default: 168h)
//   - JOBS_MIN_NEW_POINTS: New labeled points required before a retrain runs (default: 100)
//   - JOBS_TIMEOUT: Deadline for one job cycle (default: 30m)
type JobsConfig struct {
	// RetrainInterval is the cadence of the retrain job. Default: 24h.
	RetrainInterval time.Duration `koanf:"retrain_interval"`
	// EvaluateInterval is the cadence of the model evaluation job. Default: 168h.
	EvaluateInterval time.Duration `koanf:"evaluate_interval"`
	// MinNewPoints gates retraining on fresh data volume. Default: 100.
	MinNewPoints int `koanf:"min_new_points"`
	// Timeout bounds a single job cycle. Default: 30m.
	Timeout time.Duration `koanf:"timeout"`
	// RetrainOnStartup runs a retrain pass when the service starts. Default: false.
	RetrainOnStartup bool `koanf:"retrain_on_startup"`
}

// EventsConfig holds in-process event bus settings.
//
// Environment Variables:
//   - EVENTS_BUFFER_SIZE: Channel buffer per subscriber (default: 256)
//   - EVENTS_PERSISTENT: Deliver events published before subscription (default: false)
type EventsConfig struct {
	// BufferSize is the per-subscriber channel buffer. Default: 256.
	BufferSize int64 `koanf:"buffer_size"`
	// Persistent replays events to late subscribers. Default: false.
	Persistent bool `koanf:"persistent"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: Include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum level emitted. Default: info.
	Level string `koanf:"level"`
	// Format selects json or console output. Default: json.
	Format string `koanf:"format"`
	// Caller includes file:line in each entry. Default: false.
	Caller bool `koanf:"caller"`
}

// Load loads configuration using Koanf v2 with layered sources.
// See LoadWithKoanf for the layering contract.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
