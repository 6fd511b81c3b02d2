// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// --- Test: Defaults ---

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaultConfig() must validate, got error: %v", err)
	}
}

func TestDefaultConfigValues(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 8475 {
		t.Errorf("Server.Port = %d, want 8475", cfg.Server.Port)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Engine.RuntimeBlendWeight != 0.3 {
		t.Errorf("Engine.RuntimeBlendWeight = %v, want 0.3", cfg.Engine.RuntimeBlendWeight)
	}
	if cfg.Engine.BatchChunkSize != 10 {
		t.Errorf("Engine.BatchChunkSize = %d, want 10", cfg.Engine.BatchChunkSize)
	}
	if cfg.Training.MinSamples != 100 {
		t.Errorf("Training.MinSamples = %d, want 100", cfg.Training.MinSamples)
	}
	if cfg.Jobs.RetrainInterval != 24*time.Hour {
		t.Errorf("Jobs.RetrainInterval = %v, want 24h", cfg.Jobs.RetrainInterval)
	}
	if cfg.Jobs.EvaluateInterval != 168*time.Hour {
		t.Errorf("Jobs.EvaluateInterval = %v, want 168h", cfg.Jobs.EvaluateInterval)
	}
	if cfg.Runtime.Enabled {
		t.Error("Runtime.Enabled should default to false")
	}
}

// --- Test: Validate ---

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "bad environment",
			mutate:  func(c *Config) { c.Server.Environment = "staging" },
			wantErr: "ENVIRONMENT",
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.API.MaxBatchSize = 0 },
			wantErr: "API_MAX_BATCH_SIZE",
		},
		{
			name:    "blend weight above one",
			mutate:  func(c *Config) { c.Engine.RuntimeBlendWeight = 1.5 },
			wantErr: "ENGINE_RUNTIME_BLEND",
		},
		{
			name:    "negative blend weight",
			mutate:  func(c *Config) { c.Engine.RuntimeBlendWeight = -0.1 },
			wantErr: "ENGINE_RUNTIME_BLEND",
		},
		{
			name:    "unknown cache backend",
			mutate:  func(c *Config) { c.Cache.Backend = "memcached" },
			wantErr: "CACHE_BACKEND",
		},
		{
			name: "redis backend without addr",
			mutate: func(c *Config) {
				c.Cache.Backend = "redis"
				c.Cache.Redis.Addr = ""
			},
			wantErr: "REDIS_ADDR",
		},
		{
			name:    "unknown training store",
			mutate:  func(c *Config) { c.Training.Store = "postgres" },
			wantErr: "TRAINING_STORE",
		},
		{
			name:    "quality score above one",
			mutate:  func(c *Config) { c.Training.MinQualityScore = 1.2 },
			wantErr: "TRAINING_MIN_QUALITY",
		},
		{
			name: "runtime enabled without URL",
			mutate: func(c *Config) {
				c.Runtime.Enabled = true
				c.Runtime.URL = ""
			},
			wantErr: "RUNTIME_URL",
		},
		{
			name: "runtime URL with bad scheme",
			mutate: func(c *Config) {
				c.Runtime.Enabled = true
				c.Runtime.URL = "ftp://runtime.local"
			},
			wantErr: "RUNTIME_URL",
		},
		{
			name:    "zero retrain interval",
			mutate:  func(c *Config) { c.Jobs.RetrainInterval = 0 },
			wantErr: "JOBS_RETRAIN_INTERVAL",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() returned nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAcceptsRuntimeConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Runtime.Enabled = true
	cfg.Runtime.URL = "https://runtime.internal:9000"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() with enabled runtime = %v, want nil", err)
	}
}

func TestValidateAcceptsLFUBackend(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Cache.Backend = "lfu"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() with lfu backend = %v, want nil", err)
	}
}

// --- Test: Env Transform ---

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"HTTP_HOST", "server.host"},
		{"ENVIRONMENT", "server.environment"},
		{"CACHE_BACKEND", "cache.backend"},
		{"CACHE_TTL", "cache.ttl"},
		{"REDIS_ADDR", "cache.redis.addr"},
		{"ENGINE_RUNTIME_BLEND", "engine.runtime_blend_weight"},
		{"TRAINING_MIN_SAMPLES", "training.min_samples"},
		{"RUNTIME_URL", "runtime.url"},
		{"RUNTIME_ENABLED", "runtime.enabled"},
		{"JOBS_RETRAIN_INTERVAL", "jobs.retrain_interval"},
		{"LOG_LEVEL", "logging.level"},
		{"CORS_ORIGINS", "api.cors_origins"},
		// Unmapped variables must be skipped entirely.
		{"PATH", ""},
		{"HOME", ""},
		{"RANDOM_UNRELATED_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()

			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

// --- Test: Load Layering ---

func TestLoadWithKoanfEnvOverride(t *testing.T) {
	// t.Setenv is incompatible with t.Parallel.
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100 (env override)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug (env override)", cfg.Logging.Level)
	}
	if len(cfg.API.CORSOrigins) != 2 {
		t.Fatalf("CORSOrigins = %v, want 2 entries from comma-separated env", cfg.API.CORSOrigins)
	}
	if cfg.API.CORSOrigins[0] != "https://a.example.com" {
		t.Errorf("CORSOrigins[0] = %q, want trimmed origin", cfg.API.CORSOrigins[0])
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
server:
  port: 9200
training:
  min_samples: 250
engine:
  runtime_blend_weight: 0.5
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9200 {
		t.Errorf("Server.Port = %d, want 9200 (file override)", cfg.Server.Port)
	}
	if cfg.Training.MinSamples != 250 {
		t.Errorf("Training.MinSamples = %d, want 250 (file override)", cfg.Training.MinSamples)
	}
	if cfg.Engine.RuntimeBlendWeight != 0.5 {
		t.Errorf("Engine.RuntimeBlendWeight = %v, want 0.5 (file override)", cfg.Engine.RuntimeBlendWeight)
	}
	// Untouched settings keep their defaults.
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache.TTL = %v, want default 1h", cfg.Cache.TTL)
	}
}

func TestLoadWithKoanfRejectsInvalid(t *testing.T) {
	t.Setenv("HTTP_PORT", "99999")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("LoadWithKoanf() with invalid port returned nil error")
	}
}
