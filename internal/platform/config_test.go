// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package platform

import (
	"math"
	"testing"

	"github.com/tomtom215/auspex/internal/models"
)

// testConfig returns a valid config with dyadic thresholds so band edge
// assertions are exact in floating point.
func testConfig() *ModelConfig {
	return &ModelConfig{
		Weights: Weights{
			Visual: 0.10, Text: 0.25, Social: 0.25,
			Timing: 0.15, Engagement: 0.15, Creator: 0.10,
		},
		Thresholds: Thresholds{Moderate: 40, Trending: 60, Viral: 80},
		ContentTypeMultipliers: map[models.ContentType]float64{
			models.ContentTypeText:  1.0,
			models.ContentTypeVideo: 1.2,
		},
		EngagementCap: 0.05,
		PeakHours:     []int{8, 12, 17},
		HashtagMin:    1,
		HashtagMax:    2,
	}
}

func TestModelConfigValidate(t *testing.T) {
	if err := testConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ModelConfig)
	}{
		{"weights do not sum to one", func(c *ModelConfig) { c.Weights.Visual = 0.5 }},
		{"negative weight", func(c *ModelConfig) { c.Weights.Visual = -0.05; c.Weights.Text = 0.40 }},
		{"thresholds out of order", func(c *ModelConfig) { c.Thresholds.Trending = 30 }},
		{"viral above 100", func(c *ModelConfig) { c.Thresholds.Viral = 120 }},
		{"zero moderate", func(c *ModelConfig) { c.Thresholds.Moderate = 0 }},
		{"engagement cap zero", func(c *ModelConfig) { c.EngagementCap = 0 }},
		{"engagement cap above one", func(c *ModelConfig) { c.EngagementCap = 1.5 }},
		{"no multipliers", func(c *ModelConfig) { c.ContentTypeMultipliers = nil }},
		{"multiplier out of range", func(c *ModelConfig) { c.ContentTypeMultipliers[models.ContentTypeText] = 0 }},
		{"peak hour out of range", func(c *ModelConfig) { c.PeakHours = []int{25} }},
		{"inverted hashtag band", func(c *ModelConfig) { c.HashtagMin = 5; c.HashtagMax = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}

	var nilCfg *ModelConfig
	if err := nilCfg.Validate(); err == nil {
		t.Fatal("nil config should not validate")
	}
}

func TestNormalizeScoreBands(t *testing.T) {
	cfg := testConfig() // thresholds 40/60/80

	tests := []struct {
		name string
		raw  float64
		want float64
	}{
		{"zero", 0, 0},
		{"mid low band", 20, 22.5},
		{"moderate threshold", 40, 45},
		{"mid moderate band", 50, 57.5},
		{"trending threshold", 60, 70},
		{"mid trending band", 70, 80},
		{"viral threshold", 80, 90},
		{"mid viral band", 90, 95},
		{"ceiling", 100, 100},
		{"clamped below", -5, 0},
		{"clamped above", 140, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.normalizeScore(tt.raw)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("normalizeScore(%.1f) = %.4f, want %.4f", tt.raw, got, tt.want)
			}
		})
	}
}

// The banded score must cross 90 exactly where the raw score crosses the
// viral threshold, and must never decrease as the raw score grows.
func TestNormalizeScoreViralInvariant(t *testing.T) {
	for p, cfg := range DefaultConfigs() {
		prev := -1.0
		for raw := 0.0; raw <= 100; raw += 0.5 {
			got := cfg.normalizeScore(raw)
			if got < 0 || got > 100 {
				t.Fatalf("%s: normalizeScore(%.1f) = %.4f outside [0,100]", p, raw, got)
			}
			if got < prev {
				t.Fatalf("%s: normalizeScore not monotonic at raw=%.1f: %.4f < %.4f", p, raw, got, prev)
			}
			prev = got

			viral := raw >= cfg.Thresholds.Viral
			banded := got >= 90
			if viral != banded {
				t.Fatalf("%s: raw %.1f viral=%v but banded score %.4f", p, raw, viral, got)
			}
		}
	}
}

func TestNormalizeScoreViralAtHundred(t *testing.T) {
	cfg := testConfig()
	cfg.Thresholds.Viral = 100
	if got := cfg.normalizeScore(100); got != 100 {
		t.Fatalf("normalizeScore(100) with viral=100: got %.4f, want 100", got)
	}
	if got := cfg.normalizeScore(99); got >= 90 {
		t.Fatalf("raw below viral threshold banded to %.4f, want <90", got)
	}
}

func TestModelConfigClone(t *testing.T) {
	orig := testConfig()
	clone := orig.Clone()

	clone.ContentTypeMultipliers[models.ContentTypeText] = 9
	clone.PeakHours[0] = 23
	clone.Thresholds.Viral = 99

	if orig.ContentTypeMultipliers[models.ContentTypeText] != 1.0 {
		t.Error("clone shares the multiplier map")
	}
	if orig.PeakHours[0] != 8 {
		t.Error("clone shares the peak hours slice")
	}
	if orig.Thresholds.Viral != 80 {
		t.Error("clone shares threshold state")
	}

	var nilCfg *ModelConfig
	if nilCfg.Clone() != nil {
		t.Error("nil clone should be nil")
	}
}

func TestDefaultConfigsValid(t *testing.T) {
	cfgs := DefaultConfigs()
	for _, p := range models.AllPlatforms() {
		cfg, ok := cfgs[p]
		if !ok {
			t.Fatalf("no default config for %s", p)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("default config for %s invalid: %v", p, err)
		}
		for _, ct := range []models.ContentType{
			models.ContentTypeText, models.ContentTypeImage, models.ContentTypeVideo,
			models.ContentTypeShortVideo, models.ContentTypeCarousel, models.ContentTypeStory,
		} {
			if _, ok := cfg.ContentTypeMultipliers[ct]; !ok {
				t.Errorf("%s: no multiplier for content type %s", p, ct)
			}
		}
	}
	if cfgs[models.PlatformTwitter].Thresholds != (Thresholds{Moderate: 45, Trending: 65, Viral: 95}) {
		t.Errorf("unexpected twitter thresholds: %+v", cfgs[models.PlatformTwitter].Thresholds)
	}
}

func TestTypeMultiplierFallback(t *testing.T) {
	cfg := testConfig()
	if got := cfg.typeMultiplier(models.ContentTypeVideo); got != 1.2 {
		t.Fatalf("video multiplier = %.2f, want 1.2", got)
	}
	if got := cfg.typeMultiplier(models.ContentType("hologram")); got != 1.0 {
		t.Fatalf("unknown type multiplier = %.2f, want 1.0", got)
	}
}
