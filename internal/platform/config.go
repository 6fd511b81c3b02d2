// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package platform

import (
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/auspex/internal/models"
)

// weightTolerance is how far the component weight sum may drift from 1.0
// before the config is rejected.
const weightTolerance = 1e-6

// Weights is the component weight vector of a platform model. The six
// fields must sum to 1.0 so the combined raw score stays in [0, 100].
type Weights struct {
	Visual     float64 `koanf:"visual" json:"visual"`
	Text       float64 `koanf:"text" json:"text"`
	Social     float64 `koanf:"social" json:"social"`
	Timing     float64 `koanf:"timing" json:"timing"`
	Engagement float64 `koanf:"engagement" json:"engagement"`
	Creator    float64 `koanf:"creator" json:"creator"`
}

// Sum returns the total of all component weights.
func (w Weights) Sum() float64 {
	return w.Visual + w.Text + w.Social + w.Timing + w.Engagement + w.Creator
}

// Thresholds are the raw-score cut points separating the reporting bands.
// Raw scores below Moderate read as low, below Trending as moderate, below
// Viral as trending, and at or above Viral as viral.
type Thresholds struct {
	Moderate float64 `koanf:"moderate" json:"moderate"`
	Trending float64 `koanf:"trending" json:"trending"`
	Viral    float64 `koanf:"viral" json:"viral"`
}

// ModelConfig is the immutable per-platform scoring configuration. It is
// validated once at registry construction and never mutated afterward;
// mutable training state lives in ModelState.
type ModelConfig struct {
	// Weights is the component weight vector, summing to 1.0.
	Weights Weights `koanf:"weights" json:"weights"`
	// Thresholds are the raw-score band cut points, strictly ordered
	// 0 < Moderate < Trending < Viral <= 100.
	Thresholds Thresholds `koanf:"thresholds" json:"thresholds"`
	// ContentTypeMultipliers scale the raw score by media framing.
	ContentTypeMultipliers map[models.ContentType]float64 `koanf:"content_type_multipliers" json:"content_type_multipliers"`
	// EngagementCap is the platform's realistic engagement-rate ceiling.
	EngagementCap float64 `koanf:"engagement_cap" json:"engagement_cap"`
	// PeakHours are the UTC hours with the strongest audience activity.
	PeakHours []int `koanf:"peak_hours" json:"peak_hours"`
	// HashtagMin and HashtagMax bound the platform's ideal tag count.
	HashtagMin int `koanf:"hashtag_min" json:"hashtag_min"`
	HashtagMax int `koanf:"hashtag_max" json:"hashtag_max"`
}

// Validate checks the structural invariants of the config.
func (c *ModelConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("model config is nil")
	}
	if diff := math.Abs(c.Weights.Sum() - 1.0); diff > weightTolerance {
		return fmt.Errorf("component weights sum to %.6f, want 1.0", c.Weights.Sum())
	}
	for name, w := range map[string]float64{
		"visual": c.Weights.Visual, "text": c.Weights.Text,
		"social": c.Weights.Social, "timing": c.Weights.Timing,
		"engagement": c.Weights.Engagement, "creator": c.Weights.Creator,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("weight %q = %.4f outside [0,1]", name, w)
		}
	}
	t := c.Thresholds
	if !(0 < t.Moderate && t.Moderate < t.Trending && t.Trending < t.Viral && t.Viral <= 100) {
		return fmt.Errorf("thresholds %.1f/%.1f/%.1f violate 0 < moderate < trending < viral <= 100",
			t.Moderate, t.Trending, t.Viral)
	}
	if c.EngagementCap <= 0 || c.EngagementCap > 1 {
		return fmt.Errorf("engagement cap %.4f outside (0,1]", c.EngagementCap)
	}
	if len(c.ContentTypeMultipliers) == 0 {
		return fmt.Errorf("content type multipliers missing")
	}
	for ct, m := range c.ContentTypeMultipliers {
		if m <= 0 || m > 3 {
			return fmt.Errorf("multiplier for %q = %.2f outside (0,3]", ct, m)
		}
	}
	for _, h := range c.PeakHours {
		if h < 0 || h > 23 {
			return fmt.Errorf("peak hour %d outside [0,23]", h)
		}
	}
	if c.HashtagMin < 0 || c.HashtagMax < c.HashtagMin {
		return fmt.Errorf("hashtag band [%d,%d] invalid", c.HashtagMin, c.HashtagMax)
	}
	return nil
}

// Clone returns a deep copy, so callers can derive variants without
// aliasing the shared maps and slices.
func (c *ModelConfig) Clone() *ModelConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.ContentTypeMultipliers = make(map[models.ContentType]float64, len(c.ContentTypeMultipliers))
	for ct, m := range c.ContentTypeMultipliers {
		out.ContentTypeMultipliers[ct] = m
	}
	out.PeakHours = append([]int(nil), c.PeakHours...)
	return &out
}

// typeMultiplier returns the raw-score multiplier for a content type,
// falling back to 1.0 for unknown types.
func (c *ModelConfig) typeMultiplier(ct models.ContentType) float64 {
	if m, ok := c.ContentTypeMultipliers[ct]; ok {
		return m
	}
	return 1.0
}

// normalizeScore maps a raw score through the threshold bands onto the
// reported 0-100 scale. The mapping is piecewise linear and monotonic:
//
//	[0, Moderate)        -> [0, 45)
//	[Moderate, Trending) -> [45, 70)
//	[Trending, Viral)    -> [70, 90)
//	[Viral, 100]         -> [90, 100]
//
// so a banded score of 90 or above means the raw score cleared the viral
// threshold, regardless of how the thresholds are tuned.
func (c *ModelConfig) normalizeScore(raw float64) float64 {
	raw = clampRange(raw, 0, 100)
	t := c.Thresholds
	switch {
	case raw < t.Moderate:
		return band(raw, 0, t.Moderate, 0, 45)
	case raw < t.Trending:
		return band(raw, t.Moderate, t.Trending, 45, 70)
	case raw < t.Viral:
		return band(raw, t.Trending, t.Viral, 70, 90)
	default:
		if t.Viral >= 100 {
			return 100
		}
		return band(raw, t.Viral, 100, 90, 100)
	}
}

// band linearly maps v from [lo, hi] onto [outLo, outHi].
func band(v, lo, hi, outLo, outHi float64) float64 {
	if hi <= lo {
		return outLo
	}
	return outLo + (v-lo)/(hi-lo)*(outHi-outLo)
}

// ModelState is the mutable training state kept beside the immutable
// config. It is updated only by the retraining and evaluation paths.
type ModelState struct {
	// Accuracy is the last measured prediction accuracy in [0, 1].
	Accuracy float64 `json:"accuracy"`
	// Version increments on every completed training run.
	Version int `json:"version"`
	// LastTrained is when the model last completed training.
	LastTrained time.Time `json:"last_trained"`
}

// DefaultConfigs returns the built-in per-platform configurations. Peak
// hours and hashtag bands match the extraction profiles so fit scores and
// strategy advice agree with each other.
func DefaultConfigs() map[models.Platform]*ModelConfig {
	return map[models.Platform]*ModelConfig{
		models.PlatformTwitter: {
			Weights: Weights{
				Visual: 0.10, Text: 0.25, Social: 0.25,
				Timing: 0.15, Engagement: 0.15, Creator: 0.10,
			},
			Thresholds: Thresholds{Moderate: 45, Trending: 65, Viral: 95},
			ContentTypeMultipliers: map[models.ContentType]float64{
				models.ContentTypeText:       1.00,
				models.ContentTypeImage:      1.10,
				models.ContentTypeVideo:      1.20,
				models.ContentTypeShortVideo: 1.25,
				models.ContentTypeCarousel:   1.05,
				models.ContentTypeStory:      0.90,
			},
			EngagementCap: 0.05,
			PeakHours:     []int{8, 9, 12, 13, 17, 18},
			HashtagMin:    1,
			HashtagMax:    2,
		},
		models.PlatformInstagram: {
			Weights: Weights{
				Visual: 0.30, Text: 0.10, Social: 0.15,
				Timing: 0.15, Engagement: 0.15, Creator: 0.15,
			},
			Thresholds: Thresholds{Moderate: 40, Trending: 62, Viral: 88},
			ContentTypeMultipliers: map[models.ContentType]float64{
				models.ContentTypeText:       0.70,
				models.ContentTypeImage:      1.00,
				models.ContentTypeVideo:      1.10,
				models.ContentTypeShortVideo: 1.35,
				models.ContentTypeCarousel:   1.15,
				models.ContentTypeStory:      0.95,
			},
			EngagementCap: 0.08,
			PeakHours:     []int{11, 12, 13, 19, 20, 21},
			HashtagMin:    5,
			HashtagMax:    10,
		},
		models.PlatformTikTok: {
			Weights: Weights{
				Visual: 0.35, Text: 0.05, Social: 0.10,
				Timing: 0.10, Engagement: 0.30, Creator: 0.10,
			},
			Thresholds: Thresholds{Moderate: 35, Trending: 55, Viral: 80},
			ContentTypeMultipliers: map[models.ContentType]float64{
				models.ContentTypeText:       0.50,
				models.ContentTypeImage:      0.70,
				models.ContentTypeVideo:      1.15,
				models.ContentTypeShortVideo: 1.40,
				models.ContentTypeCarousel:   0.80,
				models.ContentTypeStory:      0.90,
			},
			EngagementCap: 0.18,
			PeakHours:     []int{18, 19, 20, 21, 22},
			HashtagMin:    3,
			HashtagMax:    5,
		},
	}
}

// clamp01 clips a score into [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clamp100 clips a component score into [0,100].
func clamp100(v float64) float64 {
	return clampRange(v, 0, 100)
}

// clampRange clips a value into [lo,hi].
func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
