// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package training

import (
	"math"

	"github.com/tomtom215/auspex/internal/models"
)

// Composite score weights. The blend favors engagement over raw reach so
// a small account with exceptional interaction can still label viral.
const (
	weightEngagementRate = 0.30
	weightReachRatio     = 0.25
	weightShareRatio     = 0.20
	weightVelocity       = 0.15
	weightSustained      = 0.10
)

// Normalization ceilings. Each ratio is divided by its ceiling and
// clamped, so the ceiling marks "as good as it gets" for that signal.
const (
	normEngagementRate = 0.10 // total engagement at 10% of views
	normReachMultiple  = 10.0 // views at 10x the follower count
	normShareRate      = 0.02 // shares at 2% of views
	normVelocity       = 0.25 // quarter of day-one views inside hour one
	normSustained      = 0.50 // half of lifetime views after day one
)

// compositeViralFloor labels a point viral on composite score alone, even
// when absolute view and like counts stay under the platform thresholds.
const compositeViralFloor = 85.0

// LabelThresholds are the absolute per-platform cutoffs the labeler
// combines with the composite score.
type LabelThresholds struct {
	// ViralViews labels IsViral on views alone.
	ViralViews int64 `json:"viral_views"`

	// ViralLikes labels IsViral on likes alone.
	ViralLikes int64 `json:"viral_likes"`

	// PopularViews is the floor of the "high" engagement tier.
	PopularViews int64 `json:"popular_views"`

	// ModerateViews is the floor of the "moderate" engagement tier.
	ModerateViews int64 `json:"moderate_views"`
}

// DefaultLabelThresholds returns the per-platform cutoffs. Absolute view
// counts differ by an order of magnitude across platforms because feed
// mechanics do.
func DefaultLabelThresholds() map[models.Platform]LabelThresholds {
	return map[models.Platform]LabelThresholds{
		models.PlatformTwitter: {
			ViralViews:    1_000_000,
			ViralLikes:    50_000,
			PopularViews:  100_000,
			ModerateViews: 10_000,
		},
		models.PlatformInstagram: {
			ViralViews:    500_000,
			ViralLikes:    100_000,
			PopularViews:  50_000,
			ModerateViews: 5_000,
		},
		models.PlatformTikTok: {
			ViralViews:    1_000_000,
			ViralLikes:    150_000,
			PopularViews:  250_000,
			ModerateViews: 25_000,
		},
	}
}

// fallbackThresholds covers platforms without a tuned entry.
func fallbackThresholds() LabelThresholds {
	return LabelThresholds{
		ViralViews:    1_000_000,
		ViralLikes:    100_000,
		PopularViews:  100_000,
		ModerateViews: 10_000,
	}
}

// LabelOutcome derives training labels from actual metrics. It is a pure
// function: the same metrics and thresholds always produce the same
// labels, which is what makes stored labels immutable.
func LabelOutcome(actual *models.ActualMetrics, th LabelThresholds) PointLabels {
	composite := compositeScore(actual, th)
	isViral := actual.Views >= th.ViralViews ||
		actual.Likes >= th.ViralLikes ||
		composite >= compositeViralFloor

	return PointLabels{
		IsViral:         isViral,
		ViralScore:      composite,
		EngagementTier:  tierFor(isViral, actual.Views, th),
		PeakHour:        actual.PeakHour,
		TotalEngagement: actual.TotalEngagement(),
	}
}

// compositeScore blends five outcome ratios into a 0-100 score. Missing
// denominators zero the affected component rather than erroring: a point
// with no recorded views still labels, it just labels low.
func compositeScore(m *models.ActualMetrics, th LabelThresholds) float64 {
	views := float64(m.Views)

	var engagement, reach, share, velocity, sustained float64
	if m.Views > 0 {
		engagement = clamp01(float64(m.TotalEngagement()) / views / normEngagementRate)
		share = clamp01(float64(m.Shares) / views / normShareRate)
	}
	switch {
	case m.FollowerCount > 0:
		reach = clamp01(views / float64(m.FollowerCount) / normReachMultiple)
	case th.ViralViews > 0:
		// No follower count reported; fall back to absolute scale.
		reach = clamp01(views / float64(th.ViralViews))
	}
	if m.Views24h > 0 {
		velocity = clamp01(float64(m.FirstHourViews) / float64(m.Views24h) / normVelocity)
	}
	if m.Views > 0 && m.Views24h > 0 {
		sustained = clamp01((views - float64(m.Views24h)) / views / normSustained)
	}

	raw := weightEngagementRate*engagement +
		weightReachRatio*reach +
		weightShareRatio*share +
		weightVelocity*velocity +
		weightSustained*sustained
	return round2(raw * 100)
}

// tierFor walks the ladder top down.
func tierFor(isViral bool, views int64, th LabelThresholds) EngagementTier {
	switch {
	case isViral:
		return TierViral
	case views >= th.PopularViews:
		return TierHigh
	case views >= th.ModerateViews:
		return TierModerate
	default:
		return TierLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
