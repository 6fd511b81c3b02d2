// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package engine

import (
	"math"

	"github.com/tomtom215/auspex/internal/content"
	"github.com/tomtom215/auspex/internal/models"
)

// trendingBandFloor is the banded score at which the trending band
// starts. normalizeScore maps [Trending, Viral) onto [70, 90) on every
// platform, so the constant is platform-independent in banded space.
const trendingBandFloor = 70.0

// viralMetrics are the platform-agnostic spread estimates derived from
// the feature vector in step five of the pipeline. They complement the
// platform model's engagement forecast with shape-of-spread signals.
type viralMetrics struct {
	// EngagementRate is the projected average interaction rate in [0, 1].
	EngagementRate float64
	// ShareRate and CommentRate split the interaction mix.
	ShareRate   float64
	CommentRate float64
	// Velocity estimates first-hour pickup speed in [0, 1].
	Velocity float64
	// SustainedEngagement estimates how much of the peak survives the
	// first day, in [0, 1].
	SustainedEngagement float64
	// CrossPlatformSpread estimates screenshot-and-repost travel to
	// other platforms, in [0, 1].
	CrossPlatformSpread float64
	// PeakEngagementRate is the projected engagement ceiling in [0, 1].
	PeakEngagementRate float64
	// CompetitiveAdvantage positions the content against the platform's
	// current trending baseline, in [0, 1].
	CompetitiveAdvantage float64
}

// deriveViralMetrics computes the spread estimates. Every component is a
// deterministic bounded function of the feature vector and the blended
// score; identical inputs always derive identical metrics.
func deriveViralMetrics(f *content.ContentFeatures, score, baseRate float64) viralMetrics {
	s := clampRange(score, 0, 100) / 100

	// Shares travel on emotion and explicit share hooks; comments on
	// questions and controversy-adjacent intensity.
	shareDrive := 0.5*f.ShareabilityScore + 0.3*f.EmotionalIntensity + 0.2*boolVal(f.HasCallToAction)
	commentDrive := 0.45*boolVal(f.HasQuestion) + 0.35*f.SentimentSubjectivity + 0.2*f.EmotionalIntensity

	// First-hour pickup rides timing and trend alignment; what the
	// algorithmic feeds surface immediately is what is already moving.
	velocity := clamp01(0.35*f.TimingScore + 0.30*f.TrendingRelevance + 0.20*s + 0.15*f.TrendMomentum)

	// Evergreen quality outlives trend spikes: high originality and
	// overall quality sustain, pure trend-riding decays.
	sustained := clamp01(0.40*f.OverallQuality + 0.30*f.OriginalityScore + 0.30*(1-f.TrendingRelevance)*s)

	// Cross-platform travel favors self-contained, highly shareable
	// content; link-heavy posts stay put.
	spread := clamp01(0.45*f.ShareabilityScore + 0.30*f.EmotionalIntensity + 0.25*s)
	if f.URLCount > 0 {
		spread *= 0.7
	}

	return viralMetrics{
		EngagementRate:       clamp01(baseRate),
		ShareRate:            round3(clamp01(baseRate * (0.5 + shareDrive))),
		CommentRate:          round3(clamp01(baseRate * (0.3 + commentDrive))),
		Velocity:             round3(velocity),
		SustainedEngagement:  round3(sustained),
		CrossPlatformSpread:  round3(spread),
		PeakEngagementRate:   round3(clamp01(baseRate * (1.2 + 0.8*f.ShareabilityScore))),
		CompetitiveAdvantage: round3(clamp01(0.6*s + 0.25*f.TrendingRelevance + 0.15*f.OriginalityScore)),
	}
}

// fold writes the derived metrics into the prediction breakdown under
// stable keys, beside the platform model's component scores.
func (m viralMetrics) fold(breakdown map[string]float64) {
	breakdown["derived_share_rate"] = m.ShareRate
	breakdown["derived_comment_rate"] = m.CommentRate
	breakdown["derived_velocity"] = m.Velocity
	breakdown["derived_sustained_engagement"] = m.SustainedEngagement
	breakdown["derived_cross_platform_spread"] = m.CrossPlatformSpread
}

// timeToViral estimates hours until peak spread. Content under the
// trending band reports zero: it is not expected to go viral at all.
// Above it, higher scores and faster velocity shrink the window from 48
// hours down to a 2-hour floor.
func timeToViral(score float64, f *content.ContentFeatures) float64 {
	if score < trendingBandFloor {
		return 0
	}
	headroom := (100 - clampRange(score, trendingBandFloor, 100)) / (100 - trendingBandFloor)
	velocity := 0.5*f.TimingScore + 0.5*f.TrendMomentum

	hours := 2 + headroom*46*(1.3-0.6*velocity)
	return math.Round(clampRange(hours, 2, 48)*10) / 10
}

// deriveRiskFactors lists the conditions most likely to suppress
// distribution. Order is fixed by the check order here, so identical
// inputs always report identical lists.
func deriveRiskFactors(f *content.ContentFeatures, req *models.PredictionRequest) []string {
	var risks []string

	if f.URLCount > 0 {
		risks = append(risks, "External links reduce feed distribution on every supported platform")
	}
	if f.OriginalityScore < 0.35 {
		risks = append(risks, "Heavy reliance on common phrasing risks being filtered as low-effort content")
	}
	if f.SentimentPolarity < -0.5 && f.EmotionAnger > 0.5 {
		risks = append(risks, "Strongly negative, anger-driven content risks moderation throttling")
	}
	if f.UppercaseRatio > 0.5 {
		risks = append(risks, "All-caps text is frequently classified as spam-adjacent")
	}
	if f.TimingScore < 0.3 {
		risks = append(risks, "Scheduled posting time misses the platform's audience peaks")
	}
	if req != nil && req.Content.MediaCount == 0 && req.Platform != models.PlatformTwitter {
		risks = append(risks, "Media-first platforms suppress posts without attached media")
	}
	if f.HashtagCount > 15 {
		risks = append(risks, "Excessive hashtag count reads as engagement bait")
	}
	return risks
}

func boolVal(b bool) float64 {
	if b {
		return 1
	}
	return 0
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

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
