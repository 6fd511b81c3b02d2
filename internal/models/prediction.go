// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package models

import "time"

// DetailLevel controls how many explanation factors a prediction carries.
type DetailLevel string

// Supported detail levels.
const (
	DetailBrief         DetailLevel = "brief"
	DetailStandard      DetailLevel = "standard"
	DetailComprehensive DetailLevel = "comprehensive"
)

// FactorBudget returns the maximum number of ranked factors kept at this
// level: 3 for brief, 7 for standard, 12 for comprehensive.
func (d DetailLevel) FactorBudget() int {
	switch d {
	case DetailBrief:
		return 3
	case DetailComprehensive:
		return 12
	default:
		return 7
	}
}

// ParseDetailLevel normalizes a user-supplied detail level, defaulting to
// standard for empty or unknown values.
func ParseDetailLevel(s string) DetailLevel {
	switch DetailLevel(s) {
	case DetailBrief, DetailStandard, DetailComprehensive:
		return DetailLevel(s)
	default:
		return DetailStandard
	}
}

// Audience selects the vocabulary of the explanation narrative. The factor
// set is identical across audiences; only verbosity and wording change.
type Audience string

// Supported narrative audiences.
const (
	AudienceBeginner     Audience = "beginner"
	AudienceIntermediate Audience = "intermediate"
	AudienceAdvanced     Audience = "advanced"
)

// ParseAudience normalizes a user-supplied audience, defaulting to
// intermediate for empty or unknown values.
func ParseAudience(s string) Audience {
	switch Audience(s) {
	case AudienceBeginner, AudienceIntermediate, AudienceAdvanced:
		return Audience(s)
	default:
		return AudienceIntermediate
	}
}

// ExplanationFactor is a single scored contributor to a prediction. Impact
// is normalized around a per-category baseline, so 0 means "as expected",
// not "absent".
type ExplanationFactor struct {
	// Category scopes the factor: content, timing, platform, creator, social.
	Category string `json:"category"`
	// Factor names the specific signal, e.g. "text_quality".
	Factor string `json:"factor"`
	// Impact is the signed contribution in [-1, 1].
	Impact float64 `json:"impact"`
	// Confidence is how reliable this factor's heuristic is, in [0, 1].
	Confidence float64 `json:"confidence"`
	// Explanation is a one-sentence human-readable account of the factor.
	Explanation string `json:"explanation"`
	// Evidence lists the concrete feature values behind the factor.
	Evidence []string `json:"evidence,omitempty"`
	// Weight is the factor's share in what-if arithmetic.
	Weight float64 `json:"weight"`
}

// WhatIfScenario is a hypothetical content change and its projected effect
// on the viral score.
type WhatIfScenario struct {
	// Change describes the hypothetical edit, e.g. "attach a short video".
	Change string `json:"change"`
	// ProjectedDelta is the estimated score change in points, signed.
	ProjectedDelta float64 `json:"projected_delta"`
	// Rationale explains where the delta comes from.
	Rationale string `json:"rationale"`
}

// Explanation is the explainability payload attached to a prediction.
type Explanation struct {
	// Summary is a one-paragraph account of the dominant factors.
	Summary string `json:"summary"`
	// Factors are ranked by |Impact| descending, truncated per DetailLevel.
	Factors []ExplanationFactor `json:"factors"`
	// WhatIf lists hypothetical changes with projected score deltas.
	WhatIf []WhatIfScenario `json:"what_if,omitempty"`
	// Narrative is the audience-tiered prose walkthrough.
	Narrative string `json:"narrative,omitempty"`
	// DetailLevel is the level the factor list was truncated to.
	DetailLevel DetailLevel `json:"detail_level"`
	// Audience is who the narrative was written for.
	Audience Audience `json:"audience"`
	// GeneratedAt is when the explanation was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

// ViralPrediction is the primary pipeline output. A degraded prediction is
// schema-identical to a healthy one; callers distinguish them only through
// the Degraded flag.
type ViralPrediction struct {
	// PredictionID identifies the prediction for later outcome reporting.
	PredictionID string `json:"prediction_id"`
	// Platform the content was scored for.
	Platform Platform `json:"platform"`
	// ViralScore is the banded virality score in [0, 100].
	ViralScore float64 `json:"viral_score"`
	// Confidence in [0, 1] reflects input completeness, never the score.
	Confidence float64 `json:"confidence"`
	// TimeToViralHours estimates hours until peak spread. Zero when the
	// score is below the platform's trending threshold.
	TimeToViralHours float64 `json:"time_to_viral_hours,omitempty"`
	// PeakEngagementRate is the projected engagement ceiling in [0, 1].
	PeakEngagementRate float64 `json:"peak_engagement_rate"`
	// Breakdown maps component names (visual, text, social, timing,
	// engagement, creator) and applied multipliers to their values.
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
	// Metrics is the deterministic engagement forecast.
	Metrics PredictedMetrics `json:"predicted_metrics"`
	// Explanation is nil when the caller did not request one.
	Explanation *Explanation `json:"explanation,omitempty"`
	// Recommendations list actionable improvements, weakest component first.
	Recommendations []string `json:"recommendations,omitempty"`
	// RiskFactors list conditions that could suppress distribution.
	RiskFactors []string `json:"risk_factors,omitempty"`
	// CompetitiveAdvantage in [0, 1] positions the content against the
	// platform's current trending baseline.
	CompetitiveAdvantage float64 `json:"competitive_advantage"`
	// GeneratedAt is when the prediction was produced.
	GeneratedAt time.Time `json:"generated_at"`
	// Cached reports whether this copy came from the prediction cache.
	Cached bool `json:"cached"`
	// Degraded reports a fallback produced after a pipeline failure.
	Degraded bool `json:"degraded"`
}

// ModelPerformance summarizes a platform model's measured accuracy.
type ModelPerformance struct {
	Platform    Platform  `json:"platform"`
	Accuracy    float64   `json:"accuracy"`
	SampleCount int       `json:"sample_count"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// PlatformComparison ranks predictions for the same content across
// platforms. Primary holds the highest viral score; Secondary lists the
// next best platforms in descending order.
type PlatformComparison struct {
	Primary   Platform   `json:"primary"`
	Secondary []Platform `json:"secondary,omitempty"`
	// Predictions holds the per-platform results backing the ranking.
	Predictions map[Platform]*ViralPrediction `json:"predictions"`
	// ComparedAt is when the comparison was assembled.
	ComparedAt time.Time `json:"compared_at"`
}

// PostingWindow is one recommended posting slot. Hours are UTC.
type PostingWindow struct {
	Platform  Platform `json:"platform"`
	StartHour int      `json:"start_hour"`
	EndHour   int      `json:"end_hour"`
	// Score is the window's relative strength in [0, 1].
	Score float64 `json:"score"`
}

// ContentStrategy aggregates per-platform predictions into a cross-platform
// plan: where to post first, when, and what to change before posting.
type ContentStrategy struct {
	Comparison PlatformComparison `json:"comparison"`
	// PostingWindows lists the strongest posting slots per platform.
	PostingWindows []PostingWindow `json:"posting_windows,omitempty"`
	// Modifications lists content changes expected to lift weak scores.
	Modifications []string  `json:"modifications,omitempty"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// HashtagAssessment scores a single submitted tag.
type HashtagAssessment struct {
	// Tag is the normalized tag, lowercase without '#'.
	Tag string `json:"tag"`
	// Reach estimates discovery potential in [0, 1].
	Reach float64 `json:"reach"`
	// Competition estimates crowding in [0, 1]; high means hard to rank.
	Competition float64 `json:"competition"`
	// Trending reports whether the tag is on the platform's trending table.
	Trending bool `json:"trending"`
}

// HashtagStrategy is the per-platform hashtag audit returned by
// AnalyzeHashtagStrategy.
type HashtagStrategy struct {
	Platform Platform `json:"platform"`
	// Assessments scores each submitted tag, input order preserved.
	Assessments []HashtagAssessment `json:"assessments"`
	// RecommendedMin and RecommendedMax bound the platform's ideal count.
	RecommendedMin int `json:"recommended_min"`
	RecommendedMax int `json:"recommended_max"`
	// Suggestions lists trending tags adjacent to the submitted ones.
	Suggestions []string `json:"suggestions,omitempty"`
	// Notes carries strategy-level advice, e.g. a tag-count warning.
	Notes []string `json:"notes,omitempty"`
}

// ScheduleWindow is one scored candidate posting hour, UTC.
type ScheduleWindow struct {
	Hour int `json:"hour"`
	// Score is the hour's strength in [0, 1].
	Score float64 `json:"score"`
	// Peak reports whether the hour is one of the platform's audience peaks.
	Peak bool `json:"peak"`
}

// SchedulePrediction recommends posting times, returned by
// PredictOptimalSchedule.
type SchedulePrediction struct {
	Platform Platform `json:"platform"`
	// BestWindows lists the strongest hours, best first.
	BestWindows []ScheduleWindow `json:"best_windows"`
	// CurrentScore is the timing score of the request's reference time.
	CurrentScore float64 `json:"current_score"`
	// Advice summarizes the recommendation in one sentence.
	Advice string `json:"advice,omitempty"`
}
