// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package platform

import (
	"sort"

	"github.com/tomtom215/auspex/internal/content"
)

// Component names, used as breakdown keys and recommendation categories.
const (
	componentVisual     = "visual"
	componentText       = "text"
	componentSocial     = "social"
	componentTiming     = "timing"
	componentEngagement = "engagement"
	componentCreator    = "creator"
)

// weakComponentCutoff is the component score below which a remediation
// recommendation is emitted.
const weakComponentCutoff = 40.0

// maxRecommendations caps the advice attached to a model prediction.
const maxRecommendations = 3

// componentSet holds the six component scores, each in [0, 100]. Concrete
// models adjust individual components before handing the set to compose.
type componentSet struct {
	Visual     float64
	Text       float64
	Social     float64
	Timing     float64
	Engagement float64
	Creator    float64
}

// baseComponents blends the feature vector into the six platform-neutral
// component scores. Every blend's coefficients sum to 1.0 over [0,1]
// inputs, so each component lands in [0, 100] without clamping.
func baseComponents(f *content.ContentFeatures) componentSet {
	return componentSet{
		Visual:     visualScore(f),
		Text:       textScore(f),
		Social:     socialScore(f),
		Timing:     timingScore(f),
		Engagement: engagementScore(f),
		Creator:    creatorScore(f),
	}
}

func visualScore(f *content.ContentFeatures) float64 {
	return 100 * (0.45*f.MediaRichness +
		0.25*f.MediaFitScore +
		0.15*f.AccessibilityScore +
		0.15*f.VideoDurationScore)
}

func textScore(f *content.ContentFeatures) float64 {
	// Polarity is [-1,1]; shift it onto [0,1] so negative sentiment
	// drags the component instead of going negative.
	positivity := 0.5 + f.SentimentPolarity/2
	return 100 * (0.25*(f.ReadabilityScore/100) +
		0.20*f.LengthFitScore +
		0.15*f.LexicalDiversity +
		0.20*f.OverallQuality +
		0.10*f.EmotionalIntensity +
		0.10*positivity)
}

func socialScore(f *content.ContentFeatures) float64 {
	return 100 * (0.30*f.HashtagFitScore +
		0.20*f.MentionInfluence +
		0.25*f.TrendingRelevance +
		0.15*f.CurrentEventsRelevance +
		0.10*f.EmojiDiversity)
}

func timingScore(f *content.ContentFeatures) float64 {
	return 100 * (0.80*f.TimingScore + 0.20*f.SeasonalityScore)
}

func engagementScore(f *content.ContentFeatures) float64 {
	// Direct address saturates quickly: one "you" per seven words is
	// already fully conversational.
	directAddress := clamp01(3 * f.SecondPersonRatio)
	return 100 * (0.50*f.ShareabilityScore +
		0.20*f.EmotionalIntensity +
		0.15*directAddress +
		0.15*f.SentimentSubjectivity)
}

func creatorScore(f *content.ContentFeatures) float64 {
	verified := 0.0
	if f.IsVerified {
		verified = 1
	}
	return 100 * (0.40*f.CreatorInfluence +
		0.25*f.HistoricalEngagement +
		0.15*f.FollowerRatio +
		0.10*f.PostingConsistency +
		0.05*f.AccountMaturity +
		0.05*verified)
}

// weighted combines the components with the platform's weight vector.
func (cs componentSet) weighted(w Weights) float64 {
	return w.Visual*cs.Visual +
		w.Text*cs.Text +
		w.Social*cs.Social +
		w.Timing*cs.Timing +
		w.Engagement*cs.Engagement +
		w.Creator*cs.Creator
}

// breakdown returns the components as a fresh name-to-score map.
func (cs componentSet) breakdown() map[string]float64 {
	return map[string]float64{
		componentVisual:     round2(cs.Visual),
		componentText:       round2(cs.Text),
		componentSocial:     round2(cs.Social),
		componentTiming:     round2(cs.Timing),
		componentEngagement: round2(cs.Engagement),
		componentCreator:    round2(cs.Creator),
	}
}

// componentAdvice maps each component to the remediation suggested when
// it scores below the weak cutoff.
var componentAdvice = map[string]string{
	componentVisual:     "Attach richer media; a short captioned video outperforms text on every platform",
	componentText:       "Tighten the copy: shorter sentences, less repetition, and a cleaner hook",
	componentSocial:     "Use the platform's ideal hashtag count and reference a trending topic where it fits",
	componentTiming:     "Shift posting toward the platform's peak audience hours",
	componentEngagement: "Add a direct question or call to action to invite replies and shares",
	componentCreator:    "Post more consistently; account history and cadence compound reach over time",
}

// recommendations lists remediation advice for the weakest components,
// worst first, capped at maxRecommendations.
func (cs componentSet) recommendations() []string {
	type weak struct {
		name  string
		score float64
	}
	// Fixed order keeps ties deterministic.
	all := []weak{
		{componentVisual, cs.Visual},
		{componentText, cs.Text},
		{componentSocial, cs.Social},
		{componentTiming, cs.Timing},
		{componentEngagement, cs.Engagement},
		{componentCreator, cs.Creator},
	}
	var weakest []weak
	for _, w := range all {
		if w.score < weakComponentCutoff {
			weakest = append(weakest, w)
		}
	}
	sort.SliceStable(weakest, func(i, j int) bool {
		return weakest[i].score < weakest[j].score
	})
	if len(weakest) > maxRecommendations {
		weakest = weakest[:maxRecommendations]
	}
	out := make([]string, 0, len(weakest))
	for _, w := range weakest {
		out = append(out, componentAdvice[w.name])
	}
	return out
}
