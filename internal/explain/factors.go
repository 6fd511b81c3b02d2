// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package explain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/auspex/internal/content"
	"github.com/tomtom215/auspex/internal/models"
)

// Factor categories.
const (
	categoryContent  = "content"
	categoryTiming   = "timing"
	categoryPlatform = "platform"
	categoryCreator  = "creator"
	categorySocial   = "social"
)

// textQualityBaseline is the expectation writing quality is judged
// against: competent but unremarkable copy scores 0.6, not 0.5, because
// the median post that earns distribution is already decently written.
const textQualityBaseline = 0.6

// factorSpec declares one explainable signal. Impact is the realized
// value minus the baseline, so 0 reads as "meets expectations". Weight
// feeds recommendation priority and what-if arithmetic; it is the share
// of the score the factor can plausibly move.
type factorSpec struct {
	category   string
	name       string
	weight     float64
	baseline   float64
	confidence float64
	value      func(f *content.ContentFeatures) float64
	evidence   func(f *content.ContentFeatures) []string
	// positive and negative are the one-sentence readings by impact sign.
	positive string
	negative string
	// remediation is the advice emitted when the impact is negative.
	// Empty means the factor is not actionable per post.
	remediation string
	// whatIf describes the hypothetical change; whatIfTarget is the value
	// the scenario assumes. Empty whatIf opts the factor out of scenarios.
	whatIf       string
	whatIfTarget float64
}

// factorSpecs is the declaration-ordered factor table. Ranking ties
// resolve by this order, so the sequence is part of the contract.
var factorSpecs = []factorSpec{
	{
		category: categoryContent, name: "text_quality",
		weight: 0.10, baseline: textQualityBaseline, confidence: 0.75,
		value: func(f *content.ContentFeatures) float64 { return f.OverallQuality },
		evidence: func(f *content.ContentFeatures) []string {
			return []string{
				fmt.Sprintf("writing quality %.2f", f.WritingQuality),
				fmt.Sprintf("originality %.2f", f.OriginalityScore),
				fmt.Sprintf("clarity %.2f", f.ClarityScore),
			}
		},
		positive:     "Clean, original writing lifts distribution",
		negative:     "Writing quality reads below the platform baseline",
		remediation:  "Rewrite the opening line and cut filler phrases to raise writing quality",
		whatIf:       "Polish the copy to a 0.9 quality score",
		whatIfTarget: 0.9,
	},
	{
		category: categoryContent, name: "readability",
		weight: 0.06, baseline: 0.6, confidence: 0.70,
		value: func(f *content.ContentFeatures) float64 { return f.ReadabilityScore / 100 },
		evidence: func(f *content.ContentFeatures) []string {
			return []string{
				fmt.Sprintf("reading ease %.0f/100", f.ReadabilityScore),
				fmt.Sprintf("avg sentence length %.1f words", f.AvgSentenceLength),
			}
		},
		positive:     "Easy-to-read copy keeps scrollers engaged",
		negative:     "Dense sentences make the post hard to skim",
		remediation:  "Shorten sentences and swap complex words for plain ones",
		whatIf:       "Simplify wording to an easy reading level",
		whatIfTarget: 0.8,
	},
	{
		category: categoryContent, name: "emotional_resonance",
		weight: 0.08, baseline: 0.3, confidence: 0.60,
		value: func(f *content.ContentFeatures) float64 { return f.EmotionalIntensity },
		evidence: func(f *content.ContentFeatures) []string {
			return []string{
				fmt.Sprintf("emotional intensity %.2f", f.EmotionalIntensity),
				fmt.Sprintf("sentiment polarity %+.2f", f.SentimentPolarity),
			}
		},
		positive:     "Strong emotional tone travels further",
		negative:     "Flat emotional tone rarely gets shared",
		remediation:  "Lead with the feeling: surprise, joy, or stakes in the first sentence",
		whatIf:       "Add a clear emotional hook",
		whatIfTarget: 0.7,
	},
	{
		category: categoryContent, name: "media_richness",
		weight: 0.12, baseline: 0.5, confidence: 0.80,
		value: func(f *content.ContentFeatures) float64 { return f.MediaRichness },
		evidence: func(f *content.ContentFeatures) []string {
			return []string{
				fmt.Sprintf("media richness %.2f", f.MediaRichness),
				fmt.Sprintf("media items %.0f", f.MediaCount),
				fmt.Sprintf("accessibility %.2f", f.AccessibilityScore),
			}
		},
		positive:     "Rich media carries the post beyond followers",
		negative:     "Sparse media limits feed placement",
		remediation:  "Attach a short captioned video or a multi-image set",
		whatIf:       "Attach a short captioned video",
		whatIfTarget: 1.0,
	},
	{
		category: categoryPlatform, name: "length_fit",
		weight: 0.07, baseline: 0.5, confidence: 0.80,
		value: func(f *content.ContentFeatures) float64 { return f.LengthFitScore },
		evidence: func(f *content.ContentFeatures) []string {
			return []string{
				fmt.Sprintf("text length %.0f chars", f.TextLength),
				fmt.Sprintf("length fit %.2f", f.LengthFitScore),
			}
		},
		positive:     "Text length sits in the platform's sweet spot",
		negative:     "Text length misses the platform's preferred range",
		remediation:  "Trim or extend the text toward the platform's ideal length",
		whatIf:       "Resize the text into the ideal length band",
		whatIfTarget: 1.0,
	},
	{
		category: categoryPlatform, name: "format_fit",
		weight: 0.10, baseline: 0.5, confidence: 0.80,
		value: func(f *content.ContentFeatures) float64 { return f.FormatFitScore },
		evidence: func(f *content.ContentFeatures) []string {
			return []string{
				fmt.Sprintf("format fit %.2f", f.FormatFitScore),
				fmt.Sprintf("media fit %.2f", f.MediaFitScore),
			}
		},
		positive:    "The format matches how the platform ranks content",
		negative:    "The format fights the platform's ranking preferences",
		remediation: "Repackage the content into the platform's preferred format",
	},
	{
		category: categorySocial, name: "hashtag_fit",
		weight: 0.08, baseline: 0.5, confidence: 0.80,
		value: func(f *content.ContentFeatures) float64 { return f.HashtagFitScore },
		evidence: func(f *content.ContentFeatures) []string {
			return []string{
				fmt.Sprintf("hashtags %.0f", f.HashtagCount),
				fmt.Sprintf("hashtag fit %.2f", f.HashtagFitScore),
			}
		},
		positive:     "Hashtag count sits in the platform's ideal band",
		negative:     "Hashtag usage is off the platform's ideal band",
		remediation:  "Adjust to the platform's ideal hashtag count",
		whatIf:       "Use the ideal hashtag count",
		whatIfTarget: 1.0,
	},
	{
		category: categorySocial, name: "trending_alignment",
		weight: 0.12, baseline: 0.2, confidence: 0.65,
		value: func(f *content.ContentFeatures) float64 { return f.TrendingRelevance },
		evidence: func(f *content.ContentFeatures) []string {
			return []string{
				fmt.Sprintf("trending relevance %.2f", f.TrendingRelevance),
				fmt.Sprintf("current events relevance %.2f", f.CurrentEventsRelevance),
				fmt.Sprintf("trend momentum %.2f", f.TrendMomentum),
			}
		},
		positive:     "The post rides topics that are trending now",
		negative:     "No overlap with currently trending topics",
		remediation:  "Fold one current trending topic into the text or tags",
		whatIf:       "Tie the post to one trending topic",
		whatIfTarget: 0.8,
	},
	{
		category: categorySocial, name: "mention_leverage",
		weight: 0.05, baseline: 0.2, confidence: 0.60,
		value: func(f *content.ContentFeatures) float64 { return f.MentionInfluence },
		evidence: func(f *content.ContentFeatures) []string {
			return []string{fmt.Sprintf("mentions %.0f", f.MentionCount)}
		},
		positive: "Mentions put the post in other feeds",
		negative: "No mentions to seed wider distribution",
	},
	{
		category: categorySocial, name: "shareability",
		weight: 0.09, baseline: 0.5, confidence: 0.70,
		value: func(f *content.ContentFeatures) float64 { return f.ShareabilityScore },
		evidence: func(f *content.ContentFeatures) []string {
			ev := []string{fmt.Sprintf("shareability %.2f", f.ShareabilityScore)}
			if f.HasCallToAction {
				ev = append(ev, "call to action present")
			}
			if f.HasQuestion {
				ev = append(ev, "question present")
			}
			return ev
		},
		positive:     "Clear sharing triggers invite interaction",
		negative:     "Nothing in the post asks for interaction",
		remediation:  "Add one direct question or call to action",
		whatIf:       "Add a direct call to action",
		whatIfTarget: 0.9,
	},
	{
		category: categoryTiming, name: "posting_time",
		weight: 0.09, baseline: 0.5, confidence: 0.75,
		value: func(f *content.ContentFeatures) float64 { return f.TimingScore },
		evidence: func(f *content.ContentFeatures) []string {
			return []string{
				fmt.Sprintf("posting hour %02.0f:00 UTC", f.PostHour),
				fmt.Sprintf("peak proximity %.2f", f.PeakHourScore),
			}
		},
		positive:     "Scheduled inside a peak audience window",
		negative:     "Scheduled outside peak audience hours",
		remediation:  "Move the posting time into a peak audience window",
		whatIf:       "Shift posting into a peak window",
		whatIfTarget: 1.0,
	},
	{
		category: categoryTiming, name: "seasonality",
		weight: 0.04, baseline: 0.5, confidence: 0.50,
		value: func(f *content.ContentFeatures) float64 { return f.SeasonalityScore },
		evidence: func(f *content.ContentFeatures) []string {
			return []string{fmt.Sprintf("seasonal weight %.2f", f.SeasonalityScore)}
		},
		positive: "The season works in the post's favor",
		negative: "A seasonal lull works against the post",
	},
	{
		category: categoryCreator, name: "creator_reach",
		weight: 0.08, baseline: 0.4, confidence: 0.80,
		value: func(f *content.ContentFeatures) float64 { return f.CreatorInfluence },
		evidence: func(f *content.ContentFeatures) []string {
			ev := []string{fmt.Sprintf("creator influence %.2f", f.CreatorInfluence)}
			if f.IsVerified {
				ev = append(ev, "verified account")
			}
			return ev
		},
		positive: "Audience size gives the post a strong launch pad",
		negative: "A small launch audience slows early spread",
	},
	{
		category: categoryCreator, name: "engagement_history",
		weight: 0.06, baseline: 0.4, confidence: 0.70,
		value: func(f *content.ContentFeatures) float64 { return f.HistoricalEngagement },
		evidence: func(f *content.ContentFeatures) []string {
			return []string{fmt.Sprintf("historical engagement %.2f", f.HistoricalEngagement)}
		},
		positive: "A track record of engagement primes ranking",
		negative: "Historical engagement below the platform norm",
	},
	{
		category: categoryCreator, name: "posting_consistency",
		weight: 0.04, baseline: 0.5, confidence: 0.60,
		value: func(f *content.ContentFeatures) float64 { return f.PostingConsistency },
		evidence: func(f *content.ContentFeatures) []string {
			return []string{fmt.Sprintf("posting consistency %.2f", f.PostingConsistency)}
		},
		positive:    "Consistent cadence keeps the audience warm",
		negative:    "Irregular posting cadence suppresses reach",
		remediation: "Hold a steady posting cadence through the week",
	},
}

// computeFactors evaluates every spec against the feature vector, in
// declaration order.
func computeFactors(f *content.ContentFeatures) []models.ExplanationFactor {
	out := make([]models.ExplanationFactor, 0, len(factorSpecs))
	for _, s := range factorSpecs {
		v := clamp01(s.value(f))
		impact := clampRange(v-s.baseline, -1, 1)
		text := s.positive
		if impact < 0 {
			text = s.negative
		}
		out = append(out, models.ExplanationFactor{
			Category:    s.category,
			Factor:      s.name,
			Impact:      round3(impact),
			Confidence:  s.confidence,
			Explanation: text,
			Evidence:    s.evidence(f),
			Weight:      s.weight,
		})
	}
	return out
}

// rankFactors orders by |impact| descending. The sort is stable, so equal
// impacts keep the factor table's declaration order.
func rankFactors(factors []models.ExplanationFactor) {
	sort.SliceStable(factors, func(i, j int) bool {
		ai, aj := factors[i].Impact, factors[j].Impact
		if ai < 0 {
			ai = -ai
		}
		if aj < 0 {
			aj = -aj
		}
		return ai > aj
	})
}

// factorLabel renders a factor name for prose.
func factorLabel(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}
