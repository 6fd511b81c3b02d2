// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package content

import "math"

// ContentFeatures is the flat numeric feature vector consumed by the
// platform scoring models and the Model Runtime.
//
// Fields are grouped by the sub-extraction that produces them. Every
// group writes a disjoint set of fields, which is what lets the
// sub-extractions run concurrently without locking. A ContentFeatures
// value is immutable once Extract returns it.
//
// Range conventions:
//   - Count fields (WordCount, HashtagCount, ...) are raw non-negative
//     counts.
//   - Score fields are clamped into [0,1] unless the comment says
//     [0,100] (ReadabilityScore only). Violations are clipped, never
//     returned as errors.
//   - Boolean flags serialize as 0/1 through FeatureMap.
type ContentFeatures struct {
	// Text statistics
	TextLength         float64 // characters, after truncation
	WordCount          float64
	SentenceCount      float64
	AvgWordLength      float64 // characters per word
	AvgSentenceLength  float64 // words per sentence
	UppercaseRatio     float64 // [0,1] share of letters that are uppercase
	PunctuationDensity float64 // [0,1] punctuation runes per character
	QuestionCount      float64
	ExclamationCount   float64

	// Sentiment and emotion
	SentimentPolarity     float64 // [-1,1]
	SentimentSubjectivity float64 // [0,1]
	EmotionJoy            float64 // [0,1]
	EmotionTrust          float64 // [0,1]
	EmotionFear           float64 // [0,1]
	EmotionSurprise       float64 // [0,1]
	EmotionSadness        float64 // [0,1]
	EmotionDisgust        float64 // [0,1]
	EmotionAnger          float64 // [0,1]
	EmotionAnticipation   float64 // [0,1]
	EmotionalIntensity    float64 // [0,1] strongest emotion dimension

	// Linguistic
	ReadabilityScore    float64 // [0,100] Flesch reading ease, clamped
	LexicalDiversity    float64 // [0,1] unique words / total words
	ComplexWordRatio    float64 // [0,1] words with 3+ syllables
	AvgSyllablesPerWord float64
	SecondPersonRatio   float64 // [0,1] direct-address pronouns per word
	StopwordRatio       float64 // [0,1]

	// Social tokens
	HashtagCount     float64
	MentionCount     float64
	URLCount         float64
	EmojiCount       float64
	EmojiDiversity   float64 // [0,1] distinct emoji / total emoji
	MentionInfluence float64 // [0,1] log-scaled mention count

	// Engagement predictors
	HasCallToAction   bool
	HasUrgency        bool
	HasCuriosityHook  bool
	HasQuestion       bool
	ShareabilityScore float64 // [0,1]

	// Platform fit
	LengthFitScore  float64 // [0,1] text length vs platform ideal band
	HashtagFitScore float64 // [0,1] hashtag count vs platform ideal band
	MediaFitScore   float64 // [0,1] media shape vs platform preference
	FormatFitScore  float64 // [0,1] blended fit

	// Trending and context
	TrendingRelevance      float64 // [0,1] hashtag overlap with trending snapshot
	CurrentEventsRelevance float64 // [0,1] body-text overlap with trending topics
	SeasonalityScore       float64 // [0,1] month and weekday seasonal weight
	BreakingNewsFlag       bool
	TrendMomentum          float64 // [0,1] acceleration of matched topics

	// Creator
	CreatorInfluence     float64 // [0,1] log-scaled follower count
	FollowerRatio        float64 // [0,1] log-scaled followers/following
	HistoricalEngagement float64 // [0,1] creator's average engagement rate
	PostingConsistency   float64 // [0,1] cadence vs platform ideal band
	AccountMaturity      float64 // [0,1] log-scaled account age
	IsVerified           bool

	// Timing
	PostHour      float64 // 0-23, UTC
	PostDayOfWeek float64 // 0=Sunday .. 6=Saturday
	IsWeekend     bool
	PeakHourScore float64 // [0,1] proximity to the platform's peak hours
	WeekdayScore  float64 // [0,1]
	TimingScore   float64 // [0,1] blended

	// Media
	MediaCount         float64
	HasVideo           bool
	IsShortVideo       bool
	VideoDurationScore float64 // [0,1] duration vs platform ideal band
	AccessibilityScore float64 // [0,1] captions and alt text
	MediaRichness      float64 // [0,1]

	// Content quality
	WritingQuality   float64 // [0,1] penalizes shouting and repeated characters
	ClarityScore     float64 // [0,1] sentence length moderation
	OriginalityScore float64 // [0,1] inverse cliche density
	OverallQuality   float64 // [0,1] blended
}

// NeutralFeatures returns a vector with every score at its neutral
// midpoint and every count at zero. Sub-extractions overwrite their own
// groups; anything left untouched stays neutral instead of reading as a
// strong negative signal. This is also the base for the reduced
// real-time extraction path.
func NeutralFeatures() *ContentFeatures {
	return &ContentFeatures{
		SentimentPolarity:     0,
		SentimentSubjectivity: 0.5,
		ReadabilityScore:      50,
		LexicalDiversity:      0.5,
		StopwordRatio:         0.4,
		ShareabilityScore:     0.5,
		LengthFitScore:        0.5,
		HashtagFitScore:       0.5,
		MediaFitScore:         0.5,
		FormatFitScore:        0.5,
		SeasonalityScore:      0.5,
		CreatorInfluence:      0.5,
		FollowerRatio:         0.5,
		HistoricalEngagement:  0.5,
		PostingConsistency:    0.5,
		AccountMaturity:       0.5,
		PeakHourScore:         0.5,
		WeekdayScore:          0.5,
		TimingScore:           0.5,
		VideoDurationScore:    0.5,
		AccessibilityScore:    0.5,
		MediaRichness:         0.5,
		WritingQuality:        0.5,
		ClarityScore:          0.5,
		OriginalityScore:      0.5,
		OverallQuality:        0.5,
	}
}

// FeatureMap flattens a feature vector into the named float dictionary
// the Model Runtime and the training store consume. Booleans serialize
// as 0/1. The function is pure: it never mutates the input and two
// calls on the same vector return equal maps.
func FeatureMap(f *ContentFeatures) map[string]float64 {
	if f == nil {
		f = NeutralFeatures()
	}
	return map[string]float64{
		"text_length":         f.TextLength,
		"word_count":          f.WordCount,
		"sentence_count":      f.SentenceCount,
		"avg_word_length":     f.AvgWordLength,
		"avg_sentence_length": f.AvgSentenceLength,
		"uppercase_ratio":     f.UppercaseRatio,
		"punctuation_density": f.PunctuationDensity,
		"question_count":      f.QuestionCount,
		"exclamation_count":   f.ExclamationCount,

		"sentiment_polarity":     f.SentimentPolarity,
		"sentiment_subjectivity": f.SentimentSubjectivity,
		"emotion_joy":            f.EmotionJoy,
		"emotion_trust":          f.EmotionTrust,
		"emotion_fear":           f.EmotionFear,
		"emotion_surprise":       f.EmotionSurprise,
		"emotion_sadness":        f.EmotionSadness,
		"emotion_disgust":        f.EmotionDisgust,
		"emotion_anger":          f.EmotionAnger,
		"emotion_anticipation":   f.EmotionAnticipation,
		"emotional_intensity":    f.EmotionalIntensity,

		"readability_score":      f.ReadabilityScore,
		"lexical_diversity":      f.LexicalDiversity,
		"complex_word_ratio":     f.ComplexWordRatio,
		"avg_syllables_per_word": f.AvgSyllablesPerWord,
		"second_person_ratio":    f.SecondPersonRatio,
		"stopword_ratio":         f.StopwordRatio,

		"hashtag_count":     f.HashtagCount,
		"mention_count":     f.MentionCount,
		"url_count":         f.URLCount,
		"emoji_count":       f.EmojiCount,
		"emoji_diversity":   f.EmojiDiversity,
		"mention_influence": f.MentionInfluence,

		"has_call_to_action": boolFeature(f.HasCallToAction),
		"has_urgency":        boolFeature(f.HasUrgency),
		"has_curiosity_hook": boolFeature(f.HasCuriosityHook),
		"has_question":       boolFeature(f.HasQuestion),
		"shareability_score": f.ShareabilityScore,

		"length_fit_score":  f.LengthFitScore,
		"hashtag_fit_score": f.HashtagFitScore,
		"media_fit_score":   f.MediaFitScore,
		"format_fit_score":  f.FormatFitScore,

		"trending_relevance":       f.TrendingRelevance,
		"current_events_relevance": f.CurrentEventsRelevance,
		"seasonality_score":        f.SeasonalityScore,
		"breaking_news_flag":       boolFeature(f.BreakingNewsFlag),
		"trend_momentum":           f.TrendMomentum,

		"creator_influence":     f.CreatorInfluence,
		"follower_ratio":        f.FollowerRatio,
		"historical_engagement": f.HistoricalEngagement,
		"posting_consistency":   f.PostingConsistency,
		"account_maturity":      f.AccountMaturity,
		"is_verified":           boolFeature(f.IsVerified),

		"post_hour":        f.PostHour,
		"post_day_of_week": f.PostDayOfWeek,
		"is_weekend":       boolFeature(f.IsWeekend),
		"peak_hour_score":  f.PeakHourScore,
		"weekday_score":    f.WeekdayScore,
		"timing_score":     f.TimingScore,

		"media_count":          f.MediaCount,
		"has_video":            boolFeature(f.HasVideo),
		"is_short_video":       boolFeature(f.IsShortVideo),
		"video_duration_score": f.VideoDurationScore,
		"accessibility_score":  f.AccessibilityScore,
		"media_richness":       f.MediaRichness,

		"writing_quality":   f.WritingQuality,
		"clarity_score":     f.ClarityScore,
		"originality_score": f.OriginalityScore,
		"overall_quality":   f.OverallQuality,
	}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
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

// logScale maps a non-negative count onto [0,1] with logarithmic
// damping. saturation is the count at which the scale reaches 1.0.
func logScale(v, saturation float64) float64 {
	if v <= 0 || saturation <= 0 {
		return 0
	}
	return clamp01(math.Log1p(v) / math.Log1p(saturation))
}

// bandScore maps a value against an ideal band. Values inside
// [idealLo, idealHi] score 1.0; outside, the score falls off linearly
// and reaches zero at hardLo/hardHi.
func bandScore(v, hardLo, idealLo, idealHi, hardHi float64) float64 {
	switch {
	case v >= idealLo && v <= idealHi:
		return 1
	case v <= hardLo || v >= hardHi:
		return 0
	case v < idealLo:
		return (v - hardLo) / (idealLo - hardLo)
	default:
		return (hardHi - v) / (hardHi - idealHi)
	}
}
