// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package content

import "strings"

// Compact sentiment lexicons tuned for social copy. Lexicon scoring is
// deliberately simple: polarity and emotion are inputs to a weighted
// ensemble, not a standalone classifier, so word-level precision beats
// coverage here.

var positiveWords = map[string]struct{}{
	"amazing": {}, "awesome": {}, "beautiful": {}, "best": {}, "brilliant": {},
	"celebrate": {}, "congrats": {}, "congratulations": {}, "delighted": {},
	"epic": {}, "excellent": {}, "excited": {}, "exciting": {}, "fantastic": {},
	"favorite": {}, "fun": {}, "glad": {}, "good": {}, "great": {},
	"grateful": {}, "happy": {}, "incredible": {}, "inspiring": {}, "joy": {},
	"launch": {}, "love": {}, "loved": {}, "perfect": {}, "proud": {},
	"stunning": {}, "success": {}, "thankful": {}, "thanks": {}, "thrilled": {},
	"win": {}, "winner": {}, "wonderful": {}, "wow": {}, "yes": {},
}

var negativeWords = map[string]struct{}{
	"angry": {}, "awful": {}, "bad": {}, "broken": {}, "disappointed": {},
	"disappointing": {}, "disaster": {}, "fail": {}, "failed": {},
	"failure": {}, "fear": {}, "hate": {}, "horrible": {}, "hurt": {},
	"lose": {}, "loss": {}, "lost": {}, "mad": {}, "mistake": {},
	"never": {}, "pain": {}, "problem": {}, "sad": {}, "scam": {},
	"terrible": {}, "tired": {}, "ugly": {}, "unfair": {}, "upset": {},
	"waste": {}, "worst": {}, "wrong": {},
}

// negators flip the polarity of the following sentiment word.
var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "dont": {}, "don't": {},
	"cant": {}, "can't": {}, "wont": {}, "won't": {}, "isnt": {}, "isn't": {},
}

// subjectivityMarkers signal opinion rather than fact.
var subjectivityMarkers = map[string]struct{}{
	"think": {}, "feel": {}, "believe": {}, "honestly": {}, "personally": {},
	"opinion": {}, "seems": {}, "probably": {}, "maybe": {}, "definitely": {},
	"absolutely": {}, "really": {}, "very": {}, "totally": {}, "literally": {},
}

// emotionLexicons maps each of the eight emotion dimensions to its
// marker words. Dimensions follow the common eight-way emotion wheel.
var emotionLexicons = map[string]map[string]struct{}{
	"joy": {
		"happy": {}, "joy": {}, "delighted": {}, "fun": {}, "celebrate": {},
		"excited": {}, "laugh": {}, "smile": {}, "love": {}, "yay": {},
		"thrilled": {}, "glad": {},
	},
	"trust": {
		"trust": {}, "reliable": {}, "honest": {}, "proven": {}, "safe": {},
		"secure": {}, "guarantee": {}, "certified": {}, "loyal": {},
		"authentic": {}, "transparent": {},
	},
	"fear": {
		"fear": {}, "afraid": {}, "scary": {}, "terrifying": {}, "warning": {},
		"danger": {}, "dangerous": {}, "risk": {}, "threat": {}, "panic": {},
		"nightmare": {},
	},
	"surprise": {
		"surprise": {}, "surprising": {}, "shocking": {}, "shocked": {},
		"unexpected": {}, "unbelievable": {}, "incredible": {}, "wow": {},
		"suddenly": {}, "plot": {}, "twist": {},
	},
	"sadness": {
		"sad": {}, "crying": {}, "tears": {}, "heartbroken": {}, "grief": {},
		"miss": {}, "lonely": {}, "loss": {}, "goodbye": {}, "sorry": {},
		"tragic": {},
	},
	"disgust": {
		"disgusting": {}, "gross": {}, "nasty": {}, "awful": {}, "vile": {},
		"toxic": {}, "rotten": {}, "filthy": {}, "cringe": {}, "yuck": {},
	},
	"anger": {
		"angry": {}, "furious": {}, "outraged": {}, "outrageous": {}, "mad": {},
		"rage": {}, "unacceptable": {}, "disgrace": {}, "scandal": {},
		"ridiculous": {}, "unfair": {},
	},
	"anticipation": {
		"soon": {}, "upcoming": {}, "tomorrow": {}, "tonight": {}, "launch": {},
		"launching": {}, "announce": {}, "announcing": {}, "countdown": {},
		"sneak": {}, "preview": {}, "waiting": {}, "finally": {},
	},
}

// emotionDimensions fixes the iteration order for deterministic output.
var emotionDimensions = []string{
	"joy", "trust", "fear", "surprise",
	"sadness", "disgust", "anger", "anticipation",
}

// emotionHitScale converts lexicon hits into a [0,1] score. Four or
// more hits on one dimension saturates it.
const emotionHitScale = 0.25

// extractSentiment fills sentiment polarity, subjectivity, the eight
// emotion dimensions, and overall emotional intensity.
func extractSentiment(f *ContentFeatures, text string) {
	if text == "" {
		f.SentimentSubjectivity = 0.5
		return
	}

	words := splitWords(text)
	if len(words) == 0 {
		f.SentimentSubjectivity = 0.5
		return
	}

	var pos, neg, subj float64
	hits := make(map[string]int, len(emotionDimensions))
	prevNegator := false

	for _, w := range words {
		lower := strings.ToLower(w)

		if _, ok := positiveWords[lower]; ok {
			if prevNegator {
				neg++
			} else {
				pos++
			}
		} else if _, ok := negativeWords[lower]; ok {
			if prevNegator {
				pos++
			} else {
				neg++
			}
		}

		if _, ok := subjectivityMarkers[lower]; ok {
			subj++
		}
		for _, dim := range emotionDimensions {
			if _, ok := emotionLexicons[dim][lower]; ok {
				hits[dim]++
			}
		}

		_, prevNegator = negators[lower]
	}

	if pos+neg > 0 {
		f.SentimentPolarity = clampRange((pos-neg)/(pos+neg), -1, 1)
	}
	f.SentimentSubjectivity = clamp01((pos + neg + subj) / float64(len(words)) * 3)

	scores := map[string]*float64{
		"joy": &f.EmotionJoy, "trust": &f.EmotionTrust,
		"fear": &f.EmotionFear, "surprise": &f.EmotionSurprise,
		"sadness": &f.EmotionSadness, "disgust": &f.EmotionDisgust,
		"anger": &f.EmotionAnger, "anticipation": &f.EmotionAnticipation,
	}
	var peak float64
	for _, dim := range emotionDimensions {
		v := clamp01(float64(hits[dim]) * emotionHitScale)
		*scores[dim] = v
		if v > peak {
			peak = v
		}
	}
	f.EmotionalIntensity = peak
}
