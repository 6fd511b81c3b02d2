// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package content

import (
	"strings"
	"unicode"

	"github.com/tomtom215/auspex/internal/cache"
)

// clichePhrases are worn-out expressions that depress originality.
// Matched case-insensitively as substrings.
var clichePhrases = []string{
	"game changer",
	"game-changer",
	"think outside the box",
	"at the end of the day",
	"take it to the next level",
	"next level",
	"secret sauce",
	"low hanging fruit",
	"move the needle",
	"new normal",
	"hustle culture",
	"rise and grind",
	"crushing it",
	"killing it",
	"living my best life",
	"good vibes only",
	"work hard play hard",
	"dream big",
	"stay tuned",
	"no brainer",
	"circle back",
	"synergy",
}

// newClicheMatcher builds the originality matcher once per extractor.
func newClicheMatcher() *cache.PatternMatcher {
	return cache.NewPatternMatcherFromSlice(clichePhrases, "cliche")
}

// extractQuality fills the content quality group. It recomputes its own
// word and sentence statistics so it stays independent of the text
// statistics group.
func extractQuality(f *ContentFeatures, text string, cliches *cache.PatternMatcher) {
	if strings.TrimSpace(text) == "" {
		return
	}

	words := splitWords(text)
	sentences := countSentences(text)
	if sentences == 0 {
		sentences = 1
	}

	f.WritingQuality = writingQuality(text, words)

	if len(words) > 0 {
		avgSentenceLen := float64(len(words)) / float64(sentences)
		f.ClarityScore = clamp01(bandScore(avgSentenceLen, 0, 6, 20, 45))
	}

	clicheHits := len(cliches.Match(text))
	f.OriginalityScore = clamp01(1 - 0.25*float64(clicheHits))

	f.OverallQuality = clamp01(0.4*f.WritingQuality + 0.3*f.ClarityScore + 0.3*f.OriginalityScore)
}

// writingQuality starts at 1.0 and deducts for shouting, stretched
// characters, and punctuation pileups.
func writingQuality(text string, words []string) float64 {
	score := 1.0

	if len(words) > 0 {
		var allCaps int
		for _, w := range words {
			if len(w) >= 3 && w == strings.ToUpper(w) && hasLetter(w) {
				allCaps++
			}
		}
		capsRatio := float64(allCaps) / float64(len(words))
		switch {
		case capsRatio > 0.3:
			score -= 0.35
		case capsRatio > 0.1:
			score -= 0.15
		}
	}

	stretches := countCharacterStretches(text)
	if stretches > 3 {
		stretches = 3
	}
	score -= 0.1 * float64(stretches)

	if strings.Contains(text, "!!!") || strings.Contains(text, "???") {
		score -= 0.1
	}

	return clamp01(score)
}

// countCharacterStretches counts runs of the same letter three or
// longer ("soooo", "yesss").
func countCharacterStretches(text string) int {
	count := 0
	var prev rune
	run := 1
	for _, r := range strings.ToLower(text) {
		if r == prev && unicode.IsLetter(r) {
			run++
			if run == 3 {
				count++
			}
		} else {
			run = 1
		}
		prev = r
	}
	return count
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
