// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package content

import (
	"strings"
	"unicode"
)

// stopwords is the compact English stopword list used for stopword
// ratio and lexical diversity. Deliberately small: social copy is short
// and a full list would flag most of it.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"if": {}, "of": {}, "at": {}, "by": {}, "for": {}, "with": {},
	"about": {}, "to": {}, "from": {}, "in": {}, "on": {}, "is": {},
	"are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "it": {},
	"its": {}, "this": {}, "that": {}, "as": {}, "so": {}, "not": {},
	"no": {}, "do": {}, "does": {}, "did": {}, "have": {}, "has": {},
	"had": {}, "will": {}, "would": {}, "can": {}, "could": {},
	"i": {}, "we": {}, "they": {}, "he": {}, "she": {}, "them": {},
	"my": {}, "our": {}, "their": {},
}

// secondPersonWords address the reader directly. Direct address
// correlates with engagement on every supported platform.
var secondPersonWords = map[string]struct{}{
	"you": {}, "your": {}, "yours": {}, "yourself": {}, "u": {}, "ur": {},
}

// extractTextStats fills the text statistics group.
func extractTextStats(f *ContentFeatures, text string) {
	f.TextLength = float64(len([]rune(text)))
	if text == "" {
		return
	}

	words := splitWords(text)
	f.WordCount = float64(len(words))

	sentences := countSentences(text)
	f.SentenceCount = float64(sentences)

	if len(words) > 0 {
		var chars int
		for _, w := range words {
			chars += len([]rune(w))
		}
		f.AvgWordLength = float64(chars) / float64(len(words))
	}
	if sentences > 0 {
		f.AvgSentenceLength = float64(len(words)) / float64(sentences)
	}

	var letters, uppers, punct int
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		case unicode.IsPunct(r):
			punct++
		}
		switch r {
		case '?':
			f.QuestionCount++
		case '!':
			f.ExclamationCount++
		}
	}
	if letters > 0 {
		f.UppercaseRatio = clamp01(float64(uppers) / float64(letters))
	}
	if f.TextLength > 0 {
		f.PunctuationDensity = clamp01(float64(punct) / f.TextLength)
	}
}

// extractLinguistic fills the linguistic group: readability, diversity,
// complexity, and addressing style.
func extractLinguistic(f *ContentFeatures, text string) {
	if text == "" {
		// Neutral defaults survive from the base vector.
		return
	}

	words := splitWords(text)
	if len(words) == 0 {
		return
	}
	sentences := countSentences(text)
	if sentences == 0 {
		sentences = 1
	}

	var syllables, complexWords, stops, secondPerson int
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		lower := strings.ToLower(w)
		unique[lower] = struct{}{}

		s := countSyllables(lower)
		syllables += s
		if s >= 3 {
			complexWords++
		}
		if _, ok := stopwords[lower]; ok {
			stops++
		}
		if _, ok := secondPersonWords[lower]; ok {
			secondPerson++
		}
	}

	wordCount := float64(len(words))
	f.LexicalDiversity = clamp01(float64(len(unique)) / wordCount)
	f.ComplexWordRatio = clamp01(float64(complexWords) / wordCount)
	f.AvgSyllablesPerWord = float64(syllables) / wordCount
	f.StopwordRatio = clamp01(float64(stops) / wordCount)
	f.SecondPersonRatio = clamp01(float64(secondPerson) / wordCount)

	// Flesch reading ease, clamped into [0,100]. Social copy routinely
	// lands outside the formula's intended range, hence the clamp.
	wordsPerSentence := wordCount / float64(sentences)
	syllablesPerWord := float64(syllables) / wordCount
	flesch := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	f.ReadabilityScore = clampRange(flesch, 0, 100)
}

// splitWords tokenizes text into words, stripping social tokens and
// surrounding punctuation. Hashtags, mentions, and URLs are counted by
// the social group, not here.
func splitWords(text string) []string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))
	for _, field := range fields {
		if strings.HasPrefix(field, "#") || strings.HasPrefix(field, "@") ||
			strings.HasPrefix(field, "http://") || strings.HasPrefix(field, "https://") {
			continue
		}
		w := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// countSentences counts terminal punctuation runs. A trailing fragment
// without terminal punctuation still counts as one sentence.
func countSentences(text string) int {
	count := 0
	inRun := false
	sawContent := false
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if !inRun && sawContent {
				count++
				sawContent = false
			}
			inRun = true
		default:
			inRun = false
			if unicode.IsLetter(r) || unicode.IsNumber(r) {
				sawContent = true
			}
		}
	}
	if sawContent {
		count++
	}
	return count
}

// countSyllables estimates syllables by counting vowel groups. Silent
// trailing 'e' is discounted. Every word counts at least one syllable.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}
