// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package content

import (
	"strings"

	"github.com/tomtom215/auspex/internal/cache"
	"github.com/tomtom215/auspex/internal/models"
)

// mentionSaturation is the mention count at which MentionInfluence
// reaches 1.0 on the log scale.
const mentionSaturation = 10

// extractSocial fills the social token group: hashtag, mention, URL,
// and emoji counts plus the log-scaled mention influence.
func extractSocial(f *ContentFeatures, sub *models.ContentSubmission) {
	f.HashtagCount = float64(len(sub.AllHashtags()))

	var mentions, urls int
	for _, field := range strings.Fields(sub.Text) {
		switch {
		case strings.HasPrefix(field, "@") && len(field) > 1:
			mentions++
		case strings.HasPrefix(field, "http://"),
			strings.HasPrefix(field, "https://"),
			strings.HasPrefix(field, "www."):
			urls++
		}
	}
	f.MentionCount = float64(mentions)
	f.URLCount = float64(urls)

	total, distinct := countEmoji(sub.Text)
	f.EmojiCount = float64(total)
	if total > 0 {
		f.EmojiDiversity = clamp01(float64(distinct) / float64(total))
	}

	// Log-scaled mention count: tagging a handful of accounts carries
	// most of the influence signal, tagging dozens adds nothing.
	f.MentionInfluence = logScale(float64(mentions), mentionSaturation)
}

// extractEngagement fills the engagement predictor group using the
// phrase-family detector. Empty text keeps the neutral base values.
func extractEngagement(f *ContentFeatures, text string, detector *cache.TextSignalDetector) {
	if strings.TrimSpace(text) == "" {
		return
	}

	res := detector.Detect(text)
	f.HasCallToAction = res.HasCallToAction
	f.HasUrgency = res.HasUrgency
	f.HasCuriosityHook = res.HasCuriosityHook
	f.HasQuestion = strings.ContainsRune(text, '?')

	score := 0.25
	if f.HasCallToAction {
		score += 0.25
	}
	if f.HasCuriosityHook {
		score += 0.20
	}
	if f.HasUrgency {
		score += 0.15
	}
	if f.HasQuestion {
		score += 0.15
	}
	f.ShareabilityScore = clamp01(score)
}

// countEmoji returns the total and distinct emoji rune counts.
func countEmoji(text string) (total, distinct int) {
	seen := make(map[rune]struct{})
	for _, r := range text {
		if isEmoji(r) {
			total++
			seen[r] = struct{}{}
		}
	}
	return total, len(seen)
}

// isEmoji covers the common emoji blocks. Modifier and join sequences
// count per code point, which is accurate enough for a density signal.
func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF: // symbols and pictographs
		return true
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental
		return true
	case r >= 0x1FA70 && r <= 0x1FAFF: // extended-A
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	default:
		return false
	}
}
