// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package content

import (
	"github.com/tomtom215/auspex/internal/models"
)

// platformProfile captures the per-platform norms the fit, media, and
// timing groups score against. Numbers reflect broadly published
// engagement research rather than live platform data.
type platformProfile struct {
	// Text length bands, in characters.
	textIdealLo, textIdealHi, textHardHi float64
	// Hashtag count bands.
	tagIdealLo, tagIdealHi, tagHardHi float64
	// Video duration bands, in seconds.
	videoIdealLo, videoIdealHi, videoHardHi float64
	// Posting cadence bands, posts per week.
	cadenceIdealLo, cadenceIdealHi, cadenceHardHi float64
	// Media-type preference, [0,1] per content type.
	mediaPreference map[models.ContentType]float64
	// Hours (UTC) with the strongest audience activity.
	peakHours []int
	// Day-of-week weights.
	weekdayWeight, weekendWeight float64
}

var platformProfiles = map[models.Platform]platformProfile{
	models.PlatformTwitter: {
		textIdealLo: 70, textIdealHi: 240, textHardHi: 1000,
		tagIdealLo: 1, tagIdealHi: 2, tagHardHi: 6,
		videoIdealLo: 15, videoIdealHi: 60, videoHardHi: 140,
		cadenceIdealLo: 5, cadenceIdealHi: 25, cadenceHardHi: 100,
		mediaPreference: map[models.ContentType]float64{
			models.ContentTypeText:       0.80,
			models.ContentTypeImage:      0.90,
			models.ContentTypeVideo:      0.85,
			models.ContentTypeShortVideo: 0.80,
			models.ContentTypeCarousel:   0.60,
			models.ContentTypeStory:      0.30,
		},
		peakHours:     []int{8, 9, 12, 13, 17, 18},
		weekdayWeight: 0.90, weekendWeight: 0.60,
	},
	models.PlatformInstagram: {
		textIdealLo: 80, textIdealHi: 300, textHardHi: 2200,
		tagIdealLo: 5, tagIdealHi: 10, tagHardHi: 30,
		videoIdealLo: 30, videoIdealHi: 90, videoHardHi: 900,
		cadenceIdealLo: 3, cadenceIdealHi: 10, cadenceHardHi: 50,
		mediaPreference: map[models.ContentType]float64{
			models.ContentTypeText:       0.20,
			models.ContentTypeImage:      0.85,
			models.ContentTypeVideo:      0.80,
			models.ContentTypeShortVideo: 0.95,
			models.ContentTypeCarousel:   0.90,
			models.ContentTypeStory:      0.75,
		},
		peakHours:     []int{11, 12, 13, 19, 20, 21},
		weekdayWeight: 0.80, weekendWeight: 0.90,
	},
	models.PlatformTikTok: {
		textIdealLo: 50, textIdealHi: 150, textHardHi: 2200,
		tagIdealLo: 3, tagIdealHi: 5, tagHardHi: 10,
		videoIdealLo: 15, videoIdealHi: 60, videoHardHi: 600,
		cadenceIdealLo: 5, cadenceIdealHi: 20, cadenceHardHi: 70,
		mediaPreference: map[models.ContentType]float64{
			models.ContentTypeText:       0.05,
			models.ContentTypeImage:      0.20,
			models.ContentTypeVideo:      0.70,
			models.ContentTypeShortVideo: 1.00,
			models.ContentTypeCarousel:   0.30,
			models.ContentTypeStory:      0.20,
		},
		peakHours:     []int{18, 19, 20, 21, 22},
		weekdayWeight: 0.85, weekendWeight: 0.95,
	},
}

// profileFor returns the platform profile, falling back to the Twitter
// profile for unknown platforms so scores stay defined. Validation
// upstream rejects unsupported platforms before extraction.
func profileFor(platform models.Platform) platformProfile {
	if p, ok := platformProfiles[platform]; ok {
		return p
	}
	return platformProfiles[models.PlatformTwitter]
}

// extractPlatformFit fills the platform fit group: how well the
// submission's shape matches the platform's norms.
func extractPlatformFit(f *ContentFeatures, sub *models.ContentSubmission, platform models.Platform) {
	p := profileFor(platform)

	textLen := float64(len([]rune(sub.Text)))
	if textLen > 0 {
		f.LengthFitScore = clamp01(bandScore(textLen, 0, p.textIdealLo, p.textIdealHi, p.textHardHi))
	}

	tagCount := float64(len(sub.AllHashtags()))
	f.HashtagFitScore = clamp01(bandScore(tagCount, -1, p.tagIdealLo, p.tagIdealHi, p.tagHardHi))

	if pref, ok := p.mediaPreference[sub.EffectiveContentType()]; ok {
		f.MediaFitScore = pref
	}

	f.FormatFitScore = clamp01(0.4*f.LengthFitScore + 0.3*f.HashtagFitScore + 0.3*f.MediaFitScore)
}

// extractMedia fills the media group from the declared media metadata.
func extractMedia(f *ContentFeatures, sub *models.ContentSubmission, platform models.Platform) {
	p := profileFor(platform)
	ct := sub.EffectiveContentType()

	f.MediaCount = float64(sub.MediaCount)
	f.HasVideo = sub.VideoDurationSec > 0 ||
		ct == models.ContentTypeVideo || ct == models.ContentTypeShortVideo
	f.IsShortVideo = ct == models.ContentTypeShortVideo

	if f.HasVideo && sub.VideoDurationSec > 0 {
		f.VideoDurationScore = clamp01(bandScore(sub.VideoDurationSec, 0, p.videoIdealLo, p.videoIdealHi, p.videoHardHi))
	}
	// No video keeps the neutral duration score: the media preference
	// table already prices the content type.

	f.AccessibilityScore = accessibilityScore(sub, f.HasVideo)

	richness := 0.5 * logScale(float64(sub.MediaCount), 5)
	switch {
	case f.IsShortVideo:
		richness += 0.50
	case f.HasVideo:
		richness += 0.35
	case sub.MediaCount > 0:
		richness += 0.20
	}
	f.MediaRichness = clamp01(richness)
}

// accessibilityScore rewards captions on video and alt text on images.
// Text-only submissions keep the neutral 0.5: there is nothing to caption.
func accessibilityScore(sub *models.ContentSubmission, hasVideo bool) float64 {
	hasImages := sub.MediaCount > 0 && !hasVideo
	if !hasVideo && !hasImages {
		return 0.5
	}

	score := 0.5
	if hasVideo {
		if sub.HasCaptions {
			score += 0.5
		} else {
			score -= 0.25
		}
	}
	if hasImages {
		if sub.AltTextProvided {
			score += 0.5
		} else {
			score -= 0.25
		}
	}
	return clamp01(score)
}
