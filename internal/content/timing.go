// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package content

import (
	"time"

	"github.com/tomtom215/auspex/internal/models"
)

// followerSaturation is the follower count at which creator influence
// reaches 1.0 on the log scale.
const followerSaturation = 1e8

// extractTiming fills the timing group against the intended posting
// time. ref is the scheduled time when provided, otherwise now.
func extractTiming(f *ContentFeatures, ref time.Time, platform models.Platform) {
	p := profileFor(platform)
	ref = ref.UTC()

	hour := ref.Hour()
	day := int(ref.Weekday())
	f.PostHour = float64(hour)
	f.PostDayOfWeek = float64(day)
	f.IsWeekend = day == 0 || day == 6

	f.PeakHourScore = peakProximity(hour, p.peakHours)
	if f.IsWeekend {
		f.WeekdayScore = p.weekendWeight
	} else {
		f.WeekdayScore = p.weekdayWeight
	}
	f.TimingScore = clamp01(0.6*f.PeakHourScore + 0.4*f.WeekdayScore)
}

// peakProximity scores an hour by circular distance to the nearest
// peak hour: 1.0 at a peak, fading by 0.25 per hour of distance.
func peakProximity(hour int, peaks []int) float64 {
	if len(peaks) == 0 {
		return 0.5
	}
	best := 24
	for _, p := range peaks {
		d := hour - p
		if d < 0 {
			d = -d
		}
		if wrap := 24 - d; wrap < d {
			d = wrap
		}
		if d < best {
			best = d
		}
	}
	return clamp01(1 - 0.25*float64(best))
}

// extractCreator fills the creator group. A profile without stats keeps
// every neutral base value so a missing creator reads as unknown rather
// than as a zero-influence account.
func extractCreator(f *ContentFeatures, creator *models.CreatorProfile, platform models.Platform) {
	if creator == nil || !creator.HasStats() {
		f.IsVerified = creator != nil && creator.Verified
		return
	}
	p := profileFor(platform)

	f.CreatorInfluence = logScale(float64(creator.FollowerCount), followerSaturation)

	ratio := float64(creator.FollowerCount) / float64(creator.FollowingCount+1)
	f.FollowerRatio = logScale(ratio, 1000)

	if creator.AvgEngagementRate > 0 {
		// 15% engagement is exceptional on every supported platform.
		f.HistoricalEngagement = clamp01(creator.AvgEngagementRate / 0.15)
	}
	if creator.PostsPerWeek > 0 {
		f.PostingConsistency = clamp01(bandScore(creator.PostsPerWeek, 0, p.cadenceIdealLo, p.cadenceIdealHi, p.cadenceHardHi))
	}
	if creator.AccountAgeDays > 0 {
		f.AccountMaturity = logScale(float64(creator.AccountAgeDays), 3650)
	}
	f.IsVerified = creator.Verified
}
