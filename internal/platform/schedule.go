// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package platform

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/auspex/internal/content"
	"github.com/tomtom215/auspex/internal/models"
)

// scheduleWindowCount is how many candidate hours a schedule prediction
// returns.
const scheduleWindowCount = 5

// PredictOptimalSchedule scores every UTC hour against the platform's
// audience peaks, blended with the weekday signal from the feature
// vector, and returns the strongest windows.
func (b *BaseModel) PredictOptimalSchedule(ctx context.Context, f *content.ContentFeatures, meta ContentMeta) (*models.SchedulePrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	weekday, current := 0.5, 0.5
	if f != nil {
		weekday = f.WeekdayScore
		current = f.TimingScore
	}

	windows := make([]models.ScheduleWindow, 0, 24)
	for hour := 0; hour < 24; hour++ {
		windows = append(windows, models.ScheduleWindow{
			Hour:  hour,
			Score: round2(0.8*peakAffinity(hour, b.cfg.PeakHours) + 0.2*weekday),
			Peak:  isPeakHour(hour, b.cfg.PeakHours),
		})
	}
	sort.SliceStable(windows, func(i, j int) bool {
		if windows[i].Score != windows[j].Score {
			return windows[i].Score > windows[j].Score
		}
		return windows[i].Hour < windows[j].Hour
	})
	windows = windows[:scheduleWindowCount]

	return &models.SchedulePrediction{
		Platform:     b.platform,
		BestWindows:  windows,
		CurrentScore: round2(current),
		Advice:       scheduleAdvice(windows[0], current, meta.HasSchedule),
	}, nil
}

// scheduleAdvice summarizes the schedule recommendation in one sentence.
func scheduleAdvice(best models.ScheduleWindow, current float64, scheduled bool) string {
	if scheduled && current >= best.Score-0.05 {
		return "Scheduled time is already in a strong audience window"
	}
	if scheduled {
		return fmt.Sprintf("Shift the scheduled time toward %02d:00 UTC for a stronger audience window", best.Hour)
	}
	return fmt.Sprintf("Post around %02d:00 UTC for the strongest audience window", best.Hour)
}

// peakAffinity measures cyclic proximity to the nearest peak hour: 1.0 at
// a peak, dropping 0.25 per hour of distance. No peaks reads neutral.
func peakAffinity(hour int, peaks []int) float64 {
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
	score := 1 - 0.25*float64(best)
	if score < 0 {
		return 0
	}
	return score
}

func isPeakHour(hour int, peaks []int) bool {
	for _, p := range peaks {
		if p == hour {
			return true
		}
	}
	return false
}
