// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package explain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/auspex/internal/models"
)

// Banded score tiers. The boundaries mirror the platform models' score
// normalization bands so prose and numbers tell the same story.
const (
	tierViralFloor    = 90.0
	tierTrendingFloor = 70.0
	tierModerateFloor = 45.0
)

// scoreTier names the band a normalized score falls in.
func scoreTier(score float64) string {
	switch {
	case score >= tierViralFloor:
		return "viral"
	case score >= tierTrendingFloor:
		return "trending"
	case score >= tierModerateFloor:
		return "moderate"
	default:
		return "low"
	}
}

// summarize writes the one-paragraph lead: the predicted tier plus the
// two strongest lifts and drags from the full ranked factor list.
func summarize(score float64, p models.Platform, ranked []models.ExplanationFactor) string {
	var lifts, drags []string
	for _, f := range ranked {
		switch {
		case f.Impact > 0 && len(lifts) < 2:
			lifts = append(lifts, factorLabel(f.Factor))
		case f.Impact < 0 && len(drags) < 2:
			drags = append(drags, factorLabel(f.Factor))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Predicted %s performance on %s (score %.0f).", scoreTier(score), p, score)
	if len(lifts) > 0 {
		b.WriteString(" Working for it: ")
		b.WriteString(strings.Join(lifts, " and "))
		b.WriteString(".")
	}
	if len(drags) > 0 {
		b.WriteString(" Working against it: ")
		b.WriteString(strings.Join(drags, " and "))
		b.WriteString(".")
	}
	return b.String()
}

// narrate renders the kept factors for the requested audience. All three
// registers describe the same factor set; only vocabulary and the amount
// of numeric detail change.
func narrate(aud models.Audience, score float64, factors []models.ExplanationFactor) string {
	var b strings.Builder
	switch aud {
	case models.AudienceBeginner:
		fmt.Fprintf(&b, "This post looks set for %s reach.", scoreTier(score))
		for i, f := range factors {
			if i == narrativeFactorLimit {
				break
			}
			b.WriteString(" ")
			b.WriteString(f.Explanation)
			b.WriteString(".")
		}

	case models.AudienceAdvanced:
		fmt.Fprintf(&b, "Banded score %.2f, %s tier.", score, scoreTier(score))
		for _, f := range factors {
			fmt.Fprintf(&b, " %s: impact %+.3f, weight %.2f, confidence %.2f (%s).",
				f.Factor, f.Impact, f.Weight, f.Confidence, strings.Join(f.Evidence, ", "))
		}

	default:
		fmt.Fprintf(&b, "Expected %s performance at score %.0f. Main factors:", scoreTier(score), score)
		for i, f := range factors {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, " %s %+.2f", factorLabel(f.Factor), f.Impact)
		}
		b.WriteString(".")
	}
	return b.String()
}

// formatScore renders a unit-interval value for prose.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
