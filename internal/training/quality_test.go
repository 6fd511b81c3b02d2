// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package training

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/auspex/internal/models"
)

// qualityPoint builds a clean labeled point that passes every check.
func qualityPoint(i int, platform models.Platform, ts time.Time) *ViralDataPoint {
	return &ViralDataPoint{
		ID:       fmt.Sprintf("point-%d", i),
		Content:  fmt.Sprintf("post body %d", i),
		Platform: platform,
		Features: map[string]float64{"overall_quality": 0.5, "timing_score": 0.4},
		Actual:   models.ActualMetrics{Views: 10_000, Likes: 500, Shares: 50, Comments: 20},
		Labels: PointLabels{
			ViralScore:     float64(30 + i%5),
			EngagementTier: TierModerate,
		},
		Timestamp: ts,
	}
}

func cleanPoints(n int) []*ViralDataPoint {
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	points := make([]*ViralDataPoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, qualityPoint(i, models.PlatformTwitter, base.Add(time.Duration(i)*time.Hour)))
	}
	return points
}

func TestAssessQualityCleanSet(t *testing.T) {
	t.Parallel()

	report := AssessQuality(cleanPoints(10))

	if report.Score != 1.0 {
		t.Errorf("clean score = %v, want 1.0", report.Score)
	}
	if report.SampleCount != 10 {
		t.Errorf("sample count = %d, want 10", report.SampleCount)
	}
	if len(report.Issues) != 0 {
		t.Errorf("clean set reported issues: %v", report.Issues)
	}
}

func TestAssessQualityEmptySet(t *testing.T) {
	t.Parallel()

	report := AssessQuality(nil)

	if report.Score != 0 {
		t.Errorf("empty score = %v, want 0", report.Score)
	}
	if len(report.Issues) != 1 || report.Issues[0] != "no data points" {
		t.Errorf("issues = %v, want the no-data issue", report.Issues)
	}
}

func TestAssessQualityDuplicates(t *testing.T) {
	t.Parallel()

	// Two exact copies in ten points: a 20% duplicate rate costs 0.04.
	points := cleanPoints(8)
	dupA := *points[0]
	dupB := *points[1]
	points = append(points, &dupA, &dupB)

	report := AssessQuality(points)

	if report.Duplicates.Count != 2 {
		t.Errorf("duplicate count = %d, want 2", report.Duplicates.Count)
	}
	if math.Abs(report.Duplicates.Percentage-0.2) > 1e-9 {
		t.Errorf("duplicate percentage = %v, want 0.2", report.Duplicates.Percentage)
	}
	if math.Abs(report.Score-0.96) > 1e-9 {
		t.Errorf("score = %v, want 0.96", report.Score)
	}
	if !hasIssue(report.Issues, "duplicate") {
		t.Errorf("issues = %v, want a duplicate issue", report.Issues)
	}
}

func TestAssessQualityMissingFeatures(t *testing.T) {
	t.Parallel()

	points := cleanPoints(10)
	points[3].Features = nil
	points[7].Features = map[string]float64{"timing_score": math.NaN()}

	report := AssessQuality(points)

	if report.MissingFeatures.Count != 2 {
		t.Errorf("missing count = %d, want 2", report.MissingFeatures.Count)
	}
	if math.Abs(report.MissingFeatures.Percentage-0.2) > 1e-9 {
		t.Errorf("missing percentage = %v, want 0.2", report.MissingFeatures.Percentage)
	}
	if !hasIssue(report.Issues, "missing features") {
		t.Errorf("issues = %v, want a missing-features issue", report.Issues)
	}
}

func TestAssessQualityOutliers(t *testing.T) {
	t.Parallel()

	// Twenty scores at 30 and one at 100: only the 100 crosses |z| > 3.
	points := cleanPoints(21)
	for _, p := range points {
		p.Labels.ViralScore = 30
	}
	points[20].Labels.ViralScore = 100

	report := AssessQuality(points)

	if report.Outliers.Count != 1 {
		t.Errorf("outlier count = %d, want 1", report.Outliers.Count)
	}
	if math.Abs(report.Outliers.Percentage-1.0/21.0) > 1e-9 {
		t.Errorf("outlier percentage = %v, want 1/21", report.Outliers.Percentage)
	}
}

func TestAssessQualityUniformScoresHaveNoOutliers(t *testing.T) {
	t.Parallel()

	points := cleanPoints(5)
	for _, p := range points {
		p.Labels.ViralScore = 50
	}

	report := AssessQuality(points)

	if report.Outliers.Count != 0 {
		t.Errorf("outlier count = %d, want 0 for zero variance", report.Outliers.Count)
	}
}

func TestAssessQualityInconsistencies(t *testing.T) {
	t.Parallel()

	points := cleanPoints(3)
	points[0].Actual.Shares = 600
	points[0].Actual.Likes = 500
	points[1].Labels.IsViral = true
	points[1].Actual.Views = 500

	report := AssessQuality(points)

	if report.Inconsistencies.Count != 2 {
		t.Errorf("inconsistency count = %d, want 2", report.Inconsistencies.Count)
	}
	if !hasIssue(report.Issues, "inconsistent") {
		t.Errorf("issues = %v, want an inconsistency issue", report.Issues)
	}
}

func TestAssessQualityBias(t *testing.T) {
	t.Parallel()

	// Eight twitter points in March against two instagram points in
	// January trips both distribution checks, costing the full 0.15.
	march := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	january := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

	points := make([]*ViralDataPoint, 0, 10)
	for i := 0; i < 8; i++ {
		points = append(points, qualityPoint(i, models.PlatformTwitter, march.Add(time.Duration(i)*time.Hour)))
	}
	for i := 8; i < 10; i++ {
		points = append(points, qualityPoint(i, models.PlatformInstagram, january.Add(time.Duration(i)*time.Hour)))
	}

	report := AssessQuality(points)

	if !report.PlatformBias {
		t.Error("8:2 platform split did not flag platform bias")
	}
	if !report.MonthlyBias {
		t.Error("8:2 monthly split did not flag monthly bias")
	}
	if math.Abs(report.Score-0.85) > 1e-9 {
		t.Errorf("score = %v, want 0.85", report.Score)
	}
}

func TestImbalancedBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		counts []int
		ratio  float64
		want   bool
	}{
		{"single group", []int{5}, 3, false},
		{"exactly at ratio", []int{2, 6}, 3, false},
		{"just past ratio", []int{2, 7}, 3, true},
		{"balanced", []int{5, 5, 5}, 3, false},
		{"empty", nil, 3, false},
	}
	for _, tc := range tests {
		if got := imbalanced(tc.counts, tc.ratio); got != tc.want {
			t.Errorf("%s: imbalanced(%v, %v) = %v, want %v", tc.name, tc.counts, tc.ratio, got, tc.want)
		}
	}
}

func hasIssue(issues []string, substr string) bool {
	for _, issue := range issues {
		if strings.Contains(issue, substr) {
			return true
		}
	}
	return false
}

func TestAssessQualityScorePercentiles(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	points := make([]*ViralDataPoint, 0, 100)
	for i := 0; i < 100; i++ {
		p := qualityPoint(i, models.PlatformTwitter, base.Add(time.Duration(i)*time.Hour))
		p.Labels.ViralScore = float64(i + 1)
		points = append(points, p)
	}

	r := AssessQuality(points)
	if r.ScorePercentiles == nil {
		t.Fatal("ScorePercentiles missing")
	}
	want := map[string]float64{"p25": 25, "p50": 50, "p75": 75, "p90": 90}
	for name, score := range want {
		if got := r.ScorePercentiles[name]; got != score {
			t.Errorf("%s = %v, want %v", name, got, score)
		}
	}
}

func TestScorePercentilesEmpty(t *testing.T) {
	t.Parallel()

	if got := scorePercentiles(nil); got != nil {
		t.Errorf("scorePercentiles(nil) = %v, want nil", got)
	}
}
