// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package training

import (
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/auspex/internal/cache"
	"github.com/tomtom215/auspex/internal/models"
)

// Deduction weights. The score starts at 1.0 and each check subtracts its
// weight times the violation rate, so a fully duplicated set costs 0.20
// and a 20% duplicate rate costs 0.04.
const (
	deductMissing         = 0.25
	deductOutliers        = 0.15
	deductDuplicates      = 0.20
	deductInconsistencies = 0.25
	deductBias            = 0.15
)

const (
	// outlierZ flags composite scores more than three standard deviations
	// from the mean.
	outlierZ = 3.0

	// platformImbalanceRatio flags sets where one platform outnumbers
	// another more than 3x.
	platformImbalanceRatio = 3.0

	// monthlyImbalanceRatio flags sets where one month outnumbers another
	// more than 2x.
	monthlyImbalanceRatio = 2.0

	// implausibleViralViews marks viral-labeled points whose view count
	// cannot support the label.
	implausibleViralViews = 1000
)

// QualityCheck is one violation tally.
type QualityCheck struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// QualityReport is the outcome of assessing a point set. Score is 1.0
// minus the weighted deductions, clamped to [0,1].
type QualityReport struct {
	Score           float64      `json:"score"`
	SampleCount     int          `json:"sample_count"`
	MissingFeatures QualityCheck `json:"missing_features"`
	Outliers        QualityCheck `json:"outliers"`
	Duplicates      QualityCheck `json:"duplicates"`
	Inconsistencies QualityCheck `json:"inconsistencies"`
	PlatformBias    bool         `json:"platform_bias"`
	MonthlyBias     bool         `json:"monthly_bias"`
	Issues          []string     `json:"issues,omitempty"`

	// ScorePercentiles summarizes the viral score distribution of the
	// assessed points at p25/p50/p75/p90.
	ScorePercentiles map[string]float64 `json:"score_percentiles,omitempty"`
}

// AssessQuality scores a point set against the five data-quality checks.
// It is pure and side-effect free; an empty set scores zero.
func AssessQuality(points []*ViralDataPoint) *QualityReport {
	r := &QualityReport{SampleCount: len(points)}
	if len(points) == 0 {
		r.Issues = append(r.Issues, "no data points")
		return r
	}
	n := float64(len(points))

	r.MissingFeatures = tally(countMissing(points), n)
	r.Outliers = tally(countOutliers(points), n)
	r.Duplicates = tally(countDuplicates(points), n)
	r.Inconsistencies = tally(countInconsistencies(points), n)
	r.PlatformBias = platformImbalanced(points)
	r.MonthlyBias = monthlyImbalanced(points)
	r.ScorePercentiles = scorePercentiles(points)

	var bias float64
	if r.PlatformBias {
		bias += 0.5
	}
	if r.MonthlyBias {
		bias += 0.5
	}

	r.Score = clamp01(1.0 -
		deductMissing*r.MissingFeatures.Percentage -
		deductOutliers*r.Outliers.Percentage -
		deductDuplicates*r.Duplicates.Percentage -
		deductInconsistencies*r.Inconsistencies.Percentage -
		deductBias*bias)

	if r.MissingFeatures.Count > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("%d points missing features", r.MissingFeatures.Count))
	}
	if r.Outliers.Count > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("%d composite score outliers", r.Outliers.Count))
	}
	if r.Duplicates.Count > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("%d duplicate points", r.Duplicates.Count))
	}
	if r.Inconsistencies.Count > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("%d logically inconsistent points", r.Inconsistencies.Count))
	}
	if r.PlatformBias {
		r.Issues = append(r.Issues, "platform distribution imbalanced beyond 3x")
	}
	if r.MonthlyBias {
		r.Issues = append(r.Issues, "monthly distribution imbalanced beyond 2x")
	}
	return r
}

func tally(count int, n float64) QualityCheck {
	return QualityCheck{Count: count, Percentage: float64(count) / n}
}

// countMissing counts points with no usable feature vector.
func countMissing(points []*ViralDataPoint) int {
	count := 0
	for _, p := range points {
		if len(p.Features) == 0 {
			count++
			continue
		}
		for _, v := range p.Features {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				count++
				break
			}
		}
	}
	return count
}

// countOutliers flags composite scores with |z| above the cutoff. A set
// with zero variance has no outliers.
func countOutliers(points []*ViralDataPoint) int {
	n := float64(len(points))
	var sum float64
	for _, p := range points {
		sum += p.Labels.ViralScore
	}
	mean := sum / n

	var sq float64
	for _, p := range points {
		d := p.Labels.ViralScore - mean
		sq += d * d
	}
	std := math.Sqrt(sq / n)
	if std == 0 {
		return 0
	}

	count := 0
	for _, p := range points {
		if math.Abs(p.Labels.ViralScore-mean)/std > outlierZ {
			count++
		}
	}
	return count
}

// countDuplicates counts occurrences beyond the first of each
// content+platform+timestamp key.
func countDuplicates(points []*ViralDataPoint) int {
	seen := make(map[string]bool, len(points))
	count := 0
	for _, p := range points {
		key := string(p.Platform) + "\x00" + p.Content + "\x00" + p.Timestamp.UTC().Format(time.RFC3339Nano)
		if seen[key] {
			count++
			continue
		}
		seen[key] = true
	}
	return count
}

// countInconsistencies flags points whose numbers contradict themselves:
// more shares than likes, or a viral label on an implausibly small view
// count.
func countInconsistencies(points []*ViralDataPoint) int {
	count := 0
	for _, p := range points {
		if p.Actual.Shares > p.Actual.Likes {
			count++
			continue
		}
		if p.Labels.IsViral && p.Actual.Views < implausibleViralViews {
			count++
		}
	}
	return count
}

func platformImbalanced(points []*ViralDataPoint) bool {
	counts := make(map[models.Platform]int, 3)
	for _, p := range points {
		counts[p.Platform]++
	}
	return imbalanced(countValues(counts), platformImbalanceRatio)
}

func monthlyImbalanced(points []*ViralDataPoint) bool {
	counts := make(map[string]int, 12)
	for _, p := range points {
		counts[p.Timestamp.UTC().Format("2006-01")]++
	}
	return imbalanced(countValues(counts), monthlyImbalanceRatio)
}

// imbalanced reports whether the largest group exceeds the smallest by
// more than the ratio. Fewer than two groups cannot be imbalanced.
func imbalanced(counts []int, ratio float64) bool {
	if len(counts) < 2 {
		return false
	}
	lo, hi := counts[0], counts[0]
	for _, c := range counts[1:] {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	return float64(hi) > ratio*float64(lo)
}

func countValues[K comparable](m map[K]int) []int {
	out := make([]int, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

// scorePercentiles builds a viral score distribution over integer
// buckets 0..100 and reads standard percentiles from it. A Fenwick tree
// keeps the rank queries logarithmic even for large point sets.
func scorePercentiles(points []*ViralDataPoint) map[string]float64 {
	tree := cache.NewFenwickTree(101)
	for _, p := range points {
		b := int(math.Round(p.Labels.ViralScore))
		if b < 0 {
			b = 0
		}
		if b > 100 {
			b = 100
		}
		tree.Update(b, 1)
	}

	total := tree.Total()
	if total == 0 {
		return nil
	}

	quantiles := []struct {
		name string
		q    float64
	}{
		{"p25", 0.25},
		{"p50", 0.50},
		{"p75", 0.75},
		{"p90", 0.90},
	}
	out := make(map[string]float64, len(quantiles))
	for _, pc := range quantiles {
		rank := int64(math.Ceil(pc.q * float64(total)))
		if rank < 1 {
			rank = 1
		}
		out[pc.name] = float64(bucketAtRank(tree, rank))
	}
	return out
}

// bucketAtRank finds the smallest bucket whose prefix sum reaches the
// rank, via binary search over prefix sums.
func bucketAtRank(tree *cache.FenwickTree, rank int64) int {
	lo, hi := 0, tree.Size()-1
	for lo < hi {
		mid := (lo + hi) / 2
		if tree.PrefixSum(mid) >= rank {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}
