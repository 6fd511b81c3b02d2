// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package training

import (
	"time"

	"github.com/tomtom215/auspex/internal/models"
)

// EngagementTier buckets an outcome by how far it traveled.
type EngagementTier string

// Tier ladder, highest first.
const (
	TierViral    EngagementTier = "viral"
	TierHigh     EngagementTier = "high"
	TierModerate EngagementTier = "moderate"
	TierLow      EngagementTier = "low"
)

// PointLabels are the training targets derived from actual metrics. They
// are computed once when the outcome is recorded and never rewritten.
type PointLabels struct {
	// IsViral is true when views or likes cross the platform's viral
	// thresholds, or the composite score reaches the viral floor.
	IsViral bool `json:"is_viral"`

	// ViralScore is the composite outcome score on a 0-100 scale.
	ViralScore float64 `json:"viral_score"`

	// EngagementTier is the ladder bucket: viral, high, moderate, low.
	EngagementTier EngagementTier `json:"engagement_tier"`

	// PeakHour is the UTC hour with the highest engagement, from actuals.
	PeakHour int `json:"peak_hour"`

	// TotalEngagement is likes + shares + comments + saves.
	TotalEngagement int64 `json:"total_engagement"`
}

// ViralDataPoint is one labeled observation: the content that was posted,
// the features it was scored with, and what actually happened.
type ViralDataPoint struct {
	ID        string                   `json:"id"`
	Content   string                   `json:"content"`
	Platform  models.Platform          `json:"platform"`
	Features  map[string]float64       `json:"features"`
	Actual    models.ActualMetrics     `json:"actual_metrics"`
	Predicted *models.PredictedMetrics `json:"predicted_metrics,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
	Labels    PointLabels              `json:"labels"`
	Metadata  map[string]string        `json:"metadata,omitempty"`
}

// PendingPoint is a prediction awaiting its real-world outcome. Pending
// points live in their own store partition and never enter a dataset.
type PendingPoint struct {
	PredictionID string                   `json:"prediction_id"`
	Platform     models.Platform          `json:"platform"`
	Content      string                   `json:"content"`
	Features     map[string]float64       `json:"features"`
	Predicted    *models.PredictedMetrics `json:"predicted_metrics,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
}

// DatasetSplits partitions point IDs for training. The three slices are
// disjoint and their union is exactly the prepared point set.
type DatasetSplits struct {
	Train      []string `json:"train"`
	Validation []string `json:"validation"`
	Test       []string `json:"test"`
}

// DatasetStatistics summarizes a dataset's label distribution.
type DatasetStatistics struct {
	TotalPoints    int                    `json:"total_points"`
	ViralPoints    int                    `json:"viral_points"`
	ViralRatio     float64                `json:"viral_ratio"`
	MeanViralScore float64                `json:"mean_viral_score"`
	TierCounts     map[EngagementTier]int `json:"tier_counts"`

	// QualityScore is filled by dataset preparation and quality
	// assessment; plain outcome appends leave it zero.
	QualityScore float64 `json:"quality_score,omitempty"`
}

// TrainingDataset is the append-only per-platform collection of labeled
// points. Outcome recording appends to the most recent dataset; dataset
// preparation returns a filtered snapshot without mutating the stored one.
type TrainingDataset struct {
	ID                  string             `json:"id"`
	Platform            models.Platform    `json:"platform"`
	DataPoints          []*ViralDataPoint  `json:"data_points"`
	Statistics          DatasetStatistics  `json:"statistics"`
	Splits              DatasetSplits      `json:"splits"`
	FeatureCorrelations map[string]float64 `json:"feature_correlations,omitempty"`
	FeatureImportance   map[string]float64 `json:"feature_importance,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// ModelStateRecord is the persisted per-platform model state. It survives
// restarts so retraining cadence and version numbers are not reset.
type ModelStateRecord struct {
	Platform    models.Platform `json:"platform"`
	Accuracy    float64         `json:"accuracy"`
	Version     int             `json:"version"`
	LastTrained time.Time       `json:"last_trained"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// computeStatistics derives the label distribution summary. The quality
// score is left at zero; callers that assessed quality fill it in.
func computeStatistics(points []*ViralDataPoint) DatasetStatistics {
	stats := DatasetStatistics{
		TotalPoints: len(points),
		TierCounts:  make(map[EngagementTier]int, 4),
	}
	if len(points) == 0 {
		return stats
	}

	var scoreSum float64
	for _, p := range points {
		if p.Labels.IsViral {
			stats.ViralPoints++
		}
		stats.TierCounts[p.Labels.EngagementTier]++
		scoreSum += p.Labels.ViralScore
	}
	stats.ViralRatio = float64(stats.ViralPoints) / float64(len(points))
	stats.MeanViralScore = scoreSum / float64(len(points))
	return stats
}
