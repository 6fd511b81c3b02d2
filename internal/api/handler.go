// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package api

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/auspex/internal/content"
	"github.com/tomtom215/auspex/internal/explain"
	"github.com/tomtom215/auspex/internal/models"
	"github.com/tomtom215/auspex/internal/training"
)

// Engine is the slice of the prediction engine the HTTP layer drives.
// Declared here so handlers can be tested against a stub.
type Engine interface {
	PredictWithOptions(ctx context.Context, req *models.PredictionRequest, opts explain.Options) (*models.ViralPrediction, error)
	PredictBatch(ctx context.Context, reqs []*models.PredictionRequest) ([]*models.ViralPrediction, error)
	ComparePlatforms(ctx context.Context, sub models.ContentSubmission, creator models.CreatorProfile, platforms []models.Platform) (*models.PlatformComparison, error)
	OptimalStrategy(ctx context.Context, sub models.ContentSubmission, creator models.CreatorProfile, platforms []models.Platform) (*models.ContentStrategy, error)

	RecordOutcome(ctx context.Context, predictionID string, actual *models.ActualMetrics) (*training.ViralDataPoint, error)
	EvaluateModel(ctx context.Context, p models.Platform) (*models.ModelPerformance, error)

	AnalyzeHashtagStrategy(ctx context.Context, p models.Platform, sub models.ContentSubmission) (*models.HashtagStrategy, error)
	PredictOptimalSchedule(ctx context.Context, req *models.PredictionRequest) (*models.SchedulePrediction, error)
	DatasetQuality(ctx context.Context, p models.Platform) (*training.QualityReport, error)
	TrendingSnapshot(p models.Platform) (*content.TrendingSnapshot, error)

	Platforms() []models.Platform
}

// ReadyCheck reports whether one named dependency is serving.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handler holds the HTTP handlers and their collaborators.
type Handler struct {
	engine       Engine
	maxBatchSize int
	readyChecks  []ReadyCheck
	version      string
	logger       zerolog.Logger
}

// NewHandler creates the handler set.
func NewHandler(engine Engine, maxBatchSize int, version string, readyChecks []ReadyCheck, logger *zerolog.Logger) *Handler {
	if maxBatchSize <= 0 {
		maxBatchSize = 50
	}
	return &Handler{
		engine:       engine,
		maxBatchSize: maxBatchSize,
		readyChecks:  readyChecks,
		version:      version,
		logger:       logger.With().Str("component", "api").Logger(),
	}
}
