// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package engine

import (
	"context"
	"fmt"

	"github.com/tomtom215/auspex/internal/content"
	"github.com/tomtom215/auspex/internal/models"
	"github.com/tomtom215/auspex/internal/platform"
	"github.com/tomtom215/auspex/internal/training"
)

// AnalyzeHashtagStrategy audits a submission's tags against the
// platform's trending table and count bands. Analysis endpoints surface
// errors instead of degrading; there is no neutral hashtag audit.
func (e *Engine) AnalyzeHashtagStrategy(ctx context.Context, p models.Platform, sub models.ContentSubmission) (*models.HashtagStrategy, error) {
	model, err := e.registry.Model(p)
	if err != nil {
		return nil, err
	}

	features, err := e.extractFor(ctx, p, sub, models.CreatorProfile{})
	if err != nil {
		return nil, err
	}
	return model.AnalyzeHashtagStrategy(ctx, features, sub.AllHashtags())
}

// PredictOptimalSchedule scores candidate posting hours for a request.
func (e *Engine) PredictOptimalSchedule(ctx context.Context, req *models.PredictionRequest) (*models.SchedulePrediction, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	model, err := e.registry.Model(req.Platform)
	if err != nil {
		return nil, err
	}

	features, err := e.extractor.Extract(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("extracting features for schedule: %w", err)
	}
	return model.PredictOptimalSchedule(ctx, features, platform.MetaFromRequest(req))
}

// DatasetQuality assesses the platform's labeled dataset. Platforms
// without a dataset yet get training.ErrDatasetNotFound.
func (e *Engine) DatasetQuality(ctx context.Context, p models.Platform) (*training.QualityReport, error) {
	if _, err := e.registry.Model(p); err != nil {
		return nil, err
	}
	return e.training.DatasetQuality(ctx, p)
}

// TrendingSnapshot returns the platform's current trending hashtag view.
func (e *Engine) TrendingSnapshot(p models.Platform) (*content.TrendingSnapshot, error) {
	if _, err := e.registry.Model(p); err != nil {
		return nil, err
	}
	return e.extractor.TrendingSnapshot(p), nil
}

// extractFor runs feature extraction for an ad-hoc submission that is
// not a full prediction request.
func (e *Engine) extractFor(ctx context.Context, p models.Platform, sub models.ContentSubmission, creator models.CreatorProfile) (*content.ContentFeatures, error) {
	features, err := e.extractor.Extract(ctx, &models.PredictionRequest{
		Content:  sub,
		Platform: p,
		Creator:  creator,
	})
	if err != nil {
		return nil, fmt.Errorf("extracting features: %w", err)
	}
	return features, nil
}
