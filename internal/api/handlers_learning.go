// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/auspex/internal/models"
	"github.com/tomtom215/auspex/internal/platform"
	"github.com/tomtom215/auspex/internal/training"
)

// RecordOutcome handles POST /api/v1/outcomes. The observed metrics are
// joined with the pending prediction and appended to the platform's
// labeled dataset.
func (h *Handler) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req OutcomeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	point, err := h.engine.RecordOutcome(r.Context(), req.PredictionID, &req.Metrics)
	if err != nil {
		switch {
		case errors.Is(err, training.ErrDataPointNotFound):
			rw.NotFound("No pending prediction with ID " + req.PredictionID)
		default:
			rw.InternalError(err)
		}
		return
	}

	rw.Accepted(map[string]interface{}{
		"prediction_id":   req.PredictionID,
		"platform":        point.Platform,
		"is_viral":        point.Labels.IsViral,
		"viral_score":     point.Labels.ViralScore,
		"engagement_tier": point.Labels.EngagementTier,
	})
}

// ModelPerformance handles GET /api/v1/models/{platform}/performance.
func (h *Handler) ModelPerformance(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	p, ok := platformParam(w, r)
	if !ok {
		return
	}

	perf, err := h.engine.EvaluateModel(r.Context(), p)
	if err != nil {
		h.writeEngineError(rw, p, err)
		return
	}
	rw.Success(perf)
}

// HashtagStrategy handles GET /api/v1/models/{platform}/hashtags.
// Tags come from the hashtags query parameter; text is optional
// context for trend matching.
func (h *Handler) HashtagStrategy(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	p, ok := platformParam(w, r)
	if !ok {
		return
	}

	tags := queryHashtags(r)
	text := r.URL.Query().Get("text")
	if len(tags) == 0 && text == "" {
		rw.BadRequest("provide hashtags or text to analyze")
		return
	}
	if text == "" {
		// The extractor needs a body; the tags themselves are enough.
		text = "hashtag analysis"
	}

	strategy, err := h.engine.AnalyzeHashtagStrategy(r.Context(), p, models.ContentSubmission{
		Text:     text,
		Hashtags: tags,
	})
	if err != nil {
		h.writeEngineError(rw, p, err)
		return
	}
	rw.Success(strategy)
}

// OptimalSchedule handles POST /api/v1/models/{platform}/schedule.
func (h *Handler) OptimalSchedule(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	p, ok := platformParam(w, r)
	if !ok {
		return
	}

	var req ScheduleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	schedule, err := h.engine.PredictOptimalSchedule(r.Context(), &models.PredictionRequest{
		Content:  req.Content,
		Platform: p,
		Creator:  req.Creator,
	})
	if err != nil {
		h.writeEngineError(rw, p, err)
		return
	}
	rw.Success(schedule)
}

// DatasetQuality handles GET /api/v1/datasets/{platform}/quality.
func (h *Handler) DatasetQuality(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	p, ok := platformParam(w, r)
	if !ok {
		return
	}

	report, err := h.engine.DatasetQuality(r.Context(), p)
	if err != nil {
		switch {
		case errors.Is(err, training.ErrDatasetNotFound):
			rw.NotFound("No labeled dataset for platform " + string(p))
		case errors.Is(err, platform.ErrUnsupportedPlatform):
			rw.UnsupportedPlatform(string(p))
		default:
			rw.InternalError(err)
		}
		return
	}
	rw.Success(report)
}

// Trending handles GET /api/v1/trending/{platform}.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	p, ok := platformParam(w, r)
	if !ok {
		return
	}

	snapshot, err := h.engine.TrendingSnapshot(p)
	if err != nil {
		h.writeEngineError(rw, p, err)
		return
	}
	rw.Success(snapshot)
}
