// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/auspex/internal/engine"
	"github.com/tomtom215/auspex/internal/explain"
	"github.com/tomtom215/auspex/internal/models"
	"github.com/tomtom215/auspex/internal/platform"
	"github.com/tomtom215/auspex/internal/validation"
)

// explainOptions builds explanation options from query parameters.
// Unknown values fall back to the defaults; the options are advisory,
// never a reason to reject a request.
func explainOptions(r *http.Request) explain.Options {
	q := r.URL.Query()
	return explain.Options{
		DetailLevel:   models.ParseDetailLevel(q.Get("detail")),
		Audience:      models.ParseAudience(q.Get("audience")),
		IncludeWhatIf: q.Get("what_if") == "true",
	}
}

// Predict handles POST /api/v1/predictions.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.PredictionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pred, err := h.engine.PredictWithOptions(r.Context(), &req, explainOptions(r))
	if err != nil {
		h.writeEngineError(rw, req.Platform, err)
		return
	}
	rw.SuccessCached(pred, pred.Cached)
}

// PredictBatch handles POST /api/v1/predictions/batch.
func (h *Handler) PredictBatch(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req BatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if len(req.Requests) == 0 {
		rw.BadRequest("requests list is empty")
		return
	}
	if len(req.Requests) > h.maxBatchSize {
		rw.ValidationError(
			fmt.Sprintf("batch size %d exceeds the maximum of %d", len(req.Requests), h.maxBatchSize),
			map[string]interface{}{"max_batch_size": h.maxBatchSize, "submitted": len(req.Requests)},
		)
		return
	}
	for i, item := range req.Requests {
		if item == nil {
			continue // degraded per-item by the engine
		}
		if verr := validation.ValidateStruct(item); verr != nil {
			apiErr := verr.ToAPIError()
			rw.ValidationError(fmt.Sprintf("requests[%d]: %s", i, apiErr.Message), apiErr.Details)
			return
		}
	}

	preds, err := h.engine.PredictBatch(r.Context(), req.Requests)
	if err != nil {
		rw.InternalError(err)
		return
	}
	rw.Success(map[string]interface{}{
		"predictions": preds,
		"count":       len(preds),
	})
}

// ComparePlatforms handles POST /api/v1/predictions/compare.
func (h *Handler) ComparePlatforms(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CompareRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cmp, err := h.engine.ComparePlatforms(r.Context(), req.Content, req.Creator, req.Platforms)
	if err != nil {
		h.writeEngineError(rw, firstInvalid(req.Platforms), err)
		return
	}
	rw.Success(cmp)
}

// OptimalStrategy handles POST /api/v1/predictions/strategy.
func (h *Handler) OptimalStrategy(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CompareRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	strategy, err := h.engine.OptimalStrategy(r.Context(), req.Content, req.Creator, req.Platforms)
	if err != nil {
		h.writeEngineError(rw, firstInvalid(req.Platforms), err)
		return
	}
	rw.Success(strategy)
}

// writeEngineError maps engine sentinel errors onto the API error
// contract. Anything unrecognized is an internal failure.
func (h *Handler) writeEngineError(rw *ResponseWriter, p models.Platform, err error) {
	switch {
	case errors.Is(err, platform.ErrUnsupportedPlatform):
		rw.UnsupportedPlatform(string(p))
	case errors.Is(err, engine.ErrNilRequest):
		rw.BadRequest("request is required")
	default:
		rw.InternalError(err)
	}
}

// firstInvalid picks the platform to name in an unsupported-platform
// error for list-shaped requests.
func firstInvalid(platforms []models.Platform) models.Platform {
	for _, p := range platforms {
		if !p.Valid() {
			return p
		}
	}
	if len(platforms) > 0 {
		return platforms[0]
	}
	return ""
}
