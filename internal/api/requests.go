// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/auspex/internal/models"
	"github.com/tomtom215/auspex/internal/validation"
)

// maxRequestBody bounds request payloads. Batch requests carry up to 50
// submissions; 4 MiB leaves generous headroom without inviting abuse.
const maxRequestBody = 4 << 20

// BatchRequest is the body of POST /api/v1/predictions/batch.
type BatchRequest struct {
	Requests []*models.PredictionRequest `json:"requests" validate:"required,min=1,dive,required"`
}

// CompareRequest is the body of POST /api/v1/predictions/compare and
// /api/v1/predictions/strategy. An empty Platforms list means every
// registered platform.
type CompareRequest struct {
	Content models.ContentSubmission `json:"content" validate:"required"`
	Creator models.CreatorProfile    `json:"creator,omitempty"`
	// Platforms limits the comparison to the listed platforms.
	Platforms []models.Platform `json:"platforms,omitempty" validate:"max=10"`
}

// OutcomeRequest is the body of POST /api/v1/outcomes.
type OutcomeRequest struct {
	PredictionID string               `json:"prediction_id" validate:"required,uuid4"`
	Metrics      models.ActualMetrics `json:"metrics" validate:"required"`
}

// ScheduleRequest is the body of POST /api/v1/models/{platform}/schedule.
type ScheduleRequest struct {
	Content models.ContentSubmission `json:"content" validate:"required"`
	Creator models.CreatorProfile    `json:"creator,omitempty"`
}

// decodeJSON decodes a request body strictly: unknown fields rejected,
// size bounded, exactly one JSON value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		default:
			return fmt.Errorf("invalid JSON: %w", err)
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body contains more than one JSON value")
	}
	return nil
}

// decodeAndValidate decodes the body and runs struct validation,
// writing the error envelope itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	rw := NewResponseWriter(w, r)
	if err := decodeJSON(w, r, dst); err != nil {
		rw.BadRequest(err.Error())
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// platformParam parses the {platform} URL parameter, writing the error
// envelope itself when the value is unknown.
func platformParam(w http.ResponseWriter, r *http.Request) (models.Platform, bool) {
	raw := chi.URLParam(r, "platform")
	p, err := models.ParsePlatform(raw)
	if err != nil {
		NewResponseWriter(w, r).UnsupportedPlatform(raw)
		return "", false
	}
	return p, true
}

// queryHashtags parses the hashtags query parameter: repeated values
// and comma-separated lists both accepted.
func queryHashtags(r *http.Request) []string {
	var out []string
	for _, v := range r.URL.Query()["hashtags"] {
		for _, tag := range strings.Split(v, ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				out = append(out, tag)
			}
		}
	}
	return out
}
