// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/auspex/internal/logging"
	"github.com/tomtom215/auspex/internal/models"
)

// Error codes for API responses. Stable contract: clients branch on
// these, never on message text.
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeUnsupportedPlatform = "UNSUPPORTED_PLATFORM"
	ErrCodeInsufficientData    = "INSUFFICIENT_DATA"
	ErrCodeLowQuality          = "LOW_QUALITY"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeRateLimit           = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// ResponseWriter writes the standard models.APIResponse envelope and
// stamps query timing from its own construction time.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter creates a response writer for one request.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{
		w:         w,
		r:         r,
		startTime: time.Now(),
	}
}

// Success writes a 200 envelope with the payload.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.SuccessCached(data, false)
}

// SuccessCached writes a 200 envelope, marking cache provenance. A
// cached response reports zero query time: the pipeline never ran.
func (rw *ResponseWriter) SuccessCached(data interface{}, cached bool) {
	meta := models.Metadata{
		Timestamp: time.Now().UTC(),
		Cached:    cached,
	}
	if !cached {
		meta.QueryTimeMS = time.Since(rw.startTime).Milliseconds()
	}

	rw.writeJSON(http.StatusOK, models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: meta,
	})
}

// Accepted writes a 202 envelope for work recorded but processed
// asynchronously.
func (rw *ResponseWriter) Accepted(data interface{}) {
	rw.writeJSON(http.StatusAccepted, models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(rw.startTime).Milliseconds(),
		},
	})
}

// Error writes an error envelope with the given status and code.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error envelope with structured details.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, code, message string, details map[string]interface{}) {
	rw.writeJSON(statusCode, models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// ValidationError writes a 400 with field-level details.
func (rw *ResponseWriter) ValidationError(message string, details map[string]interface{}) {
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation, message, details)
}

// BadRequest writes a 400 validation error without details.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeValidation, message)
}

// UnsupportedPlatform writes the 422 for platforms outside the registry.
func (rw *ResponseWriter) UnsupportedPlatform(platform string) {
	rw.ErrorWithDetails(http.StatusUnprocessableEntity, ErrCodeUnsupportedPlatform,
		"Platform \""+platform+"\" is not supported",
		map[string]interface{}{"platform": platform})
}

// NotFound writes a 404 error.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// InternalError writes a 500 with a generic message. The underlying
// error goes to the log, never to the client.
func (rw *ResponseWriter) InternalError(err error) {
	logging.CtxErr(rw.r.Context(), err).Msg("Request failed")
	rw.Error(http.StatusInternalServerError, ErrCodeInternal, "An internal error occurred")
}

// writeJSON writes the envelope with proper headers.
func (rw *ResponseWriter) writeJSON(statusCode int, resp models.APIResponse) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(resp); err != nil {
		logging.CtxErr(rw.r.Context(), err).Msg("Failed to encode JSON response")
	}
}

// RateLimitHandler is the httprate limit handler: the standard error
// envelope instead of httprate's plain-text default.
func RateLimitHandler(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Error(http.StatusTooManyRequests, ErrCodeRateLimit,
		"Too many requests, slow down")
}
