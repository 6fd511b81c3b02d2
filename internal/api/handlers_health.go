// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package api

import (
	"context"
	"net/http"
	"time"
)

// readyCheckTimeout bounds each dependency probe so a hung dependency
// cannot stall the readiness endpoint.
const readyCheckTimeout = 2 * time.Second

// Health handles GET /health: process liveness only, no dependency
// probing.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"status":    "ok",
		"version":   h.version,
		"platforms": h.engine.Platforms(),
	})
}

// Ready handles GET /ready: every registered dependency check must
// pass. A failing check returns 503 with the failing dependencies
// named, so orchestrators stop routing traffic here.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	checks := make(map[string]string, len(h.readyChecks))
	healthy := true
	for _, c := range h.readyChecks {
		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		err := c.Check(ctx)
		cancel()
		if err != nil {
			checks[c.Name] = err.Error()
			healthy = false
			h.logger.Warn().Err(err).Str("dependency", c.Name).Msg("Readiness check failed")
			continue
		}
		checks[c.Name] = "ok"
	}

	if !healthy {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeInternal,
			"One or more dependencies are not ready",
			map[string]interface{}{"checks": checks})
		return
	}
	rw.Success(map[string]interface{}{
		"status": "ready",
		"checks": checks,
	})
}
