// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/auspex/internal/config"
)

// Router assembles the HTTP surface from the handler set and the
// middleware factory.
type Router struct {
	handler    *Handler
	middleware *ChiMiddleware
}

// NewRouter creates a router for the given engine and configuration.
func NewRouter(cfg *config.APIConfig, eng Engine, version string, readyChecks []ReadyCheck, logger *zerolog.Logger) *Router {
	mwCfg := DefaultChiMiddlewareConfig()
	if cfg != nil {
		mwCfg.CORSAllowedOrigins = cfg.CORSOrigins
		if cfg.RateLimitReqs > 0 {
			mwCfg.RateLimitRequests = cfg.RateLimitReqs
		}
		if cfg.RateLimitWindow > 0 {
			mwCfg.RateLimitWindow = cfg.RateLimitWindow
		}
		mwCfg.RateLimitDisabled = cfg.RateLimitDisabled
	}

	maxBatch := 0
	if cfg != nil {
		maxBatch = cfg.MaxBatchSize
	}

	return &Router{
		handler:    NewHandler(eng, maxBatch, version, readyChecks, logger),
		middleware: NewChiMiddleware(mwCfg),
	}
}

// Handler builds the chi route tree.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.middleware.CORS())

	// Probes and metrics stay outside the API group: permissive rate
	// limits, no compression, no per-route instrumentation.
	r.Group(func(r chi.Router) {
		r.Use(rt.middleware.RateLimitHealth())
		r.Get("/health", rt.handler.Health)
		r.Get("/ready", rt.handler.Ready)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(prometheusMetrics())
		r.Use(compression())

		r.Route("/predictions", func(r chi.Router) {
			r.With(rt.middleware.RateLimit()).Post("/", rt.handler.Predict)

			// Fan-out endpoints run multiple pipeline passes per call.
			r.Group(func(r chi.Router) {
				r.Use(rt.middleware.RateLimitBatch())
				r.Post("/batch", rt.handler.PredictBatch)
				r.Post("/compare", rt.handler.ComparePlatforms)
				r.Post("/strategy", rt.handler.OptimalStrategy)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(rt.middleware.RateLimit())

			r.Post("/outcomes", rt.handler.RecordOutcome)

			r.Route("/models/{platform}", func(r chi.Router) {
				r.Get("/performance", rt.handler.ModelPerformance)
				r.Get("/hashtags", rt.handler.HashtagStrategy)
				r.Post("/schedule", rt.handler.OptimalSchedule)
			})

			r.Get("/datasets/{platform}/quality", rt.handler.DatasetQuality)
			r.Get("/trending/{platform}", rt.handler.Trending)
		})
	})

	return r
}
