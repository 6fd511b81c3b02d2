// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package platform

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tomtom215/auspex/internal/models"
)

// ErrUnsupportedPlatform is returned when no model exists for the
// requested platform. It is the only per-request error the scoring layer
// surfaces to callers.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Registry holds the platform models, built explicitly at startup. The
// map is never mutated after construction, so lookups need no locking.
type Registry struct {
	models map[models.Platform]Model
	logger zerolog.Logger
}

// RegistryOption customizes registry construction.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	trends TrendSource
	clock  clockwork.Clock
}

// WithTrendSource wires the extractor's trending table into the models,
// enabling trending-aware hashtag suggestions.
func WithTrendSource(ts TrendSource) RegistryOption {
	return func(o *registryOptions) {
		o.trends = ts
	}
}

// WithClock pins the clock used for training timestamps. Tests use a
// fake clock; production uses the real one by default.
func WithClock(clock clockwork.Clock) RegistryOption {
	return func(o *registryOptions) {
		o.clock = clock
	}
}

// NewRegistry validates every config and builds one model per platform.
// Platforms without a config entry are simply absent from the registry;
// a config for an unknown platform is an error.
func NewRegistry(cfgs map[models.Platform]*ModelConfig, logger *zerolog.Logger, opts ...RegistryOption) (*Registry, error) {
	var o registryOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{
		models: make(map[models.Platform]Model, len(cfgs)),
		logger: logger.With().Str("component", "platform-registry").Logger(),
	}

	for p, cfg := range cfgs {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config for %s: %w", p, err)
		}
		switch p {
		case models.PlatformTwitter:
			r.models[p] = NewTwitter(cfg, o.trends, logger)
		case models.PlatformInstagram:
			r.models[p] = NewInstagram(cfg, o.trends, logger)
		case models.PlatformTikTok:
			r.models[p] = NewTikTok(cfg, o.trends, logger)
		default:
			return nil, fmt.Errorf("config for %q: %w", p, ErrUnsupportedPlatform)
		}
	}

	if o.clock != nil {
		for _, m := range r.models {
			if cm, ok := m.(interface{ setClock(clockwork.Clock) }); ok {
				cm.setClock(o.clock)
			}
		}
	}

	r.logger.Info().Int("models", len(r.models)).Msg("Platform registry initialized")
	return r, nil
}

// Model returns the model for a platform.
func (r *Registry) Model(p models.Platform) (Model, error) {
	m, ok := r.models[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, p)
	}
	return m, nil
}

// Platforms lists the registered platforms in stable order.
func (r *Registry) Platforms() []models.Platform {
	out := make([]models.Platform, 0, len(r.models))
	for p := range r.models {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// States returns a copy of every model's training state, keyed by
// platform. Used by the health and model-info endpoints.
func (r *Registry) States() map[models.Platform]ModelState {
	out := make(map[models.Platform]ModelState, len(r.models))
	for p, m := range r.models {
		out[p] = m.State()
	}
	return out
}
