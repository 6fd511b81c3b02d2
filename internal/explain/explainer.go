// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package explain

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tomtom215/auspex/internal/content"
	"github.com/tomtom215/auspex/internal/models"
	"github.com/tomtom215/auspex/internal/platform"
)

const (
	// defaultMaxRecommendations bounds the advice list when the caller
	// passes no limit.
	defaultMaxRecommendations = 5

	// maxWhatIfScenarios bounds the hypothetical list. Three is enough to
	// act on; more reads as noise.
	maxWhatIfScenarios = 3

	// minWhatIfDelta drops scenarios whose projected gain is under half a
	// point. They are within the model's noise floor.
	minWhatIfDelta = 0.5

	// narrativeFactorLimit caps how many factors the beginner narrative
	// walks through.
	narrativeFactorLimit = 3
)

var (
	// ErrNoPrediction is returned when Explain is called without a model
	// prediction to explain.
	ErrNoPrediction = errors.New("no prediction to explain")

	// ErrNoFeatures is returned when Explain is called without the feature
	// vector the prediction was scored from.
	ErrNoFeatures = errors.New("no feature vector to explain")
)

// genericAdvice fills remaining recommendation slots after the
// factor-specific remediations. Ordered by general usefulness.
var genericAdvice = []string{
	"Post when your audience is most active and reply to early comments",
	"Pair a clear hook in the first line with one direct call to action",
	"Use the platform's native media format at full resolution",
}

// Options controls the shape of a generated explanation.
type Options struct {
	// DetailLevel sets the factor budget. Zero value means standard.
	DetailLevel models.DetailLevel

	// Audience sets the narrative register. Zero value means intermediate.
	Audience models.Audience

	// MaxRecommendations caps the advice list. Zero means the default.
	MaxRecommendations int

	// IncludeWhatIf adds hypothetical score-delta scenarios.
	IncludeWhatIf bool
}

// normalized fills zero values with defaults.
func (o Options) normalized() Options {
	o.DetailLevel = models.ParseDetailLevel(string(o.DetailLevel))
	o.Audience = models.ParseAudience(string(o.Audience))
	if o.MaxRecommendations <= 0 {
		o.MaxRecommendations = defaultMaxRecommendations
	}
	return o
}

// Explainer turns a scored prediction and its feature vector into a
// human-readable explanation. It holds no mutable state; one instance
// serves all platforms concurrently.
type Explainer struct {
	logger zerolog.Logger
	clock  clockwork.Clock
}

// Option configures an Explainer.
type Option func(*Explainer)

// WithClock substitutes the wall clock. Tests pin GeneratedAt with it.
func WithClock(c clockwork.Clock) Option {
	return func(e *Explainer) {
		if c != nil {
			e.clock = c
		}
	}
}

// New creates an Explainer.
func New(logger *zerolog.Logger, opts ...Option) *Explainer {
	e := &Explainer{
		logger: logger.With().Str("component", "explain").Logger(),
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Explain builds an explanation for a prediction. The full factor table
// is always evaluated and ranked; the detail level only truncates what is
// reported, so brief and comprehensive explanations of the same post
// agree on factor order.
func (e *Explainer) Explain(ctx context.Context, pred *platform.ModelPrediction, features *content.ContentFeatures, p models.Platform, opts Options) (*models.Explanation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pred == nil {
		return nil, ErrNoPrediction
	}
	if features == nil {
		return nil, ErrNoFeatures
	}

	opts = opts.normalized()

	factors := computeFactors(features)
	rankFactors(factors)

	kept := factors
	if budget := opts.DetailLevel.FactorBudget(); len(kept) > budget {
		kept = kept[:budget]
	}

	ex := &models.Explanation{
		Summary:     summarize(pred.ViralScore, p, factors),
		Factors:     kept,
		Narrative:   narrate(opts.Audience, pred.ViralScore, kept),
		DetailLevel: opts.DetailLevel,
		Audience:    opts.Audience,
		GeneratedAt: e.clock.Now().UTC(),
	}
	if opts.IncludeWhatIf {
		ex.WhatIf = whatIfScenarios(features)
	}

	e.logger.Debug().
		Str("platform", string(p)).
		Str("detail", string(opts.DetailLevel)).
		Int("factors", len(kept)).
		Msg("Explanation generated")
	return ex, nil
}

// Recommendations returns actionable advice, most impactful first.
// Negative-impact factors are matched against their remediations,
// prioritized by weight times impact magnitude; generic advice fills
// remaining slots. A nil feature vector yields the generic list.
func (e *Explainer) Recommendations(features *content.ContentFeatures, max int) []string {
	if max <= 0 {
		max = defaultMaxRecommendations
	}

	out := make([]string, 0, max)
	if features != nil {
		type candidate struct {
			priority float64
			text     string
		}
		cands := make([]candidate, 0, len(factorSpecs))
		for _, s := range factorSpecs {
			if s.remediation == "" {
				continue
			}
			impact := clamp01(s.value(features)) - s.baseline
			if impact >= 0 {
				continue
			}
			cands = append(cands, candidate{priority: -impact * s.weight, text: s.remediation})
		}
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].priority > cands[j].priority })
		for _, c := range cands {
			if len(out) >= max {
				return out
			}
			out = append(out, c.text)
		}
	}
	for _, g := range genericAdvice {
		if len(out) >= max {
			break
		}
		out = append(out, g)
	}
	return out
}

// whatIfScenarios projects score deltas for the hypothetical changes the
// factor table defines, using the same weights recommendations are
// prioritized by. Deltas are in banded score points.
func whatIfScenarios(f *content.ContentFeatures) []models.WhatIfScenario {
	out := make([]models.WhatIfScenario, 0, maxWhatIfScenarios)
	for _, s := range factorSpecs {
		if s.whatIf == "" {
			continue
		}
		v := clamp01(s.value(f))
		delta := s.weight * (s.whatIfTarget - v) * 100
		if delta < minWhatIfDelta {
			continue
		}
		out = append(out, models.WhatIfScenario{
			Change:         s.whatIf,
			ProjectedDelta: round1(delta),
			Rationale: "Raises " + factorLabel(s.name) + " from " +
				formatScore(v) + " toward " + formatScore(s.whatIfTarget),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProjectedDelta != out[j].ProjectedDelta {
			return out[i].ProjectedDelta > out[j].ProjectedDelta
		}
		return out[i].Change < out[j].Change
	})
	if len(out) > maxWhatIfScenarios {
		out = out[:maxWhatIfScenarios]
	}
	return out
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
