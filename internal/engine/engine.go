// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tomtom215/auspex/internal/cache"
	"github.com/tomtom215/auspex/internal/config"
	"github.com/tomtom215/auspex/internal/content"
	"github.com/tomtom215/auspex/internal/events"
	"github.com/tomtom215/auspex/internal/explain"
	"github.com/tomtom215/auspex/internal/metrics"
	"github.com/tomtom215/auspex/internal/mlruntime"
	"github.com/tomtom215/auspex/internal/models"
	"github.com/tomtom215/auspex/internal/platform"
	"github.com/tomtom215/auspex/internal/training"
)

// Fallback prediction shape. A degraded prediction is schema-identical
// to a healthy one; these constants pin the documented values callers
// can rely on.
const (
	fallbackScore      = 50.0
	fallbackConfidence = 0.3
)

const (
	// cacheKeyPrefix namespaces prediction fingerprints in the cache.
	cacheKeyPrefix = "prediction"

	// maxRecommendations caps the advice list on a prediction payload.
	maxRecommendations = 5
)

// ErrNilRequest is returned when Predict is called without a request.
// It is a programming error, not a pipeline failure, so it is surfaced
// instead of degraded.
var ErrNilRequest = errors.New("engine: nil prediction request")

// Publisher is the slice of the event bus the engine writes to.
// Implemented by events.Bus; nil disables event publication.
type Publisher interface {
	PublishPrediction(ctx context.Context, event *events.PredictionRecorded) error
	PublishOutcome(ctx context.Context, event *events.OutcomeRecorded) error
}

// Deps are the collaborators the engine orchestrates. Extractor,
// Registry, Explainer, and Training are required; Runtime and Publisher
// may be nil (heuristic-only scoring, no event fan-out), and a nil
// Cache disables prediction caching.
type Deps struct {
	Extractor *content.Extractor
	Registry  *platform.Registry
	Explainer *explain.Explainer
	Training  *training.Manager
	Runtime   mlruntime.Client
	Cache     cache.Cacher
	Publisher Publisher
}

func (d *Deps) validate() error {
	switch {
	case d.Extractor == nil:
		return errors.New("engine: extractor is required")
	case d.Registry == nil:
		return errors.New("engine: platform registry is required")
	case d.Explainer == nil:
		return errors.New("engine: explainer is required")
	case d.Training == nil:
		return errors.New("engine: training manager is required")
	}
	return nil
}

// Engine is the prediction orchestrator. It is safe for concurrent use:
// the pipeline writes no shared state during a request, and the two
// maintenance entry points serialize themselves with TryLock.
type Engine struct {
	cfg     config.EngineConfig
	runtime config.RuntimeConfig
	jobs    config.JobsConfig

	extractor *content.Extractor
	registry  *platform.Registry
	explainer *explain.Explainer
	training  *training.Manager
	client    mlruntime.Client
	cache     cache.Cacher
	publisher Publisher

	logger zerolog.Logger
	clock  clockwork.Clock

	// Skip-if-running guards for the background maintenance tasks. Both
	// mutate per-platform model state, so overlapping runs are skipped,
	// never queued.
	retrainMu sync.Mutex
	evalMu    sync.Mutex

	// Runtime-side model IDs, registered lazily on first use.
	modelMu  sync.Mutex
	modelIDs map[models.Platform]string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock substitutes the wall clock, for tests that pin timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// New creates the prediction engine.
func New(cfg *config.Config, deps Deps, logger *zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("engine: nil config")
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if cfg.Runtime.Enabled && deps.Runtime == nil {
		return nil, errors.New("engine: runtime enabled but no client provided")
	}

	e := &Engine{
		cfg:       cfg.Engine,
		runtime:   cfg.Runtime,
		jobs:      cfg.Jobs,
		extractor: deps.Extractor,
		registry:  deps.Registry,
		explainer: deps.Explainer,
		training:  deps.Training,
		client:    deps.Runtime,
		cache:     deps.Cache,
		publisher: deps.Publisher,
		logger:    logger.With().Str("component", "engine").Logger(),
		clock:     clockwork.NewRealClock(),
		modelIDs:  make(map[models.Platform]string, 3),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Platforms lists the platforms the engine can score for.
func (e *Engine) Platforms() []models.Platform {
	return e.registry.Platforms()
}

// Predict scores a request with standard explanation options.
func (e *Engine) Predict(ctx context.Context, req *models.PredictionRequest) (*models.ViralPrediction, error) {
	return e.PredictWithOptions(ctx, req, explain.Options{})
}

// PredictWithOptions runs the full pipeline: cache check, feature
// extraction, platform scoring, optional Model Runtime blend, metric
// derivation, explanation, cache fill, and async recording.
//
// The only errors returned are ErrNilRequest and ErrUnsupportedPlatform;
// every pipeline failure past the platform gate degrades into the
// fallback prediction instead.
func (e *Engine) PredictWithOptions(ctx context.Context, req *models.PredictionRequest, opts explain.Options) (*models.ViralPrediction, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	// Platform gate before any spend: an unsupported platform is the one
	// per-request error callers see, and it must surface even when the
	// rest of the pipeline would have failed.
	model, err := e.registry.Model(req.Platform)
	if err != nil {
		return nil, err
	}

	start := e.clock.Now()
	key := e.cacheKey(req)

	if cached := e.lookupCache(key); cached != nil {
		metrics.RecordPrediction(req.Platform.String(), "cached", cached.ViralScore, e.clock.Since(start))
		return cached, nil
	}

	res, stage := e.runPipeline(ctx, req, model, opts)
	if res == nil {
		pred := e.fallback(req.Platform, stage)
		metrics.RecordFallback(req.Platform.String(), stage)
		metrics.RecordPrediction(req.Platform.String(), "fallback", pred.ViralScore, e.clock.Since(start))
		return pred, nil
	}

	e.storeCache(key, res.pred)
	e.recordPrediction(ctx, req, res)
	metrics.RecordPrediction(req.Platform.String(), "success", res.pred.ViralScore, e.clock.Since(start))
	return res.pred, nil
}

// pipelineResult carries the assembled prediction together with the
// feature vector it was scored with, which the recorded event needs.
type pipelineResult struct {
	pred     *models.ViralPrediction
	features *content.ContentFeatures
}

// runPipeline executes extraction through explanation. A nil result
// means the pipeline failed at the returned stage and the caller should
// substitute the fallback.
func (e *Engine) runPipeline(ctx context.Context, req *models.PredictionRequest, model platform.Model, opts explain.Options) (*pipelineResult, string) {
	ctx, cancel := e.withTimeout(ctx, e.cfg.PredictTimeout)
	defer cancel()

	features, err := e.extractor.Extract(ctx, req)
	if err != nil {
		e.logger.Error().Err(err).Str("platform", req.Platform.String()).Msg("Feature extraction failed")
		return nil, "extracting"
	}

	meta := platform.MetaFromRequest(req)
	mp, err := model.Predict(ctx, features, meta)
	if err != nil {
		e.logger.Error().Err(err).Str("platform", req.Platform.String()).Msg("Platform scoring failed")
		return nil, "scoring"
	}

	score := mp.ViralScore
	if e.runtime.Enabled {
		blended, err := e.blendRuntime(ctx, req.Platform, features, score)
		if err != nil {
			e.logger.Warn().Err(err).Str("platform", req.Platform.String()).Msg("Model Runtime call failed")
			return nil, "scoring"
		}
		score = blended
	}

	derived := deriveViralMetrics(features, score, mp.Metrics.EngagementRate)

	explanation, err := e.explainer.Explain(ctx, mp, features, req.Platform, opts)
	if err != nil {
		e.logger.Error().Err(err).Str("platform", req.Platform.String()).Msg("Explanation failed")
		return nil, "explaining"
	}

	return &pipelineResult{
		pred:     e.assemble(req, mp, features, score, derived, explanation),
		features: features,
	}, ""
}

// blendRuntime folds the Model Runtime's inference into the heuristic
// score at the configured weight. The runtime's confidence is never
// used: prediction confidence reflects input completeness only.
func (e *Engine) blendRuntime(ctx context.Context, p models.Platform, features *content.ContentFeatures, heuristic float64) (float64, error) {
	modelID, err := e.ensureModel(ctx, p)
	if err != nil {
		return 0, err
	}

	ctx, cancel := e.withTimeout(ctx, e.runtime.Timeout)
	defer cancel()

	resp, err := e.client.Predict(ctx, &mlruntime.PredictRequest{
		ModelID:  modelID,
		Features: content.FeatureMap(features),
		Options: map[string]string{
			"explanation":  "true",
			"confidence":   "true",
			"alternatives": "true",
		},
	})
	if err != nil {
		return 0, err
	}

	w := e.cfg.RuntimeBlendWeight
	return clampRange((1-w)*heuristic+w*clampRange(resp.Prediction, 0, 100), 0, 100), nil
}

// assemble builds the API payload from the pipeline's intermediate
// results.
func (e *Engine) assemble(req *models.PredictionRequest, mp *platform.ModelPrediction, features *content.ContentFeatures, score float64, derived viralMetrics, explanation *models.Explanation) *models.ViralPrediction {
	breakdown := make(map[string]float64, len(mp.Breakdown)+6)
	for k, v := range mp.Breakdown {
		breakdown[k] = v
	}
	derived.fold(breakdown)

	recs := mergeRecommendations(mp.Recommendations, e.explainer.Recommendations(features, maxRecommendations))

	return &models.ViralPrediction{
		PredictionID:         uuid.NewString(),
		Platform:             req.Platform,
		ViralScore:           round2(score),
		Confidence:           mp.Confidence,
		TimeToViralHours:     timeToViral(score, features),
		PeakEngagementRate:   derived.PeakEngagementRate,
		Breakdown:            breakdown,
		Metrics:              mp.Metrics,
		Explanation:          explanation,
		Recommendations:      recs,
		RiskFactors:          deriveRiskFactors(features, req),
		CompetitiveAdvantage: derived.CompetitiveAdvantage,
		GeneratedAt:          e.clock.Now().UTC(),
	}
}

// fallback is the documented degraded prediction: same schema as a
// healthy one, with the fixed score and confidence, a retry suggestion,
// and a risk factor naming the degradation.
func (e *Engine) fallback(p models.Platform, stage string) *models.ViralPrediction {
	return &models.ViralPrediction{
		PredictionID:       uuid.NewString(),
		Platform:           p,
		ViralScore:         fallbackScore,
		Confidence:         fallbackConfidence,
		PeakEngagementRate: 0.02,
		Recommendations: []string{
			"Retry the prediction in a few moments; the scoring pipeline was temporarily unavailable",
		},
		RiskFactors: []string{
			fmt.Sprintf("Prediction service degraded during the %s stage; this is a neutral estimate, not a scored result", stage),
		},
		GeneratedAt: e.clock.Now().UTC(),
		Degraded:    true,
	}
}

// recordPrediction publishes the prediction for async outcome joining.
// Publication failures are logged, never surfaced: recording is an
// observability concern, not part of the request contract.
func (e *Engine) recordPrediction(ctx context.Context, req *models.PredictionRequest, res *pipelineResult) {
	if e.publisher == nil {
		return
	}
	pred := res.pred

	event := events.NewPredictionRecorded(req.Platform.String())
	event.PredictionID = pred.PredictionID
	event.Content = req.Content.Text
	event.Features = content.FeatureMap(res.features)
	event.ViralScore = pred.ViralScore
	event.Confidence = pred.Confidence
	event.PredictedViews = pred.Metrics.Views
	event.PredictedLikes = pred.Metrics.Likes
	event.PredictedShares = pred.Metrics.Shares
	event.PredictedComments = pred.Metrics.Comments
	event.PredictedEngagementRate = pred.Metrics.EngagementRate

	if err := e.publisher.PublishPrediction(ctx, event); err != nil {
		e.logger.Warn().Err(err).Str("prediction_id", pred.PredictionID).Msg("Failed to publish prediction event")
	}
}

// cacheKey fingerprints the request facts that change the score: the
// text, the platform, the merged hashtag set, and the creator's reach.
func (e *Engine) cacheKey(req *models.PredictionRequest) string {
	return cache.GenerateKey(cacheKeyPrefix, struct {
		Text      string   `json:"text"`
		Platform  string   `json:"platform"`
		Hashtags  []string `json:"hashtags"`
		Followers int64    `json:"followers"`
	}{
		Text:      req.Content.Text,
		Platform:  req.Platform.String(),
		Hashtags:  req.Content.AllHashtags(),
		Followers: req.Creator.FollowerCount,
	})
}

// lookupCache returns a copy of the cached prediction, marked Cached.
func (e *Engine) lookupCache(key string) *models.ViralPrediction {
	if e.cache == nil {
		return nil
	}
	v, ok := e.cache.Get(key)
	if !ok {
		metrics.RecordCacheMiss("prediction")
		return nil
	}
	pred, ok := v.(*models.ViralPrediction)
	if !ok {
		metrics.RecordCacheMiss("prediction")
		return nil
	}
	metrics.RecordCacheHit("prediction")

	out := *pred
	out.Cached = true
	return &out
}

func (e *Engine) storeCache(key string, pred *models.ViralPrediction) {
	if e.cache == nil {
		return
	}
	e.cache.Set(key, pred)
}

// ClearCache drops every cached prediction. Exposed for the admin
// surface and for retraining, which invalidates prior scores.
func (e *Engine) ClearCache() {
	if e.cache != nil {
		e.cache.Clear()
	}
}

// withTimeout applies a deadline when one is configured.
func (e *Engine) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// mergeRecommendations combines the model's component advice with the
// explainer's factor-driven advice, deduplicated, capped, model first.
func mergeRecommendations(model, explainer []string) []string {
	seen := make(map[string]struct{}, maxRecommendations)
	out := make([]string, 0, maxRecommendations)
	for _, list := range [][]string{model, explainer} {
		for _, r := range list {
			if len(out) >= maxRecommendations {
				return out
			}
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}
