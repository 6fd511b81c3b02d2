// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package platform

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tomtom215/auspex/internal/content"
	"github.com/tomtom215/auspex/internal/models"
)

// minAudienceReach is the floor applied to follower counts when forecasting
// views. Content from tiny accounts still reaches feeds and search.
const minAudienceReach = 500

// contextMultiplierCap bounds the combined trending/breaking/influencer
// boost applied on top of the weighted component score.
const contextMultiplierCap = 2.0

// Model scores extracted features for one platform. Implementations are
// safe for concurrent use: scoring reads only immutable configuration,
// and the mutable training state is guarded separately.
type Model interface {
	// Platform returns the platform this model scores for.
	Platform() models.Platform
	// Config returns the immutable scoring configuration.
	Config() *ModelConfig
	// Predict scores a feature vector. The only errors are context errors;
	// scoring itself cannot fail.
	Predict(ctx context.Context, features *content.ContentFeatures, meta ContentMeta) (*ModelPrediction, error)
	// AnalyzeHashtagStrategy audits the submitted tags against the
	// platform's trending table and ideal count band.
	AnalyzeHashtagStrategy(ctx context.Context, features *content.ContentFeatures, hashtags []string) (*models.HashtagStrategy, error)
	// PredictOptimalSchedule scores candidate posting hours against the
	// platform's audience peaks.
	PredictOptimalSchedule(ctx context.Context, features *content.ContentFeatures, meta ContentMeta) (*models.SchedulePrediction, error)
	// State returns a copy of the mutable training state.
	State() ModelState
	// RestoreState rehydrates persisted training state at startup.
	RestoreState(state ModelState)
	// MarkTrained records a completed training run.
	MarkTrained(accuracy float64)
	// SetAccuracy updates the measured accuracy without bumping the version.
	SetAccuracy(accuracy float64)
}

// TrendSource exposes the extractor's trending table to the models. A nil
// source degrades hashtag analysis to shape-based heuristics.
type TrendSource interface {
	TrendingSnapshot(platform models.Platform) *content.TrendingSnapshot
}

// ModelPrediction is the platform model's raw output, before the engine
// blends in the Model Runtime score and assembles the API payload.
type ModelPrediction struct {
	// ViralScore is the banded score in [0, 100].
	ViralScore float64
	// Confidence in [0, 1], derived from input completeness only.
	Confidence float64
	// Metrics is the deterministic engagement forecast.
	Metrics models.PredictedMetrics
	// Breakdown maps component names and applied multipliers to values.
	Breakdown map[string]float64
	// Recommendations address the weakest components, worst first.
	Recommendations []string
}

// ContentMeta carries the request facts that drive confidence and metric
// forecasting but are not part of the feature vector.
type ContentMeta struct {
	ContentType          models.ContentType
	FollowerCount        int64
	HasCreatorStats      bool
	HasEngagementHistory bool
	HasMedia             bool
	HasHashtags          bool
	HasSchedule          bool
}

// MetaFromRequest derives the scoring metadata from a prediction request.
func MetaFromRequest(req *models.PredictionRequest) ContentMeta {
	if req == nil {
		return ContentMeta{ContentType: models.ContentTypeText}
	}
	sub := req.Content
	return ContentMeta{
		ContentType:          sub.EffectiveContentType(),
		FollowerCount:        req.Creator.FollowerCount,
		HasCreatorStats:      req.Creator.HasStats(),
		HasEngagementHistory: req.Creator.AvgEngagementRate > 0,
		HasMedia:             sub.MediaCount > 0,
		HasHashtags:          len(sub.AllHashtags()) > 0,
		HasSchedule:          sub.ScheduledAt != nil && !sub.ScheduledAt.IsZero(),
	}
}

// BaseModel provides the scoring pipeline shared by all platform models.
// Concrete models supply the component tweaks; BaseModel owns threshold
// normalization, confidence, metric forecasting, hashtag and schedule
// analysis, and the mutable training state.
type BaseModel struct {
	platform models.Platform
	cfg      *ModelConfig
	trends   TrendSource
	logger   zerolog.Logger
	clock    clockwork.Clock

	mu          sync.RWMutex
	accuracy    float64
	version     int
	lastTrained time.Time
}

func newBaseModel(p models.Platform, cfg *ModelConfig, trends TrendSource, logger *zerolog.Logger) BaseModel {
	return BaseModel{
		platform: p,
		cfg:      cfg,
		trends:   trends,
		logger:   logger.With().Str("component", "platform-model").Str("platform", p.String()).Logger(),
		clock:    clockwork.NewRealClock(),
	}
}

// setClock swaps the training-timestamp clock. Applied by the registry's
// WithClock option before the model is handed out.
func (b *BaseModel) setClock(clock clockwork.Clock) {
	b.clock = clock
}

// Platform returns the platform this model scores for.
func (b *BaseModel) Platform() models.Platform {
	return b.platform
}

// Config returns the immutable scoring configuration.
func (b *BaseModel) Config() *ModelConfig {
	return b.cfg
}

// State returns a copy of the mutable training state.
func (b *BaseModel) State() ModelState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ModelState{
		Accuracy:    b.accuracy,
		Version:     b.version,
		LastTrained: b.lastTrained,
	}
}

// MarkTrained records a completed training run: new accuracy, bumped
// version, fresh timestamp.
func (b *BaseModel) MarkTrained(accuracy float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accuracy = clamp01(accuracy)
	b.version++
	b.lastTrained = b.clock.Now()
}

// RestoreState rehydrates persisted training state at startup. All three
// fields are overwritten, so the retrain gate and the model-info surface
// pick up exactly where the previous process left off.
func (b *BaseModel) RestoreState(s ModelState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accuracy = clamp01(s.Accuracy)
	b.version = s.Version
	b.lastTrained = s.LastTrained
}

// SetAccuracy updates the measured accuracy without bumping the version.
// Used by the evaluation path, which measures but does not retrain.
func (b *BaseModel) SetAccuracy(accuracy float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accuracy = clamp01(accuracy)
}

// compose runs the shared tail of the scoring pipeline: weighted combine,
// content-type and context multipliers, threshold banding, confidence,
// and the engagement forecast.
func (b *BaseModel) compose(f *content.ContentFeatures, meta ContentMeta, cs componentSet) *ModelPrediction {
	raw := cs.weighted(b.cfg.Weights)

	typeMult := b.cfg.typeMultiplier(meta.ContentType)
	ctxMult := contextMultiplier(f)
	raw = clamp100(raw * typeMult * ctxMult)

	score := b.cfg.normalizeScore(raw)

	breakdown := cs.breakdown()
	breakdown["raw_score"] = round2(raw)
	breakdown["content_type_multiplier"] = typeMult
	breakdown["context_multiplier"] = round2(ctxMult)

	return &ModelPrediction{
		ViralScore:      round2(score),
		Confidence:      confidence(meta),
		Metrics:         b.cfg.predictMetrics(score, meta.FollowerCount),
		Breakdown:       breakdown,
		Recommendations: cs.recommendations(),
	}
}

// contextMultiplier boosts content riding a trend, breaking news, or
// influencer mentions. Neutral features yield exactly 1.0.
func contextMultiplier(f *content.ContentFeatures) float64 {
	m := 1.0
	m += 0.30 * f.TrendingRelevance
	if f.BreakingNewsFlag {
		m += 0.25
	}
	m += 0.20 * f.MentionInfluence
	m += 0.15 * f.TrendMomentum
	if m > contextMultiplierCap {
		m = contextMultiplierCap
	}
	return m
}

// confidence reflects input completeness only. It is never derived from
// the score: a confidently predicted flop stays confident.
func confidence(meta ContentMeta) float64 {
	c := 0.5
	if meta.HasCreatorStats {
		c += 0.15
	}
	if meta.HasEngagementHistory {
		c += 0.10
	}
	if meta.HasMedia {
		c += 0.10
	}
	if meta.HasHashtags {
		c += 0.05
	}
	if meta.HasSchedule {
		c += 0.05
	}
	if c > 0.95 {
		c = 0.95
	}
	return c
}

// predictMetrics forecasts engagement as a deterministic function of the
// banded score, the creator's reach, and the platform's engagement cap.
//
//	views = reach x (0.05 + (score/100)^2.5 x 5)
//	rate  = cap x (0.15 + 0.85 x (score/100)^1.5)
//
// The superlinear exponents reflect how distribution compounds: a score
// of 90 earns far more than twice the reach of a score of 45.
func (c *ModelConfig) predictMetrics(score float64, followers int64) models.PredictedMetrics {
	reach := float64(followers)
	if reach < minAudienceReach {
		reach = minAudienceReach
	}
	s := clampRange(score, 0, 100) / 100

	views := reach * (0.05 + math.Pow(s, 2.5)*5)
	rate := c.EngagementCap * (0.15 + 0.85*math.Pow(s, 1.5))
	interactions := views * rate

	return models.PredictedMetrics{
		Views:          int64(math.Round(views)),
		Likes:          int64(math.Round(interactions * 0.70)),
		Comments:       int64(math.Round(interactions * 0.12)),
		Shares:         int64(math.Round(interactions * 0.18)),
		EngagementRate: rate,
	}
}

// round2 rounds to two decimals for stable JSON payloads.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
