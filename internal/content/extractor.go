// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/auspex/internal/cache"
	"github.com/tomtom215/auspex/internal/config"
	"github.com/tomtom215/auspex/internal/metrics"
	"github.com/tomtom215/auspex/internal/models"
)

// ErrNilRequest is returned when Extract is called without a request.
var ErrNilRequest = errors.New("content: nil prediction request")

// batchChunkSize bounds extraction fan-out for batch requests.
const batchChunkSize = 10

// Extractor turns a prediction request into a ContentFeatures vector.
// Every heuristic is deterministic: the same request against the same
// trending snapshot produces the same vector. Missing inputs degrade the
// affected feature group to its neutral default instead of failing.
type Extractor struct {
	cfg      config.ExtractorConfig
	logger   zerolog.Logger
	clock    clockwork.Clock
	detector *cache.TextSignalDetector
	cliches  *cache.PatternMatcher
	breaking *cache.PatternMatcher
	trending *trendingTable
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock substitutes the clock, for tests that pin the reference time.
func WithClock(clock clockwork.Clock) Option {
	return func(e *Extractor) {
		e.clock = clock
	}
}

// New builds an Extractor. The trending table starts empty; call
// RefreshTrending (normally via the trend-refresh job) to populate the
// seed snapshots.
func New(cfg config.ExtractorConfig, logger *zerolog.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		cfg:      cfg,
		logger:   logger.With().Str("component", "extractor").Logger(),
		clock:    clockwork.NewRealClock(),
		detector: cache.NewTextSignalDetector(),
		cliches:  newClicheMatcher(),
		breaking: newBreakingMatcher(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.trending = newTrendingTable(cfg.TrendDecayHalfLife, e.clock, e.logger)
	return e
}

// Extract computes the full feature vector for a request. The eleven
// feature groups run concurrently and write disjoint field sets into a
// neutral base vector, so a degraded group leaves its fields at their
// neutral defaults without disturbing the others.
func (e *Extractor) Extract(ctx context.Context, req *models.PredictionRequest) (*ContentFeatures, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := e.clock.Now()

	sub := req.Content
	sub.Text = truncateRunes(sub.Text, e.cfg.MaxTextLength)
	creator := req.Creator
	platform := req.Platform
	ref := e.referenceTime(&sub)

	f := NeutralFeatures()
	text := sub.Text

	g, _ := errgroup.WithContext(ctx)
	g.Go(e.group("text", func() { extractTextStats(f, text) }))
	g.Go(e.group("linguistic", func() { extractLinguistic(f, text) }))
	g.Go(e.group("sentiment", func() { extractSentiment(f, text) }))
	g.Go(e.group("social", func() { extractSocial(f, &sub) }))
	g.Go(e.group("engagement", func() { extractEngagement(f, text, e.detector) }))
	g.Go(e.group("platform_fit", func() { extractPlatformFit(f, &sub, platform) }))
	g.Go(e.group("media", func() { extractMedia(f, &sub, platform) }))
	g.Go(e.group("timing", func() { extractTiming(f, ref, platform) }))
	g.Go(e.group("creator", func() { extractCreator(f, &creator, platform) }))
	g.Go(e.group("quality", func() { extractQuality(f, text, e.cliches) }))
	g.Go(e.group("trending", func() {
		extractTrendingContext(f, &sub, platform, ref, e.trending, e.breaking)
	}))

	// Group funcs never return errors; Wait only joins the fan-out.
	_ = g.Wait()

	metrics.RecordExtraction(e.clock.Since(start))
	return f, nil
}

// ExtractRealTime computes the reduced vector for draft-as-you-type
// feedback: text statistics, linguistic signals, platform fit, and
// timing. Creator, trending, and media groups stay neutral, which keeps
// the path free of locks and table reads.
func (e *Extractor) ExtractRealTime(ctx context.Context, text string, platform models.Platform) (*ContentFeatures, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := e.clock.Now()

	sub := models.ContentSubmission{Text: truncateRunes(text, e.cfg.MaxTextLength)}
	f := NeutralFeatures()

	extractTextStats(f, sub.Text)
	extractLinguistic(f, sub.Text)
	extractEngagement(f, sub.Text, e.detector)
	extractPlatformFit(f, &sub, platform)
	extractTiming(f, e.clock.Now(), platform)

	metrics.RecordExtraction(e.clock.Since(start))
	return f, nil
}

// ExtractBatch extracts feature vectors for a slice of requests,
// preserving order. Requests are processed in chunks; a nil request
// yields a neutral vector in its slot rather than failing the batch.
func (e *Extractor) ExtractBatch(ctx context.Context, reqs []*models.PredictionRequest) ([]*ContentFeatures, error) {
	out := make([]*ContentFeatures, len(reqs))

	for chunkStart := 0; chunkStart < len(reqs); chunkStart += batchChunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := chunkStart + batchChunkSize
		if end > len(reqs) {
			end = len(reqs)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := chunkStart; i < end; i++ {
			g.Go(func() error {
				if reqs[i] == nil {
					out[i] = NeutralFeatures()
					return nil
				}
				f, err := e.Extract(gctx, reqs[i])
				if err != nil {
					return fmt.Errorf("extract item %d: %w", i, err)
				}
				out[i] = f
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ObserveHashtags feeds a recorded outcome's hashtags into the trending
// observation windows. Called by the outcome pipeline.
func (e *Extractor) ObserveHashtags(platform models.Platform, hashtags []string) {
	e.trending.Observe(platform, hashtags)
}

// RefreshTrending recomputes the per-platform trending snapshots. Wired
// as an interval job; also callable directly.
func (e *Extractor) RefreshTrending(ctx context.Context) error {
	return e.trending.Refresh(ctx)
}

// TrendingSnapshot returns the current trending view for a platform.
func (e *Extractor) TrendingSnapshot(platform models.Platform) *TrendingSnapshot {
	return e.trending.Snapshot(platform)
}

// group wraps a feature group so a panicking heuristic degrades that
// group to its neutral defaults instead of taking down the request.
func (e *Extractor) group(name string, fn func()) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				metrics.RecordExtractionError(name)
				e.logger.Error().
					Str("group", name).
					Interface("panic", r).
					Msg("Feature group panicked, using neutral defaults")
			}
		}()
		fn()
		return nil
	}
}

// referenceTime resolves the timing reference: the scheduled posting
// time when given, otherwise now.
func (e *Extractor) referenceTime(sub *models.ContentSubmission) time.Time {
	if sub.ScheduledAt != nil && !sub.ScheduledAt.IsZero() {
		return *sub.ScheduledAt
	}
	return e.clock.Now()
}

// truncateRunes caps text at maxLen runes. Extraction cost is linear in
// text length; the cap bounds it per request.
func truncateRunes(text string, maxLen int) string {
	if maxLen <= 0 || len(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen])
}
