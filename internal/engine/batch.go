// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package engine

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/auspex/internal/metrics"
	"github.com/tomtom215/auspex/internal/models"
	"github.com/tomtom215/auspex/internal/platform"
)

// PredictBatch evaluates requests independently in chunks. Output order
// and count match the input exactly; an item whose pipeline failed (or
// whose platform is unsupported, or that is nil) carries the fallback
// prediction rather than cancelling its siblings. The only returned
// error is context cancellation.
func (e *Engine) PredictBatch(ctx context.Context, reqs []*models.PredictionRequest) ([]*models.ViralPrediction, error) {
	out := make([]*models.ViralPrediction, len(reqs))
	chunk := e.cfg.BatchChunkSize
	if chunk <= 0 {
		chunk = 10
	}
	metrics.BatchPredictionSize.Observe(float64(len(reqs)))

	for chunkStart := 0; chunkStart < len(reqs); chunkStart += chunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := chunkStart + chunk
		if end > len(reqs) {
			end = len(reqs)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := chunkStart; i < end; i++ {
			g.Go(func() error {
				out[i] = e.predictItem(gctx, reqs[i])
				return nil
			})
		}
		// Item funcs never return errors; Wait only joins the fan-out.
		_ = g.Wait()
	}
	return out, nil
}

// predictItem isolates one batch item: the errors Predict surfaces for
// single requests degrade to the fallback here, preserving count parity.
func (e *Engine) predictItem(ctx context.Context, req *models.PredictionRequest) *models.ViralPrediction {
	if req == nil {
		return e.fallback("", "validating")
	}
	pred, err := e.Predict(ctx, req)
	if err != nil {
		e.logger.Warn().Err(err).Str("platform", req.Platform.String()).Msg("Batch item degraded")
		metrics.RecordFallback(req.Platform.String(), "validating")
		return e.fallback(req.Platform, "validating")
	}
	return pred
}

// ComparePlatforms scores the same content for every requested platform
// and ranks the results. It is a pure composition over PredictBatch: no
// scoring logic of its own, only ranking. An empty platform list means
// every registered platform. Unsupported platforms in an explicit list
// surface ErrUnsupportedPlatform.
func (e *Engine) ComparePlatforms(ctx context.Context, sub models.ContentSubmission, creator models.CreatorProfile, platforms []models.Platform) (*models.PlatformComparison, error) {
	if len(platforms) == 0 {
		platforms = e.registry.Platforms()
	}
	for _, p := range platforms {
		if _, err := e.registry.Model(p); err != nil {
			return nil, err
		}
	}

	reqs := make([]*models.PredictionRequest, len(platforms))
	for i, p := range platforms {
		reqs[i] = &models.PredictionRequest{Content: sub, Platform: p, Creator: creator}
	}

	preds, err := e.PredictBatch(ctx, reqs)
	if err != nil {
		return nil, err
	}

	ranked := rankPlatforms(platforms, preds)
	cmp := &models.PlatformComparison{
		Primary:     ranked[0],
		Predictions: make(map[models.Platform]*models.ViralPrediction, len(platforms)),
		ComparedAt:  e.clock.Now().UTC(),
	}
	if len(ranked) > 1 {
		limit := 3
		if len(ranked) < limit {
			limit = len(ranked)
		}
		cmp.Secondary = ranked[1:limit]
	}
	for i, p := range platforms {
		cmp.Predictions[p] = preds[i]
	}
	return cmp, nil
}

// OptimalStrategy builds a cross-platform plan: the comparison ranking,
// posting windows from the per-platform schedule models, and content
// modifications lifted from the weaker predictions' recommendations. It
// adds no scoring of its own.
func (e *Engine) OptimalStrategy(ctx context.Context, sub models.ContentSubmission, creator models.CreatorProfile, platforms []models.Platform) (*models.ContentStrategy, error) {
	cmp, err := e.ComparePlatforms(ctx, sub, creator, platforms)
	if err != nil {
		return nil, err
	}

	strategy := &models.ContentStrategy{
		Comparison:  *cmp,
		GeneratedAt: e.clock.Now().UTC(),
	}

	ordered := append([]models.Platform{cmp.Primary}, cmp.Secondary...)
	for _, p := range ordered {
		windows, err := e.platformWindows(ctx, sub, creator, p)
		if err != nil {
			e.logger.Warn().Err(err).Str("platform", p.String()).Msg("Schedule prediction skipped")
			continue
		}
		strategy.PostingWindows = append(strategy.PostingWindows, windows...)
	}

	strategy.Modifications = collectModifications(cmp, ordered)
	return strategy, nil
}

// platformWindows asks the platform model for its best posting hours
// and keeps the top two as strategy windows.
func (e *Engine) platformWindows(ctx context.Context, sub models.ContentSubmission, creator models.CreatorProfile, p models.Platform) ([]models.PostingWindow, error) {
	model, err := e.registry.Model(p)
	if err != nil {
		return nil, err
	}

	req := &models.PredictionRequest{Content: sub, Platform: p, Creator: creator}
	features, err := e.extractor.Extract(ctx, req)
	if err != nil {
		return nil, err
	}

	sched, err := model.PredictOptimalSchedule(ctx, features, platform.MetaFromRequest(req))
	if err != nil {
		return nil, err
	}

	n := len(sched.BestWindows)
	if n > 2 {
		n = 2
	}
	out := make([]models.PostingWindow, 0, n)
	for _, w := range sched.BestWindows[:n] {
		out = append(out, models.PostingWindow{
			Platform:  p,
			StartHour: w.Hour,
			EndHour:   (w.Hour + 1) % 24,
			Score:     w.Score,
		})
	}
	return out, nil
}

// rankPlatforms orders platforms by viral score descending, with a
// stable tie-break on the platform identifier so equal scores rank
// deterministically.
func rankPlatforms(platforms []models.Platform, preds []*models.ViralPrediction) []models.Platform {
	idx := make([]int, len(platforms))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		sa, sb := preds[idx[a]].ViralScore, preds[idx[b]].ViralScore
		if sa != sb {
			return sa > sb
		}
		return platforms[idx[a]] < platforms[idx[b]]
	})

	out := make([]models.Platform, len(platforms))
	for i, j := range idx {
		out[i] = platforms[j]
	}
	return out
}

// collectModifications gathers recommendations from the non-primary
// predictions: advice for the platforms where the content underperforms
// is exactly what to change before cross-posting there.
func collectModifications(cmp *models.PlatformComparison, ordered []models.Platform) []string {
	seen := make(map[string]struct{}, 8)
	var out []string
	for _, p := range ordered[1:] {
		pred, ok := cmp.Predictions[p]
		if !ok {
			continue
		}
		for _, r := range pred.Recommendations {
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
			if len(out) >= maxRecommendations {
				return out
			}
		}
	}
	return out
}
