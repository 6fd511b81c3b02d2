// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package training

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tomtom215/auspex/internal/cache"
	"github.com/tomtom215/auspex/internal/metrics"
	"github.com/tomtom215/auspex/internal/models"
)

// Preparation defaults.
const (
	DefaultMinSamples      = 100
	DefaultMinQualityScore = 0.6

	// Dedupe window for outcome recording.
	dedupeCapacity = 4096
	dedupeTTL      = 24 * time.Hour
)

// Preparation sentinel errors.
var (
	// ErrInsufficientData is returned when a platform has fewer labeled
	// points than the requested minimum.
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrLowQuality is returned when the point set scores under the
	// requested quality floor.
	ErrLowQuality = errors.New("training data quality below threshold")

	// ErrMissingFeatures is returned when a point arrives without a
	// feature vector. Featureless points can never join a dataset.
	ErrMissingFeatures = errors.New("data point missing features")
)

// PrepareOptions controls dataset preparation. Zero values take the
// package defaults.
type PrepareOptions struct {
	// MinSamples is the minimum labeled point count.
	MinSamples int

	// MinQualityScore is the minimum quality assessment score.
	MinQualityScore float64

	// Balance down-samples the majority class to the minority count.
	Balance bool

	// Augment appends one jittered copy of every prepared point.
	Augment bool

	// Seed fixes the shuffle and jitter rng. Zero derives a seed from the
	// source dataset ID, so repeated prepares of the same dataset agree.
	Seed int64
}

func (o PrepareOptions) normalized() PrepareOptions {
	if o.MinSamples <= 0 {
		o.MinSamples = DefaultMinSamples
	}
	if o.MinQualityScore <= 0 {
		o.MinQualityScore = DefaultMinQualityScore
	}
	return o
}

// Manager owns the training-data lifecycle: pending points awaiting
// outcomes, deterministic labeling, append-only per-platform datasets,
// quality assessment, and dataset preparation for training runs.
type Manager struct {
	store      Store
	logger     zerolog.Logger
	clock      clockwork.Clock
	thresholds map[models.Platform]LabelThresholds
	dedupe     *cache.LRUCache
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock substitutes the wall clock.
func WithClock(c clockwork.Clock) ManagerOption {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithLabelThresholds overrides the per-platform labeling cutoffs.
func WithLabelThresholds(th map[models.Platform]LabelThresholds) ManagerOption {
	return func(m *Manager) {
		if len(th) > 0 {
			m.thresholds = th
		}
	}
}

// NewManager creates a training-data manager on the given store.
func NewManager(store Store, logger *zerolog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:      store,
		logger:     logger.With().Str("component", "training").Logger(),
		clock:      clockwork.NewRealClock(),
		thresholds: DefaultLabelThresholds(),
		dedupe:     cache.NewLRUCache(dedupeCapacity, dedupeTTL),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddPending stores a prediction awaiting its real-world outcome. The
// point must carry the feature vector it was scored with; outcomes for
// featureless points could never join a dataset.
func (m *Manager) AddPending(ctx context.Context, p *PendingPoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil || p.PredictionID == "" {
		return errors.New("pending point missing prediction ID")
	}
	if len(p.Features) == 0 {
		return ErrMissingFeatures
	}

	stored := *p
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = m.clock.Now().UTC()
	}
	return m.store.SavePending(ctx, &stored)
}

// RecordOutcome resolves a pending prediction with its actual metrics:
// the point is labeled, appended to the platform's most recent dataset
// (created on first use), and removed from the pending store. A repeat
// call for the same prediction returns ErrDataPointNotFound.
func (m *Manager) RecordOutcome(ctx context.Context, predictionID string, actual *models.ActualMetrics) (*ViralDataPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if actual == nil {
		return nil, errors.New("record outcome: nil metrics")
	}
	if m.dedupe.Contains(predictionID) {
		return nil, fmt.Errorf("%w: outcome already recorded for %s", ErrDataPointNotFound, predictionID)
	}

	pending, err := m.store.GetPending(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	if len(pending.Features) == 0 {
		return nil, ErrMissingFeatures
	}

	now := m.clock.Now().UTC()
	ts := actual.CollectedAt.UTC()
	if actual.CollectedAt.IsZero() {
		ts = now
	}

	point := &ViralDataPoint{
		ID:        uuid.NewString(),
		Content:   pending.Content,
		Platform:  pending.Platform,
		Features:  copyFloatMap(pending.Features),
		Actual:    *actual,
		Predicted: pending.Predicted,
		Timestamp: ts,
		Labels:    LabelOutcome(actual, m.thresholdsFor(pending.Platform)),
		Metadata:  map[string]string{"prediction_id": predictionID},
	}

	ds, err := m.store.LatestDataset(ctx, pending.Platform)
	switch {
	case errors.Is(err, ErrDatasetNotFound):
		ds = &TrainingDataset{
			ID:        uuid.NewString(),
			Platform:  pending.Platform,
			CreatedAt: now,
		}
	case err != nil:
		return nil, err
	}

	ds.DataPoints = append(ds.DataPoints, point)
	ds.Statistics = computeStatistics(ds.DataPoints)
	ds.UpdatedAt = now
	if err := m.store.SaveDataset(ctx, ds); err != nil {
		return nil, fmt.Errorf("append data point: %w", err)
	}

	if err := m.store.DeletePending(ctx, predictionID); err != nil {
		m.logger.Warn().Err(err).Str("prediction_id", predictionID).
			Msg("Failed to delete resolved pending point")
	}
	m.dedupe.Add(predictionID, now)
	metrics.UpdateDatasetGauges(string(pending.Platform), ds.Statistics.TotalPoints, metrics.QualityUnchanged)

	m.logger.Info().
		Str("prediction_id", predictionID).
		Str("platform", string(pending.Platform)).
		Bool("is_viral", point.Labels.IsViral).
		Str("tier", string(point.Labels.EngagementTier)).
		Float64("composite", point.Labels.ViralScore).
		Int("dataset_size", ds.Statistics.TotalPoints).
		Msg("Outcome recorded")
	return point, nil
}

// RemovePending drops a pending point without recording an outcome. The
// engine calls this when evicting over-limit or expired predictions.
func (m *Manager) RemovePending(ctx context.Context, predictionID string) error {
	return m.store.DeletePending(ctx, predictionID)
}

// PendingCount reports how many predictions await outcomes.
func (m *Manager) PendingCount(ctx context.Context) (int, error) {
	return m.store.PendingCount(ctx)
}

// ListPending returns all pending points, oldest first.
func (m *Manager) ListPending(ctx context.Context) ([]*PendingPoint, error) {
	return m.store.ListPending(ctx)
}

// LabeledSince counts the platform's labeled points newer than the given
// time. The retraining job gates on it.
func (m *Manager) LabeledSince(ctx context.Context, platform models.Platform, since time.Time) (int, error) {
	ds, err := m.store.LatestDataset(ctx, platform)
	if errors.Is(err, ErrDatasetNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count := 0
	for _, p := range ds.DataPoints {
		if p.Timestamp.After(since) {
			count++
		}
	}
	return count, nil
}

// LatestDataset returns the platform's most recent dataset.
func (m *Manager) LatestDataset(ctx context.Context, platform models.Platform) (*TrainingDataset, error) {
	return m.store.LatestDataset(ctx, platform)
}

// DatasetQuality assesses the platform's most recent dataset.
func (m *Manager) DatasetQuality(ctx context.Context, platform models.Platform) (*QualityReport, error) {
	ds, err := m.store.LatestDataset(ctx, platform)
	if err != nil {
		return nil, err
	}
	return AssessQuality(ds.DataPoints), nil
}

// ModelState reads the persisted per-platform model state.
func (m *Manager) ModelState(ctx context.Context, platform models.Platform) (*ModelStateRecord, error) {
	return m.store.GetModelState(ctx, platform)
}

// SaveModelState persists per-platform model state.
func (m *Manager) SaveModelState(ctx context.Context, rec *ModelStateRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = m.clock.Now().UTC()
	}
	return m.store.SaveModelState(ctx, rec)
}

// PrepareDataset builds a training-ready snapshot of the platform's most
// recent dataset: featureless points filtered out, quality gated,
// optionally class-balanced and augmented, split 70/15/15. The stored
// dataset is never mutated; preparation returns a new dataset object.
func (m *Manager) PrepareDataset(ctx context.Context, platform models.Platform, opts PrepareOptions) (*TrainingDataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = opts.normalized()

	src, err := m.store.LatestDataset(ctx, platform)
	if errors.Is(err, ErrDatasetNotFound) {
		return nil, fmt.Errorf("%w: no labeled points for %s", ErrInsufficientData, platform)
	}
	if err != nil {
		return nil, err
	}

	points := filterTrainable(src.DataPoints)
	if len(points) < opts.MinSamples {
		return nil, fmt.Errorf("%w: have %d labeled points for %s, need %d",
			ErrInsufficientData, len(points), platform, opts.MinSamples)
	}

	report := AssessQuality(points)
	if report.Score < opts.MinQualityScore {
		return nil, fmt.Errorf("%w: score %.3f under %.3f (%s)",
			ErrLowQuality, report.Score, opts.MinQualityScore, strings.Join(report.Issues, "; "))
	}

	if opts.Balance {
		points = balanceClasses(points)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = seedFromID(src.ID)
	}
	if opts.Augment {
		points = append(points, Augment(points, 1, seed)...)
	}

	now := m.clock.Now().UTC()
	prepared := &TrainingDataset{
		ID:                  uuid.NewString(),
		Platform:            platform,
		DataPoints:          points,
		Splits:              splitPoints(points, seed),
		FeatureCorrelations: featureCorrelations(points),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	prepared.FeatureImportance = featureImportance(prepared.FeatureCorrelations)
	prepared.Statistics = computeStatistics(points)
	prepared.Statistics.QualityScore = report.Score
	metrics.UpdateDatasetGauges(string(platform), len(points), report.Score)

	m.logger.Info().
		Str("platform", string(platform)).
		Str("dataset_id", prepared.ID).
		Int("points", len(points)).
		Float64("quality", report.Score).
		Bool("balanced", opts.Balance).
		Bool("augmented", opts.Augment).
		Msg("Training dataset prepared")
	return prepared, nil
}

func (m *Manager) thresholdsFor(platform models.Platform) LabelThresholds {
	if th, ok := m.thresholds[platform]; ok {
		return th
	}
	return fallbackThresholds()
}

// filterTrainable keeps labeled points that carry features.
func filterTrainable(points []*ViralDataPoint) []*ViralDataPoint {
	out := make([]*ViralDataPoint, 0, len(points))
	for _, p := range points {
		if len(p.Features) == 0 || p.Labels.EngagementTier == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// balanceClasses down-samples the majority class (viral vs non-viral) to
// the minority count. Points keep their stored order, so the same input
// always balances the same way. A single-class set is returned unchanged.
func balanceClasses(points []*ViralDataPoint) []*ViralDataPoint {
	var viral, rest []*ViralDataPoint
	for _, p := range points {
		if p.Labels.IsViral {
			viral = append(viral, p)
		} else {
			rest = append(rest, p)
		}
	}
	if len(viral) == 0 || len(rest) == 0 {
		return points
	}

	n := min(len(viral), len(rest))
	out := make([]*ViralDataPoint, 0, 2*n)
	out = append(out, viral[:n]...)
	out = append(out, rest[:n]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// splitPoints partitions point IDs 70/15/15 after a seeded shuffle. The
// split is exact: every ID lands in exactly one slice.
func splitPoints(points []*ViralDataPoint, seed int64) DatasetSplits {
	ids := make([]string, len(points))
	for i, p := range points {
		ids[i] = p.ID
	}

	//nolint:gosec // G404: math/rand is acceptable for dataset shuffling (not security)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	nTrain := len(ids) * 70 / 100
	nVal := len(ids) * 15 / 100
	return DatasetSplits{
		Train:      ids[:nTrain],
		Validation: ids[nTrain : nTrain+nVal],
		Test:       ids[nTrain+nVal:],
	}
}

// seedFromID hashes a dataset ID into a shuffle seed.
func seedFromID(id string) int64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return int64(h.Sum64())
}

// featureCorrelations computes the Pearson correlation of each feature
// against the composite label score. Features with zero variance report
// zero correlation.
func featureCorrelations(points []*ViralDataPoint) map[string]float64 {
	if len(points) < 2 {
		return nil
	}

	keys := make(map[string]bool)
	for _, p := range points {
		for k := range p.Features {
			keys[k] = true
		}
	}

	n := float64(len(points))
	out := make(map[string]float64, len(keys))
	for k := range keys {
		var sumX, sumY float64
		for _, p := range points {
			sumX += p.Features[k]
			sumY += p.Labels.ViralScore
		}
		meanX, meanY := sumX/n, sumY/n

		var cov, varX, varY float64
		for _, p := range points {
			dx := p.Features[k] - meanX
			dy := p.Labels.ViralScore - meanY
			cov += dx * dy
			varX += dx * dx
			varY += dy * dy
		}
		if varX == 0 || varY == 0 {
			out[k] = 0
			continue
		}
		out[k] = cov / math.Sqrt(varX*varY)
	}
	return out
}

// featureImportance normalizes correlation magnitudes so the strongest
// feature reports 1.0.
func featureImportance(correlations map[string]float64) map[string]float64 {
	if len(correlations) == 0 {
		return nil
	}

	var maxAbs float64
	for _, c := range correlations {
		if a := math.Abs(c); a > maxAbs {
			maxAbs = a
		}
	}
	out := make(map[string]float64, len(correlations))
	for k, c := range correlations {
		if maxAbs == 0 {
			out[k] = 0
			continue
		}
		out[k] = math.Abs(c) / maxAbs
	}
	return out
}
