// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/auspex/internal/content"
	"github.com/tomtom215/auspex/internal/events"
	"github.com/tomtom215/auspex/internal/metrics"
	"github.com/tomtom215/auspex/internal/mlruntime"
	"github.com/tomtom215/auspex/internal/models"
	"github.com/tomtom215/auspex/internal/platform"
	"github.com/tomtom215/auspex/internal/training"
)

// trainingPollInterval is how often a submitted training job is polled.
const trainingPollInterval = 5 * time.Second

// ErrMaintenanceRunning is returned when a retrain or evaluation sweep
// is requested while the previous one is still in flight. Runs are
// skipped, never queued: both mutate per-platform model state.
var ErrMaintenanceRunning = errors.New("engine: maintenance task already running")

// RecordOutcome resolves a prediction with its observed metrics: the
// training manager labels the outcome and appends it to the platform's
// dataset, then the labeled result fans out on the bus so the trending
// table observes real engagement. An unknown or already-resolved
// prediction surfaces training.ErrDataPointNotFound.
func (e *Engine) RecordOutcome(ctx context.Context, predictionID string, actual *models.ActualMetrics) (*training.ViralDataPoint, error) {
	point, err := e.training.RecordOutcome(ctx, predictionID, actual)
	if err != nil {
		return nil, err
	}
	metrics.OutcomesRecorded.WithLabelValues(point.Platform.String()).Inc()

	if e.publisher != nil {
		event := events.NewOutcomeRecorded(point.Platform.String())
		event.PredictionID = predictionID
		event.IsViral = point.Labels.IsViral
		event.ViralScore = point.Labels.ViralScore
		event.Tier = string(point.Labels.EngagementTier)
		event.Views = actual.Views
		event.Likes = actual.Likes
		event.Hashtags = (&models.ContentSubmission{Text: point.Content}).AllHashtags()
		if err := e.publisher.PublishOutcome(ctx, event); err != nil {
			e.logger.Warn().Err(err).Str("prediction_id", predictionID).Msg("Failed to publish outcome event")
		}
	}
	return point, nil
}

// EvaluateModel measures a platform model's accuracy against observed
// outcomes and updates its state. With the Model Runtime enabled the
// runtime's own metrics are authoritative; otherwise accuracy comes
// from comparing stored forecasts against recorded actuals.
func (e *Engine) EvaluateModel(ctx context.Context, p models.Platform) (*models.ModelPerformance, error) {
	model, err := e.registry.Model(p)
	if err != nil {
		return nil, err
	}

	var accuracy float64
	var samples int

	if e.runtime.Enabled {
		modelID, err := e.ensureModel(ctx, p)
		if err != nil {
			return nil, err
		}
		callCtx, cancel := e.withTimeout(ctx, e.runtime.Timeout)
		mm, err := e.client.GetModelMetrics(callCtx, modelID)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("runtime metrics for %s: %w", p, err)
		}
		accuracy, samples = mm.Accuracy, mm.SampleCount
	} else {
		accuracy, samples, err = e.forecastAccuracy(ctx, p)
		if err != nil {
			return nil, err
		}
		if samples == 0 {
			// Nothing observed yet; keep the prior measurement.
			accuracy = model.State().Accuracy
		}
	}

	model.SetAccuracy(accuracy)
	metrics.ModelAccuracy.WithLabelValues(p.String()).Set(accuracy)
	e.persistModelState(ctx, p, model.State())

	return &models.ModelPerformance{
		Platform:    p,
		Accuracy:    round3(accuracy),
		SampleCount: samples,
		EvaluatedAt: e.clock.Now().UTC(),
	}, nil
}

// EvaluateAll re-evaluates every registered platform model. Wired as
// the weekly evaluation job. Per-platform failures are logged and do
// not stop the sweep; a sweep already in flight is skipped.
func (e *Engine) EvaluateAll(ctx context.Context) error {
	if !e.evalMu.TryLock() {
		e.logger.Warn().Msg("Evaluation sweep already running, skipping")
		return ErrMaintenanceRunning
	}
	defer e.evalMu.Unlock()

	for _, p := range e.registry.Platforms() {
		perf, err := e.EvaluateModel(ctx, p)
		if err != nil {
			e.logger.Error().Err(err).Str("platform", p.String()).Msg("Model evaluation failed")
			continue
		}
		e.logger.Info().
			Str("platform", p.String()).
			Float64("accuracy", perf.Accuracy).
			Int("samples", perf.SampleCount).
			Msg("Model evaluated")
	}
	return nil
}

// RetrainPlatform retrains one platform model when enough fresh labeled
// data has accumulated since its last training run. Returns nil when
// the gate is not met; training is routine maintenance, not an error.
func (e *Engine) RetrainPlatform(ctx context.Context, p models.Platform) error {
	model, err := e.registry.Model(p)
	if err != nil {
		return err
	}

	state := model.State()
	fresh, err := e.training.LabeledSince(ctx, p, state.LastTrained)
	if err != nil {
		return fmt.Errorf("counting fresh points for %s: %w", p, err)
	}
	minPoints := e.jobs.MinNewPoints
	if minPoints <= 0 {
		minPoints = 100
	}
	if fresh < minPoints {
		e.logger.Debug().
			Str("platform", p.String()).
			Int("fresh_points", fresh).
			Int("required", minPoints).
			Msg("Retrain gate not met")
		return nil
	}

	start := e.clock.Now()
	dataset, err := e.training.PrepareDataset(ctx, p, training.PrepareOptions{
		MinSamples: minPoints,
		Balance:    true,
	})
	if err != nil {
		metrics.RecordTrainingRun(p.String(), "failure", e.clock.Since(start))
		return fmt.Errorf("preparing dataset for %s: %w", p, err)
	}

	accuracy := dataset.Statistics.QualityScore
	if e.runtime.Enabled {
		accuracy, err = e.runTraining(ctx, p, dataset)
		if err != nil {
			metrics.RecordTrainingRun(p.String(), "failure", e.clock.Since(start))
			return fmt.Errorf("training %s: %w", p, err)
		}
	} else {
		// Heuristic-only mode has nothing to fit; record the measured
		// forecast accuracy as the training result instead.
		if acc, samples, aerr := e.forecastAccuracy(ctx, p); aerr == nil && samples > 0 {
			accuracy = acc
		}
	}

	model.MarkTrained(accuracy)
	e.persistModelState(ctx, p, model.State())
	// Scores produced by the previous model version are now stale.
	e.ClearCache()

	metrics.RecordTrainingRun(p.String(), "success", e.clock.Since(start))
	metrics.ModelAccuracy.WithLabelValues(p.String()).Set(accuracy)
	e.logger.Info().
		Str("platform", p.String()).
		Int("points", len(dataset.DataPoints)).
		Float64("accuracy", accuracy).
		Msg("Model retrained")
	return nil
}

// RetrainAll runs the retrain gate for every platform. Wired as the
// daily retrain job; per-platform failures are logged and do not stop
// the sweep. A sweep already in flight is skipped.
func (e *Engine) RetrainAll(ctx context.Context) error {
	if !e.retrainMu.TryLock() {
		e.logger.Warn().Msg("Retrain sweep already running, skipping")
		return ErrMaintenanceRunning
	}
	defer e.retrainMu.Unlock()

	for _, p := range e.registry.Platforms() {
		if err := e.RetrainPlatform(ctx, p); err != nil {
			e.logger.Error().Err(err).Str("platform", p.String()).Msg("Retrain failed")
		}
	}
	return e.PrunePending(ctx)
}

// PrunePending evicts the oldest pending predictions once the retained
// set exceeds the configured limit. Predictions whose outcomes never
// arrive would otherwise accumulate without bound.
func (e *Engine) PrunePending(ctx context.Context) error {
	limit := e.cfg.PendingLimit
	if limit <= 0 {
		return nil
	}
	count, err := e.training.PendingCount(ctx)
	if err != nil || count <= limit {
		return err
	}

	pending, err := e.training.ListPending(ctx)
	if err != nil {
		return err
	}
	for _, p := range pending[:count-limit] {
		if err := e.training.RemovePending(ctx, p.PredictionID); err != nil {
			e.logger.Warn().Err(err).Str("prediction_id", p.PredictionID).Msg("Failed to evict pending point")
		}
	}
	e.logger.Info().Int("evicted", count-limit).Msg("Pending predictions pruned")
	return nil
}

// runTraining submits the prepared dataset to the Model Runtime and
// polls the job to completion within the training timeout. Returns the
// trained model's accuracy.
func (e *Engine) runTraining(ctx context.Context, p models.Platform, dataset *training.TrainingDataset) (float64, error) {
	modelID, err := e.ensureModel(ctx, p)
	if err != nil {
		return 0, err
	}

	points := make([]mlruntime.TrainingPoint, 0, len(dataset.DataPoints))
	for _, dp := range dataset.DataPoints {
		points = append(points, mlruntime.TrainingPoint{
			Features:   dp.Features,
			ViralScore: dp.Labels.ViralScore,
			IsViral:    dp.Labels.IsViral,
			Tier:       string(dp.Labels.EngagementTier),
		})
	}

	submitCtx, cancel := e.withTimeout(ctx, e.runtime.TrainTimeout)
	jobID, err := e.client.TrainModel(submitCtx, &mlruntime.TrainRequest{
		ModelID:   modelID,
		DatasetID: dataset.ID,
		Points:    points,
		Config:    mlruntime.TrainingConfig{ValidationSplit: 0.15},
	})
	cancel()
	if err != nil {
		return 0, err
	}

	job, err := e.pollTraining(ctx, jobID)
	if err != nil {
		return 0, err
	}
	if job.Status == mlruntime.JobFailed {
		return 0, fmt.Errorf("%w: training job %s: %s", mlruntime.ErrRuntimeError, jobID, job.Error)
	}
	return clamp01(job.Metrics["accuracy"]), nil
}

// pollTraining polls a training job until it reaches a terminal state
// or the training timeout budget runs out.
func (e *Engine) pollTraining(ctx context.Context, jobID string) (*mlruntime.TrainingJob, error) {
	budget := e.runtime.TrainTimeout
	if budget <= 0 {
		budget = time.Minute
	}
	deadline := e.clock.Now().Add(budget)

	for {
		callCtx, cancel := e.withTimeout(ctx, e.runtime.Timeout)
		job, err := e.client.GetTrainingJob(callCtx, jobID)
		cancel()
		if err != nil {
			return nil, err
		}
		if job.Status.Terminal() {
			return job, nil
		}
		if !e.clock.Now().Add(trainingPollInterval).Before(deadline) {
			return nil, fmt.Errorf("%w: training job %s still %s after %s",
				mlruntime.ErrRuntimeTimeout, jobID, job.Status, budget)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-e.clock.After(trainingPollInterval):
		}
	}
}

// ensureModel returns the runtime-side model ID for a platform,
// registering the model on first use.
func (e *Engine) ensureModel(ctx context.Context, p models.Platform) (string, error) {
	e.modelMu.Lock()
	defer e.modelMu.Unlock()

	if id, ok := e.modelIDs[p]; ok {
		return id, nil
	}

	callCtx, cancel := e.withTimeout(ctx, e.runtime.Timeout)
	defer cancel()
	id, err := e.client.RegisterModel(callCtx, &mlruntime.ModelSpec{
		Name:         "auspex-" + p.String(),
		Platform:     p.String(),
		ModelType:    "gradient_boost",
		FeatureNames: featureNames(),
	})
	if err != nil {
		return "", err
	}
	e.modelIDs[p] = id
	return id, nil
}

// featureNames pins the feature-vector layout for model registration.
func featureNames() []string {
	m := content.FeatureMap(content.NeutralFeatures())
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	return names
}

// forecastAccuracy measures how close stored engagement forecasts came
// to recorded outcomes, on a log scale:
//
//	acc_i = 1 - min(1, |log10(pred_views+1) - log10(actual_views+1)| / 2)
//
// A forecast within one order of magnitude scores 0.5 or better; two or
// more orders off scores zero. Points without a stored forecast are
// skipped.
func (e *Engine) forecastAccuracy(ctx context.Context, p models.Platform) (float64, int, error) {
	ds, err := e.training.LatestDataset(ctx, p)
	if errors.Is(err, training.ErrDatasetNotFound) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}

	var sum float64
	var n int
	for _, dp := range ds.DataPoints {
		if dp.Predicted == nil {
			continue
		}
		gap := math.Abs(math.Log10(float64(dp.Predicted.Views)+1) - math.Log10(float64(dp.Actual.Views)+1))
		sum += 1 - math.Min(1, gap/2)
		n++
	}
	if n == 0 {
		return 0, 0, nil
	}
	return sum / float64(n), n, nil
}

// persistModelState writes the model's mutable state through the
// training store so versions and cadence survive restarts. Persistence
// failures are logged: state loss degrades cadence, not correctness.
func (e *Engine) persistModelState(ctx context.Context, p models.Platform, state platform.ModelState) {
	rec := &training.ModelStateRecord{
		Platform:    p,
		Accuracy:    state.Accuracy,
		Version:     state.Version,
		LastTrained: state.LastTrained,
		UpdatedAt:   e.clock.Now().UTC(),
	}
	if err := e.training.SaveModelState(ctx, rec); err != nil {
		e.logger.Warn().Err(err).Str("platform", p.String()).Msg("Failed to persist model state")
	}
}

// RestoreModelStates rehydrates in-memory model state from the training
// store at startup. Missing records are normal for a fresh install.
func (e *Engine) RestoreModelStates(ctx context.Context) {
	for _, p := range e.registry.Platforms() {
		rec, err := e.training.ModelState(ctx, p)
		if errors.Is(err, training.ErrModelStateNotFound) {
			continue
		}
		if err != nil {
			e.logger.Warn().Err(err).Str("platform", p.String()).Msg("Failed to load model state")
			continue
		}
		model, err := e.registry.Model(p)
		if err != nil {
			continue
		}
		model.RestoreState(platform.ModelState{
			Accuracy:    rec.Accuracy,
			Version:     rec.Version,
			LastTrained: rec.LastTrained,
		})
		metrics.ModelAccuracy.WithLabelValues(p.String()).Set(rec.Accuracy)
	}
}
