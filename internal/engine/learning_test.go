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
	"testing"
	"time"

	"github.com/tomtom215/auspex/internal/config"
	"github.com/tomtom215/auspex/internal/mlruntime"
	"github.com/tomtom215/auspex/internal/models"
	"github.com/tomtom215/auspex/internal/training"
)

// seedLabeledPoints installs a balanced, quality-clean dataset for one
// platform: distinct content, even monthly spread, plausible metrics.
func seedLabeledPoints(t *testing.T, env *testEnv, p models.Platform, n int) {
	t.Helper()

	points := make([]*training.ViralDataPoint, 0, n)
	for i := 0; i < n; i++ {
		viral := i%2 == 0
		point := &training.ViralDataPoint{
			ID:       fmt.Sprintf("seed-%s-%d", p, i),
			Content:  fmt.Sprintf("labeled %s post number %d about release notes", p, i),
			Platform: p,
			Features: map[string]float64{
				"overall_quality":    0.3 + float64(i%5)*0.1,
				"timing_score":       0.4 + float64(i%3)*0.1,
				"shareability_score": 0.5,
			},
			Actual: models.ActualMetrics{Views: 30_000, Likes: 1_200, Shares: 150},
			Labels: training.PointLabels{ViralScore: float64(28 + i%8), EngagementTier: training.TierModerate},
			// Even spread over three months keeps the quality gate clean.
			Timestamp: time.Date(2026, time.Month(2+i%3), 3+i, 10, 0, 0, 0, time.UTC),
		}
		if viral {
			point.Actual = models.ActualMetrics{Views: 2_500_000, Likes: 60_000, Shares: 11_000}
			point.Labels = training.PointLabels{IsViral: true, ViralScore: float64(90 + i%6), EngagementTier: training.TierViral}
		}
		points = append(points, point)
	}

	ds := &training.TrainingDataset{
		ID:         "ds-" + string(p),
		Platform:   p,
		DataPoints: points,
		CreatedAt:  engineEpoch.Add(-30 * 24 * time.Hour),
		UpdatedAt:  engineEpoch.Add(-24 * time.Hour),
	}
	if err := env.store.SaveDataset(context.Background(), ds); err != nil {
		t.Fatalf("SaveDataset() error = %v", err)
	}
}

func TestRecordOutcomeLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, nil)
	ctx := context.Background()

	pending := &training.PendingPoint{
		PredictionID: "pred-42",
		Platform:     models.PlatformTwitter,
		Content:      "waiting on reality #launch",
		Features:     map[string]float64{"overall_quality": 0.7},
	}
	if err := env.training.AddPending(ctx, pending); err != nil {
		t.Fatalf("AddPending() error = %v", err)
	}

	point, err := env.engine.RecordOutcome(ctx, "pred-42", &models.ActualMetrics{
		Views:  2_000_000,
		Likes:  55_000,
		Shares: 9_000,
	})
	if err != nil {
		t.Fatalf("RecordOutcome() error = %v", err)
	}
	if !point.Labels.IsViral {
		t.Errorf("labels = %+v, want viral at 2M views", point.Labels)
	}

	env.publisher.mu.Lock()
	defer env.publisher.mu.Unlock()
	if len(env.publisher.outcomes) != 1 {
		t.Fatalf("published outcomes = %d, want 1", len(env.publisher.outcomes))
	}
	event := env.publisher.outcomes[0]
	if event.PredictionID != "pred-42" {
		t.Errorf("event PredictionID = %q, want pred-42", event.PredictionID)
	}
	if !event.IsViral {
		t.Error("event not marked viral")
	}
	if len(event.Hashtags) != 1 || event.Hashtags[0] != "launch" {
		t.Errorf("event hashtags = %v, want [launch]", event.Hashtags)
	}
}

func TestRecordOutcomeUnknownPrediction(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, nil)
	_, err := env.engine.RecordOutcome(context.Background(), "never-predicted", &models.ActualMetrics{Views: 10})
	if !errors.Is(err, training.ErrDataPointNotFound) {
		t.Errorf("error = %v, want ErrDataPointNotFound", err)
	}
}

func TestEvaluateModelForecastAccuracy(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, nil)
	ctx := context.Background()

	// One exact forecast, one off by a full order of magnitude:
	// accuracies 1.0 and 0.5, mean 0.75. The unforecast point is skipped.
	points := []*training.ViralDataPoint{
		{
			ID: "a", Content: "exact forecast", Platform: models.PlatformTwitter,
			Features:  map[string]float64{"overall_quality": 0.5},
			Predicted: &models.PredictedMetrics{Views: 9_999},
			Actual:    models.ActualMetrics{Views: 9_999, Likes: 50, Shares: 5},
			Labels:    training.PointLabels{ViralScore: 40, EngagementTier: training.TierModerate},
			Timestamp: engineEpoch.Add(-48 * time.Hour),
		},
		{
			ID: "b", Content: "order of magnitude off", Platform: models.PlatformTwitter,
			Features:  map[string]float64{"overall_quality": 0.5},
			Predicted: &models.PredictedMetrics{Views: 9_999},
			Actual:    models.ActualMetrics{Views: 99_999, Likes: 400, Shares: 40},
			Labels:    training.PointLabels{ViralScore: 42, EngagementTier: training.TierModerate},
			Timestamp: engineEpoch.Add(-36 * time.Hour),
		},
		{
			ID: "c", Content: "no stored forecast", Platform: models.PlatformTwitter,
			Features:  map[string]float64{"overall_quality": 0.5},
			Actual:    models.ActualMetrics{Views: 500, Likes: 4},
			Labels:    training.PointLabels{ViralScore: 10, EngagementTier: training.TierLow},
			Timestamp: engineEpoch.Add(-24 * time.Hour),
		},
	}
	err := env.store.SaveDataset(ctx, &training.TrainingDataset{
		ID: "ds-eval", Platform: models.PlatformTwitter, DataPoints: points,
	})
	if err != nil {
		t.Fatalf("SaveDataset() error = %v", err)
	}

	perf, err := env.engine.EvaluateModel(ctx, models.PlatformTwitter)
	if err != nil {
		t.Fatalf("EvaluateModel() error = %v", err)
	}
	if math.Abs(perf.Accuracy-0.75) > 0.01 {
		t.Errorf("accuracy = %.3f, want ~0.75", perf.Accuracy)
	}
	if perf.SampleCount != 2 {
		t.Errorf("samples = %d, want 2 forecast points", perf.SampleCount)
	}

	// The measurement lands on the in-memory model and the store.
	model, _ := env.engine.registry.Model(models.PlatformTwitter)
	if math.Abs(model.State().Accuracy-0.75) > 0.01 {
		t.Errorf("model accuracy = %.3f, want ~0.75", model.State().Accuracy)
	}
	rec, err := env.training.ModelState(ctx, models.PlatformTwitter)
	if err != nil {
		t.Fatalf("ModelState() error = %v", err)
	}
	if math.Abs(rec.Accuracy-0.75) > 0.01 {
		t.Errorf("persisted accuracy = %.3f, want ~0.75", rec.Accuracy)
	}
}

func TestEvaluateModelNoOutcomesKeepsPrior(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, nil)
	model, _ := env.engine.registry.Model(models.PlatformTikTok)
	model.SetAccuracy(0.61)

	perf, err := env.engine.EvaluateModel(context.Background(), models.PlatformTikTok)
	if err != nil {
		t.Fatalf("EvaluateModel() error = %v", err)
	}
	if perf.SampleCount != 0 {
		t.Errorf("samples = %d, want 0", perf.SampleCount)
	}
	if math.Abs(perf.Accuracy-0.61) > 1e-9 {
		t.Errorf("accuracy = %.3f, want prior 0.61", perf.Accuracy)
	}
}

func TestEvaluateModelRuntimeAuthoritative(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, func(c *config.Config) { c.Runtime.Enabled = true })
	env.runtime.metricsResp = &mlruntime.ModelMetrics{Accuracy: 0.9, SampleCount: 420}

	perf, err := env.engine.EvaluateModel(context.Background(), models.PlatformInstagram)
	if err != nil {
		t.Fatalf("EvaluateModel() error = %v", err)
	}
	if perf.Accuracy != 0.9 || perf.SampleCount != 420 {
		t.Errorf("perf = %+v, want runtime metrics", perf)
	}

	model, _ := env.engine.registry.Model(models.PlatformInstagram)
	if model.State().Accuracy != 0.9 {
		t.Errorf("model accuracy = %.3f, want 0.9", model.State().Accuracy)
	}
}

func TestEvaluateAllSkipsWhenRunning(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, nil)
	env.engine.evalMu.Lock()
	defer env.engine.evalMu.Unlock()

	if err := env.engine.EvaluateAll(context.Background()); !errors.Is(err, ErrMaintenanceRunning) {
		t.Errorf("EvaluateAll() error = %v, want ErrMaintenanceRunning", err)
	}
}

func TestRetrainPlatformGateNotMet(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, func(c *config.Config) {
		c.Runtime.Enabled = true
		c.Jobs.MinNewPoints = 10
	})
	seedLabeledPoints(t, env, models.PlatformTwitter, 6)

	if err := env.engine.RetrainPlatform(context.Background(), models.PlatformTwitter); err != nil {
		t.Fatalf("RetrainPlatform() error = %v, want gated nil", err)
	}
	if env.runtime.trainCalls != 0 {
		t.Errorf("train calls = %d, want 0 under the gate", env.runtime.trainCalls)
	}
	model, _ := env.engine.registry.Model(models.PlatformTwitter)
	if model.State().Version != 0 {
		t.Errorf("model version = %d, want 0", model.State().Version)
	}
}

func TestRetrainPlatformRuntime(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, func(c *config.Config) { c.Runtime.Enabled = true })
	ctx := context.Background()
	seedLabeledPoints(t, env, models.PlatformTwitter, 6)

	// Retraining invalidates the prediction cache.
	env.cache.Set("prediction:stale", "x")

	if err := env.engine.RetrainPlatform(ctx, models.PlatformTwitter); err != nil {
		t.Fatalf("RetrainPlatform() error = %v", err)
	}
	if env.runtime.trainCalls != 1 {
		t.Errorf("train calls = %d, want 1", env.runtime.trainCalls)
	}

	model, _ := env.engine.registry.Model(models.PlatformTwitter)
	state := model.State()
	if state.Version != 1 {
		t.Errorf("model version = %d, want 1", state.Version)
	}
	if math.Abs(state.Accuracy-0.82) > 1e-9 {
		t.Errorf("accuracy = %.3f, want job metric 0.82", state.Accuracy)
	}
	if state.LastTrained.IsZero() {
		t.Error("LastTrained not stamped")
	}

	if _, ok := env.cache.Get("prediction:stale"); ok {
		t.Error("cache not cleared after retraining")
	}

	rec, err := env.training.ModelState(ctx, models.PlatformTwitter)
	if err != nil {
		t.Fatalf("ModelState() error = %v", err)
	}
	if rec.Version != 1 {
		t.Errorf("persisted version = %d, want 1", rec.Version)
	}
}

func TestRetrainPlatformTrainingJobFailed(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, func(c *config.Config) { c.Runtime.Enabled = true })
	env.runtime.job = &mlruntime.TrainingJob{JobID: "job-1", Status: mlruntime.JobFailed, Error: "diverged"}
	seedLabeledPoints(t, env, models.PlatformTwitter, 6)

	err := env.engine.RetrainPlatform(context.Background(), models.PlatformTwitter)
	if !errors.Is(err, mlruntime.ErrRuntimeError) {
		t.Errorf("error = %v, want ErrRuntimeError", err)
	}
}

func TestRetrainPlatformTrainingTimeout(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, func(c *config.Config) {
		c.Runtime.Enabled = true
		// Shorter than one poll interval: a job still running at the
		// first poll exhausts the budget immediately.
		c.Runtime.TrainTimeout = time.Second
	})
	env.runtime.job = &mlruntime.TrainingJob{JobID: "job-1", Status: mlruntime.JobRunning}
	seedLabeledPoints(t, env, models.PlatformTwitter, 6)

	err := env.engine.RetrainPlatform(context.Background(), models.PlatformTwitter)
	if !errors.Is(err, mlruntime.ErrRuntimeTimeout) {
		t.Errorf("error = %v, want ErrRuntimeTimeout", err)
	}
}

func TestRetrainPlatformHeuristicAccuracy(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, func(c *config.Config) { c.Jobs.MinNewPoints = 2 })
	ctx := context.Background()

	points := []*training.ViralDataPoint{
		{
			ID: "h1", Content: "spot-on forecast", Platform: models.PlatformTwitter,
			Features:  map[string]float64{"overall_quality": 0.6},
			Predicted: &models.PredictedMetrics{Views: 49_999},
			Actual:    models.ActualMetrics{Views: 49_999, Likes: 900, Shares: 70},
			Labels:    training.PointLabels{ViralScore: 55, EngagementTier: training.TierHigh},
			Timestamp: engineEpoch.Add(-72 * time.Hour),
		},
		{
			ID: "h2", Content: "also spot-on", Platform: models.PlatformTwitter,
			Features:  map[string]float64{"overall_quality": 0.4},
			Predicted: &models.PredictedMetrics{Views: 19_999},
			Actual:    models.ActualMetrics{Views: 19_999, Likes: 500, Shares: 30},
			Labels:    training.PointLabels{ViralScore: 35, EngagementTier: training.TierModerate},
			Timestamp: engineEpoch.Add(-48 * time.Hour),
		},
	}
	if err := env.store.SaveDataset(ctx, &training.TrainingDataset{
		ID: "ds-h", Platform: models.PlatformTwitter, DataPoints: points,
	}); err != nil {
		t.Fatalf("SaveDataset() error = %v", err)
	}

	if err := env.engine.RetrainPlatform(ctx, models.PlatformTwitter); err != nil {
		t.Fatalf("RetrainPlatform() error = %v", err)
	}
	if env.runtime.trainCalls != 0 {
		t.Errorf("train calls = %d, want 0 without the runtime", env.runtime.trainCalls)
	}

	model, _ := env.engine.registry.Model(models.PlatformTwitter)
	state := model.State()
	if state.Version != 1 {
		t.Errorf("model version = %d, want 1", state.Version)
	}
	if math.Abs(state.Accuracy-1.0) > 0.01 {
		t.Errorf("accuracy = %.3f, want ~1.0 for exact forecasts", state.Accuracy)
	}
}

func TestRetrainAllSkipsWhenRunning(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, nil)
	env.engine.retrainMu.Lock()
	defer env.engine.retrainMu.Unlock()

	if err := env.engine.RetrainAll(context.Background()); !errors.Is(err, ErrMaintenanceRunning) {
		t.Errorf("RetrainAll() error = %v, want ErrMaintenanceRunning", err)
	}
}

func TestPrunePendingEvictsOldest(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, func(c *config.Config) { c.Engine.PendingLimit = 3 })
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := env.training.AddPending(ctx, &training.PendingPoint{
			PredictionID: fmt.Sprintf("pend-%d", i),
			Platform:     models.PlatformTwitter,
			Content:      fmt.Sprintf("pending %d", i),
			Features:     map[string]float64{"overall_quality": 0.5},
		})
		if err != nil {
			t.Fatalf("AddPending(%d) error = %v", i, err)
		}
		env.clock.Advance(time.Minute)
	}

	if err := env.engine.PrunePending(ctx); err != nil {
		t.Fatalf("PrunePending() error = %v", err)
	}

	remaining, err := env.training.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending() error = %v", err)
	}
	if len(remaining) != 3 {
		t.Fatalf("remaining = %d, want 3", len(remaining))
	}
	for i, p := range remaining {
		want := fmt.Sprintf("pend-%d", i+2)
		if p.PredictionID != want {
			t.Errorf("remaining[%d] = %q, want newest %q", i, p.PredictionID, want)
		}
	}
}

func TestPrunePendingUnlimited(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, func(c *config.Config) { c.Engine.PendingLimit = 0 })
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := env.training.AddPending(ctx, &training.PendingPoint{
			PredictionID: fmt.Sprintf("keep-%d", i),
			Platform:     models.PlatformTwitter,
			Content:      fmt.Sprintf("kept %d", i),
			Features:     map[string]float64{"overall_quality": 0.5},
		}); err != nil {
			t.Fatalf("AddPending(%d) error = %v", i, err)
		}
	}

	if err := env.engine.PrunePending(ctx); err != nil {
		t.Fatalf("PrunePending() error = %v", err)
	}
	count, err := env.training.PendingCount(ctx)
	if err != nil {
		t.Fatalf("PendingCount() error = %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d, want all 4 kept without a limit", count)
	}
}

func TestRestoreModelStates(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, nil)
	ctx := context.Background()

	err := env.training.SaveModelState(ctx, &training.ModelStateRecord{
		Platform:    models.PlatformTikTok,
		Accuracy:    0.66,
		Version:     3,
		LastTrained: engineEpoch.Add(-7 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("SaveModelState() error = %v", err)
	}

	env.engine.RestoreModelStates(ctx)

	model, _ := env.engine.registry.Model(models.PlatformTikTok)
	state := model.State()
	if math.Abs(state.Accuracy-0.66) > 1e-9 {
		t.Errorf("restored accuracy = %.3f, want 0.66", state.Accuracy)
	}
	if state.Version != 3 {
		t.Errorf("restored version = %d, want 3", state.Version)
	}
	if want := engineEpoch.Add(-7 * 24 * time.Hour); !state.LastTrained.Equal(want) {
		t.Errorf("restored LastTrained = %v, want %v", state.LastTrained, want)
	}

	// Platforms without a stored record keep their zero state.
	other, _ := env.engine.registry.Model(models.PlatformTwitter)
	if other.State().Accuracy != 0 {
		t.Errorf("twitter accuracy = %.3f, want untouched 0", other.State().Accuracy)
	}
}

func TestRestoreModelStatesFeedsRetrainGate(t *testing.T) {
	t.Parallel()

	env := newTestEngine(t, func(c *config.Config) {
		c.Runtime.Enabled = true
		c.Jobs.MinNewPoints = 3
	})
	ctx := context.Background()
	seedLabeledPoints(t, env, models.PlatformTwitter, 6)

	// The previous process trained after every seeded point was labeled.
	err := env.training.SaveModelState(ctx, &training.ModelStateRecord{
		Platform:    models.PlatformTwitter,
		Accuracy:    0.71,
		Version:     2,
		LastTrained: engineEpoch.Add(-24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("SaveModelState() error = %v", err)
	}
	env.engine.RestoreModelStates(ctx)

	if err := env.engine.RetrainPlatform(ctx, models.PlatformTwitter); err != nil {
		t.Fatalf("RetrainPlatform() error = %v, want gated nil", err)
	}
	if env.runtime.trainCalls != 0 {
		t.Errorf("train calls = %d, want 0: no new points since the restored LastTrained", env.runtime.trainCalls)
	}
	model, _ := env.engine.registry.Model(models.PlatformTwitter)
	if model.State().Version != 2 {
		t.Errorf("model version = %d, want restored 2 without a fresh train", model.State().Version)
	}
}
