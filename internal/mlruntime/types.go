// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package mlruntime

import (
	"context"
	"errors"
	"time"
)

// Typed runtime errors. The engine treats all three as recoverable: a
// failed runtime call degrades the prediction to the heuristic-only path,
// it never fails the request.
var (
	// ErrRuntimeTimeout is returned when a call exceeds its deadline,
	// including time spent waiting on the rate limiter.
	ErrRuntimeTimeout = errors.New("model runtime timeout")

	// ErrRuntimeUnavailable is returned for connection failures, 5xx
	// responses, throttling, and circuit-breaker rejections.
	ErrRuntimeUnavailable = errors.New("model runtime unavailable")

	// ErrRuntimeError is returned when the runtime rejects the request
	// itself, typically a 4xx with an error envelope.
	ErrRuntimeError = errors.New("model runtime error")
)

// Client is the Model Runtime API surface the engine consumes. The
// runtime executes registered-model inference and training out of
// process; this client only moves records across the wire.
//
// All implementations must be safe for concurrent use.
type Client interface {
	// RegisterModel registers a model spec and returns its runtime ID.
	RegisterModel(ctx context.Context, spec *ModelSpec) (string, error)

	// Predict runs inference against a registered model.
	Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error)

	// TrainModel submits a training run and returns its job ID.
	TrainModel(ctx context.Context, req *TrainRequest) (string, error)

	// GetTrainingJob reports the state of a submitted training run.
	GetTrainingJob(ctx context.Context, jobID string) (*TrainingJob, error)

	// GetModelMetrics reports a model's latest evaluation metrics.
	GetModelMetrics(ctx context.Context, modelID string) (*ModelMetrics, error)

	// Ping verifies the runtime is reachable.
	Ping(ctx context.Context) error
}

// ModelSpec describes a model to register with the runtime.
type ModelSpec struct {
	// Name is a human-readable model name, unique per platform.
	Name string `json:"name"`

	// Platform the model scores for (twitter, instagram, tiktok).
	Platform string `json:"platform"`

	// ModelType selects the runtime-side learner, e.g. "gradient_boost".
	ModelType string `json:"model_type"`

	// FeatureNames pins the feature-vector layout the model expects.
	FeatureNames []string `json:"feature_names,omitempty"`

	// Hyperparameters are passed through to the learner untouched.
	Hyperparameters map[string]float64 `json:"hyperparameters,omitempty"`
}

// PredictRequest asks a registered model to score a feature vector.
type PredictRequest struct {
	ModelID  string             `json:"model_id"`
	Features map[string]float64 `json:"features"`
	Options  map[string]string  `json:"options,omitempty"`
}

// PredictResponse is the runtime's inference result. Prediction is on
// the 0-100 viral-score scale; Explanation maps feature names to signed
// attribution weights when the runtime provides them.
type PredictResponse struct {
	Prediction  float64            `json:"prediction"`
	Confidence  float64            `json:"confidence"`
	Explanation map[string]float64 `json:"explanation,omitempty"`
}

// TrainingPoint is one labeled example on the wire. The engine flattens
// its stored data points into this shape before submission.
type TrainingPoint struct {
	Features   map[string]float64 `json:"features"`
	ViralScore float64            `json:"viral_score"`
	IsViral    bool               `json:"is_viral"`
	Tier       string             `json:"tier,omitempty"`
}

// TrainingConfig tunes a training run. Zero fields take runtime defaults.
type TrainingConfig struct {
	Epochs          int     `json:"epochs,omitempty"`
	LearningRate    float64 `json:"learning_rate,omitempty"`
	ValidationSplit float64 `json:"validation_split,omitempty"`
}

// TrainRequest submits a prepared dataset for training.
type TrainRequest struct {
	ModelID   string          `json:"model_id"`
	DatasetID string          `json:"dataset_id"`
	Points    []TrainingPoint `json:"points"`
	Config    TrainingConfig  `json:"config"`
}

// JobStatus is the lifecycle state of a training run.
type JobStatus string

// Training job states.
const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether the job has finished, successfully or not.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// TrainingJob is the state of a submitted training run.
type TrainingJob struct {
	JobID       string             `json:"job_id"`
	ModelID     string             `json:"model_id"`
	Status      JobStatus          `json:"status"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
	Error       string             `json:"error,omitempty"`
	StartedAt   time.Time          `json:"started_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// ModelMetrics is a model's latest evaluation snapshot.
type ModelMetrics struct {
	ModelID     string    `json:"model_id"`
	Accuracy    float64   `json:"accuracy"`
	Precision   float64   `json:"precision"`
	Recall      float64   `json:"recall"`
	F1          float64   `json:"f1"`
	MAE         float64   `json:"mae"`
	SampleCount int       `json:"sample_count"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}
