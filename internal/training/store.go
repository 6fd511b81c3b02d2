// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package training

import (
	"context"
	"errors"

	"github.com/tomtom215/auspex/internal/models"
)

// Store sentinel errors.
var (
	// ErrDatasetNotFound is returned when no dataset exists for a
	// platform or ID.
	ErrDatasetNotFound = errors.New("training dataset not found")

	// ErrDataPointNotFound is returned when a pending point does not
	// exist, typically because the prediction ID is unknown or the
	// outcome was already recorded.
	ErrDataPointNotFound = errors.New("data point not found")

	// ErrModelStateNotFound is returned when a platform has no persisted
	// model state yet.
	ErrModelStateNotFound = errors.New("model state not found")
)

// Store persists training state: labeled datasets, pending points
// awaiting outcomes, and per-platform model state. Implementations must
// be safe for concurrent use and must return copies, never internal
// references.
type Store interface {
	// SaveDataset writes a dataset, overwriting any previous version with
	// the same ID.
	SaveDataset(ctx context.Context, ds *TrainingDataset) error

	// GetDataset retrieves a dataset by ID.
	// Returns ErrDatasetNotFound if absent.
	GetDataset(ctx context.Context, id string) (*TrainingDataset, error)

	// LatestDataset retrieves the platform's most recently created
	// dataset. Returns ErrDatasetNotFound if the platform has none.
	LatestDataset(ctx context.Context, platform models.Platform) (*TrainingDataset, error)

	// SavePending stores a prediction awaiting its outcome, keyed by
	// prediction ID.
	SavePending(ctx context.Context, p *PendingPoint) error

	// GetPending retrieves a pending point by prediction ID.
	// Returns ErrDataPointNotFound if absent.
	GetPending(ctx context.Context, predictionID string) (*PendingPoint, error)

	// DeletePending removes a pending point. Deleting an absent point is
	// not an error.
	DeletePending(ctx context.Context, predictionID string) error

	// PendingCount reports how many points await outcomes.
	PendingCount(ctx context.Context) (int, error)

	// ListPending returns all pending points ordered by CreatedAt,
	// oldest first. Callers rebuild in-memory tracking from it at boot.
	ListPending(ctx context.Context) ([]*PendingPoint, error)

	// SaveModelState persists per-platform model state.
	SaveModelState(ctx context.Context, rec *ModelStateRecord) error

	// GetModelState retrieves per-platform model state.
	// Returns ErrModelStateNotFound if the platform has none recorded.
	GetModelState(ctx context.Context, platform models.Platform) (*ModelStateRecord, error)

	// Close releases store resources.
	Close() error
}
