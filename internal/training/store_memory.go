// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package training

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/auspex/internal/models"
)

// MemoryStore is an in-memory Store. Suitable for development and tests;
// production uses BadgerStore. All methods deep-copy on the way in and
// out so callers can never alias stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	datasets map[string]*TrainingDataset
	pending  map[string]*PendingPoint
	states   map[models.Platform]*ModelStateRecord
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		datasets: make(map[string]*TrainingDataset),
		pending:  make(map[string]*PendingPoint),
		states:   make(map[models.Platform]*ModelStateRecord),
	}
}

// SaveDataset writes a dataset, overwriting any previous version.
func (s *MemoryStore) SaveDataset(ctx context.Context, ds *TrainingDataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[ds.ID] = copyDataset(ds)
	return nil
}

// GetDataset retrieves a dataset by ID.
func (s *MemoryStore) GetDataset(ctx context.Context, id string) (*TrainingDataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[id]
	if !ok {
		return nil, ErrDatasetNotFound
	}
	return copyDataset(ds), nil
}

// LatestDataset retrieves the platform's most recently created dataset.
func (s *MemoryStore) LatestDataset(ctx context.Context, platform models.Platform) (*TrainingDataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *TrainingDataset
	for _, ds := range s.datasets {
		if ds.Platform != platform {
			continue
		}
		if latest == nil || ds.CreatedAt.After(latest.CreatedAt) {
			latest = ds
		}
	}
	if latest == nil {
		return nil, ErrDatasetNotFound
	}
	return copyDataset(latest), nil
}

// SavePending stores a prediction awaiting its outcome.
func (s *MemoryStore) SavePending(ctx context.Context, p *PendingPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[p.PredictionID] = copyPending(p)
	return nil
}

// GetPending retrieves a pending point by prediction ID.
func (s *MemoryStore) GetPending(ctx context.Context, predictionID string) (*PendingPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pending[predictionID]
	if !ok {
		return nil, ErrDataPointNotFound
	}
	return copyPending(p), nil
}

// DeletePending removes a pending point.
func (s *MemoryStore) DeletePending(ctx context.Context, predictionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, predictionID)
	return nil
}

// PendingCount reports how many points await outcomes.
func (s *MemoryStore) PendingCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending), nil
}

// ListPending returns all pending points, oldest first.
func (s *MemoryStore) ListPending(ctx context.Context) ([]*PendingPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*PendingPoint, 0, len(s.pending))
	for _, p := range s.pending {
		out = append(out, copyPending(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// SaveModelState persists per-platform model state.
func (s *MemoryStore) SaveModelState(ctx context.Context, rec *ModelStateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *rec
	s.states[rec.Platform] = &clone
	return nil
}

// GetModelState retrieves per-platform model state.
func (s *MemoryStore) GetModelState(ctx context.Context, platform models.Platform) (*ModelStateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.states[platform]
	if !ok {
		return nil, ErrModelStateNotFound
	}
	clone := *rec
	return &clone, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

func copyDataset(ds *TrainingDataset) *TrainingDataset {
	out := *ds
	if ds.DataPoints != nil {
		out.DataPoints = make([]*ViralDataPoint, len(ds.DataPoints))
		for i, p := range ds.DataPoints {
			out.DataPoints[i] = copyPoint(p)
		}
	}
	out.Statistics.TierCounts = copyTierCounts(ds.Statistics.TierCounts)
	out.Splits = DatasetSplits{
		Train:      append([]string(nil), ds.Splits.Train...),
		Validation: append([]string(nil), ds.Splits.Validation...),
		Test:       append([]string(nil), ds.Splits.Test...),
	}
	out.FeatureCorrelations = copyFloatMap(ds.FeatureCorrelations)
	out.FeatureImportance = copyFloatMap(ds.FeatureImportance)
	return &out
}

func copyPoint(p *ViralDataPoint) *ViralDataPoint {
	out := *p
	out.Features = copyFloatMap(p.Features)
	if p.Predicted != nil {
		pred := *p.Predicted
		out.Predicted = &pred
	}
	if p.Metadata != nil {
		out.Metadata = make(map[string]string, len(p.Metadata))
		for k, v := range p.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

func copyPending(p *PendingPoint) *PendingPoint {
	out := *p
	out.Features = copyFloatMap(p.Features)
	if p.Predicted != nil {
		pred := *p.Predicted
		out.Predicted = &pred
	}
	return &out
}

func copyFloatMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyTierCounts(m map[EngagementTier]int) map[EngagementTier]int {
	if m == nil {
		return nil
	}
	out := make(map[EngagementTier]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
