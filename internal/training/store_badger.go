// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package training

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/auspex/internal/models"
)

// Key prefixes for BadgerDB storage.
const (
	datasetKeyPrefix = "dataset/"
	pendingKeyPrefix = "pending/"
	modelKeyPrefix   = "model/"
)

// BadgerStore implements Store on BadgerDB for durable storage across
// restarts. The *badger.DB is shared with the rest of the process; the
// store owns only its key prefixes and Close is a no-op.
type BadgerStore struct {
	db *badger.DB
}

// Compile-time interface check.
var _ Store = (*BadgerStore)(nil)

// NewBadgerStore creates a Badger-backed training store.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// datasetKey nests datasets under their platform so LatestDataset can
// iterate a single platform's prefix.
func datasetKey(platform models.Platform, id string) []byte {
	return []byte(datasetKeyPrefix + string(platform) + "/" + id)
}

// datasetIDKey maps a bare dataset ID to its platform for GetDataset.
func datasetIDKey(id string) []byte {
	return []byte(datasetKeyPrefix + "id/" + id)
}

func pendingKey(predictionID string) []byte {
	return []byte(pendingKeyPrefix + predictionID)
}

func modelKey(platform models.Platform) []byte {
	return []byte(modelKeyPrefix + string(platform))
}

// SaveDataset writes a dataset under its platform prefix plus an ID
// pointer for direct lookup.
func (s *BadgerStore) SaveDataset(ctx context.Context, ds *TrainingDataset) error {
	data, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(datasetKey(ds.Platform, ds.ID), data); err != nil {
			return fmt.Errorf("set dataset: %w", err)
		}
		if err := txn.Set(datasetIDKey(ds.ID), []byte(ds.Platform)); err != nil {
			return fmt.Errorf("set dataset pointer: %w", err)
		}
		return nil
	})
}

// GetDataset retrieves a dataset by ID.
func (s *BadgerStore) GetDataset(ctx context.Context, id string) (*TrainingDataset, error) {
	var ds TrainingDataset

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(datasetIDKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrDatasetNotFound
		}
		if err != nil {
			return fmt.Errorf("get dataset pointer: %w", err)
		}

		var platform models.Platform
		if err := item.Value(func(val []byte) error {
			platform = models.Platform(val)
			return nil
		}); err != nil {
			return err
		}

		item, err = txn.Get(datasetKey(platform, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrDatasetNotFound
		}
		if err != nil {
			return fmt.Errorf("get dataset: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ds)
		})
	})
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// LatestDataset scans the platform's prefix and returns the dataset with
// the newest CreatedAt. Platforms hold a handful of datasets, so a full
// prefix scan stays cheap.
func (s *BadgerStore) LatestDataset(ctx context.Context, platform models.Platform) (*TrainingDataset, error) {
	var latest *TrainingDataset

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(datasetKeyPrefix + string(platform) + "/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var ds TrainingDataset
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &ds)
			}); err != nil {
				return fmt.Errorf("unmarshal dataset: %w", err)
			}
			if latest == nil || ds.CreatedAt.After(latest.CreatedAt) {
				copied := ds
				latest = &copied
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, ErrDatasetNotFound
	}
	return latest, nil
}

// SavePending stores a prediction awaiting its outcome.
func (s *BadgerStore) SavePending(ctx context.Context, p *PendingPoint) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pending point: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(pendingKey(p.PredictionID), data)
	})
}

// GetPending retrieves a pending point by prediction ID.
func (s *BadgerStore) GetPending(ctx context.Context, predictionID string) (*PendingPoint, error) {
	var p PendingPoint

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pendingKey(predictionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrDataPointNotFound
		}
		if err != nil {
			return fmt.Errorf("get pending point: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePending removes a pending point. Absent keys are not an error.
func (s *BadgerStore) DeletePending(ctx context.Context, predictionID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(pendingKey(predictionID))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete pending point: %w", err)
		}
		return nil
	})
}

// PendingCount counts keys under the pending prefix without fetching
// values.
func (s *BadgerStore) PendingCount(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(pendingKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// ListPending scans the pending prefix and returns points oldest first.
func (s *BadgerStore) ListPending(ctx context.Context) ([]*PendingPoint, error) {
	var out []*PendingPoint

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(pendingKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var p PendingPoint
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			}); err != nil {
				return fmt.Errorf("unmarshal pending point: %w", err)
			}
			copied := p
			out = append(out, &copied)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// SaveModelState persists per-platform model state.
func (s *BadgerStore) SaveModelState(ctx context.Context, rec *ModelStateRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal model state: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(modelKey(rec.Platform), data)
	})
}

// GetModelState retrieves per-platform model state.
func (s *BadgerStore) GetModelState(ctx context.Context, platform models.Platform) (*ModelStateRecord, error) {
	var rec ModelStateRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(modelKey(platform))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrModelStateNotFound
		}
		if err != nil {
			return fmt.Errorf("get model state: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Close is a no-op: the shared *badger.DB is closed by its owner.
func (s *BadgerStore) Close() error {
	return nil
}
