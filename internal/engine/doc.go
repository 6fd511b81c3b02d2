// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

// Package engine orchestrates the viral-prediction pipeline.
//
// A prediction request flows cache -> feature extraction -> platform
// model -> optional Model Runtime blend -> metric derivation ->
// explanation -> cache fill. Any failure after the platform gate is
// recovered locally into a documented fallback prediction: the scoring
// surface never returns an error for a supported platform.
//
// The engine also owns the learning loop: recording real-world
// outcomes, evaluating model accuracy against them, and the periodic
// retraining that feeds prepared datasets to the Model Runtime.
// Overlapping runs of the same maintenance task are skipped with a
// TryLock rather than queued, since both mutate per-platform model
// state.
package engine
