// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

/*
Package training owns the training-data lifecycle: outcome ingestion,
deterministic labeling, quality assessment, and dataset preparation.

# Lifecycle

A prediction enters as a PendingPoint holding the feature vector it was
scored with. When the real-world outcome arrives, RecordOutcome labels
the point via a pure function of the actual metrics and the platform's
thresholds, appends it to the platform's most recent dataset (datasets
are append-only; one is created on first use), and removes the pending
entry. Labels are never rewritten.

# Labeling

The composite score blends five outcome ratios (engagement rate, reach
ratio, share rate, first-hour velocity, sustained views) into a 0-100
value. A point labels viral when absolute views or likes cross the
platform thresholds, or the composite reaches 85. The engagement tier
ladder is viral, high, moderate, low by descending view thresholds.

# Preparation

PrepareDataset returns a training-ready snapshot without mutating the
stored dataset: featureless points are dropped, the set is quality-gated
(ErrInsufficientData, ErrLowQuality), optionally class-balanced and
augmented with jittered copies, then split 70/15/15 by seeded shuffle.
Splits partition the point set exactly. The same source dataset and seed
always prepare identically.

# Storage

The Store interface has two implementations: BadgerStore for durable
production state (key prefixes dataset/, pending/, model/) and
MemoryStore for tests.
*/
package training
