// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

// Package models defines the shared wire types of Auspex: the platform enum,
// prediction request inputs, observed outcome metrics, and the standard API
// response envelope.
//
// Domain packages own their richer result types (platform.ModelPrediction,
// explain.Explanation, training.ViralDataPoint); this package holds only the
// types that cross package boundaries in both directions, keeping the import
// graph acyclic.
package models
