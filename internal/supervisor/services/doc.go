// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

// Package services wraps process components as suture.Service
// implementations for the supervisor tree.
//
// Each wrapper adapts one lifecycle style to suture's blocking
// Serve(ctx) contract:
//
//   - HTTPServerService: http.Server's ListenAndServe/Shutdown
//   - JobService: scheduler.Job's Start/Stop
//   - RouterService: events.Router's blocking Run
//   - BadgerGCService: a plain ticker loop
//
// Wrappers depend on small local interfaces rather than the concrete
// packages, so tests use mocks and import cycles stay impossible.
package services
