// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

// Package supervisor builds the suture v4 service tree that runs the
// process.
//
// The tree has four child supervisors for failure isolation:
//
//   - data: Badger garbage collection
//   - events: the in-process event consumer router
//   - jobs: interval jobs (trend refresh, retrain, evaluation)
//   - api: the HTTP server
//
// A crash in one layer restarts only that layer's services. Suture
// restart events are logged through sutureslog into the process logger.
package supervisor
