// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

/*
Package events provides the in-process event bus that decouples prediction
recording from the request path.

Key Components:

  - Bus: watermill gochannel Pub/Sub with typed publish helpers
  - Router: watermill router pre-configured with panic recovery and
    exponential backoff retry
  - PendingPointHandler: consumes prediction.recorded, stores pending
    training points
  - TrendingHandler: consumes outcome.recorded, feeds observed hashtags to
    the trending table

Flow:

The engine publishes prediction.recorded after every non-cached prediction;
the outcome consumer service turns each into a pending point awaiting its
real-world outcome. When an outcome is ingested and labeled, the engine
publishes outcome.recorded, which updates trending observations. Handler
failures against storage are retried with backoff; malformed payloads are
logged and dropped, since redelivery cannot fix them.
*/
package events
