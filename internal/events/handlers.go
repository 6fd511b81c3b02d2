// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package events

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/auspex/internal/cache"
	"github.com/tomtom215/auspex/internal/metrics"
	"github.com/tomtom215/auspex/internal/models"
	"github.com/tomtom215/auspex/internal/training"
)

// PendingSink receives pending training points built from prediction
// events. Implemented by training.Manager.
type PendingSink interface {
	AddPending(ctx context.Context, p *training.PendingPoint) error
}

// TrendSink observes real hashtag engagement from recorded outcomes.
// Implemented by content.Extractor.
type TrendSink interface {
	ObserveHashtags(platform models.Platform, hashtags []string)
}

// PendingPointHandler consumes prediction.recorded events and stores a
// pending point for each, awaiting the real outcome.
//
// Error handling under the router middleware:
//   - Malformed or invalid payloads are logged and acked; retrying a bad
//     payload cannot succeed.
//   - Sink failures are returned, so the retry middleware backs off and
//     redelivers.
type PendingPointHandler struct {
	sink   PendingSink
	logger zerolog.Logger
}

// NewPendingPointHandler creates the prediction.recorded consumer.
func NewPendingPointHandler(sink PendingSink, logger *zerolog.Logger) *PendingPointHandler {
	return &PendingPointHandler{
		sink:   sink,
		logger: logger.With().Str("component", "events").Str("handler", "pending_point").Logger(),
	}
}

// Handle processes a single prediction.recorded message.
func (h *PendingPointHandler) Handle(msg *message.Message) error {
	var event PredictionRecorded
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		h.logger.Error().Err(err).Str("message_uuid", msg.UUID).Msg("unparseable prediction event dropped")
		metrics.RecordEventConsumed(TopicPredictionRecorded, err)
		return nil
	}
	if err := event.Validate(); err != nil {
		h.logger.Warn().Err(err).Str("event_id", event.EventID).Msg("invalid prediction event dropped")
		metrics.RecordEventConsumed(TopicPredictionRecorded, err)
		return nil
	}
	platform, err := models.ParsePlatform(event.Platform)
	if err != nil {
		h.logger.Warn().Err(err).Str("event_id", event.EventID).Msg("prediction event for unknown platform dropped")
		metrics.RecordEventConsumed(TopicPredictionRecorded, err)
		return nil
	}

	pending := &training.PendingPoint{
		PredictionID: event.PredictionID,
		Platform:     platform,
		Content:      event.Content,
		Features:     event.Features,
		Predicted: &models.PredictedMetrics{
			Views:          event.PredictedViews,
			Likes:          event.PredictedLikes,
			Shares:         event.PredictedShares,
			Comments:       event.PredictedComments,
			EngagementRate: event.PredictedEngagementRate,
		},
		CreatedAt: event.Timestamp,
	}

	if err := h.sink.AddPending(messageContext(msg), pending); err != nil {
		h.logger.Error().Err(err).Str("prediction_id", event.PredictionID).Msg("storing pending point failed")
		metrics.RecordEventConsumed(TopicPredictionRecorded, err)
		return err
	}

	metrics.RecordEventConsumed(TopicPredictionRecorded, nil)
	h.logger.Debug().
		Str("prediction_id", event.PredictionID).
		Str("platform", event.Platform).
		Msg("pending point stored")
	return nil
}

// Dedup sizing for the outcome consumer. Retry redelivery would
// double-count hashtag observations without it.
const (
	dedupCapacity     = 10000
	dedupTTL          = time.Hour
	dedupFalsePosRate = 0.01
)

// TrendingHandler consumes outcome.recorded events and feeds observed
// hashtags into the trending table.
type TrendingHandler struct {
	sink   TrendSink
	seen   cache.DeduplicationCache
	logger zerolog.Logger
}

// NewTrendingHandler creates the outcome.recorded consumer.
func NewTrendingHandler(sink TrendSink, logger *zerolog.Logger) *TrendingHandler {
	return &TrendingHandler{
		sink:   sink,
		seen:   cache.NewBloomLRU(dedupCapacity, dedupTTL, dedupFalsePosRate),
		logger: logger.With().Str("component", "events").Str("handler", "trending").Logger(),
	}
}

// Handle processes a single outcome.recorded message. Observation is
// fire-and-forget, so every decoded message is acked. Redelivered events
// are dropped by event ID so retries never skew the trending weights.
func (h *TrendingHandler) Handle(msg *message.Message) error {
	var event OutcomeRecorded
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		h.logger.Error().Err(err).Str("message_uuid", msg.UUID).Msg("unparseable outcome event dropped")
		metrics.RecordEventConsumed(TopicOutcomeRecorded, err)
		return nil
	}
	if err := event.Validate(); err != nil {
		h.logger.Warn().Err(err).Str("event_id", event.EventID).Msg("invalid outcome event dropped")
		metrics.RecordEventConsumed(TopicOutcomeRecorded, err)
		return nil
	}
	platform, err := models.ParsePlatform(event.Platform)
	if err != nil {
		h.logger.Warn().Err(err).Str("event_id", event.EventID).Msg("outcome event for unknown platform dropped")
		metrics.RecordEventConsumed(TopicOutcomeRecorded, err)
		return nil
	}

	if event.EventID != "" && h.seen.IsDuplicate(event.EventID) {
		h.logger.Debug().Str("event_id", event.EventID).Msg("duplicate outcome event dropped")
		metrics.RecordEventConsumed(TopicOutcomeRecorded, nil)
		return nil
	}

	if len(event.Hashtags) > 0 {
		h.sink.ObserveHashtags(platform, event.Hashtags)
	}

	metrics.RecordEventConsumed(TopicOutcomeRecorded, nil)
	return nil
}

// messageContext returns the message's context, falling back to Background
// for messages constructed without one.
func messageContext(msg *message.Message) context.Context {
	if ctx := msg.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
