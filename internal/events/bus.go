// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/auspex/internal/config"
	"github.com/tomtom215/auspex/internal/metrics"
)

// defaultBufferSize is the per-subscriber channel buffer when the config
// leaves it unset.
const defaultBufferSize = 256

// Bus is the in-process event bus. Publishers and subscribers share one
// gochannel Pub/Sub, so delivery is per-subscriber fan-out with a bounded
// buffer; a slow consumer backpressures its own channel only.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewBus creates the bus from configuration. With Persistent enabled,
// events published before a subscriber attaches are replayed to it.
func NewBus(cfg *config.EventsConfig, logger *zerolog.Logger) *Bus {
	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = defaultBufferSize
	}

	log := logger.With().Str("component", "events").Logger()
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: buffer,
		Persistent:          cfg.Persistent,
	}, NewLoggerAdapter(logger))

	return &Bus{
		pubsub: pubsub,
		logger: log,
	}
}

// Publisher returns the bus as a watermill publisher.
func (b *Bus) Publisher() message.Publisher {
	return b.pubsub
}

// Subscriber returns the bus as a watermill subscriber, for wiring into a
// Router or for direct Subscribe calls.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// PublishPrediction validates and publishes a prediction-recorded event.
func (b *Bus) PublishPrediction(ctx context.Context, event *PredictionRecorded) error {
	if event == nil {
		return fmt.Errorf("publish prediction: nil event")
	}
	if err := event.Validate(); err != nil {
		return fmt.Errorf("publish prediction: %w", err)
	}
	return b.publish(ctx, event.Topic(), event.EventID, event.Platform, event)
}

// PublishOutcome validates and publishes an outcome-recorded event.
func (b *Bus) PublishOutcome(ctx context.Context, event *OutcomeRecorded) error {
	if event == nil {
		return fmt.Errorf("publish outcome: nil event")
	}
	if err := event.Validate(); err != nil {
		return fmt.Errorf("publish outcome: %w", err)
	}
	return b.publish(ctx, event.Topic(), event.EventID, event.Platform, event)
}

func (b *Bus) publish(ctx context.Context, topic, eventID, platform string, event any) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return fmt.Errorf("publish %s: bus is closed", topic)
	}
	b.mu.RUnlock()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serialize %s event: %w", topic, err)
	}

	msg := message.NewMessage(eventID, data)
	msg.SetContext(ctx)
	msg.Metadata.Set("platform", platform)

	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.RecordEventPublished(topic)

	b.logger.Debug().
		Str("topic", topic).
		Str("event_id", eventID).
		Str("platform", platform).
		Msg("event published")
	return nil
}

// Close shuts the bus down. Pending deliveries in subscriber buffers are
// dropped. Close is idempotent.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	return b.pubsub.Close()
}
