// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package events

import (
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the current event schema version.
// Increment this when making breaking changes to event payloads.
const SchemaVersion = 1

// Topic names for the in-process bus.
const (
	// TopicPredictionRecorded carries PredictionRecorded events.
	TopicPredictionRecorded = "prediction.recorded"
	// TopicOutcomeRecorded carries OutcomeRecorded events.
	TopicOutcomeRecorded = "outcome.recorded"
)

// PredictionRecorded is published by the engine after each non-cached
// prediction. The outcome consumer turns it into a pending training point,
// so it carries everything the point needs: the feature vector the model
// scored and the forecast to compare the real outcome against.
type PredictionRecorded struct {
	// SchemaVersion tracks the event format version (default: 1).
	SchemaVersion int `json:"schema_version,omitempty"`

	// Identification
	EventID      string    `json:"event_id"`
	PredictionID string    `json:"prediction_id"`
	Platform     string    `json:"platform"`
	Timestamp    time.Time `json:"timestamp"`

	// Scored input
	Content  string             `json:"content,omitempty"`
	Features map[string]float64 `json:"features"`

	// Prediction summary
	ViralScore float64 `json:"viral_score"`
	Confidence float64 `json:"confidence"`

	// Forecast metrics, compared against the real outcome at labeling time.
	PredictedViews          int64   `json:"predicted_views,omitempty"`
	PredictedLikes          int64   `json:"predicted_likes,omitempty"`
	PredictedShares         int64   `json:"predicted_shares,omitempty"`
	PredictedComments       int64   `json:"predicted_comments,omitempty"`
	PredictedEngagementRate float64 `json:"predicted_engagement_rate,omitempty"`
}

// NewPredictionRecorded creates an event with a unique ID, timestamp, and
// schema version.
func NewPredictionRecorded(platform string) *PredictionRecorded {
	return &PredictionRecorded{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		Platform:      platform,
		Timestamp:     time.Now().UTC(),
	}
}

// Validate checks required fields and returns an error if validation fails.
func (e *PredictionRecorded) Validate() error {
	if e.EventID == "" {
		return &ValidationError{Field: "event_id", Message: "required"}
	}
	if e.PredictionID == "" {
		return &ValidationError{Field: "prediction_id", Message: "required"}
	}
	if e.Platform == "" {
		return &ValidationError{Field: "platform", Message: "required"}
	}
	if len(e.Features) == 0 {
		return &ValidationError{Field: "features", Message: "required"}
	}
	return nil
}

// Topic returns the bus topic for this event.
func (e *PredictionRecorded) Topic() string {
	return TopicPredictionRecorded
}

// OutcomeRecorded is published after an outcome has been labeled and
// appended to its platform dataset. It carries the labeling result plus the
// content's hashtags so the trending table can observe real engagement.
type OutcomeRecorded struct {
	// SchemaVersion tracks the event format version (default: 1).
	SchemaVersion int `json:"schema_version,omitempty"`

	// Identification
	EventID      string    `json:"event_id"`
	PredictionID string    `json:"prediction_id"`
	Platform     string    `json:"platform"`
	Timestamp    time.Time `json:"timestamp"`

	// Labeling result
	IsViral    bool    `json:"is_viral"`
	ViralScore float64 `json:"viral_score"`
	Tier       string  `json:"tier,omitempty"`

	// Observed engagement
	Views    int64    `json:"views,omitempty"`
	Likes    int64    `json:"likes,omitempty"`
	Hashtags []string `json:"hashtags,omitempty"`
}

// NewOutcomeRecorded creates an event with a unique ID, timestamp, and
// schema version.
func NewOutcomeRecorded(platform string) *OutcomeRecorded {
	return &OutcomeRecorded{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		Platform:      platform,
		Timestamp:     time.Now().UTC(),
	}
}

// Validate checks required fields and returns an error if validation fails.
func (e *OutcomeRecorded) Validate() error {
	if e.EventID == "" {
		return &ValidationError{Field: "event_id", Message: "required"}
	}
	if e.PredictionID == "" {
		return &ValidationError{Field: "prediction_id", Message: "required"}
	}
	if e.Platform == "" {
		return &ValidationError{Field: "platform", Message: "required"}
	}
	return nil
}

// Topic returns the bus topic for this event.
func (e *OutcomeRecorded) Topic() string {
	return TopicOutcomeRecorded
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
