// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package platform

import (
	"context"
	"math"
	"testing"

	"github.com/tomtom215/auspex/internal/content"
	"github.com/tomtom215/auspex/internal/models"
)

func TestTwitterBreakingNewsBonus(t *testing.T) {
	m := NewTwitter(DefaultConfigs()[models.PlatformTwitter], nil, testLogger())

	f := content.NeutralFeatures()
	f.BreakingNewsFlag = true

	pred, err := m.Predict(context.Background(), f, ContentMeta{ContentType: models.ContentTypeText})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	// Neutral social is 15; the breaking bonus adds 12.
	if got := pred.Breakdown["social"]; math.Abs(got-27) > 1e-9 {
		t.Errorf("social component = %.2f, want 27", got)
	}
	// Breaking news also lifts the context multiplier.
	if got := pred.Breakdown["context_multiplier"]; math.Abs(got-1.25) > 1e-9 {
		t.Errorf("context multiplier = %.2f, want 1.25", got)
	}
}

func TestTwitterLinkPenalty(t *testing.T) {
	m := NewTwitter(DefaultConfigs()[models.PlatformTwitter], nil, testLogger())

	f := content.NeutralFeatures()
	f.URLCount = 1

	pred, err := m.Predict(context.Background(), f, ContentMeta{ContentType: models.ContentTypeText})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	// Neutral engagement is 32.5; the link penalty removes 8.
	if got := pred.Breakdown["engagement"]; math.Abs(got-24.5) > 1e-9 {
		t.Errorf("engagement component = %.2f, want 24.5", got)
	}
}
