// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package platform

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tomtom215/auspex/internal/models"
)

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry(DefaultConfigs(), testLogger())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	for _, p := range models.AllPlatforms() {
		m, err := r.Model(p)
		if err != nil {
			t.Fatalf("Model(%s): %v", p, err)
		}
		if m.Platform() != p {
			t.Errorf("model for %s reports platform %s", p, m.Platform())
		}
	}
}

func TestRegistryUnsupportedPlatform(t *testing.T) {
	r, err := NewRegistry(DefaultConfigs(), testLogger())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	_, err = r.Model(models.Platform("myspace"))
	if !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("got %v, want ErrUnsupportedPlatform", err)
	}
}

func TestNewRegistryRejectsInvalidConfig(t *testing.T) {
	cfgs := DefaultConfigs()
	cfgs[models.PlatformTwitter].Thresholds.Viral = 10

	if _, err := NewRegistry(cfgs, testLogger()); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestNewRegistryRejectsUnknownPlatformConfig(t *testing.T) {
	cfgs := map[models.Platform]*ModelConfig{
		models.Platform("myspace"): DefaultConfigs()[models.PlatformTwitter],
	}

	_, err := NewRegistry(cfgs, testLogger())
	if !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("got %v, want ErrUnsupportedPlatform", err)
	}
}

func TestRegistryPlatformsSorted(t *testing.T) {
	r, err := NewRegistry(DefaultConfigs(), testLogger())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	got := r.Platforms()
	want := []models.Platform{models.PlatformInstagram, models.PlatformTikTok, models.PlatformTwitter}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRegistryStates(t *testing.T) {
	r, err := NewRegistry(DefaultConfigs(), testLogger())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	m, _ := r.Model(models.PlatformTikTok)
	m.MarkTrained(0.75)

	states := r.States()
	if len(states) != 3 {
		t.Fatalf("got %d states, want 3", len(states))
	}
	if states[models.PlatformTikTok].Version != 1 {
		t.Errorf("tiktok version = %d, want 1", states[models.PlatformTikTok].Version)
	}
	if states[models.PlatformTwitter].Version != 0 {
		t.Errorf("twitter version = %d, want 0", states[models.PlatformTwitter].Version)
	}
}

func TestRegistryWithClock(t *testing.T) {
	epoch := time.Date(2026, time.June, 3, 8, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(epoch)

	r, err := NewRegistry(DefaultConfigs(), testLogger(), WithClock(clock))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	for _, p := range r.Platforms() {
		m, _ := r.Model(p)
		m.MarkTrained(0.5)
		if got := m.State().LastTrained; !got.Equal(epoch) {
			t.Errorf("%s last trained = %v, want the pinned %v", p, got, epoch)
		}
	}
}
