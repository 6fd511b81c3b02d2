// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package platform

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/tomtom215/auspex/internal/content"
	"github.com/tomtom215/auspex/internal/models"
)

// stubTrends serves a fixed snapshot for every platform.
type stubTrends struct {
	snap *content.TrendingSnapshot
}

func (s stubTrends) TrendingSnapshot(models.Platform) *content.TrendingSnapshot {
	return s.snap
}

func testSnapshot() *content.TrendingSnapshot {
	return &content.TrendingSnapshot{
		Platform: models.PlatformTwitter,
		Topics: []content.TrendingTopic{
			{Topic: "breaking news", Weight: 0.85, Source: "seed"},
			{Topic: "ai", Weight: 0.80, Source: "seed"},
			{Topic: "crypto", Weight: 0.65, Source: "seed"},
			{Topic: "golangconf", Weight: 0.50, Source: "observed"},
			{Topic: "gopher", Weight: 0.45, Source: "observed"},
		},
	}
}

func TestAnalyzeHashtagStrategy(t *testing.T) {
	m := NewTwitter(DefaultConfigs()[models.PlatformTwitter], stubTrends{snap: testSnapshot()}, testLogger())

	strat, err := m.AnalyzeHashtagStrategy(context.Background(), content.NeutralFeatures(),
		[]string{"AI", "#golang", "obscuretagxyz"})
	if err != nil {
		t.Fatalf("AnalyzeHashtagStrategy: %v", err)
	}

	if strat.Platform != models.PlatformTwitter {
		t.Errorf("platform = %s", strat.Platform)
	}
	if strat.RecommendedMin != 1 || strat.RecommendedMax != 2 {
		t.Errorf("recommended band = %d-%d, want 1-2", strat.RecommendedMin, strat.RecommendedMax)
	}
	if len(strat.Assessments) != 3 {
		t.Fatalf("got %d assessments, want 3", len(strat.Assessments))
	}

	ai := strat.Assessments[0]
	if ai.Tag != "ai" || !ai.Trending {
		t.Errorf("first assessment = %+v, want trending tag ai", ai)
	}
	if math.Abs(ai.Reach-0.9) > 1e-9 {
		t.Errorf("ai reach = %.4f, want 0.9", ai.Reach)
	}
	if ai.Competition != 1 {
		t.Errorf("ai competition = %.4f, want clamped 1", ai.Competition)
	}

	golang := strat.Assessments[1]
	if golang.Tag != "golang" || golang.Trending {
		t.Errorf("second assessment = %+v, want non-trending golang", golang)
	}
	if math.Abs(golang.Reach-0.45) > 1e-9 {
		t.Errorf("golang reach = %.4f, want 0.45", golang.Reach)
	}
	if math.Abs(golang.Competition-0.70) > 1e-9 {
		t.Errorf("golang competition = %.4f, want 0.70", golang.Competition)
	}

	long := strat.Assessments[2]
	if math.Abs(long.Competition-0.525) > 1e-9 {
		t.Errorf("long tag competition = %.4f, want 0.525", long.Competition)
	}
}

func TestHashtagSuggestions(t *testing.T) {
	m := NewTwitter(DefaultConfigs()[models.PlatformTwitter], stubTrends{snap: testSnapshot()}, testLogger())

	strat, err := m.AnalyzeHashtagStrategy(context.Background(), content.NeutralFeatures(),
		[]string{"ai", "golang"})
	if err != nil {
		t.Fatalf("AnalyzeHashtagStrategy: %v", err)
	}

	// Prefix-adjacent match first ("golang" -> "golangconf"), then the
	// heaviest single-word trending tags; "breaking news" is skipped as a
	// multi-word topic and "ai" as already submitted.
	want := []string{"golangconf", "crypto", "gopher"}
	if len(strat.Suggestions) != len(want) {
		t.Fatalf("suggestions = %v, want %v", strat.Suggestions, want)
	}
	for i := range want {
		if strat.Suggestions[i] != want[i] {
			t.Fatalf("suggestions = %v, want %v", strat.Suggestions, want)
		}
	}
}

func TestHashtagStrategyNotes(t *testing.T) {
	m := NewTwitter(DefaultConfigs()[models.PlatformTwitter], stubTrends{snap: testSnapshot()}, testLogger())
	ctx := context.Background()

	t.Run("over the band", func(t *testing.T) {
		strat, err := m.AnalyzeHashtagStrategy(ctx, content.NeutralFeatures(), []string{"ai", "go", "dev"})
		if err != nil {
			t.Fatalf("AnalyzeHashtagStrategy: %v", err)
		}
		if len(strat.Notes) != 1 || !strings.Contains(strat.Notes[0], "More hashtags") {
			t.Errorf("notes = %v, want a band warning", strat.Notes)
		}
	})

	t.Run("no tags", func(t *testing.T) {
		strat, err := m.AnalyzeHashtagStrategy(ctx, content.NeutralFeatures(), nil)
		if err != nil {
			t.Fatalf("AnalyzeHashtagStrategy: %v", err)
		}
		if len(strat.Assessments) != 0 {
			t.Errorf("assessments = %v, want none", strat.Assessments)
		}
		if len(strat.Notes) != 1 || !strings.Contains(strat.Notes[0], "No hashtags") {
			t.Errorf("notes = %v, want a no-hashtags note", strat.Notes)
		}
	})

	t.Run("none trending", func(t *testing.T) {
		strat, err := m.AnalyzeHashtagStrategy(ctx, content.NeutralFeatures(), []string{"kayaking"})
		if err != nil {
			t.Fatalf("AnalyzeHashtagStrategy: %v", err)
		}
		found := false
		for _, n := range strat.Notes {
			if strings.Contains(n, "currently trending") {
				found = true
			}
		}
		if !found {
			t.Errorf("notes = %v, want a none-trending note", strat.Notes)
		}
	})

	t.Run("mirror trending body text", func(t *testing.T) {
		f := content.NeutralFeatures()
		f.CurrentEventsRelevance = 0.6
		strat, err := m.AnalyzeHashtagStrategy(ctx, f, []string{"ai"})
		if err != nil {
			t.Fatalf("AnalyzeHashtagStrategy: %v", err)
		}
		found := false
		for _, n := range strat.Notes {
			if strings.Contains(n, "mirror one as a hashtag") {
				found = true
			}
		}
		if !found {
			t.Errorf("notes = %v, want a mirror suggestion", strat.Notes)
		}
	})
}

func TestAnalyzeHashtagStrategyWithoutTrendSource(t *testing.T) {
	m := NewTwitter(DefaultConfigs()[models.PlatformTwitter], nil, testLogger())

	strat, err := m.AnalyzeHashtagStrategy(context.Background(), content.NeutralFeatures(), []string{"ai"})
	if err != nil {
		t.Fatalf("AnalyzeHashtagStrategy: %v", err)
	}
	if len(strat.Suggestions) != 0 {
		t.Errorf("suggestions = %v, want none without a trend source", strat.Suggestions)
	}
	a := strat.Assessments[0]
	if a.Trending {
		t.Error("tag cannot be trending without a trend source")
	}
	// Two runes falls outside the findable length band.
	if math.Abs(a.Reach-0.25) > 1e-9 {
		t.Errorf("reach = %.4f, want 0.25", a.Reach)
	}
}

func TestAnalyzeHashtagStrategyCancelledContext(t *testing.T) {
	m := NewTwitter(DefaultConfigs()[models.PlatformTwitter], nil, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.AnalyzeHashtagStrategy(ctx, content.NeutralFeatures(), []string{"ai"}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestNormalizeTags(t *testing.T) {
	got := normalizeTags([]string{" #Go ", "go", "", "  ", "AI", "#", "Go"})
	want := []string{"go", "ai"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
