// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package content

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tomtom215/auspex/internal/models"
)

var testRefreshTime = time.Date(2026, 1, 6, 12, 0, 0, 0, time.UTC)

func newTestTable(t *testing.T) *trendingTable {
	t.Helper()
	clock := clockwork.NewFakeClockAt(testRefreshTime)
	return newTrendingTable(72*time.Hour, clock, zerolog.Nop())
}

func TestTrendingTable_EmptyBeforeRefresh(t *testing.T) {
	table := newTestTable(t)

	snap := table.Snapshot(models.PlatformTwitter)
	if snap.Platform != models.PlatformTwitter {
		t.Errorf("Platform = %q, want twitter", snap.Platform)
	}
	if len(snap.Topics) != 0 {
		t.Errorf("Topics = %d entries, want 0 before refresh", len(snap.Topics))
	}
	if table.matcher(models.PlatformTwitter) != nil {
		t.Error("matcher should be nil before the first refresh")
	}
}

func TestTrendingTable_SeedsAfterRefresh(t *testing.T) {
	table := newTestTable(t)
	if err := table.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	snap := table.Snapshot(models.PlatformTwitter)
	if len(snap.Topics) != len(seedTopics[models.PlatformTwitter]) {
		t.Errorf("Topics = %d, want %d seeds", len(snap.Topics), len(seedTopics[models.PlatformTwitter]))
	}
	if snap.Topics[0].Topic != "breaking news" {
		t.Errorf("top topic = %q, want %q", snap.Topics[0].Topic, "breaking news")
	}
	if got := snap.TopicWeight("ai"); got != 0.80 {
		t.Errorf("TopicWeight(ai) = %v, want 0.80", got)
	}
	if got := snap.TopicWeight("AI"); got != 0.80 {
		t.Errorf("TopicWeight(AI) = %v, want case-insensitive 0.80", got)
	}
	if !snap.RefreshedAt.Equal(testRefreshTime) {
		t.Errorf("RefreshedAt = %v, want %v", snap.RefreshedAt, testRefreshTime)
	}
	if table.matcher(models.PlatformTwitter) == nil {
		t.Error("matcher is nil after refresh")
	}
}

func TestTrendingTable_SortedByWeight(t *testing.T) {
	table := newTestTable(t)
	if err := table.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	for _, platform := range models.AllPlatforms() {
		snap := table.Snapshot(platform)
		for i := 1; i < len(snap.Topics); i++ {
			if snap.Topics[i].Weight > snap.Topics[i-1].Weight {
				t.Errorf("%s topics not sorted at %d: %v > %v",
					platform, i, snap.Topics[i].Weight, snap.Topics[i-1].Weight)
			}
		}
	}
}

func TestTrendingTable_ObservedTagsJoinTable(t *testing.T) {
	table := newTestTable(t)

	table.Observe(models.PlatformTwitter, []string{"golangconf"})
	table.Observe(models.PlatformTwitter, []string{"golangconf"})
	table.Observe(models.PlatformTwitter, []string{"golangconf", "oncetag"})

	if err := table.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	snap := table.Snapshot(models.PlatformTwitter)
	if got := snap.TopicWeight("golangconf"); math.Abs(got-0.9) > 1e-9 {
		t.Errorf("TopicWeight(golangconf) = %v, want 0.9 at max count", got)
	}
	// The hottest observed tag outranks every seed.
	if snap.Topics[0].Topic != "golangconf" {
		t.Errorf("top topic = %q, want golangconf", snap.Topics[0].Topic)
	}
	if snap.Topics[0].Source != "observed" {
		t.Errorf("top topic source = %q, want observed", snap.Topics[0].Source)
	}

	// A single observation stays below the inclusion threshold.
	if got := snap.TopicWeight("oncetag"); got != 0 {
		t.Errorf("TopicWeight(oncetag) = %v, want 0", got)
	}
	if snap.DistinctTags != 2 {
		t.Errorf("DistinctTags = %d, want 2", snap.DistinctTags)
	}
}

func TestTrendingTable_ObserveNormalizesTags(t *testing.T) {
	table := newTestTable(t)

	table.Observe(models.PlatformTwitter, []string{" GoLangConf ", "golangconf", ""})
	if err := table.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	snap := table.Snapshot(models.PlatformTwitter)
	if got := snap.TopicWeight("golangconf"); got == 0 {
		t.Error("case variants should count as one tag")
	}
	if snap.DistinctTags != 1 {
		t.Errorf("DistinctTags = %d, want 1", snap.DistinctTags)
	}
}

func TestTrendingTable_ObserveUnknownPlatform(t *testing.T) {
	table := newTestTable(t)
	// Must not panic.
	table.Observe(models.Platform("myspace"), []string{"tag"})
}

func TestTrendingTable_Momentum(t *testing.T) {
	table := newTestTable(t)

	table.Observe(models.PlatformTwitter, []string{"surge", "surge", "surge"})

	// All observations in the short window reads as full acceleration.
	if got := table.momentum(models.PlatformTwitter, "surge"); got != 1 {
		t.Errorf("momentum(surge) = %v, want 1", got)
	}
	if got := table.momentum(models.PlatformTwitter, "quiet"); got != 0 {
		t.Errorf("momentum(quiet) = %v, want 0", got)
	}
	if got := table.momentum(models.Platform("myspace"), "surge"); got != 0 {
		t.Errorf("momentum on unknown platform = %v, want 0", got)
	}
}

func TestExtractTrendingContext(t *testing.T) {
	table := newTestTable(t)
	if err := table.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	breaking := newBreakingMatcher()

	f := NeutralFeatures()
	sub := &models.ContentSubmission{
		Text:     "Thoughts on the elections tonight",
		Hashtags: []string{"ai"},
	}
	extractTrendingContext(f, sub, models.PlatformTwitter, testRefreshTime, table, breaking)

	wantTag := 0.80 / 1.5
	if math.Abs(f.TrendingRelevance-wantTag) > 1e-9 {
		t.Errorf("TrendingRelevance = %v, want %v", f.TrendingRelevance, wantTag)
	}
	wantText := 0.70 / 1.5
	if math.Abs(f.CurrentEventsRelevance-wantText) > 1e-9 {
		t.Errorf("CurrentEventsRelevance = %v, want %v", f.CurrentEventsRelevance, wantText)
	}
	if f.BreakingNewsFlag {
		t.Error("BreakingNewsFlag = true, want false")
	}
	if f.TrendMomentum != 0 {
		t.Errorf("TrendMomentum = %v, want 0 without observations", f.TrendMomentum)
	}
	// January.
	if f.SeasonalityScore != 0.50 {
		t.Errorf("SeasonalityScore = %v, want 0.50", f.SeasonalityScore)
	}
}

func TestExtractTrendingContext_WordBoundary(t *testing.T) {
	table := newTestTable(t)
	if err := table.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	breaking := newBreakingMatcher()

	f := NeutralFeatures()
	// "paid" and "emailing" contain "ai" but not as a word.
	sub := &models.ContentSubmission{Text: "emailing the team about paid plans"}
	extractTrendingContext(f, sub, models.PlatformTwitter, testRefreshTime, table, breaking)

	if f.CurrentEventsRelevance != 0 {
		t.Errorf("CurrentEventsRelevance = %v, want 0 for substring-only hits", f.CurrentEventsRelevance)
	}
}

func TestExtractTrendingContext_BreakingFlag(t *testing.T) {
	table := newTestTable(t)
	if err := table.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	breaking := newBreakingMatcher()

	f := NeutralFeatures()
	sub := &models.ContentSubmission{Text: "BREAKING: storm closes the harbor tonight"}
	extractTrendingContext(f, sub, models.PlatformTwitter, testRefreshTime, table, breaking)

	if !f.BreakingNewsFlag {
		t.Error("BreakingNewsFlag = false, want true")
	}
}

func TestExtractTrendingContext_Seasonality(t *testing.T) {
	table := newTestTable(t)
	breaking := newBreakingMatcher()

	f := NeutralFeatures()
	december := time.Date(2026, 12, 15, 10, 0, 0, 0, time.UTC)
	extractTrendingContext(f, &models.ContentSubmission{Text: "year in review"},
		models.PlatformTwitter, december, table, breaking)

	if f.SeasonalityScore != 0.75 {
		t.Errorf("SeasonalityScore = %v, want 0.75 in december", f.SeasonalityScore)
	}
}

func TestSeedTopics_CoverAllPlatforms(t *testing.T) {
	for _, platform := range models.AllPlatforms() {
		seeds := seedTopics[platform]
		if len(seeds) == 0 {
			t.Errorf("no seed topics for %s", platform)
		}
		for _, topic := range seeds {
			if topic.Weight <= 0 || topic.Weight > 1 {
				t.Errorf("%s seed %q weight %v outside (0,1]", platform, topic.Topic, topic.Weight)
			}
			if topic.Source != "seed" {
				t.Errorf("%s seed %q source = %q", platform, topic.Topic, topic.Source)
			}
		}
	}
}
