// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package content

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tomtom215/auspex/internal/cache"
	"github.com/tomtom215/auspex/internal/metrics"
	"github.com/tomtom215/auspex/internal/models"
)

// Trending table sizing. The observation windows trade memory for
// momentum resolution; topics beyond maxTrendingTopics carry too little
// weight to move a relevance score.
const (
	maxTrendingTopics  = 40
	maxObservedTags    = 10000
	minTagObservations = 2
	observedWeightCap  = 0.9
	windowBuckets      = 12
)

// TrendingTopic is one entry in a platform's trending snapshot.
type TrendingTopic struct {
	Topic  string  `json:"topic"`
	Weight float64 `json:"weight"` // [0,1]
	Source string  `json:"source"` // "seed" or "observed"
}

// TrendingSnapshot is an immutable view of one platform's trending
// topics. Refresh replaces the snapshot wholesale; readers never see a
// partially updated table.
type TrendingSnapshot struct {
	Platform     models.Platform `json:"platform"`
	Topics       []TrendingTopic `json:"topics"` // sorted by weight descending
	DistinctTags int             `json:"distinct_tags"`
	RefreshedAt  time.Time       `json:"refreshed_at"`
}

// TopicWeight returns the weight of a topic in the snapshot, or 0.
func (s *TrendingSnapshot) TopicWeight(topic string) float64 {
	topic = strings.ToLower(topic)
	for _, t := range s.Topics {
		if t.Topic == topic {
			return t.Weight
		}
	}
	return 0
}

// seedTopics are the evergreen per-platform baselines the trending
// table starts from. Observed hashtags from recorded outcomes overlay
// these on each refresh.
var seedTopics = map[models.Platform][]TrendingTopic{
	models.PlatformTwitter: {
		{Topic: "breaking news", Weight: 0.85, Source: "seed"},
		{Topic: "ai", Weight: 0.80, Source: "seed"},
		{Topic: "artificial intelligence", Weight: 0.75, Source: "seed"},
		{Topic: "elections", Weight: 0.70, Source: "seed"},
		{Topic: "open source", Weight: 0.65, Source: "seed"},
		{Topic: "crypto", Weight: 0.65, Source: "seed"},
		{Topic: "startup", Weight: 0.60, Source: "seed"},
		{Topic: "climate", Weight: 0.60, Source: "seed"},
		{Topic: "space launch", Weight: 0.55, Source: "seed"},
		{Topic: "tech layoffs", Weight: 0.55, Source: "seed"},
	},
	models.PlatformInstagram: {
		{Topic: "fitness", Weight: 0.80, Source: "seed"},
		{Topic: "travel", Weight: 0.75, Source: "seed"},
		{Topic: "recipe", Weight: 0.70, Source: "seed"},
		{Topic: "fashion", Weight: 0.70, Source: "seed"},
		{Topic: "skincare", Weight: 0.65, Source: "seed"},
		{Topic: "wellness", Weight: 0.60, Source: "seed"},
		{Topic: "home decor", Weight: 0.60, Source: "seed"},
		{Topic: "photography", Weight: 0.55, Source: "seed"},
		{Topic: "street food", Weight: 0.55, Source: "seed"},
		{Topic: "art", Weight: 0.50, Source: "seed"},
	},
	models.PlatformTikTok: {
		{Topic: "fyp", Weight: 0.85, Source: "seed"},
		{Topic: "dance challenge", Weight: 0.80, Source: "seed"},
		{Topic: "get ready with me", Weight: 0.75, Source: "seed"},
		{Topic: "storytime", Weight: 0.70, Source: "seed"},
		{Topic: "day in my life", Weight: 0.70, Source: "seed"},
		{Topic: "life hack", Weight: 0.65, Source: "seed"},
		{Topic: "recipe", Weight: 0.65, Source: "seed"},
		{Topic: "pov", Weight: 0.60, Source: "seed"},
		{Topic: "fitness challenge", Weight: 0.55, Source: "seed"},
		{Topic: "aesthetic", Weight: 0.55, Source: "seed"},
	},
}

// breakingPhrases mark time-critical news framing.
var breakingPhrases = []string{
	"breaking:", "breaking news", "just in", "developing story",
	"live updates", "happening now",
}

// trendingTable maintains per-platform trending snapshots. Writes
// happen on the refresh interval; reads are lock-held only long enough
// to copy a pointer, so extraction never blocks on a refresh.
type trendingTable struct {
	mu        sync.RWMutex
	snapshots map[models.Platform]*TrendingSnapshot
	matchers  map[models.Platform]*cache.PatternMatcher

	// Observation windows. longObs spans the decay window and drives
	// topic weights; shortObs spans a twelfth of it and drives momentum.
	longObs  map[models.Platform]*cache.SlidingWindowStore
	shortObs map[models.Platform]*cache.SlidingWindowStore
	distinct map[models.Platform]*cache.UniqueValueCounter

	longWindow  time.Duration
	shortWindow time.Duration
	clock       clockwork.Clock
	logger      zerolog.Logger
}

func newTrendingTable(decayWindow time.Duration, clock clockwork.Clock, logger zerolog.Logger) *trendingTable {
	if decayWindow <= 0 {
		decayWindow = 72 * time.Hour
	}
	shortWindow := decayWindow / 12
	if shortWindow < time.Hour {
		shortWindow = time.Hour
	}

	t := &trendingTable{
		snapshots:   make(map[models.Platform]*TrendingSnapshot),
		matchers:    make(map[models.Platform]*cache.PatternMatcher),
		longObs:     make(map[models.Platform]*cache.SlidingWindowStore),
		shortObs:    make(map[models.Platform]*cache.SlidingWindowStore),
		distinct:    make(map[models.Platform]*cache.UniqueValueCounter),
		longWindow:  decayWindow,
		shortWindow: shortWindow,
		clock:       clock,
		logger:      logger.With().Str("component", "trending-table").Logger(),
	}
	for _, p := range models.AllPlatforms() {
		t.longObs[p] = cache.NewSlidingWindowStore(decayWindow, windowBuckets, maxObservedTags)
		t.shortObs[p] = cache.NewSlidingWindowStore(shortWindow, windowBuckets, maxObservedTags)
		t.distinct[p] = cache.NewUniqueValueCounter(decayWindow, windowBuckets)
	}
	return t
}

// Observe records hashtags from a recorded outcome. Tags are lowercased
// and deduplicated by the caller (models.ContentSubmission.AllHashtags).
func (t *trendingTable) Observe(platform models.Platform, hashtags []string) {
	long, ok := t.longObs[platform]
	if !ok {
		return
	}
	short := t.shortObs[platform]
	uniq := t.distinct[platform]

	for _, tag := range hashtags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		long.Increment(tag)
		short.Increment(tag)
		uniq.Add(tag)
	}
}

// Refresh recomputes every platform's snapshot from the seed topics and
// the observed tag windows. Deterministic given the same observations.
func (t *trendingTable) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := t.clock.Now().UTC()

	fresh := make(map[models.Platform]*TrendingSnapshot, len(seedTopics))
	matchers := make(map[models.Platform]*cache.PatternMatcher, len(seedTopics))

	for _, platform := range models.AllPlatforms() {
		snap := t.buildSnapshot(platform, now)
		fresh[platform] = snap

		patterns := make(map[string]any, len(snap.Topics))
		for _, topic := range snap.Topics {
			patterns[topic.Topic] = topic.Weight
		}
		matchers[platform] = cache.NewPatternMatcher(patterns)

		metrics.TrendTopics.WithLabelValues(platform.String()).Set(float64(len(snap.Topics)))
	}

	t.mu.Lock()
	t.snapshots = fresh
	t.matchers = matchers
	t.mu.Unlock()

	metrics.TrendRefreshes.Inc()
	t.logger.Debug().Time("refreshed_at", now).Msg("Trending table refreshed")
	return nil
}

// buildSnapshot merges seeds with observed tags for one platform.
func (t *trendingTable) buildSnapshot(platform models.Platform, now time.Time) *TrendingSnapshot {
	weights := make(map[string]TrendingTopic)
	for _, seed := range seedTopics[platform] {
		weights[seed.Topic] = seed
	}

	long := t.longObs[platform]
	var maxCount int64
	tags := long.Keys()
	counts := make(map[string]int64, len(tags))
	for _, tag := range tags {
		c := long.Count(tag)
		counts[tag] = c
		if c > maxCount {
			maxCount = c
		}
	}

	for tag, count := range counts {
		if count < minTagObservations {
			continue
		}
		w := observedWeightCap * logScale(float64(count), float64(maxCount))
		if existing, ok := weights[tag]; !ok || w > existing.Weight {
			weights[tag] = TrendingTopic{Topic: tag, Weight: w, Source: "observed"}
		}
	}

	topics := make([]TrendingTopic, 0, len(weights))
	for _, topic := range weights {
		topics = append(topics, topic)
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Weight != topics[j].Weight {
			return topics[i].Weight > topics[j].Weight
		}
		return topics[i].Topic < topics[j].Topic
	})
	if len(topics) > maxTrendingTopics {
		topics = topics[:maxTrendingTopics]
	}

	return &TrendingSnapshot{
		Platform:     platform,
		Topics:       topics,
		DistinctTags: t.distinct[platform].CountUnique(),
		RefreshedAt:  now,
	}
}

// Snapshot returns the current snapshot for a platform, or an empty
// snapshot before the first refresh. The returned value is immutable.
func (t *trendingTable) Snapshot(platform models.Platform) *TrendingSnapshot {
	t.mu.RLock()
	snap := t.snapshots[platform]
	t.mu.RUnlock()

	if snap == nil {
		return &TrendingSnapshot{Platform: platform}
	}
	return snap
}

// matcher returns the topic matcher for a platform, or nil before the
// first refresh.
func (t *trendingTable) matcher(platform models.Platform) *cache.PatternMatcher {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.matchers[platform]
}

// momentum scores how fast a tag is accelerating: the short-window
// observation rate over the long-window rate, normalized so a tag
// running four times hotter than its baseline saturates at 1.
func (t *trendingTable) momentum(platform models.Platform, tag string) float64 {
	long, ok := t.longObs[platform]
	if !ok {
		return 0
	}
	tag = strings.ToLower(tag)

	longCount := long.Count(tag)
	shortCount := t.shortObs[platform].Count(tag)
	if shortCount == 0 {
		return 0
	}
	if longCount == 0 {
		return 1
	}

	longRate := float64(longCount) / t.longWindow.Hours()
	shortRate := float64(shortCount) / t.shortWindow.Hours()
	if longRate <= 0 {
		return 1
	}
	return clamp01(shortRate / longRate / 4)
}

// seasonalWeights by month. Engagement climbs through Q4 and dips after
// the holidays; values are platform-agnostic.
var seasonalWeights = [12]float64{
	0.50, // January
	0.50, // February
	0.55, // March
	0.60, // April
	0.60, // May
	0.65, // June
	0.65, // July
	0.60, // August
	0.60, // September
	0.65, // October
	0.70, // November
	0.75, // December
}

// extractTrendingContext fills the trending and context group from a
// snapshot read. The read is non-blocking against a possibly stale
// snapshot; staleness is bounded by the refresh interval.
func extractTrendingContext(f *ContentFeatures, sub *models.ContentSubmission, platform models.Platform, ref time.Time, table *trendingTable, breaking *cache.PatternMatcher) {
	snap := table.Snapshot(platform)
	lowerText := strings.ToLower(sub.Text)

	// Hashtag overlap with the trending set.
	var tagWeightSum float64
	matchedTags := make([]string, 0, 4)
	for _, tag := range sub.AllHashtags() {
		if w := snap.TopicWeight(tag); w > 0 {
			tagWeightSum += w
			matchedTags = append(matchedTags, tag)
		}
	}
	f.TrendingRelevance = clamp01(tagWeightSum / 1.5)

	// Body-text overlap with trending topic phrases. Boundary check
	// keeps short topics like "ai" from firing inside unrelated words.
	var textWeightSum float64
	if m := table.matcher(platform); m != nil {
		seen := make(map[string]struct{}, 4)
		for _, match := range m.Match(lowerText) {
			if !wordBoundaryMatch(lowerText, match) {
				continue
			}
			if _, dup := seen[match.Pattern]; dup {
				continue
			}
			seen[match.Pattern] = struct{}{}
			if w, ok := match.Data.(float64); ok {
				textWeightSum += w
			}
			matchedTags = append(matchedTags, match.Pattern)
		}
	}
	f.CurrentEventsRelevance = clamp01(textWeightSum / 1.5)

	// Momentum of the hottest matched topic.
	var peak float64
	for _, tag := range matchedTags {
		if m := table.momentum(platform, tag); m > peak {
			peak = m
		}
	}
	f.TrendMomentum = peak

	f.BreakingNewsFlag = breaking.Contains(lowerText) ||
		(f.CurrentEventsRelevance >= 0.5 && f.TrendMomentum >= 0.5)

	f.SeasonalityScore = seasonalWeights[ref.UTC().Month()-1]
}

// newBreakingMatcher builds the breaking-news phrase matcher once per
// extractor.
func newBreakingMatcher() *cache.PatternMatcher {
	return cache.NewPatternMatcherFromSlice(breakingPhrases, "breaking")
}

// wordBoundaryMatch reports whether a match sits on word boundaries in
// the (lowercased, ASCII-topic) text.
func wordBoundaryMatch(text string, m cache.Match) bool {
	start := m.Position
	end := start + len(m.Pattern)
	if start < 0 || end > len(text) {
		return false
	}
	if start > 0 && isWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
