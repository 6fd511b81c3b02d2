// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package platform

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/auspex/internal/cache"
	"github.com/tomtom215/auspex/internal/content"
	"github.com/tomtom215/auspex/internal/models"
)

// maxTagSuggestions caps the replacement suggestions per strategy.
const maxTagSuggestions = 5

// suggestPrefixLen is how many leading runes of a submitted tag seed the
// prefix search for adjacent trending tags.
const suggestPrefixLen = 3

// AnalyzeHashtagStrategy audits the submitted tags: per-tag reach and
// competition, the platform's ideal count band, and trending replacements
// found by prefix search over the current snapshot.
func (b *BaseModel) AnalyzeHashtagStrategy(ctx context.Context, f *content.ContentFeatures, hashtags []string) (*models.HashtagStrategy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tags := normalizeTags(hashtags)
	snap := b.snapshot()

	assessments := make([]models.HashtagAssessment, 0, len(tags))
	submitted := make(map[string]struct{}, len(tags))
	trendingCount := 0
	for _, tag := range tags {
		submitted[tag] = struct{}{}
		a := assessTag(tag, snap)
		if a.Trending {
			trendingCount++
		}
		assessments = append(assessments, a)
	}

	return &models.HashtagStrategy{
		Platform:       b.platform,
		Assessments:    assessments,
		RecommendedMin: b.cfg.HashtagMin,
		RecommendedMax: b.cfg.HashtagMax,
		Suggestions:    suggestTags(snap, tags, submitted),
		Notes:          b.strategyNotes(f, len(tags), trendingCount),
	}, nil
}

// snapshot returns the platform's trending snapshot, or nil without a
// trend source.
func (b *BaseModel) snapshot() *content.TrendingSnapshot {
	if b.trends == nil {
		return nil
	}
	return b.trends.TrendingSnapshot(b.platform)
}

// assessTag scores one tag. Trending tags get their reach from the
// snapshot weight; the rest fall back to shape heuristics, where
// mid-length tags are findable without being drowned out.
func assessTag(tag string, snap *content.TrendingSnapshot) models.HashtagAssessment {
	a := models.HashtagAssessment{Tag: tag}
	runes := float64(utf8.RuneCountInString(tag))

	var weight float64
	if snap != nil {
		weight = snap.TopicWeight(tag)
	}
	if weight > 0 {
		a.Trending = true
		a.Reach = clamp01(0.5 + 0.5*weight)
		// Popularity cuts both ways: trending tags are crowded.
		a.Competition = clamp01(0.85 - 0.025*runes + 0.3*weight)
		return a
	}

	if runes >= 3 && runes <= 18 {
		a.Reach = 0.45
	} else {
		a.Reach = 0.25
	}
	a.Competition = clamp01(0.85 - 0.025*runes)
	return a
}

// suggestTags proposes trending replacements: prefix-adjacent matches to
// the submitted tags first (the easiest swaps), then the heaviest
// remaining trending tags. Multi-word topics are skipped since they
// cannot be used as hashtags directly.
func suggestTags(snap *content.TrendingSnapshot, tags []string, submitted map[string]struct{}) []string {
	if snap == nil || len(snap.Topics) == 0 {
		return nil
	}

	trie := cache.NewTrie()
	ordered := make([]string, 0, len(snap.Topics))
	for _, t := range snap.Topics {
		if strings.ContainsRune(t.Topic, ' ') {
			continue
		}
		if _, ok := submitted[t.Topic]; ok {
			continue
		}
		trie.InsertWithData(t.Topic, t.Weight)
		ordered = append(ordered, t.Topic)
	}

	seen := make(map[string]struct{}, maxTagSuggestions)
	out := make([]string, 0, maxTagSuggestions)
	add := func(tag string) {
		if _, ok := seen[tag]; ok || len(out) >= maxTagSuggestions {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	for _, tag := range tags {
		r := []rune(tag)
		if len(r) < suggestPrefixLen {
			continue
		}
		for _, res := range trie.Autocomplete(string(r[:suggestPrefixLen])) {
			add(res.Value)
		}
	}
	for _, topic := range ordered {
		add(topic)
	}
	return out
}

// strategyNotes emits band warnings and trend alignment advice.
func (b *BaseModel) strategyNotes(f *content.ContentFeatures, count, trendingCount int) []string {
	var notes []string
	lo, hi := b.cfg.HashtagMin, b.cfg.HashtagMax
	switch {
	case count == 0:
		notes = append(notes, fmt.Sprintf("No hashtags submitted; %s posts perform best with %d-%d", b.platform, lo, hi))
	case count < lo:
		notes = append(notes, fmt.Sprintf("Fewer hashtags than the ideal %d-%d band for %s", lo, hi, b.platform))
	case count > hi:
		notes = append(notes, fmt.Sprintf("More hashtags than the ideal %d-%d band; extra tags dilute ranking", lo, hi))
	}
	if count > 0 && trendingCount == 0 {
		notes = append(notes, "None of the submitted hashtags is currently trending")
	}
	if f != nil && f.CurrentEventsRelevance >= 0.5 {
		notes = append(notes, "Body text already references trending topics; mirror one as a hashtag")
	}
	return notes
}

// normalizeTags lowercases, strips '#' prefixes, and deduplicates while
// preserving input order.
func normalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		tag := strings.ToLower(strings.TrimSpace(t))
		tag = strings.TrimPrefix(tag, "#")
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
