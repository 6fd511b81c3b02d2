// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package explain

import (
	"math"
	"testing"

	"github.com/tomtom215/auspex/internal/content"
)

func TestFactorSpecTableSanity(t *testing.T) {
	t.Parallel()

	if len(factorSpecs) < 12 {
		t.Fatalf("factor table has %d entries, want at least the comprehensive budget", len(factorSpecs))
	}

	seen := make(map[string]bool, len(factorSpecs))
	categories := map[string]bool{
		categoryContent: true, categoryTiming: true, categoryPlatform: true,
		categoryCreator: true, categorySocial: true,
	}
	for _, s := range factorSpecs {
		if seen[s.name] {
			t.Errorf("duplicate factor name %q", s.name)
		}
		seen[s.name] = true
		if !categories[s.category] {
			t.Errorf("factor %q has unknown category %q", s.name, s.category)
		}
		if s.weight <= 0 || s.weight > 1 {
			t.Errorf("factor %q weight %v out of range", s.name, s.weight)
		}
		if s.baseline < 0 || s.baseline > 1 {
			t.Errorf("factor %q baseline %v out of range", s.name, s.baseline)
		}
		if s.confidence <= 0 || s.confidence > 1 {
			t.Errorf("factor %q confidence %v out of range", s.name, s.confidence)
		}
		if s.value == nil || s.evidence == nil {
			t.Errorf("factor %q missing value or evidence func", s.name)
		}
		if s.positive == "" || s.negative == "" {
			t.Errorf("factor %q missing reading strings", s.name)
		}
		if s.whatIf != "" && (s.whatIfTarget <= 0 || s.whatIfTarget > 1) {
			t.Errorf("factor %q what-if target %v out of range", s.name, s.whatIfTarget)
		}
	}
}

func TestComputeFactorsNeutral(t *testing.T) {
	t.Parallel()

	factors := computeFactors(content.NeutralFeatures())
	if len(factors) != len(factorSpecs) {
		t.Fatalf("got %d factors, want %d", len(factors), len(factorSpecs))
	}

	want := map[string]float64{
		"text_quality":        -0.1,
		"readability":         -0.1,
		"emotional_resonance": -0.3,
		"media_richness":      0,
		"length_fit":          0,
		"format_fit":          0,
		"hashtag_fit":         0,
		"trending_alignment":  -0.2,
		"mention_leverage":    -0.2,
		"shareability":        0,
		"posting_time":        0,
		"seasonality":         0,
		"creator_reach":       0.1,
		"engagement_history":  0.1,
		"posting_consistency": 0,
	}
	for _, f := range factors {
		expected, ok := want[f.Factor]
		if !ok {
			t.Errorf("unexpected factor %q", f.Factor)
			continue
		}
		if math.Abs(f.Impact-expected) > 1e-9 {
			t.Errorf("factor %q impact = %v, want %v", f.Factor, f.Impact, expected)
		}
		if f.Impact < -1 || f.Impact > 1 {
			t.Errorf("factor %q impact %v outside [-1,1]", f.Factor, f.Impact)
		}
		if len(f.Evidence) == 0 {
			t.Errorf("factor %q has no evidence", f.Factor)
		}
		if f.Explanation == "" {
			t.Errorf("factor %q has no explanation", f.Factor)
		}
	}
}

func TestComputeFactorsSignSelectsReading(t *testing.T) {
	t.Parallel()

	f := content.NeutralFeatures()
	f.EmotionalIntensity = 0.9

	for _, factor := range computeFactors(f) {
		if factor.Factor != "emotional_resonance" {
			continue
		}
		if factor.Impact <= 0 {
			t.Fatalf("impact = %v, want positive", factor.Impact)
		}
		if factor.Explanation != "Strong emotional tone travels further" {
			t.Fatalf("explanation = %q, want the positive reading", factor.Explanation)
		}
		return
	}
	t.Fatal("emotional_resonance factor not found")
}

func TestRankFactorsNeutralOrder(t *testing.T) {
	t.Parallel()

	factors := computeFactors(content.NeutralFeatures())
	rankFactors(factors)

	// Magnitude descending, declaration order on ties: the lone -0.3
	// leads, the two -0.2 keep table order, then the four 0.1s.
	wantHead := []string{
		"emotional_resonance",
		"trending_alignment",
		"mention_leverage",
		"text_quality",
		"readability",
		"creator_reach",
		"engagement_history",
	}
	for i, name := range wantHead {
		if factors[i].Factor != name {
			t.Errorf("rank %d = %q, want %q", i, factors[i].Factor, name)
		}
	}
	for i := 1; i < len(factors); i++ {
		if math.Abs(factors[i].Impact) > math.Abs(factors[i-1].Impact)+1e-12 {
			t.Errorf("rank %d magnitude %v exceeds rank %d magnitude %v",
				i, math.Abs(factors[i].Impact), i-1, math.Abs(factors[i-1].Impact))
		}
	}
}

func TestComputeFactorsClampsWildValues(t *testing.T) {
	t.Parallel()

	f := content.NeutralFeatures()
	f.ReadabilityScore = 400 // value func divides by 100; clamp holds it at 1

	for _, factor := range computeFactors(f) {
		if factor.Factor != "readability" {
			continue
		}
		if math.Abs(factor.Impact-0.4) > 1e-9 {
			t.Fatalf("impact = %v, want 0.4 after clamping", factor.Impact)
		}
		return
	}
	t.Fatal("readability factor not found")
}

func TestFactorLabel(t *testing.T) {
	t.Parallel()

	if got := factorLabel("trending_alignment"); got != "trending alignment" {
		t.Errorf("factorLabel = %q", got)
	}
	if got := factorLabel("seasonality"); got != "seasonality" {
		t.Errorf("factorLabel = %q", got)
	}
}
