// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package explain

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tomtom215/auspex/internal/content"
	"github.com/tomtom215/auspex/internal/models"
	"github.com/tomtom215/auspex/internal/platform"
)

func testExplainer(t *testing.T) (*Explainer, clockwork.Clock) {
	t.Helper()
	logger := zerolog.Nop()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC))
	return New(&logger, WithClock(clock)), clock
}

func TestExplainNeutralPost(t *testing.T) {
	t.Parallel()

	e, clock := testExplainer(t)
	pred := &platform.ModelPrediction{ViralScore: 37.13}

	ex, err := e.Explain(context.Background(), pred, content.NeutralFeatures(), models.PlatformTwitter, Options{})
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}

	if ex.DetailLevel != models.DetailStandard {
		t.Errorf("detail level = %q, want standard default", ex.DetailLevel)
	}
	if ex.Audience != models.AudienceIntermediate {
		t.Errorf("audience = %q, want intermediate default", ex.Audience)
	}
	if got, want := len(ex.Factors), models.DetailStandard.FactorBudget(); got != want {
		t.Fatalf("factor count = %d, want %d", got, want)
	}
	if ex.Factors[0].Factor != "emotional_resonance" {
		t.Errorf("top factor = %q, want emotional_resonance", ex.Factors[0].Factor)
	}
	if !strings.Contains(ex.Summary, "low performance on twitter") {
		t.Errorf("summary = %q, want the low tier named", ex.Summary)
	}
	if !strings.Contains(ex.Summary, "emotional resonance") {
		t.Errorf("summary = %q, want the top drag named", ex.Summary)
	}
	if !strings.Contains(ex.Summary, "creator reach") {
		t.Errorf("summary = %q, want the top lift named", ex.Summary)
	}
	if ex.Narrative == "" {
		t.Error("narrative is empty")
	}
	if len(ex.WhatIf) != 0 {
		t.Errorf("what-if scenarios present without IncludeWhatIf: %v", ex.WhatIf)
	}
	if !ex.GeneratedAt.Equal(clock.Now().UTC()) {
		t.Errorf("GeneratedAt = %v, want clock time %v", ex.GeneratedAt, clock.Now().UTC())
	}
}

func TestExplainDetailLevelsAgreeOnOrder(t *testing.T) {
	t.Parallel()

	e, _ := testExplainer(t)
	pred := &platform.ModelPrediction{ViralScore: 52}
	features := content.NeutralFeatures()

	brief, err := e.Explain(context.Background(), pred, features, models.PlatformTwitter,
		Options{DetailLevel: models.DetailBrief})
	if err != nil {
		t.Fatalf("Explain brief: %v", err)
	}
	full, err := e.Explain(context.Background(), pred, features, models.PlatformTwitter,
		Options{DetailLevel: models.DetailComprehensive})
	if err != nil {
		t.Fatalf("Explain comprehensive: %v", err)
	}

	if len(brief.Factors) != 3 {
		t.Fatalf("brief factor count = %d, want 3", len(brief.Factors))
	}
	if len(full.Factors) != 12 {
		t.Fatalf("comprehensive factor count = %d, want 12", len(full.Factors))
	}
	for i, f := range brief.Factors {
		if full.Factors[i].Factor != f.Factor {
			t.Errorf("rank %d: brief %q vs comprehensive %q", i, f.Factor, full.Factors[i].Factor)
		}
	}
}

func TestExplainInputErrors(t *testing.T) {
	t.Parallel()

	e, _ := testExplainer(t)
	ctx := context.Background()
	features := content.NeutralFeatures()
	pred := &platform.ModelPrediction{ViralScore: 50}

	if _, err := e.Explain(ctx, nil, features, models.PlatformTwitter, Options{}); !errors.Is(err, ErrNoPrediction) {
		t.Errorf("nil prediction error = %v, want ErrNoPrediction", err)
	}
	if _, err := e.Explain(ctx, pred, nil, models.PlatformTwitter, Options{}); !errors.Is(err, ErrNoFeatures) {
		t.Errorf("nil features error = %v, want ErrNoFeatures", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := e.Explain(cancelled, pred, features, models.PlatformTwitter, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context error = %v, want context.Canceled", err)
	}
}

func TestRecommendationsPrioritizedByWeightedImpact(t *testing.T) {
	t.Parallel()

	e, _ := testExplainer(t)
	f := content.NeutralFeatures()
	f.MediaRichness = 0    // impact -0.5 at weight 0.12
	f.OverallQuality = 0.1 // impact -0.5 at weight 0.10

	recs := e.Recommendations(f, 2)
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0] != "Attach a short captioned video or a multi-image set" {
		t.Errorf("recs[0] = %q, want the media remediation first", recs[0])
	}
	if recs[1] != "Rewrite the opening line and cut filler phrases to raise writing quality" {
		t.Errorf("recs[1] = %q, want the text quality remediation second", recs[1])
	}
}

func TestRecommendationsGenericFill(t *testing.T) {
	t.Parallel()

	e, _ := testExplainer(t)

	// Neutral features leave four actionable negatives; the fifth slot
	// falls through to generic advice.
	recs := e.Recommendations(content.NeutralFeatures(), 5)
	if len(recs) != 5 {
		t.Fatalf("got %d recommendations, want 5", len(recs))
	}
	if recs[4] != genericAdvice[0] {
		t.Errorf("recs[4] = %q, want the first generic entry", recs[4])
	}
	head := map[string]bool{recs[0]: true, recs[1]: true}
	if !head["Lead with the feeling: surprise, joy, or stakes in the first sentence"] ||
		!head["Fold one current trending topic into the text or tags"] {
		t.Errorf("first two recommendations = %v, want the emotional and trending remediations", recs[:2])
	}

	if got := e.Recommendations(nil, 5); len(got) != len(genericAdvice) {
		t.Errorf("nil features yielded %d recommendations, want %d generics", len(got), len(genericAdvice))
	}
}

func TestWhatIfScenarios(t *testing.T) {
	t.Parallel()

	e, _ := testExplainer(t)
	ex, err := e.Explain(context.Background(),
		&platform.ModelPrediction{ViralScore: 40},
		content.NeutralFeatures(), models.PlatformTwitter,
		Options{IncludeWhatIf: true})
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}

	if len(ex.WhatIf) != maxWhatIfScenarios {
		t.Fatalf("got %d scenarios, want %d", len(ex.WhatIf), maxWhatIfScenarios)
	}

	// trending 0.12*(0.8-0)=9.6, media 0.12*(1-0.5)=6, emotional 0.08*(0.7-0)=5.6
	want := []struct {
		change string
		delta  float64
	}{
		{"Tie the post to one trending topic", 9.6},
		{"Attach a short captioned video", 6},
		{"Add a clear emotional hook", 5.6},
	}
	for i, w := range want {
		if ex.WhatIf[i].Change != w.change {
			t.Errorf("scenario %d change = %q, want %q", i, ex.WhatIf[i].Change, w.change)
		}
		if math.Abs(ex.WhatIf[i].ProjectedDelta-w.delta) > 1e-9 {
			t.Errorf("scenario %d delta = %v, want %v", i, ex.WhatIf[i].ProjectedDelta, w.delta)
		}
		if ex.WhatIf[i].Rationale == "" {
			t.Errorf("scenario %d has no rationale", i)
		}
	}
}

func TestWhatIfSkipsSaturatedFactors(t *testing.T) {
	t.Parallel()

	f := content.NeutralFeatures()
	f.TrendingRelevance = 1
	f.MediaRichness = 1
	f.EmotionalIntensity = 1

	for _, s := range whatIfScenarios(f) {
		switch s.Change {
		case "Tie the post to one trending topic",
			"Attach a short captioned video",
			"Add a clear emotional hook":
			t.Errorf("saturated factor still produced scenario %q", s.Change)
		}
		if s.ProjectedDelta < minWhatIfDelta {
			t.Errorf("scenario %q delta %v below the floor", s.Change, s.ProjectedDelta)
		}
	}
}
