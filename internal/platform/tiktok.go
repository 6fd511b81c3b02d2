// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package platform

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/auspex/internal/content"
	"github.com/tomtom215/auspex/internal/models"
)

// TikTok scores content for the recommendation-driven video feed. Visual
// and engagement signals dominate: distribution is earned per post from
// the for-you page, so completion and interaction matter far more than
// follower count.
//
// Platform adjustments on top of the shared components:
//   - Content without video keeps only a fraction of its visual score;
//     the feed is a video surface.
//   - Riding an accelerating trend adds engagement score proportional to
//     the measured momentum.
type TikTok struct {
	BaseModel
}

var _ Model = (*TikTok)(nil)

// NewTikTok creates the TikTok model.
func NewTikTok(cfg *ModelConfig, trends TrendSource, logger *zerolog.Logger) *TikTok {
	return &TikTok{BaseModel: newBaseModel(models.PlatformTikTok, cfg, trends, logger)}
}

// Predict scores a feature vector for TikTok.
func (m *TikTok) Predict(ctx context.Context, f *content.ContentFeatures, meta ContentMeta) (*ModelPrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cs := baseComponents(f)
	if !f.HasVideo {
		cs.Visual *= 0.3
	}
	cs.Engagement = clamp100(cs.Engagement + 12*f.TrendMomentum)
	return m.compose(f, meta, cs), nil
}
