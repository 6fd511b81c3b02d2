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

// Twitter scores content for the conversation-driven feed. Text and
// social signals carry half the weight: the platform rewards commentary
// on live events far more than production quality.
//
// Platform adjustments on top of the shared components:
//   - Breaking-news content gets a social bonus; news velocity is the
//     platform's strongest distribution channel.
//   - Posts with external links lose engagement score; the feed
//     deprioritizes content that sends users off-platform.
type Twitter struct {
	BaseModel
}

var _ Model = (*Twitter)(nil)

// NewTwitter creates the Twitter model. A nil trends source disables
// trending-aware hashtag suggestions but not scoring.
func NewTwitter(cfg *ModelConfig, trends TrendSource, logger *zerolog.Logger) *Twitter {
	return &Twitter{BaseModel: newBaseModel(models.PlatformTwitter, cfg, trends, logger)}
}

// Predict scores a feature vector for Twitter.
func (m *Twitter) Predict(ctx context.Context, f *content.ContentFeatures, meta ContentMeta) (*ModelPrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cs := baseComponents(f)
	if f.BreakingNewsFlag {
		cs.Social = clamp100(cs.Social + 12)
	}
	if f.URLCount > 0 {
		cs.Engagement = clamp100(cs.Engagement - 8)
	}
	return m.compose(f, meta, cs), nil
}
