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

// Instagram scores content for the visual-first feed. Visual quality
// carries triple the weight it does on Twitter, and the caption matters
// mostly through hashtags rather than prose.
//
// Platform adjustments on top of the shared components:
//   - Short vertical video gets a visual bonus; Reels receive priority
//     distribution over static formats.
//   - Posts with no media at all halve their visual score on top of the
//     content-type multiplier penalty.
type Instagram struct {
	BaseModel
}

var _ Model = (*Instagram)(nil)

// NewInstagram creates the Instagram model.
func NewInstagram(cfg *ModelConfig, trends TrendSource, logger *zerolog.Logger) *Instagram {
	return &Instagram{BaseModel: newBaseModel(models.PlatformInstagram, cfg, trends, logger)}
}

// Predict scores a feature vector for Instagram.
func (m *Instagram) Predict(ctx context.Context, f *content.ContentFeatures, meta ContentMeta) (*ModelPrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cs := baseComponents(f)
	if f.IsShortVideo {
		cs.Visual = clamp100(cs.Visual + 10)
	}
	if f.MediaCount == 0 && !f.HasVideo {
		cs.Visual *= 0.5
	}
	return m.compose(f, meta, cs), nil
}
