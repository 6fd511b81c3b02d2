// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

/*
Package platform implements the per-platform scoring models.

Each supported platform (Twitter, Instagram, TikTok) gets one Model built
from an immutable ModelConfig. Models share a single pipeline and differ
only in their weight vectors, threshold bands, multiplier tables, and a
handful of platform adjustments, so tuning a platform means editing its
config rather than its code.

# Scoring Pipeline

Every prediction runs the same four stages over an extracted feature
vector:

 1. Blend the ~60 features into six component scores in [0,100]:
    visual, text, social, timing, engagement, creator.
 2. Combine the components with the platform's weight vector, which sums
    to 1.0, keeping the raw score in [0,100].
 3. Apply the content-type multiplier (short video outperforms text
    everywhere, but by platform-specific margins) and the context
    multiplier (trending relevance, breaking news, influencer mentions),
    capped at 2.0x, then clamp.
 4. Normalize through the platform's threshold bands (normalizeScore):
    a piecewise-linear, monotonic map where a banded score of 90+ always
    means the raw score cleared the viral threshold.

Confidence is computed from input completeness alone: creator stats,
engagement history, media metadata, hashtags, and a scheduled time each
add a fixed increment to the 0.5 base, capped at 0.95. The score never
feeds confidence, so a confidently predicted flop stays confident.

# Determinism

Scoring has no randomness and no network calls. Two identical feature
vectors produce identical predictions, including the engagement forecast,
whose formulas are documented on predictMetrics. The Model Runtime blend
and all I/O live in the engine layer above this package.

# Specialized Entry Points

AnalyzeHashtagStrategy audits submitted tags against the extractor's
trending snapshot (per-tag reach and competition, ideal count band,
prefix-searched replacement suggestions). PredictOptimalSchedule scores
all 24 UTC hours against the platform's audience peaks. Both reuse the
scoring primitives and return data types from internal/models.

# Thread Safety

Models are safe for concurrent use. Scoring reads only the immutable
config; the mutable training state (accuracy, version, last-trained) is
guarded by an RWMutex and updated only through MarkTrained and
SetAccuracy on the retraining and evaluation paths, plus RestoreState
when persisted state is rehydrated at startup.

# See Also

  - internal/content for feature extraction and the trending table.
  - internal/engine for caching, runtime blending, and fallbacks.
*/
package platform
