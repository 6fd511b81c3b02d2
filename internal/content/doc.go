// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

/*
Package content extracts the feature vector that platform models score.

The Extractor turns a prediction request (post text, media metadata,
creator profile, platform) into a ContentFeatures vector of named
numeric signals. Counts are raw, scores live in [0, 1] except the
Flesch-based readability score in [0, 100], and booleans serialize as
0 or 1 through FeatureMap.

# Feature Groups

Eleven groups compute disjoint field sets and run concurrently per
request:

	text          length, word and sentence statistics, casing, punctuation
	linguistic    readability, lexical diversity, syllable complexity
	sentiment     polarity, subjectivity, eight emotion dimensions
	social        hashtag, mention, URL, and emoji counts
	engagement    call-to-action, urgency, curiosity hook signals
	platform_fit  length, hashtag, and media fit against platform bands
	media         video, accessibility, and richness signals
	timing        posting hour and weekday against platform peaks
	creator       influence, follower ratio, historical engagement
	quality       writing, clarity, and originality heuristics
	trending      trending overlap, momentum, seasonality

Each group starts from the neutral defaults in NeutralFeatures and
writes only its own fields, so missing input (no creator profile, no
media, empty trending table) degrades that group to neutral instead of
failing the request. A panicking heuristic is contained the same way.

# Determinism

Extraction is deterministic: the same request against the same trending
snapshot yields the same vector. There is no randomness anywhere in the
pipeline. Signals that would otherwise need external data are derived
from inputs Auspex already holds: mention influence is the log-scaled
mention count, and current-events relevance is token overlap with the
trending snapshot.

# Trending Table

The extractor owns a per-platform trending table seeded with evergreen
topics and overlaid with hashtags observed from recorded outcomes. A
background job calls RefreshTrending on an interval to rebuild the
snapshots and their Aho-Corasick matchers; extraction reads the current
snapshot without blocking on a refresh in progress.

# Real-Time Path

ExtractRealTime serves draft-as-you-type feedback. It computes only the
text, linguistic, engagement, platform-fit, and timing groups, leaving
the rest neutral, and touches no shared state.

# See Also

  - internal/platform: scores the extracted vector per platform
  - internal/explain: maps feature values to impact factors
  - internal/cache: the matching and windowing structures used here
*/
package content
