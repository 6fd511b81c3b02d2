// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

/*
Package cache provides thread-safe caching and the supporting data structures
used across the prediction pipeline.

The package has three layers:

 1. Value caches: a TTL map cache (Cache) and an LFU cache (LFUCache), both
    behind the Cacher interface, plus a Redis-backed Remote for deployments
    that share a prediction cache across replicas.
 2. Deduplication: an LRU seen-set for outcome ingestion, plus Bloom
    filter, exact LRU, and the combined BloomLRU behind the
    DeduplicationCache interface for dropping redelivered events cheaply.
 3. Analytic structures: Aho-Corasick matching for trending phrase and
    engagement signal detection, tries for hashtag prefix suggestions,
    Fenwick trees for score distributions, and sliding windows for
    observation rates.

# Prediction Caching

The engine caches completed predictions keyed by a content fingerprint so a
resubmitted draft returns instantly:

	c := cache.New(time.Hour)

	key := cache.GenerateKey("predict", fingerprint)
	if cached, ok := c.Get(key); ok {
	    return cached.(*ViralPrediction), nil
	}

	prediction, err := runPipeline(ctx, req)
	if err != nil {
	    return nil, err
	}
	c.Set(key, prediction)

GenerateKey serializes the parameters with JSON and hashes them, so any
field change (text, platform, hashtags, follower count) produces a new key.

# Choosing a Cache

	Cache (TTL):   uniform access, optional entry bound, expiry-ordered eviction
	LFUCache:      hot-set access, bounded by capacity, better hit rates
	RedisCache:    shared across replicas, survives restarts

The NewCacher factory selects between TTL and LFU from configuration. The
Remote interface is separate because it carries context and byte values;
callers marshal domain types before storing.

# Deduplication

Training ingestion sees the same outcome submitted more than once (client
retries, replayed events). The dedup caches answer "have I seen this key in
the window" in O(1):

	dedup := cache.NewBloomLRU(10000, time.Hour, 0.01)

	if dedup.IsDuplicate(eventID) {
	    return nil // already processed
	}

BloomLRU trades ~1% false positives for a smaller hot path, which is fine
for redelivery suppression. The outcome event consumer uses BloomLRU;
outcome recording itself dedupes on prediction ID with the plain LRUCache,
where a false positive would silently drop data.

# Analytic Structures

The feature extractor and trend table lean on the remaining structures:

	AhoCorasick         trending phrase scan over post text, O(n) per post
	TextSignalDetector  call-to-action / urgency / curiosity phrase families
	Trie                hashtag prefix suggestions
	FenwickTree         viral score distribution, percentile rank queries
	SlidingWindowStore  hashtag observation counts in a rolling window
	UniqueValueCounter  distinct hashtags seen in a rolling window

All structures are safe for concurrent use.

# Thread Safety

Every exported type in this package guards its state with a sync.RWMutex or
sync.Mutex. Read-heavy paths (Get, Search, Autocomplete, Count) take read
locks where the structure allows it.

# Limitations

The in-process caches are intentionally simple:

  - Cache evicts by closest expiry when bounded; use LFUCache when the
    access pattern is skewed
  - BloomFilter cannot remove items (pair it with an LRU for expiry)
  - Sliding windows are approximate at bucket boundaries

# See Also

  - internal/engine: prediction cache
  - internal/content: trend matching and signal detection
  - internal/training: outcome deduplication and quality percentiles
  - internal/events: redelivered event deduplication
*/
package cache
