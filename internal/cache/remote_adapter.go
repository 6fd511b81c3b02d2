// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package cache

import (
	"context"
	"sync/atomic"
	"time"
)

// Codec converts cached values to and from bytes for a Remote backend.
// The caller supplies one per value type, which keeps this package free
// of domain imports.
type Codec interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte) (interface{}, error)
}

// Flusher is implemented by Remote backends that can drop all keys.
// RedisCache flushes its dedicated logical database.
type Flusher interface {
	Flush(ctx context.Context) error
}

// remoteCacher adapts a byte-oriented Remote to the Cacher interface.
// Backend errors degrade to cache misses; a flaky Redis must never fail
// a prediction.
type remoteCacher struct {
	remote    Remote
	codec     Codec
	ttl       time.Duration
	opTimeout time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// remoteOpTimeout bounds each backend call. The Cacher interface is
// context-free, so the adapter supplies its own deadline.
const remoteOpTimeout = 2 * time.Second

// NewRemoteCacher wraps a Remote backend as a Cacher. Values round-trip
// through the codec; ttl applies to Set.
func NewRemoteCacher(remote Remote, codec Codec, ttl time.Duration) Cacher {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &remoteCacher{
		remote:    remote,
		codec:     codec,
		ttl:       ttl,
		opTimeout: remoteOpTimeout,
	}
}

func (c *remoteCacher) Get(key string) (interface{}, bool) {
	ctx, cancel := c.opContext()
	defer cancel()

	data, found, err := c.remote.GetBytes(ctx, key)
	if err != nil || !found {
		c.misses.Add(1)
		return nil, false
	}
	v, err := c.codec.Unmarshal(data)
	if err != nil {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return v, true
}

func (c *remoteCacher) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

func (c *remoteCacher) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	data, err := c.codec.Marshal(value)
	if err != nil {
		return
	}
	ctx, cancel := c.opContext()
	defer cancel()
	_ = c.remote.SetBytes(ctx, key, data, ttl)
}

func (c *remoteCacher) Delete(key string) {
	ctx, cancel := c.opContext()
	defer cancel()
	_ = c.remote.DeleteKey(ctx, key)
}

func (c *remoteCacher) Clear() {
	flusher, ok := c.remote.(Flusher)
	if !ok {
		return
	}
	ctx, cancel := c.opContext()
	defer cancel()
	_ = flusher.Flush(ctx)
}

// GetStats reports hit and miss counts. Key counts live on the backend
// and are not tracked here.
func (c *remoteCacher) GetStats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

func (c *remoteCacher) HitRate() float64 {
	hits := c.hits.Load()
	total := hits + c.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

func (c *remoteCacher) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.opTimeout)
}
