// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Remote is a byte-oriented cache backed by an external store.
// Implementations carry their own serialization-free contract: callers
// marshal values to bytes before Set and unmarshal after Get, which keeps
// the cache layer free of domain types.
//
// RedisCache is the production implementation. The engine falls back to
// the in-process Cacher when no remote backend is configured.
type Remote interface {
	// GetBytes retrieves a raw value. The bool reports whether the key
	// was present; a missing key is not an error.
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)

	// SetBytes stores a raw value with the given TTL. A non-positive TTL
	// falls back to the backend default.
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeleteKey removes a key. Deleting a missing key is not an error.
	DeleteKey(ctx context.Context, key string) error

	// Ping verifies the backend is reachable. Used by readiness probes.
	Ping(ctx context.Context) error

	// Close releases the underlying connection pool.
	Close() error
}

// RedisOptions configures a RedisCache.
type RedisOptions struct {
	// Addr is the host:port of the Redis server.
	Addr string

	// Password authenticates the connection. Empty for no auth.
	Password string

	// DB selects the logical Redis database.
	DB int

	// DialTimeout bounds the initial connection attempt.
	DialTimeout time.Duration

	// DefaultTTL applies when SetBytes receives a non-positive TTL.
	DefaultTTL time.Duration
}

// RedisCache is a Remote implementation backed by a single Redis server.
// Shared across replicas it gives a warm prediction cache after restarts,
// which an in-process cache cannot.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection with a ping.
// The returned cache is safe for concurrent use.
func NewRedis(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis cache: address is required")
	}

	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	ttl := opts.DefaultTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: dialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis cache: ping %s: %w", opts.Addr, err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// GetBytes retrieves a raw value from Redis.
// A missing key returns (nil, false, nil) so callers can treat it as a
// plain cache miss without inspecting the error.
func (r *RedisCache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis cache: get %q: %w", key, err)
	}

	return val, true, nil
}

// SetBytes stores a raw value with the given TTL.
func (r *RedisCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.ttl
	}

	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis cache: set %q: %w", key, err)
	}

	return nil
}

// DeleteKey removes a key from Redis.
func (r *RedisCache) DeleteKey(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis cache: delete %q: %w", key, err)
	}

	return nil
}

// Ping verifies the Redis server is reachable.
func (r *RedisCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis cache: ping: %w", err)
	}

	return nil
}

// Flush drops every key in the cache's logical database. The prediction
// cache gets a dedicated DB, so this never touches other data.
func (r *RedisCache) Flush(ctx context.Context) error {
	if err := r.client.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("redis cache: flush: %w", err)
	}

	return nil
}

// Close releases the connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Verify interface implementation at compile time
var _ Remote = (*RedisCache)(nil)
