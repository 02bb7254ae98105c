// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/sakesensei/internal/metrics"
	"github.com/tomtom215/sakesensei/internal/recommend"
)

const backendRedis = "redis"

// RedisConfig configures the Redis similarity backend.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
	Timeout   time.Duration
}

// RedisSimilarity is a recommend.SimilarityCache shared between engine
// replicas. Entries expire through SET EX. Backend errors are logged,
// counted and reported to the engine as misses.
type RedisSimilarity struct {
	client  redis.Cmdable
	prefix  string
	ttl     time.Duration
	timeout time.Duration
	logger  zerolog.Logger
}

var _ recommend.SimilarityCache = (*RedisSimilarity)(nil)

// NewRedisClient opens a client and verifies connectivity.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRedisSimilarity wraps client as a similarity cache.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRedisSimilarity(client redis.Cmdable, cfg RedisConfig, logger zerolog.Logger) *RedisSimilarity {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 50 * time.Millisecond
	}
	return &RedisSimilarity{
		client:  client,
		prefix:  cfg.KeyPrefix,
		ttl:     ttl,
		timeout: timeout,
		logger:  logger.With().Str("component", "similarity_cache").Str("backend", backendRedis).Logger(),
	}
}

// Get implements recommend.SimilarityCache.
func (r *RedisSimilarity) Get(ctx context.Context, key string) (float64, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	v, err := r.client.Get(ctx, r.prefix+key).Float64()
	switch {
	case err == nil:
		metrics.SimilarityCacheHits.WithLabelValues(backendRedis).Inc()
		return v, true
	case errors.Is(err, redis.Nil):
		metrics.SimilarityCacheMisses.WithLabelValues(backendRedis).Inc()
	default:
		metrics.SimilarityCacheMisses.WithLabelValues(backendRedis).Inc()
		metrics.SimilarityCacheErrors.WithLabelValues(backendRedis, "get").Inc()
		r.logger.Debug().Err(err).Str("key", key).Msg("similarity cache get failed")
	}
	return 0, false
}

// Set implements recommend.SimilarityCache.
func (r *RedisSimilarity) Set(ctx context.Context, key string, value float64) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		metrics.SimilarityCacheErrors.WithLabelValues(backendRedis, "set").Inc()
		r.logger.Debug().Err(err).Str("key", key).Msg("similarity cache set failed")
	}
}
