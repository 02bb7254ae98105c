// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package cache

import (
	"context"
	"time"

	"github.com/tomtom215/sakesensei/internal/metrics"
	"github.com/tomtom215/sakesensei/internal/recommend"
)

const backendLRU = "lru"

// SimilarityLRU is an in-process recommend.SimilarityCache.
type SimilarityLRU struct {
	lru *LRU[float64]
}

var _ recommend.SimilarityCache = (*SimilarityLRU)(nil)

// NewSimilarityLRU creates an in-process similarity cache.
func NewSimilarityLRU(capacity int, ttl time.Duration) *SimilarityLRU {
	return &SimilarityLRU{lru: NewLRU[float64](capacity, ttl)}
}

// Get implements recommend.SimilarityCache.
func (s *SimilarityLRU) Get(_ context.Context, key string) (float64, bool) {
	v, ok := s.lru.Get(key)
	if ok {
		metrics.SimilarityCacheHits.WithLabelValues(backendLRU).Inc()
	} else {
		metrics.SimilarityCacheMisses.WithLabelValues(backendLRU).Inc()
	}
	return v, ok
}

// Set implements recommend.SimilarityCache.
func (s *SimilarityLRU) Set(_ context.Context, key string, value float64) {
	s.lru.Add(key, value)
}

// CleanupExpired sweeps expired similarities. It is called periodically by
// the janitor service.
func (s *SimilarityLRU) CleanupExpired() int {
	return s.lru.CleanupExpired()
}

// Stats returns the underlying LRU counters.
func (s *SimilarityLRU) Stats() LRUStats {
	return s.lru.Stats()
}
