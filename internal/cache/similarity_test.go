// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/sakesensei/internal/metrics"
)

func TestSimilarityLRU(t *testing.T) {
	ctx := context.Background()
	c := NewSimilarityLRU(10, time.Minute)

	hitsBefore := testutil.ToFloat64(metrics.SimilarityCacheHits.WithLabelValues(backendLRU))
	missesBefore := testutil.ToFloat64(metrics.SimilarityCacheMisses.WithLabelValues(backendLRU))

	if _, ok := c.Get(ctx, "usim:u1:u2:a:b"); ok {
		t.Fatal("Get() on empty cache should miss")
	}

	c.Set(ctx, "usim:u1:u2:a:b", 0.75)
	got, ok := c.Get(ctx, "usim:u1:u2:a:b")
	if !ok || got != 0.75 {
		t.Errorf("Get() = %f, %v, want 0.75, true", got, ok)
	}

	if d := testutil.ToFloat64(metrics.SimilarityCacheHits.WithLabelValues(backendLRU)) - hitsBefore; d != 1 {
		t.Errorf("hits delta = %f, want 1", d)
	}
	if d := testutil.ToFloat64(metrics.SimilarityCacheMisses.WithLabelValues(backendLRU)) - missesBefore; d != 1 {
		t.Errorf("misses delta = %f, want 1", d)
	}
}

func TestSimilarityLRU_NegativeAndZeroValues(t *testing.T) {
	ctx := context.Background()
	c := NewSimilarityLRU(10, time.Minute)

	for key, v := range map[string]float64{"zero": 0, "negative": -0.4} {
		c.Set(ctx, key, v)
		got, ok := c.Get(ctx, key)
		if !ok || got != v {
			t.Errorf("Get(%q) = %f, %v, want %f, true", key, got, ok, v)
		}
	}
}

func TestSimilarityLRU_CleanupExpired(t *testing.T) {
	clock := newFakeClock()
	c := NewSimilarityLRU(10, time.Minute)
	c.lru.SetClock(clock.Now)

	c.Set(context.Background(), "a", 0.1)
	clock.Advance(2 * time.Minute)

	if removed := c.CleanupExpired(); removed != 1 {
		t.Errorf("CleanupExpired() = %d, want 1", removed)
	}
	if c.Stats().Size != 0 {
		t.Errorf("Size = %d, want 0", c.Stats().Size)
	}
}
