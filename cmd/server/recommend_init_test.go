// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/tomtom215/sakesensei/internal/cache"
	"github.com/tomtom215/sakesensei/internal/config"
	"github.com/tomtom215/sakesensei/internal/recommend"
)

type emptySource struct{}

func (emptySource) GetUserPreferences(context.Context, string) (*recommend.PreferenceProfile, error) {
	return nil, recommend.ErrProfileNotFound
}

func (emptySource) GetTastingHistory(context.Context, string) ([]recommend.TastingRecord, error) {
	return nil, nil
}

func (emptySource) GetAllTastingRecords(context.Context, int) ([]recommend.TastingRecord, error) {
	return nil, nil
}

func (emptySource) GetCandidateCatalog(context.Context, recommend.CatalogFilter) ([]recommend.CatalogItem, error) {
	return nil, nil
}

func TestBuildSimilarityCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	t.Cleanup(mr.Close)

	tests := []struct {
		name    string
		cfg     config.CacheConfig
		wantNil bool
		wantErr bool
		check   func(t *testing.T, c recommend.SimilarityCache)
	}{
		{
			name:    "none",
			cfg:     config.CacheConfig{Backend: config.CacheBackendNone},
			wantNil: true,
		},
		{
			name: "memory",
			cfg:  config.CacheConfig{Backend: config.CacheBackendMemory, Capacity: 10, TTL: time.Minute},
			check: func(t *testing.T, c recommend.SimilarityCache) {
				if _, ok := c.(*cache.SimilarityLRU); !ok {
					t.Errorf("cache = %T, want *cache.SimilarityLRU", c)
				}
			},
		},
		{
			name: "redis",
			cfg:  config.CacheConfig{Backend: config.CacheBackendRedis, RedisAddr: mr.Addr(), KeyPrefix: "test:", TTL: time.Minute},
			check: func(t *testing.T, c recommend.SimilarityCache) {
				c.Set(context.Background(), "k", 0.25)
				if !mr.Exists("test:k") {
					t.Error("expected value written to redis under prefix")
				}
			},
		},
		{
			name:    "unknown backend",
			cfg:     config.CacheConfig{Backend: "memcached"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, closeFn, err := buildSimilarityCache(context.Background(), &tt.cfg, nil)
			defer closeFn()

			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (c == nil) != tt.wantNil {
				t.Fatalf("cache = %v, wantNil %v", c, tt.wantNil)
			}
			if tt.check != nil {
				tt.check(t, c)
			}
		})
	}
}

func TestBuildEngine(t *testing.T) {
	cfg := recommend.DefaultConfig()
	engine, err := buildEngine(cfg, emptySource{}, nil)
	if err != nil {
		t.Fatalf("buildEngine() error = %v", err)
	}
	if engine.Config().Seed != cfg.Seed {
		t.Errorf("engine config not applied")
	}

	_, err = engine.RankRecommendations(context.Background(), recommend.NewRequest("nobody"))
	if err == nil {
		t.Error("expected an error for an unknown user")
	}
}
