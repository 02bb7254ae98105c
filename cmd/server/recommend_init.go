// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/sakesensei/internal/cache"
	"github.com/tomtom215/sakesensei/internal/config"
	"github.com/tomtom215/sakesensei/internal/logging"
	"github.com/tomtom215/sakesensei/internal/recommend"
	"github.com/tomtom215/sakesensei/internal/recommend/reranking"
	"github.com/tomtom215/sakesensei/internal/recommend/scoring"
	"github.com/tomtom215/sakesensei/internal/supervisor"
	"github.com/tomtom215/sakesensei/internal/supervisor/services"
)

// buildSimilarityCache returns the configured similarity cache, or nil for
// the "none" backend. The LRU gets a janitor service in the maintenance
// layer. The returned func releases backend connections.
func buildSimilarityCache(ctx context.Context, cfg *config.CacheConfig, tree *supervisor.SupervisorTree) (recommend.SimilarityCache, func(), error) {
	noop := func() {}
	logger := logging.WithComponent("similarity_cache")

	switch cfg.Backend {
	case config.CacheBackendNone:
		logger.Info().Msg("similarity cache disabled")
		return nil, noop, nil

	case config.CacheBackendRedis:
		rcfg := cache.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.KeyPrefix,
			TTL:       cfg.TTL,
			Timeout:   cfg.Timeout,
		}
		client, err := cache.NewRedisClient(ctx, rcfg)
		if err != nil {
			return nil, noop, err
		}
		logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis similarity cache")
		return cache.NewRedisSimilarity(client, rcfg, logging.Logger()), func() { _ = client.Close() }, nil

	case config.CacheBackendMemory, "":
		lru := cache.NewSimilarityLRU(cfg.Capacity, cfg.TTL)
		if tree != nil {
			tree.AddMaintenanceService(services.NewCacheJanitorService(lru, cfg.CleanupInterval, logger))
		}
		logger.Info().Int("capacity", cfg.Capacity).Dur("ttl", cfg.TTL).Msg("using in-process similarity cache")
		return lru, noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// buildEngine creates the engine with the default scorers and the diversity
// reranker registered.
func buildEngine(cfg *recommend.Config, source recommend.DataSource, simCache recommend.SimilarityCache) (*recommend.Engine, error) {
	engine, err := recommend.NewEngine(cfg, source, logging.WithComponent("recommend"))
	if err != nil {
		return nil, err
	}
	for _, s := range scoring.Defaults(cfg, simCache) {
		engine.RegisterScorer(s)
	}
	engine.RegisterReranker(reranking.NewDiversity(cfg.Diversity))
	return engine, nil
}
