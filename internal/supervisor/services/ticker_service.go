// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ExpiringCache is satisfied by cache.SimilarityLRU.
type ExpiringCache interface {
	CleanupExpired() int
}

// Checkpointer is satisfied by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// TickerService runs task every interval until the context is canceled.
// Task errors are logged and the loop continues.
type TickerService struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context) error
	logger   zerolog.Logger
}

func (s *TickerService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("service shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := s.task(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled run failed")
			}
		}
	}
}

func (s *TickerService) String() string {
	return s.name
}

// NewCacheJanitorService evicts expired similarity entries every interval.
// A non-positive interval becomes five minutes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheJanitorService(c ExpiringCache, interval time.Duration, logger zerolog.Logger) *TickerService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	l := logger.With().Str("service", "similarity-cache-janitor").Logger()
	return &TickerService{
		name:     "similarity-cache-janitor",
		interval: interval,
		logger:   l,
		task: func(context.Context) error {
			if removed := c.CleanupExpired(); removed > 0 {
				l.Debug().Int("removed", removed).Msg("expired similarity entries evicted")
			}
			return nil
		},
	}
}

// NewCheckpointService flushes the DuckDB WAL every interval.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCheckpointService(db Checkpointer, interval time.Duration, logger zerolog.Logger) *TickerService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	l := logger.With().Str("service", "duckdb-checkpoint").Logger()
	return &TickerService{
		name:     "duckdb-checkpoint",
		interval: interval,
		logger:   l,
		task: func(ctx context.Context) error {
			start := time.Now()
			if err := db.Checkpoint(ctx); err != nil {
				return err
			}
			l.Debug().Dur("duration", time.Since(start)).Msg("checkpoint complete")
			return nil
		},
	}
}
