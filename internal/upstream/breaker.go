// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package upstream

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/sakesensei/internal/logging"
	"github.com/tomtom215/sakesensei/internal/metrics"
	"github.com/tomtom215/sakesensei/internal/recommend"
)

// BreakerConfig configures the circuit breaker around a DataSource.
type BreakerConfig struct {
	// Name labels logs and metrics.
	Name string `koanf:"name"`

	// MaxRequests is how many trial calls a half-open breaker lets through.
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval resets the closed-state counts. Zero never resets.
	Interval time.Duration `koanf:"interval"`

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration `koanf:"timeout"`

	// MinRequests is the sample size below which the breaker never trips.
	MinRequests uint32 `koanf:"min_requests"`

	// FailureRatio trips the breaker once reached.
	FailureRatio float64 `koanf:"failure_ratio"`
}

// DefaultBreakerConfig opens after 60% failures across at least 10 calls and
// lets a trial request through after 30 seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "datasource",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// Guarded wraps a recommend.DataSource with a circuit breaker. While the
// breaker is open, calls fail fast with a *recommend.UpstreamError instead
// of waiting on a struggling backend.
//
// Unknown users and caller cancellation are not counted as failures.
type Guarded struct {
	source recommend.DataSource
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

var _ recommend.DataSource = (*Guarded)(nil)

// NewGuarded wraps source.
func NewGuarded(source recommend.DataSource, cfg BreakerConfig) *Guarded {
	name := cfg.Name
	if name == "" {
		name = DefaultBreakerConfig().Name
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("opening circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
		IsSuccessful: isSuccessful,
	})

	return &Guarded{source: source, cb: cb, name: name}
}

// isSuccessful reports errors that say nothing about backend health.
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, recommend.ErrProfileNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// State returns the breaker state.
func (g *Guarded) State() gobreaker.State {
	return g.cb.State()
}

// execute runs fn through the breaker.
func (g *Guarded) execute(op string, fn func() (any, error)) (any, error) {
	result, err := g.cb.Execute(fn)
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
		return result, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "rejected").Inc()
		logging.Debug().Str("breaker", g.name).Str("op", op).Msg("request rejected by circuit breaker")
		return nil, &recommend.UpstreamError{Op: op, Err: err}
	case isSuccessful(err):
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
		return nil, err
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "failure").Inc()
		return nil, err
	}
}

// GetUserPreferences implements recommend.DataSource.
func (g *Guarded) GetUserPreferences(ctx context.Context, userID string) (*recommend.PreferenceProfile, error) {
	result, err := g.execute("get_user_preferences", func() (any, error) {
		return g.source.GetUserPreferences(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	profile, _ := result.(*recommend.PreferenceProfile)
	return profile, nil
}

// GetTastingHistory implements recommend.DataSource.
func (g *Guarded) GetTastingHistory(ctx context.Context, userID string) ([]recommend.TastingRecord, error) {
	result, err := g.execute("get_tasting_history", func() (any, error) {
		return g.source.GetTastingHistory(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	records, _ := result.([]recommend.TastingRecord)
	return records, nil
}

// GetAllTastingRecords implements recommend.DataSource.
func (g *Guarded) GetAllTastingRecords(ctx context.Context, limit int) ([]recommend.TastingRecord, error) {
	result, err := g.execute("get_all_tasting_records", func() (any, error) {
		return g.source.GetAllTastingRecords(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	records, _ := result.([]recommend.TastingRecord)
	return records, nil
}

// GetCandidateCatalog implements recommend.DataSource.
func (g *Guarded) GetCandidateCatalog(ctx context.Context, filter recommend.CatalogFilter) ([]recommend.CatalogItem, error) {
	result, err := g.execute("get_candidate_catalog", func() (any, error) {
		return g.source.GetCandidateCatalog(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	items, _ := result.([]recommend.CatalogItem)
	return items, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
