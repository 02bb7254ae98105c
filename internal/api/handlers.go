// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package api

import (
	"context"
	"time"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

// Ranker produces ranked recommendations. *recommend.Engine implements it.
type Ranker interface {
	RankRecommendations(ctx context.Context, req recommend.Request) (*recommend.Result, error)
	Stats() recommend.Stats
}

// Store reads and writes user data. *database.DB implements it.
type Store interface {
	GetUserPreferences(ctx context.Context, userID string) (*recommend.PreferenceProfile, error)
	GetTastingHistory(ctx context.Context, userID string) ([]recommend.TastingRecord, error)
	SavePreferences(ctx context.Context, p *recommend.PreferenceProfile) error
	SaveTasting(ctx context.Context, r recommend.TastingRecord) (string, error)
	Ping(ctx context.Context) error
}

// Handler serves the HTTP API.
type Handler struct {
	ranker         Ranker
	store          Store
	upstreamState  func() string
	requestTimeout time.Duration
	defaultLimit   int
	startTime      time.Time
}

// HandlerOption customizes a Handler.
type HandlerOption func(*Handler)

// WithRequestTimeout bounds each ranking request.
func WithRequestTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.requestTimeout = d
		}
	}
}

// WithDefaultLimit sets the limit used when a caller omits one.
func WithDefaultLimit(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.defaultLimit = n
		}
	}
}

// WithUpstreamState reports the data source circuit state in /health.
func WithUpstreamState(fn func() string) HandlerOption {
	return func(h *Handler) {
		h.upstreamState = fn
	}
}

// NewHandler creates a Handler.
func NewHandler(ranker Ranker, store Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		ranker:         ranker,
		store:          store,
		requestTimeout: 5 * time.Second,
		defaultLimit:   recommend.DefaultLimit,
		startTime:      time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.requestTimeout)
}
