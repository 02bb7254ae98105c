// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

// HealthStatus is the /health payload.
type HealthStatus struct {
	Status            string          `json:"status"`
	DatabaseConnected bool            `json:"database_connected"`
	Upstream          string          `json:"upstream,omitempty"`
	Engine            recommend.Stats `json:"engine"`
	Uptime            float64         `json:"uptime_seconds"`
}

// Health handles GET /health. It answers 503 when the database is
// unreachable or the data source circuit is open.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := HealthStatus{
		Status:            "healthy",
		DatabaseConnected: h.store != nil && h.store.Ping(ctx) == nil,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if h.ranker != nil {
		health.Engine = h.ranker.Stats()
	}
	if h.upstreamState != nil {
		health.Upstream = h.upstreamState()
	}

	status := http.StatusOK
	if !health.DatabaseConnected || health.Upstream == "open" {
		health.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	rw.write(status, health)
}
