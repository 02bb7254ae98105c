// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/sakesensei/internal/logging"
	"github.com/tomtom215/sakesensei/internal/recommend"
)

// GetRecommendations handles GET /api/v1/recommendations/{userID}.
//
// Query parameters: limit (the configured default when omitted, clamped to
// the configured maximum),
// exclude_tried, sake_type and seed.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, err := parseRecommendationQuery(chi.URLParam(r, "userID"), r.URL.Query(), h.defaultLimit)
	if err != nil {
		var perr *paramError
		if errors.As(err, &perr) {
			rw.ValidationError(perr.Error(), []fieldDetail{{Field: perr.Param, Message: perr.Error(), Value: perr.Value}})
			return
		}
		rw.BadRequest(err.Error())
		return
	}

	h.rank(rw, r, req)
}

// PostRecommendations handles POST /api/v1/recommendations with a JSON
// request body. Omitted fields take the same defaults as the GET form.
func (h *Handler) PostRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := recommend.Request{Limit: h.defaultLimit}
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}

	h.rank(rw, r, req)
}

//nolint:gocritic // hugeParam: req is copied once per request
func (h *Handler) rank(rw *ResponseWriter, r *http.Request, req recommend.Request) {
	if req.RequestID == "" {
		req.RequestID = logging.RequestIDFromContext(r.Context())
	}

	ctx, cancel := h.withTimeout(logging.ContextWithUserID(r.Context(), req.UserID))
	defer cancel()

	result, err := h.ranker.RankRecommendations(ctx, req)
	if err != nil {
		writeError(rw, err)
		return
	}

	rw.Success(result)
}
