// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

// TastingCreated is returned after a tasting is recorded.
type TastingCreated struct {
	ID     string                  `json:"id"`
	Record recommend.TastingRecord `json:"record"`
}

// GetPreferences handles GET /api/v1/users/{userID}/preferences.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	profile, err := h.store.GetUserPreferences(ctx, userID)
	if errors.Is(err, recommend.ErrProfileNotFound) {
		rw.NotFound("No preference profile for user " + userID)
		return
	}
	if err != nil {
		writeError(rw, err)
		return
	}
	rw.Success(profile)
}

// PutPreferences handles PUT /api/v1/users/{userID}/preferences. The body
// replaces the stored profile.
func (h *Handler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")

	var profile recommend.PreferenceProfile
	if err := decodeJSON(w, r, &profile); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if profile.UserID != "" && profile.UserID != userID {
		rw.BadRequest("user_id in body does not match the URL")
		return
	}
	profile.UserID = userID

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	if err := h.store.SavePreferences(ctx, &profile); err != nil {
		writeError(rw, err)
		return
	}
	rw.Success(profile)
}

// GetTastings handles GET /api/v1/users/{userID}/tastings, oldest first.
func (h *Handler) GetTastings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	records, err := h.store.GetTastingHistory(ctx, chi.URLParam(r, "userID"))
	if err != nil {
		writeError(rw, err)
		return
	}
	if records == nil {
		records = []recommend.TastingRecord{}
	}
	rw.Success(records)
}

// PostTasting handles POST /api/v1/users/{userID}/tastings.
func (h *Handler) PostTasting(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")

	var record recommend.TastingRecord
	if err := decodeJSON(w, r, &record); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if record.UserID != "" && record.UserID != userID {
		rw.BadRequest("user_id in body does not match the URL")
		return
	}
	record.UserID = userID

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	id, err := h.store.SaveTasting(ctx, record)
	if err != nil {
		writeError(rw, err)
		return
	}
	rw.Created(TastingCreated{ID: id, Record: record})
}
