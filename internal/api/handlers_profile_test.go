// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

const validProfileBody = `{
	"sweetness": 2,
	"acidity": 3,
	"richness": 4,
	"aroma_intensity": 3,
	"budget": 4000,
	"experience_level": "intermediate",
	"excluded_categories": ["futsushu"]
}`

func TestPreferences_RoundTrip(t *testing.T) {
	store := newFakeStore()
	h := testServer(t, &fakeRanker{}, store)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/users/u1/preferences", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET before PUT status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPut, "/api/v1/users/u1/preferences", validProfileBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/users/u1/preferences", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	var got recommend.PreferenceProfile
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &got); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if got.UserID != "u1" || got.Richness != 4 || got.ExperienceLevel != recommend.ExperienceIntermediate {
		t.Errorf("profile = %+v", got)
	}
}

func TestPutPreferences_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  string
		wantField string
	}{
		{
			name:     "user mismatch",
			body:     `{"user_id":"someone-else","sweetness":2,"acidity":3,"richness":4,"aroma_intensity":3,"budget":4000,"experience_level":"beginner"}`,
			wantCode: ErrCodeBadRequest,
		},
		{
			name:      "out of range axis",
			body:      `{"sweetness":9,"acidity":3,"richness":4,"aroma_intensity":3,"budget":4000,"experience_level":"beginner"}`,
			wantCode:  ErrCodeValidation,
			wantField: "sweetness",
		},
		{
			name:      "unknown experience level",
			body:      `{"sweetness":2,"acidity":3,"richness":4,"aroma_intensity":3,"budget":4000,"experience_level":"sommelier"}`,
			wantCode:  ErrCodeValidation,
			wantField: "experience_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testServer(t, &fakeRanker{}, newFakeStore())
			rec := doRequest(t, h, http.MethodPut, "/api/v1/users/u1/preferences", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			env := decodeEnvelope(t, rec)
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want %s", env.Error, tt.wantCode)
			}
			if tt.wantField == "" {
				return
			}
			details, err := json.Marshal(env.Error.Details)
			if err != nil {
				t.Fatalf("marshal details: %v", err)
			}
			var fields []fieldDetail
			if err := json.Unmarshal(details, &fields); err != nil {
				t.Fatalf("decode details %s: %v", details, err)
			}
			if len(fields) == 0 || fields[0].Field != tt.wantField {
				t.Errorf("details = %+v, want field %s", fields, tt.wantField)
			}
		})
	}
}

func TestTastings(t *testing.T) {
	store := newFakeStore()
	h := testServer(t, &fakeRanker{}, store)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/users/u1/tastings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	if data := string(decodeEnvelope(t, rec).Data); data != "[]" {
		t.Errorf("empty history data = %s, want []", data)
	}

	rec = doRequest(t, h, http.MethodPost, "/api/v1/users/u1/tastings", `{"item_id":"sake-003","rating":5,"notes":"melon"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created TastingCreated
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" || created.Record.UserID != "u1" || created.Record.ItemID != "sake-003" {
		t.Errorf("created = %+v", created)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/users/u1/tastings", "")
	var records []recommend.TastingRecord
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &records); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(records) != 1 || records[0].Rating != 5 {
		t.Errorf("records = %+v", records)
	}
}

func TestPostTasting_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		saveErr    error
		wantStatus int
	}{
		{"rating out of range", `{"item_id":"sake-003","rating":0}`, nil, http.StatusBadRequest},
		{"missing item", `{"rating":3}`, nil, http.StatusBadRequest},
		{"user mismatch", `{"user_id":"u9","item_id":"sake-003","rating":3}`, nil, http.StatusBadRequest},
		{"store failure", `{"item_id":"sake-003","rating":3}`, errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.saveErr = tt.saveErr
			h := testServer(t, &fakeRanker{}, store)

			rec := doRequest(t, h, http.MethodPost, "/api/v1/users/u1/tastings", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}
