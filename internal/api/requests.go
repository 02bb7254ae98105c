// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// paramError reports an unparseable query parameter.
type paramError struct {
	Param string
	Value string
	Want  string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s must be %s, got %q", e.Param, e.Want, e.Value)
}

// parseRecommendationQuery builds a Request from GET query parameters:
// limit, exclude_tried, sake_type and seed. A missing limit becomes
// defaultLimit.
func parseRecommendationQuery(userID string, q url.Values, defaultLimit int) (recommend.Request, error) {
	req := recommend.Request{UserID: userID, Limit: defaultLimit}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, &paramError{Param: "limit", Value: v, Want: "an integer"}
		}
		req.Limit = n
	}
	if v := q.Get("exclude_tried"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, &paramError{Param: "exclude_tried", Value: v, Want: "a boolean"}
		}
		req.ExcludeTried = b
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, &paramError{Param: "seed", Value: v, Want: "an integer"}
		}
		req.Seed = n
	}
	req.SakeType = q.Get("sake_type")
	return req, nil
}

// decodeJSON decodes a bounded request body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
