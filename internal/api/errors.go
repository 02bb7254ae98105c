// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/sakesensei/internal/logging"
	"github.com/tomtom215/sakesensei/internal/recommend"
	"github.com/tomtom215/sakesensei/internal/validation"
)

// fieldDetail describes one invalid input field.
type fieldDetail struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// writeError maps engine and store errors onto HTTP responses.
//
//	validation           400 VALIDATION_ERROR
//	upstream unavailable 503 UPSTREAM_UNAVAILABLE
//	empty catalog        503 CATALOG_EMPTY
//	deadline exceeded    504 TIMEOUT
//	anything else        500 INTERNAL_ERROR
func writeError(rw *ResponseWriter, err error) {
	var rerr *recommend.ValidationError
	var verr *validation.RequestValidationError

	switch {
	case errors.As(err, &rerr):
		rw.ValidationError(rerr.Message, []fieldDetail{{
			Field:   rerr.Field,
			Message: rerr.Message,
			Value:   rerr.Value,
		}})
	case errors.As(err, &verr):
		details := make([]fieldDetail, 0, len(verr.Errors()))
		for _, fe := range verr.Errors() {
			details = append(details, fieldDetail{Field: fe.Field, Message: fe.Message, Value: fe.Value})
		}
		rw.ValidationError(verr.First().Message, details)
	case errors.Is(err, recommend.ErrEmptyCatalog):
		rw.Error(http.StatusServiceUnavailable, ErrCodeCatalogEmpty, "The sake catalog is empty")
	case errors.Is(err, recommend.ErrUpstreamUnavailable):
		logging.Ctx(rw.r.Context()).Warn().Err(err).Msg("Data source unavailable")
		rw.Error(http.StatusServiceUnavailable, ErrCodeUpstreamUnavailable, "Recommendation data is temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, "The request timed out")
	case errors.Is(err, context.Canceled):
		rw.Error(http.StatusServiceUnavailable, ErrCodeCancelled, "The request was cancelled")
	default:
		rw.InternalError(err)
	}
}
