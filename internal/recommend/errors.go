// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package recommend

import (
	"errors"
	"fmt"

	"github.com/tomtom215/sakesensei/internal/validation"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrProfileNotFound is returned by a DataSource for an unknown user.
	ErrProfileNotFound = errors.New("preference profile not found")

	// ErrUpstreamUnavailable matches every *UpstreamError.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrEmptyCatalog means the data source has no items at all.
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrNoScorers means the engine was used before any scorer was registered.
	ErrNoScorers = errors.New("no scorers registered")
)

// ValidationError rejects a request before scoring. Message is safe to show
// to the caller as-is.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// fromFieldErrors converts validator output, prefixing nested field paths.
func fromFieldErrors(prefix string, verr *validation.RequestValidationError) *ValidationError {
	first := verr.First()
	field := first.Field
	msg := first.Message
	if prefix != "" {
		field = prefix + "." + field
		msg = prefix + "." + msg
	}
	return &ValidationError{Field: field, Message: msg, Value: first.Value, Err: verr}
}

// UpstreamError reports that a collaborator could not be reached. It is the
// only failure that aborts a well-formed request.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s unavailable: %v", e.Op, e.Err)
}

// Is makes errors.Is(err, ErrUpstreamUnavailable) true.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// SignalFailure records a scorer that errored during a request. The signal
// contributed nothing and its share was redistributed.
type SignalFailure struct {
	Signal string `json:"signal"`
	Reason string `json:"reason"`
}
