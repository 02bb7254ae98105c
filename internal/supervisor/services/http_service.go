// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultDrainTimeout = 10 * time.Second

// HTTPServer is satisfied by *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService adapts the API listener to suture. A listener that
// dies on its own is reported as a failure so the supervisor restarts it.
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
}

// NewHTTPServerService returns a service for server. Requests in flight get
// shutdownTimeout to drain, or 10s when it is not positive.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	svc := &HTTPServerService{server: server, shutdownTimeout: shutdownTimeout}
	if svc.shutdownTimeout <= 0 {
		svc.shutdownTimeout = defaultDrainTimeout
	}
	return svc
}

// Serve blocks until the listener fails or ctx is canceled.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	listenDone := make(chan error, 1)
	go func() {
		err := h.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		listenDone <- err
	}()

	select {
	case err := <-listenDone:
		if err == nil {
			return nil
		}
		return fmt.Errorf("recommendation api listener: %w", err)
	case <-ctx.Done():
	}

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.shutdownTimeout)
	defer cancel()
	if err := h.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("drain recommendation api: %w", err)
	}
	<-listenDone
	return ctx.Err()
}

func (h *HTTPServerService) String() string { return "http-server" }
