// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

// Package testinfra starts real backing services in Docker for integration
// tests, using testcontainers-go. Everything here is behind the integration
// build tag:
//
//	go test -tags integration ./internal/cache/...
//
// Tests call SkipIfNoDocker first so the suite still passes on machines
// without a Docker daemon. Unit tests use miniredis instead.
package testinfra
