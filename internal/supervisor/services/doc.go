// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

// Package services adapts server components to suture.Service:
// HTTPServerService for the API, and ticker-driven maintenance tasks for the
// in-process similarity cache and DuckDB checkpoints. Every service returns
// ctx.Err() on cancellation and implements fmt.Stringer for supervisor logs.
package services
