// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

// Package upstream protects the ranking engine from an unhealthy data source.
//
// Guarded wraps any recommend.DataSource with a sony/gobreaker circuit
// breaker. Breaker state is exported as sakesensei_circuit_breaker_state
// (0=closed, 1=half-open, 2=open).
package upstream
