// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

// Package main is the entry point for the Sake Sensei server.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, config.yaml and environment (Koanf v2)
//  2. Logging: zerolog, bridged to slog for the supervisor
//  3. Database: DuckDB catalog, profiles and tasting records
//  4. Demo data: optional, when -seed or SEED_DEMO_DATA is set
//  5. Circuit breaker: wraps the store for the ranking path
//  6. Similarity cache: in-process LRU, Redis, or none
//  7. Engine: the four default scorers plus the diversity reranker
//  8. HTTP Server: chi router under a suture supervisor tree
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. In-flight requests get
// HTTP_SHUTDOWN_TIMEOUT to finish before the database is closed.
//
// # Example Usage
//
//	export DATABASE_PATH=/data/sakesensei.duckdb
//	export CACHE_BACKEND=redis REDIS_ADDR=redis:6379
//	./sakesensei -seed
//
//	curl 'http://localhost:3857/api/v1/recommendations/demo-explorer?limit=5'
package main
