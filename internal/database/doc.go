// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

/*
Package database stores the sake catalog, breweries, preference profiles and
tasting records in DuckDB, and serves them to the ranking engine as a
recommend.DataSource.

Tables:
  - breweries: producer name and region
  - sake_catalog: items with normalized category, price and the four
    characteristic axes
  - user_preferences: one row per user; excluded_categories is a JSON array
  - tasting_records: append-only ratings keyed by a generated UUID

Catalog reads resolve an item's region from its brewery when the item has
none, and attach the population average rating.

Every query is bounded by DatabaseConfig.QueryTimeout when the caller's
context carries no deadline, and is timed into
sakesensei_duckdb_query_duration_seconds.

Usage:

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	if cfg.Database.SeedDemoData {
	    if err := db.Seed(ctx); err != nil {
	        return err
	    }
	}
*/
package database
