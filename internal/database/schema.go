// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// getTableCreationQueries returns the table creation SQL statements.
// Categories are stored normalized (see recommend.NormalizeCategory).
func getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS breweries (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			region VARCHAR NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS sake_catalog (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			category VARCHAR NOT NULL,
			price DOUBLE NOT NULL,
			sweetness DOUBLE NOT NULL,
			acidity DOUBLE NOT NULL,
			richness DOUBLE NOT NULL,
			aroma DOUBLE NOT NULL,
			brewery_id VARCHAR NOT NULL DEFAULT '',
			region VARCHAR NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,

		// excluded_categories holds a JSON array of normalized categories.
		`CREATE TABLE IF NOT EXISTS user_preferences (
			user_id VARCHAR PRIMARY KEY,
			sweetness INTEGER NOT NULL,
			acidity INTEGER NOT NULL,
			richness INTEGER NOT NULL,
			aroma_intensity INTEGER NOT NULL,
			budget DOUBLE NOT NULL,
			experience_level VARCHAR NOT NULL,
			excluded_categories VARCHAR NOT NULL DEFAULT '[]',
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS tasting_records (
			id VARCHAR PRIMARY KEY,
			user_id VARCHAR NOT NULL,
			item_id VARCHAR NOT NULL,
			rating INTEGER NOT NULL,
			notes VARCHAR NOT NULL DEFAULT '',
			tasted_at TIMESTAMP NOT NULL
		);`,
	}
}

// createIndexes creates indexes for the ranking queries
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getIndexQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}
	return nil
}

func getIndexQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_catalog_category ON sake_catalog(category);`,
		`CREATE INDEX IF NOT EXISTS idx_tasting_user ON tasting_records(user_id, tasted_at);`,
		`CREATE INDEX IF NOT EXISTS idx_tasting_item ON tasting_records(item_id);`,
	}
}
