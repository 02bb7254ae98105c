// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sakesensei/internal/metrics"
	"github.com/tomtom215/sakesensei/internal/recommend"
)

// GetUserPreferences implements recommend.DataSource.
func (db *DB) GetUserPreferences(ctx context.Context, userID string) (_ *recommend.PreferenceProfile, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() {
		qerr := err
		if errors.Is(qerr, recommend.ErrProfileNotFound) {
			qerr = nil
		}
		metrics.RecordDBQuery("get_user_preferences", time.Since(start), qerr)
	}()

	p := &recommend.PreferenceProfile{UserID: userID}
	var level, excluded string
	err = db.conn.QueryRowContext(ctx, `
		SELECT sweetness, acidity, richness, aroma_intensity, budget, experience_level, excluded_categories
		FROM user_preferences
		WHERE user_id = ?`, userID).
		Scan(&p.Sweetness, &p.Acidity, &p.Richness, &p.AromaIntensity, &p.Budget, &level, &excluded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recommend.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences for %s: %w", userID, err)
	}

	p.ExperienceLevel = recommend.ExperienceLevel(level)
	if excluded != "" {
		if err = json.Unmarshal([]byte(excluded), &p.ExcludedCategories); err != nil {
			return nil, fmt.Errorf("failed to decode excluded categories for %s: %w", userID, err)
		}
	}
	return p, nil
}

// GetTastingHistory implements recommend.DataSource. Records are oldest first.
func (db *DB) GetTastingHistory(ctx context.Context, userID string) (_ []recommend.TastingRecord, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("get_tasting_history", time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, item_id, rating, notes, tasted_at
		FROM tasting_records
		WHERE user_id = ?
		ORDER BY tasted_at ASC, item_id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasting history for %s: %w", userID, err)
	}
	defer closeWithLog(rows, "tasting history rows")

	return scanTastings(rows)
}

// GetAllTastingRecords implements recommend.DataSource. With a positive limit
// the most recent records are kept.
func (db *DB) GetAllTastingRecords(ctx context.Context, limit int) (_ []recommend.TastingRecord, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("get_all_tasting_records", time.Since(start), err) }()

	query := `
		SELECT user_id, item_id, rating, notes, tasted_at
		FROM tasting_records`
	var args []interface{}
	if limit > 0 {
		query = `
			SELECT user_id, item_id, rating, notes, tasted_at FROM (
				SELECT user_id, item_id, rating, notes, tasted_at
				FROM tasting_records
				ORDER BY tasted_at DESC, id ASC
				LIMIT ?
			)`
		args = append(args, limit)
	}
	query += ` ORDER BY user_id ASC, tasted_at ASC, item_id ASC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasting records: %w", err)
	}
	defer closeWithLog(rows, "tasting record rows")

	return scanTastings(rows)
}

// GetCandidateCatalog implements recommend.DataSource. Items are ordered by ID.
func (db *DB) GetCandidateCatalog(ctx context.Context, filter recommend.CatalogFilter) (_ []recommend.CatalogItem, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("get_candidate_catalog", time.Since(start), err) }()

	conditions, args := buildCatalogConditions(filter)
	query := `
		SELECT c.id, c.name, c.category, c.price,
			c.sweetness, c.acidity, c.richness, c.aroma,
			c.brewery_id,
			COALESCE(NULLIF(c.region, ''), b.region, '') AS region,
			COALESCE(r.avg_rating, 0) AS avg_rating
		FROM sake_catalog c
		LEFT JOIN breweries b ON b.id = c.brewery_id
		LEFT JOIN (
			SELECT item_id, AVG(rating) AS avg_rating
			FROM tasting_records
			GROUP BY item_id
		) r ON r.item_id = c.id
		WHERE 1=1` + conditions + `
		ORDER BY c.id ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer closeWithLog(rows, "catalog rows")

	var items []recommend.CatalogItem
	for rows.Next() {
		var item recommend.CatalogItem
		v := &item.Characteristics
		if err = rows.Scan(&item.ID, &item.Name, &item.Category, &item.Price,
			&v.Sweetness, &v.Acidity, &v.Richness, &v.Aroma,
			&item.BreweryID, &item.Region, &item.AverageRating); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog rows: %w", err)
	}
	return items, nil
}

func scanTastings(rows *sql.Rows) ([]recommend.TastingRecord, error) {
	var records []recommend.TastingRecord
	for rows.Next() {
		var r recommend.TastingRecord
		if err := rows.Scan(&r.UserID, &r.ItemID, &r.Rating, &r.Notes, &r.TastedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tasting record: %w", err)
		}
		r.TastedAt = r.TastedAt.UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasting records: %w", err)
	}
	return records, nil
}
