// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/sakesensei/internal/metrics"
	"github.com/tomtom215/sakesensei/internal/recommend"
	"github.com/tomtom215/sakesensei/internal/validation"
)

// Brewery is a producer referenced by catalog items.
type Brewery struct {
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Region string `json:"region"`
}

// SavePreferences inserts or replaces a user's preference profile.
// Excluded categories are stored normalized.
func (db *DB) SavePreferences(ctx context.Context, p *recommend.PreferenceProfile) (err error) {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}
	if verr := validation.ValidateStruct(p); verr != nil {
		return fmt.Errorf("invalid profile: %w", verr)
	}

	excluded := make([]string, 0, len(p.ExcludedCategories))
	for _, c := range p.ExcludedCategories {
		excluded = append(excluded, recommend.NormalizeCategory(c))
	}
	encoded, err := json.Marshal(excluded)
	if err != nil {
		return fmt.Errorf("failed to encode excluded categories: %w", err)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("save_preferences", time.Since(start), err) }()

	_, err = db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO user_preferences
			(user_id, sweetness, acidity, richness, aroma_intensity, budget, experience_level, excluded_categories, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		p.UserID, p.Sweetness, p.Acidity, p.Richness, p.AromaIntensity, p.Budget,
		string(p.ExperienceLevel), string(encoded))
	if err != nil {
		return fmt.Errorf("failed to save preferences for %s: %w", p.UserID, err)
	}
	return nil
}

// SaveTasting appends a tasting record and returns its generated ID.
// A zero TastedAt is stamped with the current time.
func (db *DB) SaveTasting(ctx context.Context, r recommend.TastingRecord) (_ string, err error) {
	if verr := validation.ValidateStruct(&r); verr != nil {
		return "", fmt.Errorf("invalid tasting record: %w", verr)
	}
	if r.TastedAt.IsZero() {
		r.TastedAt = time.Now()
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("save_tasting", time.Since(start), err) }()

	id := uuid.NewString()
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO tasting_records (id, user_id, item_id, rating, notes, tasted_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, r.UserID, r.ItemID, r.Rating, r.Notes, r.TastedAt.UTC())
	if err != nil {
		return "", fmt.Errorf("failed to save tasting for %s: %w", r.UserID, err)
	}
	return id, nil
}

// SaveBrewery inserts or replaces a brewery.
func (db *DB) SaveBrewery(ctx context.Context, b Brewery) (err error) {
	if verr := validation.ValidateStruct(&b); verr != nil {
		return fmt.Errorf("invalid brewery: %w", verr)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("save_brewery", time.Since(start), err) }()

	_, err = db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO breweries (id, name, region) VALUES (?, ?, ?)`,
		b.ID, b.Name, b.Region)
	if err != nil {
		return fmt.Errorf("failed to save brewery %s: %w", b.ID, err)
	}
	return nil
}

// SaveItem inserts or replaces a catalog item. AverageRating is derived
// from tasting records and is not stored.
func (db *DB) SaveItem(ctx context.Context, item recommend.CatalogItem) (err error) {
	if verr := validation.ValidateStruct(&item); verr != nil {
		return fmt.Errorf("invalid catalog item: %w", verr)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("save_item", time.Since(start), err) }()

	v := item.Characteristics
	_, err = db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO sake_catalog
			(id, name, category, price, sweetness, acidity, richness, aroma, brewery_id, region)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, recommend.NormalizeCategory(item.Category), item.Price,
		v.Sweetness, v.Acidity, v.Richness, v.Aroma, item.BreweryID, item.Region)
	if err != nil {
		return fmt.Errorf("failed to save catalog item %s: %w", item.ID, err)
	}
	return nil
}
