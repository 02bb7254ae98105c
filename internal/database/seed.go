// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/sakesensei/internal/logging"
	"github.com/tomtom215/sakesensei/internal/recommend"
)

// seedEpoch anchors demo tasting dates so seeded data is reproducible.
var seedEpoch = time.Date(2025, 10, 1, 19, 0, 0, 0, time.UTC)

var demoBreweries = []Brewery{
	{ID: "brewery-001", Name: "Asahi Shuzo", Region: "Yamaguchi"},
	{ID: "brewery-002", Name: "Asahi-Shuzo Niigata", Region: "Niigata"},
	{ID: "brewery-003", Name: "Hakkaisan Brewery", Region: "Niigata"},
	{ID: "brewery-004", Name: "Gekkeikan", Region: "Kyoto"},
	{ID: "brewery-005", Name: "Dewazakura Shuzo", Region: "Yamagata"},
	{ID: "brewery-006", Name: "Tsukasabotan Shuzo", Region: "Kochi"},
}

func demoSake(id, name, brewery, category string, price, sweet, acid, rich, aroma float64) recommend.CatalogItem {
	return recommend.CatalogItem{
		ID:        id,
		Name:      name,
		Category:  category,
		Price:     price,
		BreweryID: brewery,
		Characteristics: recommend.CharacteristicVector{
			Sweetness: sweet,
			Acidity:   acid,
			Richness:  rich,
			Aroma:     aroma,
		},
	}
}

var demoCatalog = []recommend.CatalogItem{
	demoSake("sake-001", "Dassai Junmai Daiginjo Migaki Niwari Sanbu", "brewery-001", recommend.CategoryJunmaiDaiginjo, 5280, 2, 2, 2, 5),
	demoSake("sake-002", "Kubota Manju", "brewery-002", recommend.CategoryJunmaiDaiginjo, 3850, 3, 2, 3, 4),
	demoSake("sake-003", "Hakkaisan Junmai Ginjo", "brewery-003", recommend.CategoryJunmaiGinjo, 2640, 2, 3, 3, 3),
	demoSake("sake-004", "Dassai 45", "brewery-001", recommend.CategoryJunmaiDaiginjo, 1980, 3, 2, 2, 4),
	demoSake("sake-005", "Kubota Senju", "brewery-002", recommend.CategoryGinjo, 1400, 2, 2, 2, 3),
	demoSake("sake-006", "Hakkaisan Tokubetsu Honjozo", "brewery-003", recommend.CategoryHonjozo, 1650, 1, 3, 2, 2),
	demoSake("sake-007", "Gekkeikan Horin Junmai Daiginjo", "brewery-004", recommend.CategoryJunmaiDaiginjo, 2200, 3, 2, 3, 4),
	demoSake("sake-008", "Gekkeikan Tokusen", "brewery-004", recommend.CategoryHonjozo, 980, 3, 2, 3, 2),
	demoSake("sake-009", "Gekkeikan Nigori", "brewery-004", recommend.CategoryNigori, 1100, 5, 2, 4, 3),
	demoSake("sake-010", "Dewazakura Oka Ginjo", "brewery-005", recommend.CategoryGinjo, 1800, 3, 2, 2, 5),
	demoSake("sake-011", "Dewazakura Dewasansan Junmai Ginjo", "brewery-005", recommend.CategoryJunmaiGinjo, 2100, 2, 3, 3, 4),
	demoSake("sake-012", "Dewazakura Yukimanman Daiginjo Koshu", "brewery-005", recommend.CategoryKoshu, 4500, 3, 3, 5, 4),
	demoSake("sake-013", "Tsukasabotan Senchu Hassaku Junmai", "brewery-006", recommend.CategoryJunmai, 1500, 1, 4, 3, 2),
	demoSake("sake-014", "Tsukasabotan Yamayuzu Shibori", "brewery-006", recommend.CategoryFutsushu, 1300, 5, 4, 2, 3),
	demoSake("sake-015", "Hakkaisan Yukimuro Junmai Daiginjo", "brewery-003", recommend.CategoryJunmaiDaiginjo, 6800, 2, 2, 3, 4),
	demoSake("sake-016", "Kubota Hekiju Junmai Daiginjo Yamahai", "brewery-002", recommend.CategoryJunmaiDaiginjo, 3300, 2, 3, 4, 3),
}

var demoProfiles = []recommend.PreferenceProfile{
	{UserID: "demo-newcomer", Sweetness: 4, Acidity: 2, Richness: 3, AromaIntensity: 3, Budget: 2500, ExperienceLevel: recommend.ExperienceBeginner},
	{UserID: "demo-ginjo-fan", Sweetness: 2, Acidity: 2, Richness: 2, AromaIntensity: 5, Budget: 6000, ExperienceLevel: recommend.ExperienceAdvanced,
		ExcludedCategories: []string{recommend.CategoryHonjozo}},
	{UserID: "demo-explorer", Sweetness: 3, Acidity: 3, Richness: 3, AromaIntensity: 3, Budget: 4000, ExperienceLevel: recommend.ExperienceIntermediate},
	{UserID: "demo-dry", Sweetness: 1, Acidity: 4, Richness: 3, AromaIntensity: 2, Budget: 2000, ExperienceLevel: recommend.ExperienceIntermediate},
}

type demoTasting struct {
	user    string
	item    string
	rating  int
	daysAgo int
}

var demoTastings = []demoTasting{
	{"demo-ginjo-fan", "sake-001", 5, 120},
	{"demo-ginjo-fan", "sake-002", 5, 90},
	{"demo-ginjo-fan", "sake-004", 4, 60},
	{"demo-ginjo-fan", "sake-007", 5, 30},
	{"demo-ginjo-fan", "sake-008", 2, 10},
	{"demo-explorer", "sake-001", 5, 100},
	{"demo-explorer", "sake-002", 4, 80},
	{"demo-explorer", "sake-010", 5, 45},
	{"demo-explorer", "sake-012", 4, 20},
	{"demo-explorer", "sake-009", 2, 5},
	{"demo-dry", "sake-006", 5, 70},
	{"demo-dry", "sake-013", 5, 40},
	{"demo-dry", "sake-003", 4, 25},
	{"demo-dry", "sake-009", 1, 12},
}

// Seed loads the demo catalog, profiles and tastings. It does nothing when
// the catalog already holds items, so it is safe to call on every start.
func (db *DB) Seed(ctx context.Context) error {
	counts, err := db.GetRecordCounts(ctx)
	if err != nil {
		return err
	}
	if counts.Items > 0 {
		logging.Debug().Int64("items", counts.Items).Msg("Catalog already populated, skipping demo seed")
		return nil
	}

	for _, b := range demoBreweries {
		if err := db.SaveBrewery(ctx, b); err != nil {
			return fmt.Errorf("seed brewery: %w", err)
		}
	}
	for _, item := range demoCatalog {
		if err := db.SaveItem(ctx, item); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}
	for i := range demoProfiles {
		if err := db.SavePreferences(ctx, &demoProfiles[i]); err != nil {
			return fmt.Errorf("seed preferences: %w", err)
		}
	}
	for _, t := range demoTastings {
		_, err := db.SaveTasting(ctx, recommend.TastingRecord{
			UserID:   t.user,
			ItemID:   t.item,
			Rating:   t.rating,
			TastedAt: seedEpoch.AddDate(0, 0, -t.daysAgo),
		})
		if err != nil {
			return fmt.Errorf("seed tasting: %w", err)
		}
	}

	logging.Info().
		Int("breweries", len(demoBreweries)).
		Int("items", len(demoCatalog)).
		Int("profiles", len(demoProfiles)).
		Int("tastings", len(demoTastings)).
		Msg("Demo data seeded")
	return nil
}
