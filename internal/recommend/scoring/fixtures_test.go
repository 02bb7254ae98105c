// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package scoring

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func vec(sweet, acid, rich, aroma float64) recommend.CharacteristicVector {
	return recommend.CharacteristicVector{Sweetness: sweet, Acidity: acid, Richness: rich, Aroma: aroma}
}

func item(id, category string, price float64, v recommend.CharacteristicVector) recommend.CatalogItem {
	return recommend.CatalogItem{
		ID:              id,
		Name:            "Sake " + id,
		Category:        category,
		Price:           price,
		Characteristics: v,
		BreweryID:       "brewery-" + id,
	}
}

func tasting(userID, itemID string, rating int, daysAgo int) recommend.TastingRecord {
	return recommend.TastingRecord{
		UserID:   userID,
		ItemID:   itemID,
		Rating:   rating,
		TastedAt: testNow.Add(-time.Duration(daysAgo) * 24 * time.Hour),
	}
}

func testProfile() *recommend.PreferenceProfile {
	return &recommend.PreferenceProfile{
		UserID:          "u1",
		Sweetness:       3,
		Acidity:         3,
		Richness:        3,
		AromaIntensity:  3,
		Budget:          3000,
		ExperienceLevel: recommend.ExperienceIntermediate,
	}
}

// newInput builds a scoring snapshot where Items resolves both candidates
// and extra (tried) items.
func newInput(profile *recommend.PreferenceProfile, candidates []recommend.CatalogItem, history []recommend.TastingRecord, extra ...recommend.CatalogItem) *recommend.ScoringInput {
	items := make(map[string]recommend.CatalogItem, len(candidates)+len(extra))
	for _, it := range candidates {
		items[it.ID] = it
	}
	for _, it := range extra {
		items[it.ID] = it
	}
	return &recommend.ScoringInput{
		UserID:     profile.UserID,
		Profile:    profile,
		Candidates: candidates,
		History:    history,
		Items:      items,
		Now:        testNow,
	}
}

func mustScore(t *testing.T, s recommend.Scorer, in *recommend.ScoringInput) *recommend.Signal {
	t.Helper()
	sig, err := s.Score(context.Background(), in)
	if err != nil {
		t.Fatalf("%s.Score() error = %v", s.Name(), err)
	}
	if sig == nil {
		t.Fatalf("%s.Score() returned nil signal", s.Name())
	}
	return sig
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func hasReason(reasons []string, want string) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}
