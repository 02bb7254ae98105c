// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package scoring

import (
	"context"
	"math"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

// Reasons emitted by the preference matcher.
const (
	ReasonDryMatch      = "Dry and crisp, just how you like it"
	ReasonSweetMatch    = "Sweet and mellow, just how you like it"
	ReasonBalancedMatch = "Well balanced, matching your taste"
	ReasonWithinBudget  = "Within your budget"
	ReasonFragrant      = "Fragrant, elegant ginjo aroma"
	ReasonUmami         = "Rich rice umami"
	ReasonBeginner      = "An approachable style to start with"
	ReasonAdvanced      = "A premium style for an experienced palate"
)

// PreferenceMatcher scores candidates against the declared taste profile.
// It is the only scorer used for users without tasting history.
//
// The score is two parts, each capped at its ceiling:
//
//	sweetness = max(0, ceiling - decay * |profile - item|)
//	price     = ceiling when price <= budget, then linear decay to zero at
//	            PriceCeilingRatio * budget
type PreferenceMatcher struct {
	baseScorer
	config   recommend.PreferenceConfig
	ceilings recommend.Ceilings
}

var _ recommend.Scorer = (*PreferenceMatcher)(nil)

// NewPreferenceMatcher creates a preference matcher.
func NewPreferenceMatcher(cfg recommend.PreferenceConfig, ceilings recommend.Ceilings) *PreferenceMatcher {
	return &PreferenceMatcher{
		baseScorer: newBaseScorer(recommend.SignalPreference),
		config:     cfg,
		ceilings:   ceilings,
	}
}

// Eligible reports whether item may be recommended to profile at all.
func (m *PreferenceMatcher) Eligible(profile *recommend.PreferenceProfile, item *recommend.CatalogItem) bool {
	return !profile.Excludes(item.Category)
}

// Score implements recommend.Scorer.
func (m *PreferenceMatcher) Score(ctx context.Context, in *recommend.ScoringInput) (*recommend.Signal, error) {
	sig := recommend.NewSignal(m.Name(), len(in.Candidates))

	for i := range in.Candidates {
		if i%checkEvery == 0 && contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		item := &in.Candidates[i]
		if !m.Eligible(in.Profile, item) {
			continue
		}

		sweet := m.sweetnessScore(in.Profile.Sweetness, item.Characteristics.Sweetness)
		price := m.priceScore(in.Profile.Budget, item.Price)
		sig.Scores[item.ID] = sweet + price

		for _, reason := range m.reasons(in.Profile, item) {
			sig.AddReason(item.ID, reason)
		}
	}

	return sig, nil
}

func (m *PreferenceMatcher) sweetnessScore(want int, have float64) float64 {
	gap := math.Abs(float64(want) - have)
	return clamp(m.ceilings.Sweetness-m.config.SweetnessDecay*gap, 0, m.ceilings.Sweetness)
}

func (m *PreferenceMatcher) priceScore(budget, price float64) float64 {
	if price <= budget {
		return m.ceilings.Price
	}
	span := (m.config.PriceCeilingRatio - 1) * budget
	return clamp(m.ceilings.Price*(1-(price-budget)/span), 0, m.ceilings.Price)
}

func (m *PreferenceMatcher) reasons(profile *recommend.PreferenceProfile, item *recommend.CatalogItem) []string {
	var out []string

	sweet := item.Characteristics.Sweetness
	if math.Abs(float64(profile.Sweetness)-sweet) <= 1 {
		switch {
		case sweet <= 2:
			out = append(out, ReasonDryMatch)
		case sweet >= 4:
			out = append(out, ReasonSweetMatch)
		default:
			out = append(out, ReasonBalancedMatch)
		}
	}

	if item.Price <= profile.Budget {
		out = append(out, ReasonWithinBudget)
	}

	switch recommend.NormalizeCategory(item.Category) {
	case recommend.CategoryDaiginjo, recommend.CategoryJunmaiDaiginjo, recommend.CategoryGinjo, recommend.CategoryJunmaiGinjo:
		if profile.AromaIntensity >= 3 {
			out = append(out, ReasonFragrant)
		}
	case recommend.CategoryJunmai:
		if profile.Richness >= 3 {
			out = append(out, ReasonUmami)
		}
	}

	if recommend.ExperienceFit(profile.ExperienceLevel, item.Category) == 100 {
		switch profile.ExperienceLevel {
		case recommend.ExperienceBeginner:
			out = append(out, ReasonBeginner)
		case recommend.ExperienceAdvanced:
			out = append(out, ReasonAdvanced)
		}
	}

	return out
}
