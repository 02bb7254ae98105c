// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package recommend

import (
	"strings"
)

// Well-known categories, in normalized form.
const (
	CategoryJunmai         = "junmai"
	CategoryHonjozo        = "honjozo"
	CategoryFutsushu       = "futsushu"
	CategoryGinjo          = "ginjo"
	CategoryJunmaiGinjo    = "junmai_ginjo"
	CategoryDaiginjo       = "daiginjo"
	CategoryJunmaiDaiginjo = "junmai_daiginjo"
	CategoryKoshu          = "koshu"
	CategoryNigori         = "nigori"
)

var categoryReplacer = strings.NewReplacer(" ", "_", "-", "_")

// NormalizeCategory folds case and separators so "Junmai Daiginjo" and
// "junmai_daiginjo" compare equal.
func NormalizeCategory(category string) string {
	return categoryReplacer.Replace(strings.ToLower(strings.TrimSpace(category)))
}

// Excludes reports whether the profile excludes category.
func (p *PreferenceProfile) Excludes(category string) bool {
	c := NormalizeCategory(category)
	for _, ex := range p.ExcludedCategories {
		if NormalizeCategory(ex) == c {
			return true
		}
	}
	return false
}

var (
	beginnerCategories = map[string]struct{}{
		CategoryJunmai:   {},
		CategoryHonjozo:  {},
		CategoryFutsushu: {},
	}
	advancedCategories = map[string]struct{}{
		CategoryDaiginjo:       {},
		CategoryJunmaiDaiginjo: {},
		CategoryKoshu:          {},
	}
)

// ExperienceFit scores how well a category suits an experience level, 0-100.
// Beginners are steered to approachable styles and advanced drinkers to
// premium and aged ones. Intermediate drinkers are indifferent.
func ExperienceFit(level ExperienceLevel, category string) float64 {
	c := NormalizeCategory(category)
	switch level {
	case ExperienceBeginner:
		if _, ok := beginnerCategories[c]; ok {
			return 100
		}
		return 50
	case ExperienceIntermediate:
		return 80
	case ExperienceAdvanced:
		if _, ok := advancedCategories[c]; ok {
			return 100
		}
		return 70
	default:
		return 50
	}
}
