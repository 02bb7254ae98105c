// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package recommend

import (
	"time"
)

// ExperienceLevel is how familiar a user says they are with sake.
type ExperienceLevel string

// Experience levels.
const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// PreferenceProfile is a user's declared taste. Taste axes use a 1-5 scale.
type PreferenceProfile struct {
	// UserID identifies the profile owner.
	UserID string `json:"user_id" validate:"required"`

	// Sweetness runs from 1 (dry, karakuchi) to 5 (sweet, amakuchi).
	Sweetness int `json:"sweetness" validate:"min=1,max=5"`

	// Acidity runs from 1 (soft) to 5 (sharp).
	Acidity int `json:"acidity" validate:"min=1,max=5"`

	// Richness is body, from 1 (light) to 5 (heavy).
	Richness int `json:"richness" validate:"min=1,max=5"`

	// AromaIntensity runs from 1 (subtle) to 5 (fragrant).
	AromaIntensity int `json:"aroma_intensity" validate:"min=1,max=5"`

	// Budget is the price ceiling in yen.
	Budget float64 `json:"budget" validate:"gt=0"`

	// ExperienceLevel gates which styles are called beginner-friendly.
	ExperienceLevel ExperienceLevel `json:"experience_level" validate:"oneof=beginner intermediate advanced"`

	// ExcludedCategories are never recommended.
	ExcludedCategories []string `json:"excluded_categories,omitempty" validate:"dive,required"`
}

// CharacteristicVector is an item's taste on the same 1-5 axes as a profile.
type CharacteristicVector struct {
	Sweetness float64 `json:"sweetness" validate:"min=1,max=5"`
	Acidity   float64 `json:"acidity" validate:"min=1,max=5"`
	Richness  float64 `json:"richness" validate:"min=1,max=5"`
	Aroma     float64 `json:"aroma" validate:"min=1,max=5"`
}

// Array returns the vector components in a fixed order.
func (v CharacteristicVector) Array() [4]float64 {
	return [4]float64{v.Sweetness, v.Acidity, v.Richness, v.Aroma}
}

// CatalogItem is one sake as seen by a single ranking call.
type CatalogItem struct {
	ID              string               `json:"id" validate:"required"`
	Name            string               `json:"name"`
	Category        string               `json:"category" validate:"required"`
	Price           float64              `json:"price" validate:"gte=0"`
	Characteristics CharacteristicVector `json:"characteristics"`
	Region          string               `json:"region,omitempty"`
	BreweryID       string               `json:"brewery_id,omitempty"`

	// AverageRating is the population mean rating, 0 when unrated.
	AverageRating float64 `json:"average_rating,omitempty"`
}

// TastingRecord is one rating a user gave an item.
type TastingRecord struct {
	UserID   string    `json:"user_id" validate:"required"`
	ItemID   string    `json:"item_id" validate:"required"`
	Rating   int       `json:"rating" validate:"min=1,max=5"`
	Notes    string    `json:"notes,omitempty"`
	TastedAt time.Time `json:"tasted_at"`
}

// ComponentScore is the per-item breakdown for one ranking call.
type ComponentScore struct {
	// Preference is the declared-taste match in [0, 40].
	Preference float64 `json:"preference"`

	// Historical is the user's own rating affinity in [0, 30].
	Historical float64 `json:"historical"`

	// Collaborative is what similar tasters think, in [0, 20].
	Collaborative float64 `json:"collaborative"`

	// Content is the similarity to highly rated items, in [0, 10].
	Content float64 `json:"content"`

	// Diversity is the points contributed by the novelty share.
	Diversity float64 `json:"diversity"`

	// Final is the blended score in [0, 100].
	Final float64 `json:"final"`
}

// Recommendation is one ranked item.
type Recommendation struct {
	Item        CatalogItem    `json:"item"`
	Score       float64        `json:"score"`
	Reasons     []string       `json:"reasons"`
	Components  ComponentScore `json:"components"`
	Exploration bool           `json:"exploration,omitempty"`

	// fit breaks ties between equal scores; see ExperienceFit.
	fit float64
}

// Mode is the weighting path a request took.
type Mode string

// Modes.
const (
	ModeColdStart Mode = "cold_start"
	ModeReturning Mode = "returning"
)

// Status distinguishes a ranked list from an explicit empty result.
type Status string

// Statuses.
const (
	StatusOK        Status = "ok"
	StatusNoResults Status = "no_results"
)

// Request is the input to RankRecommendations.
type Request struct {
	// UserID is the user to rank for.
	UserID string `json:"user_id" validate:"required"`

	// Limit bounds the number of returned items. Values above the configured
	// maximum are clamped.
	Limit int `json:"limit" validate:"gt=0"`

	// ExcludeTried drops items the user already has a tasting record for.
	ExcludeTried bool `json:"exclude_tried"`

	// SakeType restricts candidates to one category.
	SakeType string `json:"sake_type,omitempty"`

	// Seed drives the exploration slot. Zero uses the configured seed.
	Seed int64 `json:"seed,omitempty"`

	// Now is the reference time for recency decay. Zero uses the engine clock.
	Now time.Time `json:"-"`

	// RequestID correlates logs. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// DefaultLimit is used by NewRequest.
const DefaultLimit = 10

// NewRequest returns a request for userID with default options.
func NewRequest(userID string) Request {
	return Request{UserID: userID, Limit: DefaultLimit}
}

// Result is the outcome of one ranking call.
type Result struct {
	UserID   string           `json:"user_id"`
	Status   Status           `json:"status"`
	Mode     Mode             `json:"mode"`
	State    State            `json:"state"`
	Items    []Recommendation `json:"items"`
	Degraded []SignalFailure  `json:"degraded,omitempty"`
	Metadata Metadata         `json:"metadata"`
}

// Empty reports whether the result is the explicit no-results outcome.
func (r *Result) Empty() bool {
	return r.Status == StatusNoResults
}

// Metadata describes how a Result was produced. Candidates counts every
// eligible item that was scored; Trimmed is how many of the lowest ranked
// were dropped by the max-candidates bound before diversifying.
type Metadata struct {
	RequestID   string             `json:"request_id"`
	Limit       int                `json:"limit"`
	Candidates  int                `json:"candidates"`
	Trimmed     int                `json:"trimmed,omitempty"`
	SignalsUsed []string           `json:"signals_used,omitempty"`
	Shares      map[string]float64 `json:"shares,omitempty"`
	Seed        int64              `json:"seed"`
	LatencyMS   int64              `json:"latency_ms"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// CatalogFilter narrows GetCandidateCatalog.
type CatalogFilter struct {
	// Category restricts results to one normalized category.
	Category string

	// ItemIDs restricts results to the listed items.
	ItemIDs []string

	// Limit caps the number of rows; zero means no cap.
	Limit int
}
