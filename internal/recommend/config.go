// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package recommend

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Config contains all tunable policy for the ranking engine.
type Config struct {
	// Blend holds the per-mode weighting of components.
	Blend BlendPolicy `json:"blend" koanf:"blend"`

	// Ceilings are the maximum points each sub-score can reach.
	Ceilings Ceilings `json:"ceilings" koanf:"ceilings"`

	// Preference tunes the declared-taste matcher.
	Preference PreferenceConfig `json:"preference" koanf:"preference"`

	// Historical tunes the personal affinity analyzer.
	Historical HistoricalConfig `json:"historical" koanf:"historical"`

	// Collaborative tunes the neighbour-based filter.
	Collaborative CollaborativeConfig `json:"collaborative" koanf:"collaborative"`

	// Content tunes the characteristic similarity filter.
	Content ContentConfig `json:"content" koanf:"content"`

	// Diversity tunes the slot reservation policy.
	Diversity DiversityConfig `json:"diversity" koanf:"diversity"`

	// Popularity tunes how the population mean rating is used.
	Popularity PopularityConfig `json:"popularity" koanf:"popularity"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Seed drives the exploration slot when a request carries none.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed" koanf:"seed"`
}

// BlendPolicy holds percentage shares per mode. Each mode sums to 100.
type BlendPolicy struct {
	ColdStart ColdStartWeights `json:"cold_start" koanf:"cold_start"`
	Returning ReturningWeights `json:"returning" koanf:"returning"`
}

// ColdStartWeights apply to users without tasting history.
type ColdStartWeights struct {
	Preference float64 `json:"preference" koanf:"preference"`
	Diversity  float64 `json:"diversity" koanf:"diversity"`
}

// ToMap returns shares keyed by signal name.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w ColdStartWeights) ToMap() map[string]float64 {
	return map[string]float64{
		SignalPreference: w.Preference,
		SignalDiversity:  w.Diversity,
	}
}

// ReturningWeights apply to users with at least one tasting record.
type ReturningWeights struct {
	Historical    float64 `json:"historical" koanf:"historical"`
	Collaborative float64 `json:"collaborative" koanf:"collaborative"`
	Content       float64 `json:"content" koanf:"content"`
	Diversity     float64 `json:"diversity" koanf:"diversity"`
}

// ToMap returns shares keyed by signal name.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w ReturningWeights) ToMap() map[string]float64 {
	return map[string]float64{
		SignalHistorical:    w.Historical,
		SignalCollaborative: w.Collaborative,
		SignalContent:       w.Content,
		SignalDiversity:     w.Diversity,
	}
}

// Ceilings are sub-score maxima in points.
type Ceilings struct {
	Sweetness     float64 `json:"sweetness" koanf:"sweetness"`
	Price         float64 `json:"price" koanf:"price"`
	Historical    float64 `json:"historical" koanf:"historical"`
	Collaborative float64 `json:"collaborative" koanf:"collaborative"`
	Content       float64 `json:"content" koanf:"content"`
}

// Preference returns the preference ceiling, sweetness plus price.
func (c Ceilings) Preference() float64 {
	return c.Sweetness + c.Price
}

// For returns the ceiling for a signal name. Diversity is a 0-1 ratio.
func (c Ceilings) For(signal string) float64 {
	switch signal {
	case SignalPreference:
		return c.Preference()
	case SignalHistorical:
		return c.Historical
	case SignalCollaborative:
		return c.Collaborative
	case SignalContent:
		return c.Content
	default:
		return 1
	}
}

// PreferenceConfig contains parameters for declared-taste matching.
type PreferenceConfig struct {
	// SweetnessDecay is the points lost per step of sweetness gap.
	SweetnessDecay float64 `json:"sweetness_decay" koanf:"sweetness_decay"`

	// PriceCeilingRatio is the budget multiple at which price alignment hits zero.
	PriceCeilingRatio float64 `json:"price_ceiling_ratio" koanf:"price_ceiling_ratio"`
}

// HistoricalConfig contains parameters for personal affinity.
type HistoricalConfig struct {
	// HalfLife is the age at which a rating carries half weight.
	HalfLife time.Duration `json:"half_life" koanf:"half_life"`

	// MinWeight floors the recency weight so old ratings never vanish.
	MinWeight float64 `json:"min_weight" koanf:"min_weight"`

	// SimilarityThreshold is the centered cosine above which a rated item
	// of another category still counts as related.
	SimilarityThreshold float64 `json:"similarity_threshold" koanf:"similarity_threshold"`

	// HistoryWindow keeps only the most recent N records.
	HistoryWindow int `json:"history_window" koanf:"history_window"`
}

// Similarity metrics for the collaborative filter.
const (
	MetricAgreement = "agreement"
	MetricCosine    = "cosine"
	MetricPearson   = "pearson"
	MetricEuclidean = "euclidean"
)

// CollaborativeConfig contains parameters for user-based filtering.
type CollaborativeConfig struct {
	// Neighbors is the number of most similar users kept.
	Neighbors int `json:"neighbors" koanf:"neighbors"`

	// MinOverlap is the number of commonly rated items required before
	// two users are compared at all.
	MinOverlap int `json:"min_overlap" koanf:"min_overlap"`

	// MinSimilarity drops weak neighbours.
	MinSimilarity float64 `json:"min_similarity" koanf:"min_similarity"`

	// Metric is agreement, cosine or pearson.
	Metric string `json:"metric" koanf:"metric"`

	// Shrinkage damps similarities backed by few common items: sim * n/(n+shrinkage).
	Shrinkage float64 `json:"shrinkage" koanf:"shrinkage"`

	// MaxPopulationRecords bounds the population sample read per request.
	MaxPopulationRecords int `json:"max_population_records" koanf:"max_population_records"`
}

// ContentConfig contains parameters for characteristic similarity.
type ContentConfig struct {
	// HighRatingThreshold is the minimum rating for an item to count as liked.
	HighRatingThreshold int `json:"high_rating_threshold" koanf:"high_rating_threshold"`

	// Metric is euclidean or cosine.
	Metric string `json:"metric" koanf:"metric"`
}

// DiversityConfig contains parameters for the diversity injector.
type DiversityConfig struct {
	// Enabled toggles slot reservation. When false the list is cut by score.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// ReserveEvery reserves every Nth slot for an unrepresented candidate.
	ReserveEvery int `json:"reserve_every" koanf:"reserve_every"`

	// MaxCategoryShare caps how much of the list one category may fill.
	MaxCategoryShare float64 `json:"max_category_share" koanf:"max_category_share"`

	// ExplorationPool is how many qualifying candidates a reserved slot
	// chooses among. 1 always takes the best one.
	ExplorationPool int `json:"exploration_pool" koanf:"exploration_pool"`

	// PriceTiers are ascending yen boundaries between price tiers.
	PriceTiers []float64 `json:"price_tiers" koanf:"price_tiers"`

	// TriedBreweryNovelty is the novelty ratio for a brewery the user has
	// already tasted. Untried breweries score 1.
	TriedBreweryNovelty float64 `json:"tried_brewery_novelty" koanf:"tried_brewery_novelty"`
}

// PriceTier returns the index of the tier price falls in.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (d DiversityConfig) PriceTier(price float64) int {
	tier := 0
	for _, bound := range d.PriceTiers {
		if price >= bound {
			tier++
		}
	}
	return tier
}

// PopularityConfig covers the population mean rating of each item. It
// breaks ties between equal blended scores and can add a reason.
type PopularityConfig struct {
	// ReasonRating is the mean rating at or above which an item is called
	// popular with other tasters. Zero disables the reason.
	ReasonRating float64 `json:"reason_rating" koanf:"reason_rating"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultLimit is applied by the API layer when a caller omits limit.
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`

	// MaxLimit clamps larger requested limits.
	MaxLimit int `json:"max_limit" koanf:"max_limit"`

	// MaxCandidates bounds the blended pool handed to the diversifying
	// stage. Every eligible item is scored first; the lowest ranked beyond
	// the bound are dropped and counted in Metadata.Trimmed.
	MaxCandidates int `json:"max_candidates" koanf:"max_candidates"`

	// ScorerTimeout bounds each scorer.
	ScorerTimeout time.Duration `json:"scorer_timeout" koanf:"scorer_timeout"`
}

// DefaultSeed is used when neither the config nor the request sets one.
const DefaultSeed int64 = 42

// DefaultConfig returns the default engine policy.
func DefaultConfig() *Config {
	return &Config{
		Blend: BlendPolicy{
			ColdStart: ColdStartWeights{Preference: 100, Diversity: 0},
			Returning: ReturningWeights{Historical: 40, Collaborative: 30, Content: 20, Diversity: 10},
		},
		Ceilings: Ceilings{
			Sweetness:     20,
			Price:         20,
			Historical:    30,
			Collaborative: 20,
			Content:       10,
		},
		Preference: PreferenceConfig{
			SweetnessDecay:    4,
			PriceCeilingRatio: 1.5,
		},
		Historical: HistoricalConfig{
			HalfLife:            90 * 24 * time.Hour,
			MinWeight:           0.05,
			SimilarityThreshold: 0.85,
			HistoryWindow:       50,
		},
		Collaborative: CollaborativeConfig{
			Neighbors:            20,
			MinOverlap:           2,
			MinSimilarity:        0.1,
			Metric:               MetricAgreement,
			Shrinkage:            0,
			MaxPopulationRecords: 50000,
		},
		Content: ContentConfig{
			HighRatingThreshold: 4,
			Metric:              MetricEuclidean,
		},
		Diversity: DiversityConfig{
			Enabled:             true,
			ReserveEvery:        5,
			MaxCategoryShare:    0.8,
			ExplorationPool:     1,
			PriceTiers:          []float64{2000, 5000},
			TriedBreweryNovelty: 0.5,
		},
		Popularity: PopularityConfig{
			ReasonRating: 4,
		},
		Limits: LimitsConfig{
			DefaultLimit:  DefaultLimit,
			MaxLimit:      50,
			MaxCandidates: 1000,
			ScorerTimeout: 2 * time.Second,
		},
		Seed: DefaultSeed,
	}
}

const shareTolerance = 1e-6

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := validateShares("blend.cold_start", c.Blend.ColdStart.ToMap()); err != nil {
		return err
	}
	if err := validateShares("blend.returning", c.Blend.Returning.ToMap()); err != nil {
		return err
	}

	for name, v := range map[string]float64{
		"ceilings.sweetness":     c.Ceilings.Sweetness,
		"ceilings.price":         c.Ceilings.Price,
		"ceilings.historical":    c.Ceilings.Historical,
		"ceilings.collaborative": c.Ceilings.Collaborative,
		"ceilings.content":       c.Ceilings.Content,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %f", name, v)
		}
	}

	// A gap of 5 must always score zero.
	if c.Preference.SweetnessDecay*5 < c.Ceilings.Sweetness {
		return fmt.Errorf("preference.sweetness_decay must be at least %f, got %f",
			c.Ceilings.Sweetness/5, c.Preference.SweetnessDecay)
	}
	if c.Preference.PriceCeilingRatio <= 1 {
		return fmt.Errorf("preference.price_ceiling_ratio must be greater than 1, got %f", c.Preference.PriceCeilingRatio)
	}

	if c.Historical.HalfLife <= 0 {
		return fmt.Errorf("historical.half_life must be positive, got %v", c.Historical.HalfLife)
	}
	if c.Historical.MinWeight < 0 || c.Historical.MinWeight > 1 {
		return fmt.Errorf("historical.min_weight must be in [0, 1], got %f", c.Historical.MinWeight)
	}
	if c.Historical.SimilarityThreshold < -1 || c.Historical.SimilarityThreshold > 1 {
		return fmt.Errorf("historical.similarity_threshold must be in [-1, 1], got %f", c.Historical.SimilarityThreshold)
	}
	if c.Historical.HistoryWindow < 1 {
		return fmt.Errorf("historical.history_window must be positive, got %d", c.Historical.HistoryWindow)
	}

	if c.Collaborative.Neighbors < 1 {
		return fmt.Errorf("collaborative.neighbors must be positive, got %d", c.Collaborative.Neighbors)
	}
	if c.Collaborative.MinOverlap < 1 {
		return fmt.Errorf("collaborative.min_overlap must be positive, got %d", c.Collaborative.MinOverlap)
	}
	if c.Collaborative.MinSimilarity < 0 || c.Collaborative.MinSimilarity >= 1 {
		return fmt.Errorf("collaborative.min_similarity must be in [0, 1), got %f", c.Collaborative.MinSimilarity)
	}
	switch c.Collaborative.Metric {
	case MetricAgreement, MetricCosine, MetricPearson:
	default:
		return fmt.Errorf("collaborative.metric must be agreement, cosine or pearson, got %q", c.Collaborative.Metric)
	}
	if c.Collaborative.Shrinkage < 0 {
		return fmt.Errorf("collaborative.shrinkage must be non-negative, got %f", c.Collaborative.Shrinkage)
	}
	if c.Collaborative.MaxPopulationRecords < 0 {
		return fmt.Errorf("collaborative.max_population_records must be non-negative, got %d", c.Collaborative.MaxPopulationRecords)
	}

	if c.Content.HighRatingThreshold < 1 || c.Content.HighRatingThreshold > 5 {
		return fmt.Errorf("content.high_rating_threshold must be in [1, 5], got %d", c.Content.HighRatingThreshold)
	}
	switch c.Content.Metric {
	case MetricEuclidean, MetricCosine:
	default:
		return fmt.Errorf("content.metric must be euclidean or cosine, got %q", c.Content.Metric)
	}

	if c.Diversity.ReserveEvery < 0 {
		return fmt.Errorf("diversity.reserve_every must be non-negative, got %d", c.Diversity.ReserveEvery)
	}
	if c.Diversity.MaxCategoryShare <= 0 || c.Diversity.MaxCategoryShare > 1 {
		return fmt.Errorf("diversity.max_category_share must be in (0, 1], got %f", c.Diversity.MaxCategoryShare)
	}
	if c.Diversity.ExplorationPool < 1 {
		return fmt.Errorf("diversity.exploration_pool must be positive, got %d", c.Diversity.ExplorationPool)
	}
	if !sort.Float64sAreSorted(c.Diversity.PriceTiers) {
		return fmt.Errorf("diversity.price_tiers must be ascending, got %v", c.Diversity.PriceTiers)
	}
	if c.Diversity.TriedBreweryNovelty < 0 || c.Diversity.TriedBreweryNovelty > 1 {
		return fmt.Errorf("diversity.tried_brewery_novelty must be in [0, 1], got %f", c.Diversity.TriedBreweryNovelty)
	}

	if c.Popularity.ReasonRating < 0 || c.Popularity.ReasonRating > 5 {
		return fmt.Errorf("popularity.reason_rating must be in [0, 5], got %f", c.Popularity.ReasonRating)
	}

	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.MaxCandidates < c.Limits.MaxLimit {
		return fmt.Errorf("limits.max_candidates must be >= limits.max_limit, got %d < %d", c.Limits.MaxCandidates, c.Limits.MaxLimit)
	}
	if c.Limits.ScorerTimeout <= 0 {
		return fmt.Errorf("limits.scorer_timeout must be positive, got %v", c.Limits.ScorerTimeout)
	}

	return nil
}

func validateShares(prefix string, shares map[string]float64) error {
	sum := 0.0
	for name, v := range shares {
		if v < 0 {
			return fmt.Errorf("%s.%s must be non-negative, got %f", prefix, name, v)
		}
		sum += v
	}
	if math.Abs(sum-100) > shareTolerance {
		return fmt.Errorf("%s shares must sum to 100, got %f", prefix, sum)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Diversity.PriceTiers = append([]float64(nil), c.Diversity.PriceTiers...)
	return &clone
}
