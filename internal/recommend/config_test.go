// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package recommend

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("default config is valid", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() = %v, want nil", err)
		}
	})

	t.Run("returning blend is 40/30/20/10", func(t *testing.T) {
		w := cfg.Blend.Returning
		if w.Historical != 40 || w.Collaborative != 30 || w.Content != 20 || w.Diversity != 10 {
			t.Errorf("Returning = %+v, want 40/30/20/10", w)
		}
	})

	t.Run("cold start is all preference", func(t *testing.T) {
		if cfg.Blend.ColdStart.Preference != 100 {
			t.Errorf("ColdStart.Preference = %f, want 100", cfg.Blend.ColdStart.Preference)
		}
	})

	t.Run("ceilings", func(t *testing.T) {
		c := cfg.Ceilings
		if c.Preference() != 40 || c.Historical != 30 || c.Collaborative != 20 || c.Content != 10 {
			t.Errorf("Ceilings = %+v, want 40/30/20/10", c)
		}
		if c.For(SignalDiversity) != 1 {
			t.Errorf("For(diversity) = %f, want 1", c.For(SignalDiversity))
		}
	})

	t.Run("seed is set for determinism", func(t *testing.T) {
		if cfg.Seed == 0 {
			t.Error("Seed = 0, want non-zero for determinism")
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{
			name:      "valid default config",
			modify:    func(c *Config) {},
			wantError: false,
		},
		{
			name: "reweighted returning blend",
			modify: func(c *Config) {
				c.Blend.Returning = ReturningWeights{Historical: 25, Collaborative: 25, Content: 25, Diversity: 25}
			},
			wantError: false,
		},
		{
			name:      "returning shares not summing to 100",
			modify:    func(c *Config) { c.Blend.Returning.Historical = 50 },
			wantError: true,
		},
		{
			name:      "negative cold start share",
			modify:    func(c *Config) { c.Blend.ColdStart = ColdStartWeights{Preference: 110, Diversity: -10} },
			wantError: true,
		},
		{
			name:      "zero content ceiling",
			modify:    func(c *Config) { c.Ceilings.Content = 0 },
			wantError: true,
		},
		{
			name:      "sweetness decay too gentle",
			modify:    func(c *Config) { c.Preference.SweetnessDecay = 3 },
			wantError: true,
		},
		{
			name:      "price ceiling ratio at budget",
			modify:    func(c *Config) { c.Preference.PriceCeilingRatio = 1 },
			wantError: true,
		},
		{
			name:      "zero half life",
			modify:    func(c *Config) { c.Historical.HalfLife = 0 },
			wantError: true,
		},
		{
			name:      "similarity threshold above 1",
			modify:    func(c *Config) { c.Historical.SimilarityThreshold = 1.5 },
			wantError: true,
		},
		{
			name:      "unknown collaborative metric",
			modify:    func(c *Config) { c.Collaborative.Metric = "jaccard" },
			wantError: true,
		},
		{
			name:      "euclidean is not a collaborative metric",
			modify:    func(c *Config) { c.Collaborative.Metric = MetricEuclidean },
			wantError: true,
		},
		{
			name:      "pearson collaborative metric",
			modify:    func(c *Config) { c.Collaborative.Metric = MetricPearson },
			wantError: false,
		},
		{
			name:      "zero min overlap",
			modify:    func(c *Config) { c.Collaborative.MinOverlap = 0 },
			wantError: true,
		},
		{
			name:      "high rating threshold out of scale",
			modify:    func(c *Config) { c.Content.HighRatingThreshold = 6 },
			wantError: true,
		},
		{
			name:      "max category share above 1",
			modify:    func(c *Config) { c.Diversity.MaxCategoryShare = 1.2 },
			wantError: true,
		},
		{
			name:      "unsorted price tiers",
			modify:    func(c *Config) { c.Diversity.PriceTiers = []float64{5000, 2000} },
			wantError: true,
		},
		{
			name:      "popular rating above scale",
			modify:    func(c *Config) { c.Popularity.ReasonRating = 5.5 },
			wantError: true,
		},
		{
			name:      "popular reason disabled",
			modify:    func(c *Config) { c.Popularity.ReasonRating = 0 },
			wantError: false,
		},
		{
			name:      "MaxLimit less than DefaultLimit",
			modify:    func(c *Config) { c.Limits.MaxLimit = 5; c.Limits.DefaultLimit = 10 },
			wantError: true,
		},
		{
			name:      "zero scorer timeout",
			modify:    func(c *Config) { c.Limits.ScorerTimeout = 0 },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestDiversityConfig_PriceTier(t *testing.T) {
	d := DefaultConfig().Diversity

	tests := []struct {
		price float64
		want  int
	}{
		{0, 0},
		{1999, 0},
		{2000, 1},
		{4999, 1},
		{5000, 2},
		{30000, 2},
	}

	for _, tt := range tests {
		if got := d.PriceTier(tt.price); got != tt.want {
			t.Errorf("PriceTier(%f) = %d, want %d", tt.price, got, tt.want)
		}
	}
}

func TestConfig_Clone(t *testing.T) {
	original := DefaultConfig()
	original.Collaborative.Neighbors = 99

	clone := original.Clone()

	t.Run("clone has same values", func(t *testing.T) {
		if clone.Collaborative.Neighbors != 99 {
			t.Errorf("clone.Collaborative.Neighbors = %d, want 99", clone.Collaborative.Neighbors)
		}
	})

	t.Run("clone is independent", func(t *testing.T) {
		clone.Collaborative.Neighbors = 5
		clone.Diversity.PriceTiers[0] = 1
		if original.Collaborative.Neighbors == 5 {
			t.Error("modifying clone affected original")
		}
		if original.Diversity.PriceTiers[0] == 1 {
			t.Error("clone shares the price tier slice with original")
		}
	})
}
