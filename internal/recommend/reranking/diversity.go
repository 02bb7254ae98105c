// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package reranking

import (
	"context"
	"math"
	"math/rand"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

// ReasonExploration is prepended to items placed by a reserved slot.
const ReasonExploration = "Something different to broaden your palate"

// Diversity keeps a ranked list from being dominated by one category,
// region or price tier.
//
// Every ReserveEvery-th slot is reserved for the best remaining candidate
// that adds variety, tried in this order:
//
//  1. a category not yet in the list
//  2. a region not yet in the list
//  3. a price tier not yet in the list
//
// If nothing qualifies the slot is filled by score. All other slots are
// filled by score, skipping candidates whose category already holds
// floor(MaxCategoryShare * n) slots while an alternative remains.
//
// The output depends only on the input order, the limit and the seed.
type Diversity struct {
	config recommend.DiversityConfig
}

var _ recommend.Reranker = (*Diversity)(nil)

// NewDiversity creates a diversity reranker.
func NewDiversity(cfg recommend.DiversityConfig) *Diversity {
	if cfg.ExplorationPool < 1 {
		cfg.ExplorationPool = 1
	}
	return &Diversity{config: cfg}
}

// Name returns the reranker identifier.
func (d *Diversity) Name() string {
	return "diversity"
}

// selection tracks what the output list already covers.
type selection struct {
	used       []bool
	categories map[string]int
	regions    map[string]struct{}
	tiers      map[int]struct{}
	cap        int
	enforceCap bool
}

// Rerank implements recommend.Reranker.
func (d *Diversity) Rerank(_ context.Context, ranked []recommend.Recommendation, limit int, seed int64) []recommend.Recommendation {
	n := limit
	if n > len(ranked) {
		n = len(ranked)
	}
	if n <= 0 {
		return []recommend.Recommendation{}
	}
	if !d.config.Enabled {
		return append([]recommend.Recommendation(nil), ranked[:n]...)
	}

	sel := &selection{
		used:       make([]bool, len(ranked)),
		categories: make(map[string]int),
		regions:    make(map[string]struct{}),
		tiers:      make(map[int]struct{}),
		cap:        max(1, int(math.Floor(d.config.MaxCategoryShare*float64(n)))),
		enforceCap: distinctCategories(ranked) >= 2,
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic exploration, not security

	out := make([]recommend.Recommendation, 0, n)
	for pos := 1; pos <= n; pos++ {
		idx, explored := -1, false
		if d.config.ReserveEvery > 0 && pos%d.config.ReserveEvery == 0 {
			idx = d.reservedPick(ranked, sel, rng)
			explored = idx >= 0
		}
		if idx < 0 {
			idx = d.scorePick(ranked, sel)
		}
		if idx < 0 {
			break
		}

		rec := ranked[idx]
		if explored {
			rec.Exploration = true
			rec.Reasons = append([]string{ReasonExploration}, rec.Reasons...)
		}
		d.take(ranked, sel, idx)
		out = append(out, rec)
	}
	return out
}

// reservedPick returns the index for a reserved slot, or -1 when no
// candidate adds variety.
func (d *Diversity) reservedPick(ranked []recommend.Recommendation, sel *selection, rng *rand.Rand) int {
	criteria := []func(item *recommend.CatalogItem) bool{
		func(item *recommend.CatalogItem) bool {
			return sel.categories[recommend.NormalizeCategory(item.Category)] == 0
		},
		func(item *recommend.CatalogItem) bool {
			if item.Region == "" {
				return false
			}
			_, seen := sel.regions[item.Region]
			return !seen
		},
		func(item *recommend.CatalogItem) bool {
			_, seen := sel.tiers[d.config.PriceTier(item.Price)]
			return !seen
		},
	}

	for _, qualifies := range criteria {
		pool := make([]int, 0, d.config.ExplorationPool)
		for i := range ranked {
			if sel.used[i] || sel.atCap(&ranked[i].Item) {
				continue
			}
			if qualifies(&ranked[i].Item) {
				pool = append(pool, i)
				if len(pool) == d.config.ExplorationPool {
					break
				}
			}
		}
		switch len(pool) {
		case 0:
			continue
		case 1:
			return pool[0]
		default:
			return pool[rng.Intn(len(pool))]
		}
	}
	return -1
}

// scorePick returns the best unused candidate whose category is under the
// cap, falling back to the best unused candidate of any category.
func (d *Diversity) scorePick(ranked []recommend.Recommendation, sel *selection) int {
	fallback := -1
	for i := range ranked {
		if sel.used[i] {
			continue
		}
		if !sel.atCap(&ranked[i].Item) {
			return i
		}
		if fallback < 0 {
			fallback = i
		}
	}
	return fallback
}

func (d *Diversity) take(ranked []recommend.Recommendation, sel *selection, idx int) {
	item := &ranked[idx].Item
	sel.used[idx] = true
	sel.categories[recommend.NormalizeCategory(item.Category)]++
	if item.Region != "" {
		sel.regions[item.Region] = struct{}{}
	}
	sel.tiers[d.config.PriceTier(item.Price)] = struct{}{}
}

func (s *selection) atCap(item *recommend.CatalogItem) bool {
	return s.enforceCap && s.categories[recommend.NormalizeCategory(item.Category)] >= s.cap
}

func distinctCategories(ranked []recommend.Recommendation) int {
	seen := make(map[string]struct{})
	for i := range ranked {
		seen[recommend.NormalizeCategory(ranked[i].Item.Category)] = struct{}{}
		if len(seen) >= 2 {
			break
		}
	}
	return len(seen)
}
