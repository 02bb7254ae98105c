// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package scoring

import (
	"context"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

// ReasonHistorical explains a high historical affinity.
const ReasonHistorical = "You tend to rate this style highly"

// historicalReasonAvg is the weighted average rating from which the
// historical reason is attached.
const historicalReasonAvg = 4.0

// HistoricalAnalyzer scores candidates by the user's own ratings of related
// items. A rated item is related to a candidate when it shares the
// candidate's category, or when their centered cosine similarity reaches
// SimilarityThreshold. Each rating is weighted by relevance and recency:
//
//	weight = relevance * max(MinWeight, 0.5^(age / HalfLife))
//	score  = (weighted_avg - 1) / 4 * ceiling
//
// Candidates with no related history get the neutral midpoint so unexplored
// styles are not penalized.
type HistoricalAnalyzer struct {
	baseScorer
	config  recommend.HistoricalConfig
	ceiling float64
}

var _ recommend.Scorer = (*HistoricalAnalyzer)(nil)

// NewHistoricalAnalyzer creates a historical affinity analyzer.
func NewHistoricalAnalyzer(cfg recommend.HistoricalConfig, ceilings recommend.Ceilings) *HistoricalAnalyzer {
	return &HistoricalAnalyzer{
		baseScorer: newBaseScorer(recommend.SignalHistorical),
		config:     cfg,
		ceiling:    ceilings.Historical,
	}
}

// ratedItem is a history record resolved against the catalog.
type ratedItem struct {
	category string
	vector   recommend.CharacteristicVector
	rating   float64
	recency  float64
}

// Score implements recommend.Scorer.
func (h *HistoricalAnalyzer) Score(ctx context.Context, in *recommend.ScoringInput) (*recommend.Signal, error) {
	if len(in.History) == 0 {
		return recommend.UnavailableSignal(h.Name()), nil
	}

	rated := make([]ratedItem, 0, len(in.History))
	for _, rec := range in.History {
		item, ok := in.Items[rec.ItemID]
		if !ok {
			continue
		}
		rated = append(rated, ratedItem{
			category: recommend.NormalizeCategory(item.Category),
			vector:   item.Characteristics,
			rating:   float64(rec.Rating),
			recency:  recencyWeight(rec.TastedAt, in.Now, h.config.HalfLife, h.config.MinWeight),
		})
	}

	sig := recommend.NewSignal(h.Name(), len(in.Candidates))
	for i := range in.Candidates {
		if i%checkEvery == 0 && contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		item := &in.Candidates[i]

		avg, ok := h.weightedAverage(rated, item)
		if !ok {
			sig.Scores[item.ID] = h.ceiling / 2
			continue
		}
		sig.Scores[item.ID] = clamp((avg-1)/4*h.ceiling, 0, h.ceiling)
		if avg >= historicalReasonAvg {
			sig.AddReason(item.ID, ReasonHistorical)
		}
	}

	return sig, nil
}

// weightedAverage returns the relevance and recency weighted rating of the
// history related to item, and false when nothing is related.
func (h *HistoricalAnalyzer) weightedAverage(rated []ratedItem, item *recommend.CatalogItem) (float64, bool) {
	category := recommend.NormalizeCategory(item.Category)

	var sum, weights float64
	for i := range rated {
		r := &rated[i]
		relevance := 1.0
		if r.category != category {
			relevance = centeredCosine(r.vector, item.Characteristics)
			if relevance < h.config.SimilarityThreshold || relevance <= 0 {
				continue
			}
		}
		w := relevance * r.recency
		sum += w * r.rating
		weights += w
	}

	if weights == 0 {
		return 0, false
	}
	return sum / weights, true
}
