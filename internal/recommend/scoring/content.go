// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package scoring

import (
	"context"
	"sort"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

// ReasonContent explains a close characteristic match to a liked item.
const ReasonContent = "Similar to sakes you rated highly"

const contentReasonSimilarity = 0.8

// ContentFilter scores candidates by how closely their characteristic
// vector matches the best of the user's highly rated items. The item itself
// never counts as its own match.
type ContentFilter struct {
	baseScorer
	config  recommend.ContentConfig
	ceiling float64
}

var _ recommend.Scorer = (*ContentFilter)(nil)

// NewContentFilter creates a content similarity filter.
func NewContentFilter(cfg recommend.ContentConfig, ceilings recommend.Ceilings) *ContentFilter {
	return &ContentFilter{
		baseScorer: newBaseScorer(recommend.SignalContent),
		config:     cfg,
		ceiling:    ceilings.Content,
	}
}

type likedItem struct {
	id     string
	vector recommend.CharacteristicVector
}

// Score implements recommend.Scorer.
func (f *ContentFilter) Score(ctx context.Context, in *recommend.ScoringInput) (*recommend.Signal, error) {
	liked := f.likedItems(in)
	if len(liked) == 0 {
		return recommend.UnavailableSignal(f.Name()), nil
	}

	sig := recommend.NewSignal(f.Name(), len(in.Candidates))
	for i := range in.Candidates {
		if i%checkEvery == 0 && contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		item := &in.Candidates[i]

		best := 0.0
		for _, l := range liked {
			if l.id == item.ID {
				continue
			}
			if sim := f.similarity(l.vector, item.Characteristics); sim > best {
				best = sim
			}
		}

		sig.Scores[item.ID] = clamp(best*f.ceiling, 0, f.ceiling)
		if best >= contentReasonSimilarity {
			sig.AddReason(item.ID, ReasonContent)
		}
	}

	return sig, nil
}

// likedItems resolves the items whose latest rating reaches the threshold,
// sorted by ID.
func (f *ContentFilter) likedItems(in *recommend.ScoringInput) []likedItem {
	var liked []likedItem
	for id, rating := range latestRatings(in.History) {
		if rating < float64(f.config.HighRatingThreshold) {
			continue
		}
		item, ok := in.Items[id]
		if !ok {
			continue
		}
		liked = append(liked, likedItem{id: id, vector: item.Characteristics})
	}
	sort.Slice(liked, func(i, j int) bool { return liked[i].id < liked[j].id })
	return liked
}

func (f *ContentFilter) similarity(a, b recommend.CharacteristicVector) float64 {
	if f.config.Metric == recommend.MetricCosine {
		return clamp(cosine(a.Array(), b.Array()), 0, 1)
	}
	return euclideanSimilarity(a, b)
}
