// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package scoring

import (
	"context"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

// baseScorer provides the name shared by all scorers.
type baseScorer struct {
	name string
}

func newBaseScorer(name string) baseScorer {
	return baseScorer{name: name}
}

// Name returns the signal name.
func (b *baseScorer) Name() string {
	return b.name
}

// Defaults returns the standard scorer set configured from cfg. cache may be
// nil, in which case user similarities are memoized per request only.
func Defaults(cfg *recommend.Config, cache recommend.SimilarityCache) []recommend.Scorer {
	return []recommend.Scorer{
		NewPreferenceMatcher(cfg.Preference, cfg.Ceilings),
		NewHistoricalAnalyzer(cfg.Historical, cfg.Ceilings),
		NewCollaborativeFilter(cfg.Collaborative, cfg.Ceilings, cache),
		NewContentFilter(cfg.Content, cfg.Ceilings),
	}
}

// contextCancelled checks if the context has been cancelled.
func contextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// checkEvery is how many candidates are scored between cancellation checks.
const checkEvery = 64
