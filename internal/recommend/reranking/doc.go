// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

// Package reranking implements post-processing of ranked recommendations.
//
// Rerankers operate on the blended, score-ordered list and decide which
// items make the final cut:
//
//	Scorers -> Blend -> Rerankers -> Final Ranking
//	(relevance)         (diversity)
//
// # Diversity
//
// Diversity keeps a single category from dominating the list and reserves
// slots for exploration:
//
//   - No category may hold more than MaxCategoryShare of the returned items
//     when at least two categories are available.
//   - Every ReserveEvery-th slot goes to an item from a category, region or
//     price tier not yet in the list, in that order of preference.
//   - The reserved item is drawn from the ExplorationPool best qualifying
//     candidates with a seeded generator, so the same request always yields
//     the same list.
//
// Exploration picks are flagged and carry an extra reason.
//
// # Thread Safety
//
// Rerankers hold only configuration and are safe for concurrent use.
package reranking
