// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

// Package scoring implements the signals blended by the ranking engine.
//
// Each scorer implements recommend.Scorer and is registered with
// recommend.Engine. Scorers are stateless between calls: everything they
// read arrives in a recommend.ScoringInput snapshot, and nothing they compute
// outlives the request except entries in an injected SimilarityCache.
//
// # Scorers
//
//   - PreferenceMatcher: declared taste and budget, [0, 40]. Runs for every user.
//   - HistoricalAnalyzer: the user's own recency-weighted ratings, [0, 30].
//   - CollaborativeFilter: ratings of users with overlapping taste, [0, 20].
//   - ContentFilter: characteristic similarity to highly rated items, [0, 10].
//
// The last three run only for users with tasting history. A scorer with no
// usable data returns an unavailable signal and the engine redistributes
// its blend share.
//
// # Characteristic Vectors
//
// Items and profiles share four 1-5 axes: sweetness, acidity, richness and
// aroma. Similarities are computed over these axes:
//
//	centered cosine:  cos(a-3, b-3), used for historical relevance
//	euclidean:        1 - |a-b| / 8, used for content similarity
//
// # Thread Safety
//
// All scorers are safe for concurrent use.
package scoring
