// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

/*
Package cache provides the user similarity cache backends.

The collaborative filter memoizes user-user similarities through the
recommend.SimilarityCache interface. Two backends are provided:

  - SimilarityLRU: in-process, bounded by capacity and TTL. Suitable for a
    single engine process.
  - RedisSimilarity: shared between replicas, TTL enforced by SET EX.

# Invalidation

Keys embed the similarity settings and a fingerprint of both users'
ratings:

	usim:{metric}:{shrinkage}:{user_a}:{user_b}:{fingerprint_a}:{fingerprint_b}

Replicas configured with different metrics can share one Redis without
reading each other's values.

A new or changed rating yields a new key, so a stale similarity is never
read. Old keys simply age out through the TTL.

# Failure Handling

A cache never fails a ranking call. Redis errors are counted in
sakesensei_similarity_cache_errors_total and reported as misses, and the
similarity is recomputed.

# Usage Example

	var sims recommend.SimilarityCache = cache.NewSimilarityLRU(100000, 30*time.Minute)
	for _, s := range scoring.Defaults(cfg, sims) {
	    engine.RegisterScorer(s)
	}

# Thread Safety

All types in this package are safe for concurrent use.
*/
package cache
