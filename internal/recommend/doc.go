// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

// Package recommend ranks sake for a user.
//
// The Engine runs each request through a fixed state machine:
//
//	INIT -> SCORING -> BLENDING -> DIVERSIFYING -> FINALIZED
//	  \________\______________________________ -> REJECTED
//
// INIT validates the request, loads a snapshot from the DataSource and
// filters the candidate pool. SCORING runs the registered Scorers in
// parallel. Only the preference scorer runs for a user without tasting
// history. BLENDING combines sub-scores under the configured BlendPolicy.
// Components with no usable data have their share redistributed over the
// rest. DIVERSIFYING hands the ranked list to the registered Rerankers.
//
// Scorers live in the scoring subpackage and the diversity injector in
// reranking. The caller wires them:
//
//	engine, err := recommend.NewEngine(cfg, source, logger)
//	for _, s := range scoring.Defaults(cfg, cache) {
//	    engine.RegisterScorer(s)
//	}
//	engine.RegisterReranker(reranking.NewDiversity(cfg.Diversity))
//
//	result, err := engine.RankRecommendations(ctx, recommend.NewRequest("user-1"))
//
// A request either fails with a *ValidationError, an *UpstreamError or
// ErrEmptyCatalog, or returns a Result. A Result with Status no_results
// means nothing survived the filters.
package recommend
