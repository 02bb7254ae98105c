// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

/*
Package api serves the recommendation engine over HTTP using chi.

Routes:

	GET  /health
	GET  /metrics
	GET  /api/v1/recommendations/{userID}?limit=&exclude_tried=&sake_type=&seed=
	POST /api/v1/recommendations
	GET  /api/v1/users/{userID}/preferences
	PUT  /api/v1/users/{userID}/preferences
	GET  /api/v1/users/{userID}/tastings
	POST /api/v1/users/{userID}/tastings

Every response uses the APIResponse envelope. A ranking with nothing to
recommend is a success whose data carries "status":"no_results". Errors map
to HTTP as follows:

	validation failure      400 VALIDATION_ERROR
	data source unavailable 503 UPSTREAM_UNAVAILABLE
	empty catalog           503 CATALOG_EMPTY
	deadline exceeded       504 TIMEOUT

The /api/v1 group is rate limited per client IP with go-chi/httprate.
*/
package api
