// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package scoring

import (
	"math"
	"time"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

// scaleMidpoint is the neutral value of a 1-5 axis.
const scaleMidpoint = 3.0

// maxDistance is the largest euclidean distance between two 1-5 vectors
// of four dimensions: 4 * sqrt(4).
const maxDistance = 8.0

// centeredCosine is the cosine between two vectors after shifting each axis
// so the scale midpoint is the origin. Without centering every 1-5 vector
// points into the same octant and the cosine barely discriminates.
func centeredCosine(a, b recommend.CharacteristicVector) float64 {
	av, bv := a.Array(), b.Array()
	for i := range av {
		av[i] -= scaleMidpoint
		bv[i] -= scaleMidpoint
	}
	return cosine(av, bv)
}

func cosine(a, b [4]float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// euclideanSimilarity maps distance to [0, 1], 1 for identical vectors.
func euclideanSimilarity(a, b recommend.CharacteristicVector) float64 {
	av, bv := a.Array(), b.Array()
	var sum float64
	for i := range av {
		d := av[i] - bv[i]
		sum += d * d
	}
	return math.Max(0, 1-math.Sqrt(sum)/maxDistance)
}

// recencyWeight halves every halfLife and never drops below minWeight.
// Ratings from the future count as brand new.
func recencyWeight(tastedAt, now time.Time, halfLife time.Duration, minWeight float64) float64 {
	age := now.Sub(tastedAt)
	if age <= 0 {
		return 1
	}
	w := math.Pow(0.5, float64(age)/float64(halfLife))
	return math.Max(minWeight, w)
}

// latestRatings keeps each item's most recent rating. history must be
// chronological.
func latestRatings(history []recommend.TastingRecord) map[string]float64 {
	out := make(map[string]float64, len(history))
	for _, rec := range history {
		out[rec.ItemID] = float64(rec.Rating)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
