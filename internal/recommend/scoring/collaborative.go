// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package scoring

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

// ReasonCollaborative explains a high neighbour rating.
const ReasonCollaborative = "Tasters with similar palates loved it"

const collaborativeReasonAvg = 4.0

// CollaborativeFilter implements user-based collaborative filtering over
// explicit 1-5 ratings.
//
// Two users are compared only on items both have rated, and only when they
// share at least MinOverlap of them. The K most similar users above
// MinSimilarity become neighbours, and a candidate's score is their
// similarity-weighted mean rating rescaled to the ceiling:
//
//	score = (sum(sim * r) / sum(sim) - 1) / 4 * ceiling
//
// Supported metrics:
//   - agreement: 1 - mean(|ra - rb|) / 4
//   - cosine: dot over common items, norms over each user's full ratings
//   - pearson: correlation over common items
type CollaborativeFilter struct {
	baseScorer
	config    recommend.CollaborativeConfig
	ceiling   float64
	cache     recommend.SimilarityCache
	keyPrefix string
}

var _ recommend.Scorer = (*CollaborativeFilter)(nil)

// NewCollaborativeFilter creates a collaborative filter. A nil cache memoizes
// similarities for the duration of one Score call only.
func NewCollaborativeFilter(cfg recommend.CollaborativeConfig, ceilings recommend.Ceilings, cache recommend.SimilarityCache) *CollaborativeFilter {
	return &CollaborativeFilter{
		baseScorer: newBaseScorer(recommend.SignalCollaborative),
		config:     cfg,
		ceiling:    ceilings.Collaborative,
		cache:      cache,
		keyPrefix:  similarityKeyPrefix(cfg),
	}
}

// neighbor is a similar user.
type neighbor struct {
	userID     string
	similarity float64
	ratings    map[string]float64
}

// userRatings is one user's latest rating per item plus its fingerprint.
type userRatings struct {
	ratings     map[string]float64
	fingerprint uint64
}

// Score implements recommend.Scorer.
func (c *CollaborativeFilter) Score(ctx context.Context, in *recommend.ScoringInput) (*recommend.Signal, error) {
	target := newUserRatings(in.History)
	if len(target.ratings) == 0 {
		return recommend.UnavailableSignal(c.Name()), nil
	}

	neighbors, err := c.neighbors(ctx, in.UserID, target, groupByUser(in.Population, in.UserID))
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return recommend.UnavailableSignal(c.Name()), nil
	}

	sig := recommend.NewSignal(c.Name(), len(in.Candidates))
	for i := range in.Candidates {
		id := in.Candidates[i].ID

		var sum, weights float64
		for _, n := range neighbors {
			if r, ok := n.ratings[id]; ok {
				sum += n.similarity * r
				weights += n.similarity
			}
		}
		if weights == 0 {
			sig.Scores[id] = 0
			continue
		}

		avg := sum / weights
		sig.Scores[id] = clamp((avg-1)/4*c.ceiling, 0, c.ceiling)
		if avg >= collaborativeReasonAvg {
			sig.AddReason(id, ReasonCollaborative)
		}
	}

	return sig, nil
}

// neighbors returns the top K users most similar to the target, ordered by
// similarity desc then user ID.
func (c *CollaborativeFilter) neighbors(ctx context.Context, userID string, target *userRatings, others map[string]*userRatings) ([]neighbor, error) {
	ids := make([]string, 0, len(others))
	for id := range others {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	memo := make(map[string]float64)
	result := make([]neighbor, 0, len(ids))
	for i, otherID := range ids {
		if i%checkEvery == 0 && contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		other := others[otherID]

		common := commonItems(target.ratings, other.ratings)
		if len(common) < c.config.MinOverlap {
			continue
		}

		key := c.keyPrefix + pairKey(userID, target.fingerprint, otherID, other.fingerprint)
		sim, ok := c.lookup(ctx, memo, key)
		if !ok {
			sim = c.similarity(target.ratings, other.ratings, common)
			c.store(ctx, memo, key, sim)
		}

		if sim > c.config.MinSimilarity {
			result = append(result, neighbor{userID: otherID, similarity: sim, ratings: other.ratings})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].similarity != result[j].similarity {
			return result[i].similarity > result[j].similarity
		}
		return result[i].userID < result[j].userID
	})
	if len(result) > c.config.Neighbors {
		result = result[:c.config.Neighbors]
	}
	return result, nil
}

func (c *CollaborativeFilter) lookup(ctx context.Context, memo map[string]float64, key string) (float64, bool) {
	if c.cache != nil {
		return c.cache.Get(ctx, key)
	}
	v, ok := memo[key]
	return v, ok
}

func (c *CollaborativeFilter) store(ctx context.Context, memo map[string]float64, key string, v float64) {
	if c.cache != nil {
		c.cache.Set(ctx, key, v)
		return
	}
	memo[key] = v
}

// similarity computes the configured metric with shrinkage applied.
func (c *CollaborativeFilter) similarity(a, b map[string]float64, common []string) float64 {
	var sim float64
	switch c.config.Metric {
	case recommend.MetricCosine:
		sim = cosineSim(a, b, common)
	case recommend.MetricPearson:
		sim = pearsonSim(a, b, common)
	default:
		sim = agreementSim(a, b, common)
	}

	if c.config.Shrinkage > 0 {
		n := float64(len(common))
		sim = sim * n / (n + c.config.Shrinkage)
	}
	return sim
}

func agreementSim(a, b map[string]float64, common []string) float64 {
	if len(common) == 0 {
		return 0
	}
	var diff float64
	for _, item := range common {
		diff += math.Abs(a[item] - b[item])
	}
	return 1 - diff/float64(len(common))/4
}

func cosineSim(a, b map[string]float64, common []string) float64 {
	var dot, normA, normB float64
	for _, item := range common {
		dot += a[item] * b[item]
	}
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func pearsonSim(a, b map[string]float64, common []string) float64 {
	if len(common) == 0 {
		return 0
	}

	var sumA, sumB float64
	for _, item := range common {
		sumA += a[item]
		sumB += b[item]
	}
	meanA := sumA / float64(len(common))
	meanB := sumB / float64(len(common))

	var num, denA, denB float64
	for _, item := range common {
		diffA := a[item] - meanA
		diffB := b[item] - meanB
		num += diffA * diffB
		denA += diffA * diffA
		denB += diffB * diffB
	}

	if denA == 0 || denB == 0 {
		return 0
	}
	return num / (math.Sqrt(denA) * math.Sqrt(denB))
}

// commonItems returns the items rated by both users, sorted.
func commonItems(a, b map[string]float64) []string {
	var common []string
	for item := range a {
		if _, ok := b[item]; ok {
			common = append(common, item)
		}
	}
	sort.Strings(common)
	return common
}

// groupByUser builds per-user latest ratings from population records,
// leaving out exclude.
func groupByUser(records []recommend.TastingRecord, exclude string) map[string]*userRatings {
	byUser := make(map[string][]recommend.TastingRecord)
	for _, rec := range records {
		if rec.UserID == exclude {
			continue
		}
		byUser[rec.UserID] = append(byUser[rec.UserID], rec)
	}

	out := make(map[string]*userRatings, len(byUser))
	for id, recs := range byUser {
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].TastedAt.Before(recs[j].TastedAt)
		})
		out[id] = newUserRatings(recs)
	}
	return out
}

// newUserRatings keeps the latest rating per item of a chronological history
// and fingerprints the result.
func newUserRatings(history []recommend.TastingRecord) *userRatings {
	ratings := latestRatings(history)
	return &userRatings{ratings: ratings, fingerprint: fingerprint(ratings)}
}

// fingerprint hashes a rating map independent of iteration order.
func fingerprint(ratings map[string]float64) uint64 {
	items := make([]string, 0, len(ratings))
	for item := range ratings {
		items = append(items, item)
	}
	sort.Strings(items)

	var b strings.Builder
	for _, item := range items {
		b.WriteString(item)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(ratings[item], 'f', -1, 64))
		b.WriteByte(';')
	}
	return xxhash.Sum64String(b.String())
}

// similarityKeyPrefix namespaces cached similarities by the settings that
// change their value, so replicas sharing a cache with different metrics
// never read each other's entries.
func similarityKeyPrefix(cfg recommend.CollaborativeConfig) string {
	return "usim:" + cfg.Metric + ":" + strconv.FormatFloat(cfg.Shrinkage, 'g', -1, 64) + ":"
}

// pairKey addresses a similarity by both users and their rating
// fingerprints. The pair is ordered so (a, b) and (b, a) share an entry, and
// any new rating by either user produces a different key.
func pairKey(a string, fa uint64, b string, fb uint64) string {
	if b < a {
		a, b = b, a
		fa, fb = fb, fa
	}
	return a + ":" + b + ":" + strconv.FormatUint(fa, 16) + ":" + strconv.FormatUint(fb, 16)
}
