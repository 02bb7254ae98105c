// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package scoring

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

// mapCache is an in-memory SimilarityCache that counts calls.
type mapCache struct {
	mu     sync.Mutex
	values map[string]float64
	hits   int
	sets   int
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string]float64)}
}

func (c *mapCache) Get(_ context.Context, key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	c.sets++
}

func newTestCollaborative(cache recommend.SimilarityCache) *CollaborativeFilter {
	cfg := recommend.DefaultConfig()
	return NewCollaborativeFilter(cfg.Collaborative, cfg.Ceilings, cache)
}

func collaborativeInput() *recommend.ScoringInput {
	candidates := []recommend.CatalogItem{
		item("d", "junmai", 1000, vec(3, 3, 3, 3)),
		item("e", "junmai", 1000, vec(3, 3, 3, 3)),
	}
	history := []recommend.TastingRecord{
		tasting("u1", "a", 5, 30),
		tasting("u1", "b", 4, 20),
		tasting("u1", "c", 2, 10),
	}
	in := newInput(testProfile(), candidates, history)
	in.Population = []recommend.TastingRecord{
		// u2 agrees perfectly and loved d.
		tasting("u2", "a", 5, 40),
		tasting("u2", "b", 4, 40),
		tasting("u2", "c", 2, 40),
		tasting("u2", "d", 5, 5),
		// u3 disagrees strongly and hated d.
		tasting("u3", "a", 1, 40),
		tasting("u3", "b", 1, 40),
		tasting("u3", "d", 1, 5),
		// u4 overlaps on a single item only.
		tasting("u4", "a", 5, 40),
		tasting("u4", "d", 1, 5),
	}
	return in
}

func TestCollaborativeFilter_WeightedNeighborRatings(t *testing.T) {
	sig := mustScore(t, newTestCollaborative(nil), collaborativeInput())
	if !sig.Available {
		t.Fatal("signal should be available")
	}

	// sim(u2) = 1, sim(u3) = 1 - (4+3)/2/4 = 0.125, u4 lacks overlap.
	avg := (1*5 + 0.125*1) / 1.125
	want := (avg - 1) / 4 * 20
	if got := sig.Scores["d"]; !approxEqual(got, want) {
		t.Errorf("collaborative[d] = %f, want %f", got, want)
	}
	if got := sig.Scores["e"]; got != 0 {
		t.Errorf("collaborative[e] = %f, want 0 when no neighbour rated it", got)
	}
	if !hasReason(sig.Reasons["d"], ReasonCollaborative) {
		t.Errorf("reasons for d = %v, want %q", sig.Reasons["d"], ReasonCollaborative)
	}
}

func TestCollaborativeFilter_NoNeighborsIsUnavailable(t *testing.T) {
	in := collaborativeInput()
	in.Population = []recommend.TastingRecord{
		tasting("u4", "a", 5, 40),
		tasting("u4", "d", 1, 5),
	}

	sig := mustScore(t, newTestCollaborative(nil), in)
	if sig.Available {
		t.Error("signal should be unavailable without neighbours")
	}
}

func TestCollaborativeFilter_IgnoresOwnPopulationRecords(t *testing.T) {
	in := collaborativeInput()
	in.Population = append(in.Population, tasting("u1", "e", 5, 1), tasting("u1", "a", 5, 1), tasting("u1", "b", 4, 1))

	sig := mustScore(t, newTestCollaborative(nil), in)
	if got := sig.Scores["e"]; got != 0 {
		t.Errorf("collaborative[e] = %f, want 0; the user must not be their own neighbour", got)
	}
}

func TestCollaborativeFilter_UsesCache(t *testing.T) {
	cache := newMapCache()
	cf := newTestCollaborative(cache)

	first := mustScore(t, cf, collaborativeInput())
	if cache.sets != 2 {
		t.Fatalf("cache sets after first call = %d, want 2", cache.sets)
	}

	second := mustScore(t, cf, collaborativeInput())
	if cache.hits != 2 {
		t.Errorf("cache hits after second call = %d, want 2", cache.hits)
	}
	if first.Scores["d"] != second.Scores["d"] {
		t.Errorf("cached score %f differs from computed %f", second.Scores["d"], first.Scores["d"])
	}

	// A new rating changes the fingerprint, so nothing stale is read.
	in := collaborativeInput()
	in.History = append(in.History, tasting("u1", "a", 1, 0))
	mustScore(t, cf, in)
	if cache.hits != 2 {
		t.Errorf("cache hits after rating change = %d, want still 2", cache.hits)
	}
}

func TestPairKey(t *testing.T) {
	ab := pairKey("alice", 1, "bob", 2)
	ba := pairKey("bob", 2, "alice", 1)
	if ab != ba {
		t.Errorf("pairKey is not symmetric: %q vs %q", ab, ba)
	}
	if !strings.HasPrefix(ab, "alice:bob:") {
		t.Errorf("pairKey = %q, want alice:bob prefix", ab)
	}
	if ab == pairKey("alice", 3, "bob", 2) {
		t.Error("pairKey should change with the fingerprint")
	}
}

func TestSimilarityKeyPrefix(t *testing.T) {
	base := recommend.DefaultConfig().Collaborative

	tests := []struct {
		name   string
		mutate func(*recommend.CollaborativeConfig)
	}{
		{"metric", func(c *recommend.CollaborativeConfig) { c.Metric = recommend.MetricPearson }},
		{"shrinkage", func(c *recommend.CollaborativeConfig) { c.Shrinkage = 5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := base
			tt.mutate(&changed)
			if similarityKeyPrefix(base) == similarityKeyPrefix(changed) {
				t.Errorf("prefix %q does not change with %s", similarityKeyPrefix(base), tt.name)
			}
		})
	}
	if got := similarityKeyPrefix(base); got != "usim:agreement:0:" {
		t.Errorf("similarityKeyPrefix(defaults) = %q", got)
	}
}

func TestCollaborativeFilter_SharedCacheIsolatesMetrics(t *testing.T) {
	shared := newMapCache()
	cfg := recommend.DefaultConfig()

	agreement := NewCollaborativeFilter(cfg.Collaborative, cfg.Ceilings, shared)
	mustScore(t, agreement, collaborativeInput())

	cfg.Collaborative.Metric = recommend.MetricPearson
	pearson := NewCollaborativeFilter(cfg.Collaborative, cfg.Ceilings, shared)
	mustScore(t, pearson, collaborativeInput())

	if shared.hits != 0 {
		t.Errorf("pearson filter read %d agreement entries from the shared cache", shared.hits)
	}
	if shared.sets != 4 {
		t.Errorf("cache sets = %d, want 2 per metric", shared.sets)
	}
}

func TestFingerprint(t *testing.T) {
	a := fingerprint(map[string]float64{"x": 1, "y": 2})
	b := fingerprint(map[string]float64{"y": 2, "x": 1})
	c := fingerprint(map[string]float64{"x": 1, "y": 3})

	if a != b {
		t.Error("fingerprint depends on map order")
	}
	if a == c {
		t.Error("fingerprint ignores rating values")
	}
}

func TestSimilarityMetrics(t *testing.T) {
	a := map[string]float64{"i1": 1, "i2": 3, "i3": 5}
	b := map[string]float64{"i1": 2, "i2": 3, "i3": 4}
	common := commonItems(a, b)

	tests := []struct {
		name string
		fn   func(a, b map[string]float64, common []string) float64
		want float64
	}{
		{"agreement", agreementSim, 1 - (1.0+0+1)/3/4},
		{"pearson", pearsonSim, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(a, b, common); !approxEqual(got, tt.want) {
				t.Errorf("%s = %f, want %f", tt.name, got, tt.want)
			}
		})
	}

	if got := cosineSim(a, a, commonItems(a, a)); !approxEqual(got, 1) {
		t.Errorf("cosine(a, a) = %f, want 1", got)
	}
}

func TestCollaborativeFilter_Shrinkage(t *testing.T) {
	cfg := recommend.DefaultConfig()
	cfg.Collaborative.Shrinkage = 2
	cf := NewCollaborativeFilter(cfg.Collaborative, cfg.Ceilings, nil)

	a := map[string]float64{"i1": 5, "i2": 4}
	got := cf.similarity(a, a, commonItems(a, a))
	if !approxEqual(got, 0.5) {
		t.Errorf("shrunk similarity = %f, want 0.5", got)
	}
}
