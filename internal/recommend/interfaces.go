// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package recommend

import (
	"context"
	"time"
)

// Signal names, used as blend keys, log fields and metric labels.
const (
	SignalPreference    = "preference"
	SignalHistorical    = "historical"
	SignalCollaborative = "collaborative"
	SignalContent       = "content"
	SignalDiversity     = "diversity"
)

// DataSource supplies the snapshot a ranking call works on.
// It is typically implemented by the database layer.
type DataSource interface {
	// GetUserPreferences returns the user's profile or ErrProfileNotFound.
	GetUserPreferences(ctx context.Context, userID string) (*PreferenceProfile, error)

	// GetTastingHistory returns the user's records, oldest first.
	GetTastingHistory(ctx context.Context, userID string) ([]TastingRecord, error)

	// GetAllTastingRecords returns up to limit records across all users.
	// A limit of zero means no cap.
	GetAllTastingRecords(ctx context.Context, limit int) ([]TastingRecord, error)

	// GetCandidateCatalog returns catalog items matching filter.
	GetCandidateCatalog(ctx context.Context, filter CatalogFilter) ([]CatalogItem, error)
}

// ScoringInput is the read-only snapshot handed to every Scorer.
// Scorers must not modify it.
type ScoringInput struct {
	UserID  string
	Profile *PreferenceProfile

	// Candidates are the eligible items, sorted by ID.
	Candidates []CatalogItem

	// History is the user's windowed history, oldest first.
	History []TastingRecord

	// Items resolves catalog entries for candidates and history items.
	Items map[string]CatalogItem

	// Population holds other users' validated records.
	Population []TastingRecord

	// Now is the reference time for recency calculations.
	Now time.Time
}

// Signal is one scorer's output for a request.
type Signal struct {
	Name string

	// Available is false when the scorer had no usable data. The engine then
	// redistributes the signal's blend share.
	Available bool

	// Scores maps item ID to a sub-score in [0, ceiling].
	Scores map[string]float64

	// Reasons maps item ID to explanations supporting the score.
	Reasons map[string][]string
}

// NewSignal returns an available signal sized for n items.
func NewSignal(name string, n int) *Signal {
	return &Signal{
		Name:      name,
		Available: true,
		Scores:    make(map[string]float64, n),
		Reasons:   make(map[string][]string),
	}
}

// UnavailableSignal returns a signal carrying no data.
func UnavailableSignal(name string) *Signal {
	return &Signal{Name: name}
}

// AddReason attaches an explanation to itemID.
func (s *Signal) AddReason(itemID, reason string) {
	s.Reasons[itemID] = append(s.Reasons[itemID], reason)
}

// Scorer computes one signal for every candidate. Implementations are
// stateless between calls and safe for concurrent use.
type Scorer interface {
	// Name returns one of the Signal* constants.
	Name() string

	// Score computes the signal. An error marks the signal as failed for
	// this request only.
	Score(ctx context.Context, in *ScoringInput) (*Signal, error)
}

// Reranker reorders a ranked list and truncates it to limit.
type Reranker interface {
	Name() string

	// Rerank receives items sorted by score and returns at most limit items.
	// seed is stable for a given request.
	Rerank(ctx context.Context, ranked []Recommendation, limit int, seed int64) []Recommendation
}

// SimilarityCache memoizes user-user similarities.
//
// Keys are content addressed: they embed a fingerprint of both users'
// ratings, so any new rating yields a new key and stale entries are simply
// never read again. Implementations bound memory with a TTL. A backend error
// must be reported as a miss.
type SimilarityCache interface {
	Get(ctx context.Context, key string) (float64, bool)
	Set(ctx context.Context, key string, value float64)
}
