// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/sakesensei/internal/metrics"
	"github.com/tomtom215/sakesensei/internal/validation"
)

// Engine ranks catalog items for a user. It holds no per-user state between
// calls and is safe for concurrent use.
type Engine struct {
	config *Config
	source DataSource
	logger zerolog.Logger

	scorers   []Scorer
	rerankers []Reranker
	mu        sync.RWMutex

	// clock supplies the recency reference time when a request has none.
	clock func() time.Time

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// Stats are cumulative engine counters.
type Stats struct {
	Requests int64 `json:"requests"`
	Errors   int64 `json:"errors"`
}

// NewEngine creates an engine reading from source.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, source DataSource, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, errors.New("data source is required")
	}

	return &Engine{
		config: cfg.Clone(),
		source: source,
		logger: logger.With().Str("component", "recommend").Logger(),
		clock:  time.Now,
	}, nil
}

// SetClock replaces the engine clock, for reproducible recency in tests.
func (e *Engine) SetClock(clock func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock = clock
}

// RegisterScorer adds a scorer, replacing any scorer with the same name.
func (e *Engine) RegisterScorer(s Scorer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, existing := range e.scorers {
		if existing.Name() == s.Name() {
			e.scorers[i] = s
			e.logger.Info().Str("scorer", s.Name()).Msg("replaced scorer")
			return
		}
	}
	e.scorers = append(e.scorers, s)
	e.logger.Info().Str("scorer", s.Name()).Msg("registered scorer")
}

// RegisterReranker appends a reranker to the diversifying stage.
func (e *Engine) RegisterReranker(r Reranker) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rerankers = append(e.rerankers, r)
	e.logger.Info().Str("reranker", r.Name()).Msg("registered reranker")
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Stats returns cumulative counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests: e.requestCount.Load(),
		Errors:   e.errorCount.Load(),
	}
}

// snapshot is everything INIT loads for one request.
type snapshot struct {
	profile    *PreferenceProfile
	history    []TastingRecord
	catalog    []CatalogItem
	items      map[string]CatalogItem
	population []TastingRecord
}

// RankRecommendations produces a ranked list for req.UserID.
//
// It returns a *ValidationError for malformed input, an *UpstreamError when
// the data source fails, ErrEmptyCatalog when there is nothing to rank at
// all, or ctx.Err() on cancellation. Otherwise the Result is either a ranked
// list or carries StatusNoResults.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) RankRecommendations(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req)
	p := newPipeline(logger)

	result, err := e.rank(ctx, req, p, logger)

	mode := ModeColdStart
	if result != nil {
		mode = result.Mode
	}
	metrics.RecordRecommendation(string(mode), outcomeLabel(result, err), time.Since(start))

	if err != nil {
		e.errorCount.Add(1)
		logger.Debug().Err(err).Stringer("state", p.state).Msg("ranking rejected")
		return nil, err
	}

	result.State = p.state
	result.Metadata.LatencyMS = time.Since(start).Milliseconds()
	logger.Debug().
		Str("mode", string(result.Mode)).
		Str("status", string(result.Status)).
		Int("candidates", result.Metadata.Candidates).
		Int("returned", len(result.Items)).
		Int64("latency_ms", result.Metadata.LatencyMS).
		Msg("ranking complete")
	return result, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) rank(ctx context.Context, req Request, p *pipeline, logger zerolog.Logger) (*Result, error) {
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, p.reject(fromFieldErrors("", verr))
	}

	snap, err := e.loadSnapshot(ctx, req, logger)
	if err != nil {
		return nil, p.reject(err)
	}

	mode := ModeColdStart
	if len(snap.history) > 0 {
		mode = ModeReturning
	}
	candidates := e.filterCandidates(snap, req, logger)
	metrics.RecommendCandidates.Observe(float64(len(candidates)))

	result := &Result{
		UserID: req.UserID,
		Status: StatusOK,
		Mode:   mode,
		Items:  []Recommendation{},
		Metadata: Metadata{
			RequestID:   req.RequestID,
			Limit:       req.Limit,
			Candidates:  len(candidates),
			Seed:        req.Seed,
			GeneratedAt: req.Now,
		},
	}

	if len(candidates) == 0 {
		if err := p.advance(StateFinalized); err != nil {
			return nil, p.reject(err)
		}
		result.Status = StatusNoResults
		logger.Debug().Msg("no eligible candidates")
		return result, nil
	}

	if err := p.advance(StateScoring); err != nil {
		return nil, p.reject(err)
	}
	input := &ScoringInput{
		UserID:     req.UserID,
		Profile:    snap.profile,
		Candidates: candidates,
		History:    window(snap.history, e.config.Historical.HistoryWindow),
		Items:      snap.items,
		Population: snap.population,
		Now:        req.Now,
	}
	signals, failures, err := e.runScorers(ctx, mode, input, logger)
	if err != nil {
		return nil, p.reject(err)
	}
	result.Degraded = failures

	if err := p.advance(StateBlending); err != nil {
		return nil, p.reject(err)
	}
	base := e.config.Blend.ColdStart.ToMap()
	if mode == ModeReturning {
		base = e.config.Blend.Returning.ToMap()
	}
	available := map[string]bool{SignalDiversity: true}
	for name, sig := range signals {
		available[name] = sig.Available
	}
	shares := effectiveShares(base, available)
	ranked := blend(&blendInput{
		mode:          mode,
		shares:        shares,
		ceilings:      e.config.Ceilings,
		signals:       signals,
		candidates:    candidates,
		novelty:       e.novelty(snap, candidates),
		profile:       snap.profile,
		popularRating: e.config.Popularity.ReasonRating,
	})
	result.Metadata.Shares = shares
	result.Metadata.SignalsUsed = usedSignals(shares)

	if limit := e.config.Limits.MaxCandidates; len(ranked) > limit {
		result.Metadata.Trimmed = len(ranked) - limit
		logger.Warn().
			Int("eligible", len(ranked)).
			Int("kept", limit).
			Msg("scored pool exceeds max candidates, dropping lowest ranked")
		ranked = ranked[:limit]
	}

	if err := p.advance(StateDiversifying); err != nil {
		return nil, p.reject(err)
	}
	result.Items = e.applyRerankers(ctx, ranked, req.Limit, rerankSeed(req))

	if err := p.advance(StateFinalized); err != nil {
		return nil, p.reject(err)
	}
	return result, nil
}

// prepareRequest applies defaults and clamps the limit.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	if req.Limit > e.config.Limits.MaxLimit {
		req.Limit = e.config.Limits.MaxLimit
	}
	if req.Seed == 0 {
		req.Seed = e.config.Seed
	}
	if req.Seed == 0 {
		req.Seed = DefaultSeed
	}
	if req.Now.IsZero() {
		e.mu.RLock()
		req.Now = e.clock()
		e.mu.RUnlock()
	}
	return req
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Logger()
}

// loadSnapshot fetches and validates everything the request needs.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) loadSnapshot(ctx context.Context, req Request, logger zerolog.Logger) (*snapshot, error) {
	snap := &snapshot{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := e.source.GetUserPreferences(gctx, req.UserID)
		if err != nil {
			return e.upstream("get_user_preferences", req.UserID, err)
		}
		if profile == nil {
			return e.upstream("get_user_preferences", req.UserID, ErrProfileNotFound)
		}
		snap.profile = profile
		return nil
	})
	g.Go(func() error {
		history, err := e.source.GetTastingHistory(gctx, req.UserID)
		if err != nil {
			return e.upstream("get_tasting_history", req.UserID, err)
		}
		snap.history = history
		return nil
	})
	g.Go(func() error {
		catalog, err := e.source.GetCandidateCatalog(gctx, CatalogFilter{
			Category: NormalizeCategory(req.SakeType),
		})
		if err != nil {
			return e.upstream("get_candidate_catalog", req.UserID, err)
		}
		snap.catalog = catalog
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if verr := validation.ValidateStruct(snap.profile); verr != nil {
		return nil, fromFieldErrors("profile", verr)
	}
	for i := range snap.history {
		if verr := validation.ValidateStruct(&snap.history[i]); verr != nil {
			return nil, fromFieldErrors(fmt.Sprintf("history[%d]", i), verr)
		}
	}
	sort.SliceStable(snap.history, func(i, j int) bool {
		return snap.history[i].TastedAt.Before(snap.history[j].TastedAt)
	})

	if len(snap.catalog) == 0 && req.SakeType == "" {
		return nil, ErrEmptyCatalog
	}

	snap.items = make(map[string]CatalogItem, len(snap.catalog))
	for _, item := range snap.catalog {
		snap.items[item.ID] = item
	}

	if len(snap.history) == 0 {
		return snap, nil
	}

	// Returning users also need the vectors of what they tasted and the
	// population sample for neighbour search.
	var missing []string
	seen := make(map[string]struct{}, len(snap.history))
	for _, rec := range snap.history {
		if _, ok := snap.items[rec.ItemID]; ok {
			continue
		}
		if _, dup := seen[rec.ItemID]; dup {
			continue
		}
		seen[rec.ItemID] = struct{}{}
		missing = append(missing, rec.ItemID)
	}

	g, gctx = errgroup.WithContext(ctx)
	var tried []CatalogItem
	if len(missing) > 0 {
		g.Go(func() error {
			items, err := e.source.GetCandidateCatalog(gctx, CatalogFilter{ItemIDs: missing})
			if err != nil {
				return e.upstream("get_candidate_catalog", req.UserID, err)
			}
			tried = items
			return nil
		})
	}
	var population []TastingRecord
	g.Go(func() error {
		records, err := e.source.GetAllTastingRecords(gctx, e.config.Collaborative.MaxPopulationRecords)
		if err != nil {
			return e.upstream("get_all_tasting_records", req.UserID, err)
		}
		population = records
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, item := range tried {
		snap.items[item.ID] = item
	}
	snap.population = validPopulation(population, req.UserID, logger)
	return snap, nil
}

// upstream classifies a data source error. Unknown users are a validation
// failure. Cancellation and errors already classified as upstream pass
// through. Anything else means the source is unavailable.
func (e *Engine) upstream(op, userID string, err error) error {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return &ValidationError{
			Field:   "user_id",
			Message: fmt.Sprintf("no preference profile for user %q", userID),
			Value:   userID,
			Err:     err,
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, ErrUpstreamUnavailable):
		metrics.UpstreamErrors.WithLabelValues(op).Inc()
		return err
	default:
		metrics.UpstreamErrors.WithLabelValues(op).Inc()
		return &UpstreamError{Op: op, Err: err}
	}
}

// validPopulation drops the requesting user's own rows and any row that
// fails validation.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func validPopulation(records []TastingRecord, userID string, logger zerolog.Logger) []TastingRecord {
	out := make([]TastingRecord, 0, len(records))
	dropped := 0
	for i := range records {
		if records[i].UserID == userID {
			continue
		}
		if validation.ValidateStruct(&records[i]) != nil {
			dropped++
			continue
		}
		out = append(out, records[i])
	}
	if dropped > 0 {
		metrics.InvalidRecordsDropped.Add(float64(dropped))
		logger.Warn().Int("dropped", dropped).Msg("dropped invalid population tasting records")
	}
	return out
}

// filterCandidates applies the type filter, category exclusions and the
// tried filter. Every eligible item is kept, sorted by ID; the pool is only
// bounded after blending, so the cut never depends on item IDs.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) filterCandidates(snap *snapshot, req Request, logger zerolog.Logger) []CatalogItem {
	tried := make(map[string]struct{}, len(snap.history))
	for _, rec := range snap.history {
		tried[rec.ItemID] = struct{}{}
	}
	sakeType := NormalizeCategory(req.SakeType)

	out := make([]CatalogItem, 0, len(snap.catalog))
	invalid := 0
	for _, item := range snap.catalog {
		if sakeType != "" && NormalizeCategory(item.Category) != sakeType {
			continue
		}
		if snap.profile.Excludes(item.Category) {
			continue
		}
		if req.ExcludeTried {
			if _, ok := tried[item.ID]; ok {
				continue
			}
		}
		if validation.ValidateStruct(&item) != nil {
			invalid++
			continue
		}
		out = append(out, item)
	}
	if invalid > 0 {
		logger.Warn().Int("skipped", invalid).Msg("skipped malformed catalog items")
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// scorerResult holds the outcome of a single scorer.
type scorerResult struct {
	name   string
	signal *Signal
	err    error
}

// runScorers runs the scorers for mode in parallel. Results are collected by
// registration index, so completion order never affects the outcome.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (e *Engine) runScorers(ctx context.Context, mode Mode, in *ScoringInput, logger zerolog.Logger) (map[string]*Signal, []SignalFailure, error) {
	e.mu.RLock()
	registered := append([]Scorer(nil), e.scorers...)
	e.mu.RUnlock()

	if len(registered) == 0 {
		return nil, nil, ErrNoScorers
	}

	active := registered
	if mode == ModeColdStart {
		active = active[:0:0]
		for _, s := range registered {
			if s.Name() == SignalPreference {
				active = append(active, s)
			}
		}
	}

	results := make([]scorerResult, len(active))
	var g errgroup.Group
	for i, s := range active {
		g.Go(func() error {
			results[i] = e.runScorer(ctx, s, in)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	signals := make(map[string]*Signal, len(results))
	var failures []SignalFailure
	for _, r := range results {
		if r.err != nil {
			logger.Warn().Str("signal", r.name).Err(r.err).Msg("scorer failed, dropping signal")
			metrics.SignalFailures.WithLabelValues(r.name).Inc()
			failures = append(failures, SignalFailure{Signal: r.name, Reason: r.err.Error()})
			continue
		}
		if !r.signal.Available {
			logger.Debug().Str("signal", r.name).Msg("signal unavailable, redistributing share")
			metrics.SignalUnavailable.WithLabelValues(r.name).Inc()
		}
		signals[r.name] = r.signal
	}
	return signals, failures, nil
}

// runScorer runs one scorer under the per-scorer timeout. Panics are
// converted to errors so one faulty signal cannot take the request down.
func (e *Engine) runScorer(ctx context.Context, s Scorer, in *ScoringInput) (res scorerResult) {
	res.name = s.Name()
	defer func() {
		if r := recover(); r != nil {
			res.signal = nil
			res.err = fmt.Errorf("scorer panicked: %v", r)
		}
	}()

	sctx, cancel := context.WithTimeout(ctx, e.config.Limits.ScorerTimeout)
	defer cancel()

	sig, err := s.Score(sctx, in)
	if err != nil {
		res.err = err
		return res
	}
	if sig == nil {
		sig = UnavailableSignal(res.name)
	}
	res.signal = sig
	return res
}

// novelty rewards breweries the user has not tasted. First-time users get
// full novelty everywhere.
func (e *Engine) novelty(snap *snapshot, candidates []CatalogItem) map[string]float64 {
	tried := make(map[string]struct{})
	for _, rec := range snap.history {
		if item, ok := snap.items[rec.ItemID]; ok && item.BreweryID != "" {
			tried[item.BreweryID] = struct{}{}
		}
	}

	out := make(map[string]float64, len(candidates))
	for _, item := range candidates {
		if _, ok := tried[item.BreweryID]; ok && item.BreweryID != "" {
			out[item.ID] = e.config.Diversity.TriedBreweryNovelty
			continue
		}
		out[item.ID] = 1
	}
	return out
}

// applyRerankers runs the diversifying stage and enforces the limit.
func (e *Engine) applyRerankers(ctx context.Context, ranked []Recommendation, limit int, seed int64) []Recommendation {
	e.mu.RLock()
	rerankers := e.rerankers
	e.mu.RUnlock()

	for _, rr := range rerankers {
		ranked = rr.Rerank(ctx, ranked, limit, seed)
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// window keeps the most recent n records of a chronological history.
func window(history []TastingRecord, n int) []TastingRecord {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// rerankSeed mixes the request seed with the user so two users sharing a
// seed still explore differently.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func rerankSeed(req Request) int64 {
	return req.Seed ^ int64(xxhash.Sum64String(req.UserID)) //nolint:gosec // wraparound is fine for a seed
}

func usedSignals(shares map[string]float64) []string {
	var used []string
	for _, name := range signalOrder {
		if shares[name] > 0 {
			used = append(used, name)
		}
	}
	return used
}

func outcomeLabel(result *Result, err error) string {
	switch {
	case err == nil && result != nil && result.Empty():
		return "no_results"
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "rejected"
	case errors.Is(err, ErrUpstreamUnavailable), errors.Is(err, ErrEmptyCatalog):
		return "upstream_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
