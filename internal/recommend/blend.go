// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package recommend

import (
	"math"
	"sort"
)

// signalOrder fixes iteration order wherever maps of signals are walked.
var signalOrder = []string{
	SignalPreference,
	SignalHistorical,
	SignalCollaborative,
	SignalContent,
	SignalDiversity,
}

const (
	reasonNewBrewery = "From a brewery you have not tried yet"
	reasonPopular    = "Popular with other tasters"
	reasonDefault    = "A well-rounded pick"
)

// effectiveShares drops unavailable components and rescales the remaining
// shares back to 100. When no share-bearing component is left but novelty
// is, novelty takes the whole blend so scores still separate tried and
// untried breweries. With nothing available every share is zero.
func effectiveShares(base map[string]float64, available map[string]bool) map[string]float64 {
	total := 0.0
	for name, share := range base {
		if available[name] {
			total += share
		}
	}

	out := make(map[string]float64, len(base)+1)
	if total == 0 && available[SignalDiversity] {
		for name := range base {
			out[name] = 0
		}
		out[SignalDiversity] = 100
		return out
	}
	for name, share := range base {
		if !available[name] || total == 0 {
			out[name] = 0
			continue
		}
		out[name] = share * 100 / total
	}
	return out
}

// blendInput carries everything the blend step reads.
type blendInput struct {
	mode       Mode
	shares     map[string]float64
	ceilings   Ceilings
	signals    map[string]*Signal
	candidates []CatalogItem
	novelty    map[string]float64
	profile    *PreferenceProfile

	// popularRating is the mean rating that earns the popularity reason;
	// zero disables it.
	popularRating float64
}

// blend computes component and final scores and returns candidates in rank
// order: final score desc, experience fit desc, population mean rating desc,
// item ID asc.
func blend(in *blendInput) []Recommendation {
	out := make([]Recommendation, 0, len(in.candidates))

	for _, item := range in.candidates {
		sub := make(map[string]float64, len(signalOrder))
		for _, name := range signalOrder[:4] {
			if sig, ok := in.signals[name]; ok && sig.Available {
				sub[name] = clamp(sig.Scores[item.ID], 0, in.ceilings.For(name))
			}
		}
		sub[SignalDiversity] = clamp(in.novelty[item.ID], 0, 1)

		final := 0.0
		contribution := make(map[string]float64, len(signalOrder))
		for _, name := range signalOrder {
			points := in.shares[name] * sub[name] / in.ceilings.For(name)
			contribution[name] = points
			final += points
		}

		rec := Recommendation{
			Item:  item,
			Score: round2(clamp(final, 0, 100)),
			Components: ComponentScore{
				Preference:    round2(sub[SignalPreference]),
				Historical:    round2(sub[SignalHistorical]),
				Collaborative: round2(sub[SignalCollaborative]),
				Content:       round2(sub[SignalContent]),
				Diversity:     round2(contribution[SignalDiversity]),
			},
			fit: ExperienceFit(in.profile.ExperienceLevel, item.Category),
		}
		rec.Components.Final = rec.Score
		rec.Reasons = buildReasons(in, &item, sub, contribution)
		out = append(out, rec)
	}

	sortRecommendations(out)
	return out
}

// sortRecommendations orders by score, then experience fit, then
// popularity, then item ID.
func sortRecommendations(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		if recs[i].fit != recs[j].fit {
			return recs[i].fit > recs[j].fit
		}
		if recs[i].Item.AverageRating != recs[j].Item.AverageRating {
			return recs[i].Item.AverageRating > recs[j].Item.AverageRating
		}
		return recs[i].Item.ID < recs[j].Item.ID
	})
}

type weightedReason struct {
	weight float64
	order  int
	text   string
}

// buildReasons ranks each signal's explanations by how many points that
// signal contributed. Signals outside the blend still explain, ranked by
// their normalized sub-score after everything that contributed.
func buildReasons(in *blendInput, item *CatalogItem, sub, contribution map[string]float64) []string {
	itemID := item.ID
	var reasons []weightedReason
	order := 0
	for _, name := range signalOrder[:4] {
		sig, ok := in.signals[name]
		if !ok || !sig.Available {
			continue
		}
		weight := contribution[name]
		if in.shares[name] == 0 {
			weight = sub[name] / in.ceilings.For(name) * 1e-3
		}
		for _, text := range sig.Reasons[itemID] {
			reasons = append(reasons, weightedReason{weight: weight, order: order, text: text})
			order++
		}
	}
	if in.mode == ModeReturning && sub[SignalDiversity] >= 1 {
		reasons = append(reasons, weightedReason{weight: contribution[SignalDiversity], order: order, text: reasonNewBrewery})
		order++
	}
	if in.popularRating > 0 && item.AverageRating >= in.popularRating {
		// Weightless, so it trails every reason that earned points.
		reasons = append(reasons, weightedReason{weight: 0, order: order, text: reasonPopular})
	}

	sort.SliceStable(reasons, func(i, j int) bool {
		if reasons[i].weight != reasons[j].weight {
			return reasons[i].weight > reasons[j].weight
		}
		return reasons[i].order < reasons[j].order
	})

	seen := make(map[string]struct{}, len(reasons))
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if _, dup := seen[r.text]; dup {
			continue
		}
		seen[r.text] = struct{}{}
		out = append(out, r.text)
	}
	if len(out) == 0 {
		out = append(out, reasonDefault)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
