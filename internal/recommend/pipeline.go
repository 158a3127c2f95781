// Package recommend implements query matching and ranking over an immutable
// catalog snapshot.
//
// A query flows through fixed stages: seed selection (exact title substring,
// then fuzzy title ratio), neighbor expansion through the similarity matrix,
// the filter predicate, de-duplication by title, scoring and truncation. An
// empty query, or one that matches nothing, falls back to rating order. No
// stage mutates its inputs, so Recommend is safe to call concurrently.
package recommend

import (
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/recommender/internal/catalog"
	"github.com/lehigh-university-libraries/recommender/internal/similarity"
)

// MatchKind records which path produced a result
type MatchKind string

const (
	MatchTopRated MatchKind = "top_rated"
	MatchExact    MatchKind = "exact"
	MatchFuzzy    MatchKind = "fuzzy"
	MatchSearch   MatchKind = "search"
	MatchFallback MatchKind = "fallback"
)

// Recommendation is a record prepared for display together with its ranking score
type Recommendation struct {
	catalog.Record `yaml:",inline"`
	Similarity     float64 `json:"similarity" yaml:"similarity"`
	Score          float64 `json:"score" yaml:"score"`
}

// Result is the ranked, de-duplicated output of a query
type Result struct {
	Match MatchKind        `json:"match" yaml:"match"`
	Seeds []int            `json:"seeds,omitempty" yaml:"seeds,omitempty"`
	Items []Recommendation `json:"items" yaml:"items"`
}

// candidate is a corpus index carrying the similarity that surfaced it
type candidate struct {
	index      int
	similarity float64
	score      float64
}

// Recommend answers q against the corpus and its similarity matrix
func Recommend(corpus catalog.Corpus, sim *similarity.Matrix, q Query, opts Options) Result {
	text := strings.TrimSpace(q.Text)
	limit := q.limit()

	if text == "" {
		return ratingResult(corpus, MatchTopRated, topRated(corpus, q.MinRating), limit, opts)
	}

	match := MatchExact
	seeds := exactSeeds(corpus, text)
	if len(seeds) == 0 {
		match = MatchFuzzy
		seeds = fuzzySeeds(corpus, text, opts.FuzzyThreshold, opts.MaxFuzzySeeds)
	}

	if len(seeds) == 0 {
		if hits := searchAll(corpus, text); len(hits) > 0 {
			return ratingResult(corpus, MatchSearch, byRating(corpus, hits), limit, opts)
		}
		return ratingResult(corpus, MatchFallback, topRated(corpus, q.MinRating), limit, opts)
	}

	// A lone record has no neighbors to expand into
	if sim == nil || sim.Len() <= 1 {
		return ratingResult(corpus, MatchFallback, topRated(corpus, q.MinRating), limit, opts)
	}

	cands := expand(sim, seeds, opts.NeighborWindow)
	cands = applyFilter(corpus, cands, newFilter(q))
	cands = dedupByTitle(corpus, cands)
	rank(corpus, cands, opts)
	if len(cands) > limit {
		cands = cands[:limit]
	}

	res := Result{Match: match, Seeds: seeds, Items: make([]Recommendation, 0, len(cands))}
	for _, c := range cands {
		res.Items = append(res.Items, format(corpus[c.index], c.similarity, c.score, opts))
	}
	return res
}

// Similar returns the n records most similar to the record with identifier id.
// An unknown identifier yields no results.
func Similar(corpus catalog.Corpus, sim *similarity.Matrix, id, n int, opts Options) []Recommendation {
	idx := corpus.IndexOf(id)
	if idx < 0 || sim == nil || idx >= sim.Len() {
		return []Recommendation{}
	}
	if n <= 0 {
		n = DefaultMaxResults
	}
	neighbors := sim.Neighbors(idx, n)
	out := make([]Recommendation, 0, len(neighbors))
	for _, nb := range neighbors {
		out = append(out, format(corpus[nb.Index], nb.Score, nb.Score, opts))
	}
	return out
}

// TopRated returns the n highest rated records, ties in corpus order
func TopRated(corpus catalog.Corpus, n int, opts Options) []Recommendation {
	if n <= 0 {
		n = DefaultMaxResults
	}
	return ratingResult(corpus, MatchTopRated, topRated(corpus, 0), n, opts).Items
}

// topRated returns indices with rating >= minRating ordered by rating, highest first
func topRated(corpus catalog.Corpus, minRating float64) []int {
	idx := make([]int, 0, len(corpus))
	for i, rec := range corpus {
		if rec.Rating >= minRating {
			idx = append(idx, i)
		}
	}
	return byRating(corpus, idx)
}

// byRating stable-sorts indices by rating descending
func byRating(corpus catalog.Corpus, idx []int) []int {
	sort.SliceStable(idx, func(a, b int) bool {
		return corpus[idx[a]].Rating > corpus[idx[b]].Rating
	})
	return idx
}

// ratingResult formats rating-ordered indices, dropping repeated titles
func ratingResult(corpus catalog.Corpus, match MatchKind, idx []int, limit int, opts Options) Result {
	seen := make(map[string]struct{}, len(idx))
	unique := idx[:0:0]
	for _, i := range idx {
		if _, dup := seen[corpus[i].Title]; dup {
			continue
		}
		seen[corpus[i].Title] = struct{}{}
		unique = append(unique, i)
	}
	idx = unique
	if len(idx) > limit {
		idx = idx[:limit]
	}
	res := Result{Match: match, Items: make([]Recommendation, 0, len(idx))}
	for _, i := range idx {
		res.Items = append(res.Items, format(corpus[i], 0, corpus[i].Rating/5.0, opts))
	}
	return res
}

// exactSeeds returns every record whose title contains text, case-insensitively
func exactSeeds(corpus catalog.Corpus, text string) []int {
	q := strings.ToLower(text)
	var seeds []int
	for i, rec := range corpus {
		if strings.Contains(strings.ToLower(rec.Title), q) {
			seeds = append(seeds, i)
		}
	}
	return seeds
}

// fuzzySeeds returns up to maxSeeds records whose title ratio exceeds threshold, best first
func fuzzySeeds(corpus catalog.Corpus, text string, threshold, maxSeeds int) []int {
	q := strings.ToLower(text)
	type scored struct {
		index int
		ratio int
	}
	var hits []scored
	for i, rec := range corpus {
		if r := Ratio(q, strings.ToLower(rec.Title)); r > threshold {
			hits = append(hits, scored{i, r})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].ratio > hits[b].ratio
	})
	if maxSeeds > 0 && len(hits) > maxSeeds {
		hits = hits[:maxSeeds]
	}
	seeds := make([]int, len(hits))
	for k, h := range hits {
		seeds[k] = h.index
	}
	return seeds
}

// searchAll matches text against every descriptive field, case-insensitively
func searchAll(corpus catalog.Corpus, text string) []int {
	q := strings.ToLower(text)
	var hits []int
	for i, rec := range corpus {
		for _, field := range []string{rec.Title, rec.Author, rec.Category, rec.Description, rec.Tags} {
			if strings.Contains(strings.ToLower(field), q) {
				hits = append(hits, i)
				break
			}
		}
	}
	return hits
}

// expand collects the nearest window neighbors of every seed, seed order preserved
func expand(sim *similarity.Matrix, seeds []int, window int) []candidate {
	var cands []candidate
	for _, seed := range seeds {
		for _, nb := range sim.Neighbors(seed, window) {
			cands = append(cands, candidate{index: nb.Index, similarity: nb.Score})
		}
	}
	return cands
}

func applyFilter(corpus catalog.Corpus, cands []candidate, f filter) []candidate {
	out := cands[:0:0]
	for _, c := range cands {
		if f.pass(corpus[c.index]) {
			out = append(out, c)
		}
	}
	return out
}

// dedupByTitle keeps the first candidate for each title
func dedupByTitle(corpus catalog.Corpus, cands []candidate) []candidate {
	seen := make(map[string]struct{}, len(cands))
	out := make([]candidate, 0, len(cands))
	for _, c := range cands {
		title := corpus[c.index].Title
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		out = append(out, c)
	}
	return out
}

// rank scores candidates by weighted similarity and rating, best first.
// The sort is stable so equal scores keep candidate order.
func rank(corpus catalog.Corpus, cands []candidate, opts Options) {
	for k := range cands {
		rating := corpus[cands[k].index].Rating
		cands[k].score = opts.SimilarityWeight*cands[k].similarity + opts.RatingWeight*(rating/5.0)
	}
	sort.SliceStable(cands, func(a, b int) bool {
		return cands[a].score > cands[b].score
	})
}
