// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"math"
	"sort"
	"strings"

	"github.com/jeranaias/seekr/internal/index"
	"github.com/jeranaias/seekr/internal/token"
)

// Multi-term boosts, carried over from the ranking policy this tool is
// built around: documents containing every query term get a flat bonus,
// documents missing terms are squashed quadratically, and an exact
// contiguous phrase doubles the content score.
const (
	fullCoverageBonus  = 0.5
	partialCoverageExp = 2.0
	phraseBoost        = 2.0
)

// Weights balances filename similarity against content relevance in the
// combined score. Exposed as configuration so the weighting policy is
// testable in isolation.
type Weights struct {
	Filename float64
	Content  float64
}

// DefaultWeights favors filename hits, matching the product behavior of
// filename results surfacing first.
func DefaultWeights() Weights {
	return Weights{Filename: 0.65, Content: 0.35}
}

// Options configures one ranking pass.
type Options struct {
	Weights    Weights
	MaxResults int // 0 = unlimited
}

// Result is one ranked document. Ephemeral: recomputed per query.
type Result struct {
	Path string

	// Score is the combined weighted score used for ordering.
	Score float64

	// NameScore is the raw fuzzy filename similarity in [0,1].
	NameScore float64

	// ContentScore is the TF-IDF relevance normalized against the best
	// candidate of this pass, in [0,1].
	ContentScore float64

	// NameMatched records whether the base name itself matched; those
	// always rank above content-only matches. A match found only in an
	// ancestor directory contributes to NameScore but not to the tier.
	NameMatched bool
}

// Rank scores every candidate in the snapshot against query and returns the
// ordered result list. An empty index or a query matching nothing yields an
// empty slice, never an error. An empty query lists the whole corpus in
// path order.
func Rank(query string, snap *index.Snapshot, opts Options) []Result {
	if snap == nil || snap.DocCount() == 0 {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return listAll(snap, opts.MaxResults)
	}

	terms := token.Tokenize([]byte(query))
	distinct := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		distinct[t] = struct{}{}
	}

	n := snap.DocCount()
	idf := make(map[string]float64, len(distinct))
	for t := range distinct {
		// Add-one smoothed, floored at 1: ubiquitous terms contribute
		// little but never flip the score negative.
		idf[t] = math.Log(float64(n+1)/float64(snap.DocFreq(t)+1)) + 1
	}

	var results []Result
	var maxContent float64
	snap.Each(func(doc *index.Document) {
		content := contentScore(doc, terms, distinct, idf)
		name, baseHit := fuzzyScore(query, doc.Path)
		if content == 0 && name == 0 {
			return
		}
		if content > maxContent {
			maxContent = content
		}
		results = append(results, Result{
			Path:         doc.Path,
			NameScore:    name,
			ContentScore: content, // normalized below
			NameMatched:  baseHit,
		})
	})

	for i := range results {
		if maxContent > 0 {
			results[i].ContentScore /= maxContent
		}
		results[i].Score = opts.Weights.Filename*results[i].NameScore +
			opts.Weights.Content*results[i].ContentScore
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.NameMatched != b.NameMatched {
			return a.NameMatched
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Path < b.Path
	})

	if opts.MaxResults > 0 && len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}
	return results
}

// contentScore is the summed tf·idf of the query terms in doc, with
// coverage and phrase boosts applied.
func contentScore(doc *index.Document, terms []string, distinct map[string]struct{}, idf map[string]float64) float64 {
	if doc.TermCount == 0 || len(terms) == 0 {
		return 0
	}

	var score float64
	for _, t := range terms {
		count := doc.Terms[t]
		if count == 0 {
			continue
		}
		tf := float64(count) / float64(doc.TermCount)
		score += tf * idf[t]
	}
	if score == 0 {
		return 0
	}

	if len(distinct) > 1 {
		present := 0
		for t := range distinct {
			if doc.Terms[t] > 0 {
				present++
			}
		}
		coverage := float64(present) / float64(len(distinct))
		if coverage >= 1 {
			score *= 1 + fullCoverageBonus
		} else {
			score *= math.Pow(coverage, partialCoverageExp)
		}
	}

	if len(terms) > 1 && doc.HasPhrase(terms) {
		score *= phraseBoost
	}
	return score
}

func listAll(snap *index.Snapshot, max int) []Result {
	paths := snap.Paths()
	if max > 0 && len(paths) > max {
		paths = paths[:max]
	}
	results := make([]Result, len(paths))
	for i, p := range paths {
		results[i] = Result{Path: p}
	}
	return results
}
