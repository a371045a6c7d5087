// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/seekr/internal/index"
)

func buildIndex(t *testing.T, docs map[string]string) *index.Snapshot {
	t.Helper()
	ix := index.New()
	now := time.Now()
	for path, content := range docs {
		ix.Add(path, []byte(content), now, int64(len(content)))
	}
	return ix.Publish()
}

func rank(snap *index.Snapshot, query string) []Result {
	return Rank(query, snap, Options{Weights: DefaultWeights(), MaxResults: 20})
}

// The canonical product scenario: a filename match outranks a content match.
func TestRankFilenameOverContent(t *testing.T) {
	snap := buildIndex(t, map[string]string{
		"/corpus/a.txt":        "the quick fox",
		"/corpus/fox_notes.md": "nothing relevant",
	})

	results := rank(snap, "fox")
	require.Len(t, results, 2)
	assert.Equal(t, "/corpus/fox_notes.md", results[0].Path)
	assert.Equal(t, "/corpus/a.txt", results[1].Path)
	assert.True(t, results[0].NameMatched)
	assert.False(t, results[1].NameMatched)
}

// The tier rule must hold even when the content score saturates: a document
// mentioning the term constantly still loses to a filename hit.
func TestRankFilenamePriorityIndependentOfWeights(t *testing.T) {
	snap := buildIndex(t, map[string]string{
		"/corpus/fox_notes.md": "unrelated words entirely",
		"/corpus/dense.txt":    "fox fox fox fox fox fox fox fox",
	})

	results := Rank("fox", snap, Options{
		// Content deliberately overweighted.
		Weights:    Weights{Filename: 0.1, Content: 0.9},
		MaxResults: 20,
	})
	require.Len(t, results, 2)
	assert.Equal(t, "/corpus/fox_notes.md", results[0].Path)
}

// A query matching only an ancestor directory must not promote every file
// under it above content hits; the directory hit only feeds the score.
func TestRankDirectoryHitIsNotAFilenameMatch(t *testing.T) {
	snap := buildIndex(t, map[string]string{
		"/corpus/fox/notes.txt": "unrelated words entirely",
		"/corpus/readme.txt":    "the quick fox jumped",
	})

	results := rank(snap, "fox")
	require.Len(t, results, 2)
	assert.Equal(t, "/corpus/readme.txt", results[0].Path,
		"content hit must outrank a directory-only path hit")
	assert.False(t, results[1].NameMatched)
	assert.Greater(t, results[1].NameScore, 0.0,
		"directory hit still contributes to the score")
}

// A base-name hit keeps its tier even next to a directory hit with content.
func TestRankBaseNameHitKeepsTier(t *testing.T) {
	snap := buildIndex(t, map[string]string{
		"/corpus/fox.txt":       "unrelated words entirely",
		"/corpus/fox/dense.txt": "fox fox fox fox fox fox",
	})

	results := rank(snap, "fox")
	require.Len(t, results, 2)
	assert.Equal(t, "/corpus/fox.txt", results[0].Path)
	assert.True(t, results[0].NameMatched)
	assert.False(t, results[1].NameMatched)
}

func TestRankEmptyIndex(t *testing.T) {
	snap := index.New().Publish()
	assert.Empty(t, rank(snap, "anything"))
}

func TestRankNoMatches(t *testing.T) {
	snap := buildIndex(t, map[string]string{
		"/corpus/a.txt": "completely unrelated content",
	})
	assert.Empty(t, rank(snap, "zzzqqq"))
}

func TestRankEmptyQueryListsCorpus(t *testing.T) {
	snap := buildIndex(t, map[string]string{
		"/corpus/b.txt": "two",
		"/corpus/a.txt": "one",
		"/corpus/c.txt": "three",
	})

	results := rank(snap, "")
	require.Len(t, results, 3)
	// Path order, no scores.
	assert.Equal(t, "/corpus/a.txt", results[0].Path)
	assert.Equal(t, "/corpus/b.txt", results[1].Path)
	assert.Equal(t, "/corpus/c.txt", results[2].Path)
	assert.Zero(t, results[0].Score)
}

func TestRankTFIDFOrdering(t *testing.T) {
	snap := buildIndex(t, map[string]string{
		"/corpus/dense.txt":   "kernel kernel kernel kernel",
		"/corpus/sparse.txt":  "kernel and a lot of other padding words here",
		"/corpus/nothing.txt": "no relevant terms at all",
	})

	results := rank(snap, "kernel")
	require.Len(t, results, 2, "documents without the term must not appear")
	assert.Equal(t, "/corpus/dense.txt", results[0].Path)
	assert.Equal(t, "/corpus/sparse.txt", results[1].Path)
	assert.Greater(t, results[0].ContentScore, results[1].ContentScore)
}

func TestRankCoverageBoost(t *testing.T) {
	snap := buildIndex(t, map[string]string{
		"/corpus/both.txt": "alpha things and beta things",
		"/corpus/one.txt":  "alpha alpha alpha alpha alpha alpha",
	})

	results := rank(snap, "alpha beta")
	require.Len(t, results, 2)
	assert.Equal(t, "/corpus/both.txt", results[0].Path,
		"full coverage must beat repetition of a single term")
}

func TestRankPhraseBoost(t *testing.T) {
	snap := buildIndex(t, map[string]string{
		"/corpus/phrase.txt":    "configure the search index carefully",
		"/corpus/scattered.txt": "search the whole configured index",
	})

	results := rank(snap, "search index")
	require.Len(t, results, 2)
	assert.Equal(t, "/corpus/phrase.txt", results[0].Path,
		"contiguous phrase must outrank the same terms scattered")
}

func TestRankStableTieBreak(t *testing.T) {
	snap := buildIndex(t, map[string]string{
		"/corpus/b_twin.txt": "identical content",
		"/corpus/a_twin.txt": "identical content",
	})

	results := rank(snap, "identical")
	require.Len(t, results, 2)
	assert.Equal(t, "/corpus/a_twin.txt", results[0].Path, "ties break by path order")
}

func TestRankMaxResults(t *testing.T) {
	docs := map[string]string{}
	for _, p := range []string{"/a.txt", "/b.txt", "/c.txt", "/d.txt", "/e.txt"} {
		docs[p] = "shared term"
	}
	snap := buildIndex(t, docs)

	results := Rank("shared", snap, Options{Weights: DefaultWeights(), MaxResults: 3})
	assert.Len(t, results, 3)
}
