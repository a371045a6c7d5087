// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package query

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/seekr/internal/index"
	"github.com/jeranaias/seekr/internal/search"
)

func seedIndex(t *testing.T) *index.Index {
	t.Helper()
	ix := index.New()
	now := time.Now()
	ix.Add("/corpus/alpha.txt", []byte("alpha words here"), now, 16)
	ix.Add("/corpus/beta.txt", []byte("beta words there"), now, 16)
	ix.Publish()
	return ix
}

func receive(t *testing.T, ch <-chan Results, within time.Duration) Results {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(within):
		t.Fatal("timed out waiting for results")
		return Results{}
	}
}

func TestSubmitDebouncesToFinalText(t *testing.T) {
	ix := seedIndex(t)
	e := NewEngine(ix, search.Options{MaxResults: 10}, 40*time.Millisecond)
	defer e.Close()

	// Simulate typing "beta" one rune at a time within the window.
	for _, q := range []string{"b", "be", "bet", "beta"} {
		e.Submit(q)
		time.Sleep(5 * time.Millisecond)
	}

	res := receive(t, e.Results(), 2*time.Second)
	assert.Equal(t, "beta", res.Query)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "/corpus/beta.txt", res.Matches[0].Path)

	// Nothing else arrives: the earlier prefixes never fired.
	select {
	case extra := <-e.Results():
		t.Fatalf("unexpected extra result set for %q", extra.Query)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestZeroDebounceEvaluatesImmediately(t *testing.T) {
	ix := seedIndex(t)
	e := NewEngine(ix, search.Options{MaxResults: 10}, 0)
	defer e.Close()

	e.Submit("alpha")
	res := receive(t, e.Results(), time.Second)
	assert.Equal(t, "alpha", res.Query)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "/corpus/alpha.txt", res.Matches[0].Path)
}

// End-to-end sanity for one evaluation: the matches carry the ranking
// engine's scores and paths, not just the raw candidates.
func TestEngineDeliversRankedMatches(t *testing.T) {
	ix := seedIndex(t)
	e := NewEngine(ix, search.Options{Weights: search.DefaultWeights(), MaxResults: 10}, 0)
	defer e.Close()

	e.Submit("alpha words")
	res := receive(t, e.Results(), time.Second)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "/corpus/alpha.txt", res.Matches[0].Path,
		"both terms present must outrank one")
	assert.Greater(t, res.Matches[0].Score, res.Matches[1].Score)
}

func TestCloseUnblocksConsumer(t *testing.T) {
	ix := seedIndex(t)
	e := NewEngine(ix, search.Options{MaxResults: 10}, time.Hour)

	var open bool
	done := make(chan struct{})
	go func() {
		_, open = <-e.Results()
		close(done)
	}()

	e.Submit("alpha") // parked behind the debounce window
	e.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer still blocked after Close")
	}
	assert.False(t, open, "channel should report closed")

	// A late evaluation finishing after Close is dropped, never a send on
	// a closed channel.
	e.deliver(Results{Seq: 99, Query: "late"})
}

func TestStaleResultsSuppressed(t *testing.T) {
	ix := seedIndex(t)
	e := NewEngine(ix, search.Options{MaxResults: 10}, 0)
	defer e.Close()

	// Deliver out of order: the newer sequence lands first, the older one
	// must be dropped.
	e.deliver(Results{Seq: 5, Query: "beta"})
	e.deliver(Results{Seq: 3, Query: "alpha"})

	res := receive(t, e.Results(), time.Second)
	assert.Equal(t, uint64(5), res.Seq)
	select {
	case extra := <-e.Results():
		t.Fatalf("stale result delivered: seq %d", extra.Seq)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDeliverKeepsNewestWhenConsumerIsSlow(t *testing.T) {
	ix := seedIndex(t)
	e := NewEngine(ix, search.Options{MaxResults: 10}, 0)
	defer e.Close()

	e.deliver(Results{Seq: 1, Query: "a"})
	e.deliver(Results{Seq: 2, Query: "ab"})
	e.deliver(Results{Seq: 3, Query: "abc"})

	res := receive(t, e.Results(), time.Second)
	assert.Equal(t, uint64(3), res.Seq)
	assert.Equal(t, "abc", res.Query)
}

func TestFlushBypassesWindow(t *testing.T) {
	ix := seedIndex(t)
	e := NewEngine(ix, search.Options{MaxResults: 10}, 10*time.Second)
	defer e.Close()

	e.Submit("alpha")
	e.Flush()

	res := receive(t, e.Results(), time.Second)
	assert.Equal(t, "alpha", res.Query)
	require.Len(t, res.Matches, 1)
}

func TestRerunSeesNewSnapshot(t *testing.T) {
	ix := seedIndex(t)
	e := NewEngine(ix, search.Options{MaxResults: 10}, 0)
	defer e.Close()

	e.Submit("words")
	first := receive(t, e.Results(), time.Second)
	assert.Len(t, first.Matches, 2)

	ix.Add("/corpus/gamma.txt", []byte("more words appear"), time.Now(), 17)
	ix.Publish()
	e.Rerun()

	second := receive(t, e.Results(), time.Second)
	assert.Len(t, second.Matches, 3)
	assert.Greater(t, second.Version, first.Version)
}

func TestPreviewCacheInvalidatesOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.txt")
	require.NoError(t, os.WriteFile(path, []byte("first body"), 0o644))

	c := NewPreviewCache()
	got, err := c.Content(path)
	require.NoError(t, err)
	assert.Equal(t, "first body", string(got))

	// Cached while unchanged.
	again, err := c.Content(path)
	require.NoError(t, err)
	assert.Equal(t, "first body", string(again))

	require.NoError(t, os.WriteFile(path, []byte("second body!"), 0o644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	updated, err := c.Content(path)
	require.NoError(t, err)
	assert.Equal(t, "second body!", string(updated))
}

func TestPreviewCacheMissingFile(t *testing.T) {
	c := NewPreviewCache()
	_, err := c.Content(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestExcerptsAnnotateVisiblePrefix(t *testing.T) {
	dir := t.TempDir()
	hit := filepath.Join(dir, "hit.txt")
	require.NoError(t, os.WriteFile(hit, []byte("intro\nthe needle lives here\n"), 0o644))

	results := []search.Result{
		{Path: hit},
		{Path: filepath.Join(dir, "missing.txt")},
	}
	ex := Excerpts(results, "needle", 5)
	require.Contains(t, ex, hit)
	assert.Equal(t, 2, ex[hit].Line)
	assert.Equal(t, "the needle lives here", ex[hit].Text)
	assert.NotContains(t, ex, results[1].Path)
}
