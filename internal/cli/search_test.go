// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/seekr/internal/config"
	"github.com/jeranaias/seekr/internal/search"
)

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func() error) []byte {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fnErr := fn()
	w.Close()
	out := make([]byte, 0, 1024)
	buf := make([]byte, 1024)
	for {
		n, rerr := r.Read(buf)
		out = append(out, buf[:n]...)
		if rerr != nil {
			break
		}
	}
	if fnErr != nil {
		t.Fatalf("captured call failed: %v", fnErr)
	}
	return out
}

func seedCorpus(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "alpha.txt"), []byte("alpha words here"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "beta.txt"), []byte("beta words there"), 0o644); err != nil {
		t.Fatal(err)
	}
	return config.Default(), dir
}

func TestPrintSearchRanksQueryText(t *testing.T) {
	cfg, dir := seedCorpus(t)
	corpus, err := OpenCorpus(cfg, dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := corpus.Reconcile(context.Background(), false); err != nil {
		t.Fatal(err)
	}

	opts := search.Options{Weights: search.DefaultWeights(), MaxResults: 10}
	out := captureStdout(t, func() error {
		return printSearch(corpus, "beta", opts, true)
	})

	var results []search.Result
	if err := json.Unmarshal(out, &results); err != nil {
		t.Fatalf("bad JSON output: %v\n%s", err, out)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1: %v", len(results), results)
	}
	if filepath.Base(results[0].Path) != "beta.txt" {
		t.Fatalf("ranked wrong document: %s", results[0].Path)
	}
	if !results[0].NameMatched {
		t.Error("beta.txt should count as a filename match for \"beta\"")
	}
}

func TestOpenCorpusExcludesIndexFile(t *testing.T) {
	cfg, dir := seedCorpus(t)
	cfg.Index.FileName = "plain.index.json"

	corpus, err := OpenCorpus(cfg, dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := corpus.Reconcile(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if got := corpus.Index.Snapshot().DocCount(); got != 2 {
		t.Fatalf("got %d docs, want 2 (index file must not index itself)", got)
	}

	stats, err := corpus.Reconcile(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Changed() {
		t.Error("second cycle saw the index file as a change")
	}
}
