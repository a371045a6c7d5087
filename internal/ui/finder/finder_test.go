// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package finder

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/seekr/internal/index"
	"github.com/jeranaias/seekr/internal/preview"
	"github.com/jeranaias/seekr/internal/query"
	"github.com/jeranaias/seekr/internal/refresh"
	"github.com/jeranaias/seekr/internal/scan"
	"github.com/jeranaias/seekr/internal/search"
	"github.com/jeranaias/seekr/internal/ui/styles"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	root := t.TempDir()
	ix := index.New()
	ix.Add(root+"/alpha.txt", []byte("alpha content"), time.Now(), 13)
	ix.Add(root+"/beta.txt", []byte("beta content"), time.Now(), 12)
	ix.Publish()

	walker, err := scan.NewWalker(root)
	if err != nil {
		t.Fatal(err)
	}
	deps := Deps{
		Root:      root,
		Index:     ix,
		Scheduler: refresh.New(ix, walker, "", 0),
		Engine:    query.NewEngine(ix, search.Options{MaxResults: 20}, 0),
		Cache:     query.NewPreviewCache(),
		Renderer:  preview.New(80, 40),
	}
	m := New(deps, styles.NewTheme())
	m.width = 100
	m.height = 30
	return m
}

func resize(m *Model, w, h int) {
	m.Update(tea.WindowSizeMsg{Width: w, Height: h})
}

func TestHandleResultsKeepsCurrentQuery(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("beta")

	m.handleResults(ResultsMsg{Results: query.Results{
		Query:   "beta",
		Matches: []search.Result{{Path: m.deps.Root + "/beta.txt"}},
	}})
	if len(m.results) != 1 {
		t.Fatalf("results: %d", len(m.results))
	}
}

func TestHandleResultsDropsOvertakenQuery(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("beta")
	m.results = []search.Result{{Path: "keep"}}

	// A result set for an earlier prefix of the query must not replace the
	// current list.
	m.handleResults(ResultsMsg{Results: query.Results{
		Query:   "be",
		Matches: []search.Result{{Path: "stale"}},
	}})
	if len(m.results) != 1 || m.results[0].Path != "keep" {
		t.Fatalf("stale results applied: %+v", m.results)
	}
}

func TestSelectionClamps(t *testing.T) {
	m := newTestModel(t)
	resize(m, 100, 30)
	m.results = []search.Result{{Path: "a"}, {Path: "b"}, {Path: "c"}}

	m.moveSelection(10)
	if m.selected != 2 {
		t.Fatalf("selected: %d", m.selected)
	}
	m.moveSelection(-10)
	if m.selected != 0 {
		t.Fatalf("selected: %d", m.selected)
	}
}

func TestSelectionScrollsOffset(t *testing.T) {
	m := newTestModel(t)
	resize(m, 100, 8) // small window: listHeight = 5
	m.results = make([]search.Result, 20)

	m.moveSelection(10)
	if m.selected != 10 {
		t.Fatalf("selected: %d", m.selected)
	}
	if m.offset == 0 {
		t.Fatal("offset should follow selection")
	}
	if m.selected < m.offset || m.selected >= m.offset+m.listHeight() {
		t.Fatalf("selection %d not visible at offset %d height %d",
			m.selected, m.offset, m.listHeight())
	}
}

func TestRecallHistoryWalksBackAndForward(t *testing.T) {
	m := newTestModel(t)
	m.Update(HistoryMsg{Queries: []string{"oldest", "newest"}})

	m.recallHistory(-1)
	if m.input.Value() != "newest" {
		t.Fatalf("value: %q", m.input.Value())
	}
	m.recallHistory(-1)
	if m.input.Value() != "oldest" {
		t.Fatalf("value: %q", m.input.Value())
	}
	// Walking past the oldest entry stays put.
	m.recallHistory(-1)
	if m.input.Value() != "oldest" {
		t.Fatalf("value: %q", m.input.Value())
	}
	// Forward past the newest restores the live (empty) input.
	m.recallHistory(1)
	m.recallHistory(1)
	if m.input.Value() != "" {
		t.Fatalf("value: %q", m.input.Value())
	}
}

func TestViewRendersAllSections(t *testing.T) {
	m := newTestModel(t)
	resize(m, 100, 30)
	m.results = []search.Result{{Path: m.deps.Root + "/alpha.txt", Score: 0.9}}

	out := m.View()
	if out == "" {
		t.Fatal("empty view")
	}
}

func TestViewBeforeFirstResize(t *testing.T) {
	m := newTestModel(t)
	m.width = 0
	if m.View() == "" {
		t.Fatal("pre-resize view should show a placeholder")
	}
}
