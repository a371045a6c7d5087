// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package finder provides the interactive search view for the TUI.
package finder

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/seekr/internal/history"
	"github.com/jeranaias/seekr/internal/index"
	"github.com/jeranaias/seekr/internal/preview"
	"github.com/jeranaias/seekr/internal/query"
	"github.com/jeranaias/seekr/internal/refresh"
	"github.com/jeranaias/seekr/internal/search"
	"github.com/jeranaias/seekr/internal/ui/styles"
)

// Deps are the backend pieces the finder drives. History may be nil; the
// recall bindings then do nothing.
type Deps struct {
	Root      string
	Index     *index.Index
	Scheduler *refresh.Scheduler
	Engine    *query.Engine
	Cache     *query.PreviewCache
	Renderer  *preview.Renderer
	History   *history.Store
	Editors   []string
}

// Model is the Bubble Tea model for the finder view.
type Model struct {
	deps  Deps
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// UI components
	input   textinput.Model
	spinner spinner.Model
	keyMap  KeyMap

	// Result list
	results  []search.Result
	selected int
	offset   int // first visible result row

	// Preview
	previewPath string
	previewText string

	// Background indexing state
	indexing  bool
	lastCycle refresh.CycleStats
	statusMsg string

	// Search history recall
	histEntries []string
	histPos     int // len(histEntries) = live input, lower = recalled

	// lastRecorded avoids re-recording the same query on every snapshot
	// rerun.
	lastRecorded string

	quitting bool
}

// New creates the finder model.
func New(deps Deps, theme *styles.Theme) *Model {
	input := textinput.New()
	input.Placeholder = "type to search"
	input.Prompt = theme.InputPrompt.Render("> ")
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return &Model{
		deps:    deps,
		theme:   theme,
		input:   input,
		spinner: sp,
		keyMap:  DefaultKeyMap(),
		histPos: 0,
	}
}

// Init arms the result listener, loads history, and runs the empty query so
// the list starts populated.
func (m *Model) Init() tea.Cmd {
	m.deps.Engine.Submit("")
	return tea.Batch(
		waitForResults(m.deps.Engine),
		loadHistory(m.deps.History),
		m.spinner.Tick,
	)
}
