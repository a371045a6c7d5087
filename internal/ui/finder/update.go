// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package finder provides the interactive search view for the TUI.
//
// This file contains the Update function and the commands it issues.
package finder

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/seekr/internal/editor"
	"github.com/jeranaias/seekr/internal/history"
	"github.com/jeranaias/seekr/internal/query"
	"github.com/jeranaias/seekr/internal/refresh"
)

// Update handles all incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		m.deps.Renderer.SetWidth(m.previewWidth() - 2)
		m.clampSelection()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ResultsMsg:
		return m.handleResults(msg)

	case RefreshMsg:
		return m.handleRefresh(msg.Event)

	case PreviewMsg:
		if msg.Path == m.previewPath {
			if msg.Err != nil {
				m.previewText = fmt.Sprintf("cannot preview: %v", msg.Err)
			} else {
				m.previewText = msg.Rendered
			}
		}
		return m, nil

	case HistoryMsg:
		m.histEntries = msg.Queries
		m.histPos = len(m.histEntries)
		return m, nil

	case EditorFinishedMsg:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("editor: %v", msg.Err)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.quitting = true
		m.deps.Engine.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Up):
		m.moveSelection(-1)
		return m, m.previewCmd()

	case key.Matches(msg, m.keyMap.Down):
		m.moveSelection(1)
		return m, m.previewCmd()

	case key.Matches(msg, m.keyMap.PageUp):
		m.moveSelection(-m.listHeight())
		return m, m.previewCmd()

	case key.Matches(msg, m.keyMap.PageDown):
		m.moveSelection(m.listHeight())
		return m, m.previewCmd()

	case key.Matches(msg, m.keyMap.Open):
		return m, m.openEditorCmd()

	case key.Matches(msg, m.keyMap.HistoryPrev):
		m.recallHistory(-1)
		return m, nil

	case key.Matches(msg, m.keyMap.HistoryNext):
		m.recallHistory(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Refresh):
		m.deps.Scheduler.Trigger(true)
		m.statusMsg = "re-index requested"
		return m, nil

	case key.Matches(msg, m.keyMap.Clear):
		m.input.SetValue("")
		m.deps.Engine.Submit("")
		return m, nil
	}

	// Everything else edits the query.
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.histPos = len(m.histEntries)
		m.deps.Engine.Submit(after)
	}
	return m, cmd
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m *Model) handleResults(msg ResultsMsg) (tea.Model, tea.Cmd) {
	// Drop sets for text the input has already moved past; a newer set is
	// on its way.
	if msg.Results.Query != m.input.Value() {
		return m, waitForResults(m.deps.Engine)
	}

	m.results = msg.Results.Matches
	m.clampSelection()

	cmds := []tea.Cmd{waitForResults(m.deps.Engine), m.previewCmd()}
	if q := msg.Results.Query; q != "" && q != m.lastRecorded {
		m.lastRecorded = q
		cmds = append(cmds, recordHistory(m.deps.History, q, len(msg.Results.Matches)))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleRefresh(ev refresh.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case refresh.EventCycleStarted:
		m.indexing = true
		return m, m.spinner.Tick

	case refresh.EventProgress:
		m.statusMsg = fmt.Sprintf("indexing… %d files", ev.Indexed)
		m.deps.Engine.Rerun()
		return m, nil

	case refresh.EventWarning:
		m.statusMsg = fmt.Sprintf("skipped %s: %v", ev.Path, ev.Err)
		return m, nil

	case refresh.EventCycleFinished:
		m.indexing = false
		m.lastCycle = ev.Stats
		m.statusMsg = ""
		if ev.Stats.Changed() {
			m.deps.Cache.Invalidate()
			m.deps.Engine.Rerun()
		}
		return m, nil
	}
	return m, nil
}

// =============================================================================
// SELECTION AND HISTORY
// =============================================================================

func (m *Model) moveSelection(delta int) {
	m.selected += delta
	m.clampSelection()
}

func (m *Model) clampSelection() {
	if m.selected >= len(m.results) {
		m.selected = len(m.results) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	// Keep the selection visible.
	h := m.listHeight()
	if h <= 0 {
		return
	}
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+h {
		m.offset = m.selected - h + 1
	}
}

// recallHistory walks saved searches; walking past the newest entry
// restores the live input.
func (m *Model) recallHistory(delta int) {
	if len(m.histEntries) == 0 {
		return
	}
	pos := m.histPos + delta
	if pos < 0 {
		pos = 0
	}
	if pos > len(m.histEntries) {
		pos = len(m.histEntries)
	}
	if pos == m.histPos {
		return
	}
	m.histPos = pos
	if pos == len(m.histEntries) {
		m.input.SetValue("")
	} else {
		m.input.SetValue(m.histEntries[pos])
		m.input.CursorEnd()
	}
	m.deps.Engine.Submit(m.input.Value())
}

// =============================================================================
// COMMANDS
// =============================================================================

// waitForResults blocks on the engine's result channel.
func waitForResults(e *query.Engine) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-e.Results()
		if !ok {
			return nil
		}
		return ResultsMsg{Results: res}
	}
}

// previewCmd loads and renders the selected file.
func (m *Model) previewCmd() tea.Cmd {
	if m.selected >= len(m.results) {
		m.previewPath = ""
		m.previewText = ""
		return nil
	}
	path := m.results[m.selected].Path
	if path == m.previewPath {
		return nil
	}
	m.previewPath = path

	cache := m.deps.Cache
	renderer := m.deps.Renderer
	return func() tea.Msg {
		content, err := cache.Content(path)
		if err != nil {
			return PreviewMsg{Path: path, Err: err}
		}
		return PreviewMsg{Path: path, Rendered: renderer.Render(path, content)}
	}
}

// openEditorCmd suspends the TUI and runs the editor on the selection.
func (m *Model) openEditorCmd() tea.Cmd {
	if m.selected >= len(m.results) {
		return nil
	}
	path := m.results[m.selected].Path

	ed, err := editor.Resolve(m.deps.Editors)
	if err != nil {
		m.statusMsg = err.Error()
		return nil
	}
	cmd, err := editor.Command(ed, path)
	if err != nil {
		m.statusMsg = err.Error()
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return EditorFinishedMsg{Err: err}
	})
}

func loadHistory(store *history.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := store.Recent(history.DefaultLimit)
		if err != nil {
			return nil
		}
		// Oldest first, so walking backwards from the end moves back in
		// time.
		queries := make([]string, 0, len(entries))
		for i := len(entries) - 1; i >= 0; i-- {
			queries = append(queries, entries[i].Query)
		}
		return HistoryMsg{Queries: queries}
	}
}

func recordHistory(store *history.Store, queryText string, count int) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		_ = store.Record(queryText, count)
		return nil
	}
}
