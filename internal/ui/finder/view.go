// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package finder provides the interactive search view for the TUI.
//
// This file renders the finder layout: query input on top, the result list
// and preview pane side by side, and a status bar at the bottom.
package finder

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/seekr/internal/util"
)

// listWidthFraction is the share of the window given to the result list;
// the preview pane gets the rest.
const listWidthFraction = 0.4

// chromeRows is the fixed vertical overhead: header, input, status bar.
const chromeRows = 3

// View renders the whole finder.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	header := m.viewHeader()
	input := m.input.View()
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewResults(), m.viewPreview())
	status := m.viewStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, header, input, body, status)
}

// =============================================================================
// LAYOUT MATH
// =============================================================================

func (m *Model) listWidth() int {
	w := int(float64(m.width) * listWidthFraction)
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) previewWidth() int {
	w := m.width - m.listWidth()
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) listHeight() int {
	h := m.height - chromeRows
	if h < 1 {
		h = 1
	}
	return h
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m *Model) viewHeader() string {
	title := m.theme.Header.Render("seekr")
	count := m.theme.HeaderCount.Render(
		fmt.Sprintf(" %s — %d files, %d results",
			util.TruncatePathLeft(m.deps.Root, m.width/2),
			m.deps.Index.Snapshot().DocCount(),
			len(m.results)))
	return util.TruncateWidth(title+count, m.width)
}

func (m *Model) viewResults() string {
	width := m.listWidth()
	height := m.listHeight()

	if len(m.results) == 0 {
		lines := make([]string, height)
		lines[0] = m.theme.EmptyList.Render("no matches")
		return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
	}

	end := m.offset + height
	if end > len(m.results) {
		end = len(m.results)
	}

	rows := make([]string, 0, height)
	for i := m.offset; i < end; i++ {
		r := m.results[i]
		rel, err := filepath.Rel(m.deps.Root, r.Path)
		if err != nil {
			rel = r.Path
		}

		score := m.theme.ResultScore.Render(fmt.Sprintf(" %.2f", r.Score))
		label := util.TruncatePathLeft(rel, width-8)
		row := label + score
		if i == m.selected {
			row = m.theme.ResultSelected.Width(width).Render(row)
		} else {
			row = m.theme.ResultItem.Width(width).Render(row)
		}
		rows = append(rows, row)
	}
	for len(rows) < height {
		rows = append(rows, strings.Repeat(" ", width))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) viewPreview() string {
	width := m.previewWidth()
	height := m.listHeight()

	var b strings.Builder
	if m.previewPath != "" {
		rel, err := filepath.Rel(m.deps.Root, m.previewPath)
		if err != nil {
			rel = m.previewPath
		}
		b.WriteString(m.theme.PreviewHeader.Render(util.TruncatePathLeft(rel, width-2)))
		b.WriteString("\n")
		b.WriteString(m.previewText)
	}

	return m.theme.PreviewPane.
		Width(width - 2).
		Height(height).
		MaxHeight(height).
		Render(b.String())
}

func (m *Model) viewStatusBar() string {
	var left string
	switch {
	case m.indexing:
		left = m.spinner.View() + m.theme.StatusWarning.Render(" indexing")
		if m.statusMsg != "" {
			left += m.theme.StatusWarning.Render(" · " + m.statusMsg)
		}
	case m.statusMsg != "":
		left = m.theme.StatusError.Render(m.statusMsg)
	default:
		left = m.theme.StatusState.Render("ready")
		if m.lastCycle.Changed() {
			left += m.theme.ShortcutDesc.Render(fmt.Sprintf(
				" · last refresh +%d ~%d -%d",
				m.lastCycle.Added, m.lastCycle.Modified, m.lastCycle.Removed))
		}
	}

	right := strings.Join([]string{
		m.theme.ShortcutKey.Render("Enter") + m.theme.ShortcutDesc.Render(" open"),
		m.theme.ShortcutKey.Render("C-r") + m.theme.ShortcutDesc.Render(" history"),
		m.theme.ShortcutKey.Render("C-g") + m.theme.ShortcutDesc.Render(" re-index"),
		m.theme.ShortcutKey.Render("Esc") + m.theme.ShortcutDesc.Render(" quit"),
	}, "  ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(
		left + strings.Repeat(" ", gap) + right)
}
