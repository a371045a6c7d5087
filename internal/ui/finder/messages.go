// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package finder provides the interactive search view for the TUI.
//
// This file defines all Bubble Tea message types used by the finder.
package finder

import (
	"github.com/jeranaias/seekr/internal/query"
	"github.com/jeranaias/seekr/internal/refresh"
)

// ResultsMsg delivers a settled query's ranked results.
type ResultsMsg struct {
	Results query.Results
}

// RefreshMsg wraps a background refresh scheduler event. Sent from outside
// the program via Program.Send.
type RefreshMsg struct {
	Event refresh.Event
}

// PreviewMsg delivers rendered preview content for the selected result.
type PreviewMsg struct {
	Path     string
	Rendered string
	Err      error
}

// EditorFinishedMsg signals that the external editor process exited.
type EditorFinishedMsg struct {
	Err error
}

// HistoryMsg delivers recalled search history entries.
type HistoryMsg struct {
	Queries []string
}
