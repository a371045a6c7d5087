// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package finder provides the interactive search view for the TUI.
//
// This file defines keyboard bindings for the finder interface.
package finder

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keyboard bindings for the finder.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Open        key.Binding
	HistoryPrev key.Binding
	HistoryNext key.Binding
	Refresh     key.Binding
	Clear       key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings for the finder.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("up", "previous result"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("down", "next result"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "open in editor"),
		),
		HistoryPrev: key.NewBinding(
			key.WithKeys("ctrl+r", "alt+up"),
			key.WithHelp("C-r", "previous search"),
		),
		HistoryNext: key.NewBinding(
			key.WithKeys("alt+down"),
			key.WithHelp("M-down", "next search"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "re-index now"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("C-u", "clear query"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("Esc", "quit"),
		),
	}
}
