// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the seekr TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER AND INPUT STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderCount lipgloss.Style
	InputPrompt lipgloss.Style

	// ==========================================================================
	// RESULT LIST STYLES
	// ==========================================================================

	ResultItem     lipgloss.Style
	ResultSelected lipgloss.Style
	ResultScore    lipgloss.Style
	ResultExcerpt  lipgloss.Style
	MatchHighlight lipgloss.Style
	EmptyList      lipgloss.Style

	// ==========================================================================
	// PREVIEW PANE STYLES
	// ==========================================================================

	PreviewPane   lipgloss.Style
	PreviewHeader lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar     lipgloss.Style
	StatusState   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	ShortcutKey   lipgloss.Style
	ShortcutDesc  lipgloss.Style

	// ==========================================================================
	// SPINNER
	// ==========================================================================

	Spinner lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header and input
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HeaderCount = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	// Result list
	t.ResultItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(1)

	t.ResultSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceBright).
		Bold(true).
		PaddingLeft(1)

	t.ResultScore = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ResultExcerpt = lipgloss.NewStyle().
		Foreground(TextMuted).
		PaddingLeft(3)

	t.MatchHighlight = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.EmptyList = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		PaddingLeft(1)

	// Preview pane
	t.PreviewPane = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Overlay).
		PaddingLeft(1)

	t.PreviewHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusState = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.StatusWarning = lipgloss.NewStyle().
		Foreground(Amber)

	t.StatusError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Spinner
	t.Spinner = lipgloss.NewStyle().
		Foreground(Amber)
}
