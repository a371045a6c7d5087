// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewThemeInitializesStyles(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}

	// A zero-value style renders its input unchanged; the configured ones
	// must at least carry their bold/foreground settings.
	if !theme.Header.GetBold() {
		t.Error("Header should be bold")
	}
	if !theme.ResultSelected.GetBold() {
		t.Error("ResultSelected should be bold")
	}
	if !theme.MatchHighlight.GetBold() {
		t.Error("MatchHighlight should be bold")
	}
	if theme.ResultExcerpt.GetPaddingLeft() == 0 {
		t.Error("ResultExcerpt should be indented")
	}
}

func TestThemeRendersText(t *testing.T) {
	theme := NewTheme()
	out := theme.StatusBar.Render("status")
	if out == "" {
		t.Fatal("styled render produced nothing")
	}
}
