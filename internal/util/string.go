// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateWidth truncates a string to a maximum display width, appending an
// ellipsis when anything was cut. Width is measured in terminal cells, so
// double-width (CJK) runes count as two.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// TruncatePathLeft shortens a path to maxWidth cells by cutting from the
// left, keeping the base name visible: "…/internal/index/persist.go".
func TruncatePathLeft(path string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(path) <= maxWidth {
		return path
	}
	runes := []rune(path)
	// Drop leading runes until the remainder plus the marker fits.
	for i := range runes {
		rest := string(runes[i:])
		if runewidth.StringWidth(rest)+1 <= maxWidth {
			return "…" + rest
		}
	}
	return runewidth.Truncate(path, maxWidth, "")
}

// CollapseSpace rewrites any run of whitespace as a single space and trims
// the ends. Used when flattening file content into one-line excerpts.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
