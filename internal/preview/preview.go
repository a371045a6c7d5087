// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package preview renders file contents for the preview pane.
//
// Markdown goes through glamour, source code through chroma with the file
// extension picking the lexer, and everything else falls back to plain
// text. Rendering failures always degrade to plain text rather than an
// error pane.
package preview

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
)

// Renderer renders previews at a fixed width and line budget.
type Renderer struct {
	width    int
	maxLines int
	markdown *glamour.TermRenderer
}

// New creates a renderer. A nil glamour renderer (e.g. an unsupported
// terminal) silently downgrades markdown to syntax-highlighted text.
func New(width, maxLines int) *Renderer {
	r := &Renderer{width: width, maxLines: maxLines}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		r.markdown = md
	}
	return r
}

// SetWidth rebuilds the markdown renderer for a resized pane.
func (r *Renderer) SetWidth(width int) {
	if width == r.width {
		return
	}
	r.width = width
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		r.markdown = md
	}
}

// Render produces the preview text for path's content.
func (r *Renderer) Render(path string, content []byte) string {
	text := capLines(string(content), r.maxLines)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		if r.markdown != nil {
			if out, err := r.markdown.Render(text); err == nil {
				return strings.TrimRight(out, "\n")
			}
		}
		return highlight(text, path)
	default:
		return highlight(text, path)
	}
}

// highlight applies chroma syntax highlighting, picking the lexer from the
// file name and falling back to content analysis, then plain text.
func highlight(text, path string) string {
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return text
	}
	return buf.String()
}

// capLines truncates text to at most n lines, appending an ellipsis marker
// when lines were dropped.
func capLines(text string, n int) string {
	if n <= 0 {
		return text
	}
	count := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			count++
			if count == n {
				return text[:i] + "\n…"
			}
		}
	}
	return text
}
