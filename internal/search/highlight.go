// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"strings"

	"github.com/jeranaias/seekr/internal/token"
)

// Span is a half-open byte range [Start, End) into an excerpt's text.
type Span struct {
	Start int
	End   int
}

// Excerpt is the snippet shown under a result: the first content line that
// contains a query term, with the term occurrences located for highlighting.
type Excerpt struct {
	// Line is the 1-based line number the excerpt came from; 0 when the
	// content is empty.
	Line int

	// Text is the trimmed excerpt line.
	Text string

	// Spans are the query-term occurrences inside Text, ascending and
	// non-overlapping.
	Spans []Span
}

// FindExcerpt scans content for the first line containing any query term and
// returns it with highlight spans. When no line matches, the first non-empty
// line is returned without spans, so every result still gets a preview.
func FindExcerpt(content []byte, query string) Excerpt {
	terms := token.Tokenize([]byte(query))

	var fallback Excerpt
	lineNo := 0
	for line := range strings.Lines(string(content)) {
		lineNo++
		text := strings.TrimSpace(strings.TrimRight(line, "\n"))
		if text == "" {
			continue
		}
		if fallback.Line == 0 {
			fallback = Excerpt{Line: lineNo, Text: text}
		}
		spans := findSpans(text, terms)
		if len(spans) > 0 {
			return Excerpt{Line: lineNo, Text: text, Spans: spans}
		}
	}
	return fallback
}

// findSpans locates every case-insensitive occurrence of each term in text,
// merged into ascending, non-overlapping spans.
func findSpans(text string, terms []string) []Span {
	if len(terms) == 0 {
		return nil
	}
	lower := lowerASCII(text)

	var spans []Span
	for _, term := range terms {
		for from := 0; ; {
			i := strings.Index(lower[from:], term)
			if i < 0 {
				break
			}
			start := from + i
			spans = append(spans, Span{Start: start, End: start + len(term)})
			from = start + len(term)
		}
	}
	if len(spans) == 0 {
		return nil
	}
	return mergeSpans(spans)
}

func mergeSpans(spans []Span) []Span {
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].Start < spans[j-1].Start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// lowerASCII lowercases ASCII letters only, preserving byte offsets so span
// positions computed on the lowered string stay valid in the original.
func lowerASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}
