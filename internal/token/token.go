// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package token turns raw file content into normalized index terms.
//
// Terms are runs of letters and digits, lowercased, NFKC-normalized so
// composed and decomposed Unicode forms index identically. Tokenization is
// pure and never fails: invalid UTF-8 byte sequences act as term separators
// rather than aborting the file.
package token

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MinTermLength filters out single-rune noise tokens ("a", "x", "_").
const MinTermLength = 2

// Tokenize splits content into normalized terms, in document order.
// Duplicates are preserved; callers that need frequencies count them.
func Tokenize(content []byte) []string {
	var terms []string
	var current strings.Builder
	runes := 0

	flush := func() {
		if runes >= MinTermLength {
			terms = append(terms, normalize(current.String()))
		}
		current.Reset()
		runes = 0
	}

	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size == 1 {
			// Malformed byte: treat as a separator and keep going.
			flush()
			i++
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(unicode.ToLower(r))
			runes++
		} else {
			flush()
		}
		i += size
	}
	flush()

	return terms
}

// TermFrequency counts occurrences per term and the total token count.
func TermFrequency(terms []string) (freq map[string]int, total int) {
	freq = make(map[string]int, len(terms))
	for _, t := range terms {
		freq[t]++
	}
	return freq, len(terms)
}

// Positions records, for every term, the token offsets at which it occurs.
// Offsets are indices into the token sequence, not byte offsets; they feed
// contiguous-phrase detection at ranking time.
func Positions(terms []string) map[string][]int {
	pos := make(map[string][]int)
	for i, t := range terms {
		pos[t] = append(pos[t], i)
	}
	return pos
}

func normalize(s string) string {
	if norm.NFKC.IsNormalString(s) {
		return s
	}
	return strings.ToLower(norm.NFKC.String(s))
}
