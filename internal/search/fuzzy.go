// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"path/filepath"
	"strings"
)

// Scoring bands. Substring matches live in [substringFloor, 1]; scattered
// subsequence matches in (0, subsequenceCeiling). Keeping the bands disjoint
// guarantees substring > contiguous-leaning > scattered without tuning.
const (
	substringFloor     = 0.70
	subsequenceCeiling = 0.65
	pathFallbackFactor = 0.5
)

// Per-rune bonuses for the subsequence scorer. Adjacent matches and word
// boundary hits dominate, so "foxnotes" against "fox_notes" lands near the
// ceiling while "fts" lands near the floor.
const (
	runeBase          = 1
	consecutiveBonus  = 3
	wordBoundaryBonus = 2
)

// FuzzyScore rates how well query matches the file at path, in [0,1].
//
//   - Empty query: 1.0 (neutral, "no filter applied")
//   - Exact substring of the base name: highest band
//   - In-order subsequence of the base name: middle band, rewarding
//     adjacency and word-boundary hits
//   - Match only against the full path: same bands, halved
//   - No in-order match anywhere: 0
//
// Matching is case-insensitive throughout.
func FuzzyScore(query, path string) float64 {
	s, _ := fuzzyScore(query, path)
	return s
}

// fuzzyScore additionally reports whether the base name itself matched.
// A hit on an ancestor directory only contributes to the score; it never
// counts as a filename match, so a corpus rooted under a matching directory
// does not turn every file into one.
func fuzzyScore(query, path string) (score float64, baseHit bool) {
	if query == "" {
		return 1.0, true
	}
	if s := scoreTarget(query, filepath.Base(path)); s > 0 {
		return s, true
	}
	if s := scoreTarget(query, path); s > 0 {
		return s * pathFallbackFactor, false
	}
	return 0, false
}

func scoreTarget(query, target string) float64 {
	if target == "" {
		return 0
	}
	q := strings.ToLower(query)
	t := strings.ToLower(target)

	if idx := strings.Index(t, q); idx >= 0 {
		// Substring hit. Reward covering more of the target and sitting
		// closer to its start, inside the top band.
		span := float64(len(q)) / float64(len(t))
		lead := 1 - float64(idx)/float64(len(t))
		return substringFloor + (1-substringFloor)*(0.7*span+0.3*lead)
	}

	raw, matched := subsequenceScore([]rune(q), []rune(t))
	if !matched {
		return 0
	}
	return subsequenceCeiling * float64(raw) / float64(perfectScore(len([]rune(q))))
}

// subsequenceScore greedily matches query runes in order against target,
// accumulating bonuses for adjacency and word boundaries. matched is false
// unless every query rune was consumed.
func subsequenceScore(query, target []rune) (score int, matched bool) {
	if len(query) == 0 || len(query) > len(target) {
		return 0, false
	}

	qi := 0
	last := -2
	for ti := 0; ti < len(target) && qi < len(query); ti++ {
		if target[ti] != query[qi] {
			continue
		}
		s := runeBase
		if ti == last+1 {
			s += consecutiveBonus
		}
		if isWordBoundary(target, ti) {
			s += wordBoundaryBonus
		}
		score += s
		last = ti
		qi++
	}
	return score, qi == len(query)
}

// perfectScore is what a contiguous match starting at a word boundary would
// earn for n runes; it normalizes raw subsequence scores into (0,1].
func perfectScore(n int) int {
	if n <= 0 {
		return 1
	}
	return runeBase + wordBoundaryBonus + (n-1)*(runeBase+consecutiveBonus)
}

// isWordBoundary reports whether target[pos] starts a word: position zero or
// right after a separator.
func isWordBoundary(target []rune, pos int) bool {
	if pos == 0 {
		return true
	}
	switch target[pos-1] {
	case ' ', '/', '\\', '-', '_', '.':
		return true
	}
	return false
}
