// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/jeranaias/seekr/internal/token"
)

// Document is one indexed file. Documents are immutable once built: a
// re-index replaces the whole value, so snapshots can share pointers safely.
type Document struct {
	// Path is the absolute path of the file.
	Path string

	// ModTime and Size are the file metadata recorded at index time; the
	// refresh scheduler diffs against them to detect modification.
	ModTime time.Time
	Size    int64

	// Fingerprint is the hex blake2b-256 of the raw content. It catches
	// edits that preserve both mtime and size, and lets a forced refresh
	// skip re-tokenizing files whose bytes did not change.
	Fingerprint string

	// TermCount is the total number of tokens in the document.
	TermCount int

	// Terms maps each distinct term to its occurrence count.
	Terms map[string]int

	// Positions maps each term to the token offsets where it occurs,
	// ascending. Used for contiguous-phrase detection.
	Positions map[string][]int
}

// CorpusStats tracks corpus-wide counters used for IDF. It is updated in the
// same critical section as document add/remove, so it is always consistent
// with the document set.
type CorpusStats struct {
	Documents  int
	TotalBytes int64
}

// BuildDocument tokenizes content and assembles an immutable Document.
// It never fails: malformed content tokenizes best-effort.
func BuildDocument(path string, content []byte, modTime time.Time, size int64) *Document {
	terms := token.Tokenize(content)
	freq, total := token.TermFrequency(terms)
	return &Document{
		Path:        path,
		ModTime:     modTime,
		Size:        size,
		Fingerprint: Fingerprint(content),
		TermCount:   total,
		Terms:       freq,
		Positions:   token.Positions(terms),
	}
}

// Fingerprint returns the hex blake2b-256 digest of content.
func Fingerprint(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HasPhrase reports whether the given terms occur contiguously, in order,
// somewhere in the document's token sequence.
func (d *Document) HasPhrase(terms []string) bool {
	if len(terms) < 2 {
		return false
	}
	for _, t := range terms {
		if d.Terms[t] == 0 {
			return false
		}
	}
	starts := d.Positions[terms[0]]
outer:
	for _, start := range starts {
		next := start + 1
		for _, t := range terms[1:] {
			if !containsSorted(d.Positions[t], next) {
				continue outer
			}
			next++
		}
		return true
	}
	return false
}

// containsSorted does a binary search over an ascending position slice.
func containsSorted(positions []int, want int) bool {
	lo, hi := 0, len(positions)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case positions[mid] < want:
			lo = mid + 1
		case positions[mid] > want:
			hi = mid
		default:
			return true
		}
	}
	return false
}
