// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import "sort"

// Snapshot is an immutable, read-consistent view of the corpus. It is safe
// for any number of concurrent readers while the index keeps mutating; a
// snapshot never changes after publication.
type Snapshot struct {
	docs    map[string]*Document
	df      map[string]int
	stats   CorpusStats
	version uint64
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		docs: map[string]*Document{},
		df:   map[string]int{},
	}
}

// Version is a monotonically increasing publication counter.
func (s *Snapshot) Version() uint64 { return s.version }

// Stats returns the corpus stats as of publication.
func (s *Snapshot) Stats() CorpusStats { return s.stats }

// DocCount returns the number of documents in the snapshot.
func (s *Snapshot) DocCount() int { return len(s.docs) }

// TermCount returns the number of distinct terms in the snapshot.
func (s *Snapshot) TermCount() int { return len(s.df) }

// DocFreq returns how many documents contain term.
func (s *Snapshot) DocFreq(term string) int { return s.df[term] }

// Doc returns the document for path, or nil.
func (s *Snapshot) Doc(path string) *Document { return s.docs[path] }

// Paths returns every document path, sorted, for deterministic iteration.
func (s *Snapshot) Paths() []string {
	paths := make([]string, 0, len(s.docs))
	for p := range s.docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Each calls fn for every document. Iteration order is unspecified; callers
// that need determinism use Paths.
func (s *Snapshot) Each(fn func(*Document)) {
	for _, doc := range s.docs {
		fn(doc)
	}
}
