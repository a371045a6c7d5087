// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// MUTABLE INDEX
// =============================================================================

// Index holds the mutable corpus state: the document set, the document
// frequency table, and corpus stats. All three move together inside one
// critical section, so no partial update is ever observable.
//
// Query code never reads these maps; it reads the published Snapshot.
type Index struct {
	mu    sync.Mutex
	docs  map[string]*Document
	df    map[string]int // term -> number of documents containing it
	stats CorpusStats
	dirty bool // mutated since the last Save

	snap atomic.Pointer[Snapshot]
}

// New returns an empty index with an empty published snapshot, so queries
// issued before any indexing completes see an empty corpus, not a nil.
func New() *Index {
	ix := &Index{
		docs: make(map[string]*Document),
		df:   make(map[string]int),
	}
	ix.snap.Store(emptySnapshot())
	return ix
}

// Add tokenizes content and inserts or replaces the document for path.
// Prior postings for the path are removed first, so indexing the same path
// twice never leaves duplicates: after the second call the postings equal
// exactly the new term set.
func (ix *Index) Add(path string, content []byte, modTime time.Time, size int64) {
	doc := BuildDocument(path, content, modTime, size)

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.removeLocked(path)
	ix.docs[path] = doc
	for t := range doc.Terms {
		ix.df[t]++
	}
	ix.stats.Documents++
	ix.stats.TotalBytes += size
	ix.dirty = true
}

// AddDocument inserts a prebuilt document, used when hydrating from a
// persisted record. Same replace semantics as Add.
func (ix *Index) AddDocument(doc *Document) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.removeLocked(doc.Path)
	ix.docs[doc.Path] = doc
	for t := range doc.Terms {
		ix.df[t]++
	}
	ix.stats.Documents++
	ix.stats.TotalBytes += doc.Size
}

// Touch updates the recorded metadata for path without re-tokenizing, used
// when a file's mtime moved but its content fingerprint did not. Documents
// are immutable, so this installs a shallow copy with the new metadata.
func (ix *Index) Touch(path string, modTime time.Time, size int64) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	doc, ok := ix.docs[path]
	if !ok {
		return false
	}
	updated := *doc
	updated.ModTime = modTime
	ix.stats.TotalBytes += size - updated.Size
	updated.Size = size
	ix.docs[path] = &updated
	ix.dirty = true
	return true
}

// Remove deletes the document for path and all of its postings. Removing an
// unknown path is a no-op.
func (ix *Index) Remove(path string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.removeLocked(path) {
		ix.dirty = true
	}
}

func (ix *Index) removeLocked(path string) bool {
	doc, ok := ix.docs[path]
	if !ok {
		return false
	}
	delete(ix.docs, path)
	for t := range doc.Terms {
		if ix.df[t] <= 1 {
			delete(ix.df, t)
		} else {
			ix.df[t]--
		}
	}
	ix.stats.Documents--
	ix.stats.TotalBytes -= doc.Size
	return true
}

// Meta returns path -> (mtime, size, fingerprint) for every document. The
// refresh scheduler diffs this against the live filesystem.
func (ix *Index) Meta() map[string]DocMeta {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	meta := make(map[string]DocMeta, len(ix.docs))
	for path, doc := range ix.docs {
		meta[path] = DocMeta{ModTime: doc.ModTime, Size: doc.Size, Fingerprint: doc.Fingerprint}
	}
	return meta
}

// DocMeta is the per-document metadata consulted during diffing.
type DocMeta struct {
	ModTime     time.Time
	Size        int64
	Fingerprint string
}

// Stats returns the current corpus stats.
func (ix *Index) Stats() CorpusStats {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.stats
}

// Dirty reports whether the index changed since it was last saved or loaded.
func (ix *Index) Dirty() bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.dirty
}

func (ix *Index) markClean() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.dirty = false
}

// =============================================================================
// SNAPSHOT PUBLICATION
// =============================================================================

// Publish builds an immutable snapshot of the current state and swaps it in
// as the view served to queries. The copy happens under the write lock but
// touches only map headers and shared document pointers; documents are
// immutable so sharing them is safe.
func (ix *Index) Publish() *Snapshot {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	docs := make(map[string]*Document, len(ix.docs))
	for path, doc := range ix.docs {
		docs[path] = doc
	}
	df := make(map[string]int, len(ix.df))
	for t, n := range ix.df {
		df[t] = n
	}

	prev := ix.snap.Load()
	snap := &Snapshot{
		docs:    docs,
		df:      df,
		stats:   ix.stats,
		version: prev.version + 1,
	}
	ix.snap.Store(snap)
	return snap
}

// Snapshot returns the currently published view. Never nil.
func (ix *Index) Snapshot() *Snapshot {
	return ix.snap.Load()
}
