// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jeranaias/seekr/internal/util"
)

// FormatVersion tags the persisted record schema. A record carrying any
// other version is treated as absent and triggers a full rebuild.
const FormatVersion = 1

// ErrIndexAbsent reports why a load produced no record. It is informational:
// callers must treat absence as "start from an empty corpus", never as a
// fatal condition.
var ErrIndexAbsent = errors.New("persisted index absent")

// Validity classifies a loaded record for the refresh scheduler.
type Validity int

const (
	// ValidityAbsent: no usable record; a full rebuild is required.
	ValidityAbsent Validity = iota
	// ValidityStale: usable starting point, but old enough that a
	// reconcile pass must run before results are trusted for freshness.
	ValidityStale
	// ValidityFresh: saved recently; still reconciled in the background,
	// just with less urgency.
	ValidityFresh
)

func (v Validity) String() string {
	switch v {
	case ValidityAbsent:
		return "absent"
	case ValidityStale:
		return "stale"
	case ValidityFresh:
		return "fresh"
	default:
		return "unknown"
	}
}

// Record is the serialized form of the whole corpus.
type Record struct {
	Version int         `json:"version"`
	Root    string      `json:"root"`
	SavedAt time.Time   `json:"saved_at"`
	Docs    []RecordDoc `json:"docs"`
}

// RecordDoc is one persisted document. Document frequency and corpus stats
// are derived on load, so the record stays minimal and cannot disagree with
// its own document set.
type RecordDoc struct {
	Path        string           `json:"path"`
	ModTime     time.Time        `json:"mtime"`
	Size        int64            `json:"size"`
	Fingerprint string           `json:"fingerprint"`
	TermCount   int              `json:"term_count"`
	Terms       map[string]int   `json:"terms"`
	Positions   map[string][]int `json:"positions,omitempty"`
}

// Validity classifies the record by age. freshWindow is typically the
// configured refresh interval.
func (r *Record) Validity(freshWindow time.Duration) Validity {
	if r == nil {
		return ValidityAbsent
	}
	if time.Since(r.SavedAt) <= freshWindow {
		return ValidityFresh
	}
	return ValidityStale
}

// =============================================================================
// SAVE / LOAD
// =============================================================================

// Save writes the current corpus to path atomically. Documents are sorted by
// path so identical corpora serialize identically.
func (ix *Index) Save(path, root string) error {
	ix.mu.Lock()
	rec := Record{
		Version: FormatVersion,
		Root:    root,
		SavedAt: time.Now().UTC(),
		Docs:    make([]RecordDoc, 0, len(ix.docs)),
	}
	for _, doc := range ix.docs {
		rec.Docs = append(rec.Docs, RecordDoc{
			Path:        doc.Path,
			ModTime:     doc.ModTime,
			Size:        doc.Size,
			Fingerprint: doc.Fingerprint,
			TermCount:   doc.TermCount,
			Terms:       doc.Terms,
			Positions:   doc.Positions,
		})
	}
	ix.mu.Unlock()

	sort.Slice(rec.Docs, func(i, j int) bool { return rec.Docs[i].Path < rec.Docs[j].Path })

	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("serialize index: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	ix.markClean()
	return nil
}

// Load reads a persisted record from path. Missing, unreadable, corrupt, or
// version-mismatched files all yield (nil, reason): none of these conditions
// is fatal, the caller simply rebuilds from scratch. The returned error
// wraps ErrIndexAbsent and exists only for logging.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no file at %s", ErrIndexAbsent, path)
		}
		return nil, fmt.Errorf("%w: unreadable: %v", ErrIndexAbsent, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: corrupt: %v", ErrIndexAbsent, err)
	}
	if rec.Version != FormatVersion {
		return nil, fmt.Errorf("%w: format version %d, want %d", ErrIndexAbsent, rec.Version, FormatVersion)
	}
	return &rec, nil
}

// Hydrate replaces the index contents with the record's documents, rebuilds
// the document frequency table and stats, and publishes a snapshot. The
// hydrated state counts as clean until the next mutation.
func (ix *Index) Hydrate(rec *Record) {
	ix.mu.Lock()
	ix.docs = make(map[string]*Document, len(rec.Docs))
	ix.df = make(map[string]int)
	ix.stats = CorpusStats{}
	for i := range rec.Docs {
		rd := &rec.Docs[i]
		doc := &Document{
			Path:        rd.Path,
			ModTime:     rd.ModTime,
			Size:        rd.Size,
			Fingerprint: rd.Fingerprint,
			TermCount:   rd.TermCount,
			Terms:       rd.Terms,
			Positions:   rd.Positions,
		}
		if doc.Terms == nil {
			doc.Terms = map[string]int{}
		}
		ix.docs[doc.Path] = doc
		for t := range doc.Terms {
			ix.df[t]++
		}
		ix.stats.Documents++
		ix.stats.TotalBytes += doc.Size
	}
	ix.dirty = false
	ix.mu.Unlock()

	ix.Publish()
}
