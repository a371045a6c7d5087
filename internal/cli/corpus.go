// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// corpus.go - Shared corpus setup for CLI commands and the TUI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jeranaias/seekr/internal/config"
	"github.com/jeranaias/seekr/internal/index"
	"github.com/jeranaias/seekr/internal/refresh"
	"github.com/jeranaias/seekr/internal/scan"
)

// Corpus bundles the pieces every command needs: the walker over the root,
// the in-memory index, and the scheduler that keeps them reconciled.
type Corpus struct {
	Root      string
	IndexPath string
	Index     *index.Index
	Walker    *scan.Walker
	Scheduler *refresh.Scheduler

	// Hydrated reports whether a persisted index was loaded, so the first
	// cycle is incremental rather than a full build.
	Hydrated bool
}

// OpenCorpus resolves the root, loads any persisted index, and wires the
// refresh scheduler. forced skips hydration so the first cycle rebuilds
// everything from disk.
func OpenCorpus(cfg *config.Config, dir string, forced bool) (*Corpus, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}

	// The index file sits inside the corpus root; exclude it explicitly so
	// a non-dot file name cannot make each save trigger the next refresh.
	indexPath := filepath.Join(root, cfg.Index.FileName)

	walker, err := scan.NewWalker(root,
		scan.WithMaxFileSize(cfg.Index.MaxFileSizeBytes),
		scan.WithIgnoreFile(cfg.Index.IgnoreFileName),
		scan.WithRateLimit(cfg.Index.ScanFilesPerSecond),
		scan.WithExclude(indexPath),
	)
	if err != nil {
		return nil, err
	}

	ix := index.New()

	hydrated := false
	if !forced {
		rec, err := index.Load(indexPath)
		switch {
		case err == nil && rec.Root == root:
			ix.Hydrate(rec)
			hydrated = true
		case err != nil && !errors.Is(err, index.ErrIndexAbsent):
			return nil, err
		}
	}

	sched := refresh.New(ix, walker, indexPath, cfg.RefreshInterval())
	return &Corpus{
		Root:      root,
		IndexPath: indexPath,
		Index:     ix,
		Walker:    walker,
		Scheduler: sched,
		Hydrated:  hydrated,
	}, nil
}

// Reconcile runs one synchronous refresh cycle, used by the one-shot
// commands that need an up-to-date index before answering.
func (c *Corpus) Reconcile(ctx context.Context, forced bool) (refresh.CycleStats, error) {
	return c.Scheduler.RefreshOnce(ctx, forced)
}
