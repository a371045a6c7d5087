// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// index_cmd.go - Explicit (re)indexing from the command line.
package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/seekr/internal/config"
)

// HandleIndex builds or updates the persisted index for a directory.
func HandleIndex(cfg *config.Config, args Args) error {
	corpus, err := OpenCorpus(cfg, args.Dir, args.Refresh)
	if err != nil {
		return err
	}

	if args.Refresh {
		fmt.Printf("rebuilding index for %s\n", corpus.Root)
	} else if corpus.Hydrated {
		fmt.Printf("updating index for %s\n", corpus.Root)
	} else {
		fmt.Printf("building index for %s\n", corpus.Root)
	}

	stats, err := corpus.Reconcile(context.Background(), args.Refresh)
	if err != nil {
		return fmt.Errorf("indexing %s: %w", corpus.Root, err)
	}

	snap := corpus.Index.Snapshot()
	fmt.Printf("indexed %d files (%d added, %d modified, %d removed, %d skipped) in %s\n",
		snap.DocCount(), stats.Added, stats.Modified, stats.Removed, stats.Skipped,
		stats.Finished.Sub(stats.Started).Round(timeRounding))
	fmt.Printf("index written to %s\n", corpus.IndexPath)
	return nil
}
