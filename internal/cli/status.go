// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Index statistics for humans and scripts.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jeranaias/seekr/internal/config"
	"github.com/jeranaias/seekr/internal/index"
)

// timeRounding keeps durations in output readable.
const timeRounding = time.Millisecond

// statusReport is the JSON shape of the status command.
type statusReport struct {
	Root       string    `json:"root"`
	IndexPath  string    `json:"index_path"`
	Validity   string    `json:"validity"`
	SavedAt    time.Time `json:"saved_at,omitempty"`
	Documents  int       `json:"documents"`
	Terms      int       `json:"terms"`
	TotalBytes int64     `json:"total_bytes"`
}

// HandleStatus reports on the persisted index for a directory without
// touching it.
func HandleStatus(cfg *config.Config, args Args) error {
	corpus, err := OpenCorpus(cfg, args.Dir, false)
	if err != nil {
		return err
	}

	report := statusReport{
		Root:      corpus.Root,
		IndexPath: corpus.IndexPath,
		Validity:  index.ValidityAbsent.String(),
	}

	rec, err := index.Load(corpus.IndexPath)
	switch {
	case err == nil:
		report.Validity = rec.Validity(cfg.RefreshInterval()).String()
		report.SavedAt = rec.SavedAt
		snap := corpus.Index.Snapshot()
		report.Documents = snap.DocCount()
		report.Terms = snap.TermCount()
		report.TotalBytes = snap.Stats().TotalBytes
	case errors.Is(err, index.ErrIndexAbsent):
		// Absent stays absent; nothing else to report.
	default:
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(report)
	}

	fmt.Printf("root:       %s\n", report.Root)
	fmt.Printf("index:      %s\n", report.IndexPath)
	fmt.Printf("validity:   %s\n", report.Validity)
	if report.Validity == index.ValidityAbsent.String() {
		fmt.Println("run 'seekr index' to build the index")
		return nil
	}
	fmt.Printf("saved:      %s (%s)\n",
		report.SavedAt.Local().Format(time.RFC1123),
		humanize.Time(report.SavedAt))
	fmt.Printf("documents:  %d\n", report.Documents)
	fmt.Printf("terms:      %d\n", report.Terms)
	fmt.Printf("total size: %s\n", humanize.Bytes(uint64(report.TotalBytes)))
	return nil
}
