// seekr - fast local file search with a live terminal UI.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/seekr/internal/cli"
	"github.com/jeranaias/seekr/internal/config"
	"github.com/jeranaias/seekr/internal/history"
	"github.com/jeranaias/seekr/internal/logging"
	"github.com/jeranaias/seekr/internal/preview"
	"github.com/jeranaias/seekr/internal/query"
	"github.com/jeranaias/seekr/internal/refresh"
	"github.com/jeranaias/seekr/internal/search"
	"github.com/jeranaias/seekr/internal/ui/finder"
	"github.com/jeranaias/seekr/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case cli.CmdTUI:
		runTUI(cfg, args)
	case cli.CmdSearch:
		if err := cli.HandleSearch(cfg, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdIndex:
		if err := cli.HandleIndex(cfg, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdStatus:
		if err := cli.HandleStatus(cfg, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

// =============================================================================
// TUI STARTUP
// =============================================================================

func runTUI(cfg *config.Config, args cli.Args) {
	// The TUI owns the terminal; everything else goes to the log file.
	if dir, err := config.Dir(); err == nil {
		if err := logging.Init(filepath.Join(dir, "seekr.log")); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		defer logging.Close()
	}

	corpus, err := cli.OpenCorpus(cfg, args.Dir, args.Refresh)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	engine := query.NewEngine(corpus.Index, search.Options{
		Weights: search.Weights{
			Filename: cfg.Search.FilenameWeight,
			Content:  cfg.Search.ContentWeight,
		},
		MaxResults: cfg.Search.MaxResults,
	}, cfg.Debounce())

	var store *history.Store
	if dir, err := config.Dir(); err == nil {
		if s, err := history.Open(filepath.Join(dir, "history.db")); err == nil {
			store = s
			defer store.Close()
		} else {
			logging.Event("history store unavailable: %v", err)
		}
	}

	theme := styles.NewTheme()
	m := finder.New(finder.Deps{
		Root:      corpus.Root,
		Index:     corpus.Index,
		Scheduler: corpus.Scheduler,
		Engine:    engine,
		Cache:     query.NewPreviewCache(),
		Renderer:  preview.New(80, cfg.UI.PreviewLines),
		History:   store,
		Editors:   cfg.UI.Editors,
	}, theme)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	// Background reconciliation feeds cycle events straight into the UI.
	corpus.Scheduler.SetEventHandler(func(ev refresh.Event) {
		p.Send(finder.RefreshMsg{Event: ev})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go corpus.Scheduler.Run(ctx, args.Refresh)

	watcher, err := refresh.NewWatcher(corpus.Scheduler, corpus.Walker, cfg.Debounce()*4)
	if err == nil {
		if err := watcher.Start(ctx); err != nil {
			logging.Event("watcher unavailable: %v", err)
		}
		defer watcher.Close()
	} else {
		logging.Event("watcher unavailable: %v", err)
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running seekr: %v\n", err)
		os.Exit(1)
	}

	// Persist whatever the last cycle left unsaved.
	if corpus.Index.Dirty() {
		if err := corpus.Index.Save(corpus.IndexPath, corpus.Root); err != nil {
			logging.Event("saving index on exit: %v", err)
		}
	}
}
