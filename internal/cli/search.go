// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// search.go - One-shot ranked search and the interactive prompt.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/jeranaias/seekr/internal/config"
	"github.com/jeranaias/seekr/internal/history"
	"github.com/jeranaias/seekr/internal/query"
	"github.com/jeranaias/seekr/internal/search"
)

var (
	pathStyle    = lipgloss.NewStyle().Bold(true)
	scoreStyle   = lipgloss.NewStyle().Faint(true)
	excerptStyle = lipgloss.NewStyle().Faint(true).PaddingLeft(4)
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
)

// excerptedResults is how many of the top results get a content excerpt in
// one-shot output.
const excerptedResults = 5

// HandleSearch runs a one-shot search, or an interactive prompt when no
// query terms were given on a terminal.
func HandleSearch(cfg *config.Config, args Args) error {
	corpus, err := OpenCorpus(cfg, args.Dir, args.Refresh)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if _, err := corpus.Reconcile(ctx, args.Refresh); err != nil {
		return fmt.Errorf("indexing %s: %w", corpus.Root, err)
	}

	opts := search.Options{
		Weights:    search.Weights{Filename: cfg.Search.FilenameWeight, Content: cfg.Search.ContentWeight},
		MaxResults: cfg.Search.MaxResults,
	}
	if args.Limit > 0 {
		opts.MaxResults = args.Limit
	}

	if strings.TrimSpace(args.Query) != "" {
		return printSearch(corpus, args.Query, opts, args.JSON)
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("no query given and stdin is not a terminal")
	}
	return searchREPL(cfg, corpus, opts)
}

// printSearch ranks one query and writes the result list.
func printSearch(corpus *Corpus, queryText string, opts search.Options, asJSON bool) error {
	results := search.Rank(queryText, corpus.Index.Snapshot(), opts)
	return printResults(corpus, queryText, results, asJSON)
}

func printResults(corpus *Corpus, queryText string, results []search.Result, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("no matches")
		return nil
	}

	excerpts := query.Excerpts(results, queryText, excerptedResults)
	for i, r := range results {
		rel, err := filepath.Rel(corpus.Root, r.Path)
		if err != nil {
			rel = r.Path
		}
		fmt.Printf("%2d. %s %s\n", i+1,
			pathStyle.Render(rel),
			scoreStyle.Render(fmt.Sprintf("(%.3f)", r.Score)))
		if ex, ok := excerpts[r.Path]; ok {
			fmt.Println(excerptStyle.Render(fmt.Sprintf("%d: %s", ex.Line, ex.Text)))
		}
	}
	return nil
}

// =============================================================================
// INTERACTIVE PROMPT
// =============================================================================

// searchREPL reads queries with line editing and history until EOF.
func searchREPL(cfg *config.Config, corpus *Corpus, opts search.Options) error {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	var store *history.Store
	if dir, err := config.Dir(); err == nil {
		if s, err := history.Open(filepath.Join(dir, "history.db")); err == nil {
			store = s
			defer store.Close()
			loadPromptHistory(line, store)
		}
	}

	fmt.Printf("searching %s (%d files). Ctrl+D exits.\n",
		corpus.Root, corpus.Index.Snapshot().DocCount())

	for {
		input, err := line.Prompt(promptStyle.Render("seekr> "))
		if err != nil {
			// Ctrl+C, Ctrl+D, or a closed terminal all end the session.
			fmt.Println()
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		results := search.Rank(input, corpus.Index.Snapshot(), opts)
		if store != nil {
			_ = store.Record(input, len(results))
		}
		if err := printResults(corpus, input, results, false); err != nil {
			return err
		}
	}
}

// loadPromptHistory seeds liner with recent searches, oldest first so arrow
// keys walk backwards in time.
func loadPromptHistory(line *liner.State, store *history.Store) {
	entries, err := store.Recent(history.DefaultLimit)
	if err != nil {
		return
	}
	for i := len(entries) - 1; i >= 0; i-- {
		line.AppendHistory(entries[i].Query)
	}
}
