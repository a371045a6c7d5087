// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for seekr.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdSearch
	CmdIndex
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Dir is the corpus root; defaults to the working directory.
	Dir string

	// Refresh forces a full re-index before serving.
	Refresh bool

	// Query is the one-shot search text, empty for interactive modes.
	Query string

	// Limit overrides the configured result cap when positive.
	Limit int

	// JSON switches machine-readable output for status and search.
	JSON bool

	// Raw holds the remaining arguments after the command name.
	Raw []string
}

const usageText = `seekr - fast local file search

Seekr indexes a directory tree and ranks files by fuzzy filename match
and content relevance, with a live terminal UI.

Usage:
  seekr                      Start the interactive finder (default)
  seekr search [terms...]    One-shot search; REPL when no terms given
  seekr index                (Re)build the index for a directory
  seekr status, s            Show index statistics
  seekr version              Show version information
  seekr help                 Show this help

Flags:
  -d, --dir PATH    Directory to search (default: current directory)
  -r, --refresh     Force a full re-index before serving
  -n, --limit N     Maximum results for one-shot search
  --json            Machine-readable output (search, status)

Examples:
  seekr                              Search the current directory
  seekr --dir ~/notes                Search a notes tree
  seekr search parser error          One ranked result list, then exit
  seekr search                       Interactive prompt with history
  seekr index --dir ~/src --refresh  Rebuild an index from scratch
  seekr status --json                Index stats for scripting

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("seekr version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs is Parse over an explicit argument slice, used by tests.
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "search", "find":
		parser := NewArgParser(remaining)
		args.Query = strings.Join(parser.PositionalFrom(0), " ")
		args.Limit = parser.FlagIntOrDefault("limit", parser.FlagIntOrDefault("n", args.Limit))
		if parser.BoolFlag("json") {
			args.JSON = true
		}
		if d := parser.Flag("dir"); d != "" {
			args.Dir = d
		}
		return CmdSearch, args

	case "index", "reindex":
		parser := NewArgParser(remaining)
		if d := parser.Flag("dir"); d != "" {
			args.Dir = d
		}
		if cmd == "reindex" || parser.BoolFlag("refresh") {
			args.Refresh = true
		}
		return CmdIndex, args

	case "status", "s", "stats":
		parser := NewArgParser(remaining)
		if parser.BoolFlag("json") {
			args.JSON = true
		}
		if d := parser.Flag("dir"); d != "" {
			args.Dir = d
		}
		return CmdStatus, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// Unknown word: treat the whole tail as a one-shot query, so
		// "seekr parser error" just works.
		args.Query = strings.Join(append([]string{cmd}, remaining...), " ")
		return CmdSearch, args
	}
}

// parseGlobalFlags extracts flags valid for every command and returns the
// remaining arguments.
func parseGlobalFlags(argv []string) ([]string, Args) {
	args := Args{}
	var remaining []string

	i := 0
	for i < len(argv) {
		switch arg := argv[i]; arg {
		case "-d", "--dir":
			if i+1 < len(argv) {
				args.Dir = argv[i+1]
				i += 2
				continue
			}
			i++
		case "-r", "--refresh":
			args.Refresh = true
			i++
		case "--json":
			args.JSON = true
			i++
		default:
			if strings.HasPrefix(arg, "--dir=") {
				args.Dir = strings.TrimPrefix(arg, "--dir=")
				i++
				continue
			}
			remaining = append(remaining, arg)
			i++
		}
	}

	if args.Dir == "" {
		if wd, err := os.Getwd(); err == nil {
			args.Dir = wd
		}
	}
	return remaining, args
}
