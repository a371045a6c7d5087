// args.go - Unified argument parsing for seekr CLI commands.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strconv"
	"strings"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser parses command arguments in multiple flag formats consistently:
//   - Long flags: --flag value or --flag=value
//   - Short flags: -f value
//   - Boolean flags: --flag (no value needed)
//   - Positional arguments: arguments without flags
type ArgParser struct {
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
	raw        []string
}

// NewArgParser creates a parser from raw arguments.
//
// Example:
//
//	args := NewArgParser([]string{"config", "--dir", "/src", "--refresh"})
//	args.Flag("dir")          // "/src"
//	args.BoolFlag("refresh")  // true
func NewArgParser(raw []string) *ArgParser {
	parser := &ArgParser{
		flags:      make(map[string]string),
		boolFlags:  make(map[string]bool),
		positional: make([]string, 0),
		raw:        raw,
	}

	i := 0
	for i < len(raw) {
		arg := raw[i]

		if strings.HasPrefix(arg, "-") {
			// Handle --flag=value format
			if strings.Contains(arg, "=") {
				parts := strings.SplitN(arg, "=", 2)
				name := strings.TrimLeft(parts[0], "-")
				value := parts[1]
				if value == "true" || value == "false" {
					parser.boolFlags[name] = value == "true"
				} else {
					parser.flags[name] = value
				}
				i++
				continue
			}

			name := strings.TrimLeft(arg, "-")
			if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") && flagTakesValue(name) {
				parser.flags[name] = raw[i+1]
				i += 2
			} else {
				parser.boolFlags[name] = true
				i++
			}
		} else {
			parser.positional = append(parser.positional, arg)
			i++
		}
	}

	return parser
}

// flagTakesValue distinguishes value flags from boolean flags so that
// "seekr --refresh query terms" does not swallow the first query term as
// the refresh flag's value.
func flagTakesValue(name string) bool {
	switch name {
	case "dir", "d", "limit", "n", "editor", "config":
		return true
	}
	return false
}

// Flag returns the value of a string flag, or "" when absent.
func (p *ArgParser) Flag(name string) string {
	name = strings.TrimLeft(name, "-")
	return p.flags[name]
}

// FlagOrDefault returns the flag value or a default if not set.
func (p *ArgParser) FlagOrDefault(name, defaultValue string) string {
	if val := p.Flag(name); val != "" {
		return val
	}
	return defaultValue
}

// FlagIntOrDefault returns the flag value as an integer or a default when
// the flag is absent or not a valid integer.
func (p *ArgParser) FlagIntOrDefault(name string, defaultValue int) int {
	val := p.Flag(name)
	if val == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}

// BoolFlag returns the value of a boolean flag, false when absent.
func (p *ArgParser) BoolFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	return p.boolFlags[name]
}

// Positional returns the positional argument at index, or "".
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom returns all positional arguments starting from index.
// Useful for joining remaining args into a query.
func (p *ArgParser) PositionalFrom(index int) []string {
	if index < 0 || index >= len(p.positional) {
		return []string{}
	}
	return p.positional[index:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// HasFlag reports whether the flag appeared at all.
func (p *ArgParser) HasFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	_, hasString := p.flags[name]
	_, hasBool := p.boolFlags[name]
	return hasString || hasBool
}

// Raw returns the original raw arguments.
func (p *ArgParser) Raw() []string {
	return p.raw
}
