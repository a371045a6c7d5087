// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for seekr.
//
// Configuration is TOML at ~/.seekr/config.toml with built-in defaults,
// selected environment variable overrides, and validation. A missing file is
// not an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/seekr/internal/util"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config is the complete seekr configuration.
type Config struct {
	// Index holds on-disk index and scanning settings.
	Index IndexConfig `toml:"index"`

	// Search holds ranking and result presentation settings.
	Search SearchConfig `toml:"search"`

	// UI holds interactive front-end settings.
	UI UIConfig `toml:"ui"`
}

// IndexConfig controls what gets indexed and where the index lives.
type IndexConfig struct {
	// FileName is the persisted index file, relative to the corpus root.
	FileName string `toml:"file_name"`

	// IgnoreFileName is the ignore rule file, relative to the corpus root.
	IgnoreFileName string `toml:"ignore_file_name"`

	// MaxFileSizeBytes skips files larger than this.
	MaxFileSizeBytes int64 `toml:"max_file_size_bytes"`

	// RefreshIntervalSeconds is the periodic background reconcile cadence.
	RefreshIntervalSeconds int `toml:"refresh_interval_seconds"`

	// ScanFilesPerSecond throttles the background walk. 0 = unlimited.
	ScanFilesPerSecond int `toml:"scan_files_per_second"`
}

// SearchConfig controls ranking policy.
type SearchConfig struct {
	// FilenameWeight and ContentWeight balance the two scoring domains.
	// They should sum to roughly 1; Validate enforces both positive with
	// filename weighted at least as high as content.
	FilenameWeight float64 `toml:"filename_weight"`
	ContentWeight  float64 `toml:"content_weight"`

	// MaxResults caps the ranked list.
	MaxResults int `toml:"max_results"`
}

// UIConfig controls the interactive front end.
type UIConfig struct {
	// DebounceMs is the keystroke settle window before a search runs.
	DebounceMs int `toml:"debounce_ms"`

	// PreviewLines is how much of the selected file the preview shows.
	PreviewLines int `toml:"preview_lines"`

	// Editors is the ordered list of editor commands tried before the
	// VISUAL/EDITOR environment variables.
	Editors []string `toml:"editors"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Index: IndexConfig{
			FileName:               ".seekr.index.json",
			IgnoreFileName:         ".seekrignore",
			MaxFileSizeBytes:       10 * 1024 * 1024,
			RefreshIntervalSeconds: 300,
			ScanFilesPerSecond:     0,
		},
		Search: SearchConfig{
			FilenameWeight: 0.65,
			ContentWeight:  0.35,
			MaxResults:     20,
		},
		UI: UIConfig{
			DebounceMs:   120,
			PreviewLines: 80,
			Editors:      nil,
		},
	}
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Dir returns the seekr settings directory (~/.seekr).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".seekr"), nil
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file, applies environment overrides, and validates.
// A missing file yields defaults; a malformed file is an error so a typo is
// not silently replaced by defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit path, used by tests.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults apply.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config atomically.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	return util.AtomicWriteFile(path, data, 0644)
}

// applyEnv layers environment overrides on top of file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("SEEKR_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.UI.DebounceMs = n
		}
	}
	if v := os.Getenv("SEEKR_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.MaxResults = n
		}
	}
	if v := os.Getenv("SEEKR_REFRESH_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Index.RefreshIntervalSeconds = n
		}
	}
}

// Validate checks ranges and relationships.
func (c *Config) Validate() error {
	if c.Index.FileName == "" {
		return fmt.Errorf("config: index.file_name must not be empty")
	}
	if c.Index.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("config: index.max_file_size_bytes must be positive")
	}
	if c.Index.RefreshIntervalSeconds < 0 {
		return fmt.Errorf("config: index.refresh_interval_seconds must not be negative")
	}
	if c.Search.FilenameWeight <= 0 || c.Search.ContentWeight <= 0 {
		return fmt.Errorf("config: search weights must be positive")
	}
	if c.Search.FilenameWeight < c.Search.ContentWeight {
		return fmt.Errorf("config: filename_weight must be at least content_weight")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("config: search.max_results must be positive")
	}
	if c.UI.DebounceMs < 0 || c.UI.DebounceMs > 2000 {
		return fmt.Errorf("config: ui.debounce_ms out of range [0, 2000]")
	}
	if c.UI.PreviewLines <= 0 {
		return fmt.Errorf("config: ui.preview_lines must be positive")
	}
	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// Debounce returns the query settle window as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.UI.DebounceMs) * time.Millisecond
}

// RefreshInterval returns the background reconcile cadence; zero disables
// the periodic timer (startup and explicit refreshes still run).
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Index.RefreshIntervalSeconds) * time.Second
}
