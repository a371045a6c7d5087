// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scan walks a directory tree and yields the files worth indexing.
//
// A walk applies, in order: dot-file exclusion, .seekrignore rules
// (gitignore pattern semantics), the text-format extension allowlist, and
// the maximum file size. The walk is finite and restartable; each pass
// reflects the filesystem at the time it runs.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/time/rate"
)

// DefaultIgnoreFile is the well-known ignore rule file at the corpus root.
const DefaultIgnoreFile = ".seekrignore"

// DefaultMaxFileSize caps the content files read for indexing.
const DefaultMaxFileSize = 10 * 1024 * 1024

// indexableExtensions is the allowlist of text, markup, source, and config
// formats. Anything else (binaries, media, archives) is skipped outright.
var indexableExtensions = map[string]struct{}{
	".txt": {}, ".md": {}, ".mdx": {}, ".rst": {}, ".tex": {},
	".xml": {}, ".xhtml": {}, ".html": {}, ".htm": {},
	".css": {}, ".scss": {}, ".less": {},
	".rs": {}, ".go": {}, ".py": {}, ".rb": {}, ".php": {}, ".pl": {},
	".js": {}, ".jsx": {}, ".ts": {}, ".tsx": {}, ".vue": {}, ".svelte": {},
	".java": {}, ".kt": {}, ".kts": {}, ".cs": {}, ".dart": {},
	".c": {}, ".h": {}, ".hpp": {}, ".hh": {}, ".cpp": {}, ".cc": {}, ".cxx": {},
	".erl": {}, ".ex": {}, ".exs": {}, ".lua": {}, ".nim": {}, ".r": {},
	".sh": {}, ".bash": {}, ".zsh": {}, ".fish": {},
	".json": {}, ".toml": {}, ".yaml": {}, ".yml": {},
	".ini": {}, ".cfg": {}, ".conf": {}, ".properties": {}, ".gradle": {},
	".sql": {},
}

// FileInfo describes one candidate file produced by a walk.
type FileInfo struct {
	Path    string // absolute
	ModTime time.Time
	Size    int64
}

// Walker enumerates indexable files under a root directory.
type Walker struct {
	root        string
	ignoreFile  string
	matcher     *ignore.GitIgnore // nil when no ignore file exists
	maxFileSize int64
	limiter     *rate.Limiter // nil = unlimited
	exclude     map[string]struct{}
}

// Option configures a Walker.
type Option func(*Walker)

// WithMaxFileSize overrides the file size cap.
func WithMaxFileSize(n int64) Option {
	return func(w *Walker) { w.maxFileSize = n }
}

// WithIgnoreFile overrides the ignore rule file name.
func WithIgnoreFile(name string) Option {
	return func(w *Walker) { w.ignoreFile = name }
}

// WithRateLimit throttles the walk to filesPerSec candidate files per
// second, so a background pass over a huge corpus cannot starve the
// interactive path of I/O. Zero means unlimited.
func WithRateLimit(filesPerSec int) Option {
	return func(w *Walker) {
		if filesPerSec > 0 {
			w.limiter = rate.NewLimiter(rate.Limit(filesPerSec), filesPerSec)
		}
	}
}

// WithExclude skips the given files no matter what their extension says.
// The persisted index file lives inside the corpus it describes, and indexing
// it would make every save look like a content change.
func WithExclude(paths ...string) Option {
	return func(w *Walker) {
		for _, p := range paths {
			if abs, err := filepath.Abs(p); err == nil {
				w.exclude[abs] = struct{}{}
			}
		}
	}
}

// NewWalker creates a walker rooted at root. A missing or unparsable ignore
// file just means no ignore rules; it never fails the walker.
func NewWalker(root string, opts ...Option) (*Walker, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "scan", Path: abs, Err: fs.ErrInvalid}
	}

	w := &Walker{
		root:        abs,
		ignoreFile:  DefaultIgnoreFile,
		maxFileSize: DefaultMaxFileSize,
		exclude:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if matcher, err := ignore.CompileIgnoreFile(filepath.Join(abs, w.ignoreFile)); err == nil {
		w.matcher = matcher
	}
	return w, nil
}

// Root returns the absolute root directory.
func (w *Walker) Root() string { return w.root }

// Walk calls fn for every indexable file. Unreadable entries are skipped;
// only context cancellation stops the walk early.
func (w *Walker) Walk(ctx context.Context, fn func(FileInfo)) error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // permission errors etc: skip, keep walking
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		base := filepath.Base(path)
		if d.IsDir() {
			if path != w.root && (strings.HasPrefix(base, ".") || w.ignored(path, true)) {
				return filepath.SkipDir
			}
			return nil
		}

		if !w.Indexable(path) || w.ignored(path, false) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil // vanished mid-walk
		}
		if info.Size() > w.maxFileSize {
			return nil
		}

		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		fn(FileInfo{Path: path, ModTime: info.ModTime(), Size: info.Size()})
		return nil
	})
}

// Collect runs a full walk and returns the results as a slice.
func (w *Walker) Collect(ctx context.Context) ([]FileInfo, error) {
	var files []FileInfo
	err := w.Walk(ctx, func(fi FileInfo) { files = append(files, fi) })
	return files, err
}

// Indexable reports whether the path's base name and extension pass the
// dot-file exclusion, the explicit exclusion list, and the format allowlist.
func (w *Walker) Indexable(path string) bool {
	if _, skip := w.exclude[filepath.Clean(path)]; skip {
		return false
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	_, ok := indexableExtensions[strings.ToLower(filepath.Ext(base))]
	return ok
}

// ignored applies the .seekrignore rules to a path relative to the root.
func (w *Walker) ignored(path string, isDir bool) bool {
	if w.matcher == nil {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return w.matcher.MatchesPath(rel)
}
