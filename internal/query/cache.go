// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package query

import (
	"bytes"
	"os"
	"sync"
	"time"
)

// previewCap bounds how much of a file the preview pane ever needs.
const previewCap = 256 * 1024

// cacheEntries bounds the preview cache. Eviction is whole-cache reset; the
// working set while browsing a result list is far smaller than this.
const cacheEntries = 64

type cacheEntry struct {
	modTime time.Time
	size    int64
	content []byte
}

// PreviewCache serves file contents for the preview pane, keyed by path and
// invalidated by mtime and size. Safe for concurrent use.
type PreviewCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewPreviewCache() *PreviewCache {
	return &PreviewCache{entries: make(map[string]cacheEntry)}
}

// Content returns up to previewCap bytes of the file, re-reading only when
// the file changed since the cached copy was taken.
func (c *PreviewCache) Content(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if e, ok := c.entries[path]; ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		c.mu.Unlock()
		return e.content, nil
	}
	c.mu.Unlock()

	content, err := readCapped(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if len(c.entries) >= cacheEntries {
		c.entries = make(map[string]cacheEntry)
	}
	c.entries[path] = cacheEntry{modTime: info.ModTime(), size: info.Size(), content: content}
	c.mu.Unlock()
	return content, nil
}

// Invalidate drops the whole cache, e.g. after a refresh cycle.
func (c *PreviewCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// readCapped reads at most previewCap bytes and trims a trailing partial
// line when the cap truncated the file.
func readCapped(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, previewCap)
	n := 0
	for n < len(buf) {
		m, err := f.Read(buf[n:])
		n += m
		if err != nil {
			break
		}
	}
	content := buf[:n]
	if n == previewCap {
		if i := bytes.LastIndexByte(content, '\n'); i > 0 {
			content = content[:i+1]
		}
	}
	return content, nil
}
