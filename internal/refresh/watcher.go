// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package refresh

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/seekr/internal/scan"
)

// Watcher turns filesystem events into debounced refresh triggers. It does
// not index anything itself: a burst of events collapses into one scheduler
// cycle, whose diff works out the specifics.
type Watcher struct {
	sched    *Scheduler
	walker   *scan.Walker
	fw       *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	lastHit time.Time
	pending bool

	cancel context.CancelFunc
}

// NewWatcher creates a watcher feeding the given scheduler.
func NewWatcher(sched *Scheduler, walker *scan.Walker, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		sched:    sched,
		walker:   walker,
		fw:       fw,
		debounce: debounce,
	}, nil
}

// Start begins watching the corpus root and all subdirectories.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.walker.Root()); err != nil {
		return err
	}
	ctx, w.cancel = context.WithCancel(ctx)
	go w.loop(ctx)
	return nil
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	return w.fw.Close()
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}
		// Watch failures on individual directories are non-fatal; the
		// periodic refresh still covers them.
		_ = w.fw.Add(path)
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Dropped events at worst; the next periodic cycle heals.

		case <-ticker.C:
			w.mu.Lock()
			fire := w.pending && time.Since(w.lastHit) >= w.debounce
			if fire {
				w.pending = false
			}
			w.mu.Unlock()
			if fire {
				w.sched.Trigger(false)
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(ev.Name)
			w.nudge()
			return
		}
	}
	// Only events on files we would index matter.
	if !w.walker.Indexable(ev.Name) {
		return
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
		w.nudge()
	}
}

func (w *Watcher) nudge() {
	w.mu.Lock()
	w.lastHit = time.Now()
	w.pending = true
	w.mu.Unlock()
}
