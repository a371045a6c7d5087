// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package refresh reconciles the index against the live filesystem.
//
// One background worker owns all index mutation. Each cycle runs the state
// machine Idle -> Scanning -> Diffing -> Applying -> Idle: walk the corpus,
// diff the path set against the recorded document metadata into added,
// modified, and removed sets, apply the changes, publish a fresh snapshot,
// and persist the index if it changed. Queries keep reading the previous
// snapshot throughout; only snapshot publication is a critical section, so
// query latency is independent of corpus size.
package refresh

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/seekr/internal/index"
	"github.com/jeranaias/seekr/internal/scan"
)

// ErrRefreshInProgress is returned when a cycle is already running; the
// trigger is coalesced rather than queued behind it.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// publishEvery bounds how stale the published snapshot can get during a
// long applying phase, so the UI sees results grow during a first index.
const publishEvery = 100

// =============================================================================
// STATES AND EVENTS
// =============================================================================

// State is the scheduler's position in the refresh cycle.
type State int32

const (
	StateIdle State = iota
	StateScanning
	StateDiffing
	StateApplying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateDiffing:
		return "diffing"
	case StateApplying:
		return "applying"
	default:
		return "unknown"
	}
}

// EventKind tags scheduler events delivered to the front end.
type EventKind int

const (
	EventCycleStarted EventKind = iota
	EventProgress
	EventWarning
	EventCycleFinished
)

// Event is a scheduler notification. Progress events carry Indexed; warning
// events carry Path and Err; finished events carry the final Stats.
type Event struct {
	Kind    EventKind
	Stats   CycleStats
	Indexed int
	Path    string
	Err     error
}

// CycleStats summarizes one refresh cycle.
type CycleStats struct {
	ID       string
	Forced   bool
	Started  time.Time
	Finished time.Time
	Added    int
	Modified int
	Removed  int
	Touched  int // mtime moved, content fingerprint unchanged
	Skipped  int // unreadable or vanished mid-cycle
}

// Changed reports whether the cycle altered the index.
func (c CycleStats) Changed() bool {
	return c.Added+c.Modified+c.Removed+c.Touched > 0
}

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler owns background reconciliation of one corpus.
type Scheduler struct {
	ix        *index.Index
	walker    *scan.Walker
	indexPath string
	interval  time.Duration // 0 disables the periodic timer

	running atomic.Bool
	state   atomic.Int32

	mu   sync.Mutex
	last CycleStats

	trigger chan bool // element: forced flag

	// onEvent, when set, receives cycle lifecycle events. Called from the
	// scheduler goroutine; handlers must not block.
	onEvent func(Event)
}

// New creates a scheduler. indexPath is where the persisted index lives.
func New(ix *index.Index, walker *scan.Walker, indexPath string, interval time.Duration) *Scheduler {
	return &Scheduler{
		ix:        ix,
		walker:    walker,
		indexPath: indexPath,
		interval:  interval,
		trigger:   make(chan bool, 1),
	}
}

// SetEventHandler installs the event callback. Set before Run.
func (s *Scheduler) SetEventHandler(fn func(Event)) { s.onEvent = fn }

// State returns the current cycle state.
func (s *Scheduler) State() State { return State(s.state.Load()) }

// Last returns the most recently completed cycle's stats.
func (s *Scheduler) Last() CycleStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Trigger requests a refresh without blocking. Requests arriving while a
// cycle runs coalesce into at most one pending cycle; a forced request is
// never downgraded by a later unforced one.
func (s *Scheduler) Trigger(forced bool) {
	select {
	case s.trigger <- forced:
	default:
		if forced {
			// Make sure the pending trigger is forced.
			select {
			case <-s.trigger:
			default:
			}
			select {
			case s.trigger <- true:
			default:
			}
		}
	}
}

// Run executes an initial cycle, then serves periodic and explicit triggers
// until the context is cancelled. Cycle errors are logged, never fatal: the
// tool keeps serving whatever subset of the corpus it has.
func (s *Scheduler) Run(ctx context.Context, initialForced bool) {
	if _, err := s.RefreshOnce(ctx, initialForced); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("refresh: initial cycle: %v", err)
	}

	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case forced := <-s.trigger:
			if _, err := s.RefreshOnce(ctx, forced); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("refresh: triggered cycle: %v", err)
			}
		case <-tick:
			if _, err := s.RefreshOnce(ctx, false); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("refresh: periodic cycle: %v", err)
			}
		}
	}
}

// RefreshOnce runs a single full cycle. Forced cycles skip the metadata
// comparison and treat every path as modified.
func (s *Scheduler) RefreshOnce(ctx context.Context, forced bool) (CycleStats, error) {
	if !s.running.CompareAndSwap(false, true) {
		return CycleStats{}, ErrRefreshInProgress
	}
	defer func() {
		s.running.Store(false)
		s.state.Store(int32(StateIdle))
	}()

	stats := CycleStats{
		ID:      uuid.NewString(),
		Forced:  forced,
		Started: time.Now(),
	}
	s.emit(Event{Kind: EventCycleStarted, Stats: stats})

	// Scanning: snapshot the live path set.
	s.state.Store(int32(StateScanning))
	files, err := s.walker.Collect(ctx)
	if err != nil {
		return stats, err
	}

	// Diffing: split into added / modified / removed.
	s.state.Store(int32(StateDiffing))
	recorded := s.ix.Meta()
	var added, modified []scan.FileInfo
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		seen[f.Path] = struct{}{}
		meta, ok := recorded[f.Path]
		switch {
		case !ok:
			added = append(added, f)
		case forced || !meta.ModTime.Equal(f.ModTime) || meta.Size != f.Size:
			modified = append(modified, f)
		}
	}
	var removed []string
	for path := range recorded {
		if _, ok := seen[path]; !ok {
			removed = append(removed, path)
		}
	}

	// Applying: mutate the index, publishing snapshots as we go.
	s.state.Store(int32(StateApplying))
	applied := 0
	apply := func(f scan.FileInfo, isAdd bool) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		content, err := os.ReadFile(f.Path)
		if err != nil {
			// Vanished or unreadable mid-cycle: warn and move on.
			stats.Skipped++
			s.emit(Event{Kind: EventWarning, Path: f.Path, Err: err})
			log.Printf("refresh: skipping %s: %v", f.Path, err)
			return nil
		}
		if !isAdd {
			if meta, ok := recorded[f.Path]; ok && meta.Fingerprint == index.Fingerprint(content) {
				// Content unchanged; record the new metadata only.
				s.ix.Touch(f.Path, f.ModTime, f.Size)
				stats.Touched++
				return nil
			}
		}
		s.ix.Add(f.Path, content, f.ModTime, f.Size)
		if isAdd {
			stats.Added++
		} else {
			stats.Modified++
		}
		applied++
		if applied%publishEvery == 0 {
			s.ix.Publish()
			s.emit(Event{Kind: EventProgress, Indexed: applied})
		}
		return nil
	}

	for _, f := range added {
		if err := apply(f, true); err != nil {
			s.ix.Publish()
			return stats, err
		}
	}
	for _, f := range modified {
		if err := apply(f, false); err != nil {
			s.ix.Publish()
			return stats, err
		}
	}
	for _, path := range removed {
		s.ix.Remove(path)
		stats.Removed++
	}

	s.ix.Publish()

	if s.indexPath != "" && s.ix.Dirty() {
		if err := s.ix.Save(s.indexPath, s.walker.Root()); err != nil {
			// Not writable is a visible warning, not a failure: the
			// in-memory index keeps serving.
			s.emit(Event{Kind: EventWarning, Path: s.indexPath, Err: err})
			log.Printf("refresh: saving index: %v", err)
		}
	}

	stats.Finished = time.Now()
	s.mu.Lock()
	s.last = stats
	s.mu.Unlock()
	s.emit(Event{Kind: EventCycleFinished, Stats: stats})
	return stats, nil
}

func (s *Scheduler) emit(ev Event) {
	if s.onEvent != nil {
		s.onEvent(ev)
	}
}
