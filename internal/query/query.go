// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package query debounces keystrokes into ranked searches.
//
// Each Submit restarts a short timer; only the text that survives the quiet
// period is evaluated, so a fast typist costs one search, not one per
// keystroke. Every evaluation carries a monotonic sequence number and any
// result overtaken by a newer submission is dropped before delivery, which
// keeps the result stream ordered even when an older, slower evaluation
// finishes after a newer one.
package query

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jeranaias/seekr/internal/index"
	"github.com/jeranaias/seekr/internal/search"
)

// Results is one evaluated query with its ranked matches.
type Results struct {
	Seq     uint64
	Query   string
	Version uint64 // index snapshot version the ranking saw
	Matches []search.Result
	Elapsed time.Duration
}

// Engine turns raw input text into debounced, ordered search results.
type Engine struct {
	ix       *index.Index
	opts     search.Options
	debounce time.Duration

	seq       atomic.Uint64 // last issued sequence number
	delivered atomic.Uint64 // highest sequence pushed to the channel

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	closed  bool

	results chan Results
}

// NewEngine creates an engine reading snapshots from ix. A zero debounce
// evaluates every submission immediately.
func NewEngine(ix *index.Index, opts search.Options, debounce time.Duration) *Engine {
	return &Engine{
		ix:       ix,
		opts:     opts,
		debounce: debounce,
		results:  make(chan Results, 1),
	}
}

// Results returns the delivery channel. It always holds at most the latest
// result set; slow consumers see intermediate sets overwritten, never a
// backlog.
func (e *Engine) Results() <-chan Results { return e.results }

// Submit records new input text and (re)starts the debounce window. Earlier
// submissions that have not fired yet are superseded.
func (e *Engine) Submit(text string) {
	seq := e.seq.Add(1)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.pending = text
	if e.timer != nil {
		e.timer.Stop()
	}
	if e.debounce <= 0 {
		go e.evaluate(seq, text)
		return
	}
	e.timer = time.AfterFunc(e.debounce, func() {
		e.evaluate(seq, text)
	})
}

// Flush evaluates the pending text immediately, bypassing the debounce
// window. Used when the user presses enter mid-window.
func (e *Engine) Flush() {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
	}
	text := e.pending
	e.mu.Unlock()

	e.evaluate(e.seq.Add(1), text)
}

// Rerun re-evaluates the current text against the latest snapshot, e.g.
// after a refresh cycle published new documents.
func (e *Engine) Rerun() {
	e.mu.Lock()
	text := e.pending
	e.mu.Unlock()

	e.evaluate(e.seq.Add(1), text)
}

func (e *Engine) evaluate(seq uint64, text string) {
	// Superseded before we even started.
	if seq < e.seq.Load() {
		return
	}

	snap := e.ix.Snapshot()
	start := time.Now()
	matches := search.Rank(text, snap, e.opts)
	res := Results{
		Seq:     seq,
		Query:   text,
		Version: snap.Version(),
		Matches: matches,
		Elapsed: time.Since(start),
	}
	e.deliver(res)
}

// deliver pushes res unless something newer already went out. The channel
// has capacity one; a stale unconsumed element is drained first so the
// consumer always reads the freshest set.
func (e *Engine) deliver(res Results) {
	for {
		cur := e.delivered.Load()
		if res.Seq <= cur {
			return
		}
		if e.delivered.CompareAndSwap(cur, res.Seq) {
			break
		}
	}
	// The lock keeps late evaluations from racing a concurrent Close onto
	// the channel; every send here is non-blocking.
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.results <- res:
	default:
		select {
		case old := <-e.results:
			// Keep the newer of the two.
			if old.Seq > res.Seq {
				res = old
			}
		default:
		}
		select {
		case e.results <- res:
		default:
		}
	}
}

// Close stops the pending timer and closes the result channel so a consumer
// blocked on it unblocks. The engine may not be used afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if !e.closed {
		e.closed = true
		close(e.results)
	}
}

// =============================================================================
// EXCERPTS
// =============================================================================

// Excerpts attaches a matching-line excerpt to each of the first n results.
// Reading every matched file would stall the input loop, so only the
// visible prefix of the list is annotated.
func Excerpts(results []search.Result, query string, n int) map[string]search.Excerpt {
	if n > len(results) {
		n = len(results)
	}
	out := make(map[string]search.Excerpt, n)
	for _, r := range results[:n] {
		content, err := readCapped(r.Path)
		if err != nil {
			continue
		}
		if ex := search.FindExcerpt(content, query); ex.Line > 0 {
			out[r.Path] = ex
		}
	}
	return out
}
