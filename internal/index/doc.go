// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index maintains the in-memory inverted index over file contents.
//
// # Key Types
//
//   - Index: mutable corpus state, owned by the refresh scheduler
//   - Document: one indexed file with its term-frequency map
//   - Snapshot: immutable published view used by the query path
//   - Record: the versioned on-disk form of the whole corpus
//
// # Concurrency
//
// The Index is written by exactly one background worker. Readers never touch
// the mutable maps: after a batch of mutations the worker calls Publish,
// which builds a fresh Snapshot and swaps it in with an atomic pointer store.
// A query always sees whichever snapshot was current when it started and can
// never observe a half-applied update.
//
// # Persistence
//
// Save serializes the corpus to a single versioned JSON file via an atomic
// temp-file-and-rename write. Load treats a missing, unreadable, corrupt, or
// version-mismatched file as absent; the caller then performs a full rebuild.
package index
