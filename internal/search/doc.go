// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package search scores and ranks documents against a query.
//
// Two scoring domains are merged into one ordered result list:
//
//   - Filename similarity: an ordered-subsequence fuzzy match against the
//     path's base name, normalized to [0,1].
//   - Content relevance: smoothed TF-IDF over the index snapshot, with
//     multi-term coverage and contiguous-phrase boosts, normalized against
//     the best-scoring candidate.
//
// The combined score is a configurable weighted sum, but any document whose
// filename matched at all ranks above every content-only match; the weights
// tune ordering within those two tiers, not across them.
package search
