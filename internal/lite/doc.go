// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lite implements the local rule-based matching engine.
//
// A query is normalized, classified into one of the fixed problem
// categories by keyword scoring, then scored word-by-word against the
// catalogue's records. A qualifying record answers with its canned
// solution; anything else falls back to a category-level prompt for more
// detail. The engine is fully deterministic and never needs the network.
package lite
