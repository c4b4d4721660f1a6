// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog holds the static problem/solution catalogue consumed by
// the local matching engine.
//
// The catalogue is a JSON document with a top-level "problemes" array of
// records, each carrying a category, keyword phrases, and a canned
// solution (summary plus ordered steps). Records are immutable after load.
//
// A missing or unparseable catalogue is never fatal: Load degrades to an
// empty catalogue and every query falls through to category-level fallback
// text.
package catalog
