// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the fixo-tui application.
//
// This package contains the text normalizer used by the intent matcher,
// UTF-8 safe string helpers used by the typewriter and UI layers, and
// crash-safe file writing used by the persistence layer.
//
// # Key Functions
//
// Text Normalization:
//   - Normalize: lower-case, accent-folded, punctuation-free query text
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - SafeSubstring: rune-indexed substring extraction
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
