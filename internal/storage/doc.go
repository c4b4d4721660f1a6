// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists preferences, credentials, and conversation
// history as namespaced key-value pairs in a single JSON file under the
// user's data directory.
//
// Every key carries the "fixo_" prefix and every value is JSON-encoded.
// Writes go through an atomic temp-file-and-rename, so the state file is
// never partially written. The file is owner-only (0600) because it can
// hold provider credentials.
//
// Single-process assumption: concurrent processes race and the last
// write wins. That matches the product's one-open-session model and is
// an accepted limitation, not a guarantee.
package storage
