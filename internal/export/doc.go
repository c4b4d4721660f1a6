// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a conversation to a shareable file.
//
// Three formats are supported:
//
//   - Markdown: reply text as-is with a metadata frontmatter
//   - HTML: a standalone page rendered through the same pipeline the
//     TUI uses, with embedded CSS and a theme toggle
//   - JSON: the persisted projection, re-importable
package export
