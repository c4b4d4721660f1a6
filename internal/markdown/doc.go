// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown converts the assistant's constrained Markdown dialect
// into self-contained sanitized HTML.
//
// Supported syntax: bold, italic, inline and fenced code (with basic
// syntax coloring), links, headings, lists, blockquotes, tables, and
// horizontal rules.
//
// SECURITY: The five HTML-sensitive characters are escaped on the raw
// input before any markup is generated, so neither user text nor model
// output can inject tags. The output contract is HTML safe to inject
// verbatim into a page.
//
// The pipeline extracts already-rendered segments into opaque
// placeholders before later stages run, so no stage ever re-matches
// markup produced by an earlier one.
package markdown
