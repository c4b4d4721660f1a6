// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// TERMINAL MARKDOWN RENDERER
// =============================================================================

// termRenderer turns reply Markdown into ANSI for the viewport. Glamour
// does the heavy lifting; when it cannot initialize (exotic TERM
// values), rendering falls back to chroma-highlighted code blocks over
// plain text.
type termRenderer struct {
	mu    sync.Mutex
	dark  bool
	width int
	gr    *glamour.TermRenderer
}

func newTermRenderer(dark bool, width int) *termRenderer {
	r := &termRenderer{dark: dark}
	r.SetWidth(width)
	return r
}

// SetWidth rebuilds the renderer for a new wrap width.
func (r *termRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	style := "light"
	if r.dark {
		style = "dark"
	}

	gr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.width = width
	if err != nil {
		r.gr = nil
		return
	}
	r.gr = gr
}

// Render renders complete reply text.
func (r *termRenderer) Render(text string) string {
	r.mu.Lock()
	gr := r.gr
	width := r.width
	r.mu.Unlock()

	if gr != nil {
		if out, err := gr.Render(text); err == nil {
			return out
		}
	}
	return ParseCodeBlocks(text, width)
}

// RenderInline is the mid-reveal pass: the session calls it while a
// code fence is still open, and the truncated body stays plain. A half
// fence through the full renderer would flicker between styles on
// every tick.
func (r *termRenderer) RenderInline(text string) string {
	return text
}
