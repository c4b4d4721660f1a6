// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"regexp"
	"strings"
)

// =============================================================================
// HTML ESCAPING
// =============================================================================

// htmlEscaper rewrites the five HTML-sensitive characters in one pass.
// It runs before any markup generation; every later stage operates on
// escaped text.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes text for safe inclusion in HTML output.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// =============================================================================
// PLACEHOLDER STASH
// =============================================================================

// stash parks rendered HTML fragments behind opaque tokens while the
// remaining stages run, then splices them back in. Tokens are NUL-framed
// with a letter-encoded index wrapped in 'z', so no stage pattern (word
// boundaries, digits, emphasis markers) can match inside one.
type stash struct {
	fragments []string
}

func (s *stash) put(html string) string {
	s.fragments = append(s.fragments, html)
	return token(len(s.fragments) - 1)
}

func (s *stash) restore(text string) string {
	for i, frag := range s.fragments {
		text = strings.Replace(text, token(i), frag, 1)
	}
	return text
}

func token(i int) string {
	var b strings.Builder
	b.WriteByte(0)
	b.WriteByte('z')
	for _, d := range []byte(itoa(i)) {
		b.WriteByte('a' + (d - '0'))
	}
	b.WriteByte('z')
	b.WriteByte(0)
	return b.String()
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// =============================================================================
// PIPELINE PATTERNS
// =============================================================================

var (
	reFence      = regexp.MustCompile("(?s)```(\\w*)\\n(.*?)```")
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reBoldStar   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldUnder  = regexp.MustCompile(`__(.+?)__`)
	reItalStar   = regexp.MustCompile(`\*([^*]+)\*`)
	reItalUnder  = regexp.MustCompile(`_([^_]+)_`)
	reLink       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	reH4         = regexp.MustCompile(`(?m)^### (.+)$`)
	reH3         = regexp.MustCompile(`(?m)^## (.+)$`)
	reH2         = regexp.MustCompile(`(?m)^# (.+)$`)
	reULItem     = regexp.MustCompile(`(?m)^[-*] (.+)$`)
	reULRun      = regexp.MustCompile(`(?:<li class="md-list-item">.*</li>\n?)+`)
	reOLItem     = regexp.MustCompile(`(?m)^\d+\. (.+)$`)
	reOLRun      = regexp.MustCompile(`(?:<li class="md-list-item-num">.*</li>\n?)+`)
	// The input is escaped before this stage, so a quote prefix arrives
	// as "&gt; ".
	reQuote = regexp.MustCompile(`(?m)^&gt; (.+)$`)
	reTable = regexp.MustCompile(`(\|[^\n]+\|\n)(\|[-:\s|]+\|\n)((?:\|[^\n]+\|\n?)+)`)
	reHR    = regexp.MustCompile(`(?m)^---$`)
)

// =============================================================================
// FULL RENDERER
// =============================================================================

// Render converts Markdown text to sanitized HTML. It is deterministic
// and total: malformed syntax stays as literal (escaped) text, plain text
// passes through unchanged, and empty input yields empty output.
func Render(text string) string {
	if text == "" {
		return ""
	}

	html := EscapeHTML(text)
	st := &stash{}

	// Fenced code blocks come out first so nothing below touches code.
	html = reFence.ReplaceAllStringFunc(html, func(m string) string {
		sub := reFence.FindStringSubmatch(m)
		lang := sub[1]
		if lang == "" {
			lang = "text"
		}
		body := Colorize(strings.TrimSpace(sub[2]), lang)
		return st.put(`<div class="code-block-wrapper">` +
			`<div class="code-block-header">` +
			`<span class="code-block-lang">` + lang + `</span>` +
			`<button class="code-block-copy">Copier</button>` +
			`</div>` +
			`<pre class="code-block has-header" data-language="` + lang + `"><code>` + body + `</code></pre>` +
			`</div>`)
	})

	html = reInlineCode.ReplaceAllStringFunc(html, func(m string) string {
		sub := reInlineCode.FindStringSubmatch(m)
		return st.put(`<code class="code-inline">` + sub[1] + `</code>`)
	})

	// Bold before italic: a lone * inside a ** span must not become <em>.
	html = reBoldStar.ReplaceAllString(html, "<strong>$1</strong>")
	html = reBoldUnder.ReplaceAllString(html, "<strong>$1</strong>")
	html = reItalStar.ReplaceAllString(html, "<em>$1</em>")
	html = reItalUnder.ReplaceAllString(html, "<em>$1</em>")

	html = reLink.ReplaceAllString(html, `<a href="$2" target="_blank" rel="noopener noreferrer">$1</a>`)

	// Deepest heading first so "## x" is not consumed by the "# " rule.
	html = reH4.ReplaceAllString(html, `<h4 class="md-heading">$1</h4>`)
	html = reH3.ReplaceAllString(html, `<h3 class="md-heading">$1</h3>`)
	html = reH2.ReplaceAllString(html, `<h2 class="md-heading">$1</h2>`)

	html = reULItem.ReplaceAllString(html, `<li class="md-list-item">$1</li>`)
	html = reULRun.ReplaceAllStringFunc(html, func(run string) string {
		return `<ul class="md-list">` + run + `</ul>`
	})
	html = reOLItem.ReplaceAllString(html, `<li class="md-list-item-num">$1</li>`)
	html = reOLRun.ReplaceAllStringFunc(html, func(run string) string {
		return `<ol class="md-list-ordered">` + run + `</ol>`
	})

	// One blockquote element per source line, no merging.
	html = reQuote.ReplaceAllString(html, `<blockquote class="md-quote">$1</blockquote>`)

	html = renderTables(html)
	html = reHR.ReplaceAllString(html, `<hr class="md-hr">`)
	html = strings.ReplaceAll(html, "\n", "<br>")
	html = cleanup(html, st)

	return st.restore(html)
}

// renderTables converts Markdown tables (header row, separator row of
// dashes/colons, one or more body rows) into HTML tables. Cell counts are
// taken from however many non-empty pipe-delimited cells each line has;
// there is no column validation or padding.
func renderTables(text string) string {
	return reTable.ReplaceAllStringFunc(text, func(m string) string {
		sub := reTable.FindStringSubmatch(m)
		headerLine, bodyLines := sub[1], sub[3]

		var b strings.Builder
		b.WriteString(`<div class="md-table-wrapper"><table class="md-table">`)

		b.WriteString("<thead><tr>")
		for _, cell := range splitCells(headerLine) {
			b.WriteString("<th>" + cell + "</th>")
		}
		b.WriteString("</tr></thead>")

		b.WriteString("<tbody>")
		for _, line := range strings.Split(strings.TrimSpace(bodyLines), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			b.WriteString("<tr>")
			for _, cell := range splitCells(line) {
				b.WriteString("<td>" + cell + "</td>")
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</tbody></table></div>")
		return b.String()
	})
}

func splitCells(line string) []string {
	var cells []string
	for _, cell := range strings.Split(strings.TrimSpace(line), "|") {
		cell = strings.TrimSpace(cell)
		if cell != "" {
			cells = append(cells, cell)
		}
	}
	return cells
}

// cleanup drops the line-break marker directly following a block-level
// element, so blocks are not trailed by a stray blank line.
func cleanup(html string, st *stash) string {
	for i := range st.fragments {
		// Stashed fragments that are block-level (code blocks) absorb the
		// break that followed their closing fence.
		if strings.HasPrefix(st.fragments[i], `<div class="code-block-wrapper">`) {
			html = strings.ReplaceAll(html, token(i)+"<br>", token(i))
		}
	}
	html = strings.ReplaceAll(html, "</ul><br>", "</ul>")
	html = strings.ReplaceAll(html, "</ol><br>", "</ol>")
	html = strings.ReplaceAll(html, "</blockquote><br>", "</blockquote>")
	html = strings.ReplaceAll(html, "</h2><br>", "</h2>")
	html = strings.ReplaceAll(html, "</h3><br>", "</h3>")
	html = strings.ReplaceAll(html, "</h4><br>", "</h4>")
	html = strings.ReplaceAll(html, "</table></div><br>", "</table></div>")
	// Two stacked tables: the pass above eats one break, this one the
	// leftover between the wrappers.
	html = strings.ReplaceAll(html, `</div><br><div class="md-table`, `</div><div class="md-table`)
	return html
}

// =============================================================================
// PARTIAL RENDERER
// =============================================================================

// RenderInline is the lightweight pass used while the typewriter is
// inside an unterminated code fence: escaping, bold, italic, and line
// breaks only, so an unclosed block is never flashed at the user.
func RenderInline(text string) string {
	if text == "" {
		return ""
	}
	html := EscapeHTML(text)
	html = reBoldStar.ReplaceAllString(html, "<strong>$1</strong>")
	html = reBoldUnder.ReplaceAllString(html, "<strong>$1</strong>")
	html = reItalStar.ReplaceAllString(html, "<em>$1</em>")
	html = reItalUnder.ReplaceAllString(html, "<em>$1</em>")
	return strings.ReplaceAll(html, "\n", "<br>")
}

// HasOpenFence reports whether text ends inside an unterminated fenced
// code block (odd number of ``` markers).
func HasOpenFence(text string) bool {
	return strings.Count(text, "```")%2 == 1
}

// Renderer bundles the two passes behind the orchestrator's rendering
// contract.
type Renderer struct{}

func (Renderer) Render(text string) string       { return Render(text) }
func (Renderer) RenderInline(text string) string { return RenderInline(text) }
