// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strings"
	"testing"
)

func TestColorizeKeywords(t *testing.T) {
	got := Colorize("const x = y;", "javascript")
	if !strings.Contains(got, `<span class="keyword">const</span>`) {
		t.Errorf("keyword not wrapped: %q", got)
	}
}

func TestColorizeWholeWordOnly(t *testing.T) {
	// "iffy" contains "if" but is not the keyword.
	got := Colorize("iffy", "javascript")
	if strings.Contains(got, "keyword") {
		t.Errorf("partial word wrapped as keyword: %q", got)
	}
}

func TestColorizeNumbers(t *testing.T) {
	got := Colorize("x = 42 + 3.14", "javascript")
	if !strings.Contains(got, `<span class="number">42</span>`) {
		t.Errorf("integer not wrapped: %q", got)
	}
	if !strings.Contains(got, `<span class="number">3.14</span>`) {
		t.Errorf("decimal not wrapped: %q", got)
	}
}

func TestColorizeLineComment(t *testing.T) {
	got := Colorize("let x = 1; // valeur initiale", "javascript")
	if !strings.Contains(got, `<span class="comment">// valeur initiale</span>`) {
		t.Errorf("line comment not wrapped: %q", got)
	}
}

func TestColorizeBlockComment(t *testing.T) {
	got := Colorize("/* bloc\nsur deux lignes */ x", "javascript")
	if !strings.Contains(got, "<span class=\"comment\">/* bloc\nsur deux lignes */</span>") {
		t.Errorf("block comment not wrapped: %q", got)
	}
}

func TestColorizePythonHashComment(t *testing.T) {
	got := Colorize("x = 1  # commentaire", "python")
	if !strings.Contains(got, `<span class="comment"># commentaire</span>`) {
		t.Errorf("python comment not wrapped: %q", got)
	}

	// Hash comments are python-only.
	js := Colorize("x = 1  # pas un commentaire", "javascript")
	if strings.Contains(js, `<span class="comment">#`) {
		t.Errorf("hash comment wrapped outside python: %q", js)
	}
}

func TestColorizeStrings(t *testing.T) {
	// The colorizer receives escaped text, as the fenced-code path
	// produces it.
	escaped := EscapeHTML(`nom = "Kodjo" + 'A' + ` + "`tpl`")
	got := Colorize(escaped, "javascript")
	if !strings.Contains(got, `<span class="string">&quot;Kodjo&quot;</span>`) {
		t.Errorf("double-quoted string not wrapped: %q", got)
	}
	if !strings.Contains(got, `<span class="string">&#039;A&#039;</span>`) {
		t.Errorf("single-quoted string not wrapped: %q", got)
	}
	if !strings.Contains(got, "<span class=\"string\">`tpl`</span>") {
		t.Errorf("backtick string not wrapped: %q", got)
	}
}

func TestColorizeKeywordInsideStringNotWrapped(t *testing.T) {
	escaped := EscapeHTML(`msg = "return home"`)
	got := Colorize(escaped, "javascript")
	if strings.Contains(got, `<span class="keyword">return</span>`) {
		t.Errorf("keyword wrapped inside string literal: %q", got)
	}
}

func TestColorizeNumberInsideCommentNotWrapped(t *testing.T) {
	got := Colorize("// attendre 30 secondes", "javascript")
	if strings.Contains(got, `<span class="number">`) {
		t.Errorf("number wrapped inside comment: %q", got)
	}
}

func TestColorizeFunctionNames(t *testing.T) {
	got := Colorize("resultat = calculer(5)", "javascript")
	if !strings.Contains(got, `<span class="function">calculer</span>(`) {
		t.Errorf("function name not wrapped: %q", got)
	}
}

func TestColorizeNoDoubleWrap(t *testing.T) {
	// A keyword followed by a parenthesis must be wrapped exactly once,
	// by the earlier (keyword) stage.
	got := Colorize("if (x) { return; }", "javascript")
	if strings.Contains(got, `<span class="function">if</span>`) {
		t.Errorf("keyword re-wrapped as function: %q", got)
	}
	if strings.Count(got, `<span class="keyword">if</span>`) != 1 {
		t.Errorf("keyword if wrapped %d times: %q", strings.Count(got, `<span class="keyword">if</span>`), got)
	}
	// The span markup itself must never be re-matched.
	if strings.Contains(got, "<span class=\"function\">span</span>") {
		t.Errorf("own markup re-matched: %q", got)
	}
}

func TestColorizeUnknownLanguageFallsBack(t *testing.T) {
	got := Colorize("const x = 1", "brainfuck")
	if !strings.Contains(got, `<span class="keyword">const</span>`) {
		t.Errorf("unknown language should use the javascript set: %q", got)
	}
}

func TestColorizeLanguageCaseInsensitive(t *testing.T) {
	got := Colorize("def f():", "Python")
	if !strings.Contains(got, `<span class="keyword">def</span>`) {
		t.Errorf("language tag should match case-insensitively: %q", got)
	}
}

func TestColorizeCSSAndJavaSets(t *testing.T) {
	if got := Colorize("color: red;", "css"); !strings.Contains(got, `<span class="keyword">color</span>`) {
		t.Errorf("css keyword not wrapped: %q", got)
	}
	if got := Colorize("public static void main", "java"); !strings.Contains(got, `<span class="keyword">public</span>`) {
		t.Errorf("java keyword not wrapped: %q", got)
	}
}
