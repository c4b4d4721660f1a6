// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"regexp"
	"strings"
)

// =============================================================================
// SYNTAX COLORING
// =============================================================================

// keywordSets maps a (lower-cased) language tag to its keyword list.
// Unknown languages fall back to the javascript set.
var keywordSets = map[string][]string{
	"javascript": {
		"const", "let", "var", "function", "return", "if", "else", "for", "while",
		"do", "switch", "case", "break", "continue", "try", "catch", "finally",
		"throw", "new", "class", "extends", "import", "export", "from", "default",
		"async", "await", "this", "true", "false", "null", "undefined", "typeof",
		"instanceof",
	},
	"python": {
		"def", "class", "return", "if", "elif", "else", "for", "while", "try",
		"except", "finally", "raise", "import", "from", "as", "with", "lambda",
		"True", "False", "None", "and", "or", "not", "in", "is", "pass", "break",
		"continue", "global", "nonlocal", "assert", "yield", "async", "await",
	},
	"html": {
		"html", "head", "body", "div", "span", "p", "a", "img", "ul", "ol", "li",
		"table", "tr", "td", "th", "form", "input", "button", "script", "style",
		"link", "meta", "title", "h1", "h2", "h3", "h4", "h5", "h6", "header",
		"footer", "nav", "section", "article", "aside", "main",
	},
	"css": {
		"color", "background", "margin", "padding", "border", "font", "display",
		"position", "width", "height", "top", "left", "right", "bottom", "flex",
		"grid", "transform", "transition", "animation",
	},
	"php": {
		"function", "return", "if", "else", "elseif", "for", "foreach", "while",
		"do", "switch", "case", "break", "continue", "try", "catch", "finally",
		"throw", "new", "class", "extends", "implements", "public", "private",
		"protected", "static", "const", "echo", "print", "require", "include",
		"use", "namespace", "true", "false", "null",
	},
	"java": {
		"public", "private", "protected", "class", "interface", "extends",
		"implements", "static", "final", "void", "int", "String", "boolean",
		"double", "float", "long", "char", "byte", "short", "return", "if",
		"else", "for", "while", "do", "switch", "case", "break", "continue",
		"try", "catch", "finally", "throw", "throws", "new", "this", "super",
		"true", "false", "null", "import", "package",
	},
}

// keywordPatterns holds one whole-word alternation per language, compiled
// once at startup.
var keywordPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(keywordSets))
	for lang, words := range keywordSets {
		quoted := make([]string, len(words))
		for i, w := range words {
			quoted[i] = regexp.QuoteMeta(w)
		}
		patterns[lang] = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return patterns
}()

var (
	reLineComment  = regexp.MustCompile(`(?m)//[^\n]*`)
	reBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reHashComment  = regexp.MustCompile(`(?m)#[^\n]*`)
	// String literals arrive HTML-escaped, so the delimiters to match are
	// the escaped entities, not raw quotes. Backticks are untouched by
	// escaping.
	reDoubleString = regexp.MustCompile(`&quot;(?:\\.|[^\\])*?&quot;`)
	reSingleString = regexp.MustCompile(`&#039;(?:\\.|[^\\])*?&#039;`)
	reBacktickStr  = regexp.MustCompile("`(?:\\\\.|[^`\\\\])*`")
	reNumber       = regexp.MustCompile(`\b\d+\.?\d*\b`)
	reFuncName     = regexp.MustCompile(`\b([a-zA-Z_][a-zA-Z0-9_]*)(\s*\()`)
)

// Colorize wraps the tokens of an already-HTML-escaped code fragment in
// coloring spans. Stage order matters: comments, then strings, then
// numbers, then keywords, then function names. Each stage's output is
// stashed behind opaque tokens so later stages never re-match markup
// produced earlier.
func Colorize(code, lang string) string {
	langLower := strings.ToLower(lang)
	keywords, ok := keywordPatterns[langLower]
	if !ok {
		keywords = keywordPatterns["javascript"]
	}

	st := &stash{}
	wrap := func(class string) func(string) string {
		return func(m string) string {
			return st.put(`<span class="` + class + `">` + m + `</span>`)
		}
	}

	out := reLineComment.ReplaceAllStringFunc(code, wrap("comment"))
	out = reBlockComment.ReplaceAllStringFunc(out, wrap("comment"))
	if langLower == "python" {
		out = reHashComment.ReplaceAllStringFunc(out, wrap("comment"))
	}

	out = reDoubleString.ReplaceAllStringFunc(out, wrap("string"))
	out = reSingleString.ReplaceAllStringFunc(out, wrap("string"))
	out = reBacktickStr.ReplaceAllStringFunc(out, wrap("string"))

	out = reNumber.ReplaceAllStringFunc(out, wrap("number"))
	out = keywords.ReplaceAllStringFunc(out, wrap("keyword"))

	out = reFuncName.ReplaceAllStringFunc(out, func(m string) string {
		sub := reFuncName.FindStringSubmatch(m)
		return st.put(`<span class="function">`+sub[1]+`</span>`) + sub[2]
	})

	return st.restore(out)
}
