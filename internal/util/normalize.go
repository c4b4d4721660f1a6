// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the fixo-tui application.
package util

import "strings"

// UNICODE: The catalogue and its queries are French; matching works on a
// folded ASCII form so "réseau" and "reseau" score identically.

// accentFold maps the accented characters that appear in French support
// queries to their unaccented ASCII equivalents. Characters outside this
// table pass through untouched.
var accentFold = map[rune]rune{
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'à': 'a', 'â': 'a', 'ä': 'a',
	'ù': 'u', 'û': 'u', 'ü': 'u',
	'î': 'i', 'ï': 'i',
	'ô': 'o', 'ö': 'o',
	'ç': 'c',
}

// Normalize canonicalizes free text for keyword matching:
// lower-case, accents folded to ASCII, every non-word non-space rune
// replaced by a space, whitespace runs collapsed, result trimmed.
//
// Normalize is pure and total: it never fails, and it is idempotent
// (Normalize(Normalize(s)) == Normalize(s)).
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if folded, ok := accentFold[r]; ok {
			r = folded
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizedWords returns the words of Normalize(s) longer than minLen
// runes, in order of first appearance, without duplicates. The matcher
// uses this as its query word set.
func NormalizedWords(s string, minLen int) []string {
	seen := make(map[string]struct{})
	var words []string
	for _, w := range strings.Fields(Normalize(s)) {
		if RuneLen(w) <= minLen {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}
