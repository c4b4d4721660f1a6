// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lite

import (
	"context"
	"strings"
	"sync"

	"github.com/jeranaias/fixo-tui/internal/catalog"
	"github.com/jeranaias/fixo-tui/internal/model"
	"github.com/jeranaias/fixo-tui/internal/util"
)

// needDetail is the reply for queries too short to classify.
const needDetail = "Je n'ai pas trouvé de solution exacte pour votre problème. Pouvez-vous être plus précis ?"

// minQueryRunes is the normalized length below which a query is rejected
// as too short to say anything about.
const minQueryRunes = 3

// minRecordScore is the word-overlap a record needs before it qualifies.
// One shared word is noise; two is intent.
const minRecordScore = 2

// Engine matches queries against the problem catalogue. Safe for
// concurrent use; the catalogue can be swapped while queries run (the
// file watcher does this on reload).
type Engine struct {
	mu  sync.RWMutex
	cat *catalog.Catalog
}

// New builds an engine over the given catalogue. A nil catalogue behaves
// as empty: every query falls through to fallback text.
func New(cat *catalog.Catalog) *Engine {
	if cat == nil {
		cat = catalog.Empty()
	}
	return &Engine{cat: cat}
}

// SetCatalog replaces the catalogue. Used for hot reload.
func (e *Engine) SetCatalog(cat *catalog.Catalog) {
	if cat == nil {
		cat = catalog.Empty()
	}
	e.mu.Lock()
	e.cat = cat
	e.mu.Unlock()
}

// Reply answers a free-text query. It never fails: a query that matches
// nothing still gets a category fallback (or the general greeting). The
// context parameter exists to satisfy the engine contract; matching is
// purely local.
func (e *Engine) Reply(_ context.Context, query string) (model.Reply, error) {
	e.mu.RLock()
	cat := e.cat
	e.mu.RUnlock()

	normalized := util.Normalize(query)
	if util.RuneLen(normalized) < minQueryRunes {
		return model.Reply{Content: needDetail}, nil
	}

	category := classify(normalized)
	if rec, ok := bestRecord(cat, normalized, category); ok {
		return model.Reply{
			Content: "**" + rec.Title + "**\n\n" + rec.Solution.Summary,
			Steps:   rec.Solution.Steps,
		}, nil
	}
	return model.Reply{Content: category.Fallback()}, nil
}

// classify scores each category by how many of its keywords occur as
// substrings of the normalized query. The strictly highest score wins;
// ties keep the earliest category in declared order. All zero means the
// query fits no family and is treated as general.
func classify(normalized string) catalog.Category {
	best := catalog.CategoryGeneral
	bestScore := 0
	for _, c := range catalog.Categories() {
		score := 0
		for _, kw := range c.Keywords() {
			if strings.Contains(normalized, util.Normalize(kw)) {
				score++
			}
		}
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}

// bestRecord finds the highest-scoring record for the query. Score is the
// number of distinct words (longer than 2 runes) shared between the query
// and the record's normalized keyword phrases. Records outside the
// classified category are skipped unless the category is general, in
// which case the whole catalogue is searched. The first record in
// catalogue order holding the maximum score wins.
func bestRecord(cat *catalog.Catalog, normalized string, category catalog.Category) (catalog.Record, bool) {
	queryWords := make(map[string]struct{})
	for _, w := range strings.Fields(normalized) {
		if util.RuneLen(w) > 2 {
			queryWords[w] = struct{}{}
		}
	}

	var (
		best      catalog.Record
		bestScore int
		found     bool
	)
	for _, rec := range cat.Records() {
		if category != catalog.CategoryGeneral && rec.Category != category.String() {
			continue
		}

		recordWords := make(map[string]struct{})
		for _, phrase := range rec.Keywords {
			for _, w := range strings.Fields(util.Normalize(phrase)) {
				if util.RuneLen(w) > 2 {
					recordWords[w] = struct{}{}
				}
			}
		}

		score := 0
		for w := range queryWords {
			if _, ok := recordWords[w]; ok {
				score++
			}
		}
		if score >= minRecordScore && score > bestScore {
			best = rec
			bestScore = score
			found = true
		}
	}
	return best, found
}
