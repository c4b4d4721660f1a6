// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// maxCatalogBytes bounds how much of a catalogue document we will read.
// SECURITY: Prevents memory exhaustion from a misconfigured source.
const maxCatalogBytes = 4 * 1024 * 1024

// document mirrors the on-disk catalogue shape: the records live under a
// top-level "problemes" key.
type document struct {
	Problemes []Record `json:"problemes"`
}

// Load reads a catalogue from a local file path or an http(s) URL.
// It returns an error for a missing source or malformed JSON; callers
// that want the degrade-to-empty behavior use LoadOrEmpty.
func Load(source string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue %s: %w", source, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue %s: %w", source, err)
	}
	return New(doc.Problemes), nil
}

// LoadOrEmpty loads the catalogue and degrades to an empty one on any
// failure. The failure is logged, never surfaced: a broken catalogue must
// not take the assistant down, queries simply fall back to category text.
func LoadOrEmpty(logger *log.Logger, source string) *Catalog {
	if source == "" {
		return Empty()
	}
	cat, err := Load(source)
	if err != nil {
		if logger != nil {
			logger.Printf("catalogue unavailable, matching will use fallbacks only: %v", err)
		}
		return Empty()
	}
	if logger != nil {
		logger.Printf("catalogue loaded: %d records from %s", cat.Len(), source)
	}
	return cat
}

func fetch(url string) ([]byte, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
}
