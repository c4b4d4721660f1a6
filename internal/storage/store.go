// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jeranaias/fixo-tui/internal/util"
)

// Prefix namespaces every key so the state file can never collide with
// another tool's data if the directory is shared.
const Prefix = "fixo_"

// Well-known keys (stored under Prefix).
const (
	KeyTheme    = "theme"
	KeyMode     = "mode"
	KeyProvider = "api"
	KeyHistory  = "historique"
)

// Defaults applied when a key is absent.
const (
	DefaultTheme    = "dark"
	DefaultMode     = "lite"
	DefaultProvider = "groq"
)

// StoreError describes a persistence failure.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store is the namespaced key-value store backed by one JSON file.
// Safe for concurrent use within the process.
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

// DefaultPath returns the standard state file location, ~/.fixo/state.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".fixo", "state.json"), nil
}

// Open loads the store from path. A missing file yields an empty store;
// a corrupt file is an error so the caller can decide whether to discard
// user data.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]json.RawMessage)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "read", Path: path, Err: err}
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, &StoreError{Op: "parse", Path: path, Err: err}
	}
	return s, nil
}

// Set stores a JSON-encoded value under the namespaced key and persists
// the whole file atomically.
func (s *Store) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &StoreError{Op: "encode", Path: s.path, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[Prefix+key] = data
	return s.persistLocked()
}

// Get decodes the value under the namespaced key into v. It reports
// whether the key was present; an absent key leaves v untouched.
func (s *Store) Get(key string, v any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.values[Prefix+key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, &StoreError{Op: "decode", Path: s.path, Err: err}
	}
	return true, nil
}

// Delete removes the namespaced key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[Prefix+key]; !ok {
		return nil
	}
	delete(s.values, Prefix+key)
	return s.persistLocked()
}

// Clear drops every namespaced key.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.values {
		if strings.HasPrefix(k, Prefix) {
			delete(s.values, k)
		}
	}
	return s.persistLocked()
}

// persistLocked writes the state file atomically. Caller holds mu.
// SECURITY: 0600 file in a 0700 directory; the file can hold API keys.
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return &StoreError{Op: "encode", Path: s.path, Err: err}
	}
	if err := util.AtomicWriteFilePrivate(s.path, data, 0600); err != nil {
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// =============================================================================
// TYPED ACCESSORS
// =============================================================================

func (s *Store) stringOr(key, def string) string {
	if v, ok := s.GetString(key); ok {
		return v
	}
	return def
}

// GetString reads a string value, reporting whether it was present and
// non-empty. Callers that need to distinguish "unset" from a stored
// default use this instead of the defaulting accessors.
func (s *Store) GetString(key string) (string, bool) {
	var v string
	if ok, err := s.Get(key, &v); !ok || err != nil || v == "" {
		return "", false
	}
	return v, true
}

// Theme returns the persisted theme, defaulting to dark.
func (s *Store) Theme() string { return s.stringOr(KeyTheme, DefaultTheme) }

// SetTheme persists the theme (light, dark, or auto).
func (s *Store) SetTheme(theme string) error { return s.Set(KeyTheme, theme) }

// Mode returns the persisted assistance mode, defaulting to lite.
func (s *Store) Mode() string { return s.stringOr(KeyMode, DefaultMode) }

// SetMode persists the assistance mode (lite, core, or pro).
func (s *Store) SetMode(mode string) error { return s.Set(KeyMode, mode) }

// Provider returns the persisted completion provider, defaulting to groq.
func (s *Store) Provider() string { return s.stringOr(KeyProvider, DefaultProvider) }

// SetProvider persists the completion provider name.
func (s *Store) SetProvider(name string) error { return s.Set(KeyProvider, name) }

// APIKey returns the stored credential for a provider, empty if unset.
func (s *Store) APIKey(provider string) string {
	return s.stringOr("api_key_"+provider, "")
}

// SetAPIKey stores the credential for a provider.
func (s *Store) SetAPIKey(provider, key string) error {
	return s.Set("api_key_"+provider, key)
}
