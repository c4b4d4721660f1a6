// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/fixo-tui/internal/export"
	"github.com/jeranaias/fixo-tui/internal/model"
	"github.com/jeranaias/fixo-tui/internal/storage"
)

func storeWithHistory(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	user := model.NewUserMessage("mon wifi est lent")
	user.Status = model.StatusReceived
	msgs := []*model.Message{
		user,
		model.NewAssistantMessage("**Wi-Fi lent**\n\nRedémarrez le routeur.", []string{"Débranchez", "Patientez"}),
	}
	if err := store.SetHistory(storage.ProjectMessages(msgs)); err != nil {
		t.Fatalf("SetHistory failed: %v", err)
	}
	return store
}

func TestExportHistoryAllFormats(t *testing.T) {
	tests := []struct {
		format string
		ext    string
		want   string
	}{
		{"markdown", ".md", "### Utilisateur"},
		{"html", ".html", `<html lang="fr">`},
		{"json", ".json", `"titre"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			store := storeWithHistory(t)
			opts := export.DefaultOptions()
			opts.OutputDir = t.TempDir()

			path, err := exportHistory(store, tt.format, opts)
			if err != nil {
				t.Fatalf("exportHistory(%s) failed: %v", tt.format, err)
			}
			if filepath.Ext(path) != tt.ext {
				t.Errorf("extension = %q, want %q", filepath.Ext(path), tt.ext)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("exported file unreadable: %v", err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("%s export missing %q", tt.format, tt.want)
			}
		})
	}
}

func TestExportHistoryEmptyConversation(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := exportHistory(store, "markdown", nil); err == nil {
		t.Error("empty history should refuse to export")
	}
}

func TestExportHistoryUnsupportedFormat(t *testing.T) {
	store := storeWithHistory(t)
	opts := export.DefaultOptions()
	opts.OutputDir = t.TempDir()
	if _, err := exportHistory(store, "pdf", opts); err == nil {
		t.Error("unsupported format should fail")
	}
}
