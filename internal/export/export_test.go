// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/fixo-tui/internal/model"
)

func sampleConversation() *Conversation {
	user := model.NewUserMessage("mon wifi est lent")
	user.Timestamp = time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	assistant := model.NewAssistantMessage(
		"**Connexion Wi-Fi lente**\n\nRedémarrez la box.\n\n```bash\nping -c 4 8.8.8.8\n```",
		[]string{"Redémarrez la box", "Rapprochez-vous du routeur"},
	)
	return NewConversation("lite", []*model.Message{user, assistant})
}

func TestNewConversationTitle(t *testing.T) {
	conv := sampleConversation()
	if conv.Title != "mon wifi est lent" {
		t.Errorf("title = %q", conv.Title)
	}
	if !conv.CreatedAt.Equal(time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v", conv.CreatedAt)
	}
}

func TestNewConversationEmptyFallback(t *testing.T) {
	conv := NewConversation("core", nil)
	if conv.Title != "Conversation FIXƆ" {
		t.Errorf("title = %q", conv.Title)
	}
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleConversation())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	md := string(out)

	for _, want := range []string{
		"title: mon wifi est lent",
		"generator: fixo-tui",
		"### Utilisateur",
		"### FIXƆ",
		"**Connexion Wi-Fi lente**",
		"```bash",
		"1. Redémarrez la box",
		"2. Rapprochez-vous du routeur",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown export missing %q", want)
		}
	}
}

func TestMarkdownExportWithoutMetadata(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false

	out, err := NewMarkdownExporter(opts).Export(sampleConversation())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	md := string(out)
	if strings.Contains(md, "---\ntitle:") {
		t.Error("frontmatter present despite IncludeMetadata=false")
	}
	if strings.Contains(md, "<sub>") {
		t.Error("timestamps present despite IncludeTimestamps=false")
	}
}

func TestMarkdownExportRejectsEmpty(t *testing.T) {
	if _, err := NewMarkdownExporter(nil).Export(&Conversation{Title: "x"}); err == nil {
		t.Error("empty conversation should fail")
	}
	if _, err := NewMarkdownExporter(nil).Export(nil); err == nil {
		t.Error("nil conversation should fail")
	}
}

func TestHTMLExport(t *testing.T) {
	out, err := NewHTMLExporter(nil).Export(sampleConversation())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	page := string(out)

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="fr">`,
		`class="dark-theme"`,
		"user-message",
		"assistant-message",
		// Through the Markdown pipeline: bold becomes <strong>, the
		// fence becomes a labeled code block.
		"<strong>Connexion Wi-Fi lente</strong>",
		`data-language="bash"`,
		"solution-steps",
		"toggleTheme",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("html export missing %q", want)
		}
	}
}

func TestHTMLExportEscapesContent(t *testing.T) {
	user := model.NewUserMessage("<script>alert(1)</script>")
	assistant := model.NewAssistantMessage("réponse", nil)
	conv := NewConversation("lite", []*model.Message{user, assistant})

	out, err := NewHTMLExporter(nil).Export(conv)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if strings.Contains(string(out), "<script>alert(1)</script>") {
		t.Error("raw script tag survived export")
	}
}

func TestHTMLExportLightTheme(t *testing.T) {
	opts := DefaultOptions()
	opts.Theme = "light"
	out, _ := NewHTMLExporter(opts).Export(sampleConversation())
	if !strings.Contains(string(out), `class="light-theme"`) {
		t.Error("light theme not applied")
	}
}

func TestJSONExportRoundTrip(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(sampleConversation())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc struct {
		Title    string `json:"titre"`
		Mode     string `json:"mode"`
		Messages []struct {
			Text string   `json:"texte"`
			Role string   `json:"role"`
			Et   []string `json:"etapes"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if doc.Title != "mon wifi est lent" || doc.Mode != "lite" {
		t.Errorf("doc = %+v", doc)
	}
	if len(doc.Messages) != 2 || doc.Messages[0].Role != "utilisateur" {
		t.Errorf("messages = %+v", doc.Messages)
	}
	if len(doc.Messages[1].Et) != 2 {
		t.Errorf("steps not exported: %+v", doc.Messages[1])
	}
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.OpenAfterExport = false

	path, err := ToFile(sampleConversation(), NewMarkdownExporter(opts), opts)
	if err != nil {
		t.Fatalf("ToFile failed: %v", err)
	}
	if filepath.Ext(path) != ".md" {
		t.Errorf("extension = %q", filepath.Ext(path))
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "fixo_mon_wifi_est_lent_") {
		t.Errorf("filename = %q", base)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}

func TestToFormatUnsupported(t *testing.T) {
	if _, err := ToFormat(sampleConversation(), "pdf", nil); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"wifi lent", "wifi_lent"},
		{"a/b\\c:d", "a-b-c-d"},
		{"", "conversation"},
		{"été à gogo", "été_à_gogo"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
