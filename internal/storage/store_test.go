// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/fixo-tui/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func TestOpenMissingFile(t *testing.T) {
	s := openTestStore(t)
	if got := s.Theme(); got != DefaultTheme {
		t.Errorf("Theme() on empty store = %q, want %q", got, DefaultTheme)
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	os.WriteFile(path, []byte("{broken"), 0600)
	if _, err := Open(path); err == nil {
		t.Error("corrupt state file should fail to open")
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	if err := s.Set("exemple", "valeur"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got string
	ok, err := s.Get("exemple", &got)
	if err != nil || !ok || got != "valeur" {
		t.Errorf("Get = %q, %v, %v", got, ok, err)
	}

	ok, err = s.Get("absent", &got)
	if ok || err != nil {
		t.Errorf("Get(absent) = %v, %v; want false, nil", ok, err)
	}
}

func TestValuesAreNamespacedAndJSONEncoded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, _ := Open(path)
	s.SetTheme("light")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var onDisk map[string]json.RawMessage
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("state file is not JSON: %v", err)
	}
	v, ok := onDisk["fixo_theme"]
	if !ok {
		t.Fatalf("key fixo_theme missing, keys: %v", onDisk)
	}
	if string(v) != `"light"` {
		t.Errorf("value = %s, want JSON-encoded string", v)
	}
}

func TestStateFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "state.json")
	s, _ := Open(path)
	s.SetAPIKey("groq", "secret")

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("state file perm = %o, want 0600", perm)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, _ := Open(path)
	s.SetMode("core")
	s.SetProvider("gemini")
	s.SetAPIKey("gemini", "g-key")

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if s2.Mode() != "core" || s2.Provider() != "gemini" || s2.APIKey("gemini") != "g-key" {
		t.Errorf("reopened store lost values: mode=%q provider=%q", s2.Mode(), s2.Provider())
	}
}

func TestDefaults(t *testing.T) {
	s := openTestStore(t)
	if s.Theme() != "dark" {
		t.Errorf("default theme = %q", s.Theme())
	}
	if s.Mode() != "lite" {
		t.Errorf("default mode = %q", s.Mode())
	}
	if s.Provider() != "groq" {
		t.Errorf("default provider = %q", s.Provider())
	}
	if s.APIKey("groq") != "" {
		t.Errorf("default api key should be empty")
	}
}

func TestGetStringDistinguishesUnset(t *testing.T) {
	s := openTestStore(t)
	if _, ok := s.GetString(KeyMode); ok {
		t.Error("unset key reported present")
	}
	s.SetMode("core")
	if v, ok := s.GetString(KeyMode); !ok || v != "core" {
		t.Errorf("GetString = %q, %v", v, ok)
	}
}

func TestDeleteAndClear(t *testing.T) {
	s := openTestStore(t)
	s.SetTheme("light")
	s.SetMode("core")

	if err := s.Delete(KeyTheme); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if s.Theme() != DefaultTheme {
		t.Errorf("deleted key should fall back to default")
	}
	if err := s.Delete("absent"); err != nil {
		t.Errorf("deleting an absent key should be a no-op: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if s.Mode() != DefaultMode {
		t.Errorf("Clear left values behind")
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	s := openTestStore(t)

	user := model.NewUserMessage("mon wifi est lent")
	user.Status = model.StatusReceived
	assistant := model.NewAssistantMessage("**Wi-Fi lent**\n\nRedémarrez le routeur.", []string{"a", "b"})
	msgs := []*model.Message{user, assistant}

	if err := s.SetHistory(ProjectMessages(msgs)); err != nil {
		t.Fatalf("SetHistory failed: %v", err)
	}

	restored := RestoreMessages(s.History())
	if len(restored) != 2 {
		t.Fatalf("restored %d messages, want 2", len(restored))
	}
	if restored[0].Role != model.RoleUser || restored[0].Text != "mon wifi est lent" {
		t.Errorf("first message = %+v", restored[0])
	}
	if restored[0].Status != model.StatusReceived {
		t.Errorf("restored user message status = %q", restored[0].Status)
	}
	if restored[1].Role != model.RoleAssistant || len(restored[1].Steps) != 2 {
		t.Errorf("second message = %+v", restored[1])
	}
	if !restored[1].Timestamp.Equal(assistant.Timestamp) {
		t.Errorf("timestamp not preserved: %v != %v", restored[1].Timestamp, assistant.Timestamp)
	}
}

func TestHistoryLengthMatchesMessages(t *testing.T) {
	s := openTestStore(t)
	msgs := []*model.Message{
		model.NewUserMessage("q1"),
		model.NewAssistantMessage("r1", nil),
		model.NewUserMessage("q2"),
		model.NewAssistantMessage("r2", nil),
	}
	s.SetHistory(ProjectMessages(msgs))
	if got := len(s.History()); got != len(msgs) {
		t.Errorf("persisted history length = %d, want %d", got, len(msgs))
	}
}

func TestClearHistory(t *testing.T) {
	s := openTestStore(t)
	s.SetHistory([]PersistedMessage{{Text: "x", Role: "utilisateur", Timestamp: time.Now()}})
	if err := s.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	if got := s.History(); len(got) != 0 {
		t.Errorf("history after clear = %v", got)
	}
}

func TestProjectionDropsIDAndStatus(t *testing.T) {
	m := model.NewUserMessage("question")
	p := ProjectMessages([]*model.Message{m})[0]

	data, _ := json.Marshal(p)
	for _, forbidden := range []string{m.ID, "envoye"} {
		if strings.Contains(string(data), forbidden) {
			t.Errorf("persisted projection leaks %q: %s", forbidden, data)
		}
	}
}
