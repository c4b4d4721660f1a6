// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const sampleDoc = `{
  "problemes": [
    {
      "code": "RES-001",
      "categorie": "reseau",
      "titre": "Wi-Fi lent",
      "motsClés": ["wifi lent", "connexion instable"],
      "solution": {
        "resume": "Redémarrez le routeur.",
        "etapes": ["Débranchez le routeur", "Attendez 30 secondes", "Rebranchez-le"]
      }
    },
    {
      "code": "SYS-001",
      "categorie": "systeme",
      "titre": "Écran bleu",
      "motsClés": ["écran bleu", "bsod"],
      "solution": {
        "resume": "Notez le code d'erreur.",
        "etapes": ["Photographiez l'écran", "Redémarrez"]
      }
    }
  ]
}`

func TestCategoryRoundTrip(t *testing.T) {
	for _, c := range Categories() {
		got, ok := ParseCategory(c.String())
		if !ok || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v; want %v, true", c.String(), got, ok, c)
		}
	}
	if _, ok := ParseCategory("imaginaire"); ok {
		t.Error("ParseCategory accepted an unknown name")
	}
}

func TestCategoriesOrderStable(t *testing.T) {
	want := []Category{CategoryPlatform, CategoryNetwork, CategorySystem, CategoryHardware, CategorySoftware}
	got := Categories()
	if len(got) != len(want) {
		t.Fatalf("Categories() has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCategoryData(t *testing.T) {
	for _, c := range Categories() {
		if len(c.Keywords()) == 0 {
			t.Errorf("category %v has no keywords", c)
		}
		if c.Fallback() == "" {
			t.Errorf("category %v has no fallback", c)
		}
	}
	if CategoryGeneral.Keywords() != nil {
		t.Error("general category must not carry keywords")
	}
	if CategoryGeneral.Fallback() == "" {
		t.Error("general category must carry the greeting fallback")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problemes.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", cat.Len())
	}

	rec := cat.Records()[0]
	if rec.Code != "RES-001" || rec.Category != "reseau" || rec.Title != "Wi-Fi lent" {
		t.Errorf("unexpected first record: %+v", rec)
	}
	if len(rec.Keywords) != 2 || rec.Keywords[0] != "wifi lent" {
		t.Errorf("keywords not decoded: %v", rec.Keywords)
	}
	if rec.Solution.Summary != "Redémarrez le routeur." || len(rec.Solution.Steps) != 3 {
		t.Errorf("solution not decoded: %+v", rec.Solution)
	}
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleDoc))
	}))
	defer srv.Close()

	cat, err := Load(srv.URL)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cat.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cat.Len())
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		os.WriteFile(path, []byte("{not json"), 0644)
		if _, err := Load(path); err == nil {
			t.Error("expected error for malformed JSON")
		}
	})

	t.Run("http failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		defer srv.Close()
		if _, err := Load(srv.URL); err == nil {
			t.Error("expected error for HTTP 500")
		}
	})
}

func TestLoadOrEmptyDegrades(t *testing.T) {
	logger := log.New(os.Stderr, "", 0)

	cat := LoadOrEmpty(logger, filepath.Join(t.TempDir(), "absent.json"))
	if cat == nil {
		t.Fatal("LoadOrEmpty returned nil")
	}
	if cat.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cat.Len())
	}

	if got := LoadOrEmpty(logger, ""); got.Len() != 0 {
		t.Errorf("empty source should give empty catalogue, got %d records", got.Len())
	}
}

func TestNewWatcherRejectsURL(t *testing.T) {
	if _, err := NewWatcher("https://example.com/problemes.json", nil, func(*Catalog) {}); err != ErrWatchRemote {
		t.Errorf("NewWatcher(url) error = %v, want ErrWatchRemote", err)
	}
}
