// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewThemePreferences(t *testing.T) {
	for _, pref := range []string{"light", "dark", "auto"} {
		t.Run(pref, func(t *testing.T) {
			theme := NewTheme(pref)
			if theme == nil {
				t.Fatal("NewTheme returned nil")
			}
		})
	}
	if !NewTheme("dark").IsDark {
		t.Error("dark preference should report IsDark")
	}
	if NewTheme("light").IsDark {
		t.Error("light preference should not report IsDark")
	}
}

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}
	theme := NewTheme("dark")
	for _, tt := range tests {
		theme.SetSize(tt.width, 40)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: layout = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestModeStyleDistinct(t *testing.T) {
	theme := NewTheme("dark")
	lite := theme.ModeStyle("lite").GetForeground()
	core := theme.ModeStyle("core").GetForeground()
	pro := theme.ModeStyle("pro").GetForeground()
	if lite == core || core == pro || lite == pro {
		t.Error("mode styles should use distinct colors")
	}
	if theme.ModeStyle("unknown").GetForeground() != lite {
		t.Error("unknown mode should fall back to lite style")
	}
}

func TestRenderErrorCarriesIndicator(t *testing.T) {
	out := RenderError("panne")
	if !strings.Contains(out, "[X]") || !strings.Contains(out, "panne") {
		t.Errorf("RenderError output = %q", out)
	}
}
