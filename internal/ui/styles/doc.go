// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the FIXƆ TUI.
//
// All colors are lipgloss.AdaptiveColor pairs so every style works on
// both light and dark terminals. The active variant follows the user's
// theme preference: "light" and "dark" force a background, "auto"
// trusts termenv detection.
package styles
