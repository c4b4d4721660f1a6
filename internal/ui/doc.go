// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui is the Bubble Tea front end for FIXƆ.
//
// The Model here owns only presentation: viewport, input line, spinner,
// key handling, and the ANSI rendering of replies. Conversation state,
// engine dispatch, and the typewriter reveal live in the chat package;
// the UI drives them through typed messages and commands.
package ui
