// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat owns the conversation: the message list, the
// one-request-at-a-time state machine, the typewriter reveal, and
// persistence of completed exchanges.
//
// The package is display-agnostic. The TUI drives a Session from its
// event loop; engines and the renderer are injected, so tests run the
// whole flow without a terminal or network.
package chat
