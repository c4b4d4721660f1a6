// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package core implements the remote completion engine.
//
// A query plus a bounded rolling window of recent turns and a fixed
// system prompt is forwarded to one of three interchangeable completion
// providers (Groq, Google Gemini, Hugging Face). Each provider is a
// closed enum variant with its own request builder and response parser;
// dispatch never leaves the enum.
//
// Without a configured credential the engine answers with setup guidance
// instead of calling out. Upstream failures surface as a ProviderError
// carrying the upstream message; there are no retries.
package core
