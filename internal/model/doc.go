// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the conversation data types shared by the
// engines, the orchestrator, the persistence layer, and the exporters.
package model
