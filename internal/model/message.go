// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLES AND STATUS
// =============================================================================

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "utilisateur"
	RoleAssistant Role = "assistant"
)

// DeliveryStatus tracks the lifecycle of a user message. Assistant
// messages never carry a status.
type DeliveryStatus string

const (
	StatusSent     DeliveryStatus = "envoye"
	StatusReceived DeliveryStatus = "recu"
	StatusError    DeliveryStatus = "erreur"
)

// =============================================================================
// MESSAGES
// =============================================================================

// Message is one chat bubble. The orchestrator owns the in-memory list;
// only Text (during the typewriter reveal) and Status are ever mutated
// after creation.
type Message struct {
	ID        string
	Role      Role
	Text      string
	Timestamp time.Time
	Status    DeliveryStatus
	Steps     []string
}

// NewUserMessage creates a user message in the sent state.
func NewUserMessage(text string) *Message {
	return &Message{
		ID:        "msg_" + uuid.NewString(),
		Role:      RoleUser,
		Text:      text,
		Timestamp: time.Now(),
		Status:    StatusSent,
	}
}

// NewAssistantMessage creates an assistant message carrying the full
// reply text and optional solution steps.
func NewAssistantMessage(text string, steps []string) *Message {
	return &Message{
		ID:        "msg_" + uuid.NewString(),
		Role:      RoleAssistant,
		Text:      text,
		Timestamp: time.Now(),
		Steps:     steps,
	}
}

// Reply is an engine's answer to a query, before it becomes a Message.
type Reply struct {
	Content string
	Steps   []string
}
