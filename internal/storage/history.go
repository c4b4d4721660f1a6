// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"time"

	"github.com/jeranaias/fixo-tui/internal/model"
)

// PersistedMessage is the serialized projection of a chat message:
// message IDs and delivery status are in-memory concerns and do not
// survive a restart.
type PersistedMessage struct {
	Text      string    `json:"texte"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"horodatage"`
	Steps     []string  `json:"etapes,omitempty"`
}

// History returns the persisted conversation, oldest first. Absent or
// unreadable history yields an empty slice.
func (s *Store) History() []PersistedMessage {
	var h []PersistedMessage
	if ok, err := s.Get(KeyHistory, &h); !ok || err != nil {
		return nil
	}
	return h
}

// SetHistory replaces the persisted conversation in one atomic write, so
// the stored history always reflects a complete send/receive cycle.
func (s *Store) SetHistory(h []PersistedMessage) error {
	return s.Set(KeyHistory, h)
}

// ClearHistory removes the persisted conversation.
func (s *Store) ClearHistory() error {
	return s.Delete(KeyHistory)
}

// ProjectMessages converts in-memory messages to their persisted form.
func ProjectMessages(msgs []*model.Message) []PersistedMessage {
	out := make([]PersistedMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, PersistedMessage{
			Text:      m.Text,
			Role:      string(m.Role),
			Timestamp: m.Timestamp,
			Steps:     m.Steps,
		})
	}
	return out
}

// RestoreMessages converts persisted history back into in-memory
// messages. Restored user messages are marked received; fresh IDs are
// assigned.
func RestoreMessages(h []PersistedMessage) []*model.Message {
	out := make([]*model.Message, 0, len(h))
	for _, p := range h {
		var m *model.Message
		if model.Role(p.Role) == model.RoleUser {
			m = model.NewUserMessage(p.Text)
			m.Status = model.StatusReceived
		} else {
			m = model.NewAssistantMessage(p.Text, p.Steps)
		}
		m.Timestamp = p.Timestamp
		out = append(out, m)
	}
	return out
}
