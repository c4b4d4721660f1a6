// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/fixo-tui/internal/storage"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports conversations as JSON. Messages use the same
// projection the preference store persists, so an exported file can be
// re-imported as history.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter. Options are accepted for
// consistency with the other exporters; JSON always carries the
// complete conversation.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// jsonDocument is the on-disk shape of a JSON export.
type jsonDocument struct {
	Title     string                     `json:"titre"`
	Mode      string                     `json:"mode"`
	CreatedAt time.Time                  `json:"creeLe"`
	Exported  time.Time                  `json:"exporteLe"`
	Messages  []storage.PersistedMessage `json:"messages"`
}

// Export converts a conversation to indented JSON.
func (e *JSONExporter) Export(conv *Conversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}

	doc := jsonDocument{
		Title:     conv.Title,
		Mode:      conv.Mode,
		CreatedAt: conv.CreatedAt,
		Exported:  time.Now(),
		Messages:  storage.ProjectMessages(conv.Messages),
	}
	return json.MarshalIndent(doc, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
