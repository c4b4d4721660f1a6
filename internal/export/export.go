// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jeranaias/fixo-tui/internal/model"
	"github.com/jeranaias/fixo-tui/internal/util"
)

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation is the unit of export: a titled snapshot of the message
// list at the moment the user asked for a file.
type Conversation struct {
	Title     string
	Mode      string
	CreatedAt time.Time
	Messages  []*model.Message
}

// NewConversation snapshots messages for export. The title comes from
// the first user message; CreatedAt from the oldest message.
func NewConversation(mode string, msgs []*model.Message) *Conversation {
	conv := &Conversation{
		Title:     "Conversation FIXƆ",
		Mode:      mode,
		CreatedAt: time.Now(),
		Messages:  msgs,
	}
	if len(msgs) > 0 {
		conv.CreatedAt = msgs[0].Timestamp
	}
	for _, m := range msgs {
		if m.Role == model.RoleUser {
			conv.Title = util.TruncateRunes(strings.TrimSpace(m.Text), 60)
			break
		}
	}
	return conv
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a conversation to one target format.
type Exporter interface {
	// Export renders the conversation and returns the file content.
	Export(conv *Conversation) ([]byte, error)

	// FileExtension returns the extension for the format (e.g. ".md").
	FileExtension() string

	// MimeType returns the MIME type for the format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is where files are written. Default: working directory.
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// IncludeMetadata includes the header block (mode, dates, counts).
	IncludeMetadata bool

	// IncludeTimestamps includes per-message timestamps.
	IncludeTimestamps bool

	// Theme for HTML export ("light" or "dark"). Default: "dark".
	Theme string
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		OpenAfterExport:   false,
		IncludeMetadata:   true,
		IncludeTimestamps: true,
		Theme:             "dark",
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ToFile exports a conversation with the given exporter and returns the
// output path. The filename carries the sanitized title and a
// timestamp, so repeated exports never clobber each other.
func ToFile(conv *Conversation, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("fixo_%s_%s%s",
		sanitizeFilename(conv.Title),
		timestamp,
		exporter.FileExtension(),
	)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			// Non-fatal, the file was written.
			fmt.Fprintf(os.Stderr, "could not open exported file: %v\n", err)
		}
	}

	return outputPath, nil
}

// ToFormat exports a conversation in the named format ("markdown",
// "html", or "json") and returns the output path.
func ToFormat(conv *Conversation, format string, opts *Options) (string, error) {
	var exporter Exporter
	switch format {
	case "markdown", "md":
		exporter = NewMarkdownExporter(opts)
	case "html", "htm":
		exporter = NewHTMLExporter(opts)
	case "json":
		exporter = NewJSONExporter(opts)
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
	return ToFile(conv, exporter, opts)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in
// filenames on Windows or Unix.
func sanitizeFilename(s string) string {
	const maxLen = 50
	s = util.TruncateRunes(s, maxLen)

	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := make([]rune, 0, len(s))
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "conversation"
	}
	return string(result)
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// roleLabel returns the display label for a message author.
func roleLabel(role model.Role) string {
	switch role {
	case model.RoleUser:
		return "Utilisateur"
	case model.RoleAssistant:
		return "FIXƆ"
	default:
		return string(role)
	}
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatShortTimestamp formats a timestamp for inline display.
func formatShortTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}
