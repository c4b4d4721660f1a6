// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/fixo-tui/internal/model"
	"github.com/jeranaias/fixo-tui/internal/ui/styles"
)

// View renders the whole screen.
func (m Model) View() string {
	if m.width == 0 {
		return "Chargement..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.thinking {
		b.WriteString(m.theme.Spinner.Render(m.spinner.View()))
		b.WriteString(" ")
		b.WriteString(m.theme.ThinkingText.Render("FIXƆ réfléchit..."))
		b.WriteString("\n")
	}

	b.WriteString(m.theme.InputContainer.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

// renderHeader draws the title bar.
func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("FIXƆ")
	subtitle := m.theme.HeaderSubtitle.Render("Assistant de dépannage informatique")
	return m.theme.Header.Width(m.width - 2).Render(title + "  " + subtitle)
}

// renderStatusBar draws the bottom bar: mode badge, transient status,
// and shortcuts, trimmed to what fits.
func (m Model) renderStatusBar() string {
	mode := m.session.Mode()
	badge := m.theme.ModeStyle(mode).Render(strings.ToUpper(mode))

	var parts []string
	parts = append(parts, badge)
	if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	}

	if m.theme.GetLayoutMode() != styles.LayoutNarrow {
		shortcuts := []struct{ key, desc string }{
			{"tab", "mode"},
			{"ctrl+e", "exporter"},
			{"ctrl+l", "effacer"},
			{"ctrl+c", "quitter"},
		}
		var sb strings.Builder
		for i, s := range shortcuts {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(m.theme.ShortcutKey.Render(s.key))
			sb.WriteString(" ")
			sb.WriteString(m.theme.ShortcutDesc.Render(s.desc))
		}
		parts = append(parts, sb.String())
	}

	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  |  "))
}

// refreshViewport rebuilds the conversation content and scrolls to the
// bottom.
func (m *Model) refreshViewport() {
	msgs := m.session.Messages()

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// renderMessage draws one chat bubble.
func (m *Model) renderMessage(msg *model.Message) string {
	width := m.bubbleWidth()

	if msg.Role == model.RoleUser {
		label := m.theme.BubbleLabel.Render("Vous") +
			" " + m.theme.Timestamp.Render(msg.Timestamp.Format("15:04")) +
			" " + m.renderStatus(msg)
		body := m.theme.UserBubble.MaxWidth(width).Render(msg.Text)
		return lipgloss.JoinVertical(lipgloss.Right, label, body)
	}

	label := m.theme.BubbleLabel.Render("FIXƆ") +
		" " + m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))

	// The session knows whether msg is mid-reveal and routes an open
	// fence to the plain inline pass.
	body := strings.TrimRight(m.session.RenderMessage(msg), "\n")

	bubble := m.theme.AssistantBubble.MaxWidth(width).Render(body)

	if len(msg.Steps) > 0 && (!m.revealing || msg != m.target) {
		var steps strings.Builder
		for n, step := range msg.Steps {
			steps.WriteString(m.theme.StepItem.Render(fmt.Sprintf("%d. %s", n+1, step)))
			if n < len(msg.Steps)-1 {
				steps.WriteString("\n")
			}
		}
		bubble = lipgloss.JoinVertical(lipgloss.Left, bubble, steps.String())
	}

	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// renderStatus maps a message's delivery status to its indicator. The
// status is read through the session because Resolve updates it from
// outside the event loop.
func (m *Model) renderStatus(msg *model.Message) string {
	switch m.session.MessageStatus(msg) {
	case model.StatusReceived:
		return m.theme.StatusReceived.Render(styles.StatusIndicators.Received)
	case model.StatusError:
		return m.theme.StatusError.Render(styles.StatusIndicators.Error)
	case model.StatusSent:
		return m.theme.StatusSent.Render(styles.StatusIndicators.Sent)
	default:
		return ""
	}
}

// bubbleWidth caps message bubbles to the usable width.
func (m *Model) bubbleWidth() int {
	w := m.width - 8
	if w < 20 {
		w = 20
	}
	return w
}
