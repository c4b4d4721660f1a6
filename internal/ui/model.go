// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/fixo-tui/internal/chat"
	"github.com/jeranaias/fixo-tui/internal/config"
	"github.com/jeranaias/fixo-tui/internal/export"
	"github.com/jeranaias/fixo-tui/internal/model"
	"github.com/jeranaias/fixo-tui/internal/storage"
	"github.com/jeranaias/fixo-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// replyReadyMsg carries an engine reply back into the event loop.
type replyReadyMsg struct {
	user  *model.Message
	reply model.Reply
}

// replyFailedMsg signals that the engine could not answer.
type replyFailedMsg struct {
	err error
}

// revealTickMsg advances the typewriter reveal.
type revealTickMsg struct{}

// exportDoneMsg reports the outcome of a file export.
type exportDoneMsg struct {
	path string
	err  error
}

// CatalogReloadedMsg is sent from outside the program when the problem
// catalogue has been reloaded from disk.
type CatalogReloadedMsg struct {
	Count int
}

// =============================================================================
// UI MODEL
// =============================================================================

// Model is the Bubble Tea model for the FIXƆ chat view.
type Model struct {
	session  *chat.Session
	store    *storage.Store
	cfg      *config.Config
	theme    *styles.Theme
	renderer *termRenderer

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	keys     KeyMap

	width  int
	height int

	thinking  bool
	revealing bool
	target    *model.Message
	statusMsg string
}

// New creates the chat view around an existing session.
func New(session *chat.Session, store *storage.Store, cfg *config.Config, theme *styles.Theme) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Décrivez votre problème..."
	ti.CharLimit = 2000
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	renderer := newTermRenderer(theme.IsDark, 76)
	session.SetRenderer(renderer)

	return Model{
		session:  session,
		store:    store,
		cfg:      cfg,
		theme:    theme,
		renderer: renderer,
		viewport: vp,
		input:    ti,
		spinner:  sp,
		keys:     DefaultKeyMap(),
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	m.session.Restore()
	return textinput.Blink
}

// =============================================================================
// COMMANDS
// =============================================================================

// resolveCmd runs the engine call off the event loop.
func resolveCmd(session *chat.Session, user *model.Message) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		reply, err := session.Resolve(ctx, user)
		if err != nil {
			return replyFailedMsg{err: err}
		}
		return replyReadyMsg{user: user, reply: reply}
	}
}

// revealTickCmd schedules the next typewriter tick.
func revealTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return revealTickMsg{}
	})
}

// exportCmd writes the conversation to a Markdown file in the working
// directory.
func exportCmd(session *chat.Session) tea.Cmd {
	conv := export.NewConversation(session.Mode(), session.Messages())
	return func() tea.Msg {
		path, err := export.ToFormat(conv, "markdown", nil)
		return exportDoneMsg{path: path, err: err}
	}
}
