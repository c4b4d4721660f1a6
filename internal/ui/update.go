// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/fixo-tui/internal/config"
	"github.com/jeranaias/fixo-tui/internal/ui/styles"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case replyReadyMsg:
		m.thinking = false
		m.revealing = true
		m.target = m.session.BeginReveal(msg.reply)
		m.refreshViewport()
		return m, revealTickCmd(m.session.TickInterval())

	case replyFailedMsg:
		m.thinking = false
		m.session.Fail(msg.err)
		m.refreshViewport()
		return m, nil

	case revealTickMsg:
		if !m.revealing {
			return m, nil
		}
		done := m.session.Advance()
		m.refreshViewport()
		if done {
			m.revealing = false
			m.target = nil
			return m, nil
		}
		return m, revealTickCmd(m.session.TickInterval())

	case exportDoneMsg:
		if msg.err != nil {
			m.statusMsg = "Export échoué : " + msg.err.Error()
		} else {
			m.statusMsg = "Exporté vers " + msg.path
		}
		return m, nil

	case CatalogReloadedMsg:
		m.statusMsg = fmt.Sprintf("Catalogue rechargé (%d problèmes)", msg.Count)
		return m, nil

	case spinner.TickMsg:
		// Stop spinning once the reply has arrived.
		if !m.thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleResize fits the layout to the new terminal size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	headerHeight := 3
	inputHeight := 3
	statusHeight := 1
	vpHeight := msg.Height - headerHeight - inputHeight - statusHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	m.viewport = viewport.New(msg.Width, vpHeight)
	m.input.Width = msg.Width - 6
	m.renderer.SetWidth(msg.Width - 8)

	m.refreshViewport()
	return m, nil
}

// handleKey routes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Send):
		text := m.input.Value()
		user, ok := m.session.Submit(text)
		if !ok {
			// Blank input or an exchange already in flight; drop it.
			return m, nil
		}
		m.input.Reset()
		m.thinking = true
		m.statusMsg = ""
		m.refreshViewport()
		return m, tea.Batch(resolveCmd(m.session, user), m.spinner.Tick)

	case key.Matches(msg, m.keys.CycleMode):
		if m.session.Busy() {
			return m, nil
		}
		m.session.SetMode(nextMode(m.session.Mode()))
		m.statusMsg = "Mode : " + m.session.Mode()
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		return m.cycleTheme()

	case key.Matches(msg, m.keys.Clear):
		if m.session.Busy() {
			return m, nil
		}
		if err := m.session.Clear(); err != nil {
			m.statusMsg = "Effacement échoué : " + err.Error()
		} else {
			m.statusMsg = "Conversation effacée"
		}
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.Export):
		if m.session.Busy() {
			return m, nil
		}
		m.statusMsg = "Export en cours..."
		return m, exportCmd(m.session)

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// cycleTheme flips between dark and light and persists the choice.
func (m Model) cycleTheme() (tea.Model, tea.Cmd) {
	next := config.ThemeDark
	if m.theme.IsDark {
		next = config.ThemeLight
	}

	m.theme = styles.NewTheme(next)
	m.theme.SetSize(m.width, m.height)
	m.spinner.Style = m.theme.Spinner
	m.renderer = newTermRenderer(m.theme.IsDark, m.width-8)
	m.session.SetRenderer(m.renderer)

	if m.store != nil {
		if err := m.store.SetTheme(next); err != nil {
			m.statusMsg = "Thème non enregistré : " + err.Error()
			m.refreshViewport()
			return m, nil
		}
	}
	m.statusMsg = "Thème : " + next
	m.refreshViewport()
	return m, nil
}

// nextMode cycles lite -> core -> pro -> lite.
func nextMode(mode string) string {
	switch mode {
	case config.ModeLite:
		return config.ModeCore
	case config.ModeCore:
		return config.ModePro
	default:
		return config.ModeLite
	}
}
