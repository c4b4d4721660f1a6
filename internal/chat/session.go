// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/fixo-tui/internal/config"
	"github.com/jeranaias/fixo-tui/internal/markdown"
	"github.com/jeranaias/fixo-tui/internal/model"
	"github.com/jeranaias/fixo-tui/internal/storage"
	"github.com/jeranaias/fixo-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// errorReply is shown as an assistant bubble when an engine fails.
	// Failed exchanges are never persisted.
	errorReply = "Désolé, une erreur est survenue. Veuillez réessayer."

	// welcomeReply opens a fresh conversation.
	welcomeReply = "Bonjour ! Je suis **FIXƆ**, votre assistant de dépannage informatique. 🤖\n\nDécrivez-moi votre problème et je vous proposerai une solution étape par étape."
)

// =============================================================================
// INTERFACES
// =============================================================================

// Engine answers a user query. Lite and core implementations satisfy
// this; the session does not know which one it is talking to.
type Engine interface {
	Reply(ctx context.Context, query string) (model.Reply, error)
}

// Renderer turns reply text into display markup. Render is the full
// pipeline; RenderInline is the lightweight pass used mid-reveal while
// a code fence is still open.
type Renderer interface {
	Render(text string) string
	RenderInline(text string) string
}

// =============================================================================
// STATE MACHINE
// =============================================================================

// State is the session's position in the request cycle. Exactly one
// exchange is in flight at a time; Submit drops input in any state but
// StateIdle.
type State int

const (
	StateIdle State = iota
	StateSending
	StateAwaiting
	StateRendering
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateAwaiting:
		return "awaiting"
	case StateRendering:
		return "rendering"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// =============================================================================
// SESSION
// =============================================================================

// Options wires a Session's collaborators.
type Options struct {
	Lite     Engine
	Core     Engine
	Renderer Renderer
	Store    *storage.Store
	Logger   *log.Logger
	Mode     string
	Typing   config.Typing
	Rand     *rand.Rand
}

// Session orchestrates one conversation: it holds the message list,
// routes queries to an engine, animates the reply reveal, and persists
// completed exchanges.
type Session struct {
	mu       sync.Mutex
	state    State
	messages []*model.Message

	lite     Engine
	core     Engine
	renderer Renderer
	store    *storage.Store
	logger   *log.Logger
	mode     string
	typing   config.Typing
	rng      *rand.Rand

	// Reveal state for the message currently being typed out.
	target *model.Message
	full   string
	steps  []string
	index  int
}

// NewSession builds a session from Options. Renderer defaults to the
// markdown pipeline, Rand to a time-seeded source.
func NewSession(opts Options) *Session {
	s := &Session{
		state:    StateIdle,
		lite:     opts.Lite,
		core:     opts.Core,
		renderer: opts.Renderer,
		store:    opts.Store,
		logger:   opts.Logger,
		mode:     opts.Mode,
		typing:   opts.Typing,
		rng:      opts.Rand,
	}
	if s.renderer == nil {
		s.renderer = markdown.Renderer{}
	}
	if s.logger == nil {
		s.logger = log.New(log.Writer(), "", log.LstdFlags)
	}
	if s.mode == "" {
		s.mode = config.ModeLite
	}
	if s.typing.BaseChunk <= 0 {
		s.typing = config.Default().Typing
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// Restore loads the persisted conversation. A fresh conversation gets
// the welcome message instead; the welcome itself is not persisted.
func (s *Session) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if h := s.store.History(); len(h) > 0 {
			s.messages = storage.RestoreMessages(h)
			return
		}
	}
	s.messages = []*model.Message{model.NewAssistantMessage(welcomeReply, nil)}
}

// Messages returns a snapshot of the conversation, oldest first.
func (s *Session) Messages() []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// State reports the session's position in the request cycle.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether an exchange is in flight.
func (s *Session) Busy() bool {
	return s.State() != StateIdle
}

// SetRenderer swaps the display renderer. The front end injects its
// terminal renderer here once it knows the color profile and width.
func (s *Session) SetRenderer(r Renderer) {
	if r == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer = r
}

// Mode returns the active assistance mode.
func (s *Session) Mode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches the assistance mode and records the preference.
func (s *Session) SetMode(mode string) {
	s.mu.Lock()
	s.mode = mode
	store := s.store
	s.mu.Unlock()

	if store != nil {
		if err := store.SetMode(mode); err != nil {
			s.logger.Printf("failed to persist mode: %v", err)
		}
	}
}

// =============================================================================
// SEND FLOW
// =============================================================================

// Submit starts an exchange with the user's text. It returns the new
// user message, or false when the text is blank or an exchange is
// already in flight: concurrent submissions are dropped, not queued.
func (s *Session) Submit(text string) (*model.Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return nil, false
	}

	msg := model.NewUserMessage(text)
	s.messages = append(s.messages, msg)
	s.state = StateSending
	return msg, true
}

// Resolve runs the submitted query through the active engine and
// returns the reply. Core mode (and pro, which rides on core) talks to
// the completion client; everything else stays local. The user message
// is marked received once the engine answers, error on failure.
func (s *Session) Resolve(ctx context.Context, msg *model.Message) (model.Reply, error) {
	s.mu.Lock()
	if s.state != StateSending {
		s.mu.Unlock()
		return model.Reply{}, fmt.Errorf("resolve called in state %s", s.state)
	}
	s.state = StateAwaiting
	engine := s.lite
	if (s.mode == config.ModeCore || s.mode == config.ModePro) && s.core != nil {
		engine = s.core
	}
	s.mu.Unlock()

	reply, err := engine.Reply(ctx, msg.Text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		msg.Status = model.StatusError
		return model.Reply{}, err
	}
	msg.Status = model.StatusReceived
	return reply, nil
}

// Fail ends the exchange with the standard error bubble. The failed
// exchange is not persisted, so a restart never replays it.
func (s *Session) Fail(err error) {
	s.logger.Printf("exchange failed: %v", err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, model.NewAssistantMessage(errorReply, nil))
	s.state = StateIdle
	s.target = nil
	s.full = ""
	s.index = 0
}

// MessageStatus reads a message's delivery status under the session
// lock. Resolve updates statuses off the event loop, so display code
// must go through here instead of reading the field directly.
func (s *Session) MessageStatus(m *model.Message) model.DeliveryStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return m.Status
}

// =============================================================================
// TYPEWRITER REVEAL
// =============================================================================

// BeginReveal appends an empty assistant bubble and starts typing the
// reply into it. Advance grows it until done.
func (s *Session) BeginReveal(reply model.Reply) *model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := model.NewAssistantMessage("", reply.Steps)
	s.messages = append(s.messages, msg)
	s.state = StateRendering
	s.target = msg
	s.full = reply.Content
	s.index = 0
	return msg
}

// Advance reveals the next chunk of the reply and reports whether the
// reveal is complete. Chunk size varies around the configured base so
// the animation does not look mechanical. On completion the exchange is
// persisted and the session returns to idle.
func (s *Session) Advance() bool {
	s.mu.Lock()

	if s.target == nil {
		s.mu.Unlock()
		return true
	}

	chunk := s.typing.BaseChunk
	if s.typing.Jitter > 0 {
		chunk += s.rng.Intn(s.typing.Jitter) - s.typing.Jitter/2
	}
	if chunk < s.typing.MinChunk {
		chunk = s.typing.MinChunk
	}

	total := util.RuneLen(s.full)
	s.index += chunk
	if s.index >= total {
		s.target.Text = s.full
		s.target = nil
		s.full = ""
		s.index = 0
		s.state = StateIdle
		s.mu.Unlock()
		s.persist()
		return true
	}

	s.target.Text = util.SafeSubstring(s.full, 0, s.index)
	s.mu.Unlock()
	return false
}

// TickInterval is the delay between reveal ticks.
func (s *Session) TickInterval() time.Duration {
	return time.Duration(s.typing.TickMs) * time.Millisecond
}

// RenderMessage returns the display markup for a message. While the
// reveal has a code fence open, only the lightweight inline pass runs;
// the truncated fence body must not reach the full pipeline. Once text
// is complete it always gets the full render.
func (s *Session) RenderMessage(m *model.Message) string {
	s.mu.Lock()
	partial := s.target == m
	r := s.renderer
	s.mu.Unlock()

	if partial && markdown.HasOpenFence(m.Text) {
		return r.RenderInline(m.Text)
	}
	return r.Render(m.Text)
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// persist writes the conversation, dropping the unpersisted welcome
// bubble when it is the only assistant-first message.
func (s *Session) persist() {
	if s.store == nil {
		return
	}
	s.mu.Lock()
	msgs := make([]*model.Message, 0, len(s.messages))
	for i, m := range s.messages {
		if i == 0 && m.Role == model.RoleAssistant && m.Text == welcomeReply {
			continue
		}
		msgs = append(msgs, m)
	}
	s.mu.Unlock()

	if err := s.store.SetHistory(storage.ProjectMessages(msgs)); err != nil {
		s.logger.Printf("failed to persist history: %v", err)
	}
}

// Clear wipes the conversation in memory and on disk and shows the
// welcome message again.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.messages = []*model.Message{model.NewAssistantMessage(welcomeReply, nil)}
	s.state = StateIdle
	s.target = nil
	s.full = ""
	s.index = 0
	store := s.store
	s.mu.Unlock()

	if store == nil {
		return nil
	}
	return store.ClearHistory()
}
