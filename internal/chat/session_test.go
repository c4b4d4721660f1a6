// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/fixo-tui/internal/config"
	"github.com/jeranaias/fixo-tui/internal/markdown"
	"github.com/jeranaias/fixo-tui/internal/model"
	"github.com/jeranaias/fixo-tui/internal/storage"
	"github.com/jeranaias/fixo-tui/internal/util"
)

type stubEngine struct {
	reply model.Reply
	err   error
	calls int
	last  string
}

func (e *stubEngine) Reply(_ context.Context, query string) (model.Reply, error) {
	e.calls++
	e.last = query
	return e.reply, e.err
}

type slowEngine struct {
	reply model.Reply
}

func (e *slowEngine) Reply(context.Context, string) (model.Reply, error) {
	time.Sleep(5 * time.Millisecond)
	return e.reply, nil
}

func newTestSession(t *testing.T, opts Options) (*Session, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	opts.Store = store
	opts.Logger = log.New(io.Discard, "", 0)
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	if opts.Typing.BaseChunk == 0 {
		opts.Typing = config.Default().Typing
	}
	return NewSession(opts), store
}

// runExchange drives one full submit/resolve/reveal cycle.
func runExchange(t *testing.T, s *Session, text string) *model.Message {
	t.Helper()
	msg, ok := s.Submit(text)
	if !ok {
		t.Fatalf("Submit(%q) refused", text)
	}
	reply, err := s.Resolve(context.Background(), msg)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	s.BeginReveal(reply)
	for i := 0; i < 10000; i++ {
		if s.Advance() {
			return msg
		}
	}
	t.Fatal("reveal never completed")
	return nil
}

func TestSubmitRejectsBlank(t *testing.T) {
	s, _ := newTestSession(t, Options{Lite: &stubEngine{}})
	if _, ok := s.Submit("   "); ok {
		t.Error("blank input should be dropped")
	}
}

func TestSubmitDroppedWhileBusy(t *testing.T) {
	lite := &stubEngine{reply: model.Reply{Content: "réponse"}}
	s, _ := newTestSession(t, Options{Lite: lite})

	if _, ok := s.Submit("première question"); !ok {
		t.Fatal("first Submit refused")
	}
	if _, ok := s.Submit("deuxième question"); ok {
		t.Error("Submit while busy should be dropped")
	}
	if got := len(s.Messages()); got != 1 {
		t.Errorf("dropped submission still appended: %d messages", got)
	}
}

func TestFullExchange(t *testing.T) {
	lite := &stubEngine{reply: model.Reply{
		Content: "**Connexion Wi-Fi lente**\n\nRedémarrez votre box.",
		Steps:   []string{"Redémarrez la box", "Rapprochez-vous du routeur"},
	}}
	s, store := newTestSession(t, Options{Lite: lite})

	user := runExchange(t, s, "mon wifi est lent")

	if lite.calls != 1 || lite.last != "mon wifi est lent" {
		t.Errorf("engine saw calls=%d last=%q", lite.calls, lite.last)
	}
	if user.Status != model.StatusReceived {
		t.Errorf("user status = %q, want %q", user.Status, model.StatusReceived)
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("conversation has %d messages, want 2", len(msgs))
	}
	last := msgs[1]
	if last.Role != model.RoleAssistant || last.Text != lite.reply.Content {
		t.Errorf("assistant message = %+v", last)
	}
	if len(last.Steps) != 2 {
		t.Errorf("steps not carried: %v", last.Steps)
	}
	if s.State() != StateIdle {
		t.Errorf("state after exchange = %v", s.State())
	}

	// Completed exchange is persisted.
	if got := len(store.History()); got != 2 {
		t.Errorf("persisted history length = %d, want 2", got)
	}
}

func TestModeDispatch(t *testing.T) {
	tests := []struct {
		mode     string
		wantCore bool
	}{
		{config.ModeLite, false},
		{config.ModeCore, true},
		{config.ModePro, true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			lite := &stubEngine{reply: model.Reply{Content: "locale"}}
			core := &stubEngine{reply: model.Reply{Content: "distante"}}
			s, _ := newTestSession(t, Options{Lite: lite, Core: core, Mode: tt.mode})

			runExchange(t, s, "question")

			if tt.wantCore && core.calls != 1 {
				t.Errorf("mode %s: core calls = %d", tt.mode, core.calls)
			}
			if !tt.wantCore && lite.calls != 1 {
				t.Errorf("mode %s: lite calls = %d", tt.mode, lite.calls)
			}
		})
	}
}

func TestSetModePersists(t *testing.T) {
	s, store := newTestSession(t, Options{Lite: &stubEngine{}})
	s.SetMode(config.ModeCore)
	if s.Mode() != config.ModeCore {
		t.Errorf("Mode() = %q", s.Mode())
	}
	if store.Mode() != config.ModeCore {
		t.Errorf("persisted mode = %q", store.Mode())
	}
}

func TestEngineFailure(t *testing.T) {
	lite := &stubEngine{err: errors.New("backend down")}
	s, store := newTestSession(t, Options{Lite: lite})

	msg, ok := s.Submit("ça plante")
	if !ok {
		t.Fatal("Submit refused")
	}
	_, err := s.Resolve(context.Background(), msg)
	if err == nil {
		t.Fatal("Resolve should propagate the engine error")
	}
	s.Fail(err)

	if msg.Status != model.StatusError {
		t.Errorf("user status = %q, want %q", msg.Status, model.StatusError)
	}
	msgs := s.Messages()
	last := msgs[len(msgs)-1]
	if last.Role != model.RoleAssistant || last.Text != errorReply {
		t.Errorf("error bubble = %+v", last)
	}
	if s.State() != StateIdle {
		t.Errorf("state after failure = %v", s.State())
	}
	// A failed exchange never reaches disk.
	if got := len(store.History()); got != 0 {
		t.Errorf("failed exchange persisted: %d entries", got)
	}
	// The session accepts new input again.
	if _, ok := s.Submit("nouvelle tentative"); !ok {
		t.Error("session stuck busy after failure")
	}
}

func TestRevealIsMonotonic(t *testing.T) {
	full := strings.Repeat("é crit ", 60)
	lite := &stubEngine{reply: model.Reply{Content: full}}
	s, _ := newTestSession(t, Options{Lite: lite})

	msg, _ := s.Submit("question")
	reply, _ := s.Resolve(context.Background(), msg)
	target := s.BeginReveal(reply)

	prev := 0
	minChunk := config.Default().Typing.MinChunk
	for !s.Advance() {
		n := util.RuneLen(target.Text)
		if n < prev {
			t.Fatalf("reveal went backwards: %d -> %d", prev, n)
		}
		if n-prev < minChunk {
			t.Fatalf("chunk %d below floor %d", n-prev, minChunk)
		}
		prev = n
	}
	if target.Text != full {
		t.Error("final text differs from reply")
	}
}

func TestRenderMessagePartialFence(t *testing.T) {
	full := "Voici :\n\n```go\nfmt.Println(\"x\")\n```\n\nfini **bien**"
	lite := &stubEngine{reply: model.Reply{Content: full}}
	s, _ := newTestSession(t, Options{
		Lite:   lite,
		Typing: config.Typing{BaseChunk: 12, TickMs: 25, Jitter: 0, MinChunk: 12},
	})

	msg, _ := s.Submit("exemple de code")
	reply, _ := s.Resolve(context.Background(), msg)
	target := s.BeginReveal(reply)

	sawInlineFence := false
	for !s.Advance() {
		html := s.RenderMessage(target)
		if markdown.HasOpenFence(target.Text) {
			sawInlineFence = true
			if strings.Contains(html, "<pre") {
				t.Fatalf("open fence reached the block renderer: %q", html)
			}
		}
	}
	if !sawInlineFence {
		t.Fatal("reveal never paused inside the fence; adjust chunk size")
	}

	// Completed text always gets the full pipeline.
	final := s.RenderMessage(target)
	if want := markdown.Render(full); final != want {
		t.Errorf("final render differs from full pipeline:\n%q\n%q", final, want)
	}
	if !strings.Contains(final, "<pre") {
		t.Error("final render lost the code block")
	}
}

func TestRestoreWelcomeAndHistory(t *testing.T) {
	s, store := newTestSession(t, Options{Lite: &stubEngine{reply: model.Reply{Content: "ok"}}})

	s.Restore()
	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Role != model.RoleAssistant {
		t.Fatalf("fresh restore = %+v", msgs)
	}
	if !strings.Contains(msgs[0].Text, "FIXƆ") {
		t.Errorf("welcome text = %q", msgs[0].Text)
	}

	runExchange(t, s, "question")

	// The welcome bubble is not part of the persisted exchange.
	h := store.History()
	if len(h) != 2 {
		t.Fatalf("persisted %d messages, want 2", len(h))
	}
	if h[0].Role != string(model.RoleUser) {
		t.Errorf("welcome leaked into history: %+v", h[0])
	}

	// A second session restores the real conversation, not the welcome.
	s2 := NewSession(Options{Lite: &stubEngine{}, Store: store, Logger: log.New(io.Discard, "", 0)})
	s2.Restore()
	if got := len(s2.Messages()); got != 2 {
		t.Errorf("restored %d messages, want 2", got)
	}
}

func TestClear(t *testing.T) {
	lite := &stubEngine{reply: model.Reply{Content: "réponse"}}
	s, store := newTestSession(t, Options{Lite: lite})
	runExchange(t, s, "question")

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	msgs := s.Messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0].Text, "FIXƆ") {
		t.Errorf("cleared conversation = %+v", msgs)
	}
	if got := len(store.History()); got != 0 {
		t.Errorf("history survived Clear: %d entries", got)
	}
}

func TestMessageStatusConcurrentWithResolve(t *testing.T) {
	s, _ := newTestSession(t, Options{Lite: &slowEngine{reply: model.Reply{Content: "ok"}}})
	user, ok := s.Submit("question")
	if !ok {
		t.Fatal("Submit refused")
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.Resolve(context.Background(), user)
		done <- err
	}()

	// Poll while Resolve runs; the accessor serializes the read against
	// the status write happening on the other goroutine.
	for s.MessageStatus(user) == model.StatusSent {
		time.Sleep(time.Millisecond)
	}

	if err := <-done; err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := s.MessageStatus(user); got != model.StatusReceived {
		t.Errorf("status after resolve = %q", got)
	}
}
