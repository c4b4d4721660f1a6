// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/fixo-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrProvider is the sentinel all provider failures match with errors.Is.
var ErrProvider = errors.New("provider request failed")

// ProviderError carries the upstream failure detail for a completion
// call. StatusCode is zero when the failure was a malformed success body.
type ProviderError struct {
	Provider   Provider
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Provider.DisplayName(), e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider.DisplayName(), e.Message)
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// =============================================================================
// CLIENT
// =============================================================================

const (
	// maxHistoryTurns bounds the rolling context window. Oldest turns are
	// evicted first.
	maxHistoryTurns = 10

	// maxResponseBytes bounds how much of a provider response we read.
	// SECURITY: Prevents memory exhaustion from malicious/buggy responses.
	maxResponseBytes = 10 * 1024 * 1024
)

// sharedTransport pools connections across clients.
// PERFORMANCE: Reusing connections avoids TLS handshake overhead.
var sharedTransport = &http.Transport{
	MaxIdleConns:        10,
	MaxIdleConnsPerHost: 5,
	IdleConnTimeout:     90 * time.Second,
}

// Client is the remote completion engine. It owns the rolling context:
// the user turn goes in before the call and stays there on failure, so
// the next attempt retries with the same window. Safe for use from the
// orchestrator's background commands.
type Client struct {
	mu         sync.Mutex
	provider   Provider
	apiKey     string
	baseURL    string
	history    []Turn
	maxHistory int

	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a completion client for the given provider. The
// credential may be empty; Reply then answers with setup guidance
// instead of calling out.
func NewClient(provider Provider, apiKey string) *Client {
	return &Client{
		provider:   provider,
		apiKey:     apiKey,
		maxHistory: maxHistoryTurns,
		httpClient: &http.Client{Transport: sharedTransport},
		// Completion endpoints are shared free tiers; stay polite.
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// WithHTTPClient overrides the HTTP client. Used by tests to point at a
// local server.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithBaseURL overrides the provider endpoint. Used by tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// WithMaxHistory overrides the rolling context capacity.
func (c *Client) WithMaxHistory(n int) *Client {
	if n > 0 {
		c.maxHistory = n
	}
	return c
}

// WithLimiter overrides the client-side rate limiter. A nil limiter
// disables waiting.
func (c *Client) WithLimiter(l *rate.Limiter) *Client {
	c.limiter = l
	return c
}

// SetProvider switches the active provider. The rolling context is kept:
// the conversation continues, only the backend changes.
func (c *Client) SetProvider(p Provider) {
	c.mu.Lock()
	c.provider = p
	c.mu.Unlock()
}

// SetAPIKey installs the credential for subsequent calls.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = key
	c.mu.Unlock()
}

// Provider returns the active provider.
func (c *Client) Provider() Provider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.provider
}

// IsConfigured reports whether a credential is present.
func (c *Client) IsConfigured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKey != ""
}

// APIKeyMasked returns a displayable fingerprint of the credential.
// SECURITY: The key itself never appears in logs or the settings view.
func (c *Client) APIKeyMasked() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.apiKey == "" {
		return "(non configurée)"
	}
	sum := sha256.Sum256([]byte(c.apiKey))
	return "sha256:" + hex.EncodeToString(sum[:4])
}

// History returns a copy of the rolling context.
func (c *Client) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.history))
	copy(out, c.history)
	return out
}

// ResetHistory clears the rolling context.
func (c *Client) ResetHistory() {
	c.mu.Lock()
	c.history = nil
	c.mu.Unlock()
}

// Reply forwards the query to the active provider and returns the
// completion. Behavior on the edges:
//   - no credential: returns the setup guidance as a normal reply
//   - HTTP or parse failure: returns a ProviderError; the user turn
//     stays in the rolling context so the next call retries with it
//   - no retries, no timeout beyond the transport default
func (c *Client) Reply(ctx context.Context, query string) (model.Reply, error) {
	if !c.IsConfigured() {
		return model.Reply{Content: notConfiguredGuidance}, nil
	}

	c.mu.Lock()
	c.history = append(c.history, Turn{Role: turnRoleUser, Content: query})
	c.trimLocked()
	turns := make([]Turn, len(c.history))
	copy(turns, c.history)
	provider := c.provider
	apiKey := c.apiKey
	c.mu.Unlock()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return model.Reply{}, err
		}
	}

	req, err := provider.buildRequest(ctx, apiKey, c.baseURL, turns)
	if err != nil {
		return model.Reply{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Reply{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return model.Reply{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	text, err := provider.parseResponse(resp.StatusCode, body)
	if err != nil {
		return model.Reply{}, err
	}

	c.mu.Lock()
	c.history = append(c.history, Turn{Role: turnRoleAssistant, Content: text})
	c.trimLocked()
	c.mu.Unlock()

	return model.Reply{Content: text}, nil
}

// trimLocked evicts the oldest turns past capacity. Caller holds mu.
func (c *Client) trimLocked() {
	if len(c.history) > c.maxHistory {
		c.history = c.history[len(c.history)-c.maxHistory:]
	}
}
