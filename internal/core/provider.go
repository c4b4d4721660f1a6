// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// =============================================================================
// PROVIDER ENUM
// =============================================================================

// Provider is the closed set of completion backends. Dispatch happens by
// switching on the enum inside buildRequest/parseResponse; there is no
// string-keyed lookup to fall through.
type Provider int

const (
	ProviderGroq Provider = iota
	ProviderGemini
	ProviderHuggingFace
)

// Provider endpoints and models.
const (
	groqURL   = "https://api.groq.com/openai/v1/chat/completions"
	groqModel = "llama-3.3-70b-versatile"

	geminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent"

	huggingFaceURL = "https://api-inference.huggingface.co/models/mistralai/Mixtral-8x7B-Instruct-v0.1"
)

// Sampling parameters shared by the providers that accept them.
const (
	completionMaxTokens   = 1024
	completionTemperature = 0.7
)

// Providers lists the variants in declared order.
func Providers() []Provider {
	return []Provider{ProviderGroq, ProviderGemini, ProviderHuggingFace}
}

// String returns the serialized provider name used in config and storage.
func (p Provider) String() string {
	switch p {
	case ProviderGroq:
		return "groq"
	case ProviderGemini:
		return "gemini"
	case ProviderHuggingFace:
		return "huggingface"
	default:
		return "inconnu"
	}
}

// DisplayName returns the human-readable provider name.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderGroq:
		return "Groq"
	case ProviderGemini:
		return "Google Gemini"
	case ProviderHuggingFace:
		return "Hugging Face"
	default:
		return "Inconnu"
	}
}

// ParseProvider maps a serialized name to its Provider.
func ParseProvider(s string) (Provider, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "groq":
		return ProviderGroq, true
	case "gemini":
		return ProviderGemini, true
	case "huggingface":
		return ProviderHuggingFace, true
	default:
		return ProviderGroq, false
	}
}

// Turn is one entry of the rolling conversation window.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Turn roles on the wire.
const (
	turnRoleUser      = "user"
	turnRoleAssistant = "assistant"
)

// =============================================================================
// REQUEST BUILDERS
// =============================================================================

// buildRequest assembles the provider-specific HTTP request for the given
// turns. Chat-style providers get a message array with the system prompt
// up front; single-prompt providers get one concatenated string. Auth is
// a Bearer header except for Gemini, which takes the key as a query
// parameter. A non-empty baseURL replaces the provider endpoint (tests
// point it at a local server).
func (p Provider) buildRequest(ctx context.Context, apiKey, baseURL string, turns []Turn) (*http.Request, error) {
	var (
		url  string
		body any
		auth bool
	)

	endpoint := func(def string) string {
		if baseURL != "" {
			return baseURL
		}
		return def
	}

	switch p {
	case ProviderGroq:
		messages := make([]Turn, 0, len(turns)+1)
		messages = append(messages, Turn{Role: "system", Content: systemPrompt})
		messages = append(messages, turns...)
		url = endpoint(groqURL)
		auth = true
		body = map[string]any{
			"model":       groqModel,
			"messages":    messages,
			"temperature": completionTemperature,
			"max_tokens":  completionMaxTokens,
		}

	case ProviderGemini:
		url = endpoint(geminiURL) + "?key=" + apiKey
		body = map[string]any{
			"contents": []map[string]any{
				{"parts": []map[string]string{{"text": transcript(turns, "")}}},
			},
		}

	case ProviderHuggingFace:
		url = endpoint(huggingFaceURL)
		auth = true
		body = map[string]any{
			"inputs": "<s>[INST] " + transcript(turns, "[/INST]"),
			"parameters": map[string]any{
				"max_new_tokens": completionMaxTokens,
				"temperature":    completionTemperature,
			},
		}

	default:
		return nil, fmt.Errorf("unknown provider %d", p)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	return req, nil
}

// transcript flattens the system prompt and turns into a single prompt
// string for providers without native multi-turn support.
func transcript(turns []Turn, suffix string) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n")
	for _, t := range turns {
		if t.Role == turnRoleUser {
			b.WriteString("Utilisateur: ")
		} else {
			b.WriteString("FIXƆ: ")
		}
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	b.WriteString(suffix)
	return b.String()
}

// =============================================================================
// RESPONSE PARSERS
// =============================================================================

// parseResponse extracts the single completion string from a provider's
// response body, or the upstream error message from a failure body.
func (p Provider) parseResponse(statusCode int, body []byte) (string, error) {
	if statusCode < 200 || statusCode >= 300 {
		return "", &ProviderError{
			Provider:   p,
			StatusCode: statusCode,
			Message:    p.errorMessage(body),
		}
	}

	switch p {
	case ProviderGroq:
		var resp struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(body, &resp); err != nil || len(resp.Choices) == 0 {
			return "", malformed(p, err)
		}
		return resp.Choices[0].Message.Content, nil

	case ProviderGemini:
		var resp struct {
			Candidates []struct {
				Content struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"content"`
			} `json:"candidates"`
		}
		if err := json.Unmarshal(body, &resp); err != nil ||
			len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", malformed(p, err)
		}
		return resp.Candidates[0].Content.Parts[0].Text, nil

	case ProviderHuggingFace:
		var resp []struct {
			GeneratedText string `json:"generated_text"`
		}
		if err := json.Unmarshal(body, &resp); err != nil || len(resp) == 0 {
			return "", malformed(p, err)
		}
		// The generation echoes the prompt; the reply is what follows the
		// final instruction marker.
		parts := strings.Split(resp[0].GeneratedText, "[/INST]")
		return strings.TrimSpace(parts[len(parts)-1]), nil

	default:
		return "", fmt.Errorf("unknown provider %d", p)
	}
}

// errorMessage pulls the upstream error text out of a failure body. The
// chat providers nest it under error.message; Hugging Face uses a bare
// error string.
func (p Provider) errorMessage(body []byte) string {
	if p == ProviderHuggingFace {
		var resp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &resp) == nil && resp.Error != "" {
			return resp.Error
		}
	} else {
		var resp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &resp) == nil && resp.Error.Message != "" {
			return resp.Error.Message
		}
	}
	return "Erreur API " + p.DisplayName()
}

func malformed(p Provider, err error) error {
	pe := &ProviderError{Provider: p, Message: "réponse inattendue de " + p.DisplayName()}
	if err != nil {
		pe.Message = fmt.Sprintf("réponse illisible de %s: %v", p.DisplayName(), err)
	}
	return pe
}
