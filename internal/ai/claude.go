// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"time"

	"ailab/internal/models"
)

const (
	claudeDefaultModel = "claude-sonnet-4-5"
	claudeAPIVersion   = "2023-06-01"
	claudeMaxTokens    = 4096
)

// claudeProvider implements Provider and Streamer using the Anthropic
// Messages API (POST /v1/messages). Claude has no speech synthesis.
type claudeProvider struct {
	config ProviderConfig
	client *http.Client
	stream *http.Client
}

// newClaude creates a new Anthropic Claude provider.
func newClaude(cfg ProviderConfig) *claudeProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Model == "" {
		cfg.Model = claudeDefaultModel
	}
	return &claudeProvider{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
		stream: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (p *claudeProvider) Name() string { return "claude" }

// Generate sends a single-turn message and returns the first text block.
func (p *claudeProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := claudeRequest{
		Model:       p.config.Model,
		MaxTokens:   claudeMaxTokens,
		System:      systemPrompt,
		Messages:    claudeMessages(nil, userPrompt),
		Temperature: generationTemperature,
	}

	resp, err := p.post(ctx, p.client, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("claude read body: %w", err)
	}

	var result claudeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("claude unmarshal: %w", err)
	}

	for _, block := range result.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("claude: no text content in response")
}

// Stream sends the conversation with stream enabled and yields the text of
// every content_block_delta event. An error event ends the stream with an
// error.
func (p *claudeProvider) Stream(ctx context.Context, systemPrompt string, history []models.ChatMessage, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		body := claudeRequest{
			Model:       p.config.Model,
			MaxTokens:   claudeMaxTokens,
			System:      systemPrompt,
			Messages:    claudeMessages(history, prompt),
			Temperature: generationTemperature,
			Stream:      true,
		}
		resp, err := p.post(ctx, p.stream, body)
		if err != nil {
			yield("", err)
			return
		}
		defer resp.Body.Close()

		err = readSSE(resp.Body, func(event, data string) error {
			var ev claudeStreamEvent
			if err := json.Unmarshal([]byte(data), &ev); err != nil {
				return fmt.Errorf("claude stream unmarshal: %w", err)
			}
			if ev.Type == "" {
				ev.Type = event
			}

			switch ev.Type {
			case "content_block_delta":
				if ev.Delta.Type != "text_delta" || ev.Delta.Text == "" {
					return nil
				}
				if !yield(ev.Delta.Text, nil) {
					return errStopStream
				}
			case "message_stop":
				return errStopStream
			case "error":
				return fmt.Errorf("claude stream error: %s: %s", ev.Error.Type, ev.Error.Message)
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

func (p *claudeProvider) post(ctx context.Context, client *http.Client, body claudeRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("claude marshal: %w", err)
	}

	url := p.config.BaseURL + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("claude request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.config.APIKey)
	req.Header.Set("anthropic-version", claudeAPIVersion)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("claude http: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("claude API error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return resp, nil
}

// claudeMessages maps the transcript onto Claude's alternating roles.
func claudeMessages(history []models.ChatMessage, prompt string) []claudeMessage {
	messages := make([]claudeMessage, 0, len(history)+1)
	for _, m := range history {
		role := "user"
		if m.Role == models.ChatRoleAgent {
			role = "assistant"
		}
		messages = append(messages, claudeMessage{Role: role, Content: m.Text})
	}
	return append(messages, claudeMessage{Role: "user", Content: prompt})
}

// --- Anthropic Messages API types ---

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	Stream      bool            `json:"stream,omitempty"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeResponse struct {
	Content []claudeContentBlock `json:"content"`
}

type claudeStreamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
