// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"time"

	"google.golang.org/genai"

	"ailab/internal/models"
)

const (
	geminiDefaultModel       = "gemini-3-pro-preview"
	geminiDefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	geminiVoice              = "Kore"
)

// geminiProvider implements Provider, Streamer, Speaker and JSONGenerator
// using the Google GenAI SDK against the Gemini API.
type geminiProvider struct {
	config ProviderConfig
	client *genai.Client
}

// newGemini creates a new Google Gemini provider.
func newGemini(cfg ProviderConfig) (*geminiProvider, error) {
	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = geminiDefaultSpeechModel
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: 5 * time.Minute},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &geminiProvider{config: cfg, client: client}, nil
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) textConfig(systemPrompt string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(float32(generationTemperature)),
	}
}

// Generate sends a generateContent request and returns the response text.
func (p *geminiProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.config.Model, genai.Text(userPrompt), p.textConfig(systemPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini http: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: no text in response")
	}
	return text, nil
}

// GenerateJSON constrains the response to an object whose fields are all
// required strings.
func (p *geminiProvider) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, fields []string) (string, error) {
	props := make(map[string]*genai.Schema, len(fields))
	for _, f := range fields {
		props[f] = &genai.Schema{Type: genai.TypeString}
	}

	cfg := p.textConfig(systemPrompt)
	cfg.ResponseMIMEType = "application/json"
	cfg.ResponseSchema = &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   fields,
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.config.Model, genai.Text(userPrompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini http: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: no text in response")
	}
	return text, nil
}

// Stream yields the text of each streamed response chunk.
func (p *geminiProvider) Stream(ctx context.Context, systemPrompt string, history []models.ChatMessage, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		contents := geminiContents(history, prompt)
		for resp, err := range p.client.Models.GenerateContentStream(ctx, p.config.Model, contents, p.textConfig(systemPrompt)) {
			if err != nil {
				yield("", fmt.Errorf("gemini stream: %w", err))
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

// Speak synthesizes text with the prebuilt Kore voice. The API returns raw
// PCM16 at 24 kHz in the first inline data part.
func (p *geminiProvider) Speak(ctx context.Context, text string) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: geminiVoice},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.config.SpeechModel, genai.Text(text), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini speech http: %w", err)
	}

	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("gemini speech: no audio in response")
}

func geminiContents(history []models.ChatMessage, prompt string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Role == models.ChatRoleAgent {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	return append(contents, genai.NewContentFromText(prompt, genai.RoleUser))
}
