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
	openAIDefaultModel       = "gpt-4o"
	openAIDefaultSpeechModel = "gpt-4o-mini-tts"
	openAIVoice              = "alloy"
)

// openAIProvider implements Provider, Streamer, Speaker and JSONGenerator
// using the OpenAI REST API.
type openAIProvider struct {
	config ProviderConfig
	client *http.Client
	stream *http.Client
}

// newOpenAI creates a new OpenAI provider.
func newOpenAI(cfg ProviderConfig) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = openAIDefaultSpeechModel
	}
	return &openAIProvider{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
		stream: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (p *openAIProvider) Name() string { return "openai" }

// Generate sends a chat completion request to OpenAI and returns the
// assistant's response text.
func (p *openAIProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := openAIRequest{
		Model:       p.config.Model,
		Messages:    openAIMessages(systemPrompt, nil, userPrompt),
		Temperature: generationTemperature,
	}
	return p.doChat(ctx, body)
}

// GenerateJSON uses JSON mode. OpenAI's json_object mode does not take a
// schema, so the required fields are listed in the system prompt.
func (p *openAIProvider) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, fields []string) (string, error) {
	body := openAIRequest{
		Model:          p.config.Model,
		Messages:       openAIMessages(systemPrompt+"\n"+jsonFieldsHint(fields), nil, userPrompt),
		Temperature:    generationTemperature,
		ResponseFormat: &openAIResponseFormat{Type: "json_object"},
	}
	return p.doChat(ctx, body)
}

// doChat performs the HTTP call to the chat completions endpoint.
func (p *openAIProvider) doChat(ctx context.Context, body openAIRequest) (string, error) {
	resp, err := p.post(ctx, p.client, "/chat/completions", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai read body: %w", err)
	}

	var result openAIResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("openai unmarshal: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}

	return result.Choices[0].Message.Content, nil
}

// Stream requests a streamed chat completion and yields content deltas.
func (p *openAIProvider) Stream(ctx context.Context, systemPrompt string, history []models.ChatMessage, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		body := openAIRequest{
			Model:       p.config.Model,
			Messages:    openAIMessages(systemPrompt, history, prompt),
			Temperature: generationTemperature,
			Stream:      true,
		}
		resp, err := p.post(ctx, p.stream, "/chat/completions", body)
		if err != nil {
			yield("", err)
			return
		}
		defer resp.Body.Close()

		err = readSSE(resp.Body, func(_, data string) error {
			if data == "[DONE]" {
				return errStopStream
			}
			var chunk openAIStreamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				return fmt.Errorf("openai stream unmarshal: %w", err)
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				return nil
			}
			if !yield(chunk.Choices[0].Delta.Content, nil) {
				return errStopStream
			}
			return nil
		})
		if err != nil {
			yield("", fmt.Errorf("openai stream: %w", err))
		}
	}
}

// Speak calls /audio/speech with the raw pcm format, which is 24 kHz
// 16-bit little-endian mono.
func (p *openAIProvider) Speak(ctx context.Context, text string) ([]byte, error) {
	body := openAISpeechRequest{
		Model:          p.config.SpeechModel,
		Input:          text,
		Voice:          openAIVoice,
		ResponseFormat: "pcm",
	}
	resp, err := p.post(ctx, p.client, "/audio/speech", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai speech read body: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("openai speech: empty audio")
	}
	return pcm, nil
}

// post sends a JSON body and returns the response when the status is 200.
// The caller closes the body.
func (p *openAIProvider) post(ctx context.Context, client *http.Client, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("openai marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return resp, nil
}

func openAIMessages(systemPrompt string, history []models.ChatMessage, prompt string) []openAIMessage {
	messages := make([]openAIMessage, 0, len(history)+2)
	messages = append(messages, openAIMessage{Role: "system", Content: systemPrompt})
	for _, m := range history {
		role := "user"
		if m.Role == models.ChatRoleAgent {
			role = "assistant"
		}
		messages = append(messages, openAIMessage{Role: role, Content: m.Text})
	}
	return append(messages, openAIMessage{Role: "user", Content: prompt})
}

// --- OpenAI request/response types ---

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	Temperature    float64               `json:"temperature,omitempty"`
	Stream         bool                  `json:"stream,omitempty"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
}

type openAIChoice struct {
	Message openAIMessage `json:"message"`
}

type openAIStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

type openAISpeechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}
