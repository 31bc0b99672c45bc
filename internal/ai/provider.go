// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides a unified interface for the hosted LLM services the
// lab talks to (Gemini, OpenAI, Claude). Each provider implements Provider
// and may implement the optional Streamer, Speaker and JSONGenerator
// capabilities; the Registry selects the active one by name.
package ai

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sort"
	"sync"

	"ailab/internal/models"
)

var (
	// ErrNoProvider is returned when no provider has an API key.
	ErrNoProvider = errors.New("ai: no provider configured")

	// ErrUnsupported is returned when the active provider lacks a capability.
	ErrUnsupported = errors.New("ai: capability not supported by provider")
)

// Provider defines the interface that all AI providers must implement.
// Each provider handles its own transport and response parsing.
type Provider interface {
	// Generate sends a prompt to the LLM and returns the generated text.
	// systemPrompt sets the model's behaviour; userPrompt is the user's request.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Name returns the provider identifier (e.g., "openai", "gemini").
	Name() string
}

// Streamer is implemented by providers that can stream a chat reply. The
// returned sequence yields text deltas in order. It is finite, cannot be
// restarted, and yields at most one error, as its last element. Stopping
// the iteration early releases the connection.
type Streamer interface {
	Stream(ctx context.Context, systemPrompt string, history []models.ChatMessage, prompt string) iter.Seq2[string, error]
}

// Speaker is implemented by providers with speech synthesis. Speak returns
// raw little-endian signed 16-bit PCM, mono, at SpeechSampleRate.
type Speaker interface {
	Speak(ctx context.Context, text string) ([]byte, error)
}

// JSONGenerator is implemented by providers that can constrain output to a
// JSON object. fields names the required string properties.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, fields []string) (string, error)
}

// SpeechSampleRate is the sample rate of all synthesized speech.
const SpeechSampleRate = 24000

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	SpeechModel string
}

// preference is the order used when the requested provider is unavailable.
var preference = []string{"gemini", "openai", "claude"}

// Registry manages available AI providers and selects the active one.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
}

// NewRegistry creates a registry and initialises providers for every config
// that has a non-empty API key. Providers without keys are silently skipped.
// When active names a provider that is not available, the first available
// one in preference order is used instead.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		active:    active,
	}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case "openai":
			r.providers[name] = newOpenAI(cfg)
		case "gemini":
			p, err := newGemini(cfg)
			if err != nil {
				slog.Warn("gemini provider disabled", "error", err)
				continue
			}
			r.providers[name] = p
		case "claude":
			r.providers[name] = newClaude(cfg)
		}
	}

	if _, ok := r.providers[r.active]; !ok {
		for _, name := range preference {
			if _, ok := r.providers[name]; ok {
				r.active = name
				break
			}
		}
	}

	return r
}

// Active returns the currently active provider.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("%w for %q", ErrNoProvider, r.active)
	}
	return p, nil
}

// Generate calls the active provider's Generate method.
func (r *Registry) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	return p.Generate(ctx, systemPrompt, userPrompt)
}

// GenerateJSON asks the active provider for a JSON object. Providers
// without a JSON mode get the required fields spelled out in the system
// prompt instead.
func (r *Registry) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, fields []string) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	if jg, ok := p.(JSONGenerator); ok {
		return jg.GenerateJSON(ctx, systemPrompt, userPrompt, fields)
	}
	return p.Generate(ctx, systemPrompt+"\n"+jsonFieldsHint(fields), userPrompt)
}

// Stream streams a chat reply from the active provider. A provider that
// cannot stream answers with a single element holding the whole reply.
func (r *Registry) Stream(ctx context.Context, systemPrompt string, history []models.ChatMessage, prompt string) iter.Seq2[string, error] {
	p, err := r.Active()
	if err != nil {
		return func(yield func(string, error) bool) { yield("", err) }
	}
	if s, ok := p.(Streamer); ok {
		return s.Stream(ctx, systemPrompt, history, prompt)
	}
	return func(yield func(string, error) bool) {
		text, err := p.Generate(ctx, systemPrompt, flatten(history, prompt))
		yield(text, err)
	}
}

// Speak synthesizes text with the active provider, or with any other
// configured provider that can speak when the active one cannot.
func (r *Registry) Speak(ctx context.Context, text string) ([]byte, error) {
	sp, err := r.speaker()
	if err != nil {
		return nil, err
	}
	return sp.Speak(ctx, text)
}

// SupportsSpeech reports whether some configured provider can speak.
func (r *Registry) SupportsSpeech() bool {
	_, err := r.speaker()
	return err == nil
}

func (r *Registry) speaker() (Speaker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if sp, ok := r.providers[r.active].(Speaker); ok {
		return sp, nil
	}
	for _, name := range preference {
		if sp, ok := r.providers[name].(Speaker); ok {
			return sp, nil
		}
	}
	if len(r.providers) == 0 {
		return nil, ErrNoProvider
	}
	return nil, fmt.Errorf("speech: %w", ErrUnsupported)
}

// SetActive switches the active provider at runtime. Returns an error if
// the named provider has no API key configured.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("ai: provider %q is not available (no API key?)", name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// Available returns the sorted names of all providers with valid API keys.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a provider in the registry. This allows injecting
// custom providers at runtime (e.g. for testing). A registry with no active
// provider adopts the first one registered.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
	if _, ok := r.providers[r.active]; !ok {
		r.active = name
	}
}

// HasProvider checks whether a named provider is configured and available.
func (r *Registry) HasProvider(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.providers[name]
	return ok
}

// flatten renders a conversation as a single prompt for providers that
// only accept one.
func flatten(history []models.ChatMessage, prompt string) string {
	if len(history) == 0 {
		return prompt
	}
	var b []byte
	for _, m := range history {
		b = fmt.Appendf(b, "%s: %s\n", m.Role, m.Text)
	}
	b = fmt.Appendf(b, "%s: %s", models.ChatRoleUser, prompt)
	return string(b)
}
