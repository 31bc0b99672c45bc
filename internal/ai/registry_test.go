// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ailab/internal/models"
)

// mockProvider is a test double implementing the Provider interface.
// It records calls and returns configurable responses.
type mockProvider struct {
	name       string
	response   string
	err        error
	callCount  int
	lastSystem string
	lastUser   string
	mu         sync.Mutex
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.lastSystem = systemPrompt
	m.lastUser = userPrompt
	return m.response, m.err
}

// speakingProvider adds the Speaker capability.
type speakingProvider struct {
	mockProvider
	pcm []byte
}

func (s *speakingProvider) Speak(ctx context.Context, text string) ([]byte, error) {
	return s.pcm, nil
}

// ---------- Registry.Generate ----------

func TestRegistryGenerate(t *testing.T) {
	t.Run("delegates to active provider", func(t *testing.T) {
		mock := &mockProvider{name: "test", response: "Hello from mock"}

		reg := &Registry{
			providers: map[string]Provider{"test": mock},
			active:    "test",
		}

		result, err := reg.Generate(context.Background(), "system", "user")
		if err != nil {
			t.Fatalf("Generate: unexpected error: %v", err)
		}
		if result != "Hello from mock" {
			t.Errorf("result: got %q, want %q", result, "Hello from mock")
		}

		mock.mu.Lock()
		defer mock.mu.Unlock()
		if mock.callCount != 1 {
			t.Errorf("callCount: got %d, want 1", mock.callCount)
		}
		if mock.lastSystem != "system" || mock.lastUser != "user" {
			t.Errorf("prompts: got %q/%q", mock.lastSystem, mock.lastUser)
		}
	})

	t.Run("propagates provider error", func(t *testing.T) {
		mock := &mockProvider{name: "test", err: fmt.Errorf("api failure")}
		reg := &Registry{providers: map[string]Provider{"test": mock}, active: "test"}

		if _, err := reg.Generate(context.Background(), "system", "user"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("no provider", func(t *testing.T) {
		reg := NewRegistry("gemini", nil)
		_, err := reg.Generate(context.Background(), "s", "u")
		if !errors.Is(err, ErrNoProvider) {
			t.Errorf("err = %v, want ErrNoProvider", err)
		}
	})
}

// TestRegistryBasics tests registry provider management without API calls.
func TestRegistryBasics(t *testing.T) {
	reg := NewRegistry("openai", map[string]ProviderConfig{
		"openai": {APIKey: "test-key", Model: "gpt-4o"},
		"claude": {APIKey: "", Model: "claude-sonnet"}, // No key, should be skipped.
	})

	if reg.ActiveName() != "openai" {
		t.Errorf("expected active=openai, got %s", reg.ActiveName())
	}
	if reg.HasProvider("claude") {
		t.Error("claude should not be available (no API key)")
	}
	if diff := cmp.Diff([]string{"openai"}, reg.Available()); diff != "" {
		t.Errorf("Available (-want +got):\n%s", diff)
	}
	if err := reg.SetActive("claude"); err == nil {
		t.Error("SetActive(claude) should fail (no API key)")
	}
}

func TestRegistryFallsBackToPreference(t *testing.T) {
	reg := NewRegistry("gemini", map[string]ProviderConfig{
		"claude": {APIKey: "k"},
		"openai": {APIKey: "k"},
	})
	if reg.ActiveName() != "openai" {
		t.Errorf("active = %q, want openai (first available by preference)", reg.ActiveName())
	}
}

func TestRegistryRegisterAdoptsFirst(t *testing.T) {
	reg := NewRegistry("", nil)
	reg.Register("fake", &mockProvider{name: "fake", response: "ok"})
	if reg.ActiveName() != "fake" {
		t.Errorf("active = %q, want fake", reg.ActiveName())
	}
	reg.Register("other", &mockProvider{name: "other"})
	if reg.ActiveName() != "fake" {
		t.Error("registering a second provider must not switch the active one")
	}
}

func TestRegistryStreamFallback(t *testing.T) {
	mock := &mockProvider{name: "plain", response: "whole reply"}
	reg := &Registry{providers: map[string]Provider{"plain": mock}, active: "plain"}

	history := []models.ChatMessage{
		{Role: models.ChatRoleUser, Text: "hi"},
		{Role: models.ChatRoleAgent, Text: "hello"},
	}
	var got []string
	for delta, err := range reg.Stream(context.Background(), GuardianPrompt, history, "next") {
		if err != nil {
			t.Fatalf("stream error: %v", err)
		}
		got = append(got, delta)
	}
	if diff := cmp.Diff([]string{"whole reply"}, got); diff != "" {
		t.Errorf("deltas (-want +got):\n%s", diff)
	}
	if want := "user: hi\nagent: hello\nuser: next"; mock.lastUser != want {
		t.Errorf("flattened prompt = %q, want %q", mock.lastUser, want)
	}
}

func TestRegistryStreamNoProvider(t *testing.T) {
	reg := NewRegistry("", nil)
	n := 0
	for _, err := range reg.Stream(context.Background(), "", nil, "hi") {
		n++
		if !errors.Is(err, ErrNoProvider) {
			t.Errorf("err = %v, want ErrNoProvider", err)
		}
	}
	if n != 1 {
		t.Errorf("yielded %d elements, want 1", n)
	}
}

func TestRegistrySpeak(t *testing.T) {
	t.Run("falls back to a speaking provider", func(t *testing.T) {
		reg := &Registry{
			providers: map[string]Provider{
				"claude": &mockProvider{name: "claude"},
				"gemini": &speakingProvider{mockProvider: mockProvider{name: "gemini"}, pcm: []byte{1, 2}},
			},
			active: "claude",
		}
		if !reg.SupportsSpeech() {
			t.Fatal("SupportsSpeech = false")
		}
		pcm, err := reg.Speak(context.Background(), "hi")
		if err != nil {
			t.Fatalf("Speak: %v", err)
		}
		if len(pcm) != 2 {
			t.Errorf("pcm length = %d, want 2", len(pcm))
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		reg := &Registry{
			providers: map[string]Provider{"claude": &mockProvider{name: "claude"}},
			active:    "claude",
		}
		if reg.SupportsSpeech() {
			t.Error("SupportsSpeech = true for text-only provider")
		}
		if _, err := reg.Speak(context.Background(), "hi"); !errors.Is(err, ErrUnsupported) {
			t.Errorf("err = %v, want ErrUnsupported", err)
		}
	})
}

func TestRegistryGenerateJSONFallback(t *testing.T) {
	mock := &mockProvider{name: "plain", response: `{"title":"t"}`}
	reg := &Registry{providers: map[string]Provider{"plain": mock}, active: "plain"}

	if _, err := reg.GenerateJSON(context.Background(), "sys", "user", []string{"title", "content"}); err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if !strings.Contains(mock.lastSystem, "title, content") {
		t.Errorf("system prompt lacks field hint: %q", mock.lastSystem)
	}
}

// TestRegistryConcurrentAccess exercises the lock under the race detector.
func TestRegistryConcurrentAccess(t *testing.T) {
	reg := &Registry{
		providers: map[string]Provider{
			"a": &mockProvider{name: "a", response: "a"},
			"b": &mockProvider{name: "b", response: "b"},
		},
		active: "a",
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			reg.Generate(context.Background(), "s", "u")
		}()
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				reg.SetActive("a")
			} else {
				reg.SetActive("b")
			}
		}(i)
	}
	wg.Wait()
}
