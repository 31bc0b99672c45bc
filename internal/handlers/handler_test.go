// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: a scripted AI assistant, a fake gate clock and a router wired the
// way the server wires it, minus the session cookie.
package handlers

import (
	"context"
	"iter"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"ailab/internal/ai"
	"ailab/internal/cache"
	"ailab/internal/lab"
	"ailab/internal/middleware"
	"ailab/internal/models"
	"ailab/internal/render"
	"ailab/internal/stats"
	"ailab/internal/syncgate"
)

const testCheckoutURL = "https://checkout.example.com/pay"

// mockAssistant implements ai.Provider, ai.Streamer and ai.Speaker.
type mockAssistant struct {
	mu sync.Mutex

	reply   string
	deltas  []string
	err     error
	pcm     []byte
	speakEr error

	lastSystem string
	speakCalls int
}

func (m *mockAssistant) Name() string { return "mock" }

func (m *mockAssistant) Generate(_ context.Context, systemPrompt, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSystem = systemPrompt
	return m.reply, m.err
}

func (m *mockAssistant) Stream(_ context.Context, systemPrompt string, _ []models.ChatMessage, _ string) iter.Seq2[string, error] {
	m.mu.Lock()
	m.lastSystem = systemPrompt
	m.mu.Unlock()
	return func(yield func(string, error) bool) {
		for _, d := range m.deltas {
			if !yield(d, nil) {
				return
			}
		}
		if m.err != nil {
			yield("", m.err)
		}
	}
}

func (m *mockAssistant) Speak(_ context.Context, _ string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speakCalls++
	return m.pcm, m.speakEr
}

// mockPublisher returns a canned post or error.
type mockPublisher struct {
	post  models.Post
	err   error
	topic string
}

func (m *mockPublisher) Publish(_ context.Context, topic string) (models.Post, error) {
	m.topic = topic
	return m.post, m.err
}

// fakeClock hands out gate timers that fire only on elapse, and a wall
// clock that moves only on advance.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
	now    time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeTimer struct {
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *fakeClock) AfterFunc(_ time.Duration, f func()) syncgate.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) elapse() {
	c.mu.Lock()
	timers := c.timers
	c.timers = nil
	c.mu.Unlock()
	for _, t := range timers {
		if !t.stopped {
			t.f()
		}
	}
}

// testEnv holds one visitor's session and the handler groups under test.
type testEnv struct {
	Session   *lab.Session
	Clock     *fakeClock
	AI        *mockAssistant
	Publisher *mockPublisher
	Registry  *ai.Registry
	Site      *Site
	Admin     *Admin
	Chat      *Chat
	Router    chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	clock := &fakeClock{}
	sess := lab.NewSession(lab.Options{SyncDelay: 500 * time.Millisecond, AfterFunc: clock.AfterFunc, Now: clock.Now})
	t.Cleanup(sess.Close)

	mock := &mockAssistant{}
	registry := ai.NewRegistry("", nil)
	registry.Register("mock", mock)

	env := &testEnv{
		Session:   sess,
		Clock:     clock,
		AI:        mock,
		Publisher: &mockPublisher{},
		Registry:  registry,
	}
	env.Site = NewSite(renderer, stats.New(0), cache.NewFragmentCache(nil, 0), registry, testCheckoutURL)
	env.Admin = NewAdmin(env.Site, env.Publisher, registry)
	env.Chat = NewChat(renderer, mock, cache.NewSpeechCache(nil, 0))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), middleware.SessionKey, sess)
			ctx = context.WithValue(ctx, middleware.CSRFTokenKey, "test-token")
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/", env.Site.Index)
	r.Post("/nav/{view}", env.Site.Navigate)
	r.Post("/{list:vault|market}/{dir:next|prev}", env.Site.Page)
	r.Post("/vault/category/{category}", env.Site.Category)
	r.Post("/swipe", env.Site.Swipe)
	r.Post("/posts/{id}/select", env.Site.Select)
	r.Post("/posts/{id}/ask", env.Chat.Ask)
	r.Post("/back", env.Site.Back)
	r.Get("/buy/{id}", env.Site.Buy)
	r.Get("/stats", env.Site.Stats)
	r.Get("/stats/ticker", env.Site.Ticker)
	r.Post("/admin/draft", env.Admin.Draft)
	r.Post("/admin/provider", env.Admin.SetProvider)
	r.Get("/chat", env.Chat.Messages)
	r.Post("/chat/messages", env.Chat.Send)
	r.Post("/chat/speech", env.Chat.Speech)
	r.Post("/chat/speech/ended", env.Chat.SpeechEnded)
	env.Router = r

	return env
}

// do sends a request through the router. A nil form sends no body.
func (e *testEnv) do(method, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}
