// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"ailab/internal/models"
	"ailab/internal/navigation"
)

func TestDraft_Success(t *testing.T) {
	env := newTestEnv(t)
	env.Session.Navigate(navigation.ViewAdmin)
	env.Publisher.post = models.Post{
		ID:       "draft-1",
		Title:    "Helix Compression Report",
		Category: models.CategoryResearch,
		Author:   "AGI-Brain-Unit-7",
	}

	rec := env.do(http.MethodPost, "/admin/draft", url.Values{"topic": {"  helix compression  "}}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Publisher.topic != "  helix compression  " {
		t.Errorf("topic = %q", env.Publisher.topic)
	}
	if !strings.Contains(rec.Body.String(), "Helix Compression Report") {
		t.Error("vault should show the drafted post")
	}

	snap := env.Session.Snapshot()
	if snap.View != navigation.ViewVault {
		t.Errorf("view = %q, want vault", snap.View)
	}
	if len(snap.Posts) == 0 || snap.Posts[0].ID != "draft-1" {
		t.Errorf("draft should lead the first vault page")
	}
}

func TestAdminListsSessionDrafts(t *testing.T) {
	env := newTestEnv(t)
	env.Publisher.post = models.Post{ID: "draft-7", Title: "Synaptic Ledger", Category: models.CategoryAGI}

	if rec := env.do(http.MethodPost, "/admin/draft", url.Values{"topic": {"ledgers"}}, true); rec.Code != http.StatusOK {
		t.Fatalf("draft status = %d", rec.Code)
	}

	rec := env.do(http.MethodPost, "/nav/admin", url.Values{}, true)
	body := rec.Body.String()
	if !strings.Contains(body, "Synaptic Ledger") || !strings.Contains(body, `hx-post="/posts/draft-7/select"`) {
		t.Error("admin view should list the drafted post")
	}

	rec = env.do(http.MethodPost, "/posts/draft-7/select", url.Values{}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("select status = %d", rec.Code)
	}
	if v := env.Session.Snapshot().View; v != navigation.ViewDetail {
		t.Errorf("view = %q, want detail", v)
	}
}

func TestDraft_ProviderError(t *testing.T) {
	env := newTestEnv(t)
	env.Session.Navigate(navigation.ViewAdmin)
	env.Publisher.err = errors.New("gemini http: 503")

	rec := env.do(http.MethodPost, "/admin/draft", url.Values{"topic": {"quantum ink"}}, true)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("HX-Trigger"); !strings.Contains(got, draftFailedAlert) {
		t.Errorf("HX-Trigger = %q", got)
	}
	if len(env.Session.Drafts()) != 0 {
		t.Error("failed draft must not be added")
	}
	if v := env.Session.Snapshot().View; v != navigation.ViewAdmin {
		t.Errorf("view = %q, want admin", v)
	}
}

func TestDraft_ProviderErrorPlainPost(t *testing.T) {
	env := newTestEnv(t)
	env.Publisher.err = errors.New("down")

	rec := env.do(http.MethodPost, "/admin/draft", url.Values{"topic": {"quantum ink"}}, false)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestDraft_Validation(t *testing.T) {
	env := newTestEnv(t)

	for _, topic := range []string{"", "   ", strings.Repeat("x", maxTopicLen+1)} {
		rec := env.do(http.MethodPost, "/admin/draft", url.Values{"topic": {topic}}, false)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("topic len %d: status = %d, want 422", len(topic), rec.Code)
		}
	}
	if env.Publisher.topic != "" {
		t.Error("invalid topics must not reach the provider")
	}
}

func TestSetProvider(t *testing.T) {
	env := newTestEnv(t)
	env.Registry.Register("backup", &mockAssistant{})
	env.Session.Navigate(navigation.ViewAdmin)

	rec := env.do(http.MethodPost, "/admin/provider", url.Values{"provider": {"backup"}}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := env.Registry.ActiveName(); got != "backup" {
		t.Errorf("active = %q, want backup", got)
	}
	if !strings.Contains(rec.Body.String(), `value="backup" selected`) {
		t.Error("selector should show the new provider")
	}

	rec = env.do(http.MethodPost, "/admin/provider", url.Values{"provider": {"nonexistent"}}, true)
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "ailab:alert") {
		t.Error("unknown provider should raise an alert")
	}
	if got := env.Registry.ActiveName(); got != "backup" {
		t.Errorf("active = %q after failed switch", got)
	}

	rec = env.do(http.MethodPost, "/admin/provider", url.Values{}, false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing provider status = %d, want 400", rec.Code)
	}
}
