// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ailab/internal/middleware"
	"ailab/internal/models"
	"ailab/internal/render"
)

// aiTimeout bounds one-shot provider calls. Streaming chat is bounded by
// the client connection instead.
const aiTimeout = 90 * time.Second

const draftFailedAlert = "Neural uplink error."

// publisher drafts a vault post about a topic.
type publisher interface {
	Publish(ctx context.Context, topic string) (models.Post, error)
}

// providerSwitcher changes the active AI provider.
type providerSwitcher interface {
	SetActive(name string) error
}

// Admin groups the research uplink handlers: drafting posts with the AI
// provider and choosing which provider answers.
type Admin struct {
	site      *Site
	drafter   publisher
	providers providerSwitcher
}

// NewAdmin creates the admin handler group. Views are rendered through
// site.
func NewAdmin(site *Site, drafter publisher, providers providerSwitcher) *Admin {
	return &Admin{site: site, drafter: drafter, providers: providers}
}

// Draft asks the provider for a research report about the submitted topic,
// prepends it to the vault and shows the vault. Failures leave the session
// untouched and raise an alert.
func (a *Admin) Draft(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	topic := r.FormValue("topic")
	if msg := validateTopic(topic); msg != "" {
		fail(w, r, http.StatusUnprocessableEntity, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), aiTimeout)
	defer cancel()

	post, err := a.drafter.Publish(ctx, topic)
	if err != nil {
		slog.Error("draft post failed", "error", err)
		fail(w, r, http.StatusBadGateway, draftFailedAlert)
		return
	}

	slog.Info("post drafted", "post_id", post.ID, "category", post.Category)
	sess.AddDraft(post)
	a.site.respond(w, r, sess)
}

// SetProvider switches the active AI provider at runtime and re-renders
// the current view.
func (a *Admin) SetProvider(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	name := strings.TrimSpace(r.FormValue("provider"))
	if name == "" {
		fail(w, r, http.StatusBadRequest, "No provider specified.")
		return
	}
	if err := a.providers.SetActive(name); err != nil {
		slog.Warn("switch ai provider failed", "provider", name, "error", err)
		fail(w, r, http.StatusBadRequest, fmt.Sprintf("Provider %q is not available.", name))
		return
	}

	slog.Info("ai provider switched", "provider", name)
	a.site.respond(w, r, sess)
}

// fail reports an error without changing the page. HTMX callers get an
// alert event and no swap; other callers get a plain error response.
func fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if render.IsHTMX(r) {
		setAlert(w, msg)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Error(w, msg, status)
}

// setAlert raises the client-side alert event through HX-Trigger.
func setAlert(w http.ResponseWriter, msg string) {
	b, err := json.Marshal(map[string]string{"ailab:alert": msg})
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(b))
}
