// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers translates HTTP requests into operations on the
// visitor's lab.Session and renders the resulting view.
package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ailab/internal/cache"
	"ailab/internal/catalog"
	"ailab/internal/gesture"
	"ailab/internal/lab"
	"ailab/internal/middleware"
	"ailab/internal/models"
	"ailab/internal/navigation"
	"ailab/internal/render"
	"ailab/internal/stats"
)

// Fragment cache namespaces for the pre-rendered product grids.
const (
	gridVaultProducts = "vault-products"
	gridMarket        = "market"
)

var viewTitles = map[navigation.View]string{
	navigation.ViewHome:   "Neurological Frontier",
	navigation.ViewVault:  "Research Vault",
	navigation.ViewMarket: "Asset Market",
	navigation.ViewAdmin:  "Research Uplink",
	navigation.ViewDetail: "Construct",
}

// Site groups the handlers for browsing: navigation, paging, category
// filters, swipes, post selection, checkout links and the live counters.
type Site struct {
	renderer    *render.Renderer
	stats       *stats.Simulator
	grids       *cache.FragmentCache
	providers   providerLister
	checkoutURL string
}

// providerLister reports the configured AI providers for the admin view.
type providerLister interface {
	Available() []string
	ActiveName() string
}

// NewSite creates the browsing handler group. grids may wrap a nil Valkey
// client, in which case every grid is rendered on demand. providers may be
// nil.
func NewSite(renderer *render.Renderer, sim *stats.Simulator, grids *cache.FragmentCache, providers providerLister, checkoutURL string) *Site {
	return &Site{
		renderer:    renderer,
		stats:       sim,
		grids:       grids,
		providers:   providers,
		checkoutURL: checkoutURL,
	}
}

// Index renders the session's current view.
func (s *Site) Index(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}
	s.render(w, r, sess)
}

// Navigate switches to the view named in the URL. Unknown views fall back
// to the vault.
func (s *Site) Navigate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	v, err := navigation.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		slog.Debug("unknown view, showing vault", "view", chi.URLParam(r, "view"))
		v = navigation.ViewVault
	}
	sess.Navigate(v)
	s.respond(w, r, sess)
}

// Page moves the vault or market cursor one page forward or back. The move
// is gated; while a transition is in flight the newest request wins.
func (s *Site) Page(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	list, err := lab.ParseList(chi.URLParam(r, "list"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var move func() bool
	switch dir := chi.URLParam(r, "dir"); {
	case list == lab.ListVault && dir == "next":
		move = sess.NextVault
	case list == lab.ListVault && dir == "prev":
		move = sess.PrevVault
	case list == lab.ListMarket && dir == "next":
		move = sess.NextMarket
	case list == lab.ListMarket && dir == "prev":
		move = sess.PrevMarket
	default:
		http.NotFound(w, r)
		return
	}

	if !move() {
		slog.Debug("page move at boundary", "list", list, "dir", chi.URLParam(r, "dir"))
	}
	s.respond(w, r, sess)
}

// Category shows the vault filtered to one category, starting on page 1.
func (s *Site) Category(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	c, ok := models.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		http.Error(w, "unknown category", http.StatusBadRequest)
		return
	}
	sess.SetCategory(c)
	s.respond(w, r, sess)
}

// Swipe routes a finished touch to the active list. The form carries the x
// coordinates "start" and "end"; either may be missing.
func (s *Site) Swipe(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	t := gesture.Touch{
		Start: formFloat(r, "start"),
		End:   formFloat(r, "end"),
	}
	if dir := sess.Swipe(t); dir != gesture.None {
		slog.Debug("swipe", "direction", dir.String())
	}
	s.respond(w, r, sess)
}

// Select opens a post in the detail view. Unknown ids leave the view as
// it was.
func (s *Site) Select(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id := chi.URLParam(r, "id")
	if !sess.Select(id) {
		slog.Debug("select: post not visible", "id", id)
	}
	s.respond(w, r, sess)
}

// Back leaves the detail view for the vault.
func (s *Site) Back(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	sess.Back()
	s.respond(w, r, sess)
}

// Buy sends the visitor to the checkout page. Every product shares it.
func (s *Site) Buy(w http.ResponseWriter, r *http.Request) {
	slog.Info("checkout", "product_id", chi.URLParam(r, "id"))
	http.Redirect(w, r, s.checkoutURL, http.StatusSeeOther)
}

// Stats returns the live counters as JSON.
func (s *Site) Stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(s.stats.Snapshot()); err != nil {
		slog.Error("encode stats", "error", err)
	}
}

// Ticker renders the live counter strip on the home view.
func (s *Site) Ticker(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	s.renderer.WriteFragment(w, "ticker", s.stats.Snapshot())
}

// respond answers a state-changing request. HTMX requests get the new
// view; plain form posts are redirected to it.
func (s *Site) respond(w http.ResponseWriter, r *http.Request, sess *lab.Session) {
	if !render.IsHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, sess)
}

// render builds the page data for the session's current view.
func (s *Site) render(w http.ResponseWriter, r *http.Request, sess *lab.Session) {
	snap := sess.Snapshot()

	data := &render.PageData{
		Title:       viewTitles[snap.View],
		Snap:        snap,
		Stats:       s.stats.Snapshot(),
		SyncDelay:   sess.SyncDelay(),
		CheckoutURL: s.checkoutURL,
	}
	if !render.IsHTMX(r) {
		data.Chat = render.ChatData{
			Messages: sess.Messages(),
			Typing:   sess.Typing(),
			Speaking: sess.Speaking(),
		}
	}

	var err error
	switch snap.View {
	case navigation.ViewHome:
		data.Featured = catalog.FeaturedProducts()
	case navigation.ViewVault:
		data.Grid, err = s.grid(r, gridVaultProducts, snap.Vault.Page, snap.VaultProducts)
	case navigation.ViewMarket:
		data.Grid, err = s.grid(r, gridMarket, snap.Market.Page, snap.MarketProducts)
	case navigation.ViewAdmin:
		data.Drafts = sess.Drafts()
		if s.providers != nil {
			data.Providers = s.providers.Available()
			data.ActiveProvider = s.providers.ActiveName()
		}
	}
	if err != nil {
		slog.Error("render product grid", "view", snap.View, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.renderer.Page(w, r, string(snap.View), data)
}

// grid returns the rendered product grid for one page. Generation is
// deterministic, so the fragment is cached per list and page.
func (s *Site) grid(r *http.Request, list string, page int, products []models.Product) (template.HTML, error) {
	key := cache.FragmentKey(list, page, "")
	html, err := s.grids.GetOrRender(r.Context(), key, func() ([]byte, error) {
		return s.renderer.Fragment("product_grid", products)
	})
	if err != nil {
		return "", err
	}
	return template.HTML(html), nil
}

// formFloat parses an optional numeric form field.
func formFloat(r *http.Request, name string) *float64 {
	v := r.FormValue(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
