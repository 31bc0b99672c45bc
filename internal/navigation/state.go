// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package navigation tracks which screen a visitor is looking at, the post
// they opened, and the active vault category. The one invariant it guards:
// a post is selected exactly when the detail view is active.
package navigation

import (
	"fmt"
	"strings"

	"ailab/internal/models"
)

// View enumerates the screens of the site.
type View string

const (
	ViewHome   View = "home"
	ViewVault  View = "vault"
	ViewMarket View = "market"
	ViewAdmin  View = "admin"
	ViewDetail View = "detail"
)

// viewAliases maps the legacy screen names still used in old links.
var viewAliases = map[string]View{
	"blog":        ViewVault,
	"post":        ViewDetail,
	"marketplace": ViewMarket,
}

// ParseView converts a URL segment into a View.
func ParseView(s string) (View, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch v := View(s); v {
	case ViewHome, ViewVault, ViewMarket, ViewAdmin, ViewDetail:
		return v, nil
	}
	if v, ok := viewAliases[s]; ok {
		return v, nil
	}
	return "", fmt.Errorf("navigation: unknown view %q", s)
}

// Paged reports whether the view shows a paginated list, i.e. whether
// swipe gestures apply to it.
func (v View) Paged() bool {
	return v == ViewVault || v == ViewMarket
}

// State is the navigation state of one session. The zero value is not
// valid; use New.
type State struct {
	View     View
	Selected *models.Post
	Category models.Category
}

// New returns the initial state: home, nothing selected, no filter.
func New() State {
	return State{View: ViewHome, Category: models.CategoryAll}
}

// Navigate switches to one of the top-level views. Entering detail through
// Navigate is not allowed because it carries no post; it falls back to the
// vault instead.
func (s *State) Navigate(v View) {
	if v == ViewDetail {
		v = ViewVault
	}
	s.View = v
	s.Selected = nil
}

// Select opens a post. The view and the selection change together; a nil
// post falls back to the vault.
func (s *State) Select(p *models.Post) {
	if p == nil {
		s.Navigate(ViewVault)
		return
	}
	post := *p
	s.Selected = &post
	s.View = ViewDetail
}

// Back leaves the detail view for the vault.
func (s *State) Back() {
	s.View = ViewVault
	s.Selected = nil
}

// ShowCategory is the compound shortcut transition: filter the vault by c
// and show the vault. The caller resets the vault cursor in the same
// critical section.
func (s *State) ShowCategory(c models.Category) {
	if c == "" {
		c = models.CategoryAll
	}
	s.Category = c
	s.View = ViewVault
	s.Selected = nil
}

// Normalize repairs a state that violates the detail/selection invariant by
// falling back to the vault. It reports whether a repair happened.
func (s *State) Normalize() bool {
	switch {
	case s.View == ViewDetail && s.Selected == nil:
		s.View = ViewVault
		return true
	case s.View != ViewDetail && s.Selected != nil:
		s.Selected = nil
		return true
	}
	return false
}

// Valid reports whether the detail/selection invariant holds.
func (s State) Valid() bool {
	return (s.View == ViewDetail) == (s.Selected != nil)
}
