// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package lab holds the per-visitor state of the AI Lab site: the vault and
// marketplace cursors, the navigation state, the sync gate, posts drafted
// by the admin page and the chat transcript. Every user action is a method
// on Session; the HTTP handlers only translate requests into these calls
// and render Snapshot values.
package lab

import (
	"errors"
	"sync"
	"time"

	"ailab/internal/catalog"
	"ailab/internal/gesture"
	"ailab/internal/models"
	"ailab/internal/navigation"
	"ailab/internal/pagination"
	"ailab/internal/syncgate"
)

// List identifies one of the two paginated lists.
type List string

const (
	ListVault  List = "vault"
	ListMarket List = "market"
)

// ParseList converts a URL segment into a List.
func ParseList(s string) (List, error) {
	switch List(s) {
	case ListVault, ListMarket:
		return List(s), nil
	}
	return "", errors.New("lab: unknown list " + s)
}

// Options configures new sessions.
type Options struct {
	// SyncDelay is the transition delay of the sync gate.
	SyncDelay time.Duration

	// AfterFunc overrides the gate's timer source. Nil uses real timers.
	AfterFunc syncgate.AfterFunc

	// Now overrides the wall clock used for speech deadlines. Nil uses
	// time.Now.
	Now func() time.Time
}

// Session is one visitor's state. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	vault  pagination.Cursor
	market pagination.Cursor
	nav    navigation.State
	drafts []models.Post

	chat   []models.ChatMessage
	typing bool

	// speaking holds until EndSpeech or until speakingUntil passes, so a
	// client that never reports the end of playback cannot block speech.
	speaking      bool
	speakingUntil time.Time
	now           func() time.Time

	// scrollTop is set when a gated transition settles and consumed by the
	// next Snapshot, which tells the page to scroll back to the top.
	scrollTop bool

	gate *syncgate.Gate
}

// NewSession returns a session on the home view with both cursors on page 1.
func NewSession(opts Options) *Session {
	s := &Session{
		vault:  pagination.New(catalog.TotalVaultPages),
		market: pagination.New(catalog.TotalMarketPages),
		nav:    navigation.New(),
		chat:   []models.ChatMessage{greeting},
		now:    opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}

	gateOpts := []syncgate.Option{syncgate.WithSettle(s.settle)}
	if opts.AfterFunc != nil {
		gateOpts = append(gateOpts, syncgate.WithAfterFunc(opts.AfterFunc))
	}
	s.gate = syncgate.New(opts.SyncDelay, gateOpts...)
	return s
}

func (s *Session) settle() {
	s.mu.Lock()
	s.scrollTop = true
	s.mu.Unlock()
}

// Close releases the session's timer. A transition still pending is applied
// first.
func (s *Session) Close() {
	s.gate.Close()
}

// Syncing reports whether a gated transition is pending.
func (s *Session) Syncing() bool {
	return s.gate.Locked()
}

// SyncDelay returns the gate delay, which the page uses to schedule its
// refresh.
func (s *Session) SyncDelay() time.Duration {
	return s.gate.Delay()
}

// Snapshot is everything a renderer needs for one response.
type Snapshot struct {
	View     navigation.View
	Category models.Category
	Vault    pagination.Cursor
	Market   pagination.Cursor
	Selected *models.Post

	Posts          []models.Post
	VaultProducts  []models.Product
	MarketProducts []models.Product

	Syncing   bool
	ScrollTop bool
}

// Snapshot captures the current state and regenerates the visible lists.
// A pending scroll-to-top request is consumed.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nav.Normalize()

	snap := Snapshot{
		View:      s.nav.View,
		Category:  s.nav.Category,
		Vault:     s.vault,
		Market:    s.market,
		Syncing:   s.gate.Locked(),
		ScrollTop: s.scrollTop,
	}
	s.scrollTop = false

	if s.nav.Selected != nil {
		p := *s.nav.Selected
		snap.Selected = &p
	}

	switch snap.View {
	case navigation.ViewVault:
		snap.Posts = s.vaultPostsLocked()
		snap.VaultProducts = catalog.VaultProducts(s.vault.Page, catalog.VaultProductsPerPage)
	case navigation.ViewMarket:
		snap.MarketProducts = catalog.MarketProducts(s.market.Page, catalog.MarketPerPage)
	}
	return snap
}

// vaultPostsLocked returns the posts on the current vault page. Drafts
// precede the curated posts on the unfiltered first page.
func (s *Session) vaultPostsLocked() []models.Post {
	posts := catalog.Posts(s.vault.Page, catalog.PostsPerPage, s.nav.Category)
	if s.vault.Page == 1 && s.nav.Category.IsWildcard() && len(s.drafts) > 0 {
		posts = append(append([]models.Post(nil), s.drafts...), posts...)
	}
	return posts
}

// Navigate switches the top-level view immediately. Header navigation is
// not gated.
func (s *Session) Navigate(v navigation.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.Navigate(v)
}

// Page moves the list's cursor by delta through the sync gate. It returns
// false without touching the gate when the cursor is already at the
// boundary in that direction.
func (s *Session) Page(list List, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageLocked(list, delta)
}

// Pager button shortcuts.
func (s *Session) NextVault() bool  { return s.Page(ListVault, 1) }
func (s *Session) PrevVault() bool  { return s.Page(ListVault, -1) }
func (s *Session) NextMarket() bool { return s.Page(ListMarket, 1) }
func (s *Session) PrevMarket() bool { return s.Page(ListMarket, -1) }

func (s *Session) pageLocked(list List, delta int) bool {
	cursor := s.vault
	if list == ListMarket {
		cursor = s.market
	}
	if delta == 0 || !cursor.CanAdvance(delta) {
		return false
	}

	s.gate.Run(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if list == ListMarket {
			s.market = s.market.Advance(delta)
		} else {
			s.vault = s.vault.Advance(delta)
		}
	})
	return true
}

// SetCategory filters the vault by c through the sync gate. When the
// transition lands, the category is set, the vault cursor is back on page
// 1 and the vault is shown, all in one step.
func (s *Session) SetCategory(c models.Category) {
	s.gate.Run(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.nav.ShowCategory(c)
		s.vault = s.vault.Reset()
	})
}

// Swipe routes a touch gesture to the list of the active view. It returns
// the recognized direction, or gesture.None when the touch was ignored or
// the cursor was at the boundary.
func (s *Session) Swipe(t gesture.Touch) gesture.Direction {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := gesture.Route(t, s.nav.View.Paged())
	if dir == gesture.None {
		return gesture.None
	}
	list := ListVault
	if s.nav.View == navigation.ViewMarket {
		list = ListMarket
	}
	if !s.pageLocked(list, dir.Delta()) {
		return gesture.None
	}
	return dir
}

// Select opens the post with the given id. The post must be reachable from
// the current vault page, the curated list or this session's drafts. An
// unknown id leaves the state untouched and reports false.
func (s *Session) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.findPostLocked(id)
	if !ok {
		return false
	}
	s.nav.Select(&post)
	return true
}

// Post looks up a post the visitor can open, without changing the view.
func (s *Session) Post(id string) (models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findPostLocked(id)
}

func (s *Session) findPostLocked(id string) (models.Post, bool) {
	for _, p := range s.vaultPostsLocked() {
		if p.ID == id {
			return p, true
		}
	}
	for _, p := range s.drafts {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.FindCurated(id)
}

// Back returns from the detail view to the vault.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.Back()
}

// AddDraft publishes a drafted post at the top of the unfiltered first
// vault page and shows the vault.
func (s *Session) AddDraft(p models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = append([]models.Post{p}, s.drafts...)
	s.nav.Navigate(navigation.ViewVault)
}

// Drafts returns the posts drafted in this session, newest first.
func (s *Session) Drafts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Post(nil), s.drafts...)
}
