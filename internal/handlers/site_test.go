package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"ailab/internal/models"
	"ailab/internal/navigation"
	"ailab/internal/stats"
)

func TestIndexFullPage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<!DOCTYPE html>", "1,290,384,756,201", `id="chat"`, "Neurological sync established."} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
}

func TestNavigate(t *testing.T) {
	tests := []struct {
		name string
		path string
		want navigation.View
		body string
	}{
		{"market", "/nav/market", navigation.ViewMarket, "auto-p-100"},
		{"vault", "/nav/vault", navigation.ViewVault, "rivermind-1"},
		{"admin", "/nav/admin", navigation.ViewAdmin, "/admin/draft"},
		{"unknown falls back to vault", "/nav/nowhere", navigation.ViewVault, "rivermind-1"},
		{"detail without post falls back to vault", "/nav/detail", navigation.ViewVault, "rivermind-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(http.MethodPost, tt.path, url.Values{}, true)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if v := env.Session.Snapshot().View; v != tt.want {
				t.Errorf("view = %q, want %q", v, tt.want)
			}
			body := rec.Body.String()
			if strings.Contains(body, "<!DOCTYPE html>") {
				t.Error("HTMX navigation should render a partial")
			}
			if !strings.Contains(body, tt.body) {
				t.Errorf("body missing %q", tt.body)
			}
		})
	}
}

func TestNonHTMXPostRedirects(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/nav/market", url.Values{}, false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q", loc)
	}
	if v := env.Session.Snapshot().View; v != navigation.ViewMarket {
		t.Errorf("view = %q, want market", v)
	}
}

func TestPageIsGated(t *testing.T) {
	env := newTestEnv(t)
	env.Session.Navigate(navigation.ViewMarket)

	rec := env.do(http.MethodPost, "/market/next", url.Values{}, true)
	body := rec.Body.String()
	if !strings.Contains(body, "load delay:500ms") {
		t.Error("gated move should render the sync overlay")
	}
	if !env.Session.Syncing() {
		t.Fatal("session should be syncing")
	}

	// A second request while locked replaces the pending one.
	env.do(http.MethodPost, "/market/next", url.Values{}, true)
	env.Clock.elapse()

	snap := env.Session.Snapshot()
	if snap.Market.Page != 2 {
		t.Errorf("market page = %d, want 2", snap.Market.Page)
	}
	if !snap.ScrollTop {
		t.Error("settled transition should request scroll to top")
	}

	rec = env.do(http.MethodGet, "/", nil, true)
	if !strings.Contains(rec.Body.String(), "auto-p-200") {
		t.Error("market page 2 should list auto-p-200")
	}
}

func TestPrevAtFirstPageIsNoop(t *testing.T) {
	env := newTestEnv(t)
	env.Session.Navigate(navigation.ViewVault)

	env.do(http.MethodPost, "/vault/prev", url.Values{}, true)
	if env.Session.Syncing() {
		t.Error("prev on page 1 should not lock the gate")
	}
}

func TestVaultPagerRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.Session.Navigate(navigation.ViewVault)

	env.do(http.MethodPost, "/vault/next", url.Values{}, true)
	env.Clock.elapse()
	if got := env.Session.Snapshot().Vault.Page; got != 2 {
		t.Fatalf("vault page after next = %d, want 2", got)
	}

	env.do(http.MethodPost, "/vault/prev", url.Values{}, true)
	env.Clock.elapse()
	if got := env.Session.Snapshot().Vault.Page; got != 1 {
		t.Errorf("vault page after prev = %d, want 1", got)
	}
	if got := env.Session.Snapshot().Market.Page; got != 1 {
		t.Errorf("market page moved with the vault: %d", got)
	}
}

func TestPageUnknownList(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/admin/next", url.Values{}, true)
	if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 404 or 405", rec.Code)
	}
}

func TestCategory(t *testing.T) {
	env := newTestEnv(t)
	env.Session.Navigate(navigation.ViewMarket)

	env.do(http.MethodPost, "/vault/category/agi", url.Values{}, true)
	env.Clock.elapse()

	snap := env.Session.Snapshot()
	if snap.View != navigation.ViewVault || snap.Category != models.CategoryAGI || snap.Vault.Page != 1 {
		t.Errorf("snapshot = view %q category %q page %d", snap.View, snap.Category, snap.Vault.Page)
	}

	rec := env.do(http.MethodPost, "/vault/category/ASTROLOGY", url.Values{}, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown category status = %d, want 400", rec.Code)
	}
}

func TestSwipe(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantPage   int
	}{
		{"left swipe pages forward", "300", "100", 2},
		{"exact threshold is ignored", "150", "100", 1},
		{"tap without movement", "200", "", 1},
		{"garbage coordinates", "x", "y", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.Session.Navigate(navigation.ViewMarket)

			env.do(http.MethodPost, "/swipe", url.Values{"start": {tt.start}, "end": {tt.end}}, true)
			env.Clock.elapse()

			if got := env.Session.Snapshot().Market.Page; got != tt.wantPage {
				t.Errorf("market page = %d, want %d", got, tt.wantPage)
			}
		})
	}
}

func TestSelectAndBack(t *testing.T) {
	env := newTestEnv(t)
	env.Session.Navigate(navigation.ViewVault)

	rec := env.do(http.MethodPost, "/posts/rivermind-1/select", url.Values{}, true)
	if !strings.Contains(rec.Body.String(), "Back to Vault") {
		t.Error("select should render the detail view")
	}
	snap := env.Session.Snapshot()
	if snap.View != navigation.ViewDetail || snap.Selected == nil || snap.Selected.ID != "rivermind-1" {
		t.Fatalf("after select: view %q selected %v", snap.View, snap.Selected)
	}

	env.do(http.MethodPost, "/back", url.Values{}, true)
	if v := env.Session.Snapshot().View; v != navigation.ViewVault {
		t.Errorf("after back: view %q", v)
	}

	env.do(http.MethodPost, "/posts/vault-40-0/select", url.Values{}, true)
	if v := env.Session.Snapshot().View; v != navigation.ViewVault {
		t.Errorf("unknown post changed view to %q", v)
	}
}

func TestBuyRedirects(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/buy/auto-p-100", nil, false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != testCheckoutURL {
		t.Errorf("Location = %q", loc)
	}
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/stats", nil, false)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var got stats.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Tokens != 1_290_384_756_201 || got.Nodes != 48_293_847 {
		t.Errorf("stats = %+v", got)
	}

	rec = env.do(http.MethodGet, "/stats/ticker", nil, true)
	if !strings.Contains(rec.Body.String(), "48,293,847") {
		t.Error("ticker should show the node count")
	}
}

func TestAdminViewListsProviders(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/nav/admin", url.Values{}, true)
	body := rec.Body.String()
	if !strings.Contains(body, `/admin/provider`) || !strings.Contains(body, `value="mock" selected`) {
		t.Error("admin view should offer the provider selector")
	}
}
