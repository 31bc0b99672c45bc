// Package router sets up all HTTP routes and middleware chains for the
// AI Lab site. Every page route runs with a visitor session and CSRF
// protection; the routes that call the AI provider are rate limited.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ailab/internal/handlers"
	"ailab/internal/middleware"
	"ailab/internal/session"
	"ailab/web"
)

// Deps are the handler groups and middleware the router wires together.
type Deps struct {
	Sessions *session.Store
	Site     *handlers.Site
	Admin    *handlers.Admin
	Chat     *handlers.Chat

	// AILimiter throttles the routes that call the AI provider. Nil
	// disables throttling.
	AILimiter *middleware.RateLimiter

	// SecureCookies marks the CSRF cookie Secure.
	SecureCookies bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check and static assets need no session.
	r.Get("/health", healthHandler)
	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSession(d.Sessions))
		r.Use(middleware.NewCSRF(d.SecureCookies))

		r.Get("/", d.Site.Index)
		r.Post("/nav/{view}", d.Site.Navigate)
		r.Post("/{list:vault|market}/{dir:next|prev}", d.Site.Page)
		r.Post("/vault/category/{category}", d.Site.Category)
		r.Post("/swipe", d.Site.Swipe)
		r.Post("/posts/{id}/select", d.Site.Select)
		r.Post("/back", d.Site.Back)
		r.Get("/buy/{id}", d.Site.Buy)

		r.Get("/stats", d.Site.Stats)
		r.Get("/stats/ticker", d.Site.Ticker)

		r.Get("/chat", d.Chat.Messages)
		r.Post("/chat/speech/ended", d.Chat.SpeechEnded)

		// Routes that reach the AI provider.
		r.Group(func(r chi.Router) {
			if d.AILimiter != nil {
				r.Use(d.AILimiter.Middleware)
			}
			r.Post("/admin/draft", d.Admin.Draft)
			r.Post("/admin/provider", d.Admin.SetProvider)
			r.Post("/posts/{id}/ask", d.Chat.Ask)
			r.Post("/chat/messages", d.Chat.Send)
			r.Post("/chat/speech", d.Chat.Speech)
		})
	})

	return r
}

// staticHandler serves the embedded assets under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
