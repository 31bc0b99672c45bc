// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"ailab/internal/lab"
	"ailab/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the visitor's lab session.
	SessionKey contextKey = "session"

	// CSRFTokenKey is the context key for the request's CSRF token.
	CSRFTokenKey contextKey = "csrf_token"
)

// LoadSession resolves the visitor's lab session, creating one on the
// first visit, and stores it in the request context. Downstream handlers
// access it via SessionFromCtx().
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := store.Load(w, r)
			if err != nil {
				slog.Error("load session failed", "error", err, "path", r.URL.Path)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromCtx extracts the lab session from the request context.
// Returns nil if LoadSession did not run.
func SessionFromCtx(ctx context.Context) *lab.Session {
	sess, _ := ctx.Value(SessionKey).(*lab.Session)
	return sess
}
