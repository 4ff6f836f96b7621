package middleware

import (
	"context"
	"net/http"

	"github.com/attire-shop/attire/internal/auth"
)

type contextKey string

const (
	// SessionContextKey is the context key for storing the authenticated session
	SessionContextKey contextKey = "session"

	// SessionCookieName is the cookie carrying the signed session token
	SessionCookieName = "attire_session"
)

// WithSession extracts the session from the session cookie and adds it to the
// request context. This middleware is optional - it adds the session if present
// but doesn't require authentication.
func WithSession(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				// No session cookie, continue anonymous
				next.ServeHTTP(w, r)
				return
			}

			session, err := tokens.Verify(cookie.Value)
			if err != nil {
				// Invalid or expired token, continue anonymous
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the request carries a valid session, returning 401 if not
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSessionFromContext(r.Context()) == nil {
			respondUnauthorized(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext retrieves the authenticated session from the request context.
// Returns nil for anonymous requests.
func GetSessionFromContext(ctx context.Context) *auth.Session {
	session, ok := ctx.Value(SessionContextKey).(*auth.Session)
	if !ok {
		return nil
	}
	return session
}
