package http

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/ijlaln/footycount-app/internal/auth"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const identityKey contextKey = "identity"

func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug("incoming request", "method", r.Method, "url", r.URL.String())
		next.ServeHTTP(w, r)
	})
}

// requireAuth verifies the session cookie and stores the caller's identity
// in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.CookieName)
		if err != nil {
			respondError(w, http.StatusUnauthorized, errKindUnauthenticated, "authentication required")
			return
		}
		identity, err := s.Tokens.Verify(cookie.Value)
		if err != nil {
			respondError(w, http.StatusUnauthorized, errKindUnauthenticated, "invalid or expired session")
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin rejects callers without the admin flag. Must run after
// requireAuth.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFromContext(r)
		if !ok || !identity.IsAdmin {
			respondError(w, http.StatusForbidden, errKindForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func identityFromContext(r *http.Request) (auth.Identity, bool) {
	identity, ok := r.Context().Value(identityKey).(auth.Identity)
	return identity, ok
}
