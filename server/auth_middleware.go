package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-account-service/internal/errors"
	"github.com/jrsteele09/go-account-service/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
)

// UserIDFromContext returns the user attached by RequireSession.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ContextKeyUserID).(string)
	return userID, ok && userID != ""
}

// RequireAPIKey rejects requests without the configured x-api-key header when REQUIRE_API_KEY is set.
func (s *Server) RequireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.config.GetRequireAPIKey() {
			next(w, r)
			return
		}
		presented := r.Header.Get(apiKeyHeader)
		expected := s.config.GetAPIKey()
		if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) != 1 {
			s.writeError(w, r, apperrors.Unauthorized("Invalid API key").WithCause(apperrors.ErrInvalidAPIKey))
			return
		}
		next(w, r)
	}
}

// RequireSession verifies the session token and attaches its user id to the request context.
// It never consults the user store.
func (s *Server) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := sessionToken(r)
		if tok == "" {
			s.writeError(w, r, apperrors.Unauthorized("Unauthorized").WithCause(apperrors.ErrMissingToken))
			return
		}
		claims, err := s.tokens.Verify(tok)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				s.writeError(w, r, apperrors.Unauthorized("Token expired").WithCause(apperrors.ErrTokenExpired))
				return
			}
			s.writeError(w, r, apperrors.Unauthorized("Invalid token").WithCause(apperrors.ErrInvalidToken))
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.UserID)
		next(w, r.WithContext(ctx))
	}
}

// sessionToken reads the session cookie, falling back to an Authorization bearer token.
func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
