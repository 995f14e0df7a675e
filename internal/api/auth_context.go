package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/service"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// contextKeyUsername is the context key for the authenticated username.
const contextKeyUsername contextKey = "username"

// getUsername extracts the authenticated username from request context.
// Returns empty string if not authenticated; handlers decide whether that
// is acceptable for the operation.
func getUsername(ctx context.Context) string {
	username, _ := ctx.Value(contextKeyUsername).(string)
	return username
}

// setUsername stores the authenticated username in context.
func setUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, contextKeyUsername, username)
}

// authMiddleware returns a middleware that validates Bearer tokens and
// stores the username in context. A missing or invalid token continues
// unauthenticated; handlers that require identity reject via
// authenticateRequest instead.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := usernameFromHeader(auth, r.Header.Get("Authorization"))
			if username == "" {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(setUsername(r.Context(), username)))
		})
	}
}

// usernameFromHeader verifies a Bearer token and returns its username.
// Returns empty string on any failure.
func usernameFromHeader(auth *service.AuthService, authHeader string) string {
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}

	claims, err := auth.VerifyAccessToken(authHeader[7:])
	if err != nil {
		return ""
	}
	return claims.Username
}

// authenticateRequest validates the Authorization header and returns the
// username. Used by handlers whose operation requires identity.
func (s *Server) authenticateRequest(authHeader string) (string, error) {
	if authHeader == "" {
		return "", huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", huma.Error401Unauthorized("Invalid authorization header format")
	}

	claims, err := s.services.Auth.VerifyAccessToken(parts[1])
	if err != nil {
		return "", huma.Error401Unauthorized("Invalid or expired token")
	}

	return claims.Username, nil
}

// optionalUsername resolves the caller's identity from the Authorization
// header, degrading to anonymous on any failure. Used by operations that
// keep the pre-account behavior for unauthenticated callers.
func (s *Server) optionalUsername(authHeader string) string {
	return usernameFromHeader(s.services.Auth, authHeader)
}
