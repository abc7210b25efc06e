package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mvr/thenumber/internal/domain"
	"github.com/mvr/thenumber/internal/infrastructure/auth"
	"github.com/mvr/thenumber/internal/infrastructure/metrics"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// UserIDContextKey is the context key for the authenticated user ID
	UserIDContextKey ContextKey = "user_id"

	// LocalUserID identifies the single local user when authentication is
	// disabled.
	LocalUserID = "local"
)

// AuthMiddleware creates an authentication middleware. Every request below
// it carries a user ID in its context.
func AuthMiddleware(jwtManager *auth.JWTManager, m *metrics.Metrics) func(http.Handler) http.Handler {
	fail := func(w http.ResponseWriter, message, reason string) {
		if m != nil {
			m.AuthFailures.WithLabelValues(reason).Inc()
		}
		http.Error(w, message, http.StatusUnauthorized)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				fail(w, "missing authorization header", "missing_header")
				return
			}

			// Parse Bearer token
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				fail(w, "invalid authorization header format", "bad_header")
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrExpiredToken) {
					fail(w, "token expired", "expired_token")
				} else {
					fail(w, "invalid token", "invalid_token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserIDContextKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LocalUser stamps every request with the fixed local user ID. It is the
// auth layer for single-user deployments with authentication disabled.
func LocalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), UserIDContextKey, LocalUserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext extracts the authenticated user ID from context
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(string)
	return userID, ok && userID != ""
}
