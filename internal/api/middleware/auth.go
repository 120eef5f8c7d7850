package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/response"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// Auth returns a middleware that validates the Authorization bearer token
// against the shared JWT secret and stores the claims on the context.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.AuthenticationError(w, "No authorization header provided")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				response.AuthenticationError(w, "Invalid authorization header format")
				return
			}

			claims, err := auth.ValidateToken(secret, token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					response.AuthenticationError(w, "Token expired")
					return
				}
				response.AuthenticationError(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity returns the authenticated claims from the context, or nil.
func GetIdentity(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(identityKey).(*auth.Claims)
	return claims
}

// WithIdentity stores claims on the context. Used by WebSocket handlers that
// authenticate via query parameter, and by tests.
func WithIdentity(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, identityKey, claims)
}
