package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"crmgrid/internal/store"
)

type contextKey string

const userContextKey contextKey = "current_user"

// UserSource resolves a session token to its user.
type UserSource interface {
	CurrentUser(ctx context.Context, token string) (*store.User, error)
}

// SessionAuth returns middleware that resolves the bearer token from the
// Authorization header to a user and injects it into the request context.
// Requests without a valid session are rejected with 401.
func SessionAuth(users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				slog.Warn("auth: missing session token",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, `{"error":"missing session token","code":"AUTH001"}`, http.StatusUnauthorized)
				return
			}

			user, err := users.CurrentUser(r.Context(), token)
			if err != nil {
				slog.Warn("auth: invalid session token",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
					"error", err,
				)
				http.Error(w, `{"error":"invalid or expired session","code":"AUTH001"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user injected by SessionAuth.
// The second return is false when the request did not pass through auth.
func UserFromContext(ctx context.Context) (*store.User, bool) {
	user, ok := ctx.Value(userContextKey).(*store.User)
	return user, ok
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}
