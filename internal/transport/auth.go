package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/rpggio/shutterboard/internal/domain/activity"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// KeyResolver resolves the API key name for a bearer token.
type KeyResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// AuthMiddleware enforces bearer token authentication and records the key
// name as the activity actor.
func AuthMiddleware(resolver KeyResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				_ = render.Render(w, r, newAPIError(http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token"))
				return
			}

			name, err := resolver.Resolve(r.Context(), token)
			if err != nil || name == "" {
				_ = render.Render(w, r, newAPIError(http.StatusUnauthorized, "UNAUTHORIZED", "invalid bearer token"))
				return
			}

			ctx := activity.WithActor(r.Context(), name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
