package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/shutterboard/internal/domain/activity"
	"github.com/rpggio/shutterboard/internal/repository"
	"github.com/rpggio/shutterboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testResolver struct {
	tokenToName map[string]string
	err         error
}

func (r *testResolver) Resolve(_ context.Context, token string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	name, ok := r.tokenToName[token]
	if !ok {
		return "", ErrUnauthorized
	}
	return name, nil
}

func TestAuthMiddleware(t *testing.T) {
	resolver := &testResolver{tokenToName: map[string]string{"token": "studio-laptop"}}

	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "studio-laptop", activity.ActorFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		resolver *testResolver
		header   string
	}{
		{name: "resolver error", resolver: &testResolver{err: errors.New("invalid")}, header: "Bearer token"},
		{name: "unknown token", resolver: &testResolver{}, header: "Bearer other"},
		{name: "missing header", resolver: &testResolver{}},
		{name: "empty bearer", resolver: &testResolver{}, header: "Bearer  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := AuthMiddleware(tt.resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Body.String(), "UNAUTHORIZED")
			require.False(t, called)
		})
	}
}

func TestAuthMiddleware_KeyRepository(t *testing.T) {
	keys := &mocks.APIKeyRepository{}
	keys.On("Resolve", mock.Anything, "good").Return("claude-desktop", nil)
	keys.On("Resolve", mock.Anything, "revoked").Return("", repository.ErrNotFound)

	var actor string
	handler := AuthMiddleware(keys)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = activity.ActorFromContext(r.Context())
	}))

	for token, want := range map[string]int{"good": http.StatusOK, "revoked": http.StatusUnauthorized} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, want, rec.Code, token)
	}
	require.Equal(t, "claude-desktop", actor)
	keys.AssertExpectations(t)
}

func TestBearerToken(t *testing.T) {
	require.Equal(t, "abc", BearerToken("Bearer abc"))
	require.Equal(t, "abc", BearerToken("Bearer  abc "))
	require.Equal(t, "", BearerToken(""))
}
