package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okValidator(identity *Identity) TokenValidator {
	return func(_ context.Context, token string) (*Identity, error) {
		if token != "valid-token" {
			return nil, errors.New("bad token")
		}
		return identity, nil
	}
}

func TestAuth_BearerHeader(t *testing.T) {
	var gotUserID, gotUsername string
	handler := Auth(okValidator(&Identity{UserID: "u1", Username: "jane"}))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserID = UserIDFromContext(r.Context())
			gotUsername = UsernameFromContext(r.Context())
		}),
	)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", gotUserID)
	assert.Equal(t, "jane", gotUsername)
}

func TestAuth_Cookie(t *testing.T) {
	var gotUserID string
	handler := Auth(okValidator(&Identity{UserID: "u1", Username: "jane"}))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserID = UserIDFromContext(r.Context())
		}),
	)

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "valid-token"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", gotUserID)
}

func TestAuth_CookieTakesPrecedenceOverHeader(t *testing.T) {
	var seen []string
	validate := func(_ context.Context, token string) (*Identity, error) {
		seen = append(seen, token)
		return &Identity{UserID: "u1"}, nil
	}
	handler := Auth(validate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "cookie-token"})
	r.Header.Set("Authorization", "Bearer header-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, []string{"cookie-token"}, seen)
}

func TestAuth_Unauthorized(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{name: "no token at all", setup: func(r *http.Request) {}},
		{name: "malformed header", setup: func(r *http.Request) {
			r.Header.Set("Authorization", "Token abc")
		}},
		{name: "invalid token", setup: func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer expired")
		}},
		{name: "empty cookie falls through to missing", setup: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: ""})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := Auth(okValidator(nil))(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }),
			)

			r := httptest.NewRequest("GET", "/", nil)
			tt.setup(r)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, called, "handler must not run for unauthenticated requests")
			assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
		})
	}
}

func TestUserIDFromContext_Empty(t *testing.T) {
	assert.Empty(t, UserIDFromContext(context.Background()))
	assert.Empty(t, UsernameFromContext(context.Background()))
}
