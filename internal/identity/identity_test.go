package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerr "github.com/waitline/waitline-manager/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(&Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
	})
	require.NoError(t, err)
	return c.(*Client), srv
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(&Config{APIKey: "k"})
	assert.Error(t, err)
	_, err = New(&Config{BaseURL: "https://id.test"})
	assert.Error(t, err)
}

func TestSignInWithPassword(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "test-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "correct" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "at-123",
			"user": map[string]string{
				"id":    "user-123",
				"email": body["email"],
			},
		})
	})

	u, err := c.SignInWithPassword(context.Background(), "owner@mail.test", "correct")
	require.NoError(t, err)
	assert.Equal(t, "user-123", u.ID)
	assert.Equal(t, "owner@mail.test", u.Email)

	_, err = c.SignInWithPassword(context.Background(), "owner@mail.test", "wrong")
	assert.ErrorIs(t, err, gerr.ErrUnauthorized)
}

func TestSignUpUpstreamError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	err := c.SignUp(context.Background(), "owner@mail.test", "pass")
	assert.ErrorIs(t, err, gerr.ErrUpstream)
}

func TestAuthorizeURL(t *testing.T) {
	c, err := New(&Config{BaseURL: "https://id.test/", APIKey: "k"})
	require.NoError(t, err)

	u, err := c.AuthorizeURL(context.Background(), "google", "https://app.test/callback")
	require.NoError(t, err)
	assert.Contains(t, u, "https://id.test/auth/v1/authorize")
	assert.Contains(t, u, "provider=google")
	assert.Contains(t, u, "redirect_to=https%3A%2F%2Fapp.test%2Fcallback")
}

func TestExchangeCode(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "authorization_code", r.URL.Query().Get("grant_type"))
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "at-123",
			"user":         map[string]string{"id": "user-123"},
		})
	})

	u, err := c.ExchangeCode(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "user-123", u.ID)
}

func TestExchangeCodeMissingUser(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "at-123"})
	})

	_, err := c.ExchangeCode(context.Background(), "good-code")
	assert.ErrorIs(t, err, gerr.ErrUpstream)
}

func TestSignOut(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	err := c.SignOut(context.Background(), "at-123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer at-123", gotAuth)
}
