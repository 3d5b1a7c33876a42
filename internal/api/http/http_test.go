package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waitline/waitline-manager/internal/apisrv/auth"
	"github.com/waitline/waitline-manager/internal/apisrv/owner"
	"github.com/waitline/waitline-manager/internal/apisrv/public"
	"github.com/waitline/waitline-manager/internal/auth/jwt"
	"github.com/waitline/waitline-manager/internal/entity"
	"github.com/waitline/waitline-manager/internal/identity"
)

func newTestRouter(t *testing.T) (http.Handler, *auth.Server) {
	t.Helper()

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(gateway.Close)

	idc, err := identity.New(&identity.Config{
		BaseURL: gateway.URL,
		APIKey:  "test-key",
	})
	require.NoError(t, err)

	authS, err := auth.New(&auth.Config{
		JWTSecret:        "test-secret",
		JWTTTL:           "1h",
		OAuthRedirectURL: "https://app.test/callback",
	}, idc)
	require.NoError(t, err)

	s := New(&Config{})
	return s.routes(authS, owner.New(nil), public.New(nil, nil, nil, nil)), authS
}

func TestGoogleSigninAuthURLKey(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/signin/google", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body, "authUrl")
	assert.NotContains(t, body, "auth_url")
	assert.Contains(t, body["authUrl"], "/auth/v1/authorize")
}

func TestSignoutRequiresSession(t *testing.T) {
	r, authS := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/signout", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := jwt.NewSessionToken(authS.JwtAuth, time.Hour, &entity.User{
		ID:    "user-123",
		Email: "owner@mail.test",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/signout",
		strings.NewReader(`{"access_token":"provider-token"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
}
