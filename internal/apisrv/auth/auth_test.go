package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waitline/waitline-manager/internal/auth/jwt"
	"github.com/waitline/waitline-manager/internal/entity"
	gerr "github.com/waitline/waitline-manager/internal/errors"
)

type fakeIdentity struct {
	signedUp  []string
	signedOut []string
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password string) error {
	f.signedUp = append(f.signedUp, email)
	return nil
}

func (f *fakeIdentity) SignInWithPassword(_ context.Context, email, password string) (*entity.User, error) {
	if password != "correct" {
		return nil, gerr.ErrUnauthorized
	}
	return &entity.User{ID: "user-123", Email: email}, nil
}

func (f *fakeIdentity) AuthorizeURL(_ context.Context, provider, redirectTo string) (string, error) {
	return "https://id.test/authorize?provider=" + provider, nil
}

func (f *fakeIdentity) ExchangeCode(_ context.Context, code string) (*entity.User, error) {
	if code != "good-code" {
		return nil, gerr.ErrUnauthorized
	}
	return &entity.User{ID: "user-123", Email: "owner@mail.test"}, nil
}

func (f *fakeIdentity) SignOut(_ context.Context, accessToken string) error {
	f.signedOut = append(f.signedOut, accessToken)
	return nil
}

func newTestServer(t *testing.T) (*Server, *fakeIdentity) {
	t.Helper()
	id := &fakeIdentity{}
	s, err := New(&Config{
		JWTSecret: "test-secret",
		JWTTTL:    "1h",
	}, id)
	require.NoError(t, err)
	return s, id
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(&Config{JWTTTL: "1h"}, &fakeIdentity{})
	assert.Error(t, err)

	_, err = New(&Config{JWTSecret: "s", JWTTTL: "bogus"}, &fakeIdentity{})
	assert.Error(t, err)
}

func TestSignup(t *testing.T) {
	s, id := newTestServer(t)

	ctx := context.Background()

	err := s.Signup(ctx, "Owner@Mail.Test", "pass")
	require.NoError(t, err)
	require.Len(t, id.signedUp, 1)
	// emails are normalized to lower case
	assert.Equal(t, "owner@mail.test", id.signedUp[0])

	err = s.Signup(ctx, "not-an-email", "pass")
	assert.ErrorIs(t, err, gerr.ErrValidation)

	err = s.Signup(ctx, "owner@mail.test", "")
	assert.ErrorIs(t, err, gerr.ErrValidation)
}

func TestSignin(t *testing.T) {
	s, _ := newTestServer(t)

	ctx := context.Background()

	token, err := s.Signin(ctx, "owner@mail.test", "correct")
	require.NoError(t, err)

	u, err := jwt.VerifyToken(s.JwtAuth, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", u.ID)
	assert.Equal(t, "owner@mail.test", u.Email)

	_, err = s.Signin(ctx, "owner@mail.test", "wrong")
	assert.ErrorIs(t, err, gerr.ErrUnauthorized)
}

func TestCallback(t *testing.T) {
	s, _ := newTestServer(t)

	ctx := context.Background()

	token, err := s.Callback(ctx, "good-code")
	require.NoError(t, err)

	u, err := jwt.VerifyToken(s.JwtAuth, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", u.ID)

	_, err = s.Callback(ctx, "")
	assert.ErrorIs(t, err, gerr.ErrValidation)

	_, err = s.Callback(ctx, "bad-code")
	assert.ErrorIs(t, err, gerr.ErrUnauthorized)
}

func TestSignout(t *testing.T) {
	s, id := newTestServer(t)

	err := s.Signout(context.Background(), "provider-token")
	require.NoError(t, err)
	assert.Equal(t, []string{"provider-token"}, id.signedOut)
}
