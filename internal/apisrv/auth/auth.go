package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	v "github.com/asaskevich/govalidator"
	"github.com/go-chi/jwtauth/v5"

	"github.com/waitline/waitline-manager/internal/auth/jwt"
	"github.com/waitline/waitline-manager/internal/dependency"
	gerr "github.com/waitline/waitline-manager/internal/errors"
)

// Server implements the session handshake with the external identity
// gateway: accounts live at the provider, sessions are local JWTs.
type Server struct {
	identity dependency.Identity
	JwtAuth  *jwtauth.JWTAuth
	jwtTTL   time.Duration
	c        *Config
}

// Config contains the configuration for the auth server.
type Config struct {
	JWTSecret        string `mapstructure:"jwt_secret"`
	JWTTTL           string `mapstructure:"jwt_ttl"`
	OAuthRedirectURL string `mapstructure:"oauth_redirect_url"`
}

// New creates a new auth server.
func New(c *Config, identity dependency.Identity) (*Server, error) {
	if c.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is not set")
	}

	ttl, err := time.ParseDuration(c.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("can't parse jwt ttl: %w", err)
	}

	return &Server{
		identity: identity,
		JwtAuth:  jwtauth.New("HS256", []byte(c.JWTSecret), nil),
		jwtTTL:   ttl,
		c:        c,
	}, nil
}

// Signup registers the account at the identity provider. No session is
// issued; the provider's confirmation flow takes over.
func (s *Server) Signup(ctx context.Context, email, password string) error {
	if !v.IsEmail(email) || password == "" {
		return fmt.Errorf("email and password are required: %w", gerr.ErrValidation)
	}
	return s.identity.SignUp(ctx, strings.ToLower(email), password)
}

// Signin verifies credentials at the provider and mints a session token.
func (s *Server) Signin(ctx context.Context, email, password string) (string, error) {
	if !v.IsEmail(email) || password == "" {
		return "", fmt.Errorf("email and password are required: %w", gerr.ErrValidation)
	}

	u, err := s.identity.SignInWithPassword(ctx, strings.ToLower(email), password)
	if err != nil {
		return "", err
	}

	token, err := jwt.NewSessionToken(s.JwtAuth, s.jwtTTL, u)
	if err != nil {
		return "", err
	}
	return token, nil
}

// GoogleAuthURL returns the provider's OAuth authorize URL for Google.
func (s *Server) GoogleAuthURL(ctx context.Context) (string, error) {
	return s.identity.AuthorizeURL(ctx, "google", s.c.OAuthRedirectURL)
}

// Callback finishes the OAuth handshake: the code is exchanged at the
// provider and a session token is minted for the returned identity.
func (s *Server) Callback(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("missing callback code: %w", gerr.ErrValidation)
	}

	u, err := s.identity.ExchangeCode(ctx, code)
	if err != nil {
		return "", err
	}

	return jwt.NewSessionToken(s.JwtAuth, s.jwtTTL, u)
}

// Signout revokes the provider session. The local session token simply
// expires; the client discards it.
func (s *Server) Signout(ctx context.Context, accessToken string) error {
	return s.identity.SignOut(ctx, accessToken)
}
