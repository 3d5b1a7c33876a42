package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/waitline/waitline-manager/internal/dependency"
	"github.com/waitline/waitline-manager/internal/entity"
	gerr "github.com/waitline/waitline-manager/internal/errors"
)

// Config contains the configuration for the identity provider client.
type Config struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// Client talks to the external identity gateway that owns user accounts,
// credential verification and the OAuth handshake.
type Client struct {
	c   *Config
	cli *http.Client
}

func New(c *Config) (dependency.Identity, error) {
	if c.BaseURL == "" || c.APIKey == "" {
		return nil, fmt.Errorf("incomplete identity config: base_url and api_key are required")
	}
	timeout := c.HTTPTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		c: c,
		cli: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	User        entity.User `json:"user"`
}

// SignUp registers a new account with the provider. The provider sends the
// confirmation email; no session is established here.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	resp, err := c.post(ctx, "/auth/v1/signup", credentials{Email: email, Password: password})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("signup rejected with status %d: %w", resp.StatusCode, gerr.ErrUpstream)
	}
	return nil
}

// SignInWithPassword exchanges email/password for the provider's verified
// user identity.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*entity.User, error) {
	resp, err := c.post(ctx, "/auth/v1/token?grant_type=password", credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return nil, gerr.ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("password grant failed with status %d: %w", resp.StatusCode, gerr.ErrUpstream)
	}

	return decodeUser(resp.Body)
}

// AuthorizeURL builds the provider's OAuth authorize URL the browser is
// redirected to.
func (c *Client) AuthorizeURL(ctx context.Context, provider, redirectTo string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(c.c.BaseURL, "/") + "/auth/v1/authorize")
	if err != nil {
		return "", fmt.Errorf("failed to build authorize url: %w", err)
	}
	q := u.Query()
	q.Set("provider", provider)
	q.Set("redirect_to", redirectTo)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ExchangeCode trades the OAuth callback code for the user identity.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*entity.User, error) {
	resp, err := c.post(ctx, "/auth/v1/token?grant_type=authorization_code", map[string]string{
		"code": code,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("code exchange failed with status %d: %w", resp.StatusCode, gerr.ErrUpstream)
	}

	return decodeUser(resp.Body)
}

// SignOut revokes the provider-side session. Best effort: the caller clears
// its own session regardless.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.cli.Do(req)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", gerr.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("logout rejected with status %d: %w", resp.StatusCode, gerr.ErrUpstream)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request failed: %w", gerr.ErrUpstream)
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimSuffix(c.c.BaseURL, "/")+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.c.APIKey)
	return req, nil
}

func decodeUser(r io.Reader) (*entity.User, error) {
	var tr tokenResponse
	if err := json.NewDecoder(r).Decode(&tr); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}
	if tr.User.ID == "" {
		return nil, fmt.Errorf("identity response missing user id: %w", gerr.ErrUpstream)
	}
	return &tr.User, nil
}
