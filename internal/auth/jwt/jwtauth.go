package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/waitline/waitline-manager/internal/entity"
)

// NewSessionToken mints a session JWT for a verified user. Subject is the
// identity provider's user id; the email claim is carried for display.
func NewSessionToken(jwtAuth *jwtauth.JWTAuth, ttl time.Duration, u *entity.User) (string, error) {
	claims := map[string]interface{}{
		"sub":   u.ID,
		"email": u.Email,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	_, ts, err := jwtAuth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to encode session token: %w", err)
	}
	return ts, nil
}

// VerifyToken checks the token signature and expiry and returns the caller
// identity it carries.
func VerifyToken(jwtAuth *jwtauth.JWTAuth, token string) (*entity.User, error) {
	t, err := jwtauth.VerifyToken(jwtAuth, token)
	if err != nil {
		return nil, err
	}
	email, _ := t.Get("email")
	emailStr, _ := email.(string)
	if t.Subject() == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return &entity.User{
		ID:    t.Subject(),
		Email: emailStr,
	}, nil
}
