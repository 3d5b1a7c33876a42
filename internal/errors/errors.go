package gerr

import "errors"

// Domain error taxonomy. Services return these (possibly wrapped with %w);
// the HTTP layer maps them to response statuses.
var (
	ErrValidation   = errors.New("missing or malformed required field")
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("caller is not authorized")
	ErrConflict     = errors.New("uniqueness constraint violated")
	ErrUpstream     = errors.New("identity provider request failed")
	ErrRateLimited  = errors.New("too many requests")

	BadMailRequest      = errors.New("bad mail request")
	MailApiLimitReached = errors.New("mail api limit reached")
)
