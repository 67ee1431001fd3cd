// Package captcha verifies human-presence challenges on credential
// endpoints. The production backend is Cloudflare Turnstile.
package captcha

import (
	"context"
	"errors"
)

// Challenge is the client-supplied proof, as carried in request bodies.
type Challenge struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Verification failures. Callers map these to the client-visible taxonomy.
var (
	ErrMissingToken = errors.New("captcha: missing token")
	ErrInvalid      = errors.New("captcha: invalid token")
	ErrExpired      = errors.New("captcha: timeout or duplicate token")
	ErrBadRequest   = errors.New("captcha: malformed verification request")
)

// Verifier checks a challenge for a given client IP.
type Verifier interface {
	Verify(ctx context.Context, challenge Challenge, remoteIP string) error
}

// Allow is a Verifier that accepts everything. Used in dev environments
// where no captcha backend is configured.
type Allow struct{}

func (Allow) Verify(ctx context.Context, challenge Challenge, remoteIP string) error {
	return nil
}
