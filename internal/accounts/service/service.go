// Package service implements the account operations: login and session
// refresh, registration with email verification, the OAuth authorization
// code flow, and profile access.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/meridianapps/accounts/internal/accounts/apperr"
	"github.com/meridianapps/accounts/internal/accounts/captcha"
)

// Ephemeral key prefixes. Each prefix namespaces one credential kind so a
// token of one kind can never redeem another.
const (
	refreshKeyPrefix     = "refresh:"
	emailVerifyKeyPrefix = "email_verify:"
	oauthKeyPrefix       = "oauth:"
)

// Default lifetimes for issued credentials.
const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultRefreshTTL  = 90 * 24 * time.Hour
	DefaultPendingTTL  = 24 * time.Hour
	DefaultAuthCodeTTL = 5 * time.Minute
)

// mapCaptchaErr translates captcha failures into the client-visible taxonomy.
func mapCaptchaErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, captcha.ErrMissingToken):
		return apperr.ErrMissingCaptchaToken
	case errors.Is(err, captcha.ErrExpired):
		return apperr.ErrTimeOutOrDuplicateCaptcha
	case errors.Is(err, captcha.ErrInvalid):
		return apperr.ErrInvalidCaptcha
	case errors.Is(err, captcha.ErrBadRequest):
		return apperr.ErrBadRequest
	default:
		return fmt.Errorf("verifying captcha: %w", err)
	}
}
