package captcha

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const turnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Turnstile verifies challenges against Cloudflare's siteverify endpoint.
type Turnstile struct {
	secret    string
	client    *http.Client
	verifyURL string
}

// NewTurnstile builds a verifier with the given site secret.
func NewTurnstile(secret string) *Turnstile {
	return &Turnstile{
		secret:    secret,
		client:    &http.Client{Timeout: 10 * time.Second},
		verifyURL: turnstileVerifyURL,
	}
}

// NewTurnstileWithURL overrides the verify endpoint. Used by tests.
func NewTurnstileWithURL(secret, url string) *Turnstile {
	t := NewTurnstile(secret)
	t.verifyURL = url
	return t
}

type siteverifyRequest struct {
	Secret   string `json:"secret"`
	Response string `json:"response"`
	RemoteIP string `json:"remoteip,omitempty"`
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

func (t *Turnstile) Verify(ctx context.Context, challenge Challenge, remoteIP string) error {
	if challenge.Content == "" {
		return ErrMissingToken
	}

	body, err := json.Marshal(siteverifyRequest{
		Secret:   t.secret,
		Response: challenge.Content,
		RemoteIP: remoteIP,
	})
	if err != nil {
		return fmt.Errorf("captcha: encode siteverify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.verifyURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("captcha: build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("captcha: siteverify call: %w", err)
	}
	defer resp.Body.Close()

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("captcha: decode siteverify response: %w", err)
	}

	if result.Success {
		return nil
	}
	return mapErrorCodes(result.ErrorCodes)
}

// mapErrorCodes picks the most specific failure from Turnstile's error-code
// list. Codes are documented at
// https://developers.cloudflare.com/turnstile/get-started/server-side-validation/
func mapErrorCodes(codes []string) error {
	for _, code := range codes {
		switch code {
		case "missing-input-response":
			return ErrMissingToken
		case "timeout-or-duplicate":
			return ErrExpired
		case "invalid-input-response":
			return ErrInvalid
		case "missing-input-secret", "invalid-input-secret", "bad-request":
			return ErrBadRequest
		}
	}
	return ErrInvalid
}
