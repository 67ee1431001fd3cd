// Package tokenx signs and verifies the compact session/access tokens used
// across the service. Tokens are HS256 JWTs carrying an expiry, the subject
// user id, and an optional scope list.
package tokenx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/meridianapps/accounts/pkg/scope"
)

// DefaultSessionTTL is the lifetime of tokens minted on login and refresh.
const DefaultSessionTTL = 30 * time.Minute

var (
	ErrInvalid      = errors.New("tokenx: invalid token")
	ErrExpired      = errors.New("tokenx: token expired")
	ErrMissingScope = errors.New("tokenx: missing scope")
)

// Claims are the signed token claims. Changes must stay additive so
// outstanding tokens keep verifying.
type Claims struct {
	// UID is the subject user id.
	UID int64 `json:"uid"`

	// Scopes is present only on access tokens minted through the OAuth code
	// exchange. Absent means the token is a plain session token: it passes
	// routes that require no scope and is rejected by every route that does.
	Scopes []scope.Scope `json:"scopes,omitempty"`

	jwt.RegisteredClaims
}

// Mask folds the claim's scope list into a mask.
func (c Claims) Mask() scope.Mask {
	return scope.Encode(c.Scopes...)
}

// Codec mints and verifies tokens with a process-wide symmetric secret. The
// secret is loaded once at startup and never rotated while the process runs;
// restarting with a new secret invalidates all outstanding tokens at once.
type Codec struct {
	secret []byte
}

// NewCodec builds a Codec. An empty secret is a configuration error and the
// caller is expected to fail fast on it.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("tokenx: signing secret must not be empty")
	}
	return &Codec{secret: secret}, nil
}

// Mint signs a token for uid expiring ttl from now. A nil scope list mints a
// plain session token. ttl must be positive: expiry is always computed
// forward from issue time, never supplied absolute.
func (c *Codec) Mint(uid int64, scopes []scope.Scope, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("tokenx: ttl must be positive, got %s", ttl)
	}

	now := time.Now()
	claims := Claims{
		UID:    uid,
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("tokenx: sign: %w", err)
	}
	return signed, nil
}

// Verify parses and checks a token. The signature is checked before anything
// else; only a structurally valid, correctly signed token gets its expiry
// inspected, and only then the scope containment when required is non-zero.
//
// Failure modes: malformed encoding, signature mismatch, or a token signed
// with a different algorithm all yield ErrInvalid. A well-formed, correctly
// signed token past its expiry yields ErrExpired. A live token whose grants
// do not cover required yields ErrMissingScope.
func (c *Codec) Verify(token string, required scope.Mask) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		// jwt/v5 verifies the signature before validating claims, so an
		// expired error here implies the signature already checked out.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}

	if required != scope.None {
		if claims.Scopes == nil || !claims.Mask().Satisfies(required) {
			return Claims{}, ErrMissingScope
		}
	}

	return claims, nil
}
