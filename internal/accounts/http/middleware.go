package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/meridianapps/accounts/internal/accounts/apperr"
	"github.com/meridianapps/accounts/pkg/httpx"
	"github.com/meridianapps/accounts/pkg/scope"
	"github.com/meridianapps/accounts/pkg/tokenx"
)

type claimsKey struct{}

// ClaimsFromContext returns the verified claims RequireAuth stored.
func ClaimsFromContext(ctx context.Context) (tokenx.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(tokenx.Claims)
	return c, ok
}

// bearerToken extracts the bearer credential from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return token, token != ""
}

// RequireAuth verifies the bearer JWT and enforces the route's scope
// requirement. Routes declare what they need at registration time; a
// requirement of scope.None authenticates without any scope check. Verified
// claims land in the request context.
func RequireAuth(codec *tokenx.Codec, required scope.Mask) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := bearerToken(r)
			if !ok {
				writeError(ctx, w, apperr.ErrInvalidToken)
				return
			}

			claims, err := codec.Verify(raw, required)
			switch {
			case err == nil:
			case errors.Is(err, tokenx.ErrExpired):
				writeError(ctx, w, apperr.ErrExpiredToken)
				return
			case errors.Is(err, tokenx.ErrMissingScope):
				writeError(ctx, w, apperr.ErrMissingScope)
				return
			default:
				writeError(ctx, w, apperr.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, claimsKey{}, claims)))
		})
	}
}
