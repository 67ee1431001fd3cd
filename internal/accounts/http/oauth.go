package http

import (
	"net/http"

	"github.com/meridianapps/accounts/internal/accounts/apperr"
	"github.com/meridianapps/accounts/internal/accounts/service"
	"github.com/meridianapps/accounts/pkg/httpx"
)

// OAuthHandler serves the authorization code grant.
type OAuthHandler struct {
	OAuth *service.OAuthService
}

// HandleAuthorize implements GET /v0/oauth. The caller is a logged-in user
// (session JWT); the response body is the redirect URL as a JSON string for
// the frontend to follow.
func (h *OAuthHandler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		writeError(ctx, w, apperr.ErrUnauthorized)
		return
	}

	q := r.URL.Query()
	redirect, err := h.OAuth.Authorize(ctx, claims.UID, service.AuthorizeRequest{
		ResponseType: q.Get("response_type"),
		ClientID:     q.Get("client_id"),
		Scopes:       q.Get("scopes"),
		RedirectURI:  q.Get("redirect_uri"),
		State:        q.Get("state"),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, redirect)
}

// HandleExchange implements GET /v0/oauth/token: the client swaps its
// authorization code and secret for a scoped access token.
func (h *OAuthHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query()
	code, secret := q.Get("code"), q.Get("client_secret")
	if code == "" || secret == "" {
		writeError(ctx, w, apperr.ErrBadRequest)
		return
	}

	token, err := h.OAuth.Exchange(ctx, code, secret)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, token)
}
