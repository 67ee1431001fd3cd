package http

import (
	"encoding/json"
	"net/http"

	"github.com/meridianapps/accounts/internal/accounts/apperr"
	"github.com/meridianapps/accounts/internal/accounts/captcha"
	"github.com/meridianapps/accounts/internal/accounts/service"
	"github.com/meridianapps/accounts/pkg/httpx"
)

// SessionHandler serves login and refresh.
type SessionHandler struct {
	Sessions *service.SessionService
}

type loginRequest struct {
	Email          string            `json:"email"`
	HashedPassword string            `json:"hashed_password"`
	Captcha        captcha.Challenge `json:"captcha"`
}

// HandleLogin implements POST /v0/login.
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, apperr.ErrBadRequest)
		return
	}

	pair, err := h.Sessions.Login(ctx, req.Email, req.HashedPassword, req.Captcha, httpx.IPKeyExtractor(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pair)
}

// HandleRefresh implements GET /v0/refresh. The refresh token rides in the
// Authorization header in place of a session JWT.
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := bearerToken(r)
	if !ok {
		writeError(ctx, w, apperr.ErrUnauthorized)
		return
	}

	pair, err := h.Sessions.Refresh(ctx, token)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pair)
}
