package http

import (
	"encoding/json"
	"net/http"

	"github.com/meridianapps/accounts/internal/accounts/apperr"
	"github.com/meridianapps/accounts/internal/accounts/captcha"
	"github.com/meridianapps/accounts/internal/accounts/service"
	"github.com/meridianapps/accounts/pkg/httpx"
)

// RegisterHandler serves signup and email verification.
type RegisterHandler struct {
	Registration *service.RegistrationService
}

type registerRequest struct {
	Email          string            `json:"email"`
	HashedPassword string            `json:"hashed_password"`
	Captcha        captcha.Challenge `json:"captcha"`
}

// HandleRegister implements POST /v0/register.
func (h *RegisterHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, apperr.ErrBadRequest)
		return
	}

	if err := h.Registration.Register(ctx, req.Email, req.HashedPassword, req.Captcha, httpx.IPKeyExtractor(r)); err != nil {
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleVerify implements GET /v0/verify, the link target in the
// verification email.
func (h *RegisterHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(ctx, w, apperr.ErrBadRequest)
		return
	}

	if err := h.Registration.Verify(ctx, token); err != nil {
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
