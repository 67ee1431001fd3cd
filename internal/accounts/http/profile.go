package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/meridianapps/accounts/internal/accounts/apperr"
	"github.com/meridianapps/accounts/internal/accounts/service"
	"github.com/meridianapps/accounts/pkg/httpx"
)

// ProfileHandler serves the scoped profile endpoints.
type ProfileHandler struct {
	Profiles *service.ProfileService
}

type profileResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HandleMe implements GET /v0/profile (requires profile.read).
func (h *ProfileHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		writeError(ctx, w, apperr.ErrUnauthorized)
		return
	}

	user, err := h.Profiles.Me(ctx, claims.UID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
}

type profileEditRequest struct {
	Name *string `json:"name"`
}

// HandleEdit implements PATCH /v0/profile (requires profile.write).
func (h *ProfileHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		writeError(ctx, w, apperr.ErrUnauthorized)
		return
	}

	var req profileEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, apperr.ErrBadRequest)
		return
	}

	if err := h.Profiles.Edit(ctx, claims.UID, req.Name); err != nil {
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
