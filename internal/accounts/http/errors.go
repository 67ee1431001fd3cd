package http

import (
	"context"
	"net/http"

	"github.com/meridianapps/accounts/internal/accounts/apperr"
	"github.com/meridianapps/accounts/pkg/httpx"
	"github.com/meridianapps/accounts/pkg/slogx"
)

// errorResponse is the single error shape the service speaks.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps any error to the wire taxonomy and writes it. The cause of
// an internal error is logged, never sent to the client.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	e := apperr.From(err)
	if e == apperr.ErrInternal {
		slogx.FromContext(ctx).Error("request failed", "err", err)
	}
	httpx.WriteJSON(w, e.Status, errorResponse{Error: e.Tag})
}
