package http

import (
	"context"
	"net/http"
	"time"

	"github.com/meridianapps/accounts/pkg/httpx"
)

// Pinger is anything whose liveness gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LivezHandler reports process liveness.
func LivezHandler(startTime time.Time, version string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"version": version,
			"uptime":  time.Since(startTime).String(),
		})
	})
}

// ReadyzHandler reports readiness: the service is ready when every backing
// store answers a ping.
func ReadyzHandler(startTime time.Time, version string, deps map[string]Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		status, overall := http.StatusOK, "ok"
		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "unavailable"
				status, overall = http.StatusServiceUnavailable, "degraded"
				continue
			}
			checks[name] = "ok"
		}

		httpx.WriteJSON(w, status, map[string]any{
			"status":  overall,
			"version": version,
			"uptime":  time.Since(startTime).String(),
			"checks":  checks,
		})
	})
}
