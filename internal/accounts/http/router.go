// Package http exposes the account service over HTTP. Routes declare their
// authentication and scope requirements at registration time.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/meridianapps/accounts/internal/accounts/service"
	"github.com/meridianapps/accounts/pkg/httpx"
	"github.com/meridianapps/accounts/pkg/scope"
	"github.com/meridianapps/accounts/pkg/slogx"
	"github.com/meridianapps/accounts/pkg/tokenx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        *tokenx.Codec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	Sessions     *service.SessionService
	Registration *service.RegistrationService
	OAuth        *service.OAuthService
	Profiles     *service.ProfileService

	// Readiness dependencies, keyed by the name reported in /readyz.
	Deps map[string]Pinger
}

func NewRouter(codec *tokenx.Codec, buildVersion string, logger *slog.Logger) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		middlewares:  []httpx.Middleware{httpx.Middleware(slogx.HTTPMiddleware(logger))},
		codec:        codec,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}
}

// ServeHTTP applies the global middleware chain around the mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerRegistration()
	r.registerOAuth()
	r.registerProfile()
	r.registerSystem()
}

func (r *Router) registerSessions() {
	h := &SessionHandler{Sessions: r.Sessions}

	// Credential endpoints get the strict limit to slow brute force.
	r.Mux.Handle("POST /v0/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /v0/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerRegistration() {
	h := &RegisterHandler{Registration: r.Registration}

	r.Mux.Handle("POST /v0/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /v0/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerOAuth() {
	h := &OAuthHandler{OAuth: r.OAuth}

	// Authorization needs a logged-in user; any valid session will do.
	r.Mux.Handle("GET /v0/oauth",
		httpx.Chain(http.HandlerFunc(h.HandleAuthorize),
			RequireAuth(r.codec, scope.None),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /v0/oauth/token",
		httpx.Chain(http.HandlerFunc(h.HandleExchange),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{Profiles: r.Profiles}

	r.Mux.Handle("GET /v0/profile",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			RequireAuth(r.codec, scope.Encode(scope.ProfileRead)),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("PATCH /v0/profile",
		httpx.Chain(http.HandlerFunc(h.HandleEdit),
			RequireAuth(r.codec, scope.Encode(scope.ProfileWrite)),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.Deps),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
