package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/streamvault/streamvault/internal/domain"
	"github.com/streamvault/streamvault/internal/service"
	"github.com/streamvault/streamvault/internal/store"
	"github.com/streamvault/streamvault/pkg/httpx"
	"github.com/streamvault/streamvault/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers and the global
// middleware chain every request passes through: request logging, CORS,
// the content-type guard and bearer authentication with exemptions.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AuthService  *service.AuthService
	ShowsService *service.ShowsService

	Authn  AuthnConfig
	CORS   httpx.CORSConfig
	Cookie CookieConfig
}

func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	authn AuthnConfig,
	cors httpx.CORSConfig,
	cookie CookieConfig,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		Authn:        authn,
		CORS:         cors,
		Cookie:       cookie,
	}

	// Global chain, outermost first. The content-type guard sits before
	// authentication so a bad media type never reaches token handling.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORSMiddleware(r.CORS),
		httpx.RequireJSONBody(),
		AuthnMiddleware(r.Authn),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerShows()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService, Cookie: r.Cookie}

	// Credential endpoints are rate limited strictly by IP to slow down
	// brute forcing.
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/refresh-token",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerShows() {
	h := &ShowsHandler{ShowsService: r.ShowsService}

	secured := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.RequireAnyRole(domain.RoleUser),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /api/v1/netflix-shows", secured(h.HandleList))
	r.Mux.Handle("GET /api/v1/netflix-shows/{id}", secured(h.HandleGet))
	r.Mux.Handle("POST /api/v1/netflix-shows", secured(h.HandleCreate))
	r.Mux.Handle("PUT /api/v1/netflix-shows/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/v1/netflix-shows/{id}", secured(h.HandleDelete))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
