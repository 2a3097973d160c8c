package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/hrsoft/internal/auth/service"
	"github.com/aussiebroadwan/hrsoft/internal/auth/store"
	"github.com/aussiebroadwan/hrsoft/pkg/authz"
	"github.com/aussiebroadwan/hrsoft/pkg/httpx"
	"github.com/aussiebroadwan/hrsoft/pkg/jwtx"
	"github.com/aussiebroadwan/hrsoft/pkg/slogx"

	_ "github.com/aussiebroadwan/hrsoft/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	limits       httpx.RateLimits
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	// health checks keyed by name, reported by /readyz
	deps map[string]store.Pinger

	TokenService     *service.TokenService
	AccountService   *service.AccountService
	BootstrapService *service.BootstrapService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	deps map[string]store.Pinger,
	limits httpx.RateLimits,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		limits:       limits.WithDefaults(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		deps:         deps,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAccounts()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			HRSoft Authentication Service API
//	@version		0.1.0
//	@description	Account management and JWT issuance for the HRSoft backend.
//	@description
//	@description				Access and refresh tokens are HS256 signed. Access tokens are verified offline by every service.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/hrsoft
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8001
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authed wraps h in bearer authentication, a permission gate and a per-user
// rate limit.
func (r *Router) authed(h http.HandlerFunc, gate authz.Gate, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireGate(gate),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		TokenService:   r.TokenService,
		AccountService: r.AccountService,
	}

	// Public endpoints, strict limits against credential stuffing
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(r.limits.Strict, "username"),
		),
	)
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)

	r.Mux.Handle("POST /v1/auth/logout", r.authed(h.HandleLogout, authz.Authenticated, r.limits.Moderate))
	r.Mux.Handle("POST /v1/auth/validate-token", r.authed(h.HandleValidateToken, authz.Authenticated, r.limits.Lenient))
	r.Mux.Handle("POST /v1/auth/change-password", r.authed(h.HandleChangePassword, authz.Authenticated, r.limits.Strict))
	r.Mux.Handle("GET /v1/auth/me", r.authed(h.HandleMe, authz.Authenticated, r.limits.Lenient))
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{AccountService: r.AccountService}

	r.Mux.Handle("PUT /v1/accounts/{id}/permissions", r.authed(h.HandleSetPermissions, authz.Admin, r.limits.Moderate))
	r.Mux.Handle("PUT /v1/accounts/{id}/status", r.authed(h.HandleSetStatus, authz.Admin, r.limits.Moderate))
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(&BootstrapHandler{BootstrapService: r.BootstrapService},
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
}

func (r *Router) registerSystem() {
	// Probes get the public tier, monitoring polls often
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.deps),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}
