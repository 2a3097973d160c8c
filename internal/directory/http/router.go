// Package http exposes the directory service over JSON. Every route except
// the health probes needs an access token issued by the auth service.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/hrsoft/internal/directory/service"
	"github.com/aussiebroadwan/hrsoft/pkg/authz"
	"github.com/aussiebroadwan/hrsoft/pkg/httpx"
	"github.com/aussiebroadwan/hrsoft/pkg/jwtx"
	"github.com/aussiebroadwan/hrsoft/pkg/slogx"
)

type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	limits       httpx.RateLimits
	buildVersion string
	startTime    time.Time
	db           Pinger

	Service *service.DirectoryService
}

func NewRouter(verifier jwtx.Verifier, buildVersion string, db Pinger, limits httpx.RateLimits, logger *slog.Logger) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		middlewares:  []httpx.Middleware{slogx.HTTPMiddleware(logger)},
		verifier:     verifier,
		limits:       limits.WithDefaults(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		db:           db,
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) authed(h http.HandlerFunc, gate authz.Gate, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireGate(gate),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) ApplyRoutes() {
	emp := &EmployeesHandler{Service: r.Service}
	r.Mux.Handle("POST /v1/employees", r.authed(emp.HandleCreate, authz.HR, r.limits.Moderate))
	r.Mux.Handle("GET /v1/employees", r.authed(emp.HandleList, authz.Authenticated, r.limits.Lenient))
	r.Mux.Handle("GET /v1/employees/{id}", r.authed(emp.HandleGet, authz.Authenticated, r.limits.Lenient))
	r.Mux.Handle("PUT /v1/employees/{id}", r.authed(emp.HandleUpdate, authz.HR, r.limits.Moderate))
	r.Mux.Handle("DELETE /v1/employees/{id}", r.authed(emp.HandleDelete, authz.HR, r.limits.Moderate))

	r.Mux.Handle("GET /v1/employees/{id}/profile", r.authed(emp.HandleGetProfile, authz.Authenticated, r.limits.Lenient))
	r.Mux.Handle("POST /v1/employees/{id}/profile", r.authed(emp.HandleCreateProfile, authz.Authenticated, r.limits.Moderate))
	r.Mux.Handle("PUT /v1/employees/{id}/profile", r.authed(emp.HandleUpdateProfile, authz.Authenticated, r.limits.Moderate))

	dept := &DepartmentsHandler{Service: r.Service}
	r.Mux.Handle("POST /v1/departments", r.authed(dept.HandleCreate, authz.HR, r.limits.Moderate))
	r.Mux.Handle("GET /v1/departments", r.authed(dept.HandleList, authz.Authenticated, r.limits.Lenient))
	r.Mux.Handle("GET /v1/departments/{id}", r.authed(dept.HandleGet, authz.Authenticated, r.limits.Lenient))
	r.Mux.Handle("PUT /v1/departments/{id}", r.authed(dept.HandleUpdate, authz.HR, r.limits.Moderate))

	r.Mux.Handle("GET /livez", httpx.Chain(livezHandler(r.startTime, r.buildVersion), httpx.RateLimitByIP(r.limits.Public)))
	r.Mux.Handle("GET /readyz", httpx.Chain(readyzHandler(r.startTime, r.buildVersion, r.db), httpx.RateLimitByIP(r.limits.Public)))
}
