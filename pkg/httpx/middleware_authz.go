package httpx

import (
	"net/http"

	"github.com/aussiebroadwan/hrsoft/pkg/authz"
	"github.com/aussiebroadwan/hrsoft/pkg/slogx"
)

// RequireGate rejects requests whose token permissions do not satisfy g. It
// must run after AuthnMiddleware.
func RequireGate(g authz.Gate) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ClaimsFromContext(r.Context()); !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			if err := g.Require(permissionsFromCtx(r.Context())); err != nil {
				slogx.FromContext(r.Context()).Info("permission denied",
					"required", g.String(),
					"path", r.URL.Path,
				)
				writeInsufficientPermissions(w, g)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermissions is RequireGate for an ad-hoc set.
func RequirePermissions(required ...string) Middleware {
	return RequireGate(authz.New(required...))
}

func writeInsufficientPermissions(w http.ResponseWriter, g authz.Gate) {
	w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+g.String()+`"`)
	WriteError(w, http.StatusForbidden, ErrorCodeInsufficientPermissions, "not enough permissions")
}
