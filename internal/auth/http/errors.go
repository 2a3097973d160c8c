package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/hrsoft/internal/auth/service"
	"github.com/aussiebroadwan/hrsoft/pkg/authsdk"
	"github.com/aussiebroadwan/hrsoft/pkg/authz"
	"github.com/aussiebroadwan/hrsoft/pkg/cryptox"
	"github.com/aussiebroadwan/hrsoft/pkg/httpx"
	"github.com/aussiebroadwan/hrsoft/pkg/slogx"
)

// writeServiceError maps a service error to its API error. Anything
// unrecognised is logged and reported as a 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed):
		authsdk.ErrAuthenticationFailed.WriteError(w)
	case errors.Is(err, authz.ErrInsufficientPermissions):
		authsdk.ErrInsufficientPermissions.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		authsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrUsernameTaken):
		authsdk.ErrUsernameTaken.WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		authsdk.ErrEmailTaken.WriteError(w)
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, cryptox.ErrPasswordTooLong):
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
	case errors.Is(err, service.ErrBootstrapDisabled):
		authsdk.ErrBootstrapDisabled.WriteError(w)
	case errors.Is(err, service.ErrBootstrapUnauthorized):
		authsdk.ErrBootstrapUnauthorized.WriteError(w)
	case errors.Is(err, service.ErrBootstrapAlready):
		authsdk.ErrBootstrapAlready.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		authsdk.ErrServerError.WriteError(w)
	}
}

// decodeBody reads a JSON request into dst and runs its validation. It
// writes the error response itself and reports whether the handler should
// continue.
func decodeBody[T interface{ Validate() map[string]string }](w http.ResponseWriter, r *http.Request, dst *T) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		if errors.Is(err, httpx.ErrUnsupportedMediaType) {
			authsdk.ErrInvalidContentType.WriteError(w)
			return false
		}
		slogx.FromContext(r.Context()).Debug("bad request body", slog.Any("error", err))
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "request body must be a valid JSON object").WriteError(w)
		return false
	}
	if errs := (*dst).Validate(); errs != nil {
		authsdk.NewValidationError(errs).WriteError(w)
		return false
	}
	return true
}
