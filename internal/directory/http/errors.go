package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/hrsoft/internal/directory/service"
	"github.com/aussiebroadwan/hrsoft/pkg/authsdk"
	"github.com/aussiebroadwan/hrsoft/pkg/httpx"
	"github.com/aussiebroadwan/hrsoft/pkg/slogx"
)

// writeServiceError maps directory errors onto API errors. The sentinel text
// after the "kind: " prefix becomes the description, so clients learn which
// reference or unique field was at fault.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		authsdk.NewAPIError(http.StatusNotFound, authsdk.ErrorCodeNotFound, describe(err)).WriteError(w)
	case errors.Is(err, service.ErrConflict):
		authsdk.NewAPIError(http.StatusConflict, authsdk.ErrorCodeConflict, describe(err)).WriteError(w)
	case errors.Is(err, service.ErrInvalidInput):
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, describe(err)).WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		authsdk.ErrServerError.WriteError(w)
	}
}

func describe(err error) string {
	msg := err.Error()
	if _, rest, ok := strings.Cut(msg, ": "); ok {
		return rest
	}
	return msg
}

// decodeBody reads and validates a JSON body, writing the error response
// itself. It reports whether the handler should continue.
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
