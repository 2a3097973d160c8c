package http

import (
	"net/http"

	"github.com/aussiebroadwan/hrsoft/internal/auth/domain"
	"github.com/aussiebroadwan/hrsoft/internal/auth/service"
	"github.com/aussiebroadwan/hrsoft/pkg/authsdk"
	"github.com/aussiebroadwan/hrsoft/pkg/httpx"
	"github.com/aussiebroadwan/hrsoft/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the system
//	@Description	Creates the first superuser with the admin, hr, manager and user permissions.
//	@Description	Only available when a bootstrap token is configured, and only while no account exists.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Bootstrap token"
//	@Param			request				body		authsdk.BootstrapRequest	true	"Administrator account"
//	@Success		201					{object}	authsdk.BootstrapResponse
//	@Failure		400					{object}	authsdk.APIError	"invalid_request or validation_error"
//	@Failure		401					{object}	authsdk.APIError	"missing or invalid bootstrap token"
//	@Failure		404					{object}	authsdk.APIError	"bootstrap not enabled"
//	@Failure		409					{object}	authsdk.APIError	"already bootstrapped"
//	@Failure		500					{object}	authsdk.APIError
//	@Router			/v1/bootstrap [post]
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())
	l.Info("bootstrap requested")

	// Disabled looks like a missing route.
	if h.BootstrapService.Token == "" {
		authsdk.ErrBootstrapDisabled.WriteError(w)
		return
	}

	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		authsdk.ErrBootstrapUnauthorized.WriteError(w)
		return
	}

	var req authsdk.BootstrapRequest
	if !decodeBody(w, r, &req) {
		return
	}

	adminID, err := h.BootstrapService.Bootstrap(r.Context(), token, domain.BootstrapData{
		AdminUsername: req.AdminUsername,
		AdminEmail:    req.AdminEmail,
		AdminFullName: req.AdminFullName,
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.BootstrapResponse{AdminAccountID: adminID})
}
