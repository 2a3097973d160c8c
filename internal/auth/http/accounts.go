package http

import (
	"net/http"

	"github.com/aussiebroadwan/hrsoft/internal/auth/service"
	"github.com/aussiebroadwan/hrsoft/pkg/authsdk"
	"github.com/aussiebroadwan/hrsoft/pkg/httpx"
)

// AccountsHandler serves the admin account endpoints.
type AccountsHandler struct {
	AccountService *service.AccountService
}

// HandleSetPermissions godoc
//
//	@Summary		Replace an account's permissions
//	@Description	The new set applies to access tokens issued from the next login or refresh.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"Account ID"
//	@Param			request	body		authsdk.SetPermissionsRequest	true	"Permission set"
//	@Success		200		{object}	authsdk.AccountResponse
//	@Failure		400		{object}	authsdk.APIError
//	@Failure		401		{object}	authsdk.APIError	"authentication_failed"
//	@Failure		403		{object}	authsdk.APIError	"insufficient_permissions"
//	@Failure		404		{object}	authsdk.APIError	"not_found"
//	@Router			/v1/accounts/{id}/permissions [put]
func (h *AccountsHandler) HandleSetPermissions(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SetPermissionsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	acc, err := h.AccountService.SetPermissions(r.Context(), r.PathValue("id"), req.Permissions)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accountResponse(acc))
}

// HandleSetStatus godoc
//
//	@Summary		Activate or deactivate an account
//	@Description	Inactive accounts can neither log in nor refresh.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"Account ID"
//	@Param			request	body		authsdk.SetStatusRequest	true	"Status"
//	@Success		200		{object}	authsdk.AccountResponse
//	@Failure		400		{object}	authsdk.APIError
//	@Failure		401		{object}	authsdk.APIError	"authentication_failed"
//	@Failure		403		{object}	authsdk.APIError	"insufficient_permissions"
//	@Failure		404		{object}	authsdk.APIError	"not_found"
//	@Router			/v1/accounts/{id}/status [put]
func (h *AccountsHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SetStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	acc, err := h.AccountService.SetActive(r.Context(), r.PathValue("id"), *req.Active)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accountResponse(acc))
}
