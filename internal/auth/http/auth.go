package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/hrsoft/internal/auth/domain"
	"github.com/aussiebroadwan/hrsoft/internal/auth/service"
	"github.com/aussiebroadwan/hrsoft/pkg/authsdk"
	"github.com/aussiebroadwan/hrsoft/pkg/httpx"
	"github.com/aussiebroadwan/hrsoft/pkg/slogx"
)

// AuthHandler serves the /v1/auth endpoints.
type AuthHandler struct {
	TokenService   *service.TokenService
	AccountService *service.AccountService
}

func tokenResponse(p *domain.TokenPair) authsdk.TokenResponse {
	return authsdk.TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
		ExpiresIn:    int(p.ExpiresIn / time.Second),
	}
}

func accountResponse(a domain.Account) authsdk.AccountResponse {
	perms := a.Permissions
	if perms == nil {
		perms = []string{}
	}
	return authsdk.AccountResponse{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		FullName:    a.FullName,
		Active:      a.Active,
		Superuser:   a.Superuser,
		Permissions: perms,
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// HandleRegister godoc
//
//	@Summary		Register an account
//	@Description	Creates an active account with the default "user" permission.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest	true	"Account details"
//	@Success		201		{object}	authsdk.AccountResponse
//	@Failure		400		{object}	authsdk.APIError	"invalid_request or validation_error"
//	@Failure		409		{object}	authsdk.APIError	"username or email already registered"
//	@Failure		429		{object}	authsdk.APIError	"rate_limit_exceeded"
//	@Router			/v1/auth/register [post]
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	acc, err := h.AccountService.Register(r.Context(), req.Username, req.Email, req.FullName, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, accountResponse(acc))
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Exchanges a username and password for an access and refresh token pair.
//	@Description	Unknown users, wrong passwords and inactive accounts are indistinguishable.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.TokenResponse
//	@Failure		400		{object}	authsdk.APIError
//	@Failure		401		{object}	authsdk.APIError	"authentication_failed"
//	@Failure		429		{object}	authsdk.APIError	"rate_limit_exceeded"
//	@Header			200		{string}	Cache-Control	"no-store"
//	@Router			/v1/auth/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := h.TokenService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tokenResponse(pair))
}

// HandleRefresh godoc
//
//	@Summary		Refresh the access token
//	@Description	Issues a new access token carrying the account's current permissions.
//	@Description	The refresh token is returned unchanged.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	authsdk.TokenResponse
//	@Failure		400		{object}	authsdk.APIError
//	@Failure		401		{object}	authsdk.APIError	"authentication_failed"
//	@Header			200		{string}	Cache-Control	"no-store"
//	@Router			/v1/auth/refresh [post]
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := h.TokenService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tokenResponse(pair))
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Revokes the refresh token. Unknown or already revoked tokens still return 200.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		authsdk.RefreshRequest	true	"Refresh token to revoke"
//	@Success		200		{object}	authsdk.MessageResponse
//	@Failure		400		{object}	authsdk.APIError
//	@Failure		401		{object}	authsdk.APIError	"authentication_failed"
//	@Router			/v1/auth/logout [post]
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.TokenService.Logout(r.Context(), req.RefreshToken); err != nil {
		slogx.FromContext(r.Context()).Warn("logout revoke failed", "error", err)
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "successfully logged out"})
}

// HandleValidateToken godoc
//
//	@Summary		Validate an access token
//	@Description	Verifies the bearer token offline and echoes its subject and permissions.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.ValidateTokenResponse
//	@Failure		401	{object}	authsdk.APIError	"authentication_failed"
//	@Router			/v1/auth/validate-token [post]
func (h *AuthHandler) HandleValidateToken(w http.ResponseWriter, r *http.Request) {
	raw, ok := httpx.BearerToken(r)
	if !ok {
		authsdk.ErrAuthenticationFailed.WriteError(w)
		return
	}

	claims, err := h.TokenService.Validate(r.Context(), raw)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	perms := claims.Permissions
	if perms == nil {
		perms = []string{}
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.ValidateTokenResponse{
		Valid:       true,
		AccountID:   claims.Subject,
		Permissions: perms,
		ExpiresAt:   claims.Expiry().Unix(),
	})
}

// HandleChangePassword godoc
//
//	@Summary		Change password
//	@Description	Replaces the caller's password after checking the current one.
//	@Description	Existing refresh tokens remain valid.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		authsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	authsdk.MessageResponse
//	@Failure		400		{object}	authsdk.APIError
//	@Failure		401		{object}	authsdk.APIError	"authentication_failed"
//	@Router			/v1/auth/change-password [post]
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	subject := httpx.SubjectFromContext(r.Context())
	if err := h.TokenService.ChangePassword(r.Context(), subject, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "password changed successfully"})
}

// HandleMe godoc
//
//	@Summary		Current account
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.AccountResponse
//	@Failure		401	{object}	authsdk.APIError	"authentication_failed"
//	@Failure		404	{object}	authsdk.APIError	"not_found"
//	@Router			/v1/auth/me [get]
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	acc, err := h.AccountService.GetAccount(r.Context(), httpx.SubjectFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accountResponse(acc))
}
