package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Me returns the account behind the session.
func (s *Session) Me(ctx context.Context) (*AccountResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var acc AccountResponse
	if err := decodeJSON(resp, &acc, http.StatusOK); err != nil {
		return nil, err
	}
	return &acc, nil
}

// ValidateToken validates the session's current access token.
func (s *Session) ValidateToken(ctx context.Context) (*ValidateTokenResponse, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.ValidateToken(ctx, token)
}

// ChangePassword replaces the account password. Existing refresh tokens,
// including this session's, remain valid.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/change-password", ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// SetPermissions replaces another account's permissions.
// Requires: admin
func (s *Session) SetPermissions(ctx context.Context, accountID string, permissions []string) (*AccountResponse, error) {
	if permissions == nil {
		permissions = []string{}
	}
	resp, err := s.doAuthRequest(ctx, http.MethodPut,
		"/v1/accounts/"+url.PathEscape(accountID)+"/permissions",
		SetPermissionsRequest{Permissions: permissions})
	if err != nil {
		return nil, err
	}

	var acc AccountResponse
	if err := decodeJSON(resp, &acc, http.StatusOK); err != nil {
		return nil, err
	}
	return &acc, nil
}

// SetStatus activates or deactivates another account.
// Requires: admin
func (s *Session) SetStatus(ctx context.Context, accountID string, active bool) (*AccountResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut,
		"/v1/accounts/"+url.PathEscape(accountID)+"/status",
		SetStatusRequest{Active: &active})
	if err != nil {
		return nil, err
	}

	var acc AccountResponse
	if err := decodeJSON(resp, &acc, http.StatusOK); err != nil {
		return nil, err
	}
	return &acc, nil
}
