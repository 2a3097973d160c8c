package authsdk

import (
	"context"
	"net/http"
)

// Register creates a self-service account with the default permissions.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*AccountResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/register", "", req, nil)
	if err != nil {
		return nil, err
	}

	var acc AccountResponse
	if err := decodeJSON(resp, &acc, http.StatusCreated); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Login exchanges credentials for an access and refresh token pair.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/login", "",
		LoginRequest{Username: username, Password: password}, nil)
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Refresh obtains a new access token. The refresh token in the response is
// the one that was sent.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/refresh", "",
		RefreshRequest{RefreshToken: refreshToken}, nil)
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// ValidateToken asks the service to check an access token.
func (c *SDKClient) ValidateToken(ctx context.Context, accessToken string) (*ValidateTokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/validate-token", accessToken, nil, nil)
	if err != nil {
		return nil, err
	}

	var out ValidateTokenResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
