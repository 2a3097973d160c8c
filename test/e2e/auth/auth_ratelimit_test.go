package auth_test

import (
	"testing"

	"github.com/aussiebroadwan/hrsoft/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestLoginRateLimit uses production limits: five attempts per username and
// address, then 429.
func TestLoginRateLimit(t *testing.T) {
	baseURL := setupAuthContainerWithDefaultRateLimits(t)
	client := authsdk.NewSDKClient(baseURL)

	for i := range 5 {
		_, err := client.Login(t.Context(), "mallory", "guess-password")
		require.ErrorIs(t, err, authsdk.ErrAuthenticationFailed, "attempt %d", i+1)
	}

	_, err := client.Login(t.Context(), "mallory", "guess-password")
	require.Error(t, err)

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 429, apiErr.StatusCode)
	require.Equal(t, authsdk.ErrorCodeRateLimitExceeded, apiErr.Code)
}
