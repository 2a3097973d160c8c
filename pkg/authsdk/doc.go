/*
Package authsdk provides a client SDK for the HRSoft authentication service
and the request, response and error types its HTTP API speaks.

# SDKClient vs Session

  - SDKClient: unauthenticated operations (register, login, refresh, bootstrap, health)
  - Session: authenticated operations with automatic access token refresh

	client := authsdk.NewSDKClient("http://localhost:8001")

	// Check service health
	health, err := client.GetLiveness(ctx)

	// Create the first administrator (one-time setup)
	admin, err := client.Bootstrap(ctx, token, authsdk.BootstrapRequest{...})

	// Log in and get a session
	session, err := client.Authenticate(ctx, "alice", "secret-password")

Sessions refresh their access token once it expires. Refresh never rotates
the refresh token, and the new access token carries the account's current
permissions, so ForceRefresh picks up grants made by an administrator:

	me, err := session.Me(ctx)
	err = session.ForceRefresh(ctx)
	err = session.Logout(ctx)

# Errors

Every failure from the service is an *APIError. Compare with errors.Is
against the predefined values:

	_, err := client.Login(ctx, "alice", "wrong")
	if errors.Is(err, authsdk.ErrAuthenticationFailed) {
		// bad credentials, unknown user or inactive account
	}

Validation failures carry per-field Details keyed by JSON field name.

# Server side

Handlers in the auth and directory services write the same predefined
errors with (*APIError).WriteError and validate request bodies with each
request type's Validate method, or Struct for their own types.
*/
package authsdk
