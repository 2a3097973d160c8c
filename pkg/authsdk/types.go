package authsdk

// ============================================================================
// Token Types
// ============================================================================

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the body of POST /v1/auth/refresh and /v1/auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`
}

// ValidateTokenResponse describes the bearer token sent to
// POST /v1/auth/validate-token.
type ValidateTokenResponse struct {
	Valid       bool     `json:"valid"`
	AccountID   string   `json:"account_id"`
	Permissions []string `json:"permissions"`
	ExpiresAt   int64    `json:"expires_at"` // epoch seconds
}

// ============================================================================
// Account Types
// ============================================================================

// RegisterRequest is the body of POST /v1/auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
	FullName string `json:"full_name" validate:"max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ChangePasswordRequest is the body of POST /v1/auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,max=72"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// SetPermissionsRequest replaces an account's permission set. An empty list
// clears every permission.
type SetPermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"max=64,dive,permission"`
}

// SetStatusRequest activates or deactivates an account.
type SetStatusRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	Active      bool     `json:"is_active"`
	Superuser   bool     `json:"is_superuser"`
	Permissions []string `json:"permissions"`
	CreatedAt   string   `json:"created_at"` // RFC3339
	UpdatedAt   string   `json:"updated_at"` // RFC3339
}

// MessageResponse acknowledges operations without a resource body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Bootstrap Types
// ============================================================================

// BootstrapRequest creates the first administrator on an empty system.
type BootstrapRequest struct {
	AdminUsername string `json:"admin_username" validate:"required,min=3,max=50,username"`
	AdminEmail    string `json:"admin_email" validate:"required,email,max=254"`
	AdminFullName string `json:"admin_full_name" validate:"max=100"`
	AdminPassword string `json:"admin_password" validate:"required,min=8,max=72"`
}

// BootstrapResponse carries the ID of the created administrator.
type BootstrapResponse struct {
	AdminAccountID string `json:"admin_account_id"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	Version string `json:"version,omitempty"`

	Checks map[string]string `json:"checks,omitempty"`
}
