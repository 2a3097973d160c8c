package domain

import "time"

// TokenType is the token_type reported alongside every issued pair.
const TokenType = "bearer"

// TokenPair is what login and refresh hand back to the caller.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    time.Duration // lifetime of the access token
}

// RefreshToken is the server-side record of an issued refresh token. Records
// are keyed by TokenHash and are never deleted; once Revoked is set it stays
// set.
type RefreshToken struct {
	ID        string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	SubjectID string
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// Active reports whether the record can still be exchanged for access tokens.
// Expiry itself is enforced by the codec, this only covers revocation.
func (t RefreshToken) Active() bool { return !t.Revoked }
