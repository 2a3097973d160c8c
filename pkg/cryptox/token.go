package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
)

// FingerprintToken is the lookup key for a stored refresh token: the
// unpadded base64url SHA-256 of the token text, 43 characters. Stores never
// hold the token itself.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
