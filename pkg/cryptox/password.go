package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches 12 rounds, the work factor the platform has always
// stored passwords with.
const DefaultBcryptCost = 12

// ErrPasswordTooLong is returned for inputs bcrypt would silently truncate.
var ErrPasswordTooLong = errors.New("cryptox: password exceeds 72 bytes")

// PasswordHasher hashes and verifies passwords with bcrypt. The zero value
// uses DefaultBcryptCost.
type PasswordHasher struct {
	Cost int

	dummyOnce sync.Once
	dummy     string
}

// NewPasswordHasher returns a hasher using cost, clamped to bcrypt's valid
// range. A cost of zero selects DefaultBcryptCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	switch {
	case cost == 0:
		cost = DefaultBcryptCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{Cost: cost}
}

func (h *PasswordHasher) cost() int {
	if h == nil || h.Cost == 0 {
		return DefaultBcryptCost
	}
	return h.Cost
}

// Hash returns a salted bcrypt hash. Equal passwords hash to different strings.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(out), nil
}

// Verify reports whether password matches hash. Malformed hashes simply don't
// match, and neither does anything longer than Hash accepts.
func (h *PasswordHasher) Verify(password, hash string) bool {
	if hash == "" || len(password) > 72 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DummyHash returns a valid hash at this hasher's cost that no real password
// is expected to match. Comparing against it on unknown usernames keeps login
// latency the same as a wrong-password attempt.
func (h *PasswordHasher) DummyHash() string {
	h.dummyOnce.Do(func() {
		raw := make([]byte, 32)
		_, _ = rand.Read(raw) // never fails on supported platforms
		// 43 chars base64url, well under bcrypt's 72-byte limit.
		secret := base64.RawURLEncoding.EncodeToString(raw)
		out, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost())
		if err == nil {
			h.dummy = string(out)
		}
	})
	return h.dummy
}
