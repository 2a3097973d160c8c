package domain

import (
	"slices"
	"time"
)

// Account is a login identity. Permissions are an ordered, de-duplicated set
// of case-sensitive strings copied into every access token at issuance.
type Account struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	PasswordHash string // bcrypt encoded
	Active       bool
	Superuser    bool
	Permissions  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPermission reports whether p is in the account's permission set.
func (a Account) HasPermission(p string) bool {
	return slices.Contains(a.Permissions, p)
}
