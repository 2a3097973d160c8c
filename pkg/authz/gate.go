// Package authz checks a caller's granted permissions against a required set.
//
// A Gate is built once with the permissions a route needs and then applied to
// every request. Requirements are all-of: each required string must appear in
// the granted set. There is no hierarchy. An account that should pass both
// the HR and the Admin gates must be granted both "hr" and "admin".
package authz

import (
	"errors"
	"slices"
	"strings"
)

// Well-known permission strings.
const (
	PermUser    = "user"
	PermManager = "manager"
	PermHR      = "hr"
	PermAdmin   = "admin"
)

// ErrInsufficientPermissions is returned when a granted set lacks at least one
// required permission.
var ErrInsufficientPermissions = errors.New("authz: insufficient permissions")

// Gate is an immutable, order-independent set of required permissions.
type Gate struct {
	required []string
}

// New builds a Gate. Duplicates and ordering in required are irrelevant.
func New(required ...string) Gate {
	return Gate{required: Normalize(required)}
}

// Presets. Each is an independent requirement set.
var (
	// Authenticated requires nothing beyond a valid identity.
	Authenticated = New()
	Admin         = New(PermAdmin)
	HR            = New(PermHR, PermAdmin)
	Manager       = New(PermManager, PermHR, PermAdmin)
)

// Required returns a copy of the required permissions, sorted.
func (g Gate) Required() []string {
	return slices.Clone(g.required)
}

// Require returns nil when every required permission is in granted.
func (g Gate) Require(granted []string) error {
	if len(g.required) == 0 {
		return nil
	}

	have := make(map[string]struct{}, len(granted))
	for _, p := range granted {
		have[p] = struct{}{}
	}
	for _, want := range g.required {
		if _, ok := have[want]; !ok {
			return ErrInsufficientPermissions
		}
	}
	return nil
}

// Allows is Require as a boolean.
func (g Gate) Allows(granted []string) bool {
	return g.Require(granted) == nil
}

// String renders the requirement space-separated, as used in WWW-Authenticate.
func (g Gate) String() string {
	return strings.Join(g.required, " ")
}

// Require checks granted against required without building a Gate.
func Require(granted []string, required ...string) error {
	return New(required...).Require(granted)
}

// ValidPermission reports whether p is a case-sensitive ASCII identifier made
// of letters, digits, '_', '.', ':' or '-'.
func ValidPermission(p string) bool {
	if p == "" || len(p) > 64 {
		return false
	}
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '.', c == ':', c == '-':
		default:
			return false
		}
	}
	return true
}

// Normalize trims, de-duplicates and sorts a permission list. Empty entries
// are dropped.
func Normalize(perms []string) []string {
	out := make([]string, 0, len(perms))
	seen := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
