package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/hrsoft/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// Column specific conflicts, both match ErrAlreadyExists.
	ErrUsernameExists = fmt.Errorf("%w: username", ErrAlreadyExists)
	ErrEmailExists    = fmt.Errorf("%w: email", ErrAlreadyExists)
)

// Store is the root data access interface implemented by the SQL drivers. It
// hands out sub-repositories so a transaction-scoped Store can expose the same
// repos without allowing transactions within transactions.
type Store interface {
	Accounts() Accounts
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, rolling back when fn returns an
	// error and committing otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByUsername is used during login.
	GetAccountByUsername(ctx context.Context, username string) (domain.Account, error)

	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// CreateAccount inserts a new account (id is provided by the caller via
	// ULID). A taken username or email yields ErrAlreadyExists.
	CreateAccount(ctx context.Context, a domain.Account) error

	// UpdatePasswordHash sets the bcrypt hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, accountID, newHash string) error

	// UpdatePermissions replaces the permission set and bumps updated_at.
	UpdatePermissions(ctx context.Context, accountID string, permissions []string) error

	// SetActive toggles the active flag and bumps updated_at.
	SetActive(ctx context.Context, accountID string, active bool) error

	// IsEmpty returns true if there are no accounts.
	IsEmpty(ctx context.Context) (bool, error)
}

// RefreshTokens is keyed by the token fingerprint. Every method is atomic
// with respect to concurrent callers.
type RefreshTokens interface {
	// CreateRefreshToken stores a new record. A fingerprint that already
	// exists yields ErrAlreadyExists and leaves the stored record untouched.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetActiveRefreshToken returns the record only while it is not revoked;
	// absent and revoked records both yield ErrNotFound.
	GetActiveRefreshToken(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken marks the record revoked. Unknown or already revoked
	// fingerprints are not an error.
	RevokeRefreshToken(ctx context.Context, hash string) error
}

// Pinger is implemented by stores that can report liveness. The readiness
// probe uses it for refresh token backends living outside the SQL store.
type Pinger interface {
	Ping(ctx context.Context) error
}
