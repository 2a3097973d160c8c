package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/hrsoft/internal/auth/domain"
	"github.com/aussiebroadwan/hrsoft/internal/auth/store"
	"github.com/aussiebroadwan/hrsoft/pkg/authz"
	"github.com/aussiebroadwan/hrsoft/pkg/cryptox"
	"github.com/aussiebroadwan/hrsoft/pkg/idx"
	"github.com/aussiebroadwan/hrsoft/pkg/slogx"
)

var (
	ErrUsernameTaken = errors.New("username_taken")
	ErrEmailTaken    = errors.New("email_taken")
	ErrInvalidInput  = errors.New("invalid_input")
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
)

// DefaultPermissions are granted to every self-registered account.
func DefaultPermissions() []string { return []string{authz.PermUser} }

type AccountService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
}

// Register creates an active account with the default permission set.
func (s *AccountService) Register(ctx context.Context, username, email, fullName, password string) (domain.Account, error) {
	l := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)

	if err := validateUsername(username); err != nil {
		return domain.Account{}, err
	}
	if !strings.Contains(email, "@") {
		return domain.Account{}, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if err := validatePassword(password); err != nil {
		return domain.Account{}, err
	}

	if _, err := s.Store.Accounts().GetAccountByUsername(ctx, username); err == nil {
		return domain.Account{}, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, err
	}
	if _, err := s.Store.Accounts().GetAccountByEmail(ctx, email); err == nil {
		return domain.Account{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, err
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return domain.Account{}, err
	}

	acc := domain.Account{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Active:       true,
		Permissions:  DefaultPermissions(),
	}
	if err := s.Store.Accounts().CreateAccount(ctx, acc); err != nil {
		// Lost a race with a concurrent registration.
		switch {
		case errors.Is(err, store.ErrUsernameExists):
			return domain.Account{}, ErrUsernameTaken
		case errors.Is(err, store.ErrEmailExists):
			return domain.Account{}, ErrEmailTaken
		}
		return domain.Account{}, err
	}

	l.Info("account registered", slog.String("account_id", acc.ID))
	return s.GetAccount(ctx, acc.ID)
}

// GetAccount returns the account or ErrNotFound.
func (s *AccountService) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	acc, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrNotFound
		}
		return domain.Account{}, err
	}
	return acc, nil
}

// SetPermissions replaces the account's permission set. Access tokens issued
// before the change keep their old permissions until they are refreshed.
func (s *AccountService) SetPermissions(ctx context.Context, id string, perms []string) (domain.Account, error) {
	for _, p := range perms {
		if !authz.ValidPermission(strings.TrimSpace(p)) {
			return domain.Account{}, fmt.Errorf("%w: invalid permission %q", ErrInvalidInput, p)
		}
	}
	perms = authz.Normalize(perms)

	if err := s.Store.Accounts().UpdatePermissions(ctx, id, perms); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrNotFound
		}
		return domain.Account{}, err
	}

	slogx.FromContext(ctx).Info("account permissions updated",
		slog.String("account_id", id),
		slog.Any("permissions", perms),
	)
	return s.GetAccount(ctx, id)
}

// SetActive enables or disables an account. Disabled accounts can neither
// log in nor refresh.
func (s *AccountService) SetActive(ctx context.Context, id string, active bool) (domain.Account, error) {
	if err := s.Store.Accounts().SetActive(ctx, id, active); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrNotFound
		}
		return domain.Account{}, err
	}

	slogx.FromContext(ctx).Info("account status updated",
		slog.String("account_id", id),
		slog.Bool("active", active),
	)
	return s.GetAccount(ctx, id)
}

func validateUsername(username string) error {
	if n := len(username); n < 3 || n > 50 {
		return fmt.Errorf("%w: username must be 3 to 50 characters", ErrInvalidInput)
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
		default:
			return fmt.Errorf("%w: username may only contain letters, digits, '_', '-' and '.'", ErrInvalidInput)
		}
	}
	return nil
}

func validatePassword(password string) error {
	if n := len(password); n < MinPasswordLength || n > MaxPasswordLength {
		return fmt.Errorf("%w: password must be %d to %d bytes", ErrInvalidInput, MinPasswordLength, MaxPasswordLength)
	}
	return nil
}
