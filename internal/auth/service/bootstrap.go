package service

import (
	"context"
	"crypto/subtle"
	"errors"
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
	ErrBootstrapAlready             = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized        = errors.New("unauthorized bootstrap attempt")
	ErrBootstrapDisabled            = errors.New("bootstrap disabled")
	ErrBootstrapFailedToCreateAdmin = errors.New("failed to create admin account")
)

// AdminPermissions is the permission set given to the bootstrap administrator.
func AdminPermissions() []string {
	return authz.Normalize([]string{authz.PermAdmin, authz.PermHR, authz.PermManager, authz.PermUser})
}

type BootstrapService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
	Token  string // Pre-configured bootstrap token, empty disables bootstrap
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Accounts().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the first superuser. It only succeeds with the configured
// token and only while the account table is empty.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req domain.BootstrapData) (string, error) {
	l := slogx.FromContext(ctx)

	if s.Token == "" {
		return "", ErrBootstrapDisabled
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return "", ErrBootstrapUnauthorized
	}

	if err := validateUsername(strings.TrimSpace(req.AdminUsername)); err != nil {
		return "", err
	}
	if err := validatePassword(req.AdminPassword); err != nil {
		return "", err
	}

	hash, err := s.Hasher.Hash(req.AdminPassword)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return "", ErrBootstrapFailedToCreateAdmin
	}

	perms := req.Permissions
	if len(perms) == 0 {
		perms = AdminPermissions()
	}

	adminID := idx.New().String()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Accounts().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}

		err = tx.Accounts().CreateAccount(ctx, domain.Account{
			ID:           adminID,
			Username:     strings.TrimSpace(req.AdminUsername),
			Email:        strings.ToLower(strings.TrimSpace(req.AdminEmail)),
			FullName:     strings.TrimSpace(req.AdminFullName),
			PasswordHash: hash,
			Active:       true,
			Superuser:    true,
			Permissions:  authz.Normalize(perms),
		})
		if err != nil {
			l.Error("failed to create admin account",
				slog.String("admin_account_id", adminID),
				slog.Any("error", err),
			)
			return ErrBootstrapFailedToCreateAdmin
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			l.Warn("attempted bootstrap on already-bootstrapped system")
		}
		return "", err
	}

	l.Info("successfully bootstrapped system", slog.String("admin_account_id", adminID))
	return adminID, nil
}
