package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/hrsoft/internal/auth/domain"
	"github.com/aussiebroadwan/hrsoft/internal/auth/store"
	"github.com/aussiebroadwan/hrsoft/pkg/authz"
	"github.com/aussiebroadwan/hrsoft/pkg/cryptox"
	"github.com/aussiebroadwan/hrsoft/pkg/idx"
	"github.com/aussiebroadwan/hrsoft/pkg/jwtx"
	"github.com/aussiebroadwan/hrsoft/pkg/slogx"
)

var (
	// ErrAuthenticationFailed covers every credential or token rejection.
	// Callers never learn which check failed.
	ErrAuthenticationFailed = errors.New("authentication_failed")
	ErrNotFound             = errors.New("not_found")
	ErrDuplicateToken       = errors.New("duplicate_refresh_token")
)

type TokenService struct {
	Codec         *jwtx.Codec
	Hasher        *cryptox.PasswordHasher
	Accounts      store.Accounts
	RefreshTokens store.RefreshTokens
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return s.AccessTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL <= 0 {
		return jwtx.DefaultRefreshTokenTTL
	}
	return s.RefreshTTL
}

// Login exchanges a username and password for a fresh token pair. Unknown
// usernames, wrong passwords and inactive accounts all fail the same way, and
// unknown usernames still pay for a bcrypt comparison.
func (s *TokenService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	acc, err := s.Accounts.GetAccountByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Hasher.Verify(password, s.Hasher.DummyHash())
			l.Info("login failed", slog.String("reason", "unknown_user"))
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	if !s.Hasher.Verify(password, acc.PasswordHash) {
		l.Info("login failed", slog.String("reason", "bad_password"), slog.String("account_id", acc.ID))
		return nil, ErrAuthenticationFailed
	}
	if !acc.Active {
		l.Info("login failed", slog.String("reason", "inactive"), slog.String("account_id", acc.ID))
		return nil, ErrAuthenticationFailed
	}

	pair, err := s.issuePair(ctx, acc)
	if err != nil {
		return nil, err
	}

	l.Info("login succeeded", slog.String("account_id", acc.ID))
	return pair, nil
}

func (s *TokenService) issuePair(ctx context.Context, acc domain.Account) (*domain.TokenPair, error) {
	access, _, err := s.Codec.Issue(acc.ID, jwtx.KindAccess, acc.Permissions, s.accessTTL())
	if err != nil {
		return nil, err
	}

	refresh, refreshClaims, err := s.Codec.Issue(acc.ID, jwtx.KindRefresh, nil, s.refreshTTL())
	if err != nil {
		return nil, err
	}

	rec := domain.RefreshToken{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(refresh),
		SubjectID: acc.ID,
		ExpiresAt: refreshClaims.Expiry(),
		CreatedAt: refreshClaims.IssuedAt.Time,
	}
	if err := s.RefreshTokens.CreateRefreshToken(ctx, rec); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			slogx.FromContext(ctx).Error("refresh token fingerprint collision",
				slog.String("account_id", acc.ID),
				slog.String("refresh_id", rec.ID),
			)
			return nil, ErrDuplicateToken
		}
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    domain.TokenType,
		ExpiresIn:    s.accessTTL(),
	}, nil
}

// Refresh mints a new access token from a live refresh token. The access
// token carries the account's current permissions, so grants and removals
// take effect here. The refresh token itself is handed back unchanged.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Codec.Decode(refreshToken)
	if err != nil {
		l.Debug("refresh token rejected", slog.Any("error", err))
		return nil, ErrAuthenticationFailed
	}
	if claims.Kind != jwtx.KindRefresh {
		l.Debug("refresh token rejected", slog.String("reason", "wrong_kind"))
		return nil, ErrAuthenticationFailed
	}

	rec, err := s.RefreshTokens.GetActiveRefreshToken(ctx, cryptox.FingerprintToken(strings.TrimSpace(refreshToken)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("refresh token revoked or unknown", slog.String("account_id", claims.Subject))
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}
	if rec.SubjectID != claims.Subject {
		l.Error("refresh token subject mismatch",
			slog.String("refresh_id", rec.ID),
			slog.String("record_subject", rec.SubjectID),
			slog.String("claim_subject", claims.Subject),
		)
		return nil, ErrAuthenticationFailed
	}

	acc, err := s.Accounts.GetAccountByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}
	if !acc.Active {
		l.Info("refresh denied for inactive account", slog.String("account_id", acc.ID))
		return nil, ErrAuthenticationFailed
	}

	access, _, err := s.Codec.Issue(acc.ID, jwtx.KindAccess, acc.Permissions, s.accessTTL())
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: strings.TrimSpace(refreshToken),
		TokenType:    domain.TokenType,
		ExpiresIn:    s.accessTTL(),
	}, nil
}

// Logout revokes the refresh token. Unknown and already revoked tokens are
// not reported; a returned error is a store failure meant for logging only.
func (s *TokenService) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	if err := s.RefreshTokens.RevokeRefreshToken(ctx, cryptox.FingerprintToken(refreshToken)); err != nil {
		slogx.FromContext(ctx).Error("revoke refresh token", slog.Any("error", err))
		return err
	}
	return nil
}

// Validate checks an access token offline and returns its claims.
func (s *TokenService) Validate(ctx context.Context, accessToken string) (jwtx.Claims, error) {
	claims, err := s.Codec.Verify(accessToken)
	if err != nil {
		slogx.FromContext(ctx).Debug("access token rejected", slog.Any("error", err))
		return jwtx.Claims{}, ErrAuthenticationFailed
	}
	return claims, nil
}

// ChangePassword replaces the account's password after checking the current
// one. Outstanding refresh tokens stay valid.
func (s *TokenService) ChangePassword(ctx context.Context, subjectID, currentPassword, newPassword string) error {
	l := slogx.FromContext(ctx)

	acc, err := s.Accounts.GetAccountByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !s.Hasher.Verify(currentPassword, acc.PasswordHash) {
		l.Info("change password failed", slog.String("reason", "bad_password"), slog.String("account_id", acc.ID))
		return ErrAuthenticationFailed
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.Accounts.UpdatePasswordHash(ctx, acc.ID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	l.Info("password changed", slog.String("account_id", acc.ID))
	return nil
}

// Authorize checks the claims against an all-of permission requirement.
func (s *TokenService) Authorize(claims jwtx.Claims, required ...string) error {
	return authz.Require(claims.Permissions, required...)
}
