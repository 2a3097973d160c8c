package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/hrsoft/internal/auth/domain"
	"github.com/aussiebroadwan/hrsoft/internal/auth/store"
	"github.com/aussiebroadwan/hrsoft/pkg/authz"
	"github.com/aussiebroadwan/hrsoft/pkg/cryptox"
	"github.com/aussiebroadwan/hrsoft/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	t.Run("pair validates to account subject and permissions", func(t *testing.T) {
		pair, err := env.tokens.Login(ctx, "alice", testPassword)
		require.NoError(t, err)
		require.Equal(t, domain.TokenType, pair.TokenType)
		require.Equal(t, 30*time.Minute, pair.ExpiresIn)
		require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

		claims, err := env.tokens.Validate(ctx, pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, alice.ID, claims.Subject)
		require.Equal(t, alice.Permissions, claims.Permissions)
		require.Equal(t, jwtx.KindAccess, claims.Kind)
	})

	t.Run("each login issues distinct tokens", func(t *testing.T) {
		a, err := env.tokens.Login(ctx, "alice", testPassword)
		require.NoError(t, err)
		b, err := env.tokens.Login(ctx, "alice", testPassword)
		require.NoError(t, err)
		require.NotEqual(t, a.RefreshToken, b.RefreshToken)
		require.NotEqual(t, a.AccessToken, b.AccessToken)
	})

	t.Run("failures are indistinguishable", func(t *testing.T) {
		_, errUnknown := env.tokens.Login(ctx, "mallory", testPassword)
		_, errWrong := env.tokens.Login(ctx, "alice", "wrong-password")
		require.ErrorIs(t, errUnknown, ErrAuthenticationFailed)
		require.ErrorIs(t, errWrong, ErrAuthenticationFailed)
		require.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("inactive account", func(t *testing.T) {
		bob := env.register(t, "bob")
		_, err := env.accounts.SetActive(ctx, bob.ID, false)
		require.NoError(t, err)

		_, err = env.tokens.Login(ctx, "bob", testPassword)
		require.ErrorIs(t, err, ErrAuthenticationFailed)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	pair, err := env.tokens.Login(ctx, "alice", testPassword)
	require.NoError(t, err)

	t.Run("returns same refresh token and a new access token", func(t *testing.T) {
		env.clock.Advance(time.Second)
		next, err := env.tokens.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, pair.RefreshToken, next.RefreshToken)
		require.NotEqual(t, pair.AccessToken, next.AccessToken)

		claims, err := env.tokens.Validate(ctx, next.AccessToken)
		require.NoError(t, err)
		require.Equal(t, alice.ID, claims.Subject)
	})

	t.Run("rejects access tokens and garbage", func(t *testing.T) {
		_, err := env.tokens.Refresh(ctx, pair.AccessToken)
		require.ErrorIs(t, err, ErrAuthenticationFailed)
		_, err = env.tokens.Refresh(ctx, "not.a.token")
		require.ErrorIs(t, err, ErrAuthenticationFailed)
		_, err = env.tokens.Refresh(ctx, "")
		require.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("rejects signed refresh tokens that were never stored", func(t *testing.T) {
		forged, _, err := env.codec.Issue(alice.ID, jwtx.KindRefresh, nil, time.Hour)
		require.NoError(t, err)
		_, err = env.tokens.Refresh(ctx, forged)
		require.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("inactive account cannot refresh", func(t *testing.T) {
		bob := env.register(t, "bob")
		bobPair, err := env.tokens.Login(ctx, "bob", testPassword)
		require.NoError(t, err)

		_, err = env.accounts.SetActive(ctx, bob.ID, false)
		require.NoError(t, err)
		_, err = env.tokens.Refresh(ctx, bobPair.RefreshToken)
		require.ErrorIs(t, err, ErrAuthenticationFailed)

		_, err = env.accounts.SetActive(ctx, bob.ID, true)
		require.NoError(t, err)
		_, err = env.tokens.Refresh(ctx, bobPair.RefreshToken)
		require.NoError(t, err)
	})
}

func TestRefresh_SubjectMismatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	// A stored record whose subject disagrees with the token is an integrity
	// failure and must not mint tokens for either account.
	token, claims, err := env.codec.Issue(alice.ID, jwtx.KindRefresh, nil, time.Hour)
	require.NoError(t, err)
	require.NoError(t, env.store.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        "rt-mismatch",
		TokenHash: cryptox.FingerprintToken(token),
		SubjectID: bob.ID,
		ExpiresAt: claims.Expiry(),
	}))

	_, err = env.tokens.Refresh(ctx, token)
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t, "alice")

	pair, err := env.tokens.Login(ctx, "alice", testPassword)
	require.NoError(t, err)

	_, err = env.tokens.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, env.tokens.Logout(ctx, pair.RefreshToken))
	_, err = env.tokens.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, env.tokens.Logout(ctx, pair.RefreshToken))
		require.NoError(t, env.tokens.Logout(ctx, "never-issued"))
		require.NoError(t, env.tokens.Logout(ctx, ""))
	})

	t.Run("other sessions survive", func(t *testing.T) {
		other, err := env.tokens.Login(ctx, "alice", testPassword)
		require.NoError(t, err)
		_, err = env.tokens.Refresh(ctx, other.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		boom := errors.New("boom")
		svc := *env.tokens
		svc.RefreshTokens = &stubRefreshTokens{err: boom}
		require.ErrorIs(t, svc.Logout(ctx, pair.RefreshToken), boom)
	})
}

func TestExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t, "alice")

	pair, err := env.tokens.Login(ctx, "alice", testPassword)
	require.NoError(t, err)

	env.clock.Advance(31 * time.Minute)
	_, err = env.tokens.Validate(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	// Refresh is still live and yields a usable access token.
	next, err := env.tokens.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	_, err = env.tokens.Validate(ctx, next.AccessToken)
	require.NoError(t, err)

	env.clock.Advance(7 * 24 * time.Hour)
	_, err = env.tokens.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestValidate_RejectsRefreshToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t, "alice")

	pair, err := env.tokens.Login(ctx, "alice", testPassword)
	require.NoError(t, err)

	_, err = env.tokens.Validate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationFailed)
	_, err = env.tokens.Validate(ctx, pair.AccessToken+"x")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestPermissionChangeTakesEffectOnRefresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	hrOnly := authz.New(authz.PermHR)

	pair, err := env.tokens.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	original, err := env.tokens.Validate(ctx, pair.AccessToken)
	require.NoError(t, err)

	require.ErrorIs(t, hrOnly.Require(original.Permissions), authz.ErrInsufficientPermissions)
	require.ErrorIs(t, env.tokens.Authorize(original, authz.PermHR), authz.ErrInsufficientPermissions)

	_, err = env.accounts.SetPermissions(ctx, alice.ID, []string{"user", "hr"})
	require.NoError(t, err)

	env.clock.Advance(time.Second)
	next, err := env.tokens.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	refreshed, err := env.tokens.Validate(ctx, next.AccessToken)
	require.NoError(t, err)

	require.NoError(t, hrOnly.Require(refreshed.Permissions))
	require.NoError(t, env.tokens.Authorize(refreshed, authz.PermHR))

	// The un-refreshed token keeps the permissions it was minted with.
	original, err = env.tokens.Validate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.ErrorIs(t, env.tokens.Authorize(original, authz.PermHR), authz.ErrInsufficientPermissions)

	// hr alone is not enough for the HR preset, which also needs admin.
	require.ErrorIs(t, authz.HR.Require(refreshed.Permissions), authz.ErrInsufficientPermissions)
	require.NoError(t, env.tokens.Authorize(refreshed))
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	pair, err := env.tokens.Login(ctx, "alice", testPassword)
	require.NoError(t, err)

	t.Run("wrong current password leaves hash unchanged", func(t *testing.T) {
		before, err := env.store.Accounts().GetAccountByID(ctx, alice.ID)
		require.NoError(t, err)

		err = env.tokens.ChangePassword(ctx, alice.ID, "not-my-password", "brand-new-password")
		require.ErrorIs(t, err, ErrAuthenticationFailed)

		after, err := env.store.Accounts().GetAccountByID(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, before.PasswordHash, after.PasswordHash)
	})

	t.Run("unknown subject", func(t *testing.T) {
		require.ErrorIs(t, env.tokens.ChangePassword(ctx, "missing", testPassword, "brand-new-password"), ErrNotFound)
	})

	t.Run("too short new password", func(t *testing.T) {
		require.ErrorIs(t, env.tokens.ChangePassword(ctx, alice.ID, testPassword, "short"), ErrInvalidInput)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, env.tokens.ChangePassword(ctx, alice.ID, testPassword, "brand-new-password"))

		_, err := env.tokens.Login(ctx, "alice", testPassword)
		require.ErrorIs(t, err, ErrAuthenticationFailed)
		_, err = env.tokens.Login(ctx, "alice", "brand-new-password")
		require.NoError(t, err)

		// Existing refresh tokens are not revoked by a password change.
		_, err = env.tokens.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
	})
}

func TestLogin_DuplicateToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t, "alice")

	svc := *env.tokens
	svc.RefreshTokens = &stubRefreshTokens{err: store.ErrAlreadyExists}

	_, err := svc.Login(ctx, "alice", testPassword)
	require.ErrorIs(t, err, ErrDuplicateToken)
}

func TestRefresh_StoreFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t, "alice")

	pair, err := env.tokens.Login(ctx, "alice", testPassword)
	require.NoError(t, err)

	boom := errors.New("boom")
	svc := *env.tokens
	svc.RefreshTokens = &stubRefreshTokens{err: boom}

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrAuthenticationFailed)
}

type stubRefreshTokens struct {
	err error
}

func (s *stubRefreshTokens) CreateRefreshToken(context.Context, domain.RefreshToken) error {
	return s.err
}

func (s *stubRefreshTokens) GetActiveRefreshToken(context.Context, string) (domain.RefreshToken, error) {
	return domain.RefreshToken{}, s.err
}

func (s *stubRefreshTokens) RevokeRefreshToken(context.Context, string) error {
	return s.err
}
