package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/hrsoft/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	acc, err := env.accounts.Register(ctx, "  alice ", "Alice@Example.COM", "Alice Smith", testPassword)
	require.NoError(t, err)
	require.Equal(t, "alice", acc.Username)
	require.Equal(t, "alice@example.com", acc.Email)
	require.Equal(t, []string{"user"}, acc.Permissions)
	require.True(t, acc.Active)
	require.False(t, acc.Superuser)
	require.NotEqual(t, testPassword, acc.PasswordHash)
	require.True(t, env.hasher.Verify(testPassword, acc.PasswordHash))

	t.Run("duplicates", func(t *testing.T) {
		_, err := env.accounts.Register(ctx, "alice", "other@example.com", "", testPassword)
		require.ErrorIs(t, err, ErrUsernameTaken)

		_, err = env.accounts.Register(ctx, "alice2", "ALICE@example.com", "", testPassword)
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("invalid input", func(t *testing.T) {
		cases := map[string][4]string{
			"short username":    {"al", "al@example.com", "", testPassword},
			"bad username char": {"al ice", "al@example.com", "", testPassword},
			"bad email":         {"carol", "carol.example.com", "", testPassword},
			"short password":    {"carol", "carol@example.com", "", "short"},
		}
		for name, c := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := env.accounts.Register(ctx, c[0], c[1], c[2], c[3])
				require.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})
}

func TestSetPermissions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	acc, err := env.accounts.SetPermissions(ctx, alice.ID, []string{"user", " hr ", "user", "payroll:read"})
	require.NoError(t, err)
	require.Equal(t, []string{"hr", "payroll:read", "user"}, acc.Permissions)

	acc, err = env.accounts.SetPermissions(ctx, alice.ID, nil)
	require.NoError(t, err)
	require.Empty(t, acc.Permissions)

	_, err = env.accounts.SetPermissions(ctx, alice.ID, []string{"has space"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.accounts.SetPermissions(ctx, "missing", []string{"user"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetActiveAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	acc, err := env.accounts.SetActive(ctx, alice.ID, false)
	require.NoError(t, err)
	require.False(t, acc.Active)

	got, err := env.accounts.GetAccount(ctx, alice.ID)
	require.NoError(t, err)
	require.False(t, got.Active)

	_, err = env.accounts.SetActive(ctx, "missing", true)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = env.accounts.GetAccount(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBootstrap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	req := domain.BootstrapData{
		AdminUsername: "admin",
		AdminEmail:    "admin@example.com",
		AdminFullName: "Administrator",
		AdminPassword: testPassword,
	}

	t.Run("disabled without token", func(t *testing.T) {
		env := newTestEnv(t)
		env.bootstrap.Token = ""
		_, err := env.bootstrap.Bootstrap(ctx, "", req)
		require.ErrorIs(t, err, ErrBootstrapDisabled)
	})

	t.Run("wrong token", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.bootstrap.Bootstrap(ctx, "guess", req)
		require.ErrorIs(t, err, ErrBootstrapUnauthorized)
	})

	t.Run("creates superuser once", func(t *testing.T) {
		env := newTestEnv(t)

		done, err := env.bootstrap.IsBootstrapped(ctx)
		require.NoError(t, err)
		require.False(t, done)

		id, err := env.bootstrap.Bootstrap(ctx, "bootstrap-secret", req)
		require.NoError(t, err)

		admin, err := env.accounts.GetAccount(ctx, id)
		require.NoError(t, err)
		require.True(t, admin.Superuser)
		require.True(t, admin.Active)
		require.Equal(t, []string{"admin", "hr", "manager", "user"}, admin.Permissions)

		done, err = env.bootstrap.IsBootstrapped(ctx)
		require.NoError(t, err)
		require.True(t, done)

		_, err = env.bootstrap.Bootstrap(ctx, "bootstrap-secret", req)
		require.ErrorIs(t, err, ErrBootstrapAlready)

		// The bootstrap admin passes every preset gate.
		pair, err := env.tokens.Login(ctx, "admin", testPassword)
		require.NoError(t, err)
		claims, err := env.tokens.Validate(ctx, pair.AccessToken)
		require.NoError(t, err)
		require.NoError(t, env.tokens.Authorize(claims, "admin", "hr", "manager"))
	})

	t.Run("rejected after self-registration", func(t *testing.T) {
		env := newTestEnv(t)
		env.register(t, "alice")
		_, err := env.bootstrap.Bootstrap(ctx, "bootstrap-secret", req)
		require.ErrorIs(t, err, ErrBootstrapAlready)
	})
}
