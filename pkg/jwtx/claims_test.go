package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/hrsoft/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNewClaims(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	c := jwtx.NewClaims("acc-1", jwtx.KindAccess, []string{"hr", "user"}, "hrsoft-auth", 30*time.Minute, now)
	require.Equal(t, "acc-1", c.Subject)
	require.Equal(t, "hrsoft-auth", c.Issuer)
	require.Equal(t, jwtx.KindAccess, c.Kind)
	require.Equal(t, now, c.IssuedAt.Time)
	require.Equal(t, now, c.NotBefore.Time)
	require.Equal(t, now.Add(30*time.Minute), c.Expiry())
	require.NotEmpty(t, c.ID)

	other := jwtx.NewClaims("acc-1", jwtx.KindAccess, nil, "hrsoft-auth", 30*time.Minute, now)
	require.NotEqual(t, c.ID, other.ID)
}

func TestClaimsHelpers(t *testing.T) {
	t.Parallel()

	t.Run("kind", func(t *testing.T) {
		require.True(t, jwtx.KindAccess.Valid())
		require.True(t, jwtx.KindRefresh.Valid())
		require.False(t, jwtx.Kind("id").Valid())
		require.False(t, jwtx.Kind("").Valid())
	})

	t.Run("expiry unset", func(t *testing.T) {
		var c jwtx.Claims
		require.True(t, c.Expiry().IsZero())
	})

	t.Run("has permission", func(t *testing.T) {
		c := jwtx.Claims{Permissions: []string{"user", "payroll:read"}}
		require.True(t, c.HasPermission("payroll:read"))
		require.False(t, c.HasPermission("payroll"))
		require.False(t, c.HasPermission("admin"))
	})
}
