package app

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/hrsoft/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", strings.Repeat("k", 32))
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "15")
	t.Setenv("REFRESH_TOKEN_EXPIRE_DAYS", "1")
	t.Setenv("AUTH_REFRESH_STORE", "Redis")
	t.Setenv("PORT", "")

	cfg := LoadConfig()
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.Equal(t, 24*time.Hour, cfg.RefreshTTL)
	require.Equal(t, RefreshStoreRedis, cfg.RefreshStore)
	require.Equal(t, "hrsoft-auth", cfg.Issuer)
	require.Equal(t, 8001, cfg.Port)
	require.Equal(t, 12, cfg.BcryptCost)
	require.Equal(t, httpx.DefaultRateLimits(), cfg.RateLimits)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigRateLimits(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", strings.Repeat("k", 32))
	t.Setenv("RATELIMIT_STRICT_REQUESTS", "1000")
	t.Setenv("RATELIMIT_STRICT_WINDOW_SEC", "30")
	t.Setenv("RATELIMIT_STRICT_BURST", "50")
	t.Setenv("RATELIMIT_MODERATE_BURST", "bogus")

	cfg := LoadConfig()
	require.Equal(t, httpx.RateLimitConfig{Requests: 1000, Window: 30 * time.Second, Burst: 50}, cfg.RateLimits.Strict)
	require.Equal(t, httpx.DefaultRateLimits().Moderate, cfg.RateLimits.Moderate, "unparsable values keep the default")
	require.NoError(t, cfg.Validate())

	t.Setenv("RATELIMIT_LENIENT_REQUESTS", "-1")
	require.ErrorContains(t, LoadConfig().Validate(), "lenient rate limit")
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := Config{
		SecretKey:    strings.Repeat("s", MinSecretLength),
		Issuer:       "hrsoft-auth",
		AccessTTL:    time.Minute,
		RefreshTTL:   time.Hour,
		BcryptCost:   10,
		RefreshStore: RefreshStoreSQLite,
		Port:         8001,
	}
	require.NoError(t, valid.Validate())

	cases := map[string]struct {
		mut  func(*Config)
		want string
	}{
		"short secret":  {func(c *Config) { c.SecretKey = "short" }, "JWT_SECRET_KEY"},
		"no issuer":     {func(c *Config) { c.Issuer = " " }, "AUTH_ISSUER"},
		"zero access":   {func(c *Config) { c.AccessTTL = 0 }, "ACCESS_TOKEN_EXPIRE_MINUTES"},
		"zero refresh":  {func(c *Config) { c.RefreshTTL = 0 }, "REFRESH_TOKEN_EXPIRE_DAYS"},
		"bcrypt cost":   {func(c *Config) { c.BcryptCost = 40 }, "BCRYPT_ROUNDS"},
		"unknown store": {func(c *Config) { c.RefreshStore = "memcached" }, "AUTH_REFRESH_STORE"},
		"redis no url":  {func(c *Config) { c.RefreshStore = RefreshStoreRedis }, "REDIS_URL"},
		"bad port":      {func(c *Config) { c.Port = 70000 }, "PORT"},
		"bad limit":     {func(c *Config) { c.RateLimits.Public = httpx.RateLimitConfig{Requests: 1} }, "public rate limit"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := valid
			tc.mut(&c)
			err := c.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}

	t.Run("all problems reported", func(t *testing.T) {
		t.Parallel()
		err := Config{}.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "JWT_SECRET_KEY")
		require.Contains(t, err.Error(), "PORT")
	})
}
