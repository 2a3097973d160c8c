package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/hrsoft/internal/auth/store/drivers/redis"
	"github.com/aussiebroadwan/hrsoft/pkg/envx"
	"github.com/aussiebroadwan/hrsoft/pkg/httpx"
	"golang.org/x/crypto/bcrypt"
)

// MinSecretLength is the shortest HS256 secret accepted.
const MinSecretLength = 32

// Refresh token backends.
const (
	RefreshStoreSQLite = "sqlite"
	RefreshStoreRedis  = "redis"
)

type Config struct {
	SecretKey      string // Required: HS256 secret shared with the directory service
	Issuer         string // Issuer claim for tokens (default: hrsoft-auth)
	BootstrapToken string // Optional: token required to perform bootstrap

	AccessTTL  time.Duration // Access token lifetime (default: 30m)
	RefreshTTL time.Duration // Refresh token lifetime (default: 7d)
	BcryptCost int           // Password hash work factor (default: 12)

	DatabaseFile   string // Path to SQLite database file (default: ./auth.db)
	RefreshStore   string // sqlite or redis (default: sqlite)
	RedisURL       string // Used when RefreshStore is redis
	RedisKeyPrefix string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8001)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	RateLimits httpx.RateLimits // Zero tiers fall back to httpx.DefaultRateLimits
}

func LoadConfig() Config {
	return Config{
		SecretKey:      envx.String("JWT_SECRET_KEY", ""),
		Issuer:         envx.String("AUTH_ISSUER", "hrsoft-auth"),
		BootstrapToken: envx.String("BOOTSTRAP_TOKEN", ""),

		AccessTTL:  time.Duration(envx.Int("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		RefreshTTL: time.Duration(envx.Int("REFRESH_TOKEN_EXPIRE_DAYS", 7)) * 24 * time.Hour,
		BcryptCost: envx.Int("BCRYPT_ROUNDS", 12),

		DatabaseFile:   envx.String("AUTH_DATABASE_FILE", "auth.db"),
		RefreshStore:   strings.ToLower(envx.String("AUTH_REFRESH_STORE", RefreshStoreSQLite)),
		RedisURL:       envx.String("REDIS_URL", "redis://localhost:6379/0"),
		RedisKeyPrefix: envx.String("REDIS_KEY_PREFIX", redis.DefaultPrefix),

		Env:                 envx.String("ENV", "dev"),
		LogLevel:            envx.String("LOG_LEVEL", "info"),
		LogFormat:           envx.String("LOG_FORMAT", "json"),
		Port:                envx.Int("PORT", 8001),
		ShutdownGracePeriod: envx.Duration("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		RateLimits: loadRateLimits(),
	}
}

// loadRateLimits reads RATELIMIT_{STRICT,MODERATE,LENIENT,PUBLIC}_{REQUESTS,WINDOW_SEC,BURST}.
func loadRateLimits() httpx.RateLimits {
	d := httpx.DefaultRateLimits()
	return httpx.RateLimits{
		Strict:   loadRateLimit("STRICT", d.Strict),
		Moderate: loadRateLimit("MODERATE", d.Moderate),
		Lenient:  loadRateLimit("LENIENT", d.Lenient),
		Public:   loadRateLimit("PUBLIC", d.Public),
	}
}

func loadRateLimit(tier string, def httpx.RateLimitConfig) httpx.RateLimitConfig {
	prefix := "RATELIMIT_" + tier + "_"
	return httpx.RateLimitConfig{
		Requests: envx.Int(prefix+"REQUESTS", def.Requests),
		Window:   time.Duration(envx.Int(prefix+"WINDOW_SEC", int(def.Window/time.Second))) * time.Second,
		Burst:    envx.Int(prefix+"BURST", def.Burst),
	}
}

// Validate reports every configuration problem at once so a bad deployment
// fails at startup rather than on first request.
func (c Config) Validate() error {
	var errs []error

	if len(c.SecretKey) < MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET_KEY must be at least %d bytes", MinSecretLength))
	}
	if strings.TrimSpace(c.Issuer) == "" {
		errs = append(errs, errors.New("AUTH_ISSUER must not be empty"))
	}
	if c.AccessTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.RefreshTTL <= 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_EXPIRE_DAYS must be positive"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_ROUNDS must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	switch c.RefreshStore {
	case RefreshStoreSQLite:
	case RefreshStoreRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when AUTH_REFRESH_STORE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_REFRESH_STORE must be %q or %q, got %q", RefreshStoreSQLite, RefreshStoreRedis, c.RefreshStore))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}
	if err := c.RateLimits.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
