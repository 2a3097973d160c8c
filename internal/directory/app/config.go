package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/hrsoft/pkg/envx"
	"github.com/aussiebroadwan/hrsoft/pkg/httpx"
)

// MinSecretLength matches the auth service; both sides share the secret.
const MinSecretLength = 32

type Config struct {
	SecretKey    string // Required: HS256 secret issued tokens are signed with
	Issuer       string // Expected issuer claim (default: hrsoft-auth)
	DatabaseFile string // Path to SQLite database file (default: ./directory.db)

	Env                 string
	LogLevel            string
	LogFormat           string
	Port                int           // HTTP server port (default: 8002)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	RateLimits httpx.RateLimits
}

func LoadConfig() Config {
	return Config{
		SecretKey:    envx.String("JWT_SECRET_KEY", ""),
		Issuer:       envx.String("AUTH_ISSUER", "hrsoft-auth"),
		DatabaseFile: envx.String("DIRECTORY_DATABASE_FILE", "directory.db"),

		Env:                 envx.String("ENV", "dev"),
		LogLevel:            envx.String("LOG_LEVEL", "info"),
		LogFormat:           envx.String("LOG_FORMAT", "json"),
		Port:                envx.Int("PORT", 8002),
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

func (c Config) Validate() error {
	var errs []error

	if len(c.SecretKey) < MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET_KEY must be at least %d bytes", MinSecretLength))
	}
	if strings.TrimSpace(c.Issuer) == "" {
		errs = append(errs, errors.New("AUTH_ISSUER must not be empty"))
	}
	if strings.TrimSpace(c.DatabaseFile) == "" {
		errs = append(errs, errors.New("DIRECTORY_DATABASE_FILE must not be empty"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}
	if err := c.RateLimits.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
