package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/hrsoft/internal/auth/domain"
	"github.com/aussiebroadwan/hrsoft/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/hrsoft/pkg/cryptox"
	"github.com/aussiebroadwan/hrsoft/pkg/jwtx"
	"github.com/aussiebroadwan/hrsoft/pkg/sqlitex"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse-battery"

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	store     *sqlite.Store
	clock     *fakeClock
	codec     *jwtx.Codec
	hasher    *cryptox.PasswordHasher
	tokens    *TokenService
	accounts  *AccountService
	bootstrap *BootstrapService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := sqlite.NewStore(sqlitex.DSN(filepath.Join(t.TempDir(), "auth.db")))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	clock := &fakeClock{t: time.Now().UTC().Truncate(time.Second)}
	codec, err := jwtx.NewCodec([]byte("service-test-secret-0123456789abcdef"),
		jwtx.WithIssuer("hrsoft-test"),
		jwtx.WithClock(clock.Now),
	)
	require.NoError(t, err)

	hasher := cryptox.NewPasswordHasher(bcrypt.MinCost)

	return &testEnv{
		store:  s,
		clock:  clock,
		codec:  codec,
		hasher: hasher,
		tokens: &TokenService{
			Codec:         codec,
			Hasher:        hasher,
			Accounts:      s.Accounts(),
			RefreshTokens: s.RefreshTokens(),
			AccessTTL:     30 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
		},
		accounts:  &AccountService{Store: s, Hasher: hasher},
		bootstrap: &BootstrapService{Store: s, Hasher: hasher, Token: "bootstrap-secret"},
	}
}

func (e *testEnv) register(t *testing.T, username string) domain.Account {
	t.Helper()
	acc, err := e.accounts.Register(context.Background(), username, username+"@example.com", "Test "+username, testPassword)
	require.NoError(t, err)
	return acc
}
