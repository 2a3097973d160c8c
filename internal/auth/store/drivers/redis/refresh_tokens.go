// Package redis stores refresh token records as Redis hashes keyed by the
// token fingerprint. Records carry no TTL: like the SQL driver they are kept
// forever so a revoked fingerprint can never be re-created.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/hrsoft/internal/auth/domain"
	"github.com/aussiebroadwan/hrsoft/internal/auth/store"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces refresh token keys.
const DefaultPrefix = "hrsoft:refresh:"

const (
	fieldID        = "id"
	fieldSubject   = "subject_id"
	fieldRevoked   = "revoked"
	fieldExpiresAt = "expires_at"
	fieldCreatedAt = "created_at"
	fieldRevokedAt = "revoked_at"
)

// putIfAbsent writes the record only when the key does not exist yet.
// Returns 1 when written and 0 on a conflict.
const putIfAbsentScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1],
  "id", ARGV[1],
  "subject_id", ARGV[2],
  "revoked", "0",
  "expires_at", ARGV[3],
  "created_at", ARGV[4])
return 1
`

// revoke flips an active record and keeps the first revocation time.
const revokeScript = `
if redis.call("HGET", KEYS[1], "revoked") == "0" then
  redis.call("HSET", KEYS[1], "revoked", "1", "revoked_at", ARGV[1])
  return 1
end
return 0
`

var (
	putIfAbsentLua = redis.NewScript(putIfAbsentScript)
	revokeLua      = redis.NewScript(revokeScript)
)

// RefreshTokens implements store.RefreshTokens on Redis.
type RefreshTokens struct {
	rdb    redis.UniversalClient
	prefix string
}

var _ store.RefreshTokens = (*RefreshTokens)(nil)

// New returns a Redis backed refresh token store. An empty prefix falls back
// to DefaultPrefix.
func New(rdb redis.UniversalClient, prefix string) *RefreshTokens {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RefreshTokens{rdb: rdb, prefix: prefix}
}

// Open parses a redis:// URL and returns a store using a fresh client.
func Open(url, prefix string) (*RefreshTokens, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return New(redis.NewClient(opts), prefix), nil
}

func (s *RefreshTokens) key(hash string) string { return s.prefix + hash }

func (s *RefreshTokens) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	written, err := putIfAbsentLua.Run(ctx, s.rdb, []string{s.key(t.TokenHash)},
		t.ID,
		t.SubjectID,
		formatTime(t.ExpiresAt),
		formatTime(createdAt),
	).Int()
	if err != nil {
		return fmt.Errorf("redis put refresh token: %w", err)
	}
	if written == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (s *RefreshTokens) GetActiveRefreshToken(ctx context.Context, hash string) (domain.RefreshToken, error) {
	fields, err := s.rdb.HGetAll(ctx, s.key(hash)).Result()
	if err != nil {
		return domain.RefreshToken{}, fmt.Errorf("redis get refresh token: %w", err)
	}
	if len(fields) == 0 || fields[fieldRevoked] != "0" {
		return domain.RefreshToken{}, store.ErrNotFound
	}

	t := domain.RefreshToken{
		ID:        fields[fieldID],
		TokenHash: hash,
		SubjectID: fields[fieldSubject],
	}
	if t.ExpiresAt, err = parseTime(fields[fieldExpiresAt]); err != nil {
		return domain.RefreshToken{}, fmt.Errorf("refresh token %s: %w", t.ID, err)
	}
	if t.CreatedAt, err = parseTime(fields[fieldCreatedAt]); err != nil {
		return domain.RefreshToken{}, fmt.Errorf("refresh token %s: %w", t.ID, err)
	}
	return t, nil
}

func (s *RefreshTokens) RevokeRefreshToken(ctx context.Context, hash string) error {
	err := revokeLua.Run(ctx, s.rdb, []string{s.key(hash)}, formatTime(time.Now())).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis revoke refresh token: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *RefreshTokens) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RefreshTokens) Close() error {
	return s.rdb.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t, nil
}
