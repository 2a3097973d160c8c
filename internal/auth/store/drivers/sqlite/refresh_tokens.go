package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/hrsoft/internal/auth/domain"
	"github.com/aussiebroadwan/hrsoft/internal/auth/store"
	"github.com/aussiebroadwan/hrsoft/pkg/sqlitex"
)

type refreshTokensRepo struct {
	db dbtx
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, token_hash, subject_id, revoked, expires_at, created_at)
		 VALUES (?, ?, ?, 0, ?, ?)`,
		t.ID, t.TokenHash, t.SubjectID, t.ExpiresAt.UTC(), createdAt.UTC(),
	)
	if _, ok := sqlitex.UniqueViolation(err); ok {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *refreshTokensRepo) GetActiveRefreshToken(ctx context.Context, hash string) (domain.RefreshToken, error) {
	var (
		t         domain.RefreshToken
		revokedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, token_hash, subject_id, revoked, expires_at, created_at, revoked_at
		 FROM refresh_tokens WHERE token_hash = ? AND revoked = 0`, hash,
	).Scan(&t.ID, &t.TokenHash, &t.SubjectID, &t.Revoked, &t.ExpiresAt, &t.CreatedAt, &revokedAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	t.RevokedAt = mapNullTimePtr(revokedAt)
	return t, nil
}

// RevokeRefreshToken only touches rows that are still active so revoked_at
// keeps the first revocation time.
func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1, revoked_at = ? WHERE token_hash = ? AND revoked = 0`,
		time.Now().UTC(), hash,
	)
	return err
}

var _ store.RefreshTokens = (*refreshTokensRepo)(nil)
