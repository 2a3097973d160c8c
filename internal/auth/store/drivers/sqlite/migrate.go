package sqlite

import (
	"github.com/aussiebroadwan/hrsoft/internal/auth/store/drivers/sqlite/migrations"
	"github.com/aussiebroadwan/hrsoft/pkg/sqlitex"
)

// ApplyMigrations brings the schema up to date using the migrations embedded
// in the binary. It runs directly on the DB handle, never inside a Tx.
func (s *Store) ApplyMigrations() error {
	return sqlitex.Migrate(s.db, migrations.Migrations)
}
