package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/hrsoft/internal/directory/domain"
	"github.com/aussiebroadwan/hrsoft/internal/directory/store"
	"github.com/aussiebroadwan/hrsoft/internal/directory/store/drivers/sqlite/migrations"
	"github.com/aussiebroadwan/hrsoft/pkg/sqlitex"
)

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
}

// NewStore opens the directory database. Build dsn with sqlitex.DSN.
func NewStore(dsn string) (*Store, error) {
	db, err := sqlitex.Open(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) ApplyMigrations() error {
	return sqlitex.Migrate(s.db, migrations.Migrations)
}

func (s *Store) Employees() store.Employees     { return &employeesRepo{db: s.db} }
func (s *Store) Departments() store.Departments { return &departmentsRepo{db: s.db} }
func (s *Store) Profiles() store.Profiles       { return &profilesRepo{db: s.db} }

type txRepos struct {
	tx *sql.Tx
}

func (t txRepos) Employees() store.Employees     { return &employeesRepo{db: t.tx} }
func (t txRepos) Departments() store.Departments { return &departmentsRepo{db: t.tx} }
func (t txRepos) Profiles() store.Profiles       { return &profilesRepo{db: t.tx} }

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(txRepos{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

var _ store.Store = (*Store)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapWriteError classifies constraint failures. unique maps a table.column
// fragment of the sqlite message to the error reported for it.
func mapWriteError(err error, unique map[string]error) error {
	if err == nil {
		return nil
	}
	if msg, ok := sqlitex.UniqueViolation(err); ok {
		for col, e := range unique {
			if strings.Contains(msg, col) {
				return e
			}
		}
		return store.ErrAlreadyExists
	}
	if sqlitex.ForeignKeyViolation(err) {
		return store.ErrReference
	}
	return err
}

// execOne runs a single-row write and reports ErrNotFound when nothing matched.
func execOne(ctx context.Context, db dbtx, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func nullString(p *string) sql.NullString {
	if p == nil || *p == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func intPtr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(domain.DateLayout), Valid: true}
}

func datePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
