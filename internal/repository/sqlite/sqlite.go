package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/msomdec/shoplist/internal/domain"
	"github.com/msomdec/shoplist/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DBTX is the subset of database/sql used by the repositories.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB wraps the SQLite handle and implements domain.Database, domain.Store and
// domain.Transactor.
type DB struct {
	store
	SqlDB *sql.DB
}

var (
	_ domain.Database   = (*DB)(nil)
	_ domain.Store      = (*DB)(nil)
	_ domain.Transactor = (*DB)(nil)
)

// New opens a SQLite database at the given path and configures it for use.
// WAL mode, foreign keys and a busy timeout are set through the DSN so every
// pooled connection gets them.
func New(dbPath string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", dbPath)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows a single writer; one connection serializes transactions.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return Wrap(sqlDB), nil
}

// Wrap builds a DB around an already opened handle. Tests use it with sqlmock.
func Wrap(sqlDB *sql.DB) *DB {
	return &DB{store: store{db: sqlDB}, SqlDB: sqlDB}
}

// Migrate applies all pending schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB)
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

// WithinTx begins a transaction, runs fn with a Store bound to it, and
// commits on success. Errors and panics roll back; panics are rethrown.
func (d *DB) WithinTx(ctx context.Context, fn func(ctx context.Context, s domain.Store) error) (err error) {
	tx, err := d.SqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit: %w", cerr)
		}
	}()

	return fn(ctx, store{db: tx})
}

// store hands out repositories over either the pool or a transaction.
type store struct {
	db DBTX
}

func (s store) Users() domain.UserRepository          { return &userRepo{db: s.db} }
func (s store) Lists() domain.ListRepository          { return &listRepo{db: s.db} }
func (s store) Items() domain.ItemRepository          { return &itemRepo{db: s.db} }
func (s store) Categories() domain.CategoryRepository { return &categoryRepo{db: s.db} }

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(prefix []any, values []string) []any {
	args := make([]any, 0, len(prefix)+len(values))
	args = append(args, prefix...)
	for _, v := range values {
		args = append(args, v)
	}
	return args
}

// maxBatch keeps IN (...) lists well under SQLite's bound-parameter limit.
const maxBatch = 500

func chunks(ids []string) [][]string {
	var out [][]string
	for len(ids) > maxBatch {
		out = append(out, ids[:maxBatch])
		ids = ids[maxBatch:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
