package sqlite_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/msomdec/shoplist/internal/domain"
	"github.com/msomdec/shoplist/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestUser(t *testing.T, db *sqlite.DB, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, db.Users().Create(context.Background(), user))
	return user
}

func TestNew(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sqlite.New(dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dbPath)
	require.NoError(t, err, "database file was not created")

	var fkEnabled int
	require.NoError(t, db.SqlDB.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled))
	assert.Equal(t, 1, fkEnabled)
}

func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrate(context.Background()))
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := newTestUser(t, db, "alice")

	list := &domain.ShoppingList{ID: uuid.NewString(), UserID: user.ID, Name: "Weekly"}
	err := db.WithinTx(ctx, func(ctx context.Context, s domain.Store) error {
		return s.Lists().Create(ctx, list)
	})
	require.NoError(t, err)

	got, err := db.Lists().Get(ctx, user.ID, list.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weekly", got.Name)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := newTestUser(t, db, "alice")

	boom := errors.New("boom")
	list := &domain.ShoppingList{ID: uuid.NewString(), UserID: user.ID, Name: "Weekly"}
	err := db.WithinTx(ctx, func(ctx context.Context, s domain.Store) error {
		if err := s.Lists().Create(ctx, list); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = db.Lists().Get(ctx, user.ID, list.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := newTestUser(t, db, "alice")

	list := &domain.ShoppingList{ID: uuid.NewString(), UserID: user.ID, Name: "Weekly"}
	assert.Panics(t, func() {
		_ = db.WithinTx(ctx, func(ctx context.Context, s domain.Store) error {
			if err := s.Lists().Create(ctx, list); err != nil {
				return err
			}
			panic("boom")
		})
	})

	_, err := db.Lists().Get(ctx, user.ID, list.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWithinTx_CommitFailureIsReported(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT OR IGNORE INTO user_categories").
		WithArgs("u1", "Snacks").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	db := sqlite.Wrap(sqlDB)
	err = db.WithinTx(context.Background(), func(ctx context.Context, s domain.Store) error {
		_, err := s.Categories().Add(ctx, "u1", "Snacks")
		return err
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_StatementFailureRollsBack(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM items").
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	db := sqlite.Wrap(sqlDB)
	err = db.WithinTx(context.Background(), func(ctx context.Context, s domain.Store) error {
		_, err := s.Items().DeleteByIDs(ctx, "u1", []string{"i1", "i2"})
		return err
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
