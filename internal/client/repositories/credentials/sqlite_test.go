package credentials

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE credentials (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	require.NoError(t, err)
	return db
}

func TestSQLite_SetThenGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "refreshToken", "r-1"))

	v, err := r.Get(ctx, "refreshToken")
	require.NoError(t, err)
	require.Equal(t, "r-1", v)
}

func TestSQLite_GetMissing_ReturnsEmpty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestSQLite_SetOverwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "refreshToken", "old"))
	require.NoError(t, r.Set(ctx, "refreshToken", "new"))

	v, err := r.Get(ctx, "refreshToken")
	require.NoError(t, err)
	require.Equal(t, "new", v)
}

func TestSQLite_Delete_IsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "refreshToken", "r-1"))
	require.NoError(t, r.Delete(ctx, "refreshToken"))
	require.NoError(t, r.Delete(ctx, "refreshToken"))

	v, err := r.Get(ctx, "refreshToken")
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestSQLite_DriverErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("disk I/O error")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM credentials WHERE key = ?`)).WithArgs("k").WillReturnError(boom)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO credentials`)).WithArgs("k", "v").WillReturnError(boom)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM credentials WHERE key = ?`)).WithArgs("k").WillReturnError(boom)

	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err = r.Get(ctx, "k")
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "failed to get credentials[k]")

	err = r.Set(ctx, "k", "v")
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "failed to set credentials[k]")

	err = r.Delete(ctx, "k")
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "failed to delete credentials[k]")

	require.NoError(t, mock.ExpectationsWereMet())
}
