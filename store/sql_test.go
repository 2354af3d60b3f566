package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSQLStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLStore(sqlx.NewDb(db, "sqlite3")), mock
}

func TestSQLStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Migrate", func(t *testing.T) {
		s, mock := newMockSQLStore(t)
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS blobs`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, s.Migrate(ctx))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Get", func(t *testing.T) {
		s, mock := newMockSQLStore(t)
		mock.ExpectQuery(`SELECT value FROM blobs WHERE key = \?`).
			WithArgs("taskboard:snapshot").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"version":1}`)))

		got, err := s.Get(ctx, "taskboard:snapshot")
		require.NoError(t, err)
		assert.Equal(t, `{"version":1}`, string(got))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetMissing", func(t *testing.T) {
		s, mock := newMockSQLStore(t)
		mock.ExpectQuery(`SELECT value FROM blobs WHERE key = \?`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SetUpserts", func(t *testing.T) {
		s, mock := newMockSQLStore(t)
		mock.ExpectExec(`INSERT INTO blobs .* ON CONFLICT\(key\) DO UPDATE SET value = excluded.value`).
			WithArgs("k", []byte("v"), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, s.Set(ctx, "k", []byte("v")))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SetError", func(t *testing.T) {
		s, mock := newMockSQLStore(t)
		mock.ExpectExec(`INSERT INTO blobs`).
			WillReturnError(errors.New("database or disk is full"))

		err := s.Set(ctx, "k", []byte("v"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "set k")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Remove", func(t *testing.T) {
		s, mock := newMockSQLStore(t)
		mock.ExpectExec(`DELETE FROM blobs WHERE key = \?`).
			WithArgs("k").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Remove(ctx, "k"))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
