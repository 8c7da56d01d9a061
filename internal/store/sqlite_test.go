package store_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultkit/go-vault-client/internal/logger"
	"github.com/vaultkit/go-vault-client/internal/store"
)

func newMockedStorage(t *testing.T) (store.StorageService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.NewSQLiteStorageFromDB(db, logger.Nop()), mock
}

func TestSQLiteStorage_Get_Found(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockedStorage(t)

	mock.ExpectQuery("SELECT value FROM kv_entries WHERE key = ?").
		WithArgs("sends_user-1").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"a":1}`)))

	value, ok, err := s.Get(ctx, "sends_user-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_Get_Absent(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockedStorage(t)

	mock.ExpectQuery("SELECT value FROM kv_entries WHERE key = ?").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	value, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_Save_Upsert(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockedStorage(t)

	mock.ExpectExec("INSERT INTO kv_entries (key,value) VALUES (?,?) ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		WithArgs("folders_user-1", []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Save(ctx, "folders_user-1", []byte(`{}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_Remove(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockedStorage(t)

	mock.ExpectExec("DELETE FROM kv_entries WHERE key = ?").
		WithArgs("sends_user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Remove(ctx, "sends_user-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_Has(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockedStorage(t)

	mock.ExpectQuery("SELECT 1 FROM kv_entries WHERE key = ?").
		WithArgs("ciphers_user-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	ok, err := s.Has(ctx, "ciphers_user-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStorage()

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, "k", []byte("v1")))
	require.NoError(t, s.Save(ctx, "k", []byte("v2"))) // last write wins

	value, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), value)

	has, err := s.Has(ctx, "k")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, s.Remove(ctx, "k"))
	has, err = s.Has(ctx, "k")
	require.NoError(t, err)
	assert.False(t, has)

	// Removing an absent key is a no-op.
	require.NoError(t, s.Remove(ctx, "k"))
}
