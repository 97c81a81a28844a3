package secrets

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	db, err := InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewSQLiteStore(ctx, db, "test-passphrase")
	require.NoError(t, err)
	return s, db
}

func TestSQLiteStore_SaveGet(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, AccessToken, "acc-1"))

	v, err := s.Get(ctx, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", v)

	require.NoError(t, s.Save(ctx, AccessToken, "acc-2"))
	v, err = s.Get(ctx, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "acc-2", v)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.Get(context.Background(), RefreshToken)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_UnknownKey(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.ErrorIs(t, s.Save(ctx, Key("_salt"), "x"), ErrUnknownKey)
	_, err := s.Get(ctx, Key("other"))
	require.ErrorIs(t, err, ErrUnknownKey)
	require.ErrorIs(t, s.Delete(ctx, Key("other")), ErrUnknownKey)
}

func TestSQLiteStore_ValuesAreSealed(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, AccessToken, "plain-token"))

	var raw []byte
	require.NoError(t, db.QueryRow(`SELECT value FROM secrets WHERE key = ?`, "access_token").Scan(&raw))
	assert.NotContains(t, string(raw), "plain-token")
}

func TestSQLiteStore_SaltIsReused(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, RefreshToken, "r"))

	again, err := NewSQLiteStore(ctx, db, "test-passphrase")
	require.NoError(t, err)
	v, err := again.Get(ctx, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "r", v)

	other, err := NewSQLiteStore(ctx, db, "another-passphrase")
	require.NoError(t, err)
	_, err = other.Get(ctx, RefreshToken)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestSQLiteStore_DeleteAndClearAll(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePair(ctx, "a", "r"))
	require.NoError(t, s.Delete(ctx, AccessToken))
	require.NoError(t, s.Delete(ctx, AccessToken))

	_, err := s.Get(ctx, AccessToken)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.ClearAll(ctx))
	_, err = s.Get(ctx, RefreshToken)
	require.ErrorIs(t, err, ErrNotFound)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM secrets WHERE key = ?`, saltKey).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLiteStore_SavePair(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, SavePair(ctx, s, "a1", "r1"))

	a, err := s.Get(ctx, AccessToken)
	require.NoError(t, err)
	r, err := s.Get(ctx, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "a1", a)
	assert.Equal(t, "r1", r)
}

func TestSQLiteStore_SavePair_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := newSQLiteStore(db, make([]byte, 32))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO secrets").
		WithArgs("access_token", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO secrets").
		WithArgs("refresh_token", sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = s.SavePair(context.Background(), "a", "r")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_ClearAll_CommitsOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := newSQLiteStore(db, make([]byte, 32))

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM secrets").
		WithArgs("access_token", "refresh_token").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, s.ClearAll(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
