package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/oculog/internal/client/migrations"
	"github.com/dmitrijs2005/oculog/internal/common"
	"github.com/dmitrijs2005/oculog/internal/cryptox"
	"github.com/dmitrijs2005/oculog/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const saltKey = "_salt"

// SQLiteStore keeps tokens in the local SQLite database, sealed with a key
// derived from the configured passphrase.
type SQLiteStore struct {
	db  *sql.DB
	key []byte
}

// RunMigrations applies the embedded client migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at dsn and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewSQLiteStore returns a store over a migrated database. The salt for key
// derivation is created on first use and kept in the same table.
func NewSQLiteStore(ctx context.Context, db *sql.DB, passphrase string) (*SQLiteStore, error) {
	salt, err := loadOrCreateSalt(ctx, db)
	if err != nil {
		return nil, err
	}
	return newSQLiteStore(db, cryptox.DeriveKey([]byte(passphrase), salt)), nil
}

func newSQLiteStore(db *sql.DB, key []byte) *SQLiteStore {
	return &SQLiteStore{db: db, key: key}
}

func loadOrCreateSalt(ctx context.Context, db *sql.DB) ([]byte, error) {
	return dbx.WithTxResult(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) ([]byte, error) {
		var salt []byte
		err := tx.QueryRowContext(ctx, `SELECT value FROM secrets WHERE key = ?`, saltKey).Scan(&salt)
		if err == nil {
			return salt, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to read salt: %w", err)
		}

		salt = common.GenerateRandByteArray(cryptox.SaltSize)
		if _, err := tx.ExecContext(ctx, `INSERT INTO secrets (key, value) VALUES (?, ?)`, saltKey, salt); err != nil {
			return nil, fmt.Errorf("failed to store salt: %w", err)
		}
		return salt, nil
	})
}

func (s *SQLiteStore) put(ctx context.Context, db dbx.DBTX, key Key, token string) error {
	sealed, err := cryptox.Seal(s.key, []byte(token))
	if err != nil {
		return fmt.Errorf("failed to seal %s: %w", key, err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO secrets (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, string(key), sealed)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Save seals token and upserts it under key.
func (s *SQLiteStore) Save(ctx context.Context, key Key, token string) error {
	if !key.Valid() {
		return ErrUnknownKey
	}
	return s.put(ctx, s.db, key, token)
}

// Get opens the sealed token for key. A value that does not open with the
// current key is reported as ErrCorrupt.
func (s *SQLiteStore) Get(ctx context.Context, key Key) (string, error) {
	if !key.Valid() {
		return "", ErrUnknownKey
	}

	var sealed []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM secrets WHERE key = ?`, string(key)).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}

	plain, err := cryptox.Open(s.key, sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrCorrupt, key)
	}
	return string(plain), nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key Key) error {
	if !key.Valid() {
		return ErrUnknownKey
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM secrets WHERE key = ?`, string(key)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// ClearAll removes both tokens in one transaction. The salt row is kept.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM secrets WHERE key IN (?, ?)`, string(AccessToken), string(RefreshToken)); err != nil {
			return fmt.Errorf("failed to clear secrets: %w", err)
		}
		return nil
	})
}

// SavePair writes both tokens in one transaction.
func (s *SQLiteStore) SavePair(ctx context.Context, access, refresh string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.put(ctx, tx, AccessToken, access); err != nil {
			return err
		}
		return s.put(ctx, tx, RefreshToken, refresh)
	})
}
