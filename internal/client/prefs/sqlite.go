package prefs

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/oculog/internal/dbx"
)

// SQLiteStore keeps preferences in the preferences table created by the
// client migrations.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore uses db, which must already be migrated.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// LoadSort reads the saved field and order, see Store.
func (s *SQLiteStore) LoadSort(ctx context.Context, def Sort) (Sort, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences WHERE key IN (?, ?)`, keySortField, keySortOrder)
	if err != nil {
		return def, fmt.Errorf("failed to read sort preference: %w", err)
	}
	defer rows.Close()

	var field, order string
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return def, fmt.Errorf("failed to scan sort preference: %w", err)
		}
		switch k {
		case keySortField:
			field = v
		case keySortOrder:
			order = v
		}
	}
	if err := rows.Err(); err != nil {
		return def, fmt.Errorf("failed to read sort preference: %w", err)
	}
	return apply(def, field, order), nil
}

// SaveSort writes field and order in one transaction.
func (s *SQLiteStore) SaveSort(ctx context.Context, sort Sort) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := put(ctx, tx, keySortField, string(sort.Field)); err != nil {
			return err
		}
		return put(ctx, tx, keySortOrder, string(sort.Order))
	})
}

func put(ctx context.Context, tx dbx.DBTX, key, value string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
