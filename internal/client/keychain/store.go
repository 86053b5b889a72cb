// Package keychain is the local secure store: small secrets addressed by
// (service, account), kept in SQLite and sealed with AES-GCM under a
// per-device key.
package keychain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/cryptox"
	"github.com/dmitrijs2005/ele/internal/dbx"
)

type Store interface {
	// Set replaces any existing value under (service, account).
	Set(ctx context.Context, service, account string, value []byte) error
	// Get returns common.ErrorNotFound for absent entries.
	Get(ctx context.Context, service, account string) ([]byte, error)
	Delete(ctx context.Context, service, account string) error
}

type SQLiteStore struct {
	db  *sql.DB
	key []byte
}

func NewSQLiteStore(db *sql.DB, key []byte) *SQLiteStore {
	return &SQLiteStore{db: db, key: key}
}

func deleteEntry(ctx context.Context, db dbx.DBTX, service, account string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM keychain WHERE service = ? AND account = ?`, service, account)
	return err
}

func (s *SQLiteStore) Set(ctx context.Context, service, account string, value []byte) error {
	sealed, err := cryptox.Seal(s.key, value)
	if err != nil {
		return fmt.Errorf("failed to seal keychain[%s/%s]: %w", service, account, err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := deleteEntry(ctx, tx, service, account); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO keychain (service, account, value) VALUES (?, ?, ?)`,
			service, account, sealed)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set keychain[%s/%s]: %w", service, account, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, service, account string) ([]byte, error) {
	var sealed []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM keychain WHERE service = ? AND account = ?`,
		service, account).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get keychain[%s/%s]: %w", service, account, err)
	}

	value, err := cryptox.Open(s.key, sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to open keychain[%s/%s]: %w", service, account, err)
	}
	return value, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, service, account string) error {
	if err := deleteEntry(ctx, s.db, service, account); err != nil {
		return fmt.Errorf("failed to delete keychain[%s/%s]: %w", service, account, err)
	}
	return nil
}
