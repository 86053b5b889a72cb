package keychain

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/ele/internal/client/migrations"
	"github.com/dmitrijs2005/ele/internal/cryptox"
	"github.com/dmitrijs2005/ele/internal/filex"
)

const (
	dbFileName  = "keychain.db"
	keyFileName = "device.key"
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open prepares dataDir, opens the keychain database inside it and loads
// (or creates) the device key that seals stored values.
func Open(ctx context.Context, dataDir string) (*SQLiteStore, *sql.DB, error) {
	dir, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, nil, err
	}

	key, err := filex.LoadOrCreateSecret(filepath.Join(dir, keyFileName), cryptox.NewKey)
	if err != nil {
		return nil, nil, fmt.Errorf("device key: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return NewSQLiteStore(db, key), db, nil
}
