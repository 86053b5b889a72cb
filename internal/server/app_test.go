package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ele/internal/logging"
	"github.com/dmitrijs2005/ele/internal/server/config"
	"github.com/dmitrijs2005/ele/internal/server/repositories/repomanager"
)

type failingMigrations struct {
	repomanager.RepositoryManager
}

func (failingMigrations) RunMigrations(context.Context, *sql.DB) error {
	return errors.New("no database")
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EndpointAddrGRPC = "127.0.0.1:0"

	app, err := NewApp(cfg, logging.Nop())
	require.NoError(t, err)
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	assert.NotNil(t, app.grpcServer)
	assert.NotNil(t, app.db)
	_ = app.db.Close()
}

func TestRun_MigrationError(t *testing.T) {
	app := newTestApp(t)
	app.repomanager = failingMigrations{}

	err := app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database")
}

func TestNewApp_BadDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = "postgres://%zz"

	_, err := NewApp(cfg, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")

	cfg.DatabaseDSN = "host=localhost port=notaport"
	_, err = NewApp(cfg, logging.Nop())
	require.Error(t, err)
}
