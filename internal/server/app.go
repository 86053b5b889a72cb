// Package server wires configuration, storage, services and the gRPC
// transport into the runnable account server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/ele/internal/logging"
	"github.com/dmitrijs2005/ele/internal/server/auth"
	"github.com/dmitrijs2005/ele/internal/server/config"
	"github.com/dmitrijs2005/ele/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ele/internal/server/services"

	gs "github.com/dmitrijs2005/ele/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	grpcServer  *gs.GRPCServer
}

func NewApp(c *config.Config, l logging.Logger) (*App, error) {
	pc, err := pgx.ParseConfig(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db := stdlib.OpenDB(*pc)

	rm := repomanager.NewPostgresRepositoryManager()
	federated := auth.NewFederated(c.GoogleClientID, c.AppleClientID, &http.Client{Timeout: 10 * time.Second})

	us := services.NewUserService(db, rm, c, federated, services.NewLogMailer(l), l)
	ds := services.NewDocumentService(db, rm, l)
	bs := services.NewBlobService(c)

	srv := gs.NewGRPCServer(c.EndpointAddrGRPC, l, us, ds, bs, c.SecretKey, c.AuthRatePerSecond, c.AuthRateBurst)

	return &App{config: c, logger: l, db: db, repomanager: rm, grpcServer: srv}, nil
}

// NewDefaultLogger is the JSON logger the server writes to stdout.
func NewDefaultLogger() logging.Logger {
	return logging.NewJSON(os.Stdout, slog.LevelInfo)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run applies migrations and serves until a termination signal arrives or
// ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	if err := app.grpcServer.Run(ctx); err != nil {
		return fmt.Errorf("grpc server error: %w", err)
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
