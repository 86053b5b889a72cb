package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/ele/internal/client/biometric"
	"github.com/dmitrijs2005/ele/internal/client/client"
	"github.com/dmitrijs2005/ele/internal/client/config"
	"github.com/dmitrijs2005/ele/internal/client/credentials"
	"github.com/dmitrijs2005/ele/internal/client/identity"
	"github.com/dmitrijs2005/ele/internal/client/keychain"
	"github.com/dmitrijs2005/ele/internal/client/media"
	"github.com/dmitrijs2005/ele/internal/client/models"
	"github.com/dmitrijs2005/ele/internal/client/profile"
	"github.com/dmitrijs2005/ele/internal/client/services"
	"github.com/dmitrijs2005/ele/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	authService    services.AuthService
	profileService services.ProfileService
	db             *sql.DB
	identity       models.UserIdentity
	reader         *bufio.Reader
	out            io.Writer

	modeMu sync.Mutex
	Mode   Mode
}

func NewApp(c *config.Config, l logging.Logger) (*App, error) {
	ctx := context.Background()

	store, db, err := keychain.Open(ctx, c.DataDir)
	if err != nil {
		l.Error(ctx, "error opening keychain", "error", err)
		return nil, err
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, c.PingTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	reader := bufio.NewReader(os.Stdin)

	pipeline := media.NewPipeline(apiClient, &http.Client{}, c.ImageSize, c.ImageQuality, l)
	repo := profile.NewRepository(apiClient, pipeline, l)
	bridge := identity.NewBridge(apiClient, repo, l)
	prompt := biometric.NewTerminalPrompt(reader, os.Stdout, int(os.Stdin.Fd()))

	as := services.NewAuthService(apiClient, bridge, credentials.NewStore(store, l), prompt, repo, l)
	ps := services.NewProfileService(repo, l)

	return &App{
		config:         c,
		logger:         l,
		authService:    as,
		profileService: ps,
		db:             db,
		reader:         reader,
		out:            os.Stdout,
	}, nil
}

// NewDefaultLogger logs text to stderr so it does not mix with the REPL.
func NewDefaultLogger() logging.Logger {
	return logging.NewText(os.Stderr, slog.LevelInfo)
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.authService.Close(ctx)
		if a.db != nil {
			_ = a.db.Close()
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.identity.UID != ""
}

func (a *App) mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.Mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(ctx, "connection mode changed", "mode", string(mode))
	}
}

func (a *App) checkOnline(ctx context.Context) {
	if err := a.authService.Ping(ctx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
