// Package devapi wires the in-memory development backend: users, rotating
// refresh tokens, condition logs and a synthetic weather endpoint.
package devapi

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/oculog/internal/devapi/config"
	"github.com/dmitrijs2005/oculog/internal/devapi/httpapi"
	"github.com/dmitrijs2005/oculog/internal/devapi/logs"
	"github.com/dmitrijs2005/oculog/internal/devapi/users"
	"github.com/dmitrijs2005/oculog/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(c *config.Config, logger logging.Logger) *App {
	us := users.NewService(users.NewMemoryRepository(), users.NewMemoryRefreshTokens(), c)
	ls := logs.NewService(logs.NewMemoryRepository())

	return &App{
		config: c,
		logger: logger,
		server: httpapi.NewServer(c.Addr, logger, us, ls),
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting devapi...")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "Server failed", "error", err)
		return err
	}

	app.logger.Info(ctx, "Stopped")
	return nil
}
