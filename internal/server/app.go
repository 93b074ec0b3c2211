// Package server initializes and runs the main application server.
// It wires the record store, repositories and domain services together,
// handles graceful shutdown, and starts the HTTP server.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/racelog/internal/logging"
	"github.com/dmitrijs2005/racelog/internal/server/auth"
	"github.com/dmitrijs2005/racelog/internal/server/config"
	"github.com/dmitrijs2005/racelog/internal/server/httpapi"
	"github.com/dmitrijs2005/racelog/internal/server/repositories"
	"github.com/dmitrijs2005/racelog/internal/server/services"
	"github.com/dmitrijs2005/racelog/internal/server/store"
)

type App struct {
	logger logging.Logger
	users  *services.UserService
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewDefault()

	st, err := store.New(cfg.StoreBackend, cfg.DataDir, cfg.SeedDir)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	repos := repositories.NewManager(st)
	sessions := auth.NewSessionManager(cfg.SessionTTL)

	images, err := services.NewImageService(cfg.ImageDir, logger)
	if err != nil {
		return nil, fmt.Errorf("image store init error: %w", err)
	}

	cascade := services.NewCascadeEngine(repos, logger)
	users := services.NewUserService(repos, sessions, cascade, logger)
	cornerNotes := services.NewCornerNoteResolver(repos)
	transfer := services.NewTransfer(repos, images, logger)
	bulk := services.NewBulkDelete(repos, cascade, logger)

	srv := httpapi.NewServer(
		cfg.Addr, cfg.StaticDir, logger,
		repos, sessions, users, cascade, cornerNotes, transfer, bulk, images,
	)

	return &App{
		logger: logger,
		users:  users,
		server: srv,
	}, nil
}

// Users exposes the user service for CLI account management.
func (app *App) Users() *services.UserService { return app.users }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
