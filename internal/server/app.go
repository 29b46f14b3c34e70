// Package server wires the homedrive backend together: configuration,
// logging, the PostgreSQL store, the session registry, the HTTP API and
// the operator shell, plus the graceful-shutdown ordering between them.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/homedrive/internal/logging"
	"github.com/dmitrijs2005/homedrive/internal/server/config"
	"github.com/dmitrijs2005/homedrive/internal/server/httpapi"
	"github.com/dmitrijs2005/homedrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/homedrive/internal/server/services"
	"github.com/dmitrijs2005/homedrive/internal/server/sessions"
	"github.com/dmitrijs2005/homedrive/internal/server/shell"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	registry *sessions.Registry
	accounts *services.AccountService
	files    *services.FilesystemService

	// Operator shell endpoints; stdin/stdout unless overridden in tests.
	shellIn  io.Reader
	shellOut io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	registry := sessions.NewRegistry(cfg.SessionIdleTimeout, cfg.SessionAbsoluteTimeout)

	as := services.NewAccountService(db, rm, registry, cfg)
	fs := services.NewFilesystemService(db, rm)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		registry: registry,
		accounts: as,
		files:    fs,
		shellIn:  os.Stdin,
		shellOut: os.Stdout,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts the HTTP server, the session sweeper and the operator shell
// and blocks until shutdown completes. The store is closed exactly once,
// after the HTTP server has finished draining in-flight requests, so no
// request ever observes a closed store.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting homedrive server", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	go app.registry.Run(ctx, app.config.SessionSweepInterval)

	sh := shell.New(app.logger, app.accounts, app.shellIn, app.shellOut, cancelFunc)
	go sh.Run(ctx)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		s := httpapi.NewServer(app.config, app.logger, app.accounts, app.files)
		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server error", "error", err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "store close error", "error", err.Error())
	}

	app.logger.Info(ctx, "server stopped")
}
