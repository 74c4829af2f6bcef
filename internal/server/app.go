// Package server initializes and runs the account server application.
// It wires the database, the level table, the access evaluator and the
// domain services, runs schema migrations, and keeps the session log
// maintenance sweep running until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/boardkeeper/internal/cachex"
	"github.com/dmitrijs2005/boardkeeper/internal/logging"
	"github.com/dmitrijs2005/boardkeeper/internal/server/access"
	"github.com/dmitrijs2005/boardkeeper/internal/server/config"
	"github.com/dmitrijs2005/boardkeeper/internal/server/levels"
	"github.com/dmitrijs2005/boardkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/boardkeeper/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	repomanager       repomanager.RepositoryManager
	evaluator         *access.Evaluator
	accountService    *services.AccountService
	inviteService     *services.InviteService
	sessionLogService *services.SessionLogService
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	table, err := levels.NewTable(c.UserLevels)
	if err != nil {
		return nil, fmt.Errorf("level table error: %w", err)
	}

	evaluator, err := access.NewEvaluator(table)
	if err != nil {
		return nil, fmt.Errorf("access evaluator error: %w", err)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	cache := cachex.NewMemoryCache(c.SessionLogPurgeInterval, c.SessionLogPurgeInterval)

	as := services.NewAccountService(db, m, table, c, logger)
	is, err := services.NewInviteService(db, m, table, logger)
	if err != nil {
		return nil, fmt.Errorf("invite service error: %w", err)
	}
	ss := services.NewSessionLogService(db, m, cache, logger, c.SessionLogRetention, c.SessionLogPurgeInterval)

	return &App{
		config:            c,
		logger:            logger,
		db:                db,
		repomanager:       m,
		evaluator:         evaluator,
		accountService:    as,
		inviteService:     is,
		sessionLogService: ss,
	}, nil
}

// Accounts exposes the account service to a transport layer.
func (app *App) Accounts() *services.AccountService { return app.accountService }

// Invites exposes the invite service to a transport layer.
func (app *App) Invites() *services.InviteService { return app.inviteService }

// SessionLogs exposes the session log service to a transport layer.
func (app *App) SessionLogs() *services.SessionLogService { return app.sessionLogService }

// Access exposes the permission evaluator to a transport layer.
func (app *App) Access() *access.Evaluator { return app.evaluator }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runMaintenance triggers the session log retention sweep on a fixed
// schedule so pruning happens even on instances that see no logins.
func (app *App) runMaintenance(ctx context.Context) {

	interval := app.config.SessionLogPurgeInterval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	app.sessionLogService.PurgeStale(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.sessionLogService.PurgeStale(ctx)
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migration error", "error", err.Error())
		return
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runMaintenance(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}

	app.logger.Info(ctx, "App stopped")
}
