// Package server initializes and runs the application: it opens the
// database, runs migrations, wires the repositories and services and starts
// the HTTP endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akoselev/eshop/internal/logging"
	"github.com/akoselev/eshop/internal/server/config"
	"github.com/akoselev/eshop/internal/server/httpapi"
	"github.com/akoselev/eshop/internal/server/repositories/repomanager"
	"github.com/akoselev/eshop/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	sessionService *services.SessionService
	catalogService *services.CatalogService
	reviewService  *services.ReviewService
	fileService    *services.FileService
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var rm repomanager.RepositoryManager
	rm, err = repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	if cfg.SessionStore == config.SessionStoreRedis {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		rm = repomanager.WithRedisSessions(rm, client)
	}

	return &App{
		config:         cfg,
		logger:         logger,
		db:             db,
		sessionService: services.NewSessionService(db, rm, cfg),
		catalogService: services.NewCatalogService(db, rm, cfg),
		reviewService:  services.NewReviewService(db, rm, cfg),
		fileService:    services.NewFileService(cfg),
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config, app.logger,
		app.sessionService, app.catalogService, app.reviewService, app.fileService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
