// Package expensetracker собирает веб-приложение учёта трат:
// хранилище, кеш, сессии, сервисы и HTTP-сервер.
package expensetracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/darusc/expense-tracker/internal/cache"
	"github.com/darusc/expense-tracker/internal/config"
	"github.com/darusc/expense-tracker/internal/http/view"
	"github.com/darusc/expense-tracker/internal/migrations"
	alertservice "github.com/darusc/expense-tracker/internal/services/alert"
	authservice "github.com/darusc/expense-tracker/internal/services/auth"
	expenseservice "github.com/darusc/expense-tracker/internal/services/expense"
	summaryservice "github.com/darusc/expense-tracker/internal/services/summary"
	"github.com/darusc/expense-tracker/internal/session"
	"github.com/darusc/expense-tracker/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	store, err := session.NewStore(ctx, cfg.RedisConnection, cfg.Session)
	if err != nil {
		return nil, err
	}

	views, err := view.New()
	if err != nil {
		return nil, err
	}

	categories := cfg.Categories()
	expenseService := expenseservice.NewExpenseService(db, cacheRedis, logger, categories)
	summaryService := summaryservice.NewSummaryService(db, cacheRedis, logger, categories)
	alertGenerator := alertservice.NewAlertGenerator(summaryService, cfg.CategoryBudgets)
	authService := authservice.NewAuthService(db, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, cfg, db, store, views,
		authService, expenseService, summaryService, alertGenerator)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
