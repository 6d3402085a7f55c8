// Package expensetracker предоставляет маршруты для основного приложения.
package expensetracker

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/darusc/expense-tracker/internal/config"
	apicreate "github.com/darusc/expense-tracker/internal/http/handlers/api/expensecreate"
	apisummary "github.com/darusc/expense-tracker/internal/http/handlers/api/summary"
	"github.com/darusc/expense-tracker/internal/http/handlers/auth/login"
	"github.com/darusc/expense-tracker/internal/http/handlers/auth/loginform"
	"github.com/darusc/expense-tracker/internal/http/handlers/auth/logout"
	"github.com/darusc/expense-tracker/internal/http/handlers/auth/register"
	"github.com/darusc/expense-tracker/internal/http/handlers/auth/registerform"
	"github.com/darusc/expense-tracker/internal/http/handlers/dashboard"
	"github.com/darusc/expense-tracker/internal/http/handlers/expense/create"
	"github.com/darusc/expense-tracker/internal/http/handlers/expense/createform"
	"github.com/darusc/expense-tracker/internal/http/handlers/expense/editform"
	"github.com/darusc/expense-tracker/internal/http/handlers/expense/importcsv"
	"github.com/darusc/expense-tracker/internal/http/handlers/expense/list"
	"github.com/darusc/expense-tracker/internal/http/handlers/expense/remove"
	"github.com/darusc/expense-tracker/internal/http/handlers/expense/update"
	"github.com/darusc/expense-tracker/internal/http/handlers/health"
	"github.com/darusc/expense-tracker/internal/http/middlewarectx"
	"github.com/darusc/expense-tracker/internal/http/view"
	alertservice "github.com/darusc/expense-tracker/internal/services/alert"
	authservice "github.com/darusc/expense-tracker/internal/services/auth"
	expenseservice "github.com/darusc/expense-tracker/internal/services/expense"
	summaryservice "github.com/darusc/expense-tracker/internal/services/summary"
	"github.com/darusc/expense-tracker/internal/session"
	"github.com/darusc/expense-tracker/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	db *repository.Storage, store *session.Store, views *view.Renderer,
	authService *authservice.AuthService, expenseService *expenseservice.ExpenseService,
	summaryService *summaryservice.SummaryService, alertGenerator *alertservice.AlertGenerator) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	categories := cfg.Categories()

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.SessionMiddleware(store, logger))

		// Открытые конечные точки
		r.Get("/login", loginform.New(logger, store, views).ServeHTTP)
		r.Get("/register", registerform.New(logger, store, views).ServeHTTP)
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/login", login.New(logger, authService, store).ServeHTTP)
			r.Post("/register", register.New(logger, authService, store).ServeHTTP)
		})

		// Группа с аутентификацией по сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireAuth)
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/dashboard", http.StatusFound)
			})
			r.Get("/dashboard", dashboard.New(logger, summaryService, alertGenerator, expenseService, store, views).ServeHTTP)
			r.Get("/expenses", list.New(logger, expenseService, store, views, cfg.PageSize).ServeHTTP)
			r.Post("/expenses", create.New(logger, expenseService, store).ServeHTTP)
			r.Get("/expenses/create", createform.New(logger, store, views, categories).ServeHTTP)
			r.Get("/expenses/{id}/edit", editform.New(logger, expenseService, store, views, categories).ServeHTTP)
			r.Post("/expenses/{id}", update.New(logger, expenseService, store).ServeHTTP)
			r.Post("/expenses/{id}/delete", remove.New(logger, expenseService, store).ServeHTTP)
			r.Post("/expenses/import", importcsv.New(logger, expenseService, store).ServeHTTP)
			r.Post("/logout", logout.New(logger, store).ServeHTTP)
		})

		// JSON API для интеграций
		r.Route("/api/v1", func(r chi.Router) {
			r.Use(middlewarectx.RequireAuthAPI)
			r.Post("/expenses", apicreate.New(logger, expenseService).ServeHTTP)
			r.Get("/summary", apisummary.New(logger, summaryService, alertGenerator).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", health.New(logger, db).ServeHTTP)
}
