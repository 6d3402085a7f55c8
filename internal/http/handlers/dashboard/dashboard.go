// Package dashboard реализует HTTP-обработчик сводной страницы месяца:
// общая сумма трат, суммы и средние по категориям, предупреждения
// о превышении бюджетов.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/darusc/expense-tracker/internal/http/middlewarectx"
	"github.com/darusc/expense-tracker/internal/http/view"
	"github.com/darusc/expense-tracker/internal/lib/csrf"
	"github.com/darusc/expense-tracker/internal/lib/month"
	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/models"
	"github.com/darusc/expense-tracker/internal/session"
)

// SummaryService описывает интерфейс вычисления сводки за месяц.
type SummaryService interface {
	Summary(ctx context.Context, userID int64, year, month int) (*models.MonthlySummary, error)
}

// AlertService описывает интерфейс вычисления превышений бюджета.
type AlertService interface {
	Generate(ctx context.Context, userID int64, year, month int) (map[string]float64, error)
}

// YearsService отдаёт список лет с тратами пользователя.
type YearsService interface {
	ListYears(ctx context.Context, userID int64) ([]int, error)
}

// Handler управляет отображением сводной страницы.
type Handler struct {
	log     *slog.Logger
	summary SummaryService
	alerts  AlertService
	years   YearsService
	store   *session.Store
	views   *view.Renderer
}

// New создает новый Handler с переданными зависимостями.
func New(log *slog.Logger, summary SummaryService, alerts AlertService, years YearsService, store *session.Store, views *view.Renderer) *Handler {
	return &Handler{log: log, summary: summary, alerts: alerts, years: years, store: store, views: views}
}

type categoryRow struct {
	Category   string
	Value      float64
	Percentage float64
}

type alertRow struct {
	Category string
	Overage  float64
}

type pageData struct {
	view.PageData
	Years         []int
	Months        []int
	SelectedYear  int
	SelectedMonth int
	Total         float64
	Totals        []categoryRow
	Averages      []categoryRow
	Alerts        []alertRow
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session not found in context")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	userID := sess.Data.UserID

	year, monthNum := month.FromQuery(r.URL.Query().Get("year"), r.URL.Query().Get("month"), time.Now())

	summary, err := h.summary.Summary(r.Context(), userID, year, monthNum)
	if err != nil {
		log.Error("failed to compute summary", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	overages, err := h.alerts.Generate(r.Context(), userID, year, monthNum)
	if err != nil {
		log.Error("failed to compute alerts", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	years, err := h.years.ListYears(r.Context(), userID)
	if err != nil {
		log.Error("failed to list expense years", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if len(years) == 0 {
		years = []int{year}
	}

	token, err := csrf.NewToken()
	if err != nil {
		log.Error("failed to generate csrf token", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	sess.Data.CSRFToken = token
	if err := h.store.Save(r.Context(), sess); err != nil {
		log.Error("failed to save session", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := pageData{
		PageData:      view.PageData{Title: "Dashboard", LoggedIn: true, CSRFToken: token},
		Years:         years,
		Months:        month.Numbers(),
		SelectedYear:  year,
		SelectedMonth: monthNum,
		Total:         summary.Total,
		Totals:        sortedRows(summary.CategoryTotals),
		Averages:      sortedRows(summary.CategoryAverages),
		Alerts:        sortedAlerts(overages),
	}

	if err := h.views.Render(w, "dashboard", data); err != nil {
		log.Error("failed to render page", sl.Err(err))
	}
}

// sortedRows разворачивает карту статистик в срез строк таблицы,
// отсортированный по имени категории для стабильного отображения.
func sortedRows(stats map[string]models.CategoryStat) []categoryRow {
	rows := make([]categoryRow, 0, len(stats))
	for category, stat := range stats {
		rows = append(rows, categoryRow{Category: category, Value: stat.Value, Percentage: stat.Percentage})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return rows
}

func sortedAlerts(overages map[string]float64) []alertRow {
	rows := make([]alertRow, 0, len(overages))
	for category, overage := range overages {
		rows = append(rows, alertRow{Category: category, Overage: overage})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return rows
}
