// Package summary реализует JSON-эндпоинт месячной сводки трат.
package summary

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/darusc/expense-tracker/internal/http/middlewarectx"
	"github.com/darusc/expense-tracker/internal/http/response"
	"github.com/darusc/expense-tracker/internal/lib/month"
	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/models"
)

// SummaryService описывает интерфейс вычисления сводки за месяц.
type SummaryService interface {
	Summary(ctx context.Context, userID int64, year, month int) (*models.MonthlySummary, error)
}

// AlertService описывает интерфейс вычисления превышений бюджета.
type AlertService interface {
	Generate(ctx context.Context, userID int64, year, month int) (map[string]float64, error)
}

// Handler управляет JSON-запросами сводки.
type Handler struct {
	log     *slog.Logger
	summary SummaryService
	alerts  AlertService
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, summary SummaryService, alerts AlertService) *Handler {
	return &Handler{log: log, summary: summary, alerts: alerts}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.api.summary"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	userID := sess.Data.UserID

	year, monthNum := month.FromQuery(r.URL.Query().Get("year"), r.URL.Query().Get("month"), time.Now())

	summary, err := h.summary.Summary(r.Context(), userID, year, monthNum)
	if err != nil {
		log.Error("failed to compute summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute summary"))
		return
	}
	overages, err := h.alerts.Generate(r.Context(), userID, year, monthNum)
	if err != nil {
		log.Error("failed to compute alerts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute alerts"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"year":    year,
		"month":   monthNum,
		"summary": summary,
		"alerts":  overages,
	}))
}
