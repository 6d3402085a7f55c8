// Package list реализует HTTP-обработчик страницы трат за месяц.
//
// Страница показывает траты выбранного месяца с пагинацией,
// селекторы года и месяца, а также флеш-сообщения об импорте
// и удалении.
package list

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
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

// Handler управляет отображением списка трат.
type Handler struct {
	log      *slog.Logger
	service  Service
	store    *session.Store
	views    *view.Renderer
	pageSize int
}

// Service описывает интерфейс бизнес-логики списка трат.
type Service interface {
	List(ctx context.Context, userID int64, year, month, page, pageSize int) ([]*models.Expense, error)
	Count(ctx context.Context, userID int64, year, month int) (int, error)
	ListYears(ctx context.Context, userID int64) ([]int, error)
}

// New создает новый Handler с переданными зависимостями.
func New(log *slog.Logger, service Service, store *session.Store, views *view.Renderer, pageSize int) *Handler {
	return &Handler{log: log, service: service, store: store, views: views, pageSize: pageSize}
}

type pageData struct {
	view.PageData
	Expenses       []*models.Expense
	Years          []int
	Months         []int
	SelectedYear   int
	SelectedMonth  int
	Page           int
	TotalPages     int
	PrevPageURL    string
	NextPageURL    string
	ImportedRows   *int
	DeletedExpense string
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.list"
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

	year, monthNum := month.FromQuery(r.URL.Query().Get("year"), r.URL.Query().Get("month"), time.Now())
	page := 1
	if parsed, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && parsed > 0 {
		page = parsed
	}

	userID := sess.Data.UserID
	expenses, err := h.service.List(r.Context(), userID, year, monthNum, page, h.pageSize)
	if err != nil {
		log.Error("failed to list expenses", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	count, err := h.service.Count(r.Context(), userID, year, monthNum)
	if err != nil {
		log.Error("failed to count expenses", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	years, err := h.service.ListYears(r.Context(), userID)
	if err != nil {
		log.Error("failed to list expense years", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if len(years) == 0 {
		years = []int{year}
	}

	totalPages := (count + h.pageSize - 1) / h.pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	token, err := csrf.NewToken()
	if err != nil {
		log.Error("failed to generate csrf token", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	sess.Data.CSRFToken = token

	data := pageData{
		PageData:       view.PageData{Title: "Expenses", LoggedIn: true, CSRFToken: token},
		Expenses:       expenses,
		Years:          years,
		Months:         month.Numbers(),
		SelectedYear:   year,
		SelectedMonth:  monthNum,
		Page:           page,
		TotalPages:     totalPages,
		ImportedRows:   sess.Data.Flash.ImportedRows,
		DeletedExpense: sess.Data.Flash.DeletedExpense,
	}
	if page > 1 {
		data.PrevPageURL = pageURL(year, monthNum, page-1)
	}
	if page < totalPages {
		data.NextPageURL = pageURL(year, monthNum, page+1)
	}

	sess.Data.Flash.ImportedRows = nil
	sess.Data.Flash.DeletedExpense = ""
	if err := h.store.Save(r.Context(), sess); err != nil {
		log.Error("failed to save session", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.views.Render(w, "expenses", data); err != nil {
		log.Error("failed to render page", sl.Err(err))
	}
}

func pageURL(year, month, page int) string {
	return fmt.Sprintf("/expenses?year=%d&month=%d&page=%d", year, month, page)
}
