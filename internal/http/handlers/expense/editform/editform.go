// Package editform реализует HTTP-обработчик формы редактирования траты.
//
// Чужая трата недоступна для редактирования: неизвестный ID даёт 404,
// трата другого пользователя 403.
package editform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/darusc/expense-tracker/internal/http/middlewarectx"
	"github.com/darusc/expense-tracker/internal/http/view"
	"github.com/darusc/expense-tracker/internal/lib/csrf"
	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/models"
	"github.com/darusc/expense-tracker/internal/session"
	"github.com/darusc/expense-tracker/internal/storage/repository"
)

// Handler управляет отображением формы редактирования траты.
type Handler struct {
	log        *slog.Logger
	service    Service
	store      *session.Store
	views      *view.Renderer
	categories []string
}

// Service описывает интерфейс чтения траты.
type Service interface {
	Read(ctx context.Context, id int64) (*models.Expense, error)
}

// New создает новый Handler с переданными зависимостями.
func New(log *slog.Logger, service Service, store *session.Store, views *view.Renderer, categories []string) *Handler {
	return &Handler{log: log, service: service, store: store, views: views, categories: categories}
}

type pageData struct {
	view.PageData
	ExpenseID  int64
	Form       models.ExpenseForm
	Errors     models.ExpenseErrors
	Categories []string
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.editform"
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

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	expense, err := h.service.Read(r.Context(), id)
	if errors.Is(err, repository.ErrExpenseNotFound) {
		log.Info("expense not found", slog.Int64("id", id))
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Error("failed to read expense", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if expense.UserID != sess.Data.UserID {
		log.Info("expense belongs to another user", slog.Int64("id", id))
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	token, err := csrf.NewToken()
	if err != nil {
		log.Error("failed to generate csrf token", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	sess.Data.CSRFToken = token

	data := pageData{
		PageData:  view.PageData{Title: "Edit expense", LoggedIn: true, CSRFToken: token},
		ExpenseID: id,
		Form: models.ExpenseForm{
			Date:        expense.Date.Format("2006-01-02"),
			Amount:      fmt.Sprintf("%.2f", expense.Amount()),
			Description: expense.Description,
			Category:    expense.Category,
		},
		Categories: h.categories,
	}
	if flash := sess.Data.Flash.ExpenseForm; flash != nil {
		data.Form = flash.Form
		data.Errors = flash.Errors
		sess.Data.Flash.ExpenseForm = nil
	}

	if err := h.store.Save(r.Context(), sess); err != nil {
		log.Error("failed to save session", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.views.Render(w, "expense_edit", data); err != nil {
		log.Error("failed to render page", sl.Err(err))
	}
}
