// Package create реализует HTTP-обработчик сохранения новой траты.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/darusc/expense-tracker/internal/http/middlewarectx"
	"github.com/darusc/expense-tracker/internal/lib/csrf"
	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/models"
	"github.com/darusc/expense-tracker/internal/session"
)

// Handler управляет HTTP-запросами на создание траты.
type Handler struct {
	log     *slog.Logger
	service Service
	store   *session.Store
}

// Service описывает интерфейс бизнес-логики создания траты.
type Service interface {
	Create(ctx context.Context, userID int64, form models.ExpenseForm) (int64, *models.ExpenseErrors, error)
}

// New создает новый Handler с переданными логгером, сервисом
// и хранилищем сессий.
func New(log *slog.Logger, service Service, store *session.Store) *Handler {
	return &Handler{log: log, service: service, store: store}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.create"
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

	if !csrf.Verify(sess.Data.CSRFToken, r.PostFormValue("csrf_token")) {
		log.Error("csrf token mismatch")
		http.Redirect(w, r, "/expenses/create", http.StatusFound)
		return
	}

	form := models.ExpenseForm{
		Date:        r.PostFormValue("date"),
		Amount:      r.PostFormValue("amount"),
		Description: r.PostFormValue("description"),
		Category:    r.PostFormValue("category"),
	}

	id, errs, err := h.service.Create(r.Context(), sess.Data.UserID, form)
	if err != nil {
		log.Error("failed to create expense", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if errs != nil {
		sess.Data.Flash.ExpenseForm = &session.ExpenseFormFlash{Form: form, Errors: *errs}
		if err := h.store.Save(r.Context(), sess); err != nil {
			log.Error("failed to save session", sl.Err(err))
		}
		http.Redirect(w, r, "/expenses/create", http.StatusFound)
		return
	}

	log.Info("expense created", slog.Int64("id", id))
	http.Redirect(w, r, "/expenses", http.StatusFound)
}
