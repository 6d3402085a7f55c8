// Package remove реализует HTTP-обработчик удаления траты.
// Удаление немедленное и окончательное, без мягкого удаления.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/darusc/expense-tracker/internal/http/middlewarectx"
	"github.com/darusc/expense-tracker/internal/lib/csrf"
	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/models"
	expenseservice "github.com/darusc/expense-tracker/internal/services/expense"
	"github.com/darusc/expense-tracker/internal/session"
	"github.com/darusc/expense-tracker/internal/storage/repository"
)

// Handler управляет HTTP-запросами на удаление траты.
type Handler struct {
	log     *slog.Logger
	service Service
	store   *session.Store
}

// Service описывает интерфейс бизнес-логики удаления траты.
type Service interface {
	Delete(ctx context.Context, id, userID int64) (*models.Expense, error)
}

// New создает новый Handler с переданными логгером, сервисом
// и хранилищем сессий.
func New(log *slog.Logger, service Service, store *session.Store) *Handler {
	return &Handler{log: log, service: service, store: store}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.remove"
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

	if !csrf.Verify(sess.Data.CSRFToken, r.PostFormValue("csrf_token")) {
		log.Error("csrf token mismatch")
		http.Redirect(w, r, "/expenses", http.StatusFound)
		return
	}

	deleted, err := h.service.Delete(r.Context(), id, sess.Data.UserID)
	if errors.Is(err, repository.ErrExpenseNotFound) {
		log.Info("expense not found", slog.Int64("id", id))
		http.NotFound(w, r)
		return
	}
	if errors.Is(err, expenseservice.ErrNotOwner) {
		log.Info("expense belongs to another user", slog.Int64("id", id))
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if err != nil {
		log.Error("failed to delete expense", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	sess.Data.Flash.DeletedExpense = deleted.Description
	if err := h.store.Save(r.Context(), sess); err != nil {
		log.Error("failed to save session", sl.Err(err))
	}

	log.Info("expense deleted", slog.Int64("id", id))
	http.Redirect(w, r, "/expenses", http.StatusFound)
}
