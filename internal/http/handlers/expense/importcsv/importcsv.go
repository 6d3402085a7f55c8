// Package importcsv реализует HTTP-обработчик загрузки трат из CSV-файла.
//
// Файл принимается из multipart-поля csv. Отсутствующий или нечитаемый
// файл не считается фатальной ошибкой: пользователь возвращается
// к списку трат, проблема фиксируется в логе.
package importcsv

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/darusc/expense-tracker/internal/http/middlewarectx"
	"github.com/darusc/expense-tracker/internal/lib/csrf"
	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/session"
)

// Handler управляет HTTP-запросами на импорт трат из CSV.
type Handler struct {
	log     *slog.Logger
	service Service
	store   *session.Store
}

// Service описывает интерфейс бизнес-логики импорта.
type Service interface {
	ImportCSV(ctx context.Context, userID int64, r io.Reader) (int, error)
}

// New создает новый Handler с переданными логгером, сервисом
// и хранилищем сессий.
func New(log *slog.Logger, service Service, store *session.Store) *Handler {
	return &Handler{log: log, service: service, store: store}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.importcsv"
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
		http.Redirect(w, r, "/expenses", http.StatusFound)
		return
	}

	file, _, err := r.FormFile("csv")
	if err != nil {
		log.Info("csv upload missing or unreadable", sl.Err(err))
		http.Redirect(w, r, "/expenses", http.StatusFound)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	imported, err := h.service.ImportCSV(r.Context(), sess.Data.UserID, file)
	if err != nil {
		log.Error("failed to import csv", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	sess.Data.Flash.ImportedRows = &imported
	if err := h.store.Save(r.Context(), sess); err != nil {
		log.Error("failed to save session", sl.Err(err))
	}

	log.Info("csv imported", slog.Int("rows", imported))
	http.Redirect(w, r, "/expenses", http.StatusFound)
}
