// Package logout реализует HTTP-обработчик выхода пользователя.
//
// Сессия удаляется из хранилища целиком, cookie сбрасывается:
// после выхода прежний идентификатор сессии больше не действителен.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/darusc/expense-tracker/internal/http/middlewarectx"
	"github.com/darusc/expense-tracker/internal/lib/csrf"
	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/session"
)

// Handler управляет HTTP-запросами на выход.
type Handler struct {
	log   *slog.Logger
	store *session.Store
}

// New создает новый Handler с переданными логгером и хранилищем сессий.
func New(log *slog.Logger, store *session.Store) *Handler {
	return &Handler{log: log, store: store}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
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
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	if err := h.store.Destroy(r.Context(), sess); err != nil {
		log.Error("failed to destroy session", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.store.ClearCookie(w)

	log.Info("user logged out")
	http.Redirect(w, r, "/login", http.StatusFound)
}
