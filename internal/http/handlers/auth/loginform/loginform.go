// Package loginform реализует HTTP-обработчик отображения формы входа.
//
// Обработчик выдаёт новый CSRF-токен, показывает сообщение о неудачной
// попытке входа из флеша и очищает его.
package loginform

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/darusc/expense-tracker/internal/http/middlewarectx"
	"github.com/darusc/expense-tracker/internal/http/view"
	"github.com/darusc/expense-tracker/internal/lib/csrf"
	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/session"
)

// Handler управляет отображением страницы входа.
type Handler struct {
	log   *slog.Logger
	store *session.Store
	views *view.Renderer
}

// New создает новый Handler с переданными логгером, хранилищем сессий
// и рендерером страниц.
func New(log *slog.Logger, store *session.Store, views *view.Renderer) *Handler {
	return &Handler{log: log, store: store, views: views}
}

type pageData struct {
	view.PageData
	LoginError string
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.loginform"
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
	if sess.IsAuthenticated() {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	token, err := csrf.NewToken()
	if err != nil {
		log.Error("failed to generate csrf token", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	sess.Data.CSRFToken = token

	loginError := sess.Data.Flash.LoginError
	sess.Data.Flash.LoginError = ""

	if err := h.store.Save(r.Context(), sess); err != nil {
		log.Error("failed to save session", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := pageData{
		PageData:   view.PageData{Title: "Log in", CSRFToken: token},
		LoginError: loginError,
	}
	if err := h.views.Render(w, "login", data); err != nil {
		log.Error("failed to render page", sl.Err(err))
	}
}
