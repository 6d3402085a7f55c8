// Package registerform реализует HTTP-обработчик отображения формы регистрации.
package registerform

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/darusc/expense-tracker/internal/http/middlewarectx"
	"github.com/darusc/expense-tracker/internal/http/view"
	"github.com/darusc/expense-tracker/internal/lib/csrf"
	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/models"
	"github.com/darusc/expense-tracker/internal/session"
)

// Handler управляет отображением страницы регистрации.
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
	Username string
	Errors   models.RegisterErrors
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.registerform"
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

	data := pageData{PageData: view.PageData{Title: "Register", CSRFToken: token}}
	if flash := sess.Data.Flash.Register; flash != nil {
		data.Username = flash.Username
		data.Errors = flash.Errors
		sess.Data.Flash.Register = nil
	}

	if err := h.store.Save(r.Context(), sess); err != nil {
		log.Error("failed to save session", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.views.Render(w, "register", data); err != nil {
		log.Error("failed to render page", sl.Err(err))
	}
}
