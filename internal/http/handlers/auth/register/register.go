// Package register реализует HTTP-обработчик регистрации пользователя.
//
// При ошибках валидации введённое имя и тексты ошибок сохраняются
// во флеш сессии, и пользователь возвращается к форме.
package register

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

// Handler управляет HTTP-запросами на регистрацию.
type Handler struct {
	log     *slog.Logger
	service Service
	store   *session.Store
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, username, password, passwordConfirm, email string) (*models.RegisterErrors, error)
}

// New создает новый Handler с переданными логгером, сервисом
// и хранилищем сессий.
func New(log *slog.Logger, service Service, store *session.Store) *Handler {
	return &Handler{log: log, service: service, store: store}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
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
		http.Redirect(w, r, "/register", http.StatusFound)
		return
	}

	username := r.PostFormValue("username")
	errs, err := h.service.Register(r.Context(),
		username,
		r.PostFormValue("password"),
		r.PostFormValue("password_confirm"),
		r.PostFormValue("email"))
	if err != nil {
		log.Error("failed to register user", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if errs != nil {
		sess.Data.Flash.Register = &session.RegisterFlash{Username: username, Errors: *errs}
		if err := h.store.Save(r.Context(), sess); err != nil {
			log.Error("failed to save session", sl.Err(err))
		}
		http.Redirect(w, r, "/register", http.StatusFound)
		return
	}

	log.Info("user registered", slog.String("username", username))
	http.Redirect(w, r, "/login", http.StatusFound)
}
