// Package login реализует HTTP-обработчик входа пользователя.
//
// Обработчик проверяет CSRF-токен и учётные данные, при успехе
// привязывает пользователя к сессии и меняет её идентификатор,
// чтобы исключить фиксацию сессии.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/darusc/expense-tracker/internal/http/middlewarectx"
	"github.com/darusc/expense-tracker/internal/lib/csrf"
	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/models"
	authservice "github.com/darusc/expense-tracker/internal/services/auth"
	"github.com/darusc/expense-tracker/internal/session"
)

// Handler управляет HTTP-запросами на вход пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
	store   *session.Store
}

// Service описывает интерфейс бизнес-логики проверки учётных данных.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
}

// New создает новый Handler с переданными логгером, сервисом
// и хранилищем сессий.
func New(log *slog.Logger, service Service, store *session.Store) *Handler {
	return &Handler{log: log, service: service, store: store}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
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
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	username := r.PostFormValue("username")
	user, err := h.service.Login(r.Context(), username, r.PostFormValue("password"))
	if errors.Is(err, authservice.ErrInvalidCredentials) {
		sess.Data.Flash.LoginError = "Invalid username or password"
		if err := h.store.Save(r.Context(), sess); err != nil {
			log.Error("failed to save session", sl.Err(err))
		}
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if err != nil {
		log.Error("failed to log in", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	sess.Data.UserID = user.ID
	// Новый идентификатор сессии после входа
	if err := h.store.Rotate(r.Context(), sess); err != nil {
		log.Error("failed to rotate session", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.store.WriteCookie(w, sess)

	log.Info("user logged in", slog.String("username", username))
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}
