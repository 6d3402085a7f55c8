// Package middlewarectx содержит HTTP middleware приложения: загрузку
// сессии, требование аутентификации, ограничение частоты запросов
// и метрики.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/session"
)

type ctxKey string

// SessionKey — ключ контекста, под которым хранится сессия запроса.
const SessionKey ctxKey = "session"

// SessionMiddleware загружает сессию по cookie или создаёт новую
// и кладёт её в контекст запроса. Cookie выставляется на каждый ответ,
// чтобы продлевать срок её жизни вместе с ключом в Redis.
func SessionMiddleware(store *session.Store, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *session.Session

			if cookie, err := r.Cookie(store.CookieName()); err == nil {
				sess, err = store.Get(r.Context(), cookie.Value)
				if err != nil && !errors.Is(err, session.ErrSessionNotFound) {
					log.Error("failed to load session", sl.Err(err))
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
			}
			if sess == nil {
				created, err := store.Create(r.Context())
				if err != nil {
					log.Error("failed to create session", sl.Err(err))
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
				sess = created
			}

			store.WriteCookie(w, sess)
			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext достаёт сессию запроса из контекста.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(*session.Session)
	return sess, ok
}
