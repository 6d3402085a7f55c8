package middlewarectx

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/darusc/expense-tracker/internal/http/response"
)

// RequireAuth пропускает только аутентифицированные запросы.
// Неаутентифицированный пользователь перенаправляется на страницу входа.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := SessionFromContext(r.Context())
		if !ok || !sess.IsAuthenticated() {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthAPI делает то же, что RequireAuth, но для JSON-эндпоинтов:
// вместо перенаправления возвращает 401 с телом ошибки.
func RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := SessionFromContext(r.Context())
		if !ok || !sess.IsAuthenticated() {
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
