// Package createform реализует HTTP-обработчик формы добавления траты.
//
// После неудачной отправки форма предзаполняется введёнными значениями
// и ошибками валидации из флеша сессии.
package createform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/darusc/expense-tracker/internal/http/middlewarectx"
	"github.com/darusc/expense-tracker/internal/http/view"
	"github.com/darusc/expense-tracker/internal/lib/csrf"
	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/models"
	"github.com/darusc/expense-tracker/internal/session"
)

// Handler управляет отображением формы добавления траты.
type Handler struct {
	log        *slog.Logger
	store      *session.Store
	views      *view.Renderer
	categories []string
}

// New создает новый Handler с переданными зависимостями.
func New(log *slog.Logger, store *session.Store, views *view.Renderer, categories []string) *Handler {
	return &Handler{log: log, store: store, views: views, categories: categories}
}

type pageData struct {
	view.PageData
	Form       models.ExpenseForm
	Errors     models.ExpenseErrors
	Categories []string
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.createform"
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

	token, err := csrf.NewToken()
	if err != nil {
		log.Error("failed to generate csrf token", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	sess.Data.CSRFToken = token

	data := pageData{
		PageData:   view.PageData{Title: "Add expense", LoggedIn: true, CSRFToken: token},
		Form:       models.ExpenseForm{Date: time.Now().Format("2006-01-02")},
		Categories: h.categories,
	}
	if flash := sess.Data.Flash.ExpenseForm; flash != nil {
		data.Form = flash.Form
		data.Errors = flash.Errors
		sess.Data.Flash.ExpenseForm = nil
	}

	if err := h.store.Save(r.Context(), sess); err != nil {
		log.Error("failed to save session", sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.views.Render(w, "expense_create", data); err != nil {
		log.Error("failed to render page", sl.Err(err))
	}
}
