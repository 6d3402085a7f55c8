// Package expensecreate реализует JSON-эндпоинт создания траты.
//
// Запрос валидируется по тегам структуры, трата создаётся для
// пользователя текущей сессии, в ответе возвращается ID записи.
package expensecreate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/darusc/expense-tracker/internal/http/middlewarectx"
	"github.com/darusc/expense-tracker/internal/http/response"
	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/models"
)

// Handler управляет JSON-запросами на создание траты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания траты.
type Service interface {
	Create(ctx context.Context, userID int64, form models.ExpenseForm) (int64, *models.ExpenseErrors, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.api.expensecreate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req models.DummyExpense
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	form := models.ExpenseForm{
		Date:        req.Date,
		Amount:      fmt.Sprintf("%.2f", req.Amount),
		Description: req.Description,
		Category:    req.Category,
	}
	id, errs, err := h.service.Create(r.Context(), sess.Data.UserID, form)
	if err != nil {
		log.Error("failed to create expense", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create expense"))
		return
	}
	if errs != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ErrorWithData("invalid expense data", errs))
		return
	}

	log.Info("expense created", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"last_added_id": id,
	}))
}
