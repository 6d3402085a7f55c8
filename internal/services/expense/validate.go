package services

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/darusc/expense-tracker/internal/models"
)

// Сообщения об ошибках валидации, показываемые пользователю в формах.
const (
	MsgInvalidDate       = "Invalid date"
	MsgDateInFuture      = "Date cannot be in the future"
	MsgUnknownCategory   = "Select a valid category"
	MsgInvalidAmount     = "Invalid amount"
	MsgAmountNotPositive = "Amount must be greater than zero"
	MsgEmptyDescription  = "Description cannot be empty"
)

var errEmptyAmount = errors.New("empty amount")

// ParseDate разбирает дату формы в формате ГГГГ-ММ-ДД.
func ParseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(value))
}

// ParseAmount разбирает десятичную сумму и округляет её до центов
// по правилу half away from zero.
func ParseAmount(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errEmptyAmount
	}
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(amount * 100)), nil
}

// Validate проверяет поля траты и накапливает все найденные ошибки.
// Возвращает nil, если трата корректна. Правила: дата не в будущем,
// категория из настроенного списка, сумма строго положительна,
// описание непустое.
func Validate(date time.Time, category string, amountCents int64, description string, categories []string) *models.ExpenseErrors {
	var errs models.ExpenseErrors

	if date.After(time.Now()) {
		errs.Date = MsgDateInFuture
	}
	if category == "" || !slices.Contains(categories, category) {
		errs.Category = MsgUnknownCategory
	}
	if amountCents <= 0 {
		errs.Amount = MsgAmountNotPositive
	}
	if strings.TrimSpace(description) == "" {
		errs.Description = MsgEmptyDescription
	}

	if errs == (models.ExpenseErrors{}) {
		return nil
	}
	return &errs
}
