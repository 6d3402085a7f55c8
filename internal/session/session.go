// Package session реализует серверные cookie-сессии поверх Redis.
// Сессия заменяет глобальное состояние запроса: в ней живут идентификатор
// аутентифицированного пользователя, CSRF-токен текущей формы и типизированные
// flash-данные, переживающие один редирект (ошибки валидации, префилл формы,
// счётчик импортированных строк).
package session

import (
	"github.com/darusc/expense-tracker/internal/models"
)

// Session объединяет идентификатор сессии и её данные.
// Идентификатор непрозрачный и живёт только в cookie браузера.
type Session struct {
	ID   string
	Data Data
}

// Data содержит типизированное состояние сессии.
type Data struct {
	UserID    int64  `json:"user_id"`    // 0 — неаутентифицированная сессия
	CSRFToken string `json:"csrf_token"` // Токен последней показанной формы
	Flash     Flash  `json:"flash"`
}

// Flash содержит данные, передаваемые через редирект и потребляемые
// ровно один раз при следующем показе страницы.
type Flash struct {
	LoginError     string            `json:"login_error,omitempty"`
	Register       *RegisterFlash    `json:"register,omitempty"`
	ExpenseForm    *ExpenseFormFlash `json:"expense_form,omitempty"`
	ImportedRows   *int              `json:"imported_rows,omitempty"`
	DeletedExpense string            `json:"deleted_expense,omitempty"`
}

// RegisterFlash хранит введённое имя пользователя и ошибки регистрации
// для префилла формы после редиректа.
type RegisterFlash struct {
	Username string                `json:"username"`
	Errors   models.RegisterErrors `json:"errors"`
}

// ExpenseFormFlash хранит значения полей формы траты и ошибки валидации
// для префилла формы после редиректа.
type ExpenseFormFlash struct {
	Form   models.ExpenseForm   `json:"form"`
	Errors models.ExpenseErrors `json:"errors"`
}

// IsAuthenticated сообщает, привязана ли сессия к пользователю.
func (s *Session) IsAuthenticated() bool {
	return s.Data.UserID != 0
}
