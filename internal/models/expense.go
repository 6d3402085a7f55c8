package models

import "time"

// Expense представляет одну трату пользователя. Сумма хранится в центах,
// чтобы исключить накопление ошибок плавающей точки. ID равен нулю до
// вставки в базу. Трата принадлежит ровно одному пользователю.
type Expense struct {
	ID          int64
	UserID      int64     // Владелец траты
	Date        time.Time // Дата траты, не может быть в будущем
	Category    string    // Одна из настроенных категорий
	AmountCents int64     // Сумма в центах, строго больше нуля
	Description string    // Непустое описание
}

// Amount возвращает сумму траты в валюте.
func (e Expense) Amount() float64 {
	return float64(e.AmountCents) / 100
}

// ExpenseForm содержит сырые значения полей из HTML-формы создания или
// редактирования траты. Используется и для префилла формы после редиректа
// с ошибками валидации.
type ExpenseForm struct {
	Date        string
	Amount      string
	Description string
	Category    string
}

// DummyExpense используется для приёма данных из JSON-запроса API,
// прежде чем конвертировать их в ExpenseForm.
type DummyExpense struct {
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"` // Дата в формате 2006-01-02
	Amount      float64 `json:"amount" validate:"required,gt=0"`              // Сумма (>0)
	Description string  `json:"description" validate:"required"`              // Описание
	Category    string  `json:"category" validate:"required"`                 // Категория
}
