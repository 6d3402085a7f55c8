package models

// ExpenseErrors содержит ошибки валидации траты по полям. Пустая строка
// означает отсутствие ошибки в поле. Успешная валидация представляется
// nil-указателем, поэтому случаи "нет ошибок" и "есть ошибки" различимы
// статически.
type ExpenseErrors struct {
	Date        string
	Category    string
	Amount      string
	Description string
}

// RegisterErrors содержит ошибки регистрации по полям формы.
// Все проверки выполняются независимо, ошибки накапливаются.
type RegisterErrors struct {
	Username        string
	Password        string
	PasswordConfirm string
}
