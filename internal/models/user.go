// Package models содержит доменные структуры приложения: пользователей,
// траты, сводки по месяцу и типы ошибок валидации.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
// ID равен нулю до вставки в базу. Email может быть пустым: он указывается
// при регистрации по желанию и нужен только для почтовых уведомлений
// о превышении бюджета.
type User struct {
	ID           int64
	Username     string // Имя пользователя (уникальное)
	PasswordHash string // bcrypt-хэш пароля
	Email        string // Необязательный адрес для уведомлений
	CreatedAt    time.Time
}
