// Package repository реализует хранилище данных на основе PostgreSQL
// для учёта трат и пользователей. Предоставляет методы создания, чтения,
// обновления, удаления и агрегирования записей, а также пакетную вставку
// импортированных трат в одной транзакции.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrExpenseNotFound возвращается, когда трата с указанным ID отсутствует.
var ErrExpenseNotFound = errors.New("expense not found")

// ErrUserNotFound возвращается, когда пользователь с указанным именем отсутствует.
var ErrUserNotFound = errors.New("user not found")

// ErrUserAlreadyExists возвращается при вставке пользователя с занятым именем.
var ErrUserAlreadyExists = errors.New("user already exists")

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с тратами и пользователями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'expenses'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table expenses missing or query error: %w", err)
	}
	return nil
}
