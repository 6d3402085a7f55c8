package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/darusc/expense-tracker/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его ID.
// Пустой email сохраняется как NULL.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var email sql.NullString
	if user.Email != "" {
		email = sql.NullString{String: user.Email, Valid: true}
	}

	var newID int64
	query := `INSERT INTO users (username, password_hash, email)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, email).Scan(&newID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, ErrUserAlreadyExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
// Возвращает ErrUserNotFound, если пользователь не зарегистрирован.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, password_hash, email, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)

	var email sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &email, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if email.Valid {
		u.Email = email.String
	}
	return u, nil
}

// FindUsersWithExpenses возвращает пользователей с заполненным email,
// у которых есть хотя бы одна трата за указанный месяц. Используется
// планировщиком уведомлений о превышении бюджета.
func (s *Storage) FindUsersWithExpenses(ctx context.Context, year, month int) ([]*models.User, error) {
	const op = "storage.FindUsersWithExpenses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT DISTINCT u.id, u.username, u.email
			  FROM users u
			  JOIN expenses e ON e.user_id = u.id
			  WHERE u.email IS NOT NULL
			    AND EXTRACT(YEAR FROM e.date) = $1
			    AND EXTRACT(MONTH FROM e.date) = $2`
	rows, err := s.DB.QueryContext(ctx, query, year, month)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
