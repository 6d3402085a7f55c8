package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/darusc/expense-tracker/internal/models"
)

// CreateExpense вставляет новую трату и возвращает её ID.
func (s *Storage) CreateExpense(ctx context.Context, expense models.Expense) (int64, error) {
	const op = "storage.CreateExpense"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO expenses (user_id, date, category, amount_cents, description)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		expense.UserID, expense.Date, expense.Category, expense.AmountCents,
		expense.Description).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CreateExpenseBatch вставляет все переданные траты в одной транзакции.
// При ошибке вставки любой строки транзакция откатывается целиком:
// частичный импорт никогда не становится видимым.
func (s *Storage) CreateExpenseBatch(ctx context.Context, expenses []models.Expense) error {
	const op = "storage.CreateExpenseBatch"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO expenses (user_id, date, category, amount_cents, description)
			  VALUES ($1, $2, $3, $4, $5)`
	for _, expense := range expenses {
		if _, err := tx.ExecContext(ctx, query,
			expense.UserID, expense.Date, expense.Category, expense.AmountCents,
			expense.Description); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadExpense возвращает трату по её ID.
func (s *Storage) ReadExpense(ctx context.Context, id int64) (*models.Expense, error) {
	const op = "storage.ReadExpense"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, date, category, amount_cents, description
			  FROM expenses WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Expense
	if err := row.Scan(&result.ID, &result.UserID, &result.Date, &result.Category,
		&result.AmountCents, &result.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrExpenseNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateExpense обновляет все поля траты по её ID и возвращает количество
// изменённых строк. Частичное обновление не поддерживается.
func (s *Storage) UpdateExpense(ctx context.Context, expense models.Expense, id int64) (int, error) {
	const op = "storage.UpdateExpense"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE expenses
			  SET user_id = $1, date = $2, category = $3, amount_cents = $4, description = $5
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		expense.UserID, expense.Date, expense.Category, expense.AmountCents,
		expense.Description, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveExpense удаляет трату по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveExpense(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveExpense"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM expenses WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListExpenses возвращает траты пользователя за указанный месяц
// с пагинацией, отсортированные по дате по убыванию.
func (s *Storage) ListExpenses(ctx context.Context, userID int64, year, month, limit, offset int) ([]*models.Expense, error) {
	const op = "storage.ListExpenses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, date, category, amount_cents, description
			  FROM expenses
			  WHERE user_id = $1
			    AND EXTRACT(YEAR FROM date) = $2
			    AND EXTRACT(MONTH FROM date) = $3
			  ORDER BY date DESC, id DESC
			  LIMIT $4 OFFSET $5`
	rows, err := s.DB.QueryContext(ctx, query, userID, year, month, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Expense
	for rows.Next() {
		var item models.Expense
		if err := rows.Scan(&item.ID, &item.UserID, &item.Date, &item.Category,
			&item.AmountCents, &item.Description); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountExpenses подсчитывает количество трат пользователя за указанный месяц.
func (s *Storage) CountExpenses(ctx context.Context, userID int64, year, month int) (int, error) {
	const op = "storage.CountExpenses"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*)
			  FROM expenses
			  WHERE user_id = $1
			    AND EXTRACT(YEAR FROM date) = $2
			    AND EXTRACT(MONTH FROM date) = $3`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, userID, year, month).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListExpenseYears возвращает список лет, в которых у пользователя есть траты,
// по убыванию.
func (s *Storage) ListExpenseYears(ctx context.Context, userID int64) ([]int, error) {
	const op = "storage.ListExpenseYears"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT DISTINCT EXTRACT(YEAR FROM date)::int AS year
			  FROM expenses
			  WHERE user_id = $1
			  ORDER BY year DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, year)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SumAmounts возвращает сумму всех трат пользователя за месяц в центах.
func (s *Storage) SumAmounts(ctx context.Context, userID int64, year, month int) (int64, error) {
	const op = "storage.SumAmounts"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount_cents), 0)
			  FROM expenses
			  WHERE user_id = $1
			    AND EXTRACT(YEAR FROM date) = $2
			    AND EXTRACT(MONTH FROM date) = $3`
	var total int64
	if err := s.DB.QueryRowContext(ctx, query, userID, year, month).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// SumAmountsByCategory возвращает сумму трат пользователя за месяц
// по одной категории в центах.
func (s *Storage) SumAmountsByCategory(ctx context.Context, userID int64, year, month int, category string) (int64, error) {
	const op = "storage.SumAmountsByCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount_cents), 0)
			  FROM expenses
			  WHERE user_id = $1
			    AND EXTRACT(YEAR FROM date) = $2
			    AND EXTRACT(MONTH FROM date) = $3
			    AND category = $4`
	var total int64
	if err := s.DB.QueryRowContext(ctx, query, userID, year, month, category).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// AverageAmountsByCategory возвращает среднюю трату пользователя за месяц
// по одной категории в центах. При отсутствии трат возвращает 0.
func (s *Storage) AverageAmountsByCategory(ctx context.Context, userID int64, year, month int, category string) (float64, error) {
	const op = "storage.AverageAmountsByCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(AVG(amount_cents), 0)
			  FROM expenses
			  WHERE user_id = $1
			    AND EXTRACT(YEAR FROM date) = $2
			    AND EXTRACT(MONTH FROM date) = $3
			    AND category = $4`
	var average float64
	if err := s.DB.QueryRowContext(ctx, query, userID, year, month, category).Scan(&average); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return average, nil
}
