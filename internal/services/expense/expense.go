// Package services содержит бизнес-логику учёта трат: валидацию,
// операции CRUD с проверкой владельца и импорт из CSV.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/models"
	summaryservice "github.com/darusc/expense-tracker/internal/services/summary"
)

// ErrNotOwner возвращается, когда пользователь пытается изменить
// или удалить чужую трату.
var ErrNotOwner = errors.New("expense does not belong to user")

// ExpenseRepository определяет методы для работы с тратами в хранилище.
type ExpenseRepository interface {
	// CreateExpense добавляет новую трату и возвращает её ID.
	CreateExpense(ctx context.Context, expense models.Expense) (int64, error)
	// CreateExpenseBatch вставляет все траты в одной транзакции.
	CreateExpenseBatch(ctx context.Context, expenses []models.Expense) error
	// ReadExpense возвращает трату по ID.
	ReadExpense(ctx context.Context, id int64) (*models.Expense, error)
	// UpdateExpense обновляет все поля траты по ID.
	UpdateExpense(ctx context.Context, expense models.Expense, id int64) (int, error)
	// RemoveExpense удаляет трату по ID.
	RemoveExpense(ctx context.Context, id int64) (int, error)
	// ListExpenses возвращает траты пользователя за месяц с пагинацией.
	ListExpenses(ctx context.Context, userID int64, year, month, limit, offset int) ([]*models.Expense, error)
	// CountExpenses подсчитывает траты пользователя за месяц.
	CountExpenses(ctx context.Context, userID int64, year, month int) (int, error)
	// ListExpenseYears возвращает список лет с тратами пользователя.
	ListExpenseYears(ctx context.Context, userID int64) ([]int, error)
}

// Cache описывает методы для инвалидации кешированных сводок.
type Cache interface {
	Invalidate(key string) error
}

// ExpenseService реализует бизнес-логику работы с тратами.
type ExpenseService struct {
	repo       ExpenseRepository
	cache      Cache
	log        *slog.Logger
	categories []string
}

// NewExpenseService создает новый экземпляр ExpenseService.
// categories задаёт множество допустимых категорий трат.
func NewExpenseService(repo ExpenseRepository, cache Cache, log *slog.Logger, categories []string) *ExpenseService {
	return &ExpenseService{
		repo:       repo,
		cache:      cache,
		log:        log,
		categories: categories,
	}
}

// Create валидирует данные формы и сохраняет новую трату пользователя.
// При ошибках валидации возвращает их без обращения к хранилищу.
func (s *ExpenseService) Create(ctx context.Context, userID int64, form models.ExpenseForm) (int64, *models.ExpenseErrors, error) {
	const op = "services.expense.Create"

	expense, errs := s.buildExpense(userID, form)
	if errs != nil {
		s.log.Info("expense create failed validation", slog.Any("errors", *errs))
		return 0, errs, nil
	}

	id, err := s.repo.CreateExpense(ctx, *expense)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateSummary(expense.UserID, expense.Date)

	s.log.Info("expense created", slog.Int64("id", id))
	return id, nil, nil
}

// Update валидирует данные формы и обновляет трату целиком.
// Возвращает ErrNotOwner, если трата принадлежит другому пользователю.
func (s *ExpenseService) Update(ctx context.Context, id, userID int64, form models.ExpenseForm) (*models.ExpenseErrors, error) {
	const op = "services.expense.Update"

	existing, err := s.repo.ReadExpense(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing.UserID != userID {
		return nil, fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	expense, errs := s.buildExpense(userID, form)
	if errs != nil {
		s.log.Info("expense update failed validation", slog.Int64("id", id), slog.Any("errors", *errs))
		return errs, nil
	}

	if _, err := s.repo.UpdateExpense(ctx, *expense, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Дата могла измениться, сбрасываем сводки обоих месяцев
	s.invalidateSummary(userID, existing.Date)
	s.invalidateSummary(userID, expense.Date)

	s.log.Info("expense updated", slog.Int64("id", id))
	return nil, nil
}

// Read возвращает трату по ID.
func (s *ExpenseService) Read(ctx context.Context, id int64) (*models.Expense, error) {
	return s.repo.ReadExpense(ctx, id)
}

// Delete удаляет трату пользователя. Возвращает ErrNotOwner,
// если трата принадлежит другому пользователю. Удаление немедленное
// и окончательное.
func (s *ExpenseService) Delete(ctx context.Context, id, userID int64) (*models.Expense, error) {
	const op = "services.expense.Delete"

	existing, err := s.repo.ReadExpense(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing.UserID != userID {
		return nil, fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	if _, err := s.repo.RemoveExpense(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateSummary(userID, existing.Date)

	s.log.Info("expense deleted", slog.Int64("id", id))
	return existing, nil
}

// List возвращает страницу трат пользователя за месяц,
// отсортированных по дате по убыванию.
func (s *ExpenseService) List(ctx context.Context, userID int64, year, month, page, pageSize int) ([]*models.Expense, error) {
	if page < 1 {
		page = 1
	}
	return s.repo.ListExpenses(ctx, userID, year, month, pageSize, (page-1)*pageSize)
}

// Count подсчитывает траты пользователя за месяц.
func (s *ExpenseService) Count(ctx context.Context, userID int64, year, month int) (int, error) {
	return s.repo.CountExpenses(ctx, userID, year, month)
}

// ListYears возвращает список лет, в которых у пользователя есть траты.
func (s *ExpenseService) ListYears(ctx context.Context, userID int64) ([]int, error) {
	return s.repo.ListExpenseYears(ctx, userID)
}

// buildExpense разбирает значения формы и валидирует их. Ошибки разбора
// даты и суммы попадают в те же слоты, что и ошибки валидации.
func (s *ExpenseService) buildExpense(userID int64, form models.ExpenseForm) (*models.Expense, *models.ExpenseErrors) {
	var parseErrs models.ExpenseErrors

	date, err := ParseDate(form.Date)
	if err != nil {
		parseErrs.Date = MsgInvalidDate
	}
	amountCents, err := ParseAmount(form.Amount)
	if err != nil {
		parseErrs.Amount = MsgInvalidAmount
	}

	errs := Validate(date, form.Category, amountCents, form.Description, s.categories)
	if errs == nil {
		errs = &models.ExpenseErrors{}
	}
	if parseErrs.Date != "" {
		errs.Date = parseErrs.Date
	}
	if parseErrs.Amount != "" {
		errs.Amount = parseErrs.Amount
	}
	if *errs != (models.ExpenseErrors{}) {
		return nil, errs
	}

	return &models.Expense{
		UserID:      userID,
		Date:        date,
		Category:    form.Category,
		AmountCents: amountCents,
		Description: form.Description,
	}, nil
}

func (s *ExpenseService) invalidateSummary(userID int64, date time.Time) {
	key := summaryservice.CacheKey(userID, date.Year(), int(date.Month()))
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to invalidate summary cache", slog.String("key", key), sl.Err(err))
	}
}
